// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2tools_test

import (
	. "gopkg.in/check.v1"

	. "github.com/canonical/go-tpm2-tools"
)

type registrySuite struct {
	registry *Registry
}

var _ = Suite(&registrySuite{})

func (s *registrySuite) SetUpTest(c *C) {
	s.registry = NewRegistry()
}

func mockHandler(msg string) LayerHandler {
	return LayerHandlerFunc(func(bits uint16) (string, bool) {
		return msg, true
	})
}

func (s *registrySuite) TestReservedLayers(c *C) {
	for _, layer := range []uint8{LayerTPM, LayerSys, LayerMu, LayerTCTI} {
		name, handler, ok := s.registry.Lookup(layer)
		c.Assert(ok, Equals, true)
		c.Check(name, Not(Equals), "")
		c.Check(handler, NotNil)
	}

	name, _, _ := s.registry.Lookup(LayerTPM)
	c.Check(name, Equals, "tpm")
	name, _, _ = s.registry.Lookup(LayerSys)
	c.Check(name, Equals, "sys")
	name, _, _ = s.registry.Lookup(LayerMu)
	c.Check(name, Equals, "mu")
	name, _, _ = s.registry.Lookup(LayerTCTI)
	c.Check(name, Equals, "tcti")
}

func (s *registrySuite) TestRegisterReservedFails(c *C) {
	for _, layer := range []uint8{LayerTPM, LayerSys, LayerMu, LayerTCTI} {
		c.Check(s.registry.Register(layer, "foo", mockHandler("foo")), Equals, false)

		// The reserved entry must be untouched.
		name, handler, ok := s.registry.Lookup(layer)
		c.Assert(ok, Equals, true)
		c.Check(name, Not(Equals), "foo")
		c.Check(handler, NotNil)

		c.Check(s.registry.Unregister(layer), Equals, false)
		_, _, ok = s.registry.Lookup(layer)
		c.Check(ok, Equals, true)
	}
}

func (s *registrySuite) TestRegisterNameLength(c *C) {
	c.Check(s.registry.Register(1, "", mockHandler("x")), Equals, false)
	c.Check(s.registry.Register(1, "toolong", mockHandler("x")), Equals, false)

	_, _, ok := s.registry.Lookup(1)
	c.Check(ok, Equals, false)

	c.Check(s.registry.Register(1, "a", mockHandler("x")), Equals, true)
	c.Check(s.registry.Register(2, "abcd", mockHandler("x")), Equals, true)

	name, _, ok := s.registry.Lookup(1)
	c.Assert(ok, Equals, true)
	c.Check(name, Equals, "a")
	name, _, ok = s.registry.Lookup(2)
	c.Assert(ok, Equals, true)
	c.Check(name, Equals, "abcd")
}

func (s *registrySuite) TestRegisterReplaces(c *C) {
	c.Check(s.registry.Register(7, "old", mockHandler("old message")), Equals, true)
	c.Check(s.registry.Register(7, "new", mockHandler("new message")), Equals, true)

	name, handler, ok := s.registry.Lookup(7)
	c.Assert(ok, Equals, true)
	c.Check(name, Equals, "new")

	msg, ok := handler.DecodeErrorBits(1)
	c.Assert(ok, Equals, true)
	c.Check(msg, Equals, "new message")
}

func (s *registrySuite) TestUnregister(c *C) {
	c.Check(s.registry.Register(7, "foo", mockHandler("foo")), Equals, true)
	c.Check(s.registry.Unregister(7), Equals, true)

	_, _, ok := s.registry.Lookup(7)
	c.Check(ok, Equals, false)

	// Unregistering a layer that was never registered succeeds too.
	c.Check(s.registry.Unregister(200), Equals, true)

	// A nil handler unregisters regardless of the supplied name.
	c.Check(s.registry.Register(7, "foo", mockHandler("foo")), Equals, true)
	c.Check(s.registry.Register(7, "invalid name length", nil), Equals, true)
	_, _, ok = s.registry.Lookup(7)
	c.Check(ok, Equals, false)
}

func (s *registrySuite) TestDefaultRegistry(c *C) {
	c.Assert(Register(0xe0, "test", mockHandler("from default")), Equals, true)
	defer Unregister(0xe0)

	c.Check(Decode(NewStatusCode(0xe0, 1)), Equals, "test:from default")

	c.Check(Unregister(0xe0), Equals, true)
	c.Check(Decode(NewStatusCode(0xe0, 1)), Equals, "224:0x1")
}
