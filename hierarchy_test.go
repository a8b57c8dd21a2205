// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2tools_test

import (
	. "gopkg.in/check.v1"

	"github.com/canonical/go-tpm2"

	. "github.com/canonical/go-tpm2-tools"
)

type hierarchySuite struct{}

var _ = Suite(&hierarchySuite{})

func (s *hierarchySuite) TestParseHierarchyTokens(c *C) {
	for _, data := range []struct {
		arg      string
		expected tpm2.Handle
	}{
		{"owner", tpm2.HandleOwner},
		{"o", tpm2.HandleOwner},
		{"ow", tpm2.HandleOwner},
		{"platform", tpm2.HandlePlatform},
		{"p", tpm2.HandlePlatform},
		{"endorsement", tpm2.HandleEndorsement},
		{"e", tpm2.HandleEndorsement},
		{"null", tpm2.HandleNull},
		{"n", tpm2.HandleNull},
		{"lockout", tpm2.HandleLockout},
		{"l", tpm2.HandleLockout},
	} {
		handle, err := ParseHierarchy(data.arg, HierarchyAll)
		c.Check(err, IsNil, Commentf("arg %q", data.arg))
		c.Check(handle, Equals, data.expected, Commentf("arg %q", data.arg))
	}
}

func (s *hierarchySuite) TestParseHierarchyNumeric(c *C) {
	handle, err := ParseHierarchy("0x40000001", HierarchyAll)
	c.Check(err, IsNil)
	c.Check(handle, Equals, tpm2.HandleOwner)

	// Numeric arguments aren't restricted to the permanent hierarchy
	// handles.
	handle, err = ParseHierarchy("0x81000001", HierarchyAll)
	c.Check(err, IsNil)
	c.Check(handle, Equals, tpm2.Handle(0x81000001))
}

func (s *hierarchySuite) TestParseHierarchyInvalid(c *C) {
	_, err := ParseHierarchy("", HierarchyAll)
	c.Check(err, ErrorMatches, `no hierarchy provided`)

	_, err = ParseHierarchy("bogus", HierarchyAll)
	c.Check(err, ErrorMatches, `invalid hierarchy "bogus", .*`)
}

func (s *hierarchySuite) TestParseHierarchyFiltered(c *C) {
	_, err := ParseHierarchy("owner", HierarchyPlatform|HierarchyEndorsement)
	c.Check(err, ErrorMatches, `owner hierarchy is not supported by this command`)

	_, err = ParseHierarchy("lockout", HierarchyOwner)
	c.Check(err, ErrorMatches, `lockout hierarchy is not supported by this command`)

	// The filter applies to numeric arguments that name a hierarchy
	// handle too.
	_, err = ParseHierarchy("0x40000001", HierarchyPlatform)
	c.Check(err, ErrorMatches, `owner hierarchy is not supported by this command`)

	handle, err := ParseHierarchy("platform", HierarchyPlatform)
	c.Check(err, IsNil)
	c.Check(handle, Equals, tpm2.HandlePlatform)
}

func (s *hierarchySuite) TestCreatePrimaryRequiresHierarchyHandle(c *C) {
	// Numeric hierarchy arguments can name handles outside of the
	// permanent range. CreatePrimary rejects them before touching the
	// TPM.
	for _, handle := range []tpm2.Handle{0x80000000, 0x81000001, 0x02000000} {
		_, err := CreatePrimary(nil, handle, nil, nil, nil, nil)
		c.Check(err, ErrorMatches, `handle 0x[[:xdigit:]]{8} is not a hierarchy`)
	}
}
