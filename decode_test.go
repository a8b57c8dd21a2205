// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2tools_test

import (
	. "gopkg.in/check.v1"

	. "github.com/canonical/go-tpm2-tools"
)

type decodeSuite struct {
	registry *Registry
}

var _ = Suite(&decodeSuite{})

func (s *decodeSuite) SetUpTest(c *C) {
	s.registry = NewRegistry()
}

func (s *decodeSuite) TestDecodeSuccess(c *C) {
	// A zero error number renders "success" for every layer, registered
	// or not.
	c.Check(s.registry.Decode(0x00000000), Equals, "tpm:success")
	c.Check(s.registry.Decode(NewStatusCode(LayerSys, 0)), Equals, "sys:success")
	c.Check(s.registry.Decode(NewStatusCode(5, 0)), Equals, "5:success")
	c.Check(s.registry.Decode(NewStatusCode(0xff, 0)), Equals, "255:success")
}

func (s *decodeSuite) TestDecodeUnknownLayer(c *C) {
	c.Check(s.registry.Decode(NewStatusCode(5, 0x3)), Equals, "5:0x3")
	c.Check(s.registry.Decode(NewStatusCode(0xff, 0xbeef)), Equals, "255:0xbeef")
}

func (s *decodeSuite) TestDecodeTPMFmt0(c *C) {
	// TPM_RC_COMMAND_CODE
	c.Check(s.registry.Decode(0x00000143), Equals, "tpm:error(2.0): command code not supported")
	// TPM_RC_NV_UNAVAILABLE
	c.Check(s.registry.Decode(0x00000923), Equals,
		"tpm:warn(2.0): the command may require writing of NV and NV is not currently accessible")
	// TPM_RC_BAD_TAG, the TPM1.2 compatibility code.
	c.Check(s.registry.Decode(0x0000001e), Equals, "tpm:error(1.2): bad tag")
}

func (s *decodeSuite) TestDecodeTPMFmt0Holes(c *C) {
	// 0x02 is unassigned but inside the error table.
	c.Check(s.registry.Decode(0x00000102), Equals, "tpm:error(2.0): unknown error number")
	// 0x0b is unassigned but inside the warning table.
	c.Check(s.registry.Decode(0x0000090b), Equals, "tpm:warn(2.0): unknown error number")
}

func (s *decodeSuite) TestDecodeTPMFmt0OutOfRange(c *C) {
	// An error number beyond the table is a decode failure and renders
	// the generic hexadecimal form.
	c.Check(s.registry.Decode(0x00000160), Equals, "tpm:0x160")
	c.Check(s.registry.Decode(0x00000936), Equals, "tpm:0x936")
}

func (s *decodeSuite) TestDecodeTPMFmt1(c *C) {
	// TPM_RC_VALUE with no associated handle.
	c.Check(s.registry.Decode(0x00000084), Equals,
		"tpm:handle(unk):value is out of range or is not correct for the context")
	// TPM_RC_HANDLE associated with handle 2.
	c.Check(s.registry.Decode(0x0000028b), Equals,
		"tpm:handle(2):the handle is not correct for the use")
	// TPM_RC_ECC_POINT associated with parameter 5.
	c.Check(s.registry.Decode(0x000005e7), Equals,
		"tpm:parameter(5):point is not on the required curve")
	// TPM_RC_KEY associated with session 3.
	c.Check(s.registry.Decode(0x00000b9c), Equals,
		"tpm:session(3):key fields are not compatible with the selected use")
}

func (s *decodeSuite) TestDecodeTPMFmt1OutOfRange(c *C) {
	// Error numbers outside of the format-one table render the table's
	// own out-of-range description rather than failing.
	c.Check(s.registry.Decode(0x000000ae), Equals,
		"tpm:handle(unk):value is out of range or is not correct for the context")
	c.Check(s.registry.Decode(0x000005fe), Equals,
		"tpm:parameter(5):value is out of range or is not correct for the context")
}

func (s *decodeSuite) TestDecodeBaseLayers(c *C) {
	c.Check(s.registry.Decode(NewStatusCode(LayerSys, 0xb)), Equals,
		"sys:a parameter has a bad value")
	c.Check(s.registry.Decode(NewStatusCode(LayerMu, 0x3)), Equals,
		"mu:a context structure is bad")
	c.Check(s.registry.Decode(NewStatusCode(LayerTCTI, 0xa)), Equals,
		"tcti:IO failure")
}

func (s *decodeSuite) TestDecodeBaseOutOfRange(c *C) {
	c.Check(s.registry.Decode(NewStatusCode(LayerSys, 0x7fff)), Equals, "sys:0x7fff")
}

func (s *decodeSuite) TestDecodeCustomHandler(c *C) {
	c.Assert(s.registry.Register(42, "abc", LayerHandlerFunc(func(bits uint16) (string, bool) {
		if bits == 0x6 {
			return "bad thing", true
		}
		return "", false
	})), Equals, true)

	c.Check(s.registry.Decode(NewStatusCode(42, 0x6)), Equals, "abc:bad thing")

	// The handler doesn't recognize this error number, so the decoder
	// falls back to hexadecimal with the friendly layer name.
	c.Check(s.registry.Decode(NewStatusCode(42, 0x7)), Equals, "abc:0x7")

	// The success short-circuit applies before the handler is consulted.
	c.Check(s.registry.Decode(NewStatusCode(42, 0)), Equals, "abc:success")

	c.Assert(s.registry.Unregister(42), Equals, true)
	c.Check(s.registry.Decode(NewStatusCode(42, 0x6)), Equals, "42:0x6")
}

func (s *decodeSuite) TestDecodeIsTotal(c *C) {
	// Every layer with every format of error number produces a non-empty
	// string.
	for layer := 0; layer < 256; layer++ {
		for _, bits := range []uint16{0, 0x1, 0x84, 0x143, 0x923, 0x5e7, 0xbf, 0x7fff, 0xffff} {
			if s.registry.Decode(NewStatusCode(uint8(layer), bits)) == "" {
				c.Fatalf("empty decode for layer %d bits 0x%x", layer, bits)
			}
		}
	}
}
