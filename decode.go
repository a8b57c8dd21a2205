// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2tools

import (
	"fmt"
	"strconv"
)

// Decode returns a human readable description of the supplied status
// code in the format "<layer-name>:<layer-specific-msg>".
//
// The layer-name component is the friendly name of the layer that
// produced the code, or the base-10 layer number if no entry is
// registered for it.
//
// The layer-specific-msg component is produced by the layer's registered
// handler. The TPM layer handler implements the two response code formats
// from section 6.6 of part 2 of the TPM 2.0 Library specification: format
// zero codes render as "<error|warn>(<version>): <description>" and
// format one codes render as "<handle|session|parameter>(<index>):<description>".
// The system, marshalling and TCTI layer handlers return simple strings
// analogous to strerror(3). Where no handler is registered, or the
// handler cannot decode the error number, the error number is rendered
// in hexadecimal - eg, "9:0x3".
//
// An error number of zero renders the layer-specific-msg "success" for
// every layer. Decode never fails - it returns a non-empty string for
// every 32-bit input.
func (r *Registry) Decode(rc StatusCode) string {
	name, handler, ok := r.Lookup(rc.Layer())
	if !ok {
		name = strconv.FormatUint(uint64(rc.Layer()), 10)
	}

	bits := rc.ErrorBits()
	if bits == 0 {
		return name + ":success"
	}

	if handler != nil {
		if msg, ok := handler.DecodeErrorBits(bits); ok {
			return name + ":" + msg
		}
	}

	return fmt.Sprintf("%s:0x%x", name, bits)
}

// decodeTPMErrorBits is the built-in handler for the TPM layer,
// dispatching on the format bit of the error number.
func decodeTPMErrorBits(bits uint16) (string, bool) {
	rc := StatusCode(bits)
	if rc.F() {
		return decodeTPMFmt1(rc)
	}
	return decodeTPMFmt0(rc)
}

func decodeTPMFmt0(rc StatusCode) (string, bool) {
	severity := "error"
	table := fmt0ErrorDescriptions
	if rc.S() {
		severity = "warn"
		table = fmt0WarningDescriptions
	}

	version := "1.2"
	if rc.V() {
		version = "2.0"
	}

	e := rc.E()
	if int(e) >= len(table) {
		return "", false
	}

	desc := table[e]
	if desc == "" {
		desc = "unknown error number"
	}

	return fmt.Sprintf("%s(%s): %s", severity, version, desc), true
}

func decodeTPMFmt1(rc StatusCode) (string, bool) {
	var kind string
	index := rc.N()

	switch {
	case rc.P():
		kind = "parameter"
	case rc.S():
		// Bit 11 is the top bit of the index field. When it is set the
		// code is associated with a session rather than a handle.
		kind = "session"
		index &= 0x7
	default:
		kind = "handle"
	}

	// An index of zero means the error is not associated with a specific
	// handle, session or parameter.
	indexStr := "unk"
	if index != 0 {
		indexStr = strconv.FormatUint(uint64(index), 10)
	}

	desc := fmt1Descriptions[fmt1ErrValue]
	if e := rc.E(); int(e) < len(fmt1Descriptions) && fmt1Descriptions[e] != "" {
		desc = fmt1Descriptions[e]
	}

	return fmt.Sprintf("%s(%s):%s", kind, indexStr, desc), true
}

// decodeBaseErrorBits is the built-in handler for the system,
// marshalling and TCTI layers, which all share the TSS2 base error
// numbers.
func decodeBaseErrorBits(bits uint16) (string, bool) {
	if int(bits) > len(baseDescriptions) {
		return "", false
	}
	return baseDescriptions[bits-1], true
}
