// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2tools

// This file deals with the layout of layered TSS2_RC values, as defined
// in the TCG TSS 2.0 Overview and Common Structures specification, and
// the response code layout from section 6.6 of part 2 of the TPM 2.0
// Library specification.

// StatusCode corresponds to the TSS2_RC type. It is a 32-bit return code
// where the second octet pair identifies the layer of the software stack
// that produced the code, and the low 16 bits carry the layer-local error
// number. An error number of zero always indicates success, regardless of
// the layer.
type StatusCode uint32

const (
	// layerShift is the offset of the layer field in a status code.
	layerShift = 16

	// layerMask selects the layer field of a status code.
	layerMask StatusCode = 0xff << layerShift

	// errorBitsMask selects the layer-local error number of a status code.
	errorBitsMask StatusCode = 0xffff
)

const (
	// LayerTPM is the reserved layer id for codes produced by the TPM
	// device itself (TSS2_TPM_RC_LAYER).
	LayerTPM uint8 = 0

	// LayerSys is the reserved layer id for codes produced by the system
	// API (TSS2_SYS_RC_LAYER).
	LayerSys uint8 = 8

	// LayerMu is the reserved layer id for codes produced by the
	// marshalling and unmarshalling layer (TSS2_MU_RC_LAYER).
	LayerMu uint8 = 9

	// LayerTCTI is the reserved layer id for codes produced by the TPM
	// command transmission interface (TSS2_TCTI_RC_LAYER).
	LayerTCTI uint8 = 10
)

const (
	// The lower 7-bits of format-zero error numbers are the error number.
	statusCodeE0 StatusCode = 0x7f

	// The lower 6-bits of format-one error numbers are the error number.
	statusCodeE1 StatusCode = 0x3f

	// Bit 6 of format-one errors is zero for errors associated with a handle
	// or session, or one for errors associated with a parameter.
	statusCodeP StatusCode = 1 << 6

	// Bit 7 indicates whether the error is a format-zero (0) or format-one
	// code (1).
	statusCodeF StatusCode = 1 << 7

	// Bit 8 of format-zero errors is zero for TPM1.2 errors and one for TPM2
	// errors.
	statusCodeV StatusCode = 1 << 8

	// Bit 10 of format-zero errors is zero for TCG defined errors and one
	// for vendor defined errors.
	statusCodeT StatusCode = 1 << 10

	// Bit 11 of format-zero errors is zero for errors and one for warnings.
	// In format-one errors associated with a handle or session, it is the
	// top bit of the index field and selects sessions over handles.
	statusCodeS StatusCode = 1 << 11

	statusCodeIndex      uint8 = 0xf
	statusCodeIndexShift uint8 = 8

	// Bits 8 to 11 of format-one errors represent the parameter number if P
	// is set or the handle or session number otherwise.
	statusCodeN StatusCode = StatusCode(statusCodeIndex) << statusCodeIndexShift
)

// NewStatusCode composes a status code from a layer id and a layer-local
// error number.
func NewStatusCode(layer uint8, errorBits uint16) StatusCode {
	return StatusCode(layer)<<layerShift | StatusCode(errorBits)
}

// Layer returns the layer field of the status code, identifying the
// component of the stack that the code originated from.
func (rc StatusCode) Layer() uint8 {
	return uint8((rc & layerMask) >> layerShift)
}

// ErrorBits returns the layer-local error number of the status code,
// contained in the low 16 bits.
func (rc StatusCode) ErrorBits() uint16 {
	return uint16(rc & errorBitsMask)
}

// IsSuccess reports whether the status code indicates success. A zero
// error number means success for every layer.
func (rc StatusCode) IsSuccess() bool {
	return rc.ErrorBits() == 0
}

// E returns the E field of the error bits, corresponding to the error
// number of a TPM layer response code.
func (rc StatusCode) E() uint8 {
	if rc.F() {
		return uint8(rc & statusCodeE1)
	}
	return uint8(rc & statusCodeE0)
}

// F returns the F field of the error bits. If it is set, this is a
// format-one response code. If it is not set, this is a format-zero
// response code.
func (rc StatusCode) F() bool {
	return rc&statusCodeF != 0
}

// V returns the V field of the error bits. If this is set in a
// format-zero response code, then it is a TPM2 code. If it is not set,
// then it is a TPM1.2 code.
func (rc StatusCode) V() bool {
	return rc&statusCodeV != 0
}

// T returns the T field of the error bits. If this is set in a
// format-zero response code, then the code is defined by the TPM vendor
// rather than the TCG.
func (rc StatusCode) T() bool {
	return rc&statusCodeT != 0
}

// S returns the S field of the error bits. If this is set in a
// format-zero response code, then the code indicates a warning rather
// than an error.
func (rc StatusCode) S() bool {
	return rc&statusCodeS != 0
}

// P returns the P field of the error bits. If this is set in a
// format-one response code, then the code is associated with a command
// parameter. If it is not set, then the code is associated with a
// command handle or session.
func (rc StatusCode) P() bool {
	return rc&statusCodeP != 0
}

// N returns the N field of the error bits. If the P field is set in a
// format-one response code, then this indicates the parameter number
// from 0x1 to 0xf. If the P field is not set, then the lower 3 bits
// indicate the handle or session number.
func (rc StatusCode) N() uint8 {
	return uint8(rc & statusCodeN >> statusCodeIndexShift)
}
