// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2tools

import (
	"github.com/canonical/go-tpm2"

	"golang.org/x/xerrors"
)

// ErrorCode values below errorCode1Start correspond to format-zero TPM
// response codes. Values at or above it correspond to format-one codes,
// offset by errorCode1Start.
const errorCode1Start tpm2.ErrorCode = 0x80

func encodeTPMErrorBits(code tpm2.ErrorCode) StatusCode {
	if code >= errorCode1Start {
		return statusCodeF | StatusCode(code-errorCode1Start)
	}
	return statusCodeV | StatusCode(code)
}

// StatusFromError reconstructs the layered status code associated with an
// error returned from the github.com/canonical/go-tpm2 stack, searching
// the error's chain for the TPM and TCTI error types that the stack
// produces. It returns false if the error doesn't carry a status code.
func StatusFromError(err error) (StatusCode, bool) {
	if err == nil {
		return 0, true
	}

	var pe *tpm2.TPMParameterError
	if xerrors.As(err, &pe) {
		rc := encodeTPMErrorBits(pe.Code) | statusCodeP
		rc |= StatusCode(pe.Index&int(statusCodeIndex)) << statusCodeIndexShift
		return rc, true
	}

	var se *tpm2.TPMSessionError
	if xerrors.As(err, &se) {
		rc := encodeTPMErrorBits(se.Code) | statusCodeS
		rc |= StatusCode(se.Index&0x7) << statusCodeIndexShift
		return rc, true
	}

	var he *tpm2.TPMHandleError
	if xerrors.As(err, &he) {
		rc := encodeTPMErrorBits(he.Code)
		rc |= StatusCode(he.Index&0x7) << statusCodeIndexShift
		return rc, true
	}

	var e *tpm2.TPMError
	if xerrors.As(err, &e) {
		return encodeTPMErrorBits(e.Code), true
	}

	var we *tpm2.TPMWarning
	if xerrors.As(err, &we) {
		return statusCodeV | statusCodeS | StatusCode(we.Code), true
	}

	var ve *tpm2.TPMVendorError
	if xerrors.As(err, &ve) {
		return StatusCode(ve.Code), true
	}

	var e12 *tpm2.TPM1Error
	if xerrors.As(err, &e12) {
		return StatusCode(e12.Code), true
	}

	var te *tpm2.TctiError
	if xerrors.As(err, &te) {
		return NewStatusCode(LayerTCTI, baseErrIOError), true
	}

	return 0, false
}

// OutcomeFromError classifies an error returned from the TPM stack,
// mapping errors that don't carry a status code to GeneralError.
func OutcomeFromError(err error) Outcome {
	rc, ok := StatusFromError(err)
	if !ok {
		return GeneralError
	}
	return Classify(rc)
}
