// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2tools

// Outcome is the externally visible result category derived from a
// status code. The ordinal values form the exit code contract of the
// command line tools - do not reorder or renumber them.
type Outcome int

const (
	// Success indicates that the operation succeeded.
	Success Outcome = iota

	// GeneralError is the catch all for failures that don't fit any of
	// the other categories.
	GeneralError

	// OptionError indicates invalid command line options or usage.
	OptionError

	// AuthError indicates an authorization failure.
	AuthError

	// TCTIError indicates a failure to communicate with the TPM device.
	TCTIError

	// Unsupported indicates that the requested operation is not
	// implemented or not supported.
	Unsupported
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case GeneralError:
		return "general error"
	case OptionError:
		return "option error"
	case AuthError:
		return "authorization error"
	case TCTIError:
		return "TCTI error"
	case Unsupported:
		return "unsupported"
	}
	return "invalid outcome"
}

// ExitCode returns the outcome as a process exit code.
func (o Outcome) ExitCode() int {
	return int(o)
}

// Classify flattens the supplied status code into its error number and
// maps it to an Outcome. The mapping is total and deterministic - error
// numbers that don't match a known authorization, transport, usage or
// unsupported indication map to GeneralError.
func Classify(rc StatusCode) Outcome {
	bits := StatusCode(rc.ErrorBits())

	if bits == 0 {
		return Success
	}

	if bits.F() {
		switch bits.E() {
		case fmt1ErrAuthFail, fmt1ErrBadAuth, fmt1ErrPP:
			return AuthError
		}
		return GeneralError
	}

	if bits.V() {
		if bits.S() {
			return GeneralError
		}
		switch bits.E() {
		case fmt0ErrAuthType, fmt0ErrAuthMissing, fmt0ErrAuthUnavailable:
			return AuthError
		case fmt0ErrCommandCode:
			return Unsupported
		}
		return GeneralError
	}

	// Error numbers without the format or version bits set are TSS2 base
	// errors from the layers above the TPM.
	switch uint16(bits) {
	case baseErrNotImplemented, baseErrNotSupported:
		return Unsupported
	case baseErrNoConnection, baseErrIOError, baseErrMalformedResponse,
		baseErrIncompatibleTCTI, baseErrBadTCTIStructure:
		return TCTIError
	case baseErrBadValue:
		return OptionError
	}
	return GeneralError
}
