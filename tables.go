// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2tools

// The description tables in this file contain the response code wording
// from part 2 of the TPM 2.0 Library specification and the base error
// numbers from the TCG TSS 2.0 Overview and Common Structures
// specification. Entries that the specifications leave unassigned are
// holes in the tables.

// Format-zero TPM error numbers referenced outside of the tables.
const (
	fmt0ErrAuthType        uint8 = 0x24
	fmt0ErrAuthMissing     uint8 = 0x25
	fmt0ErrAuthUnavailable uint8 = 0x2f
	fmt0ErrCommandCode     uint8 = 0x43
)

var fmt0ErrorDescriptions = []string{
	0x00: "TPM not initialized by TPM2_Startup or already initialized",
	0x01: "commands not being accepted because of a TPM failure",
	0x03: "improper use of a sequence handle",
	0x0b: "not currently used",
	0x19: "not currently used",
	0x1e: "bad tag",
	0x20: "the command is disabled",
	0x21: "command failed because audit sequence required exclusivity",
	0x24: "authorization handle is not correct for command",
	0x25: "command requires an authorization session for handle and it is not present",
	0x26: "policy failure in math operation or an invalid authPolicy value",
	0x27: "PCR check fail",
	0x28: "PCR have changed since checked",
	0x2d: "the TPM is not in the right mode for upgrade",
	0x2e: "context ID counter is at maximum",
	0x2f: "authValue or authPolicy is not available for selected entity",
	0x30: "a _TPM_Init and Startup(CLEAR) is required before the TPM can resume operation",
	0x31: "the protection algorithms (hash and symmetric) are not reasonably balanced",
	0x42: "command commandSize value is inconsistent with contents of the command buffer",
	0x43: "command code not supported",
	0x44: "the value of authorizationSize is out of range or the number of octets in the authorization area is greater than required",
	0x45: "use of an authorization session with a context command or another command that cannot have an authorization session",
	0x46: "NV offset+size is out of range",
	0x47: "requested allocation size is larger than allowed",
	0x48: "NV access locked",
	0x49: "NV access authorization fails in command actions",
	0x4a: "an NV index is used before being initialized or the state saved by TPM2_Shutdown(STATE) could not be restored",
	0x4b: "insufficient space for NV allocation",
	0x4c: "NV index or persistent object already defined",
	0x50: "context in TPM2_ContextLoad() is not valid",
	0x51: "cpHash value already set or not correct for use",
	0x52: "handle for parent is not a valid parent",
	0x53: "some function needs testing",
	0x54: "an internal function cannot process a request due to an unspecified problem",
	0x55: "the sensitive area did not unmarshal correctly after decryption",
}

var fmt0WarningDescriptions = []string{
	0x01: "gap for context ID is too large",
	0x02: "out of memory for object contexts",
	0x03: "out of memory for session contexts",
	0x04: "out of shared object/session memory or need space for internal operations",
	0x05: "out of session handles",
	0x06: "out of object handles",
	0x07: "bad locality",
	0x08: "the TPM has suspended operation on the command; forward progress was made and the command may be retried",
	0x09: "the command was canceled",
	0x0a: "TPM is performing self-tests",
	0x10: "the 1st handle in the handle area references a transient object or session that is not loaded",
	0x11: "the 2nd handle in the handle area references a transient object or session that is not loaded",
	0x12: "the 3rd handle in the handle area references a transient object or session that is not loaded",
	0x13: "the 4th handle in the handle area references a transient object or session that is not loaded",
	0x14: "the 5th handle in the handle area references a transient object or session that is not loaded",
	0x15: "the 6th handle in the handle area references a transient object or session that is not loaded",
	0x16: "the 7th handle in the handle area references a transient object or session that is not loaded",
	0x18: "the 1st authorization session handle references a session that is not loaded",
	0x19: "the 2nd authorization session handle references a session that is not loaded",
	0x1a: "the 3rd authorization session handle references a session that is not loaded",
	0x1b: "the 4th authorization session handle references a session that is not loaded",
	0x1c: "the 5th authorization session handle references a session that is not loaded",
	0x1d: "the 6th authorization session handle references a session that is not loaded",
	0x1e: "the 7th authorization session handle references a session that is not loaded",
	0x20: "the TPM is rate-limiting accesses to prevent wearout of NV",
	0x21: "authorizations for objects subject to DA protection are not allowed at this time because the TPM is in DA lockout mode",
	0x22: "the TPM was not able to start the command",
	0x23: "the command may require writing of NV and NV is not currently accessible",
}

// Format-one TPM error numbers referenced outside of the tables.
const (
	fmt1ErrValue    uint8 = 0x04
	fmt1ErrAuthFail uint8 = 0x0e
	fmt1ErrPP       uint8 = 0x10
	fmt1ErrBadAuth  uint8 = 0x22
)

// The entry for fmt1ErrValue doubles as the description for error
// numbers outside of the table.
var fmt1Descriptions = []string{
	0x01: "asymmetric algorithm not supported or not correct",
	0x02: "inconsistent attributes",
	0x03: "hash algorithm not supported or not appropriate",
	0x04: "value is out of range or is not correct for the context",
	0x05: "hierarchy is not enabled or is not correct for the use",
	0x07: "key size is not supported",
	0x08: "mask generation function not supported",
	0x09: "mode of operation not supported",
	0x0a: "the type of the value is not appropriate for the use",
	0x0b: "the handle is not correct for the use",
	0x0c: "unsupported key derivation function or function not appropriate for use",
	0x0d: "value was out of allowed range",
	0x0e: "the authorization HMAC check failed and DA counter incremented",
	0x0f: "invalid nonce size or nonce value mismatch",
	0x10: "authorization requires assertion of PP",
	0x12: "unsupported or incompatible scheme",
	0x15: "structure is the wrong size",
	0x16: "unsupported symmetric algorithm or key size, or not appropriate for instance",
	0x17: "incorrect structure tag",
	0x18: "union selector is incorrect",
	0x1a: "the TPM was unable to unmarshal a value because there were not enough octets in the input buffer",
	0x1b: "the signature is not valid",
	0x1c: "key fields are not compatible with the selected use",
	0x1d: "a policy check failed",
	0x1f: "integrity check failed",
	0x20: "invalid ticket",
	0x21: "reserved bits not set to zero as required",
	0x22: "authorization failure without DA implications",
	0x23: "the policy has expired",
	0x24: "the commandCode in the policy is not the commandCode of the command",
	0x25: "public and sensitive portions of an object are not cryptographically bound",
	0x26: "curve not supported",
	0x27: "point is not on the required curve",
}

// TSS2 base error numbers, shared by the system, marshalling and TCTI
// layers. Those referenced outside of the table are named.
const (
	baseErrNotImplemented    uint16 = 0x02
	baseErrNoConnection      uint16 = 0x08
	baseErrIOError           uint16 = 0x0a
	baseErrBadValue          uint16 = 0x0b
	baseErrMalformedResponse uint16 = 0x11
	baseErrIncompatibleTCTI  uint16 = 0x14
	baseErrNotSupported      uint16 = 0x15
	baseErrBadTCTIStructure  uint16 = 0x16
)

// Indexed by base error number minus one.
var baseDescriptions = []string{
	"catch all for all errors not otherwise specified",
	"the called functionality isn't implemented",
	"a context structure is bad",
	"the passed in ABI version doesn't match the called module's ABI version",
	"a pointer is NULL that isn't allowed to be NULL",
	"a buffer isn't large enough",
	"a function was called in the wrong order",
	"could not connect to the next lower layer",
	"the operation timed out and must be called again to be completed",
	"IO failure",
	"a parameter has a bad value",
	"the operation is not permitted",
	"session structures were sent, but the command doesn't use them or doesn't use the specified number of them",
	"the command doesn't support the decrypt parameter",
	"the command doesn't support the encrypt parameter",
	"the size of a parameter is incorrect",
	"the response is malformed",
	"the context is not large enough",
	"the response is not long enough",
	"the TCTI version is unknown or unusable",
	"the functionality is not supported",
	"the TCTI context structure is bad",
	"failed to allocate memory",
	"the ESYS_TR resource object is bad",
	"multiple sessions were marked with attribute decrypt",
	"multiple sessions were marked with attribute encrypt",
	"the response HMAC from the TPM failed verification",
}
