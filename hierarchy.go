// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2tools

import (
	"fmt"
	"strings"

	"github.com/canonical/go-tpm2"

	"golang.org/x/xerrors"
)

// HierarchyFlags restricts the set of hierarchies that ParseHierarchy
// will accept.
type HierarchyFlags int

const (
	HierarchyOwner HierarchyFlags = 1 << iota
	HierarchyPlatform
	HierarchyEndorsement
	HierarchyNull
	HierarchyLockout

	HierarchyAll = HierarchyOwner | HierarchyPlatform | HierarchyEndorsement | HierarchyNull | HierarchyLockout
)

var hierarchyTokens = []struct {
	token  string
	handle tpm2.Handle
	flag   HierarchyFlags
}{
	{"owner", tpm2.HandleOwner, HierarchyOwner},
	{"platform", tpm2.HandlePlatform, HierarchyPlatform},
	{"endorsement", tpm2.HandleEndorsement, HierarchyEndorsement},
	{"null", tpm2.HandleNull, HierarchyNull},
	{"lockout", tpm2.HandleLockout, HierarchyLockout},
}

// ParseHierarchy parses a hierarchy from a command line argument. The
// argument can be any non-empty prefix of "owner", "platform",
// "endorsement", "null" or "lockout", or a numeric handle literal as
// understood by ParseHandle. The parsed handle is filtered against the
// set of hierarchies permitted by flags.
func ParseHierarchy(arg string, flags HierarchyFlags) (tpm2.Handle, error) {
	if arg == "" {
		return tpm2.HandleUnassigned, xerrors.New("no hierarchy provided")
	}

	var handle tpm2.Handle
	found := false
	for _, t := range hierarchyTokens {
		if strings.HasPrefix(t.token, arg) {
			handle = t.handle
			found = true
			break
		}
	}

	if !found {
		// The argument may be a raw handle literal, which is not
		// necessarily one of the permanent hierarchy handles.
		v, err := ParseHandle(arg)
		if err != nil {
			return tpm2.HandleUnassigned, xerrors.Errorf("invalid hierarchy %q, expected "+
				"[o|p|e|n|l] or a handle number: %w", arg, err)
		}
		handle = tpm2.Handle(v)
	}

	for _, t := range hierarchyTokens {
		if handle == t.handle && flags&t.flag == 0 {
			return tpm2.HandleUnassigned, fmt.Errorf("%s hierarchy is not supported by this command", t.token)
		}
	}

	return handle, nil
}

// PrimaryObject holds the results of a TPM2_CreatePrimary command. The
// caller owns all of the fields - the transient object is released by
// calling Close.
type PrimaryObject struct {
	Context        tpm2.ResourceContext
	Public         *tpm2.Public
	CreationData   *tpm2.CreationData
	CreationHash   tpm2.Digest
	CreationTicket *tpm2.TkCreation
}

// Close flushes the transient object from the TPM. It is safe to call
// more than once.
func (p *PrimaryObject) Close(tpm *tpm2.TPMContext) error {
	if p.Context == nil {
		return nil
	}
	if err := tpm.FlushContext(p.Context); err != nil {
		return xerrors.Errorf("cannot flush primary object: %w", err)
	}
	p.Context = nil
	return nil
}

// AcquireSession starts an unbound, unsalted session of the specified
// type for authorizing subsequent commands.
func AcquireSession(tpm *tpm2.TPMContext, sessionType tpm2.SessionType, authHash tpm2.HashAlgorithmId) (tpm2.SessionContext, error) {
	session, err := tpm.StartAuthSession(nil, nil, sessionType, nil, authHash)
	if err != nil {
		return nil, xerrors.Errorf("cannot start auth session: %w", err)
	}
	return session, nil
}

// CreatePrimary creates a primary object in the specified hierarchy from
// the supplied template, using auth to authorize use of the hierarchy.
// On success the returned PrimaryObject owns the transient object and
// the creation outputs; nothing is allocated on failure.
func CreatePrimary(tpm *tpm2.TPMContext, hierarchy tpm2.Handle, inSensitive *tpm2.SensitiveCreate,
	template *tpm2.Public, auth []byte, authSession tpm2.SessionContext) (*PrimaryObject, error) {
	if hierarchy.Type() != tpm2.HandleTypePermanent {
		return nil, fmt.Errorf("handle 0x%08x is not a hierarchy", uint32(hierarchy))
	}

	primary := tpm.GetPermanentContext(hierarchy)
	primary.SetAuthValue(auth)

	context, public, creationData, creationHash, creationTicket, err := tpm.CreatePrimary(
		primary, inSensitive, template, nil, nil, authSession)
	if err != nil {
		return nil, xerrors.Errorf("cannot create primary object in hierarchy 0x%08x: %w",
			uint32(hierarchy), err)
	}

	return &PrimaryObject{
		Context:        context,
		Public:         public,
		CreationData:   creationData,
		CreationHash:   creationHash,
		CreationTicket: creationTicket}, nil
}
