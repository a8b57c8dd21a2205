// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/canonical/go-tpm2"

	tpm2tools "github.com/canonical/go-tpm2-tools"
)

var policyCommandCodeParams struct {
	session string
	policy  string
}

// commandCodes maps the command name accepted on the command line to its
// TPM command code. Numeric codes are accepted for anything not listed.
var commandCodes = map[string]tpm2.CommandCode{
	"activatecredential": tpm2.CommandActivateCredential,
	"certify":            tpm2.CommandCertify,
	"create":             tpm2.CommandCreate,
	"createprimary":      tpm2.CommandCreatePrimary,
	"duplicate":          tpm2.CommandDuplicate,
	"nvread":             tpm2.CommandNVRead,
	"nvwrite":            tpm2.CommandNVWrite,
	"quote":              tpm2.CommandQuote,
	"sign":               tpm2.CommandSign,
	"unseal":             tpm2.CommandUnseal,
}

func parseCommandCode(arg string) (tpm2.CommandCode, error) {
	if code, ok := commandCodes[arg]; ok {
		return code, nil
	}
	v, err := tpm2tools.ParseHandle(arg)
	if err != nil {
		return 0, fmt.Errorf("unknown command %q", arg)
	}
	return tpm2.CommandCode(v), nil
}

// restoreSession recreates a session context from its serialized form,
// produced by HandleContext.SerializeToBytes.
func restoreSession(data []byte) (tpm2.SessionContext, error) {
	context, _, err := tpm2.CreateHandleContextFromBytes(data)
	if err != nil {
		return nil, xerrors.Errorf("cannot restore session context: %w", err)
	}
	session, ok := context.(tpm2.SessionContext)
	if !ok {
		return nil, fmt.Errorf("context does not correspond to a session")
	}
	return session, nil
}

var policyCommandCodeCmd = &cobra.Command{
	Use:   "policycommandcode <command>",
	Short: "Restrict a policy session to a specific command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := parseCommandCode(args[0])
		if err != nil {
			return optionError("%v", err)
		}

		var sessionBlob []byte
		if policyCommandCodeParams.session != "" {
			sessionBlob, err = ioutil.ReadFile(policyCommandCodeParams.session)
			if err != nil {
				return optionError("cannot read session file: %v", err)
			}
		}

		return runTool(func(tpm *tpm2.TPMContext) error {
			var session tpm2.SessionContext
			if sessionBlob != nil {
				session, err = restoreSession(sessionBlob)
				if err != nil {
					return err
				}
			} else {
				// Trial session so that the computed digest can be used
				// in an object's auth policy.
				session, err = tpm2tools.AcquireSession(tpm, tpm2.SessionTypeTrial, tpm2.HashAlgorithmSHA256)
				if err != nil {
					return err
				}
				defer tpm.FlushContext(session)
			}

			if err := tpm.PolicyCommandCode(session, code); err != nil {
				return xerrors.Errorf("cannot execute PolicyCommandCode: %w", err)
			}

			digest, err := tpm.PolicyGetDigest(session)
			if err != nil {
				return xerrors.Errorf("cannot fetch policy digest: %w", err)
			}

			fmt.Println(hex.EncodeToString(digest))
			if policyCommandCodeParams.policy != "" {
				if err := ioutil.WriteFile(policyCommandCodeParams.policy, digest, 0644); err != nil {
					return xerrors.Errorf("cannot write policy digest: %w", err)
				}
			}
			return nil
		})
	},
}

func init() {
	policyCommandCodeCmd.Flags().StringVarP(&policyCommandCodeParams.session, "session", "S", "", "file containing the serialized policy session to update")
	policyCommandCodeCmd.Flags().StringVarP(&policyCommandCodeParams.policy, "policy", "L", "", "file to write the policy digest to")
	rootCmd.AddCommand(policyCommandCodeCmd)
}
