// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package main

import (
	"io/ioutil"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/canonical/go-tpm2"
	"github.com/canonical/go-tpm2/mu"

	tpm2tools "github.com/canonical/go-tpm2-tools"
)

var signParams struct {
	key     string
	auth    string
	halg    string
	rawHash bool
	output  string
}

var hashAlgorithms = map[string]tpm2.HashAlgorithmId{
	"sha1":   tpm2.HashAlgorithmSHA1,
	"sha256": tpm2.HashAlgorithmSHA256,
	"sha384": tpm2.HashAlgorithmSHA384,
	"sha512": tpm2.HashAlgorithmSHA512,
}

var signCmd = &cobra.Command{
	Use:   "sign <file>",
	Short: "Sign a message or digest with a key loaded in the TPM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		alg, ok := hashAlgorithms[signParams.halg]
		if !ok {
			return optionError("unsupported hash algorithm %q", signParams.halg)
		}

		handle, err := tpm2tools.ParseHandle(signParams.key)
		if err != nil {
			return optionError("invalid key handle %q: %v", signParams.key, err)
		}

		data, err := ioutil.ReadFile(args[0])
		if err != nil {
			return optionError("cannot read input file: %v", err)
		}

		var digest tpm2.Digest
		if signParams.rawHash {
			if len(data) != alg.Size() {
				return optionError("digest file has wrong size %d for %s", len(data), signParams.halg)
			}
			digest = tpm2.Digest(data)
		} else {
			h := alg.NewHash()
			h.Write(data)
			digest = h.Sum(nil)
		}

		return runTool(func(tpm *tpm2.TPMContext) error {
			keyContext, err := tpm.CreateResourceContextFromTPM(tpm2.Handle(handle))
			if err != nil {
				return xerrors.Errorf("cannot access key object: %w", err)
			}
			keyContext.SetAuthValue([]byte(signParams.auth))

			scheme := &tpm2.SigScheme{
				Scheme: tpm2.SigSchemeAlgRSASSA,
				Details: &tpm2.SigSchemeU{
					RSASSA: &tpm2.SigSchemeRSASSA{HashAlg: alg}}}

			signature, err := tpm.Sign(keyContext, digest, scheme, nil, nil)
			if err != nil {
				return xerrors.Errorf("cannot sign digest: %w", err)
			}

			out, err := mu.MarshalToBytes(signature)
			if err != nil {
				return xerrors.Errorf("cannot marshal signature: %w", err)
			}
			if err := ioutil.WriteFile(signParams.output, out, 0644); err != nil {
				return xerrors.Errorf("cannot write signature: %w", err)
			}

			log.Debugf("wrote %d byte signature to %s", len(out), signParams.output)
			return nil
		})
	},
}

func init() {
	signCmd.Flags().StringVarP(&signParams.key, "key", "c", "", "handle of the signing key")
	signCmd.Flags().StringVarP(&signParams.auth, "auth", "p", "", "authorization value for the signing key")
	signCmd.Flags().StringVarP(&signParams.halg, "hash-algorithm", "g", "sha256", "digest algorithm (sha1|sha256|sha384|sha512)")
	signCmd.Flags().BoolVarP(&signParams.rawHash, "digest", "d", false, "treat the input file as a digest rather than a message")
	signCmd.Flags().StringVarP(&signParams.output, "output", "o", "signature.bin", "file to write the signature to")
	signCmd.MarkFlagRequired("key")
	rootCmd.AddCommand(signCmd)
}
