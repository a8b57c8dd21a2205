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
	"github.com/canonical/go-tpm2/mu"

	tpm2tools "github.com/canonical/go-tpm2-tools"
)

var createPrimaryParams struct {
	hierarchy string
	auth      string
	keyAlg    string
	context   string
}

func primaryTemplate(alg string) (*tpm2.Public, error) {
	attrs := tpm2.AttrFixedTPM | tpm2.AttrFixedParent | tpm2.AttrSensitiveDataOrigin |
		tpm2.AttrUserWithAuth | tpm2.AttrRestricted | tpm2.AttrDecrypt

	symmetric := tpm2.SymDefObject{
		Algorithm: tpm2.SymObjectAlgorithmAES,
		KeyBits:   &tpm2.SymKeyBitsU{Sym: 128},
		Mode:      &tpm2.SymModeU{Sym: tpm2.SymModeCFB}}

	switch alg {
	case "rsa":
		return &tpm2.Public{
			Type:    tpm2.ObjectTypeRSA,
			NameAlg: tpm2.HashAlgorithmSHA256,
			Attrs:   attrs,
			Params: &tpm2.PublicParamsU{
				RSADetail: &tpm2.RSAParams{
					Symmetric: symmetric,
					Scheme:    tpm2.RSAScheme{Scheme: tpm2.RSASchemeNull},
					KeyBits:   2048,
					Exponent:  0}}}, nil
	case "ecc":
		return &tpm2.Public{
			Type:    tpm2.ObjectTypeECC,
			NameAlg: tpm2.HashAlgorithmSHA256,
			Attrs:   attrs,
			Params: &tpm2.PublicParamsU{
				ECCDetail: &tpm2.ECCParams{
					Symmetric: symmetric,
					Scheme:    tpm2.ECCScheme{Scheme: tpm2.ECCSchemeNull},
					CurveID:   tpm2.ECCCurveNIST_P256,
					KDF:       tpm2.KDFScheme{Scheme: tpm2.KDFAlgorithmNull}}}}, nil
	default:
		return nil, fmt.Errorf("unsupported key algorithm %q", alg)
	}
}

var createPrimaryCmd = &cobra.Command{
	Use:   "createprimary",
	Short: "Create a primary object in the selected hierarchy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hierarchy, err := tpm2tools.ParseHierarchy(createPrimaryParams.hierarchy, tpm2tools.HierarchyAll)
		if err != nil {
			return optionError("%v", err)
		}

		template, err := primaryTemplate(createPrimaryParams.keyAlg)
		if err != nil {
			return optionError("%v", err)
		}

		return runTool(func(tpm *tpm2.TPMContext) error {
			object, err := tpm2tools.CreatePrimary(tpm, hierarchy, nil, template,
				[]byte(createPrimaryParams.auth), nil)
			if err != nil {
				return err
			}
			defer object.Close(tpm)

			fmt.Printf("handle: 0x%08x\n", object.Context.Handle())
			fmt.Printf("name: %s\n", hex.EncodeToString(object.Context.Name()))

			if createPrimaryParams.context != "" {
				context, err := tpm.ContextSave(object.Context)
				if err != nil {
					return xerrors.Errorf("cannot save object context: %w", err)
				}
				out, err := mu.MarshalToBytes(context)
				if err != nil {
					return xerrors.Errorf("cannot marshal object context: %w", err)
				}
				if err := ioutil.WriteFile(createPrimaryParams.context, out, 0644); err != nil {
					return xerrors.Errorf("cannot write object context: %w", err)
				}
			}
			return nil
		})
	},
}

func init() {
	createPrimaryCmd.Flags().StringVarP(&createPrimaryParams.hierarchy, "hierarchy", "C", "owner", "hierarchy to create the object in")
	createPrimaryCmd.Flags().StringVarP(&createPrimaryParams.auth, "auth", "p", "", "authorization value for the hierarchy")
	createPrimaryCmd.Flags().StringVarP(&createPrimaryParams.keyAlg, "key-algorithm", "G", "rsa", "algorithm for the created object (rsa|ecc)")
	createPrimaryCmd.Flags().StringVarP(&createPrimaryParams.context, "key-context", "c", "", "file to save the object context to")
	rootCmd.AddCommand(createPrimaryCmd)
}
