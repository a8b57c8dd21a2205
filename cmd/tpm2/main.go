// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/canonical/go-tpm2"
	"github.com/canonical/go-tpm2/linux"
	"github.com/canonical/go-tpm2/mssim"

	tpm2tools "github.com/canonical/go-tpm2-tools"
)

var log = logrus.New()

// exitError carries the outcome that the process should exit with after
// a tool fails. The original error is preserved for wrapping.
type exitError struct {
	err     error
	outcome tpm2tools.Outcome
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// toolError converts a tool failure in to an *exitError, logging the
// decoded form of any TPM stack status carried by err.
func toolError(err error) error {
	if rc, ok := tpm2tools.StatusFromError(err); ok {
		log.Errorf("%v (%s)", err, tpm2tools.Decode(rc))
		return &exitError{err: err, outcome: tpm2tools.Classify(rc)}
	}
	log.Error(err)
	return &exitError{err: err, outcome: tpm2tools.GeneralError}
}

// optionError reports invalid tool options or arguments.
func optionError(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	log.Error(err)
	return &exitError{err: err, outcome: tpm2tools.OptionError}
}

// parseTCTI converts a TCTI specification string in to a transmission
// interface. The supported forms are "device", "device:<path>", "mssim"
// and "mssim:host=<host>,port=<port>". An empty specification selects
// auto-detection.
func parseTCTI(spec string) (tpm2.TCTI, error) {
	name := spec
	conf := ""
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		name = spec[:i]
		conf = spec[i+1:]
	}

	switch name {
	case "":
		for _, path := range []string{"/dev/tpmrm0", "/dev/tpm0"} {
			if tcti, err := linux.OpenDevice(path); err == nil {
				return tcti, nil
			}
		}
		if tcti, err := mssim.OpenConnection("", 2321); err == nil {
			return tcti, nil
		}
		return nil, fmt.Errorf("cannot find a TPM interface to auto-open")
	case "device":
		if conf == "" {
			conf = "/dev/tpm0"
		}
		tcti, err := linux.OpenDevice(conf)
		if err != nil {
			return nil, xerrors.Errorf("cannot open TPM device: %w", err)
		}
		return tcti, nil
	case "mssim":
		host := "localhost"
		port := uint(2321)
		for _, opt := range strings.Split(conf, ",") {
			if opt == "" {
				continue
			}
			kv := strings.SplitN(opt, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid mssim option %q", opt)
			}
			switch kv[0] {
			case "host":
				host = kv[1]
			case "port":
				p, err := strconv.ParseUint(kv[1], 10, 16)
				if err != nil {
					return nil, xerrors.Errorf("invalid mssim port %q: %w", kv[1], err)
				}
				port = uint(p)
			default:
				return nil, fmt.Errorf("unknown mssim option %q", kv[0])
			}
		}
		tcti, err := mssim.OpenConnection(host, port)
		if err != nil {
			return nil, xerrors.Errorf("cannot connect to TPM simulator: %w", err)
		}
		return tcti, nil
	default:
		return nil, fmt.Errorf("unknown TCTI %q", name)
	}
}

// connectTPM opens a context to the TPM selected by the --tcti flag or
// the TPM2TOOLS_TCTI environment variable.
func connectTPM() (*tpm2.TPMContext, error) {
	tcti, err := parseTCTI(viper.GetString("tcti"))
	if err != nil {
		return nil, err
	}
	return tpm2.NewTPMContext(tcti), nil
}

// runTool opens the TPM, runs f against it and converts any failure in
// to an exit outcome.
func runTool(f func(tpm *tpm2.TPMContext) error) error {
	tpm, err := connectTPM()
	if err != nil {
		log.Error(err)
		return &exitError{err: err, outcome: tpm2tools.TCTIError}
	}
	defer tpm.Close()

	if err := f(tpm); err != nil {
		var e *exitError
		if xerrors.As(err, &e) {
			return err
		}
		return toolError(err)
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:           "tpm2",
	Short:         "Utilities for interacting with a TPM 2.0 device",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("tcti", "T", "", "TCTI to use (device[:path] or mssim[:host=...,port=...])")
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "enable debug output")
	viper.BindPFlag("tcti", rootCmd.PersistentFlags().Lookup("tcti"))
	viper.BindEnv("tcti", "TPM2TOOLS_TCTI")

	cobra.OnInitialize(func() {
		if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
			log.SetLevel(logrus.DebugLevel)
		}
	})
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		var e *exitError
		if xerrors.As(err, &e) {
			os.Exit(e.outcome.ExitCode())
		}
		// Flag and argument parse failures from cobra arrive here
		// without an outcome attached.
		log.Error(err)
		os.Exit(tpm2tools.OptionError.ExitCode())
	}
}
