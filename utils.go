// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2tools

import (
	"strconv"

	"golang.org/x/xerrors"
)

// ParseHandle parses a numeric handle literal. It accepts the prefixes
// understood by strtoul(3) with a base of 0 - "0x" for hexadecimal, "0"
// for octal, none for decimal.
func ParseHandle(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, xerrors.Errorf("cannot parse handle value %q: %w", s, err)
	}
	return uint32(v), nil
}
