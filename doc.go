// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

/*
Package tpm2tools provides support code for command line tools that communicate with TPM 2.0 devices
via the github.com/canonical/go-tpm2 API.

The core of the package is a decoder for TSS2_RC layered response codes. A response code carries a
layer identifier in bits 16 to 23 and layer-specific error bits in the low 16 bits. Decode renders
any 32-bit code as a human readable string of the form "<layer>:<message>":

 fmt.Println(tpm2tools.Decode(0x902))
 // Output: tpm:warn(2.0): out of memory for object contexts

Handlers for the TPM layer and the TSS2 system, marshalling and TCTI layers are built in. Additional
layers, such as those produced by resource managers or vendor stacks, can be registered with Register,
either against the package level DefaultRegistry or against an explicit Registry instance.

Classify maps a response code to one of a small set of process exit outcomes, so that scripts driving
these tools can distinguish authorization failures, transport failures and unsupported operations
without parsing decoded strings.
*/
package tpm2tools
