// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2tools

import (
	"sync"
)

// layerNameMax is the maximum length of a friendly layer name.
const layerNameMax = 4

// LayerHandler decodes the error number of a status code for a single
// layer of the stack.
type LayerHandler interface {
	// DecodeErrorBits returns a message describing the supplied error
	// number. Handlers are never invoked with an error number of zero, as
	// zero always indicates success. If the handler cannot determine a
	// valid response, it returns false and the decoder renders the raw
	// hexadecimal value of the error number instead.
	DecodeErrorBits(bits uint16) (string, bool)
}

// LayerHandlerFunc is an adapter to allow the use of an ordinary function
// as a LayerHandler.
type LayerHandlerFunc func(bits uint16) (string, bool)

// DecodeErrorBits implements LayerHandler.
func (f LayerHandlerFunc) DecodeErrorBits(bits uint16) (string, bool) {
	return f(bits)
}

type layerEntry struct {
	name    string
	handler LayerHandler
}

// Registry maintains the mapping of status code layer ids to friendly
// layer names and decoding handlers. The entries for the reserved TPM,
// system, marshalling and TCTI layers are installed at construction time
// and cannot be replaced. A Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	layers map[uint8]layerEntry
}

// NewRegistry returns a new Registry with handlers for the reserved
// layers pre-registered.
func NewRegistry() *Registry {
	return &Registry{layers: map[uint8]layerEntry{
		LayerTPM:  {name: "tpm", handler: LayerHandlerFunc(decodeTPMErrorBits)},
		LayerSys:  {name: "sys", handler: LayerHandlerFunc(decodeBaseErrorBits)},
		LayerMu:   {name: "mu", handler: LayerHandlerFunc(decodeBaseErrorBits)},
		LayerTCTI: {name: "tcti", handler: LayerHandlerFunc(decodeBaseErrorBits)}}}
}

func isReservedLayer(layer uint8) bool {
	switch layer {
	case LayerTPM, LayerSys, LayerMu, LayerTCTI:
		return true
	}
	return false
}

// Register installs a custom handler and friendly name for the specified
// layer, replacing any previous registration. It returns false without
// modifying the registry if layer is one of the reserved layer ids, or if
// name is empty or longer than 4 characters. A nil handler unregisters
// the layer, in which case name is ignored and the call always succeeds.
func (r *Registry) Register(layer uint8, name string, handler LayerHandler) bool {
	if isReservedLayer(layer) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if handler == nil {
		delete(r.layers, layer)
		return true
	}

	if len(name) == 0 || len(name) > layerNameMax {
		return false
	}

	r.layers[layer] = layerEntry{name: name, handler: handler}
	return true
}

// Unregister removes any custom handler registered for the specified
// layer. It returns false if layer is one of the reserved layer ids.
func (r *Registry) Unregister(layer uint8) bool {
	return r.Register(layer, "", nil)
}

// Lookup returns the friendly name and handler registered for the
// specified layer. It never fails - ok indicates whether an entry exists.
func (r *Registry) Lookup(layer uint8) (name string, handler LayerHandler, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.layers[layer]
	return entry.name, entry.handler, ok
}

// DefaultRegistry is the registry used by the package-level Register,
// Unregister and Decode functions.
var DefaultRegistry = NewRegistry()

// Register installs a custom layer handler in DefaultRegistry.
func Register(layer uint8, name string, handler LayerHandler) bool {
	return DefaultRegistry.Register(layer, name, handler)
}

// Unregister removes a custom layer handler from DefaultRegistry.
func Unregister(layer uint8) bool {
	return DefaultRegistry.Unregister(layer)
}

// Decode renders the supplied status code using DefaultRegistry.
func Decode(rc StatusCode) string {
	return DefaultRegistry.Decode(rc)
}
