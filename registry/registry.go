// Package registry holds the static table mapping protocol chain ids to
// network names and native chain ids.
//
// A Registry is immutable once built and safe for concurrent use.
package registry

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed chains.yaml
var embeddedChains []byte

// Chain describes one destination network.
type Chain struct {
	ID       uint16 `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	NativeID uint64 `yaml:"native_id,omitempty" json:"nativeId,omitempty"` // 0 when the network has none
}

// HasNativeID reports whether the network has a numeric public chain id.
func (c Chain) HasNativeID() bool {
	return c.NativeID != 0
}

// Registry is a read-only protocol chain id lookup table.
type Registry struct {
	chains map[uint16]Chain
}

type document struct {
	Chains []Chain `yaml:"chains"`
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded chain table.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Load(bytes.NewReader(embeddedChains))
		if err != nil {
			panic(fmt.Sprintf("registry: embedded chain table: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Load parses a YAML chain table of the form
//
//	chains:
//	  - id: 54
//	    name: Base Mainnet
//	    native_id: 8453
func Load(r io.Reader) (*Registry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse chain table: %w", err)
	}

	return New(doc.Chains)
}

// New builds a registry from chains. Ids must be non-zero and unique and
// names non-empty.
func New(chains []Chain) (*Registry, error) {
	m := make(map[uint16]Chain, len(chains))
	for _, c := range chains {
		if c.ID == 0 {
			return nil, fmt.Errorf("chain %q: id must be non-zero", c.Name)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("chain %d: name is required", c.ID)
		}
		if prev, ok := m[c.ID]; ok {
			return nil, fmt.Errorf("chain %d: duplicate id (%q and %q)", c.ID, prev.Name, c.Name)
		}
		m[c.ID] = c
	}
	return &Registry{chains: m}, nil
}

// Lookup returns the chain registered under id.
func (r *Registry) Lookup(id uint16) (Chain, bool) {
	c, ok := r.chains[id]
	return c, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id uint16) bool {
	_, ok := r.chains[id]
	return ok
}

// Len returns the number of registered chains.
func (r *Registry) Len() int {
	return len(r.chains)
}

// Chains returns a copy of all entries sorted by id.
func (r *Registry) Chains() []Chain {
	out := make([]Chain, 0, len(r.chains))
	for _, c := range r.chains {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
