package abi

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TransferFull, TransferNone, and Borrowed are the three FFI ownership
// annotations recognized out of the box (§4.7/§6).
const (
	TransferFull = "transfer_full"
	TransferNone = "transfer_none"
	Borrowed     = "borrowed"
)

// FFIAnnotations is the recognized-annotation allow-list; embedders extend
// it with project-specific annotations by loading an asthra.yaml (the same
// file internal/config reads) rather than patching this package.
type FFIAnnotations struct {
	Allow []string `yaml:"allow"`
}

// DefaultFFIAnnotations returns the three annotations spec.md §4.7
// recognizes unconditionally.
func DefaultFFIAnnotations() FFIAnnotations {
	return FFIAnnotations{Allow: []string{TransferFull, TransferNone, Borrowed}}
}

// LoadFFIAnnotations reads an allow-list from a YAML file at path. A
// missing or empty `allow:` list falls back to DefaultFFIAnnotations so a
// project config that only customizes unrelated settings doesn't
// accidentally disable the built-in three.
func LoadFFIAnnotations(path string) (FFIAnnotations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FFIAnnotations{}, fmt.Errorf("abi: reading FFI annotation allow-list: %w", err)
	}
	var out FFIAnnotations
	if err := yaml.Unmarshal(data, &out); err != nil {
		return FFIAnnotations{}, fmt.Errorf("abi: parsing FFI annotation allow-list: %w", err)
	}
	if len(out.Allow) == 0 {
		out = DefaultFFIAnnotations()
	}
	return out, nil
}

// IsRecognized reports whether name is in f's allow-list.
func (f FFIAnnotations) IsRecognized(name string) bool {
	for _, a := range f.Allow {
		if a == name {
			return true
		}
	}
	return false
}
