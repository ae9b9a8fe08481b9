// Package manifest models a Swift package and the products (modules) it
// declares, decoded from the JSON produced by `swift package dump-package`.
package manifest

import (
	"encoding/json"
	"fmt"
	"strings"

	derrors "github.com/dn-m/documentarian/internal/errors"
)

// Package is a named unit owning an ordered set of modules. It is built once
// per run and never mutated afterwards.
type Package struct {
	Name     string
	Products []Module // manifest declaration order
}

// Module is a buildable product within a package and the unit of documentation generation.
type Module struct {
	Name string
}

// dump mirrors the subset of the dump-package document we consume.
// Everything else in the real dump is ignored.
type dump struct {
	Name     *string        `json:"name"`
	Products *[]dumpProduct `json:"products"`
}

type dumpProduct struct {
	Name *string `json:"name"`
}

// Decode parses a manifest dump into a Package.
func Decode(data []byte) (*Package, error) {
	return decode(data, "")
}

func decode(data []byte, source string) (*Package, error) {
	fail := func(reason string, err error) error {
		return &derrors.DecodeError{Source: source, Reason: reason, Err: err}
	}

	var d dump
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fail("malformed JSON", err)
	}
	if d.Name == nil || *d.Name == "" {
		return nil, fail("missing package name", nil)
	}
	if err := checkName(*d.Name); err != nil {
		return nil, fail("invalid package name", err)
	}
	if d.Products == nil {
		return nil, fail("missing products", nil)
	}

	pkg := &Package{Name: *d.Name, Products: make([]Module, 0, len(*d.Products))}
	seen := make(map[string]struct{}, len(*d.Products))
	for i, p := range *d.Products {
		if p.Name == nil || *p.Name == "" {
			return nil, fail(fmt.Sprintf("product %d has no name", i), nil)
		}
		if err := checkName(*p.Name); err != nil {
			return nil, fail(fmt.Sprintf("product %d has an invalid name", i), err)
		}
		if _, dup := seen[*p.Name]; dup {
			return nil, fail("duplicate product "+*p.Name, nil)
		}
		seen[*p.Name] = struct{}{}
		pkg.Products = append(pkg.Products, Module{Name: *p.Name})
	}
	return pkg, nil
}

// checkName rejects names that cannot be used as a single directory name
// under the documentation root.
func checkName(name string) error {
	switch {
	case name == "" || name == "." || name == "..":
		return fmt.Errorf("%q is not a directory name", name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%q contains a path separator or NUL", name)
	}
	return nil
}

// Select resolves requested module names against the manifest. No names
// selects every product in declaration order. Any name the manifest does not
// declare rejects the whole request. Otherwise the named modules are returned
// in argument order with repeats dropped.
func (p *Package) Select(names []string) ([]Module, error) {
	if len(names) == 0 {
		out := make([]Module, len(p.Products))
		copy(out, p.Products)
		return out, nil
	}

	declared := make(map[string]struct{}, len(p.Products))
	for _, m := range p.Products {
		declared[m.Name] = struct{}{}
	}

	out := make([]Module, 0, len(names))
	picked := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := declared[name]; !ok {
			return nil, &derrors.UnknownModuleError{Name: name, Package: p.Name}
		}
		if _, ok := picked[name]; ok {
			continue
		}
		picked[name] = struct{}{}
		out = append(out, Module{Name: name})
	}
	return out, nil
}

// ModuleNames lists product names in declaration order.
func (p *Package) ModuleNames() []string {
	names := make([]string, len(p.Products))
	for i, m := range p.Products {
		names[i] = m.Name
	}
	return names
}
