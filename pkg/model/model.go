// Package model loads stencil model definitions from TOML or YAML files.
//
// A model file declares the dimensions (axes), the functions defined over
// them, optional subdomains with an explicit axis order, and the equations
// to analyze, written in a small infix syntax:
//
//	name = "heat-1d"
//
//	[[dimensions]]
//	name = "t"
//	kind = "nonspace"
//
//	[[dimensions]]
//	name = "x"
//	kind = "space"
//
//	[[functions]]
//	name = "u"
//	axes = ["t", "x"]
//
//	[[equations]]
//	expr = "u[t+1, x] = u[t, x-1] + u[t, x+1]"
//
// Loading resolves every equation into the shared symbolic model: each
// dimension and function is created exactly once and referenced by
// identity, which is what the analysis packages require.
package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	stenerrors "github.com/fpicetti/stenfront/pkg/errors"
	"github.com/fpicetti/stenfront/pkg/symbolic"
)

// Model is a resolved stencil model: interned dimensions and functions plus
// the parsed equations. A Model is immutable after Load and safe for
// concurrent use.
type Model struct {
	// Name identifies the model (file stem if the document has no name).
	Name string

	// Source holds the raw document bytes, used for content-addressed
	// cache keys.
	Source []byte

	// Equations in declaration order.
	Equations []*symbolic.Equation

	dims  map[string]*symbolic.Dimension
	funcs map[string]*symbolic.Function
	syms  map[string]*symbolic.Sym
	order []string // dimension declaration order
}

// Dimension returns the dimension with the given name, or nil.
func (m *Model) Dimension(name string) *symbolic.Dimension { return m.dims[name] }

// Function returns the function with the given name, or nil.
func (m *Model) Function(name string) *symbolic.Function { return m.funcs[name] }

// Dimensions returns all declared dimensions in declaration order.
func (m *Model) Dimensions() []*symbolic.Dimension {
	out := make([]*symbolic.Dimension, 0, len(m.order))
	for _, n := range m.order {
		out = append(out, m.dims[n])
	}
	return out
}

// document is the serialized shape shared by the TOML and YAML formats.
type document struct {
	Name       string         `toml:"name" yaml:"name"`
	Dimensions []dimensionDef `toml:"dimensions" yaml:"dimensions"`
	Functions  []functionDef  `toml:"functions" yaml:"functions"`
	Subdomains []subdomainDef `toml:"subdomains" yaml:"subdomains"`
	Equations  []equationDef  `toml:"equations" yaml:"equations"`
}

type dimensionDef struct {
	Name   string `toml:"name" yaml:"name"`
	Kind   string `toml:"kind" yaml:"kind"`     // "space" (default) or "nonspace"
	Parent string `toml:"parent" yaml:"parent"` // derived dimensions name their parent
}

type functionDef struct {
	Name string   `toml:"name" yaml:"name"`
	Axes []string `toml:"axes" yaml:"axes"`
}

type subdomainDef struct {
	Name  string   `toml:"name" yaml:"name"`
	Order []string `toml:"order" yaml:"order"`
}

type equationDef struct {
	Expr      string `toml:"expr" yaml:"expr"`
	Subdomain string `toml:"subdomain" yaml:"subdomain"`
}

// LoadFile reads and resolves a model file. The format is chosen by
// extension: .toml for TOML, .yaml or .yml for YAML.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return Load(data, FormatTOML, name)
	case ".yaml", ".yml":
		return Load(data, FormatYAML, name)
	default:
		return nil, fmt.Errorf("%s: unsupported model format (want .toml, .yaml, or .yml)", path)
	}
}

// Format selects the document syntax for Load.
type Format string

// Supported model document formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Load decodes a model document and resolves it. fallbackName is used when
// the document declares no name.
func Load(data []byte, format Format, fallbackName string) (*Model, error) {
	var doc document
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	m, err := resolve(&doc)
	if err != nil {
		return nil, err
	}
	if m.Name == "" {
		m.Name = fallbackName
	}
	m.Source = data
	return m, nil
}

// resolve interns dimensions and functions and parses every equation.
func resolve(doc *document) (*Model, error) {
	if doc.Name != "" {
		if err := stenerrors.ValidateModelName(doc.Name); err != nil {
			return nil, err
		}
	}

	m := &Model{
		Name:  doc.Name,
		dims:  make(map[string]*symbolic.Dimension),
		funcs: make(map[string]*symbolic.Function),
		syms:  make(map[string]*symbolic.Sym),
	}

	// Two passes over dimensions so a derived dimension may name a parent
	// declared after it.
	for _, d := range doc.Dimensions {
		if err := stenerrors.ValidateName(d.Name); err != nil {
			return nil, fmt.Errorf("dimension: %w", err)
		}
		if _, dup := m.dims[d.Name]; dup {
			return nil, fmt.Errorf("duplicate dimension %q", d.Name)
		}
		if d.Parent != "" {
			continue // second pass
		}
		kind, err := parseKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("dimension %q: %w", d.Name, err)
		}
		m.dims[d.Name] = symbolic.NewDimension(d.Name, kind)
		m.order = append(m.order, d.Name)
	}
	pending := make([]dimensionDef, 0)
	for _, d := range doc.Dimensions {
		if d.Parent != "" {
			pending = append(pending, d)
		}
	}
	// Derived dimensions may chain (a sub-range of a sub-range), so keep
	// resolving until no definition makes progress.
	for len(pending) > 0 {
		progress := false
		remaining := pending[:0]
		for _, d := range pending {
			parent, ok := m.dims[d.Parent]
			if !ok {
				remaining = append(remaining, d)
				continue
			}
			if d.Kind != "" && d.Kind != parent.Kind().String() {
				return nil, fmt.Errorf("dimension %q: kind %q conflicts with parent kind %q", d.Name, d.Kind, parent.Kind())
			}
			if _, dup := m.dims[d.Name]; dup {
				return nil, fmt.Errorf("duplicate dimension %q", d.Name)
			}
			m.dims[d.Name] = symbolic.NewDerived(d.Name, parent)
			m.order = append(m.order, d.Name)
			progress = true
		}
		if !progress {
			return nil, fmt.Errorf("dimension %q: unknown parent %q", pending[0].Name, pending[0].Parent)
		}
		pending = remaining
	}

	for _, f := range doc.Functions {
		if err := stenerrors.ValidateName(f.Name); err != nil {
			return nil, fmt.Errorf("function: %w", err)
		}
		if _, dup := m.funcs[f.Name]; dup {
			return nil, fmt.Errorf("duplicate function %q", f.Name)
		}
		if _, clash := m.dims[f.Name]; clash {
			return nil, fmt.Errorf("function %q collides with a dimension name", f.Name)
		}
		axes := make([]*symbolic.Dimension, len(f.Axes))
		for i, a := range f.Axes {
			dim, ok := m.dims[a]
			if !ok {
				return nil, fmt.Errorf("function %q: unknown axis %q", f.Name, a)
			}
			axes[i] = dim
		}
		m.funcs[f.Name] = symbolic.NewFunction(f.Name, axes...)
	}

	subdomains := make(map[string][]*symbolic.Dimension, len(doc.Subdomains))
	for _, s := range doc.Subdomains {
		if err := stenerrors.ValidateName(s.Name); err != nil {
			return nil, fmt.Errorf("subdomain: %w", err)
		}
		ord := make([]*symbolic.Dimension, len(s.Order))
		for i, a := range s.Order {
			dim, ok := m.dims[a]
			if !ok {
				return nil, fmt.Errorf("subdomain %q: unknown dimension %q", s.Name, a)
			}
			ord[i] = dim
		}
		subdomains[s.Name] = ord
	}

	for i, e := range doc.Equations {
		eq, err := ParseEquation(e.Expr, m)
		if err != nil {
			return nil, fmt.Errorf("equation %d: %w", i+1, err)
		}
		if e.Subdomain != "" {
			ord, ok := subdomains[e.Subdomain]
			if !ok {
				return nil, fmt.Errorf("equation %d: unknown subdomain %q", i+1, e.Subdomain)
			}
			eq = eq.WithSubdomain(ord...)
		}
		m.Equations = append(m.Equations, eq)
	}

	return m, nil
}

func parseKind(s string) (symbolic.DimensionKind, error) {
	switch s {
	case "", "space":
		return symbolic.Space, nil
	case "nonspace", "time":
		return symbolic.NonSpace, nil
	default:
		return 0, fmt.Errorf("unknown kind %q (want space or nonspace)", s)
	}
}

// internSym returns the model-wide shared symbol with the given name, so
// the same coefficient appearing in several equations compares identical.
func (m *Model) internSym(name string) *symbolic.Sym {
	if m.syms == nil {
		m.syms = make(map[string]*symbolic.Sym)
	}
	s, ok := m.syms[name]
	if !ok {
		s = symbolic.NewSym(name)
		m.syms[name] = s
	}
	return s
}
