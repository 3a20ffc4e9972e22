package symbolic

// DimensionKind distinguishes spatial axes from time-like ones.
// The dimension sort places NonSpace dimensions before Space dimensions
// when merging an explicit subdomain ordering.
type DimensionKind int

const (
	// Space is a spatial axis (e.g., x, y, z).
	Space DimensionKind = iota
	// NonSpace covers time-like and other non-spatial axes (e.g., time, t).
	NonSpace
)

// String returns "space" or "nonspace".
func (k DimensionKind) String() string {
	if k == NonSpace {
		return "nonspace"
	}
	return "space"
}

// Dimension is a named symbolic axis. Dimensions are shared, immutable,
// identity-compared value objects: create each one once per model and
// reference the same pointer from every equation.
//
// A dimension with a parent is derived (e.g., a sub-range or buffered view
// of the parent axis). Root follows parent links to the topmost ancestor.
type Dimension struct {
	name   string
	kind   DimensionKind
	parent *Dimension
}

// NewDimension creates a non-derived dimension with the given name and kind.
func NewDimension(name string, kind DimensionKind) *Dimension {
	return &Dimension{name: name, kind: kind}
}

// NewDerived creates a dimension derived from parent. The kind is inherited
// from the parent, matching how sub-ranges and buffered views behave.
func NewDerived(name string, parent *Dimension) *Dimension {
	return &Dimension{name: name, kind: parent.kind, parent: parent}
}

// Name returns the unique identifier of the dimension.
func (d *Dimension) Name() string { return d.name }

// Kind returns whether the dimension is Space or NonSpace.
func (d *Dimension) Kind() DimensionKind { return d.kind }

// IsSpace reports whether the dimension is a spatial axis.
func (d *Dimension) IsSpace() bool { return d.kind == Space }

// Parent returns the dimension this one is derived from, or nil.
func (d *Dimension) Parent() *Dimension { return d.parent }

// IsDerived reports whether the dimension has a parent.
func (d *Dimension) IsDerived() bool { return d.parent != nil }

// Root returns the topmost ancestor found by following parent links.
// The root of a non-derived dimension is the dimension itself.
func (d *Dimension) Root() *Dimension {
	r := d
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// String returns the dimension name.
func (d *Dimension) String() string { return d.name }
