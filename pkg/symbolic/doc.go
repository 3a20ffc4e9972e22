// Package symbolic defines the immutable expression model that the analysis
// packages operate on: dimensions (named axes), functions (array-like objects
// with fixed axes), and index expressions.
//
// # Overview
//
// Equations are built from indexed accesses over functions:
//
//	u := symbolic.NewFunction("u", t, x)
//	eq := symbolic.NewEquation(
//	    u.At(symbolic.AddExpr(t, symbolic.Int(1)), x),
//	    u.At(t, symbolic.AddExpr(x, symbolic.Int(-1))),
//	)
//
// Dimensions are identity-compared value objects: a model creates each
// dimension once and every equation references the same pointer. They are
// immutable after construction, which makes concurrent analysis of
// independent equations safe without synchronization.
//
// # Expression Forms
//
// An index expression is one of:
//
//   - a bare [Dimension]
//   - an affine combination (dimension plus an integer constant)
//   - a nested [Indexed] access
//   - an arbitrary symbolic expression ([Add], [Mul], [Sym], [Int])
//
// [SplitAffine] classifies the first two forms; everything else is handled
// by the fallback strategies in the analysis package.
package symbolic
