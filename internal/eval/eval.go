// Package eval evaluates spatial formulas against a single frame's
// annotations, dispatching on the formula's tagged variant into the
// two-level Boolean/box-set semantics a spatial formula requires.
package eval

import (
	"github.com/silvaine/sprestream/internal/annot"
	"github.com/silvaine/sprestream/internal/geom"
	"github.com/silvaine/sprestream/internal/spre"
)

// Eval evaluates a formula's ordinary Boolean semantics against sample:
// class(x) is true iff the sample carries at least one annotation of class
// x, and '&'/'|'/'!' behave as the usual Boolean connectives. A
// <nonempty>(...) subformula is true iff its box-set semantics (evalBoxSet)
// yields at least one box.
func Eval(f *spre.Formula, sample annot.Sample) bool {
	switch f.Kind {
	case spre.FormClass:
		return len(classBoxes(sample, f.Class)) > 0
	case spre.FormNot:
		return !Eval(f.Sub, sample)
	case spre.FormAnd:
		return Eval(f.Left, sample) && Eval(f.Right, sample)
	case spre.FormOr:
		return Eval(f.Left, sample) || Eval(f.Right, sample)
	case spre.FormNonempty:
		return len(evalBoxSet(f.Sub, sample)) > 0
	default:
		panic("eval: unknown formula kind")
	}
}

// evalBoxSet evaluates the set-valued sublanguage used only inside
// <nonempty>(...): '&' is a pairwise intersection filtered down to the
// non-empty results, '|' is set union. Negation never appears here; the
// parser's grammar for this sublanguage has no production for it, so this
// is not re-checked at evaluation time.
func evalBoxSet(f *spre.Formula, sample annot.Sample) []geom.Box {
	switch f.Kind {
	case spre.FormClass:
		return classBoxes(sample, f.Class)
	case spre.FormAnd:
		left := evalBoxSet(f.Left, sample)
		right := evalBoxSet(f.Right, sample)
		return pairwiseIntersections(left, right)
	case spre.FormOr:
		left := evalBoxSet(f.Left, sample)
		right := evalBoxSet(f.Right, sample)
		return append(append([]geom.Box{}, left...), right...)
	default:
		panic("eval: unexpected formula kind in box-set context")
	}
}

func classBoxes(sample annot.Sample, class string) []geom.Box {
	var out []geom.Box
	for _, a := range sample.Annotations {
		if a.Class == class {
			out = append(out, a.BBox)
		}
	}
	return out
}

func pairwiseIntersections(a, b []geom.Box) []geom.Box {
	var out []geom.Box
	for _, x := range a {
		for _, y := range b {
			box := geom.Intersect(x, y)
			if !box.Empty() {
				out = append(out, box)
			}
		}
	}
	return out
}

// TruthySymbols evaluates every symbol in symtab against sample and
// returns the ids whose formula is true, in ascending order. The stream
// matcher feeds this list to the automaton's Step for each frame (spec.md
// §4.4).
func TruthySymbols(symtab *spre.SymbolTable, sample annot.Sample) []spre.SymbolID {
	var truthy []spre.SymbolID
	for _, id := range symtab.IDs() {
		if Eval(symtab.Formula(id), sample) {
			truthy = append(truthy, id)
		}
	}
	return truthy
}
