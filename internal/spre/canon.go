package spre

import (
	"sort"
	"strings"
)

// SymbolID names a canonicalized inner formula; it is the automaton's
// alphabet (spec.md §3 "Symbol id").
type SymbolID int

// canonicalize normalizes a formula so that two formulas equal under
// commutativity of '&'/'|' produce identical trees: double negation is
// folded and the operands of And/Or are sorted by their canonical string
// form (spec.md §4.2, §8 property 2). SAT-level semantic equivalence is
// deliberately out of scope (spec.md §9): this is purely syntactic
// canonicalization.
func canonicalize(f *Formula) *Formula {
	switch f.Kind {
	case FormClass:
		return &Formula{Kind: FormClass, Class: f.Class}
	case FormNot:
		sub := canonicalize(f.Sub)
		if sub.Kind == FormNot {
			// double negation: not(not(x)) == x
			return sub.Sub
		}
		return &Formula{Kind: FormNot, Sub: sub}
	case FormNonempty:
		return &Formula{Kind: FormNonempty, Sub: canonicalize(f.Sub)}
	case FormAnd, FormOr:
		left := canonicalize(f.Left)
		right := canonicalize(f.Right)
		if fingerprint(right) < fingerprint(left) {
			left, right = right, left
		}
		return &Formula{Kind: f.Kind, Left: left, Right: right}
	default:
		panic("canonicalize: unknown formula kind")
	}
}

// fingerprint returns a canonical string serialization of a (typically
// already-canonicalized) formula, used both as the sort key for commutative
// operands and as the symbol table's intern key.
func fingerprint(f *Formula) string {
	var sb strings.Builder
	writeFingerprint(&sb, f)
	return sb.String()
}

func writeFingerprint(sb *strings.Builder, f *Formula) {
	switch f.Kind {
	case FormClass:
		sb.WriteString("C(")
		sb.WriteString(f.Class)
		sb.WriteByte(')')
	case FormNot:
		sb.WriteString("!(")
		writeFingerprint(sb, f.Sub)
		sb.WriteByte(')')
	case FormNonempty:
		sb.WriteString("NE(")
		writeFingerprint(sb, f.Sub)
		sb.WriteByte(')')
	case FormAnd:
		sb.WriteString("&(")
		writeFingerprint(sb, f.Left)
		sb.WriteByte(',')
		writeFingerprint(sb, f.Right)
		sb.WriteByte(')')
	case FormOr:
		sb.WriteString("|(")
		writeFingerprint(sb, f.Left)
		sb.WriteByte(',')
		writeFingerprint(sb, f.Right)
		sb.WriteByte(')')
	}
}

// SymbolTable is the dense, 0-based interning table bridging the inner
// spatial-formula language to the outer automaton's alphabet (spec.md §3).
// It is built once per pattern and is immutable thereafter.
type SymbolTable struct {
	byFingerprint map[string]SymbolID
	formulas      []*Formula
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{byFingerprint: make(map[string]SymbolID)}
}

// intern canonicalizes f and returns its SymbolID, assigning a new dense id
// the first time a given canonical form is seen.
func (t *SymbolTable) intern(f *Formula) SymbolID {
	canon := canonicalize(f)
	fp := fingerprint(canon)

	if id, ok := t.byFingerprint[fp]; ok {
		return id
	}

	id := SymbolID(len(t.formulas))
	t.byFingerprint[fp] = id
	t.formulas = append(t.formulas, canon)
	return id
}

// Formula returns the canonical formula behind id.
func (t *SymbolTable) Formula(id SymbolID) *Formula {
	return t.formulas[id]
}

// Len returns the number of distinct symbols interned.
func (t *SymbolTable) Len() int {
	return len(t.formulas)
}

// IDs returns every interned SymbolID in ascending order.
func (t *SymbolTable) IDs() []SymbolID {
	ids := make([]SymbolID, len(t.formulas))
	for i := range ids {
		ids[i] = SymbolID(i)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
