package spre

// NFAStateSnapshot is the serializable form of one NFA state.
type NFAStateSnapshot struct {
	Trans map[SymbolID][]StateID
	Eps   []StateID
}

// NFASnapshot is the serializable form of a compiled NFA, used by
// internal/cache to persist a pattern's automaton without re-parsing and
// re-compiling its source text.
type NFASnapshot struct {
	States []NFAStateSnapshot
	Start  StateID
	Accept StateID
}

// Snapshot captures n in its serializable form.
func (n *NFA) Snapshot() NFASnapshot {
	states := make([]NFAStateSnapshot, len(n.states))
	for i, s := range n.states {
		trans := make(map[SymbolID][]StateID, len(s.trans))
		for sym, dests := range s.trans {
			trans[sym] = append([]StateID{}, dests...)
		}
		states[i] = NFAStateSnapshot{Trans: trans, Eps: append([]StateID{}, s.eps...)}
	}
	return NFASnapshot{States: states, Start: n.start, Accept: n.accept}
}

// NFAFromSnapshot rebuilds an NFA previously captured by Snapshot.
func NFAFromSnapshot(snap NFASnapshot) *NFA {
	n := &NFA{
		states: make([]nfaState, len(snap.States)),
		start:  snap.Start,
		accept: snap.Accept,
	}
	for i, s := range snap.States {
		trans := make(map[SymbolID][]StateID, len(s.Trans))
		for sym, dests := range s.Trans {
			trans[sym] = append([]StateID{}, dests...)
		}
		n.states[i] = nfaState{trans: trans, eps: append([]StateID{}, s.Eps...)}
	}
	return n
}

// Formulas returns the symbol table's interned formulas in ascending
// SymbolID order.
func (t *SymbolTable) Formulas() []*Formula {
	out := make([]*Formula, len(t.formulas))
	copy(out, t.formulas)
	return out
}

// symbolTableFromFormulas rebuilds a SymbolTable from formulas already in
// ascending SymbolID order and already canonical, as produced by Formulas.
func symbolTableFromFormulas(formulas []*Formula) *SymbolTable {
	t := newSymbolTable()
	t.formulas = append(t.formulas, formulas...)
	for id, f := range formulas {
		t.byFingerprint[fingerprint(f)] = SymbolID(id)
	}
	return t
}

// SnapshotParts returns everything internal/cache needs to reconstruct p
// without re-parsing its source text.
func (p *Pattern) SnapshotParts() (formulas []*Formula, nfa NFASnapshot) {
	return p.symbols.Formulas(), p.nfa.Snapshot()
}

// FromCompiled rebuilds a Pattern from previously-snapshotted parts,
// skipping lexing, parsing, and NFA compilation (internal/cache's hit
// path).
func FromCompiled(source string, formulas []*Formula, nfaSnap NFASnapshot, opts CompileOptions) *Pattern {
	symtab := symbolTableFromFormulas(formulas)
	nfa := NFAFromSnapshot(nfaSnap)
	automaton := NewAutomaton(nfa, symtab.Len(), opts.DeterminizationThreshold)

	return &Pattern{
		Source:    source,
		symbols:   symtab,
		nfa:       nfa,
		automaton: automaton,
	}
}
