package spre

// Pattern is a fully compiled SpRE ready for matching: its symbol table
// (the alphabet of distinct spatial formulas referenced by the pattern) and
// the automaton built over that alphabet.
type Pattern struct {
	Source  string
	symbols *SymbolTable
	nfa     *NFA
	automaton *Automaton
}

// CompileOptions configures the automaton built for a pattern.
type CompileOptions struct {
	// DeterminizationThreshold is the state-product ceiling below which the
	// automaton is eagerly determinized. Zero uses DefaultDeterminizationThreshold.
	DeterminizationThreshold int
}

// CompilePattern parses, canonicalizes, and compiles a pattern string into
// a ready-to-match Pattern. This is the single public entry point chaining
// Parse -> Compile -> NewAutomaton.
func CompilePattern(text string, opts CompileOptions) (*Pattern, error) {
	root, err := Parse(text)
	if err != nil {
		return nil, err
	}

	symtab := newSymbolTable()
	nfa := Compile(root, symtab)
	automaton := NewAutomaton(nfa, symtab.Len(), opts.DeterminizationThreshold)

	return &Pattern{
		Source:    text,
		symbols:   symtab,
		nfa:       nfa,
		automaton: automaton,
	}, nil
}

// Symbols returns the pattern's interned alphabet.
func (p *Pattern) Symbols() *SymbolTable { return p.symbols }

// Automaton returns the pattern's compiled automaton.
func (p *Pattern) Automaton() *Automaton { return p.automaton }
