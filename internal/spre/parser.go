package spre

// Parse lexes and parses a pattern string per the grammar in spec.md §6,
// returning the outer AST root. This is a plain recursive-descent parser
// rather than a Pratt parser: SpRE's precedence table is small and fixed
// (spec.md §4.1), so there is no need for per-token binding powers.
func Parse(pattern string) (*Node, error) {
	toks, err := lex(pattern)
	if err != nil {
		return nil, err
	}

	ts := &tokenStream{tokens: toks}

	node, err := parseAlt(ts)
	if err != nil {
		return nil, err
	}

	if ts.peek().class != tkEndOfText {
		return nil, parseError(ts.peek(), "end of pattern")
	}

	return node, nil
}

// parseAlt := spre ('|' spre)*
func parseAlt(ts *tokenStream) (*Node, error) {
	left, err := parseConcat(ts)
	if err != nil {
		return nil, err
	}

	for ts.peek().class == tkPipe {
		ts.next()
		right, err := parseConcat(ts)
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: KindAlt, Left: left, Right: right}
	}

	return left, nil
}

// parseConcat := postfix+
func parseConcat(ts *tokenStream) (*Node, error) {
	left, err := parsePostfix(ts)
	if err != nil {
		return nil, err
	}

	for startsAtom(ts.peek().class) {
		right, err := parsePostfix(ts)
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: KindConcat, Left: left, Right: right}
	}

	return left, nil
}

func startsAtom(c tokenClass) bool {
	return c == tkLParen || c == tkLBracket
}

// parsePostfix := atom ( '*' | range )*
func parsePostfix(ts *tokenStream) (*Node, error) {
	node, err := parseAtom(ts)
	if err != nil {
		return nil, err
	}

	for {
		switch ts.peek().class {
		case tkStar:
			ts.next()
			node = &Node{Kind: KindStar, Sub: node}
		case tkLBrace:
			min, max, err := parseRange(ts)
			if err != nil {
				return nil, err
			}
			node = &Node{Kind: KindRepeat, Sub: node, Min: min, Max: max}
		default:
			return node, nil
		}
	}
}

// parseRange := '{' INT '}' | '{' INT ',' '}' | '{' INT ',' INT '}'
func parseRange(ts *tokenStream) (min int, max *int, err error) {
	open := ts.next() // '{'

	first := ts.next()
	if first.class != tkInt {
		return 0, nil, parseError(first, "integer")
	}
	min = mustAtoi(first.lexeme)

	switch ts.peek().class {
	case tkRBrace:
		ts.next()
		m := min
		return min, &m, nil
	case tkComma:
		ts.next()
		if ts.peek().class == tkRBrace {
			ts.next()
			return min, nil, nil
		}
		second := ts.next()
		if second.class != tkInt {
			return 0, nil, parseError(second, "integer or '}'")
		}
		maxV := mustAtoi(second.lexeme)
		if ts.peek().class != tkRBrace {
			return 0, nil, parseError(ts.peek(), "'}'")
		}
		ts.next()
		if maxV < min {
			return 0, nil, RangeError{pos: open.pos, min: min, max: maxV}
		}
		return min, &maxV, nil
	default:
		return 0, nil, parseError(ts.peek(), "',' or '}'")
	}
}

// parseAtom := '(' spre ')' | '[' s4u ']'
func parseAtom(ts *tokenStream) (*Node, error) {
	switch ts.peek().class {
	case tkLParen:
		ts.next()
		inner, err := parseAlt(ts)
		if err != nil {
			return nil, err
		}
		if ts.peek().class != tkRParen {
			return nil, parseError(ts.peek(), "')'")
		}
		ts.next()
		return inner, nil
	case tkLBracket:
		ts.next()
		formula, err := parseS4U(ts)
		if err != nil {
			return nil, err
		}
		if ts.peek().class != tkRBracket {
			return nil, parseError(ts.peek(), "']'")
		}
		ts.next()
		return &Node{Kind: KindSymbol, Symbol: *formula}, nil
	default:
		return nil, parseError(ts.peek(), "'(' or '['")
	}
}

// parseS4U := s4uOr, the Boolean sublanguage used directly inside a symbol
// group. Precedence (tight to loose): '!' > '&' > '|'.
func parseS4U(ts *tokenStream) (*Formula, error) {
	return parseS4UOr(ts)
}

func parseS4UOr(ts *tokenStream) (*Formula, error) {
	left, err := parseS4UAnd(ts)
	if err != nil {
		return nil, err
	}
	for ts.peek().class == tkPipe {
		ts.next()
		right, err := parseS4UAnd(ts)
		if err != nil {
			return nil, err
		}
		left = or(left, right)
	}
	return left, nil
}

func parseS4UAnd(ts *tokenStream) (*Formula, error) {
	left, err := parseS4UNot(ts)
	if err != nil {
		return nil, err
	}
	for ts.peek().class == tkAmp {
		ts.next()
		right, err := parseS4UNot(ts)
		if err != nil {
			return nil, err
		}
		left = and(left, right)
	}
	return left, nil
}

func parseS4UNot(ts *tokenStream) (*Formula, error) {
	if ts.peek().class == tkBang {
		ts.next()
		sub, err := parseS4UNot(ts)
		if err != nil {
			return nil, err
		}
		return not(sub), nil
	}
	return parseS4UPrimary(ts)
}

// parseS4UPrimary := '(' s4u ')' | '<nonempty>' class | '<nonempty>' '(' s4 ')' | class
func parseS4UPrimary(ts *tokenStream) (*Formula, error) {
	switch ts.peek().class {
	case tkLParen:
		ts.next()
		inner, err := parseS4U(ts)
		if err != nil {
			return nil, err
		}
		if ts.peek().class != tkRParen {
			return nil, parseError(ts.peek(), "')'")
		}
		ts.next()
		return inner, nil
	case tkNonempty:
		ts.next()
		if ts.peek().class == tkLParen {
			ts.next()
			inner, err := parseS4(ts)
			if err != nil {
				return nil, err
			}
			if ts.peek().class != tkRParen {
				return nil, parseError(ts.peek(), "')'")
			}
			ts.next()
			return nonempty(inner), nil
		}
		if ts.peek().class != tkClass {
			return nil, parseError(ts.peek(), "class primitive or '('")
		}
		c := ts.next()
		return nonempty(class(c.name)), nil
	case tkClass:
		c := ts.next()
		return class(c.name), nil
	default:
		return nil, parseError(ts.peek(), "'(', '<nonempty>', or a class primitive")
	}
}

// parseS4 is the set-valued sublanguage used only inside <nonempty>(...).
// Negation is deliberately absent from this grammar (spec.md §4.3: "Negation
// is not permitted inside <nonempty>").
func parseS4(ts *tokenStream) (*Formula, error) {
	return parseS4Or(ts)
}

func parseS4Or(ts *tokenStream) (*Formula, error) {
	left, err := parseS4And(ts)
	if err != nil {
		return nil, err
	}
	for ts.peek().class == tkPipe {
		ts.next()
		right, err := parseS4And(ts)
		if err != nil {
			return nil, err
		}
		left = or(left, right)
	}
	return left, nil
}

func parseS4And(ts *tokenStream) (*Formula, error) {
	left, err := parseS4Primary(ts)
	if err != nil {
		return nil, err
	}
	for ts.peek().class == tkAmp {
		ts.next()
		right, err := parseS4Primary(ts)
		if err != nil {
			return nil, err
		}
		left = and(left, right)
	}
	return left, nil
}

func parseS4Primary(ts *tokenStream) (*Formula, error) {
	switch ts.peek().class {
	case tkLParen:
		ts.next()
		inner, err := parseS4(ts)
		if err != nil {
			return nil, err
		}
		if ts.peek().class != tkRParen {
			return nil, parseError(ts.peek(), "')'")
		}
		ts.next()
		return inner, nil
	case tkClass:
		c := ts.next()
		return class(c.name), nil
	default:
		return nil, parseError(ts.peek(), "'(' or a class primitive")
	}
}

func mustAtoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
