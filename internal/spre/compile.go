package spre

// fragment is a Thompson NFA fragment with exactly one entry and one exit
// state, never shared with any other fragment. Combinators below wire
// fragments together purely with ε-transitions, in the classical
// dragon-book style.
type fragment struct {
	start, end StateID
}

// Compile lowers a parsed outer AST into a Thompson NFA over symtab's
// alphabet, interning every inner spatial formula it encounters along the
// way (spec.md §4.2: "the alphabet is built in the same pass as the outer
// automaton").
func Compile(root *Node, symtab *SymbolTable) *NFA {
	n := newNFA()
	frag := compileNode(n, root, symtab)
	n.start = frag.start
	n.accept = frag.end
	return n
}

func compileNode(n *NFA, node *Node, symtab *SymbolTable) fragment {
	switch node.Kind {
	case KindSymbol:
		id := symtab.intern(&node.Symbol)
		start := n.newState()
		end := n.newState()
		n.addSym(start, id, end)
		return fragment{start, end}

	case KindConcat:
		left := compileNode(n, node.Left, symtab)
		right := compileNode(n, node.Right, symtab)
		return concatFrag(n, left, right)

	case KindAlt:
		left := compileNode(n, node.Left, symtab)
		right := compileNode(n, node.Right, symtab)
		return altFrag(n, left, right)

	case KindStar:
		sub := compileNode(n, node.Sub, symtab)
		return starFrag(n, sub)

	case KindRepeat:
		return compileRepeat(n, node, symtab)

	default:
		panic("compile: unknown node kind")
	}
}

func emptyFrag(n *NFA) fragment {
	s := n.newState()
	e := n.newState()
	n.addEps(s, e)
	return fragment{s, e}
}

func concatFrag(n *NFA, a, b fragment) fragment {
	n.addEps(a.end, b.start)
	return fragment{a.start, b.end}
}

func altFrag(n *NFA, a, b fragment) fragment {
	start := n.newState()
	end := n.newState()
	n.addEps(start, a.start)
	n.addEps(start, b.start)
	n.addEps(a.end, end)
	n.addEps(b.end, end)
	return fragment{start, end}
}

func starFrag(n *NFA, sub fragment) fragment {
	start := n.newState()
	end := n.newState()
	n.addEps(start, sub.start)
	n.addEps(start, end)
	n.addEps(sub.end, sub.start)
	n.addEps(sub.end, end)
	return fragment{start, end}
}

// compileRepeat expands a {min,max} bound into min mandatory copies
// followed by either an unbounded star tail ({min,}) or (max-min) nested
// optional copies ({min,max}), built innermost-first so that optN
// represents "0 to N more copies":
//
//	opt0 = ε
//	optI = (sub optI-1) | ε
func compileRepeat(n *NFA, node *Node, symtab *SymbolTable) fragment {
	min := node.Min
	max := node.Max

	if min == 0 && max == nil {
		return starFrag(n, compileNode(n, node.Sub, symtab))
	}

	var mandatory fragment
	haveMandatory := false
	for i := 0; i < min; i++ {
		f := compileNode(n, node.Sub, symtab)
		if !haveMandatory {
			mandatory, haveMandatory = f, true
		} else {
			mandatory = concatFrag(n, mandatory, f)
		}
	}

	var tail fragment
	if max == nil {
		tail = starFrag(n, compileNode(n, node.Sub, symtab))
	} else {
		opt := emptyFrag(n)
		for i := 0; i < *max-min; i++ {
			sub := compileNode(n, node.Sub, symtab)
			opt = altFrag(n, concatFrag(n, sub, opt), emptyFrag(n))
		}
		tail = opt
	}

	if !haveMandatory {
		return tail
	}
	return concatFrag(n, mandatory, tail)
}
