package spre

import (
	"sort"
	"strconv"
	"strings"

	"github.com/silvaine/sprestream/internal/util"
)

// StateID names one state of the Thompson NFA built by compile.go.
type StateID int

// nfaState is one NFA state: zero or more symbol-labeled transitions plus
// zero or more ε-transitions.
type nfaState struct {
	trans map[SymbolID][]StateID
	eps   []StateID
}

// NFA is the non-deterministic automaton produced by lowering a pattern's
// outer AST (spec.md §4.2). It is never mutated after compile() returns it.
type NFA struct {
	states []nfaState
	start  StateID
	accept StateID
}

func newNFA() *NFA {
	return &NFA{}
}

func (n *NFA) newState() StateID {
	n.states = append(n.states, nfaState{trans: map[SymbolID][]StateID{}})
	return StateID(len(n.states) - 1)
}

func (n *NFA) addEps(from, to StateID) {
	n.states[from].eps = append(n.states[from].eps, to)
}

func (n *NFA) addSym(from StateID, sym SymbolID, to StateID) {
	n.states[from].trans[sym] = append(n.states[from].trans[sym], to)
}

// epsilonClosure returns the set of states reachable from any state in x
// using zero or more ε-moves (dragon-book ε-closure(T)).
func (n *NFA) epsilonClosure(x util.Set[StateID]) util.Set[StateID] {
	closure := make(util.Set[StateID], len(x))
	var stack []StateID
	for s := range x {
		stack = append(stack, s)
	}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if closure.Has(s) {
			continue
		}
		closure.Add(s)

		for _, next := range n.states[s].eps {
			stack = append(stack, next)
		}
	}

	return closure
}

// move returns the set of states reachable from some state in x by
// consuming a single symbol sym (dragon-book MOVE(T, a)).
func (n *NFA) move(x util.Set[StateID], sym SymbolID) util.Set[StateID] {
	moved := util.Set[StateID]{}
	for s := range x {
		for _, next := range n.states[s].trans[sym] {
			moved.Add(next)
		}
	}
	return moved
}

func stateKey(ids util.Set[StateID]) string {
	return util.StringOrdered(ids, func(id StateID) string {
		return strconv.Itoa(int(id))
	})
}

// State is one determinized automaton state: the set of NFA states reachable
// from the start of the current candidate match after the frames consumed
// so far. Several parallel NFA threads collapse into a single State, which
// is how the stream matcher tracks "active paths" (spec.md §4.4) without
// hand-rolling its own subset construction at match time.
type State struct {
	nfaSet    util.Set[StateID]
	key       string
	accepting bool
}

// Dead reports whether this state can never reach an accepting state again
// (an empty NFA-state set).
func (s *State) Dead() bool {
	return s == nil || len(s.nfaSet) == 0
}

// Automaton determinizes an NFA on demand (spec.md §4.2: eagerly below the
// configured state-product threshold, lazily above it). Both modes share
// the exact same subset-construction code and the same memoization cache,
// so they are observably identical by construction rather than by separate
// implementations that must be kept in sync.
type Automaton struct {
	nfa       *NFA
	symCount  int
	threshold int
	states    map[string]*State
	start     *State
	dead      *State
}

// DefaultDeterminizationThreshold is the default "state product" ceiling
// (spec.md §4.2) below which the automaton eagerly explores every reachable
// determinized state at construction time.
const DefaultDeterminizationThreshold = 65536

// NewAutomaton builds an Automaton over nfa. threshold <= 0 uses
// DefaultDeterminizationThreshold.
func NewAutomaton(nfa *NFA, symCount int, threshold int) *Automaton {
	if threshold <= 0 {
		threshold = DefaultDeterminizationThreshold
	}

	a := &Automaton{
		nfa:       nfa,
		symCount:  symCount,
		threshold: threshold,
		states:    map[string]*State{},
		dead:      &State{nfaSet: util.Set[StateID]{}, key: ""},
	}

	a.start = a.stateFor(nfa.epsilonClosure(util.NewSet(nfa.start)))

	if stateProduct(len(nfa.states), symCount) <= threshold {
		a.explore(a.start)
	}

	return a
}

func stateProduct(nfaStates, symbols int) int {
	if symbols == 0 {
		return nfaStates
	}
	return nfaStates * symbols
}

// stateFor returns the (cached) State wrapping the given NFA-state set,
// computing its fingerprint and acceptance once.
func (a *Automaton) stateFor(set util.Set[StateID]) *State {
	if len(set) == 0 {
		return a.dead
	}

	key := stateKey(set)
	if s, ok := a.states[key]; ok {
		return s
	}

	accepting := false
	for id := range set {
		if id == a.nfa.accept {
			accepting = true
			break
		}
	}

	s := &State{nfaSet: set, key: key, accepting: accepting}
	a.states[key] = s
	return s
}

// explore eagerly walks every reachable determinized state via breadth-first
// subset construction, populating the cache up front. Used only when the
// state product is within threshold; otherwise the same transitions are
// computed lazily by Step as the stream matcher calls it.
func (a *Automaton) explore(start *State) {
	seen := util.NewSet(start.key)
	queue := []*State{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for sym := 0; sym < a.symCount; sym++ {
			next := a.transition(cur, SymbolID(sym))
			if !seen.Has(next.key) {
				seen.Add(next.key)
				queue = append(queue, next)
			}
		}
	}
}

// transition computes (and memoizes) the determinized state reached from s
// by consuming a single symbol.
func (a *Automaton) transition(s *State, sym SymbolID) *State {
	if s.Dead() {
		return a.dead
	}
	moved := a.nfa.move(s.nfaSet, sym)
	closed := a.nfa.epsilonClosure(moved)
	return a.stateFor(closed)
}

// Start returns the automaton's initial determinized state.
func (a *Automaton) Start() *State {
	return a.start
}

// Step advances s by consuming every symbol in truthy simultaneously
// (spec.md §4.4: "for each active path (q, start) and each truthy symbol s,
// add (δ(q,s), start) to the next path set" — since ε-closure distributes
// over set union, unioning the per-symbol moves before closing is
// equivalent to closing each individually and unioning the results).
func (a *Automaton) Step(s *State, truthy []SymbolID) *State {
	if s.Dead() || len(truthy) == 0 {
		return a.dead
	}

	union := util.Set[StateID]{}
	for _, sym := range truthy {
		union.AddAll(a.nfa.move(s.nfaSet, sym))
	}
	closed := a.nfa.epsilonClosure(union)
	return a.stateFor(closed)
}

// Accepting reports whether s is an accepting state.
func (s *State) Accepting() bool { return s.accepting }

// Key returns a stable identifier for s, suitable as a map key for
// deduplicating active paths that have converged to the same state
// (spec.md §4.4/§5 — once two candidate starts converge to one state their
// futures are identical, so only the smaller start needs to be tracked).
func (s *State) Key() string { return s.key }

// String renders the automaton for debugging.
func (a *Automaton) String() string {
	var sb strings.Builder
	keys := make([]string, 0, len(a.states))
	for k := range a.states {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb.WriteString("<states:")
	for _, k := range keys {
		s := a.states[k]
		sb.WriteString("\n\t{")
		sb.WriteString(k)
		sb.WriteString("}")
		if s.accepting {
			sb.WriteString(" (accepting)")
		}
	}
	sb.WriteString("\n>")
	return sb.String()
}
