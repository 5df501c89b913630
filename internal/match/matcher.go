// Package match implements the pull-based stream matcher: it evaluates a
// compiled pattern's symbol table against one frame at a time and drives
// the pattern's automaton to find leftmost-longest, non-overlapping
// matches without ever buffering the whole stream in memory.
package match

import (
	"github.com/silvaine/sprestream/internal/annot"
	"github.com/silvaine/sprestream/internal/eval"
	"github.com/silvaine/sprestream/internal/spre"
)

// FrameSource yields frames one at a time. Next returns ok == false once
// the source is exhausted, so a caller can consume a stream incrementally
// rather than holding it in full as a slice.
type FrameSource interface {
	Next() (annot.Frame, bool, error)
}

// Interval is a half-open span of frame positions [Start, End) a pattern
// matched, counted from the start of the stream the Matcher was given
// (position, not Frame.Index).
type Interval struct {
	Start, End int
}

// Options configures a Matcher.
type Options struct {
	// Channel selects which sample of a multi-channel frame to evaluate.
	// Empty selects the first sample (annot.Frame.Select's default).
	Channel string

	// MaxCount stops the matcher after this many matches. Zero means
	// unlimited.
	MaxCount int
}

type activePath struct {
	state *spre.State
	start int
}

// Matcher drives one pattern over one FrameSource.
type Matcher struct {
	pattern *spre.Pattern
	frames  FrameSource
	opts    Options

	pos    int
	done   bool
	active map[string]activePath
	bestEnd map[int]int

	finalized      []Interval
	emittedThrough int
	emittedCount   int
}

// New builds a Matcher for pattern over frames.
func New(pattern *spre.Pattern, frames FrameSource, opts Options) *Matcher {
	return &Matcher{
		pattern: pattern,
		frames:  frames,
		opts:    opts,
		active:  map[string]activePath{},
		bestEnd: map[int]int{},
	}
}

// Next returns the next match interval in increasing start order, or
// ok == false when no further matches remain (stream exhausted or
// MaxCount reached).
func (m *Matcher) Next() (Interval, bool, error) {
	for {
		if m.opts.MaxCount > 0 && m.emittedCount >= m.opts.MaxCount {
			return Interval{}, false, nil
		}

		if iv, ok := m.tryEmit(); ok {
			m.emittedCount++
			return iv, true, nil
		}

		if m.done {
			return Interval{}, false, nil
		}

		if err := m.step(); err != nil {
			return Interval{}, false, err
		}
	}
}

// tryEmit discards any buffered candidate that overlaps a previously
// emitted match, then emits the smallest remaining start only once no
// still-active path could possibly produce an even smaller start (spec.md
// §4.4/§5: matches are resolved and emitted in increasing start order,
// retaining only the minimum state needed to know that is safe).
func (m *Matcher) tryEmit() (Interval, bool) {
	kept := m.finalized[:0]
	for _, c := range m.finalized {
		if c.Start < m.emittedThrough {
			continue
		}
		kept = append(kept, c)
	}
	m.finalized = kept

	if len(m.finalized) == 0 {
		return Interval{}, false
	}

	bestIdx := 0
	for i, c := range m.finalized {
		if c.Start < m.finalized[bestIdx].Start {
			bestIdx = i
		}
	}
	best := m.finalized[bestIdx]

	if !m.done && m.minActiveStart() < best.Start {
		return Interval{}, false
	}

	m.finalized = append(m.finalized[:bestIdx], m.finalized[bestIdx+1:]...)
	m.emittedThrough = best.End
	return best, true
}

func (m *Matcher) minActiveStart() int {
	min := -1
	for _, p := range m.active {
		if min == -1 || p.start < min {
			min = p.start
		}
	}
	if min == -1 {
		return int(^uint(0) >> 1)
	}
	return min
}

// step consumes one frame, advancing every active path plus a freshly
// spawned candidate starting at the current position, and finalizes any
// path whose automaton state just died (including paths merged away
// because a smaller-start path reached the identical state, per spec.md
// §4.4's note that two paths in the same state have identical futures).
func (m *Matcher) step() error {
	frame, ok, err := m.frames.Next()
	if err != nil {
		return err
	}
	if !ok {
		m.finishStream()
		return nil
	}

	sample, _ := frame.Select(m.opts.Channel)
	truthy := eval.TruthySymbols(m.pattern.Symbols(), sample)

	automaton := m.pattern.Automaton()

	type candidate struct {
		start int
		state *spre.State
	}
	candidates := make([]candidate, 0, len(m.active)+1)
	for _, p := range m.active {
		candidates = append(candidates, candidate{start: p.start, state: p.state})
	}
	candidates = append(candidates, candidate{start: m.pos, state: automaton.Start()})

	survivors := map[string]activePath{}
	for _, c := range candidates {
		next := automaton.Step(c.state, truthy)
		if next.Dead() {
			m.finalizeStart(c.start)
			continue
		}

		key := next.Key()
		if existing, ok := survivors[key]; ok {
			if c.start < existing.start {
				m.finalizeStart(existing.start)
				survivors[key] = activePath{state: next, start: c.start}
			} else {
				m.finalizeStart(c.start)
			}
			continue
		}
		survivors[key] = activePath{state: next, start: c.start}
	}

	end := m.pos + 1
	for key, p := range survivors {
		if p.state.Accepting() {
			m.bestEnd[p.start] = end
		}
		survivors[key] = p
	}

	m.active = survivors
	m.pos++
	return nil
}

// finalizeStart moves start's recorded best match (if any) into the
// finalized buffer, since its path can no longer be extended.
func (m *Matcher) finalizeStart(start int) {
	end, ok := m.bestEnd[start]
	if !ok {
		return
	}
	delete(m.bestEnd, start)
	m.finalized = append(m.finalized, Interval{Start: start, End: end})
}

func (m *Matcher) finishStream() {
	for start, end := range m.bestEnd {
		m.finalized = append(m.finalized, Interval{Start: start, End: end})
	}
	m.bestEnd = map[int]int{}
	m.active = map[string]activePath{}
	m.done = true
}

// All drains every match from the matcher. It is a convenience for callers
// that do not need the pull-based interface, such as cmd/sprequery.
func All(pattern *spre.Pattern, frames FrameSource, opts Options) ([]Interval, error) {
	m := New(pattern, frames, opts)
	var out []Interval
	for {
		iv, ok, err := m.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, iv)
	}
}
