package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/silvaine/sprestream/internal/annot"
	"github.com/silvaine/sprestream/internal/geom"
	"github.com/silvaine/sprestream/internal/spre"
)

func sample(classes ...string) annot.Sample {
	var anns []annot.Annotation
	for i, c := range classes {
		anns = append(anns, annot.Annotation{
			Class: c,
			BBox:  geom.Box{X: float64(i), Y: 0, W: 1, H: 1},
		})
	}
	return annot.Sample{Annotations: anns}
}

func classFormula(name string) *spre.Formula {
	n, err := spre.Parse("[[:" + name + ":]]")
	if err != nil {
		panic(err)
	}
	return &n.Symbol
}

func formula(pattern string) *spre.Formula {
	n, err := spre.Parse(pattern)
	if err != nil {
		panic(err)
	}
	return &n.Symbol
}

func TestEvalClassPresence(t *testing.T) {
	assert := assert.New(t)

	f := classFormula("bus")
	assert.Truef(Eval(f, sample("bus")), "expected class(bus) to be true when a bus annotation is present")
	assert.Falsef(Eval(f, sample("car")), "expected class(bus) to be false when no bus annotation is present")
}

func TestEvalBooleanConnectives(t *testing.T) {
	assert := assert.New(t)

	f := formula("[[:bus:]&![:car:]]")
	assert.Truef(Eval(f, sample("bus")), "expected bus&!car to be true for a bus-only sample")
	assert.Falsef(Eval(f, sample("bus", "car")), "expected bus&!car to be false when both classes are present")
}

func TestEvalNonemptyTrueWhenOverlapExists(t *testing.T) {
	s := annot.Sample{Annotations: []annot.Annotation{
		{Class: "bus", BBox: geom.Box{X: 0, Y: 0, W: 10, H: 10}},
		{Class: "stop", BBox: geom.Box{X: 5, Y: 5, W: 10, H: 10}},
	}}
	f := formula("[<nonempty>([:bus:]&[:stop:])]")
	assert.Truef(t, Eval(f, s), "expected nonempty(bus & stop) to be true for overlapping boxes")
}

func TestEvalNonemptyFalseWhenBoxesDoNotOverlap(t *testing.T) {
	s := annot.Sample{Annotations: []annot.Annotation{
		{Class: "bus", BBox: geom.Box{X: 0, Y: 0, W: 1, H: 1}},
		{Class: "stop", BBox: geom.Box{X: 100, Y: 100, W: 1, H: 1}},
	}}
	f := formula("[<nonempty>([:bus:]&[:stop:])]")
	assert.Falsef(t, Eval(f, s), "expected nonempty(bus & stop) to be false for disjoint boxes")
}

func TestEvalNonemptyOrUnionsBoxSets(t *testing.T) {
	s := sample("bus")
	f := formula("[<nonempty>([:bus:]|[:car:])]")
	assert.Truef(t, Eval(f, s), "expected nonempty(bus | car) to be true when bus alone is present")
}

func TestTruthySymbolsAscendingAndComplete(t *testing.T) {
	tab := newSymbolTableForTest(t, "[[:bus:]]", "[[:car:]]", "[[:truck:]]")
	s := sample("truck", "bus")

	truthy := TruthySymbols(tab, s)
	assert.Equal(t, []spre.SymbolID{0, 2}, truthy)
}

func newSymbolTableForTest(t *testing.T, patterns ...string) *spre.SymbolTable {
	t.Helper()
	p, err := spre.CompilePattern(joinConcat(patterns), spre.CompileOptions{})
	assert.NoError(t, err)
	return p.Symbols()
}

func joinConcat(patterns []string) string {
	out := ""
	for _, p := range patterns {
		out += p
	}
	return out
}
