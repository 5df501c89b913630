package spre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeFoldsDoubleNegation(t *testing.T) {
	assert := assert.New(t)

	f := not(not(class("bus")))
	got := canonicalize(f)

	assert.Equal(FormClass, got.Kind)
	assert.Equal("bus", got.Class)
}

func TestCanonicalizeSortsCommutativeOperands(t *testing.T) {
	a := and(class("zebra"), class("apple"))
	b := and(class("apple"), class("zebra"))

	assert.Equalf(t, fingerprint(canonicalize(a)), fingerprint(canonicalize(b)),
		"and(zebra,apple) and and(apple,zebra) should canonicalize identically")
}

func TestSymbolTableInternsCommutativeFormulasToSameID(t *testing.T) {
	assert := assert.New(t)

	tab := newSymbolTable()
	id1 := tab.intern(or(class("bus"), class("car")))
	id2 := tab.intern(or(class("car"), class("bus")))

	assert.Equal(id1, id2)
	assert.Equal(1, tab.Len())
}

func TestSymbolTableInternIsDense(t *testing.T) {
	assert := assert.New(t)

	tab := newSymbolTable()
	tab.intern(class("bus"))
	tab.intern(class("car"))
	tab.intern(class("bus"))

	assert.Equal(2, tab.Len())
	assert.Equal([]SymbolID{0, 1}, tab.IDs())
}
