package spre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexBasicTokens(t *testing.T) {
	assert := assert.New(t)

	toks, err := lex("([:bus:]|[:car:])*")
	assert.NoError(err)

	want := []tokenClass{tkLParen, tkClass, tkPipe, tkClass, tkRParen, tkStar, tkEndOfText}
	if assert.Len(toks, len(want)) {
		for i, w := range want {
			assert.Equalf(w, toks[i].class, "token %d", i)
		}
	}
}

func TestLexClassName(t *testing.T) {
	assert := assert.New(t)

	toks, err := lex("[:bus_2:]")
	assert.NoError(err)

	if assert.NotEmpty(toks) {
		assert.Equal(tkClass, toks[0].class)
		assert.Equal("bus_2", toks[0].name)
	}
}

func TestLexNonempty(t *testing.T) {
	assert := assert.New(t)

	toks, err := lex("[<nonempty>[:bus:]]")
	assert.NoError(err)

	want := []tokenClass{tkLBracket, tkNonempty, tkClass, tkRBracket, tkEndOfText}
	if assert.Len(toks, len(want)) {
		for i, w := range want {
			assert.Equalf(w, toks[i].class, "token %d", i)
		}
	}
}

func TestLexWhitespaceInsideGroupIsInsignificant(t *testing.T) {
	_, err := lex("[ [:bus:] & [:car:] ]")
	assert.NoError(t, err)
}

func TestLexWhitespaceOutsideGroupIsForbidden(t *testing.T) {
	assert := assert.New(t)

	_, err := lex("[:bus:] [:car:]")
	assert.Error(err)
	assert.IsType(LexError{}, err)
}

func TestLexUnterminatedClass(t *testing.T) {
	_, err := lex("[:bus")
	assert.Error(t, err)
}

func TestLexUnexpectedCharacter(t *testing.T) {
	_, err := lex("[:bus:]%")
	assert.Error(t, err)
}
