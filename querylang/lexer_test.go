package querylang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexerKeywordsAreCaseSensitive(t *testing.T) {
	lex := NewLexer("AND or Not")

	tok, err := lex.Next()
	require.NoError(t, err)
	require.Equal(t, TokenAnd, tok.Kind)

	tok, err = lex.Next()
	require.NoError(t, err)
	require.Equal(t, TokenIdent, tok.Kind)
	require.Equal(t, "or", tok.Value)

	tok, err = lex.Next()
	require.NoError(t, err)
	require.Equal(t, TokenIdent, tok.Kind)
	require.Equal(t, "Not", tok.Value)
}

func TestLexerQuotedStringEscapes(t *testing.T) {
	lex := NewLexer(`"a \"quoted\" value"`)

	tok, err := lex.Next()
	require.NoError(t, err)
	require.Equal(t, TokenString, tok.Kind)
	require.Equal(t, `a "quoted" value`, tok.Value)
}

func TestLexerUnterminatedString(t *testing.T) {
	lex := NewLexer(`"unterminated`)
	_, err := lex.Next()
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
}

func TestLexerPunctuation(t *testing.T) {
	lex := NewLexer(`tag_id:5.ns:(x)`)
	var kinds []TokenKind
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		if tok.Kind == TokenEOF {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []TokenKind{
		TokenIdent, TokenColon, TokenIdent, TokenDot, TokenIdent, TokenColon,
		TokenLParen, TokenIdent, TokenRParen,
	}, kinds)
}
