package querylang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmptyQueryYieldsNilAST(t *testing.T) {
	ast, err := Parse("")
	require.NoError(t, err)
	require.Nil(t, ast)

	ast, err = Parse("   ")
	require.NoError(t, err)
	require.Nil(t, ast)
}

func TestParseBareValueDefaultsToTag(t *testing.T) {
	ast, err := Parse("Landscape")
	require.NoError(t, err)
	c, ok := ast.(*Constraint)
	require.True(t, ok)
	require.Equal(t, ConstraintTag, c.Type)
	require.Equal(t, "Landscape", c.Value)
}

func TestParseTypedConstraint(t *testing.T) {
	ast, err := Parse("tag_id:42")
	require.NoError(t, err)
	c, ok := ast.(*Constraint)
	require.True(t, ok)
	require.Equal(t, ConstraintTagID, c.Type)
	require.Equal(t, "42", c.Value)
}

func TestParseAdjacencyMeansAnd(t *testing.T) {
	ast, err := Parse("Red Square")
	require.NoError(t, err)
	and, ok := ast.(*ANDList)
	require.True(t, ok)
	require.Len(t, and.Terms, 2)
}

func TestParseExplicitAndOr(t *testing.T) {
	ast, err := Parse("Red AND Square OR Blue")
	require.NoError(t, err)
	or, ok := ast.(*ORList)
	require.True(t, ok)
	require.Len(t, or.Elements, 2)
	and, ok := or.Elements[0].(*ANDList)
	require.True(t, ok)
	require.Len(t, and.Terms, 2)
}

func TestParseNotAndGrouping(t *testing.T) {
	ast, err := Parse(`NOT (tag:Red OR tag:Blue)`)
	require.NoError(t, err)
	not, ok := ast.(*Not)
	require.True(t, ok)
	_, ok = not.Child.(*ORList)
	require.True(t, ok)
}

func TestParseQuotedPathValue(t *testing.T) {
	ast, err := Parse(`path:"A/B/c.png"`)
	require.NoError(t, err)
	c, ok := ast.(*Constraint)
	require.True(t, ok)
	require.Equal(t, ConstraintPath, c.Type)
	require.Equal(t, "A/B/c.png", c.Value)
}

func TestParseUnknownPrefixFallsBackToBareTag(t *testing.T) {
	// "unknownprefix" isn't a recognized constraint type, so ":" never
	// follows it as a type separator in this grammar; a stray colon
	// after an unrecognized word is a syntax error, but the bare word
	// alone parses as tag:<word>.
	ast, err := Parse("unknownprefix")
	require.NoError(t, err)
	c, ok := ast.(*Constraint)
	require.True(t, ok)
	require.Equal(t, ConstraintTag, c.Type)
	require.Equal(t, "unknownprefix", c.Value)
}

func TestParseMalformedQueryReturnsParseError(t *testing.T) {
	_, err := Parse("(tag:Red")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseTrailingPropertyReservedForFutureUse(t *testing.T) {
	ast, err := Parse("tag:Red.ns:value")
	require.NoError(t, err)
	c, ok := ast.(*Constraint)
	require.True(t, ok)
	require.Len(t, c.Properties, 1)
	require.Equal(t, "ns", c.Properties[0].Name)
	require.Equal(t, "value", c.Properties[0].Value)
}
