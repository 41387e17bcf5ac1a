package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lex(t *testing.T, input string) []Token {
	t.Helper()
	tokens, err := NewLexer(input, "test.tpl", Delims{}).Tokenize()
	require.NoError(t, err, "unexpected error")
	return tokens
}

func TestLexer_PlainText(t *testing.T) {
	input := "Hello, world!"
	tokens := lex(t, input)

	require.Len(t, tokens, 1, "expected 1 token")
	assert.Equal(t, KindLiteral, tokens[0].Kind, "expected LITERAL")
	assert.Equal(t, input, tokens[0].Text, "expected input text")
}

func TestLexer_SimpleExpression(t *testing.T) {
	tokens := lex(t, "Hello {{ name }}!")

	expected := []struct {
		kind Kind
		text string
	}{
		{KindLiteral, "Hello "},
		{KindExpr, " name "},
		{KindLiteral, "!"},
	}

	require.Len(t, tokens, len(expected), "wrong number of tokens")
	for i, exp := range expected {
		assert.Equal(t, exp.kind, tokens[i].Kind, "token[%d] kind", i)
		assert.Equal(t, exp.text, tokens[i].Text, "token[%d] text", i)
	}
}

func TestLexer_MultipleExpressions(t *testing.T) {
	tokens := lex(t, "{{ a }} + {{ b }}")

	require.Len(t, tokens, 3, "wrong number of tokens")
	assert.Equal(t, KindExpr, tokens[0].Kind)
	assert.Equal(t, KindLiteral, tokens[1].Kind)
	assert.Equal(t, KindExpr, tokens[2].Kind)
}

func TestLexer_StatementColon(t *testing.T) {
	tokens := lex(t, "{{ for x in items: }}{{ x }}{{ end }}")

	require.Len(t, tokens, 3, "wrong number of tokens")

	assert.Equal(t, KindStmt, tokens[0].Kind, "opener classified as STMT")
	assert.True(t, tokens[0].Opens, "opener should open a block")
	assert.Equal(t, KindExpr, tokens[1].Kind)
	assert.Equal(t, KindStmt, tokens[2].Kind, "end classified as STMT")
	assert.False(t, tokens[2].Opens, "end does not open a block")
	assert.Equal(t, "end", strings.TrimSpace(tokens[2].Text))
}

func TestLexer_CodeBlock(t *testing.T) {
	tokens := lex(t, "<% x = 42 %>x is {{x}}")

	require.Len(t, tokens, 3, "wrong number of tokens")
	assert.Equal(t, KindStmt, tokens[0].Kind, "code block is STMT")
	assert.Equal(t, " x = 42 ", tokens[0].Text)
	assert.False(t, tokens[0].Opens)
	assert.Equal(t, KindLiteral, tokens[1].Kind)
	assert.Equal(t, "x is ", tokens[1].Text)
	assert.Equal(t, KindExpr, tokens[2].Kind)
}

func TestLexer_MultilineCodeBlock(t *testing.T) {
	input := "<%\ndef greet(who):\n    return \"hi \" + who\n%>{{ greet(name) }}"
	tokens := lex(t, input)

	require.Len(t, tokens, 2, "wrong number of tokens")
	assert.Equal(t, KindStmt, tokens[0].Kind)
	assert.Contains(t, tokens[0].Text, "def greet(who):")
	assert.Equal(t, KindExpr, tokens[1].Kind)
}

func TestLexer_EscapedDelimiters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"inline", `\{{x}}`, "{{x}}"},
		{"block", `\<% code %>`, "<% code %>"},
		{"mixed", `a \{{ b`, "a {{ b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := lex(t, tt.input)
			require.Len(t, tokens, 1, "escape should produce a single literal")
			assert.Equal(t, KindLiteral, tokens[0].Kind)
			assert.Equal(t, tt.want, tokens[0].Text)
		})
	}
}

func TestLexer_TrimMarkers(t *testing.T) {
	tokens := lex(t, "  a  {{- x -}}  b  ")

	require.Len(t, tokens, 3, "wrong number of tokens")
	assert.Equal(t, "  a", tokens[0].Text, "trailing whitespace trimmed before code")
	assert.True(t, tokens[1].TrimBefore)
	assert.True(t, tokens[1].TrimAfter)
	assert.Equal(t, " x ", tokens[1].Text, "trim markers are not part of the code")
	assert.Equal(t, "b  ", tokens[2].Text, "leading whitespace trimmed after code")
}

func TestLexer_TrimAcrossNewlines(t *testing.T) {
	tokens := lex(t, "a\n\t {{- x }}")

	require.Len(t, tokens, 2)
	assert.Equal(t, "a", tokens[0].Text, "trim removes newlines too")
}

func TestLexer_ColonInsideString(t *testing.T) {
	// A trailing colon inside a string literal must not classify the region
	// as a block opener.
	tokens := lex(t, `{{ "label:" }}`)

	require.Len(t, tokens, 1)
	assert.Equal(t, KindExpr, tokens[0].Kind, "string content is not a block opener")
	assert.False(t, tokens[0].Opens)
}

func TestLexer_CloseDelimiterInsideString(t *testing.T) {
	tokens := lex(t, `{{ "}}" + x }}`)

	require.Len(t, tokens, 1)
	assert.Equal(t, KindExpr, tokens[0].Kind)
	assert.Equal(t, ` "}}" + x `, tokens[0].Text, "closing braces inside strings are content")
}

func TestLexer_TripleQuotedString(t *testing.T) {
	tokens := lex(t, `{{ """}}""" }}`)

	require.Len(t, tokens, 1)
	assert.Equal(t, ` """}}""" `, tokens[0].Text)
}

func TestLexer_Unterminated(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"inline", "before {{ x + 1"},
		{"block", "before <% x = 1"},
		{"inside string", `{{ "x }}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer(tt.input, "test.tpl", Delims{}).Tokenize()
			require.Error(t, err, "expected lex error")

			var lexErr *LexError
			require.ErrorAs(t, err, &lexErr, "expected *LexError")
			assert.Contains(t, err.Error(), "unterminated")
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	tokens := lex(t, "ab\ncd{{ x }}")

	require.Len(t, tokens, 2)
	assert.Equal(t, 1, tokens[0].Pos.Line)
	assert.Equal(t, 1, tokens[0].Pos.Column)
	assert.Equal(t, 2, tokens[1].Pos.Line, "code token line")
	assert.Equal(t, 3, tokens[1].Pos.Column, "code token column")
	assert.Equal(t, "test.tpl", tokens[1].Pos.File)
}

func TestLexer_CustomDelims(t *testing.T) {
	delims := Delims{InlineStart: "[[", InlineEnd: "]]", BlockStart: "<?", BlockEnd: "?>"}
	tokens, err := NewLexer("a [[ x ]] b <? y = 1 ?> {{ not code }}", "test.tpl", delims).Tokenize()
	require.NoError(t, err)

	require.Len(t, tokens, 5)
	assert.Equal(t, KindExpr, tokens[1].Kind)
	assert.Equal(t, " x ", tokens[1].Text)
	assert.Equal(t, KindLiteral, tokens[2].Kind)
	assert.Equal(t, KindStmt, tokens[3].Kind)
	assert.Equal(t, KindLiteral, tokens[4].Kind, "default delimiters are plain text")
	assert.Equal(t, " {{ not code }}", tokens[4].Text)
}

func TestLexer_EmptyInput(t *testing.T) {
	tokens := lex(t, "")
	assert.Empty(t, tokens, "empty input yields no tokens")
}

func TestLexer_ElifElseClassification(t *testing.T) {
	tokens := lex(t, "{{ if a: }}1{{ elif b: }}2{{ else: }}3{{ end }}")

	kinds := make([]Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []Kind{
		KindStmt, KindLiteral, KindStmt, KindLiteral, KindStmt, KindLiteral, KindStmt,
	}, kinds)
	assert.True(t, tokens[2].Opens, "elif ends with a colon")
	assert.True(t, tokens[4].Opens, "else ends with a colon")
}
