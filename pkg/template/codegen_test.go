package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateLines(t *testing.T, input string) []string {
	t.Helper()
	tokens, err := NewLexer(input, "test.tpl", Delims{}).Tokenize()
	require.NoError(t, err, "unexpected lex error")
	lines, err := generate(tokens)
	require.NoError(t, err, "unexpected structure error")
	return lines
}

func TestGenerate_Literal(t *testing.T) {
	lines := generateLines(t, "Hello\n")

	require.Len(t, lines, 1)
	assert.Equal(t, `_tpl_out.append("Hello\n")`, lines[0])
}

func TestGenerate_Expression(t *testing.T) {
	lines := generateLines(t, "{{ 1 + 1 }}")

	require.Len(t, lines, 1)
	assert.Equal(t, "_tpl_out.append(str((1 + 1)))", lines[0])
}

func TestGenerate_BlockIndentation(t *testing.T) {
	lines := generateLines(t, "{{ for i in range(3): }}{{ i }}{{ end }}")

	require.Len(t, lines, 2)
	assert.Equal(t, "for i in range(3):", lines[0])
	assert.Equal(t, "    _tpl_out.append(str((i)))", lines[1], "loop body indented one level")
}

func TestGenerate_NestedBlocks(t *testing.T) {
	lines := generateLines(t, "{{ for i in xs: }}{{ if i: }}{{ i }}{{ end }}{{ end }}")

	require.Len(t, lines, 3)
	assert.Equal(t, "for i in xs:", lines[0])
	assert.Equal(t, "    if i:", lines[1])
	assert.Equal(t, "        _tpl_out.append(str((i)))", lines[2])
}

func TestGenerate_ElifElse(t *testing.T) {
	lines := generateLines(t, "{{ if a: }}1{{ elif b: }}2{{ else: }}3{{ end }}")

	assert.Equal(t, []string{
		"if a:",
		`    _tpl_out.append("1")`,
		"elif b:",
		`    _tpl_out.append("2")`,
		"else:",
		`    _tpl_out.append("3")`,
	}, lines, "continuations dedent, their bodies stay at block depth")
}

func TestGenerate_CodeBlockSplice(t *testing.T) {
	lines := generateLines(t, "<%\nx = 1\ny = 2\n%>")

	assert.Equal(t, []string{"x = 1", "y = 2"}, lines)
}

func TestGenerate_CodeBlockKeepsRelativeIndent(t *testing.T) {
	lines := generateLines(t, "<%\ndef f(n):\n    return n * 2\n%>{{ f(21) }}")

	assert.Equal(t, []string{
		"def f(n):",
		"    return n * 2",
		"_tpl_out.append(str((f(21))))",
	}, lines)
}

func TestGenerate_CodeBlockInsideLoop(t *testing.T) {
	lines := generateLines(t, "{{ for i in xs: }}<% y = i * 2 %>{{ y }}{{ end }}")

	assert.Equal(t, []string{
		"for i in xs:",
		"    y = i * 2",
		"    _tpl_out.append(str((y)))",
	}, lines)
}

func TestGenerate_UnmatchedEnd(t *testing.T) {
	tokens, err := NewLexer("text {{ end }}", "test.tpl", Delims{}).Tokenize()
	require.NoError(t, err)

	_, err = generate(tokens)
	require.Error(t, err)

	var structErr *StructureError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, UnmatchedEnd, structErr.Kind)
}

func TestGenerate_UnclosedBlock(t *testing.T) {
	tokens, err := NewLexer("{{ for x in xs: }}{{ x }}", "test.tpl", Delims{}).Tokenize()
	require.NoError(t, err)

	_, err = generate(tokens)
	require.Error(t, err)

	var structErr *StructureError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, UnclosedBlock, structErr.Kind)
	assert.Equal(t, 1, structErr.Position().Line, "error points at the opener")
}

func TestGenerate_DanglingElse(t *testing.T) {
	tokens, err := NewLexer("{{ else: }}", "test.tpl", Delims{}).Tokenize()
	require.NoError(t, err)

	_, err = generate(tokens)
	require.Error(t, err)

	var structErr *StructureError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, DanglingElse, structErr.Kind)
}

func TestGenerate_EmptyTokensSkipped(t *testing.T) {
	lines := generateLines(t, "{{  }}")
	assert.Empty(t, lines, "blank expression emits nothing")
}
