package template

import (
	"strconv"
	"strings"
)

// accumulator is the output list variable the generated program appends to.
// Parameter names beginning with the same prefix are rejected by Signature
// validation so user bindings cannot collide with it.
const accumulator = "_tpl_out"

// indentUnit is one level of structural nesting in the generated program.
const indentUnit = "    "

// generate walks the token stream and emits the body of the render function:
// one append per literal and expression, statements spliced at the current
// nesting depth. Template authors write each code chunk starting at column
// zero; the generator supplies the structural indentation.
func generate(tokens []Token) ([]string, error) {
	var (
		lines []string
		depth int
		opens []Position // positions of currently open block statements
	)

	emit := func(d int, line string) {
		lines = append(lines, strings.Repeat(indentUnit, d)+line)
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case KindLiteral:
			if tok.Text == "" {
				continue
			}
			emit(depth, accumulator+".append("+strconv.Quote(tok.Text)+")")

		case KindExpr:
			code := strings.TrimSpace(tok.Text)
			if code == "" {
				continue
			}
			// Extra parentheses keep multi-line expressions valid.
			emit(depth, accumulator+".append(str(("+code+")))")

		case KindStmt:
			trimmed := strings.TrimSpace(tok.Text)
			switch {
			case trimmed == "end":
				if depth == 0 {
					return nil, NewStructureError(tok.Pos, UnmatchedEnd)
				}
				depth--
				opens = opens[:len(opens)-1]
			case isContinuation(trimmed):
				// elif/else re-open the enclosing block: emitted one
				// level out, body continues at the current depth.
				if depth == 0 {
					return nil, NewStructureError(tok.Pos, DanglingElse)
				}
				spliceStatement(emit, depth-1, tok.Text)
			default:
				spliceStatement(emit, depth, tok.Text)
				if tok.Opens {
					depth++
					opens = append(opens, tok.Pos)
				}
			}
		}
	}

	if depth != 0 {
		return nil, NewStructureError(opens[len(opens)-1], UnclosedBlock)
	}
	return lines, nil
}

// spliceStatement emits statement code at the given base depth. Multi-line
// <% %> blocks keep their author-supplied relative indentation: the first
// line is left-trimmed, subsequent lines are emitted with their own leading
// whitespace after the base indentation.
func spliceStatement(emit func(int, string), depth int, code string) {
	code = strings.TrimLeft(code, " \t\r\n")
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		emit(depth, line)
	}
}

// isContinuation reports whether a statement continues an open block at the
// enclosing depth rather than opening a new one.
func isContinuation(trimmed string) bool {
	if !strings.HasSuffix(trimmed, ":") {
		return false
	}
	return trimmed == "else:" ||
		strings.HasPrefix(trimmed, "else ") ||
		strings.HasPrefix(trimmed, "elif ") ||
		strings.HasPrefix(trimmed, "elif(")
}
