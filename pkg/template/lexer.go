package template

import (
	"strings"
	"unicode/utf8"
)

// Lexer tokenizes a template string into literal and code tokens.
type Lexer struct {
	input  string
	file   string
	delims Delims
	pos    int // current byte position in input
	line   int // current line number (1-based)
	col    int // current column number (1-based)
}

// NewLexer creates a new lexer for the given input. Empty delimiter fields
// fall back to the defaults.
func NewLexer(input, file string, delims Delims) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		delims: delims.withDefaults(),
		line:   1,
		col:    1,
	}
}

// Tokenize converts the input into a slice of tokens. Whitespace-trim
// markers are applied to the adjacent literal tokens before returning, so
// the caller sees literal text exactly as it will be emitted.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	var lit strings.Builder
	var litPos Position

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, Token{Kind: KindLiteral, Text: lit.String(), Pos: litPos})
			lit.Reset()
		}
	}
	write := func(s string) {
		if lit.Len() == 0 {
			litPos = l.position()
		}
		lit.WriteString(s)
	}

	for l.pos < len(l.input) {
		switch {
		case l.match(`\` + l.delims.InlineStart):
			// Escaped delimiter: drop the backslash, emit the two
			// delimiter characters literally.
			write(l.delims.InlineStart)
			l.skip(1 + len(l.delims.InlineStart))
		case l.match(`\` + l.delims.BlockStart):
			write(l.delims.BlockStart)
			l.skip(1 + len(l.delims.BlockStart))
		case l.match(l.delims.InlineStart):
			flush()
			tok, err := l.scanRegion(l.delims.InlineStart, l.delims.InlineEnd, true)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case l.match(l.delims.BlockStart):
			flush()
			tok, err := l.scanRegion(l.delims.BlockStart, l.delims.BlockEnd, false)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		default:
			r := l.peek()
			if lit.Len() == 0 {
				litPos = l.position()
			}
			lit.WriteRune(r)
			l.advance()
		}
	}
	flush()

	applyTrims(tokens)
	return tokens, nil
}

// scanRegion scans one code region. The opening delimiter has been matched
// but not consumed. Inline regions ({{ }}) are classified as statements when
// the content ends with a block-opening colon at code level or equals "end";
// block regions (<% %>) are always statements.
func (l *Lexer) scanRegion(open, close string, inline bool) (Token, error) {
	start := l.position()
	l.skip(len(open))

	tok := Token{Kind: KindStmt, Pos: start}
	if l.pos < len(l.input) && l.input[l.pos] == '-' {
		tok.TrimBefore = true
		l.skip(1)
	}

	code, trimAfter, endsColon, err := l.scanCode(close, start)
	if err != nil {
		return Token{}, err
	}
	tok.Text = code
	tok.TrimAfter = trimAfter
	tok.Opens = endsColon

	if inline {
		trimmed := strings.TrimSpace(code)
		if trimmed != "end" && !endsColon {
			tok.Kind = KindExpr
			tok.Opens = false
		}
	}
	return tok, nil
}

// scanCode consumes the inside of a code region up to (and including) its
// closing delimiter. The scan is aware of Starlark string literals and
// comments: a closing delimiter inside a string does not terminate the
// region, and a trailing colon only counts as a block opener when it is
// significant code. Reports whether a leading `-` trim marker preceded the
// closing delimiter, and whether the code ends with a significant colon.
func (l *Lexer) scanCode(close string, start Position) (code string, trimAfter, endsColon bool, err error) {
	var b strings.Builder
	inComment := false
	var prev rune

	for l.pos < len(l.input) {
		if l.match("-" + close) {
			l.skip(1 + len(close))
			return b.String(), true, endsColon, nil
		}
		if l.match(close) {
			l.skip(len(close))
			return b.String(), false, endsColon, nil
		}

		r := l.peek()
		if inComment {
			if r == '\n' {
				inComment = false
			}
			b.WriteRune(r)
			l.advance()
			continue
		}

		switch {
		case r == '#':
			inComment = true
			b.WriteRune(r)
			l.advance()
		case r == '\'' || r == '"':
			l.scanString(&b, rawPrefix(prev, b.String()))
			// The string's closing quote is the last significant
			// character, never a block-opening colon.
			endsColon = false
			prev = r
		default:
			if !isSpace(r) {
				endsColon = r == ':'
				prev = r
			}
			b.WriteRune(r)
			l.advance()
		}
	}

	return "", false, false, NewLexErrorf(start, "unterminated code block at offset %d: missing %q", start.Offset, close)
}

// scanString consumes a Starlark string literal (single, double, or
// triple-quoted). Raw strings treat backslash as an ordinary character. An
// unterminated string simply stops at end of line or input; the Starlark
// compiler reports the real diagnostic later.
func (l *Lexer) scanString(b *strings.Builder, raw bool) {
	q := l.peek()
	quote := string(q)
	triple := l.match(quote + quote + quote)

	n := 1
	if triple {
		n = 3
	}
	for i := 0; i < n; i++ {
		b.WriteRune(l.peek())
		l.advance()
	}

	for l.pos < len(l.input) {
		r := l.peek()
		if !raw && r == '\\' {
			b.WriteRune(r)
			l.advance()
			if l.pos < len(l.input) {
				b.WriteRune(l.peek())
				l.advance()
			}
			continue
		}
		if triple {
			if l.match(quote + quote + quote) {
				for i := 0; i < 3; i++ {
					b.WriteRune(l.peek())
					l.advance()
				}
				return
			}
		} else {
			if r == q {
				b.WriteRune(r)
				l.advance()
				return
			}
			if r == '\n' {
				return
			}
		}
		b.WriteRune(r)
		l.advance()
	}
}

// rawPrefix reports whether the rune before an opening quote marks a raw
// string (r"...", rb"...").
func rawPrefix(prev rune, code string) bool {
	if prev == 'r' || prev == 'R' {
		return true
	}
	if prev == 'b' || prev == 'B' {
		trimmed := strings.TrimRight(code, "bB")
		if strings.HasSuffix(trimmed, "r") || strings.HasSuffix(trimmed, "R") {
			return true
		}
	}
	return false
}

// applyTrims mutates literal tokens adjacent to code tokens carrying trim
// flags. Applied once, after tokenization.
func applyTrims(tokens []Token) {
	for i := range tokens {
		if tokens[i].Kind == KindLiteral {
			continue
		}
		if tokens[i].TrimBefore && i > 0 && tokens[i-1].Kind == KindLiteral {
			tokens[i-1].Text = strings.TrimRight(tokens[i-1].Text, " \t\r\n")
		}
		if tokens[i].TrimAfter && i+1 < len(tokens) && tokens[i+1].Kind == KindLiteral {
			tokens[i+1].Text = strings.TrimLeft(tokens[i+1].Text, " \t\r\n")
		}
	}
}

// Helper methods

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// peek returns the current rune without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// advance moves to the next rune, updating position tracking.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// skip advances over n bytes of known-ASCII input such as delimiters.
func (l *Lexer) skip(n int) {
	target := l.pos + n
	for l.pos < target && l.pos < len(l.input) {
		l.advance()
	}
}

// match checks if the input at the current position starts with s.
func (l *Lexer) match(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

// position returns the current position.
func (l *Lexer) position() Position {
	return Position{File: l.file, Line: l.line, Column: l.col, Offset: l.pos}
}
