package script

import (
	"testing"
)

func TestLexerKeywords(t *testing.T) {
	input := "const var if else end"

	expected := []struct {
		kind TokenKind
		text string
	}{
		{TokenConst, "const"},
		{TokenVar, "var"},
		{TokenIf, "if"},
		{TokenElse, "else"},
		{TokenEnd, "end"},
		{TokenEOF, ""},
	}

	lexer := NewLexer([]byte(input))
	for i, exp := range expected {
		tok := lexer.Next()
		if tok.Kind != exp.kind {
			t.Errorf("token %d: expected kind %v, got %v", i, exp.kind, tok.Kind)
		}
		if got := tok.Text([]byte(input)); got != exp.text {
			t.Errorf("token %d: expected text %q, got %q", i, exp.text, got)
		}
	}
}

func TestLexerOperators(t *testing.T) {
	// Each operator is lexed after an identifier so that '*' is not at
	// the start of a line.
	tests := []struct {
		op   string
		kind TokenKind
	}{
		{"=", TokenAssign},
		{"+", TokenPlus},
		{"-", TokenMinus},
		{"*", TokenStar},
		{"/", TokenSlash},
		{"+=", TokenPlusEq},
		{"-=", TokenMinusEq},
		{"*=", TokenStarEq},
		{"/=", TokenSlashEq},
		{"==", TokenEqEq},
		{"!=", TokenBangEq},
		{"<", TokenLess},
		{">", TokenGreater},
		{"<=", TokenLessEq},
		{">=", TokenGreaterEq},
		{"->", TokenArrow},
		{"(", TokenLParen},
		{")", TokenRParen},
		{"{", TokenLBrace},
		{"}", TokenRBrace},
		{"~", TokenTilde},
	}

	for _, tt := range tests {
		lexer := NewLexer([]byte("x " + tt.op))
		if tok := lexer.Next(); tok.Kind != TokenIdent {
			t.Fatalf("op %q: expected leading Ident, got %v", tt.op, tok.Kind)
		}
		if tok := lexer.Next(); tok.Kind != tt.kind {
			t.Errorf("op %q: expected %v, got %v", tt.op, tt.kind, tok.Kind)
		}
	}
}

func TestLexerIdentifiersAndNumbers(t *testing.T) {
	input := "alpha _private x1 camelCase 42 007"
	expected := []struct {
		kind TokenKind
		text string
	}{
		{TokenIdent, "alpha"},
		{TokenIdent, "_private"},
		{TokenIdent, "x1"},
		{TokenIdent, "camelCase"},
		{TokenNumber, "42"},
		{TokenNumber, "007"},
	}

	lexer := NewLexer([]byte(input))
	for i, exp := range expected {
		tok := lexer.Next()
		if tok.Kind != exp.kind {
			t.Errorf("token %d: expected %v, got %v", i, exp.kind, tok.Kind)
		}
		if got := tok.Text([]byte(input)); got != exp.text {
			t.Errorf("token %d: expected %q, got %q", i, exp.text, got)
		}
	}
}

func TestLexerLineComment(t *testing.T) {
	lexer := NewLexer([]byte("// a note\nconst"))
	if tok := lexer.Next(); tok.Kind != TokenConst {
		t.Errorf("expected const after comment, got %v", tok.Kind)
	}
}

func TestLexerDialogueLine(t *testing.T) {
	input := []byte("Npc: hello {name}!\n")
	expected := []struct {
		kind TokenKind
		text string
	}{
		{TokenIdent, "Npc"},
		{TokenColon, ":"},
		{TokenString, " hello "},
		{TokenInterOpen, "{"},
		{TokenIdent, "name"},
		{TokenInterClose, "}"},
		{TokenString, "!"},
		{TokenEOF, ""},
	}

	lexer := NewLexer(input)
	for i, exp := range expected {
		tok := lexer.Next()
		if tok.Kind != exp.kind {
			t.Errorf("token %d: expected %v, got %v", i, exp.kind, tok.Kind)
		}
		if got := tok.Text(input); got != exp.text {
			t.Errorf("token %d: expected %q, got %q", i, exp.text, got)
		}
	}
}

func TestLexerDialogueArrow(t *testing.T) {
	input := []byte("Guide: go north -> gate\n")
	expected := []struct {
		kind TokenKind
		text string
	}{
		{TokenIdent, "Guide"},
		{TokenColon, ":"},
		{TokenString, " go north "},
		{TokenArrow, "->"},
		{TokenIdent, "gate"},
		{TokenEOF, ""},
	}

	lexer := NewLexer(input)
	for i, exp := range expected {
		tok := lexer.Next()
		if tok.Kind != exp.kind {
			t.Errorf("token %d: expected %v, got %v", i, exp.kind, tok.Kind)
		}
		if got := tok.Text(input); got != exp.text {
			t.Errorf("token %d: expected %q, got %q", i, exp.text, got)
		}
	}
}

func TestLexerLoneHyphenIsContent(t *testing.T) {
	input := []byte("A: one - two\n")
	lexer := NewLexer(input)
	lexer.Next() // A
	lexer.Next() // :
	tok := lexer.Next()
	if tok.Kind != TokenString {
		t.Fatalf("expected String, got %v", tok.Kind)
	}
	if got := tok.Text(input); got != " one - two" {
		t.Errorf("expected %q, got %q", " one - two", got)
	}
}

func TestLexerChoiceMarker(t *testing.T) {
	input := []byte("* yes\n* no -> out\n")
	expected := []struct {
		kind TokenKind
		text string
	}{
		{TokenChoiceMark, "*"},
		{TokenString, " yes"},
		{TokenChoiceMark, "*"},
		{TokenString, " no "},
		{TokenArrow, "->"},
		{TokenIdent, "out"},
		{TokenEOF, ""},
	}

	lexer := NewLexer(input)
	for i, exp := range expected {
		tok := lexer.Next()
		if tok.Kind != exp.kind {
			t.Errorf("token %d: expected %v, got %v", i, exp.kind, tok.Kind)
		}
		if got := tok.Text(input); got != exp.text {
			t.Errorf("token %d: expected %q, got %q", i, exp.text, got)
		}
	}
}

func TestLexerStarMidLineIsMultiply(t *testing.T) {
	input := []byte("x = 2 * 3")
	expected := []TokenKind{TokenIdent, TokenAssign, TokenNumber, TokenStar, TokenNumber, TokenEOF}

	lexer := NewLexer(input)
	for i, exp := range expected {
		if tok := lexer.Next(); tok.Kind != exp {
			t.Errorf("token %d: expected %v, got %v", i, exp, tok.Kind)
		}
	}
}

func TestLexerEmptyDialogueBody(t *testing.T) {
	// A colon immediately followed by a newline yields no string token.
	input := []byte("Npc:\nconst x = 1")
	expected := []TokenKind{TokenIdent, TokenColon, TokenConst, TokenIdent, TokenAssign, TokenNumber, TokenEOF}

	lexer := NewLexer(input)
	for i, exp := range expected {
		if tok := lexer.Next(); tok.Kind != exp {
			t.Errorf("token %d: expected %v, got %v", i, exp, tok.Kind)
		}
	}
}

func TestLexerInvalidBytes(t *testing.T) {
	tests := []struct {
		input string
		kinds []TokenKind
	}{
		{"?", []TokenKind{TokenInvalid, TokenEOF}},
		{"x = $", []TokenKind{TokenIdent, TokenAssign, TokenInvalid, TokenEOF}},
		{"!", []TokenKind{TokenInvalid, TokenEOF}},
	}

	for _, tt := range tests {
		lexer := NewLexer([]byte(tt.input))
		for i, exp := range tt.kinds {
			if tok := lexer.Next(); tok.Kind != exp {
				t.Errorf("input %q token %d: expected %v, got %v", tt.input, i, exp, tok.Kind)
			}
		}
	}
}

// TestLexerModeInvariant checks interpolation tokens never appear before
// the colon or choice marker that entered the string body.
func TestLexerModeInvariant(t *testing.T) {
	inputs := []string{
		"{x}",
		"} {",
		"if (a == b) {\nx = 1\n}",
		"~intro\nend",
		"Npc: hi {a}\n{b}",
		"* pick {c}\n",
		"-> {d}",
	}

	for _, input := range inputs {
		entered := false
		for _, tok := range Tokenize([]byte(input)) {
			switch tok.Kind {
			case TokenColon, TokenChoiceMark:
				entered = true
			case TokenInterOpen, TokenInterClose:
				if !entered {
					t.Errorf("input %q: %v emitted before entering a string body", input, tok.Kind)
				}
			}
		}
	}
}

// TestTokenizeMonotonic checks tokens never overlap and advance
// monotonically through the buffer.
func TestTokenizeMonotonic(t *testing.T) {
	input := []byte(`// sample
const limit = 255
var count = 0

~meeting
Npc: hello {count} -> meeting
* sure -> meeting
* no thanks
end

if (count < limit) {
	count += 1
}
`)

	var prevEnd uint32
	for i, tok := range Tokenize(input) {
		if tok.Start > tok.End {
			t.Fatalf("token %d: start %d after end %d", i, tok.Start, tok.End)
		}
		if tok.Start < prevEnd {
			t.Fatalf("token %d: start %d overlaps previous end %d", i, tok.Start, prevEnd)
		}
		prevEnd = tok.End
	}
}

func TestLexerNewlineResetsInterpolation(t *testing.T) {
	// An unterminated interpolation does not leak across lines; the
	// next line lexes in Normal mode.
	input := []byte("A: hi {name\nconst x = 1")
	kinds := []TokenKind{
		TokenIdent, TokenColon, TokenString, TokenInterOpen, TokenIdent,
		TokenConst, TokenIdent, TokenAssign, TokenNumber, TokenEOF,
	}

	lexer := NewLexer(input)
	for i, exp := range kinds {
		if tok := lexer.Next(); tok.Kind != exp {
			t.Errorf("token %d: expected %v, got %v", i, exp, tok.Kind)
		}
	}
}
