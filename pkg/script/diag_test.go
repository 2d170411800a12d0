package script

import (
	"strings"
	"testing"
)

func TestDiagPosition(t *testing.T) {
	d := NewDiagnostics([]byte("abc\ndef\nghi"))

	tests := []struct {
		offset uint32
		line   int
		col    int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 1, 4}, // the newline itself
		{4, 2, 1},
		{6, 2, 3},
		{8, 3, 1},
		{100, 3, 4}, // past the end clamps to the last position
	}
	for _, tt := range tests {
		line, col := d.Position(tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("offset %d: expected %d:%d, got %d:%d", tt.offset, tt.line, tt.col, line, col)
		}
	}
}

func TestDiagRenderCaret(t *testing.T) {
	src := "const x = 1\nconst x = 2\n"
	diags := NewDiagnostics([]byte(src))
	s := Parse([]byte(src), diags)
	Analyze(s, diags)

	got := diags.RenderString("test.skit")
	want := "error: duplicate declaration of \"x\"\n" +
		"  test.skit:2:7\n" +
		"  const x = 2\n" +
		"        ^\n"
	if got != want {
		t.Errorf("rendered diagnostic mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDiagRenderUnexpectedToken(t *testing.T) {
	src := "const = 1"
	diags := NewDiagnostics([]byte(src))
	Parse([]byte(src), diags)

	got := diags.RenderString("bad.skit")
	if !strings.Contains(got, "unexpected token: expected Ident, found =") {
		t.Errorf("missing expected/found message, got:\n%s", got)
	}
	if !strings.Contains(got, "bad.skit:1:7") {
		t.Errorf("missing locator, got:\n%s", got)
	}
}

func TestDiagMessages(t *testing.T) {
	src := []byte("treasure")
	d := NewDiagnostics(src)
	cover := Diagnostic{Start: 0, End: uint32(len(src))}

	tests := []struct {
		diag Diagnostic
		want string
	}{
		{Diagnostic{Kind: DiagUnexpectedToken, Expected: TokenNumber, Found: TokenEOF}, "unexpected token: expected Number, found EOF"},
		{with(cover, DiagUndeclaredVar), `undeclared identifier "treasure"`},
		{with(cover, DiagDuplicateVar), `duplicate declaration of "treasure"`},
		{with(cover, DiagModifiedConst), `cannot assign to constant "treasure"`},
		{with(cover, DiagDuplicateLabel), `label "treasure" collides with an existing name`},
		{with(cover, DiagUndeclaredLabel), `jump to undeclared label "treasure"`},
		{Diagnostic{Kind: DiagUndeclaredDialogue}, "choice has no dialogue to attach to"},
		{Diagnostic{Kind: DiagAmbiguousJump}, "dialogue and choice both declare a jump target"},
		{with(cover, DiagIntOverflow), "number treasure does not fit in 0..255"},
		{Diagnostic{Kind: DiagEmptyDialogue}, "dialogue line has no text"},
		{Diagnostic{Kind: DiagKind(99)}, "unknown diagnostic"},
	}
	for _, tt := range tests {
		if got := d.Message(tt.diag); got != tt.want {
			t.Errorf("kind %d: expected %q, got %q", tt.diag.Kind, tt.want, got)
		}
	}
}

func with(d Diagnostic, kind DiagKind) Diagnostic {
	d.Kind = kind
	return d
}

func TestDiagErrorsAndWarnings(t *testing.T) {
	d := NewDiagnostics(nil)
	d.Report(Diagnostic{Kind: DiagUndeclaredVar, Severity: SeverityError})
	d.Report(Diagnostic{Kind: DiagEmptyDialogue, Severity: SeverityWarning})
	d.Report(Diagnostic{Kind: DiagIntOverflow, Severity: SeverityError})

	if !d.HasErrors() {
		t.Error("expected HasErrors")
	}
	if len(d.Errors()) != 2 {
		t.Errorf("expected 2 errors, got %d", len(d.Errors()))
	}
	if len(d.Warnings()) != 1 {
		t.Errorf("expected 1 warning, got %d", len(d.Warnings()))
	}
}

func TestDiagSeverityString(t *testing.T) {
	if SeverityError.String() != "error" || SeverityWarning.String() != "warning" {
		t.Error("unexpected severity names")
	}
	if Severity(9).String() != "unknown" {
		t.Error("expected unknown for out-of-range severity")
	}
}

func TestDiagOrderPreserved(t *testing.T) {
	// Parser diagnostics come before analyzer diagnostics for the same
	// buffer: the list is append-only across phases.
	src := "$\nx = 1\n"
	diags := NewDiagnostics([]byte(src))
	s := Parse([]byte(src), diags)
	Analyze(s, diags)

	if diags.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d:\n%s", diags.Len(), diags.RenderString("test.skit"))
	}
	if diags.All()[0].Kind != DiagInvalidToken {
		t.Errorf("expected the lexing problem first, got %v", diags.All()[0].Kind)
	}
	if diags.All()[1].Kind != DiagUndeclaredVar {
		t.Errorf("expected the analysis problem second, got %v", diags.All()[1].Kind)
	}
}
