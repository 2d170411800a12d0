package script

import (
	"fmt"
	"io"
	"strings"
)

// Severity indicates how serious a diagnostic is.
type Severity int

const (
	// SeverityError marks input the pipeline considers wrong.
	SeverityError Severity = iota
	// SeverityWarning marks input that is suspicious but accepted.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// DiagKind identifies the problem a diagnostic reports.
type DiagKind int

const (
	// DiagUnexpectedToken is raised by the parser's expect; Expected
	// and Found carry the token kinds.
	DiagUnexpectedToken DiagKind = iota
	// DiagInvalidToken reports a byte the lexer could not scan.
	DiagInvalidToken
	// DiagUndeclaredVar reports a reference to an unknown name.
	DiagUndeclaredVar
	// DiagDuplicateVar reports a second declaration of a name, or a
	// jump target that names a variable instead of a label.
	DiagDuplicateVar
	// DiagModifiedConst reports an assignment to a const.
	DiagModifiedConst
	// DiagDuplicateLabel reports a label colliding with a variable or
	// another label.
	DiagDuplicateLabel
	// DiagUndeclaredLabel reports a jump to a label that does not exist.
	DiagUndeclaredLabel
	// DiagUndeclaredDialogue reports a choice with no owning dialogue
	// context (none seen yet, or its choice budget is spent).
	DiagUndeclaredDialogue
	// DiagAmbiguousJump reports a dialogue and one of its choices both
	// declaring a jump target.
	DiagAmbiguousJump
	// DiagIntOverflow reports a number literal above the value range.
	DiagIntOverflow
	// DiagIntUnderflow is reserved. The grammar has no unary minus, so
	// no literal can currently produce it.
	DiagIntUnderflow
	// DiagEmptyDialogue warns about a dialogue line with no text.
	DiagEmptyDialogue
)

// Diagnostic is one reported problem, located by a byte range into the
// source buffer and optionally tied to an AST node.
type Diagnostic struct {
	Kind     DiagKind
	Severity Severity
	Start    uint32
	End      uint32
	Node     NodeIndex // NilNode when not tied to a node

	// Expected and Found are meaningful for DiagUnexpectedToken only.
	Expected TokenKind
	Found    TokenKind
}

// Diagnostics is the ordered diagnostic list shared by the parser and
// the analyzer. Order is discovery order, which matches source order
// within each phase because both walk top to bottom.
type Diagnostics struct {
	src  []byte
	list []Diagnostic
}

// NewDiagnostics creates an empty diagnostic list for the given source.
func NewDiagnostics(src []byte) *Diagnostics {
	return &Diagnostics{src: src}
}

// Report appends a diagnostic.
func (d *Diagnostics) Report(diag Diagnostic) {
	d.list = append(d.list, diag)
}

// All returns every diagnostic in discovery order.
func (d *Diagnostics) All() []Diagnostic {
	return d.list
}

// Len returns the number of diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.list)
}

// HasErrors returns true if any diagnostic is error severity.
func (d *Diagnostics) HasErrors() bool {
	for _, diag := range d.list {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics.
func (d *Diagnostics) Errors() []Diagnostic {
	var errs []Diagnostic
	for _, diag := range d.list {
		if diag.Severity == SeverityError {
			errs = append(errs, diag)
		}
	}
	return errs
}

// Warnings returns only the warning-severity diagnostics.
func (d *Diagnostics) Warnings() []Diagnostic {
	var warns []Diagnostic
	for _, diag := range d.list {
		if diag.Severity == SeverityWarning {
			warns = append(warns, diag)
		}
	}
	return warns
}

// Message returns the human-readable message for a diagnostic.
func (d *Diagnostics) Message(diag Diagnostic) string {
	switch diag.Kind {
	case DiagUnexpectedToken:
		return fmt.Sprintf("unexpected token: expected %s, found %s", diag.Expected, diag.Found)
	case DiagInvalidToken:
		return fmt.Sprintf("unrecognized character %q", d.slice(diag))
	case DiagUndeclaredVar:
		return fmt.Sprintf("undeclared identifier %q", d.slice(diag))
	case DiagDuplicateVar:
		return fmt.Sprintf("duplicate declaration of %q", d.slice(diag))
	case DiagModifiedConst:
		return fmt.Sprintf("cannot assign to constant %q", d.slice(diag))
	case DiagDuplicateLabel:
		return fmt.Sprintf("label %q collides with an existing name", d.slice(diag))
	case DiagUndeclaredLabel:
		return fmt.Sprintf("jump to undeclared label %q", d.slice(diag))
	case DiagUndeclaredDialogue:
		return "choice has no dialogue to attach to"
	case DiagAmbiguousJump:
		return "dialogue and choice both declare a jump target"
	case DiagIntOverflow:
		return fmt.Sprintf("number %s does not fit in 0..255", d.slice(diag))
	case DiagIntUnderflow:
		return fmt.Sprintf("number %s underflows the value range", d.slice(diag))
	case DiagEmptyDialogue:
		return "dialogue line has no text"
	default:
		return "unknown diagnostic"
	}
}

// slice returns the source bytes a diagnostic covers, clamped.
func (d *Diagnostics) slice(diag Diagnostic) string {
	start, end := int(diag.Start), int(diag.End)
	if start > len(d.src) {
		start = len(d.src)
	}
	if end > len(d.src) {
		end = len(d.src)
	}
	if end < start {
		end = start
	}
	return string(d.src[start:end])
}

// Position maps a byte offset to 1-based line and column by scanning
// the source from the start. Linear, which is fine for script-sized
// inputs.
func (d *Diagnostics) Position(offset uint32) (line, col int) {
	line, col = 1, 1
	for i := 0; i < int(offset) && i < len(d.src); i++ {
		if d.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// lineBounds returns the byte range of the line containing offset,
// excluding the newline.
func (d *Diagnostics) lineBounds(offset uint32) (start, end int) {
	pos := int(offset)
	if pos > len(d.src) {
		pos = len(d.src)
	}
	start = pos
	for start > 0 && d.src[start-1] != '\n' {
		start--
	}
	end = pos
	for end < len(d.src) && d.src[end] != '\n' {
		end++
	}
	return start, end
}

// Render writes every diagnostic in discovery order. Each entry is a
// four-part block: message, file:line:col locator, the offending source
// line, and a caret under the column.
func (d *Diagnostics) Render(w io.Writer, filename string) {
	for _, diag := range d.list {
		line, col := d.Position(diag.Start)
		start, end := d.lineBounds(diag.Start)
		fmt.Fprintf(w, "%s: %s\n", diag.Severity, d.Message(diag))
		fmt.Fprintf(w, "  %s:%d:%d\n", filename, line, col)
		fmt.Fprintf(w, "  %s\n", d.src[start:end])
		fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", col-1))
	}
}

// RenderString renders all diagnostics into a string.
func (d *Diagnostics) RenderString(filename string) string {
	var sb strings.Builder
	d.Render(&sb, filename)
	return sb.String()
}
