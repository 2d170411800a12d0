// Package format renders parsed scripts back to a canonical textual
// form: one statement per line, single-space separators, minimal
// parentheses, and block bodies indented one level.
package format

import (
	"strings"

	"github.com/skitlang/skit/pkg/script"
)

// Options control the canonical rendering.
type Options struct {
	// Indent is the string written once per nesting level.
	Indent string
	// NormalizeSpeakers rewrites dialogue speaker names to Title case.
	NormalizeSpeakers bool
}

// DefaultOptions returns the canonical settings: tab indentation,
// speaker names left as written.
func DefaultOptions() Options {
	return Options{Indent: "\t"}
}

// Source parses and formats a raw buffer. The returned diagnostics
// carry any parse problems; the formatted text is only meaningful when
// they hold no errors.
func Source(src []byte, opts Options) (string, *script.Diagnostics) {
	diags := script.NewDiagnostics(src)
	s := script.Parse(src, diags)
	if diags.HasErrors() {
		return "", diags
	}
	return Script(s, opts), diags
}

// Script renders a parsed script in canonical form.
func Script(s *script.Script, opts Options) string {
	if opts.Indent == "" {
		opts.Indent = "\t"
	}
	p := &printer{s: s, opts: opts}
	for _, idx := range s.Stmts {
		p.stmt(idx)
	}
	return p.sb.String()
}

type printer struct {
	s     *script.Script
	opts  Options
	sb    strings.Builder
	depth int
}

func (p *printer) line(text string) {
	for i := 0; i < p.depth; i++ {
		p.sb.WriteString(p.opts.Indent)
	}
	p.sb.WriteString(text)
	p.sb.WriteByte('\n')
}

func (p *printer) stmt(idx script.NodeIndex) {
	n := p.s.Tree.Node(idx)
	switch n.Kind {
	case script.NodeDecl:
		kw := "const"
		if n.Mutable {
			kw = "var"
		}
		p.line(kw + " " + p.s.TokenText(n.Tok) + " = " + p.expr(n.Left))

	case script.NodeAssign, script.NodeAddAssign, script.NodeSubAssign,
		script.NodeMulAssign, script.NodeDivAssign:
		target := p.s.Tree.Node(n.Left)
		p.line(p.s.TokenText(target.Tok) + " " + assignOp(n.Kind) + " " + p.expr(n.Right))

	case script.NodeIf:
		p.line("if (" + p.expr(n.Left) + ") {")
		p.block(n.Right)
		if n.Third != script.NilNode {
			p.line("} else {")
			p.block(n.Third)
		}
		p.line("}")

	case script.NodeLabel:
		p.line("~" + p.s.TokenText(n.Tok))
		p.block(n.Left)
		p.line("end")

	case script.NodeDialogue:
		p.dialogue(n)

	case script.NodeChoice:
		p.choice(n)

	default:
		p.line(p.expr(idx))
	}
}

func (p *printer) block(idx script.NodeIndex) {
	n := p.s.Tree.Node(idx)
	p.depth++
	for _, s := range p.s.Tree.Stmts(n.List) {
		p.stmt(s)
	}
	p.depth--
}

func (p *printer) dialogue(n *script.Node) {
	speaker := p.s.TokenText(n.Tok)
	if p.opts.NormalizeSpeakers {
		speaker = NormalizeSpeaker(speaker)
	}

	line := speaker + ":"
	if text := p.text(n.List); text != "" {
		line += " " + text
	}
	if n.Left != script.NilNode {
		line += " -> " + p.s.TokenText(p.s.Tree.Node(n.Left).Tok)
	}
	p.line(line)

	for _, c := range p.s.Tree.ChoiceList(n.Choices) {
		p.choice(p.s.Tree.Node(c))
	}
}

func (p *printer) choice(n *script.Node) {
	line := "*"
	if text := p.text(n.List); text != "" {
		line += " " + text
	}
	if n.Left != script.NilNode {
		line += " -> " + p.s.TokenText(p.s.Tree.Node(n.Left).Tok)
	}
	p.line(line)
}

// text joins the fragments of a dialogue or choice line and trims the
// surrounding whitespace. Interior spacing is the author's.
func (p *printer) text(r script.Range) string {
	var sb strings.Builder
	for _, f := range p.s.Tree.Frags(r) {
		n := p.s.Tree.Node(f)
		if n.Kind == script.NodeIdent {
			sb.WriteString("{" + p.s.TokenText(n.Tok) + "}")
			continue
		}
		sb.WriteString(p.s.TokenText(n.Tok))
	}
	return strings.TrimSpace(sb.String())
}

// expr renders an expression with minimal parentheses.
func (p *printer) expr(idx script.NodeIndex) string {
	n := p.s.Tree.Node(idx)
	switch n.Kind {
	case script.NodeNumber, script.NodeIdent:
		return p.s.TokenText(n.Tok)
	default:
		left := p.operand(n.Left, n.Kind, false)
		right := p.operand(n.Right, n.Kind, true)
		return left + " " + binaryOp(n.Kind) + " " + right
	}
}

// operand renders a child expression, parenthesizing when precedence
// demands it. A right child of '-' or '/' keeps its parentheses even at
// equal precedence.
func (p *printer) operand(idx script.NodeIndex, parent script.NodeKind, right bool) string {
	child := p.s.Tree.Node(idx).Kind
	text := p.expr(idx)
	cp, pp := prec(child), prec(parent)
	if cp < pp || (right && cp == pp && (parent == script.NodeSub || parent == script.NodeDiv)) {
		return "(" + text + ")"
	}
	return text
}

func prec(k script.NodeKind) int {
	switch k {
	case script.NodeEq, script.NodeNeq, script.NodeLess, script.NodeGreater,
		script.NodeLessEq, script.NodeGreaterEq:
		return 1
	case script.NodeAdd, script.NodeSub:
		return 2
	case script.NodeMul, script.NodeDiv:
		return 3
	default:
		return 4
	}
}

func assignOp(k script.NodeKind) string {
	switch k {
	case script.NodeAddAssign:
		return "+="
	case script.NodeSubAssign:
		return "-="
	case script.NodeMulAssign:
		return "*="
	case script.NodeDivAssign:
		return "/="
	default:
		return "="
	}
}

func binaryOp(k script.NodeKind) string {
	switch k {
	case script.NodeAdd:
		return "+"
	case script.NodeSub:
		return "-"
	case script.NodeMul:
		return "*"
	case script.NodeDiv:
		return "/"
	case script.NodeEq:
		return "=="
	case script.NodeNeq:
		return "!="
	case script.NodeLess:
		return "<"
	case script.NodeGreater:
		return ">"
	case script.NodeLessEq:
		return "<="
	case script.NodeGreaterEq:
		return ">="
	default:
		return "?"
	}
}
