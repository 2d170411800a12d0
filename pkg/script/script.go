package script

import (
	"fmt"
	"os"
)

// Script is the result of compiling one source buffer: the immutable
// source, the materialized token table, the AST arena, and the
// top-level statement list in source order. One script is one
// translation unit; there is no multi-file compilation.
type Script struct {
	Source []byte
	Tokens []Token
	Tree   Tree
	Stmts  []NodeIndex
}

// Token returns the token at index i.
func (s *Script) Token(i TokenIndex) Token {
	return s.Tokens[i]
}

// TokenText returns the source bytes a token covers.
func (s *Script) TokenText(i TokenIndex) string {
	return s.Tokens[i].Text(s.Source)
}

// Check runs the whole pipeline over a source buffer: lex, parse, then
// analyze, all reporting into one combined, source-ordered diagnostic
// list. The script is returned even when diagnostics exist; it is a
// best-effort AST and the caller decides whether errors block its use.
func Check(src []byte) (*Script, *Diagnostics) {
	diags := NewDiagnostics(src)
	s := Parse(src, diags)
	Analyze(s, diags)
	return s, diags
}

// CheckFile reads and checks one script file. The error covers only the
// environment (unreadable file); problems in the input itself are
// diagnostics, never errors.
func CheckFile(path string) (*Script, *Diagnostics, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	s, diags := Check(src)
	return s, diags, nil
}
