package script

import "strconv"

// Symbol records a declared name. The language has one flat file-level
// scope; symbols are never removed.
type Symbol struct {
	Tok   TokenIndex
	Const bool
}

// choiceBudget is how many choices may attach to one dialogue before
// the analyzer objects. The parser's AST cap is MaxChoices; the budget
// is one less because the dialogue itself occupies a branch slot.
const choiceBudget = 4

// maxNumber is the upper bound of the value range for number literals.
const maxNumber = 255

// Analyzer validates a parsed script: identifier resolution, mutability,
// and the dialogue flow rules. No check is fatal; every violation is
// recorded and the walk continues.
type Analyzer struct {
	script *Script
	diags  *Diagnostics

	symbols map[string]Symbol
	labels  map[string]TokenIndex

	// Declaration tokens already reported as duplicates. Pass 2
	// revisits top-level declarations, so each collision must be
	// reported through exactly one pass.
	flagged map[TokenIndex]struct{}

	// Walk state for attributing choices to their owning dialogue.
	dialogue NodeIndex
	budget   int
}

// Analyze runs semantic analysis over a parsed script, appending to the
// same diagnostic list the parser used. Two passes over the top-level
// statement list: name collection, then a recursive validation walk.
func Analyze(s *Script, diags *Diagnostics) {
	a := &Analyzer{
		script:   s,
		diags:    diags,
		symbols:  make(map[string]Symbol),
		labels:   make(map[string]TokenIndex),
		flagged:  make(map[TokenIndex]struct{}),
		dialogue: NilNode,
	}
	a.collect()
	for _, idx := range s.Stmts {
		a.checkStmt(idx)
	}
}

// collect is pass 1: record top-level declarations and labels. Labels
// and variables share one namespace, so a label colliding with either
// table is reported here.
func (a *Analyzer) collect() {
	for _, idx := range a.script.Stmts {
		n := a.script.Tree.Node(idx)
		switch n.Kind {
		case NodeDecl:
			a.declare(n.Tok, n.Mutable)
		case NodeLabel:
			a.declareLabel(n.Tok)
		}
	}
}

// declare inserts a name into the symbol table. Re-declaring reports
// duplicate_var, except for the same token: pass 2 revisits top-level
// declarations and must not report them twice.
func (a *Analyzer) declare(tok TokenIndex, mutable bool) {
	name := a.script.TokenText(tok)
	if sym, ok := a.symbols[name]; ok {
		if sym.Tok != tok {
			a.reportOnce(DiagDuplicateVar, tok)
		}
		return
	}
	a.symbols[name] = Symbol{Tok: tok, Const: !mutable}
}

// declareLabel inserts a label, checking both namespaces.
func (a *Analyzer) declareLabel(tok TokenIndex) {
	name := a.script.TokenText(tok)
	if existing, ok := a.labels[name]; ok {
		if existing != tok {
			a.reportOnce(DiagDuplicateLabel, tok)
		}
		return
	}
	if _, ok := a.symbols[name]; ok {
		a.reportOnce(DiagDuplicateLabel, tok)
		return
	}
	a.labels[name] = tok
}

// checkStmt is the pass-2 dispatch.
func (a *Analyzer) checkStmt(idx NodeIndex) {
	n := a.script.Tree.Node(idx)
	switch n.Kind {
	case NodeDecl:
		a.declare(n.Tok, n.Mutable)
		a.checkExpr(n.Left)

	case NodeAssign, NodeAddAssign, NodeSubAssign, NodeMulAssign, NodeDivAssign:
		a.checkAssign(n)

	case NodeIf:
		a.checkExpr(n.Left)
		a.checkBlock(n.Right)
		if n.Third != NilNode {
			a.checkBlock(n.Third)
		}

	case NodeLabel:
		a.declareLabel(n.Tok)
		a.checkBlock(n.Left)

	case NodeDialogue:
		a.checkDialogue(idx)

	case NodeChoice:
		a.checkChoice(idx)

	default:
		a.checkExpr(idx)
	}
}

func (a *Analyzer) checkBlock(idx NodeIndex) {
	n := a.script.Tree.Node(idx)
	for _, s := range a.script.Tree.Stmts(n.List) {
		a.checkStmt(s)
	}
}

// checkAssign validates the target and recurses into the value.
func (a *Analyzer) checkAssign(n *Node) {
	target := a.script.Tree.Node(n.Left)
	name := a.script.TokenText(target.Tok)
	if sym, ok := a.symbols[name]; !ok {
		a.report(DiagUndeclaredVar, target.Tok, n.Left)
	} else if sym.Const {
		a.report(DiagModifiedConst, target.Tok, n.Left)
	}
	a.checkExpr(n.Right)
}

// checkExpr validates an expression subtree.
func (a *Analyzer) checkExpr(idx NodeIndex) {
	if idx == NilNode {
		return
	}
	n := a.script.Tree.Node(idx)
	switch n.Kind {
	case NodeIdent:
		name := a.script.TokenText(n.Tok)
		if _, ok := a.symbols[name]; !ok {
			a.report(DiagUndeclaredVar, n.Tok, idx)
		}
	case NodeNumber:
		a.checkNumber(n, idx)
	case NodeString:
		// Raw text, nothing to resolve.
	case NodeAdd, NodeSub, NodeMul, NodeDiv,
		NodeEq, NodeNeq, NodeLess, NodeGreater, NodeLessEq, NodeGreaterEq:
		a.checkExpr(n.Left)
		a.checkExpr(n.Right)
	}
}

// checkNumber enforces the unsigned 8-bit value range.
func (a *Analyzer) checkNumber(n *Node, idx NodeIndex) {
	text := a.script.TokenText(n.Tok)
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil || v > maxNumber {
		a.report(DiagIntOverflow, n.Tok, idx)
	}
}

// checkDialogue records the dialogue as the active choice context,
// validates its jump target and interpolations, then walks its choices.
func (a *Analyzer) checkDialogue(idx NodeIndex) {
	n := a.script.Tree.Node(idx)
	a.dialogue = idx
	a.budget = choiceBudget

	if n.List.Len == 0 {
		a.warn(DiagEmptyDialogue, n.Tok, idx)
	}
	a.checkFragments(n.List)
	if n.Left != NilNode {
		a.checkJump(n.Left)
	}
	for _, c := range a.script.Tree.ChoiceList(n.Choices) {
		a.checkChoice(c)
	}
}

// checkChoice validates one choice against the active dialogue context.
// A choice with no open context, or both the choice and its dialogue
// declaring a jump, is an error; otherwise the choice consumes one unit
// of the budget.
func (a *Analyzer) checkChoice(idx NodeIndex) {
	n := a.script.Tree.Node(idx)
	a.checkFragments(n.List)

	if a.dialogue == NilNode || a.budget == 0 {
		a.report(DiagUndeclaredDialogue, n.Tok, idx)
		return
	}
	owner := a.script.Tree.Node(a.dialogue)
	if n.Left != NilNode && owner.Left != NilNode {
		a.report(DiagAmbiguousJump, n.Tok, idx)
		return
	}
	a.budget--
	if n.Left != NilNode {
		a.checkJump(n.Left)
	}
}

// checkFragments validates interpolated identifiers as ordinary
// references. String fragments are raw content.
func (a *Analyzer) checkFragments(r Range) {
	for _, f := range a.script.Tree.Frags(r) {
		if a.script.Tree.Node(f).Kind == NodeIdent {
			a.checkExpr(f)
		}
	}
}

// checkJump validates a jump target: it must name a declared label, not
// a variable, and not nothing at all.
func (a *Analyzer) checkJump(idx NodeIndex) {
	n := a.script.Tree.Node(idx)
	name := a.script.TokenText(n.Tok)
	if _, ok := a.labels[name]; ok {
		return
	}
	if _, ok := a.symbols[name]; ok {
		a.report(DiagDuplicateVar, n.Tok, idx)
		return
	}
	a.report(DiagUndeclaredLabel, n.Tok, idx)
}

// reportOnce reports a declaration collision unless this token has
// already been flagged.
func (a *Analyzer) reportOnce(kind DiagKind, tok TokenIndex) {
	if _, ok := a.flagged[tok]; ok {
		return
	}
	a.flagged[tok] = struct{}{}
	a.report(kind, tok, NilNode)
}

func (a *Analyzer) report(kind DiagKind, tok TokenIndex, node NodeIndex) {
	t := a.script.Tokens[tok]
	a.diags.Report(Diagnostic{
		Kind:     kind,
		Severity: SeverityError,
		Start:    t.Start,
		End:      t.End,
		Node:     node,
	})
}

func (a *Analyzer) warn(kind DiagKind, tok TokenIndex, node NodeIndex) {
	t := a.script.Tokens[tok]
	a.diags.Report(Diagnostic{
		Kind:     kind,
		Severity: SeverityWarning,
		Start:    t.Start,
		End:      t.End,
		Node:     node,
	})
}
