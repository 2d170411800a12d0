package script

// Parser builds the AST arena from the token table. It is recursive
// descent with one token of lookahead. Parse failures never abort: the
// statement loop resynchronizes to the next statement boundary and
// carries on, so a single malformed statement cannot swallow the rest
// of the file.
type Parser struct {
	script *Script
	diags  *Diagnostics
	pos    TokenIndex
}

// Parse tokenizes and parses one source buffer, reporting through diags.
// The returned Script always carries a best-effort AST, even for invalid
// input; the caller decides whether diagnostics block its use.
func Parse(src []byte, diags *Diagnostics) *Script {
	s := &Script{Source: src, Tokens: Tokenize(src)}
	p := &Parser{script: s, diags: diags}
	s.Stmts = p.parseStmtList(TokenEOF)
	return s
}

// parseStmtList parses statements until the stop kind or EOF, recovering
// after each failed statement. Blocks stop at '}', labels at 'end'.
func (p *Parser) parseStmtList(stop TokenKind) []NodeIndex {
	var list []NodeIndex
	for !p.at(stop) && !p.at(TokenEOF) {
		n, ok := p.parseStmt()
		if !ok {
			p.synchronize()
			continue
		}
		list = append(list, n)
	}
	return list
}

func (p *Parser) parseStmt() (NodeIndex, bool) {
	for p.at(TokenInvalid) {
		t := p.cur()
		p.diags.Report(Diagnostic{
			Kind:     DiagInvalidToken,
			Severity: SeverityError,
			Start:    t.Start,
			End:      t.End,
			Node:     NilNode,
		})
		p.advance()
	}

	switch p.kind() {
	case TokenConst, TokenVar:
		return p.parseDecl()
	case TokenIdent:
		return p.parseIdentStmt()
	case TokenIf:
		return p.parseIf()
	case TokenTilde:
		return p.parseLabel()
	case TokenChoiceMark:
		// A choice line outside a dialogue's collected list. The
		// analyzer decides whether a dialogue context is open.
		return p.parseChoice()
	case TokenEOF:
		return NilNode, false
	default:
		p.reportFound()
		return NilNode, false
	}
}

// parseDecl parses: ('const'|'var') ident '=' expr
func (p *Parser) parseDecl() (NodeIndex, bool) {
	mutable := p.at(TokenVar)
	p.advance()

	nameTok, ok := p.expect(TokenIdent)
	if !ok {
		return NilNode, false
	}
	if _, ok := p.expect(TokenAssign); !ok {
		return NilNode, false
	}
	init, ok := p.parseExpr()
	if !ok {
		return NilNode, false
	}

	return p.append(Node{
		Kind:    NodeDecl,
		Tok:     nameTok,
		Left:    init,
		Right:   NilNode,
		Third:   NilNode,
		Mutable: mutable,
	}), true
}

// parseIdentStmt parses a statement starting with an identifier: either
// an assignment or a dialogue line.
func (p *Parser) parseIdentStmt() (NodeIndex, bool) {
	nameTok := p.advance()

	switch p.kind() {
	case TokenColon:
		p.advance()
		return p.parseDialogue(nameTok)

	case TokenAssign, TokenPlusEq, TokenMinusEq, TokenStarEq, TokenSlashEq:
		opKind := assignNodeKind(p.kind())
		opTok := p.advance()
		target := p.append(Node{Kind: NodeIdent, Tok: nameTok, Left: NilNode, Right: NilNode, Third: NilNode})
		value, ok := p.parseExpr()
		if !ok {
			return NilNode, false
		}
		return p.append(Node{
			Kind:  opKind,
			Tok:   opTok,
			Left:  target,
			Right: value,
			Third: NilNode,
		}), true

	default:
		p.reportExpected(TokenAssign)
		return NilNode, false
	}
}

func assignNodeKind(k TokenKind) NodeKind {
	switch k {
	case TokenPlusEq:
		return NodeAddAssign
	case TokenMinusEq:
		return NodeSubAssign
	case TokenStarEq:
		return NodeMulAssign
	case TokenSlashEq:
		return NodeDivAssign
	default:
		return NodeAssign
	}
}

// parseIf parses: 'if' '(' expr cmp expr ')' block ['else' block]
func (p *Parser) parseIf() (NodeIndex, bool) {
	ifTok := p.advance()

	if _, ok := p.expect(TokenLParen); !ok {
		return NilNode, false
	}
	cond, ok := p.parseCompare()
	if !ok {
		return NilNode, false
	}
	if _, ok := p.expect(TokenRParen); !ok {
		return NilNode, false
	}

	then, ok := p.parseBlock()
	if !ok {
		return NilNode, false
	}

	els := NilNode
	if p.at(TokenElse) {
		p.advance()
		els, ok = p.parseBlock()
		if !ok {
			return NilNode, false
		}
	}

	return p.append(Node{
		Kind:  NodeIf,
		Tok:   ifTok,
		Left:  cond,
		Right: then,
		Third: els,
	}), true
}

// parseCompare parses: expr cmp_op expr. The condition of an if is
// always a comparison, never a bare expression.
func (p *Parser) parseCompare() (NodeIndex, bool) {
	left, ok := p.parseExpr()
	if !ok {
		return NilNode, false
	}

	var kind NodeKind
	switch p.kind() {
	case TokenEqEq:
		kind = NodeEq
	case TokenBangEq:
		kind = NodeNeq
	case TokenLess:
		kind = NodeLess
	case TokenGreater:
		kind = NodeGreater
	case TokenLessEq:
		kind = NodeLessEq
	case TokenGreaterEq:
		kind = NodeGreaterEq
	default:
		p.reportExpected(TokenEqEq)
		return NilNode, false
	}
	opTok := p.advance()

	right, ok := p.parseExpr()
	if !ok {
		return NilNode, false
	}
	return p.append(Node{Kind: kind, Tok: opTok, Left: left, Right: right, Third: NilNode}), true
}

// parseBlock parses: '{' { stmt } '}'. The statement indices are
// flushed into the shared pool when the block closes.
func (p *Parser) parseBlock() (NodeIndex, bool) {
	lbrace, ok := p.expect(TokenLBrace)
	if !ok {
		return NilNode, false
	}

	list := p.parseStmtList(TokenRBrace)

	if _, ok := p.expect(TokenRBrace); !ok {
		return NilNode, false
	}

	return p.append(Node{
		Kind:  NodeBlock,
		Tok:   lbrace,
		Left:  NilNode,
		Right: NilNode,
		Third: NilNode,
		List:  p.tree().pushStmts(list),
	}), true
}

// parseLabel parses: '~' ident { stmt } 'end'
func (p *Parser) parseLabel() (NodeIndex, bool) {
	p.advance() // ~

	nameTok, ok := p.expect(TokenIdent)
	if !ok {
		return NilNode, false
	}

	list := p.parseStmtList(TokenEnd)

	if _, ok := p.expect(TokenEnd); !ok {
		return NilNode, false
	}

	body := p.append(Node{
		Kind:  NodeBlock,
		Tok:   nameTok,
		Left:  NilNode,
		Right: NilNode,
		Third: NilNode,
		List:  p.tree().pushStmts(list),
	})
	return p.append(Node{
		Kind:  NodeLabel,
		Tok:   nameTok,
		Left:  body,
		Right: NilNode,
		Third: NilNode,
	}), true
}

// parseDialogue parses the tail after 'speaker:': text fragments, an
// optional jump target, then up to MaxChoices choice lines. Any further
// choice lines are left to the statement loop.
func (p *Parser) parseDialogue(speakerTok TokenIndex) (NodeIndex, bool) {
	frags, ok := p.parseFragments()
	if !ok {
		return NilNode, false
	}

	target := NilNode
	if p.at(TokenArrow) {
		p.advance()
		tgtTok, ok := p.expect(TokenIdent)
		if !ok {
			return NilNode, false
		}
		target = p.append(Node{Kind: NodeIdent, Tok: tgtTok, Left: NilNode, Right: NilNode, Third: NilNode})
	}

	var choices []NodeIndex
	for p.at(TokenChoiceMark) && len(choices) < MaxChoices {
		c, ok := p.parseChoice()
		if !ok {
			p.synchronize()
			continue
		}
		choices = append(choices, c)
	}

	return p.append(Node{
		Kind:    NodeDialogue,
		Tok:     speakerTok,
		Left:    target,
		Right:   NilNode,
		Third:   NilNode,
		List:    p.tree().pushFrags(frags),
		Choices: p.tree().pushChoices(choices),
	}), true
}

// parseChoice parses: '*' str_part { str_part } ['->' ident]
func (p *Parser) parseChoice() (NodeIndex, bool) {
	markTok := p.advance()

	frags, ok := p.parseFragments()
	if !ok {
		return NilNode, false
	}

	target := NilNode
	if p.at(TokenArrow) {
		p.advance()
		tgtTok, ok := p.expect(TokenIdent)
		if !ok {
			return NilNode, false
		}
		target = p.append(Node{Kind: NodeIdent, Tok: tgtTok, Left: NilNode, Right: NilNode, Third: NilNode})
	}

	return p.append(Node{
		Kind:  NodeChoice,
		Tok:   markTok,
		Left:  target,
		Right: NilNode,
		Third: NilNode,
		List:  p.tree().pushFrags(frags),
	}), true
}

// parseFragments collects the text fragments of a dialogue or choice
// line: raw string runs and {ident} interpolations, in source order.
func (p *Parser) parseFragments() ([]NodeIndex, bool) {
	var frags []NodeIndex
	for {
		switch p.kind() {
		case TokenString:
			tok := p.advance()
			frags = append(frags, p.append(Node{Kind: NodeString, Tok: tok, Left: NilNode, Right: NilNode, Third: NilNode}))
		case TokenInterOpen:
			p.advance()
			identTok, ok := p.expect(TokenIdent)
			if !ok {
				return frags, false
			}
			frags = append(frags, p.append(Node{Kind: NodeIdent, Tok: identTok, Left: NilNode, Right: NilNode, Third: NilNode}))
			if _, ok := p.expect(TokenInterClose); !ok {
				return frags, false
			}
		default:
			return frags, true
		}
	}
}

// parseExpr parses: term { ('+'|'-') term }
func (p *Parser) parseExpr() (NodeIndex, bool) {
	left, ok := p.parseTerm()
	if !ok {
		return NilNode, false
	}
	for p.at(TokenPlus) || p.at(TokenMinus) {
		kind := NodeAdd
		if p.at(TokenMinus) {
			kind = NodeSub
		}
		opTok := p.advance()
		right, ok := p.parseTerm()
		if !ok {
			return NilNode, false
		}
		left = p.append(Node{Kind: kind, Tok: opTok, Left: left, Right: right, Third: NilNode})
	}
	return left, true
}

// parseTerm parses: factor { ('*'|'/') factor }
func (p *Parser) parseTerm() (NodeIndex, bool) {
	left, ok := p.parseFactor()
	if !ok {
		return NilNode, false
	}
	for p.at(TokenStar) || p.at(TokenSlash) {
		kind := NodeMul
		if p.at(TokenSlash) {
			kind = NodeDiv
		}
		opTok := p.advance()
		right, ok := p.parseFactor()
		if !ok {
			return NilNode, false
		}
		left = p.append(Node{Kind: kind, Tok: opTok, Left: left, Right: right, Third: NilNode})
	}
	return left, true
}

// parseFactor parses: number | ident | '(' expr ')'
func (p *Parser) parseFactor() (NodeIndex, bool) {
	switch p.kind() {
	case TokenNumber:
		tok := p.advance()
		return p.append(Node{Kind: NodeNumber, Tok: tok, Left: NilNode, Right: NilNode, Third: NilNode}), true
	case TokenIdent:
		tok := p.advance()
		return p.append(Node{Kind: NodeIdent, Tok: tok, Left: NilNode, Right: NilNode, Third: NilNode}), true
	case TokenLParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return NilNode, false
		}
		if _, ok := p.expect(TokenRParen); !ok {
			return NilNode, false
		}
		return inner, true
	default:
		p.reportExpected(TokenNumber)
		return NilNode, false
	}
}

// Helper methods

func (p *Parser) tree() *Tree {
	return &p.script.Tree
}

func (p *Parser) append(n Node) NodeIndex {
	return p.tree().Append(n)
}

func (p *Parser) cur() Token {
	return p.script.Tokens[p.pos]
}

func (p *Parser) kind() TokenKind {
	return p.cur().Kind
}

func (p *Parser) at(k TokenKind) bool {
	return p.kind() == k
}

// advance consumes the current token and returns its index. It never
// moves past EOF.
func (p *Parser) advance() TokenIndex {
	i := p.pos
	if !p.at(TokenEOF) {
		p.pos++
	}
	return i
}

// expect consumes a token of the given kind, or reports an
// unexpected-token diagnostic at the current position and stays put.
func (p *Parser) expect(k TokenKind) (TokenIndex, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.reportExpected(k)
	return p.pos, false
}

// reportExpected records unexpected_token{expected, found}. At EOF the
// range collapses to the previous token's end so the caret still lands
// inside the source.
func (p *Parser) reportExpected(expected TokenKind) {
	t := p.cur()
	start, end := t.Start, t.End
	if t.Kind == TokenEOF && p.pos > 0 {
		prev := p.script.Tokens[p.pos-1]
		start, end = prev.End, prev.End
	}
	p.diags.Report(Diagnostic{
		Kind:     DiagUnexpectedToken,
		Severity: SeverityError,
		Start:    start,
		End:      end,
		Node:     NilNode,
		Expected: expected,
		Found:    t.Kind,
	})
}

// reportFound records an unexpected token with no particular
// expectation, for tokens that cannot start a statement.
func (p *Parser) reportFound() {
	p.reportExpected(TokenIdent)
}

// synchronize advances to the next statement boundary after a parse
// failure. It always makes progress, so malformed input cannot loop.
func (p *Parser) synchronize() {
	if !p.at(TokenEOF) {
		p.advance()
	}
	for !p.at(TokenEOF) {
		switch p.kind() {
		case TokenConst, TokenVar, TokenIf, TokenElse, TokenIdent,
			TokenTilde, TokenChoiceMark, TokenEnd, TokenRBrace:
			return
		}
		p.advance()
	}
}
