package script

// lexMode is the lexical mode of the scanner. Dialogue text is not
// tokenized like code, so the scanner switches modes based on punctuation
// it has already emitted: a colon or a line-leading choice marker enters
// StringBody, `{` inside a string enters Interpolation, `}` leaves it,
// and a newline always drops back to Normal.
type lexMode int

const (
	modeNormal lexMode = iota
	modeString
	modeInter
)

// Lexer tokenizes script source. It is a single-pass scanner over a raw
// byte buffer; it never fails, anything unscannable becomes an Invalid
// token for the parser to react to.
type Lexer struct {
	src       []byte
	pos       int
	mode      lexMode
	lineStart bool // no token emitted yet on the current line
}

// NewLexer creates a new lexer for the given source buffer.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src, lineStart: true}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (l *Lexer) Next() Token {
	for {
		if l.mode == modeString {
			tok, ok := l.scanText()
			if ok {
				return tok
			}
			continue // newline reset the mode without yielding a token
		}

		l.skipSpace()

		// Line comments exist only in code.
		if l.mode == modeNormal && l.pos+1 < len(l.src) && l.src[l.pos] == '/' && l.src[l.pos+1] == '/' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
			continue
		}

		if l.pos >= len(l.src) {
			return l.token(TokenEOF, l.pos, l.pos)
		}
		return l.scanCode()
	}
}

// scanText scans one token while in StringBody mode: a raw text run, an
// interpolation opener, or the arrow that ends the spoken part of the
// line. A newline resets the mode and reports no token.
func (l *Lexer) scanText() (Token, bool) {
	if l.pos >= len(l.src) {
		return l.token(TokenEOF, l.pos, l.pos), true
	}

	switch b := l.src[l.pos]; {
	case b == '\n':
		l.mode = modeNormal
		l.lineStart = true
		l.pos++
		return Token{}, false

	case b == '{':
		start := l.pos
		l.pos++
		l.mode = modeInter
		l.lineStart = false
		return l.token(TokenInterOpen, start, l.pos), true

	case b == '-' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '>':
		start := l.pos
		l.pos += 2
		// The jump target after -> is ordinary code.
		l.mode = modeNormal
		l.lineStart = false
		return l.token(TokenArrow, start, l.pos), true

	default:
		// Raw content run. Stops at newline, interpolation, or ->.
		// A lone '-' is dialogue content.
		start := l.pos
		for l.pos < len(l.src) {
			b := l.src[l.pos]
			if b == '\n' || b == '{' {
				break
			}
			if b == '-' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '>' {
				break
			}
			l.pos++
		}
		l.lineStart = false
		return l.token(TokenString, start, l.pos), true
	}
}

// scanCode scans one token in Normal or Interpolation mode.
func (l *Lexer) scanCode() Token {
	start := l.pos
	b := l.src[l.pos]
	atLineStart := l.lineStart
	l.lineStart = false

	if isIdentStart(b) {
		for l.pos < len(l.src) && isIdentByte(l.src[l.pos]) {
			l.pos++
		}
		if kind, ok := keywords[string(l.src[start:l.pos])]; ok {
			return l.token(kind, start, l.pos)
		}
		return l.token(TokenIdent, start, l.pos)
	}

	if isDigit(b) {
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		return l.token(TokenNumber, start, l.pos)
	}

	l.pos++
	switch b {
	case '=':
		if l.match('=') {
			return l.token(TokenEqEq, start, l.pos)
		}
		return l.token(TokenAssign, start, l.pos)
	case '!':
		if l.match('=') {
			return l.token(TokenBangEq, start, l.pos)
		}
		return l.token(TokenInvalid, start, l.pos)
	case '<':
		if l.match('=') {
			return l.token(TokenLessEq, start, l.pos)
		}
		return l.token(TokenLess, start, l.pos)
	case '>':
		if l.match('=') {
			return l.token(TokenGreaterEq, start, l.pos)
		}
		return l.token(TokenGreater, start, l.pos)
	case '+':
		if l.match('=') {
			return l.token(TokenPlusEq, start, l.pos)
		}
		return l.token(TokenPlus, start, l.pos)
	case '-':
		if l.match('>') {
			return l.token(TokenArrow, start, l.pos)
		}
		if l.match('=') {
			return l.token(TokenMinusEq, start, l.pos)
		}
		return l.token(TokenMinus, start, l.pos)
	case '*':
		if atLineStart {
			// A leading * marks a choice; its own text body follows.
			l.mode = modeString
			return l.token(TokenChoiceMark, start, l.pos)
		}
		if l.match('=') {
			return l.token(TokenStarEq, start, l.pos)
		}
		return l.token(TokenStar, start, l.pos)
	case '/':
		if l.match('=') {
			return l.token(TokenSlashEq, start, l.pos)
		}
		return l.token(TokenSlash, start, l.pos)
	case '(':
		return l.token(TokenLParen, start, l.pos)
	case ')':
		return l.token(TokenRParen, start, l.pos)
	case '{':
		return l.token(TokenLBrace, start, l.pos)
	case '}':
		if l.mode == modeInter {
			l.mode = modeString
			return l.token(TokenInterClose, start, l.pos)
		}
		return l.token(TokenRBrace, start, l.pos)
	case ':':
		l.mode = modeString
		return l.token(TokenColon, start, l.pos)
	case '~':
		return l.token(TokenTilde, start, l.pos)
	default:
		return l.token(TokenInvalid, start, l.pos)
	}
}

// Helper methods

// skipSpace consumes whitespace. Crossing a newline marks the line start
// and resets the mode, even out of an unterminated interpolation.
func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		case '\n':
			l.pos++
			l.lineStart = true
			l.mode = modeNormal
		default:
			return
		}
	}
}

// match consumes the next byte if it equals b.
func (l *Lexer) match(b byte) bool {
	if l.pos < len(l.src) && l.src[l.pos] == b {
		l.pos++
		return true
	}
	return false
}

func (l *Lexer) token(kind TokenKind, start, end int) Token {
	return Token{Kind: kind, Start: uint32(start), End: uint32(end)}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Tokenize scans the whole buffer into a token table. The final entry is
// always EOF. Invalid tokens are kept; they are non-fatal and surface as
// parse-time diagnostics.
func Tokenize(src []byte) []Token {
	lexer := NewLexer(src)
	var tokens []Token
	for {
		tok := lexer.Next()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}
