package script

import "fmt"

// TokenKind represents the type of a token.
type TokenKind int

// Token kinds.
const (
	TokenInvalid TokenKind = iota
	TokenEOF

	// Literals
	TokenIdent  // identifier
	TokenNumber // digit run
	TokenString // raw dialogue text run

	// Keywords
	TokenConst // const
	TokenVar   // var
	TokenIf    // if
	TokenElse  // else
	TokenEnd   // end

	// Operators
	TokenAssign    // =
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenPlusEq    // +=
	TokenMinusEq   // -=
	TokenStarEq    // *=
	TokenSlashEq   // /=
	TokenEqEq      // ==
	TokenBangEq    // !=
	TokenLess      // <
	TokenGreater   // >
	TokenLessEq    // <=
	TokenGreaterEq // >=

	// Punctuation
	TokenLParen     // (
	TokenRParen     // )
	TokenLBrace     // {
	TokenRBrace     // }
	TokenColon      // : starts a dialogue text body
	TokenArrow      // -> introduces a jump target
	TokenTilde      // ~ introduces a label
	TokenChoiceMark // * at the start of a line
	TokenInterOpen  // { inside dialogue text
	TokenInterClose // } closing an interpolation
)

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenInvalid:
		return "Invalid"
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "Ident"
	case TokenNumber:
		return "Number"
	case TokenString:
		return "String"
	case TokenConst:
		return "const"
	case TokenVar:
		return "var"
	case TokenIf:
		return "if"
	case TokenElse:
		return "else"
	case TokenEnd:
		return "end"
	case TokenAssign:
		return "="
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenPlusEq:
		return "+="
	case TokenMinusEq:
		return "-="
	case TokenStarEq:
		return "*="
	case TokenSlashEq:
		return "/="
	case TokenEqEq:
		return "=="
	case TokenBangEq:
		return "!="
	case TokenLess:
		return "<"
	case TokenGreater:
		return ">"
	case TokenLessEq:
		return "<="
	case TokenGreaterEq:
		return ">="
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenColon:
		return ":"
	case TokenArrow:
		return "->"
	case TokenTilde:
		return "~"
	case TokenChoiceMark:
		return "ChoiceMark"
	case TokenInterOpen:
		return "InterOpen"
	case TokenInterClose:
		return "InterClose"
	default:
		return fmt.Sprintf("Token(%d)", int(k))
	}
}

// TokenIndex addresses a token in a Script's token table.
type TokenIndex uint32

// Token is a half-open byte range [Start, End) into the source buffer.
// Tokens own no text; everything is recovered by slicing the source.
type Token struct {
	Kind  TokenKind
	Start uint32
	End   uint32
}

// Text returns the source bytes the token covers.
func (t Token) Text(src []byte) string {
	return string(src[t.Start:t.End])
}

// String returns a string representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s[%d:%d]", t.Kind, t.Start, t.End)
}

// keywords maps keyword spellings to their token kinds.
var keywords = map[string]TokenKind{
	"const": TokenConst,
	"var":   TokenVar,
	"if":    TokenIf,
	"else":  TokenElse,
	"end":   TokenEnd,
}
