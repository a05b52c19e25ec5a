package lexer

import "fmt"

// Kind classifies a lexical token.
type Kind uint8

const (
	Other      Kind = iota // Interpolated strings, heredocs, backtick strings, unknown bytes.
	Whitespace             // Contiguous whitespace.
	Comment                // Line, block or doc comment.
	String                 // Constant string literal without interpolation.
	Ident                  // Identifier or qualified name.
	Variable               // $name.
	Number                 // Integer or float literal.
	Punct                  // A bare single character such as ( , . ; [.
	Operator               // A multi-character operator such as :: => ->.
	OpenTag                // <?php or <?=.
	CloseTag               // ?>.
	InlineHTML             // Text outside of PHP tags.
)

// IsTrivia reports whether tokens of this kind are transparent to matching.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Other:
		return "Other"
	case Whitespace:
		return "Whitespace"
	case Comment:
		return "Comment"
	case String:
		return "String"
	case Ident:
		return "Ident"
	case Variable:
		return "Variable"
	case Number:
		return "Number"
	case Punct:
		return "Punct"
	case Operator:
		return "Operator"
	case OpenTag:
		return "OpenTag"
	case CloseTag:
		return "CloseTag"
	case InlineHTML:
		return "InlineHTML"
	default:
		return fmt.Sprintf("lexer.Kind(%d)", int(k))
	}
}

// Token is a single lexical token. Offset is the byte offset of Text in the
// lexed source.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}

// Bare returns a punctuation token for a delimiter character, e.g. "(" or ";".
func Bare(text string) Token {
	return Token{Kind: Punct, Text: text}
}

// Equal reports whether two tokens have the same kind and text. Offsets are
// ignored.
func (t Token) Equal(o Token) bool {
	return t.Kind == o.Kind && t.Text == o.Text
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}
