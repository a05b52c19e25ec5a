package matcher

import (
	"strings"

	"langscan/internal/collector"
	"langscan/internal/lexer"
)

var (
	separator = lexer.Bare(",")
	concatOp  = lexer.Bare(".")
)

// Policy selects how a captured buffer is turned into language items.
type Policy uint8

const (
	// SingleLiteral reads one message from the leading string literals,
	// e.g. lajax.t('message').
	SingleLiteral Policy = iota
	// PositionalPair reads a category and a message, e.g.
	// Yii::t('category', 'message').
	PositionalPair
	// LiteralArray reads every string literal of an array as a message.
	LiteralArray
)

func (p Policy) String() string {
	switch p {
	case SingleLiteral:
		return "single-literal"
	case PositionalPair:
		return "positional-pair"
	case LiteralArray:
		return "literal-array"
	default:
		return "unknown"
	}
}

// Context is the per-site configuration an extraction runs with.
type Context struct {
	// Category is used by styles that do not read one from the source.
	Category string
	// Ignored holds categories whose items are dropped.
	Ignored map[string]struct{}
}

// IsIgnored reports whether category is on the ignore list.
func (c Context) IsIgnored(category string) bool {
	_, ok := c.Ignored[category]
	return ok
}

// Extract interprets a captured buffer. A buffer that does not have the
// expected shape yields no items.
func (p Policy) Extract(buf []lexer.Token, ctx Context) []collector.LanguageItem {
	switch p {
	case SingleLiteral:
		return extractSingle(buf, ctx)
	case PositionalPair:
		return extractPair(buf, ctx)
	case LiteralArray:
		return extractArray(buf, ctx)
	default:
		return nil
	}
}

// extractSingle joins every string literal up to the first separator.
// Non-literal tokens in between are skipped.
func extractSingle(buf []lexer.Token, ctx Context) []collector.LanguageItem {
	if len(buf) == 0 || buf[0].Kind != lexer.String {
		return nil
	}

	var msg strings.Builder
	for _, tok := range buf {
		if tok.Kind == lexer.String {
			msg.WriteString(Unquote(tok.Text))
		} else if tok.Equal(separator) {
			break
		}
	}
	return []collector.LanguageItem{{Category: ctx.Category, Message: msg.String()}}
}

func extractPair(buf []lexer.Token, ctx Context) []collector.LanguageItem {
	if len(buf) < 3 || buf[0].Kind != lexer.String || !buf[1].Equal(separator) || buf[2].Kind != lexer.String {
		return nil
	}
	category := Unquote(buf[0].Text)
	if ctx.IsIgnored(category) {
		return nil
	}
	return []collector.LanguageItem{{Category: category, Message: concatMessage(buf[2:])}}
}

// concatMessage joins buf[0] with every following ". literal" piece.
func concatMessage(buf []lexer.Token) string {
	var msg strings.Builder
	for {
		msg.WriteString(Unquote(buf[0].Text))
		if len(buf) < 3 || !buf[1].Equal(concatOp) || buf[2].Kind != lexer.String {
			return msg.String()
		}
		buf = buf[2:]
	}
}

// extractArray starts a new item at every literal unless the literal is
// concatenated to the previous one.
func extractArray(buf []lexer.Token, ctx Context) []collector.LanguageItem {
	var items []collector.LanguageItem
	for i, tok := range buf {
		if tok.Kind != lexer.String {
			continue
		}
		msg := Unquote(tok.Text)
		if i > 0 && buf[i-1].Equal(concatOp) && len(items) > 0 {
			items[len(items)-1].Message += msg
			continue
		}
		items = append(items, collector.LanguageItem{Category: ctx.Category, Message: msg})
	}
	return items
}
