// Package matcher finds translator call sites in a token stream and extracts
// the literal arguments found inside them.
//
// A Matcher runs a two-state scan. While seeking it counts how many tokens of
// its Pattern have been seen in a row, ignoring trivia; any other token
// resets the count without being retried as a new start. Once the pattern is
// complete it captures every non-trivia token that is not the Begin
// delimiter until the End delimiter, hands the buffer to its Policy and
// starts seeking again.
package matcher

import (
	"langscan/internal/collector"
	"langscan/internal/lexer"
)

// chainPrefixLen is the length of a complete "literal , literal ," prefix.
// A capture longer than that whose element at chainPrefixLen-1 is a
// separator may hold further translator calls; the prefix is stripped and
// the rest is matched again.
const chainPrefixLen = 4

// Matcher extracts language items from call sites spelled by Pattern.
type Matcher struct {
	Pattern Pattern
	Begin   lexer.Token
	End     lexer.Token
	Policy  Policy
	Context Context
}

// New creates a matcher for marker with the given delimiters.
func New(marker, begin, end string, policy Policy, ctx Context) (*Matcher, error) {
	p, err := NewPattern(marker)
	if err != nil {
		return nil, err
	}
	return &Matcher{
		Pattern: p,
		Begin:   lexer.Bare(begin),
		End:     lexer.Bare(end),
		Policy:  policy,
		Context: ctx,
	}, nil
}

// Match scans tokens and returns the items of every call site in order.
func (m *Matcher) Match(tokens []lexer.Token) []collector.LanguageItem {
	var items []collector.LanguageItem
	m.match(tokens, &items)
	return items
}

func (m *Matcher) match(tokens []lexer.Token, items *[]collector.LanguageItem) {
	matched := 0
	var buf []lexer.Token

	for _, tok := range tokens {
		if matched < len(m.Pattern) {
			if tok.Kind.IsTrivia() {
				continue
			}
			if tok.Equal(m.Pattern[matched]) {
				matched++
			} else {
				matched = 0
			}
			continue
		}

		switch {
		case tok.Equal(m.End):
			*items = append(*items, m.Policy.Extract(buf, m.Context)...)
			if rest, ok := chainedRemainder(buf, m.End); ok {
				m.match(rest, items)
			}
			matched = 0
			buf = nil
		case tok.Equal(m.Begin), tok.Kind.IsTrivia():
		default:
			buf = append(buf, tok)
		}
	}
}

// chainedRemainder strips a complete invocation prefix from buf and closes
// the rest with end. Each call shrinks the input, so recursion terminates.
func chainedRemainder(buf []lexer.Token, end lexer.Token) ([]lexer.Token, bool) {
	if len(buf) <= chainPrefixLen || !buf[chainPrefixLen-1].Equal(separator) {
		return nil, false
	}
	rest := make([]lexer.Token, 0, len(buf)-chainPrefixLen+1)
	rest = append(rest, buf[chainPrefixLen:]...)
	return append(rest, end), true
}
