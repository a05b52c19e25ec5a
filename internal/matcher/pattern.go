package matcher

import (
	"errors"
	"fmt"

	"langscan/internal/lexer"
)

// ErrEmptyMarker is returned for a marker that produces no tokens.
var ErrEmptyMarker = errors.New("marker has no tokens")

// markerPrefix is prepended so that the marker is lexed in code context. The
// resulting open tag is dropped.
const markerPrefix = "<?php "

// Pattern is the token spelling of a call-site marker such as "::t" or
// "lajax.t". It never contains trivia.
type Pattern []lexer.Token

// NewPattern lexes marker the same way source files are lexed.
func NewPattern(marker string) (Pattern, error) {
	tokens := lexer.Lex(markerPrefix+marker, lexer.HTML)
	if len(tokens) > 0 && tokens[0].Kind == lexer.OpenTag {
		tokens = tokens[1:]
	}

	var p Pattern
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() {
			continue
		}
		tok.Offset = 0
		p = append(p, tok)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyMarker, marker)
	}
	return p, nil
}

func (p Pattern) String() string {
	var s string
	for _, tok := range p {
		s += tok.Text
	}
	return s
}
