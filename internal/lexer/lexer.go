// Package lexer splits PHP and JavaScript sources into a flat token stream.
//
// The lexer follows the PHP tokenizer closely enough for call-site matching:
// string literals without interpolation are String tokens, single delimiter
// characters are Punct tokens and whitespace and comments are kept as their
// own tokens. It never fails; bytes it does not understand become Punct or
// Other tokens. JavaScript sources are lexed with the same rules, starting
// in Code mode.
package lexer

import (
	"strings"
	"unicode/utf8"
)

// Mode selects the state the lexer starts in.
type Mode uint8

const (
	// HTML starts outside of PHP tags, as a .php file does.
	HTML Mode = iota
	// Code starts directly in code.
	Code
)

// operators is ordered longest first so that prefix matching picks the
// longest operator.
var operators = []string{
	"<<=", ">>=", "**=", "...", "<=>", "===", "!==", "??=", "?->",
	"::", "->", "=>", "==", "!=", "<>", "<=", ">=", "&&", "||", "??",
	"++", "--", "+=", "-=", "*=", "/=", ".=", "%=", "&=", "|=", "^=",
	"<<", ">>", "**", "#[",
}

// Lex splits src into tokens. Concatenating the Text of the returned tokens
// reproduces src exactly.
func Lex(src string, mode Mode) []Token {
	l := &lexer{src: src, inCode: mode == Code}
	for l.pos < len(l.src) {
		if l.inCode {
			l.lexCode()
		} else {
			l.lexHTML()
		}
	}
	return l.tokens
}

type lexer struct {
	src    string
	pos    int
	inCode bool
	tokens []Token
}

// emit appends a token spanning [l.pos, end) and advances past it.
func (l *lexer) emit(kind Kind, end int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: l.src[l.pos:end], Offset: l.pos})
	l.pos = end
}

func (l *lexer) lexHTML() {
	rest := l.src[l.pos:]
	idx := openTagIndex(rest)
	if idx < 0 {
		l.emit(InlineHTML, len(l.src))
		return
	}
	if idx > 0 {
		l.emit(InlineHTML, l.pos+idx)
	}
	l.emit(OpenTag, l.pos+openTagLen(l.src[l.pos:]))
	l.inCode = true
}

func (l *lexer) lexCode() {
	s := l.src[l.pos:]
	c := s[0]

	switch {
	case strings.HasPrefix(s, "?>"):
		n := 2
		if strings.HasPrefix(s[2:], "\r\n") {
			n = 4
		} else if strings.HasPrefix(s[2:], "\n") {
			n = 3
		}
		l.emit(CloseTag, l.pos+n)
		l.inCode = false
	case isSpace(c):
		l.emit(Whitespace, l.pos+spanOf(s, isSpace))
	case strings.HasPrefix(s, "#["):
		l.emit(Operator, l.pos+2)
	case c == '#' || strings.HasPrefix(s, "//"):
		l.emit(Comment, l.pos+lineCommentLen(s))
	case strings.HasPrefix(s, "/*"):
		n := len(s)
		if end := strings.Index(s[2:], "*/"); end >= 0 {
			n = end + 4
		}
		l.emit(Comment, l.pos+n)
	case c == '$' && len(s) > 1 && isIdentStart(s[1]):
		l.emit(Variable, l.pos+1+spanOf(s[1:], isIdentChar))
	case isIdentStart(c) || (c == '\\' && len(s) > 1 && isIdentStart(s[1])):
		l.emit(Ident, l.pos+nameLen(s))
	case isDigit(c) || (c == '.' && len(s) > 1 && isDigit(s[1])):
		l.emit(Number, l.pos+numberLen(s))
	case c == '\'' || c == '"' || c == '`':
		n, interpolated, closed := quotedLen(s, c)
		kind := String
		if c == '`' || interpolated || !closed {
			kind = Other
		}
		l.emit(kind, l.pos+n)
	case strings.HasPrefix(s, "<<<") && heredocLen(s) > 0:
		l.emit(Other, l.pos+heredocLen(s))
	default:
		l.lexOperator(s)
	}
}

func (l *lexer) lexOperator(s string) {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			l.emit(Operator, l.pos+len(op))
			return
		}
	}
	_, size := utf8.DecodeRuneInString(s)
	l.emit(Punct, l.pos+size)
}

// openTagIndex returns the index of the first PHP open tag in s, or -1.
// "<?xml" and other short tags are not open tags.
func openTagIndex(s string) int {
	for off := 0; ; {
		i := strings.Index(s[off:], "<?")
		if i < 0 {
			return -1
		}
		i += off
		if openTagLen(s[i:]) > 0 {
			return i
		}
		off = i + 2
	}
}

// openTagLen returns the length of the open tag at the start of s, including
// the single line break or space that PHP folds into the tag, or 0.
func openTagLen(s string) int {
	if strings.HasPrefix(s, "<?=") {
		return 3
	}
	if len(s) < 5 || !strings.EqualFold(s[:5], "<?php") {
		return 0
	}
	rest := s[5:]
	switch {
	case rest == "":
		return 5
	case strings.HasPrefix(rest, "\r\n"):
		return 7
	case rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n' || rest[0] == '\r':
		return 6
	default:
		return 0
	}
}

// lineCommentLen stops before the line break or a close tag.
func lineCommentLen(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || strings.HasPrefix(s[i:], "?>") {
			return i
		}
	}
	return len(s)
}

// quotedLen scans a quoted literal starting at s[0]. A double-quoted or
// backtick literal containing "$name", "${" or "{$" is interpolated.
func quotedLen(s string, quote byte) (n int, interpolated, closed bool) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i + 1, interpolated, true
		case '$':
			if quote != '\'' && i+1 < len(s) && (isIdentStart(s[i+1]) || s[i+1] == '{') {
				interpolated = true
			}
		case '{':
			if quote != '\'' && i+1 < len(s) && s[i+1] == '$' {
				interpolated = true
			}
		}
	}
	return len(s), interpolated, false
}

// heredocLen returns the length of the heredoc or nowdoc starting at s,
// through its closing label, or 0 when s does not start one.
func heredocLen(s string) int {
	i := 3
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	var quote byte
	if i < len(s) && (s[i] == '\'' || s[i] == '"') {
		quote = s[i]
		i++
	}
	if i >= len(s) || !isIdentStart(s[i]) {
		return 0
	}
	start := i
	i += spanOf(s[i:], isIdentChar)
	label := s[start:i]
	if quote != 0 {
		if i >= len(s) || s[i] != quote {
			return 0
		}
		i++
	}
	nl := strings.IndexByte(s[i:], '\n')
	if nl < 0 || strings.TrimRight(s[i:i+nl], "\r") != "" {
		return 0
	}
	i += nl + 1

	for {
		line := s[i:]
		lineEnd := strings.IndexByte(line, '\n')
		if lineEnd >= 0 {
			line = line[:lineEnd]
		}
		body := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(body, label) && (len(body) == len(label) || !isIdentChar(body[len(label)])) {
			return i + len(line) - len(body) + len(label)
		}
		if lineEnd < 0 {
			return len(s)
		}
		i += lineEnd + 1
	}
}

func nameLen(s string) int {
	i := 0
	for i < len(s) {
		if s[i] == '\\' {
			if i+1 < len(s) && isIdentStart(s[i+1]) {
				i++
				continue
			}
			break
		}
		if !isIdentChar(s[i]) {
			break
		}
		i++
	}
	return i
}

func numberLen(s string) int {
	if len(s) > 2 && s[0] == '0' {
		switch s[1] | 0x20 {
		case 'x', 'b', 'o':
			return 2 + spanOf(s[2:], func(c byte) bool { return isHexDigit(c) || c == '_' })
		}
	}
	i := spanOf(s, func(c byte) bool { return isDigit(c) || c == '_' })
	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i++
		i += spanOf(s[i:], func(c byte) bool { return isDigit(c) || c == '_' })
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			i = j + spanOf(s[j:], isDigit)
		}
	}
	return i
}

func spanOf(s string, f func(byte) bool) int {
	i := 0
	for i < len(s) && f(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') || c >= 0x80
}

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) }
