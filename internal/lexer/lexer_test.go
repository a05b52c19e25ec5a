package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kt struct {
	kind Kind
	text string
}

// significant drops trivia and returns kind/text pairs.
func significant(tokens []Token) []kt {
	var out []kt
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() {
			continue
		}
		out = append(out, kt{tok.Kind, tok.Text})
	}
	return out
}

func TestLexReproducesSource(t *testing.T) {
	sources := []string{
		"",
		"<html>no php here</html>",
		"<?php echo Yii::t('app', \"Hello {name}\", ['name' => $user->name]); ?>\n<p>done</p>",
		"<?php\n/** @translate */\nprivate $_GENDERS = ['Male', 'Female'];\n",
		"lajax.t('a' + \"b\" /* c */); // d\n",
		"<?php $x = <<<EOT\nbody $y\nEOT;\n",
		"<?php 'unterminated",
	}
	for _, src := range sources {
		var b strings.Builder
		for _, tok := range Lex(src, HTML) {
			b.WriteString(tok.Text)
		}
		assert.Equal(t, src, b.String())
	}
}

func TestLexStaticCall(t *testing.T) {
	got := significant(Lex("<?php echo \\Yii::t('app', \"Hi\");", HTML))
	want := []kt{
		{OpenTag, "<?php "},
		{Ident, "echo"},
		{Ident, "\\Yii"},
		{Operator, "::"},
		{Ident, "t"},
		{Punct, "("},
		{String, "'app'"},
		{Punct, ","},
		{String, "\"Hi\""},
		{Punct, ")"},
		{Punct, ";"},
	}
	assert.Equal(t, want, got)
}

func TestLexOffsets(t *testing.T) {
	src := "<?php $a = 'x';"
	for _, tok := range Lex(src, HTML) {
		require.Equal(t, tok.Text, src[tok.Offset:tok.Offset+len(tok.Text)])
	}
}

func TestLexStrings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind Kind
	}{
		{"single quoted", `'it\'s'`, String},
		{"double quoted", `"plain \"text\""`, String},
		{"single quoted dollar", `'$name'`, String},
		{"interpolated variable", `"Hello $name"`, Other},
		{"interpolated braces", `"Hello {$user->name}"`, Other},
		{"interpolated dollar brace", `"Hello ${name}"`, Other},
		{"escaped dollar", `"cost \$5"`, String},
		{"backtick", "`ls`", Other},
		{"unterminated", `'abc`, Other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Lex(tt.src, Code)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.kind, tokens[0].Kind)
			assert.Equal(t, tt.src, tokens[0].Text)
		})
	}
}

func TestLexInlineHTML(t *testing.T) {
	got := significant(Lex("<b><?= 'x' ?>\n</b><?xml version=\"1.0\"?>", HTML))
	want := []kt{
		{InlineHTML, "<b>"},
		{OpenTag, "<?="},
		{String, "'x'"},
		{CloseTag, "?>\n"},
		{InlineHTML, "</b><?xml version=\"1.0\"?>"},
	}
	assert.Equal(t, want, got)
}

func TestLexComments(t *testing.T) {
	tokens := Lex("a // one\nb # two\nc /* three */ d /** four */", Code)
	var comments []string
	for _, tok := range tokens {
		if tok.Kind == Comment {
			comments = append(comments, tok.Text)
		}
	}
	assert.Equal(t, []string{"// one", "# two", "/* three */", "/** four */"}, comments)
}

func TestLexLineCommentStopsAtCloseTag(t *testing.T) {
	got := significant(Lex("<?php // note ?>html", HTML))
	assert.Equal(t, []kt{
		{OpenTag, "<?php "},
		{CloseTag, "?>"},
		{InlineHTML, "html"},
	}, got)
}

func TestLexHeredoc(t *testing.T) {
	src := "$x = <<<'EOT'\n  'not a string'\n  EOT;"
	got := significant(Lex(src, Code))
	require.Len(t, got, 4)
	assert.Equal(t, kt{Other, "<<<'EOT'\n  'not a string'\n  EOT"}, got[2])
	assert.Equal(t, kt{Punct, ";"}, got[3])
}

func TestLexOperatorsAndNumbers(t *testing.T) {
	got := significant(Lex("$a?->b => 1.5e3 ... .5 0x1F <=> 'a'.'b'", Code))
	want := []kt{
		{Variable, "$a"},
		{Operator, "?->"},
		{Ident, "b"},
		{Operator, "=>"},
		{Number, "1.5e3"},
		{Operator, "..."},
		{Number, ".5"},
		{Number, "0x1F"},
		{Operator, "<=>"},
		{String, "'a'"},
		{Punct, "."},
		{String, "'b'"},
	}
	assert.Equal(t, want, got)
}

func TestLexScriptMode(t *testing.T) {
	got := significant(Lex("lajax.t('Hello');", Code))
	assert.Equal(t, []kt{
		{Ident, "lajax"},
		{Punct, "."},
		{Ident, "t"},
		{Punct, "("},
		{String, "'Hello'"},
		{Punct, ")"},
		{Punct, ";"},
	}, got)
}

func TestTokenEqual(t *testing.T) {
	assert.True(t, Bare("(").Equal(Token{Kind: Punct, Text: "(", Offset: 42}))
	assert.False(t, Bare("::").Equal(Token{Kind: Operator, Text: "::"}))
	assert.False(t, Bare(",").Equal(Token{Kind: String, Text: ","}))
}
