package matcher

import "testing"

func TestUnquote(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`'plain'`, "plain"},
		{`""`, ""},
		{`'`, ""},
		{``, ""},
		{`'It\'s'`, "It's"},
		{`"say \"hi\""`, `say "hi"`},
		{`'line\nbreak'`, "line\nbreak"},
		{`'a\\b'`, `a\b`},
		{`'trailing\\'`, `trailing\`},
		{`'\x41\x4a\x4'`, "AJ\x04"},
		{`'\xZZ'`, "xZZ"},
		{`'\101\60\0'`, "A0\x00"},
		{`'\q\{'`, "q{"},
		{`'árvíztűrő'`, "árvíztűrő"},
		{`'{n, plural, =1{one} other{#}}'`, "{n, plural, =1{one} other{#}}"},
	}
	for _, tt := range tests {
		if got := Unquote(tt.raw); got != tt.want {
			t.Errorf("Unquote(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
