package catalog

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestHighlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		query string
		want  []Segment
	}{
		{
			name:  "blank query",
			text:  "Linter",
			query: "  ",
			want:  []Segment{{Text: "Linter"}},
		},
		{
			name:  "empty text",
			text:  "",
			query: "x",
			want:  nil,
		},
		{
			name:  "case insensitive keeps original casing",
			text:  "Pretty prints ABC sources",
			query: "abc",
			want:  []Segment{{Text: "Pretty prints "}, {Text: "ABC", Match: true}, {Text: " sources"}},
		},
		{
			name:  "repeated matches",
			text:  "lintlint",
			query: "LINT",
			want:  []Segment{{Text: "lint", Match: true}, {Text: "lint", Match: true}},
		},
		{
			name:  "no match",
			text:  "Figma",
			query: "zzz",
			want:  []Segment{{Text: "Figma"}},
		},
		{
			name:  "multibyte text",
			text:  "在线正则表达式测试",
			query: "正则",
			want:  []Segment{{Text: "在线"}, {Text: "正则", Match: true}, {Text: "表达式测试"}},
		},
		{
			name:  "lower-casing changes character width",
			text:  "\u212AȺȺ",
			query: "ⱥ",
			want:  []Segment{{Text: "\u212AȺȺ"}},
		},
		{
			name:  "kelvin sign",
			text:  "\u212AȺ",
			query: "k",
			want:  []Segment{{Text: "\u212AȺ"}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Highlight(tc.text, tc.query)
			require.Equal(t, tc.want, got)
			for _, seg := range got {
				require.True(t, utf8.ValidString(seg.Text), "segment %q splits a character", seg.Text)
			}
		})
	}
}
