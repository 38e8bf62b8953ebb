package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStruck(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Subspan
	}{
		{
			name: "no markup",
			text: "plain line\n",
			want: []Subspan{{Text: "plain line\n"}},
		},
		{
			name: "empty",
			text: "",
			want: []Subspan{{Text: ""}},
		},
		{
			name: "struck in the middle",
			text: "keep {{del}}gone{{/del}} this\n",
			want: []Subspan{{Text: "keep "}, {Text: "gone", Struck: true}, {Text: " this\n"}},
		},
		{
			name: "struck only",
			text: "{{del}}all{{/del}}",
			want: []Subspan{{Text: "all", Struck: true}},
		},
		{
			name: "unterminated stays literal",
			text: "a {{del}}b",
			want: []Subspan{{Text: "a {{del}}b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStruck(tt.text))
		})
	}
}

func TestSegmentText(t *testing.T) {
	seg := Segment{Kind: SegmentAdded, Subspans: SplitStruck("x {{del}}y{{/del}} z")}
	assert.Equal(t, "x y z", seg.Text())
	assert.Equal(t, "added", seg.Kind.String())
}
