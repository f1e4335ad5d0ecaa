package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no markers", "Grants wishes to investors", "Grants wishes to investors"},
		{"trailing citation", "Grants wishes to investors \ue200cite\ue202turn0view0\ue201", "Grants wishes to investors"},
		{"inner citation keeps spaces", "Bold \ue200cite\ue201 move", "Bold  move"},
		{"multiple spans", "\ue200a\ue201Roasted\ue200b\ue202c\ue201 hard\ue200d\ue201", "Roasted hard"},
		{"unterminated opener", "Half \ue200cite", "Half \ue200cite"},
		{"only whitespace", "   \n\t", ""},
		{"only citation", "\ue200cite\ue202turn1search3\ue201", ""},
		{"stray closer", "odd \ue201 text", "odd \ue201 text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkers(tt.in))
		})
	}
}

func TestStripMarkers_Idempotent(t *testing.T) {
	inputs := []string{
		"  Genie energy \ue200cite\ue202turn0view0\ue201  ",
		"Half \ue200cite",
		"\ue200x\ue201\ue200y\ue201",
		"plain",
	}
	for _, in := range inputs {
		once := StripMarkers(in)
		assert.Equal(t, once, StripMarkers(once), "input %q", in)
	}
}
