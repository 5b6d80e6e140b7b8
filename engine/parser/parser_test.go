package parser

import (
	"testing"

	"github.com/nathoo/yokulogic/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Intent{},
		},

		// Bare verbs
		{
			name:  "reach",
			input: "reach",
			want:  types.Intent{Verb: "reach"},
		},
		{
			name:  "i → inventory",
			input: "i",
			want:  types.Intent{Verb: "inventory"},
		},
		{
			name:  "win → goal",
			input: "WIN",
			want:  types.Intent{Verb: "goal"},
		},

		// Objects
		{
			name:  "collect item",
			input: "collect Blue Key",
			want:  types.Intent{Verb: "collect", Object: "blue key"},
		},
		{
			name:  "alias with object",
			input: "get vacuum",
			want:  types.Intent{Verb: "collect", Object: "vacuum"},
		},
		{
			name:  "articles stripped",
			input: "where the mailbag",
			want:  types.Intent{Verb: "where", Object: "mailbag"},
		},
		{
			name:  "region name kept whole",
			input: "path hub_village4",
			want:  types.Intent{Verb: "path", Object: "hub_village4"},
		},

		// Counts
		{
			name:  "trailing count",
			input: "collect dive fish 2",
			want:  types.Intent{Verb: "collect", Object: "dive fish", Count: 2},
		},
		{
			name:  "leading count",
			input: "add 3 wallet",
			want:  types.Intent{Verb: "collect", Object: "wallet", Count: 3},
		},
		{
			name:  "x count",
			input: "collect wallet x2",
			want:  types.Intent{Verb: "collect", Object: "wallet", Count: 2},
		},
		{
			name:  "all",
			input: "drop wallet all",
			want:  types.Intent{Verb: "drop", Object: "wallet", Count: -1},
		},
		{
			name:  "zero is not a count",
			input: "drop wallet 0",
			want:  types.Intent{Verb: "drop", Object: "wallet 0"},
		},
		{
			name:  "single word is never a count",
			input: "collect 2",
			want:  types.Intent{Verb: "collect", Object: "2"},
		},

		{
			name:  "numbers kept for other verbs",
			input: "can mailbox 04",
			want:  types.Intent{Verb: "can", Object: "mailbox 04"},
		},

		// Shorthand
		{
			name:  "plus shorthand",
			input: "+vacuum",
			want:  types.Intent{Verb: "collect", Object: "vacuum"},
		},
		{
			name:  "minus shorthand with count",
			input: "-wallet 2",
			want:  types.Intent{Verb: "drop", Object: "wallet", Count: 2},
		},
		{
			name:  "spaced plus",
			input: "+ blue key",
			want:  types.Intent{Verb: "collect", Object: "blue key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
