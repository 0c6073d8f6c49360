package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{
			name: "numbered final ranking section",
			input: "Some reasoning here.\n\nFINAL RANKING\n1. Response B\n2. Response A\n3. Response C\n",
			want: []string{"Response B", "Response A", "Response C"},
		},
		{
			name: "numbered section stops at first non-matching non-empty line",
			input: "FINAL RANKING\n1. Response A\n2. Response B\nsome trailing commentary\n3. Response C\n",
			want:  []string{"Response A", "Response B"},
		},
		{
			name:  "numbered section tolerates blank lines between entries",
			input: "FINAL RANKING\n1. Response A\n\n2. Response B\n",
			want:  []string{"Response A", "Response B"},
		},
		{
			name: "fallback A: section exists but not numbered, collect labels in order",
			input: "FINAL RANKING\nI'd say Response C then Response A then Response B.\n",
			want:  []string{"Response C", "Response A", "Response B"},
		},
		{
			name:  "fallback B: no section at all, collect labels anywhere",
			input: "I liked Response B best, then Response A.",
			want:  []string{"Response B", "Response A"},
		},
		{
			name:    "no labels anywhere fails",
			input:   "I really can't decide between these options.",
			wantErr: true,
		},
		{
			name:  "duplicate labels are preserved",
			input: "FINAL RANKING\n1. Response A\n2. Response A\n",
			want:  []string{"Response A", "Response A"},
		},
		{
			name:  "case-sensitive FINAL RANKING prefix required",
			input: "final ranking\n1. Response A\n",
			want:  []string{"Response A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{Reason: "no response labels found in evaluator reply"}
	assert.Contains(t, err.Error(), "no response labels found")
}
