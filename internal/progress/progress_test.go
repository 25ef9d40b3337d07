package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps TerminalCapabilities
		want ProgressSymbols
	}{
		"unicode": {
			caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			want: ProgressSymbols{Checkmark: "✓", Failure: "✗", Skipped: "○", SpinnerSet: 14},
		},
		"ascii": {
			caps: TerminalCapabilities{IsTTY: true},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", Skipped: "[SKIP]", SpinnerSet: 9},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SelectSymbols(tt.caps))
		})
	}
}

func TestDetectTerminalCapabilities_NilFile(t *testing.T) {
	t.Parallel()

	caps := DetectTerminalCapabilities(nil)
	assert.False(t, caps.IsTTY)
	assert.False(t, caps.SupportsColor)
	assert.Zero(t, caps.Width)
	assert.False(t, IsInteractive(nil))
}

func TestSpinner_NonTTYPrintsOutcomesOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSpinner(&buf, TerminalCapabilities{})

	s.Start("version control")
	s.Done("version control")
	s.Start("environment")
	s.Fail("environment")
	s.Skip("docs", "not requested")

	assert.Equal(t,
		"[OK] version control\n[FAIL] environment\n[SKIP] docs (not requested)\n",
		buf.String())
}
