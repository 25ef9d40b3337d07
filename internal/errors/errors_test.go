package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"validation":    {category: Validation, want: "Validation Error"},
		"configuration": {category: Configuration, want: "Configuration Error"},
		"prerequisite":  {category: Prerequisite, want: "Prerequisite Error"},
		"runtime":       {category: Runtime, want: "Runtime Error"},
		"unknown":       {category: ErrorCategory(99), want: "Error"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestAsCLIError_FindsWrapped(t *testing.T) {
	t.Parallel()

	inner := InvalidPackageName("123abc")
	wrapped := fmt.Errorf("resolving options: %w", inner)

	got := AsCLIError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, Validation, got.Category)
	assert.True(t, HasCategory(wrapped, Validation))
	assert.False(t, HasCategory(wrapped, Runtime))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
}

func TestStepFailed_PreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("exit status 1")
	err := StepFailed("install", cause)

	assert.Equal(t, Runtime, err.Category)
	assert.Contains(t, err.Message, `step "install" failed`)
	assert.ErrorIs(t, err, cause)
}

func TestInvalidOption_ListsDomain(t *testing.T) {
	t.Parallel()

	err := InvalidOption("layout", "flat", []string{"src", "direct"})

	assert.Contains(t, err.Message, "--layout")
	assert.Contains(t, err.Message, `"flat"`)
	assert.Contains(t, strings.Join(err.Remediation, "\n"), "src, direct")
	assert.Equal(t, Usage, err.Usage)
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	out := FormatErrorPlain(MissingFlagValue("remote"))

	assert.Contains(t, out, "Error [Validation Error]: flag --remote requires an argument")
	assert.Contains(t, out, "Usage: "+Usage)
	assert.Contains(t, out, "To fix this:")
	assert.Contains(t, out, "  • Pass a value right after --remote")
	assert.Empty(t, FormatErrorPlain(nil))
}

func TestFprintError_PlainErrorBecomesRuntime(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	FprintError(&sb, stderrors.New("boom"))

	assert.Contains(t, sb.String(), "Runtime Error")
	assert.Contains(t, sb.String(), "boom")
}

func TestFormatErrorPlain_ShowsCause(t *testing.T) {
	t.Parallel()

	out := FormatErrorPlain(StepFailed("install", stderrors.New("pip exited with status 1: no setup.py")))

	assert.Contains(t, out, `Error [Runtime Error]: step "install" failed`)
	assert.Contains(t, out, "  pip exited with status 1: no setup.py\n")
}
