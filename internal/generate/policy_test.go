package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePolicy(t *testing.T) {
	for raw, want := range map[string]Policy{
		"fail":  PolicyFail,
		"skip":  PolicySkip,
		"empty": PolicyEmpty,
		"":      PolicySkip,
	} {
		got, err := ParsePolicy(raw)
		assert.NoError(t, err, "input %q", raw)
		assert.Equal(t, want, got, "input %q", raw)
	}

	for _, raw := range []string{"FAIL", "keep", "error", "x"} {
		_, err := ParsePolicy(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{
		"docx": FormatDOCX,
		"pdf":  FormatPDF,
		"":     FormatDOCX,
	} {
		got, err := ParseFormat(raw)
		assert.NoError(t, err, "input %q", raw)
		assert.Equal(t, want, got, "input %q", raw)
	}

	_, err := ParseFormat("odt")
	assert.Error(t, err)
}
