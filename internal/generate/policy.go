package generate

import "fmt"

// Policy governs what happens when a placeholder has no bound value for a
// client.
type Policy string

const (
	// PolicyFail aborts the whole batch at the first missing value; nothing
	// is packaged or recorded.
	PolicyFail Policy = "fail"
	// PolicySkip keeps the literal placeholder text in the output.
	PolicySkip Policy = "skip"
	// PolicyEmpty substitutes the empty string.
	PolicyEmpty Policy = "empty"
)

// ParsePolicy validates an on_missing request field. Empty defaults to
// PolicySkip, matching the long-standing behavior of leaving unknown
// placeholders in place.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyFail, PolicySkip, PolicyEmpty:
		return Policy(s), nil
	case "":
		return PolicySkip, nil
	}
	return "", fmt.Errorf("invalid on_missing %q (want fail, skip or empty)", s)
}

// Format selects the per-client output format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatDOCX, FormatPDF:
		return Format(s), nil
	case "":
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("invalid format %q (want docx or pdf)", s)
}
