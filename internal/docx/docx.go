// Package docx extracts and substitutes placeholder keys in DOCX content.
//
// A DOCX file is a zip container; the text lives in word/document.xml plus
// header and footer parts. Placeholders use the form {KEY} with KEY drawn
// from [A-Z0-9_]. Word may split a placeholder across several XML runs, so
// both extraction and substitution work on a tag-stripped view of the text.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalidTemplate marks content that cannot be parsed as a DOCX
// container. Fatal for that template; never retried.
var ErrInvalidTemplate = errors.New("InvalidTemplate")

var placeholderPattern = regexp.MustCompile(`\{[A-Z0-9_]+\}`)

const documentPart = "word/document.xml"

// ValidKey reports whether s is a well-formed placeholder key, braces
// included ("{FIO}").
func ValidKey(s string) bool {
	return placeholderPattern.FindString(s) == s && s != ""
}

// textPart reports whether a zip entry holds document text worth scanning:
// the body plus headers and footers.
func textPart(name string) bool {
	if name == documentPart {
		return true
	}
	base, ok := strings.CutPrefix(name, "word/")
	if !ok || !strings.HasSuffix(base, ".xml") {
		return false
	}
	return strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer")
}

func open(content []byte) (*zip.Reader, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	for _, f := range reader.File {
		if f.Name == documentPart {
			return reader, nil
		}
	}
	return nil, fmt.Errorf("%w: missing %s", ErrInvalidTemplate, documentPart)
}

func readPart(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExtractPlaceholders returns the distinct placeholder keys referenced by
// the template content, sorted. Extraction is deterministic and side-effect
// free; an empty result is valid.
func ExtractPlaceholders(content []byte) ([]string, error) {
	reader, err := open(content)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, f := range reader.File {
		if !textPart(f.Name) {
			continue
		}
		text, err := readPart(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, f.Name, err)
		}
		for _, key := range placeholderPattern.FindAllString(stripTags(text), -1) {
			seen[key] = true
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Render substitutes every occurrence of the mapped keys and returns a new
// DOCX. Keys absent from the mapping stay as literal text. Values are
// XML-escaped before insertion.
func Render(content []byte, mapping map[string]string) ([]byte, error) {
	reader, err := open(content)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, f.Name, err)
		}

		if textPart(f.Name) {
			text := string(data)
			for _, key := range keys {
				text = replaceKey(text, key, escapeXML(mapping[key]))
			}
			data = []byte(text)
		}

		dst, err := writer.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		if _, err := dst.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize document: %w", err)
	}
	return buf.Bytes(), nil
}

// replaceKey substitutes all occurrences of key. Intact occurrences go
// through ReplaceAll; a part can then still hold the same key split across
// runs, so if the tag-stripped view keeps matching, the tag-aware pass
// walks the XML character-by-character and picks those up too.
func replaceKey(content, key, value string) string {
	if strings.Contains(content, key) {
		content = strings.ReplaceAll(content, key, value)
	}
	if strings.Contains(stripTags(content), key) {
		content = replaceAcrossTags(content, key, value)
	}
	return content
}

func replaceAcrossTags(content, key, value string) string {
	contentRunes := []rune(content)
	keyRunes := []rune(key)
	if len(keyRunes) == 0 {
		return content
	}

	result := make([]rune, 0, len(contentRunes))
	i := 0
	for i < len(contentRunes) {
		matched, end := matchAcrossTags(contentRunes, i, keyRunes)
		if matched {
			result = append(result, []rune(value)...)
			i = end
		} else {
			result = append(result, contentRunes[i])
			i++
		}
	}
	return string(result)
}

// matchAcrossTags tries to match key starting at pos, treating everything
// inside <...> as invisible. The match must begin on a visible character
// equal to the key's first rune, and a match longer than ten times the key
// gives up rather than swallow arbitrary markup.
func matchAcrossTags(content []rune, start int, key []rune) (bool, int) {
	if start >= len(content) || content[start] != key[0] {
		return false, start
	}

	keyIdx := 1
	pos := start + 1
	inTag := false

	for pos < len(content) && keyIdx < len(key) {
		char := content[pos]

		switch {
		case char == '<':
			inTag = true
		case char == '>':
			inTag = false
		case !inTag:
			if char != key[keyIdx] {
				return false, start
			}
			keyIdx++
		}
		pos++

		if pos-start > len(key)*10 {
			return false, start
		}
	}

	return keyIdx == len(key), pos
}

func stripTags(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))

	inTag := false
	for _, char := range content {
		switch {
		case char == '<':
			inTag = true
		case char == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(char)
		}
	}
	return sb.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
