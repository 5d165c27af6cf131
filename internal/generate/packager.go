package generate

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	pdfContentType  = "application/pdf"
	zipContentType  = "application/zip"
)

func contentTypeFor(format Format) string {
	if format == FormatPDF {
		return pdfContentType
	}
	return docxContentType
}

// rendered is one client's output, ready for packaging.
type rendered struct {
	clientID   uint
	clientName string
	data       []byte
}

// Entry names one packaged client output.
type Entry struct {
	ClientID uint
	Name     string
}

// Artifact is the unit handed back to the HTTP layer: raw bytes for a
// single client, a zip for several.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Entries     []Entry // one per input client id, in input order
}

// packageOutputs turns the ordered render results into a download artifact.
// Entry names derive from the template filename stem and the client name;
// collisions get the client id appended, then an occurrence counter.
func packageOutputs(templateFilename string, format Format, items []rendered) (*Artifact, error) {
	stem := strings.TrimSuffix(templateFilename, filepath.Ext(templateFilename))
	if stem == "" {
		stem = "document"
	}
	ext := filepath.Ext(templateFilename)
	if ext == "" {
		ext = ".docx"
	}
	if format == FormatPDF {
		ext = ".pdf"
	}

	used := make(map[string]bool, len(items))
	entries := make([]Entry, len(items))
	for i, item := range items {
		entries[i] = Entry{ClientID: item.clientID, Name: entryName(stem, ext, item, used)}
	}

	if len(items) == 1 {
		return &Artifact{
			Filename:    entries[0].Name,
			ContentType: contentTypeFor(format),
			Data:        items[0].data,
			Entries:     entries,
		}, nil
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for i, item := range items {
		dst, err := writer.Create(entries[i].Name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", entries[i].Name, err)
		}
		if _, err := dst.Write(item.data); err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", entries[i].Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return &Artifact{
		Filename:    stem + "_batch.zip",
		ContentType: zipContentType,
		Data:        buf.Bytes(),
		Entries:     entries,
	}, nil
}

func entryName(stem, ext string, item rendered, used map[string]bool) string {
	base := sanitizeName(item.clientName)
	if base == "" {
		base = fmt.Sprintf("client%d", item.clientID)
	}

	name := fmt.Sprintf("%s_%s%s", stem, base, ext)
	if !used[name] {
		used[name] = true
		return name
	}

	// Shared display name: the client id disambiguates.
	name = fmt.Sprintf("%s_%s_%d%s", stem, base, item.clientID, ext)
	for n := 2; used[name]; n++ {
		// Same client repeated in the input: number the occurrences.
		name = fmt.Sprintf("%s_%s_%d_%d%s", stem, base, item.clientID, n, ext)
	}
	used[name] = true
	return name
}

// sanitizeName keeps letters, digits, dashes and underscores; spaces become
// underscores, everything else is dropped.
func sanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
