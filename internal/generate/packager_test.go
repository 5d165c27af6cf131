package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme", "Acme"},
		{"Acme Corp", "Acme_Corp"},
		{"ООО Ромашка", "ООО_Ромашка"},
		{"a/b\\c:d", "abcd"},
		{"x-y_z9", "x-y_z9"},
		{"  ", "__"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitizeName(tc.in), "input %q", tc.in)
	}
}

func TestEntryNameCollisionChain(t *testing.T) {
	used := make(map[string]bool)
	item := rendered{clientID: 5, clientName: "Acme"}

	assert.Equal(t, "report_Acme.docx", entryName("report", ".docx", item, used))
	assert.Equal(t, "report_Acme_5.docx", entryName("report", ".docx", item, used))
	assert.Equal(t, "report_Acme_5_2.docx", entryName("report", ".docx", item, used))
	assert.Equal(t, "report_Acme_5_3.docx", entryName("report", ".docx", item, used))
}

func TestEntryNameEmptyAfterSanitize(t *testing.T) {
	used := make(map[string]bool)
	item := rendered{clientID: 9, clientName: "***"}

	assert.Equal(t, "report_client9.docx", entryName("report", ".docx", item, used))
}

func TestPackageSingleItem(t *testing.T) {
	artifact, err := packageOutputs("contract.docx", FormatDOCX, []rendered{
		{clientID: 1, clientName: "Acme", data: []byte("payload")},
	})
	require.NoError(t, err)

	assert.Equal(t, "contract_Acme.docx", artifact.Filename)
	assert.Equal(t, docxContentType, artifact.ContentType)
	assert.Equal(t, []byte("payload"), artifact.Data)
	require.Len(t, artifact.Entries, 1)
}

func TestPackageMultipleItemsZip(t *testing.T) {
	artifact, err := packageOutputs("contract.docx", FormatDOCX, []rendered{
		{clientID: 1, clientName: "Acme", data: []byte("a")},
		{clientID: 2, clientName: "Globex", data: []byte("b")},
	})
	require.NoError(t, err)

	assert.Equal(t, "contract_batch.zip", artifact.Filename)
	assert.Equal(t, zipContentType, artifact.ContentType)
	assert.Equal(t, []byte("a"), zipEntryData(t, artifact.Data, "contract_Acme.docx"))
	assert.Equal(t, []byte("b"), zipEntryData(t, artifact.Data, "contract_Globex.docx"))
}

func TestPackagePDFExtension(t *testing.T) {
	artifact, err := packageOutputs("contract.docx", FormatPDF, []rendered{
		{clientID: 1, clientName: "Acme", data: []byte("%PDF-")},
	})
	require.NoError(t, err)

	assert.Equal(t, "contract_Acme.pdf", artifact.Filename)
	assert.Equal(t, pdfContentType, artifact.ContentType)
}

func TestPackageEmptyStemFallsBack(t *testing.T) {
	artifact, err := packageOutputs(".docx", FormatDOCX, []rendered{
		{clientID: 1, clientName: "Acme", data: []byte("x")},
	})
	require.NoError(t, err)

	assert.Equal(t, "document_Acme.docx", artifact.Filename)
}
