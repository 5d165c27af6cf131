package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepRemovesOnlyExpiredOutputs(t *testing.T) {
	base := t.TempDir()
	outputDir := filepath.Join(base, "outputs", "abc-123")
	require.NoError(t, os.MkdirAll(outputDir, 0o755))

	oldFile := filepath.Join(outputDir, "contract_Acme.docx")
	freshFile := filepath.Join(outputDir, "contract_Globex.docx")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(freshFile, []byte("fresh"), 0o644))

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, stale, stale))

	sweeper := NewOutputSweeper(base, 24*time.Hour, zerolog.Nop())
	sweeper.sweep()

	_, err := os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err), "expired file should be removed")
	_, err = os.Stat(freshFile)
	assert.NoError(t, err, "fresh file should survive")
}

func TestSweepMissingDirIsNoop(t *testing.T) {
	sweeper := NewOutputSweeper(filepath.Join(t.TempDir(), "nope"), time.Hour, zerolog.Nop())
	sweeper.sweep()
}
