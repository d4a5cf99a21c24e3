package tondo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDF_Export(t *testing.T) {
	p := newTestPainter(t, 5)
	paintTestScene(t, p)

	path := filepath.Join(t.TempDir(), "scene.pdf")
	require.NoError(t, p.ExportPDF(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(raw) > 1024, "suspiciously small pdf: %d bytes", len(raw))
	assert.Equal(t, "%PDF-", string(raw[:5]))
}

func TestPDF_ExportBadPath(t *testing.T) {
	p := newTestPainter(t, 5)

	err := p.ExportPDF(filepath.Join(t.TempDir(), "no", "such", "dir", "x.pdf"))
	assert.Error(t, err)
}
