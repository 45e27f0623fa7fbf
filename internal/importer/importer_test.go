package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportFileUnsupportedExtension(t *testing.T) {
	res := ImportFile("parts.stp", 0.3, false)
	assert.NotEmpty(t, res.Errors)
	assert.Empty(t, res.Polygons)
}

func TestImportFileSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bin.svg")
	require.NoError(t, os.WriteFile(path,
		[]byte(`<svg><rect x="0" y="0" width="10" height="10"/></svg>`), 0644))

	res := ImportFile(path, 0.3, false)
	require.Empty(t, res.Errors)
	assert.Len(t, res.Polygons, 1)
}

func TestImportFileSVGWithMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.svg")
	svg := `<svg>
		<line x1="0" y1="0" x2="1" y2="0"/>
		<line x1="1" y1="0" x2="0" y2="0"/>
	</svg>`
	require.NoError(t, os.WriteFile(path, []byte(svg), 0644))

	res := ImportFile(path, 0.3, true)
	require.Empty(t, res.Errors)
	assert.Len(t, res.Polygons, 1)
}

func TestImportFileMissing(t *testing.T) {
	res := ImportFile(filepath.Join(t.TempDir(), "missing.svg"), 0.3, false)
	assert.NotEmpty(t, res.Errors)
}

func TestImportDXFMissing(t *testing.T) {
	res := ImportDXF(filepath.Join(t.TempDir(), "missing.dxf"), 0.3)
	assert.NotEmpty(t, res.Errors)
}
