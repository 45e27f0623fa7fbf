// Package importer parses SVG and DXF files into polygon lists for the
// nesting engine. Curves are flattened to polylines at a caller-specified
// tolerance; loose segments are chained into closed outlines where their
// endpoints coincide.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/polynest/internal/model"
)

// ImportResult holds the polygons read from one file along with any
// per-entity problems. Errors mean nothing usable was produced; warnings
// report skipped or degenerate entities.
type ImportResult struct {
	Polygons []model.Polygon
	Errors   []string
	Warnings []string
}

// ImportFile reads polygons from an SVG or DXF file, dispatching on the file
// extension. When merge is set, duplicate edges shared by several entities
// are collapsed before the polygons are returned.
func ImportFile(path string, tol float64, merge bool) ImportResult {
	var result ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		result = ImportSVG(path, tol)
	case ".dxf":
		result = ImportDXF(path, tol)
	default:
		result.Errors = append(result.Errors,
			fmt.Sprintf("unsupported file type %q", filepath.Ext(path)))
		return result
	}

	if merge && len(result.Polygons) > 0 {
		result.Polygons = MergeLines(result.Polygons)
	}
	return result
}
