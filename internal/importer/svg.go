package importer

import (
	"encoding/xml"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/polynest/internal/model"
)

// transform is a 2D affine matrix in SVG order [a, b, c, d, e, f].
type transform [6]float64

func identity() transform {
	return transform{1, 0, 0, 1, 0, 0}
}

func (t transform) multiply(o transform) transform {
	return transform{
		t[0]*o[0] + t[2]*o[1],
		t[1]*o[0] + t[3]*o[1],
		t[0]*o[2] + t[2]*o[3],
		t[1]*o[2] + t[3]*o[3],
		t[0]*o[4] + t[2]*o[5] + t[4],
		t[1]*o[4] + t[3]*o[5] + t[5],
	}
}

func (t transform) apply(x, y float64) (float64, float64) {
	return x*t[0] + y*t[2] + t[4], x*t[1] + y*t[3] + t[5]
}

// parseTransform reads an SVG transform attribute: translate, scale, rotate
// (with optional center) and matrix. Unknown operations are ignored.
func parseTransform(value string) transform {
	result := identity()
	for _, token := range strings.Split(value, ")") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		open := strings.IndexByte(token, '(')
		if open < 0 {
			continue
		}
		name := strings.TrimSpace(token[:open])
		nums := parseNumberList(token[open+1:])

		switch name {
		case "translate":
			tx, ty := 0.0, 0.0
			if len(nums) > 0 {
				tx = nums[0]
			}
			if len(nums) > 1 {
				ty = nums[1]
			}
			result = result.multiply(transform{1, 0, 0, 1, tx, ty})
		case "scale":
			sx, sy := 1.0, 1.0
			if len(nums) > 0 {
				sx = nums[0]
				sy = sx
			}
			if len(nums) > 1 {
				sy = nums[1]
			}
			result = result.multiply(transform{sx, 0, 0, sy, 0, 0})
		case "rotate":
			if len(nums) == 0 {
				continue
			}
			sin, cos := math.Sincos(nums[0] * math.Pi / 180)
			rotation := transform{cos, sin, -sin, cos, 0, 0}
			if len(nums) >= 3 {
				pre := transform{1, 0, 0, 1, nums[1], nums[2]}
				post := transform{1, 0, 0, 1, -nums[1], -nums[2]}
				result = result.multiply(pre).multiply(rotation).multiply(post)
			} else {
				result = result.multiply(rotation)
			}
		case "matrix":
			if len(nums) >= 6 {
				result = result.multiply(transform{nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]})
			}
		}
	}
	return result
}

// parseNumberList splits whitespace- or comma-separated numbers.
func parseNumberList(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			nums = append(nums, v)
		}
	}
	return nums
}

// svgNode mirrors the element tree; attributes and children are collected
// generically so nested groups inherit transforms naturally.
type svgNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []svgNode  `xml:",any"`
}

func (n svgNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n svgNode) floatAttr(name string, def float64) float64 {
	if v, ok := n.attr(name); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// ImportSVG reads polygons from an SVG file, flattening curved path segments
// at the given tolerance.
func ImportSVG(path string, tol float64) ImportResult {
	result := ImportResult{}
	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open SVG file: %v", err))
		return result
	}
	return ImportSVGData(data, tol)
}

// ImportSVGData parses SVG bytes; see ImportSVG.
func ImportSVGData(data []byte, tol float64) ImportResult {
	result := ImportResult{}
	var root svgNode
	if err := xml.Unmarshal(data, &root); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot parse SVG: %v", err))
		return result
	}

	var polys []model.Polygon
	extractNode(root, identity(), tol, &polys, &result)
	if len(polys) == 0 {
		result.Errors = append(result.Errors, "no shapes found in SVG file")
		return result
	}
	for i := range polys {
		polys[i].ID = i
	}
	result.Polygons = polys
	return result
}

func extractNode(node svgNode, tf transform, tol float64, out *[]model.Polygon, result *ImportResult) {
	if v, ok := node.attr("transform"); ok {
		tf = tf.multiply(parseTransform(v))
	}

	mapPoints := func(pts []model.Point2D) []model.Point2D {
		mapped := make([]model.Point2D, len(pts))
		for i, p := range pts {
			x, y := tf.apply(p.X, p.Y)
			mapped[i] = model.Point2D{X: x, Y: y}
		}
		return mapped
	}

	switch node.XMLName.Local {
	case "path":
		if d, ok := node.attr("d"); ok {
			subpaths, err := flattenPathData(d, tol)
			if err != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("skipped malformed path data: %v", err))
				break
			}
			for _, sp := range subpaths {
				*out = append(*out, model.Polygon{Points: mapPoints(sp.points), Closed: sp.closed})
			}
		}
	case "polygon", "polyline":
		if v, ok := node.attr("points"); ok {
			nums := parseNumberList(v)
			var pts []model.Point2D
			for i := 0; i+1 < len(nums); i += 2 {
				pts = append(pts, model.Point2D{X: nums[i], Y: nums[i+1]})
			}
			if len(pts) > 0 {
				*out = append(*out, model.Polygon{
					Points: mapPoints(pts),
					Closed: node.XMLName.Local == "polygon",
				})
			}
		}
	case "rect":
		x := node.floatAttr("x", 0)
		y := node.floatAttr("y", 0)
		w := node.floatAttr("width", 0)
		h := node.floatAttr("height", 0)
		pts := []model.Point2D{
			{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
		}
		*out = append(*out, model.Polygon{Points: mapPoints(pts), Closed: true})
	case "circle":
		cx := node.floatAttr("cx", 0)
		cy := node.floatAttr("cy", 0)
		r := node.floatAttr("r", 0)
		*out = append(*out, model.Polygon{
			Points: mapPoints(ellipsePoints(cx, cy, r, r, tol)),
			Closed: true,
		})
	case "ellipse":
		cx := node.floatAttr("cx", 0)
		cy := node.floatAttr("cy", 0)
		rx := node.floatAttr("rx", 0)
		ry := node.floatAttr("ry", 0)
		*out = append(*out, model.Polygon{
			Points: mapPoints(ellipsePoints(cx, cy, rx, ry, tol)),
			Closed: true,
		})
	case "line":
		pts := []model.Point2D{
			{X: node.floatAttr("x1", 0), Y: node.floatAttr("y1", 0)},
			{X: node.floatAttr("x2", 0), Y: node.floatAttr("y2", 0)},
		}
		*out = append(*out, model.Polygon{Points: mapPoints(pts), Closed: false})
	}

	for _, child := range node.Children {
		extractNode(child, tf, tol, out, result)
	}
}

// ellipsePoints samples an ellipse finely enough that the chord deviation
// stays below the tolerance on the major radius.
func ellipsePoints(cx, cy, rx, ry, tol float64) []model.Point2D {
	n := arcSteps(math.Max(rx, ry), 2*math.Pi, tol)
	pts := make([]model.Point2D, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = model.Point2D{X: cx + rx*math.Cos(theta), Y: cy + ry*math.Sin(theta)}
	}
	return pts
}
