package importer

import (
	"fmt"
	"math"

	"github.com/piwi3910/polynest/internal/model"
)

// subpath is one flattened run of path data.
type subpath struct {
	points []model.Point2D
	closed bool
}

// pathScanner tokenizes SVG path data into command letters and numbers.
type pathScanner struct {
	data string
	pos  int
}

func (s *pathScanner) skipSeparators() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r' {
			s.pos++
			continue
		}
		break
	}
}

func (s *pathScanner) peekCommand() (byte, bool) {
	s.skipSeparators()
	if s.pos >= len(s.data) {
		return 0, false
	}
	c := s.data[s.pos]
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		s.pos++
		return c, true
	}
	return 0, false
}

func (s *pathScanner) done() bool {
	s.skipSeparators()
	return s.pos >= len(s.data)
}

func (s *pathScanner) number() (float64, error) {
	s.skipSeparators()
	start := s.pos
	if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
		s.pos++
	}
	digits := false
	for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
		s.pos++
		digits = true
	}
	if s.pos < len(s.data) && s.data[s.pos] == '.' {
		s.pos++
		for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
			s.pos++
			digits = true
		}
	}
	if !digits {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	if s.pos < len(s.data) && (s.data[s.pos] == 'e' || s.data[s.pos] == 'E') {
		mark := s.pos
		s.pos++
		if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
			s.pos++
		}
		expDigits := false
		for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
			s.pos++
			expDigits = true
		}
		if !expDigits {
			s.pos = mark
		}
	}
	var v float64
	if _, err := fmt.Sscanf(s.data[start:s.pos], "%g", &v); err != nil {
		return 0, fmt.Errorf("bad number %q: %w", s.data[start:s.pos], err)
	}
	return v, nil
}

func (s *pathScanner) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := s.number()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// flattenPathData parses SVG path data and flattens every curve to line
// segments within the tolerance. One subpath is emitted per M command; Z
// marks it closed.
func flattenPathData(d string, tol float64) ([]subpath, error) {
	s := &pathScanner{data: d}
	var result []subpath
	var cur subpath

	var pos, start, prevCubicCtrl, prevQuadCtrl model.Point2D
	var lastCmd byte

	flush := func() {
		if len(cur.points) > 0 {
			result = append(result, cur)
		}
		cur = subpath{}
	}
	moveTo := func(p model.Point2D) {
		flush()
		cur.points = append(cur.points, p)
		pos, start = p, p
	}
	lineTo := func(p model.Point2D) {
		cur.points = append(cur.points, p)
		pos = p
	}

	for !s.done() {
		cmd, ok := s.peekCommand()
		if !ok {
			// Implicit command repetition: a bare coordinate repeats the
			// previous command, with M/m degrading to L/l.
			switch lastCmd {
			case 'M':
				cmd = 'L'
			case 'm':
				cmd = 'l'
			case 0:
				return nil, fmt.Errorf("path data does not start with a command")
			case 'Z', 'z':
				return nil, fmt.Errorf("coordinates after close command")
			default:
				cmd = lastCmd
			}
		}
		rel := cmd >= 'a' && cmd <= 'z'
		abs := func(x, y float64) model.Point2D {
			if rel {
				return model.Point2D{X: pos.X + x, Y: pos.Y + y}
			}
			return model.Point2D{X: x, Y: y}
		}

		switch cmd {
		case 'M', 'm':
			n, err := s.numbers(2)
			if err != nil {
				return nil, err
			}
			moveTo(abs(n[0], n[1]))
		case 'L', 'l':
			n, err := s.numbers(2)
			if err != nil {
				return nil, err
			}
			lineTo(abs(n[0], n[1]))
		case 'H', 'h':
			n, err := s.numbers(1)
			if err != nil {
				return nil, err
			}
			if rel {
				lineTo(model.Point2D{X: pos.X + n[0], Y: pos.Y})
			} else {
				lineTo(model.Point2D{X: n[0], Y: pos.Y})
			}
		case 'V', 'v':
			n, err := s.numbers(1)
			if err != nil {
				return nil, err
			}
			if rel {
				lineTo(model.Point2D{X: pos.X, Y: pos.Y + n[0]})
			} else {
				lineTo(model.Point2D{X: pos.X, Y: n[0]})
			}
		case 'C', 'c':
			n, err := s.numbers(6)
			if err != nil {
				return nil, err
			}
			c1 := abs(n[0], n[1])
			c2 := abs(n[2], n[3])
			end := abs(n[4], n[5])
			flattenCubic(&cur.points, pos, c1, c2, end, tol, 0)
			prevCubicCtrl = c2
			pos = end
		case 'S', 's':
			n, err := s.numbers(4)
			if err != nil {
				return nil, err
			}
			c1 := pos
			if lastCmd == 'C' || lastCmd == 'c' || lastCmd == 'S' || lastCmd == 's' {
				c1 = model.Point2D{X: 2*pos.X - prevCubicCtrl.X, Y: 2*pos.Y - prevCubicCtrl.Y}
			}
			c2 := abs(n[0], n[1])
			end := abs(n[2], n[3])
			flattenCubic(&cur.points, pos, c1, c2, end, tol, 0)
			prevCubicCtrl = c2
			pos = end
		case 'Q', 'q':
			n, err := s.numbers(4)
			if err != nil {
				return nil, err
			}
			c := abs(n[0], n[1])
			end := abs(n[2], n[3])
			flattenQuadratic(&cur.points, pos, c, end, tol)
			prevQuadCtrl = c
			pos = end
		case 'T', 't':
			n, err := s.numbers(2)
			if err != nil {
				return nil, err
			}
			c := pos
			if lastCmd == 'Q' || lastCmd == 'q' || lastCmd == 'T' || lastCmd == 't' {
				c = model.Point2D{X: 2*pos.X - prevQuadCtrl.X, Y: 2*pos.Y - prevQuadCtrl.Y}
			}
			end := abs(n[0], n[1])
			flattenQuadratic(&cur.points, pos, c, end, tol)
			prevQuadCtrl = c
			pos = end
		case 'A', 'a':
			n, err := s.numbers(7)
			if err != nil {
				return nil, err
			}
			end := abs(n[5], n[6])
			flattenArc(&cur.points, pos, end, n[0], n[1], n[2], n[3] != 0, n[4] != 0, tol)
			pos = end
		case 'Z', 'z':
			cur.closed = true
			flush()
			pos = start
		default:
			return nil, fmt.Errorf("unsupported path command %q", string(cmd))
		}
		lastCmd = cmd
	}
	flush()
	return result, nil
}

// flattenCubic appends line segments approximating a cubic Bezier by
// recursive subdivision; the curve is split until the control points lie
// within the tolerance of the chord.
func flattenCubic(out *[]model.Point2D, p0, p1, p2, p3 model.Point2D, tol float64, depth int) {
	if depth > 24 || cubicFlat(p0, p1, p2, p3, tol) {
		*out = append(*out, p3)
		return
	}
	mid := func(a, b model.Point2D) model.Point2D {
		return model.Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	}
	p01 := mid(p0, p1)
	p12 := mid(p1, p2)
	p23 := mid(p2, p3)
	p012 := mid(p01, p12)
	p123 := mid(p12, p23)
	m := mid(p012, p123)
	flattenCubic(out, p0, p01, p012, m, tol, depth+1)
	flattenCubic(out, m, p123, p23, p3, tol, depth+1)
}

func cubicFlat(p0, p1, p2, p3 model.Point2D, tol float64) bool {
	d1 := distToSegment(p1, p0, p3)
	d2 := distToSegment(p2, p0, p3)
	return math.Max(d1, d2) <= tol
}

func distToSegment(p, a, b model.Point2D) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-18 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// flattenQuadratic elevates the quadratic to a cubic and reuses the cubic
// flattener.
func flattenQuadratic(out *[]model.Point2D, p0, c, p1 model.Point2D, tol float64) {
	c1 := model.Point2D{X: p0.X + 2*(c.X-p0.X)/3, Y: p0.Y + 2*(c.Y-p0.Y)/3}
	c2 := model.Point2D{X: p1.X + 2*(c.X-p1.X)/3, Y: p1.Y + 2*(c.Y-p1.Y)/3}
	flattenCubic(out, p0, c1, c2, p1, tol, 0)
}

// flattenArc converts an SVG elliptical arc from endpoint to center
// parameterization and samples it within the tolerance.
func flattenArc(out *[]model.Point2D, from, to model.Point2D, rx, ry, xRotDeg float64, largeArc, sweep bool, tol float64) {
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx < 1e-12 || ry < 1e-12 {
		*out = append(*out, to)
		return
	}

	sinPhi, cosPhi := math.Sincos(xRotDeg * math.Pi / 180)

	// Step 1: transform to the ellipse-aligned frame.
	dx2 := (from.X - to.X) / 2
	dy2 := (from.Y - to.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// Scale radii up when the endpoints cannot be connected by the ellipse.
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	// Step 2: center in the aligned frame.
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	co := 0.0
	if den > 0 && num > 0 {
		co = math.Sqrt(num / den)
	}
	if largeArc == sweep {
		co = -co
	}
	cxp := co * rx * y1p / ry
	cyp := -co * ry * x1p / rx

	// Step 3: back to the user frame.
	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	angle := func(ux, uy, vx, vy float64) float64 {
		dot := ux*vx + uy*vy
		length := math.Hypot(ux, uy) * math.Hypot(vx, vy)
		if length == 0 {
			return 0
		}
		a := math.Acos(math.Max(-1, math.Min(1, dot/length)))
		if ux*vy-uy*vx < 0 {
			a = -a
		}
		return a
	}
	theta1 := angle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	dTheta := angle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && dTheta > 0 {
		dTheta -= 2 * math.Pi
	} else if sweep && dTheta < 0 {
		dTheta += 2 * math.Pi
	}

	steps := arcSteps(math.Max(rx, ry), math.Abs(dTheta), tol)
	for i := 1; i <= steps; i++ {
		t := theta1 + dTheta*float64(i)/float64(steps)
		sinT, cosT := math.Sincos(t)
		x := cx + rx*cosT*cosPhi - ry*sinT*sinPhi
		y := cy + rx*cosT*sinPhi + ry*sinT*cosPhi
		*out = append(*out, model.Point2D{X: x, Y: y})
	}
}
