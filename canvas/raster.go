package canvas

import (
	"image"
	"math"

	"github.com/golang/freetype/raster"
	"golang.org/x/image/math/fixed"
)

// coverage rasterizes device-space geometry into an 8-bit mask and records
// the rectangle that received any coverage.
type coverage struct {
	ras   *raster.Rasterizer
	mask  *image.Alpha
	dirty image.Rectangle
}

func newCoverage(w, h int) *coverage {
	return &coverage{
		ras:  raster.NewRasterizer(w, h),
		mask: image.NewAlpha(image.Rect(0, 0, w, h)),
	}
}

func fix(p Point) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(p.X * 64)),
		Y: fixed.Int26_6(math.Round(p.Y * 64)),
	}
}

// paint runs the rasterizer into the mask.
func (c *coverage) paint() image.Rectangle {
	src := raster.NewAlphaSrcPainter(c.mask)
	b := c.mask.Rect
	c.ras.Rasterize(raster.PainterFunc(func(ss []raster.Span, done bool) {
		for _, s := range ss {
			x0, x1 := max(s.X0, b.Min.X), min(s.X1, b.Max.X)
			if x0 >= x1 || s.Y < b.Min.Y || s.Y >= b.Max.Y || s.Alpha == 0 {
				continue
			}
			c.dirty = c.dirty.Union(image.Rect(x0, s.Y, x1, s.Y+1))
		}
		src.Paint(ss, done)
	}))
	c.ras.Clear()
	return c.dirty
}

// reset clears the mask pixels touched by the last paint.
func (c *coverage) reset() {
	for y := c.dirty.Min.Y; y < c.dirty.Max.Y; y++ {
		i := c.mask.PixOffset(c.dirty.Min.X, y)
		clear(c.mask.Pix[i : i+c.dirty.Dx()])
	}
	c.dirty = image.Rectangle{}
}

// fill rasterizes the interior of p under m. Every subpath is closed.
func (c *coverage) fill(p *Path, m Matrix, rule FillRule) image.Rectangle {
	r := c.ras
	r.UseNonZeroWinding = rule == FillRuleNonZero

	var start, cur fixed.Point26_6
	open := false
	closeSub := func() {
		if open && cur != start {
			r.Add1(start)
		}
		open = false
		cur = start
	}
	begin := func() {
		if !open {
			r.Start(start)
			open = true
		}
	}
	for _, elem := range p.Elements() {
		switch e := elem.(type) {
		case MoveTo:
			closeSub()
			start = fix(m.TransformPoint(e.Point))
			cur = start
			r.Start(start)
			open = true
		case LineTo:
			begin()
			cur = fix(m.TransformPoint(e.Point))
			r.Add1(cur)
		case QuadTo:
			begin()
			cur = fix(m.TransformPoint(e.Point))
			r.Add2(fix(m.TransformPoint(e.Control)), cur)
		case CubicTo:
			begin()
			cur = fix(m.TransformPoint(e.Point))
			r.Add3(fix(m.TransformPoint(e.Control1)), fix(m.TransformPoint(e.Control2)), cur)
		case Close:
			closeSub()
		}
	}
	closeSub()
	return c.paint()
}

// strokeSub accumulates one subpath in the encoding the freetype stroker
// consumes.
type strokeSub struct {
	q        raster.Path
	start    fixed.Point26_6
	cur      fixed.Point26_6
	firstEnd int
}

func (s *strokeSub) begin(p fixed.Point26_6) {
	s.q = s.q[:0]
	s.q.Start(p)
	s.start, s.cur = p, p
	s.firstEnd = 0
}

func (s *strokeSub) segment() {
	if s.firstEnd == 0 {
		s.firstEnd = len(s.q)
	}
}

func (s *strokeSub) lineTo(p fixed.Point26_6) {
	if p == s.cur {
		return
	}
	s.q.Add1(p)
	s.cur = p
	s.segment()
}

func (s *strokeSub) quadTo(b, p fixed.Point26_6) {
	if b == s.cur && p == s.cur {
		return
	}
	s.q.Add2(b, p)
	s.cur = p
	s.segment()
}

// closePath joins back to the start and re-emits the first segment so the
// seam gets a join instead of two caps.
func (s *strokeSub) closePath() {
	if s.firstEnd == 0 {
		return
	}
	s.lineTo(s.start)
	s.q = append(s.q, s.q[4:s.firstEnd]...)
}

// stroke rasterizes the outline of p under m.
func (c *coverage) stroke(p *Path, m Matrix, st Style) image.Rectangle {
	r := c.ras
	r.UseNonZeroWinding = true
	width := fixed.Int26_6(math.Round(st.StrokeWidth * m.MaxScale() * 64))
	if width <= 0 {
		return image.Rectangle{}
	}

	var sub strokeSub
	var devStart, devCur Point
	active := false
	flush := func(closed bool) {
		if !active {
			return
		}
		cr := capper(st.LineCap)
		if closed {
			sub.closePath()
			cr = raster.ButtCapper
		}
		if sub.firstEnd != 0 {
			r.AddStroke(sub.q, width, cr, joiner(st.LineJoin))
		}
		active = false
	}
	begin := func() {
		if !active {
			sub.begin(fix(devStart))
			devCur = devStart
			active = true
		}
	}
	for _, elem := range p.Elements() {
		switch e := elem.(type) {
		case MoveTo:
			flush(false)
			devStart = m.TransformPoint(e.Point)
			begin()
		case LineTo:
			begin()
			devCur = m.TransformPoint(e.Point)
			sub.lineTo(fix(devCur))
		case QuadTo:
			begin()
			devCur = m.TransformPoint(e.Point)
			sub.quadTo(fix(m.TransformPoint(e.Control)), fix(devCur))
		case CubicTo:
			begin()
			p0 := devCur
			p1 := m.TransformPoint(e.Control1)
			p2 := m.TransformPoint(e.Control2)
			p3 := m.TransformPoint(e.Point)
			// The stroker has no cubic support, so cubics become lines.
			n := cubicSteps(p0, p1, p2, p3)
			for i := 1; i <= n; i++ {
				sub.lineTo(fix(cubicAt(p0, p1, p2, p3, float64(i)/float64(n))))
			}
			devCur = p3
		case Close:
			flush(true)
			devCur = devStart
		}
	}
	flush(false)
	return c.paint()
}

// cubicSteps picks a segment count that keeps flattening error well under a
// pixel.
func cubicSteps(p0, p1, p2, p3 Point) int {
	l := dist(p0, p1) + dist(p1, p2) + dist(p2, p3)
	return min(max(int(math.Ceil(math.Sqrt(l)*2)), 4), 256)
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func capper(c LineCap) raster.Capper {
	switch c {
	case LineCapRound:
		return raster.RoundCapper
	case LineCapSquare:
		return raster.SquareCapper
	default:
		return raster.ButtCapper
	}
}

func joiner(j LineJoin) raster.Joiner {
	if j == LineJoinBevel {
		return raster.BevelJoiner
	}
	return raster.RoundJoiner
}
