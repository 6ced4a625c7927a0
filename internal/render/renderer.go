// Package render draws a recorded step onto a 2D surface: the logical screen,
// static geometry, the ball with its predicted position and velocities, every
// collision with its manifold annotations, and the camera bands.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"stepscope/internal/geom"
	"stepscope/internal/trace"
)

// IdleText is shown when no recording is loaded.
const IdleText = "Drop a physics-steps.js to start"

// Renderer draws frames. It is not safe for concurrent use; give each
// goroutine its own.
type Renderer struct {
	Theme Theme
	faces faceCache
}

func New() *Renderer {
	return &Renderer{Theme: DefaultTheme, faces: faceCache{}}
}

// DrawFrame draws f onto s. The only error is a font that cannot be loaded,
// in which case the geometry is still drawn.
func (r *Renderer) DrawFrame(s Surface, f Frame) error {
	if r.faces == nil {
		r.faces = faceCache{}
	}
	k := f.scale()
	zoom := f.Zoom
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		zoom = 1
	}

	d := &drawer{
		r:    r,
		s:    s,
		th:   r.Theme,
		px:   k * zoom,
		k:    k,
		opts: f.Options,
	}

	s.Push()
	s.Identity()
	s.SetDash()
	s.SetColor(r.Theme.Background.A(OpacityL))
	s.Clear()

	s.Scale(k, k)
	s.Translate(f.OffsetX, f.OffsetY)
	s.Scale(zoom, zoom)

	d.screen()
	if f.Step == nil {
		d.idle()
	} else {
		d.step(f.Step, f.StaticBodies)
	}
	s.Pop()

	if f.Overlay != nil && f.Step != nil {
		d.overlay(f.Overlay)
	}
	return d.err
}

// Rasterize renders f into a w x h image. With supersample > 1 the frame is
// drawn that many times larger and scaled down.
func (r *Renderer) Rasterize(f Frame, w, h, supersample int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", w, h)
	}
	if supersample < 1 {
		supersample = 1
	}

	dc := gg.NewContext(w*supersample, h*supersample)
	f.Scale = f.scale() * float64(supersample)
	err := r.DrawFrame(dc, f)

	img := dc.Image()
	if supersample == 1 {
		return img, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst, err
}

// ExportPNG renders f and writes it to path.
func (r *Renderer) ExportPNG(path string, f Frame, w, h, supersample int) error {
	img, err := r.Rasterize(f, w, h, supersample)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

type drawer struct {
	r    *Renderer
	s    Surface
	th   Theme
	px   float64 // surface pixels per world unit
	k    float64 // surface pixels per view pixel
	opts Options
	err  error
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func vec(v trace.Vec2) string {
	return num(v[0]) + ", " + num(v[1])
}

// lineWidth sets a stroke weight given in world units. Strokes never get
// thinner than one surface pixel.
func (d *drawer) lineWidth(w float64) {
	d.s.SetLineWidth(math.Max(w*d.px, 1))
}

// paint fills and then strokes the path produced by path. A nil colour skips
// that pass.
func (d *drawer) paint(fill, stroke color.Color, path func()) {
	if fill != nil {
		path()
		d.s.SetColor(fill)
		d.s.Fill()
	}
	if stroke != nil {
		path()
		d.s.SetColor(stroke)
		d.lineWidth(strokeWeight)
		d.s.Stroke()
	}
}

func (d *drawer) line(c color.Color, w float64, a, b trace.Vec2) {
	d.s.DrawLine(a[0], a[1], b[0], b[1])
	d.s.SetColor(c)
	d.lineWidth(w)
	d.s.Stroke()
}

func (d *drawer) dot(c color.Color, p trace.Vec2) {
	d.s.DrawCircle(p[0], p[1], 0.5)
	d.s.SetColor(c)
	d.s.Fill()
}

func (d *drawer) circle(fill, stroke color.Color, p trace.Vec2, r float64) {
	d.paint(fill, stroke, func() { d.s.DrawCircle(p[0], p[1], r) })
}

func (d *drawer) arrow(c color.Color, a, b trace.Vec2) {
	d.line(c, strokeWeight, a, b)
	d.dot(c, b)
}

// print draws text at surface pixel coordinates. Multi-line text is laid
// out as a block anchored by (ax, ay).
func (d *drawer) print(text string, x, y, size, ax, ay float64, c color.Color) {
	if size < minTextPixels {
		return
	}
	face, err := d.r.faces.face(size)
	if err != nil {
		if d.err == nil {
			d.err = err
		}
		return
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	lh := size * 1.2
	top := y - ay*lh*float64(len(lines)-1)

	d.s.Push()
	d.s.Identity()
	d.s.SetFontFace(face)
	d.s.SetColor(c)
	for i, l := range lines {
		d.s.DrawStringAnchored(l, x, top+float64(i)*lh, ax, ay)
	}
	d.s.Pop()
}

// label draws a world-space annotation when labels are enabled.
func (d *drawer) label(text string, p trace.Vec2, ax, ay float64, c color.Color) {
	if !d.opts.Labels {
		return
	}
	x, y := d.s.TransformPoint(p[0], p[1])
	d.print(text, x, y, TextS*d.px, ax, ay, c)
}

func (d *drawer) screen() {
	d.s.DrawRectangle(0, 0, 400, 240)
	d.s.SetColor(d.th.Screen.A(OpacityM))
	d.s.Fill()
}

func (d *drawer) idle() {
	x, y := d.s.TransformPoint(200, 120)
	d.print(IdleText, x, y, TextL*d.px, 0.5, 0.5, d.th.Text.A(OpacityL))
}

func (d *drawer) step(st *trace.Step, statics []trace.Body) {
	d.s.Push()
	d.s.Translate(st.CamOffset[0], st.CamOffset[1])

	fill := d.th.StaticBodies.A(OpacityS)
	for _, b := range statics {
		d.body(b, fill, nil)
	}

	d.ball(st.Ball, st.HasCollisions())

	collider := d.th.Collider.A(OpacityM)
	for i, c := range st.Collisions {
		d.body(c.Body, collider, collider)
		if cs, ok := c.Body.Shape.(*trace.Capsule); ok {
			d.flipper(c.Body, cs, st.Ball)
		}
		d.collision(st.Ball, c, i)
	}

	if d.opts.Cam && st.Cam != nil {
		d.cam(st.CamOffset, *st.Cam)
	}
	d.s.Pop()
}

func (d *drawer) ball(b trace.Body, collided bool) {
	r := b.Radius()

	d.label(fmt.Sprintf("pos: %s\nposDelta: %s\nvel: %s\nvelDelta: %s\nvelAng: %s\nvelAngDelta: %s",
		vec(b.Pos), vec(b.PosDelta), vec(b.Vel.Mul(10)), vec(b.VelDelta.Mul(10)),
		num(b.AngularVel), num(b.AngularVelDelta)),
		trace.Vec2{b.Pos[0] + r + 2, b.Pos[1] - r}, 0, 0.5, d.th.Info.A(OpacityL))

	ghost := d.th.Ghost.A(OpacityS)
	g := b.Ghost()
	d.circle(ghost, ghost, g, r)
	d.dot(ghost, g)

	c := d.th.Ball
	if collided {
		c = d.th.BallCollided
	}
	d.circle(c.A(OpacityM), c.A(OpacityM), b.Pos, r)
	d.dot(c.A(OpacityM), b.Pos)

	d.arrow(d.th.Velocity.A(OpacityL), b.Pos, b.Pos.Add(b.Vel.Mul(10)))
	if b.VelDelta != (trace.Vec2{}) {
		d.arrow(d.th.Angular.A(OpacityL), b.Pos, b.Pos.Add(b.VelDelta.Mul(10)))
	}
}

// body draws a collider or static body outline and its origin.
func (d *drawer) body(b trace.Body, fill, stroke color.Color) {
	switch sh := b.Shape.(type) {
	case *trace.Circle:
		d.circle(fill, stroke, sh.P.Add(b.Pos), sh.R)
	case *trace.Polygon:
		for _, poly := range sh.SubPolys {
			if len(poly) == 0 {
				continue
			}
			d.paint(fill, stroke, func() {
				d.s.NewSubPath()
				d.s.MoveTo(poly[0][0], poly[0][1])
				for _, v := range poly[1:] {
					d.s.LineTo(v[0], v[1])
				}
				d.s.ClosePath()
			})
		}
	case *trace.Capsule:
		d.capsule(b, sh, fill, stroke)
	}

	if fill != nil {
		d.dot(fill, b.Pos)
	}
}

func (d *drawer) capsule(b trace.Body, sh *trace.Capsule, fill, stroke color.Color) {
	d.circle(nil, stroke, sh.A, sh.RA)
	d.circle(nil, stroke, sh.B, sh.RB)
	if stroke != nil {
		d.line(stroke, strokeWeight, sh.A, sh.B)
	}

	closest := geom.ClosestPointOnSegment(sh.A, sh.B, b.Pos)
	d.circle(fill, nil, closest.Vec(), geom.Lerp(sh.RA, sh.RB, closest.T))

	if stroke == nil {
		return
	}
	if tangents, ok := geom.OuterTangents(sh.A[0], sh.A[1], sh.RA, sh.B[0], sh.B[1], sh.RB); ok {
		for _, t := range tangents {
			d.line(stroke, strokeWeight, t.A, t.B)
		}
	}
}

// flipper annotates a capsule collider with the point nearest the ball, the
// capsule radius there and the collider's velocity.
func (d *drawer) flipper(b trace.Body, sh *trace.Capsule, ball trace.Body) {
	closest := geom.ClosestPointOnSegment(sh.A, sh.B, ball.Pos)
	origin := geom.ClosestPointOnSegment(sh.A, sh.B, b.Pos)
	dist := origin.Vec().Sub(closest.Vec()).Len()

	p := closest.Vec()
	d.label("dist: "+num(dist), trace.Vec2{p[0] + 10, p[1]}, 0, 0.5, d.th.Info.A(OpacityL))

	d.circle(d.th.Collider.A(OpacityXS), nil, p, geom.Lerp(sh.RA, sh.RB, closest.T))

	if b.Vel.Len() > 0 {
		d.arrow(d.th.FlipperVel.A(OpacityM), p, p.Add(b.Vel.Mul(10)))
	}
}

func (d *drawer) collision(ball trace.Body, c trace.Collision, i int) {
	start := c.Manifold.Contact
	end := c.Manifold.End()

	d.dot(d.th.Contact01.A(OpacityM), start)
	d.dot(d.th.Contact02.A(OpacityM), end)
	d.line(d.th.Depth.A(OpacityM), strokeWeight, start, end)

	const tanWidth = 10
	tan := geom.Normalize(geom.Perp(c.Manifold.Normal))
	a := start.Sub(tan.Mul(tanWidth / 2))
	d.line(d.th.Tangent.A(OpacityS), strokeWeight, a, a.Add(tan.Mul(tanWidth)))

	info := d.th.Info.A(OpacityL)
	bv := c.Body.Vel
	d.label(fmt.Sprintf("col: %d\ndepth: %s\nvel: %s\nvelM: %s\np: %s",
		i, num(c.Manifold.Depth), vec(bv), num(bv.Len()), vec(c.Body.Pos)),
		trace.Vec2{start[0] - 20, start[1] + float64(i)*50}, 1, 0.5, info)

	if d.opts.ExtraInfo {
		dyn := trace.ContactDynamics(ball, c)
		d.label(fmt.Sprintf("ra: %s\nrb: %s\nva: %s\nvb: %s\nrv: %s\nrvL: %s",
			vec(dyn.RA), vec(dyn.RB), vec(dyn.VA), vec(dyn.VB), vec(dyn.RV), num(dyn.RVLen2)),
			trace.Vec2{start[0] - 20, start[1] + 23 + float64(i)*50}, 1, 0.5, info)
	}
}

func (d *drawer) cam(offset trace.Vec2, cam trace.CamData) {
	const (
		halfX     = 200.0
		halfY     = 120.0
		crossHair = 5.0
	)
	faint := d.th.Cam.A(OpacityXS)

	size := cam.Limits.Max.Sub(cam.Limits.Min)
	d.s.DrawRectangle(cam.Limits.Min[0], cam.Limits.Min[1], size[0], size[1])
	d.s.SetColor(d.th.Cam.A(OpacityM))
	d.lineWidth(strokeWeight)
	d.s.Stroke()

	band := func(b trace.Bounds) {
		top := halfY - b.Min[1]*halfY - offset[1]
		bottom := halfY + b.Max[1]*halfY - offset[1]
		d.line(faint, 1, trace.Vec2{0, top}, trace.Vec2{400, top})
		d.line(faint, 1, trace.Vec2{0, bottom}, trace.Vec2{400, bottom})
	}

	d.s.SetDash(5*d.px, 5*d.px)
	band(cam.Soft)
	d.s.SetDash()
	band(cam.Hard)

	cx, cy := halfX-offset[0], halfY-offset[1]
	d.line(faint, 1, trace.Vec2{cx - crossHair, cy}, trace.Vec2{cx + crossHair, cy})
	d.line(faint, 1, trace.Vec2{cx, cy - crossHair}, trace.Vec2{cx, cy + crossHair})

	d.label("cam_vel: "+num(cam.DragVel), trace.Vec2{cx, cy - crossHair}, 0, 0, d.th.Info.A(OpacityL))
}

// overlay draws the info bar along the bottom edge and the timeline above it,
// in surface pixels.
func (d *drawer) overlay(o *Overlay) {
	s := d.s
	k := d.k
	w := float64(s.Width())
	h := float64(s.Height())

	s.Push()
	s.Identity()

	infoY := h - InfoHeight*k
	s.DrawRectangle(0, infoY, w, InfoHeight*k)
	s.SetColor(d.th.InfoBg.A(OpacityS))
	s.Fill()

	fg := d.th.InfoFg.A(OpacityL)
	d.print(o.Name, infoPadding*k, infoY+infoPadding*k, TextM*k, 0, 0.5, fg)
	d.print(o.Counters, w-infoPadding*k, infoY+infoPadding*k, TextM*k, 1, 0.5, fg)

	ty := infoY - TimelineHeight*k
	s.DrawRectangle(0, ty, w, TimelineHeight*k)
	s.SetColor(d.th.TimelineBg.A(OpacityS))
	s.Fill()

	if n := float64(len(o.Timeline)); n > 0 {
		padX, padY, gap := timelinePaddingX*k, timelinePaddingY*k, timelineSpacing*k
		bw := (w - padX*2 - n*gap) / n
		bh := TimelineHeight*k - padY*2
		for i, bar := range o.Timeline {
			s.DrawRectangle(padX+float64(i)*(bw+gap), ty+padY, math.Max(bw, 0), bh)
			s.SetColor(d.th.Bar(bar.Current, bar.Severity).A(OpacityL))
			s.Fill()
		}
	}

	s.Pop()
}
