/*
Copyright © 2019 the hysplitplot authors.
This file is part of hysplitplot.

hysplitplot is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

hysplitplot is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with hysplitplot.  If not, see <http://www.gnu.org/licenses/>.
*/

package hysplitplot

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
)

const (
	// Tolerance is the largest round-trip error, in grid units, that is
	// accepted when checking map corners.
	Tolerance = 0.5

	// Contraction is the fraction of the window span by which a corner
	// that fails the round-trip check is moved toward the center.
	Contraction = 0.2

	// PoleLimit is the highest absolute latitude that Lambert and
	// Mercator map windows may reach.
	PoleLimit = 80.0

	// CylEquXSpanFactor multiplies the x span of equidistant cylindrical
	// maps when corners are rounded, to match the legacy plot layout.
	CylEquXSpanFactor = 2.0

	// InitialX and InitialY are the grid coordinates of the map center
	// during the initial estimate.
	InitialX = 500.0
	InitialY = 500.0
)

// MapProjection is a projection fitted to a set of sample points.
type MapProjection struct {
	// Type is the resolved projection. It is never Auto.
	Type ProjectionType

	// Coord converts between (lon, lat) and map coordinates.
	Coord Coordinate

	// AspectRatio is the requested width/height of the map.
	AspectRatio float64

	// Zoom is the fraction of the half-span added as margin on each
	// side of the map.
	Zoom float64

	// Deltas are the (lon, lat) spacings of the source data in degrees.
	Deltas [2]float64

	// Center is the (lon, lat) map center. It is updated by
	// DoInitialEstimates.
	Center geom.Point

	// CornersXY and CornersLonLat are the map window in grid units and
	// in degrees.
	CornersXY     XYCorners
	CornersLonLat LonLatCorners

	// PointCounts is the number of grid units across and up the final
	// map, which is what a renderer sizes its canvas with.
	PointCounts [2]int

	Log     logrus.FieldLogger
	Metrics *Metrics

	tolerance float64
}

// Option configures a MapProjection.
type Option func(*MapProjection)

// WithLogger sets the logger used while fitting.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *MapProjection) { m.Log = l }
}

// WithMetrics sets the metrics updated while fitting.
func WithMetrics(metrics *Metrics) Option {
	return func(m *MapProjection) { m.Metrics = metrics }
}

// DetermineProjection resolves Auto into a projection based on the
// latitude of center: Polar poleward of 55°, Mercator within 25° of the
// equator, and Lambert in between. Other kinds are returned unchanged.
func DetermineProjection(kind ProjectionType, center geom.Point) ProjectionType {
	if kind != Auto {
		return kind
	}
	k := Lambert
	if center.Y > 55 || center.Y < -55 {
		k = Polar
	}
	if center.Y < 25 && center.Y > -25 {
		k = Mercator
	}
	return k
}

func newProjection(kind ProjectionType, zoom float64, center geom.Point, aspect float64, deltas [2]float64) (*MapProjection, error) {
	coord, err := NewCoordinate(kind)
	if err != nil {
		return nil, err
	}
	return &MapProjection{
		Type:        kind,
		Coord:       coord,
		AspectRatio: aspect,
		Zoom:        zoom,
		Deltas:      deltas,
		Center:      center,
		Log:         logrus.StandardLogger(),
		tolerance:   Tolerance,
	}, nil
}

// NewMapProjection selects a projection for settings.Projection and
// center, and makes an initial estimate of the map window from the
// cells of grid that have been hit. A Lambert window that would contain
// a pole is replaced by a polar stereographic one.
func NewMapProjection(settings Settings, center geom.Point, aspect float64, deltas [2]float64, grid *HitGrid, opts ...Option) (*MapProjection, error) {
	kind := DetermineProjection(settings.Projection, center)
	m, err := newProjection(kind, ZoomFraction(settings.ZoomFactor), center, aspect, deltas)
	if err != nil {
		return nil, err
	}
	for _, o := range opts {
		o(m)
	}
	m.Log.WithFields(logrus.Fields{
		"requested": settings.Projection,
		"selected":  kind,
	}).Debug("hysplitplot: map projection")

	m.DoInitialEstimates(grid, center)

	if !m.SanityCheck() {
		m, err = m.properProjection(center)
		if err != nil {
			return nil, err
		}
		m.DoInitialEstimates(grid, center)
	}
	m.Metrics.fitted(m.Type)
	return m, nil
}

// properProjection returns the projection to use in place of m when m
// fails SanityCheck.
func (m *MapProjection) properProjection(center geom.Point) (*MapProjection, error) {
	if m.Type != Lambert {
		return m, nil
	}
	m.Log.WithFields(logrus.Fields{
		"center": center,
	}).Info("hysplitplot: Lambert map would contain a pole; using polar stereographic")
	m.Metrics.polarFallback()

	p, err := newProjection(Polar, m.Zoom, center, m.AspectRatio, m.Deltas)
	if err != nil {
		return nil, err
	}
	p.Log = m.Log
	p.Metrics = m.Metrics
	p.tolerance = m.tolerance
	return p, nil
}

// DoInitialEstimates sets up the coordinate transform around center and
// sets the map window to the smallest rectangle that contains center
// and every hit cell of grid. Center is moved to the middle of the
// window.
func (m *MapProjection) DoInitialEstimates(grid *HitGrid, center geom.Point) {
	m.Coord.Setup(center, InitialX, InitialY, m.Deltas)

	half := grid.Delta * 0.5
	x1, y1 := m.estimateXY(center.X-half, center.Y-half)
	x2, y2 := m.estimateXY(center.X+half, center.Y+half)
	m.Log.WithFields(logrus.Fields{
		"projection": m.Type,
		"center":     center,
		"corners":    XYCorners{X1: x1, X2: x2, Y1: y1, Y2: y2},
	}).Debug("hysplitplot: initial corners")

	grid.HitCells(func(_, _ int, lon, lat float64) {
		x, y := m.estimateXY(lon, lat)
		x1 = math.Min(x1, x)
		y1 = math.Min(y1, y)
		x2 = math.Max(x2, x)
		y2 = math.Max(y2, y)
	})
	m.CornersXY = XYCorners{X1: x1, X2: x2, Y1: y1, Y2: y2}

	lon, lat := m.Coord.LonLat(0.5*(x1+x2), 0.5*(y1+y2))
	m.Center = geom.Point{X: lon, Y: lat}
	m.CornersLonLat = m.lonLatCorners(m.CornersXY)

	m.Log.WithFields(logrus.Fields{
		"center":        m.Center,
		"corners":       m.CornersXY,
		"cornersLonLat": m.CornersLonLat,
	}).Debug("hysplitplot: estimated corners")
}

// estimateXY is Coord.XY, except that a location the transform cannot
// represent, such as a pole on a Mercator map, is moved to PoleLimit.
func (m *MapProjection) estimateXY(lon, lat float64) (x, y float64) {
	x, y = m.Coord.XY(lon, lat)
	if finite(x) && finite(y) {
		return x, y
	}
	return m.Coord.XY(lon, math.Max(-PoleLimit, math.Min(PoleLimit, lat)))
}

// SanityCheck reports whether the projection can represent the current
// window. Lambert windows that contain the pole of the hemisphere of the
// map center fail, as do Lambert maps on which that pole has no finite
// position.
func (m *MapProjection) SanityCheck() bool {
	if m.Type != Lambert {
		return true
	}
	xc, yc := m.Coord.XY(0, sign(90, m.Center.Y))
	c := m.CornersXY
	if !finite(xc) || !finite(yc) || (xc >= c.X1 && xc <= c.X2 && yc >= c.Y1 && yc <= c.Y2) {
		m.Log.WithFields(logrus.Fields{
			"x": xc,
			"y": yc,
		}).Debug("hysplitplot: pole is inside the map")
		return false
	}
	return true
}

// RefineCorners adjusts the map window for the aspect ratio and zoom,
// rounds it to whole grid units, keeps Lambert and Mercator maps away
// from the poles, and finally re-anchors the transform so that the lower
// left corner is at (1, 1). Each adjustment is dropped if the adjusted
// corners do not survive a round trip through the transform.
func (m *MapProjection) RefineCorners() {
	c := m.ValidateCorners(m.CornersXY)

	saved := c
	c = m.chooseCorners(ScalePerAspectRatio(c, m.AspectRatio), saved, "aspect")
	m.Log.WithField("corners", c).Debug("hysplitplot: corners after aspect ratio")

	saved = c
	c = m.chooseCorners(ZoomCorners(c, m.Zoom), saved, "zoom")
	m.Log.WithField("corners", c).Debug("hysplitplot: corners after zoom")

	saved = XYCorners{
		X1: nearestInt(c.X1),
		X2: nearestInt(c.X2),
		Y1: nearestInt(c.Y1),
		Y2: nearestInt(c.Y2),
	}
	c = m.chooseCorners(m.RoundMapCorners(c), saved, "round")
	m.Log.WithField("corners", c).Debug("hysplitplot: corners after rounding")

	ll := m.CalcCornersLonLat(c)
	if m.NeedPoleExclusion(ll) {
		c, ll = m.ExcludePole(c, ll)
		m.Metrics.poleExcluded()
		m.Log.WithFields(logrus.Fields{
			"corners":       c,
			"cornersLonLat": ll,
		}).Debug("hysplitplot: corners after pole exclusion")
	}

	upper := m.Coord.Rescale(geom.Point{X: 1, Y: 1}, ll)
	m.CornersXY = XYCorners{X1: 1, X2: upper.X, Y1: 1, Y2: upper.Y}
	m.CornersLonLat = ll
	m.PointCounts = [2]int{int(nearestInt(upper.X)), int(nearestInt(upper.Y))}

	m.Log.WithFields(logrus.Fields{
		"corners":       m.CornersXY,
		"cornersLonLat": m.CornersLonLat,
		"points":        m.PointCounts,
	}).Debug("hysplitplot: final corners")
}

// roundTrip converts the corners of c to (lon, lat) and back.
func (m *MapProjection) roundTrip(c XYCorners) XYCorners {
	lonl, latb := m.Coord.LonLat(c.X1, c.Y1)
	lonr, latt := m.Coord.LonLat(c.X2, c.Y2)
	x1, y1 := m.Coord.XY(lonl, latb)
	x2, y2 := m.Coord.XY(lonr, latt)
	return XYCorners{X1: x1, X2: x2, Y1: y1, Y2: y2}
}

// ValidateCorners moves each corner of c that does not survive a round
// trip through the transform toward the center of the window.
func (m *MapProjection) ValidateCorners(c XYCorners) XYCorners {
	r := m.roundTrip(c)
	if math.Max(math.Abs(r.X1-c.X1), math.Abs(c.Y1-r.Y1)) >= m.tolerance {
		r.X1 = c.X1 + Contraction*(c.X2-c.X1)
		r.Y1 = c.Y1 + Contraction*(c.Y2-c.Y1)
	}
	if math.Max(math.Abs(r.X2-c.X2), math.Abs(c.Y2-r.Y2)) >= m.tolerance {
		r.X2 = c.X2 - Contraction*(c.X2-c.X1)
		r.Y2 = c.Y2 - Contraction*(c.Y2-c.Y1)
	}
	return r
}

// chooseCorners returns the round-tripped c if it is within tolerance
// of c, and prev otherwise.
func (m *MapProjection) chooseCorners(c, prev XYCorners, step string) XYCorners {
	r := m.roundTrip(c)
	diff := math.Max(
		math.Max(math.Abs(r.X1-c.X1), math.Abs(r.X2-c.X2)),
		math.Max(math.Abs(r.Y1-c.Y1), math.Abs(r.Y2-c.Y2)),
	)
	if diff >= m.tolerance {
		m.Log.WithFields(logrus.Fields{
			"step":    step,
			"corners": c,
			"error":   diff,
		}).Debug("hysplitplot: reverting corner adjustment")
		m.Metrics.rollback(step)
		return prev
	}
	return r
}

// ScalePerAspectRatio expands the shorter side of c about its center so
// that its width/height equals aspect.
func ScalePerAspectRatio(c XYCorners, aspect float64) XYCorners {
	xc := 0.5 * (c.X1 + c.X2)
	yc := 0.5 * (c.Y1 + c.Y2)
	if math.Abs(c.X2-c.X1) <= aspect*math.Abs(c.Y2-c.Y1) {
		delx := 0.5 * (c.Y2 - c.Y1) * aspect
		c.X1 = xc - delx
		c.X2 = xc + delx
	} else {
		dely := 0.5 * (c.X2 - c.X1) / aspect
		c.Y1 = yc - dely
		c.Y2 = yc + dely
	}
	return c
}

// ZoomCorners moves each edge of c outward by zoom times half of the
// span in that direction.
func ZoomCorners(c XYCorners, zoom float64) XYCorners {
	xMargin := sign(zoom*math.Abs(c.X2-c.X1)*0.5, c.X2-c.X1)
	yMargin := sign(zoom*math.Abs(c.Y2-c.Y1)*0.5, c.Y2-c.Y1)
	return XYCorners{
		X1: c.X1 - xMargin,
		X2: c.X2 + xMargin,
		Y1: c.Y1 - yMargin,
		Y2: c.Y2 + yMargin,
	}
}

// RoundMapCorners snaps c to whole grid units. The right edge is placed
// from the rounded height and the aspect ratio, but never to the left of
// the rounded original right edge.
func (m *MapProjection) RoundMapCorners(c XYCorners) XYCorners {
	x2b := nearestInt(c.X2)
	y1 := nearestInt(c.Y1)
	y2 := nearestInt(c.Y2)
	delx := (y2 - y1) * m.AspectRatio
	if m.Type == CylEqu {
		delx *= CylEquXSpanFactor
	}
	x1 := nearestInt(c.X1)
	x2 := x1 + nearestInt(delx)
	if x2 <= x2b {
		x2 = x2b
	}
	return XYCorners{X1: x1, X2: x2, Y1: y1, Y2: y2}
}

func (m *MapProjection) lonLatCorners(c XYCorners) LonLatCorners {
	lonl, latb := m.Coord.LonLat(c.X1, c.Y1)
	lonr, latt := m.Coord.LonLat(c.X2, c.Y2)
	return LonLatCorners{Left: lonl, Right: lonr, Bottom: latb, Top: latt}
}

// CalcCornersLonLat returns the (lon, lat) of the corners of c. A window
// reaching beyond ±90° latitude is logged but not corrected.
func (m *MapProjection) CalcCornersLonLat(c XYCorners) LonLatCorners {
	ll := m.lonLatCorners(c)
	m.Log.WithField("cornersLonLat", ll).Debug("hysplitplot: corner coordinates")
	if ll.Top > 90 || ll.Bottom < -90 {
		m.Log.WithFields(logrus.Fields{
			"projection":    m.Type,
			"cornersLonLat": ll,
		}).Warn("hysplitplot: map projection exceeds limits; increase zoom or change the projection")
		m.Metrics.limitWarning()
	}
	return ll
}

// NeedPoleExclusion reports whether ll reaches beyond PoleLimit for a
// projection that cannot show the poles.
func (m *MapProjection) NeedPoleExclusion(ll LonLatCorners) bool {
	switch m.Type {
	case Lambert, Mercator:
		return ll.Top > PoleLimit || ll.Bottom < -PoleLimit
	default:
		return false
	}
}

// ExcludePole clamps the top and bottom of ll to ±PoleLimit and
// recomputes the map coordinates of the corners that moved.
func (m *MapProjection) ExcludePole(c XYCorners, ll LonLatCorners) (XYCorners, LonLatCorners) {
	if ll.Top > PoleLimit {
		ll.Top = PoleLimit
		c.X2, c.Y2 = m.Coord.XY(ll.Right, ll.Top)
	}
	if ll.Bottom < -PoleLimit {
		ll.Bottom = -PoleLimit
		c.X1, c.Y1 = m.Coord.XY(ll.Left, ll.Bottom)
	}
	return c, ll
}
