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
	"testing"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/mat"
)

// trajectory returns n points on a straight line from start to end.
func trajectory(start, end geom.Point, n int) []geom.Point {
	pts := make([]geom.Point, n)
	for k := range pts {
		f := float64(k) / float64(n-1)
		pts[k] = geom.Point{
			X: start.X + f*(end.X-start.X),
			Y: start.Y + f*(end.Y-start.Y),
		}
	}
	return pts
}

// checkInWindow checks that every point projects into the final map
// window.
func checkInWindow(t *testing.T, m *MapProjection, pts []geom.Point) {
	t.Helper()
	const eps = 1e-6
	for _, p := range pts {
		x, y := m.Coord.XY(p.X, p.Y)
		if x < m.CornersXY.X1-eps || x > m.CornersXY.X2+eps || y < m.CornersXY.Y1-eps || y > m.CornersXY.Y2+eps {
			t.Errorf("%v projects to (%g, %g), outside of %v", p, x, y, m.CornersXY)
		}
	}
}

func TestDetermineMapLimitsNoPoints(t *testing.T) {
	for name, data := range map[string]*PlotData{
		"empty":        {},
		"sources only": {Sources: []geom.Point{{X: -125, Y: 45}}},
		"zero conc": {Grids: []ConcGrid{{
			Conc: mat.NewDense(2, 2, nil),
			Lons: []float64{-125, -124},
			Lats: []float64{45, 46},
		}}},
	} {
		if _, err := DetermineMapLimits(data, 2, nil); err != ErrNoPoints {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestDetermineMapLimitsRefine(t *testing.T) {
	data := &PlotData{
		Sources: []geom.Point{missingLoc},
		Points:  []geom.Point{{X: -125.3, Y: 45.2}, {X: -125.6, Y: 45.7}},
	}
	g, err := DetermineMapLimits(data, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.State() != GridRefined {
		t.Fatalf("state = %v", g.State())
	}
	if g.Delta != fineDelta || g.Size != [2]int{10, 10} {
		t.Errorf("delta %g, size %v", g.Delta, g.Size)
	}
	if !approxEqual(g.Corner.X, 234, 1e-12) || !approxEqual(g.Corner.Y, 45, 1e-12) {
		t.Errorf("corner = %v", g.Corner)
	}
	if g.HitCount != 2 {
		t.Errorf("hit count = %d", g.HitCount)
	}

	g, err = DetermineMapLimits(data, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.State() != GridCoarse || g.Delta != coarseDelta {
		t.Errorf("one pass: state %v, delta %g", g.State(), g.Delta)
	}
}

func TestDetermineMapLimitsLargePlume(t *testing.T) {
	data := &PlotData{
		Sources: []geom.Point{{X: -125, Y: 45}},
		Points:  trajectory(geom.Point{X: -125, Y: 45}, geom.Point{X: -110, Y: 38}, 30),
	}
	g, err := DetermineMapLimits(data, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.State() != GridCoarse || g.Delta != coarseDelta {
		t.Errorf("state %v, delta %g", g.State(), g.Delta)
	}
	if g.HitCount != 31 {
		t.Errorf("hit count = %d", g.HitCount)
	}
}

func TestDetermineMapLimitsConc(t *testing.T) {
	data := &PlotData{Grids: []ConcGrid{{
		Conc: mat.NewDense(2, 3, []float64{
			0, 1, 0,
			2, 0, 3,
		}),
		Lons: []float64{-125, -120, -115},
		Lats: []float64{40, 45},
	}}}
	g, err := DetermineMapLimits(data, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.HitCount != 3 {
		t.Errorf("hit count = %d", g.HitCount)
	}
	for _, c := range [][2]int{{240, 130}, {235, 135}, {245, 135}} {
		if n := g.Count(c[0], c[1]); n != 1 {
			t.Errorf("count at %v = %d", c, n)
		}
	}
}

func TestFitMapLambert(t *testing.T) {
	src := geom.Point{X: -125, Y: 45}
	pts := trajectory(src, geom.Point{X: -112, Y: 38}, 40)
	m, err := FitMap(DefaultSettings(), &PlotData{Sources: []geom.Point{src}, Points: pts})
	if err != nil {
		t.Fatal(err)
	}
	if m.Type != Lambert {
		t.Errorf("projection = %v", m.Type)
	}
	if m.CornersXY.X1 != 1 || m.CornersXY.Y1 != 1 {
		t.Errorf("lower left = (%g, %g)", m.CornersXY.X1, m.CornersXY.Y1)
	}
	if m.PointCounts[0] != int(nearestInt(m.CornersXY.X2)) || m.PointCounts[1] != int(nearestInt(m.CornersXY.Y2)) {
		t.Errorf("point counts %v for corners %v", m.PointCounts, m.CornersXY)
	}
	if m.Deltas != [2]float64{1, 1} {
		t.Errorf("deltas = %v", m.Deltas)
	}
	aspect := (m.CornersXY.X2 - m.CornersXY.X1) / (m.CornersXY.Y2 - m.CornersXY.Y1)
	if aspect < 1.2 || aspect > 1.4 {
		t.Errorf("aspect ratio = %g", aspect)
	}
	checkInWindow(t, m, append(pts, src))
}

func TestFitMapSmallPlume(t *testing.T) {
	src := geom.Point{X: -125.5, Y: 45.5}
	pts := trajectory(src, geom.Point{X: -125.1, Y: 45.9}, 10)
	m, err := FitMap(DefaultSettings(), &PlotData{Sources: []geom.Point{src}, Points: pts})
	if err != nil {
		t.Fatal(err)
	}
	if m.Deltas != [2]float64{fineDelta, fineDelta} {
		t.Errorf("deltas = %v", m.Deltas)
	}
	checkInWindow(t, m, pts)
}

func TestFitMapAuto(t *testing.T) {
	for _, test := range []struct {
		start, end geom.Point
		want       ProjectionType
	}{
		{geom.Point{X: -80, Y: 5}, geom.Point{X: -70, Y: 12}, Mercator},
		{geom.Point{X: 20, Y: 65}, geom.Point{X: 40, Y: 70}, Polar},
		{geom.Point{X: 150, Y: -65}, geom.Point{X: 170, Y: -72}, Polar},
		{geom.Point{X: 10, Y: 40}, geom.Point{X: 20, Y: 50}, Lambert},
	} {
		pts := trajectory(test.start, test.end, 20)
		m, err := FitMap(DefaultSettings(), &PlotData{Sources: []geom.Point{test.start}, Points: pts})
		if err != nil {
			t.Fatal(err)
		}
		if m.Type != test.want {
			t.Errorf("%v: projection = %v; want %v", test.start, m.Type, test.want)
		}
		checkInWindow(t, m, pts)
		if m.Type == Mercator && (m.CornersLonLat.Top > PoleLimit || m.CornersLonLat.Bottom < -PoleLimit) {
			t.Errorf("%v: corners %v", test.start, m.CornersLonLat)
		}
	}
}

func TestFitMapPolarFallback(t *testing.T) {
	var pts []geom.Point
	for lon := -180.0; lon < 180; lon += 10 {
		pts = append(pts, geom.Point{X: lon, Y: 75})
	}
	s := DefaultSettings()
	s.Projection = Lambert
	s.Center = geom.Point{X: 0, Y: 75}
	m, err := FitMap(s, &PlotData{Points: pts})
	if err != nil {
		t.Fatal(err)
	}
	if m.Type != Polar {
		t.Errorf("projection = %v", m.Type)
	}
}

func TestFitMapZoom(t *testing.T) {
	src := geom.Point{X: -125, Y: 45}
	data := &PlotData{
		Sources: []geom.Point{src},
		Points:  trajectory(src, geom.Point{X: -115, Y: 40}, 20),
	}
	s := DefaultSettings()
	s.ZoomFactor = 0
	wide, err := FitMap(s, data)
	if err != nil {
		t.Fatal(err)
	}
	s.ZoomFactor = 100
	tight, err := FitMap(s, data)
	if err != nil {
		t.Fatal(err)
	}
	if tight.PointCounts[0] >= wide.PointCounts[0] || tight.PointCounts[1] >= wide.PointCounts[1] {
		t.Errorf("zoom 100 gives %v points, zoom 0 gives %v", tight.PointCounts, wide.PointCounts)
	}
}

func TestFitMapRing(t *testing.T) {
	src := geom.Point{X: -125, Y: 45}
	s := DefaultSettings()
	s.Ring = true
	s.RingNumber = 4
	s.RingDistance = 100
	m, err := FitMap(s, &PlotData{
		Sources: []geom.Point{src},
		Points:  trajectory(src, geom.Point{X: -122, Y: 46}, 10),
	})
	if err != nil {
		t.Fatal(err)
	}
	// Four 100 km rings span four 1° cells, half above and half below
	// the center.
	checkInWindow(t, m, []geom.Point{
		src,
		{X: src.X, Y: src.Y - 2},
		{X: src.X, Y: src.Y + 2},
	})
}

// Points at or next to a pole do not break a Mercator window.
func TestFitMapMercatorPole(t *testing.T) {
	for _, pts := range [][]geom.Point{
		{{X: -125, Y: 10}, {X: -120, Y: 30}, {X: -110, Y: -89.5}},
		{{X: -125, Y: 60}, {X: -120, Y: 90}},
	} {
		s := DefaultSettings()
		s.Projection = Mercator
		m, err := FitMap(s, &PlotData{Points: pts})
		if err != nil {
			t.Fatal(err)
		}
		c, ll := m.CornersXY, m.CornersLonLat
		for _, v := range []float64{c.X1, c.X2, c.Y1, c.Y2, ll.Left, ll.Right, ll.Bottom, ll.Top} {
			if !finite(v) {
				t.Fatalf("%v: corners %v, %v", pts, c, ll)
			}
		}
		if ll.Top > PoleLimit || ll.Bottom < -PoleLimit {
			t.Errorf("%v: lon/lat corners %v", pts, ll)
		}
		if m.PointCounts[0] < 2 || m.PointCounts[1] < 2 {
			t.Errorf("%v: point counts %v", pts, m.PointCounts)
		}
	}
}

func TestFitMapMissingSource(t *testing.T) {
	src := geom.Point{X: -125, Y: 45}
	s := DefaultSettings()
	s.Projection = Lambert
	m, err := FitMap(s, &PlotData{
		Sources: []geom.Point{missingLoc, src},
		Points:  trajectory(src, geom.Point{X: -115, Y: 40}, 20),
	})
	if err != nil {
		t.Fatal(err)
	}
	c := m.Coord.(*ConformalCoordinate)
	if c.RefLon != src.X || c.TangentLat != src.Y {
		t.Errorf("map centered on (%g, %g); want %v", c.RefLon, c.TangentLat, src)
	}
}

func TestFitMapNoPoints(t *testing.T) {
	_, err := FitMap(DefaultSettings(), &PlotData{Sources: []geom.Point{{X: -125, Y: 45}}})
	if err != ErrNoPoints {
		t.Errorf("err = %v", err)
	}
}
