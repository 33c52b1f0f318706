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
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

func TestProj4(t *testing.T) {
	for _, test := range []struct {
		kind   ProjectionType
		center geom.Point
		want   string
	}{
		{Lambert, geom.Point{X: -125, Y: 45}, "+proj=lcc +lat_1=45 +lat_2=45 +lat_0=45 +lon_0=-125 +x_0=1000 +y_0=1000 "},
		{Polar, geom.Point{X: -125, Y: 85}, "+proj=stere +lat_0=90 +lat_ts=90 +lon_0=-125 +k_0=1 +x_0=0 +y_0=0 "},
		{Polar, geom.Point{X: 100, Y: -70}, "+proj=stere +lat_0=-90 +lat_ts=-90 +lon_0=100 "},
		{Mercator, geom.Point{X: -125, Y: 5}, "+proj=merc +lat_ts=0 +lon_0=-125 +x_0=1000 +y_0=1000 "},
		{CylEqu, geom.Point{X: -125, Y: 5}, "+proj=cea +lon_0=-125 +lat_ts=0 +x_0=0 +y_0=0 "},
	} {
		m, err := newProjection(test.kind, 0.5, test.center, 1.3, [2]float64{1, 1})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.Proj4(); err != ErrNotConfigured {
			t.Errorf("%v: unconfigured error = %v", test.kind, err)
		}
		m.Coord.Setup(test.center, InitialX, InitialY, m.Deltas)
		have, err := m.Proj4()
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(have, test.want) {
			t.Errorf("%v: have %q, want prefix %q", test.kind, have, test.want)
		}
		if !strings.HasSuffix(have, "+a=6371200 +b=6371200 +units=m +no_defs") {
			t.Errorf("%v: %q is not on the sphere", test.kind, have)
		}
	}
}

func TestSpatialReferenceLambert(t *testing.T) {
	m := lambertTestProjection(t)
	sr, err := m.SpatialReference()
	if err != nil {
		t.Fatal(err)
	}
	ll, err := proj.Parse("+proj=longlat +a=6371200 +b=6371200 +no_defs")
	if err != nil {
		t.Fatal(err)
	}
	trans, err := ll.NewTransform(sr)
	if err != nil {
		t.Fatal(err)
	}

	x, y, err := trans(-125, 45)
	if err != nil {
		t.Fatal(err)
	}
	if different(x, falseOrigin, 1e-6) || different(y, falseOrigin, 1e-6) {
		t.Errorf("reference point maps to (%g, %g)", x, y)
	}

	// Both are the same conformal projection, so distances differ only
	// by the grid spacing.
	const metersPerUnit = 50000.0
	pts := []geom.Point{{X: -130, Y: 40}, {X: -118, Y: 49}, {X: -125, Y: 30}}
	for i := 1; i < len(pts); i++ {
		x0, y0, err := trans(pts[0].X, pts[0].Y)
		if err != nil {
			t.Fatal(err)
		}
		x1, y1, err := trans(pts[i].X, pts[i].Y)
		if err != nil {
			t.Fatal(err)
		}
		gx0, gy0 := m.Coord.XY(pts[0].X, pts[0].Y)
		gx1, gy1 := m.Coord.XY(pts[i].X, pts[i].Y)
		meters := math.Hypot(x1-x0, y1-y0)
		units := math.Hypot(gx1-gx0, gy1-gy0)
		if !approxEqual(meters/units, metersPerUnit, 1e-6) {
			t.Errorf("%v to %v: %g m per grid unit", pts[0], pts[i], meters/units)
		}
	}
}

func TestSpatialReferenceNotConfigured(t *testing.T) {
	m, err := newProjection(Mercator, 0.5, geom.Point{}, 1.3, [2]float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.SpatialReference(); err != ErrNotConfigured {
		t.Errorf("err = %v", err)
	}
}
