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

	"gonum.org/v1/gonum/floats"
)

// Reference values below were computed in single precision, so
// comparisons use a relative tolerance of 1e-5.
const refTol = 1.0e-5

func approxEqual(have, want, rel float64) bool {
	return floats.EqualWithinAbsOrRel(have, want, 1.0e-6, rel)
}

func TestNewConformalParameters(t *testing.T) {
	p := newConformalParameters(45, -125)
	for _, test := range []struct {
		name       string
		have, want float64
		tol        float64
	}{
		{"Gamma", p.Gamma, 0.707106769, refTol},
		{"RefLon", p.RefLon, -125, refTol},
		{"OriginX", p.OriginX, 0, refTol},
		{"OriginY", p.OriginY, 0, refTol},
		{"RotCos", p.RotCos, 1, refTol},
		{"RotSin", p.RotSin, 0, refTol},
		{"KmPerUnit", p.KmPerUnit, 6371.20020, refTol},
		{"NorthPoleRadius", p.NorthPoleRadius, 1.41248202, refTol},
		{"SouthPoleRadius", p.SouthPoleRadius, -1153.58179, 1.3e-3},
	} {
		if !approxEqual(test.have, test.want, test.tol) {
			t.Errorf("%s = %g; want %g", test.name, test.have, test.want)
		}
	}
}

func TestConformalParametersAnchor(t *testing.T) {
	p := newConformalParameters(45, -125)
	p.anchor(500, 500, 45, -125, 45, -125, 50, 0)
	for _, test := range []struct {
		name       string
		have, want float64
	}{
		{"Gamma", p.Gamma, 0.707106769},
		{"RefLon", p.RefLon, -125},
		{"OriginX", p.OriginX, 500},
		{"OriginY", p.OriginY, 389.786743},
		{"RotCos", p.RotCos, 1},
		{"RotSin", p.RotSin, 0},
		{"KmPerUnit", p.KmPerUnit, 37.9159317},
		{"NorthPoleRadius", p.NorthPoleRadius, 1.41248202},
	} {
		if !approxEqual(test.have, test.want, refTol) {
			t.Errorf("%s = %g; want %g", test.name, test.have, test.want)
		}
	}
}

func TestConformalParametersGridSize(t *testing.T) {
	p := newConformalParameters(45, -125)
	p.KmPerUnit = 1
	if have := p.gridSize(45); !approxEqual(have, 1.31870687, refTol) {
		t.Errorf("gridSize(45) = %g", have)
	}

	polar := newConformalParameters(90, 0)
	if have := polar.gridSize(90); have != 2*polar.KmPerUnit {
		t.Errorf("north pole grid size = %g", have)
	}
	south := newConformalParameters(-90, 0)
	if have := south.gridSize(-90); have != 2*south.KmPerUnit {
		t.Errorf("south pole grid size = %g", have)
	}
}

func lambertTestParams() ConformalParameters {
	p := newConformalParameters(45, -125)
	p.anchor(500, 500, 45, -125, 45, -125, 50, 0)
	return p
}

func TestConformalParametersXY(t *testing.T) {
	p := lambertTestParams()
	x, y := p.xy(44.5, -125.5)
	if !approxEqual(x, 499.206848, refTol) || !approxEqual(y, 498.890442, refTol) {
		t.Errorf("xy = (%g, %g)", x, y)
	}
}

func TestConformalParametersLatLon(t *testing.T) {
	p := lambertTestParams()
	lat, lon := p.latLon(499.993134, 500.007507)
	if !approxEqual(lat, 45.0033798, refTol) || !approxEqual(lon, -125.004364, refTol) {
		t.Errorf("latLon = (%g, %g)", lat, lon)
	}
}

func TestConformalParametersNatural(t *testing.T) {
	p := lambertTestParams()

	xi, eta := p.natural(90, 0)
	if xi != 0 || !approxEqual(eta, 1.41421354, refTol) {
		t.Errorf("natural(90, 0) = (%g, %g)", xi, eta)
	}

	xi, eta = p.natural(56, -125)
	if xi != 0 || !approxEqual(eta, 0.802434325, refTol) {
		t.Errorf("natural(56, -125) = (%g, %g)", xi, eta)
	}
}

func TestConformalParametersFromNatural(t *testing.T) {
	p := lambertTestParams()
	lat, lon := p.fromNatural(-0.190484017, 0.509445071)
	if !approxEqual(lat, 32.5308914, refTol) || !approxEqual(lon, -141.813660, refTol) {
		t.Errorf("fromNatural = (%g, %g)", lat, lon)
	}
}

func TestConformalParametersMercatorSeries(t *testing.T) {
	// With gamma = 0 both directions use the series expansions.
	p := newConformalParameters(0, 10)
	p.anchor(0, 0, 0, 10, 0, 10, 50, 0)
	for _, ll := range [][2]float64{{0, 10}, {30, 40}, {-60, -20}, {75, 100}} {
		x, y := p.xy(ll[0], ll[1])
		lat, lon := p.latLon(x, y)
		if !approxEqual(lat, ll[0], 1e-9) || !approxEqual(lon, ll[1], 1e-9) {
			t.Errorf("(%g, %g) -> (%g, %g) -> (%g, %g)", ll[0], ll[1], x, y, lat, lon)
		}
	}
}
