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

import "math"

const (
	// EarthRadius is the radius of the earth in km.
	EarthRadius = 6371.2

	radPerDeg = math.Pi / 180
	degPerRad = 180 / math.Pi

	// almostOne is the value of |sin(lat)| above which a point is
	// treated as being at the pole.
	almostOne = 0.99999
)

// ConformalParameters define an oblique conformal map of the sphere onto
// a plane. The same parameters describe polar stereographic (Gamma = ±1),
// Lambert conformal (0 < |Gamma| < 1) and Mercator (Gamma = 0) maps.
type ConformalParameters struct {
	// Gamma is the sine of the tangent latitude.
	Gamma float64

	// RefLon is the reference longitude in (-180, 180].
	RefLon float64

	// OriginX and OriginY are the grid coordinates of the origin of
	// the natural (xi, eta) system.
	OriginX, OriginY float64

	// RotCos and RotSin are the cosine and sine of the rotation from
	// (xi, eta) to (x, y).
	RotCos, RotSin float64

	// KmPerUnit is the grid size in km at the equator.
	KmPerUnit float64

	// NorthPoleRadius and SouthPoleRadius are the radial coordinates of
	// points 1° from the north and south poles.
	NorthPoleRadius, SouthPoleRadius float64
}

// newConformalParameters returns parameters for a map tangent at tngLat
// with reference longitude refLon, unrotated and with its origin at
// (0, 0).
func newConformalParameters(tngLat, refLon float64) ConformalParameters {
	p := ConformalParameters{
		Gamma:     math.Sin(tngLat * radPerDeg),
		RefLon:    spanf(refLon, -180, 180),
		RotCos:    1,
		KmPerUnit: EarthRadius,
	}
	_, eta := p.natural(89, refLon)
	p.NorthPoleRadius = 2*eta - p.Gamma*eta*eta
	_, eta = p.natural(-89, refLon)
	p.SouthPoleRadius = 2*eta - p.Gamma*eta*eta
	return p
}

// anchor places (lat1, lon1) at grid point (x1, y1), with a grid size of
// gridSize km at (latg, long) and the given orientation in degrees.
func (p *ConformalParameters) anchor(x1, y1, lat1, lon1, latg, long, gridSize, orient float64) {
	p.OriginX = 0
	p.OriginY = 0
	turn := radPerDeg * (orient - p.Gamma*spanf(long-p.RefLon, -180, 180))
	p.RotCos = math.Cos(turn)
	p.RotSin = -math.Sin(turn)
	p.KmPerUnit = 1
	p.KmPerUnit = gridSize / p.gridSize(latg)
	x1a, y1a := p.xy(lat1, lon1)
	p.OriginX += x1 - x1a
	p.OriginY += y1 - y1a
}

// gridSize returns the size in km of a grid unit at latitude lat.
func (p *ConformalParameters) gridSize(lat float64) float64 {
	var ymerc float64
	switch {
	case lat > 89.995:
		if p.Gamma > 0.9999 {
			return 2 * p.KmPerUnit
		}
		efact := math.Cos(radPerDeg * lat)
		if efact <= 0 {
			return 0
		}
		ymerc = -math.Log(efact / (1 + math.Sin(radPerDeg*lat)))
	case lat < -89.995:
		if p.Gamma < -0.9999 {
			return 2 * p.KmPerUnit
		}
		efact := math.Cos(radPerDeg * lat)
		if efact <= 0 {
			return 0
		}
		ymerc = math.Log(efact / (1 - math.Sin(radPerDeg*lat)))
	default:
		slat := math.Sin(radPerDeg * lat)
		ymerc = math.Log((1+slat)/(1-slat)) * 0.5
	}
	return p.KmPerUnit * math.Cos(radPerDeg*lat) * math.Exp(p.Gamma*ymerc)
}

// xy converts a latitude and longitude to grid coordinates.
func (p *ConformalParameters) xy(lat, lon float64) (x, y float64) {
	xi, eta := p.natural(lat, lon)
	k := EarthRadius / p.KmPerUnit
	x = p.OriginX + k*(xi*p.RotCos+eta*p.RotSin)
	y = p.OriginY + k*(eta*p.RotCos-xi*p.RotSin)
	return
}

// latLon converts grid coordinates to a latitude and a longitude in
// [-180, 180).
func (p *ConformalParameters) latLon(x, y float64) (lat, lon float64) {
	k := p.KmPerUnit / EarthRadius
	xi0 := (x - p.OriginX) * k
	eta0 := (y - p.OriginY) * k
	xi := xi0*p.RotCos - eta0*p.RotSin
	eta := eta0*p.RotCos + xi0*p.RotSin
	lat, lon = p.fromNatural(xi, eta)
	lon = spanf(lon, -180, 180)
	return
}

// natural converts a latitude and longitude to the natural (xi, eta)
// coordinates of the map, in units of the earth radius.
func (p *ConformalParameters) natural(lat, lon float64) (xi, eta float64) {
	gamma := p.Gamma
	dlong := spanf(lon-p.RefLon, -180, 180) * radPerDeg
	gdlong := gamma * dlong
	var sndgam, csdgam float64
	if math.Abs(gdlong) < 0.01 {
		// Series expansion to avoid cancellation for small gamma*dlong.
		gdlong *= gdlong
		sndgam = dlong * (1 - gdlong/6*(1-gdlong/20*(1-gdlong/42)))
		csdgam = dlong * dlong * 0.5 * (1 - gdlong/12*(1-gdlong/30*(1-gdlong/56)))
	} else {
		sndgam = math.Sin(gdlong) / gamma
		csdgam = (1 - math.Cos(gdlong)) / (gamma * gamma)
	}
	slat := math.Sin(radPerDeg * lat)
	if slat >= almostOne || slat <= -almostOne {
		return 0, 1 / gamma
	}
	mercy := 0.5 * math.Log((1+slat)/(1-slat))
	gmercy := gamma * mercy
	var rhog1 float64
	if math.Abs(gmercy) < 0.001 {
		rhog1 = mercy * (1 - 0.5*gmercy*(1-gmercy/3*(1-gmercy/4)))
	} else {
		rhog1 = (1 - math.Exp(-gmercy)) / gamma
	}
	eta = rhog1 + (1-gamma*rhog1)*gamma*csdgam
	xi = (1 - gamma*rhog1) * sndgam
	return
}

// fromNatural converts natural (xi, eta) coordinates to a latitude and
// an unnormalized longitude.
func (p *ConformalParameters) fromNatural(xi, eta float64) (lat, lon float64) {
	gamma := p.Gamma
	cgeta := 1 - gamma*eta
	gxi := gamma * xi

	// Equivalent Mercator coordinate.
	arg2 := eta + (eta*cgeta - gxi*xi)
	arg1 := gamma * arg2
	if arg1 >= 1 {
		// The distance to the pole is zero or imaginary.
		lat = 90
		if gamma < 0 {
			lat = -90
		}
		return lat, 90 + lat
	}
	var ymerc float64
	if math.Abs(arg1) < 0.01 {
		// Series for small or zero gamma.
		temp := math.Pow(arg1/(2-arg1), 2)
		ymerc = arg2 / (2 - arg1) * (1 + temp*(1./3+temp*(1./5+temp*(1./7))))
	} else {
		ymerc = -math.Log(1-arg1) / (2 * gamma)
	}
	temp := math.Exp(-math.Abs(ymerc))
	lat = sign(math.Atan2((1-temp)*(1+temp), 2*temp), ymerc)

	var along float64
	if math.Abs(gxi) < 0.01*cgeta {
		temp = math.Pow(gxi/cgeta, 2)
		along = xi / cgeta * (1 - temp*(1./3-temp*(1./5-temp*(1./7))))
	} else {
		along = math.Atan2(gxi, cgeta) / gamma
	}
	lon = p.RefLon + degPerRad*along
	lat *= degPerRad
	return
}
