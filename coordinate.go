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
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// Coordinate converts between (lon, lat) in degrees and map (x, y) in
// grid units. Setup must be called before XY or LonLat.
type Coordinate interface {
	// Kind returns the projection family.
	Kind() ProjectionType

	// Setup configures the transform so that center is at grid
	// point (x0, y0), with a grid spacing derived from the source data
	// spacing deltas.
	Setup(center geom.Point, x0, y0 float64, deltas [2]float64)

	// InitParams recomputes the transform parameters with the reference
	// point at (x0, y0).
	InitParams(x0, y0 float64)

	// XY returns the map coordinates of a longitude and latitude.
	XY(lon, lat float64) (x, y float64)

	// LonLat returns the longitude in [-180, 180) and the latitude of
	// a map point.
	LonLat(x, y float64) (lon, lat float64)

	// Rescale re-anchors the transform so that the lower-left corner of
	// corners is at xy, and returns the map coordinates of the
	// upper-right corner.
	Rescale(xy geom.Point, corners LonLatCorners) geom.Point

	// Transformers returns the forward (lon/lat to x/y) and inverse
	// transforms.
	Transformers() (forward, inverse proj.Transformer, err error)

	coordinate()
}

// NewCoordinate returns an unconfigured coordinate transform of the
// given kind.
func NewCoordinate(kind ProjectionType) (Coordinate, error) {
	switch kind {
	case Lambert, Polar, Mercator:
		return &ConformalCoordinate{kind: kind}, nil
	case CylEqu:
		return &CylindricalCoordinate{}, nil
	default:
		return nil, fmt.Errorf("%v: %v", ErrUnknownProjection, kind)
	}
}

// ConformalCoordinate is a Lambert conformal, polar stereographic or
// Mercator transform. The variant only affects the choice of tangent
// latitude and reference points.
type ConformalCoordinate struct {
	// Params holds the current transform parameters.
	Params ConformalParameters

	// Grid is the grid spacing in km.
	Grid float64

	// RefLon is the reference longitude.
	RefLon float64

	// TangentLat is the latitude at which the projection surface is
	// tangent to the sphere.
	TangentLat float64

	// RefPoint is the (lon, lat) placed at the reference grid point.
	RefPoint geom.Point

	// ScalePoint is the (lon, lat) at which the grid spacing is exact.
	ScalePoint geom.Point

	kind       ProjectionType
	configured bool
}

func (*ConformalCoordinate) coordinate() {}

// Kind returns Lambert, Polar or Mercator.
func (c *ConformalCoordinate) Kind() ProjectionType { return c.kind }

// Setup implements Coordinate.
func (c *ConformalCoordinate) Setup(center geom.Point, x0, y0 float64, deltas [2]float64) {
	c.Grid = gridSpacing(deltas)
	c.RefLon = center.X
	c.setTangentLat(center)
	c.InitParams(x0, y0)
}

func (c *ConformalCoordinate) setTangentLat(center geom.Point) {
	switch c.kind {
	case Lambert:
		c.TangentLat = center.Y
		c.RefPoint = center
		c.ScalePoint = center
	case Polar:
		c.TangentLat = sign(90, center.Y)
		c.RefPoint = geom.Point{X: 0, Y: c.TangentLat}
		c.ScalePoint = geom.Point{X: c.RefLon, Y: center.Y}
	case Mercator:
		c.TangentLat = 0
		c.RefPoint = center
		c.ScalePoint = geom.Point{X: c.RefLon, Y: 0}
	default:
		panic(fmt.Errorf("%v: %v", ErrUnknownProjection, c.kind))
	}
}

// InitParams implements Coordinate.
func (c *ConformalCoordinate) InitParams(x0, y0 float64) {
	c.Params = newConformalParameters(c.TangentLat, c.RefLon)
	c.Params.anchor(x0, y0, c.RefPoint.Y, c.RefPoint.X, c.ScalePoint.Y, c.ScalePoint.X, c.Grid, 0)
	c.configured = true
}

func (c *ConformalCoordinate) mustBeConfigured() {
	if !c.configured {
		panic(ErrNotConfigured)
	}
}

// XY implements Coordinate.
func (c *ConformalCoordinate) XY(lon, lat float64) (x, y float64) {
	c.mustBeConfigured()
	return c.Params.xy(lat, lon)
}

// LonLat implements Coordinate.
func (c *ConformalCoordinate) LonLat(x, y float64) (lon, lat float64) {
	c.mustBeConfigured()
	lat, lon = c.Params.latLon(x, y)
	return lon, lat
}

// Rescale implements Coordinate.
func (c *ConformalCoordinate) Rescale(xy geom.Point, corners LonLatCorners) geom.Point {
	c.mustBeConfigured()
	c.Params = newConformalParameters(c.TangentLat, c.RefLon)
	c.Params.anchor(xy.X, xy.Y, corners.Bottom, corners.Left, c.ScalePoint.Y, c.ScalePoint.X, c.Grid, 0)
	x, y := c.XY(corners.Right, corners.Top)
	return geom.Point{X: x, Y: y}
}

// Transformers implements Coordinate.
func (c *ConformalCoordinate) Transformers() (forward, inverse proj.Transformer, err error) {
	if !c.configured {
		return nil, nil, ErrNotConfigured
	}
	return transformers(c)
}

// CylindricalCoordinate is an equidistant cylindrical transform.
type CylindricalCoordinate struct {
	// Grid is the grid spacing in km.
	Grid float64

	// RefLon is the reference longitude.
	RefLon float64

	// TangentLat is the latitude of true scale.
	TangentLat float64

	// RefPoint is the (lon, lat) placed at the reference grid point.
	RefPoint geom.Point

	// XYPerDeg is the number of grid units per degree of latitude.
	XYPerDeg float64

	cosLat     float64
	rLon, rLat float64 // reference point with rLon in [0, 360]
	xr, yr     float64
	configured bool
}

func (*CylindricalCoordinate) coordinate() {}

// Kind returns CylEqu.
func (*CylindricalCoordinate) Kind() ProjectionType { return CylEqu }

// Setup implements Coordinate.
func (c *CylindricalCoordinate) Setup(center geom.Point, x0, y0 float64, deltas [2]float64) {
	c.Grid = gridSpacing(deltas)
	c.RefLon = center.X
	c.TangentLat = 0
	c.RefPoint = center
	c.InitParams(x0, y0)
}

// InitParams implements Coordinate.
func (c *CylindricalCoordinate) InitParams(x0, y0 float64) {
	c.set(x0, y0, c.RefPoint)
}

func (c *CylindricalCoordinate) set(x0, y0 float64, ref geom.Point) {
	c.rLon = normalizeLon360(ref.X)
	c.rLat = ref.Y
	c.xr, c.yr = x0, y0
	c.cosLat = math.Cos(c.TangentLat * radPerDeg)
	c.XYPerDeg = EarthRadius * radPerDeg / c.Grid
	c.configured = true
}

func (c *CylindricalCoordinate) mustBeConfigured() {
	if !c.configured {
		panic(ErrNotConfigured)
	}
}

// XY implements Coordinate. Longitude differences are taken in the
// [0, 360] system so that windows crossing the antimeridian stay
// contiguous.
func (c *CylindricalCoordinate) XY(lon, lat float64) (x, y float64) {
	c.mustBeConfigured()
	x = c.XYPerDeg*(normalizeLon360(lon)-c.rLon)*c.cosLat + c.xr
	y = c.XYPerDeg*(lat-c.rLat) + c.yr
	return
}

// LonLat implements Coordinate.
func (c *CylindricalCoordinate) LonLat(x, y float64) (lon, lat float64) {
	c.mustBeConfigured()
	lat = c.rLat + (y-c.yr)/c.XYPerDeg
	lon = c.rLon + (x-c.xr)/(c.cosLat*c.XYPerDeg)
	return spanf(lon, -180, 180), spanf(lat, -90, 90)
}

// Rescale implements Coordinate.
func (c *CylindricalCoordinate) Rescale(xy geom.Point, corners LonLatCorners) geom.Point {
	c.mustBeConfigured()
	c.set(xy.X, xy.Y, geom.Point{X: corners.Left, Y: corners.Bottom})
	x, y := c.XY(corners.Right, corners.Top)
	return geom.Point{X: x, Y: y}
}

// Transformers implements Coordinate.
func (c *CylindricalCoordinate) Transformers() (forward, inverse proj.Transformer, err error) {
	if !c.configured {
		return nil, nil, ErrNotConfigured
	}
	return transformers(c)
}

// gridSpacing returns the map grid spacing in km for source data with
// the given (lon, lat) spacing in degrees.
func gridSpacing(deltas [2]float64) float64 {
	return 0.5 * math.Min(deltas[0], deltas[1]) * 100
}
