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

	"github.com/ctessum/geom"
)

// XYCorners is a map window in grid units. X1 and Y1 are the left and
// bottom edges.
type XYCorners struct {
	X1, X2, Y1, Y2 float64
}

// Bounds returns the window as a bounding box.
func (c XYCorners) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: c.X1, Y: c.Y1},
		Max: geom.Point{X: c.X2, Y: c.Y2},
	}
}

// Polygon returns the window outline.
func (c XYCorners) Polygon() geom.Polygon {
	return boundsPolygon(c.Bounds())
}

// Width returns X2 - X1.
func (c XYCorners) Width() float64 { return c.X2 - c.X1 }

// Height returns Y2 - Y1.
func (c XYCorners) Height() float64 { return c.Y2 - c.Y1 }

func (c XYCorners) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", c.X1, c.X2, c.Y1, c.Y2)
}

// LonLatCorners is a map window in degrees: the longitudes of the left
// and right edges and the latitudes of the bottom and top edges.
type LonLatCorners struct {
	Left, Right, Bottom, Top float64
}

// Bounds returns the window as a (lon, lat) box. A window that crosses
// the antimeridian has Left > Right, and the box is returned as given.
func (c LonLatCorners) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: c.Left, Y: c.Bottom},
		Max: geom.Point{X: c.Right, Y: c.Top},
	}
}

// Polygon returns the window outline in (lon, lat).
func (c LonLatCorners) Polygon() geom.Polygon {
	return boundsPolygon(c.Bounds())
}

func (c LonLatCorners) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", c.Left, c.Right, c.Bottom, c.Top)
}
