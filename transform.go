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

// transformers wraps the XY and LonLat methods of c as proj.Transformers.
// Points that fall outside of the valid domain return an error
// rather than non-finite coordinates.
func transformers(c Coordinate) (forward, inverse proj.Transformer, err error) {
	forward = func(lon, lat float64) (x, y float64, err error) {
		x, y = c.XY(lon, lat)
		if !finite(x) || !finite(y) {
			return x, y, fmt.Errorf("hysplitplot: %v projection of (%g, %g) is not finite", c.Kind(), lon, lat)
		}
		return x, y, nil
	}
	inverse = func(x, y float64) (lon, lat float64, err error) {
		lon, lat = c.LonLat(x, y)
		if !finite(lon) || !finite(lat) {
			return lon, lat, fmt.Errorf("hysplitplot: %v inverse projection of (%g, %g) is not finite", c.Kind(), x, y)
		}
		return lon, lat, nil
	}
	return forward, inverse, nil
}

// Transformers returns the forward (lon/lat to map units) and inverse
// transforms of the fitted projection.
func (m *MapProjection) Transformers() (forward, inverse proj.Transformer, err error) {
	return m.Coord.Transformers()
}

// TransformGeom projects a geometry given in (lon, lat) degrees, such as
// a background map or a ring outline, into map units.
func (m *MapProjection) TransformGeom(g geom.Geom) (geom.Geom, error) {
	forward, _, err := m.Transformers()
	if err != nil {
		return nil, err
	}
	out, err := g.Transform(forward)
	if err != nil {
		return nil, fmt.Errorf("hysplitplot: transforming geometry: %v", err)
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
