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

	"github.com/ctessum/geom/proj"
)

// falseOrigin is the false easting and northing in meters given to
// Lambert and Mercator definitions.
const falseOrigin = 1000.0

// Proj4 returns a PROJ.4 definition of the fitted projection on a sphere
// with radius EarthRadius, for use by GIS consumers.
func (m *MapProjection) Proj4() (string, error) {
	const sphere = "+a=6371200 +b=6371200 +units=m +no_defs"
	switch c := m.Coord.(type) {
	case *ConformalCoordinate:
		if !c.configured {
			return "", ErrNotConfigured
		}
		switch c.Kind() {
		case Lambert:
			return fmt.Sprintf("+proj=lcc +lat_1=%g +lat_2=%g +lat_0=%g +lon_0=%g +x_0=%g +y_0=%g %s",
				c.TangentLat, c.TangentLat, c.TangentLat, c.RefLon, falseOrigin, falseOrigin, sphere), nil
		case Polar:
			return fmt.Sprintf("+proj=stere +lat_0=%g +lat_ts=%g +lon_0=%g +k_0=1 +x_0=0 +y_0=0 %s",
				c.TangentLat, c.TangentLat, c.RefLon, sphere), nil
		case Mercator:
			return fmt.Sprintf("+proj=merc +lat_ts=%g +lon_0=%g +x_0=%g +y_0=%g %s",
				c.TangentLat, c.RefLon, falseOrigin, falseOrigin, sphere), nil
		}
	case *CylindricalCoordinate:
		if !c.configured {
			return "", ErrNotConfigured
		}
		return fmt.Sprintf("+proj=cea +lon_0=%g +lat_ts=%g +x_0=0 +y_0=0 %s",
			c.RefLon, c.TangentLat, sphere), nil
	}
	return "", fmt.Errorf("%v: %v", ErrUnknownProjection, m.Type)
}

// SpatialReference returns the parsed Proj4 definition. Transformers
// are only available from it for the Lambert and Mercator projections;
// the plot transforms are given by Transformers.
func (m *MapProjection) SpatialReference() (*proj.SR, error) {
	def, err := m.Proj4()
	if err != nil {
		return nil, err
	}
	sr, err := proj.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("hysplitplot: parsing spatial reference %q: %v", def, err)
	}
	return sr, nil
}
