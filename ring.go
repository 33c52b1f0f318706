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
	"gonum.org/v1/gonum/floats"
)

// kmPerDeg is the approximate length of one degree of latitude.
const kmPerDeg = 111.0

// KmToDeg converts a distance in km to degrees of latitude.
func KmToDeg(km float64) float64 {
	return km / kmPerDeg
}

// CalcRingDistance determines the span in grid cells of ringNumber
// concentric rings around center, and the distance between rings in km.
// If ringDistance is zero, the distance is chosen so that the rings cover
// a plume of size plumeSize (degrees). The returned distance is rounded
// down to a whole number of km, tens of km, or hundreds of km depending
// on its magnitude.
func CalcRingDistance(plumeSize [2]float64, delta float64, center geom.Point, ringNumber int, ringDistance float64) (kspan int, distance float64) {
	n := float64(ringNumber)
	if n < 1 {
		n = 1
	}
	distance = ringDistance
	if distance == 0 {
		// Longitude extent adjusted for latitude.
		extLon := plumeSize[0] * math.Cos(center.Y/57.3)
		extLat := plumeSize[1]
		kspan = int(nearestInt(floats.Norm([]float64{extLon, extLat}, 2)))
		distance = kmPerDeg * delta * float64(kspan) / n
	} else {
		kspan = int(nearestInt(distance * n / (kmPerDeg * delta)))
	}

	switch {
	case distance <= 10:
		distance = math.Trunc(distance)
	case distance <= 100:
		distance = math.Trunc(distance/10) * 10
	default:
		distance = math.Trunc(distance/100) * 100
	}
	return kspan, distance
}
