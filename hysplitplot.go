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

// Package hysplitplot fits map projections and plotting windows for
// HYSPLIT trajectory and concentration output.
//
// Sample points are accumulated in a HitGrid, which yields the extent
// of the plume. NewMapProjection then selects a projection, builds an
// initial window around the plume, and RefineCorners adjusts the window
// for aspect ratio, zoom and integer grid units while keeping poles out
// of projections that cannot represent them. The fitted MapProjection
// provides forward and inverse transforms for the renderer.
package hysplitplot

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/geom"
)

// Version gives the version number.
const Version = "1.0.0"

var (
	// ErrNotConfigured is raised when a coordinate transform is used
	// before Setup has been called.
	ErrNotConfigured = errors.New("hysplitplot: coordinate transform used before setup")

	// ErrGridNotAllocated is raised when points are added to a HitGrid
	// whose count array has not been (re)allocated.
	ErrGridNotAllocated = errors.New("hysplitplot: hit grid is not allocated")

	// ErrNoPoints is returned when no sample points fall on the map.
	ErrNoPoints = errors.New("hysplitplot: no points to plot")

	// ErrUnknownProjection is returned for projection types outside of
	// the known set.
	ErrUnknownProjection = errors.New("hysplitplot: unknown map projection")
)

// ProjectionType identifies a map projection family. The values match
// the numbering used in HYSPLIT plot settings.
type ProjectionType int

// Available projections. Auto is only valid as a request; a fitted
// projection always has one of the other types.
const (
	Auto ProjectionType = iota
	Polar
	Lambert
	Mercator
	CylEqu
)

func (p ProjectionType) String() string {
	switch p {
	case Auto:
		return "auto"
	case Polar:
		return "polar"
	case Lambert:
		return "lambert"
	case Mercator:
		return "mercator"
	case CylEqu:
		return "cylequ"
	default:
		return fmt.Sprintf("ProjectionType(%d)", int(p))
	}
}

// ParseProjectionType converts a projection name or number into
// a ProjectionType.
func ParseProjectionType(s string) (ProjectionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "0":
		return Auto, nil
	case "polar", "1":
		return Polar, nil
	case "lambert", "2":
		return Lambert, nil
	case "mercator", "3":
		return Mercator, nil
	case "cylequ", "4":
		return CylEqu, nil
	}
	return Auto, fmt.Errorf("%v: %q", ErrUnknownProjection, s)
}

// Settings holds the plot options that affect map fitting.
type Settings struct {
	// Projection is the requested projection; Auto selects one based
	// on the latitude of Center.
	Projection ProjectionType

	// ZoomFactor is in the user-facing convention: 0 leaves the widest
	// margin around the data and 100 zooms in as far as possible.
	ZoomFactor int

	// AspectRatio is the requested width/height of the map window.
	AspectRatio float64

	// Deltas are the longitude and latitude spacings of the source data
	// grid in degrees. Zero values mean that the hit grid resolution is
	// used.
	Deltas [2]float64

	// Center is the (lon, lat) map center. The zero point means that
	// the first sample point is used.
	Center geom.Point

	// Ring reports whether distance rings are drawn around Center.
	Ring bool

	// RingNumber is the number of concentric distance rings drawn around
	// Center. Zero scales a square map without drawing rings, and
	// negative values disable all ring handling.
	RingNumber int

	// RingDistance is the distance between rings in km. Zero lets it be
	// computed from the plume size.
	RingDistance float64
}

// DefaultSettings returns the settings used by the HYSPLIT plotting
// programs when no options are given.
func DefaultSettings() Settings {
	return Settings{
		Projection:   Auto,
		ZoomFactor:   50,
		AspectRatio:  1.3,
		RingNumber:   -1,
		RingDistance: 0,
	}
}

// ZoomFraction converts a user-facing zoom factor into the fraction of the
// half-span that is added as margin on each side of the map.
func ZoomFraction(zoom int) float64 {
	const leastZoom, mostZoom = 0, 100
	z := mostZoom - zoom
	if z < leastZoom {
		z = leastZoom
	} else if z > mostZoom {
		z = mostZoom
	}
	return float64(z) * 0.01
}

// sign returns the magnitude of a with the sign of b.
func sign(a, b float64) float64 {
	if b >= 0 {
		return math.Abs(a)
	}
	return -math.Abs(a)
}

// nearestInt rounds half to even.
func nearestInt(a float64) float64 {
	return math.RoundToEven(a)
}

// spanf maps value into [begin, end) by adding or subtracting multiples
// of the range. The order of begin and end does not matter.
func spanf(value, begin, end float64) float64 {
	first := math.Min(begin, end)
	last := math.Max(begin, end)
	val := math.Mod(value-first, last-first)
	if val < 0 {
		return val + last
	}
	return val + first
}

// normalizeLon360 keeps longitudes within [0, 360].
func normalizeLon360(lon float64) float64 {
	if lon < 0 {
		lon += 360
	}
	if lon > 360 {
		lon -= 360
	}
	return lon
}
