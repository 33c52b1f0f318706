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
	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// missingLoc marks a source location that is not known.
var missingLoc = geom.Point{X: 99, Y: 99}

// ConcGrid is a gridded concentration field. Conc has one row per
// latitude in Lats and one column per longitude in Lons.
type ConcGrid struct {
	Conc       mat.Matrix
	Lons, Lats []float64
}

// PlotData holds the locations that a map must contain.
type PlotData struct {
	// Sources are release or trajectory starting locations as (lon, lat).
	// Locations equal to (99, 99) are ignored.
	Sources []geom.Point

	// Points are trajectory points as (lon, lat).
	Points []geom.Point

	// Grids are concentration fields. Every cell with a positive
	// concentration must be on the map.
	Grids []ConcGrid
}

// DetermineMapLimits accumulates data in a HitGrid. With two passes, a
// plume that turns out to be small after the first pass is accumulated
// again on a refined grid. It returns ErrNoPoints if data has no points
// or concentrations.
func DetermineMapLimits(data *PlotData, passes int, log logrus.FieldLogger) (*HitGrid, error) {
	g := NewHitGrid()
	for pass := 0; pass < passes; pass++ {
		if log != nil {
			g.Log = log
		}
		g.Allocate()
		for _, s := range data.Sources {
			if s != missingLoc {
				g.Add(s.X, s.Y)
			}
		}

		sourceHits := g.HitCount
		for _, p := range data.Points {
			g.Add(p.X, p.Y)
		}
		for _, cg := range data.Grids {
			g.AddConc(cg.Conc, cg.Lons, cg.Lats)
		}
		if g.HitCount == sourceHits {
			return nil, ErrNoPoints
		}

		// Only the first pass can refine the grid.
		if pass == 0 && passes == 2 {
			g.DeterminePlumeExtent()
			if !g.NeedToRefineGrid() {
				break
			}
			g = NewRefinedHitGrid(g.RefineGrid())
		}
	}
	return g, nil
}

// FitMap fits a map projection and window to data. The returned
// projection's Type is the projection actually used, which can differ
// from settings.Projection.
func FitMap(settings Settings, data *PlotData, opts ...Option) (*MapProjection, error) {
	log := logrus.FieldLogger(logrus.StandardLogger())
	m := &MapProjection{Log: log}
	for _, o := range opts {
		o(m)
	}
	log = m.Log

	passes := 2
	if settings.RingNumber == 0 {
		passes = 1
	}
	g, err := DetermineMapLimits(data, passes, log)
	if err != nil {
		return nil, err
	}

	center := settings.Center
	if center == (geom.Point{}) {
		center = defaultCenter(data)
	}

	if settings.Ring && settings.RingNumber >= 0 {
		g.DeterminePlumeExtent()
		g.ClearHitMap()
		g.SetRingExtent(center, settings.RingNumber, settings.RingDistance)
	}

	deltas := settings.Deltas
	if deltas[0] <= 0 || deltas[1] <= 0 {
		deltas = [2]float64{g.Delta, g.Delta}
	}
	aspect := settings.AspectRatio
	if aspect <= 0 {
		aspect = DefaultSettings().AspectRatio
	}

	p, err := NewMapProjection(settings, center, aspect, deltas, g, opts...)
	if err != nil {
		return nil, err
	}
	p.RefineCorners()
	return p, nil
}

// defaultCenter returns the first known source location, or the first
// point if no source location is known.
func defaultCenter(data *PlotData) geom.Point {
	for _, s := range data.Sources {
		if s != missingLoc {
			return s
		}
	}
	if len(data.Points) > 0 {
		return data.Points[0]
	}
	return geom.Point{}
}
