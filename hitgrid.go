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
	"io"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

const (
	// coarseDelta is the default hit grid resolution in degrees.
	coarseDelta = 1.0

	// fineDelta is the resolution used after refinement.
	fineDelta = 0.1

	// refineLimit is the plume size in degrees at or below which the
	// grid should be refined.
	refineLimit = 2.0
)

// GridState tracks the allocation state of a HitGrid count array.
type GridState int

const (
	// GridEmpty means that there is no count array. Points cannot be
	// added until Allocate is called.
	GridEmpty GridState = iota

	// GridCoarse means that counts are held at the default resolution.
	GridCoarse

	// GridRefined means that counts are held at the refined resolution.
	GridRefined
)

func (s GridState) String() string {
	switch s {
	case GridEmpty:
		return "empty"
	case GridCoarse:
		return "coarse"
	case GridRefined:
		return "refined"
	default:
		return fmt.Sprintf("GridState(%d)", int(s))
	}
}

// GridResolution describes the geometry of a HitGrid.
type GridResolution struct {
	// Delta is the cell size in degrees.
	Delta float64

	// Corner is the (lon, lat) of the lower-left corner of the grid.
	// Longitude is in [0, 360).
	Corner geom.Point

	// Size is the number of cells in the longitude and latitude
	// directions.
	Size [2]int
}

// HitGrid counts sample points in an equirectangular grid in order to
// find the extent of a plume.
type HitGrid struct {
	GridResolution

	// HitCount is the total number of hits in the grid.
	HitCount int

	// PlumeSize is the (lon, lat) size of the plume in degrees, as found
	// by DeterminePlumeExtent.
	PlumeSize [2]float64

	// PlumeLoc is the (lon, lat) index of the lower-left plume cell.
	PlumeLoc [2]int

	Log logrus.FieldLogger

	hits    *sparse.DenseArray
	state   GridState
	bbox    *geom.Bounds
	lastI   int
	lastJ   int
	refined bool
}

// NewHitGrid returns a global grid with 1° cells and its corner at
// (0°, -90°). Allocate must be called before points are added.
func NewHitGrid() *HitGrid {
	return &HitGrid{
		GridResolution: GridResolution{
			Delta:  coarseDelta,
			Corner: geom.Point{X: 0, Y: -90},
			Size:   [2]int{360, 181},
		},
		Log: logrus.StandardLogger(),
	}
}

// NewRefinedHitGrid returns a grid at resolution res, as returned by
// RefineGrid. Its state is GridRefined once allocated.
func NewRefinedHitGrid(res GridResolution) *HitGrid {
	return &HitGrid{
		GridResolution: res,
		Log:            logrus.StandardLogger(),
		refined:        true,
	}
}

// State returns the allocation state of the count array.
func (g *HitGrid) State() GridState { return g.state }

// Allocate (re)creates the count array at the current resolution and
// resets the hit count.
func (g *HitGrid) Allocate() {
	g.hits = sparse.ZerosDense(g.Size[0], g.Size[1])
	g.HitCount = 0
	if g.refined {
		g.state = GridRefined
	} else {
		g.state = GridCoarse
	}
}

func (g *HitGrid) mustBeAllocated() {
	if g.state == GridEmpty {
		panic(ErrGridNotAllocated)
	}
}

// index returns the clipped cell index for a longitude and latitude.
func (g *HitGrid) index(lon, lat float64) (i, j int) {
	lon = spanf(lon, 0, 360)
	i = clip(int(math.Floor((lon-g.Corner.X)/g.Delta)), g.Size[0])
	j = clip(int(math.Floor((lat-g.Corner.Y)/g.Delta)), g.Size[1])
	return
}

func clip(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func (g *HitGrid) hit(i, j int) {
	g.hits.AddVal(1, i, j)
	g.HitCount++
}

// Add records a hit for the given point. Longitudes may be given in either
// [-180, 180) or [0, 360). Points outside of the grid are counted in the
// nearest edge cell.
func (g *HitGrid) Add(lon, lat float64) {
	g.mustBeAllocated()
	i, j := g.index(lon, lat)
	g.hit(i, j)
	g.lastI, g.lastJ = i, j
}

// AddConc records a hit for every cell of a concentration grid with a
// positive value. conc has one row per latitude and one column per
// longitude.
func (g *HitGrid) AddConc(conc mat.Matrix, lons, lats []float64) {
	g.mustBeAllocated()
	iarr := make([]int, len(lons))
	for k, lon := range lons {
		iarr[k], _ = g.index(lon, g.Corner.Y)
	}
	jarr := make([]int, len(lats))
	for k, lat := range lats {
		_, jarr[k] = g.index(g.Corner.X, lat)
	}
	for j := range lats {
		for i := range lons {
			if conc.At(j, i) > 0 {
				g.hit(iarr[i], jarr[j])
				g.lastI, g.lastJ = iarr[i], jarr[j]
			}
		}
	}
}

// Count returns the number of hits in cell (i, j).
func (g *HitGrid) Count(i, j int) int {
	g.mustBeAllocated()
	return int(g.hits.Get(i, j))
}

// HitCells calls f for each cell with at least one hit, giving the
// longitude and latitude of the lower-left corner of the cell with the
// longitude in [-180, 180].
func (g *HitGrid) HitCells(f func(i, j int, lon, lat float64)) {
	g.mustBeAllocated()
	for j := 0; j < g.Size[1]; j++ {
		for i := 0; i < g.Size[0]; i++ {
			if g.hits.Get(i, j) > 0 {
				lon := float64(i)*g.Delta + g.Corner.X
				lat := float64(j)*g.Delta + g.Corner.Y
				if lon > 180 {
					lon -= 360
				}
				f(i, j, lon, lat)
			}
		}
	}
}

func (g *HitGrid) rowHit(j int) bool {
	for i := 0; i < g.Size[0]; i++ {
		if g.hits.Get(i, j) > 0 {
			return true
		}
	}
	return false
}

func (g *HitGrid) columnHit(i int) bool {
	for j := 0; j < g.Size[1]; j++ {
		if g.hits.Get(i, j) > 0 {
			return true
		}
	}
	return false
}

// DeterminePlumeExtent finds the smallest block of cells that contains all
// hits and sets PlumeSize, PlumeLoc and the bounding box. An empty grid
// yields the extent of the whole grid.
func (g *HitGrid) DeterminePlumeExtent() {
	g.mustBeAllocated()
	bottom := 0
	for j := 0; j < g.Size[1]; j++ {
		if g.rowHit(j) {
			bottom = j
			break
		}
	}
	top := g.Size[1] - 1
	for j := g.Size[1] - 1; j >= bottom; j-- {
		if g.rowHit(j) {
			top = j
			break
		}
	}
	left := 0
	for i := 0; i < g.Size[0]; i++ {
		if g.columnHit(i) {
			left = i
			break
		}
	}
	right := g.Size[0] - 1
	for i := g.Size[0] - 1; i >= left; i-- {
		if g.columnHit(i) {
			right = i
			break
		}
	}

	g.PlumeSize = [2]float64{
		g.Delta * float64(right-left+1),
		g.Delta * float64(top-bottom+1),
	}
	g.PlumeLoc = [2]int{left, bottom}
	west := g.Corner.X + g.Delta*float64(left)
	if west > 180 {
		west -= 360
	}
	south := g.Corner.Y + g.Delta*float64(bottom)
	g.bbox = &geom.Bounds{
		Min: geom.Point{X: west, Y: south},
		Max: geom.Point{X: west + g.PlumeSize[0], Y: south + g.PlumeSize[1]},
	}
	g.Log.WithFields(logrus.Fields{
		"index": g.PlumeLoc,
		"size":  g.PlumeSize,
		"bbox":  g.bbox,
	}).Debug("hysplitplot: plume extent")
}

// NeedToRefineGrid reports whether the plume is small enough that a finer
// grid should be used.
func (g *HitGrid) NeedToRefineGrid() bool {
	return g.PlumeSize[0] <= refineLimit && g.PlumeSize[1] <= refineLimit
}

// RefineGrid returns the fine resolution with its corner at the
// lower-left plume cell. The grid itself is unchanged; pass the result
// to NewRefinedHitGrid and add the points again.
func (g *HitGrid) RefineGrid() GridResolution {
	res := GridResolution{
		Delta: fineDelta,
		Corner: geom.Point{
			X: g.Corner.X + float64(g.PlumeLoc[0])*g.Delta,
			Y: g.Corner.Y + float64(g.PlumeLoc[1])*g.Delta,
		},
	}
	res.Size = [2]int{
		int(g.PlumeSize[0] / res.Delta),
		int(g.PlumeSize[1] / res.Delta),
	}
	g.Log.WithFields(logrus.Fields{
		"delta":  res.Delta,
		"size":   res.Size,
		"corner": res.Corner,
	}).Debug("hysplitplot: refined hit grid")
	return res
}

// ClearHitMap sets all counts to zero, keeping the resolution.
func (g *HitGrid) ClearHitMap() {
	g.mustBeAllocated()
	for k := range g.hits.Elements {
		g.hits.Elements[k] = 0
	}
	g.HitCount = 0
}

// SetRingExtent marks the cells covered by concentric distance rings
// around center so that the map will include them. It returns the
// vertical span of the rings in cells and the ring distance in km after
// rounding; see CalcRingDistance.
func (g *HitGrid) SetRingExtent(center geom.Point, ringNumber int, ringDistance float64) (kspan int, distance float64) {
	g.mustBeAllocated()
	kspan, distance = CalcRingDistance(g.PlumeSize, g.Delta, center, ringNumber, ringDistance)
	g.Log.WithFields(logrus.Fields{
		"span":     kspan,
		"distance": distance,
	}).Debug("hysplitplot: set ring extent")

	// Plots are centered on the ring center.
	g.Add(center.X, center.Y)
	half := kspan / 2
	jmin := g.lastJ - half
	if jmin < 0 {
		jmin = 0
	}
	jmax := g.lastJ + half + 1
	if jmax > g.Size[1] {
		jmax = g.Size[1]
	}
	for j := jmin; j < jmax; j++ {
		g.hit(g.lastI, j)
	}

	radius := KmToDeg(distance * float64(ringNumber))
	ring := &geom.Bounds{
		Min: geom.Point{X: center.X - radius, Y: math.Max(-90, center.Y-radius)},
		Max: geom.Point{X: center.X + radius, Y: math.Min(90, center.Y+radius)},
	}
	if g.bbox == nil {
		g.bbox = ring
	} else {
		g.bbox.Extend(ring)
	}
	return kspan, distance
}

// BoundingBox returns the (lon, lat) box around the plume and any ring
// overlay, or nil if DeterminePlumeExtent has not been called. The west
// edge is in [-180, 180]; a box crossing the antimeridian has its east
// edge beyond 180.
func (g *HitGrid) BoundingBox() *geom.Bounds {
	if g.bbox == nil {
		return nil
	}
	return g.bbox.Copy()
}

// BoundingBoxCorners returns the bounding box as a closed polygon
// running counter-clockwise from the lower-left corner.
func (g *HitGrid) BoundingBoxCorners() geom.Polygon {
	if g.bbox == nil {
		return nil
	}
	return boundsPolygon(g.bbox)
}

// Dump writes the grid geometry and the non-zero cells to w.
func (g *HitGrid) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "HitGrid: delta %g, size %v, corner (%g, %g), state %v\n",
		g.Delta, g.Size, g.Corner.X, g.Corner.Y, g.state); err != nil {
		return err
	}
	if g.state == GridEmpty {
		return nil
	}
	for j := 0; j < g.Size[1]; j++ {
		for i := 0; i < g.Size[0]; i++ {
			if v := g.hits.Get(i, j); v != 0 {
				if _, err := fmt.Fprintf(w, "hits[%d,%d] = %d\n", i, j, int(v)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func boundsPolygon(b *geom.Bounds) geom.Polygon {
	return geom.Polygon{geom.Path{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Min.Y},
	}}
}
