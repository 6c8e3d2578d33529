/*
Copyright © 2019 the mini-wake authors.
This file is part of mini-wake.

mini-wake is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

mini-wake is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with mini-wake.  If not, see <http://www.gnu.org/licenses/>.
*/

package wake

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
)

// positionScale sets the resolution, 1 µm, to which rotated positions
// are rounded so that turbines in the same row share an exact X.
const positionScale = 1e6

func snap(v float64) float64 {
	return math.Round(v*positionScale) / positionScale
}

// RotateAndSort returns copies of turbines rotated so that wind from
// direction [degrees, meteorological convention] blows along +X, shifted
// so that the most upwind turbine is at the origin and stably sorted from
// upwind to downwind.
func RotateAndSort(direction float64, turbines []Turbine) []Turbine {
	if len(turbines) == 0 {
		return nil
	}
	delr := (direction - 270) * math.Pi / 180
	cd, sd := math.Cos(delr), math.Sin(delr)

	rotated := make([]geom.Point, len(turbines))
	first := 0
	for i, t := range turbines {
		p := t.Position
		rotated[i] = geom.Point{X: p.X*cd - p.Y*sd, Y: p.X*sd + p.Y*cd}
		if rotated[i].X < rotated[first].X {
			first = i
		}
	}
	origin := rotated[first]

	out := make([]Turbine, len(turbines))
	for i, t := range turbines {
		out[i] = t.At(geom.Point{
			X: snap(rotated[i].X - origin.X),
			Y: snap(rotated[i].Y - origin.Y),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].X() < out[j].X() })
	return out
}
