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

import "math"

// BoundaryScan traces the edge of a wake. For each of the normalized
// distances downwind it steps laterally out from the wake axis, at hub
// height, in lateralSteps equal steps up to maxLateral rotor diameters
// and records the first normalized lateral offset at which the velocity
// deficit falls below threshold. Distances where the deficit stays above
// threshold out to maxLateral are recorded as NaN.
func BoundaryScan(w *SingleWake, distances []float64, lateralSteps int, maxLateral, threshold float64) ([]float64, error) {
	out := make([]float64, len(distances))
	d := w.Diameter()
	for i, x := range distances {
		cs, err := w.CrossSection(x * d)
		if err != nil {
			return nil, err
		}
		out[i] = math.NaN()
		for j := 0; j <= lateralSteps; j++ {
			y := maxLateral * float64(j) / float64(lateralSteps)
			if cs.VelocityDeficit(y*d, 0) < threshold {
				out[i] = y
				break
			}
		}
	}
	return out, nil
}
