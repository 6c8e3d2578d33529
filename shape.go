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

// shapeCutoff is the lateral distance, in wake half-widths, beyond which
// the wake profile is taken to be zero.
const shapeCutoff = 2.0

// Shape returns the Gaussian profile of the velocity deficit at a lateral
// distance normalized by the wake half-width. It is 1 on the centerline
// and 0 beyond two half-widths.
func Shape(normalizedLateral float64) float64 {
	if math.Abs(normalizedLateral) > shapeCutoff {
		return 0
	}
	return math.Exp(-3.56 * normalizedLateral * normalizedLateral)
}

// Width returns the wake half-width, normalized by rotor diameter, that
// conserves momentum for the given thrust coefficient and centerline
// velocity deficit.
func Width(thrustCoefficient, centerlineDeficit float64) float64 {
	return math.Sqrt(3.56 * thrustCoefficient / (8 * centerlineDeficit * (1 - 0.5*centerlineDeficit)))
}
