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
	"fmt"
	"math"
)

// QuartonAddedTurbulence returns the turbulence intensity added by a wake
// at distanceDownwind [m] behind a rotor with the given thrust coefficient
// and near-wake length [m], in ambient turbulence intensity turbulence,
// following Quarton and Ainslie (1990).
func QuartonAddedTurbulence(distanceDownwind, thrustCoefficient, nearWakeLength, turbulence float64) (float64, error) {
	if nearWakeLength == 0 {
		return 0, fmt.Errorf("wake: added turbulence: %w: near-wake length is zero", ErrInvalidInput)
	}
	return 1.1 * math.Pow(thrustCoefficient, 0.7) * math.Pow(turbulence, 0.68) /
		math.Pow(distanceDownwind/nearWakeLength, 0.57), nil
}
