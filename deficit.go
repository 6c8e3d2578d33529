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

// DeficitSolver computes the centerline velocity deficit of an isolated
// wake at distance rotor diameters downwind of a rotor with the given
// thrust coefficient, in the given incident turbulence intensity.
type DeficitSolver interface {
	VelocityDeficit(thrustCoefficient, distance, turbulence float64) (float64, error)
}

// VelocityDeficit evaluates solver with the inputs limited to the range
// the eddy-viscosity model is valid for. Distances shorter than the
// initial-condition distance are moved out to it and thrust coefficients
// are capped at 1. The result is never negative. Negative or NaN inputs
// are rejected.
func VelocityDeficit(solver DeficitSolver, thrustCoefficient, distance, turbulence float64) (float64, error) {
	if !(thrustCoefficient >= 0) || !(distance >= 0) || !(turbulence >= 0) {
		return 0, fmt.Errorf("wake: centerline deficit (ct=%g, x=%g, ti=%g): %w", thrustCoefficient, distance, turbulence, ErrInvalidInput)
	}
	distance = math.Max(distance, initialDistance)
	thrustCoefficient = math.Min(thrustCoefficient, 1)
	d, err := solver.VelocityDeficit(thrustCoefficient, distance, turbulence)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(d) {
		return 0, fmt.Errorf("wake: centerline deficit (ct=%g, x=%g, ti=%g): %w", thrustCoefficient, distance, turbulence, ErrNumericalBreakdown)
	}
	return math.Max(d, 0), nil
}
