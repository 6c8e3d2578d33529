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

// Package wake is a steady-state wind-farm wake model. It predicts the
// reduced wind speed and raised turbulence intensity at each turbine of a
// farm caused by the wakes of the turbines upwind of it, using the
// Ainslie eddy-viscosity model of the wake centerline.
package wake

import (
	"errors"
	"math"
)

// Version gives the version number.
const Version = "0.1.0"

var (
	// ErrInvalidInput is returned when an argument is out of its valid range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfOrder is returned when upwind wakes are not added in
	// upwind-to-downwind order.
	ErrOutOfOrder = errors.New("wakes added out of order")

	// ErrNotUpwind is returned when a wake is added from a turbine that is
	// not upwind of the turbine receiving it.
	ErrNotUpwind = errors.New("turbine is not upwind")

	// ErrAlreadyCalculated is returned when a wake is added to a turbine
	// whose combined wake has already been calculated.
	ErrAlreadyCalculated = errors.New("wake already calculated")

	// ErrNumericalBreakdown is returned when the centerline deficit cannot
	// be integrated to a finite value.
	ErrNumericalBreakdown = errors.New("numerical breakdown")

	// ErrOutOfBounds is returned when a look-up table is queried outside
	// of its axes.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrDuplicateTurbine is returned when two turbines in a farm share
	// a name.
	ErrDuplicateTurbine = errors.New("duplicate turbine")

	// ErrUnknownTurbine is returned when ambient conditions are requested
	// for a turbine that is not known.
	ErrUnknownTurbine = errors.New("unknown turbine")

	// ErrFlowStopped is returned when the wakes reaching a turbine
	// combine to a velocity deficit of 1 or more, leaving no flow at the
	// rotor. Only the additive combination rules can do this.
	ErrFlowStopped = errors.New("combined wakes stop the flow")
)

// negligible is the magnitude below which thrust coefficients, diameters
// and deficits are treated as zero.
const negligible = 1e-6

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
