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

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
)

// ThrustCurve gives a rotor's thrust coefficient as a function of the
// wind speed [m/s] incident on it.
type ThrustCurve interface {
	ThrustCoefficient(velocity float64) float64
}

// FixedThrustCurve has the same thrust coefficient at all wind speeds.
type FixedThrustCurve float64

// ThrustCoefficient implements ThrustCurve.
func (c FixedThrustCurve) ThrustCoefficient(float64) float64 { return float64(c) }

// TabulatedThrustCurve interpolates linearly between thrust coefficients
// given at ascending wind speeds. Outside of the table the nearest value
// is used.
type TabulatedThrustCurve struct {
	velocities, thrustCoefficients []float64
}

// NewTabulatedThrustCurve creates a thrust curve from a table.
func NewTabulatedThrustCurve(velocities, thrustCoefficients []float64) (*TabulatedThrustCurve, error) {
	if len(velocities) == 0 || len(velocities) != len(thrustCoefficients) {
		return nil, fmt.Errorf("wake: thrust curve: %w: %d velocities and %d thrust coefficients",
			ErrInvalidInput, len(velocities), len(thrustCoefficients))
	}
	for i := 1; i < len(velocities); i++ {
		if !(velocities[i] > velocities[i-1]) {
			return nil, fmt.Errorf("wake: thrust curve: %w: velocities must be ascending", ErrInvalidInput)
		}
	}
	for _, ct := range thrustCoefficients {
		if !(ct >= 0 && ct <= 1) {
			return nil, fmt.Errorf("wake: thrust curve: %w: thrust coefficient %g not in [0, 1]", ErrInvalidInput, ct)
		}
	}
	return &TabulatedThrustCurve{
		velocities:         append([]float64(nil), velocities...),
		thrustCoefficients: append([]float64(nil), thrustCoefficients...),
	}, nil
}

// ThrustCoefficient implements ThrustCurve.
func (c *TabulatedThrustCurve) ThrustCoefficient(velocity float64) float64 {
	last := len(c.velocities) - 1
	switch {
	case velocity <= c.velocities[0]:
		return c.thrustCoefficients[0]
	case velocity >= c.velocities[last]:
		return c.thrustCoefficients[last]
	}
	i := floats.Within(c.velocities, velocity)
	f := (velocity - c.velocities[i]) / (c.velocities[i+1] - c.velocities[i])
	return c.thrustCoefficients[i] + f*(c.thrustCoefficients[i+1]-c.thrustCoefficients[i])
}

// Turbine describes a wind turbine and where it stands. Positions are in
// meters in a frame where the wind blows in the +X direction, except for
// layouts, which use easting and northing.
type Turbine struct {
	Name     string
	Position geom.Point

	// HubHeight and Diameter are in meters.
	HubHeight, Diameter float64

	// RPM is the rotor speed. Zero selects GenericRPM.
	RPM float64

	// Blades is the number of blades. Zero selects 3.
	Blades int

	ThrustCurve ThrustCurve
}

// X returns the downwind coordinate of the turbine.
func (t Turbine) X() float64 { return t.Position.X }

// At returns a copy of t moved to p.
func (t Turbine) At(p geom.Point) Turbine {
	t.Position = p
	return t
}

// BladeCount returns the number of blades, defaulting to 3.
func (t Turbine) BladeCount() int {
	if t.Blades <= 0 {
		return 3
	}
	return t.Blades
}

// ThrustCoefficient returns the thrust coefficient at the given incident
// wind speed. A turbine without a thrust curve has no thrust.
func (t Turbine) ThrustCoefficient(velocity float64) float64 {
	if t.ThrustCurve == nil {
		return 0
	}
	return t.ThrustCurve.ThrustCoefficient(velocity)
}
