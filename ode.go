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

const (
	// initialDistance is the distance downwind, in rotor diameters, at
	// which the eddy-viscosity model is started.
	initialDistance = 2.0

	k1    = 0.015
	karma = 0.4 // von Karman constant
)

// ainslie is the simplified eddy-viscosity model of the wake centerline
// velocity u (normalized by the free-stream velocity).
type ainslie struct {
	ct, turbulence float64
}

// initialDeficit is the empirical centerline deficit at initialDistance.
func (a ainslie) initialDeficit() float64 {
	return a.ct - 0.05 - (16*a.ct-0.5)*a.turbulence/10
}

// filter damps eddy viscosity in the near wake, where the shear layer has
// not yet developed.
func (a ainslie) filter(x float64) float64 {
	if x >= 5.5 {
		return 1
	}
	return 0.65 + math.Cbrt((x-4.5)/23.32)
}

func (a ainslie) eddyViscosity(x, u float64) float64 {
	b := Width(a.ct, 1-u)
	return a.filter(x) * (k1*b*(1-u) + karma*karma*a.turbulence)
}

func (a ainslie) derivative(x, u float64) float64 {
	if u >= 1 {
		return 0 // recovered
	}
	eps := a.eddyViscosity(x, u)
	return 16 * eps * (u*u*u - u*u - u + 1) / (u * a.ct)
}

// Integrator solves the eddy-viscosity model numerically for every query.
type Integrator struct {
	// MaxDistance is the distance, in rotor diameters, beyond which the
	// deficit is reported as zero.
	MaxDistance float64

	// RelTol and AbsTol are the error tolerances of the adaptive stepper.
	RelTol, AbsTol float64

	// FirstStep and MaxStep bound the step size, in rotor diameters.
	FirstStep, MaxStep float64
}

// DefaultIntegrator returns an Integrator with the standard settings.
func DefaultIntegrator() Integrator {
	return Integrator{
		MaxDistance: 100,
		RelTol:      1e-3,
		AbsTol:      1e-6,
		FirstStep:   0.1,
		MaxStep:     0.1,
	}
}

// VelocityDeficit implements DeficitSolver.
func (s Integrator) VelocityDeficit(thrustCoefficient, distance, turbulence float64) (float64, error) {
	if thrustCoefficient < negligible {
		return 0, nil // no thrust, no wake
	}
	a := ainslie{ct: thrustCoefficient, turbulence: turbulence}
	d0 := a.initialDeficit()
	if distance <= initialDistance || d0 <= 0 {
		return d0, nil
	}
	if distance > s.MaxDistance {
		return 0, nil
	}
	d, err := s.profile(a, []float64{distance})
	if err != nil {
		return 0, err
	}
	return d[0], nil
}

// Profile returns the centerline deficit at each of the ascending
// distances, integrating the model once out to the last of them.
func (s Integrator) Profile(thrustCoefficient, turbulence float64, distances []float64) ([]float64, error) {
	return s.profile(ainslie{ct: thrustCoefficient, turbulence: turbulence}, distances)
}

func (s Integrator) profile(a ainslie, distances []float64) ([]float64, error) {
	out := make([]float64, len(distances))
	if len(distances) == 0 {
		return out, nil
	}
	for i := 1; i < len(distances); i++ {
		if distances[i] < distances[i-1] {
			return nil, fmt.Errorf("wake: deficit profile: %w: distances must be ascending", ErrInvalidInput)
		}
	}
	if a.ct < negligible {
		return out, nil
	}
	d0 := a.initialDeficit()
	last := math.Min(distances[len(distances)-1], s.MaxDistance)
	if d0 <= 0 || last <= initialDistance {
		for i, x := range distances {
			if x <= initialDistance || d0 <= 0 {
				out[i] = d0
			}
		}
		return out, nil
	}
	m := newDormandPrince(a.derivative, initialDistance, 1-d0, s.MaxDistance, s.FirstStep, s.MaxStep, s.RelTol, s.AbsTol)
	x0, u0 := m.x, m.y
	for i, x := range distances {
		if x <= initialDistance {
			out[i] = d0
			continue
		}
		if x > s.MaxDistance {
			break // no wake this far downwind
		}
		for m.x < x {
			x0, u0 = m.x, m.y
			if err := m.step(); err != nil {
				return nil, fmt.Errorf("wake: deficit profile (ct=%g, ti=%g, x=%g): %w", a.ct, a.turbulence, x, err)
			}
		}
		u := u0 + (m.y-u0)*(x-x0)/(m.x-x0)
		if !isFinite(u) {
			return nil, fmt.Errorf("wake: deficit profile (ct=%g, ti=%g, x=%g): %w", a.ct, a.turbulence, x, ErrNumericalBreakdown)
		}
		out[i] = 1 - u
	}
	return out, nil
}
