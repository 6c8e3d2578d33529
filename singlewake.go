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

// WakeOptions configures the wake behind a single turbine.
type WakeOptions struct {
	// Solver computes the centerline deficit. Nil selects
	// DefaultIntegrator.
	Solver DeficitSolver

	// Meander applies the wake meandering correction.
	Meander bool

	// DisableAddedTurbulence turns off the added turbulence model, so that
	// wakes change the wind speed but not the turbulence.
	DisableAddedTurbulence bool
}

// DefaultWakeOptions returns wake options with meandering and added
// turbulence enabled, solved by a DefaultIntegrator.
func DefaultWakeOptions() WakeOptions {
	return WakeOptions{Solver: DefaultIntegrator(), Meander: true}
}

func (o WakeOptions) solver() DeficitSolver {
	if o.Solver == nil {
		return DefaultIntegrator()
	}
	return o.Solver
}

// SingleWake is the wake of one isolated turbine, from which cross
// sections can be evaluated at any distance downwind.
type SingleWake struct {
	opts WakeOptions

	diameter          float64
	thrustCoefficient float64
	localTurbulence   float64
	ambientTurbulence float64
	nearWakeLength    float64
}

// NewSingleWake creates the wake behind turbine t, which sees the wind
// speed upwindVelocity [m/s] and turbulence intensity localTurbulence at
// its rotor, in a flow with ambient turbulence intensity
// ambientTurbulence.
func NewSingleWake(t Turbine, upwindVelocity, localTurbulence, ambientTurbulence float64, opts WakeOptions) (*SingleWake, error) {
	if !(upwindVelocity > 0) || !isFinite(upwindVelocity) {
		return nil, fmt.Errorf("wake: turbine %s: %w: upwind velocity %g must be positive", t.Name, ErrInvalidInput, upwindVelocity)
	}
	if !(localTurbulence >= 0) || !(ambientTurbulence >= 0) || !isFinite(localTurbulence) || !isFinite(ambientTurbulence) {
		return nil, fmt.Errorf("wake: turbine %s: %w: turbulence (local %g, ambient %g) must be non-negative",
			t.Name, ErrInvalidInput, localTurbulence, ambientTurbulence)
	}
	if !(t.Diameter >= 0) || !isFinite(t.Diameter) {
		return nil, fmt.Errorf("wake: turbine %s: %w: diameter %g", t.Name, ErrInvalidInput, t.Diameter)
	}
	ct := t.ThrustCoefficient(upwindVelocity)
	if !(ct >= 0 && ct <= 1) {
		return nil, fmt.Errorf("wake: turbine %s: %w: thrust coefficient %g not in [0, 1]", t.Name, ErrInvalidInput, ct)
	}
	w := &SingleWake{
		opts:              opts,
		diameter:          t.Diameter,
		thrustCoefficient: ct,
		localTurbulence:   localTurbulence,
		ambientTurbulence: ambientTurbulence,
	}
	if ct >= negligible && t.Diameter >= negligible {
		w.nearWakeLength = NearWakeLength(t.Diameter, ct, t.RPM, t.BladeCount(), upwindVelocity, ambientTurbulence)
	}
	return w, nil
}

// Diameter returns the diameter [m] of the rotor shedding the wake.
func (w *SingleWake) Diameter() float64 { return w.diameter }

// ThrustCoefficient returns the thrust coefficient of the rotor shedding
// the wake.
func (w *SingleWake) ThrustCoefficient() float64 { return w.thrustCoefficient }

// NearWakeLength returns the near-wake length [m].
func (w *SingleWake) NearWakeLength() float64 { return w.nearWakeLength }

// CrossSection returns the wake at distance [m] downwind of the rotor.
// There is no wake upwind of the rotor, behind a rotor without thrust,
// or where the centerline deficit is negligible.
func (w *SingleWake) CrossSection(distance float64) (CrossSection, error) {
	if w.thrustCoefficient < negligible || w.diameter < negligible {
		return NoWake(0, w.diameter), nil
	}
	xn := distance / w.diameter
	if !(distance > 0) {
		return NoWake(xn, w.diameter), nil
	}
	deficit, err := VelocityDeficit(w.opts.solver(), w.thrustCoefficient, xn, w.localTurbulence)
	if err != nil {
		return CrossSection{}, err
	}
	if deficit < negligible {
		return NoWake(xn, w.diameter), nil
	}
	width := Width(w.thrustCoefficient, deficit)
	widthM := width * w.diameter
	if w.opts.Meander {
		m := CalculateMeander(xn, width, w.ambientTurbulence)
		deficit *= m.Amplitude
		widthM *= m.Width
	}
	var added float64
	if !w.opts.DisableAddedTurbulence {
		added, err = QuartonAddedTurbulence(distance, w.thrustCoefficient, w.nearWakeLength, w.ambientTurbulence)
		if err != nil {
			return CrossSection{}, err
		}
	}
	return CrossSection{
		present:            true,
		normalizedDistance: xn,
		upwindDiameter:     w.diameter,
		centerlineDeficit:  deficit,
		addedTurbulence:    added,
		width:              widthM,
		widthSq:            widthM * widthM,
	}, nil
}

// CrossSection is a wake evaluated at one distance downwind of the
// turbine shedding it. It may be empty, in which case it has no effect
// anywhere.
type CrossSection struct {
	present bool

	normalizedDistance, upwindDiameter float64

	centerlineDeficit, addedTurbulence float64

	// width is the half-width [m] of the wake.
	width, widthSq float64
}

// NoWake returns an empty cross section.
func NoWake(normalizedDistance, upwindDiameter float64) CrossSection {
	return CrossSection{normalizedDistance: normalizedDistance, upwindDiameter: upwindDiameter}
}

// Present reports whether the cross section contains a wake.
func (c CrossSection) Present() bool { return c.present }

// NormalizedDistance returns the distance downwind in upwind rotor diameters.
func (c CrossSection) NormalizedDistance() float64 { return c.normalizedDistance }

// UpwindDiameter returns the diameter [m] of the rotor shedding the wake.
func (c CrossSection) UpwindDiameter() float64 { return c.upwindDiameter }

// Width returns the wake half-width [m].
func (c CrossSection) Width() float64 { return c.width }

// CenterlineDeficit returns the velocity deficit on the wake axis.
func (c CrossSection) CenterlineDeficit() float64 { return c.centerlineDeficit }

// VelocityDeficit returns the fractional velocity deficit at the given
// lateral and vertical offsets [m] from the wake axis.
func (c CrossSection) VelocityDeficit(lateral, vertical float64) float64 {
	if !c.present {
		return 0
	}
	r2 := lateral*lateral + vertical*vertical
	if r2 > shapeCutoff*shapeCutoff*c.widthSq {
		return 0
	}
	return c.centerlineDeficit * math.Exp(-3.56*r2/c.widthSq)
}

// AddedTurbulence returns the turbulence intensity added by the wake at
// the given lateral and vertical offsets [m] from the wake axis. It is
// uniform strictly inside the wake half-width and zero from the edge out.
func (c CrossSection) AddedTurbulence(lateral, vertical float64) float64 {
	if !c.present {
		return 0
	}
	if lateral*lateral+vertical*vertical >= c.widthSq {
		return 0
	}
	return c.addedTurbulence
}

// LateralProfile returns the velocity deficit at hub height at each of
// the lateral offsets [m].
func (c CrossSection) LateralProfile(offsets []float64) []float64 {
	out := make([]float64, len(offsets))
	for i, y := range offsets {
		out[i] = c.VelocityDeficit(y, 0)
	}
	return out
}
