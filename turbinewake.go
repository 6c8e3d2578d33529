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

// Options configures how the wakes reaching a turbine are combined.
type Options struct {
	Wake WakeOptions

	Combination CombinationRule

	// VelocityIntegrator reduces the combined velocity deficit over the
	// rotor. Nil selects MeanEffectiveRadius.
	VelocityIntegrator RotorIntegrator

	// TurbulenceIntegrator reduces the combined added turbulence over the
	// rotor. Nil selects MaxEffectiveRadius.
	TurbulenceIntegrator RotorIntegrator

	// DisableControlSurface evaluates every upwind wake in full, rather
	// than skipping those that clearly cannot reach the rotor.
	DisableControlSurface bool
}

// DefaultOptions returns the standard wake options.
func DefaultOptions() Options {
	return Options{
		Wake:                 DefaultWakeOptions(),
		Combination:          NearFarSwitch,
		VelocityIntegrator:   MeanEffectiveRadius{Sections: DefaultSections},
		TurbulenceIntegrator: MaxEffectiveRadius{Sections: DefaultSections},
	}
}

func (o Options) velocityIntegrator() RotorIntegrator {
	if o.VelocityIntegrator == nil {
		return MeanEffectiveRadius{}
	}
	return o.VelocityIntegrator
}

func (o Options) turbulenceIntegrator() RotorIntegrator {
	if o.TurbulenceIntegrator == nil {
		return MaxEffectiveRadius{}
	}
	return o.TurbulenceIntegrator
}

// WakeAtRotorCenter is an upwind wake cross section positioned relative
// to the center of a downwind rotor.
type WakeAtRotorCenter struct {
	CrossSection

	// Lateral and Vertical are the offsets [m] of the rotor center from
	// the wake axis.
	Lateral, Vertical float64
}

func (w WakeAtRotorCenter) velocityDeficit(lateral, vertical float64) float64 {
	return w.CrossSection.VelocityDeficit(w.Lateral+lateral, w.Vertical+vertical)
}

func (w WakeAtRotorCenter) addedTurbulence(lateral, vertical float64) float64 {
	return w.CrossSection.AddedTurbulence(w.Lateral+lateral, w.Vertical+vertical)
}

func (w WakeAtRotorCenter) normalizedLateral(lateral float64) float64 {
	return (w.Lateral + lateral) / w.UpwindDiameter()
}

// TurbineWake collects the wakes of upwind turbines reaching one turbine.
// Once every upwind wake has been added, Calculate resolves it into a
// WakedTurbine. A TurbineWake is not safe for concurrent use.
type TurbineWake struct {
	turbine           Turbine
	ambientVelocity   float64
	ambientTurbulence float64
	opts              Options

	wakes []WakeAtRotorCenter

	// lastX is the position of the most recently added upwind turbine.
	lastX      float64
	calculated bool
}

// NewTurbineWake starts the wake calculation for turbine t in a free
// stream of ambientVelocity [m/s] and ambientTurbulence.
func NewTurbineWake(t Turbine, ambientVelocity, ambientTurbulence float64, opts Options) (*TurbineWake, error) {
	if !(ambientVelocity > 0) || !isFinite(ambientVelocity) {
		return nil, fmt.Errorf("wake: turbine %s: %w: ambient velocity %g must be positive", t.Name, ErrInvalidInput, ambientVelocity)
	}
	if !(ambientTurbulence >= 0) || !isFinite(ambientTurbulence) {
		return nil, fmt.Errorf("wake: turbine %s: %w: ambient turbulence %g must be non-negative", t.Name, ErrInvalidInput, ambientTurbulence)
	}
	return &TurbineWake{
		turbine:           t,
		ambientVelocity:   ambientVelocity,
		ambientTurbulence: ambientTurbulence,
		opts:              opts,
		lastX:             math.Inf(-1),
	}, nil
}

// Turbine returns the turbine receiving the wakes.
func (w *TurbineWake) Turbine() Turbine { return w.turbine }

// Wakes returns the wakes added so far.
func (w *TurbineWake) Wakes() []WakeAtRotorCenter { return w.wakes }

// AddWake adds the wake of the resolved upwind turbine. Upwind turbines
// must be added in upwind-to-downwind order and must be strictly upwind
// of this one.
func (w *TurbineWake) AddWake(upwind *WakedTurbine) error {
	if w.calculated {
		return fmt.Errorf("wake: adding wake to turbine %s: %w", w.turbine.Name, ErrAlreadyCalculated)
	}
	if upwind == nil {
		return fmt.Errorf("wake: adding wake to turbine %s: %w: nil upwind turbine", w.turbine.Name, ErrInvalidInput)
	}
	x := upwind.Turbine.X()
	if x < w.lastX {
		return fmt.Errorf("wake: adding wake of turbine %s to turbine %s: %w", upwind.Turbine.Name, w.turbine.Name, ErrOutOfOrder)
	}
	separation := w.turbine.X() - x
	if !(separation > 0) {
		return fmt.Errorf("wake: adding wake of turbine %s to turbine %s: %w (separation %g m)",
			upwind.Turbine.Name, w.turbine.Name, ErrNotUpwind, separation)
	}
	lateral := w.turbine.Position.Y - upwind.Turbine.Position.Y
	vertical := w.turbine.HubHeight - upwind.Turbine.HubHeight

	var cs CrossSection
	if !w.opts.DisableControlSurface && outsideControlSurface(separation, lateral, vertical,
		upwind.Turbine.Diameter, w.turbine.Diameter, upwind.WakedTurbulence) {
		cs = NoWake(separation/upwind.Turbine.Diameter, upwind.Turbine.Diameter)
	} else {
		var err error
		cs, err = upwind.CrossSection(separation)
		if err != nil {
			return fmt.Errorf("wake: adding wake of turbine %s to turbine %s: %w", upwind.Turbine.Name, w.turbine.Name, err)
		}
	}
	w.lastX = x
	w.wakes = append(w.wakes, WakeAtRotorCenter{CrossSection: cs, Lateral: lateral, Vertical: vertical})
	return nil
}

// outsideControlSurface reports whether a downwind rotor lies clearly
// outside of the region an upwind wake can spread into. The boundary
// grows linearly downwind at a rate set by the turbulence at the upwind
// rotor.
func outsideControlSurface(separation, lateral, vertical, upwindDiameter, downwindDiameter, turbulence float64) bool {
	if upwindDiameter < negligible {
		return true
	}
	gap := (math.Hypot(lateral, vertical) - 0.5*downwindDiameter) / upwindDiameter
	bound := 2 + 2.4*math.Max(turbulence, 0.02)*separation/upwindDiameter
	return gap > bound
}

func (w *TurbineWake) velocityDeficitAt(lateral, vertical float64) (float64, int) {
	c := w.opts.Combination.NewVelocityDeficitCombiner()
	for _, wk := range w.wakes {
		c.Add(wk.velocityDeficit(lateral, vertical), wk.NormalizedDistance(), wk.normalizedLateral(lateral))
	}
	return c.Value(), c.ImpactingWakes()
}

func (w *TurbineWake) addedTurbulenceAt(lateral, vertical float64) (float64, int) {
	var c AddedTurbulenceCombiner
	for _, wk := range w.wakes {
		c.Add(wk.addedTurbulence(lateral, vertical))
	}
	return c.Value(), 0
}

// Calculate combines the added wakes over the rotor and returns the
// resolved turbine. It may be called only once.
func (w *TurbineWake) Calculate() (*WakedTurbine, error) {
	if w.calculated {
		return nil, fmt.Errorf("wake: calculating turbine %s: %w", w.turbine.Name, ErrAlreadyCalculated)
	}
	d := w.turbine.Diameter
	deficit, impacting := w.opts.velocityIntegrator().Integrate(d, w.velocityDeficitAt)
	added, _ := w.opts.turbulenceIntegrator().Integrate(d, w.addedTurbulenceAt)
	if !(deficit < 1) {
		return nil, fmt.Errorf("wake: calculating turbine %s: %w (deficit %g from %d wakes under the %s rule)",
			w.turbine.Name, ErrFlowStopped, deficit, len(w.wakes), w.opts.Combination)
	}

	r := &WakedTurbine{
		Turbine:           w.turbine,
		AmbientVelocity:   w.ambientVelocity,
		AmbientTurbulence: w.ambientTurbulence,
		VelocityDeficit:   deficit,
		AddedTurbulence:   added,
		ImpactingWakes:    impacting,
		WakedVelocity:     w.ambientVelocity * (1 - deficit),
		WakedTurbulence:   math.Hypot(added, w.ambientTurbulence),
	}
	var err error
	r.wake, err = NewSingleWake(w.turbine, r.WakedVelocity, r.WakedTurbulence, w.ambientTurbulence, w.opts.Wake)
	if err != nil {
		return nil, fmt.Errorf("wake: calculating turbine %s: %w", w.turbine.Name, err)
	}
	w.calculated = true
	return r, nil
}

// WakedTurbine is a turbine whose incoming wakes have been resolved.
type WakedTurbine struct {
	Turbine Turbine

	AmbientVelocity, AmbientTurbulence float64

	// WakedVelocity [m/s] and WakedTurbulence are the conditions at the
	// rotor after the upwind wakes have been applied.
	WakedVelocity, WakedTurbulence float64

	// VelocityDeficit is the rotor-averaged combined velocity deficit and
	// AddedTurbulence is the rotor-maximum combined added turbulence.
	VelocityDeficit, AddedTurbulence float64

	// ImpactingWakes is the number of upwind wakes with a significant
	// deficit at the rotor.
	ImpactingWakes int

	wake *SingleWake
}

// ThrustCoefficient returns the thrust coefficient at the waked velocity.
func (w *WakedTurbine) ThrustCoefficient() float64 { return w.wake.ThrustCoefficient() }

// NearWakeLength returns the near-wake length [m] of the turbine's own wake.
func (w *WakedTurbine) NearWakeLength() float64 { return w.wake.NearWakeLength() }

// Wake returns the turbine's own wake.
func (w *WakedTurbine) Wake() *SingleWake { return w.wake }

// CrossSection returns the turbine's own wake at distance [m] downwind.
func (w *WakedTurbine) CrossSection(distance float64) (CrossSection, error) {
	return w.wake.CrossSection(distance)
}
