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

	"gonum.org/v1/gonum/floats"
)

// ProfileFunc returns a wake quantity at lateral and vertical offsets [m]
// from a rotor center, along with the number of wakes that contribute to
// it there.
type ProfileFunc func(lateral, vertical float64) (value float64, count int)

// RotorIntegrator reduces a ProfileFunc over a rotor disc of the given
// diameter [m] to a single value and wake count.
type RotorIntegrator interface {
	Integrate(diameter float64, f ProfileFunc) (float64, int)
}

// effectiveRadius is the fraction of the rotor radius at which the
// effective-radius integrators sample.
const effectiveRadius = 0.75

// DefaultSections is the number of points sampled around the effective
// radius when no other number is set.
const DefaultSections = 12

// sampleEffectiveRadius evaluates f at evenly spaced points around the
// circle of radius effectiveRadius times the rotor radius, returning the
// values and the largest count. A rotor too small to sample is evaluated
// at its center.
func sampleEffectiveRadius(sections int, diameter float64, f ProfileFunc) ([]float64, int) {
	if diameter < negligible {
		v, n := f(0, 0)
		return []float64{v}, n
	}
	if sections <= 0 {
		sections = DefaultSections
	}
	r := effectiveRadius * 0.5 * diameter
	values := make([]float64, sections)
	var count int
	for i := range values {
		theta := 2 * math.Pi * float64(i) / float64(sections)
		var n int
		values[i], n = f(r*math.Cos(theta), r*math.Sin(theta))
		if n > count {
			count = n
		}
	}
	return values, count
}

// MeanEffectiveRadius averages a profile around the effective radius of
// the rotor.
type MeanEffectiveRadius struct {
	// Sections is the number of sample points. Zero selects
	// DefaultSections.
	Sections int
}

// Integrate implements RotorIntegrator.
func (m MeanEffectiveRadius) Integrate(diameter float64, f ProfileFunc) (float64, int) {
	v, n := sampleEffectiveRadius(m.Sections, diameter, f)
	return floats.Sum(v) / float64(len(v)), n
}

// MaxEffectiveRadius takes the largest value of a profile around the
// effective radius of the rotor.
type MaxEffectiveRadius struct {
	// Sections is the number of sample points. Zero selects
	// DefaultSections.
	Sections int
}

// Integrate implements RotorIntegrator.
func (m MaxEffectiveRadius) Integrate(diameter float64, f ProfileFunc) (float64, int) {
	v, n := sampleEffectiveRadius(m.Sections, diameter, f)
	return floats.Max(v), n
}

// RotorCenter evaluates a profile at the rotor center only.
type RotorCenter struct{}

// Integrate implements RotorIntegrator.
func (RotorCenter) Integrate(_ float64, f ProfileFunc) (float64, int) {
	return f(0, 0)
}
