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

// Meander holds the corrections applied to a wake to account for
// large-scale lateral wandering of the wake in the ambient flow. The
// centerline deficit is multiplied by Amplitude and the width by Width.
type Meander struct {
	Amplitude, Width float64
}

// MeanderFactor returns the amplitude correction for a wake at
// normalizedDistance rotor diameters downwind with half-width
// normalizedWidth rotor diameters, in the given ambient turbulence
// intensity. It is 1 at the rotor and decreases downwind.
func MeanderFactor(normalizedDistance, normalizedWidth, ambientTurbulence float64) float64 {
	r := 0.7 * ambientTurbulence * normalizedDistance / normalizedWidth
	return 1 / math.Sqrt(1+7.12*r*r)
}

// CalculateMeander returns the meander corrections for a wake.
func CalculateMeander(normalizedDistance, normalizedWidth, ambientTurbulence float64) Meander {
	f := MeanderFactor(normalizedDistance, normalizedWidth, ambientTurbulence)
	return Meander{Amplitude: f, Width: 1 / f}
}
