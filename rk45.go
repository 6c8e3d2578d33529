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

// Dormand-Prince 5(4) tableau.
const (
	dpC2, dpC3, dpC4, dpC5 = 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9

	dpA21 = 1.0 / 5

	dpA31, dpA32 = 3.0 / 40, 9.0 / 40

	dpA41, dpA42, dpA43 = 44.0 / 45, -56.0 / 15, 32.0 / 9

	dpA51, dpA52, dpA53, dpA54 = 19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729

	dpA61, dpA62, dpA63, dpA64, dpA65 = 9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656

	dpB1, dpB3, dpB4, dpB5, dpB6 = 35.0 / 384, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84

	dpE1, dpE3, dpE4, dpE5, dpE6, dpE7 = -71.0 / 57600, 71.0 / 16695, -71.0 / 1920, 17253.0 / 339200, -22.0 / 525, 1.0 / 40
)

const (
	stepSafety    = 0.9
	stepMinFactor = 0.2
	stepMaxFactor = 10
)

// dormandPrince is an adaptive explicit Runge-Kutta stepper for a scalar
// ordinary differential equation dy/dx = f(x, y), integrating towards
// bound.
type dormandPrince struct {
	f          func(x, y float64) float64
	x, y       float64
	h, maxStep float64
	rtol, atol float64
	bound      float64
	k1         float64 // f(x, y)
}

func newDormandPrince(f func(x, y float64) float64, x0, y0, bound, firstStep, maxStep, rtol, atol float64) *dormandPrince {
	return &dormandPrince{
		f: f, x: x0, y: y0,
		h: firstStep, maxStep: maxStep,
		rtol: rtol, atol: atol,
		bound: bound,
		k1:    f(x0, y0),
	}
}

// step advances by one accepted step, shrinking the step size until the
// local error estimate is within tolerance.
func (m *dormandPrince) step() error {
	minStep := 10 * (math.Nextafter(m.x, math.Inf(1)) - m.x)
	for {
		h := math.Min(m.h, m.maxStep)
		if !(h >= minStep) {
			return ErrNumericalBreakdown
		}
		xNew := m.x + h
		if xNew >= m.bound {
			xNew = m.bound
			h = m.bound - m.x
		}
		x, y, k1 := m.x, m.y, m.k1
		k2 := m.f(x+dpC2*h, y+h*dpA21*k1)
		k3 := m.f(x+dpC3*h, y+h*(dpA31*k1+dpA32*k2))
		k4 := m.f(x+dpC4*h, y+h*(dpA41*k1+dpA42*k2+dpA43*k3))
		k5 := m.f(x+dpC5*h, y+h*(dpA51*k1+dpA52*k2+dpA53*k3+dpA54*k4))
		k6 := m.f(x+h, y+h*(dpA61*k1+dpA62*k2+dpA63*k3+dpA64*k4+dpA65*k5))
		yNew := y + h*(dpB1*k1+dpB3*k3+dpB4*k4+dpB5*k5+dpB6*k6)
		k7 := m.f(xNew, yNew)

		errEst := h * (dpE1*k1 + dpE3*k3 + dpE4*k4 + dpE5*k5 + dpE6*k6 + dpE7*k7)
		scale := m.atol + math.Max(math.Abs(y), math.Abs(yNew))*m.rtol
		norm := math.Abs(errEst) / scale
		if !isFinite(norm) {
			m.h = h * stepMinFactor
			continue
		}
		if norm < 1 {
			factor := float64(stepMaxFactor)
			if norm > 0 {
				factor = math.Min(stepMaxFactor, stepSafety*math.Pow(norm, -0.2))
			}
			m.x, m.y, m.k1 = xNew, yNew, k7
			m.h = h * factor
			return nil
		}
		m.h = h * math.Max(stepMinFactor, stepSafety*math.Pow(norm, -0.2))
	}
}
