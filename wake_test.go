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
	"io/ioutil"
	"math"

	"github.com/sirupsen/logrus"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

// testTurbine is a 76 m rotor turning at 17 rpm with a constant thrust
// coefficient of 0.4.
func testTurbine(name string, x, y float64) Turbine {
	t := Turbine{
		Name:        name,
		HubHeight:   80,
		Diameter:    76,
		RPM:         17,
		ThrustCurve: FixedThrustCurve(0.4),
	}
	t.Position.X, t.Position.Y = x, y
	return t
}

// rotorCenterOptions evaluates wakes at the rotor center only, without
// meandering.
func rotorCenterOptions() Options {
	return Options{
		Wake:                 WakeOptions{Solver: DefaultIntegrator()},
		VelocityIntegrator:   RotorCenter{},
		TurbulenceIntegrator: RotorCenter{},
	}
}
