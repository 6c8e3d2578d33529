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

// The near-wake length follows Vermeulen (1980): the distance behind the
// rotor over which the wake core is eroded by ambient, shear and
// mechanical turbulence.

// FlowFieldRatio returns the ratio of the velocity upwind of the rotor to
// the velocity in the fully expanded wake.
func FlowFieldRatio(thrustCoefficient float64) float64 {
	if thrustCoefficient > 0.8888 {
		return 3
	}
	return 1 / math.Sqrt(1-thrustCoefficient)
}

// AngularVelocity converts rotor speed in rpm to rad/s.
func AngularVelocity(rpm float64) float64 {
	return rpm * 2 * math.Pi / 60
}

// TipSpeedRatio returns the ratio of blade-tip speed to wind speed.
func TipSpeedRatio(angularVelocity, radius, velocity float64) float64 {
	return angularVelocity * radius / velocity
}

// AmbientErosionRate is the near-wake erosion rate due to ambient
// turbulence.
func AmbientErosionRate(turbulence float64) float64 {
	if turbulence < 0.02 {
		return 5 * turbulence
	}
	return 2.5*turbulence + 0.05
}

// ShearErosionRate is the near-wake erosion rate due to shear generated
// turbulence.
func ShearErosionRate(flowFieldRatio float64) float64 {
	m := flowFieldRatio
	return (1 - m) * math.Sqrt(1.49+m) / (9.76 * (1 + m))
}

// MechanicalErosionRate is the near-wake erosion rate due to turbulence
// shed by the blades.
func MechanicalErosionRate(blades int, tipSpeedRatio float64) float64 {
	return 0.012 * float64(blades) * tipSpeedRatio
}

// TotalErosionRate combines erosion rates as a root sum of squares.
func TotalErosionRate(ambient, shear, mechanical float64) float64 {
	return math.Sqrt(ambient*ambient + shear*shear + mechanical*mechanical)
}

// ExpandedRadius returns the radius of the fully expanded wake.
func ExpandedRadius(diameter, flowFieldRatio float64) float64 {
	return 0.5 * diameter * math.Sqrt((flowFieldRatio+1)/2)
}

func nearWakeN(flowFieldRatio float64) float64 {
	m := flowFieldRatio
	c1 := math.Sqrt(0.214 + 0.144*m)
	c2 := math.Sqrt(0.134 + 0.124*m)
	return c1 * (1 - c2) / ((1 - c1) * c2)
}

// GenericRPM estimates rotor speed for a rotor of the given diameter when
// the real value is unknown.
func GenericRPM(diameter float64) float64 {
	return 1600 / diameter
}

// NearWakeLength returns the length [m] of the near wake behind a rotor of
// the given diameter [m] and thrust coefficient, turning at rpm with the
// given number of blades, in wind of the given velocity [m/s] and
// turbulence intensity. An rpm of zero or less selects GenericRPM.
func NearWakeLength(diameter, thrustCoefficient, rpm float64, blades int, velocity, turbulence float64) float64 {
	if rpm <= 0 {
		rpm = GenericRPM(diameter)
	}
	m := FlowFieldRatio(thrustCoefficient)
	tsr := TipSpeedRatio(AngularVelocity(rpm), 0.5*diameter, velocity)
	rate := TotalErosionRate(
		AmbientErosionRate(turbulence),
		ShearErosionRate(m),
		MechanicalErosionRate(blades, tsr),
	)
	return nearWakeN(m) * ExpandedRadius(diameter, m) / rate
}
