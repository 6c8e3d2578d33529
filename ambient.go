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

// AmbientBin gives the free-stream conditions at each turbine of a farm
// for one wind direction and reference wind speed.
type AmbientBin interface {
	// Velocity returns the free-stream wind speed [m/s] at the turbine.
	Velocity(turbine string) (float64, error)

	// Turbulence returns the free-stream turbulence intensity at the
	// turbine.
	Turbulence(turbine string) (float64, error)
}

// AmbientConditions provides the AmbientBin for a wind direction
// [degrees] and reference wind speed [m/s].
type AmbientConditions interface {
	Bin(direction, referenceVelocity float64) (AmbientBin, error)
}

// FixedAmbient is the same at every turbine, in every direction.
type FixedAmbient struct {
	WindSpeed, TurbulenceIntensity float64
}

// Bin implements AmbientConditions. The reference velocity is ignored.
func (a FixedAmbient) Bin(float64, float64) (AmbientBin, error) { return a, nil }

// Velocity implements AmbientBin.
func (a FixedAmbient) Velocity(string) (float64, error) { return a.WindSpeed, nil }

// Turbulence implements AmbientBin.
func (a FixedAmbient) Turbulence(string) (float64, error) { return a.TurbulenceIntensity, nil }

// SectorAmbient has turbulence intensity varying by direction sector and
// wind speed scaled from the reference wind speed at each turbine.
type SectorAmbient struct {
	// Turbulence holds the turbulence intensity in each of the equal
	// direction sectors. The first sector is centered on north.
	Turbulence []float64

	// SpeedUps holds the ratio of each turbine's free-stream wind speed to
	// the reference wind speed. When it is nil every turbine sees the
	// reference wind speed; otherwise every turbine must be listed.
	SpeedUps map[string]float64
}

// Sector returns the index of the sector containing direction.
func (a SectorAmbient) Sector(direction float64) int {
	n := len(a.Turbulence)
	width := 360 / float64(n)
	d := math.Mod(direction+0.5*width, 360)
	if d < 0 {
		d += 360
	}
	return int(d/width) % n
}

// Bin implements AmbientConditions.
func (a SectorAmbient) Bin(direction, referenceVelocity float64) (AmbientBin, error) {
	if len(a.Turbulence) == 0 {
		return nil, fmt.Errorf("wake: sector ambient: %w: no sectors", ErrInvalidInput)
	}
	if !isFinite(direction) || !(referenceVelocity > 0) {
		return nil, fmt.Errorf("wake: sector ambient (direction %g, velocity %g): %w", direction, referenceVelocity, ErrInvalidInput)
	}
	return sectorBin{
		velocity:   referenceVelocity,
		turbulence: a.Turbulence[a.Sector(direction)],
		speedUps:   a.SpeedUps,
	}, nil
}

type sectorBin struct {
	velocity, turbulence float64
	speedUps             map[string]float64
}

func (b sectorBin) Velocity(turbine string) (float64, error) {
	if b.speedUps == nil {
		return b.velocity, nil
	}
	s, ok := b.speedUps[turbine]
	if !ok {
		return 0, fmt.Errorf("wake: ambient velocity for turbine %s: %w", turbine, ErrUnknownTurbine)
	}
	return s * b.velocity, nil
}

func (b sectorBin) Turbulence(string) (float64, error) { return b.turbulence, nil }
