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

import "fmt"

// WindFarmWake resolves the wakes of turbines, which must already be
// rotated so that the wind blows along +X and sorted upwind to downwind.
// Each turbine receives the wakes of every turbine strictly upwind of it.
// Results are in the order of turbines.
func WindFarmWake(turbines []Turbine, ambient AmbientBin, opts Options) ([]*WakedTurbine, error) {
	out := make([]*WakedTurbine, 0, len(turbines))
	for i, t := range turbines {
		if i > 0 && t.X() < turbines[i-1].X() {
			return nil, fmt.Errorf("wake: turbine %s is upwind of turbine %s: %w", t.Name, turbines[i-1].Name, ErrOutOfOrder)
		}
		v, err := ambient.Velocity(t.Name)
		if err != nil {
			return nil, err
		}
		ti, err := ambient.Turbulence(t.Name)
		if err != nil {
			return nil, err
		}
		tw, err := NewTurbineWake(t, v, ti, opts)
		if err != nil {
			return nil, err
		}
		for _, up := range out {
			if up.Turbine.X() >= t.X() {
				break // side by side
			}
			if err := tw.AddWake(up); err != nil {
				return nil, err
			}
		}
		r, err := tw.Calculate()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
