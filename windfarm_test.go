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
	"context"
	"errors"
	"testing"
)

func TestWindFarm(t *testing.T) {
	// T2 is listed first but is downwind for westerly wind.
	turbines := []Turbine{testTurbine("T2", 76, 0), testTurbine("T1", 0, 0)}
	f, err := NewWindFarm(turbines, FixedAmbient{WindSpeed: 9.5, TurbulenceIntensity: 0.1}, rotorCenterOptions())
	if err != nil {
		t.Fatal(err)
	}
	f.Log = quietLogger()
	r, err := f.Calculate(270, 9.5)
	if err != nil {
		t.Fatal(err)
	}
	if r[0].Turbine.Name != "T2" || r[1].Turbine.Name != "T1" {
		t.Fatalf("results should be in the original order: %s, %s", r[0].Turbine.Name, r[1].Turbine.Name)
	}
	if r[1].WakedVelocity != 9.5 {
		t.Errorf("upwind turbine velocity %g", r[1].WakedVelocity)
	}
	if different(r[0].WakedTurbulence, 0.204077306, 1e-6) {
		t.Errorf("waked turbulence: want 0.204077306 but have %g", r[0].WakedTurbulence)
	}

	// Easterly wind reverses the roles.
	r, err = f.Calculate(90, 9.5)
	if err != nil {
		t.Fatal(err)
	}
	if r[0].WakedVelocity != 9.5 || !(r[1].WakedVelocity < 9.5) {
		t.Errorf("easterly wind: T2 velocity %g, T1 velocity %g", r[0].WakedVelocity, r[1].WakedVelocity)
	}
}

func TestWindFarmCalculateDirections(t *testing.T) {
	turbines := []Turbine{testTurbine("T1", 0, 0), testTurbine("T2", 380, 0), testTurbine("T3", 0, 380)}
	f, err := NewWindFarm(turbines, FixedAmbient{WindSpeed: 10, TurbulenceIntensity: 0.1}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	f.Log = quietLogger()
	dirs := []float64{0, 90, 180, 270}
	all, err := f.CalculateDirections(context.Background(), dirs, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i, d := range dirs {
		want, err := f.Calculate(d, 10)
		if err != nil {
			t.Fatal(err)
		}
		for j := range want {
			if all[i][j].WakedVelocity != want[j].WakedVelocity {
				t.Errorf("direction %g turbine %d: %g != %g", d, j, all[i][j].WakedVelocity, want[j].WakedVelocity)
			}
		}
	}
	// T1 is directly upwind of T2 for westerly wind only.
	if !(all[3][1].WakedVelocity < 10) || all[1][1].WakedVelocity != 10 {
		t.Errorf("T2 velocity: westerly %g, easterly %g", all[3][1].WakedVelocity, all[1][1].WakedVelocity)
	}
}

func TestNewWindFarmDuplicate(t *testing.T) {
	turbines := []Turbine{testTurbine("T1", 0, 0), testTurbine("T1", 100, 0)}
	if _, err := NewWindFarm(turbines, FixedAmbient{}, DefaultOptions()); !errors.Is(err, ErrDuplicateTurbine) {
		t.Errorf("want duplicate turbine error but have %v", err)
	}
}
