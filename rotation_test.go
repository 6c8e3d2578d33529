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
	"testing"

	"github.com/ctessum/geom"
	"github.com/kr/pretty"
)

func TestRotateAndSort(t *testing.T) {
	turbines := []Turbine{
		{Name: "T1", Position: geom.Point{X: 400, Y: 200}},
		{Name: "T2", Position: geom.Point{X: 800, Y: 200}},
		{Name: "T3", Position: geom.Point{X: 300, Y: 200}},
	}
	r := RotateAndSort(270, turbines)
	want := []Turbine{
		{Name: "T3", Position: geom.Point{X: 0, Y: 0}},
		{Name: "T1", Position: geom.Point{X: 100, Y: 0}},
		{Name: "T2", Position: geom.Point{X: 500, Y: 0}},
	}
	if diff := pretty.Diff(r, want); len(diff) != 0 {
		t.Errorf("rotated turbines: %v", diff)
	}
	if turbines[0].Position.X != 400 {
		t.Error("input turbines should not be modified")
	}
}

func TestRotateAndSortNorth(t *testing.T) {
	// For northerly wind, the northern turbine is upwind.
	turbines := []Turbine{
		{Name: "S", Position: geom.Point{X: 0, Y: 0}},
		{Name: "N", Position: geom.Point{X: 0, Y: 500}},
		{Name: "E", Position: geom.Point{X: 300, Y: 0}},
	}
	r := RotateAndSort(0, turbines)
	if r[0].Name != "N" {
		t.Fatalf("want N upwind but have %s", r[0].Name)
	}
	if r[1].X() != r[2].X() || r[1].Name != "S" || r[2].Name != "E" {
		t.Errorf("turbines in the same row should share x and keep their order: %v", r)
	}
	if r[1].X() != 500 {
		t.Errorf("want 500 m separation but have %g", r[1].X())
	}
}
