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
	"testing"
)

func TestBoundaryScan(t *testing.T) {
	w, err := NewSingleWake(testTurbine("T1", 0, 0), 9, 0.1, 0.1, DefaultWakeOptions())
	if err != nil {
		t.Fatal(err)
	}
	distances := []float64{2, 5, 10, 20}
	edges, err := BoundaryScan(w, distances, 100, 10, 1e-4)
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range edges {
		if math.IsNaN(e) || e <= 0 {
			t.Fatalf("distance %g: no wake edge found (%g)", distances[i], e)
		}
		if i > 0 && e < edges[i-1] {
			t.Errorf("wake should spread downwind: %v", edges)
		}
	}
	narrow, err := BoundaryScan(w, distances[:1], 10, 0.1, 1e-4)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(narrow[0]) {
		t.Errorf("edge beyond the scan should be NaN but is %g", narrow[0])
	}
}
