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
	"errors"
	"math"
	"testing"
)

func TestSingleWake(t *testing.T) {
	w, err := NewSingleWake(testTurbine("T1", 0, 0), 9.5, 0.1, 0.1, WakeOptions{Solver: DefaultIntegrator()})
	if err != nil {
		t.Fatal(err)
	}
	if l := w.NearWakeLength(); different(l, 149.4116199, 1e-6) {
		t.Errorf("near-wake length: want 149.4116199 but have %v", l)
	}
	cs, err := w.CrossSection(76 * 4)
	if err != nil {
		t.Fatal(err)
	}
	if !cs.Present() {
		t.Fatal("wake should be present 4 diameters downwind")
	}
	if cs.NormalizedDistance() != 4 || cs.UpwindDiameter() != 76 {
		t.Errorf("distance %g and diameter %g", cs.NormalizedDistance(), cs.UpwindDiameter())
	}
	if absDifferent(cs.Width(), 71.20098095, 0.05) {
		t.Errorf("width: want 71.20098095 but have %v", cs.Width())
	}
	// Without meandering the width follows from the centerline deficit
	// alone, and the integrated deficit pins it well inside the band above.
	if want := 76 * Width(0.4, cs.CenterlineDeficit()); different(cs.Width(), want, 1e-12) {
		t.Errorf("width: want %v from the centerline deficit but have %v", want, cs.Width())
	}
	if absDifferent(cs.Width(), 71.2505, 0.002) {
		t.Errorf("width: want 71.2505 but have %v", cs.Width())
	}
	for _, c := range []struct{ lateral, deficit float64 }{
		{0, 0.229031},
		{28.5, 0.129473057},
	} {
		if d := cs.VelocityDeficit(c.lateral, 0); absDifferent(d, c.deficit, 0.0005) {
			t.Errorf("deficit at %g m: want %v but have %v", c.lateral, c.deficit, d)
		}
		if ti := cs.AddedTurbulence(c.lateral, 0); different(ti, 0.080722728, 1e-6) {
			t.Errorf("added turbulence at %g m: want 0.080722728 but have %v", c.lateral, ti)
		}
	}
	if d := cs.VelocityDeficit(2.01*cs.Width(), 0); d != 0 {
		t.Errorf("deficit beyond two widths should be 0 but is %g", d)
	}
	if ti := cs.AddedTurbulence(0, 1.01*cs.Width()); ti != 0 {
		t.Errorf("added turbulence outside the wake should be 0 but is %g", ti)
	}
	if ti := cs.AddedTurbulence(cs.Width(), 0); ti != 0 {
		t.Errorf("added turbulence at the wake edge should be 0 but is %g", ti)
	}
	if ti := cs.AddedTurbulence(0.999*cs.Width(), 0); ti != cs.AddedTurbulence(0, 0) {
		t.Errorf("added turbulence just inside the wake edge should be uniform but is %g", ti)
	}
	p := cs.LateralProfile([]float64{0, 28.5})
	if p[0] != cs.CenterlineDeficit() || p[1] != cs.VelocityDeficit(28.5, 0) {
		t.Errorf("lateral profile %v", p)
	}
}

func TestSingleWakeNoWake(t *testing.T) {
	w, err := NewSingleWake(testTurbine("T1", 0, 0), 9.5, 0.1, 0.1, DefaultWakeOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{0, -10} {
		cs, err := w.CrossSection(x)
		if err != nil {
			t.Fatal(err)
		}
		if cs.Present() || cs.VelocityDeficit(0, 0) != 0 || cs.AddedTurbulence(0, 0) != 0 {
			t.Errorf("there should be no wake %g m downwind", x)
		}
	}

	idle := testTurbine("T2", 0, 0)
	idle.ThrustCurve = FixedThrustCurve(0)
	w, err = NewSingleWake(idle, 9.5, 0.1, 0.1, DefaultWakeOptions())
	if err != nil {
		t.Fatal(err)
	}
	cs, err := w.CrossSection(300)
	if err != nil {
		t.Fatal(err)
	}
	if cs.Present() {
		t.Error("a rotor without thrust should have no wake")
	}
}

func TestSingleWakeMeander(t *testing.T) {
	plain, err := NewSingleWake(testTurbine("T1", 0, 0), 9.5, 0.1, 0.1, WakeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	meander, err := NewSingleWake(testTurbine("T1", 0, 0), 9.5, 0.1, 0.1, WakeOptions{Meander: true})
	if err != nil {
		t.Fatal(err)
	}
	a, err := plain.CrossSection(760)
	if err != nil {
		t.Fatal(err)
	}
	b, err := meander.CrossSection(760)
	if err != nil {
		t.Fatal(err)
	}
	if !(b.CenterlineDeficit() < a.CenterlineDeficit()) || !(b.Width() > a.Width()) {
		t.Errorf("meandering should lower and widen the wake: %g, %g -> %g, %g",
			a.CenterlineDeficit(), a.Width(), b.CenterlineDeficit(), b.Width())
	}
}

func TestSingleWakeDisableAddedTurbulence(t *testing.T) {
	w, err := NewSingleWake(testTurbine("T1", 0, 0), 9.5, 0.1, 0.1, WakeOptions{DisableAddedTurbulence: true})
	if err != nil {
		t.Fatal(err)
	}
	cs, err := w.CrossSection(300)
	if err != nil {
		t.Fatal(err)
	}
	if ti := cs.AddedTurbulence(0, 0); ti != 0 {
		t.Errorf("added turbulence should be disabled but is %g", ti)
	}
	if cs.VelocityDeficit(0, 0) == 0 {
		t.Error("velocity deficit should not be disabled")
	}
}

func TestNewSingleWakeInvalid(t *testing.T) {
	overloaded := testTurbine("T1", 0, 0)
	overloaded.ThrustCurve = FixedThrustCurve(1.2)
	for name, c := range map[string]struct {
		t                        Turbine
		velocity, local, ambient float64
	}{
		"thrust":     {overloaded, 9.5, 0.1, 0.1},
		"velocity":   {testTurbine("T1", 0, 0), 0, 0.1, 0.1},
		"turbulence": {testTurbine("T1", 0, 0), 9.5, -0.1, 0.1},
		"nan":        {testTurbine("T1", 0, 0), 9.5, 0.1, math.NaN()},
	} {
		if _, err := NewSingleWake(c.t, c.velocity, c.local, c.ambient, WakeOptions{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: want invalid input error but have %v", name, err)
		}
	}
}
