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

package wakeutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kr/pretty"
	"github.com/lnashier/viper"
	wake "github.com/resgroup/mini-wake"
	"github.com/resgroup/mini-wake/internal/hash"
)

const testLayout = `
[[Turbines]]
Name = "T1"
Easting = 0.0
Northing = 0.0
HubHeight = 80.0
Diameter = 76.0
RPM = 17.0
ThrustCoefficient = 0.4

[[Turbines]]
Name = "T2"
Easting = 304.0
Northing = 0.0
HubHeight = 80.0
Diameter = 76.0
RPM = 17.0

[Turbines.ThrustCurve]
WindSpeeds = [4.0, 10.0, 25.0]
ThrustCoefficients = [0.8, 0.4, 0.1]

[Ambient]
Turbulence = 0.1
`

// writeLayout writes contents to a layout file in a temporary directory.
func writeLayout(t *testing.T, contents string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "layout.toml")
	if err := os.WriteFile(f, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestReadLayout(t *testing.T) {
	l, err := ReadLayout(writeLayout(t, testLayout))
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Turbines) != 2 {
		t.Fatalf("%d turbines, want 2", len(l.Turbines))
	}
	if l.Ambient.Turbulence != 0.1 {
		t.Errorf("ambient turbulence %g", l.Ambient.Turbulence)
	}
	t1, err := l.Turbines[0].Turbine()
	if err != nil {
		t.Fatal(err)
	}
	if t1.ThrustCoefficient(10) != 0.4 || t1.Diameter != 76 || t1.RPM != 17 {
		t.Errorf("turbine 1: %# v", pretty.Formatter(t1))
	}
	t2, err := l.Turbines[1].Turbine()
	if err != nil {
		t.Fatal(err)
	}
	if t2.Position.X != 304 || t2.Position.Y != 0 {
		t.Errorf("turbine 2 position %v", t2.Position)
	}
	for _, c := range []struct{ v, ct float64 }{{4, 0.8}, {10, 0.4}, {30, 0.1}} {
		if got := t2.ThrustCoefficient(c.v); got != c.ct {
			t.Errorf("turbine 2 thrust coefficient at %g m/s = %g, want %g", c.v, got, c.ct)
		}
	}
}

func TestReadLayoutErrors(t *testing.T) {
	if _, err := ReadLayout(""); err == nil {
		t.Error("empty file name should fail")
	}
	if _, err := ReadLayout(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := ReadLayout(writeLayout(t, "[Ambient]\nTurbulence = 0.1\n")); err == nil {
		t.Error("layout without turbines should fail")
	}
	if _, err := ReadLayout(writeLayout(t, "[[Turbines]\n")); err == nil {
		t.Error("malformed layout should fail")
	}
}

func TestLayoutTurbineInvalid(t *testing.T) {
	valid := LayoutTurbine{Name: "T", HubHeight: 80, Diameter: 76, ThrustCoefficient: 0.5}
	if _, err := valid.Turbine(); err != nil {
		t.Fatal(err)
	}
	tests := map[string]func(lt *LayoutTurbine){
		"no name":       func(lt *LayoutTurbine) { lt.Name = "" },
		"zero diameter": func(lt *LayoutTurbine) { lt.Diameter = 0 },
		"negative hub":  func(lt *LayoutTurbine) { lt.HubHeight = -1 },
		"thrust > 1":    func(lt *LayoutTurbine) { lt.ThrustCoefficient = 1.5 },
		"bad curve": func(lt *LayoutTurbine) {
			lt.ThrustCurve.WindSpeeds = []float64{10, 5}
			lt.ThrustCurve.ThrustCoefficients = []float64{0.5, 0.6}
		},
	}
	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			lt := valid
			modify(&lt)
			if _, err := lt.Turbine(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestAmbientConditions(t *testing.T) {
	t.Run("fixed", func(t *testing.T) {
		bin, err := LayoutAmbient{Turbulence: 0.08}.conditions(9).Bin(123, 9)
		if err != nil {
			t.Fatal(err)
		}
		v, _ := bin.Velocity("any")
		ti, _ := bin.Turbulence("any")
		if v != 9 || ti != 0.08 {
			t.Errorf("velocity %g, turbulence %g", v, ti)
		}
	})
	t.Run("sectors", func(t *testing.T) {
		a := LayoutAmbient{
			SectorTurbulence: []float64{0.1, 0.2, 0.3, 0.4},
			SpeedUps:         map[string]float64{"T1": 1.1},
		}
		bin, err := a.conditions(10).Bin(90, 10)
		if err != nil {
			t.Fatal(err)
		}
		v, err := bin.Velocity("T1")
		if err != nil {
			t.Fatal(err)
		}
		ti, _ := bin.Turbulence("T1")
		if absDifferent(v, 11, 1e-12) || ti != 0.2 {
			t.Errorf("velocity %g, turbulence %g", v, ti)
		}
		if _, err := bin.Velocity("T9"); err == nil {
			t.Error("turbine without a speed-up should fail")
		}
	})
	t.Run("speed-ups only", func(t *testing.T) {
		a := LayoutAmbient{Turbulence: 0.05, SpeedUps: map[string]float64{"T1": 0.9}}
		bin, err := a.conditions(10).Bin(0, 10)
		if err != nil {
			t.Fatal(err)
		}
		v, _ := bin.Velocity("T1")
		ti, _ := bin.Turbulence("T1")
		if absDifferent(v, 9, 1e-12) || ti != 0.05 {
			t.Errorf("velocity %g, turbulence %g", v, ti)
		}
	})
}

func TestFloatSlice(t *testing.T) {
	tests := []struct {
		in   interface{}
		want []float64
	}{
		{in: []string{"270", " 90.5"}, want: []float64{270, 90.5}},
		{in: "0,180", want: []float64{0, 180}},
		{in: []interface{}{int64(45), 135.0}, want: []float64{45, 135}},
		{in: []float64{1, 2}, want: []float64{1, 2}},
	}
	for _, test := range tests {
		cfg := viper.New()
		cfg.Set("directions", test.in)
		got, err := floatSlice("directions", cfg)
		if err != nil {
			t.Errorf("%#v: %v", test.in, err)
			continue
		}
		if diff := pretty.Diff(got, test.want); len(diff) > 0 {
			t.Errorf("%#v: %v", test.in, diff)
		}
	}
	for _, bad := range []interface{}{"north", "", 12} {
		cfg := viper.New()
		cfg.Set("directions", bad)
		if _, err := floatSlice("directions", cfg); err == nil {
			t.Errorf("%#v should fail", bad)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var b bytes.Buffer
	l, err := newLogger(&b, "debug", "json")
	if err != nil {
		t.Fatal(err)
	}
	l.WithField("turbine", "T1").Debug("checked")
	var entry map[string]interface{}
	if err := json.Unmarshal(b.Bytes(), &entry); err != nil {
		t.Fatalf("log output %q is not json: %v", b.String(), err)
	}
	if entry["turbine"] != "T1" || entry["msg"] != "checked" {
		t.Errorf("entry %v", entry)
	}

	b.Reset()
	l, err = newLogger(&b, "warning", "text")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	if b.Len() != 0 {
		t.Errorf("info message printed at warning level: %q", b.String())
	}

	if _, err := newLogger(&b, "loud", "text"); err == nil {
		t.Error("invalid level should fail")
	}
	if _, err := newLogger(&b, "info", "xml"); err == nil {
		t.Error("invalid format should fail")
	}
}

func TestOptions(t *testing.T) {
	cfg := viper.New()
	cfg.Set("combination", "average")
	cfg.Set("sections", 4)
	cfg.Set("meander", false)
	cfg.Set("added-turbulence", true)
	cfg.Set("control-surface", false)
	solver := wake.DefaultIntegrator()
	o, err := Options(cfg, solver)
	if err != nil {
		t.Fatal(err)
	}
	want := wake.Options{
		Wake:                  wake.WakeOptions{Solver: solver},
		Combination:           wake.StraightAverage,
		VelocityIntegrator:    wake.MeanEffectiveRadius{Sections: 4},
		TurbulenceIntegrator:  wake.MaxEffectiveRadius{Sections: 4},
		DisableControlSurface: true,
	}
	if diff := pretty.Diff(o, want); len(diff) > 0 {
		t.Error(diff)
	}

	cfg.Set("combination", "loudest")
	if _, err := Options(cfg, solver); err == nil {
		t.Error("unknown combination should fail")
	}
	cfg.Set("combination", "near-far")
	cfg.Set("sections", 0)
	if _, err := Options(cfg, solver); err == nil {
		t.Error("zero sections should fail")
	}
}

func TestTableFile(t *testing.T) {
	cfg := viper.New()
	if f := tableFile(cfg); f != "" {
		t.Errorf("no table configured, got %s", f)
	}
	cfg.Set("table.cachedir", "cache")
	cfg.Set("table.distance_step", 0.5)
	cfg.Set("table.max_distance", 10.0)
	cfg.Set("table.ct_step", 0.5)
	cfg.Set("table.max_ct", 1.0)
	cfg.Set("table.turbulence_step", 0.1)
	cfg.Set("table.max_turbulence", 0.2)
	want := hash.CacheFile("cache", wake.TableSpec{
		DistanceStep: 0.5, MaxDistance: 10,
		ThrustCoefficientStep: 0.5, MaxThrustCoefficient: 1,
		TurbulenceStep: 0.1, MaxTurbulence: 0.2,
	}, ".nc")
	if f := tableFile(cfg); f != want {
		t.Errorf("%s != %s", f, want)
	}
	cfg.Set("table.file", "deficits.nc")
	if f := tableFile(cfg); f != "deficits.nc" {
		t.Errorf("explicit table file ignored: %s", f)
	}
}

func TestCheckOutputFile(t *testing.T) {
	if _, err := checkOutputFile(""); err == nil {
		t.Error("empty output file should fail")
	}
	if _, err := checkOutputFile(filepath.Join(t.TempDir(), "missing", "out.shp")); err == nil {
		t.Error("missing output directory should fail")
	}
	f := filepath.Join(t.TempDir(), "out.shp")
	if got, err := checkOutputFile(f); err != nil || got != f {
		t.Errorf("%s, %v", got, err)
	}
	if lf := checkLogFile("", f); lf != filepath.Join(filepath.Dir(f), "out.log") {
		t.Errorf("log file %s", lf)
	}
}

func absDifferent(a, b, tolerance float64) bool {
	d := a - b
	return d > tolerance || -d > tolerance
}
