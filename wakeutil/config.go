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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/geom"
	"github.com/ctessum/unit"
	"github.com/lnashier/viper"
	wake "github.com/resgroup/mini-wake"
	"github.com/resgroup/mini-wake/internal/hash"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Layout describes a wind farm. It is read from a TOML file such as:
//
//	[[Turbines]]
//	Name = "T1"
//	Easting = 0.0
//	Northing = 0.0
//	HubHeight = 80.0
//	Diameter = 76.0
//	ThrustCoefficient = 0.4
//
//	[Ambient]
//	Turbulence = 0.1
type Layout struct {
	Turbines []LayoutTurbine

	Ambient LayoutAmbient
}

// LayoutTurbine is one turbine of a Layout. Positions and sizes are in
// meters.
type LayoutTurbine struct {
	Name                string
	Easting, Northing   float64
	HubHeight, Diameter float64

	// RPM is the rotor speed; zero selects a generic speed for the
	// diameter.
	RPM float64

	// Blades is the number of blades; zero means 3.
	Blades int

	// ThrustCoefficient is used when ThrustCurve is empty.
	ThrustCoefficient float64

	// ThrustCurve tabulates the thrust coefficient against wind speed in
	// m/s.
	ThrustCurve struct {
		WindSpeeds, ThrustCoefficients []float64
	}
}

// LayoutAmbient describes the free-stream conditions.
type LayoutAmbient struct {
	// Turbulence is the ambient turbulence intensity in every direction.
	Turbulence float64

	// SectorTurbulence, if given, holds the turbulence intensity for equal
	// direction sectors, the first centered on north. It overrides
	// Turbulence.
	SectorTurbulence []float64

	// SpeedUps holds the ratio of each turbine's free-stream wind speed to
	// the reference wind speed.
	SpeedUps map[string]float64
}

// ReadLayout reads and parses a TOML layout file. Environment variables in
// the file name are expanded.
func ReadLayout(filename string) (*Layout, error) {
	filename = os.ExpandEnv(filename)
	if filename == "" {
		return nil, fmt.Errorf("wakeutil: you need to specify a layout file (for example: --layout=farm.toml)")
	}
	l := new(Layout)
	if _, err := toml.DecodeFile(filename, l); err != nil {
		return nil, fmt.Errorf("wakeutil: there has been an error parsing the layout file %s: %v", filename, err)
	}
	if len(l.Turbines) == 0 {
		return nil, fmt.Errorf("wakeutil: layout file %s has no turbines", filename)
	}
	return l, nil
}

// Turbine converts t to a wake.Turbine.
func (t LayoutTurbine) Turbine() (wake.Turbine, error) {
	if t.Name == "" {
		return wake.Turbine{}, fmt.Errorf("wakeutil: turbine at (%g, %g) has no name", t.Easting, t.Northing)
	}
	if !(t.Diameter > 0) {
		return wake.Turbine{}, fmt.Errorf("wakeutil: turbine %s: diameter %.1f must be positive",
			t.Name, unit.New(t.Diameter, unit.Meter))
	}
	if t.HubHeight < 0 {
		return wake.Turbine{}, fmt.Errorf("wakeutil: turbine %s: hub height %.1f must not be negative",
			t.Name, unit.New(t.HubHeight, unit.Meter))
	}
	var curve wake.ThrustCurve
	if len(t.ThrustCurve.WindSpeeds) > 0 {
		c, err := wake.NewTabulatedThrustCurve(t.ThrustCurve.WindSpeeds, t.ThrustCurve.ThrustCoefficients)
		if err != nil {
			return wake.Turbine{}, fmt.Errorf("wakeutil: turbine %s: %v", t.Name, err)
		}
		curve = c
	} else {
		if t.ThrustCoefficient < 0 || t.ThrustCoefficient > 1 {
			return wake.Turbine{}, fmt.Errorf("wakeutil: turbine %s: thrust coefficient %g is outside [0, 1]",
				t.Name, t.ThrustCoefficient)
		}
		curve = wake.FixedThrustCurve(t.ThrustCoefficient)
	}
	return wake.Turbine{
		Name:        t.Name,
		Position:    geom.Point{X: t.Easting, Y: t.Northing},
		HubHeight:   t.HubHeight,
		Diameter:    t.Diameter,
		RPM:         t.RPM,
		Blades:      t.Blades,
		ThrustCurve: curve,
	}, nil
}

// WindFarm creates a wind farm from the layout, with ambient conditions
// scaled from referenceVelocity.
func (l *Layout) WindFarm(referenceVelocity float64, opts wake.Options) (*wake.WindFarm, error) {
	turbines := make([]wake.Turbine, len(l.Turbines))
	for i, lt := range l.Turbines {
		t, err := lt.Turbine()
		if err != nil {
			return nil, err
		}
		turbines[i] = t
	}
	return wake.NewWindFarm(turbines, l.Ambient.conditions(referenceVelocity), opts)
}

func (a LayoutAmbient) conditions(referenceVelocity float64) wake.AmbientConditions {
	if len(a.SectorTurbulence) > 0 {
		return wake.SectorAmbient{Turbulence: a.SectorTurbulence, SpeedUps: a.SpeedUps}
	}
	if a.SpeedUps != nil {
		return wake.SectorAmbient{Turbulence: []float64{a.Turbulence}, SpeedUps: a.SpeedUps}
	}
	return wake.FixedAmbient{WindSpeed: referenceVelocity, TurbulenceIntensity: a.Turbulence}
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`wakeutil: you need to specify an output file (for example: --output="wakes.shp")`)
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return f, fmt.Errorf("wakeutil: the output file directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return os.ExpandEnv(logFile)
}

// newLogger returns a logger writing to w at the configured level and in
// the configured format ("text" or "json").
func newLogger(w io.Writer, level, format string) (*logrus.Logger, error) {
	l := logrus.New()
	l.Out = w
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("wakeutil: %v", err)
	}
	l.Level = lvl
	switch format {
	case "text", "":
		l.Formatter = &logrus.TextFormatter{DisableColors: true}
	case "json":
		l.Formatter = &logrus.JSONFormatter{}
	default:
		return nil, fmt.Errorf("wakeutil: invalid log format %q; use text or json", format)
	}
	return l, nil
}

// floatSlice parses a list of numbers that may have been given as strings
// on the command line or as numbers in a configuration file.
func floatSlice(varName string, cfg *viper.Viper) ([]float64, error) {
	raw := cfg.Get(varName)
	var items []interface{}
	switch v := raw.(type) {
	case []interface{}:
		items = v
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []float64:
		return v, nil
	case string:
		for _, s := range strings.Split(v, ",") {
			items = append(items, s)
		}
	default:
		return nil, fmt.Errorf("wakeutil: invalid type for %s: %#v", varName, raw)
	}
	o := make([]float64, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			item = strings.TrimSpace(s)
			if item == "" {
				continue
			}
		}
		f, err := cast.ToFloat64E(item)
		if err != nil {
			return nil, fmt.Errorf("wakeutil: parsing %s: %v", varName, err)
		}
		o = append(o, f)
	}
	if len(o) == 0 {
		return nil, fmt.Errorf("wakeutil: %s is empty", varName)
	}
	return o, nil
}

// TableSpec returns the deficit table axes from the configuration.
func TableSpec(cfg *viper.Viper) wake.TableSpec {
	return wake.TableSpec{
		DistanceStep:          cfg.GetFloat64("table.distance_step"),
		MaxDistance:           cfg.GetFloat64("table.max_distance"),
		ThrustCoefficientStep: cfg.GetFloat64("table.ct_step"),
		MaxThrustCoefficient:  cfg.GetFloat64("table.max_ct"),
		TurbulenceStep:        cfg.GetFloat64("table.turbulence_step"),
		MaxTurbulence:         cfg.GetFloat64("table.max_turbulence"),
	}
}

// tableFile returns the configured table file, which is either given
// explicitly or derived from the table axes within the cache directory.
// It returns "" when no table is configured.
func tableFile(cfg *viper.Viper) string {
	if f := os.ExpandEnv(cfg.GetString("table.file")); f != "" {
		return f
	}
	if dir := os.ExpandEnv(cfg.GetString("table.cachedir")); dir != "" {
		return hash.CacheFile(dir, TableSpec(cfg), ".nc")
	}
	return ""
}

// loadTable opens a deficit table file.
func loadTable(filename string) (*wake.DeficitTable, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("wakeutil: opening deficit table: %v", err)
	}
	defer f.Close()
	return wake.LoadDeficitTable(f)
}

// BuildTable builds a deficit table with the configured axes and writes it
// to filename.
func BuildTable(ctx context.Context, cfg *viper.Viper, filename string, log logrus.FieldLogger) (*wake.DeficitTable, error) {
	t, err := wake.BuildDeficitTable(ctx, TableSpec(cfg), wake.DefaultIntegrator(), log)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(filename), os.ModePerm); err != nil {
		return nil, fmt.Errorf("wakeutil: creating table directory: %v", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("wakeutil: creating deficit table file: %v", err)
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("wakeutil: closing deficit table file: %v", err)
	}
	log.WithField("file", filename).Info("deficit table written")
	return t, nil
}

// Solver returns the velocity-deficit solver selected by the
// configuration. With a table file or cache directory configured, deficits
// are interpolated from a look-up table, which is built first if it is in
// the cache directory and does not yet exist. Otherwise the deficit equation
// is integrated directly. Either way, results are memoized.
func Solver(ctx context.Context, cfg *viper.Viper, log logrus.FieldLogger) (wake.DeficitSolver, error) {
	filename := tableFile(cfg)
	if filename == "" {
		log.Debug("integrating velocity deficits directly")
		return wake.NewCachedSolver(wake.DefaultIntegrator()), nil
	}
	var t *wake.DeficitTable
	_, statErr := os.Stat(filename)
	switch {
	case statErr == nil:
		var err error
		if t, err = loadTable(filename); err != nil {
			return nil, err
		}
		log.WithField("file", filename).Debug("deficit table loaded")
	case os.IsNotExist(statErr) && cfg.GetString("table.file") == "":
		log.WithFields(logrus.Fields{
			"file":    filename,
			"workers": runtime.GOMAXPROCS(-1),
		}).Info("building deficit table")
		var err error
		if t, err = BuildTable(ctx, cfg, filename, log); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("wakeutil: deficit table file: %v", statErr)
	}
	return wake.NewCachedSolver(wake.TableSolver{Table: t}), nil
}

// Options returns the wake model options selected by the configuration,
// using solver for the centerline deficit.
func Options(cfg *viper.Viper, solver wake.DeficitSolver) (wake.Options, error) {
	rule, err := wake.ParseCombinationRule(cfg.GetString("combination"))
	if err != nil {
		return wake.Options{}, err
	}
	sections := cfg.GetInt("sections")
	if sections < 1 {
		return wake.Options{}, fmt.Errorf("wakeutil: sections must be at least 1, not %d", sections)
	}
	o := wake.DefaultOptions()
	o.Wake.Solver = solver
	o.Wake.Meander = cfg.GetBool("meander")
	o.Wake.DisableAddedTurbulence = !cfg.GetBool("added-turbulence")
	o.DisableControlSurface = !cfg.GetBool("control-surface")
	o.Combination = rule
	o.VelocityIntegrator = wake.MeanEffectiveRadius{Sections: sections}
	o.TurbulenceIntegrator = wake.MaxEffectiveRadius{Sections: sections}
	return o, nil
}

// logResults writes the waked conditions at each turbine to log.
func logResults(log logrus.FieldLogger, direction float64, results []*wake.WakedTurbine) {
	for _, r := range results {
		log.WithFields(logrus.Fields{
			"direction":  direction,
			"turbine":    r.Turbine.Name,
			"ambient":    fmt.Sprintf("%.3f", unit.New(r.AmbientVelocity, unit.MeterPerSecond)),
			"waked":      fmt.Sprintf("%.3f", unit.New(r.WakedVelocity, unit.MeterPerSecond)),
			"turbulence": fmt.Sprintf("%.4f", r.WakedTurbulence),
			"near_wake":  fmt.Sprintf("%.1f", unit.New(r.NearWakeLength(), unit.Meter)),
			"impacting":  r.ImpactingWakes,
		}).Info("turbine")
	}
}
