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

// Package wakeutil contains the command-line interface for the mini-wake
// wind-farm wake model.
package wakeutil

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	wake "github.com/resgroup/mini-wake"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// modelSets are the commands that evaluate wakes.
	modelSets := []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags()}
	tableSets := []*pflag.FlagSet{runCmd.Flags(), profileCmd.Flags(), tableBuildCmd.Flags()}

	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "log-level",
			usage: `
              log-level is the minimum level of log messages to print:
              debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "log-format",
			usage: `
              log-format is the log message format, either text or json.`,
			defaultVal: "text",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "logfile",
			usage: `
              logfile is the path to the desired log file location. If it is
              left blank, the log file is saved next to the output file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "layout",
			usage: `
              layout is the path to the TOML file describing the turbines
              and the ambient conditions. It can include environment variables.`,
			shorthand:  "l",
			defaultVal: "",
			flagsets:   modelSets,
		},
		{
			name: "output",
			usage: `
              output is the path to the desired output shapefile location.
              It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "directions",
			usage: `
              directions are the wind directions to evaluate, in degrees
              clockwise from north that the wind blows from. The profile
              command uses the first one.`,
			shorthand:  "d",
			defaultVal: []string{"270"},
			flagsets:   modelSets,
		},
		{
			name: "reference-velocity",
			usage: `
              reference-velocity is the free-stream wind speed [m/s] that
              turbine speed-ups are relative to.`,
			shorthand:  "u",
			defaultVal: 10.0,
			flagsets:   modelSets,
		},
		{
			name: "meander",
			usage: `
              meander specifies whether to correct wakes for meandering.`,
			defaultVal: true,
			flagsets:   modelSets,
		},
		{
			name: "added-turbulence",
			usage: `
              added-turbulence specifies whether wakes add turbulence. If
              false, wakes change only the wind speed.`,
			defaultVal: true,
			flagsets:   modelSets,
		},
		{
			name: "control-surface",
			usage: `
              control-surface specifies whether to skip upwind wakes that
              are too far off the rotor axis to reach it.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "combination",
			usage: `
              combination is the rule combining overlapping velocity
              deficits: near-far, weighted or average.`,
			defaultVal: wake.NearFarSwitch.String(),
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "sections",
			usage: `
              sections is the number of points around the rotor at which
              wakes are sampled.`,
			defaultVal: wake.DefaultSections,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "table.file",
			usage: `
              table.file is the path of a velocity-deficit look-up table
              created by 'table build'. If it is set, deficits are interpolated
              from the table instead of being integrated directly.`,
			defaultVal: "",
			flagsets:   tableSets,
		},
		{
			name: "table.cachedir",
			usage: `
              table.cachedir is a directory holding look-up tables named for
              their axes. When table.file is not set, the table matching the
              table.* axes is read from here, and built first if missing.`,
			defaultVal: "",
			flagsets:   tableSets,
		},
		{
			name: "table.distance_step",
			usage: `
              table.distance_step is the table spacing in downwind distance
              [rotor diameters].`,
			defaultVal: wake.DefaultTableSpec().DistanceStep,
			flagsets:   tableSets,
		},
		{
			name: "table.max_distance",
			usage: `
              table.max_distance is the largest downwind distance in the table
              [rotor diameters].`,
			defaultVal: wake.DefaultTableSpec().MaxDistance,
			flagsets:   tableSets,
		},
		{
			name: "table.ct_step",
			usage: `
              table.ct_step is the table spacing in thrust coefficient.`,
			defaultVal: wake.DefaultTableSpec().ThrustCoefficientStep,
			flagsets:   tableSets,
		},
		{
			name: "table.max_ct",
			usage: `
              table.max_ct is the largest thrust coefficient in the table.`,
			defaultVal: wake.DefaultTableSpec().MaxThrustCoefficient,
			flagsets:   tableSets,
		},
		{
			name: "table.turbulence_step",
			usage: `
              table.turbulence_step is the table spacing in turbulence intensity.`,
			defaultVal: wake.DefaultTableSpec().TurbulenceStep,
			flagsets:   tableSets,
		},
		{
			name: "table.max_turbulence",
			usage: `
              table.max_turbulence is the largest turbulence intensity in the
              table. Higher turbulence intensities are clamped to it.`,
			defaultVal: wake.DefaultTableSpec().MaxTurbulence,
			flagsets:   tableSets,
		},
		{
			name: "turbine",
			usage: `
              turbine is the name of the turbine whose wake is profiled. The
              default is the first turbine in the layout.`,
			shorthand:  "t",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{profileCmd.Flags()},
		},
		{
			name: "distance",
			usage: `
              distance is the downwind distance [m] of the profile.`,
			defaultVal: 300.0,
			flagsets:   []*pflag.FlagSet{profileCmd.Flags()},
		},
		{
			name: "lateral-steps",
			usage: `
              lateral-steps is the number of profile points on each side of
              the wake axis.`,
			defaultVal: 20,
			flagsets:   []*pflag.FlagSet{profileCmd.Flags()},
		},
		{
			name: "max-lateral",
			usage: `
              max-lateral is the largest lateral offset of the profile
              [rotor diameters].`,
			defaultVal: 2.0,
			flagsets:   []*pflag.FlagSet{profileCmd.Flags()},
		},
		{
			name: "boundary-threshold",
			usage: `
              boundary-threshold is the velocity deficit below which the
              profile is considered to be outside the wake.`,
			defaultVal: 1e-4,
			flagsets:   []*pflag.FlagSet{profileCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("MINIWAKE")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(tableCmd)
	tableCmd.AddCommand(tableBuildCmd)
	Root.AddCommand(profileCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("wakeutil: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "miniwake",
	Short: "A steady-state wind-farm wake model.",
	Long: `miniwake predicts the wind speed and turbulence intensity at each turbine
of a wind farm, accounting for the wakes of the turbines upwind of it.
Use the subcommands specified below to access the model functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'MINIWAKE_var' where 'var' is
the name of the variable to be set, with '.' and '-' replaced by '_'.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of mini-wake.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("mini-wake v%s\n", wake.Version)
	},
	DisableAutoGenTag: true,
}

// logger returns a logger for cmd writing to its output and, if logFile is
// not empty, to logFile. The returned function closes the log file.
func logger(cmd *cobra.Command, logFile string) (*logrus.Logger, func() error, error) {
	var w io.Writer = cmd.OutOrStdout()
	closer := func() error { return nil }
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return nil, nil, fmt.Errorf("wakeutil: problem creating log file: %v", err)
		}
		w = io.MultiWriter(w, f)
		closer = f.Close
	}
	l, err := newLogger(w, Cfg.GetString("log-level"), Cfg.GetString("log-format"))
	if err != nil {
		if logFile != "" {
			closer()
		}
		return nil, nil, err
	}
	return l, closer, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the wind-farm wake model.",
	Long: `run calculates the waked wind speed and turbulence intensity at every
turbine in the layout for each of the given wind directions, and saves the
results as a point shapefile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("output"))
		if err != nil {
			return err
		}
		directions, err := floatSlice("directions", Cfg)
		if err != nil {
			return err
		}
		log, closeLog, err := logger(cmd, checkLogFile(Cfg.GetString("logfile"), outputFile))
		if err != nil {
			return err
		}
		defer closeLog()
		return Run(context.Background(), Cfg, log, Cfg.GetString("layout"), outputFile,
			directions, Cfg.GetFloat64("reference-velocity"))
	},
	DisableAutoGenTag: true,
}

// Run evaluates the wind farm described by layoutFile at each of the
// directions and writes the results to outputFile.
func Run(ctx context.Context, cfg *viper.Viper, log logrus.FieldLogger, layoutFile, outputFile string, directions []float64, referenceVelocity float64) error {
	startTime := time.Now()

	layout, err := ReadLayout(layoutFile)
	if err != nil {
		return err
	}
	solver, err := Solver(ctx, cfg, log)
	if err != nil {
		return err
	}
	opts, err := Options(cfg, solver)
	if err != nil {
		return err
	}
	farm, err := layout.WindFarm(referenceVelocity, opts)
	if err != nil {
		return err
	}
	farm.Log = log

	log.WithFields(logrus.Fields{
		"turbines":    len(layout.Turbines),
		"directions":  len(directions),
		"combination": opts.Combination,
	}).Info("calculating wakes")

	results, err := farm.CalculateDirections(ctx, directions, referenceVelocity)
	if err != nil {
		return err
	}
	for i, d := range directions {
		logResults(log, d, results[i])
	}
	if err := wake.WriteShapefile(outputFile, farm, directions, results); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"output":  outputFile,
		"elapsed": time.Since(startTime).String(),
	}).Info("run complete")
	return nil
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage velocity-deficit look-up tables.",
	Long: `table groups the commands that manage look-up tables of the centerline
velocity deficit, which are faster to evaluate than the deficit equation.`,
	DisableAutoGenTag: true,
}

var tableBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a velocity-deficit look-up table.",
	Long: `build integrates the centerline velocity deficit over the grid of thrust
coefficients, turbulence intensities and distances given by the table.* options
and saves it to table.file, or to a file in table.cachedir named for the axes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := tableFile(Cfg)
		if filename == "" {
			return fmt.Errorf("wakeutil: you need to specify --table.file or --table.cachedir")
		}
		log, closeLog, err := logger(cmd, "")
		if err != nil {
			return err
		}
		defer closeLog()
		_, err = BuildTable(context.Background(), Cfg, filename, log)
		return err
	},
	DisableAutoGenTag: true,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the lateral profile of a single wake.",
	Long: `profile prints the velocity deficit and added turbulence across the wake of
one turbine of the layout, at hub height and the given distance downwind, as
if no other turbine were present. It also reports where the wake edge is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		directions, err := floatSlice("directions", Cfg)
		if err != nil {
			return err
		}
		log, closeLog, err := logger(cmd, "")
		if err != nil {
			return err
		}
		defer closeLog()
		return Profile(context.Background(), cmd.OutOrStdout(), Cfg, log, Cfg.GetString("layout"),
			Cfg.GetString("turbine"), directions[0], Cfg.GetFloat64("reference-velocity"), Cfg.GetFloat64("distance"))
	},
	DisableAutoGenTag: true,
}

// Profile writes to w the lateral profile of the wake of the named turbine
// of the layout at distance [m] downwind. An empty name selects the first
// turbine.
func Profile(ctx context.Context, w io.Writer, cfg *viper.Viper, log logrus.FieldLogger, layoutFile, name string, direction, referenceVelocity, distance float64) error {
	layout, err := ReadLayout(layoutFile)
	if err != nil {
		return err
	}
	var lt *LayoutTurbine
	for i := range layout.Turbines {
		if name == "" || layout.Turbines[i].Name == name {
			lt = &layout.Turbines[i]
			break
		}
	}
	if lt == nil {
		return fmt.Errorf("wakeutil: turbine %s: %w", name, wake.ErrUnknownTurbine)
	}
	t, err := lt.Turbine()
	if err != nil {
		return err
	}
	bin, err := layout.Ambient.conditions(referenceVelocity).Bin(direction, referenceVelocity)
	if err != nil {
		return err
	}
	velocity, err := bin.Velocity(t.Name)
	if err != nil {
		return err
	}
	turbulence, err := bin.Turbulence(t.Name)
	if err != nil {
		return err
	}
	solver, err := Solver(ctx, cfg, log)
	if err != nil {
		return err
	}
	opts, err := Options(cfg, solver)
	if err != nil {
		return err
	}
	sw, err := wake.NewSingleWake(t, velocity, turbulence, turbulence, opts.Wake)
	if err != nil {
		return err
	}
	cs, err := sw.CrossSection(distance)
	if err != nil {
		return err
	}

	steps := cfg.GetInt("lateral-steps")
	if steps < 1 {
		return fmt.Errorf("wakeutil: lateral-steps must be at least 1, not %d", steps)
	}
	maxLateral := cfg.GetFloat64("max-lateral")
	edge, err := wake.BoundaryScan(sw, []float64{distance / t.Diameter}, steps, maxLateral, cfg.GetFloat64("boundary-threshold"))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "# turbine %s: velocity %g m/s, turbulence %g, thrust coefficient %g, near wake length %.2f m\n",
		t.Name, velocity, turbulence, sw.ThrustCoefficient(), sw.NearWakeLength())
	if !cs.Present() {
		fmt.Fprintf(w, "# no wake at %g m\n", distance)
	} else {
		fmt.Fprintf(w, "# distance %g D, centerline deficit %.6f, width %.3f m\n",
			cs.NormalizedDistance(), cs.CenterlineDeficit(), cs.Width())
	}
	if math.IsNaN(edge[0]) {
		fmt.Fprintf(w, "# wake edge beyond %g D\n", maxLateral)
	} else {
		fmt.Fprintf(w, "# wake edge %g D\n", edge[0])
	}
	fmt.Fprintln(w, "lateral_m\tdeficit\tadded_turbulence")
	offsets := make([]float64, 2*steps+1)
	for i := range offsets {
		offsets[i] = maxLateral * t.Diameter * float64(i-steps) / float64(steps)
	}
	for i, d := range cs.LateralProfile(offsets) {
		fmt.Fprintf(w, "%g\t%.6f\t%.6f\n", offsets[i], d, cs.AddedTurbulence(offsets[i], 0))
	}
	return nil
}
