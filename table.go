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
	"fmt"
	"math"
	"runtime"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// TableSpec specifies the axes of a centerline velocity-deficit look-up
// table. Each axis runs from zero to its maximum in steps of the given size.
type TableSpec struct {
	// DistanceStep and MaxDistance are in rotor diameters.
	DistanceStep, MaxDistance float64

	ThrustCoefficientStep, MaxThrustCoefficient float64

	TurbulenceStep, MaxTurbulence float64
}

// DefaultTableSpec returns the standard table resolution.
func DefaultTableSpec() TableSpec {
	return TableSpec{
		DistanceStep:          0.1,
		MaxDistance:           1000,
		ThrustCoefficientStep: 0.1,
		MaxThrustCoefficient:  1,
		TurbulenceStep:        0.1,
		MaxTurbulence:         0.4,
	}
}

func (s TableSpec) check() error {
	for _, v := range []struct {
		name      string
		step, max float64
	}{
		{"distance", s.DistanceStep, s.MaxDistance},
		{"thrust coefficient", s.ThrustCoefficientStep, s.MaxThrustCoefficient},
		{"turbulence", s.TurbulenceStep, s.MaxTurbulence},
	} {
		if !(v.step > 0) || !(v.max >= 0) || !isFinite(v.max) {
			return fmt.Errorf("wake: table %s axis (step=%g, max=%g): %w", v.name, v.step, v.max, ErrInvalidInput)
		}
	}
	return nil
}

// axis returns the values 0, step, 2*step, ... up to max.
func axis(step, max float64) []float64 {
	n := int(math.Round(max/step)) + 1
	if n == 1 {
		return []float64{0}
	}
	a := make([]float64, n)
	floats.Span(a, 0, max)
	a[n-1] = max
	return a
}

// DeficitTable holds precomputed centerline velocity deficits on a
// regular grid of thrust coefficient, turbulence intensity and distance.
type DeficitTable struct {
	thrustCoefficients, turbulences, distances []float64

	// deficits is indexed [thrust coefficient, turbulence, distance].
	deficits *sparse.DenseArray
}

// NewDeficitTable creates a table from its axes and values. The axes must
// be ascending and the shape of deficits must match them.
func NewDeficitTable(thrustCoefficients, turbulences, distances []float64, deficits *sparse.DenseArray) (*DeficitTable, error) {
	for name, a := range map[string][]float64{
		"thrust coefficient": thrustCoefficients,
		"turbulence":         turbulences,
		"distance":           distances,
	} {
		if len(a) == 0 {
			return nil, fmt.Errorf("wake: deficit table: %w: empty %s axis", ErrInvalidInput, name)
		}
		for i := 1; i < len(a); i++ {
			if !(a[i] > a[i-1]) {
				return nil, fmt.Errorf("wake: deficit table: %w: %s axis is not ascending", ErrInvalidInput, name)
			}
		}
	}
	shape := []int{len(thrustCoefficients), len(turbulences), len(distances)}
	if deficits == nil || len(deficits.Shape) != 3 {
		return nil, fmt.Errorf("wake: deficit table: %w: deficits must be three dimensional", ErrInvalidInput)
	}
	for i, n := range shape {
		if deficits.Shape[i] != n {
			return nil, fmt.Errorf("wake: deficit table: %w: deficit shape %v does not match axes %v", ErrInvalidInput, deficits.Shape, shape)
		}
	}
	return &DeficitTable{
		thrustCoefficients: thrustCoefficients,
		turbulences:        turbulences,
		distances:          distances,
		deficits:           deficits,
	}, nil
}

// BuildDeficitTable fills a table to spec by integrating the
// eddy-viscosity model with solver once per thrust coefficient and
// turbulence pair. Rows are computed concurrently.
func BuildDeficitTable(ctx context.Context, spec TableSpec, solver Integrator, log logrus.FieldLogger) (*DeficitTable, error) {
	if err := spec.check(); err != nil {
		return nil, err
	}
	cts := axis(spec.ThrustCoefficientStep, spec.MaxThrustCoefficient)
	tis := axis(spec.TurbulenceStep, spec.MaxTurbulence)
	xs := axis(spec.DistanceStep, spec.MaxDistance)
	d := sparse.ZerosDense(len(cts), len(tis), len(xs))

	log.WithFields(logrus.Fields{
		"thrust coefficients": len(cts),
		"turbulences":         len(tis),
		"distances":           len(xs),
	}).Info("building velocity deficit table")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(-1))
	for i, ct := range cts {
		if ct == 0 {
			continue // no thrust, no wake
		}
		for j, ti := range tis {
			i, j, ct, ti := i, j, ct, ti
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				row, err := solver.Profile(ct, ti, xs)
				if err != nil {
					return err
				}
				// Each goroutine owns a disjoint row.
				copy(d.Elements[d.Index1d(i, j, 0):], row)
				return nil
			})
		}
		log.WithField("thrust coefficient", ct).Debug("queued deficit table rows")
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("wake: building deficit table: %w", err)
	}
	log.Info("finished building velocity deficit table")
	return NewDeficitTable(cts, tis, xs, d)
}

// MaxDistance returns the largest distance in the table.
func (t *DeficitTable) MaxDistance() float64 { return t.distances[len(t.distances)-1] }

// MaxThrustCoefficient returns the largest thrust coefficient in the table.
func (t *DeficitTable) MaxThrustCoefficient() float64 {
	return t.thrustCoefficients[len(t.thrustCoefficients)-1]
}

// MaxTurbulence returns the largest turbulence intensity in the table.
func (t *DeficitTable) MaxTurbulence() float64 { return t.turbulences[len(t.turbulences)-1] }

// bracket returns the index of the lower grid point around v and the
// fractional position of v between it and the next.
func bracket(a []float64, v float64) (int, float64, bool) {
	last := len(a) - 1
	if !(v >= a[0] && v <= a[last]) {
		return 0, 0, false
	}
	switch {
	case last == 0:
		return 0, 0, true
	case v == a[last]:
		return last - 1, 1, true
	}
	i := floats.Within(a, v)
	return i, (v - a[i]) / (a[i+1] - a[i]), true
}

// Interpolate returns the trilinearly interpolated deficit at the given
// thrust coefficient, turbulence intensity and distance. It returns
// ErrOutOfBounds when a coordinate is outside of the table.
func (t *DeficitTable) Interpolate(thrustCoefficient, turbulence, distance float64) (float64, error) {
	i, fi, ok1 := bracket(t.thrustCoefficients, thrustCoefficient)
	j, fj, ok2 := bracket(t.turbulences, turbulence)
	k, fk, ok3 := bracket(t.distances, distance)
	if !ok1 || !ok2 || !ok3 {
		return 0, fmt.Errorf("wake: deficit table (ct=%g, ti=%g, x=%g): %w", thrustCoefficient, turbulence, distance, ErrOutOfBounds)
	}
	var v float64
	for _, ci := range [2]struct {
		idx int
		w   float64
	}{{i, 1 - fi}, {i + 1, fi}} {
		if ci.w == 0 {
			continue
		}
		for _, cj := range [2]struct {
			idx int
			w   float64
		}{{j, 1 - fj}, {j + 1, fj}} {
			if cj.w == 0 {
				continue
			}
			for _, ck := range [2]struct {
				idx int
				w   float64
			}{{k, 1 - fk}, {k + 1, fk}} {
				if ck.w == 0 {
					continue
				}
				v += ci.w * cj.w * ck.w * t.deficits.Get(ci.idx, cj.idx, ck.idx)
			}
		}
	}
	return v, nil
}

// TableSolver answers deficit queries from a DeficitTable. Thrust
// coefficients and turbulence intensities above the table are clamped to
// its maxima, and distances beyond it have no deficit.
type TableSolver struct {
	Table *DeficitTable
}

// VelocityDeficit implements DeficitSolver.
func (s TableSolver) VelocityDeficit(thrustCoefficient, distance, turbulence float64) (float64, error) {
	if math.IsNaN(thrustCoefficient) || math.IsNaN(distance) || math.IsNaN(turbulence) {
		return 0, fmt.Errorf("wake: deficit table (ct=%g, ti=%g, x=%g): %w", thrustCoefficient, turbulence, distance, ErrInvalidInput)
	}
	if distance > s.Table.MaxDistance() {
		return 0, nil
	}
	thrustCoefficient = math.Min(thrustCoefficient, s.Table.MaxThrustCoefficient())
	turbulence = math.Min(turbulence, s.Table.MaxTurbulence())
	return s.Table.Interpolate(thrustCoefficient, turbulence, distance)
}
