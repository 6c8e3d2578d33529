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
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// WindFarm evaluates the wakes of a fixed set of turbines for any wind
// direction. It is safe for concurrent use.
type WindFarm struct {
	turbines []Turbine
	ambient  AmbientConditions
	opts     Options

	// Log receives progress messages. It defaults to the standard logrus
	// logger.
	Log logrus.FieldLogger

	mu      sync.Mutex
	rotated map[float64][]Turbine
}

// NewWindFarm creates a wind farm. Turbine names must be unique.
func NewWindFarm(turbines []Turbine, ambient AmbientConditions, opts Options) (*WindFarm, error) {
	names := make(map[string]struct{}, len(turbines))
	for _, t := range turbines {
		if _, ok := names[t.Name]; ok {
			return nil, fmt.Errorf("wake: turbine name %q: %w", t.Name, ErrDuplicateTurbine)
		}
		names[t.Name] = struct{}{}
	}
	if ambient == nil {
		return nil, fmt.Errorf("wake: wind farm: %w: no ambient conditions", ErrInvalidInput)
	}
	return &WindFarm{
		turbines: append([]Turbine(nil), turbines...),
		ambient:  ambient,
		opts:     opts,
		Log:      logrus.StandardLogger(),
		rotated:  make(map[float64][]Turbine),
	}, nil
}

// Turbines returns the turbines in their original order.
func (f *WindFarm) Turbines() []Turbine { return f.turbines }

// transformed returns the turbines rotated and sorted for direction,
// computing them once per direction.
func (f *WindFarm) transformed(direction float64) []Turbine {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rotated[direction]
	if !ok {
		t = RotateAndSort(direction, f.turbines)
		f.rotated[direction] = t
	}
	return t
}

// Calculate returns the waked conditions at every turbine for wind from
// direction [degrees] at referenceVelocity [m/s], in the original turbine
// order. Positions in the results are in the rotated frame.
func (f *WindFarm) Calculate(direction, referenceVelocity float64) ([]*WakedTurbine, error) {
	bin, err := f.ambient.Bin(direction, referenceVelocity)
	if err != nil {
		return nil, err
	}
	waked, err := WindFarmWake(f.transformed(direction), bin, f.opts)
	if err != nil {
		return nil, fmt.Errorf("wake: direction %g: %w", direction, err)
	}
	f.Log.WithFields(logrus.Fields{
		"direction":          direction,
		"reference velocity": referenceVelocity,
		"turbines":           len(waked),
	}).Debug("calculated wind farm wake")
	return f.restoreOriginalOrder(waked), nil
}

func (f *WindFarm) restoreOriginalOrder(waked []*WakedTurbine) []*WakedTurbine {
	byName := make(map[string]*WakedTurbine, len(waked))
	for _, w := range waked {
		byName[w.Turbine.Name] = w
	}
	out := make([]*WakedTurbine, len(f.turbines))
	for i, t := range f.turbines {
		out[i] = byName[t.Name]
	}
	return out
}

// CalculateDirections calls Calculate for each of directions
// concurrently. The i-th result holds the turbines for directions[i].
func (f *WindFarm) CalculateDirections(ctx context.Context, directions []float64, referenceVelocity float64) ([][]*WakedTurbine, error) {
	out := make([][]*WakedTurbine, len(directions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(-1))
	for i, d := range directions {
		i, d := i, d
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := f.Calculate(d, referenceVelocity)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
