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
	"fmt"
	"math"
	"strings"
)

// impactThreshold is the velocity deficit above which a wake is counted
// as impacting a turbine.
const impactThreshold = 0.02

// CombinationRule selects how the velocity deficits of overlapping wakes
// are combined.
type CombinationRule int

const (
	// NearFarSwitch takes the largest deficit when a wake is close
	// upwind and nearly in line with the rotor, and the root sum of
	// squares of the deficits otherwise.
	NearFarSwitch CombinationRule = iota

	// WeightedRSSLinear blends 70% of the root sum of squares with 30% of
	// the linear sum.
	WeightedRSSLinear

	// StraightAverage is the mean of the root sum of squares and the
	// linear sum.
	StraightAverage
)

var combinationNames = map[CombinationRule]string{
	NearFarSwitch:     "near-far",
	WeightedRSSLinear: "weighted",
	StraightAverage:   "average",
}

func (r CombinationRule) String() string {
	if s, ok := combinationNames[r]; ok {
		return s
	}
	return fmt.Sprintf("CombinationRule(%d)", int(r))
}

// ParseCombinationRule returns the rule with the given name.
func ParseCombinationRule(s string) (CombinationRule, error) {
	for r, name := range combinationNames {
		if strings.EqualFold(s, name) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("wake: %w: unknown combination rule %q", ErrInvalidInput, s)
}

// VelocityDeficitCombiner accumulates the deficits of the wakes reaching
// one point.
type VelocityDeficitCombiner interface {
	// Add adds the deficit of one wake, whose source is
	// normalizedDistanceUpwind upwind rotor diameters upwind and
	// normalizedLateral upwind rotor diameters across from the point.
	Add(deficit, normalizedDistanceUpwind, normalizedLateral float64)

	// Value returns the combined deficit.
	Value() float64

	// ImpactingWakes returns the number of wakes added with a deficit
	// above the impact threshold.
	ImpactingWakes() int
}

// NewVelocityDeficitCombiner returns an empty combiner that applies r.
func (r CombinationRule) NewVelocityDeficitCombiner() VelocityDeficitCombiner {
	switch r {
	case WeightedRSSLinear:
		return &blendedCombiner{rssWeight: 0.7}
	case StraightAverage:
		return &blendedCombiner{rssWeight: 0.5}
	default:
		return &nearFarCombiner{closest: math.Inf(1)}
	}
}

type impactCounter int

func (c *impactCounter) add(deficit float64) {
	if deficit > impactThreshold {
		*c++
	}
}

func (c impactCounter) ImpactingWakes() int { return int(c) }

const (
	// nearFarLateral is the lateral offset, in rotor diameters, within
	// which a wake is taken to be in line with the rotor.
	nearFarLateral = 1.5

	// nearFarDistance is the separation, in rotor diameters, within
	// which an in-line wake is near.
	nearFarDistance = 6.0
)

type nearFarCombiner struct {
	impactCounter
	sumSq, max float64

	// closest is the smallest separation of an in-line wake.
	closest float64
}

func (c *nearFarCombiner) Add(deficit, normalizedDistanceUpwind, normalizedLateral float64) {
	if deficit <= 0 {
		return
	}
	c.impactCounter.add(deficit)
	c.sumSq += deficit * deficit
	c.max = math.Max(c.max, deficit)
	if math.Abs(normalizedLateral) <= nearFarLateral {
		c.closest = math.Min(c.closest, normalizedDistanceUpwind)
	}
}

func (c *nearFarCombiner) Value() float64 {
	if c.closest <= nearFarDistance {
		return c.max
	}
	return math.Sqrt(c.sumSq)
}

type blendedCombiner struct {
	impactCounter
	rssWeight  float64
	sumSq, sum float64
}

func (c *blendedCombiner) Add(deficit, _, _ float64) {
	if deficit <= 0 {
		return
	}
	c.impactCounter.add(deficit)
	c.sumSq += deficit * deficit
	c.sum += deficit
}

func (c *blendedCombiner) Value() float64 {
	return c.rssWeight*math.Sqrt(c.sumSq) + (1-c.rssWeight)*c.sum
}

// AddedTurbulenceCombiner combines the turbulence added by several wakes
// as a root sum of squares.
type AddedTurbulenceCombiner struct {
	sumSq float64
}

// Add adds the turbulence added by one wake.
func (c *AddedTurbulenceCombiner) Add(addedTurbulence float64) {
	if addedTurbulence <= 0 {
		return
	}
	c.sumSq += addedTurbulence * addedTurbulence
}

// Value returns the combined added turbulence.
func (c *AddedTurbulenceCombiner) Value() float64 {
	return math.Sqrt(c.sumSq)
}
