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

	"github.com/ctessum/requestcache"
)

// CachedSolver memoizes the results of another DeficitSolver. Farms with
// many turbines of the same type query the same few thrust coefficient,
// distance and turbulence combinations repeatedly. It is safe for
// concurrent use.
type CachedSolver struct {
	Solver DeficitSolver

	// CacheSize is the number of results held in memory. The default is
	// 10000. CacheSize can only be changed before the first query.
	CacheSize int

	cache     *requestcache.Cache
	cacheInit sync.Once
}

// NewCachedSolver wraps s in a cache.
func NewCachedSolver(s DeficitSolver) *CachedSolver {
	return &CachedSolver{Solver: s, CacheSize: 10000}
}

type deficitRequest struct {
	thrustCoefficient, distance, turbulence float64
}

// VelocityDeficit implements DeficitSolver.
func (c *CachedSolver) VelocityDeficit(thrustCoefficient, distance, turbulence float64) (float64, error) {
	c.cacheInit.Do(func() {
		size := c.CacheSize
		if size <= 0 {
			size = 10000
		}
		c.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			r := request.(deficitRequest)
			return c.Solver.VelocityDeficit(r.thrustCoefficient, r.distance, r.turbulence)
		}, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(size))
	})
	req := c.cache.NewRequest(context.TODO(),
		deficitRequest{thrustCoefficient: thrustCoefficient, distance: distance, turbulence: turbulence},
		fmt.Sprintf("%g_%g_%g", thrustCoefficient, distance, turbulence),
	)
	result, err := req.Result()
	if err != nil {
		return 0, err
	}
	return result.(float64), nil
}
