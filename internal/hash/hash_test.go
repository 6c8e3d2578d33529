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
along with mini-wake.  If not, see <http://www.gnu.org/licenses/>.*/

package hash

import (
	"math"
	"path/filepath"
	"testing"
)

type axes struct {
	Step, Max float64
}

type named string

func (n named) String() string { return string(n) }

func TestHash(t *testing.T) {
	a := Hash(axes{Step: 0.1, Max: 1})
	if a != Hash(axes{Step: 0.1, Max: 1}) {
		t.Error("equal values should hash equally")
	}
	if a == Hash(axes{Step: 0.1, Max: 2}) {
		t.Error("different values should hash differently")
	}
	if len(a) != 32 {
		t.Errorf("hash length %d, want 32", len(a))
	}
	if h := Hash(named("deficits")); h != "deficits" {
		t.Errorf("stringer hash = %s", h)
	}
}

func TestHashNaN(t *testing.T) {
	a := Hash(axes{Step: math.NaN(), Max: 1})
	if a == "" || a != Hash(axes{Step: math.NaN(), Max: 1}) {
		t.Errorf("NaN hash should be stable, got %q", a)
	}
}

func TestCacheFile(t *testing.T) {
	v := axes{Step: 1, Max: 3}
	want := filepath.Join("cache", Hash(v)+".nc")
	if f := CacheFile("cache", v, ".nc"); f != want {
		t.Errorf("%s != %s", f, want)
	}
}
