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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// TableDataVersion is the version of the deficit table file format.
// Files with a different version cannot be loaded.
const TableDataVersion = "1.0.0"

type tableVariable struct {
	name, description, units string
	dims                     []string
	data                     *sparse.DenseArray
}

func vector(v []float64) *sparse.DenseArray {
	a := sparse.ZerosDense(len(v))
	copy(a.Elements, v)
	return a
}

func (t *DeficitTable) variables() []tableVariable {
	return []tableVariable{
		{"ct", "Rotor thrust coefficient", "-", []string{"ct"}, vector(t.thrustCoefficients)},
		{"deficit", "Wake centerline velocity deficit", "fraction of upwind velocity", []string{"ct", "ti", "x"}, t.deficits},
		{"ti", "Incident turbulence intensity", "-", []string{"ti"}, vector(t.turbulences)},
		{"x", "Distance downwind", "rotor diameters", []string{"x"}, vector(t.distances)},
	}
}

// Write writes the table to w in netCDF format.
func (t *DeficitTable) Write(w *os.File) error {
	h := cdf.NewHeader(
		[]string{"ct", "ti", "x"},
		[]int{len(t.thrustCoefficients), len(t.turbulences), len(t.distances)})
	h.AddAttribute("", "comment", "mini-wake centerline velocity deficit table")
	h.AddAttribute("", "data_version", TableDataVersion)

	vars := t.variables()
	for _, v := range vars {
		h.AddVariable(v.name, v.dims, []float64{0})
		h.AddAttribute(v.name, "description", v.description)
		h.AddAttribute(v.name, "units", v.units)
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}
	for _, v := range vars {
		if err = writeNCF(f, v.name, v.data); err != nil {
			return fmt.Errorf("wake: writing variable %s to netcdf file: %v", v.name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

func writeNCF(f *cdf.File, name string, data *sparse.DenseArray) error {
	end := f.Header.Lengths(name)
	n := 1
	for _, v := range end {
		n *= v
	}
	if len(data.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data.Elements))
	}
	start := make([]int, len(end))
	_, err := f.Writer(name, start, end).Write(data.Elements)
	return err
}

// LoadDeficitTable reads a table written by Write.
func LoadDeficitTable(rw cdf.ReaderWriterAt) (*DeficitTable, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("wake: loading deficit table: %v", err)
	}
	dataVersion, ok := f.Header.GetAttribute("", "data_version").(string)
	if !ok {
		return nil, fmt.Errorf("wake: loading deficit table: missing data version")
	}
	if dataVersion != TableDataVersion {
		return nil, fmt.Errorf("wake: loading deficit table: data version %s is incompatible "+
			"with the required version %s", dataVersion, TableDataVersion)
	}
	data := make(map[string]*sparse.DenseArray)
	for _, name := range []string{"ct", "ti", "x", "deficit"} {
		dims := f.Header.Lengths(name)
		if len(dims) == 0 {
			return nil, fmt.Errorf("wake: loading deficit table: missing variable %s", name)
		}
		d := sparse.ZerosDense(dims...)
		if _, err = f.Reader(name, nil, nil).Read(d.Elements); err != nil {
			return nil, fmt.Errorf("wake: loading deficit table variable %s: %v", name, err)
		}
		data[name] = d
	}
	return NewDeficitTable(data["ct"].Elements, data["ti"].Elements, data["x"].Elements, data["deficit"])
}
