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
	"path/filepath"
	"strings"

	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// WriteShapefile writes the waked conditions at each turbine of f, one
// point per turbine and direction at the turbine's layout position.
// results[i] must hold the output of f.Calculate(directions[i]). Any
// extension on fileName is replaced with ".shp".
func WriteShapefile(fileName string, f *WindFarm, directions []float64, results [][]*WakedTurbine) error {
	if len(directions) != len(results) {
		return fmt.Errorf("wake: writing shapefile: %w: %d directions but %d results", ErrInvalidInput, len(directions), len(results))
	}
	fields := []goshp.Field{
		goshp.StringField("Name", 50),
		goshp.FloatField("Direction", 14, 8),
		goshp.FloatField("AmbientU", 14, 8),
		goshp.FloatField("AmbientTI", 14, 8),
		goshp.FloatField("WakedU", 14, 8),
		goshp.FloatField("WakedTI", 14, 8),
		goshp.FloatField("AddedTI", 14, 8),
		goshp.FloatField("NearWake", 14, 8),
		goshp.NumberField("Impacting", 10),
	}

	fileName = strings.TrimSuffix(fileName, filepath.Ext(fileName)) + ".shp"
	e, err := shp.NewEncoderFromFields(fileName, goshp.POINT, fields...)
	if err != nil {
		return fmt.Errorf("wake: creating output shapefile: %v", err)
	}
	defer e.Close()

	turbines := f.Turbines()
	for i, dir := range directions {
		if len(results[i]) != len(turbines) {
			return fmt.Errorf("wake: writing shapefile: %w: direction %g has %d results for %d turbines",
				ErrInvalidInput, dir, len(results[i]), len(turbines))
		}
		for j, r := range results[i] {
			err = e.EncodeFields(turbines[j].Position,
				r.Turbine.Name, dir,
				r.AmbientVelocity, r.AmbientTurbulence,
				r.WakedVelocity, r.WakedTurbulence,
				r.AddedTurbulence, r.NearWakeLength(),
				r.ImpactingWakes,
			)
			if err != nil {
				return fmt.Errorf("wake: writing output shapefile: %v", err)
			}
		}
	}
	return nil
}
