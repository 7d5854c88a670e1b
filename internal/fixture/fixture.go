// Package fixture writes a small synthetic Danish dataset for tests.
package fixture

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Area is one rectangular feature: lon0, lat0, lon1, lat1.
type Area struct {
	Box   [4]float64
	Props map[string]any
}

var (
	nordjylland = [4]float64{9, 56.5, 10, 57.5}
	hovedstaden = [4]float64{12, 55.6, 12.6, 56.1}
	bornholm    = [4]float64{14.7, 54.98, 15.15, 55.3}
	christianso = [4]float64{15.18, 55.31, 15.19, 55.32}
)

// Layers maps file stems to their features.
var Layers = map[string][]Area{
	"regioner": {
		{Box: nordjylland, Props: map[string]any{"regionskod": 1081, "navn": "Region Nordjylland"}},
		{Box: hovedstaden, Props: map[string]any{"regionskod": 1084, "navn": "Region Hovedstaden"}},
		{Box: bornholm, Props: map[string]any{"regionskod": 1084, "navn": "Bornholm"}},
	},
	"kommuner": {
		{Box: [4]float64{9, 57, 10, 57.5}, Props: map[string]any{"kommunekod": 851, "regionskod": 1081, "navn": "Aalborg"}},
		{Box: [4]float64{9, 56.5, 10, 56.99}, Props: map[string]any{"kommunekod": 849, "regionskod": 1081, "navn": "Jammerbugt"}},
		{Box: hovedstaden, Props: map[string]any{"kommunekod": 101, "regionskod": 1084, "navn": "København"}},
		{Box: bornholm, Props: map[string]any{"kommunekod": 400, "regionskod": 1084, "navn": "Bornholm"}},
		{Box: christianso, Props: map[string]any{"kommunekod": 411, "regionskod": 1084, "navn": "Christiansø"}},
	},
	"sogne": {
		{Box: [4]float64{9.2, 57.1, 9.6, 57.4}, Props: map[string]any{"sognekode": 7000, "kommunekod": 851, "regionskod": 1081, "navn": "Budolfi"}},
		{Box: [4]float64{14.8, 55.05, 15.0, 55.2}, Props: map[string]any{"sognekode": 7001, "kommunekod": 400, "regionskod": 1084, "navn": "Rønne"}},
	},
	"postnumre": {
		{Box: [4]float64{9, 57, 10, 57.5}, Props: map[string]any{"postnr": 9000, "navn": "Aalborg"}},
	},
	"opstillingskredse": {
		{Box: hovedstaden, Props: map[string]any{"opstilnr": 1, "storkrnr": 1, "landsdel": "A", "regionskod": 1084, "navn": "Østerbro"}},
	},
	"retskredse": {},
}

// Write stores every layer in dir as <stem>.topojson. Each area becomes one
// closed arc.
func Write(t testing.TB, dir string) {
	t.Helper()
	for stem, areas := range Layers {
		WriteLayer(t, dir, stem, stem, areas)
	}
}

// WriteLayer stores areas under the given object name.
func WriteLayer(t testing.TB, dir, stem, object string, areas []Area) {
	t.Helper()
	geometries := make([]map[string]any, 0, len(areas))
	arcs := make([][][2]float64, 0, len(areas))
	for i, a := range areas {
		x0, y0, x1, y1 := a.Box[0], a.Box[1], a.Box[2], a.Box[3]
		arcs = append(arcs, [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}})
		geometries = append(geometries, map[string]any{
			"type":       "Polygon",
			"arcs":       [][]int{{i}},
			"properties": a.Props,
		})
	}
	doc := map[string]any{
		"type": "Topology",
		"objects": map[string]any{
			object: map[string]any{"type": "GeometryCollection", "geometries": geometries},
		},
		"arcs": arcs,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, stem+".topojson"), b, 0o644); err != nil {
		t.Fatal(err)
	}
}
