package output

import (
	"github.com/paulmach/orb/geojson"

	"dkmap/internal/render"
)

// LayerProperty names the property that records which layer a feature came
// from in the combined collection.
const LayerProperty = "layer"

// GeoJSON flattens every rendered layer into one feature collection in
// hierarchy order. Input features are not modified.
func GeoJSON(res *render.Result) ([]byte, error) {
	out := geojson.NewFeatureCollection()
	for _, name := range res.Layers {
		fc, ok := res.Features[name]
		if !ok {
			continue
		}
		for _, f := range fc.Features {
			props := f.Properties.Clone()
			if props == nil {
				props = geojson.Properties{}
			}
			props[LayerProperty] = name
			nf := geojson.NewFeature(f.Geometry)
			nf.ID = f.ID
			nf.Properties = props
			out.Append(nf)
		}
	}
	return out.MarshalJSON()
}
