package config

import (
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

var (
	ErrUnknownLayer   = errors.New("unknown layer")
	ErrUnknownFormat  = errors.New("unknown output format")
	ErrUnknownQuality = errors.New("unknown quality")
)

// Quality pairs the quantization grid with the simplification tolerance.
// The two are always applied together.
type Quality struct {
	Name       string
	Resolution int     // grid side used for point snapping
	Tolerance  float64 // minimum effective area a point needs to survive
}

var Qualities = map[string]Quality{
	"high":  {Name: "high", Resolution: 20000, Tolerance: 0.000001},
	"mid":   {Name: "mid", Resolution: 10000, Tolerance: 0.00001},
	"low":   {Name: "low", Resolution: 7000, Tolerance: 0.00095},
	"artsy": {Name: "artsy", Resolution: 1000, Tolerance: 0.007},
	"pixel": {Name: "pixel", Resolution: 200, Tolerance: 0.0001},
}

// Output formats.
const (
	FormatSVG       = "svg"
	FormatHTML      = "html"
	FormatContainer = "container"
	FormatGeoJSON   = "geojson"
	FormatPNG       = "png"
	FormatAll       = "all"
)

var formatOrder = []string{FormatSVG, FormatHTML, FormatContainer, FormatGeoJSON, FormatPNG}

// Suffix returns the file suffix written for a format.
func Suffix(format string) string {
	switch format {
	case FormatSVG:
		return ".svg"
	case FormatHTML:
		return ".html"
	case FormatContainer:
		return ".container.html"
	case FormatGeoJSON:
		return ".geojson"
	case FormatPNG:
		return ".png"
	}
	return ""
}

// Outlier selects the features of the base layer that are drawn in the inset.
type Outlier struct {
	Name      string
	CodeField string
	Codes     []string
}

// Config is the immutable input of a run.
type Config struct {
	Packed   bool
	Layers   []string
	Quality  Quality
	Formats  []string
	BaseName string

	DataDir   string
	OutputDir string
	LogLevel  string

	Width        float64
	PackedWidth  float64
	Height       float64
	InsetOffset  [2]float64
	InsetMargin  float64
	OutlierSlack float64
	BaseLayer    string
	Outlier      Outlier
	ContainerID  string
}

// Default returns the stock configuration: country only, mid quality, container output.
func Default() Config {
	return Config{
		Layers:       []string{LayerCountry},
		Quality:      Qualities["mid"],
		Formats:      []string{FormatContainer},
		BaseName:     "map",
		DataDir:      "data/topojson",
		OutputDir:    "output",
		LogLevel:     "info",
		Width:        700,
		PackedWidth:  500,
		Height:       600,
		InsetOffset:  [2]float64{-280, -430},
		InsetMargin:  10,
		OutlierSlack: 5,
		BaseLayer:    LayerMunicipalities,
		Outlier: Outlier{
			Name:      "Bornholm",
			CodeField: "kommunekod",
			Codes:     []string{"400", "411"},
		},
		ContainerID: "datakollektivet-i0001",
	}
}

// LoadEnv applies DKMAP_* overrides, reading .env files first when present.
func (c *Config) LoadEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
	if v := strings.TrimSpace(os.Getenv("DKMAP_DATA_DIR")); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("DKMAP_OUTPUT_DIR")); v != "" {
		c.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("DKMAP_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
}

// Viewport returns the design units of the drawing; packed maps are narrower
// because the outlier no longer occupies its own space.
func (c Config) Viewport() (w, h float64) {
	if c.Packed {
		return c.PackedWidth, c.Height
	}
	return c.Width, c.Height
}

// ParseQuality resolves a preset by name.
func ParseQuality(name string) (Quality, error) {
	q, ok := Qualities[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Quality{}, errors.Wrapf(ErrUnknownQuality, "%q", name)
	}
	return q, nil
}

// NormalizeLayers accepts English and Danish layer names, drops duplicates and
// rejects anything unknown.
func NormalizeLayers(names []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, raw := range splitList(names) {
		d, ok := LookupLayer(raw)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownLayer, "%q", raw)
		}
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, d.Name)
	}
	return out, nil
}

// NormalizeFormats expands "all" and rejects unknown formats. An empty list
// falls back to the container fragment.
func NormalizeFormats(names []string) ([]string, error) {
	want := map[string]bool{}
	for _, raw := range splitList(names) {
		f := strings.ToLower(raw)
		switch f {
		case FormatAll:
			want[FormatSVG], want[FormatHTML], want[FormatContainer] = true, true, true
		case FormatSVG, FormatHTML, FormatContainer, FormatGeoJSON, FormatPNG:
			want[f] = true
		default:
			return nil, errors.Wrapf(ErrUnknownFormat, "%q", raw)
		}
	}
	if len(want) == 0 {
		return []string{FormatContainer}, nil
	}
	var out []string
	for _, f := range formatOrder {
		if want[f] {
			out = append(out, f)
		}
	}
	return out, nil
}

// Validate checks the user-facing fields so the pipeline can trust them.
func (c *Config) Validate() error {
	layers, err := NormalizeLayers(c.Layers)
	if err != nil {
		return err
	}
	c.Layers = layers
	formats, err := NormalizeFormats(c.Formats)
	if err != nil {
		return err
	}
	c.Formats = formats
	if _, ok := Qualities[c.Quality.Name]; !ok {
		return errors.Wrapf(ErrUnknownQuality, "%q", c.Quality.Name)
	}
	if strings.TrimSpace(c.BaseName) == "" {
		return errors.New("output name must not be empty")
	}
	if _, ok := LookupLayer(c.BaseLayer); !ok {
		return errors.Wrapf(ErrUnknownLayer, "base layer %q", c.BaseLayer)
	}
	return nil
}

// QualityNames lists the presets in a stable order for help text.
func QualityNames() []string {
	names := make([]string, 0, len(Qualities))
	for k := range Qualities {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// splitList flattens repeated and comma separated flag values.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
