// Package output encodes a finished drawing into the requested file formats
// and writes them.
package output

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"dkmap/internal/config"
	"dkmap/internal/render"
)

// File is one encoded output waiting to be written.
type File struct {
	Format string
	Path   string
	Data   []byte
}

// Encode renders every requested format in memory. Nothing touches the disk,
// so an encoding failure leaves no partial output behind.
func Encode(res *render.Result, cfg config.Config) ([]File, error) {
	svg, err := res.Doc.SVG()
	if err != nil {
		return nil, errors.Wrap(err, "encode svg")
	}
	files := make([]File, 0, len(cfg.Formats))
	for _, f := range cfg.Formats {
		var (
			data []byte
			err  error
		)
		switch f {
		case config.FormatSVG:
			data = svg
		case config.FormatHTML:
			data, err = Page(svg, cfg.ContainerID)
		case config.FormatContainer:
			data, err = Container(svg, cfg.ContainerID)
		case config.FormatGeoJSON:
			data, err = GeoJSON(res)
		case config.FormatPNG:
			data, err = PNG(res.Doc)
		default:
			err = errors.Wrapf(config.ErrUnknownFormat, "%q", f)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", f)
		}
		files = append(files, File{
			Format: f,
			Path:   filepath.Join(cfg.OutputDir, cfg.BaseName+config.Suffix(f)),
			Data:   data,
		})
	}
	return files, nil
}

// Write stores every file, creating the output directory when needed.
func Write(files []File, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return errors.Wrapf(err, "create %s", filepath.Dir(f.Path))
		}
		if err := os.WriteFile(f.Path, f.Data, 0o644); err != nil {
			return errors.Wrapf(err, "write %s", f.Path)
		}
		log.Info("wrote output", zap.String("format", f.Format), zap.String("path", f.Path), zap.Int("bytes", len(f.Data)))
	}
	return nil
}
