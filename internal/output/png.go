package output

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"dkmap/internal/render"
)

// Raster styling. The vector outputs leave styling to the embedding page;
// a bitmap has no page, so it gets a fixed look.
const (
	RasterScale = 2

	rasterFill        = "#e8e8e8"
	rasterStroke      = "#404040"
	rasterStrokeWidth = "0.4"
)

// PNG rasterizes the drawing at RasterScale times the viewport on white.
func PNG(doc *render.Document) ([]byte, error) {
	tree := doc.Tree()
	for _, g := range tree.FindElements("/svg/g") {
		g.CreateAttr("fill", rasterFill)
		g.CreateAttr("stroke", rasterStroke)
		g.CreateAttr("stroke-width", rasterStrokeWidth)
	}
	// the rasterizer has no notion of "transparent"
	for _, r := range tree.FindElements("//rect[@fill='transparent']") {
		r.CreateAttr("fill", "none")
	}
	src, err := tree.WriteToBytes()
	if err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(src), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(err, "parse svg")
	}
	w, h := int(doc.Width)*RasterScale, int(doc.Height)*RasterScale
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("invalid raster size %dx%d", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), nil
}
