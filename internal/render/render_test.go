package render

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dkmap/internal/config"
	"dkmap/internal/fixture"
	"dkmap/internal/topo"
)

func runFixture(t *testing.T, quality string, packed bool, layers ...string) (*Result, *etree.Document) {
	t.Helper()
	dir := t.TempDir()
	fixture.Write(t, dir)

	cfg := config.Default()
	cfg.Quality = config.Qualities[quality]
	cfg.Packed = packed
	cfg.Layers = layers
	require.NoError(t, cfg.Validate())

	res, err := Run(context.Background(), cfg, Dir(dir), nil)
	require.NoError(t, err)
	b, err := res.Doc.SVG()
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(b))
	return res, doc
}

func TestCountryOnlyUnpacked(t *testing.T) {
	res, doc := runFixture(t, "low", false, "denmark")

	paths := doc.FindElements("//path")
	require.Len(t, paths, 1)
	assert.Contains(t, paths[0].SelectAttrValue("class", ""), "denmark")
	assert.NotEmpty(t, paths[0].SelectAttrValue("d", ""))
	assert.Nil(t, doc.FindElement("//g[@id='dk_bornholm']"))
	assert.Equal(t, "0 0 700 600", doc.Root().SelectAttrValue("viewBox", ""))
	assert.Equal(t, []string{config.LayerCountry}, res.Layers)
}

func TestPackedRegions(t *testing.T) {
	_, doc := runFixture(t, "mid", true, "denmark", "regions")
	assert.Equal(t, "0 0 500 600", doc.Root().SelectAttrValue("viewBox", ""))

	inset := doc.FindElement("//g[@id='dk_bornholm']")
	require.NotNil(t, inset)
	assert.Equal(t, "translate(-280,-430)", inset.SelectAttrValue("transform", ""))
	assert.Len(t, inset.FindElements("./rect"), 1)

	insetRegions := inset.FindElements(".//g")
	require.Len(t, insetRegions, 1)
	assert.Equal(t, "Bornholm", insetRegions[0].SelectAttrValue("data-name", ""))
	assert.Equal(t, "region rid1084", insetRegions[0].SelectAttrValue("class", ""))

	main := doc.FindElement("//g[@id='dk_main']")
	require.NotNil(t, main)
	var names []string
	for _, g := range main.FindElements(".//g") {
		names = append(names, g.SelectAttrValue("data-name", ""))
	}
	assert.ElementsMatch(t, []string{"Region Nordjylland", "Region Hovedstaden"}, names)

	// country outline is split between the two roots
	assert.Len(t, main.FindElements("./path[@class='denmark']"), 1)
	assert.Len(t, inset.FindElements("./path[@class='denmark']"), 1)
}

func TestHierarchyNesting(t *testing.T) {
	_, doc := runFixture(t, "mid", true, "parishes", "municipalities", "regions")

	parish := doc.FindElement("//g[@data-code='7000']")
	require.NotNil(t, parish)
	kommune := parish.Parent()
	assert.Equal(t, "kommune kid851", kommune.SelectAttrValue("class", ""))
	region := kommune.Parent()
	assert.Equal(t, "region rid1081", region.SelectAttrValue("class", ""))
	assert.Equal(t, MainRoot, region.Parent().SelectAttrValue("id", ""))

	roenne := doc.FindElement("//g[@data-code='7001']")
	require.NotNil(t, roenne)
	assert.Equal(t, "kommune kid400", roenne.Parent().SelectAttrValue("class", ""))
	assert.Equal(t, InsetRoot, roenne.Parent().Parent().Parent().SelectAttrValue("id", ""))

	christianso := doc.FindElement("//g[@data-code='411']")
	require.NotNil(t, christianso)
	assert.Equal(t, "rid1084", strings.Fields(christianso.Parent().SelectAttrValue("class", ""))[1])
	assert.Equal(t, "1084", christianso.SelectAttrValue("data-region", ""))
}

func TestLayerOrderIndependent(t *testing.T) {
	_, a := runFixture(t, "mid", true, "parishes", "postalcodes", "municipalities", "regions", "denmark")
	_, b := runFixture(t, "mid", true, "denmark", "regions", "municipalities", "parishes", "postalcodes")
	sa, err := a.WriteToString()
	require.NoError(t, err)
	sb, err := b.WriteToString()
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
}

func TestFlatLayersAndRefs(t *testing.T) {
	_, doc := runFixture(t, "mid", false, "constituencies", "postalcodes")
	kreds := doc.FindElement("//g[@data-code='1']")
	require.NotNil(t, kreds)
	assert.Equal(t, "opstillingskreds oid1", kreds.SelectAttrValue("class", ""))
	assert.Equal(t, "1", kreds.SelectAttrValue("data-storkreds", ""))
	assert.Equal(t, "A", kreds.SelectAttrValue("data-landsdel", ""))
	assert.Equal(t, MainRoot, kreds.Parent().SelectAttrValue("id", ""))

	post := doc.FindElement("//g[@data-code='9000']")
	require.NotNil(t, post)
	assert.Equal(t, MainRoot, post.Parent().SelectAttrValue("id", ""))
}

func TestEmptyLayer(t *testing.T) {
	res, doc := runFixture(t, "mid", false, "jurisdictions")
	assert.Empty(t, res.Features[config.LayerJurisdictions].Features)
	assert.Len(t, doc.FindElements("//path"), 1)
}

func TestMissingLayerFile(t *testing.T) {
	dir := t.TempDir()
	fixture.Write(t, dir)
	cfg := config.Default()
	cfg.Layers = []string{config.LayerPrecincts}

	_, err := Run(context.Background(), cfg, Dir(dir), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "precincts")
	assert.Contains(t, err.Error(), "politikredse")
}

func TestMissingObject(t *testing.T) {
	dir := t.TempDir()
	fixture.Write(t, dir)
	fixture.WriteLayer(t, dir, "sogne", "parishes", fixture.Layers["sogne"])
	cfg := config.Default()
	cfg.Layers = []string{config.LayerParishes}

	_, err := Run(context.Background(), cfg, Dir(dir), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, topo.ErrMissingObject))
	assert.Contains(t, err.Error(), "sogne")
}

func TestCancelled(t *testing.T) {
	dir := t.TempDir()
	fixture.Write(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, config.Default(), Dir(dir), nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestOrderLayers(t *testing.T) {
	var names []string
	for _, l := range OrderLayers([]string{"precincts", "sogne", "regions"}) {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"denmark", "regions", "parishes", "precincts"}, names)
}

func TestDocumentGroupIdempotent(t *testing.T) {
	d := NewDocument(10, 10)
	a, created := d.Group(MainRoot, "rid1", nil)
	assert.True(t, created)
	b, created := d.Group(MainRoot, "rid1", nil)
	assert.False(t, created)
	assert.Same(t, a, b)

	// the same key under another root is a different group
	c, created := d.Group(InsetRoot, "rid1", nil)
	assert.True(t, created)
	assert.NotSame(t, a, c)

	child, _ := d.Group(MainRoot, "kid2", []string{"rid1", "rid9"})
	assert.Same(t, a, child.Parent())
}

func TestEmptyGeometryGetsEmptyPath(t *testing.T) {
	dir := t.TempDir()
	fixture.Write(t, dir)
	cfg := config.Default()
	cfg.Quality = config.Qualities["low"]
	cfg.Layers = []string{config.LayerMunicipalities}

	res, err := Run(context.Background(), cfg, Dir(dir), nil)
	require.NoError(t, err)
	// Christiansø is too small to survive low quality
	g, ok := res.Doc.Lookup(MainRoot, "kid411")
	require.True(t, ok)
	p := g.FindElement("./path")
	require.NotNil(t, p)
	assert.Equal(t, "", p.SelectAttrValue("d", "x"))

	for _, s := range res.Shapes {
		if s.Layer == config.LayerMunicipalities {
			_, isMulti := s.Geometry.(orb.MultiPolygon)
			_, isPoly := s.Geometry.(orb.Polygon)
			assert.True(t, isMulti || isPoly)
		}
	}
}
