package config

import "strings"

// Layer names.
const (
	LayerCountry        = "denmark"
	LayerRegions        = "regions"
	LayerMunicipalities = "municipalities"
	LayerParishes       = "parishes"
	LayerPostalCodes    = "postalcodes"
	LayerConstituencies = "constituencies"
	LayerJurisdictions  = "jurisdictions"
	LayerPrecincts      = "precincts"
)

// Parent links a feature property to the group key prefix of an ancestor layer.
type Parent struct {
	Field     string
	KeyPrefix string
	Attr      string
}

// Layer describes where a layer lives on disk and how its properties are named.
type Layer struct {
	Name    string
	Aliases []string
	Rank    int

	File   string // file stem under the data dir, also the object name
	Object string

	CodeField string
	NameField string
	KeyPrefix string
	Class     string

	// Parents are ancestor layers ordered from the root down; groups nest
	// under the deepest one that already exists.
	Parents []Parent
	// Refs are cross references written as data attributes only.
	Refs []Parent
}

var layers = []Layer{
	{
		Name: LayerCountry, Aliases: []string{"danmark", "country"}, Rank: 0,
		Class: "denmark",
	},
	{
		Name: LayerRegions, Aliases: []string{"regioner"}, Rank: 1,
		File: "regioner", Object: "regioner",
		CodeField: "regionskod", NameField: "navn", KeyPrefix: "rid", Class: "region",
	},
	{
		Name: LayerMunicipalities, Aliases: []string{"kommuner"}, Rank: 2,
		File: "kommuner", Object: "kommuner",
		CodeField: "kommunekod", NameField: "navn", KeyPrefix: "kid", Class: "kommune",
		Parents: []Parent{{Field: "regionskod", KeyPrefix: "rid", Attr: "data-region"}},
	},
	{
		Name: LayerParishes, Aliases: []string{"sogne"}, Rank: 3,
		File: "sogne", Object: "sogne",
		CodeField: "sognekode", NameField: "navn", KeyPrefix: "sid", Class: "sogn",
		Parents: []Parent{
			{Field: "regionskod", KeyPrefix: "rid", Attr: "data-region"},
			{Field: "kommunekod", KeyPrefix: "kid", Attr: "data-kommune"},
		},
	},
	{
		Name: LayerPostalCodes, Aliases: []string{"postnumre"}, Rank: 4,
		File: "postnumre", Object: "postnumre",
		CodeField: "postnr", NameField: "navn", KeyPrefix: "pid", Class: "postnummer",
	},
	{
		Name: LayerConstituencies, Aliases: []string{"opstillingskredse"}, Rank: 5,
		File: "opstillingskredse", Object: "opstillingskredse",
		CodeField: "opstilnr", NameField: "navn", KeyPrefix: "oid", Class: "opstillingskreds",
		Refs: []Parent{
			{Field: "storkrnr", Attr: "data-storkreds"},
			{Field: "landsdel", Attr: "data-landsdel"},
			{Field: "regionskod", Attr: "data-region"},
		},
	},
	{
		Name: LayerJurisdictions, Aliases: []string{"retskredse"}, Rank: 6,
		File: "retskredse", Object: "retskredse",
		CodeField: "retskrednr", NameField: "navn", KeyPrefix: "jid", Class: "retskreds",
	},
	{
		Name: LayerPrecincts, Aliases: []string{"politikredse"}, Rank: 7,
		File: "politikredse", Object: "politikredse",
		CodeField: "politikrnr", NameField: "navn", KeyPrefix: "pkid", Class: "politikreds",
	},
}

// LookupLayer finds a descriptor by name or alias, case-insensitively.
func LookupLayer(name string) (Layer, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, l := range layers {
		if l.Name == n {
			return l, true
		}
		for _, a := range l.Aliases {
			if a == n {
				return l, true
			}
		}
	}
	return Layer{}, false
}

// LayerNames lists every layer in hierarchy order.
func LayerNames() []string {
	out := make([]string, len(layers))
	for i, l := range layers {
		out[i] = l.Name
	}
	return out
}
