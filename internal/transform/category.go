package transform

import "strings"

// Website categories are a closed set; the provider's bodyType is free text.
const (
	CategorySUV         = "SUV"
	CategoryHatchback   = "Hatchback"
	CategorySaloon      = "Saloon"
	CategoryEstate      = "Estate"
	CategoryCoupe       = "Coupe"
	CategoryConvertible = "Convertible"
	CategoryMPV         = "MPV"
	CategoryPickup      = "Pickup"
	CategoryVan         = "Van"
	CategoryOther       = "Other"
)

// categoryTable maps provider body-type fragments to categories. Order is
// priority: the first matching fragment wins, so the more specific fragments
// sit above the generic ones ("minivan" must hit MPV before "van").
var categoryTable = []struct {
	fragment string
	category string
}{
	{"pick", CategoryPickup},
	{"minivan", CategoryMPV},
	{"people carrier", CategoryMPV},
	{"mpv", CategoryMPV},
	{"4x4", CategorySUV},
	{"suv", CategorySUV},
	{"crossover", CategorySUV},
	{"hatch", CategoryHatchback},
	{"saloon", CategorySaloon},
	{"sedan", CategorySaloon},
	{"estate", CategoryEstate},
	{"touring", CategoryEstate},
	{"cabriolet", CategoryConvertible},
	{"convertible", CategoryConvertible},
	{"roadster", CategoryConvertible},
	{"coupe", CategoryCoupe},
	{"van", CategoryVan},
}

// MapCategory resolves the provider's free-text body type to a website
// category, defaulting to Other when nothing matches.
func MapCategory(bodyType string) string {
	lowered := strings.ToLower(strings.TrimSpace(bodyType))
	if lowered == "" {
		return CategoryOther
	}
	for _, entry := range categoryTable {
		if strings.Contains(lowered, entry.fragment) {
			return entry.category
		}
	}
	return CategoryOther
}
