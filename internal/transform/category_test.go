package transform

import "testing"

func TestMapCategory(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5 Door Hatchback", CategoryHatchback},
		{"Hatch", CategoryHatchback},
		{"Saloon", CategorySaloon},
		{"Sports Sedan", CategorySaloon},
		{"Estate", CategoryEstate},
		{"Touring", CategoryEstate},
		{"SUV", CategorySUV},
		{"Compact Crossover", CategorySUV},
		{"4x4 Utility", CategorySUV},
		{"Coupe", CategoryCoupe},
		{"Convertible", CategoryConvertible},
		{"Cabriolet", CategoryConvertible},
		{"Roadster", CategoryConvertible},
		{"MPV", CategoryMPV},
		{"People Carrier", CategoryMPV},
		{"Minivan", CategoryMPV},
		{"Panel Van", CategoryVan},
		{"Pickup Truck", CategoryPickup},
		{"Pick-up", CategoryPickup},
		{"", CategoryOther},
		{"Motorhome", CategoryOther},
	}

	for _, tc := range cases {
		if got := MapCategory(tc.in); got != tc.want {
			t.Fatalf("MapCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
