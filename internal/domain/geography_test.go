package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCountry(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cyprus", "Cyprus"},
		{"Northern Cyprus", "Cyprus"},
		{"TRNC", "Cyprus"},
		{"Akrotiri Sovereign Base Area", "Cyprus"},
		{"U.N. Buffer Zone in Cyprus", "Cyprus"},
		{"turkish republic of northen cyprus", "Cyprus"}, // misspelling present in source data
		{"Saudi", "Saudi Arabia"},
		{"Jordan", "Jordan"},
		{"", ""},
		{"  ", "  "},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeCountry(tc.in))
		})
	}
}

func TestAggregateArea(t *testing.T) {
	tests := []struct {
		name    string
		country string
		area    string
		want    string
	}{
		{"jordan central", "Jordan", "Amman", "Central"},
		{"jordan south with apostrophe variant", "Jordan", "Maan", "South"},
		{"israel hamerkaz", "Israel", "Tel Aviv", "HaMerkaz"},
		{"lebanon bekaa variant", "Lebanon", "Bekaa", "South"},
		{"syria suwayda variant", "Syria", "As Suwayda", "South"},
		{"cyprus district", "Northern Cyprus", "Nicosia", "Cyprus"},
		{"egypt sinai", "Egypt", "South Sinai", "Sinai"},
		{"unmapped area passes through", "Jordan", "Unknown Province", "Unknown Province"},
		{"unmapped country passes through", "Greece", "Crete", "Crete"},
		{"empty area stays empty", "Jordan", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AggregateArea(tc.country, tc.area))
		})
	}
}
