package timeline

import (
	"strings"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// Locator turns the free-text location of an event into a LocationInfo.
// It is the seam for replacing the comma heuristic with a geocoder.
type Locator interface {
	Locate(raw string) domain.LocationInfo
}

// CommaLocator splits "City, Country" at the first comma.
//
// This is a lossy heuristic, not geocoding: "Centre de tri Brazzaville"
// becomes a city named after the facility, and anything after the first
// comma is taken verbatim as the country. When no comma is present the
// whole string is the city and DefaultCountry fills the country.
type CommaLocator struct {
	DefaultCountry string
}

func (l CommaLocator) Locate(raw string) domain.LocationInfo {
	name := strings.TrimSpace(raw)
	info := domain.LocationInfo{Name: name, City: name, Country: l.DefaultCountry}

	city, country, found := strings.Cut(name, ",")
	if !found {
		return info
	}
	if c := strings.TrimSpace(city); c != "" {
		info.City = c
	}
	if c := strings.TrimSpace(country); c != "" {
		info.Country = c
	}
	return info
}
