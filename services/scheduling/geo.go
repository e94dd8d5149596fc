package scheduling

import (
	"math"
	"sort"

	"marketplace/models"
)

// EarthRadiusKm is the mean Earth radius. The in-process haversine uses it,
// and the store's radius query is converted through it.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// RadiusRadians converts a distance into an angular radius.
func RadiusRadians(km float64) float64 {
	return km / EarthRadiusKm
}

// ProviderDistance pairs a provider with its distance from the search center.
type ProviderDistance struct {
	Provider   models.Provider
	DistanceKm float64
}

// FilterByRadius keeps providers whose location is within radiusKm of the
// center, boundary included, sorted nearest first. Providers without a valid
// location are dropped. A non-positive radius disables the filter.
func FilterByRadius(providers []models.Provider, lat, lng, radiusKm float64) []ProviderDistance {
	out := make([]ProviderDistance, 0, len(providers))
	for _, p := range providers {
		pLat, pLng, ok := p.Profile.LocationGeo.LatLng()
		if !ok {
			if radiusKm <= 0 {
				out = append(out, ProviderDistance{Provider: p})
			}
			continue
		}
		d := HaversineKm(lat, lng, pLat, pLng)
		if radiusKm > 0 && d > radiusKm {
			continue
		}
		out = append(out, ProviderDistance{Provider: p, DistanceKm: d})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}
