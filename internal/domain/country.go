package domain

// CountryBoundary is one row of the geo source: ISO-3 code, display name and
// the polygon's centroid. Geometry itself is not kept past load time; the
// centroid is computed once per country and reused for every booking.
type CountryBoundary struct {
	Code     string // ADM0_A3
	Name     string // ADMIN
	Centroid Coords
}

// ContinentLookup maps country display name to continent name.
type ContinentLookup map[string]string
