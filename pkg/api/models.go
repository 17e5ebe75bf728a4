package api

import "road_simplify/pkg/metrics"

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NearestResponse is the JSON response for GET /api/v1/nearest.
type NearestResponse struct {
	ID             string     `json:"id"`
	Location       LatLngJSON `json:"location"`
	Degree         int        `json:"degree"`
	DistanceMeters float64    `json:"distance_meters"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumNodes    int                  `json:"num_nodes"`
	NumLinks    int                  `json:"num_links"`
	Degree      metrics.Distribution `json:"degree"`
	Substitutes metrics.Distribution `json:"substitutes"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
