package domain

// SoilData holds the soil composition behind a recommendation
type SoilData struct {
	PH   float64 `json:"pH"`
	Clay int     `json:"clay"` // percent
	Sand int     `json:"sand"`
	Silt int     `json:"silt"`
}

// WeatherData holds the climate figures behind a recommendation
type WeatherData struct {
	Temperature int `json:"temperature"` // °C
	Humidity    int `json:"humidity"`    // percent
	Rainfall    int `json:"rainfall"`    // mm/year
}

// Recommendation is a precomputed crop recommendation for a location.
// Records are immutable and preloaded; they are looked up, never mutated.
type Recommendation struct {
	Crop       string      `json:"crop"`
	Confidence int         `json:"confidence"` // 0-100
	Reasoning  string      `json:"reasoning"`
	SoilData   SoilData    `json:"soilData"`
	WeatherData WeatherData `json:"weatherData"`
}

// RecommendationTable maps a literal "lat,lng" coordinate key to a
// recommendation. Keys are exact strings: two coordinates that are
// numerically equal but textually different are different keys.
type RecommendationTable map[string]Recommendation
