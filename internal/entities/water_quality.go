// Package entities contains the core domain objects for the water-advisor application
package entities

import "time"

// LocationStatus is the qualitative tag assigned to a monitoring location
type LocationStatus string

const (
	StatusGood     LocationStatus = "good"
	StatusModerate LocationStatus = "moderate"
	StatusPoor     LocationStatus = "poor"
)

// Location represents a river monitoring location
type Location struct {
	ID     string
	Name   string
	Status LocationStatus // Assigned by the data source, never derived from samples
}

// Sample represents one water-quality measurement at a given hour
type Sample struct {
	Hour            int     // Hour of day, 0-23
	Turbidity       float64 // NTU
	PH              float64
	DissolvedOxygen float64 // mg/L
	BOD             float64 // Biochemical oxygen demand, mg/L
}

// TreatmentRecommendation holds chemical dosages derived from the latest sample
type TreatmentRecommendation struct {
	CoagulantKg       float64
	FlocculantKg      float64
	PHAdjusterKg      float64
	ActivatedCarbonKg float64
}

// Parameter names a measured water-quality quantity
type Parameter string

const (
	ParamTurbidity       Parameter = "turbidity"
	ParamPH              Parameter = "pH"
	ParamDissolvedOxygen Parameter = "dissolved oxygen"
	ParamBOD             Parameter = "BOD"
)

// Breach describes a single threshold crossed by a sample
type Breach struct {
	Parameter Parameter
	Value     float64
	Limit     float64
	Above     bool // true when Value exceeds Limit, false when it falls below
	Hour      int
}

// Report is the evaluation result for one location
type Report struct {
	Location       Location
	Samples        []Sample
	Alerting       bool
	Recommendation *TreatmentRecommendation // nil when there are no samples
	Breaches       []Breach                 // Breaches of the latest sample
	GeneratedAt    time.Time
}
