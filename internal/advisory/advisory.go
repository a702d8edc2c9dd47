// Package advisory evaluates water-quality samples against fixed thresholds
// and derives treatment dosages. All functions are pure and safe for
// concurrent use.
package advisory

import "github.com/abelzeko/water-advisor/internal/entities"

// Alert thresholds
const (
	MaxTurbidity       = 30.0
	MinPH              = 6.5
	MaxPH              = 8.5
	MinDissolvedOxygen = 5.0
	MaxBOD             = 3.0
)

// Dosage baselines in kg and their adjustments
const (
	BaseCoagulantKg       = 20.0
	BaseFlocculantKg      = 0.8
	BasePHAdjusterKg      = 7.0
	BaseActivatedCarbonKg = 12.0

	CoagulantTurbidityLimit = 40.0
	CoagulantExtraKg        = 5.0
	FlocculantExtraKg       = 0.2
	LowPHAdjusterKg         = 8.0
	HighPHAdjusterKg        = 6.0
	ActivatedCarbonExtraKg  = 5.0
)

// IsAlerting reports whether any sample crosses at least one alert threshold.
// An empty series never alerts.
func IsAlerting(samples []entities.Sample) bool {
	for _, s := range samples {
		if breaches(s) {
			return true
		}
	}
	return false
}

func breaches(s entities.Sample) bool {
	return s.Turbidity > MaxTurbidity ||
		s.PH < MinPH || s.PH > MaxPH ||
		s.DissolvedOxygen < MinDissolvedOxygen ||
		s.BOD > MaxBOD
}

// Breaches lists every threshold the sample crosses, in the order
// turbidity, pH, dissolved oxygen, BOD.
func Breaches(s entities.Sample) []entities.Breach {
	var out []entities.Breach
	if s.Turbidity > MaxTurbidity {
		out = append(out, entities.Breach{Parameter: entities.ParamTurbidity, Value: s.Turbidity, Limit: MaxTurbidity, Above: true, Hour: s.Hour})
	}
	switch {
	case s.PH < MinPH:
		out = append(out, entities.Breach{Parameter: entities.ParamPH, Value: s.PH, Limit: MinPH, Hour: s.Hour})
	case s.PH > MaxPH:
		out = append(out, entities.Breach{Parameter: entities.ParamPH, Value: s.PH, Limit: MaxPH, Above: true, Hour: s.Hour})
	}
	if s.DissolvedOxygen < MinDissolvedOxygen {
		out = append(out, entities.Breach{Parameter: entities.ParamDissolvedOxygen, Value: s.DissolvedOxygen, Limit: MinDissolvedOxygen, Hour: s.Hour})
	}
	if s.BOD > MaxBOD {
		out = append(out, entities.Breach{Parameter: entities.ParamBOD, Value: s.BOD, Limit: MaxBOD, Above: true, Hour: s.Hour})
	}
	return out
}

// Recommend computes treatment dosages from the last sample of the series.
// The second return value is false when the series is empty.
func Recommend(samples []entities.Sample) (entities.TreatmentRecommendation, bool) {
	if len(samples) == 0 {
		return entities.TreatmentRecommendation{}, false
	}
	latest := samples[len(samples)-1]

	rec := entities.TreatmentRecommendation{
		CoagulantKg:       BaseCoagulantKg,
		FlocculantKg:      BaseFlocculantKg,
		PHAdjusterKg:      BasePHAdjusterKg,
		ActivatedCarbonKg: BaseActivatedCarbonKg,
	}
	if latest.Turbidity > CoagulantTurbidityLimit {
		rec.CoagulantKg += CoagulantExtraKg
	}
	if latest.DissolvedOxygen < MinDissolvedOxygen {
		rec.FlocculantKg += FlocculantExtraKg
	}
	// Low and high pH select different fixed doses, not an increment.
	switch {
	case latest.PH < MinPH:
		rec.PHAdjusterKg = LowPHAdjusterKg
	case latest.PH > MaxPH:
		rec.PHAdjusterKg = HighPHAdjusterKg
	}
	if latest.BOD > MaxBOD {
		rec.ActivatedCarbonKg += ActivatedCarbonExtraKg
	}
	return rec, true
}
