// Package formula estimates the effect of lifestyle changes on HbA1c.
//
// Every function is pure: it reads an Assessment and returns a value. The
// engine does not validate its input; callers are expected to run
// models.Assessment.Validate first. A zero current weight yields a
// non-finite weight loss percentage, which fails the positive-loss check and
// contributes no weight reduction.
package formula

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/mrcode/hba1c-impact/internal/models"
)

// FloorHbA1c is the lowest projected HbA1c the model will report
const FloorHbA1c = 3.5

// Reduction weights
const (
	tranche1Weight = 0.10 // first 5% of body weight
	tranche2Weight = 0.05 // next 5%
	tranche3Weight = 0.02 // beyond 10%

	activityMaxEffect = 0.6
	dietMaxEffect     = 0.5

	// UKPDS: roughly 37% fewer microvascular complications per HbA1c point
	microvascularPerPoint = 37
)

// ActivityBaseline maps the current activity level to a 0-100 score
func ActivityBaseline(level models.ActivityLevel) int {
	switch level {
	case models.ActivityLight:
		return 25
	case models.ActivityModerate:
		return 50
	case models.ActivityHigh:
		return 100
	default:
		return 0
	}
}

// DietBaseline maps the current diet quality to a 0-100 score
func DietBaseline(quality models.DietQuality) int {
	switch quality {
	case models.DietPoor:
		return 25
	case models.DietAcceptable:
		return 50
	case models.DietGood:
		return 75
	case models.DietVeryGood:
		return 100
	default:
		return 0
	}
}

// ProjectedActivity is the activity score after the planned improvement
func ProjectedActivity(a models.Assessment) int {
	return min(100, ActivityBaseline(a.Activity)+a.ActivityImprovement)
}

// ProjectedDiet is the diet score after the planned improvement
func ProjectedDiet(a models.Assessment) int {
	return min(100, DietBaseline(a.Diet)+a.DietImprovement)
}

// WeightLossPct is the planned weight loss as a percentage of current weight
func WeightLossPct(a models.Assessment) float64 {
	return (a.CurrentWeight - a.TargetWeight) / a.CurrentWeight * 100
}

// severityFactor scales the weight-loss benefit by baseline HbA1c
func severityFactor(hba1c float64) float64 {
	switch {
	case hba1c >= 9:
		return 1.2
	case hba1c >= 8:
		return 1.0
	default:
		return 0.8
	}
}

// WeightReduction is the HbA1c reduction attributed to weight loss. Each
// successive 5% tranche of loss is worth less than the previous one.
func WeightReduction(a models.Assessment) float64 {
	pct := WeightLossPct(a)
	if !(pct > 0) {
		return 0
	}

	t1 := math.Min(pct, 5)
	t2 := math.Min(math.Max(pct-5, 0), 5)
	t3 := math.Max(pct-10, 0)

	return severityFactor(a.CurrentHbA1c) * (tranche1Weight*t1 + tranche2Weight*t2 + tranche3Weight*t3)
}

// ActivityReduction is the HbA1c reduction attributed to physical activity
func ActivityReduction(a models.Assessment) float64 {
	return activityMaxEffect * math.Sqrt(float64(ProjectedActivity(a))/100)
}

// DietReduction is the HbA1c reduction attributed to diet quality
func DietReduction(a models.Assessment) float64 {
	return dietMaxEffect * math.Sqrt(float64(ProjectedDiet(a))/100)
}

// Reductions returns the per-factor breakdown of the HbA1c reduction
func Reductions(a models.Assessment) models.Reduction {
	return models.Reduction{
		Weight:   WeightReduction(a),
		Activity: ActivityReduction(a),
		Diet:     DietReduction(a),
	}
}

// ProjectedHbA1c returns the projected HbA1c, rounded to two decimals and
// never below FloorHbA1c.
func ProjectedHbA1c(a models.Assessment) float64 {
	projected := math.Max(FloorHbA1c, a.CurrentHbA1c-Reductions(a).Total())
	return round(projected, 2)
}

// Interpret classifies an HbA1c value
func Interpret(hba1c float64) models.Interpretation {
	switch {
	case hba1c < 4.0:
		return models.InterpretationLow
	case hba1c < 5.7:
		return models.InterpretationNormal
	case hba1c < 6.5:
		return models.InterpretationPrediabetes
	case hba1c <= 7.0:
		return models.InterpretationGoodControl
	case hba1c <= 8.0:
		return models.InterpretationIntermediateControl
	default:
		return models.InterpretationPoorControl
	}
}

// drop is the projected HbA1c improvement in points. It uses the rounded
// projection, the value the user sees.
func drop(a models.Assessment, projected float64) float64 {
	return a.CurrentHbA1c - projected
}

// MedicationSuspension rates the chance of reducing or stopping medication
func MedicationSuspension(a models.Assessment, projected float64) models.Likelihood {
	d := drop(a, projected)
	switch {
	case d >= 1.5:
		return models.LikelihoodHigh
	case d >= 0.8:
		return models.LikelihoodMedium
	default:
		return models.LikelihoodLow
	}
}

// CardiovascularScore sums the cardiovascular risk points
func CardiovascularScore(a models.Assessment) int {
	score := 0
	if a.Age >= 65 {
		score += 3
	}
	if a.CurrentHbA1c >= 9.0 {
		score += 2
	}
	if ProjectedActivity(a) < 50 {
		score++
	}
	if ProjectedDiet(a) < 50 {
		score++
	}
	if (a.CurrentWeight-a.TargetWeight)/a.CurrentWeight < 0.05 {
		score++
	}
	return score
}

// CardiovascularRisk converts the risk score into a tier
func CardiovascularRisk(a models.Assessment) models.Likelihood {
	score := CardiovascularScore(a)
	switch {
	case score >= 4:
		return models.LikelihoodHigh
	case score >= 2:
		return models.LikelihoodMedium
	default:
		return models.LikelihoodLow
	}
}

// MicrovascularReduction estimates the percent reduction in microvascular
// complication risk, capped at 100.
func MicrovascularReduction(a models.Assessment, projected float64) int {
	return int(round(math.Min(100, drop(a, projected)*microvascularPerPoint), 0))
}

func countAtLeast(pairs ...[2]float64) int {
	n := 0
	for _, p := range pairs {
		if p[0] >= p[1] {
			n++
		}
	}
	return n
}

// EstimateTimeToBenefit estimates when clinical benefit should show, from
// how many of the planned changes are high, moderate or mild.
func EstimateTimeToBenefit(a models.Assessment) models.TimeToBenefit {
	pct := WeightLossPct(a)
	diet := float64(a.DietImprovement)
	act := float64(a.ActivityImprovement)

	high := countAtLeast([2]float64{pct, 10}, [2]float64{diet, 50}, [2]float64{act, 50})
	moderate := countAtLeast([2]float64{pct, 5}, [2]float64{diet, 30}, [2]float64{act, 30})
	mild := countAtLeast([2]float64{pct, 2}, [2]float64{diet, 10}, [2]float64{act, 10})

	switch {
	case a.CurrentHbA1c >= 9 && high >= 2:
		return models.TimeToBenefitSixOrMore
	case high >= 2:
		return models.TimeToBenefitThreeMonths
	case moderate >= 2:
		return models.TimeToBenefitThreeToSix
	case mild >= 1:
		return models.TimeToBenefitSixOrMore
	default:
		return models.TimeToBenefitNoEstimate
	}
}

// RemissionLikelihood rates the chance of partial remission. Only a weight
// loss of at least 10% with a projection below 6.5% is considered.
func RemissionLikelihood(a models.Assessment, projected float64) models.Remission {
	if !(WeightLossPct(a) >= 10 && projected < 6.5) {
		return models.RemissionUnlikely
	}

	diet := ProjectedDiet(a)
	act := ProjectedActivity(a)
	switch {
	case diet >= 50 && act >= 50:
		return models.RemissionVeryPossible
	case diet >= 30 && act >= 30:
		return models.RemissionPossible
	default:
		return models.RemissionDoubtful
	}
}

// ChangeBandFor sizes a planned improvement in points
func ChangeBandFor(improvement int) models.ChangeBand {
	switch {
	case improvement <= 0:
		return models.ChangeNone
	case improvement <= 30:
		return models.ChangeSmall
	case improvement <= 60:
		return models.ChangeModerate
	default:
		return models.ChangeLarge
	}
}

// Compute derives every output from the assessment
func Compute(a models.Assessment) models.Projection {
	projected := ProjectedHbA1c(a)

	return models.Projection{
		CurrentHbA1c:           a.CurrentHbA1c,
		ProjectedHbA1c:         projected,
		Interpretation:         Interpret(projected),
		MedicationSuspension:   MedicationSuspension(a, projected),
		CardiovascularRisk:     CardiovascularRisk(a),
		MicrovascularReduction: MicrovascularReduction(a, projected),
		TimeToBenefit:          EstimateTimeToBenefit(a),
		Remission:              RemissionLikelihood(a, projected),
		WeightLossPct:          WeightLossPct(a),
		ProjectedActivity:      ProjectedActivity(a),
		ProjectedDiet:          ProjectedDiet(a),
		Reduction:              Reductions(a),
		ActivityChange:         ChangeBandFor(a.ActivityImprovement),
		DietChange:             ChangeBandFor(a.DietImprovement),
	}
}

// round rounds half away from zero. NaN passes through.
func round(v float64, places int) float64 {
	if math.IsInf(v, 0) {
		return v
	}
	r, err := stats.Round(v, places)
	if err != nil {
		return math.NaN()
	}
	return r
}
