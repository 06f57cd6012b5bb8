package models

// Interpretation is the qualitative band of an HbA1c value
type Interpretation string

const (
	InterpretationLow                 Interpretation = "low"
	InterpretationNormal              Interpretation = "normal"
	InterpretationPrediabetes         Interpretation = "prediabetes"
	InterpretationGoodControl         Interpretation = "good_control"
	InterpretationIntermediateControl Interpretation = "intermediate_control"
	InterpretationPoorControl         Interpretation = "poor_control"
)

// Likelihood is a three-step Low/Medium/High rating, used for medication
// suspension and cardiovascular risk
type Likelihood string

const (
	LikelihoodLow    Likelihood = "low"
	LikelihoodMedium Likelihood = "medium"
	LikelihoodHigh   Likelihood = "high"
)

// Rank orders likelihoods so that higher tiers compare greater
func (l Likelihood) Rank() int {
	switch l {
	case LikelihoodHigh:
		return 2
	case LikelihoodMedium:
		return 1
	default:
		return 0
	}
}

// TimeToBenefit estimates when clinical benefit becomes visible
type TimeToBenefit string

const (
	TimeToBenefitThreeMonths TimeToBenefit = "3_months"
	TimeToBenefitThreeToSix  TimeToBenefit = "3_6_months"
	TimeToBenefitSixOrMore   TimeToBenefit = "6_months_or_more"
	TimeToBenefitNoEstimate  TimeToBenefit = "none"
)

// Remission is the partial-remission likelihood
type Remission string

const (
	RemissionVeryPossible Remission = "very_possible"
	RemissionPossible     Remission = "possible"
	// RemissionDoubtful passed the weight-loss and HbA1c gate but lacks
	// enough diet and activity improvement. Shown as "Unlikely".
	RemissionDoubtful Remission = "doubtful"
	// RemissionUnlikely did not pass the gate.
	RemissionUnlikely Remission = "unlikely"
)

// Rank orders remission tiers so that more likely tiers compare greater
func (r Remission) Rank() int {
	switch r {
	case RemissionVeryPossible:
		return 3
	case RemissionPossible:
		return 2
	case RemissionDoubtful:
		return 1
	default:
		return 0
	}
}

// ChangeBand describes the size of a planned improvement
type ChangeBand string

const (
	ChangeNone     ChangeBand = "none"
	ChangeSmall    ChangeBand = "small"
	ChangeModerate ChangeBand = "moderate"
	ChangeLarge    ChangeBand = "large"
)

// Reduction is the breakdown of the HbA1c reduction by lifestyle factor
type Reduction struct {
	Weight   float64 `json:"weight" yaml:"weight"`
	Activity float64 `json:"activity" yaml:"activity"`
	Diet     float64 `json:"diet" yaml:"diet"`
}

// Total returns the summed reduction in HbA1c points
func (r Reduction) Total() float64 {
	return r.Weight + r.Activity + r.Diet
}

// Projection holds every output derived from an Assessment
type Projection struct {
	CurrentHbA1c   float64 `json:"currentHbA1c" yaml:"currentHbA1c"`
	ProjectedHbA1c float64 `json:"projectedHbA1c" yaml:"projectedHbA1c"` // rounded to 2 decimals

	Interpretation         Interpretation `json:"interpretation" yaml:"interpretation"`
	MedicationSuspension   Likelihood     `json:"medicationSuspension" yaml:"medicationSuspension"`
	CardiovascularRisk     Likelihood     `json:"cardiovascularRisk" yaml:"cardiovascularRisk"`
	MicrovascularReduction int            `json:"microvascularReduction" yaml:"microvascularReduction"` // percent
	TimeToBenefit          TimeToBenefit  `json:"timeToBenefit" yaml:"timeToBenefit"`
	Remission              Remission      `json:"remission" yaml:"remission"`

	// Intermediate values
	WeightLossPct     float64    `json:"weightLossPct" yaml:"weightLossPct"`
	ProjectedActivity int        `json:"projectedActivity" yaml:"projectedActivity"`
	ProjectedDiet     int        `json:"projectedDiet" yaml:"projectedDiet"`
	Reduction         Reduction  `json:"reduction" yaml:"reduction"`
	ActivityChange    ChangeBand `json:"activityChange" yaml:"activityChange"`
	DietChange        ChangeBand `json:"dietChange" yaml:"dietChange"`
}

// Drop returns how many HbA1c points the projection lowers the current value
func (p Projection) Drop() float64 {
	return p.CurrentHbA1c - p.ProjectedHbA1c
}
