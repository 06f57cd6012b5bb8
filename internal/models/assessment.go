// Package models contains data structures used throughout the application
package models

import (
	"errors"
	"fmt"
	"math"
)

// Sex of the person being assessed. Recorded for display only.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel is the self-reported current physical activity
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityHigh      ActivityLevel = "high"
)

// DietQuality is the self-reported current diet quality
type DietQuality string

const (
	DietVeryPoor   DietQuality = "very-poor"
	DietPoor       DietQuality = "poor"
	DietAcceptable DietQuality = "acceptable"
	DietGood       DietQuality = "good"
	DietVeryGood   DietQuality = "very-good"
)

// Input ranges accepted by the form layer
const (
	MinHbA1c       = 4.0
	MaxHbA1c       = 14.0
	MaxImprovement = 100
)

// Assessment is the form state the projection is derived from
type Assessment struct {
	Age                 int           `json:"age" yaml:"age"`
	Sex                 Sex           `json:"sex" yaml:"sex"`
	CurrentWeight       float64       `json:"currentWeight" yaml:"currentWeight"` // kg
	TargetWeight        float64       `json:"targetWeight" yaml:"targetWeight"`   // kg
	Activity            ActivityLevel `json:"activity" yaml:"activity"`
	ActivityImprovement int           `json:"activityImprovement" yaml:"activityImprovement"` // additive points, 0-100
	Diet                DietQuality   `json:"diet" yaml:"diet"`
	DietImprovement     int           `json:"dietImprovement" yaml:"dietImprovement"` // additive points, 0-100
	CurrentHbA1c        float64       `json:"currentHbA1c" yaml:"currentHbA1c"`       // percent
}

// DefaultAssessment returns the form state shown at startup
func DefaultAssessment() Assessment {
	return Assessment{
		Age:                 50,
		Sex:                 SexMale,
		CurrentWeight:       80,
		TargetWeight:        75,
		Activity:            ActivitySedentary,
		ActivityImprovement: 0,
		Diet:                DietPoor,
		DietImprovement:     0,
		CurrentHbA1c:        8.0,
	}
}

// Valid reports whether the level is one of the known activity levels
func (l ActivityLevel) Valid() bool {
	switch l {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityHigh:
		return true
	}
	return false
}

// Valid reports whether the quality is one of the known diet qualities
func (q DietQuality) Valid() bool {
	switch q {
	case DietVeryPoor, DietPoor, DietAcceptable, DietGood, DietVeryGood:
		return true
	}
	return false
}

// Valid reports whether the sex is one of the known values
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Validate checks every field against the ranges the form accepts and
// returns all violations joined together, or nil.
func (a Assessment) Validate() error {
	var errs []error

	if a.Age <= 0 {
		errs = append(errs, fmt.Errorf("age must be positive, got %d", a.Age))
	}
	if !a.Sex.Valid() {
		errs = append(errs, fmt.Errorf("unknown sex %q", a.Sex))
	}
	if !positive(a.CurrentWeight) {
		errs = append(errs, fmt.Errorf("current weight must be positive, got %v", a.CurrentWeight))
	}
	if !positive(a.TargetWeight) {
		errs = append(errs, fmt.Errorf("target weight must be positive, got %v", a.TargetWeight))
	}
	if !a.Activity.Valid() {
		errs = append(errs, fmt.Errorf("unknown activity level %q", a.Activity))
	}
	if a.ActivityImprovement < 0 || a.ActivityImprovement > MaxImprovement {
		errs = append(errs, fmt.Errorf("activity improvement must be within 0-%d, got %d", MaxImprovement, a.ActivityImprovement))
	}
	if !a.Diet.Valid() {
		errs = append(errs, fmt.Errorf("unknown diet quality %q", a.Diet))
	}
	if a.DietImprovement < 0 || a.DietImprovement > MaxImprovement {
		errs = append(errs, fmt.Errorf("diet improvement must be within 0-%d, got %d", MaxImprovement, a.DietImprovement))
	}
	if math.IsNaN(a.CurrentHbA1c) || a.CurrentHbA1c < MinHbA1c || a.CurrentHbA1c > MaxHbA1c {
		errs = append(errs, fmt.Errorf("current HbA1c must be within %.1f-%.1f%%, got %v", MinHbA1c, MaxHbA1c, a.CurrentHbA1c))
	}

	return errors.Join(errs...)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
