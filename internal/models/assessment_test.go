package models

import (
	"math"
	"strings"
	"testing"
)

func TestDefaultAssessment(t *testing.T) {
	a := DefaultAssessment()

	if a.Age != 50 {
		t.Errorf("Default age = %d, want 50", a.Age)
	}
	if a.CurrentWeight != 80 || a.TargetWeight != 75 {
		t.Errorf("Default weights = %v -> %v, want 80 -> 75", a.CurrentWeight, a.TargetWeight)
	}
	if a.Activity != ActivitySedentary {
		t.Errorf("Default activity = %s, want sedentary", a.Activity)
	}
	if a.Diet != DietPoor {
		t.Errorf("Default diet = %s, want poor", a.Diet)
	}
	if a.CurrentHbA1c != 8.0 {
		t.Errorf("Default HbA1c = %v, want 8.0", a.CurrentHbA1c)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Default assessment should be valid: %v", err)
	}
}

func TestAssessment_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Assessment)
		wantErr string
	}{
		{"Zero age", func(a *Assessment) { a.Age = 0 }, "age"},
		{"Unknown sex", func(a *Assessment) { a.Sex = "other" }, "sex"},
		{"Zero weight", func(a *Assessment) { a.CurrentWeight = 0 }, "current weight"},
		{"Infinite target", func(a *Assessment) { a.TargetWeight = math.Inf(1) }, "target weight"},
		{"Unknown activity", func(a *Assessment) { a.Activity = "extreme" }, "activity level"},
		{"Activity over range", func(a *Assessment) { a.ActivityImprovement = 101 }, "activity improvement"},
		{"Unknown diet", func(a *Assessment) { a.Diet = "awful" }, "diet quality"},
		{"Negative diet improvement", func(a *Assessment) { a.DietImprovement = -1 }, "diet improvement"},
		{"HbA1c too high", func(a *Assessment) { a.CurrentHbA1c = 15 }, "HbA1c"},
		{"HbA1c NaN", func(a *Assessment) { a.CurrentHbA1c = math.NaN() }, "HbA1c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DefaultAssessment()
			tt.modify(&a)
			err := a.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestAssessment_ValidateReportsAll(t *testing.T) {
	a := DefaultAssessment()
	a.Age = -1
	a.Diet = ""
	a.CurrentHbA1c = 2

	err := a.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if got := len(strings.Split(err.Error(), "\n")); got != 3 {
		t.Errorf("Validate() reported %d problems, want 3: %v", got, err)
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Good control en", InterpretationGoodControl.Label(LangEnglish), "Good control"},
		{"Good control es", InterpretationGoodControl.Label(LangSpanish), "Control bueno"},
		{"Medication high es", LikelihoodHigh.Label(LangSpanish), "Alta"},
		{"Risk high es", LikelihoodHigh.RiskLabel(LangSpanish), "Alto"},
		{"Three to six en", TimeToBenefitThreeToSix.String(), "3–6 months"},
		{"No estimate", TimeToBenefitNoEstimate.String(), "—"},
		{"Doubtful en", RemissionDoubtful.String(), "Unlikely"},
		{"Doubtful es", RemissionDoubtful.Label(LangSpanish), "Poco probable"},
		{"Unlikely es", RemissionUnlikely.Label(LangSpanish), "Improbable"},
		{"Unknown language falls back", InterpretationLow.Label("de"), "Low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("label = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestRanks(t *testing.T) {
	if LikelihoodHigh.Rank() <= LikelihoodMedium.Rank() || LikelihoodMedium.Rank() <= LikelihoodLow.Rank() {
		t.Error("Likelihood ranks are not increasing")
	}
	if RemissionVeryPossible.Rank() <= RemissionPossible.Rank() || RemissionPossible.Rank() <= RemissionDoubtful.Rank() {
		t.Error("Remission ranks are not increasing")
	}
	if RemissionUnlikely.Rank() != 0 {
		t.Errorf("RemissionUnlikely.Rank() = %d, want 0", RemissionUnlikely.Rank())
	}
}
