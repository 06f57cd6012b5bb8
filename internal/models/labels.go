package models

// Supported display languages
const (
	LangEnglish = "en"
	LangSpanish = "es"
)

type label struct{ en, es string }

func (l label) in(lang string) string {
	if lang == LangSpanish {
		return l.es
	}
	return l.en
}

var interpretationLabels = map[Interpretation]label{
	InterpretationLow:                 {"Low", "Bajo"},
	InterpretationNormal:              {"Normal", "Normal"},
	InterpretationPrediabetes:         {"Prediabetes", "Prediabetes"},
	InterpretationGoodControl:         {"Good control", "Control bueno"},
	InterpretationIntermediateControl: {"Intermediate control", "Control intermedio"},
	InterpretationPoorControl:         {"Poor control", "Control pobre"},
}

var likelihoodLabels = map[Likelihood]label{
	LikelihoodLow:    {"Low", "Baja"},
	LikelihoodMedium: {"Medium", "Media"},
	LikelihoodHigh:   {"High", "Alta"},
}

// Spanish uses the masculine form for risk ("riesgo alto")
var riskLabels = map[Likelihood]label{
	LikelihoodLow:    {"Low", "Bajo"},
	LikelihoodMedium: {"Medium", "Medio"},
	LikelihoodHigh:   {"High", "Alto"},
}

var timeToBenefitLabels = map[TimeToBenefit]label{
	TimeToBenefitThreeMonths: {"3 months", "3 meses"},
	TimeToBenefitThreeToSix:  {"3–6 months", "3-6 meses"},
	TimeToBenefitSixOrMore:   {"6 months or more", "6 meses o más"},
	TimeToBenefitNoEstimate:  {"—", "—"},
}

var remissionLabels = map[Remission]label{
	RemissionVeryPossible: {"Very possible", "Muy posible"},
	RemissionPossible:     {"Possible", "Posible"},
	RemissionDoubtful:     {"Unlikely", "Poco probable"},
	RemissionUnlikely:     {"Unlikely", "Improbable"},
}

var activityChangeLabels = map[ChangeBand]label{
	ChangeNone:     {"No change from current activity", "Sin cambios respecto a la actividad actual"},
	ChangeSmall:    {"Small improvement (more walks, more daily movement)", "Pequeña mejora (más caminatas, + movimiento diario)"},
	ChangeModerate: {"Moderate improvement (regular planned activity)", "Mejora moderada (actividad regular planificada)"},
	ChangeLarge:    {"Large improvement (structured, frequent exercise routine)", "Gran mejora (rutina de ejercicio estructurada, frecuente)"},
}

var dietChangeLabels = map[ChangeBand]label{
	ChangeNone:     {"No change from current diet", "Sin cambios respecto a la alimentación actual"},
	ChangeSmall:    {"Small improvement (fewer ultra-processed foods, more fruit and vegetables)", "Pequeña mejora (menos ultraprocesados, más frutas y verduras)"},
	ChangeModerate: {"Moderate improvement (sustained healthier eating pattern)", "Mejora moderada (patrón alimentario más saludable de forma sostenida)"},
	ChangeLarge:    {"Large improvement (Mediterranean or DASH style, high nutritional quality)", "Gran mejora (dieta tipo mediterránea o DASH, con alta calidad nutricional)"},
}

// Label returns the display text for the interpretation
func (i Interpretation) Label(lang string) string {
	return interpretationLabels[i].in(lang)
}

// String returns the English label
func (i Interpretation) String() string { return i.Label(LangEnglish) }

// Label returns the display text for the likelihood
func (l Likelihood) Label(lang string) string {
	return likelihoodLabels[l].in(lang)
}

// RiskLabel returns the display text when the rating describes a risk tier
func (l Likelihood) RiskLabel(lang string) string {
	return riskLabels[l].in(lang)
}

// String returns the English label
func (l Likelihood) String() string { return l.Label(LangEnglish) }

// Label returns the display text for the estimate
func (t TimeToBenefit) Label(lang string) string {
	return timeToBenefitLabels[t].in(lang)
}

// String returns the English label
func (t TimeToBenefit) String() string { return t.Label(LangEnglish) }

// Label returns the display text for the remission tier
func (r Remission) Label(lang string) string {
	return remissionLabels[r].in(lang)
}

// String returns the English label
func (r Remission) String() string { return r.Label(LangEnglish) }

// ActivityLabel describes a planned activity improvement of this size
func (b ChangeBand) ActivityLabel(lang string) string {
	return activityChangeLabels[b].in(lang)
}

// DietLabel describes a planned diet improvement of this size
func (b ChangeBand) DietLabel(lang string) string {
	return dietChangeLabels[b].in(lang)
}

// ChartLabels are the category and dataset labels of the HbA1c chart
type ChartLabels struct {
	Current   string
	Projected string
	Dataset   string
}

// HbA1cChartLabels returns the chart labels for a language
func HbA1cChartLabels(lang string) ChartLabels {
	if lang == LangSpanish {
		return ChartLabels{Current: "HbA1c actual", Projected: "HbA1c proyectada", Dataset: "HbA1c (%)"}
	}
	return ChartLabels{Current: "Current HbA1c", Projected: "Projected HbA1c", Dataset: "HbA1c (%)"}
}
