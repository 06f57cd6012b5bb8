// Command hba1c-report prints the projected HbA1c impact of lifestyle
// changes without starting the desktop shell
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mrcode/hba1c-impact/internal/chart"
	"github.com/mrcode/hba1c-impact/internal/models"
	"github.com/mrcode/hba1c-impact/internal/presenter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type reportOptions struct {
	assessment models.Assessment
	sex        string
	activity   string
	diet       string
	format     string
	lang       string
	chartPath  string
	width      int
	height     int
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, err)
	}

	settings := models.DefaultSettings()
	if err := settings.ApplyEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      settings.SlogLevel(),
		TimeFormat: time.Kitchen,
	}))

	if err := newRootCmd(settings, logger).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(settings *models.Settings, logger *slog.Logger) *cobra.Command {
	defaults := models.DefaultAssessment()
	opts := reportOptions{assessment: defaults}

	cmd := &cobra.Command{
		Use:   "hba1c-report",
		Short: "Estimate how lifestyle changes could affect HbA1c",
		Long: `Estimate the projected HbA1c after weight loss, more physical activity and
a better diet, with derived clinical indicators.

Educational estimate only. It does not replace medical advice.

Example: hba1c-report --hba1c 8 --weight 80 --target-weight 72 --activity-improvement 40 --format yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("lang") {
				opts.lang = settings.Lang()
			}
			return runReport(cmd.OutOrStdout(), opts, logger)
		},
	}

	a := &opts.assessment
	cmd.Flags().IntVar(&a.Age, "age", defaults.Age, "Age in years")
	cmd.Flags().StringVar(&opts.sex, "sex", string(defaults.Sex), "Sex: male|female")
	cmd.Flags().Float64Var(&a.CurrentWeight, "weight", defaults.CurrentWeight, "Current weight in kg")
	cmd.Flags().Float64Var(&a.TargetWeight, "target-weight", defaults.TargetWeight, "Target weight in kg")
	cmd.Flags().StringVar(&opts.activity, "activity", string(defaults.Activity), "Activity level: sedentary|light|moderate|high")
	cmd.Flags().IntVar(&a.ActivityImprovement, "activity-improvement", defaults.ActivityImprovement, "Planned activity improvement, 0-100")
	cmd.Flags().StringVar(&opts.diet, "diet", string(defaults.Diet), "Diet quality: very-poor|poor|acceptable|good|very-good")
	cmd.Flags().IntVar(&a.DietImprovement, "diet-improvement", defaults.DietImprovement, "Planned diet improvement, 0-100")
	cmd.Flags().Float64Var(&a.CurrentHbA1c, "hba1c", defaults.CurrentHbA1c, "Current HbA1c in percent")
	cmd.Flags().StringVar(&opts.format, "format", formatText, "Output format: text|json|yaml")
	cmd.Flags().StringVar(&opts.lang, "lang", models.LangEnglish, "Label language: en|es")
	cmd.Flags().StringVar(&opts.chartPath, "chart", "", "Write the comparison chart to this PNG file")
	cmd.Flags().IntVar(&opts.width, "chart-width", settings.ChartWidth, "Chart width in pixels")
	cmd.Flags().IntVar(&opts.height, "chart-height", settings.ChartHeight, "Chart height in pixels")

	return cmd
}

func runReport(w io.Writer, opts reportOptions, logger *slog.Logger) error {
	a := opts.assessment
	a.Sex = models.Sex(strings.ToLower(opts.sex))
	a.Activity = models.ActivityLevel(strings.ToLower(opts.activity))
	a.Diet = models.DietQuality(strings.ToLower(opts.diet))

	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	if opts.lang != models.LangEnglish && opts.lang != models.LangSpanish {
		return fmt.Errorf("unsupported language %q", opts.lang)
	}
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", opts.width, opts.height)
	}

	var surface chart.Surface
	if opts.chartPath != "" {
		surface = chart.NewCanvas(opts.width, opts.height)
	}

	p := presenter.New(surface,
		presenter.WithAssessment(a),
		presenter.WithLanguage(opts.lang),
		presenter.WithLogger(logger),
	)
	defer p.Close()

	if opts.chartPath != "" {
		// Mount draws straight away
		p.Mount()
		data, err := p.ChartPNG()
		if err != nil {
			return fmt.Errorf("rendering chart: %w", err)
		}
		if err := os.WriteFile(opts.chartPath, data, 0600); err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		logger.Debug("chart written", "path", opts.chartPath, "bytes", len(data))
	}

	projection := p.Projection()

	switch opts.format {
	case formatText:
		return writeText(w, projection, opts.lang)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(projection)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(projection)
	default:
		return fmt.Errorf("unsupported format %q", opts.format)
	}
}

var textHeadings = map[string][]string{
	models.LangEnglish: {
		"Projected HbA1c", "Interpretation", "Medication suspension", "Cardiovascular risk",
		"Microvascular risk reduction", "Time to benefit", "Partial remission", "Activity", "Diet",
	},
	models.LangSpanish: {
		"HbA1c proyectada", "Interpretación", "Suspensión de medicación", "Riesgo cardiovascular",
		"Reducción de riesgo microvascular", "Tiempo hasta el beneficio", "Remisión parcial", "Actividad", "Dieta",
	},
}

func writeText(w io.Writer, p models.Projection, lang string) error {
	h := textHeadings[lang]
	rows := [][2]string{
		{h[0], fmt.Sprintf("%.2f%% → %.2f%% (-%.2f)", p.CurrentHbA1c, p.ProjectedHbA1c, p.Drop())},
		{h[1], p.Interpretation.Label(lang)},
		{h[2], p.MedicationSuspension.Label(lang)},
		{h[3], p.CardiovascularRisk.RiskLabel(lang)},
		{h[4], fmt.Sprintf("%d%%", p.MicrovascularReduction)},
		{h[5], p.TimeToBenefit.Label(lang)},
		{h[6], p.Remission.Label(lang)},
		{h[7], p.ActivityChange.ActivityLabel(lang)},
		{h[8], p.DietChange.DietLabel(lang)},
	}

	width := 0
	for _, r := range rows {
		width = max(width, len([]rune(r[0])))
	}
	for _, r := range rows {
		pad := strings.Repeat(" ", width-len([]rune(r[0])))
		if _, err := fmt.Fprintf(w, "%s:%s %s\n", r[0], pad, r[1]); err != nil {
			return err
		}
	}
	return nil
}
