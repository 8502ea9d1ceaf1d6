package analysis

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/petrov1c/voiceval/internal/evaluation"
)

// Metric display thresholds: good at 90%, warning at 70%, bad below.
const (
	classGoodAt    = 0.9
	classWarningAt = 0.7
)

func metricClass(v float64) string {
	switch {
	case v >= classGoodAt:
		return "good"
	case v >= classWarningAt:
		return "warning"
	default:
		return "bad"
	}
}

const reportTemplate = `<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>Voice Assistant Evaluation Report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: 0.2em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
th { background: #f0f0f0; }
.good { background: #d4edda; }
.warning { background: #fff3cd; }
.bad { background: #f8d7da; }
.summary { background: #f7f7f7; padding: 1em; border-radius: 6px; }
.unreliable { color: #b00; font-weight: bold; }
</style>
</head>
<body>
<h1>Voice Assistant Evaluation Report</h1>

<div class="summary">
{{range .Summaries}}
<p><b>{{.Modality}}</b>: {{.ItemCount}} records, {{.FailureCount}} failures
{{- if .Unreliable}} <span class="unreliable">UNRELIABLE</span>{{end}}</p>
{{end}}
{{if .Gap}}<p><b>Overall modality gap</b>: {{printf "%.2f" .Gap.OverallScore}}%
{{- if .Gap.Unreliable}} <span class="unreliable">UNRELIABLE</span>{{end}}</p>{{end}}
</div>

{{range .Summaries}}
<h2>Modality: {{.Modality}}</h2>
<table>
<tr><th>Metric</th><th>Mean</th><th>Min</th><th>Max</th><th>Records</th></tr>
{{range .MetricRows}}
<tr>
<td>{{.Name}}</td>
<td class="{{.Class}}">{{printf "%.2f%%" .MeanPct}}</td>
<td>{{printf "%.3f" .Min}}</td>
<td>{{printf "%.3f" .Max}}</td>
<td>{{.Count}}</td>
</tr>
{{end}}
</table>

<table>
<tr><th>Tool</th><th>Precision</th><th>Recall</th><th>F1</th><th>FAR</th></tr>
{{range .ToolRows}}
<tr>
<td>{{.Name}}</td>
<td class="{{.PrecisionClass}}">{{printf "%.2f%%" .PrecisionPct}}</td>
<td class="{{.RecallClass}}">{{printf "%.2f%%" .RecallPct}}</td>
<td class="{{.F1Class}}">{{printf "%.2f%%" .F1Pct}}</td>
<td class="{{.FARClass}}">{{printf "%.2f%%" .FARPct}}</td>
</tr>
{{end}}
</table>
{{end}}

{{if .Gap}}
<h2>Modality gap (text vs audio)</h2>
<table>
<tr><th>Metric</th><th>Text</th><th>Audio</th><th>Delta (audio−text)</th><th>Relative gap</th></tr>
{{range .GapRows}}
<tr>
<td>{{.Name}}</td>
<td>{{printf "%.3f" .Text}}</td>
<td>{{printf "%.3f" .Audio}}</td>
<td>{{printf "%+.3f" .AbsDelta}}</td>
<td>{{printf "%.2f%%" .RelGapPct}}</td>
</tr>
{{end}}
</table>
{{if .Gap.Agreement}}
<p>Tool agreement rate: {{printf "%.2f%%" .AgreementPct}} |
Degradation rate: {{printf "%.2f%%" .DegradationPct}}
({{.Gap.Agreement.PairedRecords}} paired records)</p>
{{end}}
{{end}}

</body>
</html>
`

type metricRow struct {
	Name    string
	MeanPct float64
	Min     float64
	Max     float64
	Count   int
	Class   string
}

type toolRow struct {
	Name           string
	PrecisionPct   float64
	RecallPct      float64
	F1Pct          float64
	FARPct         float64
	PrecisionClass string
	RecallClass    string
	F1Class        string
	FARClass       string
}

type summaryView struct {
	*MetricSummary
	MetricRows []metricRow
	ToolRows   []toolRow
}

type gapRow struct {
	Name string
	MetricGap
}

type reportView struct {
	Summaries      []summaryView
	Gap            *ModalityGap
	GapRows        []gapRow
	AgreementPct   float64
	DegradationPct float64
}

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// WriteReport renders the HTML report plus the machine-readable JSON
// artifacts into outDir. Rendering is a pure function of its inputs, so
// re-running it over the same score records reproduces the same bytes.
func (a *Analyzer) WriteReport(summaries []*MetricSummary, gap *ModalityGap, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	view := reportView{Gap: gap}
	for _, s := range summaries {
		view.Summaries = append(view.Summaries, buildSummaryView(s))
		name := fmt.Sprintf("%s_metrics.json", s.Modality)
		if err := writeJSON(filepath.Join(outDir, name), s); err != nil {
			return err
		}
	}
	if gap != nil {
		for _, name := range evaluation.MetricNames {
			if mg, ok := gap.PerMetric[name]; ok {
				view.GapRows = append(view.GapRows, gapRow{Name: name, MetricGap: mg})
			}
		}
		if gap.Agreement != nil {
			view.AgreementPct = gap.Agreement.ToolAgreementRate * 100
			view.DegradationPct = gap.Agreement.DegradationRate * 100
		}
		if err := writeJSON(filepath.Join(outDir, "modality_gap.json"), gap); err != nil {
			return err
		}
	}

	path := filepath.Join(outDir, "report.html")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	defer f.Close()
	if err := reportTmpl.Execute(f, view); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	a.logger.Info("report written", zap.String("path", path))
	return nil
}

func buildSummaryView(s *MetricSummary) summaryView {
	view := summaryView{MetricSummary: s}
	for _, name := range evaluation.MetricNames {
		st, ok := s.Metrics[name]
		if !ok {
			continue
		}
		view.MetricRows = append(view.MetricRows, metricRow{
			Name:    name,
			MeanPct: st.Mean * 100,
			Min:     st.Min,
			Max:     st.Max,
			Count:   st.Count,
			Class:   metricClass(st.Mean),
		})
	}

	tools := make([]string, 0, len(s.Tools))
	for name := range s.Tools {
		tools = append(tools, name)
	}
	sort.Strings(tools)
	for _, name := range tools {
		tm := s.Tools[name]
		view.ToolRows = append(view.ToolRows, toolRow{
			Name:           name,
			PrecisionPct:   tm.Precision * 100,
			RecallPct:      tm.Recall * 100,
			F1Pct:          tm.F1 * 100,
			FARPct:         tm.FalseAlarmRate * 100,
			PrecisionClass: metricClass(tm.Precision),
			RecallClass:    metricClass(tm.Recall),
			F1Class:        metricClass(tm.F1),
			// FAR is inverted: low false alarm rates are good.
			FARClass: metricClass(1 - tm.FalseAlarmRate),
		})
	}
	return view
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
