package metrics

// Outcome is one tool-selection observation: what the dataset expected and
// what the model predicted (empty when the model produced no tool call).
type Outcome struct {
	Expected  string
	Predicted string
	Parsable  bool
}

// Confusion holds one-vs-rest counts for a single tool.
type Confusion struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TN int `json:"tn"`
}

// ToolMetrics is the derived per-tool classification quality.
type ToolMetrics struct {
	Precision      float64   `json:"precision"`
	Recall         float64   `json:"recall"`
	F1             float64   `json:"f1"`
	FalseAlarmRate float64   `json:"false_alarm_rate"`
	Confusion      Confusion `json:"confusion"`
}

// PerTool computes one-vs-rest precision, recall, F1 and false alarm rate
// for every tool that appears in the outcomes, expected or predicted.
func PerTool(outcomes []Outcome) map[string]ToolMetrics {
	tools := make(map[string]struct{})
	for _, o := range outcomes {
		tools[o.Expected] = struct{}{}
		if o.Predicted != "" {
			tools[o.Predicted] = struct{}{}
		}
	}

	out := make(map[string]ToolMetrics, len(tools))
	for tool := range tools {
		var c Confusion
		for _, o := range outcomes {
			switch {
			case o.Expected == tool && o.Predicted == tool:
				c.TP++
			case o.Expected != tool && o.Predicted == tool:
				c.FP++
			case o.Expected == tool && o.Predicted != tool:
				c.FN++
			default:
				c.TN++
			}
		}
		out[tool] = derive(c)
	}
	return out
}

func derive(c Confusion) ToolMetrics {
	m := ToolMetrics{Confusion: c}
	if c.TP+c.FP > 0 {
		m.Precision = float64(c.TP) / float64(c.TP+c.FP)
	}
	if c.TP+c.FN > 0 {
		m.Recall = float64(c.TP) / float64(c.TP+c.FN)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	if c.FP+c.TN > 0 {
		m.FalseAlarmRate = float64(c.FP) / float64(c.FP+c.TN)
	}
	return m
}

// Accuracy is the share of outcomes whose predicted tool matches the
// expected one.
func Accuracy(outcomes []Outcome) float64 {
	if len(outcomes) == 0 {
		return 0.0
	}
	correct := 0
	for _, o := range outcomes {
		if o.Expected == o.Predicted {
			correct++
		}
	}
	return float64(correct) / float64(len(outcomes))
}

// ParsableRate is the share of tool invocations that were well-formed, over
// all outcomes where the model attempted an invocation.
func ParsableRate(outcomes []Outcome) float64 {
	parsable, invocations := 0, 0
	for _, o := range outcomes {
		if o.Predicted == "" {
			continue
		}
		invocations++
		if o.Parsable {
			parsable++
		}
	}
	if invocations == 0 {
		return 0.0
	}
	return float64(parsable) / float64(invocations)
}
