package evaluation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/petrov1c/voiceval/internal/dataset"
)

// systemPrompt instructs the model under test to answer with a single tool
// invocation. The tool list is fixed by the dataset contract.
var systemPrompt = fmt.Sprintf(`Ты голосовой помощник. Определи, какой инструмент нужен для запроса пользователя, и ответь ТОЛЬКО JSON объектом вида {"tool": "<имя>", "params": {...}}.
Доступные инструменты: %s.
Если запрос не требует инструмента, используй "no_tool_available".`,
	strings.Join(dataset.AllTools, ", "))

// invocation is the parsed model answer.
type invocation struct {
	Tool   string            `json:"tool"`
	Params map[string]string `json:"params"`
}

// parseInvocation extracts the first JSON object from the model output and
// decodes it as a tool invocation. ok reports whether the output was
// parsable at all; a parsable answer may still name the wrong tool.
func parseInvocation(text string) (invocation, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return invocation{}, false
	}

	// Params values may arrive as numbers or nested objects; coerce
	// everything to strings so scoring stays uniform.
	var raw struct {
		Tool   string                     `json:"tool"`
		Params map[string]json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return invocation{}, false
	}
	if raw.Tool == "" {
		return invocation{}, false
	}

	inv := invocation{Tool: raw.Tool, Params: make(map[string]string, len(raw.Params))}
	for k, v := range raw.Params {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			inv.Params[k] = s
		} else {
			inv.Params[k] = strings.Trim(string(v), `"`)
		}
	}
	return inv, true
}

// canonical renders a tool invocation as a stable string for lexical
// comparison: the tool name followed by params in key order.
func canonical(tool string, params map[string]string) string {
	if tool == "" {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(tool)
	for _, k := range keys {
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(params[k])
	}
	return sb.String()
}

// ReferenceReply renders the canonical correct model answer for a record.
// Deterministic stub providers use it to produce perfect-score runs.
func ReferenceReply(rec dataset.Record) string {
	data, _ := json.Marshal(map[string]any{"tool": rec.Tool, "params": rec.Params})
	return string(data)
}
