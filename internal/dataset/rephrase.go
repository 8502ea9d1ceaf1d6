package dataset

import "strings"

// Template substitution leaves a few case-agreement artifacts in Russian,
// most visibly nominative weekday names after prepositions. The generator
// runs every prompt through this rule-based pass; it is pure string
// rewriting, so determinism is preserved.
var weekdayCorrections = [][2]string{
	{"на понедельник ", "в понедельник "},
	{"на вторник ", "во вторник "},
	{"на среда", "в среду"},
	{"на четверг ", "в четверг "},
	{"на пятница", "в пятницу"},
	{"на суббота", "в субботу"},
	{"на воскресенье ", "в воскресенье "},
	{"на в ", "в "},
	{"  ", " "},
}

func normalizePrompt(text string) string {
	out := text
	for _, c := range weekdayCorrections {
		out = strings.ReplaceAll(out, c[0], c[1])
	}
	return strings.TrimSpace(out)
}
