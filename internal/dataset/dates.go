package dataset

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// datasetEpoch anchors all generated dates. Generation must not observe the
// wall clock, otherwise two runs with the same seed diverge. The epoch is a
// Monday so weekday phrasing stays stable.
var datasetEpoch = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

// Accusative weekday names indexed from Monday, matching the phrasing
// "в пятницу" / "в среду".
var weekdaysAccusative = []string{
	"понедельник", "вторник", "среду", "четверг", "пятницу", "субботу", "воскресенье",
}

// epochDate returns the ISO date string for the given day offset from the epoch.
func epochDate(offset int) string {
	return datasetEpoch.AddDate(0, 0, offset).Format("2006-01-02")
}

// describeOffset phrases a day offset the way a user would say it: tomorrow,
// the day after, a weekday within the week, or the bare ISO date.
func describeOffset(offset int) string {
	switch {
	case offset == 1:
		return "завтра"
	case offset == 2:
		return "послезавтра"
	case offset <= 7:
		wd := datasetEpoch.AddDate(0, 0, offset).Weekday()
		// time.Weekday counts from Sunday; our table counts from Monday.
		idx := (int(wd) + 6) % 7
		return "в " + weekdaysAccusative[idx]
	default:
		return epochDate(offset)
	}
}

var dayOrdinalsGenitive = map[int]string{
	1: "первое", 2: "второе", 3: "третье", 4: "четвертое",
	5: "пятое", 6: "шестое", 7: "седьмое", 8: "восьмое",
	9: "девятое", 10: "десятое", 11: "одиннадцатое", 12: "двенадцатое",
	13: "тринадцатое", 14: "четырнадцатое", 15: "пятнадцатое", 16: "шестнадцатое",
	17: "семнадцатое", 18: "восемнадцатое", 19: "девятнадцатое", 20: "двадцатое",
	21: "двадцать первое", 22: "двадцать второе", 23: "двадцать третье",
	24: "двадцать четвертое", 25: "двадцать пятое", 26: "двадцать шестое",
	27: "двадцать седьмое", 28: "двадцать восьмое", 29: "двадцать девятое",
	30: "тридцатое", 31: "тридцать первое",
}

var monthsGenitive = map[time.Month]string{
	time.January: "января", time.February: "февраля", time.March: "марта",
	time.April: "апреля", time.May: "мая", time.June: "июня",
	time.July: "июля", time.August: "августа", time.September: "сентября",
	time.October: "октября", time.November: "ноября", time.December: "декабря",
}

var isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// spellDate renders an ISO date as spoken Russian, e.g. "пятнадцатое июня".
func spellDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	day, ok := dayOrdinalsGenitive[t.Day()]
	if !ok {
		return iso
	}
	return fmt.Sprintf("%s %s", day, monthsGenitive[t.Month()])
}

// ttsText rewrites a prompt for speech synthesis: bare ISO dates are spelled
// out, everything else passes through. Prompts without dates are unchanged.
func ttsText(text string) string {
	if !strings.ContainsAny(text, "0123456789") {
		return text
	}
	return isoDateRe.ReplaceAllStringFunc(text, spellDate)
}
