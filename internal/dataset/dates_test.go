package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEpochDate(t *testing.T) {
	assert.Equal(t, "2025-06-03", epochDate(1))
	assert.Equal(t, "2025-06-12", epochDate(10))
	assert.Equal(t, "2025-07-02", epochDate(30))
}

func TestDescribeOffset(t *testing.T) {
	tests := []struct {
		offset   int
		expected string
	}{
		{1, "завтра"},
		{2, "послезавтра"},
		{3, "в четверг"},
		{4, "в пятницу"},
		{5, "в субботу"},
		{6, "в воскресенье"},
		{7, "в понедельник"},
		{8, "2025-06-10"},
		{30, "2025-07-02"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, describeOffset(tt.offset), "offset %d", tt.offset)
	}
}

func TestSpellDate(t *testing.T) {
	assert.Equal(t, "пятнадцатое июня", spellDate("2025-06-15"))
	assert.Equal(t, "первое июля", spellDate("2025-07-01"))
	assert.Equal(t, "двадцать третье июня", spellDate("2025-06-23"))
	assert.Equal(t, "not-a-date", spellDate("not-a-date"))
}

func TestTTSText(t *testing.T) {
	assert.Equal(t,
		"Найди рейсы из Москвы в Казань на пятнадцатое июня",
		ttsText("Найди рейсы из Москвы в Казань на 2025-06-15"))
	assert.Equal(t, "Включи Земфира", ttsText("Включи Земфира"))
	assert.Equal(t, "Сколько будет 2 + 2?", ttsText("Сколько будет 2 + 2?"))
}

func TestNormalizePrompt(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Покажи события на в пятницу", "Покажи события в пятницу"},
		{"Добавь встречу планерка на понедельник утром", "Добавь встречу планерка в понедельник утром"},
		{"Что у меня  завтра", "Что у меня завтра"},
		{"Какие планы на завтра", "Какие планы на завтра"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizePrompt(tt.in))
	}
}
