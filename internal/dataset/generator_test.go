package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerate_Deterministic(t *testing.T) {
	gen := NewGenerator(zap.NewNop())

	first, err := gen.Generate(100, 42, nil)
	require.NoError(t, err)
	second, err := gen.Generate(100, 42, nil)
	require.NoError(t, err)

	a, err := first.ContentJSON()
	require.NoError(t, err)
	b, err := second.ContentJSON()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	gen := NewGenerator(zap.NewNop())

	first, err := gen.Generate(100, 1, nil)
	require.NoError(t, err)
	second, err := gen.Generate(100, 2, nil)
	require.NoError(t, err)

	a, _ := first.ContentJSON()
	b, _ := second.ContentJSON()
	assert.NotEqual(t, string(a), string(b))
}

func TestGenerate_ExactCountAndUniqueIDs(t *testing.T) {
	gen := NewGenerator(zap.NewNop())

	ds, err := gen.Generate(100, 7, nil)
	require.NoError(t, err)
	require.Len(t, ds.Records, 100)
	assert.False(t, ds.Partial)

	seen := make(map[string]bool)
	for _, rec := range ds.Records {
		assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
		assert.NotEmpty(t, rec.Text)
		assert.NotEmpty(t, rec.Tool)
		assert.Equal(t, "ru", rec.Metadata.Language)
	}
}

func TestGenerate_CategoryDistribution(t *testing.T) {
	gen := NewGenerator(zap.NewNop())

	ds, err := gen.Generate(100, 3, nil)
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, rec := range ds.Records {
		counts[rec.Metadata.Category]++
	}
	assert.Equal(t, 30, counts[CategoryFlights])
	assert.Equal(t, 30, counts[CategoryCalendar])
	assert.Equal(t, 15, counts[CategoryMusic])
	assert.Equal(t, 14, counts[CategoryNotes])
	assert.Equal(t, 11, counts[CategoryNoTool])
}

func TestGenerate_CategoryFilter(t *testing.T) {
	gen := NewGenerator(zap.NewNop())

	ds, err := gen.Generate(20, 5, []string{"music"})
	require.NoError(t, err)
	require.Len(t, ds.Records, 20)
	for _, rec := range ds.Records {
		assert.Equal(t, CategoryMusic, rec.Metadata.Category)
		assert.Equal(t, ToolSearchMusic, rec.Tool)
	}
}

func TestGenerate_UnknownCategory(t *testing.T) {
	gen := NewGenerator(zap.NewNop())

	_, err := gen.Generate(10, 1, []string{"weather"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestGenerate_InvalidCount(t *testing.T) {
	gen := NewGenerator(zap.NewNop())

	_, err := gen.Generate(0, 1, nil)
	assert.Error(t, err)
	_, err = gen.Generate(-5, 1, nil)
	assert.Error(t, err)
}

func TestGenerate_PoolExhaustionFails(t *testing.T) {
	gen := NewGenerator(zap.NewNop())

	// The no_tool pool holds 15 templates; at tolerance 3.0 the limit is 45.
	_, err := gen.Generate(200, 1, []string{"no_tool"})
	require.Error(t, err)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, CategoryNoTool, genErr.Category)
	assert.Equal(t, 200, genErr.Requested)
	assert.Equal(t, len(noToolTemplates), genErr.PoolSize)
}

func TestGenerate_AllowPartialCapsAtTolerance(t *testing.T) {
	gen := NewGenerator(zap.NewNop(), WithAllowPartial(true))

	ds, err := gen.Generate(200, 1, []string{"no_tool"})
	require.NoError(t, err)
	assert.True(t, ds.Partial)
	assert.Len(t, ds.Records, int(DefaultTolerance*float64(len(noToolTemplates))))
	assert.Equal(t, 200, ds.RequestedCount)
}

func TestGenerate_FlightParams(t *testing.T) {
	gen := NewGenerator(zap.NewNop())

	ds, err := gen.Generate(30, 11, []string{"flights"})
	require.NoError(t, err)
	for _, rec := range ds.Records {
		require.Equal(t, ToolFlightSchedule, rec.Tool)
		assert.NotEmpty(t, rec.Params["from_city"])
		assert.NotEmpty(t, rec.Params["to_city"])
		assert.NotEqual(t, rec.Params["from_city"], rec.Params["to_city"])
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, rec.Params["date"])
	}
}

func TestGenerate_NoWallClockInContent(t *testing.T) {
	gen := NewGenerator(zap.NewNop())

	ds, err := gen.Generate(50, 9, nil)
	require.NoError(t, err)
	for _, rec := range ds.Records {
		if iso, ok := rec.Params["date"]; ok {
			// All generated dates are offsets from the fixed epoch.
			assert.True(t, strings.HasPrefix(iso, "2025-0"), "unexpected date %s", iso)
		}
	}
}

func TestSplitCount_SumsToTotal(t *testing.T) {
	for _, count := range []int{1, 10, 33, 100, 997} {
		out := splitCount(count, AllCategories)
		total := 0
		for _, n := range out {
			total += n
		}
		assert.Equal(t, count, total, "count=%d", count)
	}
}

func TestComplexityOf(t *testing.T) {
	assert.Equal(t, "simple", complexityOf("Найди песню Кино"))
	assert.Equal(t, "medium", complexityOf("Посмотри пожалуйста рейсы из Москвы в Казань на завтра утром"))
	assert.Equal(t, "complex", complexityOf("Мне надо срочно в Казань из Москвы, что есть на завтра и сколько это будет стоить"))
}
