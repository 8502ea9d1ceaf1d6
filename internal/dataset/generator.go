package dataset

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTolerance is the average number of times a template/fill
	// combination may be reused before generation refuses the request.
	DefaultTolerance = 3.0

	// Fraction of prompts that phrase dates descriptively ("завтра",
	// weekday) instead of using the bare ISO date.
	descriptiveDateShare = 0.7

	// Number of distinct future-day offsets used for date fills.
	dateOffsets = 30
)

// Generator produces reproducible labeled datasets. All randomness comes from
// a private source seeded per Generate call, so identical parameters yield
// identical content.
type Generator struct {
	tolerance    float64
	allowPartial bool
	logger       *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithTolerance overrides the repetition tolerance.
func WithTolerance(t float64) Option {
	return func(g *Generator) {
		if t > 0 {
			g.tolerance = t
		}
	}
}

// WithAllowPartial makes the generator cap an oversized category at its
// tolerance limit and flag the dataset partial, instead of failing.
func WithAllowPartial(allow bool) Option {
	return func(g *Generator) { g.allowPartial = allow }
}

// NewGenerator creates a Generator. A nil logger is replaced with a no-op.
func NewGenerator(logger *zap.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		tolerance: DefaultTolerance,
		logger:    logger.With(zap.String("component", "dataset_generator")),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// subcategory binds a template pool size to its record factory.
type subcategory struct {
	poolSize int
	generate func(rng *rand.Rand, n int, startID int) []Record
}

// Generate produces a dataset of count records distributed over the given
// top-level categories (nil means all). The seed fixes every pseudo-random
// choice; wall clock is only recorded in CreatedAt, never consulted for
// content.
func (g *Generator) Generate(count int, seed int64, categories []string) (*Dataset, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	selected, err := selectCategories(categories)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	perCategory := splitCount(count, selected)

	partial := false
	var records []Record
	for _, cat := range selected {
		n := perCategory[cat]
		if n == 0 {
			continue
		}
		for _, sub := range subcategoriesFor(cat, n) {
			limit := int(g.tolerance * float64(sub.spec.poolSize))
			want := sub.n
			if want > limit {
				if !g.allowPartial {
					return nil, &GenerationError{
						Category:  cat,
						Requested: want,
						PoolSize:  sub.spec.poolSize,
						Tolerance: g.tolerance,
					}
				}
				g.logger.Warn("capping category at repetition tolerance",
					zap.String("category", cat),
					zap.Int("requested", want),
					zap.Int("capped", limit))
				want = limit
				partial = true
			}
			records = append(records, sub.spec.generate(rng, want, 1)...)
		}
		g.logger.Debug("generated category", zap.String("category", cat), zap.Int("count", n))
	}

	rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})

	ds := &Dataset{
		SchemaVersion:  schemaVersion,
		Seed:           seed,
		RequestedCount: count,
		Partial:        partial,
		CreatedAt:      time.Now().UTC(),
		Records:        records,
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("generated dataset failed validation: %w", err)
	}
	g.logger.Info("dataset generated",
		zap.Int64("seed", seed),
		zap.Int("requested", count),
		zap.Int("records", len(records)),
		zap.Bool("partial", partial))
	return ds, nil
}

// sizedSub pairs a subcategory spec with the number of records it owes.
type sizedSub struct {
	spec subcategory
	n    int
}

func subcategoriesFor(category string, n int) []sizedSub {
	switch category {
	case CategoryFlights:
		return []sizedSub{{flightSub, n}}
	case CategoryCalendar:
		// The first half takes the odd record so the category total is
		// conserved.
		return []sizedSub{
			{calendarAddSub, n/2 + n%2},
			{calendarGetSub, n / 2},
		}
	case CategoryMusic:
		return []sizedSub{{musicSub, n}}
	case CategoryNotes:
		return []sizedSub{
			{noteCreateSub, n/2 + n%2},
			{noteSearchSub, n / 2},
		}
	case CategoryNoTool:
		return []sizedSub{{noToolSub, n}}
	}
	return nil
}

func selectCategories(categories []string) ([]string, error) {
	if len(categories) == 0 {
		return AllCategories, nil
	}
	want := make(map[string]bool, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(strings.ToLower(c))
		valid := false
		for _, known := range AllCategories {
			if c == known {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("unknown category %q (valid: %s)", c, strings.Join(AllCategories, ", "))
		}
		want[c] = true
	}
	var selected []string
	for _, c := range AllCategories {
		if want[c] {
			selected = append(selected, c)
		}
	}
	return selected, nil
}

// splitCount distributes count over categories by their weights, renormalized
// over the selection. The last selected category absorbs integer-rounding
// leftovers, mirroring how no_tool takes the remainder in the full split.
func splitCount(count int, selected []string) map[string]int {
	const noToolWeight = 0.11

	total := 0.0
	for _, c := range selected {
		if c == CategoryNoTool {
			total += noToolWeight
		} else {
			total += categoryWeights[c]
		}
	}

	out := make(map[string]int, len(selected))
	assigned := 0
	for i, c := range selected {
		if i == len(selected)-1 {
			out[c] = count - assigned
			break
		}
		w := categoryWeights[c]
		if c == CategoryNoTool {
			w = noToolWeight
		}
		n := int(float64(count) * w / total)
		out[c] = n
		assigned += n
	}
	return out
}

func complexityOf(template string) string {
	switch words := len(strings.Fields(template)); {
	case words <= 7:
		return "simple"
	case words <= 12:
		return "medium"
	default:
		return "complex"
	}
}

// dateFill draws a day offset and decides between descriptive and ISO
// phrasing. Both draws always happen so the rng stream stays aligned.
func dateFill(rng *rand.Rand) (iso, phrased string) {
	offset := 1 + rng.Intn(dateOffsets)
	iso = epochDate(offset)
	if rng.Float64() < descriptiveDateShare {
		return iso, describeOffset(offset)
	}
	return iso, iso
}

func fill(template string, pairs ...string) string {
	return normalizePrompt(strings.NewReplacer(pairs...).Replace(template))
}

var flightSub = subcategory{
	poolSize: len(flightTemplates) * len(cities),
	generate: func(rng *rand.Rand, n, startID int) []Record {
		out := make([]Record, 0, n)
		for i := 0; i < n; i++ {
			ti := rng.Intn(len(flightTemplates))
			fromIdx := rng.Intn(len(cities))
			toIdx := rng.Intn(len(cities) - 1)
			if toIdx >= fromIdx {
				toIdx++
			}
			iso, phrased := dateFill(rng)
			text := fill(flightTemplates[ti],
				"{from_city}", cities[fromIdx],
				"{to_city}", cities[toIdx],
				"{date}", phrased)
			out = append(out, Record{
				ID:         fmt.Sprintf("flight_%03d", startID+i),
				Text:       text,
				TextForTTS: ttsText(text),
				Tool:       ToolFlightSchedule,
				Params: map[string]string{
					"from_city": cities[fromIdx],
					"to_city":   cities[toIdx],
					"date":      iso,
				},
				Metadata: Metadata{
					TemplateID: fmt.Sprintf("flight_template_%02d", ti+1),
					Complexity: complexityOf(flightTemplates[ti]),
					Language:   "ru",
					Category:   CategoryFlights,
				},
			})
		}
		return out
	},
}

var calendarAddSub = subcategory{
	poolSize: len(calendarAddTemplates) * len(meetingDescriptions),
	generate: func(rng *rand.Rand, n, startID int) []Record {
		out := make([]Record, 0, n)
		for i := 0; i < n; i++ {
			ti := rng.Intn(len(calendarAddTemplates))
			desc := meetingDescriptions[rng.Intn(len(meetingDescriptions))]
			iso, phrased := dateFill(rng)
			text := fill(calendarAddTemplates[ti], "{description}", desc, "{date}", phrased)
			out = append(out, Record{
				ID:         fmt.Sprintf("calendar_add_%03d", startID+i),
				Text:       text,
				TextForTTS: ttsText(text),
				Tool:       ToolAddCalendarEvent,
				Params:     map[string]string{"date": iso, "description": desc},
				Metadata: Metadata{
					TemplateID: fmt.Sprintf("calendar_add_template_%02d", ti+1),
					Complexity: complexityOf(calendarAddTemplates[ti]),
					Language:   "ru",
					Category:   CategoryCalendar,
				},
			})
		}
		return out
	},
}

var calendarGetSub = subcategory{
	poolSize: len(calendarGetTemplates) * dateOffsets,
	generate: func(rng *rand.Rand, n, startID int) []Record {
		out := make([]Record, 0, n)
		for i := 0; i < n; i++ {
			ti := rng.Intn(len(calendarGetTemplates))
			iso, phrased := dateFill(rng)
			text := fill(calendarGetTemplates[ti], "{date}", phrased)
			out = append(out, Record{
				ID:         fmt.Sprintf("calendar_get_%03d", startID+i),
				Text:       text,
				TextForTTS: ttsText(text),
				Tool:       ToolGetCalendarEvent,
				Params:     map[string]string{"date": iso},
				Metadata: Metadata{
					TemplateID: fmt.Sprintf("calendar_get_template_%02d", ti+1),
					Complexity: complexityOf(calendarGetTemplates[ti]),
					Language:   "ru",
					Category:   CategoryCalendar,
				},
			})
		}
		return out
	},
}

var musicSub = subcategory{
	poolSize: len(musicTemplates) * len(musicQueries),
	generate: func(rng *rand.Rand, n, startID int) []Record {
		out := make([]Record, 0, n)
		for i := 0; i < n; i++ {
			ti := rng.Intn(len(musicTemplates))
			query := musicQueries[rng.Intn(len(musicQueries))]
			searchType := "track"
			if !strings.Contains(query, " - ") {
				searchType = []string{"track", "artist"}[rng.Intn(2)]
			}
			text := fill(musicTemplates[ti], "{query}", query)
			out = append(out, Record{
				ID:         fmt.Sprintf("music_%03d", startID+i),
				Text:       text,
				TextForTTS: text,
				Tool:       ToolSearchMusic,
				Params:     map[string]string{"query": query, "search_type": searchType},
				Metadata: Metadata{
					TemplateID: fmt.Sprintf("music_template_%02d", ti+1),
					Complexity: complexityOf(musicTemplates[ti]),
					Language:   "ru",
					Category:   CategoryMusic,
				},
			})
		}
		return out
	},
}

var noteCreateSub = subcategory{
	poolSize: len(noteCreateTemplates) * len(noteContents),
	generate: func(rng *rand.Rand, n, startID int) []Record {
		out := make([]Record, 0, n)
		for i := 0; i < n; i++ {
			ti := rng.Intn(len(noteCreateTemplates))
			content := noteContents[rng.Intn(len(noteContents))]
			text := fill(noteCreateTemplates[ti], "{content}", content)
			out = append(out, Record{
				ID:         fmt.Sprintf("note_create_%03d", startID+i),
				Text:       text,
				TextForTTS: text,
				Tool:       ToolCreateNote,
				Params: map[string]string{
					"title":   strings.Fields(content)[0],
					"content": content,
				},
				Metadata: Metadata{
					TemplateID: fmt.Sprintf("note_create_template_%02d", ti+1),
					Complexity: complexityOf(noteCreateTemplates[ti]),
					Language:   "ru",
					Category:   CategoryNotes,
				},
			})
		}
		return out
	},
}

var noteSearchSub = subcategory{
	poolSize: len(noteSearchTemplates) * len(noteContents),
	generate: func(rng *rand.Rand, n, startID int) []Record {
		out := make([]Record, 0, n)
		for i := 0; i < n; i++ {
			ti := rng.Intn(len(noteSearchTemplates))
			query := strings.Fields(noteContents[rng.Intn(len(noteContents))])[0]
			text := fill(noteSearchTemplates[ti], "{query}", query)
			out = append(out, Record{
				ID:         fmt.Sprintf("note_search_%03d", startID+i),
				Text:       text,
				TextForTTS: text,
				Tool:       ToolSearchNotes,
				Params:     map[string]string{"query": query},
				Metadata: Metadata{
					TemplateID: fmt.Sprintf("note_search_template_%02d", ti+1),
					Complexity: complexityOf(noteSearchTemplates[ti]),
					Language:   "ru",
					Category:   CategoryNotes,
				},
			})
		}
		return out
	},
}

var noToolSub = subcategory{
	poolSize: len(noToolTemplates),
	generate: func(rng *rand.Rand, n, startID int) []Record {
		out := make([]Record, 0, n)
		for i := 0; i < n; i++ {
			ti := rng.Intn(len(noToolTemplates))
			text := noToolTemplates[ti]
			reason := "Запрос не требует вызова инструмента"
			lower := strings.ToLower(text)
			switch {
			case strings.Contains(lower, "поезд"):
				reason = "Поддерживаются только авиарейсы"
			case strings.Contains(lower, "париж"):
				reason = "Поддерживаются только рейсы по России"
			}
			out = append(out, Record{
				ID:         fmt.Sprintf("no_tool_%03d", startID+i),
				Text:       text,
				TextForTTS: text,
				Tool:       ToolNone,
				Params: map[string]string{
					"reason":       reason,
					"user_message": "Извините, я не могу помочь с этим запросом",
				},
				Metadata: Metadata{
					TemplateID: fmt.Sprintf("no_tool_template_%02d", ti+1),
					Complexity: "simple",
					Language:   "ru",
					Category:   CategoryNoTool,
				},
			})
		}
		return out
	},
}
