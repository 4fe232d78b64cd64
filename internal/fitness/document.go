package fitness

import (
	"maps"
	"slices"
	"time"
)

// DateLayout is the on-disk calendar day format.
const DateLayout = "2006-01-02"

// PRs maps an exercise name to the heaviest weight ever logged for it.
type PRs map[string]float64

// Document is the whole persisted state of the tracker.
type Document struct {
	History    []WorkoutLogEntry `json:"history"`
	PRs        PRs               `json:"prs"`
	BodyWeight []WeightEntry     `json:"body_weight"`
	Calories   []NutritionEntry  `json:"calories"`
}

type WorkoutLogEntry struct {
	Date      string              `json:"date"`
	Day       string              `json:"day"`
	Exercises map[string]LogValue `json:"exercises"`
}

type WeightEntry struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

type NutritionEntry struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	// Food is only set for entries confirmed from a photo estimate.
	Food string `json:"food,omitempty"`
}

func NewDocument() *Document {
	doc := &Document{}
	doc.BackFill()
	return doc
}

// BackFill makes sure all top level collections exist,
// so documents written before a key was introduced still load.
func (d *Document) BackFill() {
	if d.History == nil {
		d.History = []WorkoutLogEntry{}
	}
	if d.PRs == nil {
		d.PRs = PRs{}
	}
	if d.BodyWeight == nil {
		d.BodyWeight = []WeightEntry{}
	}
	if d.Calories == nil {
		d.Calories = []NutritionEntry{}
	}
}

// Clone returns a deep copy; workflows mutate the copy, never the loaded document.
func (d *Document) Clone() *Document {
	clone := &Document{
		History:    make([]WorkoutLogEntry, 0, len(d.History)),
		PRs:        maps.Clone(d.PRs),
		BodyWeight: slices.Clone(d.BodyWeight),
		Calories:   slices.Clone(d.Calories),
	}
	for _, entry := range d.History {
		entry.Exercises = maps.Clone(entry.Exercises)
		clone.History = append(clone.History, entry)
	}
	clone.BackFill()
	return clone
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a stored day in the given location.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, date, loc)
}
