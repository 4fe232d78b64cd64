package fitness_test

import (
	"testing"

	"github.com/2beens/fitcoach/internal/fitness"

	"github.com/stretchr/testify/assert"
)

func TestNewDocument(t *testing.T) {
	doc := fitness.NewDocument()
	assert.NotNil(t, doc.History)
	assert.NotNil(t, doc.PRs)
	assert.NotNil(t, doc.BodyWeight)
	assert.NotNil(t, doc.Calories)
}

func TestDocument_Clone(t *testing.T) {
	doc := fitness.NewDocument()
	doc.PRs["Leg Press"] = 140
	doc.History = append(doc.History, fitness.WorkoutLogEntry{
		Date:      "2024-01-02",
		Day:       "Tuesday",
		Exercises: map[string]fitness.LogValue{"Leg Press": fitness.Numeric(140)},
	})

	clone := doc.Clone()
	clone.PRs["Leg Press"] = 150
	clone.History[0].Exercises["Leg Press"] = fitness.Numeric(150)
	clone.BodyWeight = append(clone.BodyWeight, fitness.WeightEntry{Date: "2024-01-02", Weight: 230})

	assert.Equal(t, 140.0, doc.PRs["Leg Press"])
	weight, _ := doc.History[0].Exercises["Leg Press"].Number()
	assert.Equal(t, 140.0, weight)
	assert.Empty(t, doc.BodyWeight)
}
