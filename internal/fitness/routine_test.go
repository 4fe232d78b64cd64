package fitness_test

import (
	"testing"
	"time"

	"github.com/2beens/fitcoach/internal/fitness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutineFor(t *testing.T) {
	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		r, ok := fitness.RoutineFor(wd)
		require.True(t, ok, wd.String())
		assert.NotEmpty(t, r.Focus)
		assert.Len(t, r.Exercises, 5)
	}

	for _, wd := range []time.Weekday{time.Saturday, time.Sunday} {
		_, ok := fitness.RoutineFor(wd)
		assert.False(t, ok, wd.String())
	}

	monday, _ := fitness.RoutineFor(time.Monday)
	assert.Equal(t, "UPPER BODY A (Push/Pull)", monday.Focus)
	assert.Equal(t, []string{"Chest Press", "Seated Row", "Shoulder Press", "Lat Pulldown", "Plank"}, monday.Exercises)

	// callers get their own copy
	monday.Exercises[0] = "changed"
	again, _ := fitness.RoutineFor(time.Monday)
	assert.Equal(t, "Chest Press", again.Exercises[0])
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, fitness.KindTimed, fitness.KindOf("Plank"))
	assert.Equal(t, fitness.KindTimed, fitness.KindOf("Russian Twists"))
	assert.Equal(t, fitness.KindWeighted, fitness.KindOf("Leg Press"))
}

func TestPlanFor(t *testing.T) {
	prs := fitness.PRs{"Chest Press": 100, "Plank": 5}
	plan := fitness.PlanFor(time.Monday, prs)

	assert.Equal(t, "Monday", plan.Day)
	assert.False(t, plan.RestDay)
	require.Len(t, plan.Exercises, 5)

	chest := plan.Exercises[0]
	assert.Equal(t, "Chest Press", chest.Name)
	require.NotNil(t, chest.CurrentPR)
	require.NotNil(t, chest.Target)
	assert.Equal(t, 100.0, *chest.CurrentPR)
	assert.Equal(t, 105, *chest.Target)

	// never logged
	assert.Nil(t, plan.Exercises[1].Target)
	assert.Nil(t, plan.Exercises[1].CurrentPR)

	// timed exercises have no target
	plank := plan.Exercises[4]
	assert.Equal(t, fitness.KindTimed, plank.Kind)
	assert.Nil(t, plank.Target)

	rest := fitness.PlanFor(time.Sunday, prs)
	assert.True(t, rest.RestDay)
	assert.Empty(t, rest.Exercises)
}
