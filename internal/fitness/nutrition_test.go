package fitness_test

import (
	"testing"

	"github.com/2beens/fitcoach/internal/fitness"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateNutrition_ExactGoals(t *testing.T) {
	report := fitness.EvaluateNutrition(2300, 180)

	assert.False(t, report.Calories.Over)
	assert.Zero(t, report.Calories.Remaining)
	assert.Zero(t, report.Calories.OverBy)

	assert.True(t, report.Protein.GoalMet)
	assert.Zero(t, report.Protein.Surplus)
	assert.Zero(t, report.Protein.Deficit)

	assert.Equal(t, []string{
		"0 calories remaining!",
		"Protein goal hit! (+0g)",
	}, report.Messages())
}

func TestEvaluateNutrition_OverAndDeficit(t *testing.T) {
	report := fitness.EvaluateNutrition(2500, 150)

	assert.True(t, report.Calories.Over)
	assert.Equal(t, 200.0, report.Calories.OverBy)
	assert.Zero(t, report.Calories.Remaining)

	assert.False(t, report.Protein.GoalMet)
	assert.Equal(t, 30.0, report.Protein.Deficit)

	assert.Equal(t, []string{
		"200 calories over limit.",
		"Missing 30g of protein.",
	}, report.Messages())
}

func TestEvaluateNutrition_RemainingAndSurplus(t *testing.T) {
	report := fitness.EvaluateNutrition(1800.5, 200)

	assert.False(t, report.Calories.Over)
	assert.Equal(t, 499.5, report.Calories.Remaining)
	assert.True(t, report.Protein.GoalMet)
	assert.Equal(t, 20.0, report.Protein.Surplus)
}
