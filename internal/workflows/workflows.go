package workflows

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/estimator"
	"github.com/2beens/fitcoach/internal/fitness"
)

// Name identifies one of the user facing workflows.
type Name string

const (
	Workout   Name = "workout"
	Weight    Name = "weight"
	Nutrition Name = "nutrition"
	Meal      Name = "meal"
	Progress  Name = "progress"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnknownWorkflow  = errors.New("unknown workflow")
	ErrInvalidInput     = errors.New("invalid input")
	ErrRestDay          = errors.New("today is a rest day")
)

// Input carries everything a workflow may need. Each workflow reads only its own fields.
type Input struct {
	Today time.Time
	// workout
	Exercises map[string]fitness.LogValue
	// weight
	Weight float64
	// nutrition
	Calories float64
	Protein  float64
	// meal, a photo estimate the user confirmed
	Meal *estimator.Estimate
}

type NewPR struct {
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
}

// Result is what the user gets back from a workflow run.
type Result struct {
	Workflow  Name                     `json:"workflow"`
	Mutated   bool                     `json:"mutated"`
	Messages  []string                 `json:"messages"`
	NewPRs    []NewPR                  `json:"newPrs,omitempty"`
	Nutrition *fitness.NutritionReport `json:"nutrition,omitempty"`
	Progress  *fitness.ProgressReport  `json:"progress,omitempty"`
	Streak    int                      `json:"streak"`
}

// Workflow is a pure function from the current document and the user input
// to the updated document and the result. The given document is never modified.
type Workflow func(doc *fitness.Document, in Input) (*fitness.Document, *Result, error)

func Registry() map[Name]Workflow {
	return map[Name]Workflow{
		Workout:   LogWorkout,
		Weight:    LogWeight,
		Nutrition: LogNutrition,
		Meal:      LogMeal,
		Progress:  ReviewProgress,
	}
}

// LogWorkout records today's planned exercises and updates the PRs.
// Exercises missing from the input are logged with an empty value.
func LogWorkout(doc *fitness.Document, in Input) (*fitness.Document, *Result, error) {
	day := in.Today.Weekday()
	plan, ok := fitness.RoutineFor(day)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrRestDay, day)
	}

	planned := make(map[string]bool, len(plan.Exercises))
	for _, name := range plan.Exercises {
		planned[name] = true
	}

	for name, value := range in.Exercises {
		if !planned[name] {
			return nil, nil, fmt.Errorf("%w: [%s] is not part of the %s plan", ErrInvalidInput, name, day)
		}
		if err := validateLogValue(name, value); err != nil {
			return nil, nil, err
		}
	}

	updated := doc.Clone()
	entry := fitness.WorkoutLogEntry{
		Date:      fitness.FormatDate(in.Today),
		Day:       day.String(),
		Exercises: make(map[string]fitness.LogValue, len(plan.Exercises)),
	}

	result := &Result{Workflow: Workout, Mutated: true}
	for _, name := range plan.Exercises {
		value, ok := in.Exercises[name]
		if !ok {
			value = emptyLogValue(name)
		}
		entry.Exercises[name] = value

		var isNewPR bool
		updated.PRs, isNewPR = fitness.RecordResult(updated.PRs, name, value)
		if isNewPR {
			weight, _ := value.Number()
			result.NewPRs = append(result.NewPRs, NewPR{Exercise: name, Weight: weight})
		}
	}
	updated.History = append(updated.History, entry)

	result.Messages = append(result.Messages, "Workout saved!")
	if len(result.NewPRs) > 0 {
		prs := make([]string, 0, len(result.NewPRs))
		for _, pr := range result.NewPRs {
			prs = append(prs, fmt.Sprintf("%s (%s lbs)", pr.Exercise, fitness.Numeric(pr.Weight)))
		}
		result.Messages = append(result.Messages, "NEW PRs SET: "+strings.Join(prs, ", "))
	}

	return updated, result, nil
}

func LogWeight(doc *fitness.Document, in Input) (*fitness.Document, *Result, error) {
	if !isFinite(in.Weight) || in.Weight <= 0 {
		return nil, nil, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}

	updated := doc.Clone()
	updated.BodyWeight = append(updated.BodyWeight, fitness.WeightEntry{
		Date:   fitness.FormatDate(in.Today),
		Weight: in.Weight,
	})

	return updated, &Result{
		Workflow: Weight,
		Mutated:  true,
		Messages: []string{"Weight logged!"},
	}, nil
}

func LogNutrition(doc *fitness.Document, in Input) (*fitness.Document, *Result, error) {
	return logFood(doc, in.Today, Nutrition, in.Calories, in.Protein, "")
}

// LogMeal logs a photo estimate, once the user confirmed it.
func LogMeal(doc *fitness.Document, in Input) (*fitness.Document, *Result, error) {
	if in.Meal == nil {
		return nil, nil, fmt.Errorf("%w: no meal estimate to log", ErrInvalidInput)
	}
	return logFood(doc, in.Today, Meal, in.Meal.Calories, in.Meal.Protein, in.Meal.FoodName)
}

func ReviewProgress(doc *fitness.Document, in Input) (*fitness.Document, *Result, error) {
	report := fitness.Progress(doc, in.Today)

	var messages []string
	if report.CurrentWeight != nil {
		messages = append(messages, fmt.Sprintf("Current weight: %s lbs", fitness.Numeric(*report.CurrentWeight)))
	} else {
		messages = append(messages, "No weight data yet.")
	}
	if len(report.Calories) == 0 {
		messages = append(messages, "No nutrition data yet.")
	}

	return doc, &Result{
		Workflow: Progress,
		Messages: messages,
		Progress: &report,
	}, nil
}

func logFood(doc *fitness.Document, today time.Time, name Name, calories, protein float64, food string) (*fitness.Document, *Result, error) {
	if !isFinite(calories) || calories < 0 {
		return nil, nil, fmt.Errorf("%w: calories must not be negative", ErrInvalidInput)
	}
	if !isFinite(protein) || protein < 0 {
		return nil, nil, fmt.Errorf("%w: protein must not be negative", ErrInvalidInput)
	}

	updated := doc.Clone()
	updated.Calories = append(updated.Calories, fitness.NutritionEntry{
		Date:     fitness.FormatDate(today),
		Calories: calories,
		Protein:  protein,
		Food:     strings.TrimSpace(food),
	})

	report := fitness.EvaluateNutrition(calories, protein)
	return updated, &Result{
		Workflow:  name,
		Mutated:   true,
		Messages:  report.Messages(),
		Nutrition: &report,
	}, nil
}

func validateLogValue(exercise string, value fitness.LogValue) error {
	switch fitness.KindOf(exercise) {
	case fitness.KindTimed:
		if _, ok := value.Text(); !ok {
			return fmt.Errorf("%w: [%s] is logged as time/reps text", ErrInvalidInput, exercise)
		}
	default:
		weight, ok := value.Number()
		if !ok {
			return fmt.Errorf("%w: [%s] is logged as a weight", ErrInvalidInput, exercise)
		}
		if !isFinite(weight) || weight < 0 {
			return fmt.Errorf("%w: [%s] weight must not be negative", ErrInvalidInput, exercise)
		}
	}
	return nil
}

func emptyLogValue(exercise string) fitness.LogValue {
	if fitness.KindOf(exercise) == fitness.KindTimed {
		return fitness.Text("")
	}
	return fitness.Numeric(0)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
