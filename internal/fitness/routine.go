package fitness

import (
	"slices"
	"time"
)

type ExerciseKind string

const (
	// KindWeighted exercises are logged as lifted weight and tracked for PRs.
	KindWeighted ExerciseKind = "weighted"
	// KindTimed exercises are logged as free text (time or reps).
	KindTimed ExerciseKind = "timed"
)

type DayRoutine struct {
	Focus     string   `json:"focus"`
	Exercises []string `json:"exercises"`
}

var routine = map[time.Weekday]DayRoutine{
	time.Monday: {
		Focus:     "UPPER BODY A (Push/Pull)",
		Exercises: []string{"Chest Press", "Seated Row", "Shoulder Press", "Lat Pulldown", "Plank"},
	},
	time.Tuesday: {
		Focus:     "LOWER BODY (Legs)",
		Exercises: []string{"Leg Press", "Goblet Squat", "Leg Curls", "Lunges", "Calf Raises"},
	},
	time.Wednesday: {
		Focus:     "ARMS & ABS",
		Exercises: []string{"Tricep Pushdown", "Bicep Curls", "Overhead Tri Ext", "Hammer Curls", "Russian Twists"},
	},
	time.Thursday: {
		Focus:     "UPPER BODY B (Isolation)",
		Exercises: []string{"Pec Fly", "Rear Delt Fly", "Assisted Pull-Up", "Lateral Raises", "Face Pulls"},
	},
	time.Friday: {
		Focus:     "FULL BODY GAUNTLET",
		Exercises: []string{"Chest Press", "Leg Press", "Seated Row", "Shoulder Press", "Bicep Curls"},
	},
}

var timedExercises = map[string]bool{
	"Plank":          true,
	"Russian Twists": true,
}

// RoutineFor returns the routine for the weekday; false means a rest day.
func RoutineFor(day time.Weekday) (DayRoutine, bool) {
	r, ok := routine[day]
	if !ok {
		return DayRoutine{}, false
	}
	r.Exercises = slices.Clone(r.Exercises)
	return r, true
}

func KindOf(exercise string) ExerciseKind {
	if timedExercises[exercise] {
		return KindTimed
	}
	return KindWeighted
}

type PlannedExercise struct {
	Name string       `json:"name"`
	Kind ExerciseKind `json:"kind"`
	// CurrentPR and Target are nil for timed and never logged exercises.
	CurrentPR *float64 `json:"currentPr,omitempty"`
	Target    *int     `json:"target,omitempty"`
}

// DayPlan is the coach view for one day.
type DayPlan struct {
	Day       string            `json:"day"`
	RestDay   bool              `json:"restDay"`
	Focus     string            `json:"focus,omitempty"`
	Exercises []PlannedExercise `json:"exercises,omitempty"`
}

// PlanFor builds the day plan with the current PR and next target of every exercise.
func PlanFor(day time.Weekday, prs PRs) DayPlan {
	r, ok := RoutineFor(day)
	if !ok {
		return DayPlan{Day: day.String(), RestDay: true}
	}

	plan := DayPlan{
		Day:       day.String(),
		Focus:     r.Focus,
		Exercises: make([]PlannedExercise, 0, len(r.Exercises)),
	}
	for _, name := range r.Exercises {
		pe := PlannedExercise{
			Name: name,
			Kind: KindOf(name),
		}
		if pe.Kind == KindWeighted {
			if target, ok := SuggestedTarget(prs, name); ok {
				pr := prs[name]
				pe.CurrentPR = &pr
				pe.Target = &target
			}
		}
		plan.Exercises = append(plan.Exercises, pe)
	}

	return plan
}
