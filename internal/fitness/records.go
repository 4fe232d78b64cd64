package fitness

import "maps"

const (
	// PRProgressionFactor is the 5% bump suggested on top of the current PR.
	PRProgressionFactor = 1.05
	// OneRepMaxRepsDivisor is the Epley formula constant.
	OneRepMaxRepsDivisor = 30.0
)

// SuggestedTarget returns the next session goal for an exercise.
// ok is false for exercises without a recorded PR (new exercise).
func SuggestedTarget(prs PRs, exercise string) (target int, ok bool) {
	pr, found := prs[exercise]
	if !found || pr <= 0 {
		return 0, false
	}
	return int(pr * PRProgressionFactor), true
}

// RecordResult applies a logged value to the PRs and returns the updated copy.
// Only numeric values strictly above the current PR (missing PR counts as 0) set a new PR.
// Text values never do, even when the text looks like a number.
func RecordResult(prs PRs, exercise string, value LogValue) (PRs, bool) {
	updated := maps.Clone(prs)
	if updated == nil {
		updated = PRs{}
	}

	weight, isNumeric := value.Number()
	if !isNumeric {
		return updated, false
	}

	if weight <= updated[exercise] {
		return updated, false
	}

	updated[exercise] = weight
	return updated, true
}

// EstimateOneRepMax estimates a one rep max with Epley: weight * (1 + reps/30), truncated.
// No estimate is produced unless both weight and reps are positive.
func EstimateOneRepMax(weight float64, reps int) (int, bool) {
	if weight <= 0 || reps <= 0 {
		return 0, false
	}
	return int(weight * (1 + float64(reps)/OneRepMaxRepsDivisor)), true
}
