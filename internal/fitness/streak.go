package fitness

import "time"

// Streak counts consecutive active calendar days ending today or yesterday.
// A day is active when it has a workout or a nutrition entry.
// Unparseable dates are ignored.
func Streak(historyDates, calorieDates []string, today time.Time) int {
	loc := today.Location()

	activeDays := make(map[string]bool, len(historyDates)+len(calorieDates))
	var mostRecent time.Time
	for _, dates := range [][]string{historyDates, calorieDates} {
		for _, date := range dates {
			day, err := ParseDate(date, loc)
			if err != nil {
				continue
			}
			activeDays[FormatDate(day)] = true
			if day.After(mostRecent) {
				mostRecent = day
			}
		}
	}

	if len(activeDays) == 0 {
		return 0
	}

	todayDay := civilDay(today)
	yesterday := todayDay.AddDate(0, 0, -1)
	if !mostRecent.Equal(todayDay) && !mostRecent.Equal(yesterday) {
		return 0
	}

	streak := 0
	for day := mostRecent; activeDays[FormatDate(day)]; day = day.AddDate(0, 0, -1) {
		streak++
	}

	return streak
}

// StreakFor computes the streak from the workout and nutrition logs of a document.
func StreakFor(doc *Document, today time.Time) int {
	historyDates := make([]string, 0, len(doc.History))
	for _, entry := range doc.History {
		historyDates = append(historyDates, entry.Date)
	}
	calorieDates := make([]string, 0, len(doc.Calories))
	for _, entry := range doc.Calories {
		calorieDates = append(calorieDates, entry.Date)
	}
	return Streak(historyDates, calorieDates, today)
}

// civilDay drops the clock part, keeping the location.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
