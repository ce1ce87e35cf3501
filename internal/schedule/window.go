package schedule

import "time"

// Class is the outcome of placing a due time relative to now.
type Class int

const (
	Irrelevant Class = iota
	Upcoming
	Missed
)

func (c Class) String() string {
	switch c {
	case Upcoming:
		return "upcoming"
	case Missed:
		return "missed"
	default:
		return "irrelevant"
	}
}

// Window holds the forward and backward horizons of a run.
type Window struct {
	FutureMin   int
	LookbackHrs int
}

// Classify places due inside the window around now. A due time equal to now
// is upcoming.
func (w Window) Classify(now, due time.Time) Class {
	soon := now.Add(time.Duration(max(w.FutureMin, 0)) * time.Minute)
	past := now.Add(-time.Duration(max(w.LookbackHrs, 0)) * time.Hour)

	switch {
	case !due.Before(now) && !due.After(soon):
		return Upcoming
	case !due.Before(past) && due.Before(now):
		return Missed
	default:
		return Irrelevant
	}
}

// Classify is shorthand for Window{futureMin, lookbackHrs}.Classify(now, due).
func Classify(now, due time.Time, futureMin, lookbackHrs int) Class {
	return Window{FutureMin: futureMin, LookbackHrs: lookbackHrs}.Classify(now, due)
}
