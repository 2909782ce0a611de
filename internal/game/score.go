package game

import "math"

// Percent returns round(100*score/total) with halves rounded away from zero.
// A zero total yields 0.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

// Grade classifies a finished matching game by how many moves it took.
type Grade string

const (
	GradeExcellent      Grade = "excellent"
	GradeGreat          Grade = "great"
	GradeGood           Grade = "good"
	GradeKeepPracticing Grade = "keep practicing"
)

// GradeFor returns the grade for a game of pairs pairs finished in moves
// moves. Thresholds are inclusive: pairs, 1.5x pairs and 2x pairs.
func GradeFor(moves, pairs int) Grade {
	switch {
	case moves <= pairs:
		return GradeExcellent
	case 2*moves <= 3*pairs:
		return GradeGreat
	case moves <= 2*pairs:
		return GradeGood
	default:
		return GradeKeepPracticing
	}
}

// Message is the feedback line shown for a grade.
func (g Grade) Message() string {
	switch g {
	case GradeExcellent:
		return "Excellent! You have a great memory."
	case GradeGreat:
		return "Very good! Keep practicing."
	case GradeGood:
		return "Good job! You can do better."
	default:
		return "Keep practicing to improve."
	}
}
