// Package model defines the shared value types produced and consumed by the
// grading engine: grades, grade results, and normalized diagnostics.
package model

import "fmt"

// Grade pairs the points received with the maximum points possible for one
// requirement.
type Grade struct {
	Score float64
	OutOf float64
}

// NewGrade constructs a Grade, clamping the score into [0, outOf]. Graders
// compute raw penalties freely; the clamp guarantees a result is never
// negative and never exceeds the maximum.
func NewGrade(score, outOf float64) Grade {
	if score < 0 {
		score = 0
	}

	if score > outOf {
		score = outOf
	}

	return Grade{Score: score, OutOf: outOf}
}

// String renders the grade as "score/out_of" with two decimal places.
func (g Grade) String() string {
	return fmt.Sprintf("%.2f/%.2f", g.Score, g.OutOf)
}

// GradeResult is the outcome of a single grader run: one scored requirement
// with a short student-facing reason. Feedback holds optional context for the
// external feedback layer and is only populated on imperfect scores.
type GradeResult struct {
	Requirement string
	Grade       Grade
	Reason      string
	Feedback    *FeedbackContext
}

// Perfect reports whether the result earned the full score.
func (r GradeResult) Perfect() bool {
	return r.Grade.Score >= r.Grade.OutOf
}
