package model

// FeedbackRole distinguishes who a feedback message is attributed to when the
// external feedback layer forwards it.
type FeedbackRole string

const (
	// RoleInstructor marks guidance and context supplied by the grader.
	RoleInstructor FeedbackRole = "instructor"
	// RoleStudent marks output that originated from the student's submission.
	RoleStudent FeedbackRole = "student"
)

// FeedbackMessage is one entry in a feedback context.
type FeedbackMessage struct {
	Role    FeedbackRole
	Content string
}

// FeedbackContext is the opaque payload a grader attaches to an imperfect
// GradeResult. The grading core only assembles it; delivery belongs to an
// external collaborator.
type FeedbackContext struct {
	Messages []FeedbackMessage
}

// Add appends a message and returns the context for chaining.
func (f *FeedbackContext) Add(role FeedbackRole, content string) *FeedbackContext {
	f.Messages = append(f.Messages, FeedbackMessage{Role: role, Content: content})
	return f
}
