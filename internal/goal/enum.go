package goal

// Status is free text; these values are only offered as suggestions.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

var SuggestedStatuses = []Status{
	StatusNotStarted,
	StatusInProgress,
	StatusCompleted,
}
