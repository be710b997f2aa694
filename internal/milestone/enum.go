package milestone

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

var SuggestedStatuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusDone,
}
