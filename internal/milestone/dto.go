package milestone

import (
	"strconv"

	"github.com/saulo-duarte/strive/internal/goal"
)

type Form struct {
	ID          string
	Description string
	DueDate     string
	Status      string
}

func (f Form) IsEdit() bool {
	return f.ID != "" && f.ID != "0"
}

func FormFrom(m *Milestone) Form {
	return Form{
		ID:          strconv.FormatUint(uint64(m.ID), 10),
		Description: m.Description,
		DueDate:     m.DueDate.String(),
		Status:      m.Status,
	}
}

// DetailPage is the goal details view: the goal, its milestones and an
// optional add or edit form.
type DetailPage struct {
	Goal       *goal.Goal
	Milestones []Milestone
	Form       Form
	Statuses   []Status
	FormTitle  string
	ShowForm   bool
}
