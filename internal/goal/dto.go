package goal

import (
	"strconv"

	"github.com/saulo-duarte/strive/internal/category"
)

// Form holds the submitted goal fields verbatim.
type Form struct {
	ID          string
	Description string
	TargetDate  string
	Status      string
	CategoryID  string
}

func (f Form) IsEdit() bool {
	return f.ID != "" && f.ID != "0"
}

func FormFrom(g *Goal) Form {
	f := Form{
		ID:          strconv.FormatUint(uint64(g.ID), 10),
		Description: g.Description,
		TargetDate:  g.TargetDate.String(),
		Status:      g.Status,
	}
	if g.CategoryID != nil {
		f.CategoryID = strconv.FormatUint(uint64(*g.CategoryID), 10)
	}
	return f
}

// ListResult feeds the dashboard. FilterError is advisory: the list still
// holds every goal when the filter was rejected.
type ListResult struct {
	Goals              []Goal
	Categories         []category.Category
	SelectedCategoryID uint
	FilterError        string
}
