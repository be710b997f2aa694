package category

import "strconv"

// Form holds the submitted values verbatim so a failed submit can be
// re-rendered as typed.
type Form struct {
	ID   string
	Name string
}

func (f Form) IsEdit() bool {
	return f.ID != "" && f.ID != "0"
}

func FormFrom(c *Category) Form {
	return Form{ID: uintString(c.ID), Name: c.Name}
}

func uintString(id uint) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(id), 10)
}
