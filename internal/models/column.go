package models

// Column is the read model rendered by the admin board: a status in display
// order, annotated with the number of events it currently holds.
type Column struct {
	Status   *Status `json:"status"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Category *string `json:"category_id"` // nil when the status is unmapped
}

// Mapped reports whether the column contributes to the public page.
func (c *Column) Mapped() bool {
	return c.Category != nil
}

// GetID returns the id of the column's status
func (c *Column) GetID() int {
	if c.Status == nil {
		return 0
	}
	return c.Status.ID
}
