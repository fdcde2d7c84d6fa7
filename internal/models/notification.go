package models

// Notification is the single transient banner raised on publish
type Notification struct {
	Message string `json:"message"`
	Visible bool   `json:"visible"`
	IssueID string `json:"issueId,omitempty"`
}
