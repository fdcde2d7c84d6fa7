package models

// GazetteIssue is one published edition of the newsletter. The JSON names
// are those of the persisted blob.
type GazetteIssue struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Number   int    `json:"number"`
	Date     string `json:"date"`
	Summary  string `json:"summary"`
	ImageURL string `json:"imageUrl"`
	Content  string `json:"content"`
	IsNew    bool   `json:"isNew"`
}

// IssueDraft is what an editor submits when publishing. Everything except
// the title and the content has a generated default.
type IssueDraft struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"imageUrl"`
}
