package view

import "github.com/bilgisen/gazette/internal/models"

// RestrictedMessage replaces the admin tools when the role is not held
const RestrictedMessage = "Accès restreint."

// NavItem is one entry of the navigation bar
type NavItem struct {
	View   State  `json:"view"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Screen is everything needed to draw the current view
type Screen struct {
	View         State                      `json:"view"`
	IsAdmin      bool                       `json:"isAdmin"`
	Nav          []NavItem                  `json:"nav"`
	HasUnread    bool                       `json:"hasUnread"`
	Notification models.Notification        `json:"notification"`
	Restricted   string                     `json:"restricted,omitempty"`
	Issues       []models.GazetteIssue      `json:"issues,omitempty"`
	Selected     *models.GazetteIssue       `json:"selected,omitempty"`
	Suggestions  []models.ArticleSuggestion `json:"suggestions,omitempty"`
}

var baseNav = []NavItem{
	{View: Home, Label: "Accueil"},
	{View: Archive, Label: "Archives"},
	{View: Suggestions, Label: "Vos Idées"},
}

// Render projects the store through the current view
func (r *Router) Render() Screen {
	sc := Screen{
		View:         r.current,
		IsAdmin:      r.isAdmin,
		Nav:          r.nav(),
		HasUnread:    r.src.HasUnread(),
		Notification: r.src.Notification(),
	}

	switch r.current {
	case Home, Archive:
		sc.Issues = r.src.Issues()
	case Admin:
		if !r.isAdmin {
			sc.Restricted = RestrictedMessage
			break
		}
		sc.Suggestions = r.src.Suggestions()
	case Reader:
		if r.selected != nil {
			selected := *r.selected
			sc.Selected = &selected
		}
	}
	return sc
}

func (r *Router) nav() []NavItem {
	items := append([]NavItem(nil), baseNav...)
	// The admin tab is only offered to the admin role
	if r.isAdmin {
		items = append(items, NavItem{View: Admin, Label: "Rédaction"})
	}
	for i := range items {
		items[i].Active = items[i].View == r.current
	}
	return items
}
