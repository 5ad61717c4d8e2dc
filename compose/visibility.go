package compose

import "linkedin_post_automation/form"

// VisibilityOption is one entry of the visibility selector.
type VisibilityOption struct {
	Value string
	Label string
}

// VisibilityOptions lists the selector entries; the empty value means
// nothing is selected yet.
var VisibilityOptions = []VisibilityOption{
	{Value: "", Label: "Select visibility..."},
	{Value: string(form.VisibilityPublic), Label: "Public"},
	{Value: string(form.VisibilityConnections), Label: "Connections"},
}

// SelectVisibility forwards v unchanged to post_visibility. It is checked
// only when a page submits.
func SelectVisibility(store *form.Store, v string) {
	store.Set(form.FieldPostVisibility, v)
}
