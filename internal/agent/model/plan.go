package model

// Action is the intent chosen by the planner for one turn.
type Action string

const (
	ActionGreet      Action = "greet"
	ActionBrowseMenu Action = "browse_menu"
	ActionAddToCart  Action = "add_to_cart"
	ActionShowCart   Action = "show_cart"
)

// Valid reports whether a is one of the four known intents.
func (a Action) Valid() bool {
	switch a {
	case ActionGreet, ActionBrowseMenu, ActionAddToCart, ActionShowCart:
		return true
	}
	return false
}

// ItemRequest is one entry of Plan.ItemsToAdd.
type ItemRequest struct {
	Name    string   `json:"name"`
	Qty     int      `json:"qty,omitempty"`
	Variant string   `json:"variant,omitempty"`
	Addons  []string `json:"addons,omitempty"`
}

// Plan is the structured intent produced once per user turn.
type Plan struct {
	Action     Action        `json:"action"`
	Query      string        `json:"query,omitempty"`
	Filters    Filters       `json:"filters"`
	ItemsToAdd []ItemRequest `json:"items_to_add"`
}

// BrowsePlan is the plan used when nothing better can be derived.
func BrowsePlan() Plan {
	return Plan{Action: ActionBrowseMenu, ItemsToAdd: []ItemRequest{}}
}
