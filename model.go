package relay

import "fmt"

// DefaultModel is the model used when none is selected.
const DefaultModel = "gemini-2.0-flash"

// Model describes a selectable generative model.
type Model struct {
	ID          string
	DisplayName string
	Description string
}

var models = []Model{
	{ID: "gemini-2.0-flash", DisplayName: "Gemini 2.0 Flash", Description: "fastest, good for conversation"},
	{ID: "gemini-1.5-flash", DisplayName: "Gemini 1.5 Flash", Description: "fast and efficient"},
	{ID: "gemini-1.5-pro", DisplayName: "Gemini 1.5 Pro", Description: "higher quality, better for complex tasks"},
	{ID: "gemini-1.0-pro", DisplayName: "Gemini 1.0 Pro", Description: "stable and reliable"},
}

// Models returns the model catalog in display order.
func Models() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}

// LookupModel returns the catalog entry for id.
func LookupModel(id string) (Model, error) {
	for _, m := range models {
		if m.ID == id {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("%q: %w", id, ErrUnknownModel)
}
