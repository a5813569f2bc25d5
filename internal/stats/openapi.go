package stats

import "github.com/JaimeStill/pulse/pkg/openapi"

// Schemas returns the component schemas referenced by Paths.
func Schemas() map[string]*openapi.Schema {
	perLabel := func(typ string) *openapi.Schema {
		return &openapi.Schema{
			Type:     "object",
			Required: []string{"positive", "negative", "neutral"},
			Properties: map[string]*openapi.Schema{
				"positive": {Type: typ},
				"negative": {Type: typ},
				"neutral":  {Type: typ},
			},
		}
	}

	return map[string]*openapi.Schema{
		"Stats": {
			Type:     "object",
			Required: []string{"total", "by_label", "avg_confidence", "avg_confidence_by_label", "last_updated"},
			Properties: map[string]*openapi.Schema{
				"total":                   {Type: "integer"},
				"by_label":                perLabel("integer"),
				"avg_confidence":          {Type: "number", Description: "Mean confidence, rounded to 4 places; 0 when empty"},
				"avg_confidence_by_label": perLabel("number"),
				"last_updated":            {Type: "string", Format: "date-time", Nullable: true, Description: "Creation time of the newest analysis"},
				"generated_at":            {Type: "string", Format: "date-time"},
			},
		},
	}
}

// Paths documents the routes registered by Handler.Routes.
func Paths() map[string]*openapi.PathItem {
	return map[string]*openapi.PathItem{
		"/stats": {
			Get: &openapi.Operation{
				Summary: "Summary statistics",
				Tags:    []string{"Stats"},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Statistics computed from the store", "Stats"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
	}
}
