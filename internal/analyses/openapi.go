package analyses

import "github.com/JaimeStill/pulse/pkg/openapi"

// Schemas returns the component schemas referenced by Paths.
func Schemas(limits Limits) map[string]*openapi.Schema {
	labels := []any{"positive", "negative", "neutral"}

	return map[string]*openapi.Schema{
		"Analysis": {
			Type:     "object",
			Required: []string{"id", "text", "label", "confidence", "polarity", "model_used", "created_at"},
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"text":       {Type: "string", Description: "Submitted feedback, trimmed"},
				"label":      {Type: "string", Enum: labels},
				"confidence": {Type: "number", Minimum: openapi.Float(0), Maximum: openapi.Float(1)},
				"polarity":   {Type: "number", Minimum: openapi.Float(-1), Maximum: openapi.Float(1)},
				"model_used": {Type: "string", Description: "Model that produced the label", Example: "vader"},
				"metadata":   {Type: "object", AdditionalProperties: true},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
		"AnalyzeRequest": {
			Type:     "object",
			Required: []string{"text"},
			Properties: map[string]*openapi.Schema{
				"text": {
					Type:      "string",
					MinLength: openapi.Int(1),
					MaxLength: openapi.Int(limits.MaxTextLength),
					Example:   "This product is amazing!",
				},
				"metadata": {Type: "object", AdditionalProperties: true, Description: "Free-form caller context stored with the record"},
			},
		},
		"BatchRequest": {
			Type:     "object",
			Required: []string{"texts"},
			Properties: map[string]*openapi.Schema{
				"texts": {
					Type:    "array",
					Items:   &openapi.Schema{Type: "string"},
					Example: []string{"Great!", "Awful", ""},
				},
			},
		},
		"BatchItem": {
			Type:     "object",
			Required: []string{"index", "success"},
			Properties: map[string]*openapi.Schema{
				"index":    {Type: "integer"},
				"success":  {Type: "boolean"},
				"analysis": openapi.SchemaRef("Analysis"),
				"error": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"reason":  {Type: "string", Enum: []any{ReasonEmpty, ReasonTooLong}},
						"message": {Type: "string"},
					},
				},
			},
		},
		"BatchResult": {
			Type:     "object",
			Required: []string{"results", "succeeded", "failed"},
			Properties: map[string]*openapi.Schema{
				"results":   openapi.ArrayOf("BatchItem"),
				"succeeded": {Type: "integer"},
				"failed":    {Type: "integer"},
			},
		},
		"AnalysisPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf("Analysis"),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}

// Paths documents the routes registered by Handler.Routes.
func Paths() map[string]*openapi.PathItem {
	errs := func(extra map[int]*openapi.Response) map[int]*openapi.Response {
		extra[500] = openapi.ResponseRef("InternalError")
		return extra
	}

	return map[string]*openapi.PathItem{
		"/analyze": {
			Post: &openapi.Operation{
				Summary:     "Analyze one piece of feedback",
				Tags:        []string{"Analyses"},
				RequestBody: openapi.RequestBodyJSON("AnalyzeRequest", true),
				Responses: errs(map[int]*openapi.Response{
					200: openapi.ResponseJSON("Stored analysis", "Analysis"),
					400: openapi.ResponseRef("BadRequest"),
				}),
			},
		},
		"/batch_analyze": {
			Post: &openapi.Operation{
				Summary: "Analyze a batch of feedback",
				Description: "Each text is validated and analyzed independently. " +
					"Batches are limited to the configured maximum size.",
				Tags:        []string{"Analyses"},
				RequestBody: openapi.RequestBodyJSON("BatchRequest", true),
				Responses: errs(map[int]*openapi.Response{
					200: openapi.ResponseJSON("Per-item outcomes in input order", "BatchResult"),
					400: openapi.ResponseRef("BadRequest"),
				}),
			},
		},
		"/analyses": {
			Get: &openapi.Operation{
				Summary: "List analyses",
				Tags:    []string{"Analyses"},
				Parameters: []*openapi.Parameter{
					openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
					openapi.QueryParam("page_size", "integer", "Results per page", false),
					openapi.QueryParam("search", "string", "Case-insensitive search over text and model", false),
					openapi.QueryParam("sort", "string", "Comma-separated sort fields, - prefix for descending", false),
					openapi.QueryParam("label", "string", "Comma-separated labels to include", false),
					openapi.QueryParam("model_used", "string", "Filter by model", false),
					openapi.QueryParam("text", "string", "Case-insensitive substring of the feedback text", false),
				},
				Responses: errs(map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of analyses", "AnalysisPage"),
				}),
			},
		},
		"/analyses/export": {
			Get: &openapi.Operation{
				Summary: "Export every analysis in insertion order",
				Tags:    []string{"Analyses"},
				Responses: errs(map[int]*openapi.Response{
					200: {
						Description: "All analyses",
						Content: map[string]*openapi.MediaType{
							"application/json": {Schema: openapi.ArrayOf("Analysis")},
						},
					},
				}),
			},
		},
		"/analyses/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find an analysis",
				Tags:       []string{"Analyses"},
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Analysis ID")},
				Responses: errs(map[int]*openapi.Response{
					200: openapi.ResponseJSON("Analysis", "Analysis"),
					400: openapi.ResponseRef("BadRequest"),
					404: openapi.ResponseRef("NotFound"),
				}),
			},
		},
	}
}
