package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var profileSchema = map[string]interface{}{
	"type":        "object",
	"description": "Student profile: grades (A/B/C/S/F, empty for not chosen), stream, monthly_income (LKR), academic_index, district, goal, interest and special_categories",
	"properties": map[string]interface{}{
		"grades": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string", "enum": []string{"A", "B", "C", "S", "F", ""}},
		},
		"stream":         map[string]interface{}{"type": "string"},
		"monthly_income": map[string]interface{}{"type": "number"},
		"academic_index": map[string]interface{}{"type": "number"},
		"district":       map[string]interface{}{"type": "string"},
		"goal":           map[string]interface{}{"type": "string"},
		"interest":       map[string]interface{}{"type": "string"},
		"special_categories": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"rural":            map[string]interface{}{"type": "boolean"},
				"disability":       map[string]interface{}{"type": "boolean"},
				"orphan":           map[string]interface{}{"type": "boolean"},
				"first_generation": map[string]interface{}{"type": "boolean"},
			},
		},
	},
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "normalize_profile",
		Description: "Compute the academic index, income signal, category boost and composite score of a student profile.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"profile": profileSchema,
			},
			"required": []string{"profile"},
		},
	},
	{
		Name:        "rank_candidates",
		Description: "Rank stored institutions, programs or scholarships against keywords and a profile. Returns at most top_n genuine matches.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"institution", "program", "scholarship"},
					"description": "Candidate kind to rank (default: program)",
				},
				"keywords": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Field keywords such as IT or Medicine. Omit to derive them from the profile interest or stream.",
				},
				"profile": profileSchema,
				"top_n": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results (default from config)",
				},
				"categories": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Only rank candidates in these categories, e.g. Government",
				},
				"admission_fallback": map[string]interface{}{
					"type":        "boolean",
					"description": "When nothing matches, rank the institutions admissible at the profile's academic index",
				},
			},
			"required": []string{"profile"},
		},
	},
	{
		Name:        "classify_eligibility",
		Description: "Classify every scholarship rule as eligible, conditional or blocked for a profile, with evidence.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"profile": profileSchema,
				"closed_windows": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Additional time-sensitive rule ids whose application windows are closed",
				},
			},
			"required": []string{"profile"},
		},
	},
	{
		Name:        "match_profile",
		Description: "Run a full match: signals, top programs, admissible institutions and scholarship eligibility.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"profile": profileSchema,
				"keywords": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
				"top_n": map[string]interface{}{"type": "integer"},
				"closed_windows": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Additional time-sensitive rule ids whose application windows are closed",
				},
				"record": map[string]interface{}{
					"type":        "boolean",
					"description": "Store the run in match history (default: false)",
				},
			},
			"required": []string{"profile"},
		},
	},
	{
		Name:        "list_candidates",
		Description: "List stored candidates with optional kind and category filters.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"kind": map[string]interface{}{
					"type": "string",
					"enum": []string{"institution", "program", "scholarship"},
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Filter by category (case-insensitive)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (default: 50)",
				},
			},
		},
	},
}
