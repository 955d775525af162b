package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

const (
	uriCatalog = "pathfinder://catalog"
	uriRules   = "pathfinder://rules"
	uriStreams = "pathfinder://streams"
	uriHistory = "pathfinder://history"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         uriCatalog,
		Name:        "Candidate Catalog",
		Description: "Stored candidate counts by kind",
		MimeType:    "text/plain",
	},
	{
		URI:         uriRules,
		Name:        "Eligibility Rules",
		Description: "Scholarship rules the classifier evaluates, in catalog order",
		MimeType:    "text/plain",
	},
	{
		URI:         uriStreams,
		Name:        "A/L Streams",
		Description: "Supported streams with their subjects and career fields",
		MimeType:    "text/plain",
	},
	{
		URI:         uriHistory,
		Name:        "Recent Matches",
		Description: "Last 10 recorded match runs",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}
