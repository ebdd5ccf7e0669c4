package models

import "encoding/json"

// Application statuses as reported by the backend.
const (
	StatusSubmitted  = "submitted"
	StatusCompleted  = "completed"
	StatusIncomplete = "incomplete"
)

// Scorecard dimensions. Results are keyed by these.
const (
	DimensionFounders  = "founders"
	DimensionMarket    = "market"
	DimensionProduct   = "product"
	DimensionTraction  = "traction"
	DimensionVision    = "vision"
	DimensionInvestors = "investors"
)

// BreakdownEntry is a single scored criterion inside a dimension result.
type BreakdownEntry struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// DimensionResult holds one dimension's scorecard. Issues may be plain
// strings or structured objects depending on backend version, so they stay
// raw until a display layer cares.
type DimensionResult struct {
	Score           float64                   `json:"score"`
	ConfidenceScore float64                   `json:"confidence_score"`
	Bucket          string                    `json:"bucket,omitempty"`
	Summary         string                    `json:"summary,omitempty"`
	Issues          []json.RawMessage         `json:"issues,omitempty"`
	ManualCheck     bool                      `json:"manual_check,omitempty"`
	Breakdown       map[string]BreakdownEntry `json:"breakdown,omitempty"`
}

// Application is the backend-owned pitch-deck submission. The relay never
// creates or mutates one; it only forwards.
type Application struct {
	ID            string  `json:"id"`
	StartupName   string  `json:"startup_name"`
	ContactName   string  `json:"contact_name,omitempty"`
	ContactEmail  string  `json:"contact_email,omitempty"`
	WebsiteURL    string  `json:"website_url,omitempty"`
	Status        string  `json:"status"`
	Score         float64 `json:"score,omitempty"`
	Confidence    float64 `json:"confidence_score,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
	LastUpdatedAt string  `json:"last_updated_at,omitempty"`
	Country       string  `json:"country,omitempty"`
	Stage         string  `json:"stage,omitempty"`

	Issues []string `json:"issues,omitempty"`

	// Optional payload blobs: extracted, AI-augmented, and scored data.
	Raw      json.RawMessage            `json:"raw,omitempty"`
	Enriched json.RawMessage            `json:"enriched,omitempty"`
	Results  map[string]DimensionResult `json:"results,omitempty"`
}

// StatusMetrics summarizes an application list for the dashboard header.
type StatusMetrics struct {
	Total     int `json:"total"`
	Submitted int `json:"submitted"`
	Completed int `json:"completed"`
}

// ApplicationsListResponse is the client-facing body of the list route.
type ApplicationsListResponse struct {
	Applications []Application `json:"applications"`
	Status       StatusMetrics `json:"status"`
}

// DeckResponse carries the short-lived URL for viewing a pitch deck.
type DeckResponse struct {
	Success   bool   `json:"success"`
	SignedURL string `json:"signed_url"`
}

// ComputeStatusMetrics tallies list-level counters from a fetched page.
func ComputeStatusMetrics(apps []Application) StatusMetrics {
	m := StatusMetrics{Total: len(apps)}
	for _, app := range apps {
		switch app.Status {
		case StatusSubmitted:
			m.Submitted++
		case StatusCompleted:
			m.Completed++
		}
	}
	return m
}
