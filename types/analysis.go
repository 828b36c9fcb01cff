package types

type CodeAnalysisRequest struct {
	Content string `json:"content"`
}

type CodeAnalysisResponse struct {
	Explanation string `json:"explanation"`
}

type VideoAnalysisRequest struct {
	URL string `json:"url"`
}

// VideoAnalysis is the decoded /youtube/analyze success body.
type VideoAnalysis struct {
	Summary    string `json:"summary"`
	AnalysisID string `json:"analysis_id"`
	Title      string `json:"title,omitempty"`
}

type VideoFollowUpRequest struct {
	AnalysisID string `json:"analysis_id"`
	Question   string `json:"question"`
}

type VideoFollowUpResponse struct {
	Answer string `json:"answer"`
}

// AnalysisSession scopes follow-up questions. ID is opaque and comes from the backend.
type AnalysisSession struct {
	ID          string `json:"id"`
	SummaryText string `json:"summary_text"`
}
