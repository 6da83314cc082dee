package server

// QueryResponse is the payload for POST /api/query.
type QueryResponse struct {
	Success          bool   `json:"success"`
	Query            string `json:"query"`
	Response         string `json:"response"`
	HasScreenContext bool   `json:"has_screen_context"`
	UsedWebSearch    bool   `json:"used_web_search"`
}

// TranscriptionResponse is the payload for POST /api/transcribe.
type TranscriptionResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

// AnalyzeScreenResponse is the payload for POST /api/analyze-screen.
type AnalyzeScreenResponse struct {
	Success     bool   `json:"success"`
	Description string `json:"description"`
}

// StatusResponse is the payload for GET / and GET /health.
type StatusResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// ErrorResponse is the unified error payload.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
