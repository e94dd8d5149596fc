package models

// AIRequest is the payload coming from the frontend into /api/ai/chat.
type AIRequest struct {
	Text string   `json:"text" binding:"required"` // user's message
	Lat  *float64 `json:"lat,omitempty"`           // user's current location
	Lng  *float64 `json:"lng,omitempty"`
}

// AIResponse is what the chat handler returns to the frontend.
type AIResponse struct {
	ResponseText string   `json:"response"`
	ToolCalls    []string `json:"toolCalls,omitempty"` // names of core operations invoked
}

// AIContext is the per-user conversation state kept between turns.
type AIContext struct {
	History []AITurn `json:"history"`
}

// AITurn is one remembered exchange.
type AITurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}
