package message

import "github.com/google/uuid"

// Response is the payload returned to a caller for a single agent
// invocation. It is produced once and never mutated afterwards; the next
// history entry is derived from it.
type Response struct {
	Content   string         `json:"content"`
	AgentName string         `json:"agent_name"`
	Usage     map[string]any `json:"usage,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	MessageID string         `json:"message_id"`
}

// NewResponse creates a response attributed to the named agent.
func NewResponse(agentName, content string) *Response {
	return &Response{
		Content:   content,
		AgentName: agentName,
		Metadata:  make(map[string]any),
		MessageID: uuid.NewString(),
	}
}

// NewErrorResponse creates an error-flagged response carrying the failure text.
func NewErrorResponse(agentName string, err error) *Response {
	resp := NewResponse(agentName, "Group chat error: "+err.Error())
	resp.Metadata["error"] = err.Error()
	return resp
}

// IsError reports whether the response was synthesized from a failure.
func (r *Response) IsError() bool {
	if r.Metadata == nil {
		return false
	}
	_, ok := r.Metadata["error"]
	return ok
}
