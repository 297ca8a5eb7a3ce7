package request

import "encoding/json"

type ClientErrorRequest struct {
	Message   string          `json:"message" binding:"required,max=2000"`
	Context   json.RawMessage `json:"context,omitempty"`
	URL       string          `json:"url" binding:"max=2048"`
	UserAgent string          `json:"user_agent" binding:"max=512"`
}
