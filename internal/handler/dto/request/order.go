package request

// RespondRequest is a vendor's answer to a pending order or service order.
type RespondRequest struct {
	Response string `json:"response" binding:"required,oneof=accept decline"`
	Note     string `json:"note" binding:"max=500"`
}
