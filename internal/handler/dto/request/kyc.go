package request

type SubmitKYCRequest struct {
	BusinessName string `json:"business_name" binding:"required,max=200"`
	DocumentType string `json:"document_type" binding:"required,oneof=cac nin passport drivers_license"`
	DocumentURL  string `json:"document_url" binding:"required,url,max=2048"`
}

type RejectKYCRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}
