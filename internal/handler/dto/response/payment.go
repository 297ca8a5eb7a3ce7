package response

import (
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/commands"

	"github.com/google/uuid"
)

// PaymentSessionResponse carries both gateway shapes: authorization_url for
// a redirect checkout and access_code for the inline popup.
type PaymentSessionResponse struct {
	Reference        string      `json:"reference"`
	AuthorizationURL string      `json:"authorization_url"`
	AccessCode       string      `json:"access_code"`
	Amount           money.Money `json:"amount"`
	Currency         string      `json:"currency"`
}

func FromPaymentSession(s *commands.PaymentSession) (*PaymentSessionResponse, error) {
	r, err := mapView[PaymentSessionResponse](s)
	if err != nil {
		return nil, err
	}
	r.Currency = money.Currency
	return r, nil
}

type VerifyPaymentResponse struct {
	Reference   string           `json:"reference"`
	Status      string           `json:"status"`
	SubjectType string           `json:"subject_type"`
	SubjectID   uuid.UUID        `json:"subject_id"`
	Booking     *BookingResponse `json:"booking,omitempty"`
}

func FromVerifyResult(r *commands.VerifyResult) *VerifyPaymentResponse {
	return &VerifyPaymentResponse{
		Reference:   r.Reference,
		Status:      r.Status.String(),
		SubjectType: r.SubjectType.String(),
		SubjectID:   r.SubjectID,
	}
}
