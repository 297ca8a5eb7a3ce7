// Package gateway talks to the hosted-checkout payment provider over its
// REST API: initialize, verify and signed webhooks.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/shared"
)

// SignatureHeader carries the hex HMAC-SHA512 of the raw webhook body.
const SignatureHeader = "x-paystack-signature"

var ErrUnexpectedResponse = errs.New("unexpected gateway response")

type Paystack struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewPaystack(cfg config.PaymentConfig) *Paystack {
	return &Paystack{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeBody struct {
	Email       string            `json:"email"`
	Amount      string            `json:"amount"`
	Currency    string            `json:"currency,omitempty"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	PaidAt    *string `json:"paid_at"`
}

// Initialize opens a checkout session. Amounts go over the wire in kobo.
func (p *Paystack) Initialize(ctx context.Context, req shared.GatewayInitRequest) (*shared.GatewaySession, error) {
	body := initializeBody{
		Email:       req.Email,
		Amount:      strconv.FormatInt(req.Amount.Kobo(), 10),
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}
	var data initializeData
	if err := p.do(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return nil, err
	}
	if data.AuthorizationURL == "" && data.AccessCode == "" {
		return nil, errs.Wrap(ErrUnexpectedResponse, "initialize returned no session")
	}

	reference := data.Reference
	if reference == "" {
		reference = req.Reference
	}
	return &shared.GatewaySession{
		Reference:        reference,
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
	}, nil
}

func (p *Paystack) Verify(ctx context.Context, reference string) (*shared.GatewayVerification, error) {
	var data verifyData
	if err := p.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &data); err != nil {
		return nil, err
	}

	v := &shared.GatewayVerification{
		Reference: data.Reference,
		Status:    data.Status,
		Amount:    money.FromKobo(data.Amount),
		Currency:  data.Currency,
	}
	if v.Reference == "" {
		v.Reference = reference
	}
	if data.PaidAt != nil && *data.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, *data.PaidAt); err == nil {
			v.PaidAt = &t
		}
	}
	return v, nil
}

func (p *Paystack) VerifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(p.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func (p *Paystack) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errs.Wrap(err, "failed to encode gateway request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return errs.Wrap(err, "failed to build gateway request")
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errs.Wrapf(err, "gateway %s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errs.Wrap(err, "failed to read gateway response")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errs.Wrapf(ErrUnexpectedResponse, "status %d: undecodable body", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Status {
		return errs.Wrapf(ErrUnexpectedResponse, "status %d: %s", resp.StatusCode, env.Message)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errs.Wrapf(err, "failed to decode gateway %s data", path)
	}
	return nil
}
