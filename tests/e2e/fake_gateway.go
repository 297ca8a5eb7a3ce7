//go:build e2e

package e2e

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FakeGateway serves the two Paystack endpoints the app calls. Sessions are
// remembered by reference so verification echoes the initialized amount.
type FakeGateway struct {
	server    *httptest.Server
	secretKey string

	mu       sync.Mutex
	sessions map[string]fakeSession
	outcome  map[string]string
}

type fakeSession struct {
	Amount   int64
	Currency string
}

func NewFakeGateway(secretKey string) *FakeGateway {
	g := &FakeGateway{
		secretKey: secretKey,
		sessions:  map[string]fakeSession{},
		outcome:   map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /transaction/initialize", g.initialize)
	mux.HandleFunc("GET /transaction/verify/{reference}", g.verify)
	g.server = httptest.NewServer(mux)
	return g
}

func (g *FakeGateway) URL() string { return g.server.URL }

func (g *FakeGateway) Close() { g.server.Close() }

// SetOutcome fixes what verification reports for reference; the default is
// success.
func (g *FakeGateway) SetOutcome(reference, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outcome[reference] = status
}

func (g *FakeGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions = map[string]fakeSession{}
	g.outcome = map[string]string{}
}

// Sign returns the signature header value for a webhook body.
func (g *FakeGateway) Sign(body []byte) string {
	mac := hmac.New(sha512.New, []byte(g.secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *FakeGateway) initialize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount    string `json:"amount"`
		Currency  string `json:"currency"`
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "bad body", nil)
		return
	}
	amount, err := strconv.ParseInt(body.Amount, 10, 64)
	if err != nil || body.Reference == "" {
		writeEnvelope(w, http.StatusBadRequest, false, "invalid amount or reference", nil)
		return
	}

	g.mu.Lock()
	g.sessions[body.Reference] = fakeSession{Amount: amount, Currency: body.Currency}
	g.mu.Unlock()

	writeEnvelope(w, http.StatusOK, true, "Authorization URL created", map[string]string{
		"authorization_url": "https://checkout.example.test/" + body.Reference,
		"access_code":       "ac_" + strings.ToLower(body.Reference),
		"reference":         body.Reference,
	})
}

func (g *FakeGateway) verify(w http.ResponseWriter, r *http.Request) {
	reference := r.PathValue("reference")

	g.mu.Lock()
	session, ok := g.sessions[reference]
	status, fixed := g.outcome[reference]
	g.mu.Unlock()

	if !ok {
		writeEnvelope(w, http.StatusNotFound, false, "Transaction reference not found", nil)
		return
	}
	if !fixed {
		status = "success"
	}

	data := map[string]any{
		"reference": reference,
		"status":    status,
		"amount":    session.Amount,
		"currency":  session.Currency,
	}
	if status == "success" {
		data["paid_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	writeEnvelope(w, http.StatusOK, true, "Verification successful", data)
}

func writeEnvelope(w http.ResponseWriter, status int, ok bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  ok,
		"message": message,
		"data":    data,
	})
}
