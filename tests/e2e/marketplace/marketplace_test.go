//go:build e2e

package marketplace_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"mcdee-marketplace/internal/domain/user"
	"mcdee-marketplace/internal/handler/dto/request"
	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/internal/infra/gateway"
	"mcdee-marketplace/tests/common/authtest"
	"mcdee-marketplace/tests/common/dbtest"
	"mcdee-marketplace/tests/common/httptest"
	"mcdee-marketplace/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type marketplaceSuite struct {
	e2e.SharedSuite

	shopA, shopB           uuid.UUID
	shopAToken, shopBToken string
	buyerToken             string
	rice, oil, shirt       uuid.UUID
}

func TestMarketplaceSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(marketplaceSuite))
}

func (s *marketplaceSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	t := s.T()
	s.shopA, s.shopAToken = authtest.CreateAndLogin(t, s.DB, s.Router, "grocer@example.com", string(user.RoleVendor))
	s.shopB, s.shopBToken = authtest.CreateAndLogin(t, s.DB, s.Router, "tailor@example.com", string(user.RoleVendor))
	_, s.buyerToken = authtest.CreateAndLogin(t, s.DB, s.Router, "buyer@example.com", string(user.RoleUser))

	s.rice = dbtest.CreateTestProduct(t, s.DB, s.shopA, "Rice 5kg", 1200000, 10)
	s.oil = dbtest.CreateTestProduct(t, s.DB, s.shopA, "Palm oil", 350000, 2)
	s.shirt = dbtest.CreateTestProduct(t, s.DB, s.shopB, "Ankara shirt", 900000, 5)
}

func (s *marketplaceSuite) addToCart(t *testing.T, productID uuid.UUID, quantity int) *resdto.CartResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/cart/items",
		request.AddCartItemRequest{ProductID: productID, Quantity: quantity}, s.buyerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cart resdto.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	return &cart
}

func (s *marketplaceSuite) TestCart() {
	s.Run("同じ商品は1行にまとめられる", func() {
		t := s.T()

		s.addToCart(t, s.rice, 1)
		cart := s.addToCart(t, s.rice, 2)

		require.Len(t, cart.Groups, 1)
		require.Len(t, cart.Groups[0].Items, 1)
		require.Equal(t, 3, cart.Groups[0].Items[0].Quantity)
		require.Equal(t, int64(3600000), cart.Subtotal.Kobo())
	})

	s.Run("在庫を超える数量は422", func() {
		t := s.T()

		s.addToCart(t, s.oil, 2)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/cart/items",
			request.AddCartItemRequest{ProductID: s.oil, Quantity: 1}, s.buyerToken)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	s.Run("groups keep first-seen vendor order", func() {
		t := s.T()

		s.addToCart(t, s.shirt, 1)
		s.addToCart(t, s.rice, 1)
		cart := s.addToCart(t, s.oil, 1)

		require.Len(t, cart.Groups, 2)
		require.Equal(t, s.shopB, cart.Groups[0].VendorID)
		require.Equal(t, s.shopA, cart.Groups[1].VendorID)
		require.Equal(t, int64(1550000), cart.Groups[1].Subtotal.Kobo())
		require.Equal(t, 3, cart.ItemCount)
	})
}

func (s *marketplaceSuite) TestCheckoutAndFulfil() {
	s.Run("ベンダーごとに注文を分割し、支払い後に完了", func() {
		t := s.T()

		s.addToCart(t, s.rice, 2)
		s.addToCart(t, s.shirt, 1)

		key := uuid.NewString()
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, "/api/cart/checkout",
			request.CheckoutRequest{DeliveryAddress: "12 Admiralty Way, Lekki"}, s.buyerToken,
			map[string]string{"Idempotency-Key": key})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var checkout resdto.CheckoutResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkout))
		require.Len(t, checkout.Orders, 2)
		require.Equal(t, int64(3300000), checkout.Total.Kobo())

		// 在庫が減っていること
		var stock int
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT stock_quantity FROM products WHERE id = $1", s.rice).Scan(&stock))
		require.Equal(t, 8, stock)

		// カートは空
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/cart", nil, s.buyerToken)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `[]`, mustField(t, w.Body.Bytes(), "groups"))

		// 再送しても注文は増えない
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, "/api/cart/checkout",
			request.CheckoutRequest{DeliveryAddress: "12 Admiralty Way, Lekki"}, s.buyerToken,
			map[string]string{"Idempotency-Key": key})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var replayed resdto.CheckoutResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replayed))
		require.Equal(t, checkout.CheckoutID, replayed.CheckoutID)
		require.Len(t, replayed.Orders, 2)

		var riceOrder *resdto.OrderResponse
		for _, o := range checkout.Orders {
			if o.VendorID == s.shopA {
				riceOrder = o
			}
		}
		require.NotNil(t, riceOrder)
		require.Equal(t, "pending", riceOrder.Status)

		// 承認前は支払えない
		payURL := fmt.Sprintf("/api/orders/%s/pay", riceOrder.ID)
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, payURL, nil, s.buyerToken,
			map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		// 他のベンダーは応答できない
		respond := request.RespondRequest{Response: "accept"}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("/api/vendor/orders/%s/respond", riceOrder.ID), respond, s.shopBToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("/api/vendor/orders/%s/respond", riceOrder.ID), respond, s.shopAToken)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		// 支払い
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, payURL, nil, s.buyerToken,
			map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var session resdto.PaymentSessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
		require.Equal(t, int64(2400000), session.Amount.Kobo())

		body := []byte(fmt.Sprintf(`{"event":"charge.success","data":{"reference":%q}}`, session.Reference))
		w = httptest.PerformRawRequest(t, s.Router, http.MethodPost, "/api/payments/webhook", body,
			map[string]string{gateway.SignatureHeader: s.Gateway.Sign(body), "Content-Type": "application/json"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var status, escrowStatus string
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status, escrow_status FROM orders WHERE id = $1", riceOrder.ID).
			Scan(&status, &escrowStatus))
		require.Equal(t, "paid", status)
		require.Equal(t, "held", escrowStatus)

		// ベンダーが完了するとエスクロー解放
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("/api/vendor/orders/%s/complete", riceOrder.ID), nil, s.shopAToken)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status, escrow_status FROM orders WHERE id = $1", riceOrder.ID).
			Scan(&status, &escrowStatus))
		require.Equal(t, "completed", status)
		require.Equal(t, "released", escrowStatus)

		// 通知がアウトボックスに積まれていること
		var queued int
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT count(*) FROM notification_jobs WHERE status = 'queued'").Scan(&queued))
		require.Positive(t, queued)
	})

	s.Run("空のカートは422", func() {
		t := s.T()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, "/api/cart/checkout",
			request.CheckoutRequest{DeliveryAddress: "Somewhere"}, s.buyerToken,
			map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})
}

func mustField(t *testing.T, body []byte, field string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return string(m[field])
}
