//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"mcdee-marketplace/internal/domain/user"
	"mcdee-marketplace/internal/handler/api"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/internal/handler/middleware"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/commands"
	"mcdee-marketplace/internal/usecase/queries"
	"mcdee-marketplace/internal/usecase/shared"
	"mcdee-marketplace/tests/common/httptest"
	commandsmock "mcdee-marketplace/tests/mock/commands"
	queriesmock "mcdee-marketplace/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CartHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCartCommands
	mockQueries  *queriesmock.MockCartQueries
	mockOrders   *queriesmock.MockOrderQueries
	actor        shared.Actor
}

func (s *CartHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(middleware.RegisterValidators())
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCartCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCartQueries(s.mockCtrl)
	s.mockOrders = queriesmock.NewMockOrderQueries(s.mockCtrl)
	s.actor = shared.Actor{ID: uuid.New(), Role: user.RoleUser}

	h := api.NewCartHandler(s.mockCommands, s.mockQueries, s.mockOrders)
	authed := s.router.Group("")
	authed.Use(func(c *gin.Context) {
		c.Set("user_id", s.actor.ID)
		c.Set("user_role", s.actor.Role)
		c.Next()
	})
	authed.GET("/cart", h.Get)
	authed.PATCH("/cart/items/:id", h.UpdateItem)
	authed.POST("/cart/checkout", h.Checkout)
}

func (s *CartHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerTestSuite))
}

func twoVendorCart() *queries.CartView {
	line := func(name string, price int64, qty, stock int) queries.CartItemView {
		return queries.CartItemView{
			ID:            uuid.New(),
			ProductID:     uuid.New(),
			ProductName:   name,
			UnitPrice:     money.FromKobo(price),
			Quantity:      qty,
			StockQuantity: stock,
			LineTotal:     money.FromKobo(price * int64(qty)),
			CanIncrement:  qty < stock,
		}
	}
	a := queries.CartGroupView{VendorID: uuid.New(), VendorName: "Mama Put", Items: []queries.CartItemView{line("Jollof", 250000, 2, 5)}, Subtotal: money.FromKobo(500000)}
	b := queries.CartGroupView{VendorID: uuid.New(), VendorName: "Suya Spot", Items: []queries.CartItemView{line("Suya", 150000, 1, 1)}, Subtotal: money.FromKobo(150000)}
	return &queries.CartView{Groups: []queries.CartGroupView{a, b}, Subtotal: money.FromKobo(650000), ItemCount: 3}
}

func (s *CartHandlerTestSuite) TestGet() {
	s.Run("成功: groups keep vendor order and subtotals", func() {
		cart := twoVendorCart()
		s.mockQueries.EXPECT().Get(gomock.Any(), s.actor.ID).Return(cart, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cart", nil, "")

		var response resdto.CartResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		vendors := []string{}
		for _, g := range response.Groups {
			vendors = append(vendors, g.VendorName)
		}
		if diff := cmp.Diff([]string{"Mama Put", "Suya Spot"}, vendors); diff != "" {
			s.T().Errorf("vendor order mismatch (-want +got):\n%s", diff)
		}
		s.Equal(int64(650000), response.Subtotal.Kobo())
		s.Equal(3, response.ItemCount)
		s.False(response.Groups[1].Items[0].CanIncrement)
		s.Equal(money.Currency, response.Currency)
	})

	s.Run("成功: empty cart renders an empty group list", func() {
		s.mockQueries.EXPECT().Get(gomock.Any(), s.actor.ID).Return(&queries.CartView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cart", nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		s.Contains(rec.Body.String(), `"groups":[]`)
	})
}

func (s *CartHandlerTestSuite) TestUpdateItem() {
	itemID := uuid.New()
	url := "/cart/items/" + itemID.String()

	s.Run("error: quantity is required", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: above stock is 422 with the reason", func() {
		s.mockCommands.EXPECT().UpdateQuantity(gomock.Any(), s.actor.ID, itemID, 9).
			Return(errs.Mark(errs.New("only 5 in stock"), errs.ErrDomainValidation)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"quantity": 9}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "only 5 in stock")
	})

	s.Run("成功: zero quantity is passed through and the cart re-read", func() {
		s.mockCommands.EXPECT().UpdateQuantity(gomock.Any(), s.actor.ID, itemID, 0).Return(nil).Times(1)
		s.mockQueries.EXPECT().Get(gomock.Any(), s.actor.ID).Return(&queries.CartView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"quantity": 0}, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})
}

func (s *CartHandlerTestSuite) TestCheckout() {
	key := uuid.New()
	reqBody := reqdto.CheckoutRequest{DeliveryAddress: "12 Admiralty Way, Lekki"}
	headers := map[string]string{"Idempotency-Key": key.String()}

	s.Run("成功: one order per vendor with the overall total", func() {
		checkoutID := uuid.New()
		orders := []*queries.OrderView{
			{ID: uuid.New(), CheckoutID: checkoutID, VendorName: "Mama Put", TotalAmount: money.FromKobo(500000), Status: "pending"},
			{ID: uuid.New(), CheckoutID: checkoutID, VendorName: "Suya Spot", TotalAmount: money.FromKobo(150000), Status: "pending"},
		}
		s.mockCommands.EXPECT().Checkout(gomock.Any(), s.actor.ID, key, reqBody).
			Return(&commands.CheckoutResult{CheckoutID: checkoutID}, nil).Times(1)
		s.mockOrders.EXPECT().
			List(gomock.Any(), queries.OrderScope{UserID: &s.actor.ID, CheckoutID: &checkoutID}, "", queries.Page{Limit: queries.MaxListLimit}).
			Return(queries.List[*queries.OrderView]{Items: orders}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/cart/checkout", reqBody, "", headers)

		var response resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(checkoutID, response.CheckoutID)
		s.Len(response.Orders, 2)
		s.Equal(int64(650000), response.Total.Kobo())
	})

	s.Run("error: empty cart is 422", func() {
		s.mockCommands.EXPECT().Checkout(gomock.Any(), s.actor.ID, key, reqBody).
			Return(nil, errs.Mark(errs.New("cart is empty"), errs.ErrDomainValidation)).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/cart/checkout", reqBody, "", headers)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "cart is empty")
	})

	s.Run("error: delivery address is required", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/cart/checkout", map[string]any{}, "", headers)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}
