package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/http/mapper"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/memory"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/receipt"
	ordersapp "github.com/cafepos/cafe-api-server/internal/domains/orders/application"
	ordersdomain "github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
	sharederrors "github.com/cafepos/cafe-api-server/internal/shared/errors"
)

// flakySettler fails every settle while tripped, then recovers.
type flakySettler struct {
	repo    *memory.Repository
	tripped bool
}

func (s *flakySettler) Settle(ctx context.Context, order *ordersdomain.Order) (int64, error) {
	if s.tripped {
		return 0, errors.New("storage unavailable")
	}
	return ordersapp.SettleOrder(ctx, s.repo, order)
}

func newTestRouter(t *testing.T) (*gin.Engine, *flakySettler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.NewRepository()
	settler := &flakySettler{repo: repo}
	coordinator := ordersapp.NewCoordinator(repo, settler)
	renderer := receipt.NewRenderer(receipt.Business{Name: "Test Cafe"})

	router := gin.New()
	NewHandler(coordinator, renderer).Register(router)
	return router, settler
}

func perform(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeOrder(t *testing.T, rec *httptest.ResponseRecorder) mapper.Order {
	t.Helper()
	var order mapper.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	return order
}

func addItemBody(name string, price, quantity int64) gin.H {
	return gin.H{"name": name, "unitPrice": price, "quantity": quantity}
}

func TestHandler_AddItemAndGetTableOrder(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/tables/5/items", addItemBody("Coffee", 50000, 2))
	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeOrder(t, rec)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Coffee", order.Items[0].Name)
	assert.Equal(t, int64(100000), order.Subtotal)

	rec = perform(router, http.MethodGet, "/tables/5/order", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeOrder(t, rec).Items, 1)
}

func TestHandler_ItemsLandOnTheAddressedTable(t *testing.T) {
	router, _ := newTestRouter(t)

	// warming another table's session must not redirect the add
	rec := perform(router, http.MethodGet, "/tables/6/order", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(router, http.MethodPost, "/tables/5/items", addItemBody("Coffee", 50000, 2))
	require.Equal(t, http.StatusOK, rec.Code)

	five := decodeOrder(t, perform(router, http.MethodGet, "/tables/5/order", nil))
	require.Len(t, five.Items, 1)
	assert.Equal(t, "Coffee", five.Items[0].Name)

	six := decodeOrder(t, perform(router, http.MethodGet, "/tables/6/order", nil))
	assert.Empty(t, six.Items)
}

func TestHandler_AddItemValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"unitPrice": 50000, "quantity": 1}},
		{"zero quantity", addItemBody("Coffee", 50000, 0)},
		{"negative quantity", addItemBody("Coffee", 50000, -1)},
		{"negative price", addItemBody("Coffee", -1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := perform(router, http.MethodPost, "/tables/2/items", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, sharederrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
		})
	}
}

func TestHandler_BadTableParam(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/tables/abc/items", addItemBody("Coffee", 50000, 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(router, http.MethodGet, "/tables/-3/order", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ChangeQuantityUnknownItem(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/tables/4/items", addItemBody("Tea", 30000, 1))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(router, http.MethodPatch, "/tables/4/items/Latte", gin.H{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_CommandsWithoutOrderConflict(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := perform(router, http.MethodPatch, "/tables/9/items/Coffee", gin.H{"quantity": 2})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = perform(router, http.MethodPost, "/tables/9/discount", gin.H{"amount": 1000})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = perform(router, http.MethodPost, "/tables/9/close", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_DiscountBounds(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/tables/3/items", addItemBody("Coffee", 50000, 1))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(router, http.MethodPost, "/tables/3/discount", gin.H{"amount": 50001})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(router, http.MethodPost, "/tables/3/discount", gin.H{"amount": 50000})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), decodeOrder(t, rec).Total)
}

func TestHandler_CloseAndFetchOrder(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/tables/7/items", addItemBody("Pasta", 95000, 1))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(router, http.MethodPost, "/tables/7/close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var closed struct {
		OrderID int64 `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &closed))
	require.NotZero(t, closed.OrderID)

	rec = perform(router, http.MethodGet, fmt.Sprintf("/orders/%d", closed.OrderID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeOrder(t, rec)
	assert.Equal(t, "closed", order.Status)
	assert.Equal(t, int64(95000), order.Total)

	rec = perform(router, http.MethodGet, fmt.Sprintf("/orders/%d/receipt", closed.OrderID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Test Cafe")
	assert.Contains(t, rec.Body.String(), "Pasta")

	// the session is gone; a second close has nothing to settle
	rec = perform(router, http.MethodPost, "/tables/7/close", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_GetOrderErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := perform(router, http.MethodGet, "/orders/12345", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = perform(router, http.MethodGet, "/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CloseRetriesAfterFailedSave(t *testing.T) {
	router, settler := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/tables/8/items", addItemBody("Soda", 20000, 3))
	require.Equal(t, http.StatusOK, rec.Code)

	settler.tripped = true
	rec = perform(router, http.MethodPost, "/tables/8/close", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order Not Saved")

	settler.tripped = false
	rec = perform(router, http.MethodPost, "/tables/8/close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_ClearOrder(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/tables/2/items", addItemBody("Coffee", 50000, 1))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(router, http.MethodDelete, "/tables/2/order", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = perform(router, http.MethodGet, "/tables/2/order", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeOrder(t, rec).Items)
}

func TestHandler_TakeawayUsesTableZero(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := perform(router, http.MethodPost, "/tables/0/items", addItemBody("Latte", 65000, 1))
	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeOrder(t, rec)
	assert.Nil(t, order.TableNumber)

	rec = perform(router, http.MethodPost, "/tables/0/close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
