package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartmenu-system/internal/common/logger"
	"smartmenu-system/internal/domain"
)

func postOrders(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateOrder(w, req)
	return w
}

func TestCreateOrderHandler(t *testing.T) {
	repo := &fakeOrders{}
	h := NewHandler(newTestService(repo, &fakePub{}), logger.New("test"))

	w := postOrders(t, h, `{
		"table_number": "table7",
		"items": [
			{"name": "Margherita Royale", "price": 65, "quantity": 1},
			{"name": "Tiramisu", "price": 32, "quantity": 2}
		]
	}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp domain.CreateOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "received", resp.Status)
	assert.Equal(t, 129.0, resp.TotalAmount)
	assert.Equal(t, "ORD_20260102_001", resp.OrderNumber)
	require.Len(t, repo.created, 1)
}

func TestCreateOrderHandlerEmptyItems(t *testing.T) {
	repo := &fakeOrders{}
	h := NewHandler(newTestService(repo, &fakePub{}), logger.New("test"))

	w := postOrders(t, h, `{"table_number": "table7", "items": []}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.created)
}

func TestCreateOrderHandlerInvalidQuantity(t *testing.T) {
	h := NewHandler(newTestService(&fakeOrders{}, &fakePub{}), logger.New("test"))

	w := postOrders(t, h, `{"table_number": "t", "items": [{"name": "Cola", "price": 12, "quantity": 0}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderHandlerDuplicateNamesAddUp(t *testing.T) {
	repo := &fakeOrders{}
	h := NewHandler(newTestService(repo, &fakePub{}), logger.New("test"))

	w := postOrders(t, h, `{
		"table_number": "t",
		"items": [
			{"name": "Cola", "price": 12, "quantity": 2},
			{"name": "Cola", "price": 12, "quantity": 3}
		]
	}`)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.created, 1)
	require.Len(t, repo.created[0].Items, 1)
	assert.Equal(t, 5, repo.created[0].Items[0].Quantity)
	assert.Equal(t, 60.0, repo.created[0].TotalAmount)
}

func TestCreateOrderHandlerMethodNotAllowed(t *testing.T) {
	h := NewHandler(newTestService(&fakeOrders{}, &fakePub{}), logger.New("test"))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	h.CreateOrder(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
