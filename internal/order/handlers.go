package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"smartmenu-system/internal/cart"
	"smartmenu-system/internal/common/logger"
	"smartmenu-system/internal/domain"
)

type Handler struct {
	svc *Service
	lg  *logger.Logger
}

func NewHandler(svc *Service, lg *logger.Logger) *Handler {
	return &Handler{svc: svc, lg: lg}
}

// CreateOrder accepts the diner's confirmed cart and submits it. The request
// items are replayed through a fresh cart engine so the persisted totals are
// derived by the same aggregate rules the UI showed, not trusted from the
// client.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	c := cart.New()
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			http.Error(w, fmt.Sprintf("invalid quantity for item %s", it.Name), http.StatusBadRequest)
			return
		}
		if it.Price < 0 {
			http.Error(w, fmt.Sprintf("invalid price for item %s", it.Name), http.StatusBadRequest)
			return
		}
		c.Add(it.Name, it.Price)
		if it.Quantity > 1 {
			li, _ := c.Get(it.Name)
			c.SetQuantity(it.Name, li.Quantity+it.Quantity-1)
		}
	}

	rec, err := h.svc.Submit(r.Context(), c, req.TableNumber)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			http.Error(w, "at least one item is required", http.StatusBadRequest)
			return
		}
		h.lg.Error("order_create_failed", err, map[string]any{"table": req.TableNumber})
		http.Error(w, "failed to create order", http.StatusInternalServerError)
		return
	}

	resp := domain.CreateOrderResponse{
		OrderNumber: rec.OrderNumber,
		Status:      "received",
		TotalAmount: rec.TotalAmount,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}
