package transport

import (
	"net/http"

	"mesquite-store/internal/domain"
	"mesquite-store/internal/middleware"
	"mesquite-store/internal/repository"
	"mesquite-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlaceOrderRequest represents the checkout payload
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
}

// UpdateOrderStatusRequest represents the admin status-change payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for checkout and order lifecycle
type OrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
	logger          *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(
	checkoutService service.CheckoutService,
	orderService service.OrderService,
	logger *zap.Logger,
) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		logger:          logger,
	}
}

// RegisterRoutes registers customer and admin order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.PlaceOrder)
		r.Get("/", h.ListOwn)
		r.Delete("/{id}", h.Cancel)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/api/admin/orders", h.ListAll)
		r.Patch("/api/admin/orders/{id}", h.UpdateStatus)
		r.Delete("/api/admin/orders/{id}", h.Delete)
	})
}

// PlaceOrder converts the caller's cart into an order
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req PlaceOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.checkoutService.PlaceOrder(r.Context(), userID, req.ShippingAddress)
	if err != nil {
		switch err {
		case service.ErrAuthRequired:
			middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		case service.ErrEmptyAddress:
			middleware.RespondWithError(w, http.StatusBadRequest, "shipping address is required")
		case service.ErrEmptyCart:
			middleware.RespondWithError(w, http.StatusBadRequest, "cart is empty")
		default:
			h.logger.Error("Checkout failed", zap.Error(err), zap.String("user_id", userID.String()))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("total", order.Total),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// ListOwn returns the caller's orders
func (h *OrderHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orders, err := h.orderService.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Cancel is the customer cancellation: allowed only while the order is
// pending, and it removes the order together with its items
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orderService.Cancel(r.Context(), userID, orderID); err != nil {
		switch err {
		case repository.ErrOrderNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		case service.ErrInvalidTransition:
			middleware.RespondWithError(w, http.StatusConflict, "cannot delete this order")
		default:
			h.logger.Error("Failed to cancel order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to cancel order")
		}
		return
	}

	h.logger.Info("Order cancelled",
		zap.String("order_id", orderID.String()),
		zap.String("user_id", userID.String()),
	)
	w.WriteHeader(http.StatusNoContent)
}

// ListAll returns every order for the admin view
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to list all orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// UpdateStatus is the admin status write
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.orderService.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		switch err {
		case service.ErrInvalidStatus:
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown order status")
		case repository.ErrOrderNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Failed to update order status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", req.Status),
	)
	w.WriteHeader(http.StatusNoContent)
}

// Delete is the admin order delete, allowed in any status
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orderService.Delete(r.Context(), orderID); err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to delete order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	h.logger.Info("Order deleted", zap.String("order_id", orderID.String()))
	w.WriteHeader(http.StatusNoContent)
}
