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

// AddCartItemRequest represents the add-to-cart payload
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest represents the quantity-change payload
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// CartResponse is the cart snapshot with its derived projections. Total and
// count are recomputed from the lines on every response, never stored.
type CartResponse struct {
	Items []domain.CartLine `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{id}", h.UpdateItem)
		r.Delete("/items/{id}", h.RemoveItem)
	})
}

// GetCart returns the caller's cart with total and count
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	h.respondWithCart(w, r, userID)
}

// AddItem adds a product to the cart, merging with an existing line
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req AddCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	if err := h.cartService.Add(r.Context(), userID, productID, quantity); err != nil {
		h.handleCartError(w, err, "Failed to add to cart")
		return
	}

	h.logger.Info("Added to cart",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("quantity", quantity),
	)

	h.respondWithCart(w, r, userID)
}

// UpdateItem overwrites one cart line's quantity
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.cartService.SetQuantity(r.Context(), userID, itemID, req.Quantity); err != nil {
		h.handleCartError(w, err, "Failed to update cart item")
		return
	}

	h.respondWithCart(w, r, userID)
}

// RemoveItem deletes one line from the cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	if err := h.cartService.Remove(r.Context(), userID, itemID); err != nil {
		h.handleCartError(w, err, "Failed to remove cart item")
		return
	}

	h.respondWithCart(w, r, userID)
}

// ClearCart empties the caller's cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.cartService.Clear(r.Context(), userID); err != nil {
		h.handleCartError(w, err, "Failed to clear cart")
		return
	}

	h.respondWithCart(w, r, userID)
}

// respondWithCart re-reads the cart from the store and writes it out. Every
// mutation responds this way instead of patching what the client last saw.
func (h *CartHandler) respondWithCart(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	lines, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{
		Items: lines,
		Total: domain.CartTotal(lines),
		Count: domain.CartCount(lines),
	})
}

func (h *CartHandler) handleCartError(w http.ResponseWriter, err error, logMsg string) {
	switch err {
	case service.ErrAuthRequired:
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
	case service.ErrInvalidQuantity:
		middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be at least 1")
	case repository.ErrCartItemNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "cart operation failed")
	}
}
