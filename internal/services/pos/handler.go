package pos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pos-system/internal/catalog"
	"pos-system/internal/customers"
	"pos-system/internal/logger"
	"pos-system/internal/models"
	"pos-system/internal/session"
)

// Handler exposes the POS service over HTTP
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new POS handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// SetupRoutes sets up the HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /products", h.withLogging(h.listProducts))
	mux.HandleFunc("GET /customers", h.withLogging(h.listCustomers))

	mux.HandleFunc("POST /carts", h.withLogging(h.createCart))
	mux.HandleFunc("GET /carts/{id}", h.withLogging(h.getCart))
	mux.HandleFunc("POST /carts/{id}/items", h.withLogging(h.addItem))
	mux.HandleFunc("PUT /carts/{id}/items/{productID}", h.withLogging(h.updateQuantity))
	mux.HandleFunc("DELETE /carts/{id}/items/{productID}", h.withLogging(h.removeItem))
	mux.HandleFunc("PUT /carts/{id}/customer", h.withLogging(h.setCustomer))
	mux.HandleFunc("PUT /carts/{id}/order-type", h.withLogging(h.setOrderType))
	mux.HandleFunc("PUT /carts/{id}/table", h.withLogging(h.setTable))
	mux.HandleFunc("PUT /carts/{id}/rider", h.withLogging(h.setRider))
	mux.HandleFunc("PUT /carts/{id}/address", h.withLogging(h.setAddress))
	mux.HandleFunc("PUT /carts/{id}/discount", h.withLogging(h.setDiscount))
	mux.HandleFunc("POST /carts/{id}/clear", h.withLogging(h.clearCart))
	mux.HandleFunc("POST /carts/{id}/checkout", h.withLogging(h.checkout))
	mux.HandleFunc("POST /carts/{id}/hold", h.withLogging(h.holdCart))
	mux.HandleFunc("POST /carts/{id}/resume", h.withLogging(h.resumeCart))
	mux.HandleFunc("POST /carts/{id}/load-order", h.withLogging(h.loadOrder))
	mux.HandleFunc("GET /held-carts", h.withLogging(h.listHeldCarts))

	mux.HandleFunc("GET /health", h.withLogging(h.healthCheck))

	return mux
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list products")
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customerList, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list customers")
		return
	}
	h.writeJSON(w, http.StatusOK, customerList)
}

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	id, snap := h.service.CreateCart()
	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"cart_id":  id,
		"snapshot": snap,
	})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetSnapshot(r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to get cart")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddItemRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	snap, err := h.service.AddItem(r.Context(), r.PathValue("id"), req.ProductID)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to add item")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateQuantityRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	snap, err := h.service.UpdateQuantity(r.PathValue("id"), r.PathValue("productID"), req.Quantity)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to update quantity")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.RemoveItem(r.PathValue("id"), r.PathValue("productID"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to remove item")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) setCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.SetCustomerRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	snap, err := h.service.SetCustomer(r.Context(), r.PathValue("id"), req.CustomerID)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to set customer")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) setOrderType(w http.ResponseWriter, r *http.Request) {
	var req models.SetOrderTypeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	snap, err := h.service.SetOrderType(r.PathValue("id"), models.OrderType(req.OrderType))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to set order type")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) setTable(w http.ResponseWriter, r *http.Request) {
	var req models.SetTableRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	snap, err := h.service.SetTable(r.PathValue("id"), req.TableNumber)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to set table")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) setRider(w http.ResponseWriter, r *http.Request) {
	var req models.SetRiderRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	snap, err := h.service.SetRider(r.Context(), r.PathValue("id"), req.RiderID)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to set rider")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) setAddress(w http.ResponseWriter, r *http.Request) {
	var req models.SetAddressRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	var address *string
	if req.Address != "" {
		address = &req.Address
	}

	snap, err := h.service.SetAddress(r.PathValue("id"), address)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to set address")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) setDiscount(w http.ResponseWriter, r *http.Request) {
	var req models.SetDiscountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	snap, err := h.service.SetDiscount(r.PathValue("id"), req.Amount, models.DiscountKind(req.Kind))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to set discount")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.ClearCart(r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to clear cart")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())

	var req models.CheckoutRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	resp, err := h.service.Checkout(ctx, r.PathValue("id"), req.CashierName, requestID)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to checkout")
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) holdCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}

	holdID, err := h.service.HoldCart(r.Context(), r.PathValue("id"), req.Label)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to hold cart")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"hold_id": holdID})
}

func (h *Handler) resumeCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HoldID string `json:"hold_id"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.HoldID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "hold_id is required", requestIDFromContext(r.Context()))
		return
	}

	snap, err := h.service.ResumeCart(r.Context(), r.PathValue("id"), req.HoldID)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to resume cart")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) loadOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderNumber string `json:"order_number"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.OrderNumber == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "order_number is required", requestIDFromContext(r.Context()))
		return
	}

	snap, err := h.service.LoadOrder(r.Context(), r.PathValue("id"), req.OrderNumber)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to load order")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) listHeldCarts(w http.ResponseWriter, r *http.Request) {
	held, err := h.service.ListHeldCarts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list held carts")
		return
	}
	h.writeJSON(w, http.StatusOK, held)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pos-service",
	})
}

// decodeAndValidate decodes the JSON body and runs its Validate method
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface {
	Validate() error
}) bool {
	if !h.decodeBody(w, r, req) {
		return false
	}
	if err := req.Validate(); err != nil {
		h.logger.Error("validation_failed", "Request validation failed",
			requestIDFromContext(r.Context()), err, nil)
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestIDFromContext(r.Context()))
		return false
	}
	return true
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body",
			requestIDFromContext(r.Context()), err, nil)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestIDFromContext(r.Context()))
		return false
	}
	return true
}

// writeServiceError maps service errors to HTTP status codes
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	requestID := requestIDFromContext(r.Context())

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrCartNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, customers.ErrNotFound),
		errors.Is(err, session.ErrHeldCartNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrEmptyCart):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request_failed", message, requestID, err, map[string]interface{}{
			"path": r.URL.Path,
		})
		h.writeErrorResponse(w, status, "Internal server error", requestID)
		return
	}

	h.writeErrorResponse(w, status, err.Error(), requestID)
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", "", err, nil)
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}

type contextKey string

const requestIDKey contextKey = "request_id"

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// withLogging adds request logging middleware
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		h.logger.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
			})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
