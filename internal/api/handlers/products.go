package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/storelink/woosync/internal/domain/models"
	"github.com/storelink/woosync/internal/domain/services"
	"github.com/storelink/woosync/pkg/interfaces"
	"github.com/storelink/woosync/pkg/utils"
)

// ProductServiceInterface is the slice of ProductService the handler needs.
type ProductServiceInterface interface {
	GetProductsPage(ctx context.Context, userID string, perPage, page int) (*interfaces.ProductPage, error)
	AreProductsSynced(ctx context.Context, userID string) (bool, error)
	SyncProducts(ctx context.Context, userID string) (*models.SyncResult, error)
	ListProducts(ctx context.Context, userID string, page, pageSize int) ([]models.Product, int, error)
}

// ProductHandler handles catalog requests.
type ProductHandler struct {
	productService ProductServiceInterface
	logger         interfaces.LoggerPort
}

// NewProductHandler creates the product handler.
func NewProductHandler(productService ProductServiceInterface, logger interfaces.LoggerPort) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// userID pulls the authenticated user id set by the auth middleware.
func (h *ProductHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok || userID == "" {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, errorResponse{
			Error:   "unauthorized",
			Code:    http.StatusUnauthorized,
			Message: "not authorized",
		})
		return "", false
	}
	return userID, true
}

func (h *ProductHandler) serviceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, services.ErrUserNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{
			Error:   "not_found",
			Code:    http.StatusNotFound,
			Message: "resource not found",
		})
		return
	}

	h.logger.ErrorWithContext(r.Context(), op+" failed",
		interfaces.LogField{Key: "error", Value: err.Error()})
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, errorResponse{
		Error:   "internal_error",
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
	})
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or not a number. Values are forwarded as given.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// GetProducts handles GET /api/v1/products: one store catalog page.
func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	perPage := queryInt(r, "per_page", 10)
	page := queryInt(r, "page", 1)

	productPage, err := h.productService.GetProductsPage(r.Context(), userID, perPage, page)
	if err != nil {
		h.serviceError(w, r, "get products", err)
		return
	}

	pagination := utils.NewPagination(page, perPage)
	pagination.SetTotals(int64(productPage.TotalItems), productPage.TotalPages)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    productPage.Products,
		Meta:    pagination,
	})
}

// AreProductsSynced handles GET /api/v1/products/synced.
func (h *ProductHandler) AreProductsSynced(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	synced, err := h.productService.AreProductsSynced(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, "products synced check", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]bool{"are_products_synced": synced})
}

// SyncProducts handles POST /api/v1/products/sync.
func (h *ProductHandler) SyncProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	result, err := h.productService.SyncProducts(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, "products sync", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    result,
	})
}

// ListStoredProducts handles GET /api/v1/products/stored: the synchronized
// catalog from the relational store.
func (h *ProductHandler) ListStoredProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	pageSize := queryInt(r, "per_page", 10)
	page := queryInt(r, "page", 1)

	products, total, err := h.productService.ListProducts(r.Context(), userID, page, pageSize)
	if err != nil {
		h.serviceError(w, r, "list stored products", err)
		return
	}

	pagination := utils.NewPagination(page, pageSize)
	pagination.SetTotal(int64(total))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    products,
		Meta:    pagination,
	})
}
