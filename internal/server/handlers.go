package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
	"github.com/safar/go-storefront/internal/validate"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const requestTimeout = 5 * time.Second

type orderPayload struct {
	Payment models.Payment  `json:"payment" binding:"required,oneof=online cash"`
	Address string          `json:"address" binding:"required,address"`
	Email   string          `json:"email" binding:"required,contact_email"`
	Phone   string          `json:"phone" binding:"required,phone"`
	Items   []string        `json:"items" binding:"required,min=1,dive,required"`
	Total   decimal.Decimal `json:"total"`
}

func respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	if err := h.repo.Ping(ctx); err != nil {
		respondError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListProducts serves the whole catalog as {total, items}. With a page query
// parameter it serves one offset page instead and bypasses the cache.
func (h *Handler) ListProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if c.Query("page") != "" {
		page, _ := strconv.Atoi(c.Query("page"))
		pageSize, _ := strconv.Atoi(c.Query("page_size"))

		result, err := h.repo.ListProductsPage(ctx, page, pageSize)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	products, err := h.catalogProducts(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, models.CatalogPage{Total: len(products), Items: products})
}

func (h *Handler) catalogProducts(ctx context.Context) ([]models.Product, error) {
	products, ok, err := h.catalog.Get(ctx)
	switch {
	case err != nil:
		h.log.Warn("catalog cache read", zap.Error(err))
		catalogCacheLookups.WithLabelValues("error").Inc()
	case ok:
		catalogCacheLookups.WithLabelValues("hit").Inc()
		return products, nil
	case h.catalog.Enabled():
		catalogCacheLookups.WithLabelValues("miss").Inc()
	}

	products, err = h.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.catalog.Set(ctx, products); err != nil {
		h.log.Warn("catalog cache write", zap.Error(err))
	}
	return products, nil
}

func (h *Handler) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	product, err := h.repo.GetProduct(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, err)
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req orderPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.repo.CreateOrder(ctx, models.OrderRequest{
		Payment: req.Payment,
		Address: req.Address,
		Email:   req.Email,
		Phone:   validate.FormatPhone(validate.NormalizePhone(req.Phone)),
		Items:   req.Items,
		Total:   req.Total,
	})
	if err != nil {
		respondError(c, orderErrorStatus(err), err)
		return
	}

	ordersPlaced.Inc()
	h.log.Info("order placed", zap.String("order", order.ID), zap.Stringer("total", order.Total))
	c.JSON(http.StatusOK, models.OrderResult{ID: order.ID, Total: order.Total})
}

func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, database.ErrEmptyOrder),
		errors.Is(err, database.ErrDuplicateItem),
		errors.Is(err, database.ErrTotalMismatch),
		errors.Is(err, database.ErrProductNotForSale),
		errors.Is(err, database.ErrProductNotFound):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrLockTimeout):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *Handler) GetOrder(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, err)
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	page, err := h.repo.ListOrders(ctx, c.Query("cursor"), limit)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCursor) {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
