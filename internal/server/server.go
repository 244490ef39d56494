// Package server is the HTTP backend the storefront client talks to.
package server

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/safar/go-storefront/internal/cache"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
	"github.com/safar/go-storefront/internal/validate"
	"go.uber.org/zap"
)

type Repository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsPage(ctx context.Context, page, pageSize int) (*store.OffsetPage[models.Product], error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, cursor string, limit int) (*store.CursorPage[models.Order], error)
	Ping(ctx context.Context) error
}

type Handler struct {
	repo    Repository
	catalog *cache.CatalogCache
	log     *zap.Logger
}

func NewHandler(repo Repository, catalog *cache.CatalogCache, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{repo: repo, catalog: catalog, log: log}
}

var registerOnce sync.Once

func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return validate.Phone(validate.NormalizePhone(fl.Field().String())) == ""
		})
		_ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
			return validate.Email(fl.Field().String()) == ""
		})
		_ = v.RegisterValidation("address", func(fl validator.FieldLevel) bool {
			return validate.Address(fl.Field().String()) == ""
		})
	})
}

func NewRouter(h *Handler) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), MetricsMiddleware(), Logging(h.log))

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/product", h.ListProducts)
	r.GET("/product/:id", h.GetProduct)

	r.POST("/order", h.CreateOrder)
	r.GET("/order", h.ListOrders)
	r.GET("/order/:id", h.GetOrder)

	return r
}
