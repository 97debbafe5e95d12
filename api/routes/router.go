package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khalidshboul/smart-basket-admin/api/controllers"
	"github.com/khalidshboul/smart-basket-admin/api/middleware"
	"github.com/khalidshboul/smart-basket-admin/internal/basket"
	"github.com/khalidshboul/smart-basket-admin/internal/bulkupload"
	category "github.com/khalidshboul/smart-basket-admin/internal/categories"
	item "github.com/khalidshboul/smart-basket-admin/internal/items"
	price "github.com/khalidshboul/smart-basket-admin/internal/prices"
	storeitem "github.com/khalidshboul/smart-basket-admin/internal/storeitems"
	store "github.com/khalidshboul/smart-basket-admin/internal/stores"
	"github.com/khalidshboul/smart-basket-admin/pkg/config"
	"github.com/khalidshboul/smart-basket-admin/pkg/db"
	"github.com/khalidshboul/smart-basket-admin/pkg/logger"
	"github.com/khalidshboul/smart-basket-admin/pkg/metrics"
	"github.com/khalidshboul/smart-basket-admin/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	reg *metrics.Registry,
	gatherer prometheus.Gatherer,
	categoryService category.Service,
	itemService item.Service,
	storeService store.Service,
	storeItemService storeitem.Service,
	priceService price.Service,
	basketService basket.Service,
	uploadService bulkupload.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(reg),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(categoryService, logg))
			r.Post("/", controllers.CategoryCreate(categoryService, logg))
			r.Get("/active", controllers.CategoryListActive(categoryService, logg))
			r.Get("/top-level", controllers.CategoryTopLevel(categoryService, logg))
			r.Get("/tree", controllers.CategoryTree(categoryService, logg))
			r.Route("/{categoryId}", func(r chi.Router) {
				r.Get("/", controllers.CategoryDetail(categoryService, logg))
				r.Put("/", controllers.CategoryUpdate(categoryService, logg))
				r.Delete("/", controllers.CategoryDelete(categoryService, logg))
				r.Get("/subcategories", controllers.CategorySubcategories(categoryService, logg))
				r.Get("/with-subcategories", controllers.CategoryWithSubcategories(categoryService, logg))
				r.Patch("/toggle-status", controllers.CategoryToggleStatus(categoryService, logg))
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemList(itemService, logg))
			r.Post("/", controllers.ItemCreate(itemService, logg))
			r.Get("/search", controllers.ItemSearch(itemService, logg))
			r.Get("/barcode/{barcode}", controllers.ItemBarcodeLookup(itemService, logg))
			r.Get("/category/{categoryId}", controllers.ItemsByCategory(itemService, logg))
			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.ItemDetail(itemService, logg))
				r.Put("/", controllers.ItemUpdate(itemService, logg))
				r.Delete("/", controllers.ItemDelete(itemService, logg))
				r.Patch("/toggle-status", controllers.ItemToggleStatus(itemService, logg))
			})
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.StoreList(storeService, logg))
			r.Post("/", controllers.StoreCreate(storeService, logg))
			r.Get("/active", controllers.StoreListActive(storeService, logg))
			r.Route("/{storeId}", func(r chi.Router) {
				r.Get("/", controllers.StoreDetail(storeService, logg))
				r.Put("/", controllers.StoreUpdate(storeService, logg))
				r.Delete("/", controllers.StoreDelete(storeService, logg))
				r.Patch("/toggle-status", controllers.StoreToggleStatus(storeService, logg))
			})
		})

		r.Route("/store-items", func(r chi.Router) {
			r.Get("/", controllers.StoreItemList(storeItemService, logg))
			r.Post("/", controllers.StoreItemCreate(storeItemService, logg))
			r.Get("/by-reference/{itemId}", controllers.StoreItemsByReference(storeItemService, logg))
			r.Get("/by-store/{storeId}", controllers.StoreItemsByStore(storeItemService, logg))
			r.Route("/{storeItemId}", func(r chi.Router) {
				r.Get("/", controllers.StoreItemDetail(storeItemService, logg))
				r.Put("/", controllers.StoreItemUpdate(storeItemService, logg))
				r.Delete("/", controllers.StoreItemDelete(storeItemService, logg))
			})
		})

		r.Route("/prices", func(r chi.Router) {
			r.Post("/", controllers.PriceUpdate(priceService, logg))
			r.Post("/batch", controllers.PriceBatchUpdate(priceService, logg))
			r.Get("/history/{storeItemId}", controllers.PriceHistory(priceService, logg))
		})

		r.Post("/basket/compare", controllers.BasketCompare(basketService, logg))
		r.Post("/bulk-upload/items", controllers.BulkUploadItems(uploadService, logg, cfg.Upload.MaxFileBytes))
	})

	return r
}
