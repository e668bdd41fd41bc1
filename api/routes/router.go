package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samcharmz/charmz-backend/api/controllers"
	"github.com/samcharmz/charmz-backend/api/middleware"
	authsvc "github.com/samcharmz/charmz-backend/internal/auth"
	"github.com/samcharmz/charmz-backend/internal/catalog"
	checkoutsvc "github.com/samcharmz/charmz-backend/internal/checkout"
	"github.com/samcharmz/charmz-backend/internal/shop"
	"github.com/samcharmz/charmz-backend/pkg/config"
	"github.com/samcharmz/charmz-backend/pkg/db"
	"github.com/samcharmz/charmz-backend/pkg/logger"
	"github.com/samcharmz/charmz-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsRegistry *prometheus.Registry,
	shopService shop.Service,
	catalogService catalog.Service,
	authService authsvc.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)
	var limiter middleware.RateLimiterStore
	if redisClient != nil {
		limiter = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", controllers.CatalogList(catalogService, logg))
		r.Get("/catalog/{productId}", controllers.CatalogGet(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.JWT, logg))

			r.Get("/shop", controllers.ShopState(shopService, logg))

			r.Post("/cart/items", controllers.CartAdd(shopService, catalogService, logg))
			r.Patch("/cart/items/{productId}", controllers.CartUpdate(shopService, logg))
			r.Delete("/cart/items/{productId}", controllers.CartRemove(shopService, logg))
			r.Delete("/cart", controllers.CartClear(shopService, logg))

			r.Post("/wishlist/toggle", controllers.WishlistToggle(shopService, catalogService, logg))
			r.Post("/wishlist/{productId}/move-to-cart", controllers.WishlistMoveToCart(shopService, catalogService, logg))

			r.Post("/ui/{panel}", controllers.UIVisibility(shopService, logg))

			r.Route("/auth", func(r chi.Router) {
				r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(authService, logg))
				r.With(middleware.AuthRateLimit(signupPolicy, limiter, logg)).Post("/signup", controllers.AuthSignup(authService, logg))
				r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/recover", controllers.AuthRecover(authService, logg))
				r.Post("/logout", controllers.AuthLogout(authService, logg))
			})

			r.Post("/checkout", controllers.CheckoutPlace(checkoutService, logg))
			r.Get("/orders/{orderId}", controllers.OrderGet(checkoutService, logg))
		})
	})

	return r
}
