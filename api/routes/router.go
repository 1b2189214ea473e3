package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feastly-app/feastly-backend/api/controllers"
	"github.com/feastly-app/feastly-backend/api/middleware"
	"github.com/feastly-app/feastly-backend/internal/auth"
	"github.com/feastly-app/feastly-backend/internal/meals"
	"github.com/feastly-app/feastly-backend/internal/restaurants"
	"github.com/feastly-app/feastly-backend/internal/users"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/metrics"
	"github.com/feastly-app/feastly-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on. Optional
// dependencies (redis, storage pinger, metrics) may be nil.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Metrics     *metrics.HTTPMetrics
	MetricsBody http.Handler

	DBPinger      controllers.Pinger
	RedisClient   *redis.Client
	StoragePinger controllers.Pinger

	UserLoader middleware.UserLoader

	AuthService        auth.Service
	UsersService       users.Service
	RestaurantsService restaurants.Service
	MealsService       meals.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(),
	)

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
	if p.RedisClient != nil {
		limiter = p.RedisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": p.DBPinger,
			"redis":    redisPinger(p.RedisClient),
			"storage":  p.StoragePinger,
		}))
	})

	if p.MetricsBody != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsBody)
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, limiter, logg)).Post("/signup", controllers.AuthSignUp(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))

		r.Get("/users", controllers.UsersList(p.UsersService, logg))
		r.With(middleware.Auth(cfg.JWT, p.UserLoader, logg)).Get("/users/{id}", controllers.UsersDetail(p.UsersService, logg))
	})

	r.Route("/restaurants", func(r chi.Router) {
		r.Get("/", controllers.RestaurantsList(p.RestaurantsService, logg))
		r.Get("/{id}", controllers.RestaurantsDetail(p.RestaurantsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.UserLoader, logg))

			r.Get("/filter/get-by-user", controllers.RestaurantsByUser(p.RestaurantsService, logg))
			r.With(middleware.RequireRole("admin", logg)).Post("/", controllers.RestaurantsCreate(p.RestaurantsService, logg))
			r.With(middleware.RequireRole("admin", logg)).Put("/{id}", controllers.RestaurantsUpdate(p.RestaurantsService, logg))
			r.Put("/{id}/images", controllers.RestaurantsUploadImages(p.RestaurantsService, logg))
			r.Delete("/{id}", controllers.RestaurantsDelete(p.RestaurantsService, logg))
		})
	})

	r.Route("/meals", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.UserLoader, logg))

		r.Get("/", controllers.MealsList(p.MealsService, logg))
		r.Get("/restaurant/{restaurant_id}", controllers.MealsByRestaurant(p.MealsService, logg))
		r.Get("/{id}", controllers.MealsDetail(p.MealsService, logg))
		r.Post("/", controllers.MealsCreate(p.MealsService, logg))
		r.Put("/{id}", controllers.MealsUpdate(p.MealsService, logg))
		r.Delete("/{id}", controllers.MealsDelete(p.MealsService, logg))
	})

	return r
}

// redisPinger avoids handing HealthReady a non-nil interface wrapping a nil
// client.
func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
