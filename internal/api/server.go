package api

import (
	"errors"
	"net/http"
	"time"

	"foody/internal/analytics"
	"foody/internal/auth"
	"foody/internal/cart"
	"foody/internal/database"
	"foody/internal/logging"
	"foody/internal/monitoring"
	"foody/internal/orders"
	"foody/internal/recommend"
	"foody/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// Options configures the HTTP surface
type Options struct {
	AllowedOrigins []string
	// RateLimit is requests per minute per client IP; 0 disables it
	RateLimit int
}

// FoodyAPI represents the main API handler for the restaurant
type FoodyAPI struct {
	Router   *gin.Engine
	Store    *database.Store
	Engine   *recommend.Engine
	Orders   *orders.Service
	Auth     *auth.Authenticator
	Hub      *tracking.Hub
	Metrics  *analytics.Collector
	Monitor  *monitoring.Monitor
	handler  http.Handler
	startUTC time.Time
}

// NewFoodyAPI creates a new API instance and registers every route
func NewFoodyAPI(store *database.Store, engine *recommend.Engine, svc *orders.Service, authn *auth.Authenticator,
	hub *tracking.Hub, metrics *analytics.Collector, monitor *monitoring.Monitor, opts Options) *FoodyAPI {
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware())

	api := &FoodyAPI{
		Router:   router,
		Store:    store,
		Engine:   engine,
		Orders:   svc,
		Auth:     authn,
		Hub:      hub,
		Metrics:  metrics,
		Monitor:  monitor,
		startUTC: time.Now().UTC(),
	}
	api.setupRoutes()

	var handler http.Handler = router
	if opts.RateLimit > 0 {
		handler = httprate.LimitByIP(opts.RateLimit, time.Minute)(handler)
	}
	handler = cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})(handler)
	api.handler = handler

	return api
}

// Handler returns the router wrapped in CORS and rate limiting
func (a *FoodyAPI) Handler() http.Handler {
	return a.handler
}

// setupRoutes configures all API endpoints
func (a *FoodyAPI) setupRoutes() {
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Foody API is running", "started_at": a.startUTC})
	})
	a.Router.GET("/ws/orders", a.Hub.Handle)

	v1 := a.Router.Group("/api/v1")
	{
		v1.GET("/menu", a.ListMenu)
		v1.GET("/menu/:id", a.GetMenuItem)
		v1.GET("/categories", a.ListCategories)

		v1.POST("/recommendations", a.Recommend)
		v1.POST("/cart/quote", a.QuoteCart)

		v1.POST("/orders", a.PlaceOrder)
		v1.GET("/orders/:id", a.GetOrder)

		v1.POST("/service-requests", a.CreateServiceRequest)
		v1.POST("/feedback", a.CreateFeedback)

		v1.POST("/staff/login", a.StaffLogin)
	}

	dash := v1.Group("/dashboard", a.Auth.Middleware())
	{
		dash.GET("/overview", a.Overview)
		dash.GET("/analytics", a.Analytics)
		dash.GET("/inventory", a.Inventory)
		dash.POST("/ai/:tool", a.RunAssistant)

		dash.GET("/orders", a.ListTodayOrders)
		dash.PUT("/orders/:id/status", a.UpdateOrderStatus)

		dash.POST("/menu", a.CreateMenuItem)
		dash.PUT("/menu/:id", a.UpdateMenuItem)
		dash.DELETE("/menu/:id", a.DeleteMenuItem)
		dash.PATCH("/menu/:id/availability", a.SetAvailability)
		dash.PATCH("/menu/:id/popular", a.SetPopular)

		dash.POST("/categories", a.CreateCategory)
		dash.PUT("/categories/:id", a.UpdateCategory)
		dash.DELETE("/categories/:id", a.DeleteCategory)

		dash.GET("/service-requests", a.ListServiceRequests)
		dash.POST("/service-requests/:id/resolve", a.ResolveServiceRequest)
	}
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, database.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrBadQuantity),
		errors.Is(err, cart.ErrUnknownItem),
		errors.Is(err, cart.ErrUnavailableItem),
		errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, orders.ErrInvalidType),
		errors.Is(err, orders.ErrInvalidPrepTime),
		errors.Is(err, errInvalidInput):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

var errInvalidInput = errors.New("invalid input")
