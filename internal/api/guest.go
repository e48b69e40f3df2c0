package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"foody/internal/analytics"
	"foody/internal/auth"
	"foody/internal/cart"
	"foody/internal/database"
	"foody/internal/logging"
	"foody/internal/models"
	"foody/internal/monitoring"
	"foody/internal/orders"
	"foody/internal/recommend"

	"github.com/gin-gonic/gin"
)

// onSale feeds only dishes that can be ordered right now to the engine
type onSale struct {
	store *database.Store
}

func (s onSale) Catalog(ctx context.Context) ([]models.MenuItem, error) {
	return s.store.ListMenuItems(ctx, database.MenuFilter{AvailableOnly: true})
}

type recommendRequest struct {
	recommend.Preferences
	TopN    int  `json:"top_n"`
	Explain bool `json:"explain"`
}

type scoredItem struct {
	models.MenuItem
	Score     *int                 `json:"score,omitempty"`
	Breakdown *recommend.Breakdown `json:"breakdown,omitempty"`
}

func (a *FoodyAPI) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Preferences.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topN := req.TopN
	if topN <= 0 {
		topN = a.Engine.TopN()
	}
	res, err := a.Engine.RankFrom(c.Request.Context(), onSale{a.Store}, req.Preferences, topN)
	if err != nil {
		respondError(c, err)
		return
	}

	outcome := analytics.OutcomeRanked
	switch {
	case res.Empty():
		outcome = analytics.OutcomeEmpty
	case res.Fallback:
		outcome = analytics.OutcomeFallback
		a.Monitor.Inc(monitoring.FallbacksServed)
	}
	a.Metrics.ObserveRecommendation(outcome)
	a.Monitor.Inc(monitoring.RecommendationsServed)

	logging.Debug().
		Str("dietary", string(req.Dietary)).
		Str("mood", string(req.Mood)).
		Str("spice", string(req.Spice)).
		Str("budget", string(req.Budget)).
		Str("outcome", outcome).
		Int("count", len(res.Items)).
		Msg("recommendations served")

	// fallback picks were not scored, so they carry no score
	items := make([]scoredItem, len(res.Items))
	for i, item := range res.Items {
		items[i] = scoredItem{MenuItem: item}
		if res.Fallback {
			continue
		}
		score := res.Candidates[i].Score
		items[i].Score = &score
		if req.Explain {
			b := recommend.Explain(item, req.Preferences)
			items[i].Breakdown = &b
		}
	}

	resp := gin.H{
		"items":    items,
		"fallback": res.Fallback,
		"top_n":    topN,
	}
	if res.Empty() {
		resp["message"] = "No recommendation available for these preferences"
	}
	c.JSON(http.StatusOK, resp)
}

type cartRequest struct {
	Items []cart.Line `json:"items" binding:"required"`
}

func (a *FoodyAPI) QuoteCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quote, err := a.Orders.Quote(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (a *FoodyAPI) PlaceOrder(c *gin.Context) {
	var req orders.PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := a.Orders.Place(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	a.Monitor.Inc(monitoring.OrdersPlaced)
	c.JSON(http.StatusCreated, order)
}

func (a *FoodyAPI) GetOrder(c *gin.Context) {
	order, err := a.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type serviceRequestBody struct {
	Type        models.ServiceRequestType `json:"type" binding:"required"`
	TableNumber string                    `json:"table_number"`
}

func (a *FoodyAPI) CreateServiceRequest(c *gin.Context) {
	var body serviceRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !body.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service request type"})
		return
	}

	req := models.ServiceRequest{
		ID:          models.NewID("req"),
		Type:        body.Type,
		TableNumber: body.TableNumber,
		CreatedAt:   time.Now(),
	}
	if err := a.Store.CreateServiceRequest(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	a.Metrics.ObserveServiceRequest(req.Type)
	a.Monitor.Inc(monitoring.ServiceRequestsRaised)
	logging.Info().Str("type", string(req.Type)).Str("table", req.TableNumber).Msg("service requested")
	c.JSON(http.StatusCreated, req)
}

type feedbackBody struct {
	OrderID string        `json:"order_id" binding:"required"`
	Rating  models.Rating `json:"rating" binding:"required"`
}

func (a *FoodyAPI) CreateFeedback(c *gin.Context) {
	var body feedbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !body.Rating.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating"})
		return
	}

	fb := models.Feedback{
		ID:        models.NewID("fb"),
		OrderID:   body.OrderID,
		Rating:    body.Rating,
		CreatedAt: time.Now(),
	}
	if err := a.Store.CreateFeedback(c.Request.Context(), &fb); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

type loginBody struct {
	PIN string `json:"pin" binding:"required"`
}

func (a *FoodyAPI) StaffLogin(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, expires, err := a.Auth.Login(body.PIN)
	if errors.Is(err, auth.ErrInvalidPIN) {
		logging.Warn().Str("client_ip", c.ClientIP()).Msg("failed staff login")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid PIN"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": expires})
}
