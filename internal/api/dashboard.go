package api

import (
	"context"
	"net/http"
	"time"

	"foody/internal/analytics"
	"foody/internal/assistant"
	"foody/internal/models"
	"foody/internal/orders"

	"github.com/gin-gonic/gin"
)

// Staff dashboard handlers

func (a *FoodyAPI) Overview(c *gin.Context) {
	ctx := c.Request.Context()
	today, err := a.Orders.Today(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	open, err := a.Store.ListServiceRequests(ctx, false)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":                analytics.ComputeOverview(today),
		"pending_service_calls": len(open),
		"counters":              a.Monitor.Snapshot(),
	})
}

func (a *FoodyAPI) buildDashboard(ctx context.Context) (analytics.Dashboard, error) {
	today, err := a.Orders.Today(ctx)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	feedback, err := a.Store.ListFeedbackSince(ctx, orders.StartOfDay(time.Now()))
	if err != nil {
		return analytics.Dashboard{}, err
	}
	catalog, err := a.Store.Catalog(ctx)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	return analytics.Build(today, feedback, catalog), nil
}

func (a *FoodyAPI) Analytics(c *gin.Context) {
	d, err := a.buildDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (a *FoodyAPI) Inventory(c *gin.Context) {
	ctx := c.Request.Context()
	today, err := a.Orders.Today(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	catalog, err := a.Store.Catalog(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics.ComputeInventory(today, catalog))
}

type assistantBody struct {
	Prompt string `json:"prompt"`
}

func (a *FoodyAPI) RunAssistant(c *gin.Context) {
	tool := assistant.Tool(c.Param("tool"))
	if !tool.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tool", "tools": assistant.Tools})
		return
	}

	var body assistantBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	d, err := a.buildDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	suggestion, err := assistant.Suggest(tool, body.Prompt, d)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

func (a *FoodyAPI) ListTodayOrders(c *gin.Context) {
	today, err := a.Orders.Today(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	status := c.Query("status")
	filtered := make([]models.Order, 0, len(today))
	for _, o := range today {
		if status == "" || string(o.Status) == status {
			filtered = append(filtered, o)
		}
	}
	c.JSON(http.StatusOK, filtered)
}

type statusBody struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (a *FoodyAPI) UpdateOrderStatus(c *gin.Context) {
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := a.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (a *FoodyAPI) ListServiceRequests(c *gin.Context) {
	reqs, err := a.Store.ListServiceRequests(c.Request.Context(), c.Query("all") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (a *FoodyAPI) ResolveServiceRequest(c *gin.Context) {
	req, err := a.Store.ResolveServiceRequest(c.Request.Context(), c.Param("id"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
