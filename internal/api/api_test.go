package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foody/internal/analytics"
	"foody/internal/auth"
	"foody/internal/cart"
	"foody/internal/database"
	"foody/internal/monitoring"
	"foody/internal/orders"
	"foody/internal/recommend"
	"foody/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPIN = "4321"

func newTestAPI(t *testing.T) *FoodyAPI {
	t.Helper()
	return newTestAPIWith(t, Options{AllowedOrigins: []string{"*"}})
}

func newTestAPIWith(t *testing.T, opts Options) *FoodyAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.InitDB("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.SeedDefaultData(db))

	store := database.NewStore(db)
	monitor := monitoring.NewMonitor()
	metrics := analytics.NewCollector()
	hub := tracking.NewHub(nil, monitor)
	svc := orders.NewService(store, cart.Pricer{TaxPercent: 18}, 5, hub, metrics)
	authn := auth.NewAuthenticator("test-secret", testPIN, time.Hour)

	return NewFoodyAPI(store, recommend.NewEngine(), svc, authn, hub, metrics, monitor, opts)
}

func do(t *testing.T, a *FoodyAPI, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.RemoteAddr = "10.0.0.1:1234"

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func login(t *testing.T, a *FoodyAPI) string {
	t.Helper()
	w := do(t, a, http.MethodPost, "/api/v1/staff/login", "", gin.H{"pin": testPIN})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

type recItem struct {
	ID        string `json:"id"`
	Dietary   string `json:"dietary"`
	Score     *int   `json:"score"`
	Breakdown *struct {
		Dietary int `json:"dietary"`
	} `json:"breakdown"`
}

type recResponse struct {
	Items    []recItem `json:"items"`
	Fallback bool      `json:"fallback"`
	TopN     int       `json:"top_n"`
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	w := do(t, a, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	decode(t, w, &resp)
	assert.Equal(t, "ok", resp["status"])
}

func TestListMenu(t *testing.T) {
	a := newTestAPI(t)

	w := do(t, a, http.MethodGet, "/api/v1/menu", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var all []map[string]interface{}
	decode(t, w, &all)
	require.Len(t, all, 15)
	for _, item := range all {
		assert.Contains(t, item, "id")
		assert.Contains(t, item, "name")
		assert.Contains(t, item, "price")
		assert.Contains(t, item, "dietary")
	}

	w = do(t, a, http.MethodGet, "/api/v1/menu?category=combos", "", nil)
	var combos []map[string]interface{}
	decode(t, w, &combos)
	assert.Len(t, combos, 2)

	w = do(t, a, http.MethodGet, "/api/v1/menu?dietary=vegan", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vegan []map[string]interface{}
	decode(t, w, &vegan)
	require.Len(t, vegan, 4)
	for _, item := range vegan {
		assert.Equal(t, "vegan", item["dietary"])
	}

	w = do(t, a, http.MethodGet, "/api/v1/menu?q=Wrap", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var wraps []map[string]interface{}
	decode(t, w, &wraps)
	require.Len(t, wraps, 2)
	assert.Equal(t, "s1", wraps[0]["id"])
	assert.Equal(t, "s2", wraps[1]["id"])

	w = do(t, a, http.MethodGet, "/api/v1/menu?dietary=pescatarian", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodGet, "/api/v1/menu/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, a, http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecommend_Ranked(t *testing.T) {
	a := newTestAPI(t)

	w := do(t, a, http.MethodPost, "/api/v1/recommendations", "", gin.H{"dietary": "non-veg", "explain": true})
	require.Equal(t, http.StatusOK, w.Code)

	var resp recResponse
	decode(t, w, &resp)
	assert.False(t, resp.Fallback)
	assert.Equal(t, recommend.DefaultTopN, resp.TopN)
	require.Len(t, resp.Items, recommend.DefaultTopN)
	for _, item := range resp.Items {
		assert.Equal(t, "non-veg", item.Dietary)
		require.NotNil(t, item.Score, item.ID)
		require.NotNil(t, item.Breakdown, item.ID)
	}
	for i := 1; i < len(resp.Items); i++ {
		assert.GreaterOrEqual(t, *resp.Items[i-1].Score, *resp.Items[i].Score)
	}

	served, _ := a.Monitor.Get(monitoring.RecommendationsServed)
	assert.Equal(t, int64(1), served)
}

func TestRecommend_TopN(t *testing.T) {
	a := newTestAPI(t)

	w := do(t, a, http.MethodPost, "/api/v1/recommendations", "", gin.H{"top_n": 5})
	require.Equal(t, http.StatusOK, w.Code)
	var resp recResponse
	decode(t, w, &resp)
	assert.Len(t, resp.Items, 5)
	assert.Equal(t, 5, resp.TopN)
	assert.Nil(t, resp.Items[0].Breakdown)
}

func TestRecommend_FallbackWhenEveryDishExcluded(t *testing.T) {
	a := newTestAPI(t)
	token := login(t, a)

	for _, id := range []string{"p3", "b1", "s1", "c1", "x1"} {
		w := do(t, a, http.MethodPatch, "/api/v1/dashboard/menu/"+id+"/availability", token, gin.H{"value": false})
		require.Equal(t, http.StatusOK, w.Code, id)
	}

	w := do(t, a, http.MethodPost, "/api/v1/recommendations", "", gin.H{"dietary": "non-veg"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp recResponse
	decode(t, w, &resp)
	assert.True(t, resp.Fallback)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "c2", resp.Items[0].ID)
	assert.Equal(t, "x2", resp.Items[1].ID)
	for _, item := range resp.Items {
		assert.Nil(t, item.Score)
	}

	fallbacks, _ := a.Monitor.Get(monitoring.FallbacksServed)
	assert.Equal(t, int64(1), fallbacks)
}

func TestRecommend_InvalidPreferences(t *testing.T) {
	a := newTestAPI(t)
	w := do(t, a, http.MethodPost, "/api/v1/recommendations", "", gin.H{"spice": "volcanic"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartQuote(t *testing.T) {
	a := newTestAPI(t)

	w := do(t, a, http.MethodPost, "/api/v1/cart/quote", "", gin.H{
		"items": []gin.H{{"id": "p1", "quantity": 2}, {"id": "d1", "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var quote struct {
		Subtotal float64 `json:"subtotal"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	}
	decode(t, w, &quote)
	assert.InDelta(t, 577.0, quote.Subtotal, 0.001)
	assert.InDelta(t, 103.86, quote.Tax, 0.001)
	assert.InDelta(t, 680.86, quote.Total, 0.001)

	w = do(t, a, http.MethodPost, "/api/v1/cart/quote", "", gin.H{"items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodPost, "/api/v1/cart/quote", "", gin.H{"items": []gin.H{{"id": "ghost", "quantity": 1}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrderAndTrack(t *testing.T) {
	a := newTestAPI(t)
	token := login(t, a)

	w := do(t, a, http.MethodPost, "/api/v1/orders", "", gin.H{
		"items":        []gin.H{{"id": "b1", "quantity": 1, "allergens": []string{"sesame"}}},
		"table_number": "7",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var placed struct {
		ID     string  `json:"id"`
		Status string  `json:"status"`
		Type   string  `json:"type"`
		Total  float64 `json:"total"`
	}
	decode(t, w, &placed)
	assert.NotEmpty(t, placed.ID)
	assert.Equal(t, "pending", placed.Status)
	assert.Equal(t, "dine-in", placed.Type)
	assert.InDelta(t, 223.02, placed.Total, 0.001)

	w = do(t, a, http.MethodGet, "/api/v1/orders/"+placed.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, a, http.MethodPut, "/api/v1/dashboard/orders/"+placed.ID+"/status", token, gin.H{"status": "preparing"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Status string `json:"status"`
	}
	decode(t, w, &updated)
	assert.Equal(t, "preparing", updated.Status)

	w = do(t, a, http.MethodPut, "/api/v1/dashboard/orders/"+placed.ID+"/status", token, gin.H{"status": "burnt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodPut, "/api/v1/dashboard/orders/missing/status", token, gin.H{"status": "ready"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, a, http.MethodGet, "/api/v1/dashboard/orders?status=preparing", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var today []map[string]interface{}
	decode(t, w, &today)
	var ids []interface{}
	for _, o := range today {
		assert.Equal(t, "preparing", o["status"])
		ids = append(ids, o["id"])
	}
	assert.Contains(t, ids, placed.ID)

	placedCount, _ := a.Monitor.Get(monitoring.OrdersPlaced)
	assert.Equal(t, int64(1), placedCount)
}

func TestListTodayOrders_EmptyFilterIsArray(t *testing.T) {
	a := newTestAPI(t)
	token := login(t, a)

	// no seeded order is pending
	w := do(t, a, http.MethodGet, "/api/v1/dashboard/orders?status=pending", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestPlaceOrder_InvalidType(t *testing.T) {
	a := newTestAPI(t)
	w := do(t, a, http.MethodPost, "/api/v1/orders", "", gin.H{
		"items": []gin.H{{"id": "b1", "quantity": 1}},
		"type":  "drone",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodPost, "/api/v1/orders", "", gin.H{
		"items":            []gin.H{{"id": "b1", "quantity": 1}},
		"preparation_time": orders.MaxPrepMinutes + 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardRequiresToken(t *testing.T) {
	a := newTestAPI(t)

	w := do(t, a, http.MethodGet, "/api/v1/dashboard/overview", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, a, http.MethodGet, "/api/v1/dashboard/overview", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, a, http.MethodPost, "/api/v1/staff/login", "", gin.H{"pin": "0000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMenuManagement(t *testing.T) {
	a := newTestAPI(t)
	token := login(t, a)

	dish := gin.H{
		"id": "z1", "name": "Kulfi Falooda", "price": 149, "category": "desserts",
		"dietary": "veg", "portion": "light",
	}
	w := do(t, a, http.MethodPost, "/api/v1/dashboard/menu", token, dish)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Available bool `json:"available"`
	}
	decode(t, w, &created)
	assert.True(t, created.Available)

	w = do(t, a, http.MethodPost, "/api/v1/dashboard/menu", token, dish)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, a, http.MethodPost, "/api/v1/dashboard/menu", token, gin.H{"id": "z2", "name": "Bad", "category": "desserts", "dietary": "carnivore", "portion": "light"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	dish["price"] = 159
	w = do(t, a, http.MethodPut, "/api/v1/dashboard/menu/z1", token, dish)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, a, http.MethodGet, "/api/v1/menu/z1", "", nil)
	var got struct {
		Price float64 `json:"price"`
	}
	decode(t, w, &got)
	assert.Equal(t, 159.0, got.Price)

	// no body toggles the flag
	w = do(t, a, http.MethodPatch, "/api/v1/dashboard/menu/z1/popular", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var popular struct {
		IsPopular bool `json:"is_popular"`
	}
	decode(t, w, &popular)
	assert.True(t, popular.IsPopular)

	w = do(t, a, http.MethodDelete, "/api/v1/dashboard/menu/z1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, a, http.MethodDelete, "/api/v1/dashboard/menu/z1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, a, http.MethodPost, "/api/v1/dashboard/categories", token, gin.H{"id": "sides", "name": "Sides"})
	assert.Equal(t, http.StatusCreated, w.Code)
	w = do(t, a, http.MethodDelete, "/api/v1/dashboard/categories/sides", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServiceRequests(t *testing.T) {
	a := newTestAPI(t)
	token := login(t, a)

	w := do(t, a, http.MethodPost, "/api/v1/service-requests", "", gin.H{"type": "water", "table_number": "4"})
	require.Equal(t, http.StatusCreated, w.Code)
	var raised struct {
		ID string `json:"id"`
	}
	decode(t, w, &raised)

	w = do(t, a, http.MethodPost, "/api/v1/service-requests", "", gin.H{"type": "karaoke"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodGet, "/api/v1/dashboard/service-requests", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var open []map[string]interface{}
	decode(t, w, &open)
	before := len(open)
	assert.GreaterOrEqual(t, before, 1)

	w = do(t, a, http.MethodPost, "/api/v1/dashboard/service-requests/"+raised.ID+"/resolve", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, a, http.MethodGet, "/api/v1/dashboard/service-requests", token, nil)
	decode(t, w, &open)
	assert.Len(t, open, before-1)

	w = do(t, a, http.MethodPost, "/api/v1/dashboard/service-requests/nope/resolve", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedback(t *testing.T) {
	a := newTestAPI(t)

	w := do(t, a, http.MethodPost, "/api/v1/feedback", "", gin.H{"order_id": "order-demo-1", "rating": "good"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(t, a, http.MethodPost, "/api/v1/feedback", "", gin.H{"order_id": "order-demo-1", "rating": "meh"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a, http.MethodPost, "/api/v1/feedback", "", gin.H{"order_id": "ghost", "rating": "good"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyticsAndAssistant(t *testing.T) {
	a := newTestAPI(t)
	token := login(t, a)

	w := do(t, a, http.MethodGet, "/api/v1/dashboard/analytics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash map[string]interface{}
	decode(t, w, &dash)
	assert.NotEmpty(t, dash)

	w = do(t, a, http.MethodGet, "/api/v1/dashboard/overview", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overview map[string]interface{}
	decode(t, w, &overview)
	assert.Contains(t, overview, "orders")
	assert.Contains(t, overview, "pending_service_calls")
	assert.Contains(t, overview, "counters")

	w = do(t, a, http.MethodGet, "/api/v1/dashboard/inventory", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inventory struct {
		Total int `json:"total"`
	}
	decode(t, w, &inventory)
	assert.Equal(t, 15, inventory.Total)

	w = do(t, a, http.MethodPost, "/api/v1/dashboard/ai/cost-saving", token, gin.H{"prompt": "cut waste"})
	require.Equal(t, http.StatusOK, w.Code)
	var suggestion struct {
		Tool string `json:"tool"`
		Text string `json:"text"`
	}
	decode(t, w, &suggestion)
	assert.Equal(t, "cost-saving", suggestion.Tool)
	assert.NotEmpty(t, suggestion.Text)

	w = do(t, a, http.MethodPost, "/api/v1/dashboard/ai/fortune-teller", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS(t *testing.T) {
	a := newTestAPIWith(t, Options{AllowedOrigins: []string{"https://menu.example"}})

	preflight := func(origin string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(http.MethodOptions, "/api/v1/menu", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		a.Handler().ServeHTTP(w, req)
		return w
	}

	w := preflight("https://menu.example")
	assert.Equal(t, "https://menu.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/menu", nil)
	req.Header.Set("Origin", "https://menu.example")
	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://menu.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitPerIP(t *testing.T) {
	a := newTestAPIWith(t, Options{AllowedOrigins: []string{"*"}, RateLimit: 2})

	get := func(remote string) int {
		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		a.Handler().ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("10.0.0.7:1111"))
	assert.Equal(t, http.StatusOK, get("10.0.0.7:2222"))
	assert.Equal(t, http.StatusTooManyRequests, get("10.0.0.7:3333"))

	// another client has its own budget
	assert.Equal(t, http.StatusOK, get("10.0.0.8:1111"))
}

func TestRespondError_UnknownIsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("database is locked"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
