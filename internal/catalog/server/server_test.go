package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	"github.com/Chative-restaurant-poc/server/internal/catalog"
	"github.com/Chative-restaurant-poc/server/internal/metrics"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := catalog.NewStore([]model.MenuItem{
		{ID: "p1", Name: "Margherita", Category: "Pizza", Price: 250, Tags: []string{"veg"}, IsAvailable: true},
		{ID: "p2", Name: "Pepperoni", Category: "Pizza", Price: 380, Tags: []string{"non-veg"}, IsAvailable: true},
		{ID: "p3", Name: "Paneer Pizza", Category: "Pizza", Price: 300, Tags: []string{"veg"}, IsAvailable: false},
	})
	require.NoError(t, err)
	return NewHandler(store, metrics.NewCollector()).Router()
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "menu", body["tool"])
}

func TestSearchEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, catalog.SearchPath, `{"query":"pizza","filters":{"tags":["veg"]}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var items []model.MenuItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
	assert.True(t, items[0].IsAvailable)
}

func TestSearchEndpointEmptyBody(t *testing.T) {
	w := do(newTestRouter(t), http.MethodPost, catalog.SearchPath, "")
	require.Equal(t, http.StatusOK, w.Code)

	var items []model.MenuItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestSearchEndpointBadJSON(t *testing.T) {
	w := do(newTestRouter(t), http.MethodPost, catalog.SearchPath, `{"query":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetItemEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, catalog.GetItemPath+"?id=p2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var item model.MenuItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "Pepperoni", item.Name)

	w = do(r, http.MethodGet, catalog.GetItemPath+"?id=zz", "")
	require.Equal(t, http.StatusOK, w.Code)
	var nf catalog.NotFoundResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nf))
	assert.Equal(t, catalog.NotFoundResponse{Error: "not_found", ID: "zz"}, nf)

	w = do(r, http.MethodGet, catalog.GetItemPath, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientAgainstServer(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	c, err := catalog.NewClient(srv.URL, 0)
	require.NoError(t, err)

	items, err := c.Search(context.Background(), "margherita", model.Filters{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = c.GetItem(context.Background(), "missing")
	assert.True(t, errors.Is(err, catalog.ErrItemNotFound))
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	_ = do(r, http.MethodPost, catalog.SearchPath, `{}`)

	w := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "catalog_search_results")
}
