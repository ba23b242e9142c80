package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	"github.com/Chative-restaurant-poc/server/internal/catalog"
	"github.com/Chative-restaurant-poc/server/internal/metrics"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

type Config struct {
	Addr string `envconfig:"MENU_SERVER_ADDR" default:":8001"`
}

type Handler struct {
	store   *catalog.Store
	metrics *metrics.Collector
}

func NewHandler(store *catalog.Store, m *metrics.Collector) *Handler {
	return &Handler{store: store, metrics: m}
}

// Router wires the catalog endpoints onto a fresh gin engine.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.metrics.GinMiddleware())

	r.GET("/", h.Root)
	r.POST(catalog.SearchPath, h.Search)
	r.GET(catalog.GetItemPath, h.GetItem)
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	return r
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"tool":      "menu",
		"endpoints": []string{catalog.SearchPath, catalog.GetItemPath},
	})
}

func (h *Handler) Search(c *gin.Context) {
	var req catalog.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var query string
	if req.Query != nil {
		query = *req.Query
	}
	var filters model.Filters
	if req.Filters != nil {
		filters = *req.Filters
	}

	items, err := h.store.Search(c.Request.Context(), query, filters)
	if err != nil {
		logx.Error().Err(err).Str("query", query).Msg("catalog search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.metrics.ObserveSearchResults(len(items))
	logx.Debug().Str("query", query).Int("results", len(items)).Msg("catalog search")
	c.JSON(http.StatusOK, items)
}

// GetItem answers unknown ids with a 200 not_found body so tool callers can
// treat it as data rather than a transport failure.
func (h *Handler) GetItem(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}

	item, ok := h.store.Get(id)
	if !ok {
		c.JSON(http.StatusOK, catalog.NotFoundResponse{Error: "not_found", ID: id})
		return
	}
	c.JSON(http.StatusOK, item)
}
