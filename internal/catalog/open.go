package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

// Open returns the HTTP client when a catalog URL is configured, otherwise
// the in-process store loaded from the catalog file.
func Open(cfg model.CatalogConfig) (Searcher, error) {
	if url := strings.TrimSpace(cfg.URL); url != "" {
		timeout := defaultClientTimeout
		if t := strings.TrimSpace(cfg.Timeout); t != "" {
			d, err := time.ParseDuration(t)
			if err != nil {
				return nil, fmt.Errorf("invalid catalog timeout %q: %w", t, err)
			}
			timeout = d
		}
		logx.Info().Str("url", url).Dur("timeout", timeout).Msg("Using remote catalog")
		return NewClient(url, timeout)
	}

	store, err := LoadFile(cfg.Path)
	if err != nil {
		return nil, err
	}
	logx.Info().Str("path", cfg.Path).Int("items", store.Len()).Msg("Loaded catalog")
	return store, nil
}
