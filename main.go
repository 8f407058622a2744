// catalogsync — media content import MCP server.
//
// Ingests videos and channels from external platforms (YouTube, Vimeo),
// normalizes them into catalog records, and guards against duplicate
// ingestion. Exposes five MCP tools: import_video, import_channel,
// import_by_source, check_duplicate, supported_sources.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"catalogsync/internal/catalog"
	"catalogsync/internal/catalog/store"
	"catalogsync/internal/engine"
	"catalogsync/internal/importserver"
	"catalogsync/internal/platform"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8894")
)

func main() {
	initEngine()

	catalogStore, err := openStore()
	if err != nil {
		slog.Error("catalog store init failed", slog.Any("error", err))
		return
	}

	registry := catalog.NewRegistry(
		platform.NewYouTube(),
		platform.NewVimeo(),
	)
	importer := catalog.NewImporter(registry, catalogStore)

	slog.Info("starting catalogsync",
		slog.String("port", mcpPort),
		slog.Any("sources", registry.SupportedSourceTypes()),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "catalogsync",
		Version: version,
	}, nil)

	importserver.RegisterTools(server, importer)

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "catalogsync",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		FetchTimeout:          env.Duration("FETCH_TIMEOUT", 10*time.Second),
		MaxDescriptionChars:   env.Int("MAX_DESCRIPTION_CHARS", 4000),
		PlatformRPS:           env.Float("PLATFORM_RPS", 4),
		CacheTTL:              env.Duration("CACHE_TTL", 15*time.Minute),
		CacheMaxEntries:       env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval:  env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(15))

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Warn("stealth client init failed, scraping fallbacks disabled", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
	}

	engine.Init(c)
	engine.InitCache(env.Str("REDIS_URL", ""))
}

// openStore selects the catalog store: Postgres when DATABASE_URL is set,
// otherwise the embedded SQLite database.
func openStore() (catalog.Store, error) {
	if databaseURL := env.Str("DATABASE_URL", ""); databaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pg, err := store.ConnectPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("catalog store: postgres")
		return pg, nil
	}

	s, err := store.OpenSQLite(env.Str("CATALOG_DB_PATH", ""))
	if err != nil {
		return nil, err
	}
	slog.Info("catalog store: sqlite")
	return s, nil
}
