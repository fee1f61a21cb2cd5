package forumsearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/db"
	"github.com/kailas-cloud/forumsearch/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/forumsearch/internal/db/redis"
	"github.com/kailas-cloud/forumsearch/internal/db/sqlstore"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/link"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
	"github.com/kailas-cloud/forumsearch/internal/repository/resultcache"
	healthuc "github.com/kailas-cloud/forumsearch/internal/usecase/health"
	legacyuc "github.com/kailas-cloud/forumsearch/internal/usecase/legacy"
	searchuc "github.com/kailas-cloud/forumsearch/internal/usecase/search"
	"github.com/kailas-cloud/forumsearch/internal/version"
)

const (
	defaultIndexName        = "forum_index_v7"
	defaultTimeout          = 5 * time.Second
	defaultReadinessTimeout = 10 * time.Second
)

// Client is the forumsearch SDK entry point. It is safe for concurrent use.
type Client struct {
	index    *searchuc.Service
	legacy   func(forced mode.Mode) *legacyuc.Model
	health   *healthuc.Service
	maxLimit int
	closers  []func()
}

// New creates a Client. WithIndex is required; the legacy backend and the
// result cache are enabled by their options.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		indexName: defaultIndexName,
		timeout:   defaultTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if len(cfg.indexURLs) == 0 {
		return nil, errors.New("forumsearch: index address required (use WithIndex)")
	}

	c := &Client{maxLimit: cfg.maxLimit}
	links := link.New(cfg.siteURL)

	indexClient, err := elastic.NewClient(elastic.Config{
		URLs:      cfg.indexURLs,
		Username:  cfg.indexUser,
		Password:  cfg.indexPassword,
		Timeout:   cfg.timeout,
		UserAgent: version.UserAgent(),
		Logger:    cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("forumsearch: create index client: %w", err)
	}

	var index db.IndexSearcher = indexClient
	var cachePinger healthuc.Pinger
	if len(cfg.cacheAddrs) > 0 {
		cache, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("forumsearch: create cache store: %w", err)
		}
		if err := cache.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
			cache.Close()
			return nil, fmt.Errorf("forumsearch: cache not ready: %w", err)
		}
		c.closers = append(c.closers, cache.Close)
		index = resultcache.New(indexClient, cache, cfg.cacheTTL, metrics.ResultCacheTotal, cfg.logger)
		cachePinger = cache
	}

	c.index = searchuc.New(index, links, searchuc.Config{
		IndexName: cfg.indexName,
		MaxLimit:  cfg.maxLimit,
		Timeout:   cfg.timeout,
	})

	var databasePinger healthuc.Pinger
	if cfg.legacyDSN != "" {
		store, err := sqlstore.Open(sqlstore.Config{
			Driver:       cfg.legacyDriver,
			DSN:          cfg.legacyDSN,
			MaxOpenConns: cfg.legacyMaxConns,
			Timeout:      cfg.timeout,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("forumsearch: open legacy database: %w", err)
		}
		c.closers = append(c.closers, func() { _ = store.Close() })
		databasePinger = store

		modeCfg := mode.Config{
			DefaultMode:           mode.Mode(strings.ToLower(cfg.legacyMode)),
			StorageEngineOverride: cfg.storageEngine,
		}
		if modeCfg.DefaultMode != "" && !modeCfg.DefaultMode.IsConfigurable() {
			c.Close()
			return nil, fmt.Errorf("forumsearch: unknown legacy mode %q", cfg.legacyMode)
		}
		sources := []legacyuc.Source{
			legacyuc.DiscussionSource{TablePrefix: cfg.tablePrefix},
			legacyuc.CommentSource{TablePrefix: cfg.tablePrefix},
		}
		c.legacy = func(forced mode.Mode) *legacyuc.Model {
			m := legacyuc.New(store, links, modeCfg, cfg.logger, sources...)
			if forced != "" {
				m.ForceMode(forced)
			}
			return m
		}
	}

	c.health = healthuc.New(index, databasePinger, cachePinger)
	return c, nil
}

// Close releases all resources.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Ping checks every configured backend. It fails unless all of them answer.
func (c *Client) Ping(ctx context.Context) error {
	report := c.health.Check(ctx)
	if report.Status == healthuc.Healthy {
		return nil
	}
	for name, res := range report.Checks {
		if res != healthuc.CheckOK {
			return fmt.Errorf("ping: %s is %s", name, res)
		}
	}
	return fmt.Errorf("ping: %s", report.Status)
}
