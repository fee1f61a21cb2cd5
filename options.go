package forumsearch

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	indexURLs     []string
	indexName     string
	indexUser     string
	indexPassword string
	timeout       time.Duration

	siteURL  string
	maxLimit int

	legacyDriver   string
	legacyDSN      string
	legacyMode     string
	storageEngine  string
	tablePrefix    string
	legacyMaxConns int

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger *zap.Logger
}

// WithIndex sets the search index node URLs.
func WithIndex(urls ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexURLs = urls
	})
}

// WithIndexName overrides the index name. Default: forum_index_v7.
func WithIndexName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = name
	})
}

// WithIndexAuth enables basic auth against the index.
func WithIndexAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexUser = username
		c.indexPassword = password
	})
}

// WithTimeout bounds every backend call. Default: 5s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithSiteURL sets the base of result URLs. Default: root-relative URLs.
func WithSiteURL(base string) Option {
	return optionFunc(func(c *clientConfig) {
		c.siteURL = base
	})
}

// WithMaxLimit caps the page size. Default: 100.
func WithMaxLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxLimit = n
	})
}

// WithLegacyDB enables the relational backend. driver is "mysql" or "sqlite".
func WithLegacyDB(driver, dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.legacyDriver = driver
		c.legacyDSN = dsn
	})
}

// WithLegacyMode sets the default match mode: match, boolean, like or
// matchboolean. Default: matchboolean.
func WithLegacyMode(m string) Option {
	return optionFunc(func(c *clientConfig) {
		c.legacyMode = m
	})
}

// WithStorageEngine declares the forum tables' storage engine. Anything
// other than myisam disables full-text matching.
func WithStorageEngine(engine string) Option {
	return optionFunc(func(c *clientConfig) {
		c.storageEngine = engine
	})
}

// WithTablePrefix sets the forum table prefix. Default: GDN_.
func WithTablePrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.tablePrefix = prefix
	})
}

// WithLegacyMaxConns caps open database connections.
func WithLegacyMaxConns(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.legacyMaxConns = n
	})
}

// WithResultCache caches index results in Redis for ttl.
func WithResultCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
