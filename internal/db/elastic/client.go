package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/olivere/elastic/v7"
	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/db"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/boost"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
)

// Compile-time check: Client implements db.IndexSearcher.
var _ db.IndexSearcher = (*Client)(nil)

const backendLabel = "index"

// Config holds connection parameters for the search index.
type Config struct {
	URLs        []string
	Username    string
	Password    string
	Sniff       bool
	Healthcheck bool
	Timeout     time.Duration
	UserAgent   string
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// Client executes boosted queries against an Elasticsearch-compatible index.
type Client struct {
	es      *elastic.Client
	urls    []string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates an index client. No request is made unless Sniff or Healthcheck is set.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.URLs) == 0 {
		return nil, fmt.Errorf("urls is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(cfg.URLs...),
		elastic.SetSniff(cfg.Sniff),
		elastic.SetHealthcheck(cfg.Healthcheck),
		elastic.SetErrorLog(zap.NewStdLog(logger.Named("elastic"))),
	}
	if cfg.Username != "" {
		opts = append(opts, elastic.SetBasicAuth(cfg.Username, cfg.Password))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, elastic.SetHeaders(http.Header{"User-Agent": []string{cfg.UserAgent}}))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, elastic.SetHttpClient(cfg.HTTPClient))
	}

	es, err := elastic.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Client{es: es, urls: cfg.URLs, timeout: cfg.Timeout, logger: logger}, nil
}

// Ping checks that the first configured node answers.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if _, _, err := c.es.Ping(c.urls[0]).Do(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Execute sends doc to index and returns hits in rank order.
// Hits without an identifier or with an undecodable source are skipped.
func (c *Client) Execute(ctx context.Context, index string, doc *boost.Document) ([]hit.Hit, error) {
	if index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if doc == nil {
		return nil, fmt.Errorf("query document is required")
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	res, err := c.es.Search(index).Source(doc).Do(ctx)
	metrics.BackendRequestDuration.WithLabelValues(backendLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(backendLabel, "error").Inc()
		if elastic.IsNotFound(err) {
			return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("%w: %s", db.ErrIndexNotFound, index)}
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	metrics.BackendRequestsTotal.WithLabelValues(backendLabel, "ok").Inc()

	if res.Hits == nil {
		return nil, nil
	}

	hits := make([]hit.Hit, 0, len(res.Hits.Hits))
	for _, sh := range res.Hits.Hits {
		h, err := c.parseHit(sh)
		if err != nil {
			c.logger.Warn("Skipping index hit", zap.String("id", sh.Id), zap.Error(err))
			continue
		}
		hits = append(hits, h)
	}
	return hits, nil
}

func (c *Client) parseHit(sh *elastic.SearchHit) (hit.Hit, error) {
	var src source
	if len(sh.Source) > 0 {
		if err := json.Unmarshal(sh.Source, &src); err != nil {
			return hit.Hit{}, fmt.Errorf("decode source: %w", err)
		}
	}

	id := string(src.ID)
	if id == "" {
		id = sh.Id
	}

	var score float64
	if sh.Score != nil {
		score = *sh.Score
	}

	var fragments []string
	if sh.Highlight != nil {
		fragments = sh.Highlight[boost.FieldBody]
	}

	return hit.New(id, hit.Fields{
		ThreadID:    string(src.DiscussionID),
		Title:       src.DiscussionName,
		Body:        src.Body,
		URL:         src.URL,
		Date:        time.Time(src.Date),
		UserID:      int64(src.User),
		Highlighted: src.Highlighted,
		Fragments:   fragments,
		Score:       score,
	})
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
