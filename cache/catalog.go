package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pos-api/models"
)

const (
	AllProductsKey  = "products:all"
	GenerationKey   = "products:gen"
	productCodeKey  = "products:code:"
	operationBudget = 2 * time.Second
)

var errStaleList = errors.New("catalog changed since read")

// Catalog is a read-through cache for product lookups. A Catalog with a nil
// client is disabled: every Get misses and every Set is a no-op. Cache
// failures are logged and never returned to callers.
type Catalog struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCatalog(client *redis.Client, ttl time.Duration, log zerolog.Logger) *Catalog {
	return &Catalog{client: client, ttl: ttl, log: log}
}

// Connect pings addr and returns a client, or nil when Redis is unreachable.
func Connect(ctx context.Context, opts *redis.Options, log zerolog.Logger) *redis.Client {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", opts.Addr).Msg("Redis unavailable, caching disabled")
		client.Close()
		return nil
	}
	log.Info().Str("addr", opts.Addr).Msg("Redis connected")
	return client
}

func (c *Catalog) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Catalog) GetProducts(ctx context.Context) ([]models.Product, bool) {
	var products []models.Product
	if !c.get(ctx, AllProductsKey, &products) {
		return nil, false
	}
	return products, true
}

// Generation returns the catalog write counter, or -1 when it cannot be read.
// Read it before querying the database and hand it to SetProducts.
func (c *Catalog) Generation(ctx context.Context) int64 {
	if !c.Enabled() {
		return -1
	}
	ctx, cancel := context.WithTimeout(ctx, operationBudget)
	defer cancel()

	gen, err := c.client.Get(ctx, GenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Msg("Cache generation read failed")
		return -1
	}
	return gen
}

// SetProducts caches the list only if no product was written since gen was
// read. A list loaded before a concurrent create is dropped.
func (c *Catalog) SetProducts(ctx context.Context, gen int64, products []models.Product) {
	if !c.Enabled() || gen < 0 {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, operationBudget)
	defer cancel()

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, GenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleList
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, AllProductsKey, data, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleList), errors.Is(err, redis.TxFailedErr):
		c.log.Debug().Int64("generation", gen).Msg("Skipped caching stale product list")
	default:
		c.log.Warn().Err(err).Str("key", AllProductsKey).Msg("Cache write failed")
	}
}

func (c *Catalog) GetByCode(ctx context.Context, code string) (*models.Product, bool) {
	var p models.Product
	if !c.get(ctx, productCodeKey+code, &p) {
		return nil, false
	}
	return &p, true
}

func (c *Catalog) SetByCode(ctx context.Context, p *models.Product) {
	c.set(ctx, productCodeKey+p.Code, p)
}

// InvalidateProduct bumps the generation and drops the product list and the
// entry for code.
func (c *Catalog) InvalidateProduct(ctx context.Context, code string) {
	if !c.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, operationBudget)
	defer cancel()
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, AllProductsKey, productCodeKey+code)
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Str("code", code).Msg("Cache invalidation failed")
	}
}

func (c *Catalog) get(ctx context.Context, key string, dest any) bool {
	if !c.Enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, operationBudget)
	defer cancel()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache entry unreadable")
		return false
	}
	return true
}

func (c *Catalog) set(ctx context.Context, key string, value any) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, operationBudget)
	defer cancel()
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
