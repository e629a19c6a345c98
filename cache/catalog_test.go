package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pos-api/models"
)

func newTestCatalog(t *testing.T) (*Catalog, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCatalog(client, time.Minute, zerolog.Nop()), mr
}

func TestCatalog_ProductsRoundTrip(t *testing.T) {
	c, mr := newTestCatalog(t)
	ctx := context.Background()

	if _, ok := c.GetProducts(ctx); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.SetProducts(ctx, c.Generation(ctx), []models.Product{{PrdID: 1, Code: "111", Name: "Pen", Price: 100, TaxCD: "10"}})
	got, ok := c.GetProducts(ctx)
	if !ok || len(got) != 1 || got[0].Code != "111" {
		t.Fatalf("GetProducts() = %+v, %v", got, ok)
	}
	if ttl := mr.TTL(AllProductsKey); ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}
}

func TestCatalog_InvalidateProduct(t *testing.T) {
	c, mr := newTestCatalog(t)
	ctx := context.Background()

	p := &models.Product{PrdID: 2, Code: "222", Name: "Ink", Price: 300}
	c.SetProducts(ctx, c.Generation(ctx), []models.Product{*p})
	c.SetByCode(ctx, p)

	if got, ok := c.GetByCode(ctx, "222"); !ok || got.PrdID != 2 {
		t.Fatalf("GetByCode() = %+v, %v", got, ok)
	}

	c.InvalidateProduct(ctx, "222")
	if mr.Exists(AllProductsKey) || mr.Exists(productCodeKey+"222") {
		t.Error("expected keys to be deleted")
	}
	if gen := c.Generation(ctx); gen != 1 {
		t.Errorf("generation = %d, want 1", gen)
	}
}

func TestCatalog_StaleListIsNotCached(t *testing.T) {
	c, mr := newTestCatalog(t)
	ctx := context.Background()

	// list read, then a create lands before the list is written back
	gen := c.Generation(ctx)
	c.InvalidateProduct(ctx, "333")
	c.SetProducts(ctx, gen, []models.Product{{PrdID: 1, Code: "111"}})

	if mr.Exists(AllProductsKey) {
		t.Fatal("list read before a write was cached")
	}

	c.SetProducts(ctx, c.Generation(ctx), []models.Product{{PrdID: 1, Code: "111"}, {PrdID: 2, Code: "333"}})
	if got, ok := c.GetProducts(ctx); !ok || len(got) != 2 {
		t.Errorf("GetProducts() = %+v, %v; want fresh list cached", got, ok)
	}
}

func TestCatalog_Disabled(t *testing.T) {
	c := NewCatalog(nil, time.Minute, zerolog.Nop())
	ctx := context.Background()

	if c.Enabled() {
		t.Fatal("nil client should disable the cache")
	}
	if gen := c.Generation(ctx); gen != -1 {
		t.Errorf("generation = %d, want -1", gen)
	}
	c.SetProducts(ctx, 0, []models.Product{{Code: "1"}})
	if _, ok := c.GetProducts(ctx); ok {
		t.Error("disabled cache should always miss")
	}
	c.InvalidateProduct(ctx, "1")

	var nilCatalog *Catalog
	if nilCatalog.Enabled() {
		t.Error("nil catalog should be disabled")
	}
}

func TestCatalog_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCatalog(t)
	mr.Set(AllProductsKey, "not json")

	if _, ok := c.GetProducts(context.Background()); ok {
		t.Error("corrupt entry should be treated as a miss")
	}
}
