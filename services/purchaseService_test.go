package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"pos-api/database"
	"pos-api/database/dbtest"
	"pos-api/dtos"
	"pos-api/events"
	"pos-api/models"
	"pos-api/services"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.PurchaseRecorded
	err    error
}

func (p *recordingPublisher) PublishPurchaseRecorded(_ context.Context, evt events.PurchaseRecorded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func price(v int) *int { return &v }

func item(id uint, code, name string, p int, tax string) dtos.PurchasedItem {
	return dtos.PurchasedItem{PrdID: id, Code: code, Name: name, Price: price(p), TaxCD: tax}
}

func loadTrades(t *testing.T, store *database.Store) []models.Trade {
	t.Helper()
	var trades []models.Trade
	err := store.Session(context.Background()).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("DTL_ID") }).
		Order("TRD_ID").
		Find(&trades).Error
	if err != nil {
		t.Fatalf("loading trades: %v", err)
	}
	return trades
}

func TestRecordPurchase_SingleItem(t *testing.T) {
	store := dbtest.New(t)
	svc := services.NewPurchaseService(store, nil, nil)

	resp, err := svc.RecordPurchase(context.Background(), dtos.PurchaseRequest{
		EmpCD:   "EMP0000001",
		StoreCD: "30",
		PosNo:   "90",
		Items:   []dtos.PurchasedItem{item(1, "4901681237036", "Filler", 2200, "10")},
	})
	if err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if !resp.Success || resp.TotalAmt != 2200 {
		t.Fatalf("got %+v, want success with total 2200", resp)
	}

	trades := loadTrades(t, store)
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	tr := trades[0]
	if tr.TotalAmt != 2200 || tr.EmpCD != "EMP0000001" || tr.StoreCD != "30" || tr.PosNo != "90" {
		t.Errorf("unexpected header %+v", tr)
	}
	if tr.Datetime.IsZero() {
		t.Error("DATETIME was not set")
	}
	if len(tr.Details) != 1 {
		t.Fatalf("got %d details, want 1", len(tr.Details))
	}
	d := tr.Details[0]
	if d.DtlID != 1 || d.TrdID != tr.TrdID || d.PrdID != 1 || d.PrdCode != "4901681237036" ||
		d.PrdName != "Filler" || d.PrdPrice != 2200 || d.PrdTaxCD != "10" {
		t.Errorf("unexpected detail %+v", d)
	}
}

func TestRecordPurchase_EmptyItems(t *testing.T) {
	store := dbtest.New(t)
	svc := services.NewPurchaseService(store, nil, nil)

	resp, err := svc.RecordPurchase(context.Background(), dtos.PurchaseRequest{
		StoreCD: "30",
		PosNo:   "90",
		Items:   []dtos.PurchasedItem{},
	})
	if err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if resp.TotalAmt != 0 {
		t.Errorf("total = %d, want 0", resp.TotalAmt)
	}

	trades := loadTrades(t, store)
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	if trades[0].TotalAmt != 0 || len(trades[0].Details) != 0 {
		t.Errorf("unexpected trade %+v", trades[0])
	}
}

func TestRecordPurchase_SequenceAndDuplicates(t *testing.T) {
	store := dbtest.New(t)
	svc := services.NewPurchaseService(store, nil, nil)

	items := []dtos.PurchasedItem{
		item(1, "4901681237036", "Filler", 2200, "10"),
		item(2, "4901234567894", "Eraser", 150, "10"),
		item(1, "4901681237036", "Filler", 2200, "10"),
		item(3, "4909999999999", "Free sample", 0, "00"),
	}
	resp, err := svc.RecordPurchase(context.Background(), dtos.PurchaseRequest{
		StoreCD: "30", PosNo: "90", Items: items,
	})
	if err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if resp.TotalAmt != 4550 {
		t.Errorf("total = %d, want 4550", resp.TotalAmt)
	}

	details := loadTrades(t, store)[0].Details
	if len(details) != len(items) {
		t.Fatalf("got %d details, want %d", len(details), len(items))
	}
	for i, d := range details {
		if d.DtlID != i+1 {
			t.Errorf("details[%d].DtlID = %d, want %d", i, d.DtlID, i+1)
		}
		if d.PrdCode != items[i].Code || d.PrdPrice != *items[i].Price {
			t.Errorf("details[%d] = %+v, want snapshot of %+v", i, d, items[i])
		}
	}
}

func TestRecordPurchase_OperatorCode(t *testing.T) {
	tests := []struct {
		name  string
		empCD string
		want  string
	}{
		{"empty uses sentinel", "", models.DefaultEmpCD},
		{"short code kept", "9999", "9999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := dbtest.New(t)
			svc := services.NewPurchaseService(store, nil, nil)

			_, err := svc.RecordPurchase(context.Background(), dtos.PurchaseRequest{
				EmpCD: tt.empCD, StoreCD: "30", PosNo: "90", Items: []dtos.PurchasedItem{},
			})
			if err != nil {
				t.Fatalf("RecordPurchase: %v", err)
			}
			if got := loadTrades(t, store)[0].EmpCD; got != tt.want {
				t.Errorf("EMP_CD = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordPurchase_SnapshotIgnoresCatalog(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	if err := store.Session(ctx).Create(&models.Product{Code: "4901681237036", Name: "Filler", Price: 2200, TaxCD: "10"}).Error; err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	svc := services.NewPurchaseService(store, nil, nil)

	resp, err := svc.RecordPurchase(ctx, dtos.PurchaseRequest{
		StoreCD: "30",
		PosNo:   "90",
		Items:   []dtos.PurchasedItem{item(77, "0000000000000", "Unknown", 999, "08")},
	})
	if err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if resp.TotalAmt != 999 {
		t.Errorf("total = %d, want 999", resp.TotalAmt)
	}
	d := loadTrades(t, store)[0].Details[0]
	if d.PrdID != 77 || d.PrdName != "Unknown" || d.PrdPrice != 999 {
		t.Errorf("detail was not copied from the request: %+v", d)
	}
}

func TestRecordPurchase_RollsBackOnDetailFailure(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	injected := errors.New("disk full")

	err := store.Session(ctx).Callback().Create().Before("gorm:create").Register("test:fail_detail", func(db *gorm.DB) {
		if d, ok := db.Statement.Dest.(*models.TrdDetail); ok && d.DtlID == 2 {
			db.AddError(injected)
		}
	})
	if err != nil {
		t.Fatalf("registering callback: %v", err)
	}

	pub := &recordingPublisher{}
	svc := services.NewPurchaseService(store, pub, nil)
	resp, err := svc.RecordPurchase(ctx, dtos.PurchaseRequest{
		StoreCD: "30",
		PosNo:   "90",
		Items: []dtos.PurchasedItem{
			item(1, "4901681237036", "Filler", 2200, "10"),
			item(2, "4901234567894", "Eraser", 150, "10"),
		},
	})
	if resp != nil {
		t.Errorf("got response %+v on failure", resp)
	}
	var storageErr *services.StorageError
	if !errors.As(err, &storageErr) || !errors.Is(err, injected) {
		t.Fatalf("got %v, want StorageError wrapping %v", err, injected)
	}

	var trades, details int64
	store.Session(ctx).Model(&models.Trade{}).Count(&trades)
	store.Session(ctx).Model(&models.TrdDetail{}).Count(&details)
	if trades != 0 || details != 0 {
		t.Errorf("found %d trades and %d details after rollback, want none", trades, details)
	}
	if len(pub.events) != 0 {
		t.Errorf("published %d events for a rolled back purchase", len(pub.events))
	}
}

func TestRecordPurchase_NilPrice(t *testing.T) {
	store := dbtest.New(t)
	svc := services.NewPurchaseService(store, nil, nil)

	_, err := svc.RecordPurchase(context.Background(), dtos.PurchaseRequest{
		StoreCD: "30",
		PosNo:   "90",
		Items:   []dtos.PurchasedItem{{PrdID: 1, Code: "4901681237036"}},
	})
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	if n := len(loadTrades(t, store)); n != 0 {
		t.Errorf("got %d trades, want 0", n)
	}
}

func TestRecordPurchase_PublishesEvent(t *testing.T) {
	store := dbtest.New(t)
	pub := &recordingPublisher{}
	svc := services.NewPurchaseService(store, pub, nil)

	_, err := svc.RecordPurchase(context.Background(), dtos.PurchaseRequest{
		StoreCD: "30",
		PosNo:   "90",
		Items:   []dtos.PurchasedItem{item(1, "4901681237036", "Filler", 2200, "10")},
	})
	if err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	evt := pub.events[0]
	if evt.Type != events.TypePurchaseRecorded || evt.TotalAmt != 2200 || evt.ItemCount != 1 ||
		evt.EmpCD != models.DefaultEmpCD || evt.TrdID == 0 || evt.EventID == "" {
		t.Errorf("unexpected event %+v", evt)
	}
}

func TestRecordPurchase_PublishFailureIsNotFatal(t *testing.T) {
	store := dbtest.New(t)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := services.NewPurchaseService(store, pub, nil)

	resp, err := svc.RecordPurchase(context.Background(), dtos.PurchaseRequest{
		StoreCD: "30", PosNo: "90", Items: []dtos.PurchasedItem{item(1, "4901681237036", "Filler", 2200, "10")},
	})
	if err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if !resp.Success {
		t.Error("purchase should succeed when publishing fails")
	}
	if n := len(loadTrades(t, store)); n != 1 {
		t.Errorf("got %d trades, want 1", n)
	}
}

func TestRecordPurchase_Concurrent(t *testing.T) {
	store := dbtest.New(t)
	svc := services.NewPurchaseService(store, nil, nil)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.RecordPurchase(context.Background(), dtos.PurchaseRequest{
				StoreCD: "30",
				PosNo:   "90",
				Items: []dtos.PurchasedItem{
					item(1, "4901681237036", "Filler", 100*(i+1), "10"),
					item(2, "4901234567894", "Eraser", 1, "10"),
				},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("RecordPurchase: %v", err)
		}
	}

	trades := loadTrades(t, store)
	if len(trades) != workers {
		t.Fatalf("got %d trades, want %d", len(trades), workers)
	}
	seen := map[uint]bool{}
	for _, tr := range trades {
		if seen[tr.TrdID] {
			t.Errorf("duplicate TRD_ID %d", tr.TrdID)
		}
		seen[tr.TrdID] = true
		if len(tr.Details) != 2 || tr.Details[0].DtlID != 1 || tr.Details[1].DtlID != 2 {
			t.Errorf("trade %d has details %+v", tr.TrdID, tr.Details)
			continue
		}
		if want := tr.Details[0].PrdPrice + tr.Details[1].PrdPrice; tr.TotalAmt != want {
			t.Errorf("trade %d total = %d, want %d", tr.TrdID, tr.TotalAmt, want)
		}
	}
}
