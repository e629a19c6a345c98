package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pos-api/database"
	"pos-api/dtos"
	"pos-api/events"
	"pos-api/logger"
	"pos-api/metrics"
	"pos-api/models"
)

//go:generate mockgen -source=purchaseService.go -destination=mocks/purchaseService_mock.go -package=mocks

const publishTimeout = 5 * time.Second

type PurchaseService interface {
	RecordPurchase(ctx context.Context, req dtos.PurchaseRequest) (*dtos.PurchaseResponse, error)
}

type purchaseService struct {
	store     *database.Store
	publisher events.Publisher
	metrics   *metrics.ServerMetrics
	now       func() time.Time
}

// NewPurchaseService returns the transaction recorder. publisher and m may be nil.
func NewPurchaseService(store *database.Store, publisher events.Publisher, m *metrics.ServerMetrics) PurchaseService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &purchaseService{
		store:     store,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

// RecordPurchase writes the trade header, one trd_detail row per item and the
// final total in a single database transaction. Line items copy the product
// fields from the request as-is. On any failure nothing is persisted.
func (s *purchaseService) RecordPurchase(ctx context.Context, req dtos.PurchaseRequest) (*dtos.PurchaseResponse, error) {
	for i, item := range req.Items {
		if item.Price == nil {
			return nil, fmt.Errorf("%w: items[%d].PRICE is required", ErrInvalidInput, i)
		}
	}

	trade := models.Trade{
		Datetime: s.now(),
		EmpCD:    req.OperatorCode(),
		StoreCD:  req.StoreCD,
		PosNo:    req.PosNo,
	}
	total := 0

	err := s.store.Transact(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&trade).Error; err != nil {
			return fmt.Errorf("inserting trade: %w", err)
		}

		seq := 0
		for _, item := range req.Items {
			seq++
			detail := models.TrdDetail{
				TrdID:    trade.TrdID,
				DtlID:    seq,
				PrdID:    item.PrdID,
				PrdCode:  item.Code,
				PrdName:  item.Name,
				PrdPrice: *item.Price,
				PrdTaxCD: item.TaxCD,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return fmt.Errorf("inserting trd_detail %d: %w", seq, err)
			}
			total += detail.PrdPrice
		}

		if err := tx.Model(&trade).Update("TOTAL_AMT", total).Error; err != nil {
			return fmt.Errorf("updating total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &StorageError{Op: "record purchase", Err: err}
	}
	trade.TotalAmt = total

	log := logger.FromContext(ctx)
	log.Info().
		Uint("trd_id", trade.TrdID).
		Str("store_cd", trade.StoreCD).
		Str("pos_no", trade.PosNo).
		Int("items", len(req.Items)).
		Int("total_amt", total).
		Msg("Purchase recorded")

	s.metrics.ObservePurchase(total)
	s.publish(ctx, trade, len(req.Items))

	return &dtos.PurchaseResponse{Success: true, TotalAmt: total}, nil
}

// publish is best effort; the purchase is already committed.
func (s *purchaseService) publish(ctx context.Context, trade models.Trade, items int) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	evt := events.NewPurchaseRecorded(trade.TrdID, trade.EmpCD, trade.StoreCD, trade.PosNo, trade.TotalAmt, items, trade.Datetime)
	if err := s.publisher.PublishPurchaseRecorded(ctx, evt); err != nil {
		log := logger.FromContext(ctx)
		log.Error().
			Err(err).
			Uint("trd_id", trade.TrdID).
			Str("event_id", evt.EventID).
			Msg("Failed to publish purchase event")
	}
}
