package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pos-api/database"
	"pos-api/models"
	"pos-api/utils/pagination"
)

//go:generate mockgen -source=transactionService.go -destination=mocks/transactionService_mock.go -package=mocks

type TransactionService interface {
	ListTransactions(ctx context.Context, p pagination.Params) ([]models.Trade, int64, error)
	GetTransaction(ctx context.Context, id uint) (*models.Trade, error)
}

type transactionService struct {
	store *database.Store
}

func NewTransactionService(store *database.Store) TransactionService {
	return &transactionService{store: store}
}

func byDetailSeq(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "DTL_ID"}})
}

// ListTransactions returns one page of trades, newest first, with their line items.
func (s *transactionService) ListTransactions(ctx context.Context, p pagination.Params) ([]models.Trade, int64, error) {
	var total int64
	db := s.store.Session(ctx)

	if err := db.Model(&models.Trade{}).Count(&total).Error; err != nil {
		return nil, 0, &StorageError{Op: "count transactions", Err: err}
	}

	trades := []models.Trade{}
	err := db.Preload("Details", byDetailSeq).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "TRD_ID"}, Desc: true}).
		Offset(p.Offset).
		Limit(p.PageSize).
		Find(&trades).Error
	if err != nil {
		return nil, 0, &StorageError{Op: "list transactions", Err: err}
	}
	return trades, total, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id uint) (*models.Trade, error) {
	if id == 0 {
		return nil, ErrNotFound
	}

	var trades []models.Trade
	err := s.store.Session(ctx).
		Preload("Details", byDetailSeq).
		Where(&models.Trade{TrdID: id}).
		Limit(1).
		Find(&trades).Error
	if err != nil {
		return nil, &StorageError{Op: "get transaction", Err: err}
	}
	if len(trades) == 0 {
		return nil, ErrNotFound
	}
	return &trades[0], nil
}
