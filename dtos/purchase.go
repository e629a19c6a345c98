package dtos

import "pos-api/models"

type PurchasedItem struct {
	PrdID uint   `json:"PRD_ID"`
	Code  string `json:"CODE" binding:"required,max=13"`
	Name  string `json:"NAME" binding:"max=50"`
	Price *int   `json:"PRICE" binding:"required,gte=0"`
	TaxCD string `json:"TAX_CD" binding:"max=2"`
}

// PurchaseRequest is one receipt. EMP_CD may be empty; an empty items list is valid.
type PurchaseRequest struct {
	EmpCD   string          `json:"EMP_CD" binding:"max=10"`
	StoreCD string          `json:"STORE_CD" binding:"required,max=5"`
	PosNo   string          `json:"POS_NO" binding:"required,max=3"`
	Items   []PurchasedItem `json:"items" binding:"required,dive"`
}

// OperatorCode returns EMP_CD, or the sentinel code when it is empty.
func (r PurchaseRequest) OperatorCode() string {
	if r.EmpCD == "" {
		return models.DefaultEmpCD
	}
	return r.EmpCD
}

type PurchaseResponse struct {
	Success  bool `json:"success"`
	TotalAmt int  `json:"total_amt"`
}
