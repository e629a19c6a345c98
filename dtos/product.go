package dtos

import "pos-api/models"

type ProductCreate struct {
	Code  string `json:"CODE" binding:"required,max=13"`
	Name  string `json:"NAME" binding:"max=50"`
	Price *int   `json:"PRICE" binding:"required,gte=0"`
	TaxCD string `json:"TAX_CD" binding:"max=2"`
}

// ToModel assumes the struct already passed validation.
func (p ProductCreate) ToModel() models.Product {
	return models.Product{
		Code:  p.Code,
		Name:  p.Name,
		Price: *p.Price,
		TaxCD: p.TaxCD,
	}
}

// ProductSearchQuery requires the code parameter to be present; an empty
// value is allowed and matches nothing.
type ProductSearchQuery struct {
	Code *string `form:"code" binding:"required"`
}

// ProductSearchResult is the search view of a product; it leaves out TAX_CD.
type ProductSearchResult struct {
	PrdID uint   `json:"PRD_ID"`
	Code  string `json:"CODE"`
	Name  string `json:"NAME"`
	Price int    `json:"PRICE"`
}

// NewProductSearchResult returns nil for a nil product so the handler renders null.
func NewProductSearchResult(p *models.Product) *ProductSearchResult {
	if p == nil {
		return nil
	}
	return &ProductSearchResult{
		PrdID: p.PrdID,
		Code:  p.Code,
		Name:  p.Name,
		Price: p.Price,
	}
}
