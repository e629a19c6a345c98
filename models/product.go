package models

type Product struct {
	PrdID uint   `gorm:"column:PRD_ID;primaryKey;autoIncrement" json:"PRD_ID"`
	Code  string `gorm:"column:CODE;size:13;not null;uniqueIndex" json:"CODE"`
	Name  string `gorm:"column:NAME;size:50;not null" json:"NAME"`
	Price int    `gorm:"column:PRICE;not null" json:"PRICE"`
	TaxCD string `gorm:"column:TAX_CD;type:char(2)" json:"TAX_CD"`
}

func (Product) TableName() string { return "product" }

// All lists the models migrated at startup.
func All() []interface{} {
	return []interface{}{&Product{}, &Trade{}, &TrdDetail{}}
}
