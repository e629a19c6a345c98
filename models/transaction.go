package models

import "time"

// DefaultEmpCD is stored when a purchase arrives without an operator code.
const DefaultEmpCD = "9999999999"

// Trade is one purchase receipt.
type Trade struct {
	TrdID       uint      `gorm:"column:TRD_ID;primaryKey;autoIncrement" json:"TRD_ID"`
	Datetime    time.Time `gorm:"column:DATETIME;not null" json:"DATETIME"`
	EmpCD       string    `gorm:"column:EMP_CD;type:char(10);not null" json:"EMP_CD"`
	StoreCD     string    `gorm:"column:STORE_CD;type:char(5);not null" json:"STORE_CD"`
	PosNo       string    `gorm:"column:POS_NO;type:char(3);not null" json:"POS_NO"`
	TotalAmt    int       `gorm:"column:TOTAL_AMT;not null;default:0" json:"TOTAL_AMT"`
	TtlAmtExTax int       `gorm:"column:TTL_AMT_EX_TAX;not null;default:0" json:"TTL_AMT_EX_TAX"` // reserved, never computed

	Details []TrdDetail `gorm:"foreignKey:TrdID;references:TrdID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
}

func (Trade) TableName() string { return "trade" }

// TrdDetail is one line of a Trade. Product fields are copied at purchase
// time and are not joined against the live catalog.
type TrdDetail struct {
	TrdID    uint   `gorm:"column:TRD_ID;primaryKey;autoIncrement:false" json:"TRD_ID"`
	DtlID    int    `gorm:"column:DTL_ID;primaryKey;autoIncrement:false" json:"DTL_ID"`
	PrdID    uint   `gorm:"column:PRD_ID;index" json:"PRD_ID"`
	PrdCode  string `gorm:"column:PRD_CODE;size:13" json:"PRD_CODE"`
	PrdName  string `gorm:"column:PRD_NAME;size:50" json:"PRD_NAME"`
	PrdPrice int    `gorm:"column:PRD_PRICE;not null" json:"PRD_PRICE"`
	PrdTaxCD string `gorm:"column:PRD_TAX_CD;type:char(2)" json:"PRD_TAX_CD"`
}

func (TrdDetail) TableName() string { return "trd_detail" }
