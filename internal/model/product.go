package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry.
type Product struct {
	ID          uint            `json:"id" gorm:"column:productid;primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"column:name;size:255;not null;index"`
	Description string          `json:"description" gorm:"column:description;type:text"`
	Price       decimal.Decimal `json:"price" gorm:"column:price;type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"column:stock;not null;default:0"`
	ImageURL    string          `json:"imageurl" gorm:"column:imageurl;size:512"`
	CreatedAt   time.Time       `json:"createdat" gorm:"column:createdat"`
	UpdatedAt   time.Time       `json:"updatedat" gorm:"column:updatedat"`
}

func (Product) TableName() string {
	return "aproduct"
}
