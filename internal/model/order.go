package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPlaced OrderStatus = "placed"
)

// Order records a customer's purchase of a single product.
type Order struct {
	ID         uint            `json:"id" gorm:"column:orderid;primaryKey;autoIncrement"`
	CustomerID uint            `json:"customerid" gorm:"column:customerid;not null;index"`
	ProductID  uint            `json:"productid" gorm:"column:productid;not null;index"`
	Quantity   int             `json:"quantity" gorm:"column:quantity;not null"`
	Total      decimal.Decimal `json:"total" gorm:"column:total;type:decimal(12,2);not null"`
	Status     OrderStatus     `json:"status" gorm:"column:status;type:varchar(20);not null;default:'placed';index"`
	CreatedAt  time.Time       `json:"createdat" gorm:"column:createdat"`

	// Relations
	Customer Account `json:"-" gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	Product  Product `json:"-" gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (Order) TableName() string {
	return "orders"
}
