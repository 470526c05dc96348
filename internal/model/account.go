package model

import "time"

// Roles carried in the session token's role claim.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Account is a registered customer. Email addresses are unique; comparison
// follows the column collation.
type Account struct {
	ID            uint      `json:"id" gorm:"column:customerid;primaryKey;autoIncrement"`
	FullName      string    `json:"fullname" gorm:"column:fullname;size:255;not null"`
	ContactNumber string    `json:"contactnumber" gorm:"column:contactnumber;size:64;not null"`
	EmailAddress  string    `json:"emailaddress" gorm:"column:emailaddress;uniqueIndex;size:255;not null"`
	PasswordHash  string    `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Role          string    `json:"role" gorm:"column:role;size:20;not null;default:'customer'"`
	CreatedAt     time.Time `json:"createdat" gorm:"column:createdat"`
	UpdatedAt     time.Time `json:"updatedat" gorm:"column:updatedat"`
}

// TableName keeps the legacy table name.
func (Account) TableName() string {
	return "acustomer"
}

// EffectiveRole returns the stored role, treating blank as customer.
func (a *Account) EffectiveRole() string {
	if a.Role == "" {
		return RoleCustomer
	}
	return a.Role
}
