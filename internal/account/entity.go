// AngelaMos | 2026
// entity.go

package account

import (
	"time"
)

// Account is a connected Google Ads customer account. The credential bundle
// is owned by exactly one admin user; CustomerID is the 10-digit external
// identifier campaigns reference. MCC hierarchies link children to a parent
// customer via ParentCustomerID, with IsPrimary marking the manager account.
type Account struct {
	ID               string     `db:"id"`
	UserID           string     `db:"user_id"`
	CustomerID       string     `db:"customer_id"`
	DescriptiveName  string     `db:"descriptive_name"`
	RefreshToken     string     `db:"refresh_token"`
	AccessToken      string     `db:"access_token"`
	TokenExpiresAt   *time.Time `db:"token_expires_at"`
	IsPrimary        bool       `db:"is_primary"`
	ParentCustomerID *string    `db:"parent_customer_id"`
	IsActive         bool       `db:"is_active"`
	ConnectedAt      time.Time  `db:"connected_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}
