// AngelaMos | 2026
// dto.go

package account

import (
	"time"
)

type ConnectAccountRequest struct {
	CustomerID       string  `json:"customer_id"        validate:"required,len=10,numeric"`
	DescriptiveName  string  `json:"descriptive_name"   validate:"required,min=1,max=255"`
	RefreshToken     string  `json:"refresh_token"      validate:"required"`
	AccessToken      string  `json:"access_token"       validate:"required"`
	IsPrimary        bool    `json:"is_primary"`
	ParentCustomerID *string `json:"parent_customer_id" validate:"omitempty,len=10,numeric"`
}

type RefreshTokenRequest struct {
	AccessToken    string    `json:"access_token" validate:"required"`
	TokenExpiresAt time.Time `json:"token_expires_at" validate:"required"`
}

type AccountResponse struct {
	ID               string    `json:"id"`
	CustomerID       string    `json:"customer_id"`
	DescriptiveName  string    `json:"descriptive_name"`
	IsPrimary        bool      `json:"is_primary"`
	ParentCustomerID *string   `json:"parent_customer_id,omitempty"`
	IsActive         bool      `json:"is_active"`
	ConnectedAt      time.Time `json:"connected_at"`
}

func ToAccountResponse(a *Account) AccountResponse {
	return AccountResponse{
		ID:               a.ID,
		CustomerID:       a.CustomerID,
		DescriptiveName:  a.DescriptiveName,
		IsPrimary:        a.IsPrimary,
		ParentCustomerID: a.ParentCustomerID,
		IsActive:         a.IsActive,
		ConnectedAt:      a.ConnectedAt,
	}
}

func ToAccountResponseList(accounts []Account) []AccountResponse {
	responses := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		responses = append(responses, ToAccountResponse(&a))
	}
	return responses
}
