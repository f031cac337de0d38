package partner

import (
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
)

// =============================================================================
// Carrier DTOs
// =============================================================================

// CreateCarrierRequest represents a request to create a new carrier
type CreateCarrierRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	TaxID string `json:"tax_id" binding:"max=20"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// UpdateCarrierRequest represents a request to update a carrier.
// Version must echo the value returned by the last read.
type UpdateCarrierRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	TaxID   string `json:"tax_id" binding:"max=20"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Version int    `json:"version" binding:"required,min=1"`
}

// CarrierResponse represents a carrier in API responses
type CarrierResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCarrierResponse converts a domain Carrier to CarrierResponse
func ToCarrierResponse(c *partner.Carrier) CarrierResponse {
	return CarrierResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCarrierResponses converts a slice of carriers
func ToCarrierResponses(carriers []partner.Carrier) []CarrierResponse {
	responses := make([]CarrierResponse, len(carriers))
	for i := range carriers {
		responses[i] = ToCarrierResponse(&carriers[i])
	}
	return responses
}

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	TaxID   string `json:"tax_id" binding:"max=20"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	TaxID   string `json:"tax_id" binding:"max=20"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	Version int    `json:"version" binding:"required,min=1"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

// =============================================================================
// Seller DTOs
// =============================================================================

// CreateSellerRequest represents a request to create a new seller
type CreateSellerRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// UpdateSellerRequest represents a request to update a seller
type UpdateSellerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Version int    `json:"version" binding:"required,min=1"`
}

// SellerResponse represents a seller in API responses
type SellerResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToSellerResponse converts a domain Seller to SellerResponse
func ToSellerResponse(s *partner.Seller) SellerResponse {
	return SellerResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToSellerResponses converts a slice of sellers
func ToSellerResponses(sellers []partner.Seller) []SellerResponse {
	responses := make([]SellerResponse, len(sellers))
	for i := range sellers {
		responses[i] = ToSellerResponse(&sellers[i])
	}
	return responses
}
