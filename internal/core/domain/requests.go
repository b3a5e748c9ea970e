package domain

import "time"

// User is the public user summary returned by auth endpoints.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=31"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

// SignupRequest is the body of POST /auth/signup. Same shape as login.
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=31"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

// Broker is the public broker representation.
type Broker struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"accountNumber,omitempty"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateBrokerRequest is the body of POST /brokers.
type CreateBrokerRequest struct {
	Name          string `json:"name" binding:"required,min=1"`
	AccountNumber string `json:"accountNumber"`
	Currency      string `json:"currency" binding:"required,min=1"`
}

// UpdateBrokerRequest is the body of PUT /brokers/:id. All fields are
// optional; absent fields are left unchanged.
type UpdateBrokerRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1"`
	AccountNumber *string `json:"accountNumber"`
	Currency      *string `json:"currency" binding:"omitempty,min=1"`
}

// BrokerView maps a stored row to its public representation.
func (b BrokerRow) BrokerView() Broker {
	return Broker{
		ID:            b.ID,
		Name:          b.Name,
		AccountNumber: b.AccountNumber,
		Currency:      b.Currency,
		CreatedAt:     b.CreatedAt,
	}
}
