package model

import "time"

// OrderStatusPending is the only status orders ever carry; payment
// confirmation callbacks are not handled, so nothing transitions it.
const OrderStatusPending = "pending"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Price and Total are integer currency units (KES).
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Location    string `json:"location"`
	Quantity    int    `json:"quantity"`
}

type Order struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Total     int64     `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
}

// Session is an opaque bearer token bound to a role and expiry.
// Admin sessions carry no user id.
type Session struct {
	Token     string
	UserID    string
	Role      string
	ExpiresAt time.Time
}
