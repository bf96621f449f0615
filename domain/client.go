package domain

import "strings"

const (
	ClientActive   = "active"
	ClientInactive = "inactive"
)

type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Client struct {
	Meta
	CompanyName     string  `json:"companyName" validate:"required,max=200"`
	ContactPerson   string  `json:"contactPerson,omitempty"`
	Email           string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string  `json:"phone,omitempty"`
	GSTNumber       string  `json:"gstNumber,omitempty" validate:"omitempty,alphanum,len=15"`
	PANNumber       string  `json:"panNumber,omitempty" validate:"omitempty,alphanum,len=10"`
	BillingAddress  Address `json:"billingAddress"`
	ShippingAddress Address `json:"shippingAddress"`
	Status          string  `json:"status" validate:"oneof=active inactive"`
	Notes           string  `json:"notes,omitempty"`
}

// Normalize trims identity fields and applies the default status.
func (c *Client) Normalize() {
	c.CompanyName = strings.TrimSpace(c.CompanyName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.GSTNumber = strings.ToUpper(strings.TrimSpace(c.GSTNumber))
	c.PANNumber = strings.ToUpper(strings.TrimSpace(c.PANNumber))
	c.Status = strings.ToLower(strings.TrimSpace(c.Status))
	if c.Status == "" {
		c.Status = ClientActive
	}
}
