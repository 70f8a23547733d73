package models

import "time"

type QuoteItem struct {
	ServiceID string `json:"serviceId,omitempty"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	// Units counts nights or days; zero is treated as one.
	Units     int   `json:"units,omitempty"`
	LineTotal int64 `json:"lineTotal"`
}

type Quote struct {
	ID            string      `json:"id,omitempty"`
	Number        string      `json:"number"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail,omitempty"`
	Items         []QuoteItem `json:"items"`
	Subtotal      int64       `json:"subtotal"`
	DiscountPct   int         `json:"discountPct"`
	Discount      int64       `json:"discount"`
	Total         int64       `json:"total"`
	Currency      string      `json:"currency"`
	ValidUntil    string      `json:"validUntil,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type QuoteInput struct {
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Items         []QuoteItem `json:"items"`
	DiscountPct   int         `json:"discountPct"`
}
