package model

import "time"

// Order is the immutable record of a completed checkout.
type Order struct {
	OrderID           int            `json:"orderId"`
	UserEmail         string         `json:"userEmail"`
	Date              time.Time      `json:"date"`
	Items             []CartLineItem `json:"items"`
	Subtotal          float64        `json:"subtotal"`
	ShippingMethod    string         `json:"shippingMethod"`
	ShippingCost      float64        `json:"shippingCost"`
	PackagingCost     float64        `json:"packagingCost"`
	PaymentMethod     string         `json:"paymentMethod"`
	PaymentMethodName string         `json:"paymentMethodName"`
	Total             float64        `json:"total"`
}
