// Package domain holds the read models for sales reporting. Reports are
// computed over closed orders only; open sessions never count.
package domain

import "time"

// SalesSummary aggregates closed orders over a period. Amounts are in the
// smallest currency unit.
type SalesSummary struct {
	OrdersClosed int64
	GrossSales   int64
	Discounts    int64
	NetSales     int64
}

// ProductSales ranks one product's contribution over a period.
type ProductSales struct {
	ProductName string
	Quantity    int64
	Revenue     int64
}

// Report is a sales report over a half-open interval [From, To).
type Report struct {
	From        time.Time
	To          time.Time
	Summary     SalesSummary
	TopProducts []ProductSales
}
