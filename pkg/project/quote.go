package project

import (
	"fmt"

	"github.com/matzehuels/platecut/pkg/socket"
)

// PricePerSocket is the default price of one cutout in euros.
const PricePerSocket = 20.0

// QuoteLine prices one socket group.
type QuoteLine struct {
	GroupID     string             `json:"group_id"`
	PlateIndex  int                `json:"plate_index"`
	Count       int                `json:"count"`
	Orientation socket.Orientation `json:"orientation"`
	Price       float64            `json:"price"`
}

// Quote is the price summary for a set of groups.
type Quote struct {
	Lines    []QuoteLine `json:"lines"`
	Units    int         `json:"units"`
	Total    float64     `json:"total"`
	Currency string      `json:"currency"`
}

// NewQuote prices groups at perUnit euros per cutout. A non-positive perUnit
// falls back to PricePerSocket.
func NewQuote(groups []socket.Group, perUnit float64) Quote {
	if perUnit <= 0 {
		perUnit = PricePerSocket
	}
	q := Quote{Lines: make([]QuoteLine, 0, len(groups)), Currency: "EUR"}
	for _, g := range groups {
		price := float64(g.Count) * perUnit
		q.Lines = append(q.Lines, QuoteLine{
			GroupID:     g.ID,
			PlateIndex:  g.PlateIndex,
			Count:       g.Count,
			Orientation: g.Orientation,
			Price:       price,
		})
		q.Units += g.Count
		q.Total += price
	}
	return q
}

// FormatPrice renders euros with two decimals, e.g. "40.00 €".
func FormatPrice(v float64) string { return fmt.Sprintf("%.2f €", v) }
