package service

import (
	"math"

	"sufra-pos/internal/domain"
)

// VATRate is the fixed value-added tax applied to every order.
const VATRate = 0.15

// Orders never estimate below this many minutes, however small.
const minEstimatedMinutes = 15

type OrderTotals struct {
	Subtotal         float64
	TaxAmount        float64
	DeliveryFee      float64
	TotalAmount      float64
	EstimatedMinutes int
}

// CalculateTotals aggregates validated lines into order-level amounts. Pure
// function, no I/O.
func CalculateTotals(lines []*ValidatedLine, area *domain.DeliveryArea) OrderTotals {
	var subtotal float64
	var minutes int
	for _, line := range lines {
		subtotal += line.TotalPrice
		minutes += line.EstimatedMinutes
	}

	var deliveryFee float64
	if area != nil {
		deliveryFee = area.Fee
		minutes += area.EstimatedDeliveryTime
	}
	if minutes < minEstimatedMinutes {
		minutes = minEstimatedMinutes
	}

	subtotal = round2(subtotal)
	tax := round2(subtotal * VATRate)

	return OrderTotals{
		Subtotal:         subtotal,
		TaxAmount:        tax,
		DeliveryFee:      deliveryFee,
		TotalAmount:      round2(subtotal + tax + deliveryFee),
		EstimatedMinutes: minutes,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
