package services

import (
	"errors"

	"blocknote/internal/notes/domain/entities"
)

// MinOrderGap is the smallest gap between neighbours that still takes a midpoint.
const MinOrderGap = 1e-6

// ErrOrderExhausted means there is no room between two neighbours and the note
// must be renormalized first.
var ErrOrderExhausted = errors.New("no order value left between neighbours")

// AppendOrder is the order of a block placed after the last one.
func AppendOrder(last *float64) float64 {
	if last == nil {
		return entities.InitialOrder
	}
	return *last + entities.OrderStep
}

// MidpointOrder is the order of a block placed after prev and before next.
// A nil next means prev is the last block.
func MidpointOrder(prev float64, next *float64) (float64, error) {
	if next == nil {
		return prev + entities.OrderStep, nil
	}
	if *next-prev < MinOrderGap {
		return 0, ErrOrderExhausted
	}
	mid := prev + (*next-prev)/2
	if mid <= prev || mid >= *next {
		return 0, ErrOrderExhausted
	}
	return mid, nil
}

// Renormalize spaces orders evenly as 1000, 2000, ... keeping their sequence.
func Renormalize(count int) []float64 {
	orders := make([]float64, count)
	for i := range orders {
		orders[i] = float64(i+1) * entities.OrderStep
	}
	return orders
}
