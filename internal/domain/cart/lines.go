package cart

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidProductID = errors.New("cart: product id is empty")
	ErrInvalidQuantity  = errors.New("cart: quantity must be >= 1")
)

// Line represents one product-quantity pair in a cart.
// Uniqueness within a cart is defined by ProductID.
type Line struct {
	ProductID string `json:"productId" firestore:"productId"`
	Quantity  int    `json:"quantity" firestore:"quantity"`
}

// Lines is a cart's line set. Invariants after every mutation:
// - at most one Line per ProductID
// - every Quantity >= 1 (a set-to-zero removes the line)
type Lines []Line

// AddOrIncrement increases quantity for productID by qty,
// inserting a new line when absent. qty must be >= 1.
func (ls Lines) AddOrIncrement(productID string, qty int) (Lines, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ls, ErrInvalidProductID
	}
	if qty < 1 {
		return ls, ErrInvalidQuantity
	}

	out := ls.clone()
	if idx := findLine(out, pid); idx >= 0 {
		out[idx].Quantity += qty
		return out, nil
	}
	return append(out, Line{ProductID: pid, Quantity: qty}), nil
}

// SetQuantity overwrites the quantity for productID, appending the
// line when absent. qty must be >= 1; callers that want removal use Remove.
func (ls Lines) SetQuantity(productID string, qty int) (Lines, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ls, ErrInvalidProductID
	}
	if qty < 1 {
		return ls, ErrInvalidQuantity
	}

	out := ls.clone()
	if idx := findLine(out, pid); idx >= 0 {
		out[idx].Quantity = qty
		return out, nil
	}
	return append(out, Line{ProductID: pid, Quantity: qty}), nil
}

// Remove deletes the line for productID. Removing an absent id is a no-op.
func (ls Lines) Remove(productID string) (Lines, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ls, ErrInvalidProductID
	}

	idx := findLine(ls, pid)
	if idx < 0 {
		return ls.clone(), nil
	}
	out := ls.clone()
	return append(out[:idx], out[idx+1:]...), nil
}

// Quantity returns the stored quantity for productID (0 when absent).
func (ls Lines) Quantity(productID string) int {
	if idx := findLine(ls, strings.TrimSpace(productID)); idx >= 0 {
		return ls[idx].Quantity
	}
	return 0
}

func (ls Lines) clone() Lines {
	if len(ls) == 0 {
		return Lines{}
	}
	out := make(Lines, len(ls))
	copy(out, ls)
	return out
}

func findLine(ls Lines, pid string) int {
	for i := range ls {
		if ls[i].ProductID == pid {
			return i
		}
	}
	return -1
}

// Normalize merges duplicate product ids, drops invalid entries and
// returns a deterministically ordered copy. Used when loading stored
// data whose shape is not trusted (old docs, hand-edited payloads).
func Normalize(src []Line) Lines {
	merged := map[string]int{}
	for _, l := range src {
		pid := strings.TrimSpace(l.ProductID)
		if pid == "" || l.Quantity < 1 {
			continue
		}
		merged[pid] += l.Quantity
	}

	ids := make([]string, 0, len(merged))
	for pid := range merged {
		ids = append(ids, pid)
	}
	sort.Strings(ids)

	out := make(Lines, 0, len(ids))
	for _, pid := range ids {
		out = append(out, Line{ProductID: pid, Quantity: merged[pid]})
	}
	return out
}
