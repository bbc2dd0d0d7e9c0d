package calc

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"faktura/internal/domain"
)

// Normalize returns a copy of items whose Order values follow the slice order,
// starting at 1. The slice order is authoritative; incoming Order values are ignored.
func Normalize(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i := range items {
		out[i] = items[i]
		out[i].Order = i + 1
	}
	return out
}

// Insert places item at index i (0 <= i <= len(items)) and renumbers.
func Insert(items []domain.LineItem, i int, item domain.LineItem) ([]domain.LineItem, error) {
	if i < 0 || i > len(items) {
		return nil, domain.NewValidationError("index", "position %d out of range", i)
	}
	out := make([]domain.LineItem, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, item)
	out = append(out, items[i:]...)
	return Normalize(out), nil
}

// Append adds item at the end and renumbers.
func Append(items []domain.LineItem, item domain.LineItem) []domain.LineItem {
	out, _ := Insert(items, len(items), item)
	return out
}

// Remove deletes the item at index i and renumbers the rest.
func Remove(items []domain.LineItem, i int) ([]domain.LineItem, error) {
	if i < 0 || i >= len(items) {
		return nil, domain.NewValidationError("index", "position %d out of range", i)
	}
	out := make([]domain.LineItem, 0, len(items)-1)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return Normalize(out), nil
}

// Move relocates the item at index from to index to.
func Move(items []domain.LineItem, from, to int) ([]domain.LineItem, error) {
	if from < 0 || from >= len(items) {
		return nil, domain.NewValidationError("from", "position %d out of range", from)
	}
	if to < 0 || to >= len(items) {
		return nil, domain.NewValidationError("to", "position %d out of range", to)
	}
	item := items[from]
	rest := make([]domain.LineItem, 0, len(items)-1)
	rest = append(rest, items[:from]...)
	rest = append(rest, items[from+1:]...)
	return Insert(rest, to, item)
}

// MoveUp swaps the item at index i with its predecessor. Moving the first item is a no-op.
func MoveUp(items []domain.LineItem, i int) ([]domain.LineItem, error) {
	if i == 0 && len(items) > 0 {
		return Normalize(items), nil
	}
	return Move(items, i, i-1)
}

// MoveDown swaps the item at index i with its successor. Moving the last item is a no-op.
func MoveDown(items []domain.LineItem, i int) ([]domain.LineItem, error) {
	if i == len(items)-1 {
		return Normalize(items), nil
	}
	return Move(items, i, i+1)
}

// MoveByID moves the item with the given ID one step in direction.
func MoveByID(items []domain.LineItem, id uuid.UUID, direction domain.MoveDirection) ([]domain.LineItem, error) {
	_, idx, found := lo.FindIndexOf(items, func(it domain.LineItem) bool { return it.ID == id })
	if !found {
		return nil, domain.ErrLineItemNotFound
	}
	switch direction {
	case domain.MoveUp:
		return MoveUp(items, idx)
	case domain.MoveDown:
		return MoveDown(items, idx)
	default:
		return nil, domain.NewValidationError("direction", "must be one of: up, down")
	}
}

// Reorder arranges items in the order given by ids, which must be a permutation
// of the item IDs.
func Reorder(items []domain.LineItem, ids []uuid.UUID) ([]domain.LineItem, error) {
	if len(ids) != len(items) {
		return nil, domain.NewValidationError("item_ids", "expected %d ids, got %d", len(items), len(ids))
	}
	byID := lo.KeyBy(items, func(it domain.LineItem) uuid.UUID { return it.ID })
	out := make([]domain.LineItem, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, domain.NewValidationError("item_ids", "unknown line item %s", id)
		}
		if seen[id] {
			return nil, domain.NewValidationError("item_ids", "duplicate line item %s", id)
		}
		seen[id] = true
		out = append(out, item)
	}
	return Normalize(out), nil
}
