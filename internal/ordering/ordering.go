// Package ordering keeps sibling weights a dense 1..N rank
package ordering

import (
	"sort"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

// AppendWeight places an item without a usable weight after every other item
const AppendWeight models.Weight = 99999

// Weighted is an orderable sibling
type Weighted interface {
	GetID() uuid.UUID
	GetWeight() models.Weight
	SetWeight(models.Weight)
}

func effective(w models.Weight) models.Weight {
	if !w.IsSet() {
		return AppendWeight
	}
	return w
}

// Renumber stably sorts items by weight and rewrites the weights to 1..N.
// Unset weights sort last.
func Renumber[T Weighted](items []T) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return effective(items[i].GetWeight()) < effective(items[j].GetWeight())
	})
	for i, it := range items {
		it.SetWeight(models.Weight(i + 1))
	}
	return items
}

// Insert places item at its declared weight, shifting siblings at or after
// that position down by one, then renumbers.
func Insert[T Weighted](items []T, item T) []T {
	items = Renumber(items)
	w := effective(item.GetWeight())
	for _, it := range items {
		if it.GetWeight() >= w {
			it.SetWeight(it.GetWeight() + 1)
		}
	}
	item.SetWeight(w)
	return Renumber(append(items, item))
}

// Replace swaps the sibling with item's id for item, honouring item's weight
func Replace[T Weighted](items []T, item T) []T {
	return Insert(Remove(items, item.GetID()), item)
}

// Remove drops the sibling with the given id and renumbers the rest
func Remove[T Weighted](items []T, id uuid.UUID) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.GetID() != id {
			out = append(out, it)
		}
	}
	return Renumber(out)
}
