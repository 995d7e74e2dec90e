// Package cart holds the client cart as an explicit state container.
// Every operation is a pure transition on State: out-of-range quantities
// are silently clamped against the item's stock snapshot, never rejected.
package cart

// Item is a single cart line. Price and stock are snapshots of the
// product at the time the line was added.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
}

// State is the full cart: line items plus derived aggregates. Aggregates
// are recomputed after every mutation so TotalPrice always equals the dot
// product of quantities and prices.
type State struct {
	Items      []Item  `json:"items"`
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

func NewState() *State {
	return &State{Items: []Item{}}
}

// AddItem increments the quantity of an existing line by one, clamped to
// its stock ceiling, or appends a new line with quantity 1.
func (s *State) AddItem(item Item) {
	for i := range s.Items {
		if s.Items[i].ID == item.ID {
			if s.Items[i].Quantity < s.Items[i].Stock {
				s.Items[i].Quantity++
			}
			s.recompute()
			return
		}
	}
	item.Quantity = 1
	if item.Stock < 1 {
		item.Quantity = 0
	}
	if item.Quantity > 0 {
		s.Items = append(s.Items, item)
	}
	s.recompute()
}

// RemoveItem drops the matching line. Unknown ids are a no-op.
func (s *State) RemoveItem(id string) {
	kept := s.Items[:0]
	for _, item := range s.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.Items = kept
	s.recompute()
}

// UpdateQuantity sets a line's quantity to clamp(q, 0, stock). A clamped
// result of zero removes the line entirely.
func (s *State) UpdateQuantity(id string, quantity int) {
	kept := s.Items[:0]
	for _, item := range s.Items {
		if item.ID == id {
			q := quantity
			if q < 0 {
				q = 0
			}
			if q > item.Stock {
				q = item.Stock
			}
			if q == 0 {
				continue
			}
			item.Quantity = q
		}
		kept = append(kept, item)
	}
	s.Items = kept
	s.recompute()
}

// Clear empties the cart and zeroes the aggregates.
func (s *State) Clear() {
	s.Items = []Item{}
	s.recompute()
}

// Find returns the line with the given id, or nil.
func (s *State) Find(id string) *Item {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}

func (s *State) recompute() {
	s.TotalItems = 0
	s.TotalPrice = 0
	for _, item := range s.Items {
		s.TotalItems += item.Quantity
		s.TotalPrice += item.Price * float64(item.Quantity)
	}
	if s.Items == nil {
		s.Items = []Item{}
	}
}
