package domain

// Wishlist holds full item snapshots so entries stay viewable after the
// catalog drops or changes them. Ids are unique.
type Wishlist struct {
	Entries []Item `json:"entries"`
}

// Toggle removes item if present, otherwise inserts a snapshot of it. It
// returns the resulting membership.
func (w *Wishlist) Toggle(item Item) bool {
	if w.Remove(item.ID) {
		return false
	}
	w.Entries = append(w.Entries, item.Clone())
	return true
}

func (w *Wishlist) Contains(id int64) bool {
	return w.index(id) >= 0
}

// Remove is idempotent and reports whether an entry was dropped.
func (w *Wishlist) Remove(id int64) bool {
	i := w.index(id)
	if i < 0 {
		return false
	}
	w.Entries = append(w.Entries[:i], w.Entries[i+1:]...)
	return true
}

func (w *Wishlist) Len() int {
	return len(w.Entries)
}

func (w *Wishlist) Snapshot() []Item {
	return CloneItems(w.Entries)
}

func (w *Wishlist) index(id int64) int {
	for i := range w.Entries {
		if w.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

// RestoreWishlist rebuilds a wishlist from persisted entries, dropping
// repeated ids.
func RestoreWishlist(entries []Item) Wishlist {
	var w Wishlist
	for _, e := range entries {
		if !w.Contains(e.ID) {
			w.Entries = append(w.Entries, e.Clone())
		}
	}
	return w
}
