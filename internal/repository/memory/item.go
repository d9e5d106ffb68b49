package memory

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	"github.com/VedantYeola/Wear-Story/internal/repository"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

// ItemRepository is an in-process catalog source. It is also its own
// change feed: every write notifies subscribers.
type ItemRepository struct {
	mu     sync.RWMutex
	items  []domain.Item
	nextID int64

	subsMu sync.Mutex
	subs   map[int]func()
	subSeq int
}

// NewItemRepository seeds the repository with items.
func NewItemRepository(seed []domain.Item) *ItemRepository {
	r := &ItemRepository{subs: make(map[int]func())}
	for _, it := range seed {
		r.items = append(r.items, it.Clone())
		r.nextID = max(r.nextID, it.ID)
	}
	r.sort()
	return r
}

func (r *ItemRepository) sort() {
	slices.SortFunc(r.items, func(a, b domain.Item) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}

func (r *ItemRepository) ListItems(_ context.Context) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.CloneItems(r.items), nil
}

func (r *ItemRepository) GetByID(_ context.Context, id int64) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		it := r.items[i].Clone()
		return &it, nil
	}
	return nil, apperrors.NotFound("item", strconv.FormatInt(id, 10))
}

func (r *ItemRepository) Create(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	r.nextID++
	item.ID = r.nextID
	r.items = append(r.items, item.Clone())
	r.mu.Unlock()

	r.notify()
	return nil
}

func (r *ItemRepository) Update(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	i := r.index(item.ID)
	if i < 0 {
		r.mu.Unlock()
		return apperrors.NotFound("item", strconv.FormatInt(item.ID, 10))
	}
	r.items[i] = item.Clone()
	r.mu.Unlock()

	r.notify()
	return nil
}

func (r *ItemRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	i := r.index(id)
	if i < 0 {
		r.mu.Unlock()
		return apperrors.NotFound("item", strconv.FormatInt(id, 10))
	}
	r.items = slices.Delete(r.items, i, i+1)
	r.mu.Unlock()

	r.notify()
	return nil
}

func (r *ItemRepository) index(id int64) int {
	return slices.IndexFunc(r.items, func(it domain.Item) bool { return it.ID == id })
}

type subscription struct {
	repo *ItemRepository
	id   int
}

func (s subscription) Unsubscribe() error {
	s.repo.subsMu.Lock()
	defer s.repo.subsMu.Unlock()
	delete(s.repo.subs, s.id)
	return nil
}

// Subscribe registers notify to run after every write.
func (r *ItemRepository) Subscribe(_ context.Context, notify func()) (repository.Subscription, error) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	r.subSeq++
	r.subs[r.subSeq] = notify
	return subscription{repo: r, id: r.subSeq}, nil
}

func (r *ItemRepository) notify() {
	r.subsMu.Lock()
	fns := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
