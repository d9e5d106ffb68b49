package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	"github.com/VedantYeola/Wear-Story/internal/repository"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

const (
	defaultRating = 5.0
	manualTag     = "manual"
)

// ItemEventPublisher announces admin writes to other storefront instances.
type ItemEventPublisher interface {
	PublishItemCreated(ctx context.Context, item *domain.Item) error
	PublishItemUpdated(ctx context.Context, item *domain.Item) error
	PublishItemDeleted(ctx context.Context, id int64) error
}

// Invalidator asks the catalog store for a refetch.
type Invalidator interface {
	Invalidate()
}

// ItemInput is the admin item form.
type ItemInput struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Category    string           `json:"category" validate:"max=100"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Description string           `json:"description" validate:"max=5000"`
	Image       string           `json:"image" validate:"omitempty,url"`
	Rating      float64          `json:"rating" validate:"gte=0,lte=5"`
	Reviews     int              `json:"reviews" validate:"gte=0"`
}

// toItem applies the form defaults: tags are the lower-cased category plus
// "manual", a zero rating becomes 5.0.
func (in ItemInput) toItem(id int64) (domain.Item, error) {
	if in.Price == nil || !in.Price.IsPositive() {
		return domain.Item{}, apperrors.InvalidInput("price is required")
	}
	it := domain.Item{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		Price:       *in.Price,
		Description: in.Description,
		Image:       in.Image,
		Tags:        []string{strings.ToLower(in.Category), manualTag},
		Rating:      in.Rating,
		Reviews:     in.Reviews,
	}
	if it.Rating == 0 {
		it.Rating = defaultRating
	}
	return it, it.Validate()
}

// AdminService is the passphrase-gated catalog editor.
type AdminService struct {
	items    repository.ItemRepository
	events   ItemEventPublisher
	catalog  Invalidator
	activity *ActivityRecorder
	passHash []byte
	logger   *slog.Logger
}

// NewAdminService creates the admin service. events may be nil.
func NewAdminService(items repository.ItemRepository, events ItemEventPublisher, catalog Invalidator, activity *ActivityRecorder, passphraseHash string, logger *slog.Logger) *AdminService {
	return &AdminService{
		items:    items,
		events:   events,
		catalog:  catalog,
		activity: activity,
		passHash: []byte(passphraseHash),
		logger:   logger,
	}
}

// Authenticate checks the shared passphrase against its bcrypt hash.
func (a *AdminService) Authenticate(passphrase string) error {
	if passphrase == "" || len(a.passHash) == 0 {
		return apperrors.Unauthorized("admin passphrase required")
	}
	if err := bcrypt.CompareHashAndPassword(a.passHash, []byte(passphrase)); err != nil {
		return apperrors.Unauthorized("invalid admin passphrase")
	}
	return nil
}

// ListItems returns every item, newest id first.
func (a *AdminService) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := a.items.ListItems(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to list items", slog.String("error", err.Error()))
		return nil, apperrors.Unavailable("catalog source unavailable")
	}
	slices.Reverse(items)
	return items, nil
}

func (a *AdminService) CreateItem(ctx context.Context, in ItemInput) (*domain.Item, error) {
	item, err := in.toItem(0)
	if err != nil {
		return nil, err
	}
	if err := a.items.Create(ctx, &item); err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "item created", slog.Int64("item_id", item.ID), slog.String("name", item.Name))
	a.afterWrite(ctx, func(ctx context.Context) error { return a.events.PublishItemCreated(ctx, &item) })
	return &item, nil
}

func (a *AdminService) UpdateItem(ctx context.Context, id int64, in ItemInput) (*domain.Item, error) {
	item, err := in.toItem(id)
	if err != nil {
		return nil, err
	}
	if err := a.items.Update(ctx, &item); err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "item updated", slog.Int64("item_id", id))
	a.afterWrite(ctx, func(ctx context.Context) error { return a.events.PublishItemUpdated(ctx, &item) })
	return &item, nil
}

func (a *AdminService) DeleteItem(ctx context.Context, id int64) error {
	if err := a.items.Delete(ctx, id); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "item deleted", slog.Int64("item_id", id))
	a.afterWrite(ctx, func(ctx context.Context) error { return a.events.PublishItemDeleted(ctx, id) })
	return nil
}

// afterWrite refreshes the local catalog and announces the change. A
// failed publish is logged; the write itself already succeeded.
func (a *AdminService) afterWrite(ctx context.Context, publish func(context.Context) error) {
	if a.catalog != nil {
		a.catalog.Invalidate()
	}
	if a.events == nil {
		return
	}
	if err := publish(ctx); err != nil {
		a.logger.WarnContext(ctx, "failed to publish item event", slog.String("error", err.Error()))
	}
}

// Activity is the merged activity view.
func (a *AdminService) Activity(ctx context.Context) []domain.ActivityEntry {
	return a.activity.Recent(ctx)
}
