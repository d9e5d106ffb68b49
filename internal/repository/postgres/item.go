// Package postgres implements the catalog source, the admin write path,
// the activity sink and the LISTEN/NOTIFY change feed on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	"github.com/VedantYeola/Wear-Story/pkg/database"
	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

const itemColumns = `id, name, category, price::text, description, tags, rating, reviews, image`

// ItemRepository implements repository.ItemRepository over the products
// table.
type ItemRepository struct {
	db database.DBTX
}

// NewItemRepository creates a new PostgreSQL-backed item repository.
func NewItemRepository(db database.DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

// ListItems returns the whole catalog ordered by id ascending.
func (r *ItemRepository) ListItems(ctx context.Context) (_ []domain.Item, err error) {
	query := `SELECT ` + itemColumns + ` FROM products ORDER BY id ASC`

	ctx, end := database.TraceQuery(ctx, "ListItems", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// GetByID retrieves a single item.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (_ *domain.Item, err error) {
	query := `SELECT ` + itemColumns + ` FROM products WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetItem", query)
	defer func() { end(err) }()

	it, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("item", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return it, nil
}

// Create inserts item and sets its database-assigned id.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) (err error) {
	query := `
		INSERT INTO products (name, category, price, description, tags, rating, reviews, image)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8)
		RETURNING id`

	ctx, end := database.TraceQuery(ctx, "CreateItem", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query,
		item.Name,
		item.Category,
		item.Price.String(),
		item.Description,
		tagsOrEmpty(item.Tags),
		item.Rating,
		item.Reviews,
		item.Image,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update overwrites every column of an existing item.
func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) (err error) {
	query := `
		UPDATE products
		SET name = $2, category = $3, price = $4::numeric, description = $5,
		    tags = $6, rating = $7, reviews = $8, image = $9
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "UpdateItem", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Category,
		item.Price.String(),
		item.Description,
		tagsOrEmpty(item.Tags),
		item.Rating,
		item.Reviews,
		item.Image,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("item", strconv.FormatInt(item.ID, 10))
	}
	return nil
}

// Delete removes an item by id.
func (r *ItemRepository) Delete(ctx context.Context, id int64) (err error) {
	query := `DELETE FROM products WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteItem", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("item", strconv.FormatInt(id, 10))
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var (
		it    domain.Item
		price string
	)
	err := row.Scan(
		&it.ID,
		&it.Name,
		&it.Category,
		&price,
		&it.Description,
		&it.Tags,
		&it.Rating,
		&it.Reviews,
		&it.Image,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	if it.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price of item %d: %w", it.ID, err)
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
	return &it, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
