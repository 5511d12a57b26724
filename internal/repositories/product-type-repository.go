package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"print-portal/internal/entities"
	apperrors "print-portal/pkg/errors"
)

type ProductTypeRepositoryInterface interface {
	CreateProductType(ctx context.Context, pt entities.ProductType) (uint64, error)
	FindProductType(ctx context.Context, id uint64) (*entities.ProductType, error)
	ListProductTypes(ctx context.Context) ([]entities.ProductType, error)
	RenameProductType(ctx context.Context, id uint64, name string) error
	DeleteProductType(ctx context.Context, id uint64) error
}

type ProductTypeRepository struct {
	storage *pgxpool.Pool
}

func NewProductTypeRepository(storage *pgxpool.Pool) ProductTypeRepositoryInterface {
	return &ProductTypeRepository{
		storage: storage,
	}
}

func (r *ProductTypeRepository) CreateProductType(ctx context.Context, pt entities.ProductType) (uint64, error) {
	query := `
		INSERT INTO product_types (name, is_custom, created_by_user_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id`

	var id uint64
	if err := r.storage.QueryRow(ctx, query, pt.Name, pt.IsCustom, pt.CreatedByUserID).Scan(&id); err != nil {
		return 0, apperrors.NewPersistenceError("createProductType", err)
	}
	return id, nil
}

func (r *ProductTypeRepository) FindProductType(ctx context.Context, id uint64) (*entities.ProductType, error) {
	query := `SELECT id, name, is_custom, created_by_user_id, created_at FROM product_types WHERE id = $1`

	var pt entities.ProductType
	err := r.storage.QueryRow(ctx, query, id).Scan(&pt.ID, &pt.Name, &pt.IsCustom, &pt.CreatedByUserID, &pt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования типа продукции: %w", err)
	}
	return &pt, nil
}

func (r *ProductTypeRepository) ListProductTypes(ctx context.Context) ([]entities.ProductType, error) {
	query := `SELECT id, name, is_custom, created_by_user_id, created_at FROM product_types ORDER BY id`

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения каталога типов продукции: %w", err)
	}
	defer rows.Close()

	productTypes := make([]entities.ProductType, 0)
	for rows.Next() {
		var pt entities.ProductType
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.IsCustom, &pt.CreatedByUserID, &pt.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования типа продукции: %w", err)
		}
		productTypes = append(productTypes, pt)
	}
	return productTypes, rows.Err()
}

// RenameProductType меняет название в каталоге. Снимки названия в уже
// созданных позициях заказов намеренно не трогаются.
func (r *ProductTypeRepository) RenameProductType(ctx context.Context, id uint64, name string) error {
	tag, err := r.storage.Exec(ctx, `UPDATE product_types SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("ошибка переименования типа продукции: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ProductTypeRepository) DeleteProductType(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM product_types WHERE id = $1 AND is_custom = TRUE`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления типа продукции: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
