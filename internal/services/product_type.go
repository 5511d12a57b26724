package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"print-portal/internal/dto"
	"print-portal/internal/entities"
	"print-portal/internal/repositories"
	apperrors "print-portal/pkg/errors"
	"print-portal/pkg/utils"
)

const (
	productTypesCacheKey = "catalog:product_types"
	productTypesCacheTTL = 10 * time.Minute
)

type ProductTypeServiceInterface interface {
	ListProductTypes(ctx context.Context) ([]entities.ProductType, error)
	FindProductType(ctx context.Context, id uint64) (*entities.ProductType, error)
	CreateProductType(ctx context.Context, d dto.CreateProductTypeDTO) (uint64, error)
	RenameProductType(ctx context.Context, id uint64, d dto.UpdateProductTypeDTO) error
	DeleteProductType(ctx context.Context, id uint64) error
}

type ProductTypeService struct {
	repo   repositories.ProductTypeRepositoryInterface
	cache  repositories.CacheRepositoryInterface
	logger *zap.Logger
}

func NewProductTypeService(
	repo repositories.ProductTypeRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) ProductTypeServiceInterface {
	return &ProductTypeService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ListProductTypes — каталог с кешем-на-чтение: промах идёт в БД и
// прогревает кеш, ошибка кеша деградирует до прямого чтения.
func (s *ProductTypeService) ListProductTypes(ctx context.Context) ([]entities.ProductType, error) {
	if cached, err := s.cache.Get(ctx, productTypesCacheKey); err == nil && cached != "" {
		var productTypes []entities.ProductType
		if err := json.Unmarshal([]byte(cached), &productTypes); err == nil {
			return productTypes, nil
		}
		s.logger.Warn("повреждённое значение в кеше каталога, читаем из БД")
	}

	productTypes, err := s.repo.ListProductTypes(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(productTypes); err == nil {
		if err := s.cache.Set(ctx, productTypesCacheKey, string(payload), productTypesCacheTTL); err != nil {
			s.logger.Warn("не удалось прогреть кеш каталога", zap.Error(err))
		}
	}
	return productTypes, nil
}

func (s *ProductTypeService) FindProductType(ctx context.Context, id uint64) (*entities.ProductType, error) {
	return s.repo.FindProductType(ctx, id)
}

func (s *ProductTypeService) CreateProductType(ctx context.Context, d dto.CreateProductTypeDTO) (uint64, error) {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	pt := entities.ProductType{
		Name:     d.Name,
		IsCustom: true,
	}
	pt.CreatedByUserID.SetValid(caller.ID)

	id, err := s.repo.CreateProductType(ctx, pt)
	if err != nil {
		return 0, err
	}
	s.invalidateCache(ctx)
	return id, nil
}

func (s *ProductTypeService) RenameProductType(ctx context.Context, id uint64, d dto.UpdateProductTypeDTO) error {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return err
	}
	if !caller.IsStaff() {
		return apperrors.ErrForbidden
	}

	if err := s.repo.RenameProductType(ctx, id, d.Name); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *ProductTypeService) DeleteProductType(ctx context.Context, id uint64) error {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return err
	}
	if !caller.IsStaff() {
		return apperrors.ErrForbidden
	}

	if err := s.repo.DeleteProductType(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *ProductTypeService) invalidateCache(ctx context.Context) {
	if err := s.cache.Del(ctx, productTypesCacheKey); err != nil {
		s.logger.Warn("не удалось сбросить кеш каталога", zap.Error(err))
	}
}
