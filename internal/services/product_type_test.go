package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"print-portal/internal/dto"
	"print-portal/internal/entities"
	apperrors "print-portal/pkg/errors"
)

type fakeProductTypeRepo struct {
	types     map[uint64]entities.ProductType
	nextID    uint64
	listCalls int
	renamed   map[uint64]string
	deleted   []uint64
}

func newFakeProductTypeRepo() *fakeProductTypeRepo {
	return &fakeProductTypeRepo{
		types:   make(map[uint64]entities.ProductType),
		nextID:  1,
		renamed: make(map[uint64]string),
	}
}

func (f *fakeProductTypeRepo) CreateProductType(ctx context.Context, pt entities.ProductType) (uint64, error) {
	pt.ID = f.nextID
	f.nextID++
	f.types[pt.ID] = pt
	return pt.ID, nil
}

func (f *fakeProductTypeRepo) FindProductType(ctx context.Context, id uint64) (*entities.ProductType, error) {
	pt, ok := f.types[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &pt, nil
}

func (f *fakeProductTypeRepo) ListProductTypes(ctx context.Context) ([]entities.ProductType, error) {
	f.listCalls++
	var result []entities.ProductType
	for id := uint64(1); id < f.nextID; id++ {
		if pt, ok := f.types[id]; ok {
			result = append(result, pt)
		}
	}
	return result, nil
}

func (f *fakeProductTypeRepo) RenameProductType(ctx context.Context, id uint64, name string) error {
	pt, ok := f.types[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	pt.Name = name
	f.types[id] = pt
	f.renamed[id] = name
	return nil
}

func (f *fakeProductTypeRepo) DeleteProductType(ctx context.Context, id uint64) error {
	pt, ok := f.types[id]
	if !ok || !pt.IsCustom {
		return apperrors.ErrNotFound
	}
	delete(f.types, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCache struct {
	values   map[string]string
	getErr   error
	gets     int
	dels     []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.gets++
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.values[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
		f.dels = append(f.dels, key)
	}
	return nil
}

func newProductTypeFixture() (ProductTypeServiceInterface, *fakeProductTypeRepo, *fakeCache) {
	repo := newFakeProductTypeRepo()
	repo.types[1] = entities.ProductType{ID: 1, Name: "Визитки"}
	repo.nextID = 2
	cache := newFakeCache()
	return NewProductTypeService(repo, cache, zap.NewNop()), repo, cache
}

func TestProductTypeService_ListWarmsCache(t *testing.T) {
	service, repo, cache := newProductTypeFixture()

	first, err := service.ListProductTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, repo.listCalls, "промах кеша идёт в БД")
	assert.NotEmpty(t, cache.values[productTypesCacheKey], "чтение прогревает кеш")

	second, err := service.ListProductTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls, "повторное чтение обслуживается из кеша")
}

func TestProductTypeService_CacheFailureDegradesToRepo(t *testing.T) {
	service, repo, cache := newProductTypeFixture()
	cache.getErr = errors.New("redis недоступен")

	result, err := service.ListProductTypes(context.Background())
	require.NoError(t, err, "сбой кеша не должен ломать чтение каталога")
	assert.Len(t, result, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestProductTypeService_CorruptCacheFallsBack(t *testing.T) {
	service, repo, cache := newProductTypeFixture()
	cache.values[productTypesCacheKey] = "{не json"

	result, err := service.ListProductTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, 1, repo.listCalls, "повреждённое значение игнорируется, читаем из БД")
}

func TestProductTypeService_CreateMarksCustomAndInvalidates(t *testing.T) {
	service, repo, cache := newProductTypeFixture()
	cache.values[productTypesCacheKey] = "устаревший снимок"

	id, err := service.CreateProductType(ctxWithCaller(clientCaller), dto.CreateProductTypeDTO{Name: "Кружки"})
	require.NoError(t, err)

	created := repo.types[id]
	assert.True(t, created.IsCustom, "созданный пользователем тип помечается пользовательским")
	assert.Equal(t, clientCaller.ID, created.CreatedByUserID.Uint64)
	assert.NotContains(t, cache.values, productTypesCacheKey, "мутация сбрасывает кеш")
}

func TestProductTypeService_RenameAndDeleteAreStaffOnly(t *testing.T) {
	service, _, _ := newProductTypeFixture()

	err := service.RenameProductType(ctxWithCaller(clientCaller), 1, dto.UpdateProductTypeDTO{Name: "Другое"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = service.DeleteProductType(ctxWithCaller(clientCaller), 1)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestProductTypeService_RenameKeepsSnapshotsIntact(t *testing.T) {
	service, repo, _ := newProductTypeFixture()

	err := service.RenameProductType(ctxWithCaller(staffCaller), 1, dto.UpdateProductTypeDTO{Name: "Визитки премиум"})
	require.NoError(t, err)
	assert.Equal(t, "Визитки премиум", repo.types[1].Name)
	// Снимки названия в существующих позициях заказов при этом не
	// перезаписываются: за это отвечает денормализация в sub_orders.
}

func TestProductTypeService_CachedPayloadRoundTrips(t *testing.T) {
	service, _, cache := newProductTypeFixture()

	_, err := service.ListProductTypes(context.Background())
	require.NoError(t, err)

	var cached []entities.ProductType
	require.NoError(t, json.Unmarshal([]byte(cache.values[productTypesCacheKey]), &cached))
	require.Len(t, cached, 1)
	assert.Equal(t, "Визитки", cached[0].Name)
}
