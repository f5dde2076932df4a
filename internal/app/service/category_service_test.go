package service

import (
	"context"
	"errors"
	"testing"

	"github.com/saascom/storefront-gateway/pkg/storeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryAPI struct {
	categories  []storeapi.Category
	createCalls int
	lastName    string
	err         error
}

func (f *fakeCategoryAPI) ListCategories(ctx context.Context) ([]storeapi.Category, error) {
	return f.categories, f.err
}

func (f *fakeCategoryAPI) CreateCategory(ctx context.Context, name string) (*storeapi.Category, error) {
	f.createCalls++
	f.lastName = name
	if f.err != nil {
		return nil, f.err
	}
	return &storeapi.Category{ID: 5, Name: name}, nil
}

func TestCategoryService_List(t *testing.T) {
	api := &fakeCategoryAPI{categories: []storeapi.Category{
		{ID: 1, Name: "Serviços"},
		{ID: 2, Name: "Produtos"},
	}}
	svc := NewCategoryService(api)

	categories, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Serviços", categories[0].Name)
}

func TestCategoryService_Create_TrimsName(t *testing.T) {
	api := &fakeCategoryAPI{}
	svc := NewCategoryService(api)

	category, err := svc.Create(context.Background(), "  Serviços  ")
	require.NoError(t, err)
	assert.Equal(t, "Serviços", category.Name)
	assert.Equal(t, "Serviços", api.lastName)
}

func TestCategoryService_Create_EmptyName(t *testing.T) {
	api := &fakeCategoryAPI{}
	svc := NewCategoryService(api)

	_, err := svc.Create(context.Background(), "   ")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Zero(t, api.createCalls)
}
