package service

import (
	"context"
	"strings"

	"github.com/saascom/storefront-gateway/internal/app/model"
	"github.com/saascom/storefront-gateway/pkg/logger"
	"github.com/saascom/storefront-gateway/pkg/storeapi"
)

// CategoryAPI is the slice of the upstream client the category service uses.
type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]storeapi.Category, error)
	CreateCategory(ctx context.Context, name string) (*storeapi.Category, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, name string) (*model.Category, error)
}

type categoryService struct {
	api CategoryAPI
}

func NewCategoryService(api CategoryAPI) CategoryService {
	return &categoryService{api: api}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		logger.Error("Failed to list categories", err, nil)
		return nil, err
	}

	result := make([]model.Category, 0, len(categories))
	for _, category := range categories {
		result = append(result, model.Category{ID: category.ID, Name: category.Name})
	}
	return result, nil
}

func (s *categoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Fields: map[string]string{
			"name": "Digite o nome da categoria",
		}}
	}

	category, err := s.api.CreateCategory(ctx, name)
	if err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return &model.Category{ID: category.ID, Name: category.Name}, nil
}
