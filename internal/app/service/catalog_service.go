package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/saascom/storefront-gateway/internal/app/model"
	"github.com/saascom/storefront-gateway/pkg/logger"
	"github.com/saascom/storefront-gateway/pkg/storeapi"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ValidationError reports per-field validation failures. No remote call is
// issued when validation fails.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Fields))
}

// CatalogAPI is the slice of the upstream client the catalog service uses.
type CatalogAPI interface {
	ListSolutions(ctx context.Context) ([]storeapi.Solution, error)
	GetSolution(ctx context.Context, id int64) (*storeapi.Solution, error)
	CreateSolution(ctx context.Context, req storeapi.SolutionRequest) (*storeapi.Solution, error)
	UpdateSolution(ctx context.Context, id int64, req storeapi.SolutionRequest) (*storeapi.Solution, error)
	DeleteSolution(ctx context.Context, id int64) error
}

// SolutionInput is the admin form payload for catalog create/update.
type SolutionInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cover       string          `json:"cover"`
	Inventory   int             `json:"inventory"`
	CategoryID  int64           `json:"categoryId"`
}

func (in SolutionInput) validate() map[string]string {
	fields := make(map[string]string)
	if in.Title == "" {
		fields["title"] = "Digite o título do produto"
	}
	if in.Description == "" {
		fields["description"] = "Descreva o produto"
	}
	if !in.Price.IsPositive() {
		fields["price"] = "Informe um preço maior que zero"
	}
	if in.Inventory < 0 {
		fields["inventory"] = "A quantidade não pode ser negativa"
	}
	if in.Cover == "" {
		fields["cover"] = "Informe o endereço da imagem"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type CatalogService interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, input SolutionInput) (*model.Product, error)
	Update(ctx context.Context, id int64, input SolutionInput) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
	ExportXLSX(ctx context.Context) ([]byte, error)
}

type catalogService struct {
	api CatalogAPI
}

func NewCatalogService(api CatalogAPI) CatalogService {
	return &catalogService{api: api}
}

func (s *catalogService) List(ctx context.Context) ([]model.Product, error) {
	solutions, err := s.api.ListSolutions(ctx)
	if err != nil {
		logger.Error("Failed to list catalog", err, nil)
		return nil, err
	}

	products := make([]model.Product, 0, len(solutions))
	for _, solution := range solutions {
		products = append(products, toProduct(solution))
	}
	return products, nil
}

func (s *catalogService) Get(ctx context.Context, id int64) (*model.Product, error) {
	solution, err := s.api.GetSolution(ctx, id)
	if err != nil {
		logger.Error("Failed to fetch catalog entity", err, map[string]interface{}{
			"solution_id": id,
		})
		return nil, err
	}
	product := toProduct(*solution)
	return &product, nil
}

func (s *catalogService) Create(ctx context.Context, input SolutionInput) (*model.Product, error) {
	if fields := input.validate(); fields != nil {
		logger.Warn("Rejected catalog create: invalid input", map[string]interface{}{
			"fields": fields,
		})
		return nil, &ValidationError{Fields: fields}
	}

	solution, err := s.api.CreateSolution(ctx, toSolutionRequest(input))
	if err != nil {
		logger.Error("Failed to create catalog entity", err, map[string]interface{}{
			"title": input.Title,
		})
		return nil, err
	}

	logger.Info("Catalog entity created", map[string]interface{}{
		"solution_id": solution.ID,
		"title":       solution.Title,
	})
	product := toProduct(*solution)
	return &product, nil
}

func (s *catalogService) Update(ctx context.Context, id int64, input SolutionInput) (*model.Product, error) {
	if fields := input.validate(); fields != nil {
		logger.Warn("Rejected catalog update: invalid input", map[string]interface{}{
			"solution_id": id,
			"fields":      fields,
		})
		return nil, &ValidationError{Fields: fields}
	}

	solution, err := s.api.UpdateSolution(ctx, id, toSolutionRequest(input))
	if err != nil {
		logger.Error("Failed to update catalog entity", err, map[string]interface{}{
			"solution_id": id,
		})
		return nil, err
	}
	product := toProduct(*solution)
	return &product, nil
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteSolution(ctx, id); err != nil {
		logger.Error("Failed to delete catalog entity", err, map[string]interface{}{
			"solution_id": id,
		})
		return err
	}

	logger.Info("Catalog entity deleted", map[string]interface{}{
		"solution_id": id,
	})
	return nil
}

// ExportXLSX renders the whole catalog as a spreadsheet for the admin screen
func (s *catalogService) ExportXLSX(ctx context.Context) ([]byte, error) {
	solutions, err := s.api.ListSolutions(ctx)
	if err != nil {
		logger.Error("Failed to list catalog for export", err, nil)
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []interface{}{"ID", "Título", "Descrição", "Preço", "Estoque", "Imagem"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for i, solution := range solutions {
		price, _ := solution.Price.Round(2).Float64()
		row := []interface{}{
			solution.ID,
			solution.Title,
			solution.Description,
			price,
			solution.Inventory,
			solution.Cover,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write export row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize export: %w", err)
	}

	logger.Info("Catalog exported", map[string]interface{}{
		"rows": len(solutions),
	})
	return buf.Bytes(), nil
}

func toProduct(solution storeapi.Solution) model.Product {
	return model.Product{
		ID:          solution.ID,
		Title:       solution.Title,
		Description: solution.Description,
		Price:       solution.Price,
		Cover:       solution.Cover,
		Inventory:   solution.Inventory,
	}
}

func toSolutionRequest(input SolutionInput) storeapi.SolutionRequest {
	return storeapi.SolutionRequest{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Cover:       input.Cover,
		Inventory:   input.Inventory,
		CategoryID:  input.CategoryID,
	}
}
