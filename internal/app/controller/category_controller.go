package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saascom/storefront-gateway/internal/app/service"
	apierrors "github.com/saascom/storefront-gateway/internal/errors"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// ListCategories returns all catalog categories
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.List(c.Request.Context())
	if err != nil {
		apierrors.RespondUpstream(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory registers a new category
// POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Dados inválidos")
		return
	}

	category, err := ctrl.categoryService.Create(c.Request.Context(), req.Name)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			apierrors.RespondWithValidationError(c, vErr.Fields)
			return
		}
		apierrors.RespondUpstream(c, err, "category")
		return
	}

	c.JSON(http.StatusCreated, category)
}
