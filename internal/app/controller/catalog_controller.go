package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saascom/storefront-gateway/internal/app/service"
	apierrors "github.com/saascom/storefront-gateway/internal/errors"
	"github.com/saascom/storefront-gateway/internal/middleware"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// ListSolutions returns the whole catalog
// GET /api/v1/solutions
func (ctrl *CatalogController) ListSolutions(c *gin.Context) {
	products, err := ctrl.catalogService.List(c.Request.Context())
	if err != nil {
		apierrors.RespondUpstream(c, err, "solution")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"solutions": products,
		"count":     len(products),
	})
}

// GetSolution returns one catalog entity
// GET /api/v1/solutions/:id
func (ctrl *CatalogController) GetSolution(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Produto inválido")
		return
	}

	product, err := ctrl.catalogService.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondUpstream(c, err, "solution")
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateSolution registers a new catalog entity
// POST /api/v1/solutions
func (ctrl *CatalogController) CreateSolution(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.SolutionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid solution payload", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Dados inválidos")
		return
	}

	product, err := ctrl.catalogService.Create(c.Request.Context(), input)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			apierrors.RespondWithValidationError(c, vErr.Fields)
			return
		}
		apierrors.RespondUpstream(c, err, "solution")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateSolution updates an existing catalog entity
// PUT /api/v1/solutions/:id
func (ctrl *CatalogController) UpdateSolution(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Produto inválido")
		return
	}

	var input service.SolutionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Dados inválidos")
		return
	}

	product, err := ctrl.catalogService.Update(c.Request.Context(), id, input)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			apierrors.RespondWithValidationError(c, vErr.Fields)
			return
		}
		apierrors.RespondUpstream(c, err, "solution")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteSolution removes a catalog entity
// DELETE /api/v1/solutions/:id
func (ctrl *CatalogController) DeleteSolution(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Produto inválido")
		return
	}

	if err := ctrl.catalogService.Delete(c.Request.Context(), id); err != nil {
		apierrors.RespondUpstream(c, err, "solution")
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportSolutions downloads the catalog as a spreadsheet
// GET /api/v1/solutions/export
func (ctrl *CatalogController) ExportSolutions(c *gin.Context) {
	payload, err := ctrl.catalogService.ExportXLSX(c.Request.Context())
	if err != nil {
		apierrors.RespondUpstream(c, err, "solution")
		return
	}

	filename := "catalogo-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		payload,
	)
}
