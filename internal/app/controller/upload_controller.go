package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/saascom/storefront-gateway/internal/errors"
	"github.com/saascom/storefront-gateway/internal/middleware"
	"github.com/saascom/storefront-gateway/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{storage: storage}
}

type CoverUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignCover issues a presigned upload URL for a product cover image
// POST /api/v1/uploads/cover
func (ctrl *UploadController) PresignCover(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CoverUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Dados inválidos")
		return
	}

	upload, err := ctrl.storage.PresignCoverUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidContentType) {
			apierrors.BadRequest(c, apierrors.UploadInvalidFileType,
				"Formato de imagem não suportado")
			return
		}
		log.Error("Failed to presign cover upload", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apierrors.RespondWithError(c, http.StatusInternalServerError, apierrors.UploadFailed,
			"Não foi possível preparar o upload")
		return
	}

	c.JSON(http.StatusOK, upload)
}
