package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saascom/storefront-gateway/pkg/storeapi"
)

// ErrorInfo is a parsed upstream error
type ErrorInfo struct {
	Status  int    // HTTP status to answer with
	Code    string // error code (codes.go)
	Message string // user-facing message
}

// ParseUpstream maps an upstream client error onto a response status, code
// and message. context names the resource for the not-found message.
func ParseUpstream(err error, context string) ErrorInfo {
	switch {
	case errors.Is(err, storeapi.ErrUnauthorized):
		return ErrorInfo{
			Status:  http.StatusUnauthorized,
			Code:    AuthTokenInvalid,
			Message: "Sessão expirada. Faça login novamente",
		}
	case errors.Is(err, storeapi.ErrNotFound):
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	case errors.Is(err, storeapi.ErrInvalidRequest):
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ValidationInvalidInput,
			Message: "Dados inválidos",
		}
	case errors.Is(err, storeapi.ErrNetwork):
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    UpstreamUnavailable,
			Message: "O serviço está indisponível no momento. Tente novamente",
		}
	default:
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: "Ocorreu um erro no servidor. Tente novamente mais tarde",
		}
	}
}

// RespondUpstream parses an upstream error and writes the matching response
func RespondUpstream(c *gin.Context, err error, context string) {
	info := ParseUpstream(err, context)
	RespondWithError(c, info.Status, info.Code, info.Message)
}

func notFoundMessage(context string) string {
	switch context {
	case "solution":
		return "Produto não encontrado"
	case "category":
		return "Categoria não encontrada"
	case "cart":
		return "Item do carrinho não encontrado"
	default:
		return "Recurso não encontrado"
	}
}
