package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/saascom/storefront-gateway/internal/app/cart"
	"github.com/saascom/storefront-gateway/internal/app/model"
	apierrors "github.com/saascom/storefront-gateway/internal/errors"
	"github.com/saascom/storefront-gateway/internal/middleware"
	"github.com/saascom/storefront-gateway/pkg/storeapi"
)

// CartViewHeader marks requests originating from the cart view, for the
// increment-via-add policy.
const CartViewHeader = "X-Storefront-View"

type CartController struct {
	manager *cart.Manager
	api     *storeapi.Client
}

func NewCartController(manager *cart.Manager, api *storeapi.Client) *CartController {
	return &CartController{
		manager: manager,
		api:     api,
	}
}

type AddItemRequest struct {
	SolutionID int64 `json:"solution_id" binding:"required"`
}

type ReplaceCartRequest struct {
	Lines []model.CartLine `json:"lines" binding:"required"`
}

// sync returns the caller's cart mirror bound to their credentials
func (ctrl *CartController) sync(c *gin.Context) (*cart.Synchronizer, *model.User, bool) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return nil, nil, false
	}
	bound := ctrl.api.WithToken(middleware.GetToken(c))
	return ctrl.manager.GetOrCreate(user.ID, bound, bound), user, true
}

// GetCart returns the cart mirror snapshot
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	s, _, ok := ctrl.sync(c)
	if !ok {
		return
	}

	state := s.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"lines":      state.Lines,
		"count":      len(state.Lines),
		"grandTotal": state.GrandTotal,
		"loading":    state.IsLoading,
	})
}

// AddItem puts a product in the cart, or increments it subject to policy
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	s, user, ok := ctrl.sync(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Informe o produto")
		return
	}

	bound := ctrl.api.WithToken(middleware.GetToken(c))
	solution, err := bound.GetSolution(c.Request.Context(), req.SolutionID)
	if err != nil {
		apierrors.RespondUpstream(c, err, "solution")
		return
	}

	product := model.Product{
		ID:          solution.ID,
		Title:       solution.Title,
		Description: solution.Description,
		Price:       solution.Price,
		Cover:       solution.Cover,
		Inventory:   solution.Inventory,
	}
	fromCartView := c.GetHeader(CartViewHeader) == "cart"

	if err := s.AddItem(c.Request.Context(), product, fromCartView); err != nil {
		if errors.Is(err, cart.ErrIncrementOutsideCartView) {
			apierrors.Conflict(c, apierrors.CartIncrementRestricted,
				"Este produto já está no carrinho")
			return
		}
		log.Error("Cart add failed to sync", err, map[string]interface{}{
			"user_id":     user.ID,
			"solution_id": req.SolutionID,
		})
		apierrors.RespondWithError(c, http.StatusBadGateway, apierrors.CartSyncFailed,
			"Não foi possível sincronizar o carrinho")
		return
	}

	c.JSON(http.StatusOK, s.Snapshot())
}

// IncrementItem raises a line's quantity by one
// POST /api/v1/cart/items/:productId/increment
func (ctrl *CartController) IncrementItem(c *gin.Context) {
	ctrl.step(c, func(s *cart.Synchronizer, productID int64) error {
		return s.IncrementItem(c.Request.Context(), productID)
	})
}

// DecrementItem lowers a line's quantity by one, removing the line at one
// POST /api/v1/cart/items/:productId/decrement
func (ctrl *CartController) DecrementItem(c *gin.Context) {
	ctrl.step(c, func(s *cart.Synchronizer, productID int64) error {
		return s.DecrementItem(c.Request.Context(), productID)
	})
}

func (ctrl *CartController) step(c *gin.Context, op func(*cart.Synchronizer, int64) error) {
	s, user, ok := ctrl.sync(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Produto inválido")
		return
	}

	if err := op(s, productID); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			apierrors.NotFound(c, apierrors.CartLineNotFound, "Item do carrinho não encontrado")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Cart mutation failed to sync", err, map[string]interface{}{
			"user_id":    user.ID,
			"product_id": productID,
		})
		apierrors.RespondWithError(c, http.StatusBadGateway, apierrors.CartSyncFailed,
			"Não foi possível sincronizar o carrinho")
		return
	}

	c.JSON(http.StatusOK, s.Snapshot())
}

// RemoveItem deletes a line. The UI owns the confirmation prompt; the request
// must carry confirm=true or it is refused.
// DELETE /api/v1/cart/items/:id?confirm=true
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	s, user, ok := ctrl.sync(c)
	if !ok {
		return
	}

	if c.Query("confirm") != "true" {
		apierrors.BadRequest(c, apierrors.CartConfirmRequired,
			"Confirme a exclusão do item")
		return
	}

	lineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Item inválido")
		return
	}

	if err := s.RemoveItem(c.Request.Context(), lineID); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			apierrors.NotFound(c, apierrors.CartLineNotFound, "Item do carrinho não encontrado")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Cart removal failed to sync", err, map[string]interface{}{
			"user_id": user.ID,
			"line_id": lineID,
		})
		apierrors.RespondWithError(c, http.StatusBadGateway, apierrors.CartSyncFailed,
			"Não foi possível sincronizar o carrinho")
		return
	}

	c.JSON(http.StatusOK, s.Snapshot())
}

// ReplaceCart pushes an authoritative line set back into the mirror
// PUT /api/v1/cart
func (ctrl *CartController) ReplaceCart(c *gin.Context) {
	s, _, ok := ctrl.sync(c)
	if !ok {
		return
	}

	var req ReplaceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Carrinho inválido")
		return
	}

	s.ReplaceAll(req.Lines)
	c.JSON(http.StatusOK, s.Snapshot())
}
