// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/pkg/errors"
)

const defaultExpiringDays = 3

// KitchenHandlers handles the recipe, pantry and engine endpoints
type KitchenHandlers struct {
	service inbound.KitchenService
	logger  *zap.Logger
}

// NewKitchenHandlers creates a new handlers instance
func NewKitchenHandlers(service inbound.KitchenService, logger *zap.Logger) *KitchenHandlers {
	return &KitchenHandlers{
		service: service,
		logger:  logger.Named("handlers"),
	}
}

// Register mounts every route on group
func (h *KitchenHandlers) Register(group *gin.RouterGroup) {
	group.POST("/normalize", h.Normalize)
	group.POST("/scale", h.Scale)
	group.POST("/analyze", h.Analyze)

	recipes := group.Group("/recipes")
	recipes.POST("", h.CreateRecipe)
	recipes.GET("", h.ListRecipes)
	recipes.GET("/:id", h.GetRecipe)
	recipes.GET("/:id/scaled", h.ScaleRecipe)
	recipes.GET("/:id/analysis", h.AnalyzeRecipe)
	recipes.POST("/:id/shopping-list", h.AddMissingToShoppingList)
	recipes.POST("/:id/cook", h.CookRecipe)

	pantry := group.Group("/pantry")
	pantry.GET("", h.GetPantry)
	pantry.POST("/inventory", h.StockItem)
	pantry.DELETE("/inventory/:id", h.RemoveInventoryItem)
	pantry.POST("/shopping-list", h.ListItem)
	pantry.DELETE("/shopping-list/:id", h.RemoveShoppingListItem)
	pantry.POST("/resolve", h.ResolveItem)

	group.GET("/suggestions/expiring", h.SuggestByExpiration)
}

// Normalize handles POST /normalize
func (h *KitchenHandlers) Normalize(c *gin.Context) {
	var cmd inbound.ParseLineCommand
	if !h.bind(c, &cmd) {
		return
	}
	h.respond(c, http.StatusOK)(h.service.ParseLine(c.Request.Context(), cmd))
}

// Scale handles POST /scale
func (h *KitchenHandlers) Scale(c *gin.Context) {
	var cmd inbound.ScaleCommand
	if !h.bind(c, &cmd) {
		return
	}
	h.respond(c, http.StatusOK)(h.service.ScaleLines(c.Request.Context(), cmd))
}

// Analyze handles POST /analyze
func (h *KitchenHandlers) Analyze(c *gin.Context) {
	var cmd inbound.AnalyzeLinesCommand
	if !h.bind(c, &cmd) {
		return
	}
	h.respond(c, http.StatusOK)(h.service.AnalyzeLines(c.Request.Context(), cmd))
}

// CreateRecipe handles POST /recipes
func (h *KitchenHandlers) CreateRecipe(c *gin.Context) {
	var cmd inbound.CreateRecipeCommand
	if !h.bind(c, &cmd) {
		return
	}
	h.respond(c, http.StatusCreated)(h.service.CreateRecipe(c.Request.Context(), cmd))
}

// ListRecipes handles GET /recipes?offset=&limit=
func (h *KitchenHandlers) ListRecipes(c *gin.Context) {
	offset, ok := h.intQuery(c, "offset", 0)
	if !ok {
		return
	}
	limit, ok := h.intQuery(c, "limit", 0)
	if !ok {
		return
	}

	params := inbound.PaginationParams{Offset: offset, Limit: limit}
	h.respond(c, http.StatusOK)(h.service.ListRecipes(c.Request.Context(), params))
}

// GetRecipe handles GET /recipes/:id
func (h *KitchenHandlers) GetRecipe(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.service.GetRecipe(c.Request.Context(), id))
}

// ScaleRecipe handles GET /recipes/:id/scaled?servings=
func (h *KitchenHandlers) ScaleRecipe(c *gin.Context) {
	id, servings, ok := h.recipeAndServings(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.service.ScaleRecipe(c.Request.Context(), id, servings))
}

// AnalyzeRecipe handles GET /recipes/:id/analysis?servings=
func (h *KitchenHandlers) AnalyzeRecipe(c *gin.Context) {
	id, servings, ok := h.recipeAndServings(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.service.AnalyzeRecipe(c.Request.Context(), id, servings))
}

// AddMissingToShoppingList handles POST /recipes/:id/shopping-list?servings=
func (h *KitchenHandlers) AddMissingToShoppingList(c *gin.Context) {
	id, servings, ok := h.recipeAndServings(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.service.AddMissingToShoppingList(c.Request.Context(), id, servings))
}

// CookRecipe handles POST /recipes/:id/cook?servings=
func (h *KitchenHandlers) CookRecipe(c *gin.Context) {
	id, servings, ok := h.recipeAndServings(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.service.CookRecipe(c.Request.Context(), id, servings))
}

// GetPantry handles GET /pantry
func (h *KitchenHandlers) GetPantry(c *gin.Context) {
	h.respond(c, http.StatusOK)(h.service.GetPantry(c.Request.Context()))
}

// StockItem handles POST /pantry/inventory
func (h *KitchenHandlers) StockItem(c *gin.Context) {
	var cmd inbound.StockItemCommand
	if !h.bind(c, &cmd) {
		return
	}
	h.respond(c, http.StatusCreated)(h.service.StockItem(c.Request.Context(), cmd))
}

// RemoveInventoryItem handles DELETE /pantry/inventory/:id
func (h *KitchenHandlers) RemoveInventoryItem(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.noContent(c, h.service.RemoveInventoryItem(c.Request.Context(), id))
}

// ListItem handles POST /pantry/shopping-list
func (h *KitchenHandlers) ListItem(c *gin.Context) {
	var cmd inbound.ListItemCommand
	if !h.bind(c, &cmd) {
		return
	}
	h.respond(c, http.StatusCreated)(h.service.ListItem(c.Request.Context(), cmd))
}

// RemoveShoppingListItem handles DELETE /pantry/shopping-list/:id
func (h *KitchenHandlers) RemoveShoppingListItem(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.noContent(c, h.service.RemoveShoppingListItem(c.Request.Context(), id))
}

// ResolveItem handles POST /pantry/resolve
func (h *KitchenHandlers) ResolveItem(c *gin.Context) {
	var cmd inbound.ResolveItemCommand
	if !h.bind(c, &cmd) {
		return
	}
	h.respond(c, http.StatusOK)(h.service.ResolveItem(c.Request.Context(), cmd))
}

// SuggestByExpiration handles GET /suggestions/expiring?days=&limit=
func (h *KitchenHandlers) SuggestByExpiration(c *gin.Context) {
	days, ok := h.intQuery(c, "days", defaultExpiringDays)
	if !ok {
		return
	}
	limit, ok := h.intQuery(c, "limit", 0)
	if !ok {
		return
	}

	query := inbound.SuggestionQuery{
		Within: time.Duration(days) * 24 * time.Hour,
		Limit:  limit,
	}
	h.respond(c, http.StatusOK)(h.service.SuggestByExpiration(c.Request.Context(), query))
}

// respond writes the result of a service call, or attaches its error for
// the error middleware.
func (h *KitchenHandlers) respond(c *gin.Context, status int) func(interface{}, error) {
	return func(data interface{}, err error) {
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(status, data)
	}
}

func (h *KitchenHandlers) noContent(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *KitchenHandlers) bind(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(errors.NewBadRequestError("Invalid request body").WithCause(err))
		return false
	}
	return true
}

func (h *KitchenHandlers) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(errors.NewInvalidArgumentError("id", "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *KitchenHandlers) recipeAndServings(c *gin.Context) (uuid.UUID, float64, bool) {
	id, ok := h.pathID(c)
	if !ok {
		return uuid.Nil, 0, false
	}

	raw := c.Query("servings")
	if raw == "" {
		return id, 0, true
	}
	servings, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		_ = c.Error(errors.NewInvalidArgumentError("servings", "must be a number"))
		return uuid.Nil, 0, false
	}
	// an absent parameter means base servings; an explicit one must be usable
	if !(servings > 0) {
		_ = c.Error(errors.NewInvalidArgumentError("servings", "must be greater than 0"))
		return uuid.Nil, 0, false
	}
	return id, servings, true
}

func (h *KitchenHandlers) intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		_ = c.Error(errors.NewInvalidArgumentError(name, "must be an integer"))
		return 0, false
	}
	return v, true
}
