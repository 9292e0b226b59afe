// Package kitchen provides the application layer for the pantry and recipe
// flows. Every flow is a thin caller of the ingredient engine; this package
// adds persistence, caching, validation and observability around it.
package kitchen

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/errors"
)

const (
	defaultPageSize       = 20
	defaultAnalysisTTL    = 10 * time.Minute
	tracerName            = "github.com/alchemorsel/pantry/internal/application/kitchen"
	defaultSuggestionSize = 10
)

// Config tunes the kitchen service
type Config struct {
	AnalysisCacheTTL time.Duration
}

// KitchenService implements the kitchen use cases
type KitchenService struct {
	recipes  outbound.RecipeRepository
	pantries outbound.PantryRepository
	cache    outbound.CacheRepository
	events   outbound.EventPublisher
	metrics  outbound.MetricsRecorder
	config   Config
	validate *validator.Validate
	tracer   trace.Tracer
	logger   *zap.Logger
	now      func() time.Time
}

// NewKitchenService creates a new kitchen service. A nil event publisher or
// metrics recorder disables that concern.
func NewKitchenService(
	recipes outbound.RecipeRepository,
	pantries outbound.PantryRepository,
	cache outbound.CacheRepository,
	events outbound.EventPublisher,
	metrics outbound.MetricsRecorder,
	config Config,
	logger *zap.Logger,
) *KitchenService {
	if config.AnalysisCacheTTL <= 0 {
		config.AnalysisCacheTTL = defaultAnalysisTTL
	}
	if events == nil {
		events = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &KitchenService{
		recipes:  recipes,
		pantries: pantries,
		cache:    cache,
		events:   events,
		metrics:  metrics,
		config:   config,
		validate: validator.New(),
		tracer:   otel.Tracer(tracerName),
		logger:   logger.Named("kitchen-service"),
		now:      time.Now,
	}
}

var _ inbound.KitchenService = (*KitchenService)(nil)

// ParseLine extracts the canonical name and quantity of one line
func (s *KitchenService) ParseLine(ctx context.Context, cmd inbound.ParseLineCommand) (*inbound.ParsedLineDTO, error) {
	if err := s.validateStruct(cmd); err != nil {
		return nil, err
	}

	dto := &inbound.ParsedLineDTO{
		Original: cmd.Text,
		Name:     ingredient.Normalize(cmd.Text),
	}
	if pq, ok := ingredient.ParseQuantity(cmd.Text); ok {
		dto.Quantity = quantityToDTO(&pq)
	}
	return dto, nil
}

// ScaleLines rescales free ingredient lines
func (s *KitchenService) ScaleLines(ctx context.Context, cmd inbound.ScaleCommand) (*inbound.ScaledLinesDTO, error) {
	_, span := s.startSpan(ctx, "ScaleLines", attribute.Int("lines", len(cmd.Lines)))
	defer span.End()

	if err := s.validateStruct(cmd); err != nil {
		return nil, s.fail(span, err)
	}

	lines, err := ingredient.ScaleAll(cmd.Lines, cmd.OriginalServings, cmd.NewServings)
	s.metrics.RecordScaling(len(cmd.Lines), err)
	if err != nil {
		return nil, s.fail(span, err)
	}

	return &inbound.ScaledLinesDTO{
		OriginalServings: cmd.OriginalServings,
		Servings:         cmd.NewServings,
		Lines:            lines,
	}, nil
}

// AnalyzeLines analyzes lines against snapshots supplied by the caller.
// Nothing is loaded or stored; the report carries generation 0.
func (s *KitchenService) AnalyzeLines(ctx context.Context, cmd inbound.AnalyzeLinesCommand) (*inbound.ReportDTO, error) {
	_, span := s.startSpan(ctx, "AnalyzeLines", attribute.Int("lines", len(cmd.Lines)))
	defer span.End()

	if err := s.validateStruct(cmd); err != nil {
		return nil, s.fail(span, err)
	}

	start := time.Now()
	items := ingredient.Analyze(cmd.Lines, inventoryFromInput(cmd.Inventory), shoppingListFromInput(cmd.ShoppingList))
	report := ingredient.Report{
		Items:      items,
		Summary:    ingredient.Summarize(items),
		AnalyzedAt: s.now(),
	}
	s.metrics.RecordAnalysis("lines", report.Summary, time.Since(start))

	return reportToDTO(report), nil
}

// CreateRecipe creates a new recipe
func (s *KitchenService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	ctx, span := s.startSpan(ctx, "CreateRecipe")
	defer span.End()

	if err := s.validateStruct(cmd); err != nil {
		return nil, s.fail(span, err)
	}

	s.logger.Info("Creating new recipe",
		zap.String("title", cmd.Title),
		zap.Int("ingredients", len(cmd.Ingredients)),
	)

	r, err := recipe.NewRecipe(cmd.Title, cmd.Description, cmd.BaseServings, cmd.Ingredients)
	if err != nil {
		if mapped := domainError(err); mapped != nil {
			return nil, s.fail(span, mapped)
		}
		return nil, s.fail(span, errors.Wrap(err, "failed to create recipe entity"))
	}

	if err := s.recipes.Create(ctx, r); err != nil {
		return nil, s.fail(span, repositoryError("create recipe", err))
	}
	s.publish(ctx, r.Events()...)

	dto := recipeToDTO(r)
	s.logger.Info("Recipe created successfully",
		zap.String("recipe_id", dto.ID.String()),
		zap.String("title", dto.Title),
	)
	return dto, nil
}

// GetRecipe returns one recipe
func (s *KitchenService) GetRecipe(ctx context.Context, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	r, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return recipeToDTO(r), nil
}

// ListRecipes returns a page of recipes
func (s *KitchenService) ListRecipes(ctx context.Context, params inbound.PaginationParams) (*inbound.RecipeList, error) {
	if err := s.validateStruct(params); err != nil {
		return nil, err
	}
	if params.Limit == 0 {
		params.Limit = defaultPageSize
	}

	recipes, total, err := s.recipes.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, repositoryError("list recipes", err)
	}

	list := &inbound.RecipeList{
		Recipes: make([]*inbound.RecipeDTO, 0, len(recipes)),
		Total:   total,
		Offset:  params.Offset,
		Limit:   params.Limit,
	}
	for _, r := range recipes {
		list.Recipes = append(list.Recipes, recipeToDTO(r))
	}
	return list, nil
}

// ScaleRecipe returns a recipe's lines for servings, always scaled from its base text
func (s *KitchenService) ScaleRecipe(ctx context.Context, recipeID uuid.UUID, servings float64) (*inbound.ScaledLinesDTO, error) {
	ctx, span := s.startSpan(ctx, "ScaleRecipe", attribute.String("recipe.id", recipeID.String()))
	defer span.End()

	r, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, s.fail(span, err)
	}

	scaled, err := s.scaleRecipe(r, servings)
	if err != nil {
		return nil, s.fail(span, err)
	}

	id := r.ID()
	return &inbound.ScaledLinesDTO{
		RecipeID:         &id,
		OriginalServings: r.BaseServings(),
		Servings:         scaled.Servings,
		Lines:            scaled.Lines,
	}, nil
}

func (s *KitchenService) findRecipe(ctx context.Context, recipeID uuid.UUID) (*recipe.Recipe, error) {
	r, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, repositoryError("find recipe", err)
	}
	if r == nil {
		return nil, errors.NewRecipeNotFoundError(recipeID.String())
	}
	return r, nil
}

// scaleRecipe scales to servings, or to the base servings when servings is 0.
func (s *KitchenService) scaleRecipe(r *recipe.Recipe, servings float64) (recipe.ScaledRecipe, error) {
	if servings == 0 {
		servings = r.BaseServings()
	}
	scaled, err := r.Scale(servings)
	s.metrics.RecordScaling(len(scaled.Lines), err)
	return scaled, err
}

func (s *KitchenService) loadPantry(ctx context.Context) (*pantry.Pantry, error) {
	p, err := s.pantries.Load(ctx)
	if err != nil {
		return nil, repositoryError("load pantry", err)
	}
	return p, nil
}

func (s *KitchenService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish events",
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}

func (s *KitchenService) validateStruct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewValidationError(err.Error())
	}

	out := make([]errors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, errors.ValidationError{
			Field:   fe.Namespace(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: validationMessage(fe),
		})
	}
	return errors.NewValidationErrors(out)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func (s *KitchenService) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "kitchen."+name, trace.WithAttributes(attrs...))
}

func (s *KitchenService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

var validationFailures = []error{
	pantry.ErrItemNameRequired,
	pantry.ErrNegativeQuantity,
	pantry.ErrZeroQuantity,
	pantry.ErrInvalidConsumeQty,
	recipe.ErrTitleTooShort,
	recipe.ErrTitleTooLong,
	recipe.ErrDescriptionTooLong,
	recipe.ErrInvalidServings,
	recipe.ErrNoIngredients,
	recipe.ErrTooManyIngredients,
}

// domainError maps domain sentinel errors onto application errors. It
// returns nil for anything that did not come from the domain.
func domainError(err error) error {
	if stderrors.Is(err, pantry.ErrDuplicateItem) {
		return errors.NewConflictError(err.Error()).WithCause(err)
	}

	for _, target := range validationFailures {
		if stderrors.Is(err, target) {
			return errors.NewValidationError(err.Error()).WithCause(err)
		}
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// repositoryError keeps application errors raised by adapters and wraps the rest
func repositoryError(operation string, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.NewDatabaseError(operation, err)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...shared.DomainEvent) error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordAnalysis(string, ingredient.Summary, time.Duration) {}
func (nopMetrics) RecordScaling(int, error)                                 {}
func (nopMetrics) RecordCacheLookup(bool)                                   {}
func (nopMetrics) RecordBulkWrite(string, int, int)                         {}
