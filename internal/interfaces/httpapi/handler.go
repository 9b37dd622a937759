package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/matrixrace/matrixraceapp/internal/platform/logging"
	"github.com/matrixrace/matrixraceapp/internal/usecase"
)

type Handler struct {
	eventService       *usecase.EventService
	predictionService  *usecase.PredictionService
	applicationService *usecase.ApplicationService
	rankingService     *usecase.RankingService
	resultService      *usecase.ResultService
	scoringService     *usecase.ScoringService
	ingestionService   *usecase.IngestionService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	eventService *usecase.EventService,
	predictionService *usecase.PredictionService,
	applicationService *usecase.ApplicationService,
	rankingService *usecase.RankingService,
	resultService *usecase.ResultService,
	scoringService *usecase.ScoringService,
	ingestionService *usecase.IngestionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		eventService:       eventService,
		predictionService:  predictionService,
		applicationService: applicationService,
		rankingService:     rankingService,
		resultService:      resultService,
		scoringService:     scoringService,
		ingestionService:   ingestionService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
