package compose

import (
	"bytes"
	"errors"
	"fmt"

	"doc-composer/core/docx"
	"doc-composer/core/logger"
	"doc-composer/core/manifest"
	"doc-composer/core/resolve"
	"doc-composer/core/storage"
	"doc-composer/core/validation"
	"doc-composer/feature/report"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ResolveRequest is the body of POST /resolve.
type ResolveRequest struct {
	Manifest  string   `json:"manifest" validate:"required"`
	Threshold *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// ComposeRequest is the body of POST /compose.
type ComposeRequest struct {
	Manifest  string   `json:"manifest" validate:"required"`
	Master    string   `json:"master,omitempty"`
	Threshold *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	// AcceptFuzzy uses fuzzy matches without confirmation; otherwise they are rejected.
	AcceptFuzzy bool `json:"accept_fuzzy"`
}

// ResolveResponse is returned by POST /resolve.
type ResolveResponse struct {
	Results []resolve.Result `json:"results"`
	Summary report.Summary   `json:"summary"`
}

// LibraryResponse is returned by GET /library.
type LibraryResponse struct {
	Items      []resolve.Item      `json:"items"`
	Collisions []resolve.Collision `json:"collisions"`
	Shadowed   []resolve.Item      `json:"shadowed"`
}

// Handler handles HTTP requests for composition.
type Handler struct {
	service   *Service
	validator *validation.Validator
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validator: validation.New("json")}
}

// RegisterRoutes registers the compose routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/library", h.HandleLibrary)
	app.Post("/resolve", h.HandleResolve)
	app.Post("/compose", h.HandleCompose)
}

// HandleLibrary lists the indexed library.
// @Summary List Library
// @Description Lists every library document the resolver can match, with name collisions and documents shadowed by a higher-priority source.
// @Tags library
// @Produce json
// @Success 200 {object} LibraryResponse
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /library [get]
func (h *Handler) HandleLibrary(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	snap, err := h.service.Snapshot(c.Context())
	if err != nil {
		l.Error("Failed to load library", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(LibraryResponse{
		Items:      snap.Index.Items(),
		Collisions: nonNil(snap.Index.Collisions()),
		Shadowed:   nonNil(snap.Index.Shadowed()),
	})
}

// HandleResolve resolves a manifest without assembling anything.
// @Summary Resolve Manifest
// @Description Matches every bullet of a markdown manifest against the library and returns the per-entry results with a summary.
// @Tags compose
// @Accept json
// @Produce json
// @Param request body ResolveRequest true "Manifest"
// @Success 200 {object} ResolveResponse
// @Failure 400 {object} map[string]string "Invalid Request"
// @Failure 409 {object} map[string]string "Library Name Collision"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /resolve [post]
func (h *Handler) HandleResolve(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	svc := h.service
	if req.Threshold != nil {
		opts := svc.Options()
		opts.Threshold = *req.Threshold
		svc = svc.With(opts)
	}

	plan, err := svc.Plan(c.Context(), req.Manifest)
	if err != nil {
		l.Warn("Resolve failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(ResolveResponse{
		Results: plan.Results,
		Summary: report.Build(plan.Results, plan.Snapshot.Index, report.DefaultSuggestions),
	})
}

// HandleCompose resolves a manifest and returns the assembled document.
// @Summary Compose Document
// @Description Resolves a markdown manifest, merges the matched pages onto the master template and returns the .docx file. Fuzzy matches are used only when accept_fuzzy is set.
// @Tags compose
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param request body ComposeRequest true "Manifest and options"
// @Success 200 {file} file "Composed document"
// @Failure 400 {object} map[string]string "Invalid Request"
// @Failure 409 {object} map[string]string "Rejected or colliding match"
// @Failure 422 {object} map[string]string "Nothing to compose"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /compose [post]
func (h *Handler) HandleCompose(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req ComposeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Master != "" {
		if _, _, ok := storage.ParseLocation(req.Master); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "master must be an " + storage.Scheme + " location"})
		}
	}

	opts := h.service.Options()
	if req.Threshold != nil {
		opts.Threshold = *req.Threshold
	}
	// Nobody can be asked over HTTP.
	opts.Interactive = !req.AcceptFuzzy
	svc := h.service.With(opts)

	var buf bytes.Buffer
	out, err := svc.Compose(c.Context(), Request{
		Manifest:  req.Manifest,
		Master:    req.Master,
		Writer:    &buf,
		Confirmer: RejectAll,
	})
	if err != nil {
		l.Warn("Compose failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Document composed",
		zap.Int("pages", out.Merge.Pages),
		zap.Int64("bytes", out.Size),
	)

	c.Set(fiber.HeaderContentType, docx.MediaType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="composed.docx"`)
	c.Set("X-Compose-Pages", fmt.Sprint(out.Merge.Pages))
	c.Set("X-Compose-Skipped", fmt.Sprint(len(out.Plan.Results)-len(out.Selected)))
	return c.Send(buf.Bytes())
}

func statusFor(err error) int {
	var verr *validation.Error
	switch {
	case errors.Is(err, manifest.ErrEmptyManifest),
		errors.Is(err, resolve.ErrInvalidThreshold),
		errors.Is(err, ErrNoMaster),
		errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.Is(err, resolve.ErrNameCollision),
		errors.Is(err, ErrFuzzyRejected):
		return fiber.StatusConflict
	case errors.Is(err, ErrUnresolved),
		errors.Is(err, ErrNothingToCompose):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
