package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-service/internal/api/dto"
	"github.com/spec-kit/moderation-service/internal/auth"
	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/moderation"
	"github.com/spec-kit/moderation-service/internal/service"
	apperrors "github.com/spec-kit/moderation-service/pkg/util/errorutil"
)

// ModerationHandler exposes the unified work queue to the admin UI.
type ModerationHandler struct {
	service *service.ModerationService
}

// NewModerationHandler constructs handler.
func NewModerationHandler(moderationService *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{service: moderationService}
}

// Queue GET /moderation/queue.
func (h *ModerationHandler) Queue(c *fiber.Ctx) error {
	filter := moderation.QueueFilter{
		Search: c.Query("search"),
		Kind:   c.Query("kind", moderation.FilterAll),
		Status: c.Query("status", moderation.FilterAll),
	}
	items := h.service.Queue(filter)

	selection := h.service.Selection()
	selected := make(map[string]struct{}, len(selection))
	for _, id := range selection {
		selected[id] = struct{}{}
	}

	resp := dto.QueueResponse{
		Items:           make([]dto.QueueItemResponse, 0, len(items)),
		Selection:       selection,
		PersistenceMode: string(h.service.PersistenceMode()),
	}
	for _, item := range items {
		_, isSelected := selected[item.QueueID]
		resp.Items = append(resp.Items, dto.QueueItemResponse{
			QueueID:    item.QueueID,
			Kind:       string(item.Kind),
			ItemID:     item.ItemID,
			Title:      item.Title,
			Subject:    item.Subject,
			Reason:     item.Reason,
			Status:     item.Status,
			CreatedAt:  item.CreatedAt,
			Busy:       h.service.Busy(item.QueueID),
			Selected:   isSelected,
			Reversible: moderation.CanReverse(item),
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Action POST /moderation/queue/:queueId/actions.
func (h *ModerationHandler) Action(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewUnauthorized("admin required")
	}

	var req dto.ActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Action) == "" {
		return apperrors.NewValidationError("action required", nil)
	}

	queueID := c.Params("queueId")
	applied, err := h.service.Dispatch(c.Context(), queueID, req.Action, actionRequest(req, principal.Admin.ID))
	if err != nil {
		return apperrors.NewNotFound("queue item", map[string]any{"queue_id": queueID})
	}

	status := http.StatusOK
	if !applied {
		status = http.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"data": dto.ActionResponse{
		QueueID: queueID,
		Action:  req.Action,
		Applied: applied,
	}})
}

// Explain GET /moderation/queue/:queueId/explain.
func (h *ModerationHandler) Explain(c *fiber.Ctx) error {
	queueID := c.Params("queueId")
	explanation, reversible, err := h.service.Explain(queueID)
	if err != nil {
		return apperrors.NewNotFound("queue item", map[string]any{"queue_id": queueID})
	}
	return c.JSON(fiber.Map{"data": dto.ExplainResponse{
		QueueID:     queueID,
		Explanation: explanation,
		Reversible:  reversible,
	}})
}

// History GET /moderation/queue/:queueId/history.
func (h *ModerationHandler) History(c *fiber.Ctx) error {
	queueID := c.Params("queueId")
	entries := h.service.History(queueID)

	resp := make([]dto.DecisionResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.DecisionResponse{
			ID:        entry.ID,
			QueueID:   entry.QueueID,
			Action:    entry.Action,
			Note:      entry.Note,
			CreatedBy: entry.CreatedBy,
			CreatedAt: entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Select POST /moderation/selection.
func (h *ModerationHandler) Select(c *fiber.Ctx) error {
	var req dto.SelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	count := h.service.Select(req.QueueIDs)
	return c.JSON(fiber.Map{"data": dto.SelectionResponse{Selected: count}})
}

// ClearSelection DELETE /moderation/selection.
func (h *ModerationHandler) ClearSelection(c *fiber.Ctx) error {
	h.service.ClearSelection()
	return c.JSON(fiber.Map{"data": dto.SelectionResponse{Selected: 0}})
}

// Bulk POST /moderation/bulk.
func (h *ModerationHandler) Bulk(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewUnauthorized("admin required")
	}

	var req dto.BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	mode := moderation.BulkMode(req.Mode)
	if !mode.Valid() {
		return apperrors.NewValidationError("mode must be reactivate or suspend", nil)
	}

	base := domain.ActionRequest{Reason: req.Reason, Actor: principal.Admin.ID}
	results, err := h.service.RunBulk(c.Context(), mode, base)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	resp := make([]dto.BulkItemResponse, 0, len(results))
	for _, result := range results {
		item := dto.BulkItemResponse{
			QueueID: result.QueueID,
			Action:  result.Action,
			OK:      result.OK,
			Skipped: result.Skipped,
		}
		if result.Err != nil {
			item.Error = result.Err.Error()
		}
		resp = append(resp, item)
	}
	return c.JSON(fiber.Map{"data": resp})
}

func actionRequest(req dto.ActionRequest, actorID string) domain.ActionRequest {
	out := domain.ActionRequest{
		Reason:     req.Reason,
		NotifyUser: req.NotifyUser,
		Actor:      actorID,
	}
	if req.DurationHours != nil && *req.DurationHours > 0 {
		duration := time.Duration(*req.DurationHours) * time.Hour
		out.Duration = &duration
	}
	return out
}
