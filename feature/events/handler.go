package events

import (
	"context"

	"stripe-sync/core/logger"
	"stripe-sync/core/reconcile"
	"stripe-sync/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Dispatcher routes a lifecycle event to the reconciliation engine.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev reconcile.Event) (reconcile.Outcome, error)
}

// Handler receives lifecycle events from the host platform.
type Handler struct {
	dispatcher Dispatcher
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(dispatcher Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, logger: logger}
}

// RegisterRoutes registers the event routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/events")
	group.Post("/user-created", h.HandleUserCreated)
	group.Post("/customer-created", h.HandleCustomerCreated)
	group.Post("/profile-updated", h.HandleProfileUpdated)
}

// UserEvent is the payload of user-created and customer-created. UserID may be
// a JSON number or a numeric string.
type UserEvent struct {
	UserID any `json:"user_id" swaggertype:"integer" example:"42"`
}

// Snapshot is a user's state in a profile-updated payload.
type Snapshot struct {
	ID    any    `json:"id" swaggertype:"integer" example:"42"`
	Email string `json:"email" example:"user@example.com"`
}

// ProfileEvent is the payload of profile-updated.
type ProfileEvent struct {
	UserID any      `json:"user_id" swaggertype:"integer" example:"42"`
	Old    Snapshot `json:"old"`
	New    Snapshot `json:"new"`
}

// HandleUserCreated reconciles a newly registered user.
// @Summary User Created
// @Description Resolves the new user's Stripe customer by email and stores it on a match.
// @Tags events
// @Accept json
// @Produce json
// @Param event body UserEvent true "Event"
// @Success 200 {object} reconcile.Outcome "Outcome"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /events/user-created [post]
func (h *Handler) HandleUserCreated(c *fiber.Ctx) error {
	id, err := parseUserEvent(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.dispatch(c, reconcile.UserCreated{UserID: id})
}

// HandleCustomerCreated reconciles a user after a payment integration created a customer.
// @Summary Customer Created
// @Description Same as user-created, fired by payment integrations after they create a Stripe customer.
// @Tags events
// @Accept json
// @Produce json
// @Param event body UserEvent true "Event"
// @Success 200 {object} reconcile.Outcome "Outcome"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /events/customer-created [post]
func (h *Handler) HandleCustomerCreated(c *fiber.Ctx) error {
	id, err := parseUserEvent(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.dispatch(c, reconcile.ProviderCustomerCreated{UserID: id})
}

// HandleProfileUpdated re-resolves a user whose email changed.
// @Summary Profile Updated
// @Description When the email changed, resolves the new email: a match overwrites the mapping, no match deletes it.
// @Tags events
// @Accept json
// @Produce json
// @Param event body ProfileEvent true "Event"
// @Success 200 {object} reconcile.Outcome "Outcome"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /events/profile-updated [post]
func (h *Handler) HandleProfileUpdated(c *fiber.Ctx) error {
	var req ProfileEvent
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	raw := req.UserID
	if raw == nil {
		raw = req.New.ID
	}
	id, err := utils.ToUint64(raw)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	return h.dispatch(c, reconcile.ProfileUpdated{
		UserID: id,
		Old:    reconcile.UserSnapshot{ID: id, Email: req.Old.Email},
		New:    reconcile.UserSnapshot{ID: id, Email: req.New.Email},
	})
}

func (h *Handler) dispatch(c *fiber.Ctx, ev reconcile.Event) error {
	out, err := h.dispatcher.Dispatch(c.UserContext(), ev)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Event handling failed", zap.String("event", ev.Name()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(out)
}

func parseUserEvent(c *fiber.Ctx) (uint64, error) {
	var req UserEvent
	if err := c.BodyParser(&req); err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	id, err := utils.ToUint64(req.UserID)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "user_id is required")
	}
	return id, nil
}
