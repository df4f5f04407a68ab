package customers

import (
	"encoding/json"
	"errors"

	"stripe-sync/core/lock"
	"stripe-sync/core/logger"
	"stripe-sync/core/reconcile"
	"stripe-sync/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for customer mappings.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the customers routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/customers")
	group.Post("/sync", h.HandleSyncAll)
	group.Post("/sync/recent", h.HandleSyncRecent)
	group.Get("/lookup", h.HandleLookup)
	group.Post("/lookup", h.HandleLookupBatch)
	group.Get("/mapped", h.HandleListMapped)
	group.Get("/unmapped", h.HandleListUnmapped)
	group.Post("/:id/resync", h.HandleResync)
	group.Get("/:id/payment-methods", h.HandlePaymentMethods)
}

// SyncResponse is returned by the sync endpoints.
type SyncResponse struct {
	Message string                `json:"message"`
	Summary *reconcile.RunSummary `json:"summary"`
}

// LookupRequest is the body of a batch lookup. Emails is either a JSON array of
// strings or a comma/newline delimited string.
type LookupRequest struct {
	Emails json.RawMessage `json:"emails" swaggertype:"string" example:"a@example.com, b@example.com"`
}

// LookupResponse is returned by the batch lookup.
type LookupResponse struct {
	Results []Result `json:"results"`
}

// HandleSyncAll maps every user that has no Stripe customer ID yet.
// @Summary Sync All Users
// @Description Runs the bulk pass: every user without a mapping is looked up in Stripe by email.
// @Tags customers
// @Produce json
// @Success 200 {object} SyncResponse "Pass summary"
// @Failure 409 {object} map[string]string "A pass is already running"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /customers/sync [post]
func (h *Handler) HandleSyncAll(c *fiber.Ctx) error {
	summary, err := h.service.SyncAll(c.UserContext())
	return h.renderSync(c, summary, err)
}

// HandleSyncRecent maps users registered within the recent window.
// @Summary Sync Recent Users
// @Description Runs the recent pass over users registered in the trailing window (default 7 days).
// @Tags customers
// @Produce json
// @Success 200 {object} SyncResponse "Pass summary"
// @Failure 409 {object} map[string]string "A pass is already running"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /customers/sync/recent [post]
func (h *Handler) HandleSyncRecent(c *fiber.Ctx) error {
	summary, err := h.service.SyncRecent(c.UserContext())
	return h.renderSync(c, summary, err)
}

func (h *Handler) renderSync(c *fiber.Ctx, summary *reconcile.RunSummary, err error) error {
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Sync pass failed", zap.Error(err))

		status := fiber.StatusInternalServerError
		if errors.Is(err, lock.ErrRunInProgress) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(SyncResponse{Message: SummaryMessage(summary), Summary: summary})
}

// HandleLookup looks up one email.
// @Summary Lookup Customer
// @Description Finds the user for an email and returns its Stripe customer ID, resolving and saving it when absent.
// @Tags customers
// @Produce json
// @Param email query string true "Email address"
// @Success 200 {object} Result "Customer found"
// @Failure 400 {object} Result "Invalid email address"
// @Failure 404 {object} Result "User or customer not found"
// @Router /customers/lookup [get]
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	res := h.service.LookupOne(c.UserContext(), c.Query("email"))
	return c.Status(statusFor(res)).JSON(res)
}

// HandleLookupBatch looks up many emails.
// @Summary Lookup Customers
// @Description Runs a lookup for every non-blank email, in order. Each entry succeeds or fails independently.
// @Tags customers
// @Accept json
// @Produce json
// @Param request body LookupRequest true "Emails"
// @Success 200 {object} LookupResponse "One result per email"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /customers/lookup [post]
func (h *Handler) HandleLookupBatch(c *fiber.Ctx) error {
	var req LookupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	emails, err := decodeEmails(req.Emails)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(LookupResponse{Results: h.service.LookupMany(c.UserContext(), emails)})
}

func decodeEmails(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.New("emails is required")
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err != nil {
		return nil, errors.New("emails must be a string or an array of strings")
	}
	return ParseEmails(joined), nil
}

// HandleListMapped lists users with a stored Stripe customer ID.
// @Summary List Mapped Users
// @Tags customers
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param per_page query int false "Page size"
// @Success 200 {object} platform.Page "Users"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /customers/mapped [get]
func (h *Handler) HandleListMapped(c *fiber.Ctx) error {
	page, err := h.service.ListMapped(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("per_page", 0))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("List mapped users failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(page)
}

// HandleListUnmapped lists users without a stored Stripe customer ID.
// @Summary List Unmapped Users
// @Tags customers
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param per_page query int false "Page size"
// @Success 200 {object} platform.Page "Users"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /customers/unmapped [get]
func (h *Handler) HandleListUnmapped(c *fiber.Ctx) error {
	page, err := h.service.ListUnmapped(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("per_page", 0))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("List unmapped users failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(page)
}

// HandleResync forces re-resolution of one user's mapping.
// @Summary Resync User
// @Description Looks the user's email up in Stripe again, ignoring the stored mapping. A miss keeps the stored mapping.
// @Tags customers
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} Result "Resynced"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 404 {object} Result "User or customer not found"
// @Router /customers/{id}/resync [post]
func (h *Handler) HandleResync(c *fiber.Ctx) error {
	id, err := utils.ToUint64(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res := h.service.Resync(c.UserContext(), id)
	return c.Status(statusFor(res)).JSON(res)
}

// HandlePaymentMethods lists the saved cards of a mapped user.
// @Summary List Payment Methods
// @Description Read-only card metadata (brand, last4, expiry) of the user's Stripe customer.
// @Tags customers
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} PaymentMethods "Payment methods"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 404 {object} map[string]string "User not found or not mapped"
// @Failure 502 {object} map[string]string "Stripe error"
// @Router /customers/{id}/payment-methods [get]
func (h *Handler) HandlePaymentMethods(c *fiber.Ctx) error {
	id, err := utils.ToUint64(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	methods, err := h.service.ListPaymentMethods(c.UserContext(), id)
	switch {
	case err == nil:
		return c.JSON(methods)
	case errors.Is(err, reconcile.ErrUserNotFound), errors.Is(err, reconcile.ErrCustomerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.WithRayID(h.service.logger, c).Error("List payment methods failed", zap.Uint64("user_id", id), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
}

func statusFor(res Result) int {
	switch {
	case res.Success:
		return fiber.StatusOK
	case res.Message == MsgInvalidEmail:
		return fiber.StatusBadRequest
	case res.Message == MsgUserNotFound, res.Message == MsgUserIDNotFound, res.Message == MsgCustomerNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
