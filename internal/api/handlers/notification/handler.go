package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/banking-notifier/internal/api/dto"
	"github.com/aliskhannn/banking-notifier/internal/api/respond"
	"github.com/aliskhannn/banking-notifier/internal/config"
	"github.com/aliskhannn/banking-notifier/internal/model"
	svc "github.com/aliskhannn/banking-notifier/internal/service/notification"
)

// notificationService defines the interface that the Handler depends on.
//
// It abstracts the lifecycle engine: creation, delivery, retries,
// read marking, queries and maintenance of notifications.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/notification/mock.go -package=mocks
type notificationService interface {
	Create(ctx context.Context, d model.Draft) (*model.Notification, error)
	Schedule(ctx context.Context, d model.Draft) (*model.Notification, error)
	Fetch(ctx context.Context, id string) (*model.Notification, error)
	ListAll(ctx context.Context) ([]model.Notification, error)
	UpdateSettings(ctx context.Context, u model.SettingsUpdate) (*model.Notification, error)
	DeleteExpired(ctx context.Context, retentionDays int) (model.DeleteResult, error)
	Resend(ctx context.Context, id string) (int, error)
	SendSMS(ctx context.Context, id string) (string, error)
	SendEmail(ctx context.Context, id string) (string, error)
	MarkAsRead(ctx context.Context, id string) (bool, error)
	GetStatus(ctx context.Context, id string) (model.StatusView, error)
	GetHistory(ctx context.Context, recipientID int64) ([]model.Notification, error)
	CreateForTransaction(ctx context.Context, transactionID string, d model.Draft) (*model.Notification, error)
	CreateForAccount(ctx context.Context, accountNumber string, d model.Draft) (*model.Notification, error)
	CalculateFeesAndNotify(ctx context.Context, transactionID string, d model.Draft) (string, error)
	CheckFraudAndNotify(ctx context.Context, transactionID string, d model.Draft) (string, error)
}

// Handler handles HTTP requests related to notifications.
type Handler struct {
	service   notificationService
	validator *validator.Validate
	cfg       *config.Config
}

// NewHandler creates a new Handler instance.
//
// Parameters:
//   - s: implementation of notificationService
//   - v: validator instance for request validation
//   - cfg: configuration instance
func NewHandler(
	s notificationService,
	v *validator.Validate,
	cfg *config.Config,
) *Handler {
	return &Handler{service: s, validator: v, cfg: cfg}
}

// Create handles POST /create.
//
// It validates the request body and stores a PENDING notification.
func (h *Handler) Create(c *ginext.Context) {
	req, ok := h.decodeCreate(c)
	if !ok {
		return
	}

	n, err := h.service.Create(c.Request.Context(), req.Draft())
	if err != nil {
		h.fail(c, err, "failed to create notification")
		return
	}

	respond.Created(c.Writer, n)
}

// Schedule handles POST /schedule.
//
// The request must carry a scheduledAt in the future.
func (h *Handler) Schedule(c *ginext.Context) {
	req, ok := h.decodeCreate(c)
	if !ok {
		return
	}

	n, err := h.service.Schedule(c.Request.Context(), req.Draft())
	if err != nil {
		h.fail(c, err, "failed to schedule notification")
		return
	}

	respond.Created(c.Writer, n)
}

// Get handles GET /get/:id and returns the full notification.
func (h *Handler) Get(c *ginext.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}

	n, err := h.service.Fetch(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get notification")
		return
	}

	respond.OK(c.Writer, n)
}

// GetAll handles GET /all.
func (h *Handler) GetAll(c *ginext.Context) {
	notifications, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to get notifications")
		return
	}

	respond.OK(c.Writer, notifications)
}

// Update handles PUT /update.
//
// Only recipient email, recipient phone, message and subject can be changed.
func (h *Handler) Update(c *ginext.Context) {
	var req dto.UpdateRequest

	// Decode JSON request body into UpdateRequest struct.
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	// Validate request fields using go-playground/validator.
	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	n, err := h.service.UpdateSettings(c.Request.Context(), req.SettingsUpdate())
	if err != nil {
		h.fail(c, err, "failed to update notification")
		return
	}

	respond.OK(c.Writer, n)
}

// DeleteExpired handles DELETE /delete-expired?retentionDays=N.
//
// retentionDays defaults to the configured retention.
func (h *Handler) DeleteExpired(c *ginext.Context) {
	days := h.cfg.Notifications.RetentionDays

	if raw := c.Query("retentionDays"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			zlog.Logger.Warn().Err(err).Str("retentionDays", raw).Msg("failed to parse retention days")
			respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid retentionDays"))
			return
		}
		days = parsed
	}

	res, err := h.service.DeleteExpired(c.Request.Context(), days)
	if err != nil {
		h.fail(c, err, "failed to delete expired notifications")
		return
	}

	if !res.Deleted {
		respond.OK(c.Writer, "No expired notifications found")
		return
	}

	respond.OK(c.Writer, "Expired notifications deleted successfully")
}

// ResendFailed handles POST /resend-failed/:id.
func (h *Handler) ResendFailed(c *ginext.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}

	count, err := h.service.Resend(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to resend notification")
		return
	}

	respond.OK(c.Writer, fmt.Sprintf("Notification resent successfully. Retry count: %d", count))
}

// SendSMS handles POST /send-sms/:id.
func (h *Handler) SendSMS(c *ginext.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}

	msg, err := h.service.SendSMS(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to send sms")
		return
	}

	respond.OK(c.Writer, msg)
}

// SendEmail handles POST /send-email/:id.
func (h *Handler) SendEmail(c *ginext.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}

	msg, err := h.service.SendEmail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to send email")
		return
	}

	respond.OK(c.Writer, msg)
}

// MarkRead handles PATCH /mark-read/:id. Marking an already read notification is not an error.
func (h *Handler) MarkRead(c *ginext.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}

	changed, err := h.service.MarkAsRead(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to mark notification as read")
		return
	}

	if !changed {
		respond.OK(c.Writer, "Notification already marked as read")
		return
	}

	respond.OK(c.Writer, "Notification marked as read successfully")
}

// GetStatus handles GET /status/:id and returns the status projection.
func (h *Handler) GetStatus(c *ginext.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get notification status")
		return
	}

	respond.OK(c.Writer, status)
}

// GetHistory handles GET /history/:recipientId.
func (h *Handler) GetHistory(c *ginext.Context) {
	raw := c.Param("recipientId")
	recipientID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || recipientID <= 0 {
		zlog.Logger.Warn().Str("recipientId", raw).Msg("invalid recipient id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid recipient id"))
		return
	}

	history, err := h.service.GetHistory(c.Request.Context(), recipientID)
	if err != nil {
		h.fail(c, err, "failed to get notification history")
		return
	}

	respond.OK(c.Writer, history)
}

// CreateForTransaction handles POST /create-for-transaction/:id.
func (h *Handler) CreateForTransaction(c *ginext.Context) {
	txID, ok := pathParam(c, "id")
	if !ok {
		return
	}

	req, ok := h.decodeCreate(c)
	if !ok {
		return
	}

	n, err := h.service.CreateForTransaction(c.Request.Context(), txID, req.Draft())
	if err != nil {
		h.fail(c, err, "failed to create notification for transaction")
		return
	}

	respond.Created(c.Writer, n)
}

// CreateForAccount handles POST /create-for-account/:accountNumber.
func (h *Handler) CreateForAccount(c *ginext.Context) {
	accountNumber, ok := pathParam(c, "accountNumber")
	if !ok {
		return
	}

	req, ok := h.decodeCreate(c)
	if !ok {
		return
	}

	n, err := h.service.CreateForAccount(c.Request.Context(), accountNumber, req.Draft())
	if err != nil {
		h.fail(c, err, "failed to create notification for account")
		return
	}

	respond.Created(c.Writer, n)
}

// CalculateFees handles POST /calculate-fees/:id.
func (h *Handler) CalculateFees(c *ginext.Context) {
	txID, ok := pathParam(c, "id")
	if !ok {
		return
	}

	req, ok := h.decodeCreate(c)
	if !ok {
		return
	}

	msg, err := h.service.CalculateFeesAndNotify(c.Request.Context(), txID, req.Draft())
	if err != nil {
		h.fail(c, err, "failed to calculate fees")
		return
	}

	respond.OK(c.Writer, msg)
}

// FraudCheck handles POST /fraud-check/:id.
func (h *Handler) FraudCheck(c *ginext.Context) {
	txID, ok := pathParam(c, "id")
	if !ok {
		return
	}

	req, ok := h.decodeCreate(c)
	if !ok {
		return
	}

	msg, err := h.service.CheckFraudAndNotify(c.Request.Context(), txID, req.Draft())
	if err != nil {
		h.fail(c, err, "failed to check fraud")
		return
	}

	respond.OK(c.Writer, msg)
}

// decodeCreate decodes and validates a CreateRequest, writing a 400 on failure.
func (h *Handler) decodeCreate(c *ginext.Context) (dto.CreateRequest, bool) {
	var req dto.CreateRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return req, false
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return req, false
	}

	return req, true
}

func pathParam(c *ginext.Context, name string) (string, bool) {
	v := c.Param(name)
	if v == "" {
		zlog.Logger.Warn().Str("param", name).Msg("missing path parameter")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing %s", name))
		return "", false
	}

	return v, true
}

// fail maps engine errors to HTTP status codes. Unknown errors are hidden behind a 500.
func (h *Handler) fail(c *ginext.Context, err error, msg string) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		zlog.Logger.Error().Err(err).Msg(msg)
		respond.Fail(c.Writer, status, fmt.Errorf("internal server error"))
		return
	}

	zlog.Logger.Warn().Err(err).Int("status", status).Msg(msg)
	respond.Fail(c.Writer, status, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, svc.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, svc.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, svc.ErrStateConflict), errors.Is(err, svc.ErrRetryExhausted):
		return http.StatusConflict
	case errors.Is(err, svc.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
