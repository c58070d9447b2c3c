package http

import (
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"blockpoints-bridge/internal/application/port"
	"blockpoints-bridge/internal/domain/entity"
	"blockpoints-bridge/internal/pkg/apperrors"
)

// CallerHeader carries the wallet address of the caller.
const CallerHeader = "X-Wallet-Address"

// IdempotencyHeader makes POST /transfers safe to retry.
const IdempotencyHeader = "Idempotency-Key"

// EventReader is the read side of the lifecycle event log.
type EventReader interface {
	Since(after uint64, limit int) []entity.TransferEvent
	ForTransfer(transferID string) []entity.TransferEvent
}

// BridgeHandler exposes the bridge control surface over fasthttp.
type BridgeHandler struct {
	service port.BridgeService
	events  EventReader
	logger  *zap.Logger
}

// NewBridgeHandler creates the handler. events may be nil when the event log is disabled.
func NewBridgeHandler(service port.BridgeService, events EventReader, logger *zap.Logger) *BridgeHandler {
	return &BridgeHandler{
		service: service,
		events:  events,
		logger:  logger.Named("BridgeHandler"),
	}
}

type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Health reports liveness.
func (h *BridgeHandler) Health(ctx *fasthttp.RequestCtx) {
	h.respond(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (h *BridgeHandler) respond(ctx *fasthttp.RequestCtx, status int, data any) {
	h.write(ctx, status, envelope{Success: true, Data: data})
}

// fail maps err to a status code and writes the error envelope.
func (h *BridgeHandler) fail(ctx *fasthttp.RequestCtx, err error) {
	status, code := classify(err)
	if status >= fasthttp.StatusInternalServerError && status != fasthttp.StatusServiceUnavailable {
		h.logger.Error("Request failed",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("uri", ctx.RequestURI()),
			zap.Error(err),
		)
	} else {
		h.logger.Debug("Request rejected", zap.ByteString("uri", ctx.RequestURI()), zap.Error(err))
	}
	h.write(ctx, status, envelope{Error: &apiError{Code: code, Message: err.Error()}})
}

func (h *BridgeHandler) write(ctx *fasthttp.RequestCtx, status int, body envelope) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return fasthttp.StatusBadRequest, "invalid_input"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return fasthttp.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		return fasthttp.StatusForbidden, "forbidden"
	case errors.Is(err, apperrors.ErrNotFound):
		return fasthttp.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrConflict):
		return fasthttp.StatusConflict, "invalid_state"
	case errors.Is(err, apperrors.ErrUnavailable):
		return fasthttp.StatusServiceUnavailable, "bridge_paused"
	case errors.Is(err, apperrors.ErrExternalServiceFailure):
		return fasthttp.StatusBadGateway, "upstream_failure"
	default:
		return fasthttp.StatusInternalServerError, "internal_error"
	}
}

func caller(ctx *fasthttp.RequestCtx) string {
	return string(ctx.Request.Header.Peek(CallerHeader))
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return v
}
