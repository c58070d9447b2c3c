package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"blockpoints-bridge/internal/application/port"
	"blockpoints-bridge/internal/domain/entity"
	"blockpoints-bridge/internal/pkg/apperrors"
)

type initiateTransferBody struct {
	UserID           string          `json:"userId"`
	NFTID            string          `json:"nftId"`
	TargetChain      string          `json:"targetChain"`
	Amount           decimal.Decimal `json:"amount"`
	RecipientAddress string          `json:"recipientAddress"`
}

type cancelTransferBody struct {
	UserID string `json:"userId"`
}

type updateStatusBody struct {
	Status entity.TransferStatus `json:"status"`
	Reason string                `json:"reason"`
}

// InitiateTransfer handles POST /transfers.
func (h *BridgeHandler) InitiateTransfer(ctx *fasthttp.RequestCtx) {
	var body initiateTransferBody
	if err := decodeBody(ctx, &body); err != nil {
		h.fail(ctx, err)
		return
	}

	res, err := h.service.InitiateTransfer(ctx, port.InitiateTransferRequest{
		UserID:           body.UserID,
		NFTID:            body.NFTID,
		TargetChain:      body.TargetChain,
		Amount:           body.Amount,
		RecipientAddress: body.RecipientAddress,
		IdempotencyKey:   strings.TrimSpace(string(ctx.Request.Header.Peek(IdempotencyHeader))),
	})
	if err != nil {
		h.fail(ctx, err)
		return
	}

	status := fasthttp.StatusCreated
	if res.Replayed {
		status = fasthttp.StatusOK
	}
	h.respond(ctx, status, res)
}

// GetTransfer handles GET /transfers/{transferId}.
func (h *BridgeHandler) GetTransfer(ctx *fasthttp.RequestCtx) {
	t, err := h.service.GetTransferDetails(ctx, pathParam(ctx, "transferId"))
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, t)
}

// CancelTransfer handles POST /transfers/{transferId}/cancel. The owner comes
// from the body, falling back to the caller header.
func (h *BridgeHandler) CancelTransfer(ctx *fasthttp.RequestCtx) {
	var body cancelTransferBody
	if len(ctx.PostBody()) > 0 {
		if err := decodeBody(ctx, &body); err != nil {
			h.fail(ctx, err)
			return
		}
	}
	if body.UserID == "" {
		body.UserID = caller(ctx)
	}

	res, err := h.service.CancelTransfer(ctx, pathParam(ctx, "transferId"), body.UserID)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, res)
}

// UpdateTransferStatus handles PUT /transfers/{transferId}/status. Only a
// transition to failed can be requested.
func (h *BridgeHandler) UpdateTransferStatus(ctx *fasthttp.RequestCtx) {
	var body updateStatusBody
	if err := decodeBody(ctx, &body); err != nil {
		h.fail(ctx, err)
		return
	}
	if body.Status != entity.StatusFailed {
		h.fail(ctx, fmt.Errorf("%w: status can only be set to %q, got %q",
			apperrors.ErrInvalidInput, entity.StatusFailed, body.Status))
		return
	}

	t, err := h.service.ForceFailTransfer(ctx, caller(ctx), pathParam(ctx, "transferId"), body.Reason)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, t)
}

// ListUserTransfers handles GET /users/{userId}/transfers.
func (h *BridgeHandler) ListUserTransfers(ctx *fasthttp.RequestCtx) {
	filter, err := parseFilter(ctx.QueryArgs())
	if err != nil {
		h.fail(ctx, err)
		return
	}
	list, err := h.service.GetUserTransfers(ctx, pathParam(ctx, "userId"), filter)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, list)
}

// ListChainTransfers handles GET /chains/{chainId}/transfers.
func (h *BridgeHandler) ListChainTransfers(ctx *fasthttp.RequestCtx) {
	filter, err := parseFilter(ctx.QueryArgs())
	if err != nil {
		h.fail(ctx, err)
		return
	}
	list, err := h.service.GetChainTransfers(ctx, pathParam(ctx, "chainId"), filter)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, list)
}

// ListEvents handles GET /events?after=&limit= and GET /transfers/{transferId}/events.
func (h *BridgeHandler) ListEvents(ctx *fasthttp.RequestCtx) {
	if h.events == nil {
		h.fail(ctx, fmt.Errorf("%w: event log is disabled", apperrors.ErrNotFound))
		return
	}
	if id := pathParam(ctx, "transferId"); id != "" {
		if _, err := h.service.GetTransferDetails(ctx, id); err != nil {
			h.fail(ctx, err)
			return
		}
		h.respond(ctx, fasthttp.StatusOK, h.events.ForTransfer(id))
		return
	}

	args := ctx.QueryArgs()
	after, err := parseUint(args, "after")
	if err != nil {
		h.fail(ctx, err)
		return
	}
	limit, err := parseUint(args, "limit")
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, h.events.Since(after, int(limit)))
}

// parseFilter reads status, targetChain, startDate and endDate (RFC3339).
// Unknown status or chain values are kept and simply match nothing.
func parseFilter(args *fasthttp.Args) (entity.TransferFilter, error) {
	filter := entity.TransferFilter{
		Status:      entity.TransferStatus(strings.ToLower(strings.TrimSpace(string(args.Peek("status"))))),
		TargetChain: strings.ToLower(strings.TrimSpace(string(args.Peek("targetChain")))),
	}
	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{
		{"startDate", &filter.StartDate},
		{"endDate", &filter.EndDate},
	} {
		raw := strings.TrimSpace(string(args.Peek(bound.name)))
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return entity.TransferFilter{}, fmt.Errorf("%w: %s must be RFC3339: %v", apperrors.ErrInvalidInput, bound.name, err)
		}
		*bound.dst = &ts
	}
	return filter, nil
}

func parseUint(args *fasthttp.Args, name string) (uint64, error) {
	raw := string(args.Peek(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", apperrors.ErrInvalidInput, name)
	}
	return v, nil
}

func decodeBody(ctx *fasthttp.RequestCtx, dst any) error {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", apperrors.ErrInvalidInput, err)
	}
	return nil
}
