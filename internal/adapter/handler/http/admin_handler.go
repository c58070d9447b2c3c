package http

import (
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"blockpoints-bridge/internal/domain/entity"
)

type feeBody struct {
	FeeRate decimal.Decimal `json:"feeRate"`
}

type limitsBody struct {
	MinAmount decimal.Decimal `json:"minAmount"`
	MaxAmount decimal.Decimal `json:"maxAmount"`
}

func (h *BridgeHandler) ListChains(ctx *fasthttp.RequestCtx) {
	chains, err := h.service.ListChains(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, chains)
}

// AddChain handles POST /chains (admin).
func (h *BridgeHandler) AddChain(ctx *fasthttp.RequestCtx) {
	var chain entity.ChainConfig
	if err := decodeBody(ctx, &chain); err != nil {
		h.fail(ctx, err)
		return
	}
	if err := h.service.AddSupportedChain(ctx, caller(ctx), chain); err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusCreated, chain)
}

func (h *BridgeHandler) GetStats(ctx *fasthttp.RequestCtx) {
	stats, err := h.service.GetBridgeStats(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, stats)
}

func (h *BridgeHandler) Pause(ctx *fasthttp.RequestCtx) {
	if err := h.service.PauseBridge(ctx, caller(ctx)); err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, map[string]bool{"paused": true})
}

func (h *BridgeHandler) Unpause(ctx *fasthttp.RequestCtx) {
	if err := h.service.UnpauseBridge(ctx, caller(ctx)); err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, map[string]bool{"paused": false})
}

func (h *BridgeHandler) UpdateFee(ctx *fasthttp.RequestCtx) {
	var body feeBody
	if err := decodeBody(ctx, &body); err != nil {
		h.fail(ctx, err)
		return
	}
	if err := h.service.UpdateBridgeFee(ctx, caller(ctx), body.FeeRate); err != nil {
		h.fail(ctx, err)
		return
	}
	h.GetPolicy(ctx)
}

func (h *BridgeHandler) UpdateLimits(ctx *fasthttp.RequestCtx) {
	var body limitsBody
	if err := decodeBody(ctx, &body); err != nil {
		h.fail(ctx, err)
		return
	}
	if err := h.service.UpdateTransferLimits(ctx, caller(ctx), body.MinAmount, body.MaxAmount); err != nil {
		h.fail(ctx, err)
		return
	}
	h.GetPolicy(ctx)
}

func (h *BridgeHandler) CollectFees(ctx *fasthttp.RequestCtx) {
	res, err := h.service.CollectBridgeFees(ctx, caller(ctx))
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, res)
}

func (h *BridgeHandler) GetPolicy(ctx *fasthttp.RequestCtx) {
	p, err := h.service.GetPolicy(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respond(ctx, fasthttp.StatusOK, p)
}
