package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"blockpoints-bridge/internal/application/port"
	"blockpoints-bridge/internal/config"
	"blockpoints-bridge/internal/domain"
	"blockpoints-bridge/internal/domain/entity"
	"blockpoints-bridge/internal/domain/policy"
	domainRepo "blockpoints-bridge/internal/domain/repository"
	domainService "blockpoints-bridge/internal/domain/service"
)

// Compile-time check to ensure bridgeService implements BridgeService
var _ port.BridgeService = (*bridgeService)(nil)

// Dependencies groups the collaborators of the bridge service.
type Dependencies struct {
	Chains      domainRepo.ChainRegistry
	Transfers   domainRepo.TransferRepository
	Idempotency domainRepo.IdempotencyRepository
	Scheduler   domainService.Scheduler
	Confirmer   domainService.ConfirmationSource
	Authorizer  domainService.Authorizer
	Publisher   domainService.EventPublisher
}

// bridgeService owns the bridge policy, the per-transfer timers and the
// event sequence. The ledger itself lives in the transfer repository.
type bridgeService struct {
	chains      domainRepo.ChainRegistry
	transfers   domainRepo.TransferRepository
	idempotency domainRepo.IdempotencyRepository
	scheduler   domainService.Scheduler
	confirmer   domainService.ConfirmationSource
	authorizer  domainService.Authorizer
	publisher   domainService.EventPublisher
	logger      *zap.Logger

	promotionDelay       time.Duration
	confirmationInterval time.Duration
	newID                func(counter uint64) string

	// policyMu guards policy and the fee totals. Initiation holds it across
	// validation, insert and accrual.
	policyMu      sync.RWMutex
	policy        policy.Policy
	accruedFees   decimal.Decimal
	feesCollected decimal.Decimal

	timersMu sync.Mutex
	timers   map[string]domainService.Timer
	stopped  bool

	idemMu   sync.Mutex
	counter  atomic.Uint64
	eventSeq atomic.Uint64
}

// NewBridgeService creates the bridge control surface. The initial policy
// comes from cfg and is validated the same way admin updates are.
func NewBridgeService(deps Dependencies, cfg config.BridgeConfig, logger *zap.Logger) (port.BridgeService, error) {
	if deps.Chains == nil || deps.Transfers == nil || deps.Scheduler == nil ||
		deps.Confirmer == nil || deps.Authorizer == nil {
		return nil, errors.New("bridge service: chains, transfers, scheduler, confirmer and authorizer are required")
	}

	initial := policy.Policy{
		FeeRate:   decimal.NewFromFloat(cfg.FeeRate),
		MinAmount: decimal.NewFromFloat(cfg.MinAmount),
		MaxAmount: decimal.NewFromFloat(cfg.MaxAmount),
	}
	if err := policy.ValidateFeeRate(initial.FeeRate); err != nil {
		return nil, fmt.Errorf("initial bridge policy: %w", err)
	}
	if err := policy.ValidateLimits(initial.MinAmount, initial.MaxAmount); err != nil {
		return nil, fmt.Errorf("initial bridge policy: %w", err)
	}
	if cfg.ConfirmationInterval <= 0 {
		return nil, fmt.Errorf("initial bridge policy: confirmation interval must be positive, got %s", cfg.ConfirmationInterval)
	}

	publisher := deps.Publisher
	if publisher == nil {
		publisher = noopPublisher{}
	}

	s := &bridgeService{
		chains:               deps.Chains,
		transfers:            deps.Transfers,
		idempotency:          deps.Idempotency,
		scheduler:            deps.Scheduler,
		confirmer:            deps.Confirmer,
		authorizer:           deps.Authorizer,
		publisher:            publisher,
		logger:               logger.Named("BridgeService"),
		promotionDelay:       cfg.PromotionDelay,
		confirmationInterval: cfg.ConfirmationInterval,
		newID:                defaultTransferID,
		policy:               initial,
		accruedFees:          decimal.Zero,
		feesCollected:        decimal.Zero,
		timers:               make(map[string]domainService.Timer),
	}
	s.logger.Info("Bridge service initialized",
		zap.String("feeRate", initial.FeeRate.String()),
		zap.String("minAmount", initial.MinAmount.String()),
		zap.String("maxAmount", initial.MaxAmount.String()),
		zap.Duration("promotionDelay", cfg.PromotionDelay),
		zap.Duration("confirmationInterval", cfg.ConfirmationInterval),
	)
	return s, nil
}

// defaultTransferID formats bridge_<counter>_<uuid>.
func defaultTransferID(counter uint64) string {
	return fmt.Sprintf("bridge_%d_%s", counter, uuid.NewString())
}

// InitiateTransfer validates the request, records the transfer and arms its promotion timer.
func (s *bridgeService) InitiateTransfer(
	ctx context.Context,
	req port.InitiateTransferRequest,
) (port.InitiateTransferResult, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.NFTID = strings.TrimSpace(req.NFTID)
	req.TargetChain = strings.ToLower(strings.TrimSpace(req.TargetChain))
	req.RecipientAddress = strings.TrimSpace(req.RecipientAddress)

	if req.IdempotencyKey == "" || s.idempotency == nil {
		return s.initiate(ctx, req)
	}

	s.idemMu.Lock()
	defer s.idemMu.Unlock()

	if id, found, err := s.idempotency.GetTransferID(ctx, req.IdempotencyKey); err != nil {
		s.logger.Warn("Idempotency lookup failed, proceeding without replay",
			zap.String("key", req.IdempotencyKey), zap.Error(err))
	} else if found {
		existing, err := s.transfers.Get(ctx, id)
		if err == nil {
			s.logger.Debug("Replaying initiate for idempotency key",
				zap.String("key", req.IdempotencyKey), zap.String("transferId", id))
			res := s.resultFor(existing)
			res.Replayed = true
			return res, nil
		}
		s.logger.Warn("Idempotency key points at unknown transfer", zap.String("transferId", id), zap.Error(err))
	}

	res, err := s.initiate(ctx, req)
	if err != nil {
		return res, err
	}
	if err := s.idempotency.SetTransferID(ctx, req.IdempotencyKey, res.TransferID); err != nil {
		s.logger.Warn("Failed to remember idempotency key", zap.String("key", req.IdempotencyKey), zap.Error(err))
	}
	return res, nil
}

func (s *bridgeService) initiate(ctx context.Context, req port.InitiateTransferRequest) (port.InitiateTransferResult, error) {
	if req.UserID == "" || req.NFTID == "" || req.TargetChain == "" {
		return port.InitiateTransferResult{}, fmt.Errorf("%w: userId, nftId and targetChain are required", domain.ErrMissingField)
	}

	chain, chainErr := s.chains.Get(ctx, req.TargetChain)
	if chainErr != nil && !errors.Is(chainErr, domain.ErrChainNotFound) {
		return port.InitiateTransferResult{}, fmt.Errorf("chain lookup for %s failed: %w", req.TargetChain, chainErr)
	}
	chainKnown := chainErr == nil

	recipient := req.RecipientAddress
	if recipient == "" {
		recipient = req.UserID
	}

	s.policyMu.Lock()
	current := s.policy
	if err := policy.Validate(current, chainKnown, req.Amount); err != nil {
		s.policyMu.Unlock()
		if errors.Is(err, domain.ErrUnsupportedChain) {
			err = fmt.Errorf("%w: %s", err, req.TargetChain)
		}
		s.logger.Debug("Transfer rejected", zap.String("userId", req.UserID), zap.Error(err))
		return port.InitiateTransferResult{}, err
	}

	now := s.scheduler.Now()
	t := entity.Transfer{
		TransferID:            s.newID(s.counter.Add(1)),
		UserID:                req.UserID,
		NFTID:                 req.NFTID,
		TargetChain:           chain.Key,
		Amount:                req.Amount,
		RecipientAddress:      recipient,
		BridgeFee:             policy.ComputeFee(current, req.Amount),
		Status:                entity.StatusPending,
		RequiredConfirmations: chain.Confirmations,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.transfers.Insert(ctx, t); err != nil {
		s.policyMu.Unlock()
		return port.InitiateTransferResult{}, fmt.Errorf("failed to record transfer: %w", err)
	}
	s.accruedFees = s.accruedFees.Add(t.BridgeFee)
	s.policyMu.Unlock()

	s.logger.Info("Transfer created",
		zap.String("transferId", t.TransferID),
		zap.String("userId", t.UserID),
		zap.String("nftId", t.NFTID),
		zap.String("targetChain", t.TargetChain),
		zap.String("amount", t.Amount.String()),
		zap.String("bridgeFee", t.BridgeFee.String()),
	)
	s.emit(entity.EventCreated, t)

	id := t.TransferID
	s.arm(id, s.promotionDelay, func() { s.promote(id) })

	return s.resultFor(t), nil
}

func (s *bridgeService) resultFor(t entity.Transfer) port.InitiateTransferResult {
	return port.InitiateTransferResult{
		TransferID:       t.TransferID,
		Status:           t.Status,
		BridgeFee:        t.BridgeFee,
		EstimatedMinutes: s.estimateMinutes(t.RequiredConfirmations),
	}
}

// estimateMinutes is required confirmations times the confirmation interval,
// rounded up to whole minutes.
func (s *bridgeService) estimateMinutes(required int) int64 {
	total := time.Duration(required) * s.confirmationInterval
	return int64(math.Ceil(total.Minutes()))
}

// CancelTransfer moves an owned pending transfer to cancelled and disarms its timer.
func (s *bridgeService) CancelTransfer(ctx context.Context, transferID, userID string) (port.CancelTransferResult, error) {
	userID = strings.TrimSpace(userID)
	if transferID == "" || userID == "" {
		return port.CancelTransferResult{}, fmt.Errorf("%w: transferId and userId are required", domain.ErrMissingField)
	}

	updated, err := s.transfers.Update(ctx, transferID, func(cur entity.Transfer) (entity.Transfer, error) {
		if cur.UserID != userID {
			return cur, fmt.Errorf("%w: %s does not own %s", domain.ErrNotOwner, userID, transferID)
		}
		if !entity.CanTransition(cur.Status, entity.StatusCancelled) {
			return cur, fmt.Errorf("%w: cannot cancel transfer in status %s", domain.ErrInvalidState, cur.Status)
		}
		cur.Status = entity.StatusCancelled
		cur.UpdatedAt = s.scheduler.Now()
		return cur, nil
	})
	if err != nil {
		return port.CancelTransferResult{}, err
	}

	s.disarm(transferID)
	s.logger.Info("Transfer cancelled", zap.String("transferId", transferID), zap.String("userId", userID))
	s.emit(entity.EventCancelled, updated)

	return port.CancelTransferResult{TransferID: updated.TransferID, Status: updated.Status}, nil
}

func (s *bridgeService) GetTransferDetails(ctx context.Context, transferID string) (entity.Transfer, error) {
	if transferID == "" {
		return entity.Transfer{}, fmt.Errorf("%w: transferId is required", domain.ErrMissingField)
	}
	return s.transfers.Get(ctx, transferID)
}

// GetUserTransfers lists the user's transfers that pass filter.
func (s *bridgeService) GetUserTransfers(
	ctx context.Context,
	userID string,
	filter entity.TransferFilter,
) (port.TransferList, error) {
	if strings.TrimSpace(userID) == "" {
		return port.TransferList{}, fmt.Errorf("%w: userId is required", domain.ErrMissingField)
	}
	records, err := s.transfers.ListByUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return port.TransferList{}, fmt.Errorf("failed to list transfers for user %s: %w", userID, err)
	}
	return filterTransfers(records, filter), nil
}

// GetChainTransfers lists the chain's transfers that pass filter. An unknown
// chain yields an empty list.
func (s *bridgeService) GetChainTransfers(
	ctx context.Context,
	chainKey string,
	filter entity.TransferFilter,
) (port.TransferList, error) {
	key := strings.ToLower(strings.TrimSpace(chainKey))
	if key == "" {
		return port.TransferList{}, fmt.Errorf("%w: chainId is required", domain.ErrMissingField)
	}
	records, err := s.transfers.ListByChain(ctx, key)
	if err != nil {
		return port.TransferList{}, fmt.Errorf("failed to list transfers for chain %s: %w", key, err)
	}
	return filterTransfers(records, filter), nil
}

func filterTransfers(records []entity.Transfer, filter entity.TransferFilter) port.TransferList {
	out := port.TransferList{
		Transfers:   make([]entity.Transfer, 0, len(records)),
		TotalAmount: decimal.Zero,
	}
	for _, t := range records {
		if !filter.Matches(t) {
			continue
		}
		out.Transfers = append(out.Transfers, t)
		out.TotalAmount = out.TotalAmount.Add(t.Amount)
	}
	out.TotalCount = len(out.Transfers)
	return out
}

func (s *bridgeService) ListChains(ctx context.Context) ([]entity.ChainConfig, error) {
	return s.chains.List(ctx)
}

func (s *bridgeService) GetPolicy(_ context.Context) (policy.Policy, error) {
	s.policyMu.RLock()
	defer s.policyMu.RUnlock()
	return s.policy, nil
}

// Shutdown disarms all timers and prevents new ones from being armed.
func (s *bridgeService) Shutdown() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.logger.Info("Bridge service timers disarmed")
}

// emit publishes a lifecycle event. Failures are logged only.
func (s *bridgeService) emit(eventType entity.EventType, t entity.Transfer) {
	e := entity.NewTransferEvent(eventType, t, s.scheduler.Now())
	e.Sequence = s.eventSeq.Add(1)
	if err := s.publisher.Publish(context.Background(), e); err != nil {
		s.logger.Warn("Failed to publish transfer event",
			zap.String("type", string(eventType)),
			zap.String("transferId", t.TransferID),
			zap.Error(err),
		)
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, entity.TransferEvent) error { return nil }
