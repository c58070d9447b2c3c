package application

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"blockpoints-bridge/internal/adapter/auth"
	"blockpoints-bridge/internal/adapter/events"
	"blockpoints-bridge/internal/adapter/scheduler"
	"blockpoints-bridge/internal/adapter/storage/memory"
	"blockpoints-bridge/internal/application/port"
	"blockpoints-bridge/internal/config"
	"blockpoints-bridge/internal/domain"
	"blockpoints-bridge/internal/domain/entity"
	"blockpoints-bridge/internal/pkg/apperrors"
)

const (
	admin          = "0xadmin"
	promotionDelay = 2 * time.Second
	interval       = 5 * time.Second
)

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// scriptedConfirmer fails confirmation number failAt for every transfer; 0 never fails.
type scriptedConfirmer struct {
	mu     sync.Mutex
	failAt int
	calls  int
}

func (c *scriptedConfirmer) Confirm(_ context.Context, t entity.Transfer, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.failAt > 0 && n == c.failAt {
		return fmt.Errorf("%w: network fault on %s at confirmation %d", domain.ErrConfirmationFault, t.TargetChain, n)
	}
	return nil
}

type fixture struct {
	svc       port.BridgeService
	clock     *scheduler.Manual
	transfers *memory.TransferRepository
	chains    *memory.ChainRegistry
	log       *events.Log
	confirmer *scriptedConfirmer
}

func testChain() entity.ChainConfig {
	return entity.ChainConfig{Key: "testchain", Name: "Test Chain", ChainID: 31337, GasLimit: 100000, Confirmations: 3}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()

	chains, err := memory.NewChainRegistry(append(entity.DefaultChains(), testChain()), logger)
	require.NoError(t, err)

	f := &fixture{
		clock:     scheduler.NewManual(epoch),
		transfers: memory.NewTransferRepository(logger),
		chains:    chains,
		log:       events.NewLog(0),
		confirmer: &scriptedConfirmer{},
	}
	svc, err := NewBridgeService(Dependencies{
		Chains:      f.chains,
		Transfers:   f.transfers,
		Idempotency: memory.NewIdempotencyRepository(config.IdempotencyConfig{TTL: time.Hour}, logger),
		Scheduler:   f.clock,
		Confirmer:   f.confirmer,
		Authorizer:  auth.NewStaticAdmins([]string{admin}, logger),
		Publisher:   f.log,
	}, config.BridgeConfig{
		FeeRate:              0.01,
		MinAmount:            1,
		MaxAmount:            1000,
		PromotionDelay:       promotionDelay,
		ConfirmationInterval: interval,
	}, logger)
	require.NoError(t, err)
	f.svc = svc
	t.Cleanup(svc.Shutdown)
	return f
}

func (f *fixture) initiate(t *testing.T, user, chain string, amount int64) port.InitiateTransferResult {
	t.Helper()
	res, err := f.svc.InitiateTransfer(context.Background(), port.InitiateTransferRequest{
		UserID:      user,
		NFTID:       "nft-" + user,
		TargetChain: chain,
		Amount:      decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) get(t *testing.T, id string) entity.Transfer {
	t.Helper()
	tr, err := f.svc.GetTransferDetails(context.Background(), id)
	require.NoError(t, err)
	return tr
}

func eventTypes(evts []entity.TransferEvent) []entity.EventType {
	out := make([]entity.EventType, 0, len(evts))
	for _, e := range evts {
		out = append(out, e.Type)
	}
	return out
}

func TestInitiate_CompletesAfterRequiredConfirmations(t *testing.T) {
	f := newFixture(t)

	res := f.initiate(t, "alice", "testchain", 100)
	assert.Equal(t, entity.StatusPending, res.Status)
	assert.True(t, decimal.NewFromInt(1).Equal(res.BridgeFee), "fee %s", res.BridgeFee)
	assert.Equal(t, int64(1), res.EstimatedMinutes)
	assert.Regexp(t, regexp.MustCompile(`^bridge_1_[0-9a-f-]{36}$`), res.TransferID)

	tr := f.get(t, res.TransferID)
	assert.Equal(t, "alice", tr.RecipientAddress)
	assert.Equal(t, 3, tr.RequiredConfirmations)
	assert.Equal(t, epoch, tr.CreatedAt)

	f.clock.Advance(promotionDelay)
	tr = f.get(t, res.TransferID)
	assert.Equal(t, entity.StatusProcessing, tr.Status)
	assert.Equal(t, 0, tr.Confirmations)

	for want := 1; want <= 3; want++ {
		f.clock.Advance(interval)
		tr = f.get(t, res.TransferID)
		assert.Equal(t, want, tr.Confirmations)
	}

	assert.Equal(t, entity.StatusCompleted, tr.Status)
	assert.Regexp(t, regexp.MustCompile(`^0x[0-9a-f]{64}$`), tr.TransactionHash)
	assert.Empty(t, tr.Error)
	assert.Equal(t, epoch.Add(promotionDelay+3*interval), tr.UpdatedAt)
	assert.Equal(t, 0, f.clock.Pending())

	assert.Equal(t,
		[]entity.EventType{entity.EventCreated, entity.EventConfirmation, entity.EventConfirmation,
			entity.EventConfirmation, entity.EventCompleted},
		eventTypes(f.log.ForTransfer(res.TransferID)),
	)

	f.clock.Advance(time.Hour)
	assert.Equal(t, tr, f.get(t, res.TransferID))
}

func TestInitiate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     port.InitiateTransferRequest
		wantErr error
	}{
		{"missing user", port.InitiateTransferRequest{NFTID: "n", TargetChain: "ethereum", Amount: decimal.NewFromInt(5)}, domain.ErrMissingField},
		{"missing nft", port.InitiateTransferRequest{UserID: "u", TargetChain: "ethereum", Amount: decimal.NewFromInt(5)}, domain.ErrMissingField},
		{"unsupported chain", port.InitiateTransferRequest{UserID: "u", NFTID: "n", TargetChain: "solana", Amount: decimal.NewFromInt(5)}, domain.ErrUnsupportedChain},
		{"too low", port.InitiateTransferRequest{UserID: "u", NFTID: "n", TargetChain: "ethereum", Amount: decimal.RequireFromString("0.5")}, domain.ErrAmountTooLow},
		{"too high", port.InitiateTransferRequest{UserID: "u", NFTID: "n", TargetChain: "ethereum", Amount: decimal.NewFromInt(1001)}, domain.ErrAmountTooHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.InitiateTransfer(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	n, _ := f.transfers.Count(ctx)
	assert.Zero(t, n)
	assert.Zero(t, f.log.Len())
}

func TestInitiate_NormalizesChainAndKeepsRecipient(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.InitiateTransfer(context.Background(), port.InitiateTransferRequest{
		UserID:           "alice",
		NFTID:            "nft-7",
		TargetChain:      " Ethereum ",
		Amount:           decimal.NewFromInt(250),
		RecipientAddress: "0xrecipient",
	})
	require.NoError(t, err)

	tr := f.get(t, res.TransferID)
	assert.Equal(t, "ethereum", tr.TargetChain)
	assert.Equal(t, "0xrecipient", tr.RecipientAddress)
	assert.True(t, decimal.RequireFromString("2.5").Ceil().Equal(tr.BridgeFee))
	assert.Equal(t, 12, tr.RequiredConfirmations)
}

func TestCancel_ThenTickIsNoop(t *testing.T) {
	f := newFixture(t)
	res := f.initiate(t, "alice", "testchain", 100)

	out, err := f.svc.CancelTransfer(context.Background(), res.TransferID, "alice")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, out.Status)
	assert.Equal(t, 0, f.clock.Pending())

	f.clock.Advance(time.Hour)
	tr := f.get(t, res.TransferID)
	assert.Equal(t, entity.StatusCancelled, tr.Status)
	assert.Equal(t, 0, tr.Confirmations)
	assert.Empty(t, tr.TransactionHash)
	assert.Equal(t,
		[]entity.EventType{entity.EventCreated, entity.EventCancelled},
		eventTypes(f.log.ForTransfer(res.TransferID)),
	)
}

func TestCancel_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.initiate(t, "alice", "testchain", 100)
	before := f.get(t, res.TransferID)

	_, err := f.svc.CancelTransfer(ctx, res.TransferID, "bob")
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, before, f.get(t, res.TransferID))

	_, err = f.svc.CancelTransfer(ctx, "bridge_404", "alice")
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)

	_, err = f.svc.CancelTransfer(ctx, res.TransferID, "")
	assert.ErrorIs(t, err, domain.ErrMissingField)

	f.clock.Advance(promotionDelay)
	processing := f.get(t, res.TransferID)
	_, err = f.svc.CancelTransfer(ctx, res.TransferID, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, processing, f.get(t, res.TransferID))

	f.clock.Advance(3 * interval)
	_, err = f.svc.CancelTransfer(ctx, res.TransferID, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, entity.StatusCompleted, f.get(t, res.TransferID).Status)
}

func TestCancel_RacesPromotion(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		res := f.initiate(t, "alice", "testchain", 10)

		var wg sync.WaitGroup
		var cancelErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.clock.Advance(promotionDelay + 5*interval)
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = f.svc.CancelTransfer(context.Background(), res.TransferID, "alice")
		}()
		wg.Wait()
		f.clock.Advance(5 * interval)

		tr := f.get(t, res.TransferID)
		if cancelErr == nil {
			assert.Equal(t, entity.StatusCancelled, tr.Status)
			assert.Equal(t, 0, tr.Confirmations)
		} else {
			assert.ErrorIs(t, cancelErr, domain.ErrInvalidState)
			assert.Equal(t, entity.StatusCompleted, tr.Status)
		}
	}
}

func TestConfirmationFault_FailsTransfer(t *testing.T) {
	f := newFixture(t)
	f.confirmer.failAt = 2
	res := f.initiate(t, "alice", "testchain", 100)

	f.clock.Advance(promotionDelay + 10*interval)

	tr := f.get(t, res.TransferID)
	assert.Equal(t, entity.StatusFailed, tr.Status)
	assert.Equal(t, 1, tr.Confirmations)
	assert.Contains(t, tr.Error, "network fault")
	assert.Empty(t, tr.TransactionHash)
	assert.Equal(t, 0, f.clock.Pending())
	assert.Equal(t,
		[]entity.EventType{entity.EventCreated, entity.EventConfirmation, entity.EventFailed},
		eventTypes(f.log.ForTransfer(res.TransferID)),
	)
}

func TestConfirmations_MonotonicAndBounded(t *testing.T) {
	f := newFixture(t)
	ids := []string{
		f.initiate(t, "alice", "testchain", 10).TransferID,
		f.initiate(t, "bob", "arbitrum", 20).TransferID,
	}
	f.clock.Advance(time.Second)
	ids = append(ids, f.initiate(t, "carol", "polygon", 30).TransferID)

	last := map[string]int{}
	for step := 0; step < 80; step++ {
		f.clock.Advance(time.Second)
		for _, id := range ids {
			tr := f.get(t, id)
			require.GreaterOrEqual(t, tr.Confirmations, last[id])
			require.LessOrEqual(t, tr.Confirmations, tr.RequiredConfirmations)
			if tr.Status == entity.StatusCompleted {
				require.Equal(t, tr.RequiredConfirmations, tr.Confirmations)
			}
			last[id] = tr.Confirmations
		}
	}
	assert.Equal(t, entity.StatusCompleted, f.get(t, ids[0]).Status)
	assert.Equal(t, entity.StatusCompleted, f.get(t, ids[1]).Status)
	assert.Equal(t, entity.StatusProcessing, f.get(t, ids[2]).Status)
}

func TestPausedBridge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing := f.initiate(t, "alice", "testchain", 50)

	require.NoError(t, f.svc.PauseBridge(ctx, admin))

	before, _ := f.transfers.Count(ctx)
	for _, chain := range []string{"ethereum", "unknown"} {
		_, err := f.svc.InitiateTransfer(ctx, port.InitiateTransferRequest{
			UserID: "bob", NFTID: "n", TargetChain: chain, Amount: decimal.NewFromInt(5),
		})
		assert.ErrorIs(t, err, domain.ErrBridgePaused)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	}
	after, _ := f.transfers.Count(ctx)
	assert.Equal(t, before, after)

	list, err := f.svc.GetUserTransfers(ctx, "alice", entity.TransferFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalCount)
	stats, err := f.svc.GetBridgeStats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Paused)

	_, err = f.svc.CancelTransfer(ctx, existing.TransferID, "alice")
	assert.NoError(t, err)

	require.NoError(t, f.svc.UnpauseBridge(ctx, admin))
	f.initiate(t, "bob", "ethereum", 5)
}

func TestAdmin_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before, _ := f.svc.GetPolicy(ctx)

	err := f.svc.UpdateBridgeFee(ctx, "0xwallet", decimal.RequireFromString("0.05"))
	assert.ErrorIs(t, err, domain.ErrNotAdmin)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	after, _ := f.svc.GetPolicy(ctx)
	assert.True(t, before.FeeRate.Equal(after.FeeRate))

	assert.ErrorIs(t, f.svc.PauseBridge(ctx, "0xwallet"), domain.ErrNotAdmin)
	assert.ErrorIs(t, f.svc.UnpauseBridge(ctx, ""), domain.ErrNotAdmin)
	assert.ErrorIs(t, f.svc.UpdateTransferLimits(ctx, "0xwallet", decimal.NewFromInt(1), decimal.NewFromInt(2)), domain.ErrNotAdmin)
	assert.ErrorIs(t, f.svc.AddSupportedChain(ctx, "0xwallet", entity.ChainConfig{}), domain.ErrNotAdmin)
	_, err = f.svc.CollectBridgeFees(ctx, "0xwallet")
	assert.ErrorIs(t, err, domain.ErrNotAdmin)
	_, err = f.svc.ForceFailTransfer(ctx, "0xwallet", "x", "")
	assert.ErrorIs(t, err, domain.ErrNotAdmin)
}

func TestAdmin_PolicyUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.UpdateBridgeFee(ctx, admin, decimal.RequireFromString("0.11")), domain.ErrInvalidPolicy)
	assert.ErrorIs(t, f.svc.UpdateTransferLimits(ctx, admin, decimal.NewFromInt(10), decimal.NewFromInt(10)), domain.ErrInvalidPolicy)
	assert.ErrorIs(t, f.svc.UpdateTransferLimits(ctx, admin, decimal.Zero, decimal.NewFromInt(10)), domain.ErrInvalidPolicy)

	require.NoError(t, f.svc.UpdateTransferLimits(ctx, admin, decimal.NewFromInt(10), decimal.NewFromInt(20)))
	_, err := f.svc.InitiateTransfer(ctx, port.InitiateTransferRequest{
		UserID: "u", NFTID: "n", TargetChain: "ethereum", Amount: decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrAmountTooLow)

	p, _ := f.svc.GetPolicy(ctx)
	assert.True(t, decimal.NewFromInt(10).Equal(p.MinAmount))
	assert.True(t, decimal.NewFromInt(20).Equal(p.MaxAmount))
}

func TestBridgeFee_FrozenAtCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.initiate(t, "alice", "ethereum", 200)
	require.NoError(t, f.svc.UpdateBridgeFee(ctx, admin, decimal.RequireFromString("0.05")))
	second := f.initiate(t, "alice", "ethereum", 200)

	assert.True(t, decimal.NewFromInt(2).Equal(f.get(t, first.TransferID).BridgeFee))
	assert.True(t, decimal.NewFromInt(10).Equal(second.BridgeFee))

	f.clock.Advance(time.Hour)
	assert.True(t, decimal.NewFromInt(2).Equal(f.get(t, first.TransferID).BridgeFee))
}

func TestAddSupportedChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	newChain := entity.ChainConfig{Key: "optimism", Name: "Optimism", ChainID: 10, GasLimit: 250000, Confirmations: 2}
	require.NoError(t, f.svc.AddSupportedChain(ctx, admin, newChain))
	assert.ErrorIs(t, f.svc.AddSupportedChain(ctx, admin, newChain), domain.ErrChainExists)
	assert.ErrorIs(t, f.svc.AddSupportedChain(ctx, admin, entity.ChainConfig{Key: "base", ChainID: 8453, Confirmations: 1}), domain.ErrInvalidConfig)

	chains, err := f.svc.ListChains(ctx)
	require.NoError(t, err)
	assert.Len(t, chains, 6)

	res := f.initiate(t, "alice", "optimism", 10)
	f.clock.Advance(promotionDelay + 2*interval)
	assert.Equal(t, entity.StatusCompleted, f.get(t, res.TransferID).Status)
}

func TestCollectBridgeFees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.initiate(t, "alice", "ethereum", 100) // fee 1
	f.initiate(t, "bob", "ethereum", 150)   // fee 2

	got, err := f.svc.CollectBridgeFees(ctx, admin)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(got.Collected))
	assert.True(t, decimal.NewFromInt(3).Equal(got.FeesCollected))

	got, err = f.svc.CollectBridgeFees(ctx, admin)
	require.NoError(t, err)
	assert.True(t, got.Collected.IsZero())
	assert.True(t, decimal.NewFromInt(3).Equal(got.FeesCollected))

	stats, err := f.svc.GetBridgeStats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.UncollectedFees.IsZero())
	assert.True(t, decimal.NewFromInt(3).Equal(stats.TotalFees))
}

func TestCollectBridgeFees_ConcurrentWithAccrual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		collected = decimal.Zero
	)
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_, err := f.svc.InitiateTransfer(ctx, port.InitiateTransferRequest{
					UserID: fmt.Sprintf("user-%d", i), NFTID: "n", TargetChain: "ethereum",
					Amount: decimal.NewFromInt(int64(50 + j)),
				})
				assert.NoError(t, err)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				got, err := f.svc.CollectBridgeFees(ctx, admin)
				assert.NoError(t, err)
				mu.Lock()
				collected = collected.Add(got.Collected)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	final, err := f.svc.CollectBridgeFees(ctx, admin)
	require.NoError(t, err)
	collected = collected.Add(final.Collected)

	stats, err := f.svc.GetBridgeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200, stats.TotalTransfers)
	assert.True(t, stats.TotalFees.Equal(collected), "collected %s, ledger fees %s", collected, stats.TotalFees)
	assert.True(t, stats.FeesCollected.Equal(collected))
}

func TestForceFailTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.initiate(t, "alice", "testchain", 100)

	_, err := f.svc.ForceFailTransfer(ctx, admin, res.TransferID, "stuck")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "pending transfers cannot be failed")

	f.clock.Advance(promotionDelay + interval)
	tr, err := f.svc.ForceFailTransfer(ctx, admin, res.TransferID, "  ")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, tr.Status)
	assert.Equal(t, defaultFailureReason, tr.Error)
	assert.Equal(t, 1, tr.Confirmations)
	assert.Equal(t, 0, f.clock.Pending())

	f.clock.Advance(time.Hour)
	assert.Equal(t, tr, f.get(t, res.TransferID))

	_, err = f.svc.ForceFailTransfer(ctx, admin, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)
}

func TestIdempotentInitiate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := port.InitiateTransferRequest{
		UserID: "alice", NFTID: "nft-1", TargetChain: "ethereum",
		Amount: decimal.NewFromInt(100), IdempotencyKey: "req-1",
	}

	first, err := f.svc.InitiateTransfer(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := f.svc.InitiateTransfer(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.TransferID, second.TransferID)
	assert.True(t, first.BridgeFee.Equal(second.BridgeFee))

	n, _ := f.transfers.Count(ctx)
	assert.Equal(t, 1, n)

	req.IdempotencyKey = "req-2"
	third, err := f.svc.InitiateTransfer(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first.TransferID, third.TransferID)
}

func TestGetBridgeStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmer.failAt = 0

	done := f.initiate(t, "alice", "testchain", 100)
	cancelled := f.initiate(t, "bob", "testchain", 40)
	_, err := f.svc.CancelTransfer(ctx, cancelled.TransferID, "bob")
	require.NoError(t, err)
	f.clock.Advance(promotionDelay + 3*interval)
	require.Equal(t, entity.StatusCompleted, f.get(t, done.TransferID).Status)

	f.confirmer.failAt = 1
	failed := f.initiate(t, "carol", "arbitrum", 10)
	f.clock.Advance(promotionDelay + interval)
	require.Equal(t, entity.StatusFailed, f.get(t, failed.TransferID).Status)

	f.confirmer.failAt = 0
	f.initiate(t, "alice", "ethereum", 60) // stays pending

	stats, err := f.svc.GetBridgeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalTransfers)
	assert.Equal(t, 1, stats.SuccessfulTransfers)
	assert.Equal(t, 1, stats.FailedTransfers)
	assert.Equal(t, 1, stats.CancelledTransfers)
	assert.Equal(t, 1, stats.PendingTransfers)
	assert.Equal(t, 0, stats.ProcessingTransfers)
	assert.True(t, decimal.NewFromInt(210).Equal(stats.TotalAmount))
	assert.True(t, decimal.NewFromInt(4).Equal(stats.TotalFees))
	assert.InDelta(t, 3, float64(stats.UniqueSenders), 1)
	assert.Equal(t, 5, stats.SupportedChains)
	assert.False(t, stats.Paused)

	tc := stats.PerChainBreakdown["testchain"]
	assert.Equal(t, 2, tc.TotalTransfers)
	assert.True(t, decimal.NewFromInt(140).Equal(tc.TotalAmount))
	assert.Equal(t, 1, tc.Successful)
	assert.Equal(t, 0, tc.Failed)
	assert.Equal(t, 1, stats.PerChainBreakdown["arbitrum"].Failed)
	assert.Equal(t, 0, stats.PerChainBreakdown["polygon"].TotalTransfers)
}

func TestShutdown_StopsAllTimers(t *testing.T) {
	f := newFixture(t)
	res := f.initiate(t, "alice", "testchain", 10)
	f.clock.Advance(promotionDelay)

	f.svc.Shutdown()
	assert.Equal(t, 0, f.clock.Pending())

	f.clock.Advance(time.Hour)
	tr := f.get(t, res.TransferID)
	assert.Equal(t, entity.StatusProcessing, tr.Status)
	assert.Equal(t, 0, tr.Confirmations)
}

func TestNewBridgeService_RejectsBadPolicy(t *testing.T) {
	logger := zap.NewNop()
	chains, err := memory.NewChainRegistry(nil, logger)
	require.NoError(t, err)
	deps := Dependencies{
		Chains:     chains,
		Transfers:  memory.NewTransferRepository(logger),
		Scheduler:  scheduler.NewManual(epoch),
		Confirmer:  &scriptedConfirmer{},
		Authorizer: auth.NewStaticAdmins(nil, logger),
	}

	_, err = NewBridgeService(deps, config.BridgeConfig{FeeRate: 0.2, MinAmount: 1, MaxAmount: 2, ConfirmationInterval: time.Second}, logger)
	assert.ErrorIs(t, err, domain.ErrInvalidPolicy)

	_, err = NewBridgeService(deps, config.BridgeConfig{FeeRate: 0.01, MinAmount: 5, MaxAmount: 2, ConfirmationInterval: time.Second}, logger)
	assert.ErrorIs(t, err, domain.ErrInvalidPolicy)

	_, err = NewBridgeService(Dependencies{}, config.BridgeConfig{}, logger)
	assert.Error(t, err)
}
