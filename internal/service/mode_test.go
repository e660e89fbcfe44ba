package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/devops-automation/internal/domain"
	"github.com/spec-kit/devops-automation/internal/tracker"
	apperrors "github.com/spec-kit/devops-automation/pkg/util"
)

func newModeController(initial domain.Mode) (*ModeController, *fakeStore, *tracker.Sandbox) {
	live := &fakeStore{counts: map[int]int{}}
	sandbox := tracker.NewSandbox("http://tracker.test")
	return NewModeController(initial, live, sandbox, zap.NewNop()), live, sandbox
}

func TestModeControllerStoreFollowsMode(t *testing.T) {
	modes, live, sandbox := newModeController(domain.ModeTest)

	assert.Equal(t, domain.ModeTest, modes.CurrentMode())
	assert.Same(t, sandbox, modes.Store().(*tracker.Sandbox))

	mode, err := modes.DisableTestMode()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeProduction, mode)
	assert.Same(t, live, modes.Store().(*fakeStore))

	mode, err = modes.EnableTestMode()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeTest, mode)
}

func TestEnableTestModeReseedsSandbox(t *testing.T) {
	modes, _, sandbox := newModeController(domain.ModeProduction)

	// Dirty the sandbox, then re-enter test mode.
	err := sandbox.UpdateTicket(context.Background(), tracker.TicketUpdate{
		TicketID:   99991,
		AssigneeID: 1239,
		StatusID:   tracker.StatusIDInProgress,
	})
	require.NoError(t, err)
	require.Len(t, sandbox.Updates(), 1)

	_, err = modes.EnableTestMode()
	require.NoError(t, err)

	assert.Empty(t, sandbox.Updates())
	ticket, ok := sandbox.Ticket(99991)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
}

func TestEnableTestModeReseedsWhenAlreadyInTestMode(t *testing.T) {
	modes, _, sandbox := newModeController(domain.ModeTest)

	err := sandbox.UpdateTicket(context.Background(), tracker.TicketUpdate{
		TicketID:   99992,
		AssigneeID: 1329,
		StatusID:   tracker.StatusIDInProgress,
	})
	require.NoError(t, err)
	require.Len(t, sandbox.Updates(), 1)

	mode, err := modes.EnableTestMode()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeTest, mode)

	assert.Empty(t, sandbox.Updates())
	tickets, err := sandbox.FetchNewTickets(context.Background())
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestModeToggleRejectedWhileBatchInFlight(t *testing.T) {
	modes, _, _ := newModeController(domain.ModeTest)

	_, _, err := modes.BeginBatch()
	require.NoError(t, err)

	_, err = modes.DisableTestMode()
	require.Error(t, err)
	assert.Equal(t, "MODE_CONFLICT", apperrors.ToDomainError(err).Code)

	_, err = modes.EnableTestMode()
	require.Error(t, err)
	assert.Equal(t, "MODE_CONFLICT", apperrors.ToDomainError(err).Code)

	modes.EndBatch()
	_, err = modes.DisableTestMode()
	assert.NoError(t, err)
}

func TestBeginBatchRejectsSecondBatch(t *testing.T) {
	modes, _, _ := newModeController(domain.ModeTest)

	_, _, err := modes.BeginBatch()
	require.NoError(t, err)

	_, _, err = modes.BeginBatch()
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	modes.EndBatch()
	_, _, err = modes.BeginBatch()
	assert.NoError(t, err)
}

func TestBeginBatchPinsStoreForDuration(t *testing.T) {
	modes, _, sandbox := newModeController(domain.ModeTest)

	store, mode, err := modes.BeginBatch()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeTest, mode)
	assert.Same(t, sandbox, store.(*tracker.Sandbox))
}
