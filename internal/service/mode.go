package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/devops-automation/internal/domain"
	"github.com/spec-kit/devops-automation/internal/tracker"
	apperrors "github.com/spec-kit/devops-automation/pkg/util"
)

// ModeController owns the process-wide execution mode and hands out the
// matching ticket store. Both stores satisfy tracker.TicketStore, so no
// downstream component knows which one is active. Toggling is rejected
// while a batch is in flight so a batch never straddles two stores.
type ModeController struct {
	mu       sync.Mutex
	mode     domain.Mode
	inFlight bool
	live     tracker.TicketStore
	sandbox  *tracker.Sandbox
	logger   *zap.Logger
}

// NewModeController starts in the given mode.
func NewModeController(initial domain.Mode, live tracker.TicketStore, sandbox *tracker.Sandbox, logger *zap.Logger) *ModeController {
	return &ModeController{
		mode:    initial,
		live:    live,
		sandbox: sandbox,
		logger:  logger,
	}
}

// CurrentMode returns the active mode.
func (c *ModeController) CurrentMode() domain.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Store returns the store backing the active mode.
func (c *ModeController) Store() tracker.TicketStore {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storeLocked()
}

// EnableTestMode switches to the sandbox mirror and reseeds its fixtures.
// Reseeding happens even when test mode is already active, so every enable
// call yields a reproducible fixture set.
func (c *ModeController) EnableTestMode() (domain.Mode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return c.mode, apperrors.NewModeConflict("cannot toggle mode while a batch is in flight")
	}
	c.sandbox.Reseed()
	if c.mode != domain.ModeTest {
		c.mode = domain.ModeTest
		c.logger.Info("test mode enabled")
	}
	return c.mode, nil
}

// DisableTestMode switches to the live tracker.
func (c *ModeController) DisableTestMode() (domain.Mode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return c.mode, apperrors.NewModeConflict("cannot toggle mode while a batch is in flight")
	}
	if c.mode != domain.ModeProduction {
		c.mode = domain.ModeProduction
		c.logger.Info("test mode disabled, using live tracker")
	}
	return c.mode, nil
}

// BeginBatch marks a batch in flight and resolves the store it will use for
// its whole duration. A second concurrent batch is rejected.
func (c *ModeController) BeginBatch() (tracker.TicketStore, domain.Mode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return nil, c.mode, apperrors.NewConflict("a batch is already in progress", nil)
	}
	c.inFlight = true
	return c.storeLocked(), c.mode, nil
}

// EndBatch releases the in-flight guard.
func (c *ModeController) EndBatch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
}

func (c *ModeController) storeLocked() tracker.TicketStore {
	if c.mode == domain.ModeTest {
		return c.sandbox
	}
	return c.live
}
