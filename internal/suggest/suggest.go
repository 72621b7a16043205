// Package suggest drives the recipe suggestion round trip: trigger the
// external workflow webhook, then poll the backend message queue for the
// asynchronously produced suggestions.
package suggest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mkravets/pantrypal/internal/models"
)

// Gateway is the slice of the backend gateway the suggester needs.
type Gateway interface {
	TriggerRecipeWorkflow(ctx context.Context, userID string) error
	FetchRecipeMessages(ctx context.Context) ([]models.RecipeMessage, error)
	ClearRecipeMessages(ctx context.Context) error
}

// Service runs suggestion rounds. Poll is the interval between queue
// reads, Wait the overall deadline for one round.
type Service struct {
	gw   Gateway
	poll time.Duration
	wait time.Duration
	log  *zap.Logger
}

// New constructs a Service. poll and wait fall back to sane defaults when
// non-positive.
func New(gw Gateway, poll, wait time.Duration, log *zap.Logger) *Service {
	if poll <= 0 {
		poll = 3 * time.Second
	}
	if wait <= 0 {
		wait = 45 * time.Second
	}
	return &Service{gw: gw, poll: poll, wait: wait, log: log}
}

// Suggest triggers the workflow for userID, clears any stale messages,
// and polls the queue until it turns up something or the deadline passes.
// The first non-empty read wins; on deadline the (possibly empty) last
// read is returned without error. ctx cancellation aborts the round.
func (s *Service) Suggest(ctx context.Context, userID string) ([]models.RecipeMessage, error) {
	if err := s.gw.TriggerRecipeWorkflow(ctx, userID); err != nil {
		return nil, err
	}
	// Drop leftovers from a previous round so old suggestions are not
	// mistaken for the new ones.
	if err := s.gw.ClearRecipeMessages(ctx); err != nil {
		return nil, err
	}

	s.log.Info("recipe workflow triggered", zap.String("userId", userID))

	deadline := time.After(s.wait)
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			msgs, err := s.gw.FetchRecipeMessages(ctx)
			if err != nil {
				return nil, err
			}
			return msgs, nil
		case <-ticker.C:
			msgs, err := s.gw.FetchRecipeMessages(ctx)
			if err != nil {
				s.log.Debug("message poll failed", zap.Error(err))
				continue
			}
			if len(msgs) > 0 {
				return msgs, nil
			}
		}
	}
}
