package email

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"plana-backend/internal/common/config"
)

type simulation struct {
	reason   Reason
	detail   string
	degraded bool
	attempts int
}

// simulate is the terminal strategy; it cannot fail.
func (s *Service) simulate(ctx context.Context, msg outgoing, sim simulation) SendResult {
	id := newSimulationID(s.now())

	s.logger.Info(s.tag("simulating email send"), map[string]interface{}{
		"id":       id,
		"from":     msg.From,
		"to":       msg.To,
		"subject":  msg.Subject,
		"reason":   string(sim.reason),
		"degraded": sim.degraded,
	})
	s.trace("simulated payload", map[string]interface{}{
		"html": msg.HTML,
		"text": msg.Text,
	})

	if s.settings.SimulateLatency && s.settings.Mode == config.ModeDevelopment {
		// Cancellation only shortens the delay; the result is still success.
		_ = s.sleep(ctx, s.latency())
	}

	return msg.stamp(SendResult{
		Success:  true,
		ID:       id,
		Provider: ProviderSimulation,
		Attempts: sim.attempts,
		Error:    sim.detail,
		Reason:   sim.reason,
		Degraded: sim.degraded,
	})
}

func (s *Service) latency() time.Duration {
	lo, hi := s.settings.MinLatency, s.settings.MaxLatency
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo)
}

// newSimulationID returns sim_<unix-ms>_<9 lowercase hex chars>.
func newSimulationID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("sim_%d_%s", now.UnixMilli(), random)
}
