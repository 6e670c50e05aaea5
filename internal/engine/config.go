package engine

import (
	"fmt"
	"time"

	"github.com/selfstoragehq/storage-agent-be/internal/engine/intent"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/pricing"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/router"
)

// Config is the engine's complete read-only configuration: keyword tables,
// rate card, routing threshold and business metadata. Built once at process
// start and injected, never global — alternate tables in tests don't touch
// shared state.
type Config struct {
	ConfidenceThreshold int
	FollowUpDelay       time.Duration
	Business            router.BusinessInfo
	Intents             intent.Config
	RateCard            pricing.Config
}

// DefaultConfig returns the stock configuration. Callers typically override
// the threshold, tax rate and business metadata from the environment.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 70,
		FollowUpDelay:       2 * time.Second,
		Business: router.BusinessInfo{
			Name:    "StashSpace Self Storage",
			Phone:   "+1-555-010-2400",
			Email:   "hello@stashspace.example",
			Address: "2400 Harbor Blvd, Costa Mesa, CA 92626",
			Hours:   "Mon–Sat 8:00–18:00, Sun 10:00–16:00",
		},
		Intents:  intent.DefaultConfig(),
		RateCard: pricing.DefaultConfig(),
	}
}

// Validate runs the startup integrity checks so rate-card gaps fail the
// boot instead of individual quote requests.
func (c Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 100 {
		return fmt.Errorf("engine: confidence threshold %d out of [0,100]", c.ConfidenceThreshold)
	}
	if err := c.RateCard.Validate(); err != nil {
		return err
	}
	return nil
}
