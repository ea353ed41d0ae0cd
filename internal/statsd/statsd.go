// Package statsd reports per-system dispatch timings. It hides the datadog
// dependency behind ecs.DispatchObserver.
package statsd

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const Namespace = "strata."

// Observer emits a "system" timing for every system update and counts
// failures under "system.error". Both carry a system:<name> tag.
type Observer struct {
	client ddstatsd.ClientInterface
	logger zerolog.Logger
}

// New creates an observer sending to address. An empty address yields an
// observer backed by a no-op client.
func New(address string, logger zerolog.Logger, tags ...string) (*Observer, error) {
	if address == "" {
		return NewWithClient(&ddstatsd.NoOpClient{}, logger), nil
	}

	opts := []ddstatsd.Option{
		// The statsd namespace is the prefix of all metrics
		ddstatsd.WithNamespace(Namespace),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	client, err := ddstatsd.New(address, opts...)
	if err != nil {
		return nil, eris.Wrapf(err, "statsd client for %s", address)
	}
	return NewWithClient(client, logger), nil
}

// NewWithClient creates an observer over an existing client.
func NewWithClient(client ddstatsd.ClientInterface, logger zerolog.Logger) *Observer {
	return &Observer{client: client, logger: logger}
}

// ObserveSystem implements ecs.DispatchObserver.
func (o *Observer) ObserveSystem(name string, d time.Duration, err error) {
	tags := []string{"system:" + name}
	if emitErr := o.client.Timing("system", d, tags, 1); emitErr != nil {
		o.logger.Warn().Err(emitErr).Msg("failed to emit system timing")
	}
	if err == nil {
		return
	}
	if emitErr := o.client.Incr("system.error", tags, 1); emitErr != nil {
		o.logger.Warn().Err(emitErr).Msg("failed to emit system error")
	}
}

// Close flushes and closes the client.
func (o *Observer) Close() error {
	return o.client.Close()
}
