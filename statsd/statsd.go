// Package statsd is a helper package that wraps some common statsd methods.
// It hides the datadog dependency so if we decide to migrate away from datadog
// in the future, we only need to edit this single file.
package statsd

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

var client ddstatsd.ClientInterface = &ddstatsd.NoOpClient{}

func Client() ddstatsd.ClientInterface {
	return client
}

// EmitCheckpointStat reports how long a checkpoint stage took.
func EmitCheckpointStat(start time.Time, stage string) {
	duration := time.Since(start)
	err := Client().Timing("checkpoint", duration, []string{stage}, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit checkpoint stat: %v", err)
	}
}

// EmitStoreStat reports how long a durable store operation took.
func EmitStoreStat(start time.Time, stage string) {
	duration := time.Since(start)
	err := Client().Timing("store", duration, []string{stage}, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit store stat: %v", err)
	}
}

func Init(address string, tags []string) error {
	if address == "" {
		return eris.New("address must not be empty")
	}
	opts := []ddstatsd.Option{
		// The statsd namespace is the prefix of all metrics
		ddstatsd.WithNamespace("docstate"),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	newClient, err := ddstatsd.New(address, opts...)
	if err != nil {
		return err
	}
	// Success! replace the global client
	client = newClient
	return nil
}
