// Package faulttolerance provides the bounded retry mechanism used for
// catalog fetches: a fixed attempt count with a fixed delay between
// attempts. No backoff, no jitter - the upstream is paced elsewhere.
package faulttolerance

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig holds configuration for a Retryer.
type RetryConfig struct {
	MaxAttempts int           // Maximum number of attempts before giving up
	Delay       time.Duration // Fixed delay between failed attempts
	Name        string        // Name for logging
}

// DefaultRetryConfig returns the crawl's retry contract: 3 attempts with a
// 2-second pause between them.
func DefaultRetryConfig(name string) RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
		Name:        name,
	}
}

// RetryableFunc is a function that can be retried.
type RetryableFunc func() error

// SleepFunc waits for d or until ctx is cancelled. It is injectable so the
// retry contract can be tested without wall-clock waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Retryer executes functions under a fixed-delay retry policy.
type Retryer struct {
	config RetryConfig
	logger *logrus.Logger
	sleep  SleepFunc
}

// NewRetryer creates a retryer that waits with a context-aware timer.
func NewRetryer(config RetryConfig, logger *logrus.Logger) *Retryer {
	return NewRetryerWithSleep(config, logger, sleepCtx)
}

// NewRetryerWithSleep creates a retryer with a custom delay capability.
func NewRetryerWithSleep(config RetryConfig, logger *logrus.Logger, sleep SleepFunc) *Retryer {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.Delay < 0 {
		config.Delay = 0
	}
	if config.Name == "" {
		config.Name = "Retryer"
	}
	return &Retryer{
		config: config,
		logger: logger,
		sleep:  sleep,
	}
}

// Execute runs fn up to MaxAttempts times, waiting the configured delay
// between failed attempts. The returned error wraps the last attempt's
// error once all attempts are exhausted.
func (r *Retryer) Execute(ctx context.Context, fn RetryableFunc) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			if attempt > 1 {
				r.logger.Infof("[%s] Succeeded on attempt %d", r.config.Name, attempt)
			}
			return nil
		}

		lastErr = err

		if attempt == r.config.MaxAttempts {
			r.logger.Errorf("[%s] All %d attempts failed, last error: %v", r.config.Name, attempt, err)
			break
		}

		r.logger.Warnf("[%s] Attempt %d/%d failed: %v. Retrying in %v...",
			r.config.Name, attempt, r.config.MaxAttempts, err, r.config.Delay)

		if err := r.sleep(ctx, r.config.Delay); err != nil {
			return err
		}
	}

	return fmt.Errorf("%s: %d attempts exhausted: %w", r.config.Name, r.config.MaxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
