package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"time"

	"agendabot/internal/logging"
)

// Bounds for per-call request options, matching the tool surface.
const (
	MinTimeout = 1 * time.Second
	MaxTimeout = 600 * time.Second
	MaxRetries = 10

	DefaultTimeout     = 60 * time.Second
	DefaultRetries     = 3
	DefaultBackoffBase = 1.5
)

// Policy bounds a single logical request: a hard per-attempt timeout, a retry
// budget for transient failures, and the exponential backoff base. It is
// attached per call and never persisted.
type Policy struct {
	Timeout     time.Duration
	Retries     int
	BackoffBase float64
}

// DefaultPolicy returns the policy used when the caller supplies no options.
func DefaultPolicy() Policy {
	return Policy{
		Timeout:     DefaultTimeout,
		Retries:     DefaultRetries,
		BackoffBase: DefaultBackoffBase,
	}
}

// Validate checks the policy against the documented bounds.
func (p Policy) Validate() error {
	if p.Timeout < MinTimeout || p.Timeout > MaxTimeout {
		return fmt.Errorf("timeout must be between %v and %v, got %v", MinTimeout, MaxTimeout, p.Timeout)
	}
	if p.Retries < 0 || p.Retries > MaxRetries {
		return fmt.Errorf("retries must be between 0 and %d, got %d", MaxRetries, p.Retries)
	}
	return nil
}

func (p Policy) withDefaults() Policy {
	if p.Timeout == 0 {
		p.Timeout = DefaultTimeout
	}
	if p.BackoffBase == 0 {
		p.BackoffBase = DefaultBackoffBase
	}
	return p
}

// StatusError is an HTTP error status returned by the calendar API.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("calendar API returned %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("calendar API returned %s", e.Status)
}

// TransientError reports an exhausted retry budget. It carries the attempt
// count and configured timeout for diagnosis, and wraps the last underlying
// failure.
type TransientError struct {
	Attempts int
	Timeout  time.Duration
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("request failed after %d attempts with timeout=%s: %v", e.Attempts, e.Timeout, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// retryableStatuses are the only HTTP statuses worth another attempt. A 401
// stays in the list: expired-token 401s are already refreshed and replayed
// once at the call site, so one reaching the classifier behaves like any
// other transient rejection.
var retryableStatuses = map[int]bool{
	401: true,
	408: true,
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Retryable reports whether err is worth another attempt. Connection and
// timeout failures of any kind always are; HTTP statuses only from the short
// allow list. Everything else (including decode failures and auth errors) is
// re-raised immediately.
func Retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return retryableStatuses[se.Code]
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return true
	}
	return false
}

// Executor runs request functions under a Policy with bounded retries and
// pure exponential backoff (base^attempt seconds, no jitter, no cap).
type Executor struct {
	logger *slog.Logger
	sleep  func(time.Duration)
}

// New creates an Executor. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		logger: logger,
		sleep:  time.Sleep,
	}
}

// Do runs fn up to policy.Retries+1 times, each attempt under its own
// deadline of policy.Timeout. Non-retryable errors propagate immediately;
// once the budget is exhausted the last failure is wrapped in a
// TransientError.
func (e *Executor) Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	policy = policy.withDefaults()

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= policy.Retries; attempt++ {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		if !Retryable(err) {
			return err
		}
		lastErr = err

		if attempt < policy.Retries {
			if ctx.Err() != nil {
				break
			}
			delay := backoffDelay(policy.BackoffBase, attempt)
			e.logger.Debug("transient request failure, backing off",
				slog.Int(logging.KeyAttempt, attempt+1),
				slog.Duration("delay", delay),
				logging.Err(err))
			e.sleep(delay)
		}
	}

	return &TransientError{
		Attempts: attempts,
		Timeout:  policy.Timeout,
		Err:      lastErr,
	}
}

func backoffDelay(base float64, attempt int) time.Duration {
	return time.Duration(math.Pow(base, float64(attempt)) * float64(time.Second))
}
