package download

import (
	"context"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/rs/zerolog"

	"github.com/ytget/ytdl-shell/internal/engine"
)

// DefaultRetryDelay is used when retries are enabled without a delay
const DefaultRetryDelay = 2 * time.Second

// retrier re-runs engine calls that failed transiently
type retrier struct {
	policy retrypolicy.RetryPolicy[any]
}

func newRetrier(maxRetries int, delay time.Duration, logger zerolog.Logger) *retrier {
	if maxRetries <= 0 {
		return nil
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	policy := retrypolicy.NewBuilder[any]().
		HandleIf(func(_ any, err error) bool {
			return engine.IsTransient(err)
		}).
		WithMaxRetries(maxRetries).
		WithDelay(delay).
		ReturnLastFailure().
		OnRetry(func(e failsafe.ExecutionEvent[any]) {
			logger.Warn().
				Err(e.LastError()).
				Int("attempt", e.Attempts()).
				Msg("retrying after transient engine failure")
		}).
		Build()
	return &retrier{policy: policy}
}

// run executes fn once, or under the retry policy when one is configured
func (r *retrier) run(ctx context.Context, fn func() error) error {
	if r == nil {
		return fn()
	}
	return failsafe.With[any](r.policy).WithContext(ctx).Run(fn)
}
