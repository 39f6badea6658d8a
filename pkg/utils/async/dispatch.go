package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine that outlives the request.
// Context values (logger, request ID) are kept but cancellation of ctx is not propagated.
// Errors and panics are logged and reported; they never reach the caller.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	bgCtx := context.WithoutCancel(ctx)
	bgCtx = logging.With(bgCtx, logging.From(ctx).With("task", name))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errutil.Handle(bgCtx, goerr.New("panic in async task", goerr.V("panic", r)), "async task panicked")
			}
		}()

		if err := handler(bgCtx); err != nil {
			errutil.Handle(bgCtx, err, "async task failed")
		}
	}()
}
