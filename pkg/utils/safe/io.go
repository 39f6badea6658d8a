package safe

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// Close closes c and logs a failure instead of returning it. nil is ignored.
// Used in defer for readers and clients whose close error cannot change the result.
func Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Warn("failed to close",
			slog.String("type", fmt.Sprintf("%T", c)),
			slog.Any("error", err))
	}
}

// Write writes data to w and logs a failure. Used for HTTP response bodies after the header is sent.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("failed to write response", slog.Any("error", err))
	}
}
