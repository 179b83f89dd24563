package redis

import (
	"context"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"
)

// loggingAdapter routes go-redis internal messages through the shared logger
// so connection warnings land in the same stream as everything else.
type loggingAdapter struct{}

func (l *loggingAdapter) Printf(ctx context.Context, format string, v ...interface{}) {
	logger.Global().WithCtx(ctx).Infof(format, v...)
}

func init() {
	goredis.SetLogger(&loggingAdapter{})
}
