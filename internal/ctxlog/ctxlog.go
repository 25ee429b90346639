// Package ctxlog 通过 context.Context 传递 *slog.Logger。
package ctxlog

import (
	"context"
	"log/slog"
)

// key 是未导出类型，避免与其他包的 context key 冲突。
type key struct{}

var loggerKey = key{}

// WithLogger 返回携带 logger 的新 context。
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext 从 context 中取出 logger。
// 未设置时返回 slog.Default()，库代码因此无需强制调用方注入 logger。
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.Default()
}
