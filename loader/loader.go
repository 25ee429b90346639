// Package loader 实现自动加载策略。
//
// 策略集合是封闭的，由 Kind 标识：
//   - KindStandard: 按命名空间 / 前缀映射到目录，最长前缀优先
//   - KindClassMap: 按类映射精确查找
//
// 每个策略同时实现 hook.Callback，可直接安装到运行时回调列表。
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/qq1060656096/autoload/hook"
)

// Kind 是策略类型标识。
type Kind string

const (
	// KindStandard 是命名空间 / 前缀策略，也是默认策略。
	KindStandard Kind = "standard"
	// KindClassMap 是类映射策略。
	KindClassMap Kind = "classmap"
)

var (
	// ErrUnknownKind 表示策略标识不属于已知的策略类型。
	ErrUnknownKind = errors.New("autoload.loader: unknown loader kind")

	// ErrInvalidOptions 表示传给 Configure 的选项结构与策略要求不符。
	ErrInvalidOptions = errors.New("autoload.loader: invalid options")
)

// NewErrInvalidOptions 创建一个包含策略类型和原因的选项错误。
func NewErrInvalidOptions(kind Kind, reason string) error {
	return fmt.Errorf("%s loader: %s: %w", kind, reason, ErrInvalidOptions)
}

// Loader 是自动加载策略。
type Loader interface {
	hook.Callback

	// Kind 返回策略类型。
	Kind() Kind

	// Configure 将 options 合并到当前配置中。
	// 重复调用只会扩展已有配置，不会清空之前的内容。
	Configure(ctx context.Context, options any) error
}

// Kinds 返回所有已知的策略类型。
func Kinds() []Kind {
	return []Kind{KindStandard, KindClassMap}
}

// ParseKind 将字符串解析为 Kind。
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	switch k {
	case KindStandard, KindClassMap:
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// New 创建指定类型的空策略。
func New(kind Kind) (Loader, error) {
	switch kind {
	case KindStandard:
		return NewStandard(), nil
	case KindClassMap:
		return NewClassMap(), nil
	}
	return nil, fmt.Errorf("%q: %w", string(kind), ErrUnknownKind)
}

// normalizeClass 去掉类名开头的命名空间分隔符。
func normalizeClass(name string) string {
	return strings.TrimLeft(name, `\`)
}
