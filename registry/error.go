package registry

import (
	"errors"
	"fmt"
)

// 预定义的哨兵错误，可使用 errors.Is 进行判断。
//
// 示例:
//
//	_, err := reg.Autoloader("classmap")
//	if errors.Is(err, registry.ErrUnknownAutoloader) {
//	    // 处理未注册的情况
//	}
var (
	// ErrInvalidConfiguration 表示 Configure 收到的配置无效。
	// 包括：配置不是映射、策略标识未知、策略选项结构错误、映射文件无法读取。
	ErrInvalidConfiguration = errors.New("autoload.registry: invalid configuration")

	// ErrUnknownAutoloader 表示请求的自动加载器没有注册。
	// 当调用 Autoloader 或 Unregister 时，如果指定的标识不存在，将返回此错误。
	ErrUnknownAutoloader = errors.New("autoload.registry: unknown autoloader")
)

// NewErrInvalidSpec 创建一个配置类型错误。
//
// 返回的错误可以通过 errors.Is(err, ErrInvalidConfiguration) 进行判断。
func NewErrInvalidSpec(spec any) error {
	return fmt.Errorf("spec of type %T is not a mapping of autoloaders: %w", spec, ErrInvalidConfiguration)
}

// NewErrInvalidConfiguration 创建一个包含自动加载器标识和原始错误的配置错误。
//
// 返回的错误可以通过 errors.Is(err, ErrInvalidConfiguration) 进行判断，
// 同时也可以通过 errors.Is 判断原始错误（例如 loader.ErrUnknownKind）。
func NewErrInvalidConfiguration(id string, err error) error {
	return fmt.Errorf("autoloader %q: %w: %w", id, ErrInvalidConfiguration, err)
}

// NewErrUnknownAutoloader 创建一个包含自动加载器标识的未注册错误。
//
// 返回的错误可以通过 errors.Is(err, ErrUnknownAutoloader) 进行判断。
func NewErrUnknownAutoloader(id string) error {
	return fmt.Errorf("autoloader %q not registered: %w", id, ErrUnknownAutoloader)
}
