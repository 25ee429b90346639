// Package classmap 读取、生成和编码类映射（class map）数据。
//
// 类映射是完全限定类名到定义文件路径的精确映射，供 loader.ClassMap 使用。
// 支持的文件格式由扩展名决定：
//   - .json: {"Foo\\Bar": "src/Foo/Bar.php"}
//   - .yaml / .yml: Foo\Bar: src/Foo/Bar.php
//   - .hcl: classes = { "Foo\\Bar" = "src/Foo/Bar.php" }
//
// 映射文件中的相对路径以映射文件所在目录为基准。
package classmap

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat 表示映射文件的扩展名无法识别。
	ErrUnsupportedFormat = errors.New("autoload.classmap: unsupported map file format")

	// ErrMalformedMap 表示映射文件内容不是“类名 -> 路径”的字符串映射。
	ErrMalformedMap = errors.New("autoload.classmap: malformed map")

	// ErrDuplicateClass 表示生成类映射时同一个类名在多个文件中声明。
	ErrDuplicateClass = errors.New("autoload.classmap: duplicate class declaration")
)

// NewErrMalformedMap 创建一个包含文件路径和原因的格式错误。
func NewErrMalformedMap(path, reason string) error {
	return fmt.Errorf("map file %q: %s: %w", path, reason, ErrMalformedMap)
}

// NewErrDuplicateClass 创建一个包含类名和两个声明位置的重复声明错误。
func NewErrDuplicateClass(className, first, second string) error {
	return fmt.Errorf("class %q declared in %q and %q: %w", className, first, second, ErrDuplicateClass)
}
