package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/qq1060656096/autoload/internal/ctxlog"
	"github.com/qq1060656096/autoload/maputil"
)

// Standard 策略支持的选项名。
const (
	OptNamespaces         = "namespaces"
	OptPrefixes           = "prefixes"
	OptFallbackAutoloader = "fallback_autoloader"
	OptIncludePaths       = "include_paths"
	OptExtension          = "extension"
)

const (
	// NamespaceSeparator 分隔命名空间的各级名称。
	NamespaceSeparator = `\`
	// PrefixSeparator 分隔前缀风格类名的各级名称。
	PrefixSeparator = "_"
	// DefaultExtension 是类定义文件的默认扩展名。
	DefaultExtension = ".php"
)

// StandardOption 配置 Standard。
type StandardOption func(*Standard)

// WithFileExists 替换判断文件是否存在的实现，默认使用 os.Stat 判断普通文件。
func WithFileExists(fn func(path string) bool) StandardOption {
	return func(s *Standard) {
		if fn != nil {
			s.fileExists = fn
		}
	}
}

// Standard 是按命名空间 / 前缀映射目录的策略。
//
// 类名包含 `\` 时只匹配命名空间，否则只匹配前缀。匹配必须落在分隔符边界上，
// 多个候选时最长的优先；候选文件不存在时继续尝试较短的候选。
// 都未命中且开启了 fallback 时，在 include_paths 中按完整类名查找。
type Standard struct {
	mu           sync.RWMutex
	namespaces   map[string]string
	prefixes     map[string]string
	fallback     bool
	includePaths []string
	extension    string
	fileExists   func(path string) bool
}

var _ Loader = (*Standard)(nil)

// NewStandard 创建一个没有任何命名空间和前缀的策略。
func NewStandard(opts ...StandardOption) *Standard {
	s := &Standard{
		namespaces: make(map[string]string),
		prefixes:   make(map[string]string),
		extension:  DefaultExtension,
		fileExists: regularFileExists,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind 实现 Loader。
func (s *Standard) Kind() Kind {
	return KindStandard
}

// Configure 实现 Loader。
//
// 所有选项先完成校验再一并应用，校验失败时策略保持原状。
func (s *Standard) Configure(ctx context.Context, options any) error {
	if options == nil {
		return nil
	}
	m, ok := toOptionsMap(options)
	if !ok {
		return NewErrInvalidOptions(KindStandard, fmt.Sprintf("got %T, want mapping", options))
	}

	namespaces, err := toStringMap(m[OptNamespaces])
	if err != nil {
		return NewErrInvalidOptions(KindStandard, OptNamespaces+": "+err.Error())
	}
	prefixes, err := toStringMap(m[OptPrefixes])
	if err != nil {
		return NewErrInvalidOptions(KindStandard, OptPrefixes+": "+err.Error())
	}
	includePaths, err := toStringList(m[OptIncludePaths])
	if err != nil {
		return NewErrInvalidOptions(KindStandard, OptIncludePaths+": "+err.Error())
	}
	var fallback *bool
	if raw, ok := m[OptFallbackAutoloader]; ok && raw != nil {
		b, ok := raw.(bool)
		if !ok {
			return NewErrInvalidOptions(KindStandard, fmt.Sprintf("%s: got %T, want bool", OptFallbackAutoloader, raw))
		}
		fallback = &b
	}
	var extension string
	if raw, ok := m[OptExtension]; ok && raw != nil {
		ext, ok := raw.(string)
		if !ok || ext == "" {
			return NewErrInvalidOptions(KindStandard, fmt.Sprintf("%s: got %v, want non-empty string", OptExtension, raw))
		}
		extension = ext
	}

	normNamespaces := make(map[string]string, len(namespaces))
	for ns, dir := range namespaces {
		key := strings.Trim(ns, NamespaceSeparator)
		if key == "" {
			return NewErrInvalidOptions(KindStandard, "empty namespace")
		}
		normNamespaces[key] = filepath.Clean(dir)
	}
	normPrefixes := make(map[string]string, len(prefixes))
	for prefix, dir := range prefixes {
		key := strings.TrimRight(prefix, PrefixSeparator)
		if key == "" {
			return NewErrInvalidOptions(KindStandard, "empty prefix")
		}
		normPrefixes[key] = filepath.Clean(dir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	maputil.Merge(s.namespaces, normNamespaces)
	maputil.Merge(s.prefixes, normPrefixes)
	s.includePaths = append(s.includePaths, includePaths...)
	if fallback != nil {
		s.fallback = *fallback
	}
	if extension != "" {
		s.extension = extension
	}

	ctxlog.FromContext(ctx).Debug("Configured standard loader.",
		"namespaces", len(s.namespaces), "prefixes", len(s.prefixes), "fallback", s.fallback)
	return nil
}

// RegisterNamespace 将命名空间映射到目录。
func (s *Standard) RegisterNamespace(namespace, dir string) error {
	return s.Configure(context.Background(), map[string]any{
		OptNamespaces: map[string]string{namespace: dir},
	})
}

// RegisterPrefix 将类名前缀映射到目录。
func (s *Standard) RegisterPrefix(prefix, dir string) error {
	return s.Configure(context.Background(), map[string]any{
		OptPrefixes: map[string]string{prefix: dir},
	})
}

// SetFallbackAutoloader 开启或关闭 fallback 查找。
func (s *Standard) SetFallbackAutoloader(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = enabled
}

// IsFallbackAutoloader 返回是否开启了 fallback 查找。
func (s *Standard) IsFallbackAutoloader() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallback
}

// Namespaces 返回命名空间到目录映射的副本。
func (s *Standard) Namespaces() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maputil.Clone(s.namespaces)
}

// Prefixes 返回前缀到目录映射的副本。
func (s *Standard) Prefixes() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maputil.Clone(s.prefixes)
}

// IncludePaths 返回 fallback 查找使用的目录。
func (s *Standard) IncludePaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.includePaths))
	copy(out, s.includePaths)
	return out
}

// Autoload 实现 hook.Callback。
func (s *Standard) Autoload(className string) (string, bool) {
	class := normalizeClass(className)
	if class == "" {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	table, sep := s.prefixes, PrefixSeparator
	if strings.Contains(class, NamespaceSeparator) {
		table, sep = s.namespaces, NamespaceSeparator
	}
	for _, leader := range maputil.KeysByLenDesc(table) {
		if !strings.HasPrefix(class, leader+sep) {
			continue
		}
		path := filepath.Join(table[leader], s.transform(class[len(leader)+len(sep):]))
		if s.fileExists(path) {
			return path, true
		}
	}

	if !s.fallback {
		return "", false
	}
	rel := s.transform(class)
	if len(s.includePaths) == 0 {
		if s.fileExists(rel) {
			return rel, true
		}
		return "", false
	}
	for _, dir := range s.includePaths {
		path := filepath.Join(dir, rel)
		if s.fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// transform 将类名转换为相对文件路径。
//
// 命名空间部分只替换 `\`；最后一段类名中的 `\` 和 `_` 都会变为目录分隔符。
// 例如 `Foo\Bar_Baz\Qux_Quux` -> Foo/Bar_Baz/Qux/Quux.php。
func (s *Standard) transform(class string) string {
	namespace, name := "", class
	if i := strings.LastIndex(class, NamespaceSeparator); i >= 0 {
		namespace, name = class[:i+1], class[i+1:]
	}
	rel := strings.ReplaceAll(namespace, NamespaceSeparator, "/") +
		strings.ReplaceAll(name, PrefixSeparator, "/") +
		s.extension
	return filepath.FromSlash(rel)
}

func regularFileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
