package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/qq1060656096/autoload/classmap"
	"github.com/qq1060656096/autoload/internal/ctxlog"
	"github.com/qq1060656096/autoload/maputil"
)

// OptFiles 是类映射策略中保存映射文件列表的选项名。
const OptFiles = "files"

// MapSource 读取映射文件，返回类名到文件路径的映射。
type MapSource func(ctx context.Context, path string) (map[string]string, error)

// ClassMapOption 配置 ClassMap。
type ClassMapOption func(*ClassMap)

// WithMapSource 替换读取映射文件的实现，默认为 classmap.Load。
func WithMapSource(src MapSource) ClassMapOption {
	return func(c *ClassMap) {
		if src != nil {
			c.source = src
		}
	}
}

// ClassMap 是按类映射精确查找的策略。
//
// 支持的选项结构:
//   - 序列: 元素为映射文件路径（string）或内联映射（{类名: 路径}）
//   - 映射: {"files": 序列}
//   - 单个字符串: 视为只有一个映射文件
//
// 多次 Configure 时映射会被合并，相同类名以后加载的为准；
// 同一个映射文件只会被加载一次。
type ClassMap struct {
	mu     sync.RWMutex
	source MapSource
	m      map[string]string
	loaded []string
	seen   map[string]struct{}
}

var _ Loader = (*ClassMap)(nil)

// NewClassMap 创建一个空的类映射策略。
func NewClassMap(opts ...ClassMapOption) *ClassMap {
	c := &ClassMap{
		source: classmap.Load,
		m:      make(map[string]string),
		seen:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind 实现 Loader。
func (c *ClassMap) Kind() Kind {
	return KindClassMap
}

// Configure 实现 Loader。
func (c *ClassMap) Configure(ctx context.Context, options any) error {
	if options == nil {
		return nil
	}
	if m, ok := toOptionsMap(options); ok {
		files, ok := m[OptFiles]
		if !ok {
			return nil
		}
		options = files
	}

	switch v := options.(type) {
	case string, []string:
		files, _ := toStringList(v)
		for _, f := range files {
			if err := c.RegisterMapFile(ctx, f); err != nil {
				return err
			}
		}
		return nil
	case []map[string]string:
		for _, m := range v {
			c.RegisterMap(m)
		}
		return nil
	case []any:
		for i, elem := range v {
			if err := c.configureElement(ctx, i, elem); err != nil {
				return err
			}
		}
		return nil
	}
	return NewErrInvalidOptions(KindClassMap, fmt.Sprintf("got %T, want list of map files or maps", options))
}

func (c *ClassMap) configureElement(ctx context.Context, i int, elem any) error {
	if path, ok := elem.(string); ok {
		return c.RegisterMapFile(ctx, path)
	}
	m, err := toStringMap(elem)
	if err != nil || m == nil {
		return NewErrInvalidOptions(KindClassMap, fmt.Sprintf("element %d: got %T, want map file or map", i, elem))
	}
	c.RegisterMap(m)
	return nil
}

// RegisterMapFile 读取映射文件并合并到当前映射中。
// 已经加载过的文件会被忽略。
func (c *ClassMap) RegisterMapFile(ctx context.Context, path string) error {
	c.mu.RLock()
	_, done := c.seen[path]
	c.mu.RUnlock()
	if done {
		return nil
	}

	m, err := c.source(ctx, path)
	if err != nil {
		return fmt.Errorf("%s loader: map file %q: %w: %w", KindClassMap, path, ErrInvalidOptions, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, done := c.seen[path]; done {
		return nil
	}
	c.merge(m)
	c.seen[path] = struct{}{}
	c.loaded = append(c.loaded, path)

	ctxlog.FromContext(ctx).Debug("Merged class map file.", "path", path, "classes", len(m), "total", len(c.m))
	return nil
}

// RegisterMap 将内联映射合并到当前映射中。
func (c *ClassMap) RegisterMap(m map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.merge(m)
}

// merge 调用方必须持有写锁。
func (c *ClassMap) merge(m map[string]string) {
	normalized := make(map[string]string, len(m))
	for name, path := range m {
		normalized[normalizeClass(name)] = path
	}
	maputil.Merge(c.m, normalized)
}

// AutoloadMap 返回当前映射的副本。
func (c *ClassMap) AutoloadMap() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maputil.Clone(c.m)
}

// MapsLoaded 按加载顺序返回已加载的映射文件。
func (c *ClassMap) MapsLoaded() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.loaded))
	copy(out, c.loaded)
	return out
}

// Autoload 实现 hook.Callback。
func (c *ClassMap) Autoload(className string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path, ok := c.m[normalizeClass(className)]
	return path, ok
}
