package registry

import (
	"context"
	"sync"

	"github.com/qq1060656096/autoload/hook"
	"github.com/qq1060656096/autoload/internal/ctxlog"
	"github.com/qq1060656096/autoload/loader"
)

// Registry 是自动加载器注册表。
//
// 每个策略标识最多对应一个策略实例，每个实例在运行时回调列表中最多安装一次。
type Registry interface {
	// Configure 根据 spec 注册或扩展自动加载器。
	//
	// spec 可以是:
	//   - nil: 注册默认策略（DefaultAutoloader），已存在时不做任何修改
	//   - Spec 或 []Entry: 按顺序处理
	//   - map[string]any: 按标识升序处理
	//
	// 对已注册的标识，选项会合并到已有实例中，不会重复安装回调。
	// 处理到某一项失败时立即返回，之前已处理的项保持注册状态，不会回滚。
	//
	// 可能返回的错误:
	//   - ErrInvalidConfiguration: spec 类型错误、标识未知、选项结构错误
	Configure(ctx context.Context, spec any) error

	// Autoloader 根据标识获取策略实例。
	// 如果标识未注册，返回 ErrUnknownAutoloader 错误。
	Autoloader(id string) (loader.Loader, error)

	// MustAutoloader 根据标识获取策略实例。
	// 如果获取失败，会触发 panic。
	MustAutoloader(id string) loader.Loader

	// Autoloaders 按注册顺序返回所有策略实例。
	Autoloaders() []loader.Loader

	// List 按注册顺序返回所有已注册的标识。
	List() []string

	// Unregister 注销指定标识的策略，并从运行时移除它的回调。
	// 如果标识未注册，返回 ErrUnknownAutoloader 错误。
	Unregister(ctx context.Context, id string) error

	// UnregisterAll 注销所有策略，只移除注册表自己安装的回调。
	UnregisterAll(ctx context.Context)
}

// New 创建一个使用 rt 作为运行时回调列表的注册表。
//
// rt 为 nil 时会触发 panic。
func New(rt hook.Runtime, opts ...Option) Registry {
	if rt == nil {
		panic("autoload.registry: nil runtime")
	}
	r := &registry{
		runtime: rt,
		opener:  loader.New,
		index:   make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewWithStack 创建一个注册表以及它独占的 hook.Stack。
//
// 适用于不需要与其他回调共享运行时的场景，例如命令行工具和测试。
func NewWithStack(opts ...Option) (Registry, *hook.Stack) {
	stack := hook.NewStack()
	return New(stack, opts...), stack
}

// entry 表示一个已注册的策略。
type entry struct {
	id        string        // id 是策略标识
	loader    loader.Loader // loader 是策略实例，由注册表独占
	installed bool          // installed 标记回调是否由注册表安装，注销时只移除自己安装的回调
}

// registry 是 Registry 接口的具体实现。
//
// 所有修改操作在整个调用期间持有写锁，读操作持有读锁，
// 因此读操作总能看到一致的快照。
type registry struct {
	mu      sync.RWMutex
	runtime hook.Runtime
	opener  Opener
	entries []*entry          // entries 按注册顺序保存
	index   map[string]*entry // index 以标识为 key
}

// Configure 实现 Registry。
func (r *registry) Configure(ctx context.Context, spec any) error {
	entries, err := normalizeSpec(spec)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		if err := r.configure(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// configure 处理单个配置项，调用方必须持有写锁。
func (r *registry) configure(ctx context.Context, e Entry) error {
	logger := ctxlog.FromContext(ctx)

	kind, err := loader.ParseKind(e.ID)
	if err != nil {
		return NewErrInvalidConfiguration(e.ID, err)
	}
	id := string(kind)

	if existing, ok := r.index[id]; ok {
		if err := existing.loader.Configure(ctx, e.Options); err != nil {
			return NewErrInvalidConfiguration(id, err)
		}
		logger.Debug("Merged options into registered autoloader.", "id", id)
		return nil
	}

	l, err := r.opener(kind)
	if err != nil {
		return NewErrInvalidConfiguration(id, err)
	}
	if err := l.Configure(ctx, e.Options); err != nil {
		return NewErrInvalidConfiguration(id, err)
	}

	ent := &entry{id: id, loader: l}
	ent.installed = r.runtime.Install(l)
	r.entries = append(r.entries, ent)
	r.index[id] = ent

	logger.Debug("Registered autoloader.", "id", id, "installed", ent.installed, "position", len(r.entries)-1)
	return nil
}

// Autoloader 实现 Registry。
func (r *registry) Autoloader(id string) (loader.Loader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ent, ok := r.index[id]
	if !ok {
		return nil, NewErrUnknownAutoloader(id)
	}
	return ent.loader, nil
}

// MustAutoloader 实现 Registry。
func (r *registry) MustAutoloader(id string) loader.Loader {
	l, err := r.Autoloader(id)
	if err != nil {
		panic(err)
	}
	return l
}

// Autoloaders 实现 Registry。
func (r *registry) Autoloaders() []loader.Loader {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loaders := make([]loader.Loader, 0, len(r.entries))
	for _, ent := range r.entries {
		loaders = append(loaders, ent.loader)
	}
	return loaders
}

// List 实现 Registry。
func (r *registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for _, ent := range r.entries {
		ids = append(ids, ent.id)
	}
	return ids
}

// Unregister 实现 Registry。
func (r *registry) Unregister(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ent, ok := r.index[id]
	if !ok {
		return NewErrUnknownAutoloader(id)
	}
	r.uninstall(ctx, ent)

	for i, e := range r.entries {
		if e == ent {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			break
		}
	}
	delete(r.index, id)
	return nil
}

// UnregisterAll 实现 Registry。
func (r *registry) UnregisterAll(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ent := range r.entries {
		r.uninstall(ctx, ent)
	}
	r.entries = nil
	r.index = make(map[string]*entry)
}

// uninstall 从运行时移除注册表安装的回调，调用方必须持有写锁。
func (r *registry) uninstall(ctx context.Context, ent *entry) {
	removed := false
	if ent.installed {
		removed = r.runtime.Remove(ent.loader)
	}
	ctxlog.FromContext(ctx).Debug("Unregistered autoloader.", "id", ent.id, "callback_removed", removed)
}
