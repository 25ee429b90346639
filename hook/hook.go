// Package hook 抽象宿主运行时的“类未找到”回调列表。
//
// 运行时按安装顺序依次调用回调，直到某个回调给出类定义文件的路径。
// 某个回调未命中时继续询问下一个；全部未命中只表示“未找到”，不是错误。
package hook

import "sync"

// Callback 是运行时回调。
//
// 回调以接口值的相等性识别，因此实现必须是可比较的类型（通常是指针）。
type Callback interface {
	// Autoload 返回 className 对应的文件路径；无法处理时返回 ("", false)。
	Autoload(className string) (path string, ok bool)
}

// Runtime 是注册表依赖的运行时回调列表。
type Runtime interface {
	// Install 将 cb 追加到回调列表末尾。
	// cb 已存在时不做任何修改并返回 false。
	Install(cb Callback) bool

	// Remove 从回调列表中移除 cb，不影响其他回调的顺序。
	// cb 不存在时返回 false。
	Remove(cb Callback) bool
}

// Func 将普通函数包装为 Callback。
//
// 以 *Func 的形式安装，指针保证了回调可以被识别和移除。
type Func struct {
	Name string
	Fn   func(className string) (string, bool)
}

// Autoload 实现 Callback。
func (f *Func) Autoload(className string) (string, bool) {
	if f == nil || f.Fn == nil {
		return "", false
	}
	return f.Fn(className)
}

// NewFunc 创建一个具名的函数回调。
func NewFunc(name string, fn func(className string) (string, bool)) *Func {
	return &Func{Name: name, Fn: fn}
}

// Stack 是进程内的 Runtime 实现，所有方法并发安全。
type Stack struct {
	mu        sync.RWMutex
	callbacks []Callback
}

var _ Runtime = (*Stack)(nil)

// NewStack 创建一个空的回调列表。
func NewStack() *Stack {
	return &Stack{}
}

// Install 实现 Runtime。
func (s *Stack) Install(cb Callback) bool {
	if cb == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(cb) >= 0 {
		return false
	}
	s.callbacks = append(s.callbacks, cb)
	return true
}

// Remove 实现 Runtime。
func (s *Stack) Remove(cb Callback) bool {
	if cb == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(cb)
	if i < 0 {
		return false
	}
	s.callbacks = append(s.callbacks[:i:i], s.callbacks[i+1:]...)
	return true
}

// Callbacks 返回当前回调列表的快照，按安装顺序排列。
func (s *Stack) Callbacks() []Callback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Callback, len(s.callbacks))
	copy(out, s.callbacks)
	return out
}

// Len 返回已安装的回调数量。
func (s *Stack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.callbacks)
}

// Resolve 按安装顺序依次询问回调，返回第一个命中的路径。
//
// 回调在快照上执行，不持有锁，回调内部可以安全地再次调用 Stack。
func (s *Stack) Resolve(className string) (string, bool) {
	for _, cb := range s.Callbacks() {
		if path, ok := cb.Autoload(className); ok {
			return path, true
		}
	}
	return "", false
}

// indexOf 返回 cb 的下标，调用方必须持有锁。
func (s *Stack) indexOf(cb Callback) int {
	for i, c := range s.callbacks {
		if c == cb {
			return i
		}
	}
	return -1
}
