package registry

import (
	"github.com/qq1060656096/autoload/loader"
	"github.com/qq1060656096/autoload/maputil"
)

// DefaultAutoloader 是 Configure(ctx, nil) 注册的策略标识。
const DefaultAutoloader = string(loader.KindStandard)

// Entry 是配置中的一项：策略标识及其选项。
//
// Options 的结构由策略决定，参见 loader.Standard 和 loader.ClassMap。
type Entry struct {
	ID      string
	Options any
}

// Spec 是有序的配置。顺序决定了策略在运行时回调列表中的优先级。
type Spec []Entry

// normalizeSpec 将 Configure 接受的各种配置形式转换为 Spec。
//
// map[string]any 没有顺序，按 key 升序处理以保证结果确定。
func normalizeSpec(spec any) (Spec, error) {
	switch s := spec.(type) {
	case nil:
		return Spec{{ID: DefaultAutoloader}}, nil
	case Spec:
		return s, nil
	case []Entry:
		return Spec(s), nil
	case map[string]any:
		out := make(Spec, 0, len(s))
		for _, id := range maputil.SortedKeys(s) {
			out = append(out, Entry{ID: id, Options: s[id]})
		}
		return out, nil
	}
	return nil, NewErrInvalidSpec(spec)
}
