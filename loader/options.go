package loader

import "fmt"

// toStringMap 将 {string: string} 结构的选项值转换为 map[string]string。
// 解码自 YAML / JSON / HCL 的配置通常是 map[string]any。
func toStringMap(v any) (map[string]string, error) {
	switch m := v.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return m, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, raw := range m {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("value of %q is %T, want string", k, raw)
			}
			out[k] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("got %T, want mapping of strings", v)
}

// toStringList 将字符串序列转换为 []string，单个字符串视为只有一个元素的序列。
func toStringList(v any) ([]string, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{l}, nil
	case []string:
		return l, nil
	case []any:
		out := make([]string, 0, len(l))
		for i, raw := range l {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, want string", i, raw)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("got %T, want list of strings", v)
}

// toOptionsMap 将选项值转换为 map[string]any。
func toOptionsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}
