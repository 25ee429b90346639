package config

import (
	"path/filepath"

	"github.com/qq1060656096/autoload/loader"
)

// resolvePaths 将选项中的相对路径转换为以 base 为基准的路径。
// 无法识别的结构原样返回，交给策略自己校验。
func resolvePaths(id string, options any, base string) any {
	switch loader.Kind(id) {
	case loader.KindClassMap:
		if m, ok := options.(map[string]any); ok {
			if files, ok := m[loader.OptFiles]; ok {
				m[loader.OptFiles] = resolveList(files, base)
			}
			return m
		}
		return resolveList(options, base)

	case loader.KindStandard:
		m, ok := options.(map[string]any)
		if !ok {
			return options
		}
		for _, key := range []string{loader.OptNamespaces, loader.OptPrefixes} {
			if dirs, ok := m[key].(map[string]any); ok {
				for name, dir := range dirs {
					if s, ok := dir.(string); ok {
						dirs[name] = resolve(s, base)
					}
				}
			}
		}
		if paths, ok := m[loader.OptIncludePaths]; ok {
			m[loader.OptIncludePaths] = resolveList(paths, base)
		}
		return m
	}
	return options
}

// resolveList 处理单个路径或路径序列，序列中的非字符串元素保持不变。
func resolveList(v any, base string) any {
	switch l := v.(type) {
	case string:
		return resolve(l, base)
	case []any:
		out := make([]any, len(l))
		for i, elem := range l {
			if s, ok := elem.(string); ok {
				out[i] = resolve(s, base)
			} else {
				out[i] = elem
			}
		}
		return out
	}
	return v
}

func resolve(path, base string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
