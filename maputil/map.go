package maputil

import (
	"cmp"
	"sort"
)

// Merge 将 src 中的所有键值写入 dst，相同的 key 以 src 为准。
// 返回写入的条目数量。dst 为 nil 时会 panic，与直接写 nil map 的行为一致。
func Merge[K comparable, V any](dst, src map[K]V) int {
	for k, v := range src {
		dst[k] = v
	}
	return len(src)
}

// Clone 返回 m 的浅拷贝。
//
// 与 maps.Clone 不同，nil 或空 map 也会返回一个可写的非 nil map，
// 调用方可以直接在返回值上继续写入。
func Clone[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SortedKeys 返回按升序排列的所有 key。
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// KeysByLenDesc 返回按长度降序排列的字符串 key，长度相同时按字典序。
//
// 常用于最长前缀匹配：按返回顺序依次尝试，第一个命中即为最长匹配。
func KeysByLenDesc[V any](m map[string]V) []string {
	keys := SortedKeys(m)
	sort.SliceStable(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}
