package classmap

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/tidwall/match"

	"github.com/qq1060656096/autoload/internal/ctxlog"
)

// DefaultExtension 是生成器默认扫描的源文件扩展名。
const DefaultExtension = ".php"

// GenerateOptions 控制 Generate 的扫描行为。
type GenerateOptions struct {
	// Extension 是需要扫描的文件扩展名，为空时使用 DefaultExtension。
	Extension string
	// Exclude 是排除的 glob 模式（tidwall/match 语法），
	// 同时匹配相对 root 的路径和文件名。
	Exclude []string
	// Workers 是并发解析文件的 goroutine 数量，<= 0 时使用 runtime.GOMAXPROCS(0)。
	Workers int
	// RelativeTo 非空时，生成的路径相对于该目录；否则为绝对路径。
	RelativeTo string
}

var (
	namespacePattern = regexp.MustCompile(`(?m)^[ \t]*namespace[ \t]+([A-Za-z_\\][A-Za-z0-9_\\]*)[ \t]*[;{]`)
	classPattern     = regexp.MustCompile(`(?m)^[ \t]*(?:(?:abstract|final|readonly)[ \t]+)*(?:class|interface|trait|enum)[ \t]+([A-Za-z_][A-Za-z0-9_]*)`)
)

// declaration 是在单个文件中发现的一个类声明。
type declaration struct {
	class string
	path  string
}

// Generate 扫描 root 下的源文件并生成类映射。
//
// 同一个类名在多个文件中声明时返回 ErrDuplicateClass。
func Generate(ctx context.Context, root string, opts GenerateOptions) (map[string]string, error) {
	logger := ctxlog.FromContext(ctx)

	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	files, err := findSources(root, ext, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", root, err)
	}
	logger.Debug("Scanning source files.", "root", root, "files", len(files), "workers", workers)

	p := pool.NewWithResults[[]declaration]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(workers)
	for _, file := range files {
		file := file
		p.Go(func(ctx context.Context) ([]declaration, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return scanFile(file)
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	var decls []declaration
	for _, r := range results {
		decls = append(decls, r...)
	}
	// 结果顺序不固定，排序后重复声明的报错才是确定的
	sort.Slice(decls, func(i, j int) bool {
		if decls[i].class != decls[j].class {
			return decls[i].class < decls[j].class
		}
		return decls[i].path < decls[j].path
	})

	m := make(map[string]string, len(decls))
	for _, d := range decls {
		path := d.path
		if opts.RelativeTo != "" {
			rel, err := filepath.Rel(opts.RelativeTo, path)
			if err != nil {
				return nil, err
			}
			path = rel
		}
		if prev, ok := m[d.class]; ok {
			return nil, NewErrDuplicateClass(d.class, prev, path)
		}
		m[d.class] = path
	}

	logger.Debug("Generated class map.", "root", root, "classes", len(m))
	return m, nil
}

// findSources 递归查找 root 下扩展名为 ext 且未被排除的文件。
func findSources(root, ext string, exclude []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel != "." && excluded(filepath.ToSlash(rel), d.Name(), exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func excluded(rel, name string, patterns []string) bool {
	for _, pattern := range patterns {
		if match.Match(rel, pattern) || match.Match(name, pattern) {
			return true
		}
	}
	return false
}

// scanFile 读取单个文件中的命名空间和类声明。
func scanFile(path string) ([]declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return scanSource(path, string(data)), nil
}

// scanSource 返回 src 中声明的完全限定类名。
// 每个类归属于在它之前最近出现的 namespace 声明。
func scanSource(path, src string) []declaration {
	namespaces := namespacePattern.FindAllStringSubmatchIndex(src, -1)
	classes := classPattern.FindAllStringSubmatchIndex(src, -1)

	decls := make([]declaration, 0, len(classes))
	n := 0
	ns := ""
	for _, c := range classes {
		for n < len(namespaces) && namespaces[n][0] < c[0] {
			ns = src[namespaces[n][2]:namespaces[n][3]]
			n++
		}
		name := src[c[2]:c[3]]
		if ns != "" {
			name = strings.Trim(ns, `\`) + `\` + name
		}
		decls = append(decls, declaration{class: name, path: path})
	}
	return decls
}
