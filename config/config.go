// Package config 读取自动加载器注册表的配置文件。
//
// 配置文件按优先级顺序列出自动加载器。YAML 和 JSON 文件使用顶层的
// "autoloaders" 映射，key 为策略标识：
//
//	autoloaders:
//	  classmap:
//	    - maps/autoload_classmap.json
//	  standard:
//	    namespaces:
//	      App: src/App
//	    fallback_autoloader: true
//
// HCL 文件中每个自动加载器对应一个带标签的块：
//
//	autoloader "classmap" {
//	  files = ["maps/autoload_classmap.json"]
//	}
//
// 选项中的相对文件和目录路径以配置文件所在目录为基准。
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qq1060656096/autoload/internal/ctxlog"
	"github.com/qq1060656096/autoload/registry"
)

// RootKey 是 YAML 和 JSON 文件中保存自动加载器的顶层 key。
const RootKey = "autoloaders"

// ErrInvalidConfig 表示配置文件无法读取或解码。
var ErrInvalidConfig = errors.New("autoload.config: invalid config file")

// NewErrInvalidConfig 创建一个包含文件路径和原始错误的配置文件错误。
//
// 返回的错误可以通过 errors.Is(err, ErrInvalidConfig) 进行判断，同时也可以判断原始错误。
func NewErrInvalidConfig(path string, err error) error {
	return fmt.Errorf("config %q: %w: %w", path, ErrInvalidConfig, err)
}

// Load 读取 path 指向的配置文件，返回其描述的注册表配置。
func Load(ctx context.Context, path string) (registry.Spec, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading autoloader config.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewErrInvalidConfig(path, err)
	}

	var spec registry.Spec
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		spec, err = decodeYAML(data)
	case ".json":
		spec, err = decodeJSON(data)
	case ".hcl":
		spec, err = decodeHCL(path, data)
	default:
		err = fmt.Errorf("unsupported extension %q", ext)
	}
	if err != nil {
		return nil, NewErrInvalidConfig(path, err)
	}

	base := filepath.Dir(path)
	for i := range spec {
		spec[i].Options = resolvePaths(spec[i].ID, spec[i].Options, base)
	}

	logger.Debug("Loaded autoloader config.", "path", path, "autoloaders", len(spec))
	return spec, nil
}
