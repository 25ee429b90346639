package classmap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/tidwall/gjson"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"gopkg.in/yaml.v3"

	"github.com/qq1060656096/autoload/internal/ctxlog"
)

// hclClassesAttr 是 HCL 映射文件中保存映射的属性名。
const hclClassesAttr = "classes"

// Load 读取 path 指向的映射文件并返回类名到文件路径的映射。
//
// 文件不存在时返回的错误满足 errors.Is(err, fs.ErrNotExist)。
func Load(ctx context.Context, path string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map file %q: %w", path, err)
	}

	var m map[string]string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		m, err = decodeJSON(path, data)
	case ".yaml", ".yml":
		m, err = decodeYAML(path, data)
	case ".hcl":
		m, err = decodeHCL(path, data)
	default:
		return nil, fmt.Errorf("map file %q (%s): %w", path, ext, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for name, p := range m {
		if !filepath.IsAbs(p) {
			m[name] = filepath.Join(base, p)
		}
	}

	logger.Debug("Loaded class map.", "path", path, "classes", len(m))
	return m, nil
}

func decodeJSON(path string, data []byte) (map[string]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, NewErrMalformedMap(path, "invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, NewErrMalformedMap(path, "top-level value is not an object")
	}

	m := make(map[string]string)
	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			err = NewErrMalformedMap(path, fmt.Sprintf("value of %q is not a string", key.String()))
			return false
		}
		m[normalizeClass(key.String())] = value.String()
		return true
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func decodeYAML(path string, data []byte) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewErrMalformedMap(path, err.Error())
	}
	m := make(map[string]string)
	// 空文档视为空映射
	if len(doc.Content) == 0 {
		return m, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, NewErrMalformedMap(path, "top-level value is not a mapping")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!str" {
			return nil, NewErrMalformedMap(path, fmt.Sprintf("value of %q is not a string", key.Value))
		}
		m[normalizeClass(key.Value)] = value.Value
	}
	return m, nil
}

func decodeHCL(path string, data []byte) (map[string]string, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, NewErrMalformedMap(path, diags.Error())
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, NewErrMalformedMap(path, diags.Error())
	}

	m := make(map[string]string)
	attr, ok := attrs[hclClassesAttr]
	if !ok {
		return m, nil
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, NewErrMalformedMap(path, diags.Error())
	}
	if val.IsNull() {
		return m, nil
	}
	val, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, NewErrMalformedMap(path, fmt.Sprintf("%q must be a map of strings: %s", hclClassesAttr, err))
	}
	for name, v := range val.AsValueMap() {
		if v.IsNull() {
			return nil, NewErrMalformedMap(path, fmt.Sprintf("value of %q is null", name))
		}
		m[normalizeClass(name)] = v.AsString()
	}
	return m, nil
}

// normalizeClass 去掉类名开头的命名空间分隔符。
func normalizeClass(name string) string {
	return strings.TrimLeft(name, `\`)
}
