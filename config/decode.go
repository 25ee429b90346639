package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/tidwall/gjson"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"

	"github.com/qq1060656096/autoload/registry"
)

func decodeYAML(data []byte) (registry.Spec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	spec := registry.Spec{}
	if len(doc.Content) == 0 {
		return spec, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("top-level value is not a mapping")
	}

	var autoloaders *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == RootKey {
			autoloaders = root.Content[i+1]
			break
		}
	}
	if autoloaders == nil {
		return spec, nil
	}
	if autoloaders.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%q is not a mapping", RootKey)
	}

	// 映射节点保留了文件中的顺序
	for i := 0; i+1 < len(autoloaders.Content); i += 2 {
		id := autoloaders.Content[i].Value
		var options any
		if err := autoloaders.Content[i+1].Decode(&options); err != nil {
			return nil, fmt.Errorf("autoloader %q: %w", id, err)
		}
		spec = append(spec, registry.Entry{ID: id, Options: options})
	}
	return spec, nil
}

func decodeJSON(data []byte) (registry.Spec, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("top-level value is not an object")
	}

	spec := registry.Spec{}
	autoloaders := root.Get(gjson.Escape(RootKey))
	if !autoloaders.Exists() {
		return spec, nil
	}
	if !autoloaders.IsObject() {
		return nil, fmt.Errorf("%q is not an object", RootKey)
	}
	autoloaders.ForEach(func(key, value gjson.Result) bool {
		spec = append(spec, registry.Entry{ID: key.String(), Options: value.Value()})
		return true
	})
	return spec, nil
}

// hclFile 是 HCL 配置文件的顶层结构。
type hclFile struct {
	Autoloaders []*hclAutoloader `hcl:"autoloader,block"`
}

type hclAutoloader struct {
	ID     string   `hcl:"id,label"`
	Remain hcl.Body `hcl:",remain"`
}

func decodeHCL(path string, data []byte) (registry.Spec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, diags
	}
	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, diags
	}

	spec := make(registry.Spec, 0, len(parsed.Autoloaders))
	for _, block := range parsed.Autoloaders {
		attrs, diags := block.Remain.JustAttributes()
		if diags.HasErrors() {
			return nil, diags
		}
		var options any
		if len(attrs) > 0 {
			m := make(map[string]any, len(attrs))
			for name, attr := range attrs {
				val, diags := attr.Expr.Value(nil)
				if diags.HasErrors() {
					return nil, diags
				}
				native, err := ctyToNative(val)
				if err != nil {
					return nil, fmt.Errorf("autoloader %q: attribute %q: %w", block.ID, name, err)
				}
				m[name] = native
			}
			options = m
		}
		spec = append(spec, registry.Entry{ID: block.ID, Options: options})
	}
	return spec, nil
}

// ctyToNative 将 cty.Value 转换为策略可以接受的普通 Go 值：
// string、float64、bool、[]any 和 map[string]any。
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in key %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
