package classmap

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/qq1060656096/autoload/maputil"
)

// encodeOptions 控制 Encode 输出的格式，key 排序保证输出稳定。
var encodeOptions = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "    ",
	SortKeys: true,
}

// Encode 将类映射编码为格式化的 JSON，结果可被 Load 读回。
func Encode(m map[string]string) ([]byte, error) {
	out := []byte("{}")
	for _, name := range maputil.SortedKeys(m) {
		var err error
		out, err = sjson.SetBytes(out, gjson.Escape(name), m[name])
		if err != nil {
			return nil, err
		}
	}
	return pretty.PrettyOptions(out, encodeOptions), nil
}
