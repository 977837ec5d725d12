package binding

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderRE = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 把文本里的 ${path.to[0].value} 占位符替换为 data 中对应的值。
// data 可以是 JSON 解码出来的 map/slice，也可以是任意可 JSON 序列化的
// 结构体。路径解析不到（包括写法不合法）时占位符原样保留。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	root := normalize(data)
	return placeholderRE.ReplaceAllStringFunc(text, func(match string) string {
		// match 形如 ${...}，掐头去尾取出路径
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		val, ok := lookup(root, path)
		if !ok {
			return match
		}
		return render(val)
	})
}

// normalize 把结构体等任意数据经一次 JSON 往返压成 map/slice，
// 后续查路径就只剩两种容器要处理。转换失败时原样返回。
func normalize(data any) any {
	switch data.(type) {
	case map[string]interface{}, []interface{}:
		return data
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return data
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return data
	}
	return out
}

// render 把取到的值转成文本。float64 按十进制完整输出，
// 免得年份、分数这类 JSON 数字被打成科学计数法。
func render(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// lookup 沿着 "a.b[0].c" 形式的路径在 map/slice 中逐段下钻。
func lookup(root any, path string) (any, bool) {
	cur := root
	for _, seg := range strings.Split(path, ".") {
		name, idxs, ok := splitSegment(seg)
		if !ok {
			return nil, false
		}
		if name != "" {
			obj, isMap := cur.(map[string]interface{})
			if !isMap {
				return nil, false
			}
			if cur, ok = obj[name]; !ok {
				return nil, false
			}
		}
		for _, i := range idxs {
			arr, isArr := cur.([]interface{})
			if !isArr || i < 0 || i >= len(arr) {
				return nil, false
			}
			cur = arr[i]
		}
	}
	return cur, true
}

// splitSegment 把一段路径拆成字段名和若干下标。下标必须写满
// "[整数]" 的完整形态，残缺或带杂字符的段整体判为不合法。
func splitSegment(seg string) (string, []int, bool) {
	open := strings.IndexByte(seg, '[')
	if open == -1 {
		return seg, nil, true
	}

	name := seg[:open]
	var idxs []int
	rest := seg[open:]
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, false
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		idxs = append(idxs, n)
		rest = rest[end+1:]
	}
	return name, idxs, true
}
