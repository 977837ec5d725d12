package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10oblique"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// 内置字体表：主题与渲染器通过逻辑名引用 Latin Modern 字体数据，
// 字体随二进制一起发布，渲染不依赖任何外部字体文件。
var builtin = map[string][]byte{
	"LMSans-Regular":  lmsans10regular.TTF,
	"LMSans-Bold":     lmsans10bold.TTF,
	"LMSans-Oblique":  lmsans10oblique.TTF,
	"LMRoman-Regular": lmroman10regular.TTF,
	"LMRoman-Bold":    lmroman10bold.TTF,
	"LMRoman-Italic":  lmroman10italic.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:LMSans-Regular" 或直接 "LMSans-Regular"。
func Load(name string) ([]byte, error) {
	key := strings.TrimPrefix(name, "embed:")
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败：未注册", key)
	}
	return data, nil
}

// Fallback 返回兜底字体数据，供渲染器在指定字体加载失败时使用。
func Fallback() []byte {
	return lmsans10regular.TTF
}
