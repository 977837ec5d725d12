package layout

import (
	"errors"
	"fmt"
	"strings"
)

// 该文件定义页面几何参数及其校验。几何参数在一次排版调用期间不变，
// 非法参数在排版开始前整体拒绝，绝不截断成合法值。

// ErrGeometry 标记页面几何参数非法，可用 errors.Is 判断。
var ErrGeometry = errors.New("layout: 非法的页面几何参数")

// Geometry 描述页面几何，单位均为毫米。
// Margin 为四边统一边距，LineHeight 为 body 样式的基准行高，
// 其余样式的行高由主题按比例换算。
type Geometry struct {
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
	Margin     float64 `json:"margin"`
	LineHeight float64 `json:"lineHeight"`
}

// Validate 校验几何参数，返回第一处非法字段的错误。
func (g Geometry) Validate() error {
	if g.PageWidth <= 0 {
		return fmt.Errorf("%w: 页宽必须为正数，当前 %.2fmm", ErrGeometry, g.PageWidth)
	}
	if g.PageHeight <= 0 {
		return fmt.Errorf("%w: 页高必须为正数，当前 %.2fmm", ErrGeometry, g.PageHeight)
	}
	if g.LineHeight <= 0 {
		return fmt.Errorf("%w: 基准行高必须为正数，当前 %.2fmm", ErrGeometry, g.LineHeight)
	}
	if g.Margin < 0 {
		return fmt.Errorf("%w: 边距不能为负数，当前 %.2fmm", ErrGeometry, g.Margin)
	}
	if g.Margin > g.PageWidth/2 {
		return fmt.Errorf("%w: 边距 %.2fmm 超过页宽的一半", ErrGeometry, g.Margin)
	}
	if g.Margin > g.PageHeight/2 {
		return fmt.Errorf("%w: 边距 %.2fmm 超过页高的一半", ErrGeometry, g.Margin)
	}
	return nil
}

// ContentWidth 返回可排版宽度（页宽减去左右边距）。
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// contentTop / contentBottom 界定竖直方向的可排版区间。
func (g Geometry) contentTop() float64    { return g.Margin }
func (g Geometry) contentBottom() float64 { return g.PageHeight - g.Margin }

var pagePresets = map[string][2]float64{
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
}

// PageSize 按名称查找纸张宽高（mm），名称大小写不敏感。
func PageSize(name string) (width, height float64, err error) {
	base, ok := pagePresets[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", name)
	}
	return base[0], base[1], nil
}

// DefaultGeometry 返回 A4 纵向、20mm 边距、6mm 基准行高。
func DefaultGeometry() Geometry {
	return Geometry{PageWidth: 210, PageHeight: 297, Margin: 20, LineHeight: 6}
}
