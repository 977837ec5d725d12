package layout

import "github.com/hireloop/vellum/document"

// 该文件定义排版主题：把语义样式（标题、小标题、正文、列表）映射为
// 具体的字体、字号与行高比例。字号以毫米保存，行高按基准行高的倍数换算。

// TextStyle 描述一种语义样式的排版参数。
type TextStyle struct {
	Font      string  `json:"font"`
	Size      float64 `json:"size"`      // 字号（mm）
	LineScale float64 `json:"lineScale"` // 行高 = LineScale × Geometry.LineHeight
	Color     Color   `json:"color"`
}

// LineHeight 返回该样式在给定几何参数下的行高（mm）。
func (ts TextStyle) LineHeight(g Geometry) float64 {
	return ts.LineScale * g.LineHeight
}

// Theme 汇总全部样式参数与字体资源。
type Theme struct {
	Title      TextStyle `json:"title"` // 章节标题
	Heading    TextStyle `json:"heading"`
	Subheading TextStyle `json:"subheading"`
	Body       TextStyle `json:"body"`
	Bullet     TextStyle `json:"bullet"`

	BulletMarker string `json:"bulletMarker"` // 列表块行首符号

	TitleRule bool    `json:"titleRule"` // 标题下方是否画分隔线
	RuleColor Color   `json:"ruleColor"`
	RuleWidth float64 `json:"ruleWidth"` // mm

	Fonts map[string]FontResource `json:"fonts"`
}

// styleFor 按块样式取排版参数，未知样式回退为正文。
func (t *Theme) styleFor(s document.Style) TextStyle {
	switch document.ParseStyle(string(s)) {
	case document.StyleHeading:
		return t.Heading
	case document.StyleSubheading:
		return t.Subheading
	case document.StyleBullet:
		return t.Bullet
	default:
		return t.Body
	}
}

// DefaultTheme 返回内置 Latin Modern Sans 主题。
func DefaultTheme() *Theme {
	black := Color{R: 0, G: 0, B: 0}
	return &Theme{
		Title:      TextStyle{Font: "LMSans-Bold", Size: 14 * PtToMm, LineScale: 1.5, Color: black},
		Heading:    TextStyle{Font: "LMSans-Bold", Size: 12 * PtToMm, LineScale: 1.25, Color: black},
		Subheading: TextStyle{Font: "LMSans-Oblique", Size: 11 * PtToMm, LineScale: 1.1, Color: Color{R: 60, G: 60, B: 60}},
		Body:       TextStyle{Font: "LMSans-Regular", Size: 11 * PtToMm, LineScale: 1.0, Color: black},
		Bullet:     TextStyle{Font: "LMSans-Regular", Size: 11 * PtToMm, LineScale: 1.0, Color: black},

		BulletMarker: "• ",

		TitleRule: true,
		RuleColor: Color{R: 120, G: 120, B: 120},
		RuleWidth: 0.25,

		Fonts: map[string]FontResource{
			"LMSans-Regular": {Name: "LMSans-Regular", Src: "embed:LMSans-Regular", Style: "regular"},
			"LMSans-Bold":    {Name: "LMSans-Bold", Src: "embed:LMSans-Bold", Style: "bold"},
			"LMSans-Oblique": {Name: "LMSans-Oblique", Src: "embed:LMSans-Oblique", Style: "italic"},
		},
	}
}
