package layout

// Options 配置排版阶段所需的依赖。Measurer 必须提供；
// Theme 为空时使用 DefaultTheme；Data 非空时对块文本做 ${path} 插值。
type Options struct {
	Measurer TextMeasurer
	Theme    *Theme
	Data     any
}

// TextMeasurer 负责度量一段文本在给定字体与字号下的宽度（mm）。
// 排版自己决定折行位置，度量方的职责只有宽度计算。
type TextMeasurer interface {
	MeasureWidth(text string, font FontResource, fontSize float64) (float64, error)
}
