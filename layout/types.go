package layout

// 该文件定义排版结果与资源描述，供排版计算、渲染与调试 JSON 共用。
// 所有坐标均为页面坐标，左上角为原点，单位毫米。

// Result 保存排版后的页面、字体资源与文档元信息。
type Result struct {
	Pages []Page                  `json:"pages"`
	Fonts map[string]FontResource `json:"fonts"`
	Meta  DocumentMeta            `json:"meta"`
}

// FontResource 描述字体资源，Src 可以是文件路径、embed:* 内置字体
// 或 built-in:* 形式的注入字体。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"` // regular/bold/italic
	Fallback string `json:"fallback,omitempty"`
}

// Color 是 0-255 范围的 RGB 颜色。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸、边距与按阅读顺序排列的绘制元素。
// Texts 的切片顺序即绘制顺序，渲染器不得重排。
type Page struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Margin float64   `json:"margin"`
	Texts  []TextBox `json:"texts"`
	Rules  []Rule    `json:"rules,omitempty"`
}

// TextBox 表示一个已经排好坐标的文本块（或跨页拆分后的片段）。
// Y 为首行顶部，Height 为各行行高之和。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      string     `json:"align,omitempty"` // left/center/right（默认 left）
}

// TextLine 是折行后的单行文本，宽度为实测值。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Rule 表示一条水平分隔线（章节标题下划线），单位 mm。
type Rule struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），不填或 <=0 时渲染器补默认细线
}

// DocumentMeta 是写进 PDF Info 字典的文档元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
