package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/hireloop/vellum/fonts"
	"github.com/hireloop/vellum/layout"
	"github.com/hireloop/vellum/renderer"
)

const defaultRuleWidth = 0.2

// Renderer draws layout results via github.com/tdewolff/canvas. It also
// implements layout.TextMeasurer, so the widths the paginator wraps against
// come from the same font metrics the final drawing uses.
type Renderer struct {
	baseDir string

	// 通过 built-in:<name> 引用的注入字体
	fontBlobs map[string][]byte

	mu       sync.Mutex
	families map[string]*familyEntry
	fallback *canvas.FontFamily
}

var (
	_ renderer.Renderer   = (*Renderer)(nil)
	_ layout.TextMeasurer = (*Renderer)(nil)
)

// familyEntry 是一次字体加载的缓存结果：字体族加上解析出的字重样式。
type familyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // fonts accessible via built-in:<name>
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected fonts and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:   opts.BaseDir,
		fontBlobs: map[string][]byte{},
		families:  map[string]*familyEntry{},
	}
	for name, res := range opts.Fonts {
		r.register(name, res)
	}
	return r
}

// register 收录一份注入字体。路径读取失败不在这里报错，
// 等该字体真正被引用时再暴露。
func (r *Renderer) register(name string, res Resource) {
	if name == "" {
		return
	}
	if len(res.Bytes) > 0 {
		r.fontBlobs[name] = res.Bytes
		return
	}
	if res.Path == "" {
		return
	}
	data, _ := os.ReadFile(res.Path)
	if len(data) > 0 {
		r.fontBlobs[name] = data
	}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || len(result.Pages) == 0 {
		return nil, fmt.Errorf("没有可渲染的页面")
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	out := pdf.New(&buf, first.Width, first.Height, nil)
	writeInfo(out, result.Meta)

	for i, page := range result.Pages {
		if i > 0 {
			out.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		// 排版坐标以左上角为原点
		ctx.SetCoordSystem(canvas.CartesianIV)

		// 分隔线垫在文本下面
		r.drawRules(ctx, page.Rules)
		for _, tb := range page.Texts {
			if err := r.drawTextBox(ctx, tb, result.Fonts); err != nil {
				return nil, err
			}
		}
		c.RenderTo(out)
	}

	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func writeInfo(out *pdf.PDF, meta layout.DocumentMeta) {
	creator := meta.Creator
	if creator == "" {
		creator = "vellum"
	}
	out.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, creator)
}

// MeasureWidth 实现 layout.TextMeasurer，字号入参与返回宽度都是毫米。
func (r *Renderer) MeasureWidth(text string, font layout.FontResource, fontSize float64) (float64, error) {
	face, err := r.face(font, fontSize, layout.Color{})
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// drawTextBox 逐行画出一个文本框。坐标、字号、行高全部按毫米。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontSet map[string]layout.FontResource) error {
	font, ok := fontSet[tb.Font]
	if !ok {
		// 让字体加载走报错路径，进而换用后备字体
		font = layout.FontResource{Name: tb.Font}
	}
	face, err := r.face(font, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	anchorX, align := anchor(tb)
	ascent := face.Metrics().Ascent
	y := tb.Y
	for _, line := range lines {
		h := line.Height
		if h <= 0 {
			h = tb.LineHeight
		}
		if line.Content != "" {
			// 基线 = 行顶 + 上升部，canvas 的度量已经是毫米
			ctx.DrawText(anchorX, y+ascent, canvas.NewTextLine(face, line.Content, align))
		}
		y += h
	}
	return nil
}

// anchor 根据对齐方式给出锚点横坐标与 canvas 的对齐常量，
// 认 left（默认）/center/right 三种写法。
func anchor(tb layout.TextBox) (float64, canvas.TextAlign) {
	switch strings.ToLower(tb.Align) {
	case "center":
		return tb.X + tb.Width/2, canvas.Center
	case "right", "end":
		return tb.X + tb.Width, canvas.Right
	default:
		return tb.X, canvas.Left
	}
}

// drawRules 画水平分隔线，线宽缺省时补一个细线宽。
func (r *Renderer) drawRules(ctx *canvas.Context, rules []layout.Rule) {
	for _, rule := range rules {
		w := rule.Width
		if w <= 0 {
			w = defaultRuleWidth
		}
		ctx.SetStrokeColor(rgb(rule.Color))
		ctx.SetStrokeWidth(w)
		seg := &canvas.Path{}
		seg.MoveTo(0, 0)
		seg.LineTo(rule.X2-rule.X1, rule.Y2-rule.Y1)
		ctx.DrawPath(rule.X1, rule.Y1, seg)
	}
}

// face 按毫米字号构造字体面。canvas 的 Face 以 pt 计字号，换算收在这一处。
func (r *Renderer) face(font layout.FontResource, sizeMM float64, col layout.Color) (*canvas.FontFace, error) {
	entry, err := r.family(font)
	if err != nil {
		return nil, err
	}
	return entry.family.Face(sizeMM*layout.MmToPt, rgb(col), entry.style, canvas.FontNormal), nil
}

// family 取缓存的字体族，未命中则加载。加载失败换内置后备字体，
// 并把后备结果记在同一个键下，避免每次绘制都重试读盘。
func (r *Renderer) family(font layout.FontResource) (*familyEntry, error) {
	key := font.Name + "|" + font.Src + "|" + font.Style
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.families[key]; ok {
		return entry, nil
	}

	entry, err := r.loadFamily(font)
	if err != nil {
		fb, fbErr := r.ensureFallback()
		if fbErr != nil {
			return nil, err
		}
		entry = &familyEntry{family: fb, style: canvas.FontRegular}
	}
	r.families[key] = entry
	return entry, nil
}

func (r *Renderer) loadFamily(font layout.FontResource) (*familyEntry, error) {
	data, err := r.fontData(font)
	if err != nil {
		return nil, err
	}
	name := font.Name
	if name == "" {
		name = "vellum"
	}
	style := fontStyle(font.Style)
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, err
	}
	return &familyEntry{family: family, style: style}, nil
}

// fontData 按 src 取字体字节：built-in: 指注入资源，embed: 指内置字体包，
// 其余按相对 baseDir 的文件路径处理。
func (r *Renderer) fontData(font layout.FontResource) ([]byte, error) {
	src := font.Src
	switch {
	case src == "":
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	case strings.HasPrefix(src, "built-in:"), strings.HasPrefix(src, "builtin:"):
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		blob, ok := r.fontBlobs[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
		}
		return blob, nil
	case strings.HasPrefix(src, "embed:"):
		return fonts.Load(src)
	}

	path := src
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
		}
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

// ensureFallback 懒加载内置后备字体族。
func (r *Renderer) ensureFallback() (*canvas.FontFamily, error) {
	if r.fallback != nil {
		return r.fallback, nil
	}
	family := canvas.NewFontFamily("vellum-fallback")
	if err := family.LoadFont(fonts.Fallback(), 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallback = family
	return family, nil
}

var fontWeights = []struct {
	token string
	style canvas.FontStyle
}{
	{"black", canvas.FontBlack},
	{"extrabold", canvas.FontExtraBold},
	{"semibold", canvas.FontSemiBold},
	{"demibold", canvas.FontSemiBold},
	{"bold", canvas.FontBold},
	{"medium", canvas.FontMedium},
	{"light", canvas.FontLight},
}

// fontStyle 把主题样式词解析为 canvas 的字重加斜体标志。
// 更具体的字重词（extrabold、semibold）排在 bold 前面先匹配。
func fontStyle(s string) canvas.FontStyle {
	s = strings.ToLower(s)
	style := canvas.FontRegular
	for _, w := range fontWeights {
		if strings.Contains(s, w.token) {
			style = w.style
			break
		}
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		style |= canvas.FontItalic
	}
	return style
}

func rgb(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, 1.0)
}
