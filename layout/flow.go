package layout

import (
	"fmt"
	"strings"

	"github.com/hireloop/vellum/binding"
	"github.com/hireloop/vellum/document"
)

// 该文件实现分页排版核心：自上而下维护竖直光标，绘制整行前预检剩余
// 空间，空间不足时换页并把光标重置到上边距。任何一行都不会被跨页截断。

// 块间距 = blockGapFactor × 基准行高；章节标题之后沿用同一间距。
const blockGapFactor = 0.5

// Paginate 将文档按给定几何参数排版为有序页面序列。
// 输出只依赖输入参数，没有时钟、随机性或全局状态，可并发调用。
// 空文档返回恰好一个空页面。
func Paginate(doc *document.Document, geom Geometry, opts Options) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("layout: 文档为空")
	}
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少文本度量后端 TextMeasurer")
	}
	if err := geom.Validate(); err != nil {
		return nil, err
	}

	theme := opts.Theme
	if theme == nil {
		theme = DefaultTheme()
	}

	ctx := &flowContext{
		geom:      geom,
		theme:     theme,
		measurer:  opts.Measurer,
		data:      opts.Data,
		collector: newPageCollector(geom),
	}
	ctx.cursorY = ctx.geom.contentTop()

	for i := range doc.Sections {
		if err := ctx.layoutSection(&doc.Sections[i]); err != nil {
			return nil, err
		}
	}

	fonts := make(map[string]FontResource, len(theme.Fonts))
	for name, f := range theme.Fonts {
		fonts[name] = f
	}

	return &Result{
		Pages: ctx.collector.pages(),
		Fonts: fonts,
		Meta: DocumentMeta{
			Title:    doc.Meta.Title,
			Author:   doc.Meta.Author,
			Subject:  doc.Meta.Subject,
			Creator:  doc.Meta.Creator,
			Keywords: doc.Meta.Keywords,
		},
	}, nil
}

// pageAccumulator 收集单页的绘制元素，切片顺序即阅读顺序。
type pageAccumulator struct {
	texts []TextBox
	rules []Rule
}

func (p *pageAccumulator) appendText(tb TextBox) {
	p.texts = append(p.texts, tb)
}

func (p *pageAccumulator) appendRule(r Rule) {
	p.rules = append(p.rules, r)
}

// pageCollector 逐页收集排版结果，任何时刻都存在一个当前页。
type pageCollector struct {
	geom    Geometry
	accs    []*pageAccumulator
	current int
}

func newPageCollector(geom Geometry) *pageCollector {
	pc := &pageCollector{geom: geom}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	if len(pc.accs) == 0 {
		return pc.newPage()
	}
	return pc.accs[pc.current]
}

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Width:  pc.geom.PageWidth,
			Height: pc.geom.PageHeight,
			Margin: pc.geom.Margin,
			Texts:  acc.texts,
			Rules:  acc.rules,
		}
	}
	return out
}

// flowContext 维护当前光标位置与排版依赖，一次 Paginate 调用独占一个实例。
type flowContext struct {
	geom      Geometry
	theme     *Theme
	measurer  TextMeasurer
	data      any
	collector *pageCollector
	cursorY   float64
}

func (ctx *flowContext) acc() *pageAccumulator {
	return ctx.collector.curr()
}

func (ctx *flowContext) blockGap() float64 {
	return blockGapFactor * ctx.geom.LineHeight
}

// needsBreak 判断高度为 height 的内容是否放不进当前页剩余空间。
// 光标已在页首时返回 false：高于整页的内容就地绘制并允许纵向溢出，
// 避免无限换页。
func (ctx *flowContext) needsBreak(height float64) bool {
	if ctx.cursorY+height <= ctx.geom.contentBottom() {
		return false
	}
	return ctx.cursorY > ctx.geom.contentTop()
}

func (ctx *flowContext) ensureSpace(height float64) {
	if ctx.needsBreak(height) {
		ctx.pageBreak()
	}
}

func (ctx *flowContext) pageBreak() {
	ctx.collector.newPage()
	ctx.cursorY = ctx.geom.contentTop()
}

// layoutSection 先排标题再依次排文本块，每块之后推进一个块间距。
// 标题为空的章节直接排其文本块（写信式文档没有章节标题）。
func (ctx *flowContext) layoutSection(sec *document.Section) error {
	if strings.TrimSpace(sec.Title) != "" {
		if err := ctx.layoutTitle(sec); err != nil {
			return err
		}
	}
	for i := range sec.Blocks {
		if err := ctx.layoutBlock(&sec.Blocks[i]); err != nil {
			return err
		}
		ctx.cursorY += ctx.blockGap()
	}
	return nil
}

// layoutTitle 排章节标题。孤行保护：标题连同其后的块间距与一行正文
// 一起预检剩余空间，不足则先换页，避免标题单独留在页尾。
// 标题自身高于整页时照常绘制（needsBreak 的页首保护兜底）。
func (ctx *flowContext) layoutTitle(sec *document.Section) error {
	style := ctx.theme.Title
	text := sec.Title
	if ctx.data != nil {
		text = binding.Interpolate(text, ctx.data)
	}

	lines, err := ctx.wrapStyled(text, style)
	if err != nil {
		return err
	}

	titleHeight := style.LineHeight(ctx.geom) * float64(len(lines))
	lookahead := 0.0
	if len(sec.Blocks) > 0 {
		lookahead = ctx.blockGap() + ctx.theme.Body.LineHeight(ctx.geom)
	}
	ctx.ensureSpace(titleHeight + lookahead)

	ctx.placeLines(lines, style, normalizeAlign(sec.Align))

	if ctx.theme.TitleRule {
		ctx.acc().appendRule(Rule{
			X1:    ctx.geom.Margin,
			Y1:    ctx.cursorY,
			X2:    ctx.geom.Margin + ctx.geom.ContentWidth(),
			Y2:    ctx.cursorY,
			Color: ctx.theme.RuleColor,
			Width: ctx.theme.RuleWidth,
		})
	}
	ctx.cursorY += ctx.blockGap()
	return nil
}

// layoutBlock 排一个文本块：插值、列表前缀、折行、逐行放置。
func (ctx *flowContext) layoutBlock(blk *document.Block) error {
	style := ctx.theme.styleFor(blk.Style)
	text := blk.Text
	if ctx.data != nil {
		text = binding.Interpolate(text, ctx.data)
	}
	if document.ParseStyle(string(blk.Style)) == document.StyleBullet {
		text = ctx.theme.BulletMarker + text
	}

	lines, err := ctx.wrapStyled(text, style)
	if err != nil {
		return err
	}
	ctx.placeLines(lines, style, normalizeAlign(blk.Align))
	return nil
}

// wrapStyled 按样式对应的字体与字号折行，并统一各行行高。
func (ctx *flowContext) wrapStyled(text string, style TextStyle) ([]TextLine, error) {
	font, ok := ctx.theme.Fonts[style.Font]
	if !ok {
		return nil, fmt.Errorf("layout: 字体 %s 未在主题中定义", style.Font)
	}
	lines, err := wrapText(text, ctx.geom.ContentWidth(), font, style.Size, ctx.measurer)
	if err != nil {
		return nil, err
	}
	lineHeight := style.LineHeight(ctx.geom)
	for i := range lines {
		lines[i].Height = lineHeight
	}
	return lines, nil
}

// placeLines 逐行放置：每行绘制前整行预检剩余空间，换页时把已累积的
// 片段落到旧页，再在新页开新的片段。一行内容绝不拆开。
func (ctx *flowContext) placeLines(lines []TextLine, style TextStyle, align string) {
	if len(lines) == 0 {
		return
	}

	lineHeight := style.LineHeight(ctx.geom)
	var box *TextBox
	flush := func() {
		if box == nil || len(box.Lines) == 0 {
			box = nil
			return
		}
		contents := make([]string, len(box.Lines))
		for i, ln := range box.Lines {
			contents[i] = ln.Content
		}
		box.Content = strings.Join(contents, "\n")
		ctx.acc().appendText(*box)
		box = nil
	}

	for _, line := range lines {
		if ctx.needsBreak(line.Height) {
			flush()
			ctx.pageBreak()
		}
		if box == nil {
			box = &TextBox{
				X:          ctx.geom.Margin,
				Y:          ctx.cursorY,
				Width:      ctx.geom.ContentWidth(),
				LineHeight: lineHeight,
				Font:       style.Font,
				FontSize:   style.Size,
				Color:      style.Color,
				Align:      align,
			}
		}
		box.Lines = append(box.Lines, line)
		box.Height += line.Height
		ctx.cursorY += line.Height
	}
	flush()
}

// normalizeAlign 归一化对齐取值，支持 start/end 别名，默认 left（留空）。
func normalizeAlign(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "start", "left":
		return "left"
	case "center":
		return "center"
	case "end", "right":
		return "right"
	default:
		return ""
	}
}
