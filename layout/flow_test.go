package layout

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/hireloop/vellum/document"
)

// stubMeasurer 以固定字符宽度近似文本度量，便于对分页数值做精确断言。
type stubMeasurer struct {
	charWidth float64
}

func (s *stubMeasurer) MeasureWidth(text string, font FontResource, fontSize float64) (float64, error) {
	return float64(len([]rune(text))) * s.charWidth, nil
}

func eq(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// testTheme 返回参数取整的测试主题：标题行高 9mm、正文行高 6mm（基准行高 6mm 时），
// 便于手工推算页面边界。
func testTheme() *Theme {
	return &Theme{
		Title:      TextStyle{Font: "Test", Size: 4, LineScale: 1.5},
		Heading:    TextStyle{Font: "Test", Size: 3.5, LineScale: 1.25},
		Subheading: TextStyle{Font: "Test", Size: 3, LineScale: 1.1},
		Body:       TextStyle{Font: "Test", Size: 3, LineScale: 1.0},
		Bullet:     TextStyle{Font: "Test", Size: 3, LineScale: 1.0},

		BulletMarker: "• ",

		Fonts: map[string]FontResource{
			"Test": {Name: "Test", Src: "embed:LMSans-Regular"},
		},
	}
}

func testOptions() Options {
	return Options{Measurer: &stubMeasurer{charWidth: 1}, Theme: testTheme()}
}

func TestPaginateEmptyDocumentSingleEmptyPage(t *testing.T) {
	doc := &document.Document{Meta: document.Meta{Title: "空文档", Author: "测试"}}
	geom := Geometry{PageWidth: 100, PageHeight: 50, Margin: 10, LineHeight: 6}

	res, err := Paginate(doc, geom, testOptions())
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("空文档期望恰好 1 页，实际 %d", len(res.Pages))
	}
	p := res.Pages[0]
	if len(p.Texts) != 0 || len(p.Rules) != 0 {
		t.Fatalf("空页不应包含绘制元素: texts=%d rules=%d", len(p.Texts), len(p.Rules))
	}
	if !eq(p.Width, 100) || !eq(p.Height, 50) || !eq(p.Margin, 10) {
		t.Fatalf("页面几何不匹配: %+v", p)
	}
	if res.Meta.Title != "空文档" || res.Meta.Author != "测试" {
		t.Fatalf("文档元数据未带出: %+v", res.Meta)
	}
}

// 可用高度 = 标题高 + 2×正文行高时，第一页只容得下标题、标题间距和一行正文：
// 标题高 9 + 间距 3 + 行高 6 = 18 ≤ 21，再加一行 24 > 21。
func TestPaginateTitleGapPushesSecondLine(t *testing.T) {
	geom := Geometry{PageWidth: 100, PageHeight: 41, Margin: 10, LineHeight: 6}
	doc := &document.Document{Sections: []document.Section{{
		Title:  "Profile",
		Blocks: []document.Block{{Text: "line one\nline two"}},
	}}}

	res, err := Paginate(doc, geom, testOptions())
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("期望 2 页，实际 %d", len(res.Pages))
	}

	p1 := res.Pages[0]
	if len(p1.Texts) != 2 {
		t.Fatalf("第一页期望标题与一行正文共 2 个文本框，实际 %d", len(p1.Texts))
	}
	title := p1.Texts[0]
	if !eq(title.Y, 10) || !eq(title.Height, 9) {
		t.Fatalf("标题位置错误: y=%g h=%g", title.Y, title.Height)
	}
	body1 := p1.Texts[1]
	if body1.Content != "line one" {
		t.Fatalf("第一页正文内容错误: %q", body1.Content)
	}
	if !eq(body1.Y, 22) {
		t.Fatalf("正文首行应在标题间距之后 y=22，实际 %g", body1.Y)
	}

	p2 := res.Pages[1]
	if len(p2.Texts) != 1 || p2.Texts[0].Content != "line two" {
		t.Fatalf("第二页应只有溢出的一行正文: %+v", p2.Texts)
	}
	if !eq(p2.Texts[0].Y, 10) {
		t.Fatalf("换页后光标应回到上边距 y=10，实际 %g", p2.Texts[0].Y)
	}
}

// 行底恰好落在内容区底边时算放得下，不换页。
func TestPaginateEqualHeightFits(t *testing.T) {
	doc := &document.Document{Sections: []document.Section{{
		Title:  "Profile",
		Blocks: []document.Block{{Text: "line one\nline two"}},
	}}}

	// 10+9+3+6+6 = 34 = 44-10，等于即放下
	exact := Geometry{PageWidth: 100, PageHeight: 44, Margin: 10, LineHeight: 6}
	res, err := Paginate(doc, exact, testOptions())
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("等高恰好放下时期望 1 页，实际 %d", len(res.Pages))
	}
	if body := res.Pages[0].Texts[1]; body.Content != "line one\nline two" || len(body.Lines) != 2 {
		t.Fatalf("两行正文应落在同一文本框: %+v", body)
	}

	// 再少 0.1mm 就放不下第二行
	tight := Geometry{PageWidth: 100, PageHeight: 43.9, Margin: 10, LineHeight: 6}
	res, err = Paginate(doc, tight, testOptions())
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("超出底边 0.1mm 时期望 2 页，实际 %d", len(res.Pages))
	}
}

// 标题的孤行保护：页尾剩余空间放得下标题本身、放不下“标题+间距+一行正文”时，
// 标题整体移到下一页；没有正文块的标题不做预读。
func TestPaginateTitleOrphanLookahead(t *testing.T) {
	geom := Geometry{PageWidth: 100, PageHeight: 50, Margin: 10, LineHeight: 6}
	withBlocks := &document.Document{Sections: []document.Section{
		{Title: "A", Blocks: []document.Block{{Text: "one"}}},
		{Title: "B", Blocks: []document.Block{{Text: "two"}}},
	}}

	res, err := Paginate(withBlocks, geom, testOptions())
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("期望孤行保护触发换页得到 2 页，实际 %d", len(res.Pages))
	}
	p2 := res.Pages[1]
	if len(p2.Texts) == 0 || p2.Texts[0].Content != "B" || !eq(p2.Texts[0].Y, 10) {
		t.Fatalf("标题 B 应整体移到第二页页首: %+v", p2.Texts)
	}

	// 第二个章节没有正文块时，标题高 9 恰好放进剩余的 40-31=9，不换页。
	titleOnly := &document.Document{Sections: []document.Section{
		{Title: "A", Blocks: []document.Block{{Text: "one"}}},
		{Title: "B"},
	}}
	res, err = Paginate(titleOnly, geom, testOptions())
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("无正文块的标题不预读，期望 1 页，实际 %d", len(res.Pages))
	}
	texts := res.Pages[0].Texts
	last := texts[len(texts)-1]
	if last.Content != "B" || !eq(last.Y, 31) {
		t.Fatalf("标题 B 应留在第一页 y=31: %+v", last)
	}
}

// 单行高于整页内容区时在页首就地绘制并允许纵向溢出，不得无限换页。
func TestPaginateOversizedLineDrawsAtPageTop(t *testing.T) {
	geom := Geometry{PageWidth: 100, PageHeight: 32, Margin: 10, LineHeight: 6}
	theme := testTheme()
	theme.Body.LineScale = 3 // 行高 18mm > 内容区高 12mm
	doc := &document.Document{Sections: []document.Section{{
		Blocks: []document.Block{{Text: "alpha"}, {Text: "beta"}},
	}}}

	res, err := Paginate(doc, geom, Options{Measurer: &stubMeasurer{charWidth: 1}, Theme: theme})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("两个超高块各占一页，期望 2 页，实际 %d", len(res.Pages))
	}
	for i, p := range res.Pages {
		if len(p.Texts) != 1 || !eq(p.Texts[0].Y, 10) {
			t.Fatalf("第 %d 页的超高行应在页首绘制: %+v", i+1, p.Texts)
		}
		if !eq(p.Texts[0].Height, 18) {
			t.Fatalf("超高行行高错误: %g", p.Texts[0].Height)
		}
	}
}

// 块间距只推进光标、不触发换页：末块之后光标越过底边也不产生空白页。
func TestPaginateTrailingGapNoBlankPage(t *testing.T) {
	geom := Geometry{PageWidth: 100, PageHeight: 32, Margin: 10, LineHeight: 6}
	doc := &document.Document{Sections: []document.Section{{
		Blocks: []document.Block{{Text: "a\nb"}}, // 两行恰好填满 12mm 内容区
	}}}

	res, err := Paginate(doc, geom, testOptions())
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("末尾间距不应产生空白页，期望 1 页，实际 %d", len(res.Pages))
	}
}

func TestPaginateBulletAndStyleMapping(t *testing.T) {
	geom := Geometry{PageWidth: 100, PageHeight: 297, Margin: 10, LineHeight: 6}
	doc := &document.Document{Sections: []document.Section{{
		Blocks: []document.Block{
			{Text: "Backend", Style: document.StyleHeading},
			{Text: "Acme Corp", Style: document.StyleSubheading},
			{Text: "Shipped things", Style: document.StyleBullet},
			{Text: "Plain paragraph", Style: "unknown-style"},
		},
	}}}

	res, err := Paginate(doc, geom, testOptions())
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	texts := res.Pages[0].Texts
	if len(texts) != 4 {
		t.Fatalf("期望 4 个文本框，实际 %d", len(texts))
	}
	if !eq(texts[0].FontSize, 3.5) || !eq(texts[0].LineHeight, 7.5) {
		t.Fatalf("heading 样式映射错误: size=%g lh=%g", texts[0].FontSize, texts[0].LineHeight)
	}
	if !eq(texts[1].LineHeight, 6.6) {
		t.Fatalf("subheading 行高错误: %g", texts[1].LineHeight)
	}
	if !strings.HasPrefix(texts[2].Content, "• ") {
		t.Fatalf("列表块应带行首符号: %q", texts[2].Content)
	}
	if !eq(texts[3].FontSize, 3) {
		t.Fatalf("未知样式应回退正文: %+v", texts[3])
	}
}

func TestPaginateInterpolatesData(t *testing.T) {
	geom := Geometry{PageWidth: 100, PageHeight: 297, Margin: 10, LineHeight: 6}
	doc := &document.Document{Sections: []document.Section{{
		Title:  "${name}, Resume",
		Blocks: []document.Block{{Text: "Contact: ${contact.email}"}},
	}}}
	opts := testOptions()
	opts.Data = map[string]interface{}{
		"name":    "Ada Lovelace",
		"contact": map[string]interface{}{"email": "ada@example.com"},
	}

	res, err := Paginate(doc, geom, opts)
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	texts := res.Pages[0].Texts
	if texts[0].Content != "Ada Lovelace, Resume" {
		t.Fatalf("标题插值错误: %q", texts[0].Content)
	}
	if texts[1].Content != "Contact: ada@example.com" {
		t.Fatalf("正文插值错误: %q", texts[1].Content)
	}
}

func TestPaginateTitleRulePlacement(t *testing.T) {
	geom := Geometry{PageWidth: 100, PageHeight: 297, Margin: 10, LineHeight: 6}
	theme := testTheme()
	theme.TitleRule = true
	theme.RuleColor = Color{R: 120, G: 120, B: 120}
	theme.RuleWidth = 0.25
	doc := &document.Document{Sections: []document.Section{{
		Title:  "Experience",
		Blocks: []document.Block{{Text: "body"}},
	}}}

	res, err := Paginate(doc, geom, Options{Measurer: &stubMeasurer{charWidth: 1}, Theme: theme})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	rules := res.Pages[0].Rules
	if len(rules) != 1 {
		t.Fatalf("期望标题下方恰好 1 条分隔线，实际 %d", len(rules))
	}
	r := rules[0]
	if !eq(r.Y1, 19) || !eq(r.Y2, 19) {
		t.Fatalf("分隔线应贴着标题底部 y=19: %+v", r)
	}
	if !eq(r.X1, 10) || !eq(r.X2, 90) {
		t.Fatalf("分隔线应横贯内容区: %+v", r)
	}
	// 正文在分隔线之后照常排布
	if body := res.Pages[0].Texts[1]; !eq(body.Y, 22) {
		t.Fatalf("正文应从 y=22 开始: %g", body.Y)
	}
}

// 排版结果只依赖输入：同一输入重复调用得到逐字段相等的结果。
func TestPaginateDeterministic(t *testing.T) {
	geom := Geometry{PageWidth: 100, PageHeight: 60, Margin: 10, LineHeight: 6}
	doc := &document.Document{Sections: []document.Section{
		{Title: "One", Blocks: []document.Block{{Text: "alpha beta gamma delta epsilon zeta eta theta"}}},
		{Title: "Two", Blocks: []document.Block{{Text: "first\nsecond"}, {Text: "item", Style: document.StyleBullet}}},
	}}

	a, err := Paginate(doc, geom, testOptions())
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	b, err := Paginate(doc, geom, testOptions())
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("两次排版结果不一致")
	}
}

// 不变式检查：所有文本框都完整落在内容区内，页内 y 坐标单调递增。
func TestPaginateNoClipAndReadingOrder(t *testing.T) {
	geom := Geometry{PageWidth: 80, PageHeight: 60, Margin: 10, LineHeight: 6}
	var secs []document.Section
	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		secs = append(secs, document.Section{
			Title: title,
			Blocks: []document.Block{
				{Text: "one two three four five six seven eight nine ten eleven twelve"},
				{Text: "short"},
				{Text: "bullet point", Style: document.StyleBullet},
			},
		})
	}
	doc := &document.Document{Sections: secs}

	res, err := Paginate(doc, geom, testOptions())
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(res.Pages) < 2 {
		t.Fatalf("测试文档应跨页，实际 %d 页", len(res.Pages))
	}
	top, bottom := geom.Margin, geom.PageHeight-geom.Margin
	for pi, p := range res.Pages {
		if len(p.Texts) == 0 {
			t.Fatalf("第 %d 页为空白页", pi+1)
		}
		prevY := top - 1
		for ti, tb := range p.Texts {
			if tb.Y < top-1e-6 || tb.Y+tb.Height > bottom+1e-6 {
				t.Fatalf("第 %d 页第 %d 个文本框越界: y=%g h=%g", pi+1, ti, tb.Y, tb.Height)
			}
			if tb.Y < prevY {
				t.Fatalf("第 %d 页文本框顺序与阅读顺序不符", pi+1)
			}
			prevY = tb.Y
			if len(tb.Lines) == 0 {
				t.Fatalf("文本框缺少行信息: %+v", tb)
			}
		}
	}
}

func TestPaginateDefaultThemeAndFonts(t *testing.T) {
	geom := DefaultGeometry()
	doc := &document.Document{Sections: []document.Section{{Title: "T", Blocks: []document.Block{{Text: "x"}}}}}

	res, err := Paginate(doc, geom, Options{Measurer: &stubMeasurer{charWidth: 1}})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	f, ok := res.Fonts["LMSans-Regular"]
	if !ok || f.Src != "embed:LMSans-Regular" {
		t.Fatalf("默认主题字体未带出: %+v", res.Fonts)
	}
}

func TestPaginateRejectsBadInput(t *testing.T) {
	geom := DefaultGeometry()
	doc := &document.Document{}

	if _, err := Paginate(nil, geom, testOptions()); err == nil {
		t.Fatalf("空文档指针应报错")
	}
	if _, err := Paginate(doc, geom, Options{Theme: testTheme()}); err == nil {
		t.Fatalf("缺少度量后端应报错")
	}
	bad := Geometry{PageWidth: 100, PageHeight: 100, Margin: 60, LineHeight: 6}
	if _, err := Paginate(doc, bad, testOptions()); !errors.Is(err, ErrGeometry) {
		t.Fatalf("非法几何参数应返回 ErrGeometry，实际 %v", err)
	}
}

func TestNormalizeAlign(t *testing.T) {
	cases := map[string]string{
		"left":   "left",
		"START ": "left",
		"Center": "center",
		"end":    "right",
		"right":  "right",
		"":       "",
		"weird":  "",
	}
	for in, want := range cases {
		if got := normalizeAlign(in); got != want {
			t.Fatalf("normalizeAlign(%q) = %q，期望 %q", in, got, want)
		}
	}
}
