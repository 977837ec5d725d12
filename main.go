package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hireloop/vellum/internal/ai"
	"github.com/hireloop/vellum/internal/config"
	"github.com/hireloop/vellum/internal/server"
	"github.com/hireloop/vellum/layout"
	"github.com/hireloop/vellum/notation"
	"github.com/hireloop/vellum/renderer"
	canvasrenderer "github.com/hireloop/vellum/renderer/canvas"
)

func main() {
	input := flag.String("in", "", "notation 文件路径；留空则启动 HTTP 服务")
	output := flag.String("out", "output/document.pdf", "PDF 输出路径")
	dataJSON := flag.String("data", "", "绑定到文档的 JSON 数据")
	page := flag.String("page", "", "纸张尺寸（A4、A5、Letter 等），覆盖 @page 指令")
	landscape := flag.Bool("landscape", false, "横向纸张，覆盖 @page 指令")
	margin := flag.String("margin", "", "页边距（如 15mm），覆盖 @page 指令")
	lineHeight := flag.String("line-height", "", "行高（如 1.4x 或 6mm），覆盖 @page 指令")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	flag.Parse()

	if *input == "" {
		if err := serve(); err != nil {
			log.Fatalf("服务退出: %v", err)
		}
		return
	}

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	overrides := geometryFlags{
		page:       *page,
		landscape:  *landscape,
		margin:     *margin,
		lineHeight: *lineHeight,
	}

	var r renderer.Renderer = canvasrenderer.NewRenderer(filepath.Dir(*input))
	if err := run(*input, *output, *debug, inputData, overrides, r); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", *output)
}

// geometryFlags 收集命令行上的页面覆盖项，优先级高于文档内的 @page 指令。
type geometryFlags struct {
	page       string
	landscape  bool
	margin     string
	lineHeight string
}

func (f geometryFlags) apply(g notation.GeometryDirectives) (notation.GeometryDirectives, error) {
	if f.page != "" {
		g.Page = f.page
	}
	if f.landscape {
		g.Landscape = true
	}
	if f.margin != "" {
		l := layout.ParseLength(f.margin)
		if l.Unit == layout.UnitNone || l.Value < 0 {
			return g, fmt.Errorf("无效的 margin：%s", f.margin)
		}
		g.Margin = &l
	}
	if f.lineHeight != "" {
		spec, ok := layout.ParseLineHeight(f.lineHeight)
		if !ok {
			return g, fmt.Errorf("无效的 line-height：%s", f.lineHeight)
		}
		g.LineHeight = &spec
	}
	return g, nil
}

// run 串联解析、布局与渲染。
func run(inputPath, outputPath, debugPath string, data any, overrides geometryFlags, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 notation 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	spec, err := notation.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 notation 失败: %w", err)
	}

	directives, err := overrides.apply(spec.Geometry)
	if err != nil {
		return err
	}
	bodyFont := layout.Length{Value: layout.DefaultTheme().Body.Size, Unit: layout.UnitMM}
	geom, err := directives.Apply(layout.DefaultGeometry(), bodyFont)
	if err != nil {
		return fmt.Errorf("应用页面设置失败: %w", err)
	}

	measurer, ok := r.(layout.TextMeasurer)
	if !ok {
		return fmt.Errorf("renderer 未实现文本测量接口")
	}

	result, err := layout.Paginate(&spec.Document, geom, layout.Options{
		Measurer: measurer,
		Data:     data,
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}

	return nil
}

// serve 启动 HTTP 服务，提供渲染、简历、求职信与模拟面试接口。
func serve() error {
	cfg := config.Load()
	if cfg.GroqAPIKey == "" {
		return fmt.Errorf("缺少 GROQ_API_KEY 环境变量")
	}

	client := ai.New(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.Model)
	coach := ai.NewCoach(client)
	r := canvasrenderer.NewRenderer(".")

	log.Printf("HTTP 服务监听 %s", cfg.Addr)
	return server.New(cfg, client, coach, r).Run()
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
