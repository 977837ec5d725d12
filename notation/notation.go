// Package notation parses a light line-oriented markup into a document:
//
//	@page A4 landscape margin 15mm line-height 1.4x
//	@title My Resume
//
//	= Section Title
//	== Heading block
//	=== Subheading block
//	- bullet item
//	plain body text; consecutive plain lines join into one paragraph,
//	a blank line starts a new block.
//
// Marks are only recognized at the start of a line; everything after a
// mark is raw text.
package notation

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/hireloop/vellum/document"
	"github.com/hireloop/vellum/layout"
)

var (
	notationLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Newline", Pattern: `\n`},
		{Name: "CR", Pattern: `\r`},
		{Name: "Directive", Pattern: `@[a-z][a-z-]*`},
		{Name: "TitleMark", Pattern: `===|==|=`},
		{Name: "BulletMark", Pattern: `[-*][ \t]`},
		{Name: "Text", Pattern: `[^\r\n]+`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(notationLexer),
		participle.Elide("CR"),
	)
)

// File is the raw AST produced by the grammar, one node per source line.
type File struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Lines []*Line        `parser:"Newline* ( @@ )*"`
}

// Line captures a single line plus its trailing newlines; two or more
// trailing newlines mean a blank line followed, which separates blocks.
type Line struct {
	Pos       lexer.Position `parser:"" json:"-"`
	Directive *DirectiveLine `parser:"( @@"`
	Marked    *MarkedLine    `parser:"| @@"`
	Bullet    *BulletLine    `parser:"| @@"`
	Plain     *PlainLine     `parser:"| @@ )"`
	Trailing  []string       `parser:"@Newline*"`
}

func (l *Line) blankAfter() bool { return len(l.Trailing) >= 2 }

// DirectiveLine is an @name line with everything after the name as raw args.
type DirectiveLine struct {
	Name string  `parser:"@Directive"`
	Args *string `parser:"@Text?"`
}

// MarkedLine is a title (=), heading (==) or subheading (===) line.
type MarkedLine struct {
	Mark string  `parser:"@TitleMark"`
	Text *string `parser:"@Text?"`
}

// BulletLine is a "- " or "* " list line.
type BulletLine struct {
	Mark string  `parser:"@BulletMark"`
	Text *string `parser:"@Text?"`
}

// PlainLine is any other non-empty line.
type PlainLine struct {
	Text string `parser:"@Text"`
}

// GeometryDirectives holds the page overrides collected from @page.
type GeometryDirectives struct {
	Page       string
	Landscape  bool
	Margin     *layout.Length
	LineHeight *layout.LineHeightSpec
}

// Apply overlays the directives onto a base geometry. bodyFont is the body
// font size used to resolve factor line heights (e.g. "1.4x").
func (g GeometryDirectives) Apply(base layout.Geometry, bodyFont layout.Length) (layout.Geometry, error) {
	out := base
	if g.Page != "" {
		w, h, err := layout.PageSize(g.Page)
		if err != nil {
			return layout.Geometry{}, err
		}
		out.PageWidth, out.PageHeight = w, h
	}
	if g.Landscape && out.PageHeight > out.PageWidth {
		out.PageWidth, out.PageHeight = out.PageHeight, out.PageWidth
	}
	if g.Margin != nil {
		out.Margin = g.Margin.ToMM()
	}
	if g.LineHeight != nil {
		out.LineHeight = g.LineHeight.Resolve(bodyFont, layout.UnitMM)
	}
	return out, nil
}

// DocumentSpec bundles the parsed document with its geometry overrides.
type DocumentSpec struct {
	Document document.Document
	Geometry GeometryDirectives
}

// Parse reads notation markup from r.
func Parse(r io.Reader) (*DocumentSpec, error) {
	file, err := fileParser.Parse("", r)
	if err != nil {
		return nil, err
	}
	return buildSpec(file)
}

// ParseString parses notation markup from a string.
func ParseString(input string) (*DocumentSpec, error) {
	file, err := fileParser.ParseString("", input)
	if err != nil {
		return nil, err
	}
	return buildSpec(file)
}

// buildSpec runs the semantic pass: lines become sections and blocks,
// directives become meta fields and geometry overrides.
func buildSpec(file *File) (*DocumentSpec, error) {
	spec := &DocumentSpec{}
	b := specBuilder{spec: spec}
	for _, line := range file.Lines {
		if err := b.add(line); err != nil {
			return nil, err
		}
	}
	b.finish()
	return spec, nil
}

type specBuilder struct {
	spec    *DocumentSpec
	section *document.Section
	para    []string
}

func (b *specBuilder) add(line *Line) error {
	switch {
	case line.Directive != nil:
		b.flushPara()
		return b.applyDirective(line.Directive, line.Pos)
	case line.Marked != nil:
		b.flushPara()
		text := strings.TrimSpace(deref(line.Marked.Text))
		switch line.Marked.Mark {
		case "=":
			b.flushSection()
			b.section = &document.Section{Title: text}
		case "==":
			b.appendBlock(document.Block{Text: text, Style: document.StyleHeading})
		default: // "==="
			b.appendBlock(document.Block{Text: text, Style: document.StyleSubheading})
		}
	case line.Bullet != nil:
		b.flushPara()
		b.appendBlock(document.Block{
			Text:  strings.TrimSpace(deref(line.Bullet.Text)),
			Style: document.StyleBullet,
		})
	case line.Plain != nil:
		text := strings.TrimSpace(line.Plain.Text)
		if text == "" {
			// whitespace-only lines separate paragraphs like blank lines
			b.flushPara()
			return nil
		}
		b.para = append(b.para, text)
		if line.blankAfter() {
			b.flushPara()
		}
	}
	return nil
}

func (b *specBuilder) applyDirective(d *DirectiveLine, pos lexer.Position) error {
	args := strings.TrimSpace(deref(d.Args))
	switch d.Name {
	case "@page":
		return parsePageArgs(args, &b.spec.Geometry)
	case "@title":
		b.spec.Document.Meta.Title = args
	case "@author":
		b.spec.Document.Meta.Author = args
	case "@subject":
		b.spec.Document.Meta.Subject = args
	case "@keywords":
		for _, kw := range strings.Split(args, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				b.spec.Document.Meta.Keywords = append(b.spec.Document.Meta.Keywords, kw)
			}
		}
	default:
		return fmt.Errorf("notation: unknown directive %s at %s", d.Name, pos)
	}
	return nil
}

func parsePageArgs(args string, g *GeometryDirectives) error {
	fields := strings.Fields(args)
	i := 0
	if len(fields) > 0 && !isPageKeyword(fields[0]) {
		g.Page = fields[0]
		i = 1
	}
	for ; i < len(fields); i++ {
		switch strings.ToLower(fields[i]) {
		case "landscape":
			g.Landscape = true
		case "portrait":
			g.Landscape = false
		case "margin":
			i++
			if i >= len(fields) {
				return fmt.Errorf("notation: @page margin expects a length")
			}
			l := layout.ParseLength(fields[i])
			if l.Unit == layout.UnitNone || l.Value < 0 {
				return fmt.Errorf("notation: @page margin %q is not a valid length", fields[i])
			}
			g.Margin = &l
		case "line-height":
			i++
			if i >= len(fields) {
				return fmt.Errorf("notation: @page line-height expects a factor or length")
			}
			spec, ok := layout.ParseLineHeight(fields[i])
			if !ok {
				return fmt.Errorf("notation: @page line-height %q is not a valid factor or length", fields[i])
			}
			g.LineHeight = &spec
		default:
			return fmt.Errorf("notation: @page does not understand %q", fields[i])
		}
	}
	return nil
}

func isPageKeyword(s string) bool {
	switch strings.ToLower(s) {
	case "landscape", "portrait", "margin", "line-height":
		return true
	}
	return false
}

func (b *specBuilder) appendBlock(blk document.Block) {
	if b.section == nil {
		b.section = &document.Section{}
	}
	b.section.Blocks = append(b.section.Blocks, blk)
}

// flushPara joins the pending plain lines into one body block.
func (b *specBuilder) flushPara() {
	if len(b.para) == 0 {
		return
	}
	text := strings.Join(b.para, " ")
	b.para = nil
	b.appendBlock(document.Block{Text: text, Style: document.StyleBody})
}

func (b *specBuilder) flushSection() {
	if b.section == nil {
		return
	}
	if b.section.Title != "" || len(b.section.Blocks) > 0 {
		b.spec.Document.Sections = append(b.spec.Document.Sections, *b.section)
	}
	b.section = nil
}

func (b *specBuilder) finish() {
	b.flushPara()
	b.flushSection()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
