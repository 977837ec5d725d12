package document

import "strings"

// 该文件定义待排版文档的数据模型：文档由有序章节组成，章节由标题与
// 有序文本块组成。模型只描述内容与语义样式，不包含任何坐标信息。

// Style 标记文本块的语义样式，具体字号与行高由排版主题决定。
type Style string

const (
	StyleHeading    Style = "heading"
	StyleSubheading Style = "subheading"
	StyleBody       Style = "body"
	StyleBullet     Style = "bullet"
)

// ParseStyle 将任意字符串解析为样式标记，大小写不敏感。
// 未知或空白的样式一律回退为 body，解析永远不会失败。
func ParseStyle(s string) Style {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleHeading:
		return StyleHeading
	case StyleSubheading:
		return StyleSubheading
	case StyleBullet:
		return StyleBullet
	default:
		return StyleBody
	}
}

// Document 是排版的输入：有序章节加可选的 PDF 元信息。
// 渲染过程不会修改文档本身。
type Document struct {
	Meta     Meta      `json:"meta,omitempty"`
	Sections []Section `json:"sections"`
}

// Meta 保存 PDF 元信息。
type Meta struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Section 表示一个章节：标题后跟若干文本块。
// Align 控制标题的水平对齐（left/center/right，默认 left）。
type Section struct {
	Title  string  `json:"title"`
	Align  string  `json:"align,omitempty"`
	Blocks []Block `json:"blocks"`
}

// Block 表示一个文本块。Text 缺失时按空字符串处理；
// Style 未知时按 body 处理，见 ParseStyle。
type Block struct {
	Text  string `json:"text"`
	Style Style  `json:"style,omitempty"`
	Align string `json:"align,omitempty"`
}
