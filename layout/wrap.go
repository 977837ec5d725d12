package layout

import (
	"math"
	"strings"
	"unicode"
)

// 该文件实现贪心折行：只在空白处或显式换行处断行。
// 单个超宽词保持完整，产出一行横向溢出的内容，绝不在词中间拆分，
// 也绝不因此报错或死循环。

// wrapText 将文本按可用宽度折成若干行。宽度不超过 limit 的行
// 直接使用累计宽度；行尾空白会被剔除并重新度量。
func wrapText(content string, width float64, font FontResource, fontSize float64, m TextMeasurer) ([]TextLine, error) {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	measure := func(s string) (float64, error) {
		if s == "" {
			return 0, nil
		}
		return m.MeasureWidth(s, font, fontSize)
	}

	tokens := tokenizeContent(content)
	var lines []TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) error {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, TextLine{Content: "", Width: 0})
			}
			return nil
		}
		lineStr := builder.String()
		lineWidth := currentWidth
		if trimmed := strings.TrimRightFunc(lineStr, unicode.IsSpace); trimmed != lineStr {
			lineStr = trimmed
			w, err := measure(lineStr)
			if err != nil {
				return err
			}
			lineWidth = w
		}
		lines = append(lines, TextLine{Content: lineStr, Width: lineWidth})
		builder.Reset()
		currentWidth = 0
		return nil
	}

	for _, token := range tokens {
		if token == "\n" {
			if err := emit(true); err != nil {
				return nil, err
			}
			continue
		}

		isSpace := strings.TrimSpace(token) == ""
		if isSpace && builder.Len() == 0 {
			// 行首不保留空白
			continue
		}

		tokenWidth, err := measure(token)
		if err != nil {
			return nil, err
		}
		if !isSpace && currentWidth > 0 && currentWidth+tokenWidth > limit {
			if err := emit(false); err != nil {
				return nil, err
			}
		}
		builder.WriteString(token)
		currentWidth += tokenWidth
	}

	if err := emit(true); err != nil {
		return nil, err
	}
	return lines, nil
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}
