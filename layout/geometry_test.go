package layout

import (
	"errors"
	"math"
	"testing"
)

func TestGeometryValidate(t *testing.T) {
	if err := DefaultGeometry().Validate(); err != nil {
		t.Fatalf("默认几何参数应合法: %v", err)
	}

	cases := []struct {
		name string
		geom Geometry
	}{
		{"零页宽", Geometry{PageWidth: 0, PageHeight: 297, Margin: 20, LineHeight: 6}},
		{"负页高", Geometry{PageWidth: 210, PageHeight: -1, Margin: 20, LineHeight: 6}},
		{"零行高", Geometry{PageWidth: 210, PageHeight: 297, Margin: 20, LineHeight: 0}},
		{"负边距", Geometry{PageWidth: 210, PageHeight: 297, Margin: -5, LineHeight: 6}},
		{"边距超页宽一半", Geometry{PageWidth: 100, PageHeight: 297, Margin: 51, LineHeight: 6}},
		{"边距超页高一半", Geometry{PageWidth: 210, PageHeight: 100, Margin: 51, LineHeight: 6}},
	}
	for _, c := range cases {
		err := c.geom.Validate()
		if err == nil {
			t.Fatalf("%s 应校验失败", c.name)
		}
		if !errors.Is(err, ErrGeometry) {
			t.Fatalf("%s 的错误应可被 errors.Is(ErrGeometry) 识别: %v", c.name, err)
		}
	}

	// 边距恰为页宽一半是边界合法值
	edge := Geometry{PageWidth: 100, PageHeight: 297, Margin: 50, LineHeight: 6}
	if err := edge.Validate(); err != nil {
		t.Fatalf("边距等于页宽一半应合法: %v", err)
	}
}

func TestGeometryContentArea(t *testing.T) {
	g := Geometry{PageWidth: 210, PageHeight: 297, Margin: 20, LineHeight: 6}
	if got := g.ContentWidth(); math.Abs(got-170) > 1e-9 {
		t.Fatalf("内容宽度期望 170，实际 %g", got)
	}
	if got := g.contentTop(); math.Abs(got-20) > 1e-9 {
		t.Fatalf("内容区顶边期望 20，实际 %g", got)
	}
	if got := g.contentBottom(); math.Abs(got-277) > 1e-9 {
		t.Fatalf("内容区底边期望 277，实际 %g", got)
	}
}

func TestPageSizePresets(t *testing.T) {
	cases := []struct {
		name string
		w, h float64
	}{
		{"A4", 210, 297},
		{"a4", 210, 297},
		{"A5", 148, 210},
		{" letter ", 215.9, 279.4},
	}
	for _, c := range cases {
		w, h, err := PageSize(c.name)
		if err != nil {
			t.Fatalf("PageSize(%q) 报错: %v", c.name, err)
		}
		if math.Abs(w-c.w) > 1e-9 || math.Abs(h-c.h) > 1e-9 {
			t.Fatalf("PageSize(%q) = %gx%g，期望 %gx%g", c.name, w, h, c.w, c.h)
		}
	}
	if _, _, err := PageSize("B5"); err == nil {
		t.Fatalf("未注册的纸张尺寸应报错")
	}
}
