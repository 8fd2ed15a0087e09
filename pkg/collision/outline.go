package collision

import (
	"image"
	"image/draw"
	"math"

	"github.com/decker502/erasable/pkg/raster"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"
)

// Trace 提取 Mask 中所有实心区域的轮廓（纹理像素坐标）
//
// 在像素中心采样，并在四周补一圈透明采样，保证所有轮廓闭合。
// 硬阈值 marching squares 的分割点落在像素边上，因此轮廓恰好包围实心像素集合；
// 外轮廓与孔洞方向相反。
//
// 参数：
//   - mask: 占用网格
//   - tolerance: SimplifyVertexes 的角度容差（弧度），0 表示只合并共线边（无损）
func Trace(mask *raster.Mask, tolerance float64) []Loop {
	w, h := mask.Width(), mask.Height()
	bb := cp.BB{L: -0.5, B: -0.5, R: float64(w) + 0.5, T: float64(h) + 0.5}

	set := cp.MarchHard(bb, int64(w+2), int64(h+2), 0.5, cp.PolyLineCollectSegment, func(p cp.Vector) float64 {
		if mask.IsOpaque(int(math.Floor(p.X)), int(math.Floor(p.Y))) {
			return 1
		}
		return 0
	})

	loops := make([]Loop, 0, len(set.Lines))
	for _, line := range set.Lines {
		if len(line.Verts) < 3 {
			continue
		}
		if line.IsClosed() {
			line = line.SimplifyVertexes(tolerance)
		}
		verts := line.Verts
		if line.IsClosed() {
			verts = verts[:len(verts)-1]
		}

		// 采样坐标由 Lerp 计算，吸附回半像素网格
		loop := make(Loop, len(verts))
		for i, v := range verts {
			loop[i] = vec.Vec2{X: math.Round(v.X*2) / 2, Y: math.Round(v.Y*2) / 2}
		}
		loops = append(loops, mergeCollinear(loop))
	}
	return loops
}

// mergeCollinear 删除与前后顶点共线且同向的顶点（包括首尾接缝处）
//
// 顶点都在半像素网格上，叉积可以精确为 0。
func mergeCollinear(l Loop) Loop {
	for changed := true; changed && len(l) > 3; {
		changed = false
		for i := 0; i < len(l) && len(l) > 3; i++ {
			prev, next := l[(i+len(l)-1)%len(l)], l[(i+1)%len(l)]
			a, b := l[i].Sub(prev), next.Sub(l[i])
			if a.X*b.Y-a.Y*b.X == 0 && a.X*b.X+a.Y*b.Y >= 0 {
				l = append(l[:i], l[i+1:]...)
				changed = true
				i--
			}
		}
	}
	return l
}

// SignedArea 返回轮廓的有向面积（鞋带公式）
func (l Loop) SignedArea() float64 {
	var a float64
	for i := range l {
		p, q := l[i], l[(i+1)%len(l)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// Crossings 返回从 p 向 +x 方向的射线与轮廓边的交点数
func (l Loop) Crossings(p vec.Vec2) int {
	n := 0
	for i := range l {
		a, b := l[i], l[(i+1)%len(l)]
		if (a.Y > p.Y) == (b.Y > p.Y) {
			continue
		}
		if x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y); x > p.X {
			n++
		}
	}
	return n
}

// Inside 按奇偶规则判断 p 是否在轮廓集合围成的区域内，孔洞属于外部
func Inside(loops []Loop, p vec.Vec2) bool {
	n := 0
	for _, l := range loops {
		n += l.Crossings(p)
	}
	return n%2 == 1
}

// Coverage 将纹理坐标下的轮廓光栅化为覆盖率图
//
// 返回图片的第 y 行对应纹理第 y 行（左下角原点，与 Mask 一致）。
// 用于校验轮廓精度，以及绘制碰撞调试层。
func Coverage(loops []Loop, width, height int) *image.Alpha {
	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return dst
	}

	r := vector.NewRasterizer(width, height)
	r.DrawOp = draw.Src
	for _, l := range loops {
		if len(l) < 3 {
			continue
		}
		r.MoveTo(float32(l[0].X), float32(l[0].Y))
		for _, p := range l[1:] {
			r.LineTo(float32(p.X), float32(p.Y))
		}
		r.ClosePath()
	}
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}
