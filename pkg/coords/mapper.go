// Package coords 提供世界坐标、精灵局部坐标与纹理像素/UV 坐标之间的转换
//
// # 坐标系统概述
//
//   - **世界坐标**：物理与摄像机使用的坐标，单位为 unit，y 向上
//   - **局部坐标**：相对于精灵原点（pivot）的坐标，单位为 unit，y 向上
//   - **像素坐标**：纹理像素坐标，原点在纹理左下角，x ∈ [0, width)，y ∈ [0, height)
//   - **UV 坐标**：纹理归一化坐标，[0,1]²，精灵边缘处可能短暂越界
//   - **屏幕坐标**：窗口像素坐标，原点在左上角，y 向下（见 Camera）
//
// # 核心转换公式
//
//	local = Transform⁻¹ · world
//	pixelX = clamp((local.X/BoundsSize.X + Pivot.X) * TextureWidth, 0, TextureWidth-1)
//	uvX    = local.X/BoundsSize.X + Pivot.X
//
// y 方向对称。
package coords

import (
	"errors"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

var (
	// ErrSingularTransform 表示精灵变换矩阵不可逆
	ErrSingularTransform = errors.New("coords: sprite transform is not invertible")

	// ErrInvalidScale 表示纹理尺寸或 pixelsPerUnit 非法
	ErrInvalidScale = errors.New("coords: texture size and pixels per unit must be positive")
)

// CenterPivot 居中的 pivot（0.5, 0.5）
var CenterPivot = vec.Vec2{X: 0.5, Y: 0.5}

// Mapper 精灵的坐标转换器
type Mapper struct {
	// Transform 局部坐标 → 世界坐标（x' = m0·x + m2·y + m4，y' = m1·x + m3·y + m5）
	Transform matrix.Matrix

	// BoundsSize 精灵在局部坐标中的尺寸（unit）
	BoundsSize vec.Vec2

	// Pivot 归一化的精灵原点，(0.5, 0.5) 表示中心
	Pivot vec.Vec2

	TextureWidth  int
	TextureHeight int

	inverse matrix.Matrix
}

// NewMapper 创建坐标转换器
//
// 参数：
//   - texW, texH: 纹理尺寸（像素）
//   - pixelsPerUnit: 每个 unit 对应的像素数
//   - pivot: 归一化 pivot
//   - transform: 局部 → 世界的仿射变换
//
// 返回：
//   - error: 尺寸非法返回 ErrInvalidScale，变换不可逆返回 ErrSingularTransform
func NewMapper(texW, texH int, pixelsPerUnit float64, pivot vec.Vec2, transform matrix.Matrix) (*Mapper, error) {
	if texW <= 0 || texH <= 0 || pixelsPerUnit <= 0 || math.IsNaN(pixelsPerUnit) {
		return nil, ErrInvalidScale
	}

	m := &Mapper{
		BoundsSize:    vec.Vec2{X: float64(texW) / pixelsPerUnit, Y: float64(texH) / pixelsPerUnit},
		Pivot:         pivot,
		TextureWidth:  texW,
		TextureHeight: texH,
	}
	if err := m.SetTransform(transform); err != nil {
		return nil, err
	}
	return m, nil
}

// SpriteTransform 构造"缩放 → 旋转 → 平移"的局部到世界变换
func SpriteTransform(position vec.Vec2, rotationDeg, scale float64) matrix.Matrix {
	s, c := math.Sincos(rotationDeg * math.Pi / 180)
	return matrix.Matrix{scale * c, scale * s, -scale * s, scale * c, position.X, position.Y}
}

// SetTransform 更新精灵的世界变换（精灵移动/旋转时调用）
func (m *Mapper) SetTransform(t matrix.Matrix) error {
	det := t[0]*t[3] - t[1]*t[2]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return ErrSingularTransform
	}

	m.Transform = t
	m.inverse = matrix.Matrix{
		t[3] / det,
		-t[1] / det,
		-t[2] / det,
		t[0] / det,
		(t[2]*t[5] - t[3]*t[4]) / det,
		(t[1]*t[4] - t[0]*t[5]) / det,
	}
	return nil
}

func apply(t matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: t[0]*p.X + t[2]*p.Y + t[4],
		Y: t[1]*p.X + t[3]*p.Y + t[5],
	}
}

// WorldToLocal 世界坐标 → 局部坐标（精灵变换的逆）
func (m *Mapper) WorldToLocal(world vec.Vec2) vec.Vec2 {
	return apply(m.inverse, world)
}

// LocalToWorld 局部坐标 → 世界坐标
func (m *Mapper) LocalToWorld(local vec.Vec2) vec.Vec2 {
	return apply(m.Transform, local)
}

// LocalToUV 局部坐标 → UV，不做裁剪
func (m *Mapper) LocalToUV(local vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: local.X/m.BoundsSize.X + m.Pivot.X,
		Y: local.Y/m.BoundsSize.Y + m.Pivot.Y,
	}
}

// UVToPixel UV → 像素坐标，裁剪到纹理范围
func (m *Mapper) UVToPixel(uv vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: clamp(uv.X*float64(m.TextureWidth), 0, float64(m.TextureWidth-1)),
		Y: clamp(uv.Y*float64(m.TextureHeight), 0, float64(m.TextureHeight-1)),
	}
}

// LocalToPixel 局部坐标 → 像素坐标，裁剪到 [0, w-1] × [0, h-1]
func (m *Mapper) LocalToPixel(local vec.Vec2) vec.Vec2 {
	return m.UVToPixel(m.LocalToUV(local))
}

// PixelToLocal 像素坐标 → 局部坐标（LocalToPixel 在纹理范围内的逆）
func (m *Mapper) PixelToLocal(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: (p.X/float64(m.TextureWidth) - m.Pivot.X) * m.BoundsSize.X,
		Y: (p.Y/float64(m.TextureHeight) - m.Pivot.Y) * m.BoundsSize.Y,
	}
}

// WorldToPixel 世界坐标 → 像素坐标（裁剪）
func (m *Mapper) WorldToPixel(world vec.Vec2) vec.Vec2 {
	return m.LocalToPixel(m.WorldToLocal(world))
}

// WorldToPixelUnclamped 世界坐标 → 像素坐标，不裁剪
//
// 笔画插值使用该结果：精灵外的拖动不会被压到纹理边缘上。
func (m *Mapper) WorldToPixelUnclamped(world vec.Vec2) vec.Vec2 {
	uv := m.LocalToUV(m.WorldToLocal(world))
	return vec.Vec2{X: uv.X * float64(m.TextureWidth), Y: uv.Y * float64(m.TextureHeight)}
}

// PixelToWorld 像素坐标 → 世界坐标
func (m *Mapper) PixelToWorld(p vec.Vec2) vec.Vec2 {
	return m.LocalToWorld(m.PixelToLocal(p))
}

// PixelsPerUnit 返回纹理 x 方向每个局部 unit 的像素数
func (m *Mapper) PixelsPerUnit() float64 {
	return float64(m.TextureWidth) / m.BoundsSize.X
}

// worldScale 返回变换的平均线性缩放
func (m *Mapper) worldScale() float64 {
	t := m.Transform
	return math.Sqrt(math.Abs(t[0]*t[3] - t[1]*t[2]))
}

// WorldRadiusToPixels 世界坐标半径 → 像素半径
func (m *Mapper) WorldRadiusToPixels(r float64) float64 {
	return r / m.worldScale() * m.PixelsPerUnit()
}

// PixelRadiusToWorld 像素半径 → 世界坐标半径
func (m *Mapper) PixelRadiusToWorld(r float64) float64 {
	return r / m.PixelsPerUnit() * m.worldScale()
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
