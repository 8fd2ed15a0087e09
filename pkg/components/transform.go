package components

import (
	"github.com/decker502/erasable/pkg/coords"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// TransformComponent 精灵在世界中的位置、旋转和缩放
type TransformComponent struct {
	Position vec.Vec2 // 世界坐标
	Rotation float64  // 角度（度），逆时针
	Scale    float64  // 0 视为 1
}

// Matrix 返回局部 → 世界的仿射变换
func (t *TransformComponent) Matrix() matrix.Matrix {
	s := t.Scale
	if s == 0 {
		s = 1
	}
	return coords.SpriteTransform(t.Position, t.Rotation, s)
}
