package session

import (
	"fmt"
	"image"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/decker502/erasable/pkg/config"
	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/raster"
	"github.com/decker502/erasable/pkg/stroke"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Sprite 按精灵配置组装会话所需的外部协作方
type Sprite struct {
	Config    *config.SpriteConfig
	Source    image.Image   // 源纹理
	Transform matrix.Matrix // 精灵局部 → 世界变换
	Camera    *coords.Camera
	Physics   collision.Sink // 碰撞形状的持有方
	Sink      TextureSink
}

// Build 根据精灵配置创建编辑会话
//
// 同步策略、遮罩模式、笔刷和插值算法均由配置选择。
func Build(sp Sprite) (*Session, error) {
	sc := sp.Config
	if sc == nil {
		return nil, fmt.Errorf("%w: sprite config", ErrMissingCollaborator)
	}
	if sp.Source == nil {
		return nil, fmt.Errorf("%w: source texture", ErrMissingCollaborator)
	}
	if sp.Physics == nil {
		return nil, fmt.Errorf("%w: physics sink", ErrMissingCollaborator)
	}
	if err := config.ValidateSpriteConfig(sc); err != nil {
		return nil, err
	}

	mode, err := raster.ParseMaskMode(sc.MaskMode)
	if err != nil {
		return nil, err
	}
	strategy, err := collision.ParseStrategy(sc.Strategy)
	if err != nil {
		return nil, err
	}
	brushMode, err := stroke.ParseBrushMode(sc.Brush.Mode)
	if err != nil {
		return nil, err
	}
	interp, err := stroke.ParseInterpolation(sc.Interpolation)
	if err != nil {
		return nil, err
	}

	tex, err := raster.NewTexture(sp.Source, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture: %w", err)
	}

	mapper, err := coords.NewMapper(tex.Width(), tex.Height(), sc.PixelsPerUnit,
		vec.Vec2{X: sc.Pivot.X, Y: sc.Pivot.Y}, sp.Transform)
	if err != nil {
		return nil, fmt.Errorf("failed to create coordinate mapper: %w", err)
	}

	sync, err := collision.New(strategy, mapper, sp.Physics, collision.Options{
		CellSize:          sc.CellSize,
		IndexedCulling:    sc.Grid.IndexedCulling,
		SimplifyTolerance: sc.Outline.SimplifyTolerance,
	})
	if err != nil {
		return nil, err
	}

	return New(Config{
		Texture:        tex,
		Mapper:         mapper,
		Camera:         sp.Camera,
		Sync:           sync,
		Sink:           sp.Sink,
		Brush:          stroke.Brush{Radius: sc.Brush.Radius, Mode: brushMode},
		Interpolation:  interp,
		SizeMultiplier: sc.Brush.SizeMultiplier,
	})
}
