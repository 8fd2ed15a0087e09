// Package session 把每帧输入转换为纹理编辑，并驱动碰撞同步
//
// 单线程、逐帧执行。一帧内的顺序固定为：
//
//	采样输入 → 屏幕/世界/像素坐标转换 → 笔画插值 → 修改 Mask → 同步碰撞 → 上传纹理
//
// 打乱顺序会让碰撞体与可见像素相差一帧。
package session

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/input"
	"github.com/decker502/erasable/pkg/raster"
	"github.com/decker502/erasable/pkg/stroke"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// ErrMissingCollaborator 缺少必需的协作方（只在创建时报告一次）
var ErrMissingCollaborator = errors.New("session: missing required collaborator")

// pixelCenter 像素 i 覆盖 [i, i+1)，圆盘以整数坐标表示像素中心
var pixelCenter = vec.Vec2{X: 0.5, Y: 0.5}

// Upload 交给渲染协作方的纹理更新
type Upload struct {
	// Pixels 整张纹理的渲染缓冲（自上而下、预乘 alpha 的 RGBA）
	Pixels []byte

	Width, Height int

	// Dirty 本次变化的区域（图片坐标，左上角原点）
	Dirty image.Rectangle

	// Pivot 归一化 pivot（渲染时对齐精灵原点）
	Pivot vec.Vec2
}

// TextureSink 渲染协作方：接收编辑后的纹理
type TextureSink interface {
	Upload(u Upload)
}

// Config 编辑会话的协作方与参数
type Config struct {
	Texture *raster.Texture
	Mapper  *coords.Mapper
	Camera  *coords.Camera
	Sync    collision.Sync
	Sink    TextureSink

	Brush         stroke.Brush
	Interpolation stroke.Interpolation

	// SizeMultiplier 大于 0 时，碰撞剔除半径 = 输入笔刷尺寸 × SizeMultiplier（世界单位）
	SizeMultiplier float64
}

// FrameResult 单帧处理结果
type FrameResult struct {
	Drawing bool
	Started bool // 本帧开始了新笔画
	Ended   bool // 本帧结束了笔画

	Discs   int             // 落下的圆盘数
	Mutated bool            // Mask 是否发生变化
	Dirty   image.Rectangle // 变化区域（纹理坐标，左下角原点）

	World       vec.Vec2 // 笔刷中心（世界坐标）
	Pixel       vec.Vec2 // 笔刷中心（纹理像素坐标，未裁剪；像素 i 覆盖 [i, i+1)）
	PixelRadius float64
	WorldRadius float64
}

// Session 单个精灵的编辑会话
type Session struct {
	texture *raster.Texture
	mapper  *coords.Mapper
	camera  *coords.Camera
	sync    collision.Sync
	sink    TextureSink

	brush          stroke.Brush
	sizeMultiplier float64
	rasterizer     *stroke.Rasterizer

	frames  uint64
	strokes int
}

// New 创建编辑会话并初始化碰撞同步
//
// 返回：
//   - error: 缺少协作方时返回 ErrMissingCollaborator；尺寸不一致或同步初始化失败时返回包装后的错误
func New(cfg Config) (*Session, error) {
	switch {
	case cfg.Texture == nil:
		return nil, fmt.Errorf("%w: texture", ErrMissingCollaborator)
	case cfg.Mapper == nil:
		return nil, fmt.Errorf("%w: coordinate mapper", ErrMissingCollaborator)
	case cfg.Camera == nil:
		return nil, fmt.Errorf("%w: camera", ErrMissingCollaborator)
	case cfg.Sync == nil:
		return nil, fmt.Errorf("%w: collision sync", ErrMissingCollaborator)
	case cfg.Sink == nil:
		return nil, fmt.Errorf("%w: texture sink", ErrMissingCollaborator)
	}

	if cfg.Brush.Radius < 0 || math.IsNaN(cfg.Brush.Radius) {
		return nil, fmt.Errorf("invalid brush radius %v", cfg.Brush.Radius)
	}

	mask := cfg.Texture.Mask()
	if err := cfg.Sync.Initialize(mask); err != nil {
		return nil, fmt.Errorf("failed to initialize %s collision sync: %w", cfg.Sync.Name(), err)
	}

	s := &Session{
		texture:        cfg.Texture,
		mapper:         cfg.Mapper,
		camera:         cfg.Camera,
		sync:           cfg.Sync,
		sink:           cfg.Sink,
		brush:          cfg.Brush,
		sizeMultiplier: cfg.SizeMultiplier,
		rasterizer:     stroke.NewRasterizer(cfg.Interpolation),
	}

	// 首帧上传完整纹理
	s.upload(mask.Bounds())

	log.Printf("[EditSession] created: %dx%d texture, mode=%s, sync=%s, brush=%s r=%.1fpx, interp=%s",
		cfg.Texture.Width(), cfg.Texture.Height(), cfg.Texture.Mode(), cfg.Sync.Name(),
		cfg.Brush.Mode, cfg.Brush.Radius, cfg.Interpolation)
	return s, nil
}

// Tick 处理一帧输入
func (s *Session) Tick(in input.State) FrameResult {
	s.frames++
	mask := s.texture.Mask()

	if !in.Drawing {
		res := FrameResult{}
		if s.rasterizer.Active() {
			s.rasterizer.End()
			res.Ended = true
			log.Printf("[EditSession] stroke %d ended at frame %d", s.strokes, s.frames)
		}
		s.sync.Update(collision.Frame{Mask: mask})
		return res
	}

	// 坐标转换
	world := s.camera.ScreenToWorld(in.Screen)
	pixel := s.mapper.WorldToPixelUnclamped(world)
	radius := s.pixelRadius(in)

	res := FrameResult{
		Drawing:     true,
		World:       world,
		Pixel:       pixel,
		PixelRadius: radius,
		WorldRadius: s.worldRadius(in, radius),
	}
	if !s.rasterizer.Active() {
		s.strokes++
		res.Started = true
		log.Printf("[EditSession] stroke %d started at pixel (%.1f, %.1f)", s.strokes, pixel.X, pixel.Y)
	}

	// 笔画插值 + 修改 Mask
	brush := s.brush
	res.Discs = s.rasterizer.Continue(pixel.Sub(pixelCenter), func(c vec.Vec2) {
		var changed bool
		if brush.Mode == stroke.BrushPaint {
			changed = mask.PaintDisc(c.X, c.Y, radius)
		} else {
			changed = mask.EraseDisc(c.X, c.Y, radius)
		}
		res.Mutated = res.Mutated || changed
	})
	res.Dirty = mask.Dirty()

	// Mask 完全更新之后再同步碰撞
	s.sync.Update(collision.Frame{
		Mask:             mask,
		Mutated:          res.Mutated,
		Drawing:          true,
		Painting:         brush.Mode == stroke.BrushPaint,
		BrushWorld:       world,
		BrushWorldRadius: res.WorldRadius,
	})

	if res.Mutated {
		s.upload(res.Dirty)
	}
	return res
}

// pixelRadius 计算本帧笔刷像素半径
//
// 输入给出笔刷尺寸时按纹理最长边换算（取整），否则使用配置的半径。
func (s *Session) pixelRadius(in input.State) float64 {
	if in.BrushSize > 0 {
		side := max(s.texture.Width(), s.texture.Height())
		return math.Trunc(in.BrushSize * float64(side))
	}
	return s.brush.Radius
}

// worldRadius 计算碰撞剔除使用的世界半径
func (s *Session) worldRadius(in input.State, pixelRadius float64) float64 {
	if s.sizeMultiplier > 0 && in.BrushSize > 0 {
		return in.BrushSize * s.sizeMultiplier
	}
	return s.mapper.PixelRadiusToWorld(pixelRadius)
}

// upload 刷新渲染缓冲并交给渲染协作方
func (s *Session) upload(dirty image.Rectangle) {
	mask := s.texture.Mask()
	s.texture.Refresh(dirty)
	s.sink.Upload(Upload{
		Pixels: s.texture.Pixels(),
		Width:  s.texture.Width(),
		Height: s.texture.Height(),
		Dirty:  s.texture.DirtyToImage(dirty.Intersect(mask.Bounds())),
		Pivot:  s.mapper.Pivot,
	})
	mask.ClearDirty()
}

// Texture 返回编辑中的纹理
func (s *Session) Texture() *raster.Texture { return s.texture }

// Mask 返回占用网格
func (s *Session) Mask() *raster.Mask { return s.texture.Mask() }

// Mapper 返回坐标转换器
func (s *Session) Mapper() *coords.Mapper { return s.mapper }

// Camera 返回摄像机
func (s *Session) Camera() *coords.Camera { return s.camera }

// Sync 返回碰撞同步策略
func (s *Session) Sync() collision.Sync { return s.sync }

// Brush 返回当前笔刷
func (s *Session) Brush() stroke.Brush { return s.brush }

// SetBrush 更换笔刷，从下一帧开始生效
func (s *Session) SetBrush(b stroke.Brush) {
	if b.Radius < 0 || math.IsNaN(b.Radius) {
		return
	}
	s.brush = b
}

// SetTransform 更新精灵的世界变换，并让碰撞形状跟随
//
// 返回：
//   - error: 变换不可逆时返回 coords.ErrSingularTransform，原变换保持不变
func (s *Session) SetTransform(t matrix.Matrix) error {
	if t == s.mapper.Transform {
		return nil
	}
	if err := s.mapper.SetTransform(t); err != nil {
		return err
	}
	if r, ok := s.sync.(collision.Reprojector); ok {
		r.Reproject()
	}
	return nil
}

// Drawing 是否处于笔画中
func (s *Session) Drawing() bool { return s.rasterizer.Active() }

// Frames 返回已处理的帧数
func (s *Session) Frames() uint64 { return s.frames }

// Strokes 返回已开始的笔画数
func (s *Session) Strokes() int { return s.strokes }
