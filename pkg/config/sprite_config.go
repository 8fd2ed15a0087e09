package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 精灵配置校验失败
var ErrInvalidConfig = errors.New("invalid sprite config")

// 取值常量（与 YAML 中的字符串一致）
const (
	MaskModeAlpha = "alpha"
	MaskModeMask  = "mask"

	StrategyPolygon = "polygon"
	StrategyGrid    = "grid"

	BrushModeErase = "erase"
	BrushModePaint = "paint"

	InterpolationLerp      = "lerp"
	InterpolationBresenham = "bresenham"
)

// DefaultSpriteConfigPath 嵌入的默认精灵配置
const DefaultSpriteConfigPath = "data/sprites/default.yaml"

// SpriteConfig 可擦除精灵配置
type SpriteConfig struct {
	Image         string        `yaml:"image"`         // 源纹理路径（assets/ 下的 PNG），为空时由调用方提供纹理
	PixelsPerUnit float64       `yaml:"pixelsPerUnit"` // 每个世界单位对应的纹理像素数
	Pivot         PivotConfig   `yaml:"pivot"`         // 归一化 pivot，(0.5, 0.5) 为中心
	MaskMode      string        `yaml:"maskMode"`      // alpha: 直接擦除 alpha；mask: 独立遮罩
	Strategy      string        `yaml:"strategy"`      // polygon | grid
	CellSize      int           `yaml:"cellSize"`      // 网格单元边长（像素），grid 策略使用
	Brush         BrushConfig   `yaml:"brush"`         // 笔刷
	Interpolation string        `yaml:"interpolation"` // lerp | bresenham
	Outline       OutlineConfig `yaml:"outline"`       // polygon 策略参数
	Grid          GridConfig    `yaml:"grid"`          // grid 策略参数
}

// PivotConfig 归一化 pivot
type PivotConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BrushConfig 笔刷配置
type BrushConfig struct {
	Radius float64 `yaml:"radius"` // 像素半径，输入未给出笔刷尺寸时使用
	Mode   string  `yaml:"mode"`   // erase | paint
	Size   float64 `yaml:"size"`   // 默认笔刷尺寸（纹理最长边的比例），0 表示使用 radius

	// SizeMultiplier 网格剔除半径 = 笔刷尺寸 × SizeMultiplier（世界单位）
	// 0 表示按笔刷像素半径换算
	SizeMultiplier float64 `yaml:"sizeMultiplier"`
}

// OutlineConfig 轮廓提取参数
type OutlineConfig struct {
	SimplifyTolerance float64 `yaml:"simplifyTolerance"` // 简化角度容差（弧度），0 只合并共线边
}

// GridConfig 网格剔除参数
type GridConfig struct {
	IndexedCulling bool `yaml:"indexedCulling"` // 只检查笔刷包围盒覆盖的单元
}

// DefaultSpriteConfig 返回默认配置
func DefaultSpriteConfig() *SpriteConfig {
	return &SpriteConfig{
		PixelsPerUnit: 100,
		Pivot:         PivotConfig{X: 0.5, Y: 0.5},
		MaskMode:      MaskModeAlpha,
		Strategy:      StrategyPolygon,
		CellSize:      10,
		Brush: BrushConfig{
			Radius: 8,
			Mode:   BrushModeErase,
		},
		Interpolation: InterpolationLerp,
	}
}

// LoadSpriteConfig 从 YAML 文件加载精灵配置
func LoadSpriteConfig(filePath string) (*SpriteConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sprite config file: %w", err)
	}
	return ParseSpriteConfig(data)
}

// ParseSpriteConfig 解析 YAML 数据（用于嵌入资源）
//
// 未出现的字段保留 DefaultSpriteConfig 中的默认值。
func ParseSpriteConfig(data []byte) (*SpriteConfig, error) {
	config := DefaultSpriteConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse sprite config YAML: %w", err)
	}

	if err := ValidateSpriteConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ValidateSpriteConfig 验证配置的有效性
func ValidateSpriteConfig(config *SpriteConfig) error {
	if err := validateSpriteConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func validateSpriteConfig(config *SpriteConfig) error {
	if config.Image != "" && !strings.HasSuffix(strings.ToLower(config.Image), ".png") {
		return fmt.Errorf("image must be a PNG file, got %q", config.Image)
	}

	if config.PixelsPerUnit <= 0 {
		return fmt.Errorf("pixelsPerUnit must be > 0, got %v", config.PixelsPerUnit)
	}

	if config.Pivot.X < 0 || config.Pivot.X > 1 || config.Pivot.Y < 0 || config.Pivot.Y > 1 {
		return fmt.Errorf("pivot must lie in [0,1], got (%v, %v)", config.Pivot.X, config.Pivot.Y)
	}

	switch config.MaskMode {
	case MaskModeAlpha, MaskModeMask:
	default:
		return fmt.Errorf("maskMode must be %q or %q, got %q", MaskModeAlpha, MaskModeMask, config.MaskMode)
	}

	switch config.Strategy {
	case StrategyPolygon:
	case StrategyGrid:
		if config.CellSize < 1 {
			return fmt.Errorf("cellSize must be >= 1 for the grid strategy, got %d", config.CellSize)
		}
	default:
		return fmt.Errorf("strategy must be %q or %q, got %q", StrategyPolygon, StrategyGrid, config.Strategy)
	}

	// 验证笔刷
	if config.Brush.Radius < 0 {
		return fmt.Errorf("brush.radius must be >= 0, got %v", config.Brush.Radius)
	}
	if config.Brush.Size < 0 || config.Brush.Size > 1 {
		return fmt.Errorf("brush.size must lie in [0,1], got %v", config.Brush.Size)
	}
	if config.Brush.Radius == 0 && config.Brush.Size == 0 {
		return fmt.Errorf("either brush.radius or brush.size must be set")
	}
	if config.Brush.SizeMultiplier < 0 {
		return fmt.Errorf("brush.sizeMultiplier must be >= 0, got %v", config.Brush.SizeMultiplier)
	}
	switch config.Brush.Mode {
	case BrushModeErase, BrushModePaint:
	default:
		return fmt.Errorf("brush.mode must be %q or %q, got %q", BrushModeErase, BrushModePaint, config.Brush.Mode)
	}

	switch config.Interpolation {
	case InterpolationLerp, InterpolationBresenham:
	default:
		return fmt.Errorf("interpolation must be %q or %q, got %q", InterpolationLerp, InterpolationBresenham, config.Interpolation)
	}

	if config.Outline.SimplifyTolerance < 0 {
		return fmt.Errorf("outline.simplifyTolerance must be >= 0, got %v", config.Outline.SimplifyTolerance)
	}

	return nil
}
