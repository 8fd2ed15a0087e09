package game

import (
	"fmt"
	"log"

	"github.com/decker502/erasable/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// EditorSettings 编辑器偏好设置
// 覆盖精灵配置中的对应字段，零值表示沿用精灵配置
type EditorSettings struct {
	// 笔刷
	BrushRadius float64 `yaml:"brushRadius"` // 笔刷半径（像素），0 表示使用精灵配置
	BrushMode   string  `yaml:"brushMode"`   // erase / paint，空表示使用精灵配置

	// 碰撞策略覆盖（polygon / grid），空表示使用精灵配置
	Strategy string `yaml:"strategy"`

	// 显示
	ShowColliders bool `yaml:"showColliders"` // 是否绘制碰撞调试层
	Fullscreen    bool `yaml:"fullscreen"`    // 启动时是否全屏

	// 音效
	SoundEnabled bool    `yaml:"soundEnabled"` // 笔画音效开关
	SoundVolume  float64 `yaml:"soundVolume"`  // 音效音量 [0, 1]

	// LastConfig 上次打开的精灵配置路径
	LastConfig string `yaml:"lastConfig"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *EditorSettings {
	return &EditorSettings{
		ShowColliders: true,
		SoundEnabled:  true,
		SoundVolume:   defaultSoundVolume,
		LastConfig:    config.DefaultSpriteConfigPath,
	}
}

const (
	// 笔刷半径上限（像素）
	maxBrushRadius = 256

	defaultSoundVolume = 0.5
)

// SettingsManager 设置管理器
// 负责编辑器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *EditorSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "editor"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 加载失败不是致命错误，使用默认设置
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认设置
//
// 返回：
//   - error: 读取或反序列化失败返回错误，此时设置回退为默认值
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *EditorSettings {
	return sm.settings
}

// SetBrushRadius 设置笔刷半径，限制在 [0, 256] 像素
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetBrushRadius(r float64) {
	sm.settings.BrushRadius = min(max(r, 0), maxBrushRadius)
}

// SetBrushMode 设置笔刷模式
func (sm *SettingsManager) SetBrushMode(mode string) error {
	if mode != "" && mode != config.BrushModeErase && mode != config.BrushModePaint {
		return fmt.Errorf("%w: brush mode %q", config.ErrInvalidConfig, mode)
	}
	sm.settings.BrushMode = mode
	return nil
}

// SetStrategy 设置碰撞策略覆盖
func (sm *SettingsManager) SetStrategy(strategy string) error {
	if strategy != "" && strategy != config.StrategyPolygon && strategy != config.StrategyGrid {
		return fmt.Errorf("%w: strategy %q", config.ErrInvalidConfig, strategy)
	}
	sm.settings.Strategy = strategy
	return nil
}

// SetShowColliders 设置碰撞调试层开关
func (sm *SettingsManager) SetShowColliders(show bool) {
	sm.settings.ShowColliders = show
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetSoundEnabled 设置笔画音效开关
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetSoundVolume 设置音效音量，限制在 [0, 1]
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = min(max(volume, 0), 1)
}

// SetLastConfig 记录最近打开的精灵配置
func (sm *SettingsManager) SetLastConfig(path string) {
	sm.settings.LastConfig = path
}

// Apply 把偏好设置覆盖到精灵配置上，返回新的配置
//
// 返回：
//   - error: 覆盖后的配置无法通过校验
func (sm *SettingsManager) Apply(cfg *config.SpriteConfig) (*config.SpriteConfig, error) {
	out := *cfg
	s := sm.settings
	if s.BrushRadius > 0 {
		out.Brush.Radius = s.BrushRadius
	}
	if s.BrushMode != "" {
		out.Brush.Mode = s.BrushMode
	}
	if s.Strategy != "" {
		out.Strategy = s.Strategy
	}
	if err := config.ValidateSpriteConfig(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
