package game

import (
	"encoding/binary"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/decker502/erasable/pkg/stroke"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// 笔画音效参数
const (
	strokeSoundDuration = 120 * time.Millisecond
	paintToneHz         = 660
)

// AudioManager 笔画音效管理器
//
// 音效在创建时按采样率合成，不依赖音频文件：
//   - 擦除：衰减的白噪声（刮擦声）
//   - 绘制：衰减的正弦音
//
// context 为 nil 时进入静音模式，所有播放请求返回 false。
type AudioManager struct {
	context         *audio.Context
	settingsManager *SettingsManager // 可为 nil
	players         map[stroke.BrushMode]*audio.Player
}

// NewAudioManager 创建音效管理器
//
// 参数：
//   - ctx: ebiten 音频上下文，可为 nil（静音）
//   - sm: 设置管理器（读取音效开关和音量），可为 nil
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	am := &AudioManager{
		context:         ctx,
		settingsManager: sm,
		players:         make(map[stroke.BrushMode]*audio.Player),
	}
	if ctx == nil {
		log.Printf("[AudioManager] no audio context, stroke sounds disabled")
		return am
	}

	rate := ctx.SampleRate()
	am.players[stroke.BrushErase] = ctx.NewPlayerFromBytes(SynthesizeScratch(rate, strokeSoundDuration, 1))
	am.players[stroke.BrushPaint] = ctx.NewPlayerFromBytes(SynthesizeTone(rate, strokeSoundDuration, paintToneHz))
	return am
}

// PlayStroke 在笔画开始时播放对应笔刷模式的音效
//
// 返回：
//   - bool: 是否真的播放了
func (am *AudioManager) PlayStroke(mode stroke.BrushMode) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}
	player, ok := am.players[mode]
	if !ok {
		return false
	}

	player.SetVolume(am.volume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind %s sound: %v", mode, err)
	}
	player.Play()
	return true
}

func (am *AudioManager) volume() float64 {
	if am.settingsManager == nil {
		return defaultSoundVolume
	}
	return am.settingsManager.GetSettings().SoundVolume
}

// Enabled 是否有可用的音频上下文
func (am *AudioManager) Enabled() bool { return am.context != nil }

// SynthesizeScratch 合成衰减白噪声
//
// 返回 16 位有符号小端立体声 PCM（ebiten 音频上下文的原生格式）。
// 相同 seed 产生相同的采样。
func SynthesizeScratch(sampleRate int, d time.Duration, seed uint64) []byte {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return synthesize(sampleRate, d, func(int) float64 {
		return rng.Float64()*2 - 1
	})
}

// SynthesizeTone 合成衰减正弦音，格式同 SynthesizeScratch
func SynthesizeTone(sampleRate int, d time.Duration, hz float64) []byte {
	return synthesize(sampleRate, d, func(i int) float64 {
		return math.Sin(2 * math.Pi * hz * float64(i) / float64(sampleRate))
	})
}

// synthesize 按线性衰减包络生成立体声 PCM
func synthesize(sampleRate int, d time.Duration, wave func(i int) float64) []byte {
	n := int(int64(sampleRate) * int64(d) / int64(time.Second))
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		env := 1 - float64(i)/float64(n)
		v := int16(math.Round(wave(i) * env * 0.5 * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}
