// erasetui 终端里的可擦除精灵演示
//
// 用鼠标左键拖动擦除精灵，碰撞体由 resolv 空间维护。
// 按键：e/p 切换擦除/绘制，+/- 调整笔刷半径，c 切换碰撞体着色，Esc 或 Ctrl+C 退出。
//
// 用法：
//
//	go run ./cmd/erasetui -config data/sprites/grid.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/decker502/erasable/pkg/collision"
	"github.com/decker502/erasable/pkg/config"
	"github.com/decker502/erasable/pkg/coords"
	"github.com/decker502/erasable/pkg/embedded"
	"github.com/decker502/erasable/pkg/input"
	"github.com/decker502/erasable/pkg/physics/resolvworld"
	"github.com/decker502/erasable/pkg/session"
	"github.com/decker502/erasable/pkg/stroke"
	"github.com/gdamore/tcell/v2"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

const frameInterval = 16 * time.Millisecond

// 显示颜色
var (
	colorSolid     = tcell.ColorOlive
	colorNoCollide = tcell.ColorPurple
	colorErased    = tcell.NewRGBColor(40, 40, 40)
	styleHUD       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// uploadCounter 终端直接读取遮罩，纹理上传只计数
type uploadCounter struct {
	uploads int
	pixels  int
}

func (u *uploadCounter) Upload(up session.Upload) {
	u.uploads++
	u.pixels += up.Dirty.Dx() * up.Dirty.Dy()
}

var _ session.TextureSink = (*uploadCounter)(nil)

type tui struct {
	screen  tcell.Screen
	sess    *session.Session
	camera  *coords.Camera
	physics *resolvworld.World
	uploads *uploadCounter

	pointer      input.State
	showCollider bool
	last         session.FrameResult
}

func main() {
	configPath := flag.String("config", config.DefaultSpriteConfigPath, "精灵配置文件路径")
	root := flag.String("root", ".", "资源根目录（包含 assets/ 和 data/）")
	strategy := flag.String("strategy", "", "覆盖碰撞策略：polygon 或 grid")
	flag.Parse()

	// 终端被占用，日志丢弃
	log.SetOutput(io.Discard)

	dir := os.DirFS(*root)
	embedded.Init(dir, dir)

	t, err := newTUI(*configPath, *strategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "erasetui: %v\n", err)
		os.Exit(1)
	}
	defer t.screen.Fini()
	t.run()
}

func newTUI(configPath, strategy string) (*tui, error) {
	data, err := embedded.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	sc, err := config.ParseSpriteConfig(data)
	if err != nil {
		return nil, err
	}
	if strategy != "" {
		sc.Strategy = strategy
	}
	if sc.Image == "" {
		return nil, fmt.Errorf("%w: %s has no image", config.ErrInvalidConfig, configPath)
	}
	img, err := embedded.LoadImage(sc.Image)
	if err != nil {
		return nil, err
	}

	// 变换为单位矩阵时精灵完全落在 [-W/ppu, W/ppu] × [-H/ppu, H/ppu] 内
	size := img.Bounds().Size()
	halfW, halfH := float64(size.X)/sc.PixelsPerUnit, float64(size.Y)/sc.PixelsPerUnit
	physics, err := resolvworld.New(rect.Rect{LLx: -halfW, LLy: -halfH, URx: halfW, URy: halfH}, sc.PixelsPerUnit, 16)
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()

	t := &tui{
		screen:       screen,
		camera:       &coords.Camera{PixelsPerUnit: 1, ScreenWidth: 1, ScreenHeight: 1},
		physics:      physics,
		uploads:      &uploadCounter{},
		showCollider: true,
	}
	t.sess, err = session.Build(session.Sprite{
		Config:    sc,
		Source:    img,
		Transform: matrix.Identity,
		Camera:    t.camera,
		Physics:   physics,
		Sink:      t.uploads,
	})
	if err != nil {
		screen.Fini()
		return nil, err
	}
	t.resize()
	return t, nil
}

// resize 按终端尺寸重新适配摄像机（会话持有同一个摄像机指针）
func (t *tui) resize() {
	cols, rows := t.screen.Size()
	if rows > 1 {
		rows-- // 最后一行留给状态栏
	}
	*t.camera = *fitCamera(t.sess, cols, rows)
}

func (t *tui) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !t.handleInput(ev) {
				return
			}
		case <-ticker.C:
			t.last = t.sess.Tick(t.pointer)
			t.draw()
		}
	}
}

func (t *tui) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		brush := t.sess.Brush()
		switch ev.Rune() {
		case 'e':
			brush.Mode = stroke.BrushErase
		case 'p':
			brush.Mode = stroke.BrushPaint
		case '+', '=':
			brush.Radius++
		case '-':
			brush.Radius = max(1, brush.Radius-1)
		case 'c':
			t.showCollider = !t.showCollider
		case 'q':
			return false
		}
		t.sess.SetBrush(brush)

	case *tcell.EventMouse:
		x, y := ev.Position()
		t.pointer = input.State{
			Drawing: ev.Buttons()&tcell.Button1 != 0,
			Screen:  cellToScreen(x, y),
		}

	case *tcell.EventResize:
		t.resize()
		t.screen.Sync()
	}
	return true
}

func (t *tui) draw() {
	t.screen.Clear()

	var physics blocker
	if t.showCollider {
		physics = t.physics
	}
	pixels := Frame(t.sess, t.camera, physics)
	w := t.camera.ScreenWidth
	for row := 0; row*rowsPerCell < t.camera.ScreenHeight; row++ {
		for x := 0; x < w; x++ {
			top := pixels[row*rowsPerCell*w+x]
			bottom := PixelEmpty
			if row*rowsPerCell+1 < t.camera.ScreenHeight {
				bottom = pixels[(row*rowsPerCell+1)*w+x]
			}
			if top == PixelEmpty && bottom == PixelEmpty {
				continue
			}
			t.screen.SetContent(x, row, '▀', nil, cellStyle(top, bottom))
		}
	}

	_, rows := t.screen.Size()
	t.drawText(0, rows-1, t.status())
	t.screen.Show()
}

// cellStyle 上半格用前景色，下半格用背景色
func cellStyle(top, bottom Pixel) tcell.Style {
	return tcell.StyleDefault.Foreground(pixelColor(top)).Background(pixelColor(bottom))
}

func pixelColor(p Pixel) tcell.Color {
	switch p {
	case PixelSolid:
		return colorSolid
	case PixelNoCollide:
		return colorNoCollide
	case PixelErased:
		return colorErased
	default:
		return tcell.ColorReset
	}
}

func (t *tui) status() string {
	sync := t.sess.Sync()
	shapes := ""
	switch s := sync.(type) {
	case *collision.GridSync:
		shapes = fmt.Sprintf("cells=%d", s.LiveCount())
	case *collision.PolygonSync:
		shapes = fmt.Sprintf("loops=%d", len(s.Outline()))
	}
	brush := t.sess.Brush()
	return fmt.Sprintf(" [%s] %s r=%.0fpx  opaque=%d  %s  strokes=%d  uploads=%d/%dpx  world=(%.2f,%.2f) ",
		sync.Name(), brush.Mode, brush.Radius, t.sess.Mask().OpaqueCount(), shapes,
		t.sess.Strokes(), t.uploads.uploads, t.uploads.pixels, t.last.World.X, t.last.World.Y)
}

func (t *tui) drawText(x, y int, s string) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, styleHUD)
		x++
	}
}

var _ blocker = (*resolvworld.World)(nil)
