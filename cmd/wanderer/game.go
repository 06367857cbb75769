package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/annel0/wanderer/internal/config"
	"github.com/annel0/wanderer/internal/logging"
	"github.com/annel0/wanderer/internal/metrics"
	"github.com/annel0/wanderer/internal/observability"
	"github.com/annel0/wanderer/internal/render"
	"github.com/annel0/wanderer/internal/storage"
	"github.com/annel0/wanderer/internal/timers"
	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world"
	"github.com/annel0/wanderer/internal/world/material"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	statusHeight = 16
	maxDelta     = 100 * time.Millisecond
	playerSize   = 10
	playerSpeed  = 2
)

// Клавиши выбора предмета для размещения
var itemKeys = map[ebiten.Key]material.Kind{
	ebiten.Key1: material.Dirt,
	ebiten.Key2: material.Grass,
	ebiten.Key3: material.Water,
	ebiten.Key4: material.Rock,
}

// Game связывает карту, рендерер, планировщик и хранилище
type Game struct {
	cfg       *config.Config
	m         *world.Map
	renderer  *render.Renderer
	scheduler *timers.Scheduler
	store     *storage.WorldStorage
	metrics   *metrics.WorldMetrics
	tracer    *observability.WorldTracer
	logger    *logging.Logger
	ctx       context.Context

	hand       material.Hand
	player     image.Point
	sprite     *image.RGBA
	playerImg  *ebiten.Image
	lastUpdate time.Time
	status     string
}

// NewGame создаёт игровую сессию
func NewGame(cfg *config.Config, m *world.Map, store *storage.WorldStorage, wm *metrics.WorldMetrics) *Game {
	sprite := playerSprite()
	g := &Game{
		cfg:        cfg,
		m:          m,
		renderer:   render.NewRenderer(m),
		scheduler:  timers.NewScheduler(),
		store:      store,
		metrics:    wm,
		tracer:     observability.NewWorldTracer(nil),
		ctx:        context.Background(),
		logger:     logging.GetGameLogger(),
		sprite:     sprite,
		playerImg:  ebiten.NewImageFromImage(sprite),
		lastUpdate: time.Now(),
	}
	g.player = g.spawnPoint()
	g.hand.Hold(material.NewItem(material.Dirt))

	if every := cfg.Autosave.Interval(); every > 0 {
		var autosave func()
		autosave = func() {
			g.save()
			g.scheduler.After(every, autosave)
		}
		g.scheduler.After(every, autosave)
	}
	wm.CountTiles(m)
	return g
}

// spawnPoint ищет первую клетку, где игрок может стоять
func (g *Game) spawnPoint() image.Point {
	ts := g.m.TileSize()
	for y := 0; y < g.m.Height(); y++ {
		for x := 0; x < g.m.Width(); x++ {
			p := image.Pt(x*ts+(ts-playerSize)/2, y*ts+(ts-playerSize)/2)
			if g.m.WalkableFor(g.sprite, image.Rectangle{Min: p, Max: p.Add(image.Pt(playerSize, playerSize))}) {
				return p
			}
		}
	}
	return image.Point{}
}

// Update обрабатывает ввод и продвигает мир на один кадр
func (g *Game) Update() error {
	now := time.Now()
	dt := now.Sub(g.lastUpdate)
	if dt > maxDelta {
		dt = maxDelta
	}
	g.lastUpdate = now

	g.handleItemKeys()
	g.handleMouse()
	g.movePlayer()
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.renderer.ToggleWalkMask()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.save()
	}

	g.scheduler.Advance(dt)
	if g.tracer.Update(g.ctx, func() bool { return g.metrics.TimeUpdate(g.m) }) {
		g.metrics.CountTiles(g.m)
	}
	g.metrics.SchedulerPending(g.scheduler.Len())
	g.renderer.Sync()
	return nil
}

func (g *Game) handleItemKeys() {
	for key, kind := range itemKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.hand.Hold(material.NewItem(kind))
			g.status = fmt.Sprintf("в руке: %s", &g.hand)
		}
	}
}

func (g *Game) handleMouse() {
	x, y := ebiten.CursorPosition()
	y -= statusHeight

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.dig(x, y)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		g.place(x, y)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		if item, ok := g.tracer.PickUp(g.ctx, g.m, x, y); ok {
			g.hand.Hold(item)
			g.status = fmt.Sprintf("подобрано: %s", item)
		}
	}
}

// dig копает в точке; выкопанная трава отрастает через заданное время
func (g *Game) dig(x, y int) {
	ts := g.m.TileSize()
	_, _, tile, found := g.m.TopTile(vec.FromPixels(x, y, ts))
	wasGrass := found && tile.Kind == material.Grass

	if !g.tracer.Dig(g.ctx, g.m, x, y) {
		return
	}
	if regrow := g.cfg.Autosave.Regrow(); wasGrass && regrow > 0 {
		g.scheduler.After(regrow, func() {
			g.m.Place(x, y, material.NewItem(material.Grass))
		})
	}
}

func (g *Game) place(x, y int) {
	item, ok := g.hand.Item()
	if !ok {
		g.status = "в руке ничего нет"
		return
	}
	if g.tracer.PlaceHeld(g.ctx, g.m, x, y, &g.hand) {
		g.status = fmt.Sprintf("размещено: %s", item)
	}
}

func (g *Game) movePlayer() {
	var dx, dy int
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= playerSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += playerSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= playerSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += playerSpeed
	}

	// Оси проверяются отдельно, чтобы скользить вдоль препятствий
	for _, step := range []image.Point{{X: dx}, {Y: dy}} {
		if step == (image.Point{}) {
			continue
		}
		next := g.player.Add(step)
		if g.m.WalkableFor(g.sprite, image.Rectangle{Min: next, Max: next.Add(image.Pt(playerSize, playerSize))}) {
			g.player = next
		}
	}
}

// Draw рисует мир, игрока и строку состояния
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, 0, statusHeight)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(g.player.X), float64(g.player.Y+statusHeight))
	screen.DrawImage(g.playerImg, op)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s | в руке: %s | ЛКМ копать, ПКМ класть, СКМ подобрать, M маска, F5 сохранить",
		g.status, &g.hand))
}

// Layout возвращает размер экрана в пикселях мира
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.m.Image().Bounds()
	return b.Dx(), b.Dy() + statusHeight
}

func (g *Game) save() {
	var info storage.SlotInfo
	err := g.tracer.Save(g.ctx, g.cfg.Storage.Slot, func() error {
		var err error
		info, err = g.store.SaveMap(g.cfg.Storage.Slot, g.m)
		return err
	})
	g.metrics.Saved(err)
	if err != nil {
		g.logger.Error("Ошибка сохранения: %v", err)
		return
	}
	g.logger.Info("💾 Мир сохранён в слот %s (%d байт)", info.Slot, info.Size)
}

// playerSprite рисует круглый спрайт игрока
func playerSprite() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, playerSize, playerSize))
	c := color.RGBA{0xf0, 0xd0, 0x40, 0xff}
	r := playerSize / 2
	for y := 0; y < playerSize; y++ {
		for x := 0; x < playerSize; x++ {
			dx, dy := x-r, y-r
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}
