package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/annel0/wanderer/internal/config"
	"github.com/annel0/wanderer/internal/logging"
	"github.com/annel0/wanderer/internal/metrics"
	"github.com/annel0/wanderer/internal/observability"
	"github.com/annel0/wanderer/internal/storage"
	"github.com/annel0/wanderer/internal/world"
	_ "github.com/annel0/wanderer/internal/world/material/implementations"
	"github.com/annel0/wanderer/internal/worldgen"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $WANDERER_CONFIG)")
	fresh := flag.Bool("new", false, "сгенерировать новый мир, не загружая сохранение")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Printf("⚠️ %v, используем INFO", err)
	}
	opts := logging.DefaultOptions()
	opts.ConsoleLevel = level
	opts.Dir = cfg.Logging.Dir
	logging.GetLoggerManager().Configure(opts)
	defer logging.GetLoggerManager().CloseAll()

	logger := logging.GetGameLogger()
	logger.Info("🎮 Запуск wanderer: мир %dx%d, тайл %dpx", cfg.World.Width, cfg.World.Height, cfg.World.TileSize)

	key, _ := cfg.Assets.Key()
	atlases, err := world.LoadAtlasSet(cfg.Assets.Dir, cfg.World.TileSize, key, cfg.Assets.Fallback)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки атласов: %v", err)
	}

	store, err := storage.NewWorldStorage(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
	}
	defer store.Close()

	m, err := openWorld(cfg, store, atlases, *fresh)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки мира: %v", err)
	}

	wm := metrics.NewWorldMetrics(nil)
	m.SetObserver(wm)
	if cfg.Metrics.Addr != "" {
		srv := wm.StartHTTP(cfg.Metrics.Addr)
		defer srv.Close()
	}

	if cfg.Tracing.Endpoint != "" {
		shutdown, err := observability.InitTelemetry(context.Background(), cfg.Tracing.Service, cfg.Tracing.Endpoint)
		if err != nil {
			logger.Warn("⚠️ Трассировка отключена: %v", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	game := NewGame(cfg, m, store, wm)

	b := m.Image().Bounds()
	ebiten.SetWindowSize(b.Dx(), b.Dy()+statusHeight)
	ebiten.SetWindowTitle("Wanderer")
	if err := ebiten.RunGame(game); err != nil {
		logger.Error("Игровой цикл завершился с ошибкой: %v", err)
	}

	game.save()
	logger.Info("👋 Завершение работы")
}

// openWorld загружает мир из слота или генерирует новый
func openWorld(cfg *config.Config, store *storage.WorldStorage, atlases *world.AtlasSet, fresh bool) (*world.Map, error) {
	logger := logging.GetGameLogger()

	if !fresh {
		m, err := store.LoadMap(cfg.Storage.Slot, atlases)
		switch {
		case err == nil:
			m.Update()
			logger.Info("📂 Загружен мир %s из слота %s", m.ID(), cfg.Storage.Slot)
			return m, nil
		case !errors.Is(err, storage.ErrNotFound):
			return nil, err
		}
	}

	opts := world.DefaultOptions()
	opts.Width = cfg.World.Width
	opts.Height = cfg.World.Height
	opts.TileSize = cfg.World.TileSize
	opts.Tiers = cfg.World.Tiers

	m, err := world.NewMap(opts, atlases)
	if err != nil {
		return nil, err
	}
	worldgen.New(cfg.World.Seed).Generate(m)
	return m, nil
}
