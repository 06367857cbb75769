// Package metrics экспортирует метрики мира в Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/annel0/wanderer/internal/logging"
	"github.com/annel0/wanderer/internal/world"
	"github.com/annel0/wanderer/internal/world/material"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorldMetrics собирает счётчики действий, перерисовок и размеры слоёв.
// Реализует world.Observer.
type WorldMetrics struct {
	actions    *prometheus.CounterVec
	redrawn    prometheus.Counter
	updateTime prometheus.Histogram
	tiles      *prometheus.GaugeVec
	saves      *prometheus.CounterVec
	schedulerQ prometheus.Gauge
	gatherer   prometheus.Gatherer
}

var _ world.Observer = (*WorldMetrics)(nil)

// NewWorldMetrics создаёт метрики и регистрирует их в reg.
// nil означает новый собственный регистр.
func NewWorldMetrics(reg *prometheus.Registry) *WorldMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	wm := &WorldMetrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wanderer",
			Name:      "world_actions_total",
			Help:      "Действия с тайлами по материалу и результату.",
		}, []string{"action", "material", "result"}),
		redrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wanderer",
			Name:      "world_cells_redrawn_total",
			Help:      "Общее число перерисованных клеток.",
		}),
		updateTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wanderer",
			Name:      "world_update_duration_seconds",
			Help:      "Длительность обновления карты.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		tiles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "wanderer",
			Name:      "world_tiles",
			Help:      "Количество тайлов в слое.",
		}, []string{"tier", "layer"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wanderer",
			Name:      "saves_total",
			Help:      "Сохранения карты по результату.",
		}, []string{"result"}),
		schedulerQ: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wanderer",
			Name:      "scheduler_pending",
			Help:      "Количество отложенных вызовов в планировщике.",
		}),
		gatherer: reg,
	}

	reg.MustRegister(wm.actions, wm.redrawn, wm.updateTime, wm.tiles, wm.saves, wm.schedulerQ)
	return wm
}

// Action учитывает действие с тайлом
func (wm *WorldMetrics) Action(action string, kind material.Kind, ok bool) {
	result := "ok"
	if !ok {
		result = "rejected"
	}
	wm.actions.WithLabelValues(action, kind.String(), result).Inc()
}

// Redrawn учитывает перерисованные клетки
func (wm *WorldMetrics) Redrawn(cells int) {
	wm.redrawn.Add(float64(cells))
}

// TimeUpdate выполняет Update карты и записывает его длительность
func (wm *WorldMetrics) TimeUpdate(m *world.Map) bool {
	start := time.Now()
	changed := m.Update()
	if changed {
		wm.updateTime.Observe(time.Since(start).Seconds())
	}
	return changed
}

// CountTiles обновляет количество тайлов по слоям
func (wm *WorldMetrics) CountTiles(m *world.Map) {
	for _, tier := range m.Tiers() {
		for _, l := range tier.Layers() {
			wm.tiles.WithLabelValues(tier.Name(), l.Name()).Set(float64(l.Len()))
		}
	}
}

// Saved учитывает результат сохранения
func (wm *WorldMetrics) Saved(err error) {
	if err != nil {
		wm.saves.WithLabelValues("error").Inc()
		return
	}
	wm.saves.WithLabelValues("ok").Inc()
}

// SchedulerPending выставляет размер очереди планировщика
func (wm *WorldMetrics) SchedulerPending(n int) {
	wm.schedulerQ.Set(float64(n))
}

// Handler возвращает HTTP-обработчик /metrics для собственного регистра
func (wm *WorldMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(wm.gatherer, promhttp.HandlerOpts{})
}

// StartHTTP запускает HTTP-эндпоинт Prometheus на указанном адресе (например, ":2112").
// Метод неблокирующий: сервер стартует в отдельной горутине.
func (wm *WorldMetrics) StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", wm.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	log := logging.GetComponentLogger("metrics")
	go func() {
		log.Info("Prometheus /metrics доступен по адресу %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	return srv
}
