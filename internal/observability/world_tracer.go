package observability

import (
	"context"
	"time"

	"github.com/annel0/wanderer/internal/world"
	"github.com/annel0/wanderer/internal/world/material"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/annel0/wanderer/world"

// Имена спанов
const (
	SpanUpdate = "world.update"
	SpanDig    = "world.dig"
	SpanPlace  = "world.place"
	SpanPickUp = "world.pickup"
	SpanSave   = "world.save"
)

// WorldTracer оборачивает операции карты в спаны
type WorldTracer struct {
	tracer trace.Tracer
}

// NewWorldTracer создаёт трассировщик. tp == nil означает глобальный провайдер.
func NewWorldTracer(tp trace.TracerProvider) *WorldTracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &WorldTracer{tracer: tp.Tracer(tracerName)}
}

// Update выполняет update и записывает спан, только если кадр что-то
// перерисовал: пустые кадры не порождают спанов.
func (wt *WorldTracer) Update(ctx context.Context, update func() bool) bool {
	start := time.Now()
	changed := update()
	if changed {
		_, span := wt.tracer.Start(ctx, SpanUpdate, trace.WithTimestamp(start))
		span.End(trace.WithTimestamp(time.Now()))
	}
	return changed
}

// Dig копает в пикселе (px, py)
func (wt *WorldTracer) Dig(ctx context.Context, m *world.Map, px, py int) bool {
	_, span := wt.tracer.Start(ctx, SpanDig, trace.WithAttributes(pixelAttrs(px, py)...))
	defer span.End()

	ok := m.Dig(px, py)
	span.SetAttributes(attribute.Bool("world.ok", ok))
	return ok
}

// PlaceHeld размещает предмет из руки
func (wt *WorldTracer) PlaceHeld(ctx context.Context, m *world.Map, px, py int, hand *material.Hand) bool {
	_, span := wt.tracer.Start(ctx, SpanPlace, trace.WithAttributes(pixelAttrs(px, py)...))
	defer span.End()

	if item, held := hand.Item(); held {
		span.SetAttributes(attribute.String("world.item", item.String()))
	}
	ok := m.PlaceHeld(px, py, hand)
	span.SetAttributes(attribute.Bool("world.ok", ok))
	return ok
}

// PickUp подбирает материал в пикселе (px, py)
func (wt *WorldTracer) PickUp(ctx context.Context, m *world.Map, px, py int) (material.Item, bool) {
	_, span := wt.tracer.Start(ctx, SpanPickUp, trace.WithAttributes(pixelAttrs(px, py)...))
	defer span.End()

	item, ok := m.PickUp(px, py)
	span.SetAttributes(attribute.Bool("world.ok", ok))
	if ok {
		span.SetAttributes(attribute.String("world.item", item.String()))
	}
	return item, ok
}

// Save оборачивает сохранение карты; ошибка отмечается в спане
func (wt *WorldTracer) Save(ctx context.Context, slot string, save func() error) error {
	_, span := wt.tracer.Start(ctx, SpanSave, trace.WithAttributes(attribute.String("world.slot", slot)))
	defer span.End()

	err := save()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func pixelAttrs(px, py int) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.Int("world.px", px), attribute.Int("world.py", py)}
}
