package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
	"github.com/google/uuid"
)

// FormatVersion задаёт версию формата сериализованной карты
const FormatVersion = 1

// ErrMalformed возвращается при разборе повреждённых данных карты
var ErrMalformed = errors.New("malformed map data")

// Serialize переводит карту в дерево map/slice/скаляров, пригодное для JSON
func (m *Map) Serialize() map[string]any {
	tiers := make([]any, 0, len(m.tiers))
	for _, tier := range m.tiers {
		layers := make([]any, 0, len(tier.layers))
		for _, l := range tier.layers {
			tiles := make([]any, 0, l.Len())
			l.Each(func(pos vec.Vec2, t *Tile) {
				tiles = append(tiles, map[string]any{
					"x":             pos.X,
					"y":             pos.Y,
					"material":      t.Kind.String(),
					"mask":          int(t.Mask),
					"health":        t.Health,
					"walkable":      t.Walkable,
					"superwalkable": t.Superwalkable,
					"immortal":      t.Immortal,
					"fringe":        t.Fringe,
				})
			})
			layers = append(layers, map[string]any{
				"name":  l.Name(),
				"tiles": tiles,
			})
		}
		tiers = append(tiers, map[string]any{
			"name":   tier.Name(),
			"layers": layers,
		})
	}

	return map[string]any{
		"version":   FormatVersion,
		"id":        m.id,
		"width":     m.width,
		"height":    m.height,
		"tile_size": m.tileSize,
		"tiers":     tiers,
	}
}

// Deserialize восстанавливает карту из дерева, созданного Serialize
// (или декодированного из JSON). Тайлы помечаются dirty; изображения и
// маска ходьбы появляются после первого Update.
func Deserialize(doc map[string]any, atlases *AtlasSet) (*Map, error) {
	d := decoder{}

	version := d.int(doc, "version", "version")
	if d.err == nil && version != FormatVersion {
		d.fail("version", "unsupported version %d", version)
	}
	width := d.int(doc, "width", "width")
	height := d.int(doc, "height", "height")
	tileSize := d.int(doc, "tile_size", "tile_size")
	tiersRaw := d.list(doc, "tiers", "tiers")
	if d.err != nil {
		return nil, d.err
	}
	if field, err := checkSize(width, height, tileSize); err != nil {
		return nil, malformed(field, "%v", err)
	}
	if len(tiersRaw) == 0 {
		return nil, malformed("tiers", "at least one tier required")
	}

	opts := Options{Width: width, Height: height, TileSize: tileSize}
	type tierDoc struct {
		path   string
		layers []any
	}
	var tiers []tierDoc
	for i, raw := range tiersRaw {
		path := fmt.Sprintf("tiers[%d]", i)
		td := d.object(raw, path)
		name := d.string(td, "name", path+".name")
		layers := d.list(td, "layers", path+".layers")
		if d.err != nil {
			return nil, d.err
		}

		names := make([]string, 0, len(layers))
		for j, lraw := range layers {
			lpath := fmt.Sprintf("%s.layers[%d]", path, j)
			names = append(names, d.string(d.object(lraw, lpath), "name", lpath+".name"))
		}
		if d.err != nil {
			return nil, d.err
		}
		if i == 0 {
			opts.Layers = names
		} else if !sameNames(opts.Layers, names) {
			return nil, malformed(path+".layers", "layer names %v differ from %v", names, opts.Layers)
		}
		opts.Tiers = append(opts.Tiers, name)
		tiers = append(tiers, tierDoc{path: path, layers: layers})
	}

	m, err := NewMap(opts, atlases)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw, ok := doc["id"]; ok {
		id, ok := raw.(string)
		if !ok {
			return nil, malformed("id", "expected string, got %T", raw)
		}
		if _, err := uuid.Parse(id); err != nil {
			return nil, malformed("id", "%v", err)
		}
		m.id = id
	}

	for i, td := range tiers {
		for j, lraw := range td.layers {
			lpath := fmt.Sprintf("%s.layers[%d]", td.path, j)
			layer := m.tiers[i].layers[j]
			tiles := d.list(d.object(lraw, lpath), "tiles", lpath+".tiles")
			for k, traw := range tiles {
				d.tile(layer, traw, fmt.Sprintf("%s.tiles[%d]", lpath, k))
			}
			if d.err != nil {
				return nil, d.err
			}
		}
	}
	return m, nil
}

// load вставляет тайл без распространения маски
func (l *Layer) load(pos vec.Vec2, t *Tile) {
	l.tiles[pos] = t
	l.markDirty(pos)
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func malformed(path, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", path, fmt.Sprintf(format, args...), ErrMalformed)
}

// decoder запоминает первую ошибку, последующие вызовы ничего не делают
type decoder struct {
	err error
}

func (d *decoder) fail(path, format string, args ...any) {
	if d.err == nil {
		d.err = malformed(path, format, args...)
	}
}

func (d *decoder) object(v any, path string) map[string]any {
	if d.err != nil {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		d.fail(path, "expected object, got %T", v)
	}
	return obj
}

func (d *decoder) field(obj map[string]any, key, path string) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	v, ok := obj[key]
	if !ok {
		d.fail(path, "missing field")
	}
	return v, ok
}

func (d *decoder) list(obj map[string]any, key, path string) []any {
	v, ok := d.field(obj, key, path)
	if !ok {
		return nil
	}
	l, ok := v.([]any)
	if !ok {
		d.fail(path, "expected list, got %T", v)
	}
	return l
}

func (d *decoder) string(obj map[string]any, key, path string) string {
	v, ok := d.field(obj, key, path)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail(path, "expected string, got %T", v)
	}
	return s
}

func (d *decoder) float(obj map[string]any, key, path string) float64 {
	v, ok := d.field(obj, key, path)
	if !ok {
		return 0
	}
	f, err := toFloat(v)
	if err != nil {
		d.fail(path, "%v", err)
	}
	return f
}

func (d *decoder) int(obj map[string]any, key, path string) int {
	f := d.float(obj, key, path)
	if d.err != nil {
		return 0
	}
	if f != math.Trunc(f) {
		d.fail(path, "expected integer, got %v", f)
		return 0
	}
	return int(f)
}

// flag читает необязательный булев флаг
func (d *decoder) flag(obj map[string]any, key, path string, def bool) bool {
	if d.err != nil {
		return def
	}
	v, ok := obj[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(path, "expected bool, got %T", v)
	}
	return b
}

func (d *decoder) tile(layer *Layer, raw any, path string) {
	obj := d.object(raw, path)
	x := d.int(obj, "x", path+".x")
	y := d.int(obj, "y", path+".y")
	name := d.string(obj, "material", path+".material")
	mask := d.int(obj, "mask", path+".mask")
	health := d.float(obj, "health", path+".health")
	if d.err != nil {
		return
	}

	pos := vec.Vec2{X: x, Y: y}
	if !layer.InBounds(pos) {
		d.fail(path, "position (%d,%d) outside the world", x, y)
		return
	}
	if _, dup := layer.Tile(pos); dup {
		d.fail(path, "duplicate tile at (%d,%d)", x, y)
		return
	}
	kind, err := material.ParseKind(name)
	if err != nil {
		d.fail(path+".material", "%v", err)
		return
	}
	if mask < 0 || !material.Mask(mask).Valid() {
		d.fail(path+".mask", "mask %d out of range", mask)
		return
	}
	props := material.PropertiesOf(kind)
	if health < props.MinHealth || health > props.MaxHealth {
		d.fail(path+".health", "health %v outside [%v, %v]", health, props.MinHealth, props.MaxHealth)
		return
	}

	st := material.NewState(kind, material.Mask(mask), health)
	st.Walkable = d.flag(obj, "walkable", path+".walkable", st.Walkable)
	st.Superwalkable = d.flag(obj, "superwalkable", path+".superwalkable", st.Superwalkable)
	st.Immortal = d.flag(obj, "immortal", path+".immortal", st.Immortal)
	st.Fringe = d.flag(obj, "fringe", path+".fringe", false)
	if d.err != nil {
		return
	}

	t := NewTile(st)
	t.kill = material.Dead(st)
	layer.load(pos, t)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
