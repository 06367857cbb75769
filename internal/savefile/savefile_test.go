package savefile

import (
	"bytes"
	"image"
	"path/filepath"
	"testing"

	"github.com/annel0/wanderer/internal/world"
	"github.com/annel0/wanderer/internal/world/material"
	_ "github.com/annel0/wanderer/internal/world/material/implementations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMap(t *testing.T) *world.Map {
	t.Helper()
	opts := world.DefaultOptions()
	opts.Width, opts.Height, opts.TileSize = 8, 6, 8
	m, err := world.NewMap(opts, world.GenerateAtlasSet(8))
	require.NoError(t, err)

	dirt, _ := m.Tiers()[0].Layer(material.LayerDirt)
	dirt.Fill(image.Rect(0, 0, 8, 6), material.Dirt)
	grass, _ := m.Tiers()[0].Layer(material.LayerGrass)
	grass.Fill(image.Rect(2, 2, 5, 4), material.Grass)
	m.Update()
	m.Dig(3*8+4, 2*8+4)
	m.Update()
	return m
}

func TestMarshalRoundTrip(t *testing.T) {
	m := sampleMap(t)

	data, err := Marshal(m)
	require.NoError(t, err)

	loaded, err := Unmarshal(data, m.Atlases())
	require.NoError(t, err)
	loaded.Update()

	assert.Equal(t, m.ID(), loaded.ID())
	assert.Equal(t, m.Image().Pix, loaded.Image().Pix)
	assert.Equal(t, m.WalkMask().Pix, loaded.WalkMask().Pix)
}

func TestFileRoundTrip(t *testing.T) {
	m := sampleMap(t)
	path := filepath.Join(t.TempDir(), "saves", "slot.wmap")

	require.NoError(t, WriteFile(path, m))
	loaded, err := ReadFile(path, m.Atlases())
	require.NoError(t, err)
	loaded.Update()
	assert.Equal(t, m.Image().Pix, loaded.Image().Pix)
}

func TestDecodeRejectsSchemaViolations(t *testing.T) {
	m := sampleMap(t)
	doc := m.Serialize()
	tiers := doc["tiers"].([]any)
	layer := tiers[0].(map[string]any)["layers"].([]any)[0].(map[string]any)
	tile := layer["tiles"].([]any)[0].(map[string]any)
	tile["mask"] = 99

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	_, err := Decode(&buf)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeRejectsOversizedMap(t *testing.T) {
	doc := sampleMap(t).Serialize()
	doc["width"] = 1 << 40
	doc["height"] = 1 << 40

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	_, err := Decode(&buf)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not zstd")))
	assert.ErrorIs(t, err, ErrInvalid)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, map[string]any{"version": 1}))
	_, err = Decode(&buf)
	assert.ErrorIs(t, err, ErrInvalid, "required fields missing")
}

func TestValidateAcceptsSerializedMap(t *testing.T) {
	m := sampleMap(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m.Serialize()))

	doc, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.ID(), doc["id"])
}
