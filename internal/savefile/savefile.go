// Package savefile кодирует сериализованные карты в сжатый JSON и
// проверяет их по JSON-схеме при чтении.
package savefile

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/annel0/wanderer/internal/world"
	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalid возвращается, если документ не проходит проверку схемы
var ErrInvalid = errors.New("invalid save file")

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("map.schema.json", mapSchema)
	})
	return schema, schemaErr
}

// Encode пишет документ карты в w как JSON, сжатый zstd
func Encode(w io.Writer, doc map[string]any) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)
	if err := json.NewEncoder(bw).Encode(doc); err != nil {
		enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Decode читает и проверяет документ карты. Числа остаются json.Number.
func Decode(r io.Reader) (map[string]any, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrInvalid, err)
	}
	defer dec.Close()

	jd := json.NewDecoder(bufio.NewReaderSize(dec, 64*1024))
	jd.UseNumber()

	var raw any
	if err := jd.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: json decode: %v", ErrInvalid, err)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}
	return raw.(map[string]any), nil
}

// Validate проверяет документ по схеме сохранения
func Validate(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Marshal сериализует карту в сжатый блок
func Marshal(m *world.Map) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m.Serialize()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal восстанавливает карту из блока. Изображения появляются
// после первого Update.
func Unmarshal(data []byte, atlases *world.AtlasSet) (*world.Map, error) {
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return world.Deserialize(doc, atlases)
}

// WriteFile сохраняет карту в файл
func WriteFile(path string, m *world.Map) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Encode(f, m.Serialize()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile загружает карту из файла
func ReadFile(path string, atlases *world.AtlasSet) (*world.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return world.Deserialize(doc, atlases)
}
