package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/annel0/wanderer/internal/logging"
	"github.com/annel0/wanderer/internal/savefile"
	"github.com/annel0/wanderer/internal/world"
	"github.com/dgraph-io/badger/v3"
)

// ErrNotFound возвращается, если слот сохранения не существует
var ErrNotFound = errors.New("save slot not found")

const (
	mapPrefix  = "map:"
	metaPrefix = "meta:"
)

// SlotInfo описывает сохранённую карту
type SlotInfo struct {
	Slot     string    `json:"slot"`
	MapID    string    `json:"map_id"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	TileSize int       `json:"tile_size"`
	Size     int       `json:"size"` // размер сжатого блока в байтах
	SavedAt  time.Time `json:"saved_at"`
}

// WorldStorage хранит слоты сохранения карт в BadgerDB
type WorldStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
}

// NewWorldStorage открывает хранилище в dataPath/world
func NewWorldStorage(dataPath string) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	logging.GetStorageLogger().Info("Хранилище открыто: %s", dbPath)
	return &WorldStorage{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
	}, nil
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}

	ws.isReady = false
	return ws.db.Close()
}

func validSlot(slot string) error {
	if slot == "" || strings.ContainsAny(slot, ":\x00") {
		return fmt.Errorf("некорректное имя слота %q", slot)
	}
	return nil
}

// SaveMap сохраняет карту в слот, перезаписывая прежнее содержимое
func (ws *WorldStorage) SaveMap(slot string, m *world.Map) (SlotInfo, error) {
	if err := validSlot(slot); err != nil {
		return SlotInfo{}, err
	}

	data, err := savefile.Marshal(m)
	if err != nil {
		return SlotInfo{}, fmt.Errorf("ошибка сериализации карты: %w", err)
	}

	info := SlotInfo{
		Slot:     slot,
		MapID:    m.ID(),
		Width:    m.Width(),
		Height:   m.Height(),
		TileSize: m.TileSize(),
		Size:     len(data),
		SavedAt:  time.Now().UTC(),
	}
	meta, err := json.Marshal(info)
	if err != nil {
		return SlotInfo{}, fmt.Errorf("ошибка сериализации описания: %w", err)
	}

	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return SlotInfo{}, fmt.Errorf("хранилище не готово")
	}

	err = ws.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(mapPrefix+slot), data); err != nil {
			return err
		}
		return txn.Set([]byte(metaPrefix+slot), meta)
	})
	if err != nil {
		return SlotInfo{}, fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	logging.GetStorageLogger().Debug("Карта %s сохранена в слот %s (%d байт)", info.MapID, slot, info.Size)
	return info, nil
}

// LoadMap загружает карту из слота. Изображения появляются после первого Update.
func (ws *WorldStorage) LoadMap(slot string, atlases *world.AtlasSet) (*world.Map, error) {
	data, err := ws.get(mapPrefix + slot)
	if err != nil {
		return nil, fmt.Errorf("слот %s: %w", slot, err)
	}

	m, err := savefile.Unmarshal(data, atlases)
	if err != nil {
		return nil, fmt.Errorf("слот %s: %w", slot, err)
	}
	return m, nil
}

// Info возвращает описание слота
func (ws *WorldStorage) Info(slot string) (SlotInfo, error) {
	data, err := ws.get(metaPrefix + slot)
	if err != nil {
		return SlotInfo{}, fmt.Errorf("слот %s: %w", slot, err)
	}

	var info SlotInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return SlotInfo{}, fmt.Errorf("ошибка десериализации описания: %w", err)
	}
	return info, nil
}

// List возвращает описания всех слотов, отсортированные по имени
func (ws *WorldStorage) List() ([]SlotInfo, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var out []SlotInfo
	err := ws.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(metaPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var info SlotInfo
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &info)
			})
			if err != nil {
				return err
			}
			out = append(out, info)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

// Delete удаляет слот
func (ws *WorldStorage) Delete(slot string) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	return ws.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(metaPrefix + slot)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("слот %s: %w", slot, ErrNotFound)
			}
			return err
		}
		if err := txn.Delete([]byte(mapPrefix + slot)); err != nil {
			return err
		}
		return txn.Delete([]byte(metaPrefix + slot))
	})
}

func (ws *WorldStorage) get(key string) ([]byte, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var data []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}
	return data, nil
}
