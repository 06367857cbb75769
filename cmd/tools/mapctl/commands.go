package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"text/tabwriter"

	"github.com/annel0/wanderer/internal/config"
	"github.com/annel0/wanderer/internal/savefile"
	"github.com/annel0/wanderer/internal/storage"
	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world"
	"github.com/annel0/wanderer/internal/worldgen"
)

type options struct {
	command  string
	dataDir  string
	slot     string
	seed     int64
	width    int
	height   int
	tileSize int
	in       string
	out      string
	walk     bool
	x, y     int
}

func parseFlags(args []string) (*options, error) {
	defaults := config.Default()
	fs := flag.NewFlagSet("mapctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	o := &options{}
	fs.StringVar(&o.command, "cmd", "list", "Command: generate, list, inspect, export, import, png, delete")
	fs.StringVar(&o.dataDir, "data", defaults.Storage.DataDir, "Data directory")
	fs.StringVar(&o.slot, "slot", defaults.Storage.Slot, "Save slot")
	fs.Int64Var(&o.seed, "seed", defaults.World.Seed, "World seed for generate")
	fs.IntVar(&o.width, "width", defaults.World.Width, "World width in cells")
	fs.IntVar(&o.height, "height", defaults.World.Height, "World height in cells")
	fs.IntVar(&o.tileSize, "tile", defaults.World.TileSize, "Tile size in pixels")
	fs.StringVar(&o.in, "in", "", "Input save file for import")
	fs.StringVar(&o.out, "out", "", "Output file for export/png")
	fs.BoolVar(&o.walk, "walk", false, "Render the walk mask instead of terrain (png)")
	fs.IntVar(&o.x, "x", -1, "Cell X for inspect")
	fs.IntVar(&o.y, "y", -1, "Cell Y for inspect")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%v\n%s", err, usageText)
	}
	return o, nil
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	store, err := storage.NewWorldStorage(o.dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	atlases := world.GenerateAtlasSet(o.tileSize)

	switch o.command {
	case "generate":
		return generate(o, store, atlases, stdout)
	case "list":
		return list(store, stdout)
	case "inspect":
		return inspect(o, store, atlases, stdout)
	case "export":
		return export(o, store, atlases, stdout)
	case "import":
		return importFile(o, store, atlases, stdout)
	case "png":
		return renderPNG(o, store, atlases, stdout)
	case "delete":
		if err := store.Delete(o.slot); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "deleted %s\n", o.slot)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", o.command, usageText)
	}
}

func generate(o *options, store *storage.WorldStorage, atlases *world.AtlasSet, stdout io.Writer) error {
	opts := world.DefaultOptions()
	opts.Width, opts.Height, opts.TileSize = o.width, o.height, o.tileSize
	m, err := world.NewMap(opts, atlases)
	if err != nil {
		return err
	}
	stats := worldgen.New(o.seed).Generate(m)

	info, err := store.SaveMap(o.slot, m)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "generated %s in slot %s: water=%d grass=%d rocks=%d (%d bytes)\n",
		info.MapID, info.Slot, stats.Water, stats.Grass, stats.Rocks, info.Size)
	return nil
}

func list(store *storage.WorldStorage, stdout io.Writer) error {
	slots, err := store.List()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tMAP\tSIZE\tBYTES\tSAVED")
	for _, s := range slots {
		fmt.Fprintf(tw, "%s\t%s\t%dx%d@%d\t%d\t%s\n",
			s.Slot, s.MapID, s.Width, s.Height, s.TileSize, s.Size, s.SavedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func loadSlot(o *options, store *storage.WorldStorage, atlases *world.AtlasSet) (*world.Map, error) {
	info, err := store.Info(o.slot)
	if err != nil {
		return nil, err
	}
	if info.TileSize != atlases.TileSize() {
		atlases = world.GenerateAtlasSet(info.TileSize)
	}
	m, err := store.LoadMap(o.slot, atlases)
	if err != nil {
		return nil, err
	}
	m.Update()
	return m, nil
}

func inspect(o *options, store *storage.WorldStorage, atlases *world.AtlasSet, stdout io.Writer) error {
	m, err := loadSlot(o, store, atlases)
	if err != nil {
		return err
	}

	if o.x >= 0 && o.y >= 0 {
		pos := vec.Vec2{X: o.x, Y: o.y}
		if !m.InBounds(pos) {
			return fmt.Errorf("cell (%d,%d) outside %dx%d", o.x, o.y, m.Width(), m.Height())
		}
		px, py := pos.Pixels(m.TileSize())
		fmt.Fprintf(stdout, "cell (%d,%d) walkable-at-origin=%v\n", o.x, o.y, m.WalkableAt(px, py))
		for _, tier := range m.Tiers() {
			for _, l := range tier.Layers() {
				if t, ok := l.Tile(pos); ok {
					fmt.Fprintf(stdout, "  %s/%s: %s mask=%04b health=%v fringe=%v\n",
						tier.Name(), l.Name(), t.Kind, t.Mask, t.Health, t.Fringe)
				}
			}
		}
		return nil
	}

	fmt.Fprintf(stdout, "map %s %dx%d tile=%d\n", m.ID(), m.Width(), m.Height(), m.TileSize())
	for _, tier := range m.Tiers() {
		for _, l := range tier.Layers() {
			fmt.Fprintf(stdout, "  %s/%s: %d tiles\n", tier.Name(), l.Name(), l.Len())
		}
	}
	return nil
}

func export(o *options, store *storage.WorldStorage, atlases *world.AtlasSet, stdout io.Writer) error {
	if o.out == "" {
		return errors.New("export requires -out")
	}
	m, err := loadSlot(o, store, atlases)
	if err != nil {
		return err
	}
	if err := savefile.WriteFile(o.out, m); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "exported %s to %s\n", o.slot, o.out)
	return nil
}

func importFile(o *options, store *storage.WorldStorage, atlases *world.AtlasSet, stdout io.Writer) error {
	if o.in == "" {
		return errors.New("import requires -in")
	}
	m, err := savefile.ReadFile(o.in, atlases)
	if err != nil {
		return err
	}
	m.Update()
	info, err := store.SaveMap(o.slot, m)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "imported %s into slot %s\n", info.MapID, info.Slot)
	return nil
}

func renderPNG(o *options, store *storage.WorldStorage, atlases *world.AtlasSet, stdout io.Writer) error {
	if o.out == "" {
		return errors.New("png requires -out")
	}
	m, err := loadSlot(o, store, atlases)
	if err != nil {
		return err
	}

	var img image.Image = m.Image()
	if o.walk {
		img = m.WalkMask()
	}

	f, err := os.Create(o.out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "rendered %s to %s\n", o.slot, o.out)
	return nil
}
