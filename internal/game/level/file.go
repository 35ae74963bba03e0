package level

import (
	"bytes"
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed levels/*.yaml
var builtin embed.FS

// DefaultName is the level used when no path is configured.
const DefaultName = "default"

// File is the on-disk YAML form of a level.
type File struct {
	Name   string   `yaml:"name"`
	Extent float32  `yaml:"extent"`
	Start  [2]int   `yaml:"start"`
	Spawns [][2]int `yaml:"spawns"`
	Rows   []string `yaml:"rows"`
}

// Parse decodes a YAML level and validates it.
func Parse(data []byte) (*Grid, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	return f.Grid()
}

// Grid converts the file into a validated grid.
func (f *File) Grid() (*Grid, error) {
	cells := make([][]uint8, len(f.Rows))
	for r, row := range f.Rows {
		cells[r] = make([]uint8, len(row))
		for c, ch := range []byte(row) {
			switch ch {
			case '0':
				cells[r][c] = Open
			case '1':
				cells[r][c] = Wall
			default:
				return nil, fmt.Errorf("%w: row %d column %d: unexpected %q", ErrInvalidLevel, r, c, ch)
			}
		}
	}

	g, err := New(cells, f.Extent)
	if err != nil {
		return nil, err
	}
	g.Name = f.Name
	g.Start = Cell{f.Start[0], f.Start[1]}
	g.Spawns = make([]Cell, len(f.Spawns))
	for i, s := range f.Spawns {
		g.Spawns[i] = Cell{s[0], s[1]}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadFile reads and parses a level from disk.
func LoadFile(path string) (*Grid, error) {
	return LoadWith(os.ReadFile, path)
}

// LoadWith parses the level that read returns for path.
func LoadWith(read func(path string) ([]byte, error), path string) (*Grid, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Builtin returns an embedded level by name.
func Builtin(name string) (*Grid, error) {
	data, err := builtin.ReadFile("levels/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("builtin level %q: %w", name, err)
	}
	return Parse(data)
}

// Load reads path, or the default builtin level when path is empty.
func Load(path string) (*Grid, error) {
	if path == "" {
		return Builtin(DefaultName)
	}
	return LoadFile(path)
}
