//go:build !rp2040 && !rp2350

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"blinky-go/errcode"
)

// DefaultBoard is used when neither the caller nor the document names a
// board.
const DefaultBoard = "sim"

// Load starts from the embedded defaults for board and overlays the YAML
// document at path. An empty path yields the defaults. The result is validated.
func Load(path, board string) (Config, error) {
	return LoadOr(path, board, DefaultBoard)
}

// LoadOr is Load with a different board for when none is named.
func LoadOr(path, board, fallback string) (Config, error) {
	if path == "" {
		return fromDefaults(board, fallback, nil)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return fromDefaults(board, fallback, raw)
}

// Parse is Load for an in-memory document.
func Parse(raw []byte, board string) (Config, error) {
	return fromDefaults(board, DefaultBoard, raw)
}

func fromDefaults(board, fallback string, raw []byte) (Config, error) {
	// The document may name its board; peek before choosing defaults.
	var hdr struct {
		Board string `yaml:"board"`
	}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &hdr); err != nil {
			return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.Load", Err: err}
		}
	}
	switch {
	case board != "" && hdr.Board != "" && hdr.Board != board:
		return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.Load",
			Msg: "document is for board " + hdr.Board + ", not " + board}
	case board == "":
		board = hdr.Board
	}
	if board == "" {
		board = fallback
	}
	cfg, ok := Lookup(board)
	if !ok {
		return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.Load", Msg: "unknown board " + board}
	}
	if len(raw) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.Load", Err: err}
		}
	}
	if cfg.Board == "" {
		cfg.Board = board
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
