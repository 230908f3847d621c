// Package config loads runtime settings from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shirou/gopsutil/mem"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-simplnx/internal/filter"
)

var ErrUnknownFormat = errors.New("config: unknown file format")

// DefaultChunkSize is the out-of-core chunk size in elements.
const DefaultChunkSize = 1 << 16

// fallbackThreshold applies when the machine's memory cannot be queried.
const fallbackThreshold = 1 << 30

// Config holds the settings shared by readers, writers and algorithms.
type Config struct {
	// MaxParallelTasks bounds concurrent tasks; zero means GOMAXPROCS.
	MaxParallelTasks int  `yaml:"maxParallelTasks" toml:"max_parallel_tasks"`
	ParallelEnabled  bool `yaml:"parallelEnabled" toml:"parallel_enabled"`
	// LargeDataThreshold is the array size in bytes above which arrays are
	// kept out of core. Zero derives it from physical memory.
	LargeDataThreshold uint64 `yaml:"largeDataThreshold" toml:"large_data_threshold"`
	ForceOutOfCore     bool   `yaml:"forceOutOfCore" toml:"force_out_of_core"`
	// OutOfCoreDir holds the chunk database. Empty keeps it in memory.
	OutOfCoreDir       string `yaml:"outOfCoreDir" toml:"out_of_core_dir"`
	OutOfCoreChunkSize uint64 `yaml:"outOfCoreChunkSize" toml:"out_of_core_chunk_size"`
	// OutOfCoreCompression is "zstd", "deflate" or "none".
	OutOfCoreCompression string `yaml:"outOfCoreCompression" toml:"out_of_core_compression"`
	LogLevel             string `yaml:"logLevel" toml:"log_level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		MaxParallelTasks:     runtime.GOMAXPROCS(0),
		ParallelEnabled:      true,
		OutOfCoreChunkSize:   DefaultChunkSize,
		OutOfCoreCompression: "zstd",
		LogLevel:             "info",
	}
}

// Load reads path over the defaults. The format follows the extension:
// .yaml, .yml or .toml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext over the defaults.
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, err
		}
	case "toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings no component can honor.
func (c Config) Validate() error {
	if c.MaxParallelTasks < 0 {
		return fmt.Errorf("maxParallelTasks must not be negative, got %d", c.MaxParallelTasks)
	}
	if c.OutOfCoreChunkSize == 0 {
		return errors.New("outOfCoreChunkSize must be positive")
	}
	_, err := c.Compression()
	return err
}

// Compression returns the filter ID named by OutOfCoreCompression.
func (c Config) Compression() (uint16, error) {
	return filter.ParseCompression(c.OutOfCoreCompression)
}

var virtualMemory = mem.VirtualMemory

// Threshold returns LargeDataThreshold, or a quarter of physical memory when
// it is zero.
func (c Config) Threshold() uint64 {
	if c.LargeDataThreshold > 0 {
		return c.LargeDataThreshold
	}
	vm, err := virtualMemory()
	if err != nil || vm.Total == 0 {
		return fallbackThreshold
	}
	return vm.Total / 4
}
