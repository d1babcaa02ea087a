package dop

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/schema"
	"github.com/stewi1014/dop/types"
)

// Config defines configuration for Encoders and Decoders.
type Config struct {
	// MaskKey masks messages written by an Encoder,
	// and is the key a Decoder unmasks with when Unpack is not given one.
	MaskKey string

	// Sign makes Encoders sign their messages.
	Sign bool

	// PID is written as the identifier of every message.
	PID string

	// AutoPID writes a random UUID as the identifier of every message that has no PID.
	AutoPID bool

	// MaxDepth limits the nesting of types. If 0, schema.DefaultMaxDepth is used.
	MaxDepth int

	// Schema is the struct type messages are expected to have.
	// Decoders log a warning when a message's embedded schema is different.
	Schema *types.Type

	// Logger receives debug and warning events. If nil, encio.Log is used.
	Logger *zerolog.Logger
}

func (c *Config) copyAndFill() *Config {
	config := new(Config)
	if c != nil {
		*config = *c
	}

	if config.MaxDepth <= 0 {
		config.MaxDepth = schema.DefaultMaxDepth
	}

	if config.Logger == nil {
		config.Logger = &encio.Log
	}

	return config
}

func (c *Config) pid() string {
	if c.PID == "" && c.AutoPID {
		return uuid.NewString()
	}
	return c.PID
}

type fileConfig struct {
	MaskKey  string            `toml:"mask_key"`
	Sign     bool              `toml:"sign"`
	PID      string            `toml:"pid"`
	AutoPID  bool              `toml:"auto_pid"`
	MaxDepth int               `toml:"max_depth"`
	LogLevel string            `toml:"log_level"`
	Schema   map[string]string `toml:"schema"`
}

// LoadConfig reads a Config from a TOML file.
//
//	mask_key = "secret"
//	sign = true
//	auto_pid = true
//	max_depth = 32
//	log_level = "debug"
//
//	[schema]
//	n = "int32"
//	tags = "list<string>"
//
// Fields of the [schema] table are in the order they are written in.
func LoadConfig(path string) (*Config, error) {
	cfg := new(Config)

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load dop config: %w", err)
	}

	if meta.IsDefined("mask_key") {
		cfg.MaskKey = raw.MaskKey
	}

	if meta.IsDefined("sign") {
		cfg.Sign = raw.Sign
	}

	if meta.IsDefined("pid") {
		cfg.PID = strings.TrimSpace(raw.PID)
	}

	if meta.IsDefined("auto_pid") {
		cfg.AutoPID = raw.AutoPID
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth < 0 {
			return nil, encio.NewError(encio.ErrBadConfig, fmt.Sprintf("max_depth %v is negative", raw.MaxDepth), "dop.LoadConfig")
		}
		cfg.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return nil, fmt.Errorf("parse log_level: %w", err)
		}
		logger := encio.Log.Level(level)
		cfg.Logger = &logger
	}

	if meta.IsDefined("schema") {
		ty := types.StructOf()
		for _, key := range meta.Keys() {
			if len(key) != 2 || key[0] != "schema" {
				continue
			}
			ft, err := types.Parse(raw.Schema[key[1]])
			if err != nil {
				return nil, fmt.Errorf("parse schema.%v: %w", key[1], err)
			}
			ty.Fields = append(ty.Fields, types.F(key[1], ft))
		}
		cfg.Schema = ty
	}

	return cfg, nil
}
