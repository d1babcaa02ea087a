package dop_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxatome/go-testdeep/td"
	"github.com/rs/zerolog"

	"github.com/stewi1014/dop"
	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dop.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
mask_key = "secret"
sign = true
pid = " node-1 "
auto_pid = true
max_depth = 16
log_level = "debug"

[schema]
zeta = "int32"
alpha = "list<string>"
child = "struct{ok:bool}"
`)

	cfg, err := dop.LoadConfig(path)
	td.CmpNoError(t, err)
	td.Cmp(t, cfg.MaskKey, "secret")
	td.CmpTrue(t, cfg.Sign)
	td.Cmp(t, cfg.PID, "node-1")
	td.CmpTrue(t, cfg.AutoPID)
	td.Cmp(t, cfg.MaxDepth, 16)
	td.CmpNotNil(t, cfg.Logger)
	td.Cmp(t, cfg.Logger.GetLevel(), zerolog.DebugLevel)
	td.Cmp(t, cfg.Schema.String(), "struct{zeta:int32,alpha:list<string>,child:struct{ok:bool}}")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := dop.LoadConfig(writeConfig(t, `sign = true`))
	td.CmpNoError(t, err)
	td.Cmp(t, cfg.MaskKey, "")
	td.Cmp(t, cfg.MaxDepth, 0)
	td.CmpNil(t, cfg.Logger)
	td.CmpNil(t, cfg.Schema)

	msg, err := dop.MarshalStruct(types.StructOf(), types.NewStruct(), cfg)
	td.CmpNoError(t, err)
	td.Cmp(t, dop.Flag(msg[0])&dop.FlagSign, dop.FlagSign)
}

func TestLoadConfigErrors(t *testing.T) {
	testCases := []struct {
		desc    string
		content string
		kind    error
	}{
		{"bad toml", `sign = `, nil},
		{"bad type", `sign = "yes"`, nil},
		{"bad log level", `log_level = "loud"`, nil},
		{"bad schema", "[schema]\nn = \"int\"", encio.ErrBadType},
		{"negative depth", `max_depth = -1`, encio.ErrBadConfig},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			_, err := dop.LoadConfig(writeConfig(t, tC.content))
			td.CmpNotNil(t, err)
			if tC.kind != nil {
				td.CmpTrue(t, errors.Is(err, tC.kind))
			}
		})
	}

	_, err := dop.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	td.CmpNotNil(t, err)
}
