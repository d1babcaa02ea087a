package encio

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Warnings is where log output is sent to.
// In many cases dop will continue to operate with e.g. duplicate map keys or unusual presence flags,
// however I don't want to silently put up with things that seem worrying.
var Warnings io.Writer = os.Stderr

// Log is the default logger for Encoders and Decoders that aren't given one.
// It writes to Warnings at warn level.
var Log = zerolog.New(zerolog.ConsoleWriter{
	Out:        warnings{},
	TimeFormat: time.RFC3339,
}).Level(zerolog.WarnLevel).With().Timestamp().Str("lib", "dop").Logger()

// warnings writes to whatever Warnings currently is.
type warnings struct{}

func (warnings) Write(p []byte) (int, error) {
	return Warnings.Write(p)
}
