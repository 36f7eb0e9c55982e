package jpeg

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Options controls decode verbosity and tracing. It plays the role the
// teacher's Control struct plays (Warn, Markers, Mcu, Du booleans gating
// fmt.Printf calls): a set of independent toggles threaded into the decoder,
// except here each toggle gates a structured zerolog event instead of a
// pre-formatted string.
type Options struct {
	Warn    bool // not read by any decode path: every inconsistency the decoder detects is fatal
	Markers bool // log each marker as it is parsed
	Mcu     bool // log each MCU as it is decoded
	Du      bool // log each data unit (8x8 block) as it is decoded

	Writer io.Writer // destination for log events; defaults to os.Stderr
}

// logger builds a zerolog.Logger scoped to one decode, writing to the
// destination named by opts (or os.Stderr if opts is nil or Writer is nil).
func (o *Options) logger() zerolog.Logger {
	w := io.Writer(os.Stderr)
	if o != nil && o.Writer != nil {
		w = o.Writer
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func (o *Options) markersOn() bool { return o != nil && o.Markers }
func (o *Options) mcuOn() bool     { return o != nil && o.Mcu }
func (o *Options) duOn() bool      { return o != nil && o.Du }
func (o *Options) warnOn() bool    { return o != nil && o.Warn }
