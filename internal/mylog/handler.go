package mylog

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

func newHandler(level slog.Level, w io.Writer) slog.Handler {
	noColor := true
	if f, ok := w.(*os.File); ok {
		if stat, err := f.Stat(); err == nil {
			noColor = stat.Mode()&os.ModeCharDevice == 0
		}
	}

	return tint.NewHandler(w, &tint.Options{
		AddSource:  level == slog.LevelDebug,
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	})
}
