package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

var (
	stdLogger *log.Logger
)

func init() {
	stdLogger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "portscanner",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           log.InfoLevel,
	})
}

// SetLevel accepts debug, info, warn, error or fatal.
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	stdLogger.SetLevel(lvl)
	return nil
}

func SetOutput(w io.Writer) {
	stdLogger.SetOutput(w)
}

func Debugf(format string, v ...interface{}) {
	stdLogger.Debugf(format, v...)
}

func Infof(format string, v ...interface{}) {
	stdLogger.Infof(format, v...)
}

func Warnf(format string, v ...interface{}) {
	stdLogger.Warnf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	stdLogger.Errorf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	stdLogger.Fatalf(format, v...)
}
