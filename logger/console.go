package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const (
	ansiReset = "\033[0m"
	ansiBlue  = "\033[34m"
)

var levelStyles = map[string]struct{ tag, color string }{
	"debug": {"[DBG]", "\033[36m"},
	"info":  {"[INF]", "\033[32m"},
	"warn":  {"[WRN]", "\033[33m"},
	"error": {"[ERR]", "\033[31m"},
	"fatal": {"[FTL]", "\033[35m"},
}

// consoleWriter renders lines as "15:04:05 [CAL][INF] message key:value",
// where CAL is the first three letters of the service name.
func consoleWriter(w io.Writer, noColor bool, service string) io.Writer {
	paint := func(color, s string) string {
		if noColor {
			return s
		}
		return color + s + ansiReset
	}
	var prefix string
	if len(service) >= 3 && service != "default" {
		prefix = paint(ansiBlue, "["+strings.ToUpper(service[:3])+"]")
	}

	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			raw := strings.ToLower(fmt.Sprint(i))
			style, ok := levelStyles[raw]
			if !ok {
				return prefix + "[" + strings.ToUpper(raw) + "]"
			}
			return prefix + paint(style.color, style.tag)
		},
		FormatFieldName: func(i interface{}) string { return fmt.Sprint(i) + ":" },
	}
}
