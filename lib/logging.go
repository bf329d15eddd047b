package lib

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"
)

type LoggerStruct struct {
	Print    func(args ...interface{})
	Flush    func()
	disabled bool
}

var Logger = &LoggerStruct{
	Print: func(args ...interface{}) {
		fmt.Fprint(os.Stderr, args...)
	},
	Flush:    func() {},
	disabled: strings.ToLower(os.Getenv("LOGGING") + " ")[:1] == "n",
}

func caller() string {
	_, file, line, _ := runtime.Caller(2)
	parts := strings.Split(file, "/")
	if len(parts) >= 2 {
		file = strings.Join(parts[len(parts)-2:], "/")
	}
	return fmt.Sprintf("%s:%d: ", file, line)
}

func (l *LoggerStruct) line(v ...interface{}) []interface{} {
	var xs []string
	for _, x := range v {
		xs = append(xs, fmt.Sprint(x))
	}
	return []interface{}{strings.Join(xs, " "), "\n"}
}

func (l *LoggerStruct) Println(v ...interface{}) {
	if !l.disabled {
		l.Print(append([]interface{}{caller()}, l.line(v...)...)...)
	}
}

func (l *LoggerStruct) Printf(format string, v ...interface{}) {
	if !l.disabled {
		l.Print(fmt.Sprintf(caller()+format, v...))
	}
}

func (l *LoggerStruct) Fatal(v ...interface{}) {
	l.Print(append([]interface{}{caller()}, l.line(v...)...)...)
	l.Flush()
	os.Exit(1)
}

func (l *LoggerStruct) Fatalf(format string, v ...interface{}) {
	l.Print(fmt.Sprintf(caller()+format, v...))
	l.Flush()
	os.Exit(1)
}

var doDebug = strings.ToLower(os.Getenv("DEBUG") + " ")[:1] == "y"

// Debug logs the wall time of an aws call when DEBUG=y.
type Debug struct {
	start time.Time
	name  string
}

func (d *Debug) Log() {
	Logger.Printf("%s took %s\n", d.name, time.Since(d.start).Round(time.Millisecond))
}
