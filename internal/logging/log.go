// Package logging provides leveled log functions. Messages go to the
// standard logger, or to a rotating log file once SetLogger is called
// with a file name.
package logging

import (
	"fmt"
	"log"
	"os"

	"github.com/natefinch/lumberjack"
)

type ModeFlag uint

const (
	DebugMode ModeFlag = iota
	InfoMode
	WarningMode
	ErrorMode
	CriticalMode
	SilentMode
)

var (
	mode = InfoMode

	// rotating is nil until SetLogger is given a log file.
	rotating *lumberjack.Logger
)

// LogConfig describes an optional rotating log file.
type LogConfig struct {
	Logfile string `yaml:"file"`
	MaxSize int    `yaml:"maxSize"` // megabytes
	MaxAge  int    `yaml:"maxAge"`  // days
}

// SetLogger redirects log output to a rotating log file. With no file
// configured, messages stay on stderr.
func (c *LogConfig) SetLogger() {
	if c == nil || c.Logfile == "" {
		Debugf("Sending log messages to stderr since no log file specified.")
		return
	}
	fmt.Printf("Sending log messages to: %s\n", c.Logfile)
	rotating = &lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize,
		MaxAge:   c.MaxAge,
	}
	log.SetOutput(rotating)
}

// SetLogMode sets the severity required for a message to be printed.
// SilentMode turns logging off.
func SetLogMode(newMode ModeFlag) {
	mode = newMode
}

// Mode returns the current severity threshold.
func Mode() ModeFlag {
	return mode
}

func Debugf(format string, args ...interface{}) {
	if mode <= DebugMode {
		log.Printf(" DEBUG "+format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if mode <= InfoMode {
		log.Printf(" INFO "+format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if mode <= WarningMode {
		log.Printf(" WARNING "+format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if mode <= ErrorMode {
		log.Printf(" ERROR "+format, args...)
	}
}

func Criticalf(format string, args ...interface{}) {
	if mode <= CriticalMode {
		log.Printf(" CRITICAL "+format, args...)
	}
}

// Shutdown closes the rotating log file, if any.
func Shutdown() {
	if rotating != nil {
		log.Printf("Closing log file...\n")
		rotating.Close()
		rotating = nil
		log.SetOutput(os.Stderr)
	}
}
