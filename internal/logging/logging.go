// Package logging provides runtime.Logger implementations for code that
// runs outside the Nakama server: the simulation CLI and tests.
package logging

import (
	"fmt"
	"io"
	"maps"

	"github.com/charmbracelet/log"
	"github.com/heroiclabs/nakama-common/runtime"
)

// Terminal adapts a charmbracelet logger to runtime.Logger.
type Terminal struct {
	base   *log.Logger
	fields map[string]interface{}
}

// NewTerminal writes leveled, colored log lines to w. Unknown levels fall
// back to info.
func NewTerminal(w io.Writer, level string) *Terminal {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	base := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "blackjack",
	})
	return &Terminal{base: base, fields: map[string]interface{}{}}
}

func (t *Terminal) Debug(format string, v ...interface{}) {
	t.with().Debug(fmt.Sprintf(format, v...))
}

func (t *Terminal) Info(format string, v ...interface{}) {
	t.with().Info(fmt.Sprintf(format, v...))
}

func (t *Terminal) Warn(format string, v ...interface{}) {
	t.with().Warn(fmt.Sprintf(format, v...))
}

func (t *Terminal) Error(format string, v ...interface{}) {
	t.with().Error(fmt.Sprintf(format, v...))
}

func (t *Terminal) WithField(key string, v interface{}) runtime.Logger {
	return t.WithFields(map[string]interface{}{key: v})
}

func (t *Terminal) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := maps.Clone(t.fields)
	maps.Copy(merged, fields)
	return &Terminal{base: t.base, fields: merged}
}

func (t *Terminal) Fields() map[string]interface{} {
	return maps.Clone(t.fields)
}

func (t *Terminal) with() *log.Logger {
	if len(t.fields) == 0 {
		return t.base
	}
	kv := make([]interface{}, 0, len(t.fields)*2)
	for k, v := range t.fields {
		kv = append(kv, k, v)
	}
	return t.base.With(kv...)
}

type nop struct{}

// Nop discards everything.
func Nop() runtime.Logger { return nop{} }

func (nop) Debug(string, ...interface{})                     {}
func (nop) Info(string, ...interface{})                      {}
func (nop) Warn(string, ...interface{})                      {}
func (nop) Error(string, ...interface{})                     {}
func (nop) WithField(string, interface{}) runtime.Logger     { return nop{} }
func (nop) WithFields(map[string]interface{}) runtime.Logger { return nop{} }
func (nop) Fields() map[string]interface{}                   { return nil }
