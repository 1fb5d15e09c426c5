// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package log is the small logging facade the benchmark harness uses.
// Grounded on ryanbekhen/ngebut's log package (ILogger/IEvent, a package
// level default logger, Set.../Get... accessors) but backed by
// go.uber.org/zap instead of hand-rolled timestamp formatting, since this
// module actually wires zap as a dependency rather than reimplementing it.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

// Level mirrors the ngebut log.Level enum.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// ILogger is the interface wrapping the basic logging methods, unchanged in
// shape from ngebut/log.ILogger.
type ILogger interface {
	Debug() IEvent
	Info() IEvent
	Warn() IEvent
	Error() IEvent
	Fatal() IEvent
	SetLevel(level Level)
	GetLevel() Level
}

// IEvent is the interface wrapping the basic event methods.
type IEvent interface {
	Err(err error) IEvent
	Msg(msg string)
	Msgf(format string, v ...interface{})
}

// Logger adapts a *zap.SugaredLogger to ILogger.
type Logger struct {
	z     *zap.SugaredLogger
	level Level
}

// New wraps an existing zap logger. A nil logger falls back to
// zap.NewProduction.
func New(z *zap.Logger, level Level) *Logger {
	if z == nil {
		z, _ = zap.NewProduction()
	}
	return &Logger{z: z.Sugar(), level: level}
}

func (l *Logger) SetLevel(level Level) { l.level = level }
func (l *Logger) GetLevel() Level      { return l.level }

func (l *Logger) Debug() IEvent { return l.event(DebugLevel) }
func (l *Logger) Info() IEvent  { return l.event(InfoLevel) }
func (l *Logger) Warn() IEvent  { return l.event(WarnLevel) }
func (l *Logger) Error() IEvent { return l.event(ErrorLevel) }
func (l *Logger) Fatal() IEvent { return l.event(FatalLevel) }

func (l *Logger) event(level Level) IEvent {
	if level < l.level {
		return nil
	}
	return &event{l: l, level: level}
}

type event struct {
	l     *Logger
	level Level
	err   error
}

func (e *event) Err(err error) IEvent {
	if e == nil {
		return nil
	}
	e.err = err
	return e
}

func (e *event) Msg(msg string) {
	if e == nil {
		return
	}
	e.emit(msg)
}

func (e *event) Msgf(format string, v ...interface{}) {
	if e == nil {
		return
	}
	e.emit(fmt.Sprintf(format, v...))
}

func (e *event) emit(msg string) {
	z := e.l.z
	if e.err != nil {
		z = z.With("error", e.err)
	}
	switch e.level {
	case DebugLevel:
		z.Debug(msg)
	case InfoLevel:
		z.Info(msg)
	case WarnLevel:
		z.Warn(msg)
	case ErrorLevel:
		z.Error(msg)
	case FatalLevel:
		z.Fatal(msg)
	}
}

var defaultLogger = New(nil, InfoLevel)

func Debug() IEvent            { return defaultLogger.Debug() }
func Info() IEvent             { return defaultLogger.Info() }
func Warn() IEvent             { return defaultLogger.Warn() }
func Error() IEvent            { return defaultLogger.Error() }
func Fatal() IEvent            { return defaultLogger.Fatal() }
func SetLevel(level Level)     { defaultLogger.SetLevel(level) }
func SetLogger(l *Logger)      { defaultLogger = l }
func GetLogger() *Logger       { return defaultLogger }
