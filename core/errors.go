package core

import (
	"errors"
	"io"
)

var (
	// ErrOutOfMemory is returned by Heap.Allocate when the request can't be met
	ErrOutOfMemory = errors.New("out of memory")

	// ErrStorageNoFreePages and ErrStorageNewVersion are the storage states
	// that an erase repairs. Storage implementations wrap them.
	ErrStorageNoFreePages = errors.New("no free pages")
	ErrStorageNewVersion  = errors.New("new version found")
)

// FatalError ends the boot. The entry point aborts after printing it.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Abort notice lines
const (
	AbortPrefix = "ESP_ERROR_CHECK failed: "
	AbortNotice = "abort() was called"
)

// WriteAbort prints the abort notice for a fatal boot error
func WriteAbort(w io.Writer, err error) {
	writeLine(w, AbortPrefix+err.Error())
	writeLine(w, AbortNotice)
	flushConsole(w)
}

// PinError reports a failed GPIO call
type PinError struct {
	Op  string // "configure" or "set"
	Pin GPIOPin
	Err error
}

func (e *PinError) Error() string {
	return "gpio" + utoa(uint32(e.Pin)) + " " + e.Op + ": " + e.Err.Error()
}

func (e *PinError) Unwrap() error {
	return e.Err
}
