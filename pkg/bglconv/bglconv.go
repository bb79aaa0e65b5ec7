// Package bglconv provides functions for reading BGL scenery files.
//
// This package can be used as a library to decode the airports stored
// in a BGL container or to inspect its section layout.
//
// Example usage:
//
//	objs, err := bglconv.DecodeFile("scenery/LTFM.bgl", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, obj := range objs {
//	    if a, ok := obj.(*model.Airport); ok {
//	        fmt.Println(a.ICAO, a.Latitude, a.Longitude)
//	    }
//	}
package bglconv

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dyuri/bglconv/internal/binary"
	"github.com/dyuri/bglconv/internal/model"
	"github.com/sirupsen/logrus"
)

// Options controls decoding. A nil *Options behaves like the zero value.
type Options struct {
	// SkipMagicCheck accepts files whose header magic is not the BGL magic
	SkipMagicCheck bool

	// Logger receives debug output about the container structure
	Logger logrus.FieldLogger
}

func (o *Options) readerOptions() binary.Options {
	opts := binary.DefaultOptions()
	if o != nil {
		opts.VerifyMagic = !o.SkipMagicCheck
		opts.Logger = o.Logger
	}
	return opts
}

// DecodeFile opens the BGL file at path and returns its decoded objects
// in file order. The file is closed before returning.
func DecodeFile(path string, opts *Options) ([]model.Object, error) {
	bgl, err := ParseFile(path, opts)
	if err != nil {
		return nil, err
	}
	return bgl.Objects, nil
}

// Decode reads a BGL container and returns its decoded objects.
//
// The reader must support ReadAt for random access. The size parameter
// should be the total file size in bytes.
func Decode(r io.ReaderAt, size int64, opts *Options) ([]model.Object, error) {
	bgl, err := ParseBinaryBGL(r, size, opts)
	if err != nil {
		return nil, err
	}
	return bgl.Objects, nil
}

// ParseFile opens the BGL file at path and returns the full model:
// header, section layout and decoded objects.
func ParseFile(path string, opts *Options) (*model.BGLFile, error) {
	var bgl *model.BGLFile
	err := withFile(path, func(f *os.File, size int64) (err error) {
		bgl, err = ParseBinaryBGL(f, size, opts)
		return err
	})
	return bgl, err
}

// ParseBinaryBGL reads a BGL container and returns the full model
func ParseBinaryBGL(r io.ReaderAt, size int64, opts *Options) (*model.BGLFile, error) {
	bgl, err := binary.NewReader(r, size, opts.readerOptions()).Parse()
	if err != nil {
		return nil, classify(err)
	}
	return bgl, nil
}

// Inspect reads the header, section directory and subsection tables of
// a container without decoding any record
func Inspect(r io.ReaderAt, size int64, opts *Options) (*model.BGLFile, error) {
	bgl, err := binary.NewReader(r, size, opts.readerOptions()).ReadLayout()
	if err != nil {
		return nil, classify(err)
	}
	return bgl, nil
}

// InspectFile is Inspect for the file at path
func InspectFile(path string, opts *Options) (*model.BGLFile, error) {
	var bgl *model.BGLFile
	err := withFile(path, func(f *os.File, size int64) (err error) {
		bgl, err = Inspect(f, size, opts)
		return err
	})
	return bgl, err
}

func withFile(path string, fn func(f *os.File, size int64) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &Error{Code: ErrIO.Code, Message: ErrIO.Message, Cause: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return &Error{Code: ErrIO.Code, Message: ErrIO.Message, Cause: err}
	}

	if err := fn(f, stat.Size()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// classify wraps a reader error into the matching coded error
func classify(err error) error {
	switch {
	case errors.Is(err, binary.ErrBadMagic):
		return &Error{Code: ErrInvalidMagic.Code, Message: ErrInvalidMagic.Message, Cause: err}
	case errors.Is(err, binary.ErrRecordSize):
		return &Error{Code: ErrInvalidFormat.Code, Message: ErrInvalidFormat.Message, Cause: err}
	default:
		return &Error{Code: ErrIO.Code, Message: ErrIO.Message, Cause: err}
	}
}

// Common errors
var (
	ErrIO            = &Error{Code: "io", Message: "read error"}
	ErrInvalidFormat = &Error{Code: "invalid_format", Message: "invalid file format"}
	ErrInvalidMagic  = &Error{Code: "invalid_magic", Message: "not a BGL file"}
)

// Error represents a bglconv error
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, so errors.Is(err, ErrIO) holds for every
// I/O failure
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
