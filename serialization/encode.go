package serialization

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/kiteco/streamal/errors"
	yaml "gopkg.in/yaml.v2"
)

// Encode writes the object to the path, using the format specified by the file
// extension, which can be .json, .yml, or .yaml. The path may additionally have
// a .gz or .sz (snappy) suffix, in which case the stream will be compressed.
func Encode(path string, obj interface{}) (err error) {
	enc, err := NewEncoder(path)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, enc.Close)
	return enc.Encode(obj)
}

// Encoder is an interface that matches json.Encoder and yaml.Encoder
type Encoder interface {
	// Encode adds an item to the stream
	Encode(interface{}) error
}

// EncodeCloser is an encoder that can also close its underlying stream
type EncodeCloser struct {
	encoder Encoder
	closers []io.Closer
}

// Encode writes an object to the underlying stream
func (e *EncodeCloser) Encode(x interface{}) error {
	return e.encoder.Encode(x)
}

// Close closes the underlying stream
func (e *EncodeCloser) Close() error {
	var closeErr error
	// We must close in reverse order
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			closeErr = err
		}
	}
	return closeErr
}

// NewEncoder opens the specified path and returns an encoder that writes in the format
// specified by the file extension.
func NewEncoder(path string) (*EncodeCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := newEncoderAs(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	enc.closers = append([]io.Closer{f}, enc.closers...)
	return enc, nil
}

// newEncoderAs wraps w with the compression and encoding selected by path.
func newEncoderAs(w io.Writer, path string) (*EncodeCloser, error) {
	inpath := path
	var closers []io.Closer

	// Switch on compression
	if strings.HasSuffix(path, ".gz") {
		path = strings.TrimSuffix(path, ".gz")
		gz := gzip.NewWriter(w)
		closers = append(closers, gz)
		w = gz
	} else if strings.HasSuffix(path, ".sz") {
		path = strings.TrimSuffix(path, ".sz")
		sz := snappy.NewBufferedWriter(w)
		closers = append(closers, sz)
		w = sz
	}

	// Switch on encoding
	var e Encoder
	switch {
	case strings.HasSuffix(path, ".json"):
		je := json.NewEncoder(w)
		je.SetIndent("", "  ")
		e = je
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		ye := yaml.NewEncoder(w)
		closers = append(closers, ye)
		e = ye
	default:
		return nil, errors.Configurationf("could not find encoder for %s", inpath)
	}

	return &EncodeCloser{
		encoder: e,
		closers: closers,
	}, nil
}
