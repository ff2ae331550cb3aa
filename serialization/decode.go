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

// Decoder is an interface that matches json.Decoder and yaml.Decoder
type Decoder interface {
	// Decode extracts an object from the stream
	Decode(interface{}) error
}

// Decode loads a single object from a file into obj, which must be a pointer. If the path ends
// with .gz or .sz the contents will be decompressed. The encoding is then determined by the remaining
// file extension, which can be .json, .yml or .yaml.
//
//	var cfg experiment.Config
//	err := serialization.Decode("experiments/blobs.yaml", &cfg)
func Decode(path string, obj interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "error loading %s", path)
	}
	defer f.Close()
	return decodeAs(f, path, obj)
}

// decodeAs is like Decode but uses the provided path to determine the compression and
// encoding used in the stream.
func decodeAs(r io.Reader, path string, obj interface{}) error {
	inpath := path
	// Switch on compression
	if strings.HasSuffix(path, ".gz") {
		path = strings.TrimSuffix(path, ".gz")
		rd, err := gzip.NewReader(r)
		if err != nil {
			return errors.Wrapf(err, "error loading %s", inpath)
		}
		defer rd.Close()
		r = rd
	} else if strings.HasSuffix(path, ".sz") {
		path = strings.TrimSuffix(path, ".sz")
		r = snappy.NewReader(r)
	}

	// Switch on encoding
	var d Decoder
	switch {
	case strings.HasSuffix(path, ".json"):
		jd := json.NewDecoder(r)
		jd.DisallowUnknownFields()
		d = jd
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		yd := yaml.NewDecoder(r)
		yd.SetStrict(true)
		d = yd
	default:
		return errors.Configurationf("could not find decoder for %s", inpath)
	}

	if err := d.Decode(obj); err != nil {
		return errors.Wrapf(err, "error decoding %s", inpath)
	}
	return nil
}
