// Package dataset produces the labeled data streamed through experiments: generated Gaussian
// blobs and CSV files.
package dataset

import (
	"math/rand"
	"sort"

	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
)

// BlobsOptions configures Blobs.
type BlobsOptions struct {
	N       int     `yaml:"n" json:"n"`
	Centers int     `yaml:"centers" json:"centers"`
	Dim     int     `yaml:"dim" json:"dim"`
	Std     float64 `yaml:"std" json:"std"`
	Seed    int64   `yaml:"seed" json:"seed"`
}

// centerBox bounds the coordinates of the generated cluster centers.
const centerBox = 10

// Blobs draws N points from Centers isotropic Gaussian clusters in Dim dimensions. Point i belongs
// to cluster i mod Centers before the points are shuffled, so the classes are balanced. The
// output only depends on opts.
func Blobs(opts BlobsOptions) ([]sample.Labeled, error) {
	switch {
	case opts.N < 1:
		return nil, errors.Configurationf("blobs need at least one point, got %d", opts.N)
	case opts.Centers < 1:
		return nil, errors.Configurationf("blobs need at least one center, got %d", opts.Centers)
	case opts.Dim < 1:
		return nil, errors.Configurationf("blobs need at least one dimension, got %d", opts.Dim)
	case opts.Std < 0:
		return nil, errors.Configurationf("blob std must not be negative, got %v", opts.Std)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	centers := make([][]float64, opts.Centers)
	for i := range centers {
		centers[i] = make([]float64, opts.Dim)
		for j := range centers[i] {
			centers[i][j] = (rng.Float64()*2 - 1) * centerBox
		}
	}

	data := make([]sample.Labeled, opts.N)
	for i := range data {
		c := i % opts.Centers
		fs := make([]float64, opts.Dim)
		for j := range fs {
			fs[j] = centers[c][j] + rng.NormFloat64()*opts.Std
		}
		data[i] = sample.Labeled{X: sample.NewInstance(fs...), Y: sample.Label(c)}
	}
	rng.Shuffle(len(data), func(i, j int) {
		data[i], data[j] = data[j], data[i]
	})
	return data, nil
}

// Split returns the first n pairs as the seed set and the rest as the stream
func Split(data []sample.Labeled, n int) (seed, stream []sample.Labeled, err error) {
	if n < 0 || n > len(data) {
		return nil, nil, errors.Configurationf("cannot take %d seed pairs from %d", n, len(data))
	}
	return data[:n], data[n:], nil
}

// Classes returns the distinct labels of data in increasing order. Missing labels are skipped.
func Classes(data []sample.Labeled) []sample.Label {
	seen := make(map[sample.Label]bool)
	var classes []sample.Label
	for _, p := range data {
		if p.Y.IsMissing() || seen[p.Y] {
			continue
		}
		seen[p.Y] = true
		classes = append(classes, p.Y)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}
