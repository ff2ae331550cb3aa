package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/kiteco/streamal/cmdline"
	"github.com/kiteco/streamal/dataset"
)

var generateCmd = cmdline.Command{
	Name:     "generate",
	Synopsis: "write a gaussian blobs dataset as csv",
	Args: &generateArgs{
		N:       500,
		Centers: 2,
		Dim:     2,
		Std:     1,
	},
}

type generateArgs struct {
	N       int     `help:"number of points"`
	Centers int     `help:"number of clusters, one class each"`
	Dim     int     `help:"number of features"`
	Std     float64 `help:"cluster standard deviation"`
	Seed    int64   `help:"random seed"`
	Out     string  `help:"output csv, stdout if empty"`
}

func (a *generateArgs) Handle() error {
	data, err := dataset.Blobs(dataset.BlobsOptions{
		N:       a.N,
		Centers: a.Centers,
		Dim:     a.Dim,
		Std:     a.Std,
		Seed:    a.Seed,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, data); err != nil {
		return err
	}
	if a.Out == "" {
		_, err := buf.WriteTo(os.Stdout)
		return err
	}
	if err := ioutil.WriteFile(a.Out, buf.Bytes(), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s points (%s) to %s\n", humanize.Comma(int64(len(data))), humanize.Bytes(uint64(buf.Len())), a.Out)
	return nil
}
