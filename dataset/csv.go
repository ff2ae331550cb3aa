package dataset

import (
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
)

// record is one CSV row: the label and the space separated features.
type record struct {
	Label    int         `csv:"label"`
	Features featureList `csv:"features"`
}

type featureList []float64

// MarshalCSV implements gocsv.TypeMarshaller
func (f featureList) MarshalCSV() (string, error) {
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " "), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller
func (f *featureList) UnmarshalCSV(s string) error {
	fields := strings.Fields(s)
	out := make(featureList, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid feature %q", field)
		}
		out = append(out, v)
	}
	*f = out
	return nil
}

// ReadCSV reads pairs written by WriteCSV. Every row must have the same number of features.
func ReadCSV(r io.Reader) ([]sample.Labeled, error) {
	var records []record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, errors.Wrapf(err, "error reading dataset")
	}

	data := make([]sample.Labeled, 0, len(records))
	for i, rec := range records {
		if len(rec.Features) == 0 {
			return nil, errors.Errorf("row %d has no features", i+1)
		}
		if i > 0 && len(rec.Features) != len(records[0].Features) {
			return nil, errors.Errorf("row %d has %d features, expected %d", i+1, len(rec.Features), len(records[0].Features))
		}
		data = append(data, sample.Labeled{
			X: sample.NewInstance(rec.Features...),
			Y: sample.Label(rec.Label),
		})
	}
	return data, nil
}

// WriteCSV writes data with a label,features header
func WriteCSV(w io.Writer, data []sample.Labeled) error {
	records := make([]record, 0, len(data))
	for _, p := range data {
		records = append(records, record{Label: int(p.Y), Features: p.X.Features()})
	}
	return gocsv.Marshal(&records, w)
}
