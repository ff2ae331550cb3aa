package experiment

import (
	"encoding/binary"
	"os"

	"github.com/dgryski/go-spooky"
	"github.com/kiteco/streamal/budget"
	"github.com/kiteco/streamal/classifier"
	"github.com/kiteco/streamal/dataset"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
	"github.com/kiteco/streamal/strategy"
	"github.com/kiteco/streamal/window"
)

// Defaults filled in by Validate.
const (
	DefaultName   = "experiment"
	DefaultWindow = 100
)

// Config describes an experiment: one dataset streamed once per strategy.
type Config struct {
	Name string `yaml:"name" json:"name"`
	// Seed is the base every per-strategy seed is derived from.
	Seed       int64            `yaml:"seed" json:"seed"`
	Dataset    DatasetConfig    `yaml:"dataset" json:"dataset"`
	SeedSize   int              `yaml:"seed_size" json:"seed_size"`
	Window     int              `yaml:"window" json:"window"`
	Budget     BudgetConfig     `yaml:"budget" json:"budget"`
	Classifier ClassifierConfig `yaml:"classifier" json:"classifier"`
	Strategies []StrategyConfig `yaml:"strategies" json:"strategies"`
	// Workers bounds the number of strategies run concurrently.
	Workers int `yaml:"workers" json:"workers"`
}

// DatasetConfig selects exactly one data source.
type DatasetConfig struct {
	Blobs *dataset.BlobsOptions `yaml:"blobs" json:"blobs"`
	CSV   string                `yaml:"csv" json:"csv"`
}

// BudgetConfig configures the budget manager of every run.
type BudgetConfig struct {
	Kind           budget.Kind `yaml:"kind" json:"kind"`
	Rate           float64     `yaml:"rate" json:"rate"`
	budget.Options `yaml:",inline"`
}

// ClassifierConfig configures the classifier of every run.
type ClassifierConfig struct {
	Kind               classifier.Kind `yaml:"kind" json:"kind"`
	classifier.Options `yaml:",inline"`
}

// StrategyConfig configures one query strategy.
type StrategyConfig struct {
	Name string `yaml:"name" json:"name"`
	// ID distinguishes several runs of the same strategy; it defaults to Name.
	ID               string `yaml:"id" json:"id"`
	strategy.Options `yaml:",inline"`
}

// Key identifies the run in results and seeds its randomness
func (s StrategyConfig) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}

// Validate fills in defaults and checks that every component can be constructed.
func (c *Config) Validate() error {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Window == 0 {
		c.Window = DefaultWindow
	}
	if c.Budget.Kind == "" {
		c.Budget.Kind = budget.KindGreedy
	}
	if c.Classifier.Kind == "" {
		c.Classifier.Kind = classifier.KindParzen
	}
	if c.Workers < 1 {
		c.Workers = 1
	}

	if (c.Dataset.Blobs == nil) == (c.Dataset.CSV == "") {
		return errors.Configurationf("exactly one of dataset.blobs and dataset.csv must be set")
	}
	if c.SeedSize < 0 {
		return errors.Configurationf("seed_size must not be negative, got %d", c.SeedSize)
	}
	if _, err := window.New(c.Window); err != nil {
		return err
	}
	if _, err := budget.New(c.Budget.Kind, c.Budget.Rate, c.Budget.Options); err != nil {
		return err
	}
	if len(c.Strategies) == 0 {
		return errors.Configurationf("no strategies configured")
	}
	keys := make(map[string]bool)
	for _, s := range c.Strategies {
		if keys[s.Key()] {
			return errors.Configurationf("strategy %q configured twice, set distinct ids", s.Key())
		}
		keys[s.Key()] = true
		if _, err := strategy.New(s.Name, 0, s.Options); err != nil {
			return err
		}
	}
	return nil
}

// Load materializes the configured dataset
func (d DatasetConfig) Load() ([]sample.Labeled, error) {
	if d.Blobs != nil {
		return dataset.Blobs(*d.Blobs)
	}
	f, err := os.Open(d.CSV)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.ReadCSV(f)
}

// DeriveSeed mixes base and name into the seed of a single run, so every run owns an
// independent random sequence that is still reproducible from the experiment seed.
func DeriveSeed(base int64, name string) int64 {
	buf := make([]byte, 8, 8+len(name))
	binary.LittleEndian.PutUint64(buf, uint64(base))
	buf = append(buf, name...)
	return int64(spooky.Hash64(buf))
}
