package cmdline

import (
	"bytes"
	"testing"

	"github.com/kiteco/streamal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetArgs struct {
	Name  string `arg:"required"`
	Times int    `arg:"--times"`

	greeted int `arg:"-"`
}

func (g *greetArgs) Validate() error {
	if g.Times < 0 {
		return errors.Configurationf("times must not be negative")
	}
	return nil
}

func (g *greetArgs) Handle() error {
	g.greeted = g.Times
	return nil
}

func TestDispatch(t *testing.T) {
	args := &greetArgs{}
	var out bytes.Buffer
	err := Dispatch(&out, []string{"greet", "--name", "x", "--times", "3"}, Command{Name: "greet", Args: args})
	require.NoError(t, err)
	assert.Equal(t, 3, args.greeted)
}

func TestDispatchValidation(t *testing.T) {
	args := &greetArgs{}
	var out bytes.Buffer
	err := Dispatch(&out, []string{"greet", "--name", "x", "--times", "-1"}, Command{Name: "greet", Args: args})
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
	assert.Equal(t, 0, args.greeted)
}

func TestDispatchUnknown(t *testing.T) {
	var out bytes.Buffer
	err := Dispatch(&out, []string{"wave"}, Command{Name: "greet", Synopsis: "say hello", Args: &greetArgs{}})
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
	assert.Contains(t, out.String(), "say hello")
}

func TestDispatchHelp(t *testing.T) {
	var out bytes.Buffer
	err := Dispatch(&out, []string{"help", "greet"}, Command{Name: "greet", Args: &greetArgs{}})
	assert.Equal(t, errHelp, err)
	assert.Contains(t, out.String(), "--name")
}
