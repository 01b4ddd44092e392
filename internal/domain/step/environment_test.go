package step

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvSet_PrependPath_Dedupes(t *testing.T) {
	t.Parallel()

	env := NewEnvSet()
	env.PrependPath("/opt/homebrew/bin")
	env.PrependPath("/usr/local/go/bin")
	env.PrependPath("/opt/homebrew/bin")

	assert.Equal(t, []string{"/opt/homebrew/bin", "/usr/local/go/bin"}, env.PathEntries())
}

func TestEnvSet_Exports_Sorted(t *testing.T) {
	t.Parallel()

	env := NewEnvSet()
	env.Export("ZZZ", "1")
	env.Export("AAA", "2")
	env.Export("MMM", "3")

	assert.Equal(t, []string{"AAA=2", "MMM=3", "ZZZ=1"}, env.Exports())
}

func TestEnvSet_Lookup(t *testing.T) {
	t.Parallel()

	env := NewEnvSet()
	env.Export("EDITOR", "nvim")

	v, ok := env.Lookup("EDITOR")
	assert.True(t, ok)
	assert.Equal(t, "nvim", v)

	_, ok = env.Lookup("MISSING")
	assert.False(t, ok)
}

func TestRunContext_CarriesEnvAcrossWithDryRun(t *testing.T) {
	t.Parallel()

	ctx := NewRunContext(context.Background())
	ctx.Env().Export("A", "1")

	dry := ctx.WithDryRun(true)
	assert.True(t, dry.DryRun())

	v, ok := dry.Env().Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}
