package adapter

import (
	"context"
	"testing"

	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedAdapter struct{ name string }

func (n namedAdapter) GetName() string { return n.name }

func (n namedAdapter) FetchEvents(context.Context) ([]model.RawEvent, error) { return nil, nil }

func namedFactory(name string) interfaces.Factory {
	return func(config.SourceConfig, interfaces.SourceDeps) interfaces.SourceAdapter {
		return namedAdapter{name: name}
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestSourceRegistry_BuildsEnabledSourcesInOrder(t *testing.T) {
	Register("reg_a", namedFactory("reg_a"))
	Register("reg_b", namedFactory("reg_b"))
	Register("reg_mismatch", namedFactory("something_else"))

	cfg := &config.Config{
		Sync: config.SyncConfig{EnabledSources: []string{"reg_b", "reg_missing", "reg_a", "reg_mismatch", "reg_b"}},
	}
	r := NewSourceRegistry(cfg, interfaces.SourceDeps{Logger: quietLogger()})

	require.Equal(t, 2, r.Count())
	adapters := r.Adapters()
	assert.Equal(t, "reg_b", adapters[0].GetName())
	assert.Equal(t, "reg_a", adapters[1].GetName())

	got, err := r.GetAdapter("reg_a")
	require.NoError(t, err)
	assert.Equal(t, "reg_a", got.GetName())

	_, err = r.GetAdapter("reg_missing")
	assert.Error(t, err)
}

func TestListFactories_Sorted(t *testing.T) {
	Register("reg_z", namedFactory("reg_z"))
	Register("reg_c", namedFactory("reg_c"))

	names := ListFactories()
	assert.Contains(t, names, "reg_z")
	assert.IsNonDecreasing(t, names)
}

func TestRegister_NilFactoryPanics(t *testing.T) {
	assert.Panics(t, func() { Register("reg_nil", nil) })
}
