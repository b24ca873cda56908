package adapter

import (
	"fmt"

	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// SourceRegistry instantiated adapters for the enabled sources, in configuration order
type SourceRegistry struct {
	cfg      *config.Config
	logger   *logrus.Logger
	order    []string
	adapters map[string]interfaces.SourceAdapter
}

func NewSourceRegistry(cfg *config.Config, deps interfaces.SourceDeps) *SourceRegistry {
	r := &SourceRegistry{
		cfg:      cfg,
		logger:   deps.Logger,
		adapters: make(map[string]interfaces.SourceAdapter),
	}
	r.initAdaptersFromFactories(deps)
	return r
}

// initAdaptersFromFactories builds one adapter per enabled source
func (r *SourceRegistry) initAdaptersFromFactories(deps interfaces.SourceDeps) {
	r.logger.WithField("factories", ListFactories()).Debug("registered source factories")

	for _, name := range r.cfg.Sync.EnabledSources {
		factory, ok := GetFactory(name)
		if !ok {
			r.logger.WithField("source", name).Error("no factory registered for source (missing import?)")
			continue
		}

		adapterIns := factory(r.cfg.Source(name), deps)
		if adapterIns == nil {
			r.logger.WithField("source", name).Error("factory returned nil adapter")
			continue
		}
		if adapterIns.GetName() != name {
			r.logger.WithFields(logrus.Fields{
				"config_source":  name,
				"adapter_source": adapterIns.GetName(),
			}).Error("adapter name does not match configured source")
			continue
		}
		if _, dup := r.adapters[name]; dup {
			continue
		}

		r.adapters[name] = adapterIns
		r.order = append(r.order, name)
	}

	r.logger.WithField("sources", r.order).Info("source adapters initialized")
}

// Adapters enabled adapters in configuration order
func (r *SourceRegistry) Adapters() []interfaces.SourceAdapter {
	out := make([]interfaces.SourceAdapter, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.adapters[name])
	}
	return out
}

// GetAdapter returns the adapter for source
func (r *SourceRegistry) GetAdapter(source string) (interfaces.SourceAdapter, error) {
	adapterIns, ok := r.adapters[source]
	if !ok {
		return nil, fmt.Errorf("source %s not initialized (initialized: %v)", source, r.order)
	}
	return adapterIns, nil
}

// Count number of initialized adapters
func (r *SourceRegistry) Count() int {
	return len(r.order)
}
