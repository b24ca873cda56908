// internal/adapter/adapter.go
package adapter

import (
	"fmt"
	"sort"
	"sync"

	"CultureSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// factory registry, filled from the init functions of the adapter packages
var (
	factoryMu       sync.RWMutex
	factoryRegistry = make(map[string]interfaces.Factory)
)

// Register called from adapter init functions
func Register(source string, factory interfaces.Factory) {
	if factory == nil {
		panic(fmt.Sprintf("factory for source %s must not be nil", source))
	}
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if _, exists := factoryRegistry[source]; exists {
		logrus.Warnf("source %s already registered, replacing factory", source)
	}
	factoryRegistry[source] = factory
}

// GetFactory returns the factory registered for source
func GetFactory(source string) (interfaces.Factory, bool) {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	factory, ok := factoryRegistry[source]
	return factory, ok
}

// ListFactories registered source names, sorted
func ListFactories() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	sources := make([]string, 0, len(factoryRegistry))
	for s := range factoryRegistry {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}
