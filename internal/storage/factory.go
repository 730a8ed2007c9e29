package storage

import (
	"fmt"
	"sort"

	"gallery/internal/config"
	"gallery/internal/domain"
	"gallery/internal/port"
)

// ProviderFactory creates an ObjectStorage from the storage config.
type ProviderFactory func(cfg *config.StorageConfig) (port.ObjectStorage, error)

// registry of storage provider factories, populated by init() in each
// provider package.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a storage provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// New creates an ObjectStorage for cfg.Provider using the registered factory.
func New(cfg *config.StorageConfig) (port.ObjectStorage, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", domain.ErrUnknownStorageProvider, cfg.Provider, Providers())
	}
	return factory(cfg)
}

// Providers lists the registered provider names in sorted order.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
