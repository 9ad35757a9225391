package strategy

import (
	"sort"
	"sync"

	"github.com/overline-lab/backstrat/internal/version"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// Factory builds a strategy instance from a YAML parameter document.
// An empty document selects the strategy's defaults.
type Factory func(config string) (Strategy, error)

// Preset is a named parameterization of a registered strategy.
type Preset struct {
	// Name is the unique preset identifier.
	Name string `json:"name" yaml:"name"`
	// Strategy is the catalog name of the strategy the preset configures.
	Strategy string `json:"strategy" yaml:"strategy"`
	// Description is a one-line summary of the parameterization.
	Description string `json:"description" yaml:"description"`
	// Config is the YAML parameter document applied on creation.
	Config string `json:"config,omitempty" yaml:"config,omitempty"`
}

type catalogEntry struct {
	meta    Metadata
	factory Factory
}

// Catalog is a registry of strategies and presets. It is safe for
// concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]catalogEntry
	presets map[string]Preset
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]catalogEntry),
		presets: make(map[string]Preset),
	}
}

// Register adds a strategy to the catalog. The metadata's API version
// must be compatible with the running engine.
func (c *Catalog) Register(meta Metadata, factory Factory) error {
	if meta.Name == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "strategy name is required")
	}
	if factory == nil {
		return errors.Newf(errors.ErrCodeInvalidParameter, "strategy '%s' has no factory", meta.Name)
	}
	if !meta.Category.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidParameter, "strategy '%s' has unknown category '%s'", meta.Name, meta.Category)
	}
	if err := version.CheckVersionCompatibility(version.GetVersion(), meta.APIVersion); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[meta.Name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "strategy '%s' is already registered", meta.Name)
	}
	c.entries[meta.Name] = catalogEntry{meta: meta, factory: factory}

	return nil
}

// Get returns the metadata of a registered strategy.
func (c *Catalog) Get(name string) (Metadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[name]
	if !ok {
		return Metadata{}, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy '%s' is not registered", name)
	}

	return entry.meta, nil
}

// Create builds a strategy instance with the given YAML parameter
// document.
func (c *Catalog) Create(name string, config string) (Strategy, error) {
	c.mu.RLock()
	entry, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy '%s' is not registered", name)
	}

	return entry.factory(config)
}

// List returns the metadata of every registered strategy, sorted by name.
func (c *Catalog) List() []Metadata {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Metadata, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// ListByCategory returns the metadata of registered strategies in the
// given category, sorted by name.
func (c *Catalog) ListByCategory(category Category) []Metadata {
	all := c.List()
	out := make([]Metadata, 0, len(all))
	for _, meta := range all {
		if meta.Category == category {
			out = append(out, meta)
		}
	}

	return out
}

// Remove deletes a strategy and any presets that reference it.
func (c *Catalog) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; !ok {
		return errors.Newf(errors.ErrCodeStrategyNotFound, "strategy '%s' is not registered", name)
	}
	delete(c.entries, name)
	for presetName, preset := range c.presets {
		if preset.Strategy == name {
			delete(c.presets, presetName)
		}
	}

	return nil
}

// RegisterPreset adds a named parameterization of an already registered
// strategy. Preset names share a namespace with strategy names so either
// can be used to resolve a run.
func (c *Catalog) RegisterPreset(preset Preset) error {
	if preset.Name == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "preset name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[preset.Strategy]; !ok {
		return errors.Newf(errors.ErrCodeStrategyNotFound, "preset '%s' references unknown strategy '%s'", preset.Name, preset.Strategy)
	}
	if _, exists := c.presets[preset.Name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "preset '%s' is already registered", preset.Name)
	}
	if _, exists := c.entries[preset.Name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "preset '%s' collides with a strategy name", preset.Name)
	}
	c.presets[preset.Name] = preset

	return nil
}

// CreateFromPreset builds a strategy instance from a registered preset.
func (c *Catalog) CreateFromPreset(name string) (Strategy, error) {
	c.mu.RLock()
	preset, ok := c.presets[name]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "preset '%s' is not registered", name)
	}

	return c.Create(preset.Strategy, preset.Config)
}

// ListPresets returns every registered preset, sorted by name.
func (c *Catalog) ListPresets() []Preset {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Preset, 0, len(c.presets))
	for _, preset := range c.presets {
		out = append(out, preset)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// Resolve builds a strategy by preset name or, failing that, by strategy
// name with the given parameter document.
func (c *Catalog) Resolve(name string, config string) (Strategy, error) {
	c.mu.RLock()
	_, isPreset := c.presets[name]
	c.mu.RUnlock()
	if isPreset && config == "" {
		return c.CreateFromPreset(name)
	}

	return c.Create(name, config)
}

// RegisterStrategy registers a strategy whose parameters are described
// by the struct T. The factory decodes YAML over the given defaults,
// validates, and hands the result to build. The parameter schema is
// derived from T and stored on the metadata.
func RegisterStrategy[T any](c *Catalog, meta Metadata, defaults T, build func(T) (Strategy, error)) error {
	schema, err := ToJSONSchema(defaults)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to derive parameter schema for '%s'", meta.Name)
	}
	meta.ParamSchema = schema

	return c.Register(meta, func(config string) (Strategy, error) {
		params, err := DecodeParams(config, defaults)
		if err != nil {
			return nil, err
		}

		return build(params)
	})
}
