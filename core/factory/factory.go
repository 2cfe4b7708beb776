package factory

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
)

var (
	// ErrUnknownModule is returned by Create for an unregistered type.
	ErrUnknownModule = errors.New("unknown module type")
	// ErrDuplicateModule is returned by Register when the name is taken.
	ErrDuplicateModule = errors.New("module type already registered")
)

// ModuleConfig is the `{type, conf}` pair a pluggable module is declared with.
type ModuleConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Factory builds a T from its raw settings.
type Factory[T any] func(map[string]any) (T, error)

// Validator is implemented by settings structs that check themselves.
type Validator interface {
	Validate() error
}

// Typed adapts a constructor taking decoded settings into a Factory. The raw
// map is decoded strictly into C, C is validated when it implements
// Validator, then build is called.
func Typed[C, T any](build func(C) (T, error)) Factory[T] {
	return func(raw map[string]any) (T, error) {
		var conf C
		if err := DecodeStrict(raw, &conf); err != nil {
			var zero T
			return zero, err
		}
		if v, ok := any(&conf).(Validator); ok {
			if err := v.Validate(); err != nil {
				var zero T
				return zero, err
			}
		}
		return build(conf)
	}
}

// Registry maps type names to factories. It is safe for concurrent use.
type Registry[T any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

// Register adds f under name.
func (r *Registry[T]) Register(name string, f Factory[T]) error {
	if name == "" || f == nil {
		return fmt.Errorf("register %q: empty name or nil factory", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, name)
	}
	r.factories[name] = f
	return nil
}

// Names returns the registered type names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Create builds the module declared by cfg.
func (r *Registry[T]) Create(cfg ModuleConfig) (T, error) {
	var zero T
	r.mu.RLock()
	f, ok := r.factories[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("%w %q (known: %v)", ErrUnknownModule, cfg.Type, r.Names())
	}
	out, err := f(cfg.Conf)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", cfg.Type, err)
	}
	return out, nil
}

// Decode fills out from data using json tags. Values set through
// environment variables arrive as strings, hence the weak typing and the
// duration and comma-list hooks.
func Decode(data map[string]any, out any) error {
	return decode(data, out, false)
}

// DecodeStrict is Decode that also rejects keys out does not declare.
func DecodeStrict(data map[string]any, out any) error {
	return decode(data, out, true)
}

func decode(data map[string]any, out any, strict bool) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      strict,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result: out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
