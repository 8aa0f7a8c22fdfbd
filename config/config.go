// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/config/source"
)

// Option configures a [Config].
type Option func(c *Config) error

// Validator is implemented by bound structs that check themselves after
// tag validation succeeds.
type Validator interface {
	Validate() error
}

// Config holds configuration merged from an ordered list of sources.
//
// Config is safe for concurrent use.
type Config struct {
	mu         sync.RWMutex
	values     map[string]any
	sources    []Source
	binding    any
	tagName    string
	validators []func(map[string]any) error
	validate   *validator.Validate
}

// WithSource appends a source. Later sources override earlier ones.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithFile appends a file source whose codec is chosen from the extension.
func WithFile(path string) Option {
	return func(c *Config) error {
		typ, err := codec.TypeFromPath(path)
		if err != nil {
			return err
		}
		return WithFileAs(path, typ)(c)
	}
}

// WithFileAs appends a file source decoded with the named codec.
func WithFileAs(path string, typ codec.Type) Option {
	return func(c *Config) error {
		dec, err := codec.GetDecoder(typ)
		if err != nil {
			return err
		}
		c.sources = append(c.sources, source.NewFile(path, dec))
		return nil
	}
}

// WithContent appends in-memory content decoded with the named codec.
func WithContent(data []byte, typ codec.Type) Option {
	return func(c *Config) error {
		dec, err := codec.GetDecoder(typ)
		if err != nil {
			return err
		}
		c.sources = append(c.sources, source.NewFileContent(data, dec))
		return nil
	}
}

// WithEnv appends the environment variables starting with prefix.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewEnv(prefix))
		return nil
	}
}

// WithBinding binds the merged values into v, which must be a pointer to a
// struct, on every successful Load.
func WithBinding(v any) Option {
	return func(c *Config) error {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("binding must be a non-nil pointer to a struct, got %T", v)
		}
		c.binding = v
		return nil
	}
}

// WithTag sets the struct tag used for binding. The default is "config".
func WithTag(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return errors.New("tag name cannot be empty")
		}
		c.tagName = name
		return nil
	}
}

// WithValidator adds a check run against the merged values before binding.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		if fn == nil {
			return errors.New("validator cannot be nil")
		}
		c.validators = append(c.validators, fn)
		return nil
	}
}

// New returns a Config. Option errors are joined; the partially configured
// Config is returned alongside them.
func New(options ...Option) (*Config, error) {
	c := &Config{
		values:   map[string]any{},
		tagName:  "config",
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	var errs error
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return c, errs
}

// MustNew is like [New] but panics on error.
func MustNew(options ...Option) *Config {
	c, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create config: %v", err))
	}
	return c
}

// Load reads every source, merges the results and, when a binding is set,
// decodes, defaults and validates it. Stored values and the binding are
// only replaced when every step succeeds.
func (c *Config) Load(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}

	merged, err := c.merge(ctx)
	if err != nil {
		return err
	}

	for i, fn := range c.validators {
		if err := runValidator(fn, merged); err != nil {
			return NewError(fmt.Sprintf("custom-validator[%d]", i), "validate", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.binding != nil {
		tmp := reflect.New(reflect.TypeOf(c.binding).Elem())
		if err := c.bind(merged, tmp.Interface()); err != nil {
			return err
		}
		reflect.ValueOf(c.binding).Elem().Set(tmp.Elem())
	}

	c.values = merged
	return nil
}

// MustLoad is like Load but panics on error.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(err)
	}
}

func (c *Config) merge(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)
	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		conf, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if conf == nil {
			continue
		}

		if err := mergo.Map(&merged, normalizeKeys(conf), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}
	return merged, nil
}

func runValidator(fn func(map[string]any) error, values map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validator panic: %v", r)
		}
	}()
	return fn(values)
}

func (c *Config) bind(values map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          c.tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToURLHookFunc(),
		),
	})
	if err != nil {
		return NewError("binding", "bind", err)
	}
	if err := dec.Decode(values); err != nil {
		return NewError("binding", "bind", err)
	}
	if err := applyDefaults(reflect.ValueOf(target).Elem()); err != nil {
		return NewError("binding", "bind", err)
	}

	if err := c.validate.Struct(target); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return NewFieldError("binding", verrs[0].Namespace(), "validate", err)
		}
		return NewError("binding", "validate", err)
	}
	if v, ok := target.(Validator); ok {
		if err := v.Validate(); err != nil {
			return NewError("binding", "validate", err)
		}
	}
	return nil
}

func normalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeKeys(nested)
		}
		out[strings.ToLower(k)] = v
	}
	return out
}

// applyDefaults fills zero fields from their `default` tag.
func applyDefaults(v reflect.Value) error {
	t := v.Type()
	for i := range v.NumField() {
		field, sf := v.Field(i), t.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeFor[time.Time]() {
			if err := applyDefaults(field); err != nil {
				return err
			}
			continue
		}

		def, ok := sf.Tag.Lookup("default")
		if !ok || !field.IsZero() {
			continue
		}
		if err := setDefault(field, def); err != nil {
			return fmt.Errorf("failed to set default for field %s: %w", sf.Name, err)
		}
	}
	return nil
}

func setDefault(field reflect.Value, def string) error {
	if field.Type() == reflect.TypeFor[time.Duration]() {
		d, err := cast.ToDurationE(def)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(def)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(def)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(def)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(def)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := cast.ToBoolE(def)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		parts := strings.Split(def, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts).Convert(field.Type()))
	default:
		return fmt.Errorf("unsupported type for default tag: %s", field.Kind())
	}
	return nil
}

// Values returns a shallow copy of the merged values.
func (c *Config) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.values)
}
