// SPDX-License-Identifier: MIT

package paramsrc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/katalvlaran/lvprune/errbudget"
)

// DefaultMaxFileSize caps parameter files read by LoadFile.
const DefaultMaxFileSize = 1 << 20 // 1MB

const keyDelim = "."

// ErrFileTooLarge is returned by LoadFile when the file exceeds the size cap.
var ErrFileTooLarge = errors.New("paramsrc: parameter file too large")

// Option configures how a Koanf source is loaded.
type Option func(*loadOptions)

type loadOptions struct {
	envPrefix string
	useEnv    bool
	maxSize   int64
}

// WithEnv overlays environment variables starting with prefix on top of the
// YAML values. The prefix is stripped, the rest is lower-cased and its first
// underscore becomes the section separator: PREFIX_CRITERION_MAX_ERROR →
// criterion.max_error.
func WithEnv(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
		o.useEnv = true
	}
}

// WithMaxFileSize overrides DefaultMaxFileSize. Panics on n <= 0.
func WithMaxFileSize(n int64) Option {
	if n <= 0 {
		panic("paramsrc: WithMaxFileSize: n must be > 0")
	}

	return func(o *loadOptions) { o.maxSize = n }
}

// Koanf is a ParamSource backed by a koanf tree. Lookups are relative to the
// source's prefix.
type Koanf struct {
	k      *koanf.Koanf
	prefix string
}

// NewKoanf wraps an already loaded koanf instance.
func NewKoanf(k *koanf.Koanf) *Koanf {
	return &Koanf{k: k}
}

// FromYAML parses YAML bytes (empty input is allowed) and applies the
// environment overlay when requested.
func FromYAML(data []byte, opts ...Option) (*Koanf, error) {
	var o = gather(opts)
	k := koanf.New(keyDelim)

	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("paramsrc: parse yaml: %w", err)
		}
	}
	if o.useEnv {
		if err := k.Load(env.Provider(o.envPrefix, keyDelim, envKey(o.envPrefix)), nil); err != nil {
			return nil, fmt.Errorf("paramsrc: load environment: %w", err)
		}
	}

	return NewKoanf(k), nil
}

// LoadFile reads a YAML parameter file and delegates to FromYAML. An empty
// path loads no file, so only the environment overlay applies.
func LoadFile(path string, opts ...Option) (*Koanf, error) {
	if path == "" {
		return FromYAML(nil, opts...)
	}
	var o = gather(opts)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("paramsrc: open %s: %w", path, err)
	}
	defer f.Close()

	// Read one byte past the cap so an oversized file is detected without
	// trusting Stat.
	data, err := io.ReadAll(io.LimitReader(f, o.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("paramsrc: read %s: %w", path, err)
	}
	if int64(len(data)) > o.maxSize {
		return nil, fmt.Errorf("%w: %s (limit %d bytes)", ErrFileTooLarge, path, o.maxSize)
	}

	return FromYAML(data, opts...)
}

// Sub returns a view of s rooted at section (relative to s's own prefix).
func (s *Koanf) Sub(section string) *Koanf {
	return &Koanf{k: s.k, prefix: s.key(section)}
}

// Has reports whether name exists under the prefix.
func (s *Koanf) Has(name string) bool {
	return s.k.Exists(s.key(name))
}

// GetRequiredDouble implements errbudget.ParamSource.
func (s *Koanf) GetRequiredDouble(name string) (float64, error) {
	var key = s.key(name)
	if !s.k.Exists(key) {
		return 0, fmt.Errorf("paramsrc: %w: %q", errbudget.ErrMissingParam, key)
	}

	return toFloat(key, s.k.Get(key))
}

// GetDouble returns the value of name, or def when it is absent.
func (s *Koanf) GetDouble(name string, def float64) (float64, error) {
	if !s.Has(name) {
		return def, nil
	}

	return s.GetRequiredDouble(name)
}

// GetInt returns the integral value of name, or def when it is absent.
func (s *Koanf) GetInt(name string, def int) (int, error) {
	x, err := s.GetDouble(name, float64(def))
	if err != nil {
		return 0, err
	}
	if x != float64(int(x)) {
		return 0, fmt.Errorf("paramsrc: %w: %q is not an integer", errbudget.ErrInvalidParam, s.key(name))
	}

	return int(x), nil
}

// GetString returns the string value of name, or def when it is absent.
func (s *Koanf) GetString(name, def string) string {
	if !s.Has(name) {
		return def
	}

	return s.k.String(s.key(name))
}

// Variant reads and parses the "variant" key.
func (s *Koanf) Variant() (errbudget.Variant, error) {
	var key = s.key("variant")
	if !s.k.Exists(key) {
		return 0, fmt.Errorf("paramsrc: %w: %q", errbudget.ErrMissingParam, key)
	}

	return errbudget.ParseVariant(s.k.String(key))
}

func (s *Koanf) key(name string) string {
	if s.prefix == "" {
		return name
	}

	return s.prefix + keyDelim + name
}

// toFloat converts YAML scalars and environment strings to float64.
func toFloat(key string, v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("paramsrc: %w: %q=%q", errbudget.ErrInvalidParam, key, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("paramsrc: %w: %q has type %T", errbudget.ErrInvalidParam, key, v)
	}
}

// envKey maps PREFIX_SECTION_FIELD_NAME to section.field_name.
func envKey(prefix string) func(string) string {
	return func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, prefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}

		return parts[0] + keyDelim + parts[1]
	}
}

func gather(opts []Option) loadOptions {
	var o = loadOptions{maxSize: DefaultMaxFileSize}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
