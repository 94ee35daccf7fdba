package form3

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/soypat/implicit"
	"github.com/soypat/implicit/form3/must3"
)

// Params are the construction parameters shared by all registered primitives.
// Primitives ignore the fields they do not use.
type Params struct {
	// Radius is the offset of a distance surface from its skeleton.
	Radius float64
	// Skeleton is required by the distance surface.
	Skeleton *implicit.Skeleton
}

// DefaultParams returns Params with the default distance surface radius.
func DefaultParams() Params {
	return Params{Radius: must3.DefaultRadius}
}

// Constructor builds a primitive from Params.
type Constructor func(Params) (implicit.SDF3, error)

type registration struct {
	name  string
	short string
	ctor  Constructor
}

// Registry maps primitive type names and short names to constructors.
// The zero value is not usable, use NewRegistry.
type Registry struct {
	byName  map[string]*registration
	entries []*registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*registration)}
}

// Register adds a constructor under spec, a type name optionally followed by
// a semicolon and a short name, i.e. "sphere;S".
func (r *Registry) Register(spec string, ctor Constructor) error {
	if ctor == nil {
		return errors.New("nil constructor")
	}
	name, short, _ := strings.Cut(spec, ";")
	name = strings.TrimSpace(name)
	short = strings.TrimSpace(short)
	if name == "" {
		return fmt.Errorf("empty primitive name in %q", spec)
	}
	reg := &registration{name: name, short: short, ctor: ctor}
	for _, key := range []string{name, short} {
		if key == "" {
			continue
		}
		if _, ok := r.byName[key]; ok {
			return fmt.Errorf("%q: %w", key, ErrDuplicatePrimitive)
		}
	}
	r.byName[name] = reg
	if short != "" {
		r.byName[short] = reg
	}
	r.entries = append(r.entries, reg)
	return nil
}

// Lookup returns the constructor registered under a type name or short name.
func (r *Registry) Lookup(name string) (Constructor, bool) {
	reg, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return reg.ctor, true
}

// New builds the primitive registered under name.
func (r *Registry) New(name string, p Params) (implicit.SDF3, error) {
	ctor, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownPrimitive)
	}
	s, err := ctor(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// Names returns the registered type names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, reg := range r.entries {
		names = append(names, reg.name)
	}
	sort.Strings(names)
	return names
}

// ShortName returns the short name registered for a type name, if any.
func (r *Registry) ShortName(name string) string {
	reg, ok := r.byName[name]
	if !ok {
		return ""
	}
	return reg.short
}

// Default holds the built-in primitives: box, sphere and distance surface.
var Default = NewRegistry()

func init() {
	mustRegister("box;B", func(Params) (implicit.SDF3, error) { return Box() })
	mustRegister("sphere;S", func(Params) (implicit.SDF3, error) { return Sphere() })
	mustRegister("distance_surface;D", func(p Params) (implicit.SDF3, error) {
		if p.Skeleton == nil {
			return nil, errors.New("distance surface requires a skeleton")
		}
		return DistanceSurface(p.Skeleton, p.Radius)
	})
}

func mustRegister(spec string, ctor Constructor) {
	if err := Default.Register(spec, ctor); err != nil {
		panic(err)
	}
}

// New builds a primitive from the Default registry.
func New(name string, p Params) (implicit.SDF3, error) {
	return Default.New(name, p)
}
