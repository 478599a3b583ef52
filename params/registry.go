package params

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Konsultn-Engineering/sqlinterp/internal/debug"
)

// MaxRenameAttempts bounds the candidates tried when generating a free name.
const MaxRenameAttempts = 1 << 16

// Registry is an ordered, case-insensitive set of named parameters.
//
// Each registry owns its naming function and counter, so statements built in
// parallel never share state. Every prefix counts on its own. A Registry is not safe for concurrent use.
type Registry struct {
	byName      map[string]*Parameter
	order       []*Parameter
	naming      NamingFunc
	prefix      string
	arrayPrefix string
	next        map[string]int
}

// Option configures a Registry.
type Option func(*Registry)

// WithNaming sets the naming function. A nil function keeps SequentialNames.
func WithNaming(fn NamingFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.naming = fn
		}
	}
}

// WithPrefixes sets the scalar and array name prefixes. Empty values keep
// the defaults.
func WithPrefixes(scalar, array string) Option {
	return func(r *Registry) {
		if scalar != "" {
			r.prefix = scalar
		}
		if array != "" {
			r.arrayPrefix = array
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byName:      make(map[string]*Parameter),
		next:        make(map[string]int),
		naming:      SequentialNames,
		prefix:      DefaultPrefix,
		arrayPrefix: DefaultArrayPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fresh returns an empty registry with the same naming configuration.
func (r *Registry) Fresh() *Registry {
	return &Registry{
		byName:      make(map[string]*Parameter),
		next:        make(map[string]int),
		naming:      r.naming,
		prefix:      r.prefix,
		arrayPrefix: r.arrayPrefix,
	}
}

// Clone returns a registry holding the same parameters. The parameters
// themselves are shared.
func (r *Registry) Clone() *Registry {
	c := r.Fresh()
	for prefix, n := range r.next {
		c.next[prefix] = n
	}
	c.order = append(c.order, r.order...)
	for k, p := range r.byName {
		c.byName[k] = p
	}
	return c
}

func key(name string) string { return strings.ToLower(name) }

// Len returns the number of parameters.
func (r *Registry) Len() int { return len(r.order) }

// Get looks a parameter up by name, ignoring case.
func (r *Registry) Get(name string) (*Parameter, bool) {
	p, ok := r.byName[key(name)]
	return p, ok
}

// Names returns the parameter names in insertion order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, p := range r.order {
		names[i] = p.Name
	}
	return names
}

// Parameters returns the parameters in insertion order.
func (r *Registry) Parameters() []*Parameter {
	out := make([]*Parameter, len(r.order))
	copy(out, r.order)
	return out
}

// Values returns a name to value map.
func (r *Registry) Values() map[string]any {
	vals := make(map[string]any, len(r.order))
	for _, p := range r.order {
		vals[p.Name] = p.Value
	}
	return vals
}

// Next generates the next free name for prefix; an empty prefix uses the
// scalar prefix. The name is not reserved until a parameter is added under it.
func (r *Registry) Next(prefix string) (string, error) {
	return r.generate(prefix, nil)
}

// NextArray generates the next free array base name. Element names are the
// base followed by a 1-based index.
func (r *Registry) NextArray() (string, error) {
	return r.generate(r.arrayPrefix, nil)
}

func (r *Registry) generate(prefix string, reserved map[string]struct{}) (string, error) {
	if prefix == "" {
		prefix = r.prefix
	}
	for range MaxRenameAttempts {
		name := r.naming(prefix, r.next[prefix])
		r.next[prefix]++
		k := key(name)
		if _, taken := r.byName[k]; taken {
			continue
		}
		if _, taken := reserved[k]; taken {
			continue
		}
		return name, nil
	}
	return "", errors.Wrapf(ErrCollisionExhausted, "prefix %q", prefix)
}

// Add registers p, generating a name if p has none. A name already bound to
// a different parameter is resolved like MergeOne. It returns the name p is
// registered under. A generated name goes to a copy of p; p is not modified.
func (r *Registry) Add(p *Parameter) (string, error) {
	if p.Name == "" {
		name, err := r.Next("")
		if err != nil {
			return "", err
		}
		p = p.renamed(name)
	}
	name, _, err := r.MergeOne(p.Name, p)
	return name, err
}

// MergeOne binds p under name. Binding the same parameter twice is a no-op.
// If name is bound to another parameter, a copy of p is bound under a newly
// generated name, which is returned with renamed set. p itself is never
// modified, so registries that share it stay consistent.
func (r *Registry) MergeOne(name string, p *Parameter) (string, bool, error) {
	return r.mergeOne(name, p, nil)
}

func (r *Registry) mergeOne(name string, p *Parameter, reserved map[string]struct{}) (string, bool, error) {
	existing, ok := r.byName[key(name)]
	if !ok {
		if p.Name != name {
			p = p.renamed(name)
		}
		r.insert(p)
		return name, false, nil
	}
	if existing == p {
		return name, false, nil
	}
	newName, err := r.generate(r.prefix, reserved)
	if err != nil {
		return "", false, err
	}
	r.insert(p.renamed(newName))
	debug.Debug("parameter renamed", "from", name, "to", newName)
	return newName, true, nil
}

func (r *Registry) insert(p *Parameter) {
	r.byName[key(p.Name)] = p
	r.order = append(r.order, p)
}

// MergeAll merges every parameter of src and rewrites the references in sql,
// which must be the text src's parameters belong to. Generated names avoid
// the names of both registries. changed is false, and sql is returned as is,
// when nothing had to be renamed.
func (r *Registry) MergeAll(src *Registry, sql string) (string, bool, error) {
	if src == nil || src == r || src.Len() == 0 {
		return sql, false, nil
	}
	reserved := make(map[string]struct{}, len(src.byName))
	for k := range src.byName {
		reserved[k] = struct{}{}
	}
	var renames map[string]string
	for _, p := range src.order {
		newName, renamed, err := r.mergeOne(p.Name, p, reserved)
		if err != nil {
			return sql, false, err
		}
		if renamed {
			if renames == nil {
				renames = make(map[string]string)
			}
			renames[key(p.Name)] = newName
		}
	}
	if len(renames) == 0 {
		return sql, false, nil
	}
	return RewriteNames(sql, renames), true, nil
}

// Remove drops the named parameter.
func (r *Registry) Remove(name string) bool {
	k := key(name)
	p, ok := r.byName[k]
	if !ok {
		return false
	}
	delete(r.byName, k)
	for i, q := range r.order {
		if q == p {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Prune drops every parameter that sql does not reference.
func (r *Registry) Prune(sql string) {
	used := make(map[string]struct{})
	for _, name := range ScanNames(sql) {
		used[key(name)] = struct{}{}
	}
	kept := r.order[:0]
	for _, p := range r.order {
		if _, ok := used[key(p.Name)]; ok {
			kept = append(kept, p)
			continue
		}
		delete(r.byName, key(p.Name))
	}
	clear(r.order[len(kept):])
	r.order = kept
}

// SetOutputs stores values returned by the database into the matching
// non-Input parameters. Names that do not belong to an output parameter are
// errors.
func (r *Registry) SetOutputs(values map[string]any) error {
	for name, v := range values {
		p, ok := r.Get(name)
		if !ok {
			return errors.Wrapf(ErrUnknownParameter, "%q", name)
		}
		if p.IsInput() {
			return errors.Wrapf(ErrNotOutput, "%q", name)
		}
		p.Value = v
	}
	return nil
}

// InvokeCallbacks passes the value of every non-Input parameter to its
// OnOutput callback, in insertion order.
func (r *Registry) InvokeCallbacks() {
	for _, p := range r.order {
		if !p.IsInput() && p.OnOutput != nil {
			p.OnOutput(p.Value)
		}
	}
}
