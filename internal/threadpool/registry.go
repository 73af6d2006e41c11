package threadpool

import "sync"

// registry is the process-wide map of named pools. It is a package-level
// variable, not a type, because exactly one such registry exists per
// process - the system this pool is modeled on makes the same choice
// (a class-level POOLS dict rather than an instantiable registry object).
var (
	registryMu sync.Mutex
	registry   = make(map[string]*Pool)
)

// Factory returns the pool already registered under name, or constructs one
// with the given parameters, registers it, and returns it. If a pool is
// already registered under name, minThreads/maxThreads/cpuCheck are
// ignored - first creation wins.
//
// Factory never returns ErrDuplicatePool; that error is reserved for direct
// construction via NewPool racing a name already present in the registry.
// This asymmetry is deliberate: Factory's entire purpose is "get or create",
// so a name collision there is the expected, successful case, not a
// failure (spec.md §4.3, §7 Open Questions).
func Factory(name string, minThreads, maxThreads int, cpuCheck bool) *Pool {
	registryMu.Lock()
	defer registryMu.Unlock()
	if p, ok := registry[name]; ok {
		return p
	}
	p := buildPool(Config{Name: name, MinThreads: minThreads, MaxThreads: maxThreads, CPUCheck: cpuCheck})
	registry[name] = p
	return p
}

// Lookup returns the pool registered under name, if any, without creating
// one.
func Lookup(name string) (*Pool, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	p, ok := registry[name]
	return p, ok
}

// Names returns the names of every pool currently registered, for
// introspection (cmd/list's "pools" subcommand).
func Names() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// ResetForTesting clears the process-wide registry. It exists only so test
// packages can start each case from an empty registry; production code
// never calls it.
func ResetForTesting() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]*Pool)
}
