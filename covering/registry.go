package covering

import "fmt"

var registry = map[string]Covering{
	"program-order":      ProgramOrder{},
	"external-causality": ExternalCausality{},
}

// Register adds a covering under name, overwriting any existing entry.
// Mirrors the teacher's algos.RegisterDetector/GetDetector registry so new
// coverings can be added without touching the checker or the CLI.
func Register(name string, c Covering) {
	registry[name] = c
}

// Get looks up a covering by name. It panics on an unknown name: this is a
// programmer error (an unregistered covering name reaching the CLI or a
// caller), not a structurally-impossible execution, and is never silently
// tolerated.
func Get(name string) Covering {
	c, ok := registry[name]
	if !ok {
		panic(fmt.Errorf("covering: unknown covering %q", name))
	}
	return c
}

// Names lists every registered covering, for `-ls`-style enumeration.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
