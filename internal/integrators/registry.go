package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Default is the stepper the spring animator uses.
const Default = "semi_implicit_euler"

var constructors = map[string]func() dynamo.Integrator{
	"semi_implicit_euler": func() dynamo.Integrator { return NewSemiImplicitEuler() },
	"euler":               func() dynamo.Integrator { return NewEuler() },
	"rk4":                 func() dynamo.Integrator { return NewRK4() },
	"leapfrog":            func() dynamo.Integrator { return NewLeapfrog() },
	"analytic":            func() dynamo.Integrator { return NewAnalytic() },
}

// ByName returns a fresh integrator. An empty name selects [Default].
func ByName(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
