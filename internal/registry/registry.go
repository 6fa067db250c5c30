// Package registry provides a global registry for virtual-player
// policy factories. Policies register themselves in init() functions,
// allowing the simulator and CLI to discover them without hardcoded
// dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/frogmud/neverdieguy-core/internal/catalog"
	"github.com/frogmud/neverdieguy-core/internal/pool"
	"github.com/frogmud/neverdieguy-core/internal/rng"
	"github.com/frogmud/neverdieguy-core/internal/run"
)

// ShopActionKind is one step of a policy's shop visit.
type ShopActionKind int

const (
	ShopContinue ShopActionKind = iota // leave the shop
	ShopBuy                            // buy Slug
	ShopReroll                         // pay for a fresh pool
)

// ShopAction is a single shop decision. Slug is set for ShopBuy only.
type ShopAction struct {
	Kind ShopActionKind
	Slug string
}

// Policy is a scripted virtual player. Implementations must be pure
// over their inputs: all randomness comes from the provided stream, so
// a batch of runs is reproducible from one top-level seed. A policy
// instance is used by a single run at a time.
type Policy interface {
	// Name is the registry identifier (e.g. "cautious").
	Name() string

	// PlayRoom returns the score the player achieves in the current
	// room. A score below the snapshot's goal loses the run.
	PlayRoom(st *rng.Stream, snap run.Snapshot) int

	// ShopAction decides the next step of a shop visit. Called
	// repeatedly until it returns ShopContinue.
	ShopAction(st *rng.Stream, snap run.Snapshot, offers pool.Requisition) ShopAction

	// ChooseDoor picks one of the offered doors.
	ChooseDoor(st *rng.Stream, snap run.Snapshot, doors []pool.Door) pool.DoorType

	// ChooseWanderer resolves an encounter branch.
	ChooseWanderer(st *rng.Stream, snap run.Snapshot, w catalog.Wanderer) run.WandererChoice
}

// Factory is a function that creates a new policy instance.
type Factory func() Policy

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds a policy factory to the registry. Typically called
// from an init() function. Panics if the name is already taken.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: policy %q already registered", name))
	}
	factories[name] = f
}

// List returns the registered policy names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create instantiates a policy by name.
func Create(name string) (Policy, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown policy %q", name)
	}
	return f(), nil
}

// Exists checks whether a policy name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
