// Package sim drives the run engine through batches of scripted
// virtual players and searches balance-config space against target
// metrics. A batch is fully reproducible from one top-level seed: run
// N derives its own thread seed and its own policy stream from it, so
// neither worker count nor completion order changes the result.
package sim

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/frogmud/neverdieguy-core/internal/balance"
	"github.com/frogmud/neverdieguy-core/internal/catalog"
	"github.com/frogmud/neverdieguy-core/internal/pool"
	"github.com/frogmud/neverdieguy-core/internal/registry"
	"github.com/frogmud/neverdieguy-core/internal/rng"
	"github.com/frogmud/neverdieguy-core/internal/run"
)

// maxActions bounds one simulated run. A legitimate full clear takes
// well under a hundred transitions; hitting the cap is an error sample.
const maxActions = 1000

// maxShopSteps bounds one shop visit so a confused policy cannot spin.
const maxShopSteps = 8

// BatchOptions configures one simulation batch.
type BatchOptions struct {
	Runs     int
	Seed     string // top-level batch seed
	Policy   string // registered policy name
	Workers  int    // 0 = NumCPU
	Traveler run.Traveler
	Logger   *log.Logger
}

// Outcome is the recorded result of one simulated run. Err is set for
// runs that panicked, jammed or failed the ledger fold check; such
// runs are excluded from averages but counted as error samples.
type Outcome struct {
	Index          int    `json:"index"`
	Seed           string `json:"seed"`
	Won            bool   `json:"won"`
	DomainsCleared int    `json:"domains_cleared"`
	RoomsCleared   int    `json:"rooms_cleared"`
	Items          int    `json:"items"`
	Gold           int    `json:"gold"`
	Heat           int    `json:"heat"`
	Events         int    `json:"events"`
	Err            string `json:"err,omitempty"`
}

// RunBatch evaluates one balance config under one policy across
// opts.Runs independent runs. Outcomes are returned in run-index order
// regardless of worker scheduling.
func RunBatch(cfg *balance.Config, cat *catalog.Table, opts BatchOptions) (Metrics, []Outcome, error) {
	if opts.Runs <= 0 {
		return Metrics{}, nil, fmt.Errorf("sim: batch needs a positive run count, got %d", opts.Runs)
	}
	if err := rng.ValidateSeed(opts.Seed); err != nil {
		return Metrics{}, nil, err
	}
	if !registry.Exists(opts.Policy) {
		return Metrics{}, nil, fmt.Errorf("sim: unknown policy %q (have %v)", opts.Policy, registry.List())
	}
	traveler := opts.Traveler
	if traveler.Name == "" {
		traveler = run.Travelers[0]
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > opts.Runs {
		workers = opts.Runs
	}

	gen := pool.New(cat, cfg)
	outcomes := make([]Outcome, opts.Runs)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = simulateRun(cfg, gen, opts, traveler, i)
			}
		}()
	}
	for i := 0; i < opts.Runs; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	m := Reduce(outcomes)
	if opts.Logger != nil {
		opts.Logger.Info("batch complete",
			"policy", opts.Policy,
			"runs", m.Runs,
			"win_rate", fmt.Sprintf("%.3f", m.WinRate),
			"avg_domains", fmt.Sprintf("%.2f", m.AvgDomainsCleared),
			"errors", m.Errors,
		)
	}
	return m, outcomes, nil
}

// simulateRun plays one thread to completion under a fresh policy
// instance. A panic anywhere in the run is caught and recorded; the
// batch keeps going.
func simulateRun(cfg *balance.Config, gen *pool.Generator, opts BatchOptions, traveler run.Traveler, index int) (out Outcome) {
	runSeed := fmt.Sprintf("%s:%d", opts.Seed, index)
	out = Outcome{Index: index, Seed: runSeed}

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Sprintf("panic: %v", r)
		}
	}()

	policy, err := registry.Create(opts.Policy)
	if err != nil {
		out.Err = err.Error()
		return out
	}
	st := rng.NewStream(runSeed, "policy:"+policy.Name())

	th := run.NewThread(cfg, gen)
	if err := th.Start(runSeed, traveler); err != nil {
		out.Err = err.Error()
		return out
	}

	shopSteps := 0
	for actions := 0; !th.Ended(); actions++ {
		if actions >= maxActions {
			out.Err = fmt.Sprintf("run jammed in phase %s after %d actions", th.Phase(), actions)
			return out
		}
		snap := th.Snapshot()

		switch th.Phase() {
		case run.PhasePlaying:
			score := policy.PlayRoom(st, snap)
			if score >= snap.ScoreGoal {
				err = th.ClearRoom(score)
			} else {
				err = th.LoseRoom()
			}

		case run.PhaseShop:
			var offers pool.Requisition
			offers, err = th.ShopOffers()
			if err != nil {
				break
			}
			act := policy.ShopAction(st, snap, offers)
			if shopSteps >= maxShopSteps {
				act = registry.ShopAction{Kind: registry.ShopContinue}
			}
			switch act.Kind {
			case registry.ShopBuy:
				shopSteps++
				err = th.BuyItem(act.Slug)
			case registry.ShopReroll:
				shopSteps++
				err = th.RerollShop()
			default:
				shopSteps = 0
				err = th.ShopContinue()
			}
			// a thin purse is an expected outcome, not a fault; the
			// policy simply leaves the shop
			if err != nil && isRecoverable(err) {
				shopSteps = 0
				err = th.ShopContinue()
			}

		case run.PhaseDoorSelect:
			var doors []pool.Door
			doors, err = th.OfferedDoors()
			if err != nil {
				break
			}
			choice := policy.ChooseDoor(st, snap, doors)
			if pickErr := th.PickDoor(choice); pickErr != nil {
				err = th.PickDoor(doors[0].Type)
			}

		case run.PhaseAuditWarning:
			err = th.AcknowledgeAudit()

		case run.PhaseEncounter:
			w, ok := th.Wanderer()
			if !ok {
				err = fmt.Errorf("sim: encounter phase with no wanderer")
				break
			}
			err = th.ResolveWandererChoice(policy.ChooseWanderer(st, snap, w))

		default:
			err = fmt.Errorf("sim: unhandled phase %s", th.Phase())
		}

		if err != nil {
			out.Err = fmt.Sprintf("phase %s: %v", snap.Phase, err)
			return out
		}
	}

	if err := th.Verify(); err != nil {
		out.Err = err.Error()
		return out
	}

	final := th.Snapshot()
	out.Won = final.Won
	out.DomainsCleared = final.DomainsCleared
	out.RoomsCleared = final.RoomsCleared
	out.Items = final.Items
	out.Gold = final.Gold
	out.Heat = final.Heat
	out.Events = final.LedgerLen
	return out
}

func isRecoverable(err error) bool {
	return errors.Is(err, run.ErrInsufficientGold) || errors.Is(err, run.ErrNotOffered)
}
