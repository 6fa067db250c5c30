package sim

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/frogmud/neverdieguy-core/internal/balance"
	"github.com/frogmud/neverdieguy-core/internal/catalog"
	"github.com/frogmud/neverdieguy-core/internal/pool"
	"github.com/frogmud/neverdieguy-core/internal/registry"
	"github.com/frogmud/neverdieguy-core/internal/rng"
	"github.com/frogmud/neverdieguy-core/internal/run"
)

// explosive is a deliberately broken policy used to prove that one
// crashing run cannot take down a batch.
type explosive struct{}

func (explosive) Name() string { return "explosive-test" }
func (explosive) PlayRoom(*rng.Stream, run.Snapshot) int {
	panic("boom")
}
func (explosive) ShopAction(*rng.Stream, run.Snapshot, pool.Requisition) registry.ShopAction {
	return registry.ShopAction{Kind: registry.ShopContinue}
}
func (explosive) ChooseDoor(*rng.Stream, run.Snapshot, []pool.Door) pool.DoorType {
	return pool.DoorStable
}
func (explosive) ChooseWanderer(*rng.Stream, run.Snapshot, catalog.Wanderer) run.WandererChoice {
	return run.ChoiceDecline
}

func init() {
	registry.Register("explosive-test", func() registry.Policy { return explosive{} })
}

func testCatalog(t *testing.T) *catalog.Table {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return cat
}

func TestStockPoliciesRegistered(t *testing.T) {
	for _, name := range []string{"cautious", "balanced", "aggressive"} {
		if !registry.Exists(name) {
			t.Errorf("policy %q not registered", name)
		}
	}
	p, err := registry.Create("cautious")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name() != "cautious" {
		t.Errorf("policy name = %q, want cautious", p.Name())
	}
	if _, err := registry.Create("no-such-policy"); err == nil {
		t.Error("unknown policy name accepted")
	}
}

func TestRunBatchReproducible(t *testing.T) {
	cfg := balance.Default()
	cat := testCatalog(t)
	opts := BatchOptions{Runs: 20, Seed: "BATCH1", Policy: "balanced", Workers: 2}

	m1, out1, err := RunBatch(&cfg, cat, opts)
	if err != nil {
		t.Fatalf("first batch: %v", err)
	}
	m2, out2, err := RunBatch(&cfg, cat, opts)
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if !reflect.DeepEqual(out1, out2) {
		t.Error("same batch seed produced different outcomes")
	}
	if !reflect.DeepEqual(m1, m2) {
		t.Errorf("same batch seed produced different metrics:\n%+v\n%+v", m1, m2)
	}
	if m1.Errors != 0 {
		t.Errorf("stock policy produced %d error samples: %+v", m1.Errors, m1.ErrorSamples)
	}
}

func TestRunBatchWorkerCountInvariant(t *testing.T) {
	cfg := balance.Default()
	cat := testCatalog(t)

	var prev []Outcome
	for _, workers := range []int{1, 4} {
		_, out, err := RunBatch(&cfg, cat, BatchOptions{
			Runs: 16, Seed: "BATCH2", Policy: "aggressive", Workers: workers,
		})
		if err != nil {
			t.Fatalf("batch with %d workers: %v", workers, err)
		}
		if prev != nil && !reflect.DeepEqual(prev, out) {
			t.Error("worker count changed batch outcomes")
		}
		prev = out
	}
}

func TestRunBatchValidation(t *testing.T) {
	cfg := balance.Default()
	cat := testCatalog(t)

	if _, _, err := RunBatch(&cfg, cat, BatchOptions{Runs: 0, Seed: "X", Policy: "balanced"}); err == nil {
		t.Error("zero runs accepted")
	}
	if _, _, err := RunBatch(&cfg, cat, BatchOptions{Runs: 1, Seed: "", Policy: "balanced"}); err == nil {
		t.Error("empty seed accepted")
	}
	if _, _, err := RunBatch(&cfg, cat, BatchOptions{Runs: 1, Seed: "X", Policy: "nope"}); err == nil {
		t.Error("unknown policy accepted")
	}
}

func TestPanicsAreIsolatedPerRun(t *testing.T) {
	cfg := balance.Default()
	cat := testCatalog(t)

	m, out, err := RunBatch(&cfg, cat, BatchOptions{
		Runs: 5, Seed: "BOOM1", Policy: "explosive-test", Workers: 2,
	})
	if err != nil {
		t.Fatalf("batch aborted instead of isolating panics: %v", err)
	}
	if m.Errors != 5 {
		t.Errorf("errors = %d, want 5", m.Errors)
	}
	for _, o := range out {
		if o.Err == "" {
			t.Errorf("run %d missing error record", o.Index)
		}
	}
	if len(m.ErrorSamples) == 0 {
		t.Fatal("no error samples recorded")
	}
	if m.ErrorSamples[0].Seed == "" {
		t.Error("error sample missing the per-run seed needed for reproduction")
	}
}

func TestReduceAverages(t *testing.T) {
	outcomes := []Outcome{
		{Index: 0, Seed: "S:0", Won: true, DomainsCleared: 6, RoomsCleared: 18, Items: 4, Gold: 100, Heat: 2},
		{Index: 1, Seed: "S:1", Won: true, DomainsCleared: 6, RoomsCleared: 18, Items: 6, Gold: 200, Heat: 4},
		{Index: 2, Seed: "S:2", Won: false, DomainsCleared: 2, RoomsCleared: 7, Items: 2, Gold: 60, Heat: 0},
		{Index: 3, Seed: "S:3", Err: "phase playing: boom"},
	}
	m := Reduce(outcomes)

	if m.Runs != 4 || m.Wins != 2 || m.Losses != 1 || m.Errors != 1 {
		t.Errorf("counts = runs=%d wins=%d losses=%d errors=%d", m.Runs, m.Wins, m.Losses, m.Errors)
	}
	if got, want := m.WinRate, 2.0/3.0; got != want {
		t.Errorf("win rate = %v, want %v", got, want)
	}
	if got, want := m.AvgItems, 4.0; got != want {
		t.Errorf("avg items = %v, want %v", got, want)
	}
	if got, want := m.AvgGold, 120.0; got != want {
		t.Errorf("avg gold = %v, want %v", got, want)
	}
	if got, want := m.DomainSurvival[0], 1.0; got != want {
		t.Errorf("domain 1 survival = %v, want %v", got, want)
	}
	if got, want := m.DomainSurvival[5], 2.0/3.0; got != want {
		t.Errorf("domain 6 survival = %v, want %v", got, want)
	}
	if len(m.ErrorSamples) != 1 || m.ErrorSamples[0].Index != 3 {
		t.Errorf("error samples = %+v", m.ErrorSamples)
	}
}

func TestFitnessZeroAtTargets(t *testing.T) {
	targets := balance.Default().Targets
	m := Metrics{
		WinRate:           targets.WinRate,
		AvgDomainsCleared: targets.AvgDomainsCleared,
		AvgItems:          targets.AvgItemsPerRun,
	}
	if got := Fitness(m, targets); got != 0 {
		t.Errorf("fitness at targets = %v, want 0", got)
	}
	m.WinRate = 0
	if got := Fitness(m, targets); got <= 0 {
		t.Errorf("fitness off targets = %v, want > 0", got)
	}
}

func TestMutateConfigStaysValid(t *testing.T) {
	base := balance.Default()
	for i := 0; i < 25; i++ {
		st := rng.NewStream("MUT001", fmt.Sprintf("case:%d", i))
		c := mutateConfig(base, st)
		if err := c.Validate(); err != nil {
			t.Fatalf("mutation %d produced invalid config: %v", i, err)
		}
	}
	// mutation must never alias the parent's slices
	st := rng.NewStream("MUT001", "alias")
	before := base.Rewards.BaseByTier[0]
	_ = mutateConfig(base, st)
	if base.Rewards.BaseByTier[0] != before {
		t.Error("mutation wrote through to the parent config")
	}
}

func TestTuneKeepsBestViaElitism(t *testing.T) {
	base := balance.Default()
	cat := testCatalog(t)
	opts := TuneOptions{
		Generations:      2,
		Population:       3,
		RunsPerCandidate: 10,
		Seed:             "TUNE01",
		Policy:           "balanced",
		Workers:          2,
	}

	result, err := Tune(cat, base, opts)
	if err != nil {
		t.Fatalf("tune: %v", err)
	}
	if result.Generations != 2 || len(result.History) != 2 {
		t.Errorf("generations = %d, history = %v", result.Generations, result.History)
	}
	if result.History[1] > result.History[0] {
		t.Errorf("best-so-far fitness rose: %v", result.History)
	}
	if err := result.Best.Validate(); err != nil {
		t.Errorf("winning config invalid: %v", err)
	}

	// the seed candidate is in generation zero, so the winner can
	// never score worse than the base config on the same batches
	m, _, err := RunBatch(&base, cat, BatchOptions{
		Runs: 10, Seed: "TUNE01", Policy: "balanced", Workers: 2,
	})
	if err != nil {
		t.Fatalf("baseline batch: %v", err)
	}
	if baseFit := Fitness(m, base.Targets); result.BestFitness > baseFit {
		t.Errorf("tuned fitness %v worse than base %v", result.BestFitness, baseFit)
	}
}

func TestTuneIsReproducible(t *testing.T) {
	base := balance.Default()
	cat := testCatalog(t)
	opts := TuneOptions{
		Generations:      2,
		Population:       3,
		RunsPerCandidate: 8,
		Seed:             "TUNE02",
		Policy:           "cautious",
	}

	a, err := Tune(cat, base, opts)
	if err != nil {
		t.Fatalf("first session: %v", err)
	}
	b, err := Tune(cat, base, opts)
	if err != nil {
		t.Fatalf("second session: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different tuning sessions")
	}
}
