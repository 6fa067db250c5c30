package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/frogmud/neverdieguy-core/internal/balance"
	"github.com/frogmud/neverdieguy-core/internal/catalog"
	"github.com/frogmud/neverdieguy-core/internal/pool"
	"github.com/frogmud/neverdieguy-core/internal/run"
	"github.com/frogmud/neverdieguy-core/internal/storage"
)

// PlayModel is the Bubble Tea model for driving a single run by hand.
// It is a dev overlay: the room itself is not a game here, the player
// picks the score outcome directly and the model exercises every
// thread transition so the economy can be felt at the keyboard.
type PlayModel struct {
	cfg    *balance.Config
	gen    *pool.Generator
	store  *storage.Store // may be nil; saving is then disabled
	thread *run.Thread
	seed   string

	theme Theme
	keys  PlayKeyMap
	help  help.Model

	width  int
	height int

	cursor     int
	scoreDelta int    // offset from the goal applied to the next clear
	status     string // feedback from the last action

	saved   bool
	savedID int64

	quitting bool
}

// NewPlayModel creates a play model for the given seed. The thread
// starts in traveler selection.
func NewPlayModel(cfg *balance.Config, gen *pool.Generator, store *storage.Store, seed string) PlayModel {
	h := help.New()
	h.ShowAll = false

	return PlayModel{
		cfg:    cfg,
		gen:    gen,
		store:  store,
		thread: run.NewThread(cfg, gen),
		seed:   seed,
		theme:  DefaultTheme(),
		keys:   DefaultPlayKeyMap(),
		help:   h,
	}
}

// Init initializes the model.
func (m PlayModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and drives thread transitions.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.thread.Phase() {
	case run.PhaseEventSelect:
		return m.keyEventSelect(msg)
	case run.PhasePlaying:
		return m.keyPlaying(msg)
	case run.PhaseShop:
		return m.keyShop(msg)
	case run.PhaseDoorSelect:
		return m.keyDoorSelect(msg)
	case run.PhaseAuditWarning:
		if key.Matches(msg, m.keys.Select) {
			m.do(m.thread.AcknowledgeAudit())
		}
	case run.PhaseEncounter:
		return m.keyEncounter(msg)
	case run.PhaseGameOver:
		return m.keyGameOver(msg)
	}
	return m, nil
}

func (m PlayModel) keyEventSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, len(run.Travelers))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, len(run.Travelers))
	case key.Matches(msg, m.keys.Select):
		traveler := run.Travelers[m.cursor]
		if m.do(m.thread.Start(m.seed, traveler)) {
			m.status = fmt.Sprintf("thread started as %s, protocol roll %d",
				traveler.Name, m.thread.ProtocolRoll())
			m.cursor = 0
		}
	}
	return m, nil
}

func (m PlayModel) keyPlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Raise):
		m.scoreDelta += 5
	case key.Matches(msg, m.keys.Lower):
		m.scoreDelta -= 5
	case key.Matches(msg, m.keys.Select):
		score := m.thread.ScoreGoal() + m.scoreDelta
		if score < 0 {
			score = 0
		}
		goldBefore := m.thread.Gold
		if m.do(m.thread.ClearRoom(score)) {
			m.status = fmt.Sprintf("room cleared at %d, +%d gold", score, m.thread.Gold-goldBefore)
			m.scoreDelta = 0
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Lose):
		m.do(m.thread.LoseRoom())
	case key.Matches(msg, m.keys.Seek):
		if m.do(m.thread.SeekWanderer()) {
			m.status = ""
		}
	}
	return m, nil
}

func (m PlayModel) keyShop(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	offers, err := m.thread.ShopOffers()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, len(offers.Offers))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, len(offers.Offers))
	case key.Matches(msg, m.keys.Select):
		if len(offers.Offers) == 0 {
			break
		}
		slug := offers.Offers[m.cursor].Entry.Slug
		if m.do(m.thread.BuyItem(slug)) {
			m.status = fmt.Sprintf("bought %s for %d gold", slug, m.lastCost())
		}
	case key.Matches(msg, m.keys.Reroll):
		if m.do(m.thread.RerollShop()) {
			m.status = fmt.Sprintf("rerolled for %d gold", m.lastCost())
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Leave):
		if m.do(m.thread.ShopContinue()) {
			m.status = ""
			m.cursor = 0
		}
	}
	return m, nil
}

func (m PlayModel) keyDoorSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	doors, err := m.thread.OfferedDoors()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, len(doors))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, len(doors))
	case key.Matches(msg, m.keys.Select):
		door := doors[m.cursor]
		if m.do(m.thread.PickDoor(door.Type)) {
			m.status = fmt.Sprintf("took the %s door", door.Type)
			m.cursor = 0
		}
	}
	return m, nil
}

func (m PlayModel) keyEncounter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var choice run.WandererChoice
	switch {
	case key.Matches(msg, m.keys.Accept):
		choice = run.ChoiceAccept
	case key.Matches(msg, m.keys.Decline):
		choice = run.ChoiceDecline
	case key.Matches(msg, m.keys.Provoke):
		choice = run.ChoiceProvoke
	default:
		return m, nil
	}
	if m.do(m.thread.ResolveWandererChoice(choice)) {
		m.status = m.describeEncounterOutcome()
	}
	return m, nil
}

func (m PlayModel) keyGameOver(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Save) && m.store != nil && !m.saved {
		id, err := m.store.SaveRun(m.thread)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.saved = true
		m.savedID = id
		m.status = fmt.Sprintf("run saved as #%d", id)
	}
	if key.Matches(msg, m.keys.Select) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// do runs a transition, recording a failure in the status line.
// Returns true when the transition went through.
func (m *PlayModel) do(err error) bool {
	if err != nil {
		m.status = err.Error()
		return false
	}
	return true
}

func (m *PlayModel) moveCursor(delta, size int) {
	if size == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > size-1 {
		m.cursor = size - 1
	}
}

// lastCost reads the cost off the most recent ledger event.
func (m *PlayModel) lastCost() int {
	events := m.thread.Events()
	if len(events) == 0 {
		return 0
	}
	last := events[len(events)-1]
	switch last.Kind {
	case run.EventShopBuy:
		return last.ShopBuy.Cost
	case run.EventShopReroll:
		return last.ShopReroll.Cost
	}
	return 0
}

// describeEncounterOutcome summarizes the just-resolved encounter from
// its ledger event.
func (m *PlayModel) describeEncounterOutcome() string {
	events := m.thread.Events()
	if len(events) == 0 {
		return ""
	}
	last := events[len(events)-1]
	if last.Kind != run.EventWandererChoice {
		return ""
	}
	p := last.WandererChoice
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", p.NPCSlug, p.Choice)
	if p.Choice == run.ChoiceProvoke && p.DuelRoll > 0 {
		if p.DuelWon {
			fmt.Fprintf(&b, ", won the duel (rolled %d)", p.DuelRoll)
		} else {
			fmt.Fprintf(&b, ", lost the duel (rolled %d)", p.DuelRoll)
		}
	}
	fmt.Fprintf(&b, " (favor %+d, calm %+d, heat %+d, gold %+d)",
		p.Favor, p.Calm, p.Heat, p.Gold)
	return b.String()
}

// IsQuitting returns true if user requested to quit.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// Thread exposes the driven thread, for saving after the program exits.
func (m PlayModel) Thread() *run.Thread {
	return m.thread
}

// View renders the current phase.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	m.renderHeader(&b)

	switch m.thread.Phase() {
	case run.PhaseEventSelect:
		m.renderEventSelect(&b)
	case run.PhasePlaying:
		m.renderPlaying(&b)
	case run.PhaseShop:
		m.renderShop(&b)
	case run.PhaseDoorSelect:
		m.renderDoorSelect(&b)
	case run.PhaseAuditWarning:
		m.renderAuditWarning(&b)
	case run.PhaseEncounter:
		m.renderEncounter(&b)
	case run.PhaseGameOver:
		m.renderGameOver(&b)
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Status.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.phaseKeys()))
	b.WriteString("\n")
	return b.String()
}

func (m PlayModel) renderHeader(b *strings.Builder) {
	snap := m.thread.Snapshot()

	b.WriteString("\n  ")
	b.WriteString(m.theme.Title.Render("N E V E R   D I E   G U Y"))
	b.WriteString("  ")
	b.WriteString(m.theme.Subtitle.Render("seed " + m.seed))
	b.WriteString("\n\n")

	if snap.Traveler == "" {
		return
	}

	b.WriteString(fmt.Sprintf("  %s %s   %s %s %s   %s %s\n",
		m.theme.Label.Render("traveler"),
		m.theme.Value.Render(snap.Traveler),
		m.theme.Label.Render("domain"),
		m.theme.Value.Render(fmt.Sprintf("%s (%d/%d)", snap.Domain, snap.DomainIndex, balance.DomainCount)),
		m.theme.Subtitle.Render(fmt.Sprintf("room %d/%d", snap.RoomIndex, balance.RoomsPerDomain)),
		m.theme.Label.Render("tier"),
		m.theme.Value.Render(fmt.Sprintf("%d", snap.Tier)),
	))
	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s   %s %s   %s\n",
		m.theme.Label.Render("gold"),
		m.theme.Gold.Render(fmt.Sprintf("%d", snap.Gold)),
		m.theme.Label.Render("heat"),
		m.theme.Heat.Render(fmt.Sprintf("%d", snap.Heat)),
		m.theme.Label.Render("favor"),
		m.theme.Favor.Render(fmt.Sprintf("%d", snap.Favor)),
		m.theme.Label.Render("calm"),
		m.theme.Calm.Render(fmt.Sprintf("%d", snap.Calm)),
		m.theme.Subtitle.Render(fmt.Sprintf("power %d  guard %d  items %d  synergy %s",
			snap.Power, snap.Guard, snap.Items, snap.Synergy)),
	))
	b.WriteString("\n")
}

func (m PlayModel) renderEventSelect(b *strings.Builder) {
	b.WriteString("  Choose a traveler\n\n")
	for i, tr := range run.Travelers {
		line := fmt.Sprintf("  %s  (lucky number %d)", tr.Name, tr.LuckyNumber)
		b.WriteString("  ")
		b.WriteString(m.styleRow(i, line))
		b.WriteString("\n")
	}
}

func (m PlayModel) renderPlaying(b *strings.Builder) {
	goal := m.thread.ScoreGoal()
	score := goal + m.scoreDelta
	if score < 0 {
		score = 0
	}
	b.WriteString(fmt.Sprintf("  Room goal: %s\n", m.theme.Value.Render(fmt.Sprintf("%d", goal))))
	b.WriteString(fmt.Sprintf("  Next clear scores: %s  (adjust with +/-)\n", m.theme.Value.Render(fmt.Sprintf("%d", score))))
}

func (m PlayModel) renderShop(b *strings.Builder) {
	offers, err := m.thread.ShopOffers()
	if err != nil {
		b.WriteString("  " + err.Error() + "\n")
		return
	}

	b.WriteString(fmt.Sprintf("  Requisition shop  %s\n\n",
		m.theme.Subtitle.Render(fmt.Sprintf("effective tier %d, reroll costs %d",
			offers.Tier, m.cfg.RerollCost(m.thread.Calm)))))

	if len(offers.Offers) == 0 {
		b.WriteString("  " + m.theme.ItemDim.Render("Nothing available at this tier.") + "\n")
		return
	}
	for i, offer := range offers.Offers {
		line := fmt.Sprintf("  %-24s %-10s %s",
			offer.Entry.Name,
			offer.Entry.Rarity.String(),
			m.theme.Price.Render(fmt.Sprintf("%d gold", offer.Price)))
		b.WriteString("  ")
		b.WriteString(m.styleRow(i, line))
		b.WriteString("\n")
	}
	if offers.Underfilled {
		b.WriteString("\n  " + m.theme.ItemDim.Render("Pool underfilled at this tier.") + "\n")
	}
}

func (m PlayModel) renderDoorSelect(b *strings.Builder) {
	doors, err := m.thread.OfferedDoors()
	if err != nil {
		b.WriteString("  " + err.Error() + "\n")
		return
	}

	b.WriteString("  Choose a door\n\n")
	for i, door := range doors {
		label := m.theme.DoorStyle(door.Type).Render(strings.ToUpper(string(door.Type)))
		promises := ""
		if len(door.Promises) > 0 {
			parts := make([]string, len(door.Promises))
			for j, p := range door.Promises {
				parts[j] = string(p)
			}
			promises = m.theme.Subtitle.Render("  promises: " + strings.Join(parts, ", "))
		}
		b.WriteString("  ")
		b.WriteString(m.styleRow(i, "  "+label+promises))
		b.WriteString("\n")
	}
}

func (m PlayModel) renderAuditWarning(b *strings.Builder) {
	snap := m.thread.Snapshot()
	b.WriteString("  " + m.theme.DoorAudit.Render("AUDIT AHEAD") + "\n\n")
	b.WriteString(fmt.Sprintf("  The %s audit room is next. Boss goal scales with your heat (%d).\n",
		snap.Domain, snap.Heat))
	b.WriteString("  Press enter to step through.\n")
}

func (m PlayModel) renderEncounter(b *strings.Builder) {
	w, ok := m.thread.Wanderer()
	if !ok {
		b.WriteString("  The corridor is empty.\n")
		return
	}

	b.WriteString(fmt.Sprintf("  A wanderer: %s\n\n", m.theme.Value.Render(w.Name)))
	b.WriteString(fmt.Sprintf("  [a] accept   %s\n", m.theme.Subtitle.Render(describeEffect(w.Accept))))
	b.WriteString(fmt.Sprintf("  [d] decline  %s\n", m.theme.Subtitle.Render(describeEffect(w.Decline))))
	provoke := describeEffect(w.Provoke)
	if w.DuelDie > 0 {
		provoke += fmt.Sprintf(", duel d%d", w.DuelDie)
	}
	b.WriteString(fmt.Sprintf("  [p] provoke  %s\n", m.theme.Subtitle.Render(provoke)))
}

func (m PlayModel) renderGameOver(b *strings.Builder) {
	snap := m.thread.Snapshot()

	if snap.Won {
		b.WriteString("  " + m.theme.Win.Render("THREAD COMPLETE") + "\n\n")
	} else {
		b.WriteString("  " + m.theme.Loss.Render("THREAD SEVERED") + "\n\n")
	}
	b.WriteString(fmt.Sprintf("  domains cleared %d/%d   rooms %d   items %d   gold %d   events %d\n",
		snap.DomainsCleared, balance.DomainCount,
		snap.RoomsCleared, snap.Items, snap.Gold, snap.LedgerLen))
	if m.store != nil {
		if m.saved {
			b.WriteString(fmt.Sprintf("\n  Saved as run #%d. Press enter to exit.\n", m.savedID))
		} else {
			b.WriteString("\n  Press s to save this run, enter to exit.\n")
		}
	} else {
		b.WriteString("\n  Press enter to exit.\n")
	}
}

func (m PlayModel) styleRow(i int, line string) string {
	if i == m.cursor {
		return m.theme.ItemActive.Render("> " + line)
	}
	return m.theme.ItemNormal.Render("  " + line)
}

// phaseKeys returns the key map with only the current phase's
// bindings enabled, so help stays honest.
func (m PlayModel) phaseKeys() PlayKeyMap {
	k := m.keys
	all := []*key.Binding{
		&k.Up, &k.Down, &k.Select, &k.Lose, &k.Seek, &k.Reroll,
		&k.Leave, &k.Raise, &k.Lower, &k.Accept, &k.Decline,
		&k.Provoke, &k.Save,
	}
	for _, b := range all {
		b.SetEnabled(false)
	}

	switch m.thread.Phase() {
	case run.PhaseEventSelect:
		k.Up.SetEnabled(true)
		k.Down.SetEnabled(true)
		k.Select.SetEnabled(true)
	case run.PhasePlaying:
		k.Select.SetEnabled(true)
		k.Lose.SetEnabled(true)
		k.Seek.SetEnabled(true)
		k.Raise.SetEnabled(true)
		k.Lower.SetEnabled(true)
	case run.PhaseShop:
		k.Up.SetEnabled(true)
		k.Down.SetEnabled(true)
		k.Select.SetEnabled(true)
		k.Reroll.SetEnabled(true)
		k.Leave.SetEnabled(true)
	case run.PhaseDoorSelect:
		k.Up.SetEnabled(true)
		k.Down.SetEnabled(true)
		k.Select.SetEnabled(true)
	case run.PhaseAuditWarning:
		k.Select.SetEnabled(true)
	case run.PhaseEncounter:
		k.Accept.SetEnabled(true)
		k.Decline.SetEnabled(true)
		k.Provoke.SetEnabled(true)
	case run.PhaseGameOver:
		k.Select.SetEnabled(true)
		if m.store != nil && !m.saved {
			k.Save.SetEnabled(true)
		}
	}
	return k
}

// describeEffect renders a choice's counter deltas, omitting zeros.
func describeEffect(e catalog.ChoiceEffect) string {
	var parts []string
	if e.Favor != 0 {
		parts = append(parts, fmt.Sprintf("favor %+d", e.Favor))
	}
	if e.Calm != 0 {
		parts = append(parts, fmt.Sprintf("calm %+d", e.Calm))
	}
	if e.Heat != 0 {
		parts = append(parts, fmt.Sprintf("heat %+d", e.Heat))
	}
	if e.Gold != 0 {
		parts = append(parts, fmt.Sprintf("gold %+d", e.Gold))
	}
	if len(parts) == 0 {
		return "no effect"
	}
	return strings.Join(parts, ", ")
}

// RunPlay runs the interactive play overlay and returns the final
// thread, which may be mid-run if the player quit early.
func RunPlay(cfg *balance.Config, gen *pool.Generator, store *storage.Store, seed string) (*run.Thread, error) {
	model := NewPlayModel(cfg, gen, store, seed)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := finalModel.(PlayModel); ok {
		return m.Thread(), nil
	}
	return model.Thread(), nil
}
