package orchestrator

import (
	"maps"
	"slices"
	"testing"

	"github.com/lawnchairsociety/questabletractor/internal/attachments"
	"github.com/lawnchairsociety/questabletractor/internal/config"
	"github.com/lawnchairsociety/questabletractor/internal/gametime"
	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/host/hosttest"
	"github.com/lawnchairsociety/questabletractor/internal/inventory"
	"github.com/lawnchairsociety/questabletractor/internal/moddata"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
	"github.com/lawnchairsociety/questabletractor/internal/quests"
)

// scriptedRand returns queued values, then 0.99 and 0.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0] % n
	r.ints = r.ints[1:]
	return i
}

type harness struct {
	o       *Orchestrator
	store   *moddata.Data
	host    *hosttest.Host
	feed    *inventory.Feed
	rng     *scriptedRand
	configs []attachments.Config
}

func newHarness(t *testing.T, seed map[string]string) *harness {
	t.Helper()
	h := &harness{
		store: moddata.New(hosttest.Owner),
		host:  hosttest.New(),
		feed:  inventory.NewFeed(),
		rng:   &scriptedRand{},
	}
	h.store.Load(hosttest.Owner, seed)
	// A clump keeps part placement off the random source.
	h.host.ClumpList = []host.Clump{{Kind: host.ClumpStump, Tile: host.Tile{X: 3, Y: 9}}}

	defaults := config.DefaultConfig()
	o, err := New(Config{
		Store:    h.store,
		Host:     h.host,
		Watcher:  inventory.NewRegistry(h.feed, h.host, h.host),
		Rand:     h.rng,
		Hints:    defaults.Hints,
		Fishing:  defaults.Fishing,
		OnConfig: func(c attachments.Config) { h.configs = append(h.configs, c) },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.o = o
	return h
}

// sunday returns the nth Sunday of spring in year one.
func sunday(n int) gametime.Date {
	return gametime.Date{Year: 1, Season: gametime.Spring, Day: 7 * n}
}

func TestNewRejectsUnknownWeekday(t *testing.T) {
	h := hosttest.New()
	_, err := New(Config{
		Store:   moddata.New(hosttest.Owner),
		Host:    h,
		Watcher: inventory.NewRegistry(inventory.NewFeed(), h, h),
		Hints:   config.HintsConfig{DayOfWeek: "Caturday"},
	})
	if err == nil {
		t.Error("expected an error for an unknown weekday")
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{Hints: config.DefaultConfig().Hints}); err == nil {
		t.Error("expected an error without a store, host and watcher")
	}
}

func TestDayStartedIsOrderIndependent(t *testing.T) {
	seed := map[string]string{
		quests.KeyRestore: quests.RestoreWaitForEngineInstall.String(),
	}
	run := func(reverse bool) *harness {
		h := newHarness(t, seed)
		h.host.Garage = true
		h.host.Hearts["George"] = 5
		if reverse {
			slices.Reverse(h.o.controllers)
		}
		date := gametime.Date{Year: 1, Season: gametime.Summer, Day: 3}
		h.o.DayStarted(date)
		h.o.DayEnding()
		h.o.DayStarted(date.Next())
		return h
	}

	forward, backward := run(false), run(true)

	if !maps.Equal(forward.store.Snapshot(), backward.store.Snapshot()) {
		t.Errorf("store differs:\n forward  %v\n backward %v", forward.store.Snapshot(), backward.store.Snapshot())
	}
	fm, bm := slices.Clone(forward.host.Mailbox), slices.Clone(backward.host.Mailbox)
	slices.Sort(fm)
	slices.Sort(bm)
	if !slices.Equal(fm, bm) {
		t.Errorf("mail differs: forward %v, backward %v", fm, bm)
	}
	if !slices.Contains(fm, quests.MailGeorgeSeeder) {
		t.Error("George should write the morning after the tractor runs")
	}
}

func TestSeederMailWaitsForTheNextMorning(t *testing.T) {
	h := newHarness(t, map[string]string{
		quests.KeyRestore: quests.RestoreWaitForEngineInstall.String(),
	})
	h.host.Garage = true
	h.host.Hearts["George"] = 5

	h.o.DayStarted(gametime.Date{Year: 1, Season: gametime.Summer, Day: 3})

	if !h.o.Restore().IsTractorUnlocked() {
		t.Fatal("the engine should be installed this morning")
	}
	if slices.Contains(h.host.Mailbox, quests.MailGeorgeSeeder) {
		t.Error("George's letter must not arrive the same morning")
	}
	if !h.o.Config().TractorEnabled {
		t.Error("the tractor should be enabled right away")
	}
}

func TestHints(t *testing.T) {
	allDone := map[string]string{
		quests.KeyRestore:   quest.CompletedValue,
		quests.KeyLoader:    quest.CompletedValue,
		quests.KeyHarvester: quest.CompletedValue,
		quests.KeySeeder:    quest.CompletedValue,
		quests.KeyWaterer:   quest.CompletedValue,
	}

	tests := []struct {
		name string
		date gametime.Date
		seed map[string]string
		pick int
		want string
	}{
		{"not the hint day", gametime.Date{Year: 1, Season: gametime.Spring, Day: 15}, nil, 0, ""},
		{"first week", sunday(1), nil, 0, ""},
		{"tractor not found", sunday(2), nil, 0, quests.TopicTractorNotFound},
		{"first missing part", sunday(2), map[string]string{quests.KeyRestore: "TalkToLewis"}, 0, quests.TopicLoaderNotFound},
		{"second missing part", sunday(3), map[string]string{quests.KeyRestore: "TalkToLewis"}, 1, quests.TopicScytheNotFound},
		{"loader already found", sunday(2), map[string]string{
			quests.KeyRestore: "TalkToLewis",
			quests.KeyLoader:  quests.LoaderTalkToClint.String(),
		}, 0, quests.TopicScytheNotFound},
		{"everything found", sunday(4), allDone, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.seed)
			h.rng.ints = []int{tt.pick}
			h.host.Garage = true

			h.o.DayStarted(tt.date)

			if tt.want == "" {
				if len(h.host.Topics) != 0 {
					t.Errorf("topics = %v, want none", h.host.Topics)
				}
				return
			}
			if len(h.host.Topics) != 1 {
				t.Fatalf("topics = %v, want only %s", h.host.Topics, tt.want)
			}
			if days, ok := h.host.Topics[tt.want]; !ok || days != 4 {
				t.Errorf("topics = %v, want %s for 4 days", h.host.Topics, tt.want)
			}
		})
	}
}

func TestTickInstallsPart(t *testing.T) {
	h := newHarness(t, map[string]string{
		quests.KeyRestore: quest.CompletedValue,
		quests.KeyLoader:  quests.LoaderInstallTheLoader.String(),
	})
	h.o.DayStarted(gametime.Date{Year: 1, Season: gametime.Summer, Day: 3})
	h.host.Give(hosttest.Owner, quests.ObjWorkingLoader, 1)
	pushed := len(h.configs)

	if h.o.Tick(hosttest.Owner, quests.ObjWorkingLoader, false) {
		t.Error("outside the garage nothing happens")
	}
	if h.o.Tick("farmhand", quests.ObjWorkingLoader, true) {
		t.Error("only the owner installs parts")
	}
	if h.o.Tick(hosttest.Owner, "", true) {
		t.Error("empty hands install nothing")
	}
	if !h.o.Tick(hosttest.Owner, quests.ObjWorkingLoader, true) {
		t.Fatal("holding the loader in the garage should install it")
	}

	if len(h.configs) != pushed+1 {
		t.Fatalf("configs pushed = %d, want %d", len(h.configs), pushed+1)
	}
	last := h.configs[len(h.configs)-1]
	if !last.Enabled(attachments.Axe) || !last.Enabled(attachments.PickAxe) {
		t.Error("the loader unlocks the axe and pickaxe")
	}
	if h.host.Count(hosttest.Owner, quests.ObjWorkingLoader) != 0 {
		t.Error("the installed part leaves the inventory")
	}
	if h.o.Tick(hosttest.Owner, quests.ObjWorkingLoader, true) {
		t.Error("a finished quest cannot complete twice")
	}
}

func TestInteractionFansOut(t *testing.T) {
	h := newHarness(t, map[string]string{quests.KeyRestore: "TalkToLewis"})
	h.o.DayStarted(gametime.Date{Year: 1, Season: gametime.Spring, Day: 2})

	if h.o.Interaction("Pam", "") {
		t.Error("no quest cares about Pam")
	}
	if !h.o.Interaction("Lewis", "") {
		t.Error("Lewis should move the restoration along")
	}
	if s, _ := h.o.Restore().Stage(); s != quests.RestoreTalkToSebastian {
		t.Errorf("stage = %v, want TalkToSebastian", s)
	}
}

func TestInspectDerelict(t *testing.T) {
	h := newHarness(t, nil)
	h.o.DayStarted(gametime.FirstDay)

	if h.o.InspectDerelict("farmhand") {
		t.Error("a farmhand cannot start the quest")
	}
	if !h.o.InspectDerelict(hosttest.Owner) {
		t.Fatal("the owner starts the quest")
	}
	if h.o.InspectDerelict(hosttest.Owner) {
		t.Error("the quest only starts once")
	}
	if h.o.Restore().OverallState() != quest.InProgress {
		t.Errorf("state = %v", h.o.Restore().OverallState())
	}
}

func TestConfigPushedOnlyOnChange(t *testing.T) {
	h := newHarness(t, nil)

	h.o.Loaded()
	h.o.Recompute()
	h.o.DayStarted(gametime.FirstDay)
	if len(h.configs) != 1 {
		t.Errorf("configs pushed = %d, want 1", len(h.configs))
	}

	h.o.Loaded()
	if len(h.configs) != 2 {
		t.Errorf("a save load always pushes, got %d", len(h.configs))
	}
	if h.configs[1].TractorEnabled {
		t.Error("nothing is unlocked on a fresh save")
	}
}

func TestFishUsesToday(t *testing.T) {
	h := newHarness(t, map[string]string{quests.KeyRestore: quest.CompletedValue})
	h.o.DayStarted(gametime.Date{Year: 1, Season: gametime.Summer, Day: 2})

	// base 0.01 + 29/200 = 0.155
	h.rng.floats = []float64{0.1}
	item, ok := h.o.Fish(quests.Cast{PlayerID: hosttest.Owner, OnFarm: true, HeldTool: "BambooPole"})

	if !ok || item != quests.ItemFishingJunk {
		t.Fatalf("Fish() = %q, %v; want junk", item, ok)
	}
	for _, s := range h.o.Status() {
		if s.Kind == quests.KindHarpoon && s.State != quest.InProgress {
			t.Errorf("harpoon quest state = %v, want InProgress", s.State)
		}
	}
}

func TestStatus(t *testing.T) {
	h := newHarness(t, map[string]string{
		quests.KeyRestore: quest.CompletedValue,
		quests.KeyLoader:  quests.LoaderTalkToClint.String(),
	})

	got := h.o.Status()

	wantKinds := []string{quests.KindRestore, quests.KindLoader, quests.KindHarvester, quests.KindSeeder, quests.KindWaterer, quests.KindHarpoon}
	if len(got) != len(wantKinds) {
		t.Fatalf("Status() returned %d entries", len(got))
	}
	for i, s := range got {
		if s.Kind != wantKinds[i] {
			t.Errorf("entry %d kind = %q, want %q", i, s.Kind, wantKinds[i])
		}
	}
	if got[0].State != quest.Completed || got[1].State != quest.InProgress || got[2].State != quest.NotStarted {
		t.Errorf("states = %v %v %v", got[0].State, got[1].State, got[2].State)
	}
	if got[1].Value != quests.LoaderTalkToClint.String() {
		t.Errorf("loader value = %q", got[1].Value)
	}
}

func TestInvalidDateAssumesNextMorning(t *testing.T) {
	h := newHarness(t, nil)
	if h.o.Today() != gametime.FirstDay {
		t.Errorf("Today() before any morning = %v", h.o.Today())
	}

	h.o.DayStarted(gametime.Date{Year: 1, Season: gametime.Summer, Day: 3})
	h.o.DayEnding()
	h.o.DayStarted(gametime.Date{Year: 1, Season: gametime.Summer, Day: 40})

	if want := (gametime.Date{Year: 1, Season: gametime.Summer, Day: 4}); h.o.Today() != want {
		t.Errorf("Today() = %v, want %v", h.o.Today(), want)
	}
}
