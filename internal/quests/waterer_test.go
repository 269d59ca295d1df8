package quests

import (
	"math"
	"slices"
	"testing"

	"github.com/lawnchairsociety/questabletractor/internal/config"
	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/host/hosttest"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
)

func newWatererFixture(tractorUnlocked bool) (*fixture, *Waterer, *Harpoon) {
	f := newFixture()
	d := f.deps()
	hp := NewHarpoon(d)
	w := NewWaterer(d, config.DefaultConfig().Fishing, hp, func() bool { return tractorUnlocked })
	return f, w, hp
}

func TestWatererCatchChance(t *testing.T) {
	tests := []struct {
		name      string
		unlocked  bool
		started   bool
		totalDays int
		want      float64
	}{
		{"tractor broken", false, false, 100, 0.01},
		{"tractor running", true, false, 100, 0.51},
		{"first day", true, false, 0, 0.01},
		{"already landed", true, true, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, w, _ := newWatererFixture(tt.unlocked)
			if tt.started {
				f.store.Set(KeyWaterer, WatererNoCluesYet.String())
			}
			if got := w.CatchChance(tt.totalDays); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CatchChance(%d) = %v, want %v", tt.totalDays, got, tt.want)
			}
		})
	}
}

func TestRollCatchOffFarm(t *testing.T) {
	f, w, _ := newWatererFixture(true)
	f.rng.floats = []float64{0}

	if _, ok := w.RollCatch(Cast{PlayerID: hosttest.Owner, OnFarm: false, HeldTool: ToolHarpoon, TotalDays: 50}); ok {
		t.Error("casts off the farm are never overridden")
	}
}

func TestRollCatchSnagStartsHarpoonQuest(t *testing.T) {
	f, w, hp := newWatererFixture(false)
	f.rng.floats = []float64{0.005}

	item, ok := w.RollCatch(Cast{PlayerID: hosttest.Owner, OnFarm: true, HeldTool: "BambooPole", TotalDays: 10})

	if !ok || item != ItemFishingJunk {
		t.Fatalf("RollCatch = %q, %v; want junk", item, ok)
	}
	if hp.OverallState() != quest.InProgress {
		t.Fatalf("harpoon quest state = %v", hp.OverallState())
	}
	if len(f.host.HUD) != 1 || f.host.HUD[0] != f.txt.Get("fishing.snag") {
		t.Errorf("HUD = %v", f.host.HUD)
	}

	f.host.Reset()
	f.rng.floats = []float64{0.005}
	w.RollCatch(Cast{PlayerID: hosttest.Owner, OnFarm: true, TotalDays: 10})
	if len(f.host.HUD) != 0 || f.host.CountSound(host.SoundQuestAdded) != 0 {
		t.Error("a second snag must not restart the harpoon quest")
	}
}

func TestRollCatchNoSnag(t *testing.T) {
	_, w, hp := newWatererFixture(false)

	if _, ok := w.RollCatch(Cast{PlayerID: hosttest.Owner, OnFarm: true, TotalDays: 10}); ok {
		t.Error("a miss should leave the catch alone")
	}
	if hp.OverallState() != quest.NotStarted {
		t.Error("harpoon quest should not start on a miss")
	}
}

func TestRollCatchWithHarpoon(t *testing.T) {
	f, w, hp := newWatererFixture(true)
	hp.StartQuest()
	hp.SetStage(HarpoonCatchTheBigOne)
	cast := Cast{PlayerID: hosttest.Owner, OnFarm: true, HeldTool: ToolHarpoon, TotalDays: 30}

	f.rng.floats = []float64{0.5}
	f.rng.ints = []int{1}
	item, ok := w.RollCatch(cast)
	if !ok || item != ItemFishingJunk {
		t.Fatalf("miss = %q, %v; want junk", item, ok)
	}
	if len(f.host.HUD) == 0 || f.host.HUD[len(f.host.HUD)-1] != f.txt.Get("fishing.miss.1") {
		t.Errorf("HUD = %v", f.host.HUD)
	}
	if f.host.CountSound(host.SoundClank) != 1 {
		t.Error("expected the clank")
	}

	f.rng.floats = []float64{0.1}
	item, ok = w.RollCatch(cast)
	if !ok || item != ObjBustedWaterer {
		t.Fatalf("catch = %q, %v; want the busted waterer", item, ok)
	}
	if s, _ := hp.Stage(); s != HarpoonReturnThePole {
		t.Errorf("harpoon stage = %v, want ReturnThePole", s)
	}
	if f.host.CountSound(host.SoundBigCatch) != 1 {
		t.Error("expected the big-catch cue")
	}
}

func TestRollCatchAfterLanding(t *testing.T) {
	f, w, _ := newWatererFixture(true)
	f.store.Set(KeyWaterer, WatererRobinFingered.String())
	f.rng.floats = []float64{0}

	if _, ok := w.RollCatch(Cast{PlayerID: hosttest.Owner, OnFarm: true, HeldTool: ToolHarpoon, TotalDays: 30}); ok {
		t.Error("nothing more to catch once the waterer is landed")
	}
}

func TestWatererAnnounce(t *testing.T) {
	f, w, _ := newWatererFixture(true)
	w.OnDayStarted()

	f.pickUp(hosttest.Owner, ObjBustedWaterer)

	if w.OverallState() != quest.InProgress {
		t.Fatalf("state = %v", w.OverallState())
	}
	if len(f.host.HeldUp) != 0 {
		t.Error("a fished-up waterer is not held up")
	}
	if f.host.LastMessage() != f.txt.Get("waterer.found") {
		t.Errorf("message = %q", f.host.LastMessage())
	}
}

func TestWatererNarrative(t *testing.T) {
	f, w, _ := newWatererFixture(true)
	owner := hosttest.Owner
	w.OnDayStarted()
	f.pickUp(owner, ObjBustedWaterer)

	expectStage := func(want WatererStage) {
		t.Helper()
		if got, _ := w.Stage(); got != want {
			t.Fatalf("stage = %v, want %v", got, want)
		}
	}

	w.OnInteraction("Gus", ObjBustedWaterer)
	expectStage(WatererRobinFingered)
	w.OnInteraction("Clint", ObjBustedWaterer)
	expectStage(WatererRobinFingered)

	w.OnInteraction("Robin", ObjBustedWaterer)
	expectStage(WatererMaruFingered)
	w.OnInteraction("Demetrius", ObjBustedWaterer)
	expectStage(WatererMaruFingered)

	w.OnInteraction("Maru", ObjBustedWaterer)
	expectStage(WatererGetGoldBars)

	f.host.Give(owner, ItemGoldBar, 9)
	w.OnInteraction("Maru", ObjBustedWaterer)
	expectStage(WatererGetGoldBars)
	if !f.host.HasLineContaining("Maru", "gold bars yet") {
		t.Errorf("Maru said %v", f.host.SaidBy("Maru"))
	}

	f.host.Give(owner, ItemGoldBar, 1)
	w.OnInteraction("Maru", ObjBustedWaterer)
	expectStage(WatererWaitForMaruDay1)
	if f.host.Count(owner, ItemGoldBar) != 0 || f.host.Count(owner, ObjBustedWaterer) != 0 {
		t.Error("Maru should take the waterer and the gold")
	}

	w.OnInteraction("Maru", "")
	if !f.host.HasLineContaining("Maru", "day after tomorrow") {
		t.Error("Maru should give a status line")
	}

	sleep(w)
	expectStage(WatererWaitForMaruDay2)
	if !slices.Contains(f.host.MailTomorrow, MailWatererRepaired) {
		t.Error("expected the repaired-waterer mail")
	}

	sleep(w)
	expectStage(WatererWaitForMaruDay2)
	f.pickUp(owner, ObjWorkingWaterer)
	expectStage(WatererInstallPart)
	if f.host.LastMessage() != f.txt.Get("waterer.got_working") {
		t.Errorf("message = %q", f.host.LastMessage())
	}
}

func TestDemetriusPointsStraightToMaru(t *testing.T) {
	f, w, _ := newWatererFixture(true)
	w.OnDayStarted()
	f.pickUp(hosttest.Owner, ObjBustedWaterer)

	w.OnInteraction("Demetrius", ObjBustedWaterer)

	if s, _ := w.Stage(); s != WatererMaruFingered {
		t.Errorf("stage = %v, want MaruFingered", s)
	}
}
