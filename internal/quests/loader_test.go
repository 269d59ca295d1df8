package quests

import (
	"bytes"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/host/hosttest"
	"github.com/lawnchairsociety/questabletractor/internal/logger"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
)

func newLoaderFixture() (*fixture, *Loader) {
	f := newFixture()
	f.host.ClumpList = []host.Clump{{Kind: host.ClumpBoulder, Tile: host.Tile{X: 5, Y: 9}}}
	return f, NewLoader(f.deps())
}

func TestLoaderFreshStart(t *testing.T) {
	f, l := newLoaderFixture()

	if l.OverallState() != quest.NotStarted {
		t.Fatalf("state = %v, want NotStarted", l.OverallState())
	}

	l.OnDayStarted()

	if !f.registry.IsWatching(ObjBustedLoader) {
		t.Error("expected a watch on the busted loader")
	}
	if len(f.host.Quests) != 0 {
		t.Errorf("no quest should be registered, got %v", f.host.QuestIDs())
	}
	if _, ok := f.host.Objects[ObjBustedLoader]; !ok {
		t.Error("busted loader should be hidden on the farm")
	}
}

func TestLoaderPickupStartsQuest(t *testing.T) {
	f, l := newLoaderFixture()
	l.OnDayStarted()

	f.pickUp(hosttest.Owner, ObjBustedLoader)

	if l.OverallState() != quest.InProgress {
		t.Fatalf("state = %v, want InProgress", l.OverallState())
	}
	if s, _ := l.Stage(); s != LoaderTalkToClint {
		t.Errorf("stage = %v, want TalkToClint", s)
	}
	if f.registry.IsWatching(ObjBustedLoader) {
		t.Error("busted loader watch should be removed")
	}
	for _, id := range []string{ObjWorkingLoader, ObjAlexesOldShoe, ObjDisguisedShoe} {
		if !f.registry.IsWatching(id) {
			t.Errorf("expected a watch on %s", id)
		}
	}
	if info, ok := f.host.Quests[KindLoader]; !ok || !info.IsNew || info.Title != "Fix the loader" {
		t.Errorf("quest log entry = %+v (present %v)", info, ok)
	}
	if f.host.CountSound(host.SoundQuestAdded) != 1 {
		t.Error("expected the new-quest cue")
	}
}

func TestLoaderNonOwnerPickup(t *testing.T) {
	f, l := newLoaderFixture()
	l.OnDayStarted()

	f.pickUp("farmhand", ObjBustedLoader)

	if l.OverallState() != quest.NotStarted {
		t.Errorf("state = %v, want NotStarted", l.OverallState())
	}
	if _, ok := f.store.Get(KeyLoader); ok {
		t.Error("non-owner pickup must not write the store")
	}
	if f.host.Count("farmhand", ObjBustedLoader) != 0 {
		t.Error("busted loader should be taken back from the farmhand")
	}
	if len(f.host.Confiscations) != 1 {
		t.Errorf("confiscations = %+v", f.host.Confiscations)
	}
	if !f.registry.IsWatching(ObjBustedLoader) {
		t.Error("watch should remain armed")
	}
}

func TestLoaderCompletion(t *testing.T) {
	f, l := newLoaderFixture()
	f.store.Set(KeyLoader, LoaderInstallTheLoader.String())
	l.OnDayStarted()
	f.host.Give(hosttest.Owner, ObjWorkingLoader, 1)

	if l.CheckHeldItemAgainstGarage(hosttest.Owner, ObjBustedLoader) {
		t.Error("holding some other item must not complete")
	}
	if !l.CheckHeldItemAgainstGarage(hosttest.Owner, ObjWorkingLoader) {
		t.Fatal("expected completion")
	}

	if v, _ := f.store.Get(KeyLoader); v != quest.CompletedValue {
		t.Errorf("stored value = %q, want %q", v, quest.CompletedValue)
	}
	if f.host.Count(hosttest.Owner, ObjWorkingLoader) != 0 {
		t.Error("one working loader should be removed")
	}
	if !strings.HasPrefix(f.host.LastMessage(), "Sweet!") {
		t.Errorf("completion message = %q", f.host.LastMessage())
	}
	if len(f.host.Quests) != 0 {
		t.Errorf("quest log should be empty, got %v", f.host.QuestIDs())
	}
}

func TestLoaderDayEndPersistence(t *testing.T) {
	f, l := newLoaderFixture()
	l.OnDayStarted()
	f.pickUp(hosttest.Owner, ObjBustedLoader)
	l.SetStage(LoaderGiveShoesToClint)

	l.OnDayEnding()

	if v, _ := f.store.Get(KeyLoader); v != "GiveShoesToClint" {
		t.Errorf("stored value = %q, want GiveShoesToClint", v)
	}
	if l.Quest() != nil {
		t.Error("live quest should be discarded at day end")
	}
	if f.registry.Watched() != 0 {
		t.Errorf("watches left after day end: %d", f.registry.Watched())
	}

	f.host.Reset()
	l.OnDayStarted()

	if s, _ := l.Stage(); s != LoaderGiveShoesToClint {
		t.Errorf("stage = %v after replay", s)
	}
	if q := l.Quest(); q == nil || q.IsNew() || !q.Viewed() {
		t.Error("replayed quest should be live, not new, and viewed")
	}
	if n := f.host.CountSound(host.SoundQuestProgressed); n != 0 {
		t.Errorf("replay played %d progress cues", n)
	}
	if f.registry.IsWatching(ObjAlexesOldShoe) {
		t.Error("old shoes are already found; no watch expected")
	}
	if !f.registry.IsWatching(ObjWorkingLoader) {
		t.Error("working loader watch should be rearmed")
	}
}

func TestLoaderDayStartedTwice(t *testing.T) {
	f, l := newLoaderFixture()
	f.store.Set(KeyLoader, LoaderFindSomeShoes.String())
	l.OnDayStarted()
	first := l.Quest()
	watched := f.registry.Watched()

	l.OnDayStarted()

	if l.Quest() != first {
		t.Error("second day start must keep the live quest")
	}
	if f.registry.Watched() != watched {
		t.Errorf("watches = %d, want %d", f.registry.Watched(), watched)
	}
}

func TestLoaderCorruptStateStaysInProgress(t *testing.T) {
	var buf bytes.Buffer
	restore := logger.Capture(&buf, slog.LevelDebug)
	defer restore()

	f, l := newLoaderFixture()
	f.store.Set(KeyLoader, "Bogus")
	l.OnDayStarted()

	if l.OverallState() != quest.InProgress {
		t.Errorf("state = %v, want InProgress", l.OverallState())
	}
	if s, err := l.Stage(); err != nil || s != LoaderTalkToClint {
		t.Errorf("Stage() = %v, %v; want the starting stage", s, err)
	}
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Error("expected an error to be logged")
	}
}

func TestLoaderNarrative(t *testing.T) {
	f, l := newLoaderFixture()
	owner := hosttest.Owner
	l.OnDayStarted()
	f.pickUp(owner, ObjBustedLoader)

	expectStage := func(want LoaderStage) {
		t.Helper()
		if s, _ := l.Stage(); s != want {
			t.Fatalf("stage = %v, want %v", s, want)
		}
	}

	if l.OnInteraction("Clint", "") {
		t.Error("Clint should not react without the loader in hand")
	}
	l.OnInteraction("Clint", ObjBustedLoader)
	expectStage(LoaderFindSomeShoes)

	l.OnInteraction("Alex", "")
	expectStage(LoaderSnagAlexsOldShoes)

	l.OnInteraction("Linus", "")
	expectStage(LoaderLinusSniffing1)

	for i := 0; i < 4; i++ {
		sleep(l)
	}
	expectStage(LoaderLinusSniffing5)
	l.OnInteraction("Linus", "")
	if !f.host.HasLineContaining("Linus", "mines") {
		t.Error("Linus should say where the shoes are")
	}

	f.pickUp(owner, ObjAlexesOldShoe)
	expectStage(LoaderDisguiseTheShoes)
	if _, ok := f.host.Topics[TopicDwarfShoesTaken]; !ok {
		t.Error("dwarf should start talking about the missing shoes")
	}

	l.OnInteraction("Emily", ObjAlexesOldShoe)
	if f.host.Count(owner, ObjAlexesOldShoe) != 0 || f.host.Count(owner, ObjDisguisedShoe) != 1 {
		t.Fatal("Emily should swap the old shoes for disguised ones")
	}
	f.arrived(owner, ObjDisguisedShoe)
	expectStage(LoaderGiveShoesToClint)

	l.OnInteraction("Clint", ObjDisguisedShoe)
	expectStage(LoaderWaitForClint1)
	if f.host.Count(owner, ObjDisguisedShoe) != 0 {
		t.Error("Clint should keep the shoes")
	}

	sleep(l)
	expectStage(LoaderWaitForClint2)
	l.OnInteraction("Clint", "")
	l.OnInteraction("Clint", "")
	if n := len(f.host.SaidBy("Clint")); n != 3 {
		t.Errorf("Clint said %d lines, want 3 (status only once a day)", n)
	}

	sleep(l)
	expectStage(LoaderPickUpLoader)
	if !slices.Contains(f.host.Mailbox, MailLoaderReady) {
		t.Error("expected the loader-ready mail")
	}

	l.OnInteraction("Clint", "")
	l.OnInteraction("Clint", "")
	if f.host.Count(owner, ObjWorkingLoader) != 1 {
		t.Fatalf("Clint should hand over exactly one loader, got %d", f.host.Count(owner, ObjWorkingLoader))
	}
	f.arrived(owner, ObjWorkingLoader)
	expectStage(LoaderInstallTheLoader)

	if !l.CheckHeldItemAgainstGarage(owner, ObjWorkingLoader) {
		t.Fatal("expected completion in the garage")
	}
	if l.OverallState() != quest.Completed {
		t.Errorf("state = %v, want Completed", l.OverallState())
	}
}
