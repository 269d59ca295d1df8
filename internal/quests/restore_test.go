package quests

import (
	"slices"
	"testing"

	"github.com/lawnchairsociety/questabletractor/internal/host/hosttest"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
)

func TestRestoreStartsOnInspection(t *testing.T) {
	f := newFixture()
	r := NewRestore(f.deps())
	r.OnDayStarted()

	if len(f.host.DerelictPlaces) != 1 || f.host.DerelictPlaces[0] {
		t.Errorf("derelict should be placed in the field, got %v", f.host.DerelictPlaces)
	}
	if r.IsStarted() {
		t.Fatal("quest should not be started before inspection")
	}

	if !r.InspectDerelict() {
		t.Fatal("first inspection should start the quest")
	}
	if r.InspectDerelict() {
		t.Error("second inspection should do nothing")
	}
	if s, _ := r.Stage(); s != RestoreTalkToLewis {
		t.Errorf("stage = %v, want TalkToLewis", s)
	}
	if r.IsBuildingUnlocked() || r.IsTractorUnlocked() {
		t.Error("nothing is unlocked yet")
	}
}

func TestRestoreNarrative(t *testing.T) {
	f := newFixture()
	owner := hosttest.Owner
	r := NewRestore(f.deps())
	r.OnDayStarted()
	r.InspectDerelict()

	expectStage := func(want RestoreStage) {
		t.Helper()
		if s, _ := r.Stage(); s != want {
			t.Fatalf("stage = %v, want %v", s, want)
		}
	}

	r.OnInteraction("Lewis", "")
	expectStage(RestoreTalkToSebastian)
	r.OnInteraction("Sebastian", "")
	expectStage(RestoreTalkToLewisAgain)
	r.OnInteraction("Lewis", "")
	expectStage(RestoreWaitingForMailFromRobinDay1)

	sleep(r)
	expectStage(RestoreWaitingForMailFromRobinDay2)
	sleep(r)
	expectStage(RestoreBuildTractorGarage)
	if !slices.Contains(f.host.Mailbox, MailBuildTheGarage) {
		t.Error("expected Robin's garage mail")
	}
	if !r.IsBuildingUnlocked() {
		t.Error("garage should be buildable")
	}

	sleep(r)
	expectStage(RestoreBuildTractorGarage)

	f.host.Garage = true
	sleep(r)
	expectStage(RestoreWaitingForSebastianDay1)
	if last := f.host.DerelictPlaces[len(f.host.DerelictPlaces)-1]; !last {
		t.Error("derelict should move into the garage")
	}

	r.OnInteraction("Sebastian", "")
	r.OnInteraction("Sebastian", "")
	if n := len(f.host.SaidBy("Sebastian")); n != 2 {
		t.Errorf("Sebastian said %d lines, want 2", n)
	}

	sleep(r)
	expectStage(RestoreWaitingForSebastianDay2)
	sleep(r)
	expectStage(RestoreTalkToWizard)
	if !slices.Contains(f.host.Mailbox, MailFixTheEngine) {
		t.Error("expected Sebastian's engine mail")
	}

	r.OnInteraction("Wizard", ObjBustedEngine)
	expectStage(RestoreBringStuffToForest)

	f.host.ForestChest[ObjBustedEngine] = 1
	f.host.ForestChest[ItemSap] = 20
	f.host.ForestChest[ItemMixedSeeds] = 19
	f.host.ForestChest[ItemAquamarine] = 1
	sleep(r)
	expectStage(RestoreBringStuffToForest)

	f.host.ForestChest[ItemMixedSeeds] = 20
	sleep(r)
	expectStage(RestoreBringEngineToSebastian)
	if f.host.ForestChest[ObjWorkingEngine] != 1 || f.host.ForestChest[ObjBustedEngine] != 0 {
		t.Errorf("forest chest = %v", f.host.ForestChest)
	}

	f.host.Give(owner, ObjWorkingEngine, 1)
	r.OnInteraction("Sebastian", ObjWorkingEngine)
	expectStage(RestoreBringEngineToMaru)
	r.OnInteraction("Maru", ObjWorkingEngine)
	expectStage(RestoreWaitForEngineInstall)
	if f.host.Count(owner, ObjWorkingEngine) != 0 {
		t.Error("Maru should keep the engine")
	}

	sleep(r)
	if r.OverallState() != quest.Completed {
		t.Fatalf("state = %v, want Completed", r.OverallState())
	}
	if !r.IsTractorUnlocked() || !r.IsBuildingUnlocked() {
		t.Error("tractor and garage should be unlocked")
	}
	if !slices.Contains(f.host.Mailbox, MailTractorDone) {
		t.Error("expected the tractor-done mail")
	}
	if r.Quest() != nil || len(f.host.Quests) != 0 {
		t.Error("completed quest must not be shown")
	}
}

func TestRestoreEngineReactions(t *testing.T) {
	tests := []struct {
		npc  string
		want string
	}{
		{"Sebastian", "restore.sebastian.busted_engine"},
		{"Clint", "restore.clint.busted_engine"},
		{"Vincent", "restore.kid.busted_engine"},
		{"Marnie", "restore.marnie.busted_engine"},
		{"Gus", "restore.anyone.busted_engine"},
	}

	for _, tt := range tests {
		t.Run(tt.npc, func(t *testing.T) {
			f := newFixture()
			r := NewRestore(f.deps())
			f.store.Set(KeyRestore, RestoreBringStuffToForest.String())
			r.OnDayStarted()

			if !r.OnInteraction(tt.npc, ObjBustedEngine) {
				t.Fatal("expected a reaction")
			}
			lines := f.host.SaidBy(tt.npc)
			if len(lines) != 1 || lines[0] != f.txt.Get(tt.want) {
				t.Errorf("%s said %v", tt.npc, lines)
			}
			if s, _ := r.Stage(); s != RestoreBringStuffToForest {
				t.Errorf("reactions must not move the stage, got %v", s)
			}
		})
	}
}

func TestRestoreMissingGarageIsLogged(t *testing.T) {
	f := newFixture()
	r := NewRestore(f.deps())
	f.store.Set(KeyRestore, RestoreTalkToWizard.String())

	r.OnDayStarted()

	if len(f.host.DerelictPlaces) != 0 {
		t.Errorf("derelict should not be placed without a garage, got %v", f.host.DerelictPlaces)
	}
	if r.Quest() == nil {
		t.Error("quest should still be live")
	}
}
