package quests

import (
	"testing"

	"github.com/lawnchairsociety/questabletractor/internal/host/hosttest"
)

func countMail(mailbox []string, id string) int {
	n := 0
	for _, m := range mailbox {
		if m == id {
			n++
		}
	}
	return n
}

func TestSeederGeorgeMail(t *testing.T) {
	tests := []struct {
		name     string
		hearts   int
		unlocked bool
		alreadyS bool
		wantMail bool
	}{
		{"not enough hearts", 2, true, false, false},
		{"tractor still broken", 3, false, false, false},
		{"already sent", 5, true, true, false},
		{"sends", 3, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.host.Hearts["George"] = tt.hearts
			if tt.alreadyS {
				f.store.Set(KeySeederGeorgeSentMail, "sent")
			}
			s := NewSeeder(f.deps(), func() bool { return tt.unlocked })

			s.OnDayStarted()

			if got := countMail(f.host.Mailbox, MailGeorgeSeeder) == 1; got != tt.wantMail {
				t.Errorf("mail sent = %v, want %v", got, tt.wantMail)
			}
			if !f.registry.IsWatching(ObjBustedSeeder) {
				t.Error("busted seeder should be watched while not started")
			}
		})
	}
}

func TestSeederMailSentOnlyOnce(t *testing.T) {
	f := newFixture()
	f.host.Hearts["George"] = 4
	s := NewSeeder(f.deps(), func() bool { return true })

	s.OnDayStarted()
	sleep(s)
	sleep(s)

	if n := countMail(f.host.Mailbox, MailGeorgeSeeder); n != 1 {
		t.Errorf("George sent %d letters, want 1", n)
	}
	if v, _ := f.store.Get(KeySeederGeorgeSentMail); v != "sent" {
		t.Errorf("sent marker = %q", v)
	}
}

func TestSeederNarrative(t *testing.T) {
	f := newFixture()
	owner := hosttest.Owner
	f.host.Hearts["George"] = 3
	s := NewSeeder(f.deps(), func() bool { return true })
	s.OnDayStarted()
	f.pickUp(owner, ObjBustedSeeder)

	expectStage := func(want SeederStage) {
		t.Helper()
		if got, _ := s.Stage(); got != want {
			t.Fatalf("stage = %v, want %v", got, want)
		}
	}

	expectStage(SeederGotPart)
	s.OnInteraction("George", "")
	expectStage(SeederGetEvelynOnSide)
	s.OnInteraction("Evelyn", "")
	expectStage(SeederWaitForEvelyn)
	sleep(s)
	expectStage(SeederTalkToAlex1)
	s.OnInteraction("Alex", "")
	expectStage(SeederGetHaleyOnSide)
	s.OnInteraction("Haley", "")
	expectStage(SeederWaitForHaleyDay1)
	sleep(s)
	expectStage(SeederTalkToAlex2)
	s.OnInteraction("Alex", "")
	expectStage(SeederGiveAlexStuff)

	f.host.Give(owner, ItemIronBar, 4)
	s.OnInteraction("Alex", ObjBustedSeeder)
	expectStage(SeederGiveAlexStuff)
	if lines := f.host.SaidBy("Alex"); lines[len(lines)-1] != f.txt.Get("seeder.alex.need_bars") {
		t.Errorf("Alex should ask for the iron bars, said %v", lines)
	}

	f.host.Give(owner, ItemIronBar, 1)
	s.OnInteraction("Alex", ObjBustedSeeder)
	expectStage(SeederWaitForAlexDay1)
	if f.host.Count(owner, ItemIronBar) != 0 || f.host.Count(owner, ObjBustedSeeder) != 0 {
		t.Error("Alex should take the seeder and the bars")
	}

	sleep(s)
	expectStage(SeederWaitForAlexDay2)
	sleep(s)
	expectStage(SeederGetPartFromGeorge)

	s.OnInteraction("George", "")
	f.arrived(owner, ObjWorkingSeeder)
	expectStage(SeederInstallPart)

	if !s.CheckHeldItemAgainstGarage(owner, ObjWorkingSeeder) {
		t.Error("expected completion")
	}
}
