// Package hosttest provides a recording in-memory game host for tests.
package hosttest

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lawnchairsociety/questabletractor/internal/host"
)

// Owner is the default owning player ID.
const Owner = "owner"

// Said is one NPC line.
type Said struct {
	NPC  string
	Text string
}

// HeldUp is one hold-up-item animation.
type HeldUp struct {
	PlayerID string
	ItemID   string
	Text     string
}

// Confiscation records an item taken back from a player.
type Confiscation struct {
	PlayerID string
	ItemID   string
	Stack    int
	Message  string
}

// Host records every effect the engine asks for and answers queries from
// fields tests set directly. It implements host.Host.
type Host struct {
	mu sync.Mutex

	Owner string

	Messages      []string
	HUD           []string
	HeldUp        []HeldUp
	Lines         []Said
	Sounds        []string
	Confiscations []Confiscation

	Quests       map[string]host.QuestInfo
	QuestUpdates []host.QuestInfo
	RemovedQuest []string

	Items map[string]map[string]int // player -> item -> count

	ClumpList  []host.Clump
	Objects    map[string]host.Tile
	Blocked    map[host.Tile]bool
	Width      int
	Height     int
	OpenTiles  bool // when false, CanPlaceAt only accepts tiles not Blocked and inside Open
	Open       map[host.Tile]bool
	Placements []string

	Mailbox        []string
	MailTomorrow   []string
	Topics         map[string]int
	Hearts         map[string]int
	Garage         bool
	ForestChest    map[string]int
	DerelictPlaces []bool
}

// New returns an empty host with a 64x64 farm where every tile is open.
func New() *Host {
	return &Host{
		Owner:       Owner,
		Quests:      make(map[string]host.QuestInfo),
		Items:       make(map[string]map[string]int),
		Objects:     make(map[string]host.Tile),
		Blocked:     make(map[host.Tile]bool),
		Open:        make(map[host.Tile]bool),
		Width:       64,
		Height:      64,
		OpenTiles:   true,
		Topics:      make(map[string]int),
		Hearts:      make(map[string]int),
		ForestChest: make(map[string]int),
	}
}

var _ host.Host = (*Host)(nil)

// Messenger

func (h *Host) ShowMessage(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Messages = append(h.Messages, text)
}

func (h *Host) ShowHUD(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.HUD = append(h.HUD, text)
}

func (h *Host) HoldUpItem(playerID, itemID, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.HeldUp = append(h.HeldUp, HeldUp{PlayerID: playerID, ItemID: itemID, Text: text})
}

func (h *Host) Say(npc, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Lines = append(h.Lines, Said{NPC: npc, Text: text})
}

func (h *Host) PlaySound(cue string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Sounds = append(h.Sounds, cue)
}

// QuestLog

func (h *Host) AddQuest(q host.QuestInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Quests[q.ID] = q
}

func (h *Host) UpdateQuest(q host.QuestInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Quests[q.ID] = q
	h.QuestUpdates = append(h.QuestUpdates, q)
}

func (h *Host) RemoveQuest(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.Quests, id)
	h.RemovedQuest = append(h.RemovedQuest, id)
}

// Inventory

func (h *Host) Count(playerID, itemID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Items[playerID][itemID]
}

func (h *Host) Remove(playerID, itemID string, n int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	have := h.Items[playerID][itemID]
	if n > have {
		n = have
	}
	if n > 0 {
		h.Items[playerID][itemID] = have - n
	}
	return n
}

func (h *Host) Add(playerID, itemID string, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.addLocked(playerID, itemID, n)
}

func (h *Host) addLocked(playerID, itemID string, n int) {
	if h.Items[playerID] == nil {
		h.Items[playerID] = make(map[string]int)
	}
	h.Items[playerID][itemID] += n
}

func (h *Host) Confiscate(playerID, itemID string, stack int, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if have := h.Items[playerID][itemID]; have > 0 {
		h.Items[playerID][itemID] = max(0, have-stack)
	}
	h.Confiscations = append(h.Confiscations, Confiscation{PlayerID: playerID, ItemID: itemID, Stack: stack, Message: message})
}

// Give puts items straight into a player's inventory without any event.
func (h *Host) Give(playerID, itemID string, n int) {
	h.Add(playerID, itemID, n)
}

// World

func (h *Host) Clumps() []host.Clump {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]host.Clump(nil), h.ClumpList...)
}

func (h *Host) FindObject(itemID string) (host.Tile, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.Objects[itemID]
	return t, ok
}

func (h *Host) CanPlaceAt(t host.Tile) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Blocked[t] {
		return false
	}
	if h.OpenTiles {
		return true
	}
	return h.Open[t]
}

func (h *Host) Size() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Width, h.Height
}

func (h *Host) PlaceObject(itemID string, t host.Tile) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Objects[itemID] = t
	h.Placements = append(h.Placements, fmt.Sprintf("%s@%d,%d", itemID, t.X, t.Y))
}

// Mail

func (h *Host) HasMail(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, m := range h.Mailbox {
		if m == id {
			return true
		}
	}
	for _, m := range h.MailTomorrow {
		if m == id {
			return true
		}
	}
	return false
}

func (h *Host) AddMail(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Mailbox = append(h.Mailbox, id)
}

func (h *Host) AddMailForTomorrow(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.MailTomorrow = append(h.MailTomorrow, id)
}

// Dialogue

func (h *Host) HasConversationTopic(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.Topics[id]
	return ok
}

func (h *Host) AddConversationTopic(id string, days int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Topics[id] = days
}

// Farm

func (h *Host) OwnerID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Owner
}

func (h *Host) FriendshipHearts(npc string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Hearts[npc]
}

func (h *Host) GarageBuilt() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Garage
}

func (h *Host) ForestChestHas(itemID string, count int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ForestChest[itemID] >= count
}

func (h *Host) ForestChestTake(itemID string, count int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ForestChest[itemID] = max(0, h.ForestChest[itemID]-count)
}

func (h *Host) ForestChestPut(itemID string, count int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ForestChest[itemID] += count
}

func (h *Host) PlaceDerelictTractor(inGarage bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.DerelictPlaces = append(h.DerelictPlaces, inGarage)
}

// Assertion helpers

// CountSound returns how many times cue was played.
func (h *Host) CountSound(cue string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.Sounds {
		if s == cue {
			n++
		}
	}
	return n
}

// LastMessage returns the most recent dialogue box text, or "".
func (h *Host) LastMessage() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Messages) == 0 {
		return ""
	}
	return h.Messages[len(h.Messages)-1]
}

// SaidBy returns every line npc has said, in order.
func (h *Host) SaidBy(npc string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var lines []string
	for _, l := range h.Lines {
		if l.NPC == npc {
			lines = append(lines, l.Text)
		}
	}
	return lines
}

// HasLineContaining reports whether npc said something containing substr.
func (h *Host) HasLineContaining(npc, substr string) bool {
	for _, l := range h.SaidBy(npc) {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// QuestIDs returns the IDs in the quest log, sorted.
func (h *Host) QuestIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.Quests))
	for id := range h.Quests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset clears recorded effects but keeps world state and inventories.
func (h *Host) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Messages = nil
	h.HUD = nil
	h.HeldUp = nil
	h.Lines = nil
	h.Sounds = nil
	h.Confiscations = nil
	h.QuestUpdates = nil
	h.RemovedQuest = nil
	h.Placements = nil
}
