package bridge

import (
	"slices"

	"github.com/lawnchairsociety/questabletractor/internal/host"
)

// Sender delivers one outbound effect to the game.
type Sender func(msgType string, payload any)

// Mirror implements host.Host for a remote game. Queries are answered from
// the last world snapshot; effects are applied to the snapshot and sent to
// the game so later queries in the same tick see them.
//
// A Mirror belongs to one session goroutine and is not safe for concurrent
// use.
type Mirror struct {
	send    Sender
	ownerID string

	width, height int
	clumps        []host.Clump
	objects       map[string]host.Tile
	blocked       map[host.Tile]bool
	inventory     map[string]map[string]int
	mail          map[string]bool
	mailTomorrow  map[string]bool
	topics        map[string]bool
	hearts        map[string]int
	garageBuilt   bool
	forestChest   map[string]int
}

// NewMirror creates an empty mirror for ownerID.
func NewMirror(ownerID string, send Sender) *Mirror {
	return &Mirror{
		send:         send,
		ownerID:      ownerID,
		objects:      make(map[string]host.Tile),
		blocked:      make(map[host.Tile]bool),
		inventory:    make(map[string]map[string]int),
		mail:         make(map[string]bool),
		mailTomorrow: make(map[string]bool),
		topics:       make(map[string]bool),
		hearts:       make(map[string]int),
		forestChest:  make(map[string]int),
	}
}

var _ host.Host = (*Mirror)(nil)

// Apply merges a world snapshot. Collections present in w replace the
// mirrored ones wholesale.
func (m *Mirror) Apply(w *WorldData) {
	if w == nil {
		return
	}
	if w.Width != nil {
		m.width = *w.Width
	}
	if w.Height != nil {
		m.height = *w.Height
	}
	if w.Clumps != nil {
		m.clumps = slices.Clone(w.Clumps)
	}
	if w.Objects != nil {
		m.objects = make(map[string]host.Tile, len(w.Objects))
		for id, t := range w.Objects {
			m.objects[id] = t
		}
	}
	if w.Blocked != nil {
		m.blocked = make(map[host.Tile]bool, len(w.Blocked))
		for _, t := range w.Blocked {
			m.blocked[t] = true
		}
	}
	if w.Inventory != nil {
		m.inventory = make(map[string]map[string]int, len(w.Inventory))
		for player, bag := range w.Inventory {
			m.inventory[player] = make(map[string]int, len(bag))
			for id, n := range bag {
				m.inventory[player][id] = n
			}
		}
	}
	if w.Mail != nil {
		m.mail = toSet(w.Mail)
		// Anything promised for tomorrow has arrived by the next snapshot.
		m.mailTomorrow = make(map[string]bool)
	}
	if w.Topics != nil {
		m.topics = toSet(w.Topics)
	}
	if w.Hearts != nil {
		m.hearts = make(map[string]int, len(w.Hearts))
		for npc, n := range w.Hearts {
			m.hearts[npc] = n
		}
	}
	if w.GarageBuilt != nil {
		m.garageBuilt = *w.GarageBuilt
	}
	if w.ForestChest != nil {
		m.forestChest = make(map[string]int, len(w.ForestChest))
		for id, n := range w.ForestChest {
			m.forestChest[id] = n
		}
	}
}

// Received records items the game already put in a player's inventory.
func (m *Mirror) Received(playerID, itemID string, n int) {
	m.bag(playerID)[itemID] += n
}

func (m *Mirror) bag(playerID string) map[string]int {
	b, ok := m.inventory[playerID]
	if !ok {
		b = make(map[string]int)
		m.inventory[playerID] = b
	}
	return b
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Messenger

func (m *Mirror) ShowMessage(text string) { m.send(TypeMessage, textData{Text: text}) }

func (m *Mirror) ShowHUD(text string) { m.send(TypeHUD, textData{Text: text}) }

func (m *Mirror) HoldUpItem(playerID, itemID, text string) {
	m.send(TypeHoldUp, holdUpData{PlayerID: playerID, ItemID: itemID, Text: text})
}

func (m *Mirror) Say(npc, text string) { m.send(TypeNPCSay, npcSayData{NPC: npc, Text: text}) }

func (m *Mirror) PlaySound(cue string) { m.send(TypeSound, soundData{Cue: cue}) }

// QuestLog

func (m *Mirror) AddQuest(q host.QuestInfo) { m.send(TypeQuestAdded, q) }

func (m *Mirror) UpdateQuest(q host.QuestInfo) { m.send(TypeQuestUpdated, q) }

func (m *Mirror) RemoveQuest(id string) { m.send(TypeQuestRemoved, questRemovedData{ID: id}) }

// Inventory

func (m *Mirror) Count(playerID, itemID string) int {
	return m.inventory[playerID][itemID]
}

func (m *Mirror) Remove(playerID, itemID string, n int) int {
	b := m.bag(playerID)
	took := min(n, b[itemID])
	if took <= 0 {
		return 0
	}
	b[itemID] -= took
	m.send(TypeRemoveItem, itemData{PlayerID: playerID, ItemID: itemID, Count: took})
	return took
}

func (m *Mirror) Add(playerID, itemID string, n int) {
	m.bag(playerID)[itemID] += n
	m.send(TypeAddItem, itemData{PlayerID: playerID, ItemID: itemID, Count: n})
}

func (m *Mirror) Confiscate(playerID, itemID string, stack int, message string) {
	b := m.bag(playerID)
	b[itemID] = max(0, b[itemID]-stack)
	m.send(TypeRemoveItem, itemData{PlayerID: playerID, ItemID: itemID, Count: stack, Message: message})
}

// World

func (m *Mirror) Clumps() []host.Clump { return slices.Clone(m.clumps) }

func (m *Mirror) FindObject(itemID string) (host.Tile, bool) {
	t, ok := m.objects[itemID]
	return t, ok
}

func (m *Mirror) CanPlaceAt(t host.Tile) bool {
	if t.X < 0 || t.Y < 0 || t.X >= m.width || t.Y >= m.height || m.blocked[t] {
		return false
	}
	for _, c := range m.clumps {
		if c.Tile == t {
			return false
		}
	}
	for _, o := range m.objects {
		if o == t {
			return false
		}
	}
	return true
}

func (m *Mirror) Size() (int, int) { return m.width, m.height }

func (m *Mirror) PlaceObject(itemID string, t host.Tile) {
	m.objects[itemID] = t
	m.send(TypePlaceObject, placeObjectData{ItemID: itemID, Tile: t})
}

// Mail

func (m *Mirror) HasMail(id string) bool { return m.mail[id] || m.mailTomorrow[id] }

func (m *Mirror) AddMail(id string) {
	m.mail[id] = true
	m.send(TypeMail, mailData{ID: id})
}

func (m *Mirror) AddMailForTomorrow(id string) {
	m.mailTomorrow[id] = true
	m.send(TypeMail, mailData{ID: id, Tomorrow: true})
}

// Dialogue

func (m *Mirror) HasConversationTopic(id string) bool { return m.topics[id] }

func (m *Mirror) AddConversationTopic(id string, days int) {
	m.topics[id] = true
	m.send(TypeTopic, topicData{ID: id, Days: days})
}

// Farm

func (m *Mirror) OwnerID() string { return m.ownerID }

func (m *Mirror) FriendshipHearts(npc string) int { return m.hearts[npc] }

func (m *Mirror) GarageBuilt() bool { return m.garageBuilt }

func (m *Mirror) ForestChestHas(itemID string, count int) bool {
	return m.forestChest[itemID] >= count
}

func (m *Mirror) ForestChestTake(itemID string, count int) {
	m.forestChest[itemID] = max(0, m.forestChest[itemID]-count)
	m.send(TypeForestChest, forestChestData{ItemID: itemID, Delta: -count})
}

func (m *Mirror) ForestChestPut(itemID string, count int) {
	m.forestChest[itemID] += count
	m.send(TypeForestChest, forestChestData{ItemID: itemID, Delta: count})
}

func (m *Mirror) PlaceDerelictTractor(inGarage bool) {
	m.send(TypeDerelict, derelictData{InGarage: inGarage})
}
