// Package host declares what the quest engine needs from the game it runs
// inside. The game mod implements these over the bridge; tests use hosttest.
package host

// Sound cues understood by the game.
const (
	SoundQuestProgressed = "questProgressed"
	SoundQuestAdded      = "newQuest"
	SoundBigCatch        = "submarine_landing"
	SoundClank           = "clank"
)

// QuestInfo is what the game shows in its quest log.
type QuestInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Objective string `json:"objective"`
	IsNew     bool   `json:"is_new"`
}

// Messenger shows text and plays sounds for the owning player.
type Messenger interface {
	// ShowMessage opens a dialogue box with no speaker.
	ShowMessage(text string)
	// ShowHUD shows a short transient notice.
	ShowHUD(text string)
	// HoldUpItem plays the "look what I found" animation for the player.
	HoldUpItem(playerID, itemID, text string)
	// Say shows a line spoken by an NPC.
	Say(npc, text string)
	PlaySound(cue string)
}

// QuestLog mirrors live quests into the game's quest log.
type QuestLog interface {
	AddQuest(q QuestInfo)
	UpdateQuest(q QuestInfo)
	RemoveQuest(id string)
}

// Inventory manipulates player inventories.
type Inventory interface {
	// Count returns how many of itemID the player carries.
	Count(playerID, itemID string) int
	// Remove takes up to n of itemID and returns how many were removed.
	Remove(playerID, itemID string, n int) int
	// Add gives the player n of itemID.
	Add(playerID, itemID string, n int)
	// Confiscate takes a stack back from a player and tells them why.
	Confiscate(playerID, itemID string, stack int, message string)
}

// Tile is a farm map coordinate.
type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ClumpKind identifies a large resource clump on the farm.
type ClumpKind int

const (
	ClumpStump     ClumpKind = 600
	ClumpHollowLog ClumpKind = 602
	ClumpMeteorite ClumpKind = 622
	ClumpBoulder   ClumpKind = 672
)

// Clump is a large resource clump occupying a tile.
type Clump struct {
	Kind ClumpKind `json:"kind"`
	Tile Tile      `json:"tile"`
}

// World answers questions about and places objects on the farm map.
type World interface {
	Clumps() []Clump
	// FindObject reports where an object with itemID is placed, if anywhere.
	FindObject(itemID string) (Tile, bool)
	// CanPlaceAt reports whether the tile is open for a new object.
	CanPlaceAt(t Tile) bool
	// Size returns the farm size in tiles.
	Size() (width, height int)
	PlaceObject(itemID string, t Tile)
}

// Mail delivers letters to the owner's mailbox.
type Mail interface {
	HasMail(id string) bool
	AddMail(id string)
	AddMailForTomorrow(id string)
}

// Dialogue controls NPC conversation topics.
type Dialogue interface {
	HasConversationTopic(id string) bool
	AddConversationTopic(id string, days int)
}

// Farm exposes the bits of save state quests branch on.
type Farm interface {
	// OwnerID is the player allowed to progress quests.
	OwnerID() string
	FriendshipHearts(npc string) int
	// GarageBuilt reports whether the tractor garage exists.
	GarageBuilt() bool
	// ForestChestHas reports whether the wizard's forest chest holds count of itemID.
	ForestChestHas(itemID string, count int) bool
	// ForestChestTake removes count of itemID from the forest chest.
	ForestChestTake(itemID string, count int)
	// ForestChestPut adds count of itemID to the forest chest.
	ForestChestPut(itemID string, count int)
	// PlaceDerelictTractor shows the broken tractor in the field or the garage.
	PlaceDerelictTractor(inGarage bool)
}

// Host is everything together, as the bridge implements it.
type Host interface {
	Messenger
	QuestLog
	Inventory
	World
	Mail
	Dialogue
	Farm
}
