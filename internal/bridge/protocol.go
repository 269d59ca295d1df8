package bridge

import (
	"encoding/json"

	"github.com/lawnchairsociety/questabletractor/internal/gametime"
	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/inventory"
	"github.com/lawnchairsociety/questabletractor/internal/items"
)

// Message types the game mod sends.
const (
	TypeHello           = "hello"
	TypeWorld           = "world"
	TypeDayStarted      = "day_started"
	TypeInventoryAdded  = "inventory_added"
	TypeInteraction     = "interaction"
	TypeTick            = "tick"
	TypeFish            = "fish"
	TypeInspectDerelict = "inspect_derelict"
	TypeDayEnding       = "day_ending"
)

// Message types the bridge sends.
const (
	TypeMessage      = "message"
	TypeHUD          = "hud"
	TypeHoldUp       = "hold_up"
	TypeNPCSay       = "npc_say"
	TypeSound        = "sound"
	TypeQuestAdded   = "quest_added"
	TypeQuestUpdated = "quest_updated"
	TypeQuestRemoved = "quest_removed"
	TypeRemoveItem   = "remove_item"
	TypeAddItem      = "add_item"
	TypePlaceObject  = "place_object"
	TypeMail         = "mail"
	TypeTopic        = "topic"
	TypeForestChest  = "forest_chest"
	TypeDerelict     = "derelict"
	TypeConfig       = "config"
	TypeReady        = "ready"
	TypeReply        = "reply"
	TypeError        = "error"
)

// Envelope frames every message in both directions. Requests that expect a
// reply carry an ID; the reply echoes it after any effects the request
// caused.
type Envelope struct {
	Type string          `json:"type"`
	ID   int64           `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// HelloData opens a session for one save.
type HelloData struct {
	Token   string        `json:"token"`
	OwnerID string        `json:"owner_id"`
	Date    gametime.Date `json:"date"`
	World   *WorldData    `json:"world,omitempty"`
}

// WorldData is a snapshot of the game state the quests query. Fields left
// out of a world message keep their previous value.
type WorldData struct {
	Width       *int                      `json:"width,omitempty"`
	Height      *int                      `json:"height,omitempty"`
	Clumps      []host.Clump              `json:"clumps,omitempty"`
	Objects     map[string]host.Tile      `json:"objects,omitempty"`
	Blocked     []host.Tile               `json:"blocked,omitempty"`
	Inventory   map[string]map[string]int `json:"inventory,omitempty"`
	Mail        []string                  `json:"mail,omitempty"`
	Topics      []string                  `json:"topics,omitempty"`
	Hearts      map[string]int            `json:"hearts,omitempty"`
	GarageBuilt *bool                     `json:"garage_built,omitempty"`
	ForestChest map[string]int            `json:"forest_chest,omitempty"`
}

// DayStartedData is sent each morning, after the game's own day start.
type DayStartedData struct {
	Date  gametime.Date `json:"date"`
	World *WorldData    `json:"world,omitempty"`
}

// InventoryAddedData reports items a player picked up.
type InventoryAddedData struct {
	PlayerID string           `json:"player_id"`
	Items    []inventory.Item `json:"items"`
}

// InteractionData is the owner starting a conversation.
type InteractionData struct {
	NPC      string `json:"npc"`
	HeldItem string `json:"held_item,omitempty"`
}

// TickData is the once-a-second check of what a player holds.
type TickData struct {
	PlayerID string `json:"player_id"`
	HeldItem string `json:"held_item,omitempty"`
	InGarage bool   `json:"in_garage"`
}

// FishData is a cast about to land.
type FishData struct {
	PlayerID string `json:"player_id"`
	OnFarm   bool   `json:"on_farm"`
	HeldTool string `json:"held_tool,omitempty"`
}

// InspectDerelictData is a player clicking the broken tractor.
type InspectDerelictData struct {
	PlayerID string `json:"player_id"`
}

// ReplyData answers a request.
type ReplyData struct {
	Handled bool `json:"handled"`
	// Item replaces the game's catch on a fish reply.
	Item string `json:"item,omitempty"`
}

// ReadyData completes the hello handshake. The tractor configuration
// follows in its own config message.
type ReadyData struct {
	Items   []*items.Item     `json:"items"`
	Recipes map[string]string `json:"recipes"`
}

// ErrorData reports a rejected message.
type ErrorData struct {
	Message string `json:"message"`
}

// Effect payloads.

type textData struct {
	Text string `json:"text"`
}

type holdUpData struct {
	PlayerID string `json:"player_id"`
	ItemID   string `json:"item_id"`
	Text     string `json:"text,omitempty"`
}

type npcSayData struct {
	NPC  string `json:"npc"`
	Text string `json:"text"`
}

type soundData struct {
	Cue string `json:"cue"`
}

type questRemovedData struct {
	ID string `json:"id"`
}

type itemData struct {
	PlayerID string `json:"player_id"`
	ItemID   string `json:"item_id"`
	Count    int    `json:"count"`
	Message  string `json:"message,omitempty"`
}

type placeObjectData struct {
	ItemID string    `json:"item_id"`
	Tile   host.Tile `json:"tile"`
}

type mailData struct {
	ID       string `json:"id"`
	Tomorrow bool   `json:"tomorrow,omitempty"`
}

type topicData struct {
	ID   string `json:"id"`
	Days int    `json:"days"`
}

type forestChestData struct {
	ItemID string `json:"item_id"`
	// Delta is positive for items put in, negative for items taken.
	Delta int `json:"delta"`
}

type derelictData struct {
	InGarage bool `json:"in_garage"`
}
