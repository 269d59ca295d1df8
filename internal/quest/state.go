// Package quest is the lifecycle engine shared by every tractor quest: it
// derives a quest's overall state from the owner's mod data, replays live
// quests at day start, flushes them at day end, and runs each quest's
// transition table.
package quest

// State is the derived overall status of a quest kind.
type State int

const (
	NotStarted State = iota
	InProgress
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case InProgress:
		return "InProgress"
	case Completed:
		return "Completed"
	default:
		return "Unknown"
	}
}

// CompletedValue is stored under a quest's key once it is finished.
const CompletedValue = "Complete"

// Stage is a quest-specific step enumeration. Its zero value must be the
// quest's starting stage.
type Stage interface {
	~int
	String() string
}

// Store is the owner's durable key/value mod data.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// StateOf derives the overall state stored under key.
func StateOf(store Store, key string) State {
	value, ok := store.Get(key)
	switch {
	case !ok:
		return NotStarted
	case value == CompletedValue:
		return Completed
	default:
		return InProgress
	}
}
