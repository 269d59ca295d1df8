package quests

import (
	"fmt"

	"github.com/lawnchairsociety/questabletractor/internal/quest"
)

var (
	restoreCodec   = quest.NewEnumCodec(RestoreStages()...)
	loaderCodec    = quest.NewEnumCodec(LoaderStages()...)
	harvesterCodec = quest.NewFlagCodec(quest.NewEnumCodec(HarvesterStages()...), harvesterFlagNames...)
	seederCodec    = quest.NewEnumCodec(SeederStages()...)
	watererCodec   = quest.NewEnumCodec(WatererStages()...)
	harpoonCodec   = quest.NewFlagCodec(quest.NewEnumCodec(HarpoonStages()...), "WillyHinted")
)

// Entry names one quest's slot in the owner's mod data.
type Entry struct {
	Kind string
	Key  string

	decode func(raw string) error
}

func entry[S quest.Stage](kind, key string, codec quest.Codec[S]) Entry {
	return Entry{Kind: kind, Key: key, decode: func(raw string) error {
		_, err := codec.Decode(raw)
		return err
	}}
}

// Entries lists every quest, the tractor itself first.
func Entries() []Entry {
	return []Entry{
		entry[RestoreStage](KindRestore, KeyRestore, restoreCodec),
		entry[LoaderStage](KindLoader, KeyLoader, loaderCodec),
		entry[HarvesterStage](KindHarvester, KeyHarvester, harvesterCodec),
		entry[SeederStage](KindSeeder, KeySeeder, seederCodec),
		entry[WatererStage](KindWaterer, KeyWaterer, watererCodec),
		entry[HarpoonStage](KindHarpoon, KeyBorrowHarpoon, harpoonCodec),
	}
}

// Lookup finds a quest by kind or by mod data key.
func Lookup(kindOrKey string) (Entry, bool) {
	for _, e := range Entries() {
		if e.Kind == kindOrKey || e.Key == kindOrKey {
			return e, true
		}
	}
	return Entry{}, false
}

// Validate checks that raw is a value the quest can load: the completed
// marker or a stage it knows.
func (e Entry) Validate(raw string) error {
	if raw == quest.CompletedValue {
		return nil
	}
	if err := e.decode(raw); err != nil {
		return fmt.Errorf("%s: %w", e.Kind, err)
	}
	return nil
}
