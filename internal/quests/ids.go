// Package quests holds the concrete tractor quests: restoring the tractor
// itself, the four attachment quests and the harpoon loan that leads to the
// waterer.
package quests

// Mod data keys. Each quest stores its state under one key on the owner.
const (
	KeyRestore               = "QuestableTractor.MainQuestStatus"
	KeyLoader                = "QuestableTractor.LoaderStatus"
	KeyHarvester             = "QuestableTractor.ScytheQuestStatus"
	KeyWaterer               = "QuestableTractor.WateringQuestStatus"
	KeySeeder                = "QuestableTractor.SeederQuestStatus"
	KeySeederGeorgeSentMail  = "QuestableTractor.SeederQuestGeorgeSentMail"
	KeyBorrowHarpoon         = "QuestableTractor.BorrowHarpoonQuestStatus"
	seederGeorgeSentMailMark = "sent"
)

// Quest kinds, as shown to the game's quest log.
const (
	KindRestore   = "restore"
	KindLoader    = "loader"
	KindHarvester = "harvester"
	KindSeeder    = "seeder"
	KindWaterer   = "waterer"
	KindHarpoon   = "harpoon"
)

// Quest object IDs.
const (
	ObjBustedEngine   = "QuestableTractor.BustedEngine"
	ObjWorkingEngine  = "QuestableTractor.WorkingEngine"
	ObjBustedLoader   = "QuestableTractor.BustedLoader"
	ObjWorkingLoader  = "QuestableTractor.WorkingLoader"
	ObjAlexesOldShoe  = "QuestableTractor.AlexesOldShoe"
	ObjDisguisedShoe  = "QuestableTractor.DisguisedShoe"
	ObjBustedScythe   = "QuestableTractor.BustedScythe"
	ObjWorkingScythe  = "QuestableTractor.WorkingScythe"
	ObjScythePart1    = "QuestableTractor.ScythePart1"
	ObjScythePart2    = "QuestableTractor.ScythePart2"
	ObjBustedSeeder   = "QuestableTractor.BustedSeeder"
	ObjWorkingSeeder  = "QuestableTractor.WorkingSeeder"
	ObjBustedWaterer  = "QuestableTractor.BustedWaterer"
	ObjWorkingWaterer = "QuestableTractor.WorkingWaterer"
	ToolHarpoon       = "QuestableTractor.Harpoon"
)

// Vanilla game items the quests ask for.
const (
	ItemSap         = "92"
	ItemMixedSeeds  = "770"
	ItemAquamarine  = "62"
	ItemIronBar     = "335"
	ItemGoldBar     = "336"
	ItemFishingJunk = "(O)168"
)

// Mail keys.
const (
	MailBuildTheGarage  = "QuestableTractor.BuildTheGarage"
	MailFixTheEngine    = "QuestableTractor.FixTheEngine"
	MailTractorDone     = "QuestableTractor.TractorDone"
	MailLoaderReady     = "QuestableTractor.LoaderReady"
	MailScythePart2     = "QuestableTractor.ScythePart2"
	MailGeorgeSeeder    = "QuestableTractor.GeorgeSeeder"
	MailWatererRepaired = "QuestableTractor.WatererRepaired"
)

// Conversation topics.
const (
	TopicTractorNotFound = "QuestableTractor.TractorNotFound"
	TopicLoaderNotFound  = "QuestableTractor.LoaderNotFound"
	TopicScytheNotFound  = "QuestableTractor.ScytheNotFound"
	TopicSeederNotFound  = "QuestableTractor.SeederNotFound"
	TopicWatererNotFound = "QuestableTractor.WatererNotFound"
	TopicDwarfShoesTaken = "QuestableTractor.DwarfShoesTaken"
)
