// Package gen3 reads and writes Generation III Pokémon save images
// (Ruby, Sapphire, Emerald, FireRed, LeafGreen).
//
// A save image is two redundant slots of fourteen 4 KiB sections followed by
// a trailer that is carried through untouched. Only the slot with valid
// checksums and the newest save index is decoded; every write goes to the
// other slot so the previous save survives as the backup.
package gen3

// Image geometry - fixed by the cartridge flash layout
const (
	SaveSize        = 0x20000 // 128 KiB flash image
	SectionSize     = 0x1000  // One section (sector)
	SectionsPerSlot = 14
	SlotSize        = SectionSize * SectionsPerSlot // 0xE000
	SlotAOffset     = 0x0000
	SlotBOffset     = SlotSize
	TrailerOffset   = 2 * SlotSize // Hall of Fame, Mystery Gift, recorded battle
)

// Section footer layout
const (
	SectionFooterOffset   = 0x0FF4 // Everything before this is payload or padding
	FooterIDOffset        = 0x0FF4 // u16 section ID
	FooterChecksumOffset  = 0x0FF6 // u16 checksum
	FooterSignatureOffset = 0x0FF8 // u32 signature
	FooterSaveIndexOffset = 0x0FFC // u32 save counter
	SectionSignature      = 0x08012025
)

// Section IDs
const (
	SectionTrainer   uint16 = 0
	SectionTeamItems uint16 = 1
	SectionGameState uint16 = 2
	SectionMisc      uint16 = 3
	SectionRival     uint16 = 4
	SectionPCFirst   uint16 = 5
	SectionPCLast    uint16 = 13
)

// sectionDataSizes is the checksummed length of each section by ID.
var sectionDataSizes = [SectionsPerSlot]int{
	3884, // 0 trainer info
	3968, // 1 team / items
	3968, // 2 game state
	3968, // 3 misc data
	3848, // 4 rival info
	3968, 3968, 3968, 3968, 3968, 3968, 3968, 3968, // 5-12 PC buffer
	2000, // 13 PC buffer tail
}

// SectionDataSize returns the checksummed payload length for a section ID,
// or 0 for an ID outside the table.
func SectionDataSize(id uint16) int {
	if int(id) >= len(sectionDataSizes) {
		return 0
	}
	return sectionDataSizes[id]
}

// Pokémon record geometry
const (
	BoxRecordSize      = 80
	PartyRecordSize    = 100
	RecordHeaderSize   = 32
	SubstructureSize   = 12
	SubstructureBlock  = 4 * SubstructureSize // 48 encrypted bytes
	NicknameLength     = 10
	OTNameLength       = 7
	TrainerNameLength  = 7
	NatureCount        = 25
	PermutationCount   = 24
	ShinyThreshold     = 8
	MaxMoney           = 999999
	MaxCoins           = 9999
	NationalDexSize    = 386
	PokedexBitfieldLen = 49
)

// Party and PC storage
const (
	PartyCapacity     = 6
	BoxCount          = 14
	BoxCapacity       = 30
	BoxNameLength     = 9 // 8 characters plus terminator
	PCCurrentBoxSize  = 4
	PCRecordsOffset   = PCCurrentBoxSize
	PCBoxNamesOffset  = PCRecordsOffset + BoxCount*BoxCapacity*BoxRecordSize // 0x8344
	PCWallpaperOffset = PCBoxNamesOffset + BoxCount*BoxNameLength            // 0x83C2
)

// PCBufferSize is the length of sections 5-13 concatenated.
var PCBufferSize = func() int {
	total := 0
	for id := SectionPCFirst; id <= SectionPCLast; id++ {
		total += SectionDataSize(id)
	}
	return total
}()
