package gen3

// Species indices 1-251 are shared with the national dex. Indices 252-276
// are unused placeholders and 277-411 hold the Hoenn species in an order that
// differs from the national dex.
const (
	FirstHoennIndex = 277
	LastHoennIndex  = 411
	lastJohtoDex    = 251
)

// hoennNational[i] is the national dex number of internal index 277+i.
var hoennNational = [LastHoennIndex - FirstHoennIndex + 1]uint16{
	252, 253, 254, 255, 256, 257, 258, 259, 260, 261,
	262, 263, 264, 265, 266, 267, 268, 269, 270, 271,
	272, 273, 274, 275, 290, 291, 292, 276, 277, 285,
	286, 327, 278, 279, 283, 284, 320, 321, 300, 301,
	352, 343, 344, 299, 324, 302, 339, 340, 370, 341,
	342, 349, 350, 318, 319, 328, 329, 330, 296, 297,
	309, 310, 322, 323, 363, 364, 365, 331, 332, 361,
	362, 337, 338, 298, 325, 326, 311, 312, 303, 307,
	308, 333, 334, 360, 355, 356, 315, 287, 288, 289,
	316, 317, 357, 293, 294, 295, 366, 367, 368, 359,
	353, 354, 336, 335, 369, 304, 305, 306, 351, 313,
	314, 345, 346, 347, 348, 280, 281, 282, 371, 372,
	373, 374, 375, 376, 377, 378, 379, 382, 383, 384,
	380, 381, 385, 386, 358,
}

var hoennInternal = func() map[uint16]uint16 {
	m := make(map[uint16]uint16, len(hoennNational))
	for i, dex := range hoennNational {
		m[dex] = uint16(FirstHoennIndex + i)
	}
	return m
}()

// NationalDex maps an internal species index to its national dex number,
// or 0 for empty and placeholder indices.
func NationalDex(internal uint16) uint16 {
	switch {
	case internal == 0:
		return 0
	case internal <= lastJohtoDex:
		return internal
	case internal >= FirstHoennIndex && internal <= LastHoennIndex:
		return hoennNational[internal-FirstHoennIndex]
	default:
		return 0
	}
}

// InternalIndex maps a national dex number to the index stored in records,
// or 0 when the number is outside 1-386.
func InternalIndex(national uint16) uint16 {
	switch {
	case national == 0 || national > NationalDexSize:
		return 0
	case national <= lastJohtoDex:
		return national
	default:
		return hoennInternal[national]
	}
}

// IsValidSpecies reports whether an internal index names a real species.
func IsValidSpecies(internal uint16) bool {
	return NationalDex(internal) != 0
}
