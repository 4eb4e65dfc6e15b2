package gen3

// Nature is personality % 25.
type Nature int

var natureNames = [NatureCount]string{
	"Hardy", "Lonely", "Brave", "Adamant", "Naughty",
	"Bold", "Docile", "Relaxed", "Impish", "Lax",
	"Timid", "Hasty", "Serious", "Jolly", "Naive",
	"Modest", "Mild", "Quiet", "Bashful", "Rash",
	"Calm", "Gentle", "Sassy", "Careful", "Quirky",
}

// NatureOf derives the nature from a personality value.
func NatureOf(personality uint32) Nature {
	return Nature(personality % NatureCount)
}

func (n Nature) String() string {
	if n < 0 || int(n) >= len(natureNames) {
		return "Unknown"
	}
	return natureNames[n]
}

// modifier returns the percentage applied to a non-HP stat, where stat
// indexes Attack, Defense, Speed, SpAttack, SpDefense.
func (n Nature) modifier(stat int) int {
	up, down := int(n)/5, int(n)%5
	switch {
	case up == down:
		return 100
	case stat == up:
		return 110
	case stat == down:
		return 90
	default:
		return 100
	}
}

// IsShiny is true when the XOR of both trainer ID halves and both
// personality halves is below 8.
func IsShiny(personality uint32, trainerID, secretID uint16) bool {
	return ShinyValue(personality, trainerID, secretID) < ShinyThreshold
}

// ShinyValue is the raw value compared against the shiny threshold.
func ShinyValue(personality uint32, trainerID, secretID uint16) uint16 {
	return trainerID ^ secretID ^ uint16(personality>>16) ^ uint16(personality&0xFFFF)
}
