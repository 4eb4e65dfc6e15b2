package gen3

// BadgeCount is the number of gym badges in every region.
const BadgeCount = 8

// Badges is a bitmask where bit i set means badge i+1 was earned.
type Badges uint8

// Has reports badge n (1-8).
func (b Badges) Has(n int) bool {
	if n < 1 || n > BadgeCount {
		return false
	}
	return b&(1<<(n-1)) != 0
}

// Count returns the number of earned badges.
func (b Badges) Count() int {
	n := 0
	for v := b; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// readBadges normalizes the three on-disk encodings to a Badges mask.
//
//	E:    one byte, bit 7 = badge 1 down to bit 0 = badge 8
//	RS:   bit 7 of the first byte = badge 1, bits 0-6 of the next = badges 2-8
//	FRLG: one byte, bit 0 = badge 1
func readBadges(g Game, sec *Section) Badges {
	l, err := layoutFor(g)
	if err != nil || sec == nil {
		return 0
	}
	switch g {
	case GameEmerald:
		raw := sec.u8(l.badges)
		var b Badges
		for i := 0; i < BadgeCount; i++ {
			if raw&(0x80>>i) != 0 {
				b |= 1 << i
			}
		}
		return b
	case GameRubySapphire:
		b := Badges(sec.u8(l.badges+1)&0x7F) << 1
		if sec.u8(l.badges)&0x80 != 0 {
			b |= 1
		}
		return b
	default:
		return Badges(sec.u8(l.badges))
	}
}

// writeBadges is the inverse of readBadges. Unrelated bits in the shared
// flag bytes are preserved.
func writeBadges(g Game, sec *Section, b Badges) error {
	l, err := layoutFor(g)
	if err != nil {
		return err
	}
	switch g {
	case GameEmerald:
		var raw uint8
		for i := 0; i < BadgeCount; i++ {
			if b&(1<<i) != 0 {
				raw |= 0x80 >> i
			}
		}
		sec.Data[l.badges] = raw
	case GameRubySapphire:
		first := sec.u8(l.badges) &^ 0x80
		if b&1 != 0 {
			first |= 0x80
		}
		sec.Data[l.badges] = first
		sec.Data[l.badges+1] = sec.u8(l.badges+1)&0x80 | uint8(b>>1)&0x7F
	default:
		sec.Data[l.badges] = uint8(b)
	}
	return nil
}
