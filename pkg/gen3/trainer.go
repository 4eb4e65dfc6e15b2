package gen3

import (
	"fmt"

	"github.com/provide-io/gen3save/pkg/utils"
)

// PlayTime as kept by the in-game clock.
type PlayTime struct {
	Hours   uint16
	Minutes uint8
	Seconds uint8
	Frames  uint8
}

func (p PlayTime) String() string {
	return fmt.Sprintf("%d:%02d:%02d", p.Hours, p.Minutes, p.Seconds)
}

// TrainerInfo is the decoded trainer card.
type TrainerInfo struct {
	Name        string
	Female      bool
	TrainerID   uint16
	SecretID    uint16
	Money       uint32
	Coins       uint16
	PlayTime    PlayTime
	Badges      Badges
	Game        Game
	SecurityKey uint32

	// IsValid is false when the trainer section could not be trusted; every
	// other field then holds its zero value.
	IsValid bool
}

// FullID is the 32-bit OT ID stored in records caught by this trainer.
func (t TrainerInfo) FullID() uint32 {
	return uint32(t.SecretID)<<16 | uint32(t.TrainerID)
}

// securityKey reads the XOR key for money and item quantities. Games without
// one use 0, which makes every XOR a no-op.
func securityKey(g Game, trainer *Section) uint32 {
	l, err := layoutFor(g)
	if err != nil || l.securityKey < 0 || trainer == nil {
		return 0
	}
	return trainer.u32(l.securityKey)
}

// DecodeTrainer reads the trainer card from sections 0, 1 and 2.
//
// A missing or failing trainer section does not abort the load: the result
// is a zero TrainerInfo with IsValid false and the error is
// ErrChecksumMismatchOnKeySection. A missing team or game-state section
// leaves money, coins and badges at zero.
func DecodeTrainer(g Game, trainer, team, state *Section) (TrainerInfo, error) {
	if trainer == nil || trainer.Verify() != nil {
		return TrainerInfo{Game: g}, ErrChecksumMismatchOnKeySection
	}

	info := TrainerInfo{
		Name:      DecodeText(trainer.Data[trainerNameOffset : trainerNameOffset+TrainerNameLength]),
		Female:    trainer.u8(trainerGenderOffset) != 0,
		TrainerID: trainer.u16(trainerIDOffset),
		SecretID:  trainer.u16(secretIDOffset),
		PlayTime: PlayTime{
			Hours:   trainer.u16(playHoursOffset),
			Minutes: trainer.u8(playMinutesOffset),
			Seconds: trainer.u8(playSecondsOffset),
			Frames:  trainer.u8(playFramesOffset),
		},
		Game:    g,
		IsValid: true,
	}

	l, err := layoutFor(g)
	if err != nil {
		return info, err
	}
	info.SecurityKey = securityKey(g, trainer)

	if team != nil {
		info.Money = utils.XORUint32(team.u32(l.money), info.SecurityKey)
		info.Coins = utils.XORUint16(team.u16(l.coins), info.SecurityKey)
	}
	if state != nil {
		info.Badges = readBadges(g, state)
	}
	return info, nil
}

func writeMoney(g Game, trainer, team *Section, money uint32) error {
	if money > MaxMoney {
		return fmt.Errorf("%w: money %d > %d", ErrValueOutOfRange, money, MaxMoney)
	}
	l, err := layoutFor(g)
	if err != nil {
		return err
	}
	team.putU32(l.money, utils.XORUint32(money, securityKey(g, trainer)))
	return nil
}

func writeCoins(g Game, trainer, team *Section, coins uint16) error {
	if coins > MaxCoins {
		return fmt.Errorf("%w: coins %d > %d", ErrValueOutOfRange, coins, MaxCoins)
	}
	l, err := layoutFor(g)
	if err != nil {
		return err
	}
	team.putU16(l.coins, utils.XORUint16(coins, securityKey(g, trainer)))
	return nil
}
