package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/provide-io/gen3save/pkg/gen3"
)

var (
	okText    = color.New(color.FgGreen).SprintFunc()
	warnText  = color.New(color.FgYellow).SprintFunc()
	errText   = color.New(color.FgRed, color.Bold).SprintFunc()
	headText  = color.New(color.FgCyan, color.Bold).SprintFunc()
	shinyText = color.New(color.FgHiYellow).SprintFunc()
)

func heading(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, headText(fmt.Sprintf(format, args...)))
}

// describeMon renders one line for a party or box entry
func describeMon(rec *gen3.PokemonRecord) string {
	switch {
	case rec == nil:
		return "-"
	case rec.IsCorrupt():
		return errText("<corrupt record>")
	case rec.IsEmpty():
		return "-"
	case rec.IsEgg():
		return "Egg"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#%03d %-10s", rec.NationalDex(), rec.Nickname())
	if lvl := rec.Level(); lvl > 0 {
		fmt.Fprintf(&b, " Lv%-3d", lvl)
	}
	fmt.Fprintf(&b, " %-7s", rec.Nature())
	if rec.Growth.Item != 0 {
		fmt.Fprintf(&b, " item=%d", rec.Growth.Item)
	}
	if rec.IsShiny() {
		b.WriteString(" " + shinyText("★ shiny"))
	}
	return b.String()
}

// monJSON is the --json form of a Pokémon
type monJSON struct {
	Slot     int    `json:"slot"`
	Species  uint16 `json:"species"`
	Nickname string `json:"nickname"`
	Level    int    `json:"level,omitempty"`
	Nature   string `json:"nature"`
	Item     uint16 `json:"item,omitempty"`
	Shiny    bool   `json:"shiny"`
	Egg      bool   `json:"egg,omitempty"`
	Corrupt  bool   `json:"corrupt,omitempty"`
}

func toMonJSON(slot int, rec *gen3.PokemonRecord) monJSON {
	if rec.IsCorrupt() {
		return monJSON{Slot: slot + 1, Corrupt: true}
	}
	return monJSON{
		Slot:     slot + 1,
		Species:  rec.NationalDex(),
		Nickname: rec.Nickname(),
		Level:    rec.Level(),
		Nature:   rec.Nature().String(),
		Item:     rec.Growth.Item,
		Shiny:    rec.IsShiny(),
		Egg:      rec.IsEgg(),
	}
}
