package main

import (
	"fmt"
	"strings"

	"github.com/pigeonhole-games/partysave/pkg/savestate"
)

// demoCatalog is a stand-in minigame catalog for the demo host.
var demoCatalog = []string{
	"snipsnap",
	"lavafloor",
	"hotpotato",
	"rocketduel",
	"crateclimb",
}

// demoGame implements savestate.GameState with plausible session values so
// a restored save has something visible to restore.
type demoGame struct {
	controllers   [savestate.MaxPlayers]bool
	aiDifficulty  uint8
	pointsToWin   uint8
	points        [savestate.MaxPlayers]uint8
	nextPlaystyle uint8
	chooser       uint8
	currentGame   uint8
}

func newDemoGame() *demoGame {
	return &demoGame{
		controllers:  [savestate.MaxPlayers]bool{true, true, false, false},
		aiDifficulty: 1,
		pointsToWin:  4,
		points:       [savestate.MaxPlayers]uint8{2, 1, 0, 0},
		chooser:      0,
		currentGame:  2,
	}
}

func (g *demoGame) PlayerControllers() [savestate.MaxPlayers]bool { return g.controllers }
func (g *demoGame) SetPlayerControllers(conts [savestate.MaxPlayers]bool) {
	g.controllers = conts
}

func (g *demoGame) AIDifficulty() uint8     { return g.aiDifficulty }
func (g *demoGame) SetAIDifficulty(d uint8) { g.aiDifficulty = d }

func (g *demoGame) PointsToWin() uint8     { return g.pointsToWin }
func (g *demoGame) SetPointsToWin(p uint8) { g.pointsToWin = p }

func (g *demoGame) Points(player int) uint8 { return g.points[player] }
func (g *demoGame) SetPoints(player int, points uint8) {
	g.points[player] = points
}

func (g *demoGame) NextPlaystyle() uint8     { return g.nextPlaystyle }
func (g *demoGame) SetNextPlaystyle(s uint8) { g.nextPlaystyle = s }

func (g *demoGame) Chooser() uint8     { return g.chooser }
func (g *demoGame) SetChooser(c uint8) { g.chooser = c }

func (g *demoGame) CurrentGameIndex() uint8 { return g.currentGame }

func (g *demoGame) LoadGame(index uint8) {
	if int(index) < len(demoCatalog) {
		g.currentGame = index
	}
}

// Summary renders the restored session state for the console.
func (g *demoGame) Summary() string {
	var b strings.Builder
	name := "unknown"
	if int(g.currentGame) < len(demoCatalog) {
		name = demoCatalog[g.currentGame]
	}
	fmt.Fprintf(&b, "Restored session: minigame %q, first to %d points\n", name, g.pointsToWin)
	for i := 0; i < savestate.MaxPlayers; i++ {
		kind := "AI"
		if g.controllers[i] {
			kind = "human"
		}
		fmt.Fprintf(&b, "  Player %d (%s): %d points\n", i+1, kind, g.points[i])
	}
	return strings.TrimRight(b.String(), "\n")
}
