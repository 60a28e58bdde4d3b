package savestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGame implements GameState for testing and records every setter call
// so tests can assert exactly what the engine pushed out.
type fakeGame struct {
	controllers   [MaxPlayers]bool
	aiDifficulty  uint8
	pointsToWin   uint8
	points        [MaxPlayers]uint8
	nextPlaystyle uint8
	chooser       uint8
	currentGame   uint8

	setterCalls int
	loadedGame  int // -1 until LoadGame is called
}

func newFakeGame() *fakeGame {
	return &fakeGame{loadedGame: -1}
}

func (g *fakeGame) PlayerControllers() [MaxPlayers]bool { return g.controllers }
func (g *fakeGame) SetPlayerControllers(c [MaxPlayers]bool) {
	g.controllers = c
	g.setterCalls++
}

func (g *fakeGame) AIDifficulty() uint8 { return g.aiDifficulty }
func (g *fakeGame) SetAIDifficulty(d uint8) {
	g.aiDifficulty = d
	g.setterCalls++
}

func (g *fakeGame) PointsToWin() uint8 { return g.pointsToWin }
func (g *fakeGame) SetPointsToWin(p uint8) {
	g.pointsToWin = p
	g.setterCalls++
}

func (g *fakeGame) Points(player int) uint8 { return g.points[player] }
func (g *fakeGame) SetPoints(player int, points uint8) {
	g.points[player] = points
	g.setterCalls++
}

func (g *fakeGame) NextPlaystyle() uint8 { return g.nextPlaystyle }
func (g *fakeGame) SetNextPlaystyle(s uint8) {
	g.nextPlaystyle = s
	g.setterCalls++
}

func (g *fakeGame) Chooser() uint8 { return g.chooser }
func (g *fakeGame) SetChooser(c uint8) {
	g.chooser = c
	g.setterCalls++
}

func (g *fakeGame) CurrentGameIndex() uint8 { return g.currentGame }

func (g *fakeGame) LoadGame(index uint8) {
	g.loadedGame = int(index)
	g.setterCalls++
}

func TestInitializeFreshStore(t *testing.T) {
	// A brand new store reads back as garbage (erased cells), which must be
	// treated as a first boot.
	store := NewMemStore(RecordSize)
	engine := NewEngine(store, newFakeGame(), nil)

	require.True(t, engine.Initialize())
	assert.True(t, engine.Available())
	assert.False(t, engine.CheckCrashed())

	record := engine.Record()
	assert.True(t, record.HasMagic())
	assert.True(t, record.VerifyChecksum())
	assert.Zero(t, record.Blacklist)
	assert.Zero(t, record.AIDifficulty)
	assert.Zero(t, record.Points)
	assert.Zero(t, record.CurrentGame)

	// Initialization must not persist anything on its own.
	for i, b := range store.Bytes() {
		require.Equal(t, byte(erasedByte), b, "store byte %d written during init", i)
	}
}

func TestInitializeAbsentStore(t *testing.T) {
	game := newFakeGame()
	engine := NewEngine(AbsentStore{}, game, nil)

	require.False(t, engine.Initialize())
	assert.False(t, engine.Available())

	// Every operation degrades to a silent no-op.
	engine.Save(false)
	engine.Load()
	engine.Clear()
	assert.Zero(t, game.setterCalls)
	assert.Equal(t, -1, game.loadedGame)
	assert.False(t, engine.CheckCrashed())
}

func TestSaveArmsCrashFlag(t *testing.T) {
	store := NewMemStore(RecordSize)
	game := newFakeGame()
	game.controllers = [MaxPlayers]bool{true, false, true, false}
	game.aiDifficulty = 2
	game.pointsToWin = 5
	game.points = [MaxPlayers]uint8{3, 1, 0, 2}
	game.nextPlaystyle = 1
	game.chooser = 3
	game.currentGame = 7

	engine := NewEngine(store, game, nil)
	require.True(t, engine.Initialize())
	engine.Save(false)

	assert.True(t, engine.CheckCrashed())

	var persisted SaveRecord
	require.NoError(t, persisted.UnmarshalBinary(store.Bytes()))
	assert.EqualValues(t, 1, persisted.CrashedFlag)
	assert.True(t, persisted.VerifyChecksum())
	assert.Equal(t, [MaxPlayers]uint8{1, 0, 1, 0}, persisted.PlayerControllers)
	assert.EqualValues(t, 2, persisted.AIDifficulty)
	assert.EqualValues(t, 5, persisted.PointsToWin)
	assert.Equal(t, [MaxPlayers]uint8{3, 1, 0, 2}, persisted.Points)
	assert.EqualValues(t, 1, persisted.NextPlaystyle)
	assert.EqualValues(t, 3, persisted.Chooser)
	assert.EqualValues(t, 7, persisted.CurrentGame)
}

func TestClearDisarmsCrashFlag(t *testing.T) {
	store := NewMemStore(RecordSize)
	engine := NewEngine(store, newFakeGame(), nil)
	require.True(t, engine.Initialize())

	engine.Save(false)
	require.True(t, engine.CheckCrashed())

	engine.Clear()
	assert.False(t, engine.CheckCrashed())

	var persisted SaveRecord
	require.NoError(t, persisted.UnmarshalBinary(store.Bytes()))
	assert.EqualValues(t, 0, persisted.CrashedFlag)
	assert.True(t, persisted.VerifyChecksum())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewMemStore(RecordSize)

	// First session saves a snapshot, then "crashes".
	game := newFakeGame()
	game.controllers = [MaxPlayers]bool{true, true, false, false}
	game.aiDifficulty = 1
	game.pointsToWin = 4
	game.points = [MaxPlayers]uint8{2, 2, 1, 0}
	game.nextPlaystyle = 2
	game.chooser = 1
	game.currentGame = 3

	engine := NewEngine(store, game, nil)
	require.True(t, engine.Initialize())
	engine.Save(false)

	// Next boot: a fresh engine over the same store restores the session
	// into a blank host.
	restoredGame := newFakeGame()
	restored := NewEngine(store, restoredGame, nil)
	require.True(t, restored.Initialize())
	require.True(t, restored.CheckCrashed())

	restored.Load()
	assert.Equal(t, [MaxPlayers]bool{true, true, false, false}, restoredGame.controllers)
	assert.EqualValues(t, 1, restoredGame.aiDifficulty)
	assert.EqualValues(t, 4, restoredGame.pointsToWin)
	assert.Equal(t, [MaxPlayers]uint8{2, 2, 1, 0}, restoredGame.points)
	assert.EqualValues(t, 2, restoredGame.nextPlaystyle)
	assert.EqualValues(t, 1, restoredGame.chooser)
	assert.Equal(t, 3, restoredGame.loadedGame)

	// Load is pure propagation: nothing in the store changed.
	var persisted SaveRecord
	require.NoError(t, persisted.UnmarshalBinary(store.Bytes()))
	assert.EqualValues(t, 1, persisted.CrashedFlag)
}

func TestConfigOnlySave(t *testing.T) {
	store := NewMemStore(RecordSize)
	game := newFakeGame()
	game.currentGame = 9

	engine := NewEngine(store, game, nil)
	require.True(t, engine.Initialize())

	require.NoError(t, engine.SetBlacklist([]bool{false, true, false, true, false}))
	engine.Save(true)

	var persisted SaveRecord
	require.NoError(t, persisted.UnmarshalBinary(store.Bytes()))
	assert.EqualValues(t, 10, persisted.Blacklist)
	assert.True(t, persisted.VerifyChecksum())

	// Config-only saves never arm crash detection or snapshot game state.
	assert.EqualValues(t, 0, persisted.CrashedFlag)
	assert.EqualValues(t, 0, persisted.CurrentGame)
	assert.False(t, engine.CheckCrashed())
}

func TestBlacklistRoundTripThroughStore(t *testing.T) {
	store := NewMemStore(RecordSize)
	engine := NewEngine(store, newFakeGame(), nil)
	require.True(t, engine.Initialize())

	excluded := []bool{true, false, false, true, true}
	require.NoError(t, engine.SetBlacklist(excluded))
	engine.Save(true)

	reloaded := NewEngine(store, newFakeGame(), nil)
	require.True(t, reloaded.Initialize())
	assert.Equal(t, excluded, reloaded.Blacklist(len(excluded)))
}

func TestCorruptRecordDiscarded(t *testing.T) {
	store := NewMemStore(RecordSize)
	engine := NewEngine(store, newFakeGame(), nil)
	require.True(t, engine.Initialize())
	engine.Save(false)

	// Flip a points byte in the stored record without fixing the checksum.
	store.Bytes()[offPoints] ^= 0xFF

	reloaded := NewEngine(store, newFakeGame(), nil)
	require.True(t, reloaded.Initialize())
	assert.False(t, reloaded.CheckCrashed(), "corrupt record must not offer recovery")

	record := reloaded.Record()
	assert.True(t, record.HasMagic())
	assert.Zero(t, record.Points)
}

func TestNilStoreTreatedAsAbsent(t *testing.T) {
	engine := NewEngine(nil, newFakeGame(), nil)
	assert.False(t, engine.Initialize())
	assert.False(t, engine.Available())
}
