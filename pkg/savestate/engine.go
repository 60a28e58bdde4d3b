package savestate

import (
	"github.com/pigeonhole-games/partysave/pkg/logging"
)

// GameState is implemented by the host application and owns the actual
// gameplay state. The engine only snapshots it into the record at save time
// and pushes it back out at load time; it never interprets the values.
type GameState interface {
	PlayerControllers() [MaxPlayers]bool
	SetPlayerControllers([MaxPlayers]bool)

	AIDifficulty() uint8
	SetAIDifficulty(uint8)

	PointsToWin() uint8
	SetPointsToWin(uint8)

	Points(player int) uint8
	SetPoints(player int, points uint8)

	NextPlaystyle() uint8
	SetNextPlaystyle(uint8)

	Chooser() uint8
	SetChooser(uint8)

	CurrentGameIndex() uint8

	// LoadGame asks the host to load the catalog entry at index.
	LoadGame(index uint8)
}

// Engine owns the cached save record and its persistence to a Store. It is
// a best-effort recovery aid: when the store is absent every operation
// silently degrades to a no-op and the rest of the application continues
// unaffected. Not safe for concurrent use; the host drives it from a single
// goroutine.
type Engine struct {
	store     Store
	game      GameState
	logger    *logging.Logger
	record    SaveRecord
	available bool
}

// NewEngine creates an engine over the given store and host game state.
// logger may be nil.
func NewEngine(store Store, game GameState, logger *logging.Logger) *Engine {
	return &Engine{store: store, game: game, logger: logger}
}

// Initialize probes the store and reads the persisted record into the
// cache. Returns false when no store is present, in which case all other
// operations become no-ops. A store whose contents lack the magic header,
// or whose checksum does not verify, is treated as uninitialized: the cache
// is reset to a fresh record, which is persisted on the next explicit Save.
func (e *Engine) Initialize() bool {
	e.available = false
	if e.store == nil || !e.store.Present() {
		e.logf("no store detected, crash recovery disabled")
		return false
	}
	e.available = true

	buf := make([]byte, RecordSize)
	if err := e.store.ReadAt(buf, 0); err != nil {
		e.logf("store read failed, starting fresh: %v", err)
		e.record = NewRecord()
		return true
	}

	if err := e.record.UnmarshalBinary(buf); err != nil || !e.record.HasMagic() {
		e.logf("store uninitialized, starting fresh")
		e.record = NewRecord()
		return true
	}
	if !e.record.VerifyChecksum() {
		e.logf("record checksum mismatch, discarding saved state")
		e.record = NewRecord()
		return true
	}
	return true
}

// Available reports whether a store was detected at Initialize.
func (e *Engine) Available() bool {
	return e.available
}

// CheckCrashed reports whether the previous session started but did not
// exit cleanly. Reads the cached record only, no store I/O.
func (e *Engine) CheckCrashed() bool {
	return e.record.CrashedFlag != 0
}

// Save persists the record to the store. When configOnly is false it first
// arms the crash flag and snapshots the host's gameplay state into the
// record; configOnly saves persist configuration changes (like the
// blacklist) without re-snapshotting or arming crash detection. The
// checksum is refreshed either way so the stored record always verifies.
func (e *Engine) Save(configOnly bool) {
	if !e.available {
		return
	}

	if !configOnly {
		e.record.CrashedFlag = 1
		conts := e.game.PlayerControllers()
		for i := 0; i < MaxPlayers; i++ {
			e.record.PlayerControllers[i] = 0
			if conts[i] {
				e.record.PlayerControllers[i] = 1
			}
			e.record.Points[i] = e.game.Points(i)
		}
		e.record.AIDifficulty = e.game.AIDifficulty()
		e.record.PointsToWin = e.game.PointsToWin()
		e.record.NextPlaystyle = e.game.NextPlaystyle()
		e.record.Chooser = e.game.Chooser()
		e.record.CurrentGame = e.game.CurrentGameIndex()
	}

	e.record.RefreshChecksum()
	e.writeRecord()
}

// Load pushes every cached field back out to the host and asks it to load
// the catalog entry the crashed session was playing. Pure propagation, no
// store I/O.
func (e *Engine) Load() {
	if !e.available {
		return
	}

	var conts [MaxPlayers]bool
	for i := 0; i < MaxPlayers; i++ {
		conts[i] = e.record.PlayerControllers[i] != 0
	}
	e.game.SetPlayerControllers(conts)
	e.game.SetAIDifficulty(e.record.AIDifficulty)
	e.game.SetPointsToWin(e.record.PointsToWin)
	for i := 0; i < MaxPlayers; i++ {
		e.game.SetPoints(i, e.record.Points[i])
	}
	e.game.SetNextPlaystyle(e.record.NextPlaystyle)
	e.game.SetChooser(e.record.Chooser)
	e.game.LoadGame(e.record.CurrentGame)
}

// Clear disarms the crash flag and writes the record back. This is how a
// user declines recovery.
func (e *Engine) Clear() {
	if !e.available {
		return
	}
	e.record.CrashedFlag = 0
	e.record.RefreshChecksum()
	e.writeRecord()
}

// SetBlacklist updates the cached exclusion bitmask from a per-catalog-entry
// boolean sequence. Persist with Save(true).
func (e *Engine) SetBlacklist(excluded []bool) error {
	return e.record.SetBlacklist(excluded)
}

// Blacklist returns the cached exclusion flags for a catalog of n entries.
func (e *Engine) Blacklist(n int) []bool {
	return e.record.BlacklistFlags(n)
}

// Record returns a copy of the cached record.
func (e *Engine) Record() SaveRecord {
	return e.record
}

func (e *Engine) writeRecord() {
	wire, err := e.record.MarshalBinary()
	if err != nil {
		e.logf("record marshal failed: %v", err)
		return
	}
	if err := e.store.WriteAt(wire, 0); err != nil {
		// Best effort: a failed write is logged but never surfaced.
		e.logf("store write failed: %v", err)
	}
}

func (e *Engine) logf(format string, v ...interface{}) {
	if e.logger != nil {
		e.logger.Debugf(format, v...)
	}
}
