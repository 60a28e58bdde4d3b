package savestate

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MaxPlayers is the number of player slots tracked by a save record.
const MaxPlayers = 4

// MaxCatalogEntries is the hard cap on minigame catalog size imposed by the
// 32-bit blacklist field. Catalogs larger than this cannot be persisted.
const MaxCatalogEntries = 32

// Byte offsets of each field in the serialized record. The wire layout is
// defined here, independent of Go struct layout, so the record size is
// stable across builds.
const (
	offHeader        = 0
	offBlacklist     = offHeader + 4
	offCrashedFlag   = offBlacklist + 4
	offAIDifficulty  = offCrashedFlag + 1
	offPointsToWin   = offAIDifficulty + 1
	offNextPlaystyle = offPointsToWin + 1
	offControllers   = offNextPlaystyle + 1
	offPoints        = offControllers + MaxPlayers
	offChooser       = offPoints + MaxPlayers
	offCurrentGame   = offChooser + 1
	offChecksum      = offCurrentGame + 1

	// RecordSize is the exact number of bytes a serialized SaveRecord
	// occupies in the store.
	RecordSize = offChecksum + 1
)

// magicTag marks a store that has been initialized by this system.
var magicTag = [4]byte{'N', 'B', 'G', 'J'}

// ErrShortRecord indicates a buffer smaller than RecordSize.
var ErrShortRecord = fmt.Errorf("savestate: record requires %d bytes", RecordSize)

// ErrCatalogTooLarge indicates a blacklist longer than the bitmask can hold.
var ErrCatalogTooLarge = fmt.Errorf("savestate: catalog exceeds %d entries", MaxCatalogEntries)

// SaveRecord is the fixed-layout session snapshot persisted to the store.
// Fields other than Header, CrashedFlag, Blacklist and Checksum are opaque
// game settings owned by the host; the engine only ferries them.
type SaveRecord struct {
	Header            [4]byte
	Blacklist         uint32
	CrashedFlag       uint8
	AIDifficulty      uint8
	PointsToWin       uint8
	NextPlaystyle     uint8
	PlayerControllers [MaxPlayers]uint8
	Points            [MaxPlayers]uint8
	Chooser           uint8
	CurrentGame       uint8
	Checksum          uint8
}

// NewRecord returns a freshly initialized record: all fields zero, the magic
// tag in the header, and a matching checksum. This is the state a record
// takes on first boot or after corruption is detected.
func NewRecord() SaveRecord {
	r := SaveRecord{Header: magicTag}
	r.RefreshChecksum()
	return r
}

// HasMagic reports whether the header carries the magic tag, i.e. whether
// the record came from a store this system initialized at some point.
func (r *SaveRecord) HasMagic() bool {
	return bytes.Equal(r.Header[:], magicTag[:])
}

// MarshalBinary packs the record into its wire layout. The blacklist is
// stored little-endian; every other field is a single byte.
func (r SaveRecord) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RecordSize)
	copy(buf[offHeader:], r.Header[:])
	binary.LittleEndian.PutUint32(buf[offBlacklist:], r.Blacklist)
	buf[offCrashedFlag] = r.CrashedFlag
	buf[offAIDifficulty] = r.AIDifficulty
	buf[offPointsToWin] = r.PointsToWin
	buf[offNextPlaystyle] = r.NextPlaystyle
	copy(buf[offControllers:], r.PlayerControllers[:])
	copy(buf[offPoints:], r.Points[:])
	buf[offChooser] = r.Chooser
	buf[offCurrentGame] = r.CurrentGame
	buf[offChecksum] = r.Checksum
	return buf, nil
}

// UnmarshalBinary decodes a record from its wire layout.
func (r *SaveRecord) UnmarshalBinary(data []byte) error {
	if len(data) < RecordSize {
		return fmt.Errorf("%w, got %d", ErrShortRecord, len(data))
	}
	copy(r.Header[:], data[offHeader:offHeader+4])
	r.Blacklist = binary.LittleEndian.Uint32(data[offBlacklist:])
	r.CrashedFlag = data[offCrashedFlag]
	r.AIDifficulty = data[offAIDifficulty]
	r.PointsToWin = data[offPointsToWin]
	r.NextPlaystyle = data[offNextPlaystyle]
	copy(r.PlayerControllers[:], data[offControllers:offControllers+MaxPlayers])
	copy(r.Points[:], data[offPoints:offPoints+MaxPlayers])
	r.Chooser = data[offChooser]
	r.CurrentGame = data[offCurrentGame]
	r.Checksum = data[offChecksum]
	return nil
}

// checksumOf sums every byte preceding the checksum slot, modulo 256. The
// checksum field is the final byte of the record, so the value is
// recomputable and verifiable from the stored bytes alone.
func checksumOf(wire []byte) uint8 {
	var sum uint8
	for _, b := range wire[:offChecksum] {
		sum += b
	}
	return sum
}

// ComputeChecksum returns the additive checksum of the record's current
// contents without modifying it.
func (r *SaveRecord) ComputeChecksum() uint8 {
	wire, _ := r.MarshalBinary()
	return checksumOf(wire)
}

// RefreshChecksum recomputes the checksum field from the other fields.
// Call after any mutation and before writing the record out.
func (r *SaveRecord) RefreshChecksum() {
	r.Checksum = r.ComputeChecksum()
}

// VerifyChecksum reports whether the stored checksum matches the record's
// contents.
func (r *SaveRecord) VerifyChecksum() bool {
	return r.Checksum == r.ComputeChecksum()
}

// SetBlacklist packs a per-catalog-entry exclusion sequence into the bitmask
// field. Bit i is set iff excluded[i] is true.
func (r *SaveRecord) SetBlacklist(excluded []bool) error {
	if len(excluded) > MaxCatalogEntries {
		return fmt.Errorf("%w: got %d", ErrCatalogTooLarge, len(excluded))
	}
	var mask uint32
	for i, ex := range excluded {
		if ex {
			mask |= 1 << i
		}
	}
	r.Blacklist = mask
	return nil
}

// BlacklistFlags unpacks the bitmask into a boolean sequence of length n,
// one entry per catalog slot.
func (r *SaveRecord) BlacklistFlags(n int) []bool {
	if n > MaxCatalogEntries {
		n = MaxCatalogEntries
	}
	flags := make([]bool, n)
	for i := range flags {
		flags[i] = r.Blacklist>>i&1 == 1
	}
	return flags
}
