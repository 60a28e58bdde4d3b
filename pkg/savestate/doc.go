// Package savestate persists minimal game-session state to a small
// non-volatile store so a crashed session can be recovered on next boot.
//
// The store holds a single fixed-layout binary record (SaveRecord) at
// offset 0: a 4-byte magic header, a 32-bit minigame exclusion bitmask, a
// crash flag armed at session start and cleared on clean exit, a handful of
// opaque game settings, and a one-byte additive checksum. There are no save
// slots and no versioning beyond the magic tag.
//
// Engine is the handle through which the host drives persistence. It is
// deliberately forgiving: a missing store is detected once at Initialize
// and every later operation quietly no-ops, so the recovery subsystem can
// be absent without the rest of the game noticing.
package savestate
