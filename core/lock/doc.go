// Package lock prevents overlapping reconciliation runs.
//
// Guard joins concurrent callers in the same process through singleflight, so a second
// "sync all" issued while one is running waits for and shares the first run's summary.
// When a Redis address is configured, RedisLocker additionally holds a SET NX key for the
// duration of the run; a run started by another process while the key is held fails fast
// with ErrRunInProgress and makes no provider calls.
//
// The Redis key expires after Config.LockTTLSeconds so a crashed process cannot block runs
// forever, and release only deletes the key while it still holds the acquiring token.
package lock
