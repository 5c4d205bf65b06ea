package windlib

import (
	"encoding/json"
	"sync"
	"time"
)

// UsageSnapshot is a point-in-time copy of UsageStats.
type UsageSnapshot struct {
	Name         string
	LastUpdated  time.Time
	LastUsed     time.Time
	LastError    string
	SuccessCount uint64
	FailureCount uint64
}

func (u UsageSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name         string `json:"name"`
		LastUpdated  int64  `json:"last_updated"`
		LastUsed     int64  `json:"last_used"`
		LastError    string `json:"last_error"`
		SuccessCount uint64 `json:"success_count"`
		FailureCount uint64 `json:"failure_count"`
	}{
		Name:         u.Name,
		LastUpdated:  unixOrZero(u.LastUpdated),
		LastUsed:     unixOrZero(u.LastUsed),
		LastError:    u.LastError,
		SuccessCount: u.SuccessCount,
		FailureCount: u.FailureCount,
	})
}

// UsageStats counts calls to a provider. Geolocators also track a
// moment when their database was refreshed. It is safe for concurrent
// use.
type UsageStats struct {
	Name string

	mutex sync.RWMutex
	data  UsageSnapshot
}

// Used registers a result of a single call. A failure keeps its text
// as the last error until the next failure.
func (u *UsageStats) Used(err error) {
	now := time.Now()

	u.mutex.Lock()
	defer u.mutex.Unlock()

	u.data.LastUsed = now

	if err != nil {
		u.data.FailureCount++
		u.data.LastError = err.Error()

		return
	}

	u.data.SuccessCount++
}

func (u *UsageStats) Updated() {
	now := time.Now()

	u.mutex.Lock()
	u.data.LastUpdated = now
	u.mutex.Unlock()
}

func (u *UsageStats) Snapshot() UsageSnapshot {
	u.mutex.RLock()
	defer u.mutex.RUnlock()

	snapshot := u.data
	snapshot.Name = u.Name

	return snapshot
}

func (u *UsageStats) MarshalJSON() ([]byte, error) {
	return u.Snapshot().MarshalJSON()
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.Unix()
}
