// Package ops implements the operations shared by every adapter (HTTP, CLI,
// MCP): ownership checks, draft validation, and the mapping from storage
// results to the error taxonomy. Adapters stay thin; they translate
// transport requests into these calls and serialize the results.
package ops

import (
	"strconv"
	"sync"

	"github.com/hpungsan/jot/internal/note"
	"github.com/hpungsan/jot/internal/store"
)

// Service owns one shared Persister. Engines are not safe for concurrent
// use, so every operation takes the mutex for the duration of its storage
// calls: exclusive access per operation, released before the next.
type Service struct {
	mu    sync.Mutex
	store store.Persister
}

// NewService wraps a Persister. Tests construct isolated services around
// isolated engines; there is no process-wide instance.
func NewService(p store.Persister) *Service {
	return &Service{store: p}
}

func formatID(id note.ID) string {
	return strconv.FormatUint(uint64(id), 10)
}
