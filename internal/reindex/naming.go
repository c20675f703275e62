package reindex

import (
	"fmt"
	"time"
)

// GenerateCollectionName derives a fresh generation name from the base
// collection name. The millisecond timestamp keeps sequential runs
// unique and time-ordered without any external state.
func GenerateCollectionName(base string) string {
	return fmt.Sprintf("%s_%d", base, time.Now().UnixMilli())
}
