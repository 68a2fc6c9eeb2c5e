package redis

import (
	"fmt"

	"github.com/mcoot/playtracker/internal/model"
)

// Key prefix for all application data
const keyPrefix = "playtracker"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}
