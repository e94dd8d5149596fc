package utils

import "time"

// SlotCachePrefix is the prefix used for Redis slot-listing cache keys.
const SlotCachePrefix = "slots:"

// AIContextPrefix is the prefix used for Redis chat context keys.
const AIContextPrefix = "ai:ctx:"

// AIContextTTL is the time-to-live for chat context entries.
const AIContextTTL = 30 * time.Minute
