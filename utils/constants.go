// File: utils/constants.go
package utils

import "time"

// LiveLocationCachePrefix is the prefix used for Redis live-position cache keys.
const LiveLocationCachePrefix = "liveLocation:"

// LiveLocationCacheTTL is the time-to-live for cached live positions.
const LiveLocationCacheTTL = 10 * time.Minute
