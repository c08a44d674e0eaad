// File: utils/constants.go
package utils

// SessionCachePrefix is the prefix used for Redis suggestion session keys.
const SessionCachePrefix = "suggest:sess:"

// AvailabilityCachePrefix is the prefix for cached availability snapshots.
const AvailabilityCachePrefix = "avail:snap:"

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"
