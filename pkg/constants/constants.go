// Package constants provides shared constants used throughout the skillmatrix
// codebase. This includes scoring thresholds, phase bounds, the category
// priority used for group ordering, and file permissions for the adapters.
package constants

import "time"

// Scoring constants for the similarity scorer and duplicate detector
const (
	// ExactMatchScore is returned for byte-identical labels
	ExactMatchScore = 1.0

	// NormalizedMatchScore is returned when labels differ only by case or
	// whitespace. It stays below ExactMatchScore so the two remain distinguishable.
	NormalizedMatchScore = 0.95

	// DefaultSimilarityThreshold is the lowest score reported as a near-duplicate.
	// Lower values over-trigger on short labels.
	DefaultSimilarityThreshold = 0.7
)

// Phase constants bound the five ordered maturity stages of a group
const (
	// MinPhase is the first valid phase
	MinPhase = 1

	// MaxPhase is the last valid phase
	MaxPhase = 5

	// PhaseCount is the number of phase buckets per group
	PhaseCount = MaxPhase - MinPhase + 1
)

// Identity constants
const (
	// GroupPlaceholderPrefix prefixes provisional group ids so they never
	// parse as persisted numeric ids
	GroupPlaceholderPrefix = "tmp-"

	// PendingGroupKeyPrefix prefixes the order-entry key and validator
	// marker of a pending group
	PendingGroupKeyPrefix = "new-"

	// KeySeparator joins the parts of a composite key
	KeySeparator = "|"
)

// CategoryPriority is the tie-break order for groups without an explicit
// display order. Categories not listed sort after all of these.
var CategoryPriority = []string{"共通", "RedTeam", "PurpleTeam", "BlueTeam", "インフラ"}

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Timeout constants for the persistence adapters
const (
	// StoreTimeout bounds a single load or save against a store
	StoreTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute
)

// Path constants
const (
	// DefaultRecordsPath is the default files-store document
	DefaultRecordsPath = "skills.yaml"

	// DefaultDatabasePath is the default sqlite-store database
	DefaultDatabasePath = "skills.db"

	// ConfigFileName is the config file name searched in $HOME and ./
	ConfigFileName = ".skillmatrix"

	// EnvPrefix prefixes environment variables read by the CLI
	EnvPrefix = "SKILLMATRIX"
)

// Format constants
const (
	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)
