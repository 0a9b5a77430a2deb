package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages feature toggles with optional gradual rollout.
// Rollout assignment is stable per member: it hashes the username, so a
// member keeps seeing the same variant across sessions.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100). Members are assigned by username hash.
	RolloutPercent int
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	Username string
	IsAdmin  bool
}

// Predefined feature flag names.
const (
	// FeatureLeaderboardStreaks shows current streaks next to leaderboard rows.
	FeatureLeaderboardStreaks = "leaderboard.streaks"

	// FeatureStatsTips appends coaching tips to team statistics output.
	FeatureStatsTips = "stats.tips"

	// FeatureMilestoneCelebrations announces newly crossed team milestones.
	FeatureMilestoneCelebrations = "milestones.celebrations"

	// FeatureStatsCache serves team statistics from the Redis cache.
	FeatureStatsCache = "stats.cache"
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureLeaderboardStreaks] = &Feature{
		Name:           FeatureLeaderboardStreaks,
		Description:    "Show current streaks in the leaderboard",
		Enabled:        true,
		RolloutPercent: 100,
	}
	ff.features[FeatureStatsTips] = &Feature{
		Name:           FeatureStatsTips,
		Description:    "Append coaching tips to team statistics",
		Enabled:        true,
		RolloutPercent: 100,
	}
	ff.features[FeatureMilestoneCelebrations] = &Feature{
		Name:           FeatureMilestoneCelebrations,
		Description:    "Announce newly crossed team milestones",
		Enabled:        true,
		RolloutPercent: 100,
	}
	ff.features[FeatureStatsCache] = &Feature{
		Name:           FeatureStatsCache,
		Description:    "Serve team statistics from the Redis cache",
		Enabled:        true,
		RolloutPercent: 100,
	}
}

// loadFromEnvironment applies FEATURE_* overrides. The variable name is the
// flag name uppercased with dots replaced by underscores, e.g.
// FEATURE_STATS_TIPS=false or FEATURE_STATS_CACHE_ROLLOUT=25.
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, f := range ff.features {
		envName := "FEATURE_" + strings.ToUpper(strings.ReplaceAll(name, ".", "_"))

		if val := os.Getenv(envName); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				f.Enabled = b
			}
		}
		if val := os.Getenv(envName + "_ROLLOUT"); val != "" {
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				f.RolloutPercent = p
			}
		}
	}
}

// IsEnabled reports whether a feature is on for the given member. Admins
// always see rollout features; unknown flags are off.
func (ff *FeatureFlags) IsEnabled(name string, fctx FeatureContext) bool {
	ff.mu.RLock()
	f, ok := ff.features[name]
	ff.mu.RUnlock()

	if !ok || !f.Enabled {
		return false
	}
	if f.RolloutPercent >= 100 || fctx.IsAdmin {
		return true
	}
	if f.RolloutPercent <= 0 {
		return false
	}
	return bucketOf(fctx.Username) < f.RolloutPercent
}

// Set enables or disables a flag at runtime.
func (ff *FeatureFlags) Set(name string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if f, ok := ff.features[name]; ok {
		f.Enabled = enabled
	}
}

// bucketOf maps a username to a stable 0-99 rollout bucket.
func bucketOf(username string) int {
	h := fnv.New32a()
	h.Write([]byte(username))
	return int(h.Sum32() % 100)
}
