package models

import (
	"sort"
	"time"
)

// ChallengeType tags a challenge with one of a fixed set of known
// variants. New variants are added by extending the registry below, not
// by open-ended subtyping.
type ChallengeType string

const (
	// ChallengeTypeDefault holds tasks defined by GeoJSON feature
	// collections posted one payload at a time.
	ChallengeTypeDefault ChallengeType = "default"
	// ChallengeTypeRemote holds tasks pushed in bulk with an external
	// manifest and a bare location per task.
	ChallengeTypeRemote ChallengeType = "remote"
)

// ChallengeTypeInfo describes the capabilities of one challenge variant.
type ChallengeTypeInfo struct {
	Tag         ChallengeType
	Description string
	// BulkIngest marks variants that accept the id/manifest/location
	// bulk upload form.
	BulkIngest bool
}

var challengeTypes = map[ChallengeType]ChallengeTypeInfo{
	ChallengeTypeDefault: {
		Tag:         ChallengeTypeDefault,
		Description: "feature-collection tasks managed through the admin surface",
	},
	ChallengeTypeRemote: {
		Tag:         ChallengeTypeRemote,
		Description: "tasks pushed in bulk by a remote publisher",
		BulkIngest:  true,
	},
}

// LookupChallengeType resolves a type tag against the registry.
func LookupChallengeType(tag ChallengeType) (ChallengeTypeInfo, bool) {
	info, ok := challengeTypes[tag]
	return info, ok
}

// KnownChallengeTypes returns the registered type tags, sorted.
func KnownChallengeTypes() []ChallengeType {
	tags := make([]ChallengeType, 0, len(challengeTypes))
	for tag := range challengeTypes {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

type Challenge struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Type        ChallengeType `json:"type"`
	Active      bool          `json:"active"`
	Instruction string        `json:"instruction,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
