package domain

import "strings"

// Seed payloads import customers in bulk. The payload is a tagged union:
// Kind names which branch is populated, and exactly that branch must carry
// data. Earlier revisions inferred the branch from whichever slice happened
// to be non-empty, which misfiled mixed payloads; the tag makes the caller's
// intent explicit.
const (
	SeedKindContacts = "contacts"
	SeedKindLists    = "lists"
)

type SeedRequest struct {
	Kind     string        `json:"kind"`
	Contacts []SeedContact `json:"contacts,omitempty"`
	Lists    []SeedList    `json:"lists,omitempty"`
}

type SeedContact struct {
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

type SeedList struct {
	Name    string        `json:"name"`
	Members []SeedContact `json:"members"`
}

func (r *SeedRequest) Validate() error {
	switch strings.TrimSpace(r.Kind) {
	case SeedKindContacts:
		if len(r.Contacts) == 0 {
			return ErrEmptySeed
		}
		if len(r.Lists) > 0 {
			return ErrMixedSeed
		}
	case SeedKindLists:
		if len(r.Lists) == 0 {
			return ErrEmptySeed
		}
		if len(r.Contacts) > 0 {
			return ErrMixedSeed
		}
	default:
		return ErrInvalidSeedKind
	}
	return nil
}

// SeedResult reports what a seed run created.
type SeedResult struct {
	CustomersCreated int      `json:"customers_created"`
	GroupsCreated    int      `json:"groups_created"`
	Skipped          []string `json:"skipped,omitempty"`
}
