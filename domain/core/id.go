package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ParticipantID ID
	StudyID       ID
	CardKey       ID // card identity across participants, keyed by card text
	CategoryKey   ID // category identity across participants, keyed by category name
	GuidelineID   ID // WCAG guideline identifier from the external auditing tool
)

// String conversions for domain IDs
func (id ParticipantID) String() string { return ID(id).String() }
func (id StudyID) String() string       { return ID(id).String() }
func (id CardKey) String() string       { return ID(id).String() }
func (id CategoryKey) String() string   { return ID(id).String() }
func (id GuidelineID) String() string   { return ID(id).String() }

// ParseParticipantID parses a string into ParticipantID
func ParseParticipantID(s string) (ParticipantID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("participant ID cannot be empty")
	}
	return ParticipantID(s), nil
}

// ParseStudyID parses a string into StudyID
func ParseStudyID(s string) (StudyID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("study ID cannot be empty")
	}
	return StudyID(s), nil
}

// ParseCardKey parses a card text into CardKey. Card text is trimmed because
// the same card may carry stray whitespace between participant exports.
func ParseCardKey(s string) (CardKey, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("card text cannot be empty")
	}
	return CardKey(trimmed), nil
}

// ParseCategoryKey parses a category name into CategoryKey
func ParseCategoryKey(s string) (CategoryKey, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("category name cannot be empty")
	}
	return CategoryKey(trimmed), nil
}
