package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseParticipantID tests participant ID parsing
func TestParseParticipantID(t *testing.T) {
	tests := []struct {
		input    string
		expected ParticipantID
		hasError bool
	}{
		{"p-001", ParticipantID("p-001"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseParticipantID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestParseCardKey tests card key parsing and whitespace normalization
func TestParseCardKey(t *testing.T) {
	tests := []struct {
		input    string
		expected CardKey
		hasError bool
	}{
		{"Checkout", CardKey("Checkout"), false},
		{"  Checkout ", CardKey("Checkout"), false},
		{"", "", true},
		{"  ", "", true},
	}

	for _, test := range tests {
		result, err := ParseCardKey(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestComputeResultSetHash tests order independence of the content hash
func TestComputeResultSetHash(t *testing.T) {
	a := ComputeResultSetHash([]string{"p1|cats", "p2|cats"})
	b := ComputeResultSetHash([]string{"p2|cats", "p1|cats"})
	if a != b {
		t.Errorf("Expected order-independent hash, got %s vs %s", a, b)
	}

	c := ComputeResultSetHash([]string{"p1|cats", "p3|cats"})
	if a == c {
		t.Error("Expected different content to produce different hashes")
	}
}
