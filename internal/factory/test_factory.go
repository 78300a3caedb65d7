package factory

import (
	"github.com/mcoot/playerregistry/internal/storage/memory"
	"github.com/mcoot/playerregistry/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Memory is the backing store, exposed for direct seeding and inspection
	Memory *memory.Storage
}

// NewTestApp creates an App over fresh in-memory storage
func NewTestApp() *TestApp {
	store := memory.New()

	return &TestApp{
		App:    newWithStorage(store, testutil.NopLogger()),
		Memory: store,
	}
}

// ValidPlayer returns a complete, valid create payload
func ValidPlayer(name string) map[string]string {
	return map[string]string{
		"name":       name,
		"title":      "Adventurer",
		"race":       "HUMAN",
		"profession": "WARRIOR",
		"birthday":   "1262304000000", // 2010-01-01T00:00:00Z
		"experience": "0",
	}
}
