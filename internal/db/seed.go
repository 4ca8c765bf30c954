package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"busticket/internal/domain"
	"busticket/internal/utils"
)

// SeedRoutes loads the route reference document from a JSON file when the
// store has no routes yet. A missing seed file is not an error.
func SeedRoutes(ctx context.Context, s Store, seedPath string) (int, error) {
	existing, err := s.Read(ctx, domain.DocRoutes)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return len(existing), nil
	}
	if seedPath == "" {
		return 0, nil
	}
	body, err := os.ReadFile(seedPath)
	if err != nil {
		if os.IsNotExist(err) {
			utils.LogWarn("", "store", "seed", "route seed "+seedPath+" not found")
			return 0, nil
		}
		return 0, domain.DocumentIOError{Document: domain.DocRoutes, Op: "seed", Err: err}
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return 0, fmt.Errorf("route seed %s: %w", seedPath, err)
	}
	if err := s.Write(ctx, domain.DocRoutes, records); err != nil {
		return 0, err
	}
	utils.LogEvent("", "store", "seed", fmt.Sprintf("seeded %d routes from %s", len(records), seedPath))
	return len(records), nil
}
