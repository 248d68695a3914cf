package draft

import (
	"encoding/json"
	"fmt"

	"github.com/draftverse/draftroom/internal/models"
)

// Merge applies an incoming state payload over a local copy, last-write-
// wins per top-level field. The payload may be a full snapshot or a
// partial document; fields absent from it keep their local value. This
// is the single place replication conflicts are resolved, so a future
// operation-log model only has to replace this function.
func Merge(local *models.GameState, payload []byte) (*models.GameState, error) {
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(payload, &patch); err != nil {
		return nil, fmt.Errorf("failed to decode state payload: %w", err)
	}

	base := make(map[string]json.RawMessage)
	if local != nil {
		localJSON, err := json.Marshal(local)
		if err != nil {
			return nil, fmt.Errorf("failed to encode local state: %w", err)
		}
		if err := json.Unmarshal(localJSON, &base); err != nil {
			return nil, fmt.Errorf("failed to decode local state: %w", err)
		}
	}

	for k, v := range patch {
		base[k] = v
	}

	mergedJSON, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged state: %w", err)
	}

	var merged models.GameState
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, fmt.Errorf("failed to decode merged state: %w", err)
	}

	return &merged, nil
}
