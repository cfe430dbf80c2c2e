// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package usage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jeranaias/widgetchat/internal/util"
)

// =============================================================================
// USAGE STORE
// =============================================================================

// stateFile is the durable key holding the usage record.
const stateFile = "usage.json"

// Store persists the usage state to disk. Evaluation itself never touches
// storage; callers load, evaluate, then save the returned next state.
type Store struct {
	path string
}

// NewStore creates a store rooted at dir. Empty dir defaults to
// ~/.widgetchat/.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(homeDir, ".widgetchat")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Store{path: filepath.Join(dir, stateFile)}, nil
}

// Load reads the persisted state. A missing file is an idle state, not an
// error; a corrupt file also resets to idle rather than wedging sends.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, nil
	}
	return state, nil
}

// Save persists the state atomically so a crash mid-write cannot corrupt
// the record.
func (s *Store) Save(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, data, 0644)
}

// Reset removes the persisted record, returning to idle.
func (s *Store) Reset() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
