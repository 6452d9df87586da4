package state_store

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/gridfeed/gridfeed/model"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

// FileStore keeps the state as one JSON document on disk. Writes go
// through a temp file plus rename so a crash mid-save leaves the
// previous state intact.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(ctx context.Context, state *model.LocalState) error {
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal local state")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := ioutil.WriteFile(tmp, payload, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Load(ctx context.Context) (*model.LocalState, error) {
	payload, err := ioutil.ReadFile(s.path)
	if os.IsNotExist(err) {
		return model.NewLocalState(), nil
	}
	if err != nil {
		return nil, err
	}

	state := &model.LocalState{}
	if err := json.Unmarshal(payload, state); err != nil {
		// A corrupt file should not brick the daemon, the worst case of
		// starting fresh is re-showing server truth.
		Logger.Log.Warnln("discarding corrupt local state file:", err)
		return model.NewLocalState(), nil
	}
	state.Normalize()
	return state, nil
}
