package state_store

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gridfeed/gridfeed/model"
	"github.com/gridfeed/gridfeed/utils"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

type localStateRow struct {
	ViewerId  string `gorm:"primaryKey"`
	Payload   datatypes.JSON
	UpdatedAt time.Time
}

func (localStateRow) TableName() string {
	return "local_states"
}

// DBStore keeps one row per viewer in Postgres, the whole state as a
// JSON column. Relational modelling buys nothing here, the state is
// only ever read and written whole.
type DBStore struct {
	db       *gorm.DB
	viewerId string
}

func NewDBStore(viewerId string) (*DBStore, error) {
	db, err := utils.GetDBConnection()
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&localStateRow{}); err != nil {
		return nil, err
	}
	return &DBStore{db: db, viewerId: viewerId}, nil
}

func (s *DBStore) Save(ctx context.Context, state *model.LocalState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	row := &localStateRow{ViewerId: s.viewerId, Payload: payload, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
}

func (s *DBStore) Load(ctx context.Context) (*model.LocalState, error) {
	row := &localStateRow{}
	err := s.db.WithContext(ctx).First(row, "viewer_id = ?", s.viewerId).Error
	if err == gorm.ErrRecordNotFound {
		return model.NewLocalState(), nil
	}
	if err != nil {
		return nil, err
	}

	state := &model.LocalState{}
	if err := json.Unmarshal(row.Payload, state); err != nil {
		Logger.Log.Warnln("discarding corrupt local state row:", err)
		return model.NewLocalState(), nil
	}
	state.Normalize()
	return state, nil
}
