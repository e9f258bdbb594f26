package roster

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when an operation addresses an identity
// that has no record in the roster
var ErrNotFound = errors.New("member not found in roster")

// Store is the durable identity -> member mapping.
// It is opened once at process start and injected into every
// component that needs it; each operation runs as its own statement,
// so there is no transaction state to carry between calls.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the roster database at the given path
func Open(path string) (*Store, error) {
	connOpts := "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	return open(fmt.Sprintf("file:%s?%s", path, connOpts))
}

var memoryDBCounter atomic.Int64

// OpenInMemory opens a throwaway in-memory roster, useful for testing.
// Each call gets a database of its own; cache=shared only makes the
// connections of one pool agree on it
func OpenInMemory() (*Store, error) {
	name := memoryDBCounter.Add(1)
	return open(fmt.Sprintf("file:roster%d?mode=memory&cache=shared", name))
}

func open(dsn string) (*Store, error) {
	db, err := gorm.Open(
		sqlite.Open(dsn),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("could not open roster database: %w", err)
	}
	if err := db.AutoMigrate(&Member{}); err != nil {
		return nil, fmt.Errorf("could not migrate members table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database connection
func (store *Store) Close() error {
	sqlDB, err := store.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Create inserts a record with default flags and zero activity.
// The conflict clause swallows duplicate creations inside the
// database itself, so an existing record is left untouched and the
// original JoinedAt survives duplicate join events
func (store *Store) Create(id int64, username string, joinedAt time.Time) error {
	member := Member{ID: id, Username: username, JoinedAt: joinedAt}
	result := store.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&member)
	if result.Error != nil {
		return fmt.Errorf("could not create member %d: %w", id, result.Error)
	}
	return nil
}

// Get returns the record for the identity, or ErrNotFound
func (store *Store) Get(id int64) (Member, error) {
	var member Member
	result := store.db.First(&member, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Member{}, ErrNotFound
		}
		return Member{}, fmt.Errorf("could not get member %d: %w", id, result.Error)
	}
	return member, nil
}

// Delete removes the record for the identity. Deleting an identity
// that was never stored is a no-op
func (store *Store) Delete(id int64) error {
	result := store.db.Delete(&Member{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("could not delete member %d: %w", id, result.Error)
	}
	return nil
}

// SetFlag sets one of the boolean flags on an existing record.
// Returns ErrNotFound when the identity is absent: a flag change
// implies the caller believed the record existed
func (store *Store) SetFlag(id int64, flag Flag, value bool) error {
	result := store.db.Model(&Member{}).Where("id = ?", id).Update(string(flag), value)
	if result.Error != nil {
		return fmt.Errorf("could not set flag %s for member %d: %w", flag, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUsername refreshes the stored display name. The name is
// informational only and does not participate in ordering
func (store *Store) SetUsername(id int64, username string) error {
	result := store.db.Model(&Member{}).Where("id = ?", id).Update("username", username)
	if result.Error != nil {
		return fmt.Errorf("could not set username for member %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementMessageCount adds one to the activity counter.
// The increment happens inside a single UPDATE statement, so
// concurrent increments for the same identity serialize in the
// storage layer instead of racing in Go
func (store *Store) IncrementMessageCount(id int64) error {
	result := store.db.Model(&Member{}).
		Where("id = ?", id).
		Update("message_count", gorm.Expr("message_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("could not increment message count for member %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Snapshot returns a point-in-time copy of every record. The copy is
// taken by a single SELECT, so it never observes a half-applied update
func (store *Store) Snapshot() ([]Member, error) {
	var members []Member
	if result := store.db.Find(&members); result.Error != nil {
		return nil, fmt.Errorf("could not snapshot roster: %w", result.Error)
	}
	return members, nil
}
