package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/ether/seqfield-go/lib/atomid"
	"github.com/ether/seqfield-go/lib/exception"
	"github.com/ether/seqfield-go/lib/store/migrations"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path  string
	sqlDB *sql.DB
}

func (d *SQLiteStore) SaveRevision(revision atomid.RevisionTag, rollbackOf *atomid.RevisionTag, version int, payload []byte) (*int, error) {
	var rollback *string
	if rollbackOf != nil {
		var encoded = rollbackOf.String()
		rollback = &encoded
	}

	// Write-once: a revision already in the log keeps its row.
	resultedSQL, args, err := sq.
		Insert("revision").
		Columns("revision", "rollback_of", "version", "payload").
		Values(revision.String(), rollback, version, payload).
		Suffix("ON CONFLICT(revision) DO NOTHING").
		ToSql()

	if err != nil {
		return nil, err
	}

	if _, err := d.sqlDB.Exec(resultedSQL, args...); err != nil {
		return nil, err
	}

	row, err := d.GetRevision(revision)
	if err != nil {
		return nil, err
	}
	return &row.Seq, nil
}

func (d *SQLiteStore) GetRevision(revision atomid.RevisionTag) (*StoredRevision, error) {
	resultedSQL, args, err := sq.
		Select("seq", "revision", "rollback_of", "version", "payload").
		From("revision").
		Where(sq.Eq{"revision": revision.String()}).
		ToSql()

	if err != nil {
		return nil, err
	}

	return d.scanRevision(d.sqlDB.QueryRow(resultedSQL, args...), revision.String())
}

func (d *SQLiteStore) GetRevisionBySeq(seq int) (*StoredRevision, error) {
	resultedSQL, args, err := sq.
		Select("seq", "revision", "rollback_of", "version", "payload").
		From("revision").
		Where(sq.Eq{"seq": seq}).
		ToSql()

	if err != nil {
		return nil, err
	}

	return d.scanRevision(d.sqlDB.QueryRow(resultedSQL, args...), fmt.Sprintf("seq %d", seq))
}

func (d *SQLiteStore) scanRevision(row *sql.Row, lookup string) (*StoredRevision, error) {
	var stored StoredRevision
	var encodedRevision string
	var rollback sql.NullString

	err := row.Scan(&stored.Seq, &encodedRevision, &rollback, &stored.Version, &stored.Payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, exception.NewRevisionNotFoundError(lookup)
	}
	if err != nil {
		return nil, err
	}

	stored.Revision, err = uuid.Parse(encodedRevision)
	if err != nil {
		return nil, fmt.Errorf("error parsing stored revision tag: %w", err)
	}

	if rollback.Valid {
		parsed, err := uuid.Parse(rollback.String)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored rollback tag: %w", err)
		}
		stored.RollbackOf = &parsed
	}

	return &stored, nil
}

func (d *SQLiteStore) DoesRevisionExist(revision atomid.RevisionTag) (*bool, error) {
	resultedSQL, args, err := sq.
		Select("1").
		From("revision").
		Where(sq.Eq{"revision": revision.String()}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, err
	}

	row := d.sqlDB.QueryRow(resultedSQL, args...)
	var exists int
	err = row.Scan(&exists)

	if errors.Is(err, sql.ErrNoRows) {
		falseVal := false
		return &falseVal, nil
	}
	if err != nil {
		return nil, err
	}

	trueVal := true
	return &trueVal, nil
}

func (d *SQLiteStore) Head() (*int, error) {
	row := d.sqlDB.QueryRow("SELECT COALESCE(MAX(seq), 0) FROM revision")
	var head int
	if err := row.Scan(&head); err != nil {
		return nil, err
	}
	return &head, nil
}

func (d *SQLiteStore) ListRevisions() (*[]StoredRevision, error) {
	resultedSQL, _, err := sq.
		Select("seq", "revision", "rollback_of", "version", "payload").
		From("revision").
		OrderBy("seq ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	query, err := d.sqlDB.Query(resultedSQL)
	if err != nil {
		return nil, err
	}
	defer query.Close()

	var rows []StoredRevision
	for query.Next() {
		var stored StoredRevision
		var encodedRevision string
		var rollback sql.NullString

		if err := query.Scan(&stored.Seq, &encodedRevision, &rollback, &stored.Version, &stored.Payload); err != nil {
			return nil, err
		}

		stored.Revision, err = uuid.Parse(encodedRevision)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored revision tag: %w", err)
		}
		if rollback.Valid {
			parsed, err := uuid.Parse(rollback.String)
			if err != nil {
				return nil, fmt.Errorf("error parsing stored rollback tag: %w", err)
			}
			stored.RollbackOf = &parsed
		}

		rows = append(rows, stored)
	}

	return &rows, query.Err()
}

func (d *SQLiteStore) Close() error {
	return d.sqlDB.Close()
}

// NewSQLiteStore creates a new SQLiteStore and returns a pointer to it.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == ":memory" {
		path = "file::memory:?cache=shared"
	}

	sqlDb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if strings.Contains(path, ":memory:") {
		sqlDb.SetMaxOpenConns(1)
	}

	if _, err = sqlDb.Exec("PRAGMA journal_mode = WAL"); err != nil {
		sqlDb.Close()
		return nil, err
	}
	if _, err = sqlDb.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		sqlDb.Close()
		return nil, err
	}

	migrationManager := migrations.NewMigrationManager(sqlDb)
	if err := migrationManager.Run(); err != nil {
		sqlDb.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{
		path:  path,
		sqlDB: sqlDb,
	}, nil
}

var _ ChangesetStore = (*SQLiteStore)(nil)
