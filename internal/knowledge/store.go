package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

// Querier is the subset of pgx operations the store needs. *pgxpool.Pool and
// pgx.Tx both satisfy it; tests supply a mock.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store manages fact rows with vector search in PostgreSQL + pgvector.
//
// Store is safe for concurrent readers. Ingestion assumes a single writer;
// no locking is added beyond what PostgreSQL provides.
type Store struct {
	db     Querier
	dim    int
	logger *slog.Logger
}

// NewStore creates a Store over the given connection. dim is the vector
// dimension D every row must carry.
func NewStore(db Querier, dim int, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if dim < 1 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, dim: dim, logger: logger}, nil
}

// Dimension returns the configured vector dimension.
func (s *Store) Dimension() int {
	return s.dim
}

// EnsureSchema creates the pgvector extension and the facts table if absent.
// It is idempotent. If the table already exists with a different vector
// dimension it fails with ErrSchemaMismatch; schemas are never migrated in
// place.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("creating vector extension: %w", err)
	}

	existing, exists, err := s.schemaDimension(ctx)
	if err != nil {
		return err
	}
	if exists {
		if existing != s.dim {
			return fmt.Errorf("%w: facts table has dimension %d, configured %d (reset the store before changing embedding models)",
				ErrSchemaMismatch, existing, s.dim)
		}
		return nil
	}

	// The dimension is validated configuration, never user input; it is the
	// only value interpolated into DDL. Everything else is parameterized.
	createSQL := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS facts (
			id integer PRIMARY KEY,
			text varchar(%d) NOT NULL,
			embedding vector(%d) NOT NULL
		)`, MaxTextLength, s.dim)
	if _, err := s.db.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("creating facts table: %w", err)
	}

	s.logger.Debug("facts table ready", "dimension", s.dim)
	return nil
}

// schemaDimension reads the vector dimension of an existing facts table.
// exists is false when the table is absent.
func (s *Store) schemaDimension(ctx context.Context) (dim int, exists bool, err error) {
	// For vector columns atttypmod holds the declared dimension.
	queryErr := s.db.QueryRow(ctx,
		`SELECT atttypmod FROM pg_attribute
		 WHERE attrelid = to_regclass('facts') AND attname = 'embedding' AND NOT attisdropped`,
	).Scan(&dim)

	switch {
	case errors.Is(queryErr, pgx.ErrNoRows):
		return 0, false, nil
	case queryErr != nil:
		return 0, false, fmt.Errorf("reading facts schema: %w", queryErr)
	default:
		return dim, true, nil
	}
}

// Insert adds one fact row. Colliding ids fail with ErrDuplicateKey; there is
// no upsert path because ids are batch positions and the store is append-only
// within a session.
func (s *Store) Insert(ctx context.Context, f Fact) error {
	if err := validateFact(f); err != nil {
		return err
	}
	if len(f.Embedding) != s.dim {
		return fmt.Errorf("%w: fact %d has dimension %d, want %d",
			ErrDimensionMismatch, f.ID, len(f.Embedding), s.dim)
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO facts (id, text, embedding) VALUES ($1, $2, $3)`,
		f.ID, f.Text, pgvector.NewVector(f.Embedding),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: id %d", ErrDuplicateKey, f.ID)
		}
		return fmt.Errorf("inserting fact %d: %w", f.ID, err)
	}

	s.logger.Debug("inserted fact", "id", f.ID, "text_length", len(f.Text))
	return nil
}

// validateFact checks required fields for Insert().
func validateFact(f Fact) error {
	if f.ID < 0 {
		return fmt.Errorf("%w: negative id %d", ErrInvalidFact, f.ID)
	}
	if f.Text == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidFact)
	}
	if len(f.Text) > MaxTextLength {
		return fmt.Errorf("%w: text length %d exceeds %d", ErrInvalidFact, len(f.Text), MaxTextLength)
	}
	return nil
}

// Nearest returns up to k facts ordered by ascending L2 distance to vec.
// Equidistant facts are ordered by id so results are deterministic. An empty
// store returns an empty slice, not an error.
func (s *Store) Nearest(ctx context.Context, vec []float32, k int) ([]Fact, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if len(vec) != s.dim {
		return nil, fmt.Errorf("%w: query vector has dimension %d, want %d",
			ErrDimensionMismatch, len(vec), s.dim)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, text, embedding FROM facts
		 ORDER BY embedding <-> $1, id
		 LIMIT $2`,
		pgvector.NewVector(vec), k,
	)
	if err != nil {
		// A reset store has no facts table; that is an empty store, not an error.
		if isUndefinedTable(err) {
			return []Fact{}, nil
		}
		return nil, fmt.Errorf("querying nearest facts: %w", err)
	}
	defer rows.Close()

	facts := make([]Fact, 0, k)
	for rows.Next() {
		var (
			f   Fact
			emb pgvector.Vector
		)
		if err := rows.Scan(&f.ID, &f.Text, &emb); err != nil {
			return nil, fmt.Errorf("scanning fact row: %w", err)
		}

		f.Embedding = emb.Slice()
		if len(f.Embedding) != s.dim {
			return nil, fmt.Errorf("%w: stored fact %d has dimension %d, want %d",
				ErrDimensionMismatch, f.ID, len(f.Embedding), s.dim)
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading nearest facts: %w", err)
	}

	return facts, nil
}

// Reset drops the facts table. Idempotent; after Reset a new session may
// ensure a schema with a different dimension.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS facts`); err != nil {
		return fmt.Errorf("dropping facts table: %w", err)
	}
	s.logger.Debug("facts table dropped")
	return nil
}

// Count returns the number of stored facts. A reset store counts as zero.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM facts`).Scan(&count); err != nil {
		if isUndefinedTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("counting facts: %w", err)
	}
	return int(count), nil
}

// isUndefinedTable reports whether err is PostgreSQL's undefined_table error.
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable
}
