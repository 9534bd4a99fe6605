package knowledge

import "errors"

// MaxTextLength is the bound on fact text, matching the varchar(256) column.
const MaxTextLength = 256

var (
	// ErrSchemaMismatch indicates the facts table already exists with a
	// different vector dimension than requested. Fatal for the session;
	// requires an explicit Reset before retrying.
	ErrSchemaMismatch = errors.New("schema dimension mismatch")

	// ErrDuplicateKey indicates an insert with a colliding fact id.
	ErrDuplicateKey = errors.New("duplicate fact id")

	// ErrDimensionMismatch indicates a vector's length does not equal the
	// configured dimension. Vectors are never truncated or padded.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidFact indicates a fact that cannot be stored (empty or
	// over-long text, negative id).
	ErrInvalidFact = errors.New("invalid fact")
)

// Fact is the unit of retrievable knowledge: a short text with its embedding.
// IDs are assigned at ingestion time as positions in the source batch.
type Fact struct {
	ID        int32
	Text      string
	Embedding []float32
}
