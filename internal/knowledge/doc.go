// Package knowledge implements the durable fact store backed by
// PostgreSQL + pgvector.
//
// The store holds (id, text, embedding) rows in a single facts table whose
// vector column is created with a fixed dimension D. All reads and writes
// enforce that dimension: a vector of any other length is corrupt data or a
// model-version mismatch and fails with ErrDimensionMismatch rather than
// being coerced.
//
// Nearest-neighbor search is exact. At the corpus sizes this system targets
// (tens to low-thousands of facts) a sequential scan with the pgvector `<->`
// L2 operator is fast enough; an ANN index is a drop-in optimization behind
// the same Nearest contract if a larger corpus ever needs it.
//
// The store is append-only within a session: there is no update or delete
// path for individual rows. Reset drops the whole table so the next session
// may start clean, possibly with a different dimension.
package knowledge
