// Package rag orchestrates the retrieval-augmented generation pipeline:
// ingest a corpus of facts into the vector store, retrieve the facts nearest
// to a question, and stream a grounded answer from a generation model.
//
// The pipeline is single-pass and stateless across queries. Each query is
// independent: embed, retrieve, compose, generate, emit. Nothing in the
// generation path mutates the store, so cancelling a stream mid-answer never
// corrupts store state.
//
// No step retries internally. Every failure is surfaced to the caller with a
// distinct error kind (embedding.ErrEmbeddingService, knowledge.ErrSchemaMismatch,
// knowledge.ErrDimensionMismatch, knowledge.ErrDuplicateKey,
// llm.ErrGenerationService) so policy decisions stay at the edge.
package rag
