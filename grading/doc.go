// Package grading records graded circuit submissions.
//
// A Grader costs a circuit with a cost.Estimator, assembles it into a Qobj to
// fingerprint it, and saves a Submission through a Store. SQLStore keeps
// submissions in SQLite or PostgreSQL through a go-repository-bun
// repository; the DSN scheme decides which:
//
//	store, err := grading.Open("sqlite://grades.db")
//	if err != nil { ... }
//	if err := store.CreateSchema(ctx); err != nil { ... }
//
// CachedStore wraps any Store with a cache.CacheService. Reads are cached and
// a successful Save drops the job, circuit and count entries it affects.
package grading
