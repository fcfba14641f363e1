package pipeline

import (
	"errors"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/llm"
)

var (
	// ErrNotFound is returned when the client is missing or not owned by the caller,
	// or the blog is missing or belongs to another client.
	ErrNotFound = errors.New("not found")

	// ErrIncompleteClient is returned when business name, service or city is empty.
	ErrIncompleteClient = errors.New("client is missing business name, service or city")

	// ErrPersistenceFailed is returned when reading or writing the record store fails.
	ErrPersistenceFailed = errors.New("record store failure")

	// ErrMissingCredential is returned when no generation api key is available.
	ErrMissingCredential = llm.ErrMissingCredential

	// ErrGenerationFailed is returned when the provider call fails.
	ErrGenerationFailed = llm.ErrGenerationFailed
)
