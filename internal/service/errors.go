package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type ErrJobNotFound struct {
	error
}

func NewErrJobNotFound(id uuid.UUID) *ErrJobNotFound {
	return &ErrJobNotFound{fmt.Errorf("job %s not found", id)}
}

// ErrJobAccessForbidden is reported for jobs owned by another organization.
// Handlers map it to 404 so callers cannot probe for other tenants' jobs.
type ErrJobAccessForbidden struct {
	error
}

func NewErrJobAccessForbidden(id uuid.UUID) *ErrJobAccessForbidden {
	return &ErrJobAccessForbidden{fmt.Errorf("job %s not found", id)}
}

type ErrRetryNotAllowed struct {
	error
}

func NewErrRetryNotAllowed(id uuid.UUID, status string) *ErrRetryNotAllowed {
	return &ErrRetryNotAllowed{fmt.Errorf("job %s cannot be retried while %s; only failed jobs can be retried", id, status)}
}

type ErrResultNotFound struct {
	error
}

func NewErrResultNotFound(id uuid.UUID) *ErrResultNotFound {
	return &ErrResultNotFound{fmt.Errorf("job %s has no results yet", id)}
}

type ErrInvalidExportType struct {
	error
}

func NewErrInvalidExportType(exportType string, allowed []string) *ErrInvalidExportType {
	return &ErrInvalidExportType{fmt.Errorf("unknown export type %q; allowed values: %s", exportType, strings.Join(allowed, ", "))}
}

type ErrInvalidJob struct {
	error
}

func NewErrInvalidJob(message string) *ErrInvalidJob {
	return &ErrInvalidJob{fmt.Errorf("bad request: %s", message)}
}
