package services

import (
	"errors"
	"fmt"
	"strings"

	"aircheck/internal/journal"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrNetwork       = errors.New("network error")
	ErrCache         = errors.New("cache error")
	ErrTemplate      = errors.New("template error")
	ErrTranscode     = errors.New("transcode error")
	ErrTag           = errors.New("tag error")
	ErrNoData        = errors.New("no data")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later policy classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrNetwork
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a pipeline error to the journal status recorded after a
// broadcast fails. Unusable detail records are skips rather than failures.
func FailureStatus(err error) journal.Status {
	if errors.Is(err, ErrNoData) {
		return journal.StatusSkipped
	}
	return journal.StatusFailed
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
