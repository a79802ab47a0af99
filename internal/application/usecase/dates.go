package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/cmv-api/internal/application/dto"
	"github.com/jhoicas/cmv-api/internal/domain"
)

// parseDate convierte YYYY-MM-DD en una fecha UTC.
func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s inválido", domain.ErrInvalidInput, field)
	}
	return t, nil
}

// parseOptionalRange interpreta filtros de fecha opcionales (vacío = sin límite).
func parseOptionalRange(startStr, endStr string) (from, to *time.Time, err error) {
	if strings.TrimSpace(startStr) != "" {
		t, err := time.Parse(dto.DateLayout, strings.TrimSpace(startStr))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: start_date inválido", domain.ErrInvalidRange)
		}
		from = &t
	}
	if strings.TrimSpace(endStr) != "" {
		t, err := time.Parse(dto.DateLayout, strings.TrimSpace(endStr))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: end_date inválido", domain.ErrInvalidRange)
		}
		to = &t
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("%w: start_date no puede ser posterior a end_date", domain.ErrInvalidRange)
	}
	return from, to, nil
}
