package scheduling

import (
	"context"
	"fmt"
	"time"

	appointmentRepo "carelink/database/repository/appointment"
	"carelink/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// AppointmentQueryService lists a single actor's appointments with
// timeframe/status/date-range filtering and offset pagination.
type AppointmentQueryService struct {
	Repo appointmentRepo.AppointmentRepository

	Now func() time.Time
}

func (q *AppointmentQueryService) now() time.Time {
	if q.Now != nil {
		return q.Now()
	}
	return time.Now()
}

func normalizeFilter(f models.AppointmentFilter) (models.AppointmentFilter, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}

	switch f.Timeframe {
	case "", models.TimeframeAll:
		f.Timeframe = models.TimeframeAll
	case models.TimeframeUpcoming, models.TimeframePast:
	default:
		return f, &ValidationError{Field: "timeframe", Message: fmt.Sprintf("unknown timeframe %q", f.Timeframe)}
	}

	switch f.Status {
	case "", "all":
		f.Status = "all"
	case models.StatusPending, models.StatusConfirmed, models.StatusRejected, models.StatusCancelled:
	default:
		return f, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", f.Status)}
	}

	if !f.StartDate.IsZero() && !f.EndDate.IsZero() && f.EndDate.Before(f.StartDate) {
		return f, &ValidationError{Field: "endDate", Message: "endDate precedes startDate"}
	}
	return f, nil
}

// List returns one page of appointments for the actor. Pages are 1-indexed;
// pages = ceil(total/limit); a page past the end yields an empty slice with
// the totals unchanged.
func (q *AppointmentQueryService) List(ctx context.Context, actorID string, role models.ActorRole, f models.AppointmentFilter) (*models.AppointmentPage, error) {
	if role != models.RoleClient && role != models.RoleProvider {
		return nil, &ValidationError{Field: "actorRole", Message: fmt.Sprintf("unknown role %q", role)}
	}

	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}

	appointments, total, err := q.Repo.List(ctx, actorID, role, f, q.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	return &models.AppointmentPage{
		Appointments: appointments,
		Pagination: models.Pagination{
			Total: total,
			Page:  f.Page,
			Pages: (total + f.Limit - 1) / f.Limit,
		},
	}, nil
}
