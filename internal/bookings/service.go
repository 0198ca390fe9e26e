package bookings

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/silverland/property-agent/internal/catalog"
	"github.com/silverland/property-agent/internal/leads"
	"github.com/silverland/property-agent/pkg/logging"
)

var bookingsTracer = otel.Tracer("propertyagent.internal.bookings")

// Service creates viewing bookings once a lead and a project are known.
type Service struct {
	repo    Repository
	leads   leads.Repository
	catalog catalog.SearchProvider
	logger  *logging.Logger
}

// NewService constructs a bookings service.
func NewService(repo Repository, leadRepo leads.Repository, provider catalog.SearchProvider, logger *logging.Logger) *Service {
	if repo == nil {
		panic("bookings: repository required")
	}
	if leadRepo == nil {
		panic("bookings: lead repository required")
	}
	if provider == nil {
		panic("bookings: catalog provider required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, leads: leadRepo, catalog: provider, logger: logger}
}

// CreateViewing records a pending viewing request for the lead against the
// project. The project must exist; a missing project surfaces as
// catalog.ErrProjectNotFound so the caller can apologize specifically.
func (s *Service) CreateViewing(ctx context.Context, leadID string, projectID int64, conversationID, notes string) (*Booking, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.create_viewing")
	defer span.End()
	span.SetAttributes(
		attribute.String("propertyagent.lead_id", leadID),
		attribute.Int64("propertyagent.project_id", projectID),
	)

	if _, err := s.catalog.GetByID(ctx, projectID); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: project lookup: %w", err)
	}
	if _, err := s.leads.GetByID(ctx, leadID); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: lead lookup: %w", err)
	}

	booking, err := s.repo.Create(ctx, &Booking{
		LeadID:         leadID,
		ProjectID:      projectID,
		ConversationID: conversationID,
		Status:         StatusPending,
		Notes:          notes,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("viewing booked", "booking_id", booking.ID, "lead_id", leadID, "project_id", projectID)
	return booking, nil
}

// ConfirmationMessage renders the user-facing confirmation for a booking.
func (s *Service) ConfirmationMessage(ctx context.Context, booking *Booking) (string, error) {
	project, err := s.catalog.GetByID(ctx, booking.ProjectID)
	if err != nil {
		return "", fmt.Errorf("bookings: project lookup: %w", err)
	}
	lead, err := s.leads.GetByID(ctx, booking.LeadID)
	if err != nil {
		return "", fmt.Errorf("bookings: lead lookup: %w", err)
	}

	return fmt.Sprintf(`Your viewing has been scheduled.

Booking Details:
- Property: %s
- Location: %s, %s
- Confirmation sent to: %s

Our team will contact you within 24 hours to confirm the date and time of your viewing.

Is there anything else I can help you with?`,
		project.ProjectName, project.City, project.Country, lead.Email), nil
}
