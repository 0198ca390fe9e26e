package bookings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverland/property-agent/internal/catalog"
	"github.com/silverland/property-agent/internal/leads"
	"github.com/silverland/property-agent/pkg/logging"
)

func newTestService(t *testing.T) (*Service, *leads.Lead) {
	t.Helper()

	leadRepo := leads.NewInMemoryRepository()
	lead, err := leadRepo.Save(context.Background(), &leads.SaveLeadRequest{
		ConversationID: "conv-1",
		FirstName:      "Amina",
		Email:          "amina@example.com",
	})
	require.NoError(t, err)

	two := 2
	price := 450000.0
	provider := catalog.NewMemoryRepository(catalog.Property{
		ID: 7, ProjectName: "Marina Heights", City: "Dubai Marina", Country: "AE",
		PropertyType: "apartment", Bedrooms: &two, PriceUSD: &price,
	})

	return NewService(NewInMemoryRepository(), leadRepo, provider, logging.Default()), lead
}

func TestCreateViewing(t *testing.T) {
	svc, lead := newTestService(t)

	booking, err := svc.CreateViewing(context.Background(), lead.ID, 7, "conv-1", "from chat")
	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, StatusPending, booking.Status)
	assert.Equal(t, int64(7), booking.ProjectID)
}

func TestCreateViewingUnknownProject(t *testing.T) {
	svc, lead := newTestService(t)

	_, err := svc.CreateViewing(context.Background(), lead.ID, 99, "conv-1", "")
	assert.ErrorIs(t, err, catalog.ErrProjectNotFound)
}

func TestCreateViewingUnknownLead(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateViewing(context.Background(), "missing", 7, "conv-1", "")
	assert.ErrorIs(t, err, leads.ErrLeadNotFound)
}

func TestConfirmationMessage(t *testing.T) {
	svc, lead := newTestService(t)

	booking, err := svc.CreateViewing(context.Background(), lead.ID, 7, "conv-1", "")
	require.NoError(t, err)

	msg, err := svc.ConfirmationMessage(context.Background(), booking)
	require.NoError(t, err)
	assert.Contains(t, msg, "Marina Heights")
	assert.Contains(t, msg, "Dubai Marina, AE")
	assert.Contains(t, msg, "amina@example.com")
	assert.Contains(t, msg, "within 24 hours")
}
