package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatedlife/community-server/internal/models"
)

func TestCreateDispute(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	session := e.activeSession(t)

	dispute, err := e.disputes.Create(ctx, e.tenant.ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeCommon,
		Reason:     "Leaking roof in the hallway",
	})
	require.NoError(t, err)

	assert.Equal(t, models.DisputeOpen, dispute.Status)
	assert.Equal(t, models.OwnershipTenant, dispute.ReportedByRole)
	assert.False(t, dispute.EscalatedToAdmin)
}

func TestCreateDisputeRoomScoping(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	session := e.activeSession(t)

	room, err := e.rooms.CreateRoom(ctx, e.owner.ID, CreateRoomInput{
		ApartmentID: e.apartment.ID,
		RoomName:    "Bedroom",
	})
	require.NoError(t, err)

	// room_based requires a room
	_, err = e.disputes.Create(ctx, e.tenant.ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeRoomBased,
		Reason:     "Broken window",
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	// common must not name one
	_, err = e.disputes.Create(ctx, e.tenant.ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeCommon,
		RoomID:     &room.ID,
		Reason:     "Broken window",
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	// a room of another apartment is rejected
	other := e.addApartment("B-201")
	e.approve(e.owner.ID, other.ID, models.OwnershipOwner)
	foreign, err := e.rooms.CreateRoom(ctx, e.owner.ID, CreateRoomInput{ApartmentID: other.ID, RoomName: "Den"})
	require.NoError(t, err)

	_, err = e.disputes.Create(ctx, e.tenant.ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeRoomBased,
		RoomID:     &foreign.ID,
		Reason:     "Broken window",
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	// and a valid room works
	dispute, err := e.disputes.Create(ctx, e.tenant.ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeRoomBased,
		RoomID:     &room.ID,
		Reason:     "Broken window",
	})
	require.NoError(t, err)
	assert.Equal(t, room.ID, *dispute.RoomID)
}

func TestCreateDisputeInactiveSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	session := e.activeSession(t)
	_, err := e.disputes.Create(ctx, e.addUser("Outsider", "9000000060").ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeCommon,
		Reason:     "noise",
	})
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	// Terminate the session, then disputes are closed off
	_, err = e.sessions.Terminate(ctx, e.tenant.ID, session.ID, nil)
	require.NoError(t, err)
	_, err = e.sessions.Terminate(ctx, e.owner.ID, session.ID, nil)
	require.NoError(t, err)

	_, err = e.disputes.Create(ctx, e.tenant.ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeCommon,
		Reason:     "deposit not returned",
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestDisputeChatMovesToInProgress(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	session := e.activeSession(t)
	dispute, err := e.disputes.Create(ctx, e.tenant.ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeCommon,
		Reason:     "AC not working",
	})
	require.NoError(t, err)

	// Reporter's own message keeps the dispute open
	_, err = e.disputes.PostMessage(ctx, e.residentPrincipal(e.tenant.ID), dispute.ID, PostMessageInput{
		MessageText: strPtr("Any update?"),
	})
	require.NoError(t, err)
	current, _ := e.store.GetDispute(ctx, dispute.ID)
	assert.Equal(t, models.DisputeOpen, current.Status)

	// First counterpart message moves it to in_progress
	_, err = e.disputes.PostMessage(ctx, e.residentPrincipal(e.owner.ID), dispute.ID, PostMessageInput{
		MessageText: strPtr("Technician visits tomorrow"),
	})
	require.NoError(t, err)
	current, _ = e.store.GetDispute(ctx, dispute.ID)
	assert.Equal(t, models.DisputeInProgress, current.Status)

	messages, err := e.store.ListDisputeMessages(ctx, dispute.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestDisputeMessageRequiresContent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	session := e.activeSession(t)
	dispute, err := e.disputes.Create(ctx, e.tenant.ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeCommon,
		Reason:     "noise",
	})
	require.NoError(t, err)

	_, err = e.disputes.PostMessage(ctx, e.residentPrincipal(e.tenant.ID), dispute.ID, PostMessageInput{})
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestDisputeEscalation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	session := e.activeSession(t)
	dispute, err := e.disputes.Create(ctx, e.tenant.ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeCommon,
		Reason:     "harassment",
	})
	require.NoError(t, err)

	// Admin cannot see the dispute before escalation
	_, err = e.disputes.Get(ctx, e.adminPrincipal(), dispute.ID)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	escalated, err := e.disputes.Escalate(ctx, e.tenant.ID, dispute.ID)
	require.NoError(t, err)
	assert.True(t, escalated.EscalatedToAdmin)
	assert.Equal(t, models.DisputeEscalated, escalated.Status)
	assert.NotNil(t, escalated.EscalatedAt)

	// Escalation is one-way
	_, err = e.disputes.Escalate(ctx, e.owner.ID, dispute.ID)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	// Admin can now read and post
	detail, err := e.disputes.Get(ctx, e.adminPrincipal(), dispute.ID)
	require.NoError(t, err)
	assert.Equal(t, dispute.ID, detail.Dispute.ID)

	msg, err := e.disputes.PostMessage(ctx, e.adminPrincipal(), dispute.ID, PostMessageInput{
		MessageText: strPtr("Please share photos"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DisputeRoleAdmin, msg.SenderRole)
}

func TestDisputeTwoPartyResolution(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	session := e.activeSession(t)
	dispute, err := e.disputes.Create(ctx, e.tenant.ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeCommon,
		Reason:     "water damage",
	})
	require.NoError(t, err)

	// One sign-off is not enough
	d1, err := e.disputes.Approve(ctx, e.residentPrincipal(e.tenant.ID), dispute.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.DisputeResolved, d1.Status)

	// Repeat sign-off by the same party is a no-op
	d2, err := e.disputes.Approve(ctx, e.residentPrincipal(e.tenant.ID), dispute.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.DisputeResolved, d2.Status)

	approvals, err := e.store.ListResolutionApprovals(ctx, dispute.ID)
	require.NoError(t, err)
	assert.Len(t, approvals, 1)

	// The counterpart's sign-off resolves the dispute
	d3, err := e.disputes.Approve(ctx, e.residentPrincipal(e.owner.ID), dispute.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DisputeResolved, d3.Status)
	assert.NotNil(t, d3.ResolvedAt)

	// The thread is closed after resolution
	_, err = e.disputes.PostMessage(ctx, e.residentPrincipal(e.owner.ID), dispute.ID, PostMessageInput{
		MessageText: strPtr("thanks"),
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestDisputeAdminApprovalDoesNotResolve(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	session := e.activeSession(t)
	dispute, err := e.disputes.Create(ctx, e.tenant.ID, CreateDisputeInput{
		SessionID:  session.ID,
		ReportType: models.DisputeCommon,
		Reason:     "parking",
	})
	require.NoError(t, err)

	_, err = e.disputes.Escalate(ctx, e.tenant.ID, dispute.ID)
	require.NoError(t, err)

	// Admin and tenant sign off; still unresolved without the owner
	_, err = e.disputes.Approve(ctx, e.adminPrincipal(), dispute.ID)
	require.NoError(t, err)
	d, err := e.disputes.Approve(ctx, e.residentPrincipal(e.tenant.ID), dispute.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.DisputeResolved, d.Status)

	// Owner's sign-off completes it, even while escalated
	final, err := e.disputes.Approve(ctx, e.residentPrincipal(e.owner.ID), dispute.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DisputeResolved, final.Status)
}
