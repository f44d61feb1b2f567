package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"docflow/internal/workflow/models"
	"docflow/internal/workflow/policy"
	"docflow/internal/workflow/ports/mocks"
	"docflow/internal/workflow/store/repository"
	"docflow/pkg/platform/audit"
	"docflow/pkg/requestcontext"
	"docflow/pkg/testutil"
)

func TestAuditPublisherReceivesWorkflowEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockAuditPublisher(ctrl)

	svc, err := New(repository.NewInMemory(), WithAuditPublisher(publisher))
	require.NoError(t, err)

	primary := models.MustNewParty(models.RolePrimary, "acme")
	secondary := models.MustNewParty(models.RoleSecondary, "globex")
	ctx := requestcontext.WithRequestID(testutil.At(12, 0), "req-42")

	var events []audit.Event
	publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e audit.Event) error {
			events = append(events, e)
			return nil
		}).AnyTimes()

	testutil.Given(t, "a document drafted inside the window", func(t *testing.T) {
		doc := primary.CreateDocument(ctx, secondary)

		testutil.When(t, "it is admitted", func(t *testing.T) {
			require.True(t, svc.Admit(ctx, doc))

			testutil.Then(t, "signing and admission are audited with the request id", func(t *testing.T) {
				require.Len(t, events, 3)
				assert.Equal(t, string(audit.EventDocumentAdmitted), events[2].Action)
				for _, e := range events {
					assert.Equal(t, "req-42", e.RequestID)
					assert.Equal(t, doc.ID().String(), e.Subject)
				}
			})
		})
	})

	testutil.Given(t, "a policy replacement", func(t *testing.T) {
		events = nil
		svc.SetPolicy(ctx, policy.Disabled())

		testutil.Then(t, "an operations event is emitted", func(t *testing.T) {
			require.Len(t, events, 1)
			assert.Equal(t, string(audit.EventLimitPolicyReplaced), events[0].Action)
			assert.Equal(t, audit.CategoryOperations, events[0].Category)
		})
	})
}

func TestAuditPublisherFailureDoesNotBlockAdmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockAuditPublisher(ctrl)
	publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("sink down")).Times(3)

	svc, err := New(repository.NewInMemory(), WithAuditPublisher(publisher))
	require.NoError(t, err)

	ctx := testutil.At(12, 0)
	primary := models.MustNewParty(models.RolePrimary, "acme")
	secondary := models.MustNewParty(models.RoleSecondary, "globex")

	assert.True(t, svc.Admit(ctx, primary.CreateDocument(ctx, secondary)))
}

func TestRepositoryFailureRejectsAdmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	ctx := testutil.At(12, 0)
	primary := models.MustNewParty(models.RolePrimary, "acme")
	secondary := models.MustNewParty(models.RoleSecondary, "globex")
	doc := primary.CreateDocument(ctx, secondary)

	repo.EXPECT().List(gomock.Any()).Return(nil)
	repo.EXPECT().Insert(gomock.Any(), doc).Return(errors.New("disk full"))

	svc, err := New(repo)
	require.NoError(t, err)

	assert.False(t, svc.Admit(ctx, doc))
	assert.Equal(t, models.StateUnsigned, doc.State())
}
