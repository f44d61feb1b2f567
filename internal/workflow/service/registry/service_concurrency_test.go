package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"docflow/internal/workflow/models"
	"docflow/internal/workflow/policy"
	"docflow/internal/workflow/store/repository"
	"docflow/pkg/requestcontext"
	"docflow/pkg/testutil"
)

func TestConcurrentAdmissions(t *testing.T) {
	const n = 64
	ctx := testutil.At(12, 0)
	svc, err := New(repository.NewInMemory(), WithPolicy(policy.Disabled()))
	require.NoError(t, err)

	primary := models.MustNewParty(models.RolePrimary, "acme")
	secondary := models.MustNewParty(models.RoleSecondary, "globex")

	var g errgroup.Group
	results := make([]bool, n)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			results[i] = svc.Admit(ctx, primary.CreateDocument(ctx, secondary))
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, ok := range results {
		assert.True(t, ok, "admission %d", i)
	}
	assert.Equal(t, Stats{Total: n, FullySigned: n}, svc.Stats(ctx))
	assert.Equal(t, n, secondary.DocumentCount())
	assert.Zero(t, primary.DocumentCount())
}

// The ceiling holds under contention because counting and insertion happen
// under one lock.
func TestConcurrentAdmissionsRespectCeiling(t *testing.T) {
	const (
		n     = 40
		limit = 5
	)
	ctx := testutil.At(12, 0)
	svc, err := New(repository.NewInMemory(), WithPolicy(policy.MustCustom(
		policy.TimeWindow{},
		policy.Ceiling{},
		policy.RateCeiling{Limit: policy.DefaultRateLimit, Window: policy.DefaultRateWindow},
		policy.Ceiling{Enabled: true, Limit: limit},
	)))
	require.NoError(t, err)

	primary := models.MustNewParty(models.RolePrimary, "acme")
	secondary := models.MustNewParty(models.RoleSecondary, "globex")

	// Drafts nobody holds are admitted but never signed, so they stay open.
	createdAt := requestcontext.Now(ctx)
	var g errgroup.Group
	admitted := make([]bool, n)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			doc := models.NewDocument(primary, secondary, createdAt)
			svc.Admit(ctx, doc)
			admitted[i] = svc.Contains(ctx, doc)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	count := 0
	for _, ok := range admitted {
		if ok {
			count++
		}
	}
	assert.Equal(t, limit, count)
	assert.Equal(t, limit, svc.Stats(ctx).Open)
}
