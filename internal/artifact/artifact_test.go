package artifact

import (
	"context"
	"testing"
	"time"
	"jobreach/internal/extract"
	"jobreach/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "internal/artifact",
		DbSchema: Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	candidates := []extract.Candidate{
		{Email: "hr@corp.io", Author: "A", JobTitle: "QA", Excerpt: "hiring", Query: "qa"},
		{Email: "jobs@acme.io", Author: "B", JobTitle: "", Excerpt: "openings", Query: "sdet"},
		// the store is append-only, duplicates are the aggregator's problem
		{Email: "hr@corp.io", Author: "C", JobTitle: "SDET", Excerpt: "again", Query: "sdet"},
	}
	for _, c := range candidates {
		require.NoError(t, store.Append(ctx, c))
	}

	got, err := store.List(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(candidates, got); diff != "" {
		t.Fatalf("unexpected candidates (-want +got):\n%s", diff)
	}
}

func TestStoreEmpty(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "internal/artifact",
		DbSchema: Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	got, err := store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}
