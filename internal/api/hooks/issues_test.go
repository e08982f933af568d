package hooks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/render"
	"github.com/siscomando/api/pkg/idx"
)

func TestNormalizeRegisters(t *testing.T) {
	tests := []struct {
		name             string
		register         string
		expectedRegister string
	}{
		{"separators stripped", "2026RJ/01234", "2026RJ01234"},
		{"multiple separators", "a/b/c", "abc"},
		{"no separators", "2026RJ01234", "2026RJ01234"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := &domain.Issue{Register: tt.register}
			NormalizeRegisters([]*domain.Issue{issue})

			require.Equal(t, tt.expectedRegister, issue.Register)
			require.Equal(t, tt.register, issue.RegisterOrig)
		})
	}
}

func TestGroupedIssuesAugment(t *testing.T) {
	st := newTestStore(t)
	ctx := testContext(t)

	base := time.Now().UTC().Add(-time.Hour)
	seed := []struct {
		title string
		at    time.Time
	}{
		{"outage", base},
		{"outage", base.Add(30 * time.Minute)},
		{"slow vpn", base.Add(10 * time.Minute)},
		{"printer", base.Add(20 * time.Minute)},
	}
	for _, s := range seed {
		err := st.Issues().CreateIssue(ctx, domain.Issue{
			ID:        idx.NewAt(s.at).String(),
			Title:     s.title,
			Register:  idx.NewAt(s.at).String(),
			CreatedAt: s.at,
			UpdatedAt: s.at,
		})
		require.NoError(t, err)
	}

	t.Run("buckets by title newest first", func(t *testing.T) {
		hook := GroupedIssues{Issues: st.Issues()}
		envelope := render.Doc{"_items": []render.Doc{}}

		require.NoError(t, hook.Augment(ctx, envelope))

		grouped, ok := envelope["_grouped"].([]render.Doc)
		require.True(t, ok)
		require.Len(t, grouped, 3)

		require.Equal(t, "outage", grouped[0]["title"])
		require.Equal(t, "printer", grouped[1]["title"])
		require.Equal(t, "slow vpn", grouped[2]["title"])

		outage, ok := grouped[0]["issues"].([]render.Doc)
		require.True(t, ok)
		require.Len(t, outage, 2)
	})

	t.Run("respects the group bound", func(t *testing.T) {
		hook := GroupedIssues{Issues: st.Issues(), MaxGroups: 2}
		envelope := render.Doc{"_items": []render.Doc{}}

		require.NoError(t, hook.Augment(ctx, envelope))

		grouped, ok := envelope["_grouped"].([]render.Doc)
		require.True(t, ok)
		require.Len(t, grouped, 2)
		require.Equal(t, "outage", grouped[0]["title"])
		require.Equal(t, "printer", grouped[1]["title"])
	})
}
