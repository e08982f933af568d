package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/render"
	"github.com/siscomando/api/internal/api/store"
)

// DefaultMaxGroups bounds the grouped-issues aggregation so a large issue
// collection cannot turn the listing into an unbounded scan.
const DefaultMaxGroups = 50

// NormalizeRegisters preserves each issue's register exactly as submitted
// in RegisterOrig, then strips path separators from the working register.
// The copy must happen before the strip so the original survives verbatim.
func NormalizeRegisters(issues []*domain.Issue) {
	for _, i := range issues {
		i.RegisterOrig = i.Register
		i.Register = strings.ReplaceAll(i.Register, "/", "")
	}
}

// GroupedIssues augments an issue list envelope with the title-bucketed
// aggregation under "_grouped" when the client opts in with grouped=1.
type GroupedIssues struct {
	Issues    store.Issues
	MaxGroups int
}

func (h GroupedIssues) Augment(ctx context.Context, envelope render.Doc) error {
	maxGroups := h.MaxGroups
	if maxGroups <= 0 {
		maxGroups = DefaultMaxGroups
	}

	groups, err := h.Issues.GroupByTitle(ctx, maxGroups)
	if err != nil {
		return fmt.Errorf("group issues by title: %w", err)
	}

	rendered := make([]render.Doc, 0, len(groups))
	for _, g := range groups {
		rendered = append(rendered, render.IssueGroup(g))
	}
	envelope["_grouped"] = rendered
	return nil
}
