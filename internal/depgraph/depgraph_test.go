package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditworks/triage/internal/types"
)

func issue(number int, body string) *types.Issue {
	return &types.Issue{Number: number, Title: "issue title here", Body: body, State: types.StateOpen}
}

func TestExtractBlockedBy(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []int
	}{
		{"blocked by", "Blocked by #12", []int{12}},
		{"depends on", "This depends on #7 landing first.", []int{7}},
		{"requires", "Requires #3 and also requires #4", []int{3, 4}},
		{"case insensitive", "BLOCKED BY #9", []int{9}},
		{"no deps", "just a description", nil},
		{"self reference dropped", "blocked by #5", nil},
		{"duplicate collapsed", "Blocked by #12. Again: blocked by #12.", []int{12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := Extract(issue(5, tt.body))
			assert.Equal(t, tt.want, node.BlockedBy)
		})
	}
}

func TestExtractBlocks(t *testing.T) {
	node := Extract(issue(1, "This blocks #8 and is required by #9."))
	assert.Equal(t, []int{8, 9}, node.Blocks)
}

func TestBuildMirrorsEdges(t *testing.T) {
	g := Build([]*types.Issue{
		issue(5, "Blocks #9"),
		issue(9, ""),
	})

	require.Contains(t, g.Nodes, 9)
	assert.Equal(t, []int{5}, g.Nodes[9].BlockedBy)
	assert.Equal(t, []int{9}, g.Nodes[5].Blocks)
}

func TestBuildMirrorsBlockedBy(t *testing.T) {
	g := Build([]*types.Issue{
		issue(3, "Blocked by #2"),
		issue(2, ""),
	})
	assert.Equal(t, []int{3}, g.Nodes[2].Blocks)
}

func TestIsUnblocked(t *testing.T) {
	blocker := issue(2, "")
	blocked := issue(3, "Blocked by #2")
	byNumber := map[int]*types.Issue{2: blocker, 3: blocked}

	g := Build([]*types.Issue{blocker, blocked})
	assert.False(t, g.IsUnblocked(3, byNumber))
	assert.True(t, g.IsUnblocked(2, byNumber))

	// Closing the blocker unblocks the dependent.
	blocker.State = types.StateClosed
	assert.True(t, g.IsUnblocked(3, byNumber))
}

func TestIsUnblockedExternalReference(t *testing.T) {
	blocked := issue(3, "Blocked by #999")
	g := Build([]*types.Issue{blocked})
	assert.True(t, g.IsUnblocked(3, map[int]*types.Issue{3: blocked}))
}

func TestFanOutAndBottlenecks(t *testing.T) {
	g := Build([]*types.Issue{
		issue(1, "Blocks #2. Blocks #3. Blocks #4."),
		issue(2, ""),
		issue(3, ""),
		issue(4, "Blocks #2"),
	})

	assert.Equal(t, 3, g.FanOut(1))
	assert.Equal(t, 1, g.FanOut(4))
	assert.Equal(t, 0, g.FanOut(2))

	bottlenecks := g.Bottlenecks(2)
	require.Len(t, bottlenecks, 1)
	assert.Equal(t, 1, bottlenecks[0].Number)
}
