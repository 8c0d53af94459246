package criticalpath

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/services"
	"github.com/vsinha/mrpplan/pkg/infrastructure/fixtures"
)

func referenceStructure(t *testing.T) *services.ProductStructure {
	t.Helper()
	ps, err := services.NewProductStructure(fixtures.ReferenceStructure())
	require.NoError(t, err)
	return ps
}

func TestCriticalPathService_ReferenceStructure(t *testing.T) {
	service := NewCriticalPathService()

	analysis, err := service.AnalyzeCriticalPath(context.Background(), referenceStructure(t), 1, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, analysis.TotalPaths)
	require.Len(t, analysis.TopPaths, 3)

	critical := analysis.CriticalPath
	assert.Equal(t, 11, critical.TotalLeadTime)
	assert.Equal(t, []entities.PartID{1, 2, 4, 7}, critical.Path)
	assert.Equal(t, entities.PartID(7), critical.BottleneckPart)
	assert.Equal(t, "1 -> 2 -> 4 -> 7", critical.Route())

	require.Len(t, critical.PathDetails, 4)
	assert.Equal(t, 11, critical.PathDetails[0].CumulativeTime)
	assert.Equal(t, 9, critical.PathDetails[1].CumulativeTime)
	assert.Equal(t, 4, critical.PathDetails[3].CumulativeTime)
	assert.Equal(t, 3, critical.PathDetails[3].Level)

	assert.Equal(t, "Critical Path: 11 periods | Bottleneck: 7 | 1 -> 2 -> 4 -> 7", analysis.GetCriticalPathSummary())

	for i := 1; i < len(analysis.TopPaths); i++ {
		assert.LessOrEqual(t, analysis.TopPaths[i].TotalLeadTime, analysis.TopPaths[i-1].TotalLeadTime)
	}
}

func TestCriticalPathService_LeafPart(t *testing.T) {
	analysis, err := NewCriticalPathService().AnalyzeCriticalPath(context.Background(), referenceStructure(t), 6, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, analysis.TotalPaths)
	assert.Equal(t, 1, analysis.CriticalPath.TotalLeadTime)
	assert.Equal(t, []entities.PartID{6}, analysis.CriticalPath.Path)
}

func TestCriticalPathService_UnknownPart(t *testing.T) {
	_, err := NewCriticalPathService().AnalyzeCriticalPath(context.Background(), referenceStructure(t), 99, 3)

	assert.ErrorIs(t, err, entities.ErrUnknownPart)
}

func TestCriticalPathService_CumulativeLeadTimes(t *testing.T) {
	cumulative := NewCriticalPathService().CumulativeLeadTimes(referenceStructure(t))

	assert.Equal(t, map[entities.PartID]int{
		1: 11,
		2: 9,
		3: 5,
		4: 6,
		5: 3,
		6: 1,
		7: 4,
	}, cumulative)
}
