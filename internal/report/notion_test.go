package report

import (
	"context"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/golive-cli/internal/healthscore"
)

// fakeNotion records calls and plays back canned query results.
type fakeNotion struct {
	queryResults []notionapi.Page

	created   *notionapi.PageCreateRequest
	updated   *notionapi.PageUpdateRequest
	updatedID string
}

func (f *fakeNotion) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{Results: f.queryResults}, nil
}

func (f *fakeNotion) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	f.created = req
	return &notionapi.Page{ID: "new-page"}, nil
}

func (f *fakeNotion) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	f.updatedID = pageID
	f.updated = req
	return &notionapi.Page{ID: notionapi.ObjectID(pageID)}, nil
}

func testSnapshot() *Snapshot {
	return &Snapshot{
		GeneratedAt:    time.Now().UTC(),
		Scenario:       "q4-golive",
		AsOf:           time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		Quality:        91.2,
		HealthScore:    88.4,
		HealthStatus:   healthscore.StatusHealthy,
		DelayDays:      5,
		MainRiskPhase:  "Migration",
		MainRiskHealth: 74.0,
		EstimatedCost:  410000,
	}
}

func TestNotionPublishCreatesWhenMissing(t *testing.T) {
	fake := &fakeNotion{}
	pub := NewNotionPublisher(fake, "db-123")

	id, err := pub.Publish(context.Background(), testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "new-page", id)

	require.NotNil(t, fake.created)
	assert.Nil(t, fake.updated)
	assert.Equal(t, notionapi.DatabaseID("db-123"), fake.created.Parent.DatabaseID)

	title, ok := fake.created.Properties["Scenario"].(notionapi.TitleProperty)
	require.True(t, ok)
	assert.Equal(t, "q4-golive", title.Title[0].Text.Content)
}

func TestNotionPublishUpdatesExisting(t *testing.T) {
	fake := &fakeNotion{
		queryResults: []notionapi.Page{{ID: "existing-page"}},
	}
	pub := NewNotionPublisher(fake, "db-123")

	id, err := pub.Publish(context.Background(), testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "existing-page", id)

	assert.Nil(t, fake.created)
	require.NotNil(t, fake.updated)
	assert.Equal(t, "existing-page", fake.updatedID)

	status, ok := fake.updated.Properties["Status"].(notionapi.SelectProperty)
	require.True(t, ok)
	assert.Equal(t, "healthy", status.Select.Name)
}
