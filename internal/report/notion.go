package report

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/golive-cli/pkg/notion"
)

// NotionPublisher upserts snapshots into a Notion status database. The
// database is expected to have a "Scenario" title property; all other
// columns are created or overwritten on each publish.
type NotionPublisher struct {
	client notion.Client
	dbID   string
}

// NewNotionPublisher wraps a client for the given status database.
func NewNotionPublisher(client notion.Client, dbID string) *NotionPublisher {
	return &NotionPublisher{client: client, dbID: dbID}
}

// Publish writes the snapshot as a page in the status database. An existing
// page with the same scenario name is updated in place; otherwise a new page
// is created. Returns the page ID.
func (p *NotionPublisher) Publish(ctx context.Context, snap *Snapshot) (string, error) {
	props := p.properties(snap)

	existing, err := p.findPage(ctx, snap.Scenario)
	if err != nil {
		return "", err
	}

	if existing != "" {
		page, err := p.client.UpdatePage(ctx, existing, &notionapi.PageUpdateRequest{
			Properties: props,
		})
		if err != nil {
			return "", eris.Wrapf(err, "report: update notion page for %q", snap.Scenario)
		}
		zap.L().Info("report: notion page updated",
			zap.String("scenario", snap.Scenario), zap.String("page_id", string(page.ID)))
		return string(page.ID), nil
	}

	page, err := p.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(p.dbID),
		},
		Properties: props,
	})
	if err != nil {
		return "", eris.Wrapf(err, "report: create notion page for %q", snap.Scenario)
	}
	zap.L().Info("report: notion page created",
		zap.String("scenario", snap.Scenario), zap.String("page_id", string(page.ID)))
	return string(page.ID), nil
}

func (p *NotionPublisher) findPage(ctx context.Context, name string) (string, error) {
	resp, err := p.client.QueryDatabase(ctx, p.dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: "Scenario",
			RichText: &notionapi.TextFilterCondition{Equals: name},
		},
		PageSize: 1,
	})
	if err != nil {
		return "", eris.Wrapf(err, "report: find notion page for %q", name)
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return string(resp.Results[0].ID), nil
}

func (p *NotionPublisher) properties(snap *Snapshot) notionapi.Properties {
	return notionapi.Properties{
		"Scenario": notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: snap.Scenario}}},
		},
		"Quality": notionapi.NumberProperty{Number: round2(snap.Quality)},
		"Health score": notionapi.NumberProperty{
			Number: round2(snap.HealthScore),
		},
		"Status": notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(snap.HealthStatus)},
		},
		"Delay (days)": notionapi.NumberProperty{Number: float64(snap.DelayDays)},
		"Main risk": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{
				Content: fmt.Sprintf("%s (%.1f%%)", snap.MainRiskPhase, snap.MainRiskHealth),
			}}},
		},
		"Estimated cost": notionapi.NumberProperty{Number: round2(snap.EstimatedCost)},
		"As of": notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: (*notionapi.Date)(&snap.AsOf)},
		},
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
