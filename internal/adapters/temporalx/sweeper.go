package temporalx

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/lberthe/cartomark/internal/pkg/metrics"
	"github.com/lberthe/cartomark/internal/workflows"
)

// Sweeper implements ports.OrphanSweeper by starting the janitor workflow.
type Sweeper struct {
	client client.Client
}

// NewSweeper dials the Temporal frontend.
func NewSweeper(hostPort string) (*Sweeper, error) {
	c, err := client.Dial(client.Options{HostPort: hostPort})
	if err != nil {
		return nil, fmt.Errorf("temporal client: %w", err)
	}
	return &Sweeper{client: c}, nil
}

// SweepPlace starts an orphan sweep for the deleted place. One workflow per
// place id, so a repeated delete just joins the running sweep.
func (s *Sweeper) SweepPlace(ctx context.Context, placeID string) error {
	opts := client.StartWorkflowOptions{
		ID:        "janitor-" + placeID,
		TaskQueue: workflows.JanitorTaskQueue,
	}
	_, err := s.client.ExecuteWorkflow(ctx, opts, workflows.JanitorWorkflow, workflows.JanitorInput{
		PlaceID: placeID,
	})
	if err != nil {
		return fmt.Errorf("start janitor workflow: %w", err)
	}
	metrics.OrphanSweeps.Inc()
	return nil
}

// Close releases the Temporal client.
func (s *Sweeper) Close() {
	s.client.Close()
}
