package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// JanitorTaskQueue is the queue the janitor worker listens on.
const JanitorTaskQueue = "janitor-queue"

// JanitorInput is the input for the orphan sweep workflow.
type JanitorInput struct {
	PlaceID string
}

// JanitorWorkflow purges the iterations left behind by a deleted place:
// list them, drop their map references, then delete the records. If the
// delete fails after the references were stripped, the references are
// restored (saga compensation) so the next sweep sees a consistent state.
func JanitorWorkflow(ctx workflow.Context, input JanitorInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting orphan sweep", "placeID", input.PlaceID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: collect the orphaned iterations
	var iterationIDs []string
	err := workflow.ExecuteActivity(ctx, "ListIterationsForPlace", input.PlaceID).Get(ctx, &iterationIDs)
	if err != nil {
		return err
	}
	if len(iterationIDs) == 0 {
		logger.Info("No orphaned iterations", "placeID", input.PlaceID)
		return nil
	}

	// Step 2: strip references from every map
	err = workflow.ExecuteActivity(ctx, "RemoveIterationRefs", iterationIDs).Get(ctx, nil)
	if err != nil {
		return err
	}

	// Step 3: delete the iteration records
	err = workflow.ExecuteActivity(ctx, "DeleteIterations", iterationIDs).Get(ctx, nil)
	if err != nil {
		logger.Warn("iteration delete failed, restoring map refs", "error", err)
		// Compensate: put the references back
		_ = workflow.ExecuteActivity(ctx, "RestoreIterationRefs", input.PlaceID, iterationIDs).Get(ctx, nil)
		return err
	}

	logger.Info("Orphan sweep complete", "placeID", input.PlaceID, "count", len(iterationIDs))
	return nil
}
