package order

import (
	"context"
	"time"

	"github.com/DioGolang/GoTraffic/pkg/metrics"
)

type IngestMetricsDecorator struct {
	Next    IngestUseCase
	Metrics metrics.Metrics
}

func (d *IngestMetricsDecorator) Execute(ctx context.Context, input IngestInput) (IngestOutput, error) {
	start := time.Now()
	output, err := d.Next.Execute(ctx, input)
	d.Metrics.RecordUseCaseExecution("IngestOrder", err == nil, time.Since(start))

	status := "accepted"
	switch {
	case err != nil:
		status = "error"
	case output.Duplicate:
		status = "duplicate"
	case !output.Accepted:
		status = "rejected"
	}
	d.Metrics.RecordOrderIngested(input.Transport, status)
	return output, err
}
