package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Point is one data point flattened for display.
type Point struct {
	Name       string
	Attributes string
	Value      string
}

// Collect reads the current state of every instrument behind reader and
// returns it sorted by name and attributes.
func Collect(ctx context.Context, reader sdkmetric.Reader) ([]Point, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}

	enc := attribute.DefaultEncoder()
	var points []Point
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					points = append(points, Point{m.Name, dp.Attributes.Encoded(enc), fmt.Sprint(dp.Value)})
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					points = append(points, Point{m.Name, dp.Attributes.Encoded(enc), fmt.Sprint(dp.Value)})
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					v := fmt.Sprintf("count=%d sum=%.3f", dp.Count, dp.Sum)
					points = append(points, Point{m.Name, dp.Attributes.Encoded(enc), v})
				}
			}
		}
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Name != points[j].Name {
			return points[i].Name < points[j].Name
		}
		return points[i].Attributes < points[j].Attributes
	})
	return points, nil
}

func (p Point) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Attributes != "" {
		b.WriteString("{" + p.Attributes + "}")
	}
	b.WriteString(" " + p.Value)
	return b.String()
}
