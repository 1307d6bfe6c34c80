package stress_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/AntonStoeckl/querycache-stress-go/stress"
	"github.com/AntonStoeckl/querycache-stress-go/testutil/helper"
)

func Benchmark_Coordinator_Run(b *testing.B) {
	for _, workers := range []int{1, 8, 64} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			coordinator := givenCoordinator(b, helper.NewSeededRandomExecutor(42, 0.3))

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := coordinator.Run(context.Background(), workers, 100); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func Benchmark_FaultAggregator_RecordFailure(b *testing.B) {
	aggregator := stress.NewFaultAggregator()
	failure := fmt.Errorf("benchmark failure")

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			aggregator.RecordFailure(failure)
		}
	})
}
