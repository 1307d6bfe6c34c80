package stress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/querycache-stress-go/stress"
)

func Test_CacheBustingToken_Format(t *testing.T) {
	testCases := []struct {
		name     string
		runID    string
		workerID int
		sequence int
		expected string
	}{
		{
			name:     "with run id",
			runID:    "0198a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b",
			workerID: 3,
			sequence: 17,
			expected: "cacheBuster.0198a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b.3.17",
		},
		{
			name:     "without run id",
			workerID: 0,
			sequence: 0,
			expected: "cacheBuster.0.0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stress.CacheBustingToken(tc.runID, tc.workerID, tc.sequence))
		})
	}
}

func Test_BuildAttempt_TokensAreUniquePerWorkerAndSequence(t *testing.T) {
	// arrange
	seen := make(map[string]struct{})

	// act
	for workerID := 0; workerID < 20; workerID++ {
		for sequence := 0; sequence < 120; sequence++ {
			attempt := stress.BuildAttempt("run", workerID, sequence)

			assert.Equal(t, workerID, attempt.WorkerID)
			assert.Equal(t, sequence, attempt.Sequence)
			seen[attempt.Token] = struct{}{}
		}
	}

	// assert
	assert.Len(t, seen, 20*120, "every (worker, sequence) pair must get its own token")
}

func Test_BuildAttempt_TokensDifferAcrossRuns(t *testing.T) {
	first := stress.BuildAttempt("run-a", 1, 1)
	second := stress.BuildAttempt("run-b", 1, 1)

	assert.NotEqual(t, first.Token, second.Token)
}
