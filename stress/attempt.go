package stress

import (
	"strconv"
	"strings"
)

const tokenPrefix = "cacheBuster"

// Attempt is a single query execution of a worker.
//
// It is immutable and only lives for the duration of one loop iteration.
type Attempt struct {
	WorkerID int
	Sequence int
	Token    string
}

// BuildAttempt is a factory method for Attempt.
//
// The token is derived from runID, workerID and sequence, so it is unique per (workerID, sequence) pair
// within a run and, given distinct run IDs, across runs.
func BuildAttempt(runID string, workerID int, sequence int) Attempt {
	return Attempt{
		WorkerID: workerID,
		Sequence: sequence,
		Token:    CacheBustingToken(runID, workerID, sequence),
	}
}

// CacheBustingToken renders the token injected into an attempt's query.
//
// Format: cacheBuster.<runID>.<workerID>.<sequence>, or cacheBuster.<workerID>.<sequence> for an empty runID.
func CacheBustingToken(runID string, workerID int, sequence int) string {
	var sb strings.Builder

	sb.WriteString(tokenPrefix)
	if runID != "" {
		sb.WriteByte('.')
		sb.WriteString(runID)
	}
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(workerID))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(sequence))

	return sb.String()
}
