package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling
// algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the
	// pool of tracers.
	//
	// This function returns the block height assignment for each
	// tracer in the input list.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler splits rows proportionally to each tracer's
// static speed estimate.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	assignment := make([]uint32, len(tracers))

	var total float64
	for _, tr := range tracers {
		total += float64(tr.Speed())
	}
	scaler := float64(frameH) / total

	for idx, tr := range tracers {
		assignment[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.Speed())*scaler)))
	}

	balanceAssignment(assignment, frameH)

	return assignment
}

// Rebalance the assignment so the row counts add up to exactly frameH.
// Floor rounding leaves a few rows unassigned while the minimum one-row
// bump can oversubscribe the frame when the speed ratios are skewed.
// Missing rows go to the first tracer; excess rows are taken back from
// the largest blocks.
func balanceAssignment(assignment []uint32, frameH uint32) {
	var scheduledRows uint32
	for _, rows := range assignment {
		scheduledRows += rows
	}

	if scheduledRows <= frameH {
		assignment[0] += frameH - scheduledRows
		return
	}

	for scheduledRows > frameH {
		maxIdx := 0
		for idx, rows := range assignment {
			if rows > assignment[maxIdx] {
				maxIdx = idx
			}
		}
		if assignment[maxIdx] == 0 {
			return
		}
		assignment[maxIdx]--
		scheduledRows--
	}
}

// The perfect scheduler assumes that the volume of tracing work between
// two subsequent frames is approximately the same and redistributes
// rows using the row throughput each tracer achieved on its last block.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance.
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool of
// tracers using feedback collected from previous frames. The first call
// (or any call after the tracer pool changes size) falls back to the
// naive speed-based split.
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = NaiveScheduler().Schedule(tracers, frameH)
		return sch.blockAssignment
	}

	var total float64
	for _, tr := range tracers {
		stats := tr.Stats()
		total += float64(stats.BlockH) / float64(stats.RenderTime)
	}

	scaler := float64(frameH) / total
	for idx, tr := range tracers {
		stats := tr.Stats()
		throughput := float64(stats.BlockH) / float64(stats.RenderTime)
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(throughput*scaler)))
	}

	balanceAssignment(sch.blockAssignment, frameH)

	return sch.blockAssignment
}
