package sched

// lessFunc orders two jobs; it must be a strict total order that ends in
// a job_index comparison so ties are reproducible.
type lessFunc func(a, b *Job) bool

func srptLess(a, b *Job) bool {
	if a.RemainingTime != b.RemainingTime {
		return a.RemainingTime < b.RemainingTime
	}
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return a.Index < b.Index
}

func fcfsLess(a, b *Job) bool {
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	if a.Size != b.Size {
		return a.Size < b.Size
	}
	return a.Index < b.Index
}

func sjfLess(a, b *Job) bool {
	if a.Size != b.Size {
		return a.Size < b.Size
	}
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return a.Index < b.Index
}

func setfLess(a, b *Job) bool {
	if ea, eb := a.Elapsed(), b.Elapsed(); ea != eb {
		return ea < eb
	}
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return a.Index < b.Index
}

// starvingLess orders starving jobs: remaining time, then job_index.
func starvingLess(a, b *Job) bool {
	if a.RemainingTime != b.RemainingTime {
		return a.RemainingTime < b.RemainingTime
	}
	return a.Index < b.Index
}

// legacyStarvingLess is the earlier BAL variant: longest starving first,
// then highest waiting ratio, then job_index.
func legacyStarvingLess(a, b *Job) bool {
	if a.StarvingTime != b.StarvingTime {
		return a.StarvingTime < b.StarvingTime
	}
	if a.WaitingTimeRatio != b.WaitingTimeRatio {
		return a.WaitingTimeRatio > b.WaitingTimeRatio
	}
	return a.Index < b.Index
}

// selectBy returns the minimum slot of active under less, or -1 if empty.
func selectBy(jobs []Job, active []int, less lessFunc) int {
	best := -1
	for _, s := range active {
		if best < 0 || less(&jobs[s], &jobs[best]) {
			best = s
		}
	}
	return best
}

// SelectSRPT picks the slot with the shortest remaining time.
func SelectSRPT(jobs []Job, active []int) int { return selectBy(jobs, active, srptLess) }

// SelectFCFS picks the earliest arrival.
func SelectFCFS(jobs []Job, active []int) int { return selectBy(jobs, active, fcfsLess) }

// SelectSJF picks the smallest job size.
func SelectSJF(jobs []Job, active []int) int { return selectBy(jobs, active, sjfLess) }

// SelectSETF picks the job with the least attained service.
func SelectSETF(jobs []Job, active []int) int { return selectBy(jobs, active, setfLess) }

// waitingRatio is (now - arrival) / max(1, remaining).
func waitingRatio(j *Job, now int64) float64 {
	return float64(now-j.ArrivalTime) / float64(max(1, j.RemainingTime))
}

// SelectBAL refreshes the waiting ratio of every active job, stamps the
// first time each job crosses threshold, and picks among starving jobs by
// remaining time then job_index. Without starving jobs it falls back to
// SRPT ordering.
func SelectBAL(jobs []Job, active []int, now int64, threshold float64) int {
	return selectBAL(jobs, active, now, threshold, starvingLess)
}

// SelectBALLegacy is SelectBAL with the starving_time keyed tie-break.
func SelectBALLegacy(jobs []Job, active []int, now int64, threshold float64) int {
	return selectBAL(jobs, active, now, threshold, legacyStarvingLess)
}

func selectBAL(jobs []Job, active []int, now int64, threshold float64, starving lessFunc) int {
	best, bestStarving := -1, false
	for _, s := range active {
		j := &jobs[s]
		j.WaitingTimeRatio = waitingRatio(j, now)
		isStarving := j.WaitingTimeRatio >= threshold
		if isStarving && j.StarvingTime < 0 {
			j.StarvingTime = now
		}
		switch {
		case best < 0, isStarving && !bestStarving:
			best, bestStarving = s, isStarving
		case isStarving == bestStarving:
			less := srptLess
			if isStarving {
				less = starving
			}
			if less(j, &jobs[best]) {
				best = s
			}
		}
	}
	return best
}
