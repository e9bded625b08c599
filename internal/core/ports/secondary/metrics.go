package secondary

import "time"

// JudgeMetrics receives evaluation counters and timings
type JudgeMetrics interface {
	ObserveCase(language, outcome string, duration time.Duration)
	ObserveEvaluation(mode, language, status string, duration time.Duration)
	ObserveScoreUpsert(success bool)
}
