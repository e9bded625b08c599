package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := Recorder{}

	before := testutil.ToFloat64(CasesTotal.WithLabelValues("python", "passed"))
	r.ObserveCase("python", "passed", 120*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(CasesTotal.WithLabelValues("python", "passed")))

	before = testutil.ToFloat64(EvaluationsTotal.WithLabelValues("grade", "python", "Accepted"))
	r.ObserveEvaluation("grade", "python", "Accepted", time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(EvaluationsTotal.WithLabelValues("grade", "python", "Accepted")))

	before = testutil.ToFloat64(ScoreUpserts.WithLabelValues("error"))
	r.ObserveScoreUpsert(false)
	assert.Equal(t, before+1, testutil.ToFloat64(ScoreUpserts.WithLabelValues("error")))
}
