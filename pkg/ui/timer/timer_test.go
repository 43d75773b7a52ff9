package timer_test

import (
	"testing"
	"time"

	"github.com/slipway-dev/slipway/pkg/ui/timer"
	"github.com/stretchr/testify/assert"
)

func TestGetTimingBeforeStart(t *testing.T) {
	t.Parallel()

	tmr := timer.New()

	total, stage := tmr.GetTiming()

	assert.Zero(t, total, "total should be zero before Start")
	assert.Zero(t, stage, "stage should be zero before Start")
}

func TestNewStageResetsStageClock(t *testing.T) {
	t.Parallel()

	tmr := timer.New()
	tmr.Start()

	time.Sleep(20 * time.Millisecond)
	tmr.NewStage()

	total, stage := tmr.GetTiming()

	assert.GreaterOrEqual(t, total, stage, "total must include all stages")
}

func TestNewStageBeforeStartIsNoop(t *testing.T) {
	t.Parallel()

	tmr := timer.New()
	tmr.NewStage()

	total, stage := tmr.GetTiming()

	assert.Zero(t, total)
	assert.Zero(t, stage)
}

func TestStartResetsTimer(t *testing.T) {
	t.Parallel()

	tmr := timer.New()
	tmr.Start()
	time.Sleep(20 * time.Millisecond)
	tmr.Start()

	total, _ := tmr.GetTiming()

	assert.Less(t, total, 20*time.Millisecond, "restart should reset total elapsed time")
}
