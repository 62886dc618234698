package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"mujtama/internal/config"
)

type fakePurger struct {
	calls int
	err   error
}

func (f *fakePurger) PurgeExpiredSessions(context.Context) (int, error) {
	f.calls++
	return 2, f.err
}

type fakeRefresher struct {
	calls int
}

func (f *fakeRefresher) RefreshStats(context.Context) error {
	f.calls++
	return nil
}

func TestScheduler(t *testing.T) {
	Convey("定时任务", t, func() {
		purger := &fakePurger{}
		refresher := &fakeRefresher{}
		s := NewScheduler(purger, refresher)

		Convey("任务函数直接调用", func() {
			s.PurgeSessions()
			s.RefreshStats()
			So(purger.calls, ShouldEqual, 1)
			So(refresher.calls, ShouldEqual, 1)

			purger.err = errors.New("disk full")
			So(s.PurgeSessions, ShouldNotPanic)
		})

		Convey("默认表达式可以注册", func() {
			So(s.Start(&config.JobsConfig{Enabled: true}), ShouldBeNil)
			So(len(s.cron.Entries()), ShouldEqual, 2)

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			s.Stop(ctx)
		})

		Convey("非法表达式返回错误", func() {
			err := s.Start(&config.JobsConfig{SessionPurge: "every hour"})
			So(err, ShouldNotBeNil)
		})
	})
}
