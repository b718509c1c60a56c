package service

import (
	"context"
	"testing"
	"time"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

type trendEnv struct {
	issues   *fakeIssueRepo
	comments *fakeCommentRepo
	members  *fakeMembershipRepo
	svc      *TrendService

	member domain.Actor
	admin  domain.Actor
}

// фиксированное "сейчас", чтобы границы корзин были детерминированы
var trendNow = time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)

func newTrendEnv(t *testing.T) *trendEnv {
	t.Helper()

	issues := newFakeIssueRepo()
	comments := newFakeCommentRepo(issues)
	members := newFakeMembershipRepo()

	memberAcc := domain.Account{ID: 5, Username: "watcher"}
	members.add(testProject, memberAcc, domain.RoleDev)

	svc := NewTrendService(issues, comments, members)
	svc.now = func() time.Time { return trendNow }

	return &trendEnv{
		issues:   issues,
		comments: comments,
		members:  members,
		svc:      svc,
		member:   domain.Actor{AccountID: memberAcc.ID, Username: memberAcc.Username},
		admin:    domain.Actor{AccountID: 99, Username: "admin", IsAdmin: true},
	}
}

func TestTrendService_NewIssue(t *testing.T) {
	env := newTrendEnv(t)

	env.issues.reportedDaily = []domain.DayCount{
		{Year: 2026, Month: 8, Day: 29, Count: 2},
		{Year: 2026, Month: 8, Day: 26, Count: 5},
	}
	env.issues.reportedMonthly = []domain.MonthCount{
		{Year: 2026, Month: 8, Count: 4},
		{Year: 2026, Month: 3, Count: 1},
	}

	result, err := env.svc.Trend(context.Background(), env.member, testProject, TrendNewIssue)

	if err != nil {
		t.Fatalf("trend: %v", err)
	}

	if result.Issues == nil {
		t.Fatalf("expected issue trend in result")
	}

	daily := result.Issues.Daily

	if len(daily) != 7 {
		t.Fatalf("expected 7 daily buckets, got %d", len(daily))
	}

	// корзины идут от старых к новым, пропуски заполнены нулями
	if !daily[0].Date.Equal(time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first bucket must be a week ago, got %v", daily[0].Date)
	}

	wantDaily := []int{0, 0, 0, 5, 0, 0, 2}

	for i, want := range wantDaily {
		if daily[i].Count != want {
			t.Fatalf("daily bucket %d: got %d, want %d", i, daily[i].Count, want)
		}
	}

	monthly := result.Issues.Monthly

	if len(monthly) != 6 {
		t.Fatalf("expected 6 monthly buckets, got %d", len(monthly))
	}

	if !monthly[0].Date.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first monthly bucket must be 5 months back, got %v", monthly[0].Date)
	}

	wantMonthly := []int{1, 0, 0, 0, 0, 4}

	for i, want := range wantMonthly {
		if monthly[i].Count != want {
			t.Fatalf("monthly bucket %d: got %d, want %d", i, monthly[i].Count, want)
		}
	}
}

func TestTrendService_ClosedIssue(t *testing.T) {
	env := newTrendEnv(t)

	env.issues.closedDaily = []domain.DayCount{
		{Year: 2026, Month: 8, Day: 29, Count: 3},
	}

	result, err := env.svc.Trend(context.Background(), env.member, testProject, TrendClosedIssue)

	if err != nil {
		t.Fatalf("trend: %v", err)
	}

	daily := result.Issues.Daily

	if daily[6].Count != 3 {
		t.Fatalf("expected 3 closed today, got %d", daily[6].Count)
	}

	for i := 0; i < 6; i++ {
		if daily[i].Count != 0 {
			t.Fatalf("bucket %d must be zero-filled, got %d", i, daily[i].Count)
		}
	}
}

func TestTrendService_BestIssue(t *testing.T) {
	env := newTrendEnv(t)

	env.comments.topDaily = []domain.BestIssue{{IssueID: 2, Title: "hot", Count: 7}}
	env.comments.topMonthly = []domain.BestIssue{
		{IssueID: 2, Title: "hot", Count: 30},
		{IssueID: 1, Title: "warm", Count: 11},
	}

	result, err := env.svc.Trend(context.Background(), env.member, testProject, TrendBestIssue)

	if err != nil {
		t.Fatalf("trend: %v", err)
	}

	if result.Best == nil {
		t.Fatalf("expected best issues in result")
	}

	if len(result.Best.Daily) != 1 || result.Best.Daily[0].IssueID != 2 {
		t.Fatalf("unexpected daily top: %+v", result.Best.Daily)
	}

	if len(result.Best.Monthly) != 2 || result.Best.Monthly[0].Count != 30 {
		t.Fatalf("unexpected monthly top: %+v", result.Best.Monthly)
	}
}

func TestTrendService_BestMember(t *testing.T) {
	env := newTrendEnv(t)

	env.issues.bestManager = &domain.BestMember{Username: "leader", Count: 4}
	// лучших dev и tester за неделю нет

	result, err := env.svc.Trend(context.Background(), env.member, testProject, TrendBestMember)

	if err != nil {
		t.Fatalf("trend: %v", err)
	}

	if result.Members == nil {
		t.Fatalf("expected best members in result")
	}

	if result.Members.PL == nil || result.Members.PL.Username != "leader" {
		t.Fatalf("unexpected PL slot: %+v", result.Members.PL)
	}

	if result.Members.Dev != nil || result.Members.Tester != nil {
		t.Fatalf("empty slots must stay nil: %+v", result.Members)
	}
}

func TestTrendService_Access(t *testing.T) {
	env := newTrendEnv(t)
	ctx := context.Background()

	t.Run("admin passes without membership", func(t *testing.T) {
		if _, err := env.svc.Trend(ctx, env.admin, testProject, TrendNewIssue); err != nil {
			t.Fatalf("trend: %v", err)
		}
	})

	t.Run("non-member forbidden", func(t *testing.T) {
		outsider := domain.Actor{AccountID: 77, Username: "stranger"}

		_, err := env.svc.Trend(ctx, outsider, testProject, TrendNewIssue)
		assertCode(t, err, domain.ErrorCodeTrendForbidden)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		_, err := env.svc.Trend(ctx, env.member, testProject, "velocity")
		assertCode(t, err, domain.ErrorCodeTrendBadRequest)
	})
}
