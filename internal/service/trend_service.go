package service

import (
	"context"
	"time"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// Категории трендов проекта.
const (
	TrendNewIssue    = "new-issue"
	TrendClosedIssue = "closed-issue"
	TrendBestIssue   = "best-issue"
	TrendBestMember  = "best-member"
)

// Глубина трендов: дневные корзины за последнюю неделю,
// месячные — за последние полгода.
const (
	trendDays   = 7
	trendMonths = 6

	bestIssueLimit = 3
)

// TrendResult — результат запроса тренда; заполнено ровно одно поле,
// соответствующее категории.
type TrendResult struct {
	Issues  *domain.IssueTrend
	Best    *domain.BestIssues
	Members *domain.BestMembers
}

// TrendService считает агрегаты активности по проекту.
type TrendService struct {
	issueRepo      domain.IssueRepository
	commentRepo    domain.CommentRepository
	membershipRepo domain.MembershipRepository
	now            func() time.Time
}

// NewTrendService создаёт новый TrendService.
func NewTrendService(
	issueRepo domain.IssueRepository,
	commentRepo domain.CommentRepository,
	membershipRepo domain.MembershipRepository,
) *TrendService {
	return &TrendService{
		issueRepo:      issueRepo,
		commentRepo:    commentRepo,
		membershipRepo: membershipRepo,
		now:            time.Now,
	}
}

// Trend возвращает агрегат указанной категории. Доступно администратору
// и участникам проекта.
func (s *TrendService) Trend(ctx context.Context, actor domain.Actor, projectID int64, category string) (TrendResult, error) {
	if !actor.IsAdmin {
		_, err := s.membershipRepo.Get(ctx, projectID, actor.AccountID)

		if err != nil {
			if err == domain.ErrNotFound {
				return TrendResult{}, domain.NewDomainError(domain.ErrorCodeTrendForbidden, domain.ErrForbidden)
			}

			return TrendResult{}, err
		}
	}

	switch category {
	case TrendNewIssue:
		trend, err := s.issueTrend(ctx, projectID, s.issueRepo.CountReportedDaily, s.issueRepo.CountReportedMonthly)

		if err != nil {
			return TrendResult{}, err
		}

		return TrendResult{Issues: trend}, nil

	case TrendClosedIssue:
		trend, err := s.issueTrend(ctx, projectID, s.issueRepo.CountClosedDaily, s.issueRepo.CountClosedMonthly)

		if err != nil {
			return TrendResult{}, err
		}

		return TrendResult{Issues: trend}, nil

	case TrendBestIssue:
		best, err := s.bestIssues(ctx, projectID)

		if err != nil {
			return TrendResult{}, err
		}

		return TrendResult{Best: best}, nil

	case TrendBestMember:
		members, err := s.bestMembers(ctx, projectID)

		if err != nil {
			return TrendResult{}, err
		}

		return TrendResult{Members: members}, nil

	default:
		return TrendResult{}, domain.NewDomainError(domain.ErrorCodeTrendBadRequest, domain.ErrUnknownTrend)
	}
}

type dailyCounter func(ctx context.Context, projectID int64, since time.Time) ([]domain.DayCount, error)
type monthlyCounter func(ctx context.Context, projectID int64, since time.Time) ([]domain.MonthCount, error)

// issueTrend строит дневные и месячные корзины с нулевым заполнением,
// от старых к новым.
func (s *TrendService) issueTrend(ctx context.Context, projectID int64, daily dailyCounter, monthly monthlyCounter) (*domain.IssueTrend, error) {
	now := s.now()
	today := startOfDay(now)
	firstDay := today.AddDate(0, 0, -(trendDays - 1))
	firstMonth := startOfMonth(now).AddDate(0, -(trendMonths - 1), 0)

	dayCounts, err := daily(ctx, projectID, firstDay)

	if err != nil {
		return nil, err
	}

	monthCounts, err := monthly(ctx, projectID, firstMonth)

	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]int, len(dayCounts))

	for _, c := range dayCounts {
		byDay[time.Date(c.Year, time.Month(c.Month), c.Day, 0, 0, 0, 0, now.Location())] = c.Count
	}

	byMonth := make(map[time.Time]int, len(monthCounts))

	for _, c := range monthCounts {
		byMonth[time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, now.Location())] = c.Count
	}

	trend := &domain.IssueTrend{
		Daily:   make([]domain.TrendPoint, 0, trendDays),
		Monthly: make([]domain.TrendPoint, 0, trendMonths),
	}

	for i := 0; i < trendDays; i++ {
		day := firstDay.AddDate(0, 0, i)
		trend.Daily = append(trend.Daily, domain.TrendPoint{Date: day, Count: byDay[day]})
	}

	for i := 0; i < trendMonths; i++ {
		month := firstMonth.AddDate(0, i, 0)
		trend.Monthly = append(trend.Monthly, domain.TrendPoint{Date: month, Count: byMonth[month]})
	}

	return trend, nil
}

// bestIssues возвращает топ-3 самых комментируемых иссью за сегодня
// и за текущий месяц.
func (s *TrendService) bestIssues(ctx context.Context, projectID int64) (*domain.BestIssues, error) {
	now := s.now()

	daily, err := s.commentRepo.TopCommented(ctx, projectID, startOfDay(now), bestIssueLimit)

	if err != nil {
		return nil, err
	}

	monthly, err := s.commentRepo.TopCommented(ctx, projectID, startOfMonth(now), bestIssueLimit)

	if err != nil {
		return nil, err
	}

	return &domain.BestIssues{Daily: daily, Monthly: monthly}, nil
}

// bestMembers возвращает самых результативных участников недели по
// каждой роли; пустой слот означает отсутствие активности.
func (s *TrendService) bestMembers(ctx context.Context, projectID int64) (*domain.BestMembers, error) {
	since := startOfDay(s.now()).AddDate(0, 0, -(trendDays - 1))

	pl, err := s.bestSlot(ctx, projectID, since, s.issueRepo.BestManager)

	if err != nil {
		return nil, err
	}

	dev, err := s.bestSlot(ctx, projectID, since, s.issueRepo.BestAssignee)

	if err != nil {
		return nil, err
	}

	tester, err := s.bestSlot(ctx, projectID, since, s.issueRepo.BestReporter)

	if err != nil {
		return nil, err
	}

	return &domain.BestMembers{PL: pl, Dev: dev, Tester: tester}, nil
}

func (s *TrendService) bestSlot(
	ctx context.Context,
	projectID int64,
	since time.Time,
	query func(ctx context.Context, projectID int64, since time.Time) (domain.BestMember, error),
) (*domain.BestMember, error) {
	best, err := query(ctx, projectID, since)

	if err != nil {
		if err == domain.ErrNotFound {
			return nil, nil
		}

		return nil, err
	}

	return &best, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
