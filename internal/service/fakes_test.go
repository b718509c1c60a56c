package service

import (
	"context"
	"time"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// Фейковые репозитории в памяти для юнит-тестов сервисов.

type fakeAccountRepo struct {
	nextID   int64
	accounts map[string]domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]domain.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, username, passwordHash string) (domain.Account, error) {
	r.nextID++
	account := domain.Account{ID: r.nextID, Username: username, PasswordHash: passwordHash}
	r.accounts[username] = account

	return account, nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id int64) (domain.Account, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}

	return domain.Account{}, domain.ErrNotFound
}

func (r *fakeAccountRepo) GetByUsername(_ context.Context, username string) (domain.Account, error) {
	account, ok := r.accounts[username]

	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}

	return account, nil
}

func (r *fakeAccountRepo) EnsureAdmin(_ context.Context, username, passwordHash string) error {
	if _, ok := r.accounts[username]; ok {
		return nil
	}

	r.nextID++
	r.accounts[username] = domain.Account{
		ID:           r.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      true,
	}

	return nil
}

type memberKey struct {
	projectID int64
	accountID int64
}

type fakeMembershipRepo struct {
	members map[memberKey]domain.ProjectMember
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{members: make(map[memberKey]domain.ProjectMember)}
}

func (r *fakeMembershipRepo) add(projectID int64, account domain.Account, role domain.Role) {
	r.members[memberKey{projectID, account.ID}] = domain.ProjectMember{
		ProjectID: projectID,
		AccountID: account.ID,
		Username:  account.Username,
		Role:      role,
	}
}

func (r *fakeMembershipRepo) Get(_ context.Context, projectID, accountID int64) (domain.ProjectMember, error) {
	m, ok := r.members[memberKey{projectID, accountID}]

	if !ok {
		return domain.ProjectMember{}, domain.ErrNotFound
	}

	return m, nil
}

func (r *fakeMembershipRepo) Upsert(_ context.Context, projectID, accountID int64, role domain.Role) error {
	m := r.members[memberKey{projectID, accountID}]
	m.ProjectID = projectID
	m.AccountID = accountID
	m.Role = role
	r.members[memberKey{projectID, accountID}] = m

	return nil
}

func (r *fakeMembershipRepo) ListByProject(_ context.Context, projectID int64) ([]domain.ProjectMember, error) {
	var res []domain.ProjectMember

	for _, m := range r.members {
		if m.ProjectID == projectID {
			res = append(res, m)
		}
	}

	return res, nil
}

func (r *fakeMembershipRepo) ListByProjectAndRole(_ context.Context, projectID int64, role domain.Role) ([]domain.ProjectMember, error) {
	var res []domain.ProjectMember

	for _, m := range r.members {
		if m.ProjectID == projectID && m.Role == role {
			res = append(res, m)
		}
	}

	return res, nil
}

type issueKey struct {
	projectID int64
	issueID   int64
}

type fakeIssueRepo struct {
	projectExists map[int64]bool
	issues        map[issueKey]domain.Issue
	comments      *fakeCommentRepo
	updateErr     error

	reportedDaily   []domain.DayCount
	reportedMonthly []domain.MonthCount
	closedDaily     []domain.DayCount
	closedMonthly   []domain.MonthCount

	bestManager  *domain.BestMember
	bestAssignee *domain.BestMember
	bestReporter *domain.BestMember

	suggestion    string
	suggestionErr error
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{
		projectExists: make(map[int64]bool),
		issues:        make(map[issueKey]domain.Issue),
		suggestionErr: domain.ErrNotFound,
	}
}

func (r *fakeIssueRepo) Create(_ context.Context, issue domain.Issue) (int64, error) {
	if !r.projectExists[issue.ProjectID] {
		return 0, domain.ErrNotFound
	}

	var maxID int64

	for k := range r.issues {
		if k.projectID == issue.ProjectID && k.issueID > maxID {
			maxID = k.issueID
		}
	}

	issue.IssueID = maxID + 1
	issue.ReportedAt = time.Now()
	r.issues[issueKey{issue.ProjectID, issue.IssueID}] = issue

	return issue.IssueID, nil
}

func (r *fakeIssueRepo) GetByID(_ context.Context, projectID, issueID int64) (domain.Issue, error) {
	issue, ok := r.issues[issueKey{projectID, issueID}]

	if !ok {
		return domain.Issue{}, domain.ErrNotFound
	}

	return issue, nil
}

// Update, как и настоящий репозиторий, применяет правку вместе с
// аудит-комментариями как одно целое: при ошибке не пишется ничего.
func (r *fakeIssueRepo) Update(ctx context.Context, issue domain.Issue, audit []domain.Comment) error {
	if r.updateErr != nil {
		return r.updateErr
	}

	key := issueKey{issue.ProjectID, issue.IssueID}

	if _, ok := r.issues[key]; !ok {
		return domain.ErrNotFound
	}

	r.issues[key] = issue

	for _, c := range audit {
		if _, err := r.comments.Create(ctx, c); err != nil {
			return err
		}
	}

	return nil
}

func (r *fakeIssueRepo) ListByProject(_ context.Context, projectID int64) ([]domain.IssueSummary, error) {
	var res []domain.IssueSummary

	for k, issue := range r.issues {
		if k.projectID == projectID {
			res = append(res, summaryOf(issue))
		}
	}

	return res, nil
}

func (r *fakeIssueRepo) Search(_ context.Context, projectID int64, key, value string) ([]domain.IssueSummary, error) {
	var res []domain.IssueSummary

	for k, issue := range r.issues {
		if k.projectID != projectID {
			continue
		}

		match := false

		switch key {
		case "title":
			match = issue.Title == value
		case "status":
			match = string(issue.Status) == value
		case "priority":
			match = string(issue.Priority) == value
		case "keyword":
			match = issue.Keyword != nil && string(*issue.Keyword) == value
		case "reporter":
			match = issue.ReporterName == value
		case "assignee":
			match = issue.AssigneeName != nil && *issue.AssigneeName == value
		}

		if match {
			res = append(res, summaryOf(issue))
		}
	}

	return res, nil
}

func summaryOf(issue domain.Issue) domain.IssueSummary {
	return domain.IssueSummary{
		IssueID:    issue.IssueID,
		Title:      issue.Title,
		Status:     issue.Status,
		ReportedAt: issue.ReportedAt,
		DueDate:    issue.DueDate,
	}
}

func (r *fakeIssueRepo) CountReportedDaily(_ context.Context, _ int64, _ time.Time) ([]domain.DayCount, error) {
	return r.reportedDaily, nil
}

func (r *fakeIssueRepo) CountReportedMonthly(_ context.Context, _ int64, _ time.Time) ([]domain.MonthCount, error) {
	return r.reportedMonthly, nil
}

func (r *fakeIssueRepo) CountClosedDaily(_ context.Context, _ int64, _ time.Time) ([]domain.DayCount, error) {
	return r.closedDaily, nil
}

func (r *fakeIssueRepo) CountClosedMonthly(_ context.Context, _ int64, _ time.Time) ([]domain.MonthCount, error) {
	return r.closedMonthly, nil
}

func (r *fakeIssueRepo) BestManager(_ context.Context, _ int64, _ time.Time) (domain.BestMember, error) {
	return bestOrNotFound(r.bestManager)
}

func (r *fakeIssueRepo) BestAssignee(_ context.Context, _ int64, _ time.Time) (domain.BestMember, error) {
	return bestOrNotFound(r.bestAssignee)
}

func (r *fakeIssueRepo) BestReporter(_ context.Context, _ int64, _ time.Time) (domain.BestMember, error) {
	return bestOrNotFound(r.bestReporter)
}

func bestOrNotFound(m *domain.BestMember) (domain.BestMember, error) {
	if m == nil {
		return domain.BestMember{}, domain.ErrNotFound
	}

	return *m, nil
}

func (r *fakeIssueRepo) SuggestAssignee(_ context.Context, _ *domain.IssueKeyword) (string, error) {
	if r.suggestionErr != nil {
		return "", r.suggestionErr
	}

	return r.suggestion, nil
}

type fakeCommentRepo struct {
	issueRepo *fakeIssueRepo
	comments  map[issueKey][]domain.Comment

	topDaily   []domain.BestIssue
	topMonthly []domain.BestIssue
	topCalls   int
}

func newFakeCommentRepo(issueRepo *fakeIssueRepo) *fakeCommentRepo {
	return &fakeCommentRepo{
		issueRepo: issueRepo,
		comments:  make(map[issueKey][]domain.Comment),
	}
}

func (r *fakeCommentRepo) Create(_ context.Context, c domain.Comment) (domain.Comment, error) {
	key := issueKey{c.ProjectID, c.IssueID}

	if _, ok := r.issueRepo.issues[key]; !ok {
		return domain.Comment{}, domain.ErrNotFound
	}

	c.CommentID = int64(len(r.comments[key]) + 1)
	c.CreatedAt = time.Now()
	r.comments[key] = append(r.comments[key], c)

	return c, nil
}

func (r *fakeCommentRepo) ListByIssue(_ context.Context, projectID, issueID int64) ([]domain.Comment, error) {
	return r.comments[issueKey{projectID, issueID}], nil
}

func (r *fakeCommentRepo) TopCommented(_ context.Context, _ int64, _ time.Time, _ int) ([]domain.BestIssue, error) {
	r.topCalls++

	if r.topCalls == 1 {
		return r.topDaily, nil
	}

	return r.topMonthly, nil
}

// fixedRand всегда выбирает один и тот же индекс.
type fixedRand struct {
	n int
}

func (f fixedRand) Intn(bound int) int {
	return f.n % bound
}
