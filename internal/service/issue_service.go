package service

import (
	"context"
	"time"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
	"github.com/cau-24swe-team14/ITS-BE/internal/random"
)

// NoSuitableDev возвращается подборщиком исполнителя, когда в проекте
// нет ни одного подходящего разработчика.
const NoSuitableDev = "There are no suitable dev."

// IssueService содержит бизнес-логику иссью: создание, рабочий процесс,
// поиск, комментарии и подбор исполнителя.
type IssueService struct {
	issueRepo      domain.IssueRepository
	membershipRepo domain.MembershipRepository
	accountRepo    domain.AccountRepository
	commentRepo    domain.CommentRepository
	rand           random.Rand
	now            func() time.Time
}

// NewIssueService создаёт новый IssueService.
func NewIssueService(
	issueRepo domain.IssueRepository,
	membershipRepo domain.MembershipRepository,
	accountRepo domain.AccountRepository,
	commentRepo domain.CommentRepository,
	rnd random.Rand,
) *IssueService {
	return &IssueService{
		issueRepo:      issueRepo,
		membershipRepo: membershipRepo,
		accountRepo:    accountRepo,
		commentRepo:    commentRepo,
		rand:           rnd,
		now:            time.Now,
	}
}

// AddIssueInput описывает новую иссью. Enum-поля приходят порядковыми
// номерами wire-формата.
type AddIssueInput struct {
	Title       string
	Description string
	Keyword     *int
	Priority    *int
	DueDate     time.Time
}

// ModifyIssueInput описывает частичное изменение иссью. Заполненные поля
// разбираются по веткам: назначение исполнителя, смена статуса, правка
// свободных полей — в этом порядке приоритета.
type ModifyIssueInput struct {
	Assignee    *string
	Status      *int
	Title       *string
	Description *string
	Keyword     *int
	Priority    *int
	DueDate     *time.Time
}

// IssueDetails агрегирует иссью с её комментариями и ролью смотрящего.
type IssueDetails struct {
	Issue    domain.Issue
	Comments []domain.Comment
	Role     *domain.Role // nil для администратора
}

// Add регистрирует новую иссью. Доступно только тестерам проекта;
// статус всегда NEW, приоритет по умолчанию MAJOR.
func (s *IssueService) Add(ctx context.Context, actor domain.Actor, projectID int64, input AddIssueInput) (int64, error) {
	m, err := s.membershipRepo.Get(ctx, projectID, actor.AccountID)

	if err != nil {
		if err == domain.ErrNotFound {
			return 0, domain.NewDomainError(domain.ErrorCodeIssueForbidden, domain.ErrForbidden)
		}

		return 0, err
	}

	if m.Role != domain.RoleTester {
		return 0, domain.NewDomainError(domain.ErrorCodeIssueForbidden, domain.ErrForbidden)
	}

	if input.Title == "" || input.DueDate.IsZero() {
		return 0, domain.NewDomainError(domain.ErrorCodeIssueBadRequest, domain.ErrMalformedRequest)
	}

	issue := domain.Issue{
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		ReporterID:  actor.AccountID,
		DueDate:     input.DueDate,
		Priority:    domain.PriorityMajor,
		Status:      domain.IssueNew,
	}

	if input.Keyword != nil {
		keyword, ok := domain.IssueKeywordFromOrdinal(*input.Keyword)

		if !ok {
			return 0, domain.NewDomainError(domain.ErrorCodeIssueBadRequest, domain.ErrMalformedRequest)
		}

		issue.Keyword = &keyword
	}

	if input.Priority != nil {
		priority, ok := domain.IssuePriorityFromOrdinal(*input.Priority)

		if !ok {
			return 0, domain.NewDomainError(domain.ErrorCodeIssueBadRequest, domain.ErrMalformedRequest)
		}

		issue.Priority = priority
	}

	issueID, err := s.issueRepo.Create(ctx, issue)

	if err != nil {
		if err == domain.ErrNotFound {
			return 0, domain.NewDomainError(domain.ErrorCodeProjectNotFound, domain.ErrProjectNotFound)
		}

		return 0, err
	}

	return issueID, nil
}

// Modify проводит иссью через конечный автомат рабочего процесса.
// Принятая правка и её аудит-комментарии уходят в репозиторий одним
// вызовом и фиксируются одной транзакцией.
func (s *IssueService) Modify(ctx context.Context, actor domain.Actor, projectID, issueID int64, input ModifyIssueInput) error {
	m, err := s.membershipRepo.Get(ctx, projectID, actor.AccountID)

	if err != nil {
		if err == domain.ErrNotFound {
			return domain.NewDomainError(domain.ErrorCodeIssueEditForbidden, domain.ErrForbidden)
		}

		return err
	}

	issue, err := s.issueRepo.GetByID(ctx, projectID, issueID)

	if err != nil {
		if err == domain.ErrNotFound {
			return domain.NewDomainError(domain.ErrorCodeIssueNotFound, domain.ErrIssueNotFound)
		}

		return err
	}

	cmd, err := s.buildCommand(ctx, input)

	if err != nil {
		return err
	}

	texts, err := cmd.Apply(actor, m.Role, &issue, s.now())

	if err != nil {
		return err
	}

	audit := make([]domain.Comment, 0, len(texts))

	for _, text := range texts {
		audit = append(audit, domain.Comment{
			ProjectID: projectID,
			IssueID:   issueID,
			AccountID: actor.AccountID,
			Content:   text,
		})
	}

	return s.issueRepo.Update(ctx, issue, audit)
}

// buildCommand выбирает команду автомата по заполненным полям запроса:
// назначение исполнителя важнее смены статуса, та — важнее правки полей.
func (s *IssueService) buildCommand(ctx context.Context, input ModifyIssueInput) (domain.IssueCommand, error) {
	if input.Assignee != nil {
		assignee, err := s.accountRepo.GetByUsername(ctx, *input.Assignee)

		if err != nil {
			if err == domain.ErrNotFound {
				return nil, domain.NewDomainError(domain.ErrorCodeIssueEditBadRequest, domain.ErrUsernameNotFound)
			}

			return nil, err
		}

		return domain.AssignCommand{Assignee: assignee}, nil
	}

	if input.Status != nil {
		status, ok := domain.IssueStatusFromOrdinal(*input.Status)

		if !ok {
			return nil, domain.NewDomainError(domain.ErrorCodeIssueEditBadRequest, domain.ErrBadTransition)
		}

		return domain.TransitionCommand{Target: status}, nil
	}

	cmd := domain.FieldEditCommand{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
	}

	if input.Keyword != nil {
		keyword, ok := domain.IssueKeywordFromOrdinal(*input.Keyword)

		if !ok {
			return nil, domain.NewDomainError(domain.ErrorCodeIssueEditBadRequest, domain.ErrBadUpdate)
		}

		cmd.Keyword = &keyword
	}

	if input.Priority != nil {
		priority, ok := domain.IssuePriorityFromOrdinal(*input.Priority)

		if !ok {
			return nil, domain.NewDomainError(domain.ErrorCodeIssueEditBadRequest, domain.ErrBadUpdate)
		}

		cmd.Priority = &priority
	}

	return cmd, nil
}

// Details возвращает иссью с комментариями. Доступно администратору и
// участникам проекта.
func (s *IssueService) Details(ctx context.Context, actor domain.Actor, projectID, issueID int64) (IssueDetails, error) {
	role, err := s.viewerRole(ctx, actor, projectID, domain.ErrorCodeIssueViewForbidden)

	if err != nil {
		return IssueDetails{}, err
	}

	issue, err := s.issueRepo.GetByID(ctx, projectID, issueID)

	if err != nil {
		if err == domain.ErrNotFound {
			return IssueDetails{}, domain.NewDomainError(domain.ErrorCodeIssueNotFound, domain.ErrIssueNotFound)
		}

		return IssueDetails{}, err
	}

	comments, err := s.commentRepo.ListByIssue(ctx, projectID, issueID)

	if err != nil {
		return IssueDetails{}, err
	}

	return IssueDetails{
		Issue:    issue,
		Comments: comments,
		Role:     role,
	}, nil
}

// searchKeys — допустимые ключи точного поиска по иссью.
var searchKeys = map[string]bool{
	"title":       true,
	"description": true,
	"keyword":     true,
	"reporter":    true,
	"manager":     true,
	"assignee":    true,
	"fixer":       true,
	"priority":    true,
	"status":      true,
}

// Search возвращает иссью проекта, точно совпадающие по одному ключу.
// Для enum-ключей значение — имя значения (например BUG или MAJOR).
// Пустой ключ означает выборку всех иссью проекта.
func (s *IssueService) Search(ctx context.Context, actor domain.Actor, projectID int64, key, value string) ([]domain.IssueSummary, error) {
	if _, err := s.viewerRole(ctx, actor, projectID, domain.ErrorCodeIssueViewForbidden); err != nil {
		return nil, err
	}

	if key == "" {
		return s.issueRepo.ListByProject(ctx, projectID)
	}

	if !searchKeys[key] {
		return nil, domain.NewDomainError(domain.ErrorCodeIssueSearchBadRequest, domain.ErrUnknownSearchKey)
	}

	ok := true

	switch key {
	case "keyword":
		_, ok = domain.IssueKeywordFromName(value)
	case "priority":
		_, ok = domain.IssuePriorityFromName(value)
	case "status":
		_, ok = domain.IssueStatusFromName(value)
	}

	if !ok {
		return nil, domain.NewDomainError(domain.ErrorCodeIssueSearchBadRequest, domain.ErrMalformedRequest)
	}

	return s.issueRepo.Search(ctx, projectID, key, value)
}

// AddComment добавляет комментарий участника и возвращает обновлённый
// журнал комментариев иссью.
func (s *IssueService) AddComment(ctx context.Context, actor domain.Actor, projectID, issueID int64, content string) ([]domain.Comment, error) {
	if _, err := s.membershipRepo.Get(ctx, projectID, actor.AccountID); err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.NewDomainError(domain.ErrorCodeCommentForbidden, domain.ErrForbidden)
		}

		return nil, err
	}

	if content == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeCommentBadRequest, domain.ErrMalformedRequest)
	}

	_, err := s.commentRepo.Create(ctx, domain.Comment{
		ProjectID: projectID,
		IssueID:   issueID,
		AccountID: actor.AccountID,
		Content:   content,
	})

	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.NewDomainError(domain.ErrorCodeCommentBadRequest, domain.ErrIssueNotFound)
		}

		return nil, err
	}

	return s.commentRepo.ListByIssue(ctx, projectID, issueID)
}

// SuggestAssignee подбирает исполнителя для иссью: разработчика с
// наибольшим опытом по тематике иссью, а если статистики нет —
// случайного разработчика проекта. Доступно только PL.
func (s *IssueService) SuggestAssignee(ctx context.Context, actor domain.Actor, projectID, issueID int64) (string, error) {
	m, err := s.membershipRepo.Get(ctx, projectID, actor.AccountID)

	if err != nil {
		if err == domain.ErrNotFound {
			return "", domain.NewDomainError(domain.ErrorCodeSuggestionForbidden, domain.ErrForbidden)
		}

		return "", err
	}

	if m.Role != domain.RolePL {
		return "", domain.NewDomainError(domain.ErrorCodeSuggestionForbidden, domain.ErrForbidden)
	}

	issue, err := s.issueRepo.GetByID(ctx, projectID, issueID)

	if err != nil {
		if err == domain.ErrNotFound {
			return "", domain.NewDomainError(domain.ErrorCodeSuggestionBadRequest, domain.ErrIssueNotFound)
		}

		return "", err
	}

	username, err := s.issueRepo.SuggestAssignee(ctx, issue.Keyword)

	if err == nil {
		return username, nil
	}

	if err != domain.ErrNotFound {
		return "", err
	}

	devs, err := s.membershipRepo.ListByProjectAndRole(ctx, projectID, domain.RoleDev)

	if err != nil {
		return "", err
	}

	if len(devs) == 0 {
		return NoSuitableDev, nil
	}

	return devs[s.rand.Intn(len(devs))].Username, nil
}

// viewerRole проверяет право смотреть проект: администратор проходит
// без членства, остальные должны быть участниками.
func (s *IssueService) viewerRole(ctx context.Context, actor domain.Actor, projectID int64, code string) (*domain.Role, error) {
	if actor.IsAdmin {
		return nil, nil
	}

	m, err := s.membershipRepo.Get(ctx, projectID, actor.AccountID)

	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.NewDomainError(code, domain.ErrForbidden)
		}

		return nil, err
	}

	return &m.Role, nil
}
