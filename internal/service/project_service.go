package service

import (
	"context"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// ProjectService содержит бизнес-логику проектов и их участников.
type ProjectService struct {
	projectRepo    domain.ProjectRepository
	membershipRepo domain.MembershipRepository
	accountRepo    domain.AccountRepository
	issueRepo      domain.IssueRepository
}

// NewProjectService создаёт новый ProjectService.
func NewProjectService(
	projectRepo domain.ProjectRepository,
	membershipRepo domain.MembershipRepository,
	accountRepo domain.AccountRepository,
	issueRepo domain.IssueRepository,
) *ProjectService {
	return &ProjectService{
		projectRepo:    projectRepo,
		membershipRepo: membershipRepo,
		accountRepo:    accountRepo,
		issueRepo:      issueRepo,
	}
}

// MemberInput описывает участника проекта в запросе на создание или изменение.
type MemberInput struct {
	Username string
	Role     int
}

// ModifyProjectInput описывает частичное изменение проекта.
type ModifyProjectInput struct {
	Title       *string
	Description *string
	Status      *int
	Members     []MemberInput
}

// ProjectDetails агрегирует всё, что нужно для страницы проекта.
type ProjectDetails struct {
	Project domain.Project
	Role    *domain.Role // nil для администратора
	Members []domain.ProjectMember
	Issues  []domain.IssueSummary
}

// List возвращает проекты, доступные пользователю: администратор видит
// все, остальные — только те, где состоят.
func (s *ProjectService) List(ctx context.Context, actor domain.Actor) ([]domain.Project, error) {
	if actor.IsAdmin {
		return s.projectRepo.ListAll(ctx)
	}

	return s.projectRepo.ListByAccount(ctx, actor.AccountID)
}

// Details возвращает проект вместе с участниками и списком иссью.
// Доступно администратору и участникам проекта.
func (s *ProjectService) Details(ctx context.Context, actor domain.Actor, projectID int64) (ProjectDetails, error) {
	var role *domain.Role

	if !actor.IsAdmin {
		m, err := s.membershipRepo.Get(ctx, projectID, actor.AccountID)

		if err != nil {
			if err == domain.ErrNotFound {
				return ProjectDetails{}, domain.NewDomainError(domain.ErrorCodeProjectViewForbidden, domain.ErrForbidden)
			}

			return ProjectDetails{}, err
		}

		role = &m.Role
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)

	if err != nil {
		if err == domain.ErrNotFound {
			return ProjectDetails{}, domain.NewDomainError(domain.ErrorCodeProjectNotFound, domain.ErrProjectNotFound)
		}

		return ProjectDetails{}, err
	}

	members, err := s.membershipRepo.ListByProject(ctx, projectID)

	if err != nil {
		return ProjectDetails{}, err
	}

	issues, err := s.issueRepo.ListByProject(ctx, projectID)

	if err != nil {
		return ProjectDetails{}, err
	}

	return ProjectDetails{
		Project: project,
		Role:    role,
		Members: members,
		Issues:  issues,
	}, nil
}

// Create создаёт проект и добавляет указанных участников.
// Доступно только администратору.
func (s *ProjectService) Create(ctx context.Context, actor domain.Actor, title, description string, members []MemberInput) (domain.Project, error) {
	if !actor.IsAdmin {
		return domain.Project{}, domain.NewDomainError(domain.ErrorCodeProjectForbidden, domain.ErrForbidden)
	}

	if title == "" {
		return domain.Project{}, domain.NewDomainError(domain.ErrorCodeProjectBadRequest, domain.ErrMalformedRequest)
	}

	resolved, err := s.resolveMembers(ctx, members, domain.ErrorCodeProjectBadRequest)

	if err != nil {
		return domain.Project{}, err
	}

	project, err := s.projectRepo.Create(ctx, title, description)

	if err != nil {
		return domain.Project{}, err
	}

	for _, m := range resolved {
		if err := s.membershipRepo.Upsert(ctx, project.ID, m.accountID, m.role); err != nil {
			return domain.Project{}, err
		}
	}

	return project, nil
}

// Modify изменяет название, описание или статус проекта и добавляет
// участников. Доступно только администратору.
func (s *ProjectService) Modify(ctx context.Context, actor domain.Actor, projectID int64, input ModifyProjectInput) error {
	if !actor.IsAdmin {
		return domain.NewDomainError(domain.ErrorCodeProjectEditForbidden, domain.ErrForbidden)
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)

	if err != nil {
		if err == domain.ErrNotFound {
			return domain.NewDomainError(domain.ErrorCodeProjectNotFound, domain.ErrProjectNotFound)
		}

		return err
	}

	resolved, err := s.resolveMembers(ctx, input.Members, domain.ErrorCodeUsernameNotFound)

	if err != nil {
		return err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return domain.NewDomainError(domain.ErrorCodeProjectBadRequest, domain.ErrMalformedRequest)
		}

		project.Title = *input.Title
	}

	if input.Description != nil {
		project.Description = *input.Description
	}

	if input.Status != nil {
		status, ok := domain.ProjectStatusFromOrdinal(*input.Status)

		if !ok {
			return domain.NewDomainError(domain.ErrorCodeProjectBadRequest, domain.ErrMalformedRequest)
		}

		project.Status = status
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return err
	}

	for _, m := range resolved {
		if err := s.membershipRepo.Upsert(ctx, projectID, m.accountID, m.role); err != nil {
			return err
		}
	}

	return nil
}

type resolvedMember struct {
	accountID int64
	role      domain.Role
}

// resolveMembers превращает пары логин+роль в идентификаторы аккаунтов,
// проверяя, что логины существуют, а порядковые номера ролей корректны.
func (s *ProjectService) resolveMembers(ctx context.Context, members []MemberInput, notFoundCode string) ([]resolvedMember, error) {
	res := make([]resolvedMember, 0, len(members))

	for _, m := range members {
		role, ok := domain.RoleFromOrdinal(m.Role)

		if !ok {
			return nil, domain.NewDomainError(domain.ErrorCodeProjectBadRequest, domain.ErrMalformedRequest)
		}

		account, err := s.accountRepo.GetByUsername(ctx, m.Username)

		if err != nil {
			if err == domain.ErrNotFound {
				return nil, domain.NewDomainError(notFoundCode, domain.ErrUsernameNotFound)
			}

			return nil, err
		}

		res = append(res, resolvedMember{accountID: account.ID, role: role})
	}

	return res, nil
}
