package domain

import (
	"fmt"
	"strings"
	"time"
)

// IssueCommand — одно изменение иссью, прошедшее через конечный автомат.
// Apply проверяет предусловия (роль/личность и текущий статус), мутирует
// иссью и возвращает тексты аудит-комментариев по одному на каждое
// принятое изменение.
type IssueCommand interface {
	Apply(actor Actor, role Role, issue *Issue, now time.Time) ([]string, error)
}

// AssignCommand назначает исполнителя на иссью в статусе NEW.
// Действующий аккаунт должен иметь роль PL; он становится менеджером иссью.
type AssignCommand struct {
	Assignee Account
}

// Apply реализует IssueCommand.
func (c AssignCommand) Apply(actor Actor, role Role, issue *Issue, _ time.Time) ([]string, error) {
	if role != RolePL {
		return nil, NewDomainError(ErrorCodeIssueEditForbidden, ErrForbidden)
	}

	if issue.Status != IssueNew {
		return nil, NewDomainError(ErrorCodeIssueEditBadRequest, ErrBadUpdate)
	}

	issue.AssigneeID = &c.Assignee.ID
	issue.AssigneeName = &c.Assignee.Username
	managerID := actor.AccountID
	managerName := actor.Username
	issue.ManagerID = &managerID
	issue.ManagerName = &managerName
	issue.Status = IssueAssigned

	return []string{fmt.Sprintf("%s assigned this to %s.", actor.Username, c.Assignee.Username)}, nil
}

// TransitionCommand переводит иссью в целевой статус по таблице переходов.
type TransitionCommand struct {
	Target IssueStatus
}

// Apply реализует IssueCommand.
func (c TransitionCommand) Apply(actor Actor, _ Role, issue *Issue, now time.Time) ([]string, error) {
	switch c.Target {
	case IssueFixed:
		// только assignee, из ASSIGNED или REOPENED
		if !isAccount(issue.AssigneeID, actor.AccountID) {
			return nil, NewDomainError(ErrorCodeIssueEditForbidden, ErrForbidden)
		}

		if issue.Status != IssueAssigned && issue.Status != IssueReopened {
			return nil, NewDomainError(ErrorCodeIssueEditBadRequest, ErrBadUpdate)
		}

		fixerID := actor.AccountID
		fixerName := actor.Username
		issue.FixerID = &fixerID
		issue.FixerName = &fixerName
		issue.Status = IssueFixed

	case IssueResolved:
		// только reporter, из FIXED
		if issue.ReporterID != actor.AccountID {
			return nil, NewDomainError(ErrorCodeIssueEditForbidden, ErrForbidden)
		}

		if issue.Status != IssueFixed {
			return nil, NewDomainError(ErrorCodeIssueEditBadRequest, ErrBadUpdate)
		}

		issue.Status = IssueResolved

	case IssueClosed:
		// только manager, из RESOLVED
		if !isAccount(issue.ManagerID, actor.AccountID) {
			return nil, NewDomainError(ErrorCodeIssueEditForbidden, ErrForbidden)
		}

		if issue.Status != IssueResolved {
			return nil, NewDomainError(ErrorCodeIssueEditBadRequest, ErrBadUpdate)
		}

		closedAt := now
		issue.ClosedAt = &closedAt
		issue.Status = IssueClosed

	case IssueReopened:
		// только reporter, из CLOSED
		if issue.ReporterID != actor.AccountID {
			return nil, NewDomainError(ErrorCodeIssueEditForbidden, ErrForbidden)
		}

		if issue.Status != IssueClosed {
			return nil, NewDomainError(ErrorCodeIssueEditBadRequest, ErrBadUpdate)
		}

		issue.ClosedAt = nil
		issue.Status = IssueReopened

	default:
		return nil, NewDomainError(ErrorCodeIssueEditBadRequest, ErrBadTransition)
	}

	return []string{fmt.Sprintf("%s %s this.", actor.Username, strings.ToLower(string(c.Target)))}, nil
}

// FieldEditCommand правит свободные поля иссью. Доступен только reporter-у;
// применяются все переданные поля, по одному аудит-комментарию на каждое.
type FieldEditCommand struct {
	Title       *string
	Description *string
	Keyword     *IssueKeyword
	Priority    *IssuePriority
	DueDate     *time.Time
}

// Apply реализует IssueCommand.
func (c FieldEditCommand) Apply(actor Actor, _ Role, issue *Issue, _ time.Time) ([]string, error) {
	var comments []string

	if c.Title != nil {
		if issue.ReporterID != actor.AccountID {
			return nil, NewDomainError(ErrorCodeIssueEditForbidden, ErrForbidden)
		}

		issue.Title = *c.Title
		comments = append(comments, fmt.Sprintf("%s changed the title to %s.", actor.Username, *c.Title))
	}

	if c.Description != nil {
		if issue.ReporterID != actor.AccountID {
			return nil, NewDomainError(ErrorCodeIssueEditForbidden, ErrForbidden)
		}

		issue.Description = *c.Description
		comments = append(comments, fmt.Sprintf("%s changed the description to %s.", actor.Username, *c.Description))
	}

	if c.Keyword != nil {
		if issue.ReporterID != actor.AccountID {
			return nil, NewDomainError(ErrorCodeIssueEditForbidden, ErrForbidden)
		}

		keyword := *c.Keyword
		issue.Keyword = &keyword
		comments = append(comments, fmt.Sprintf("%s changed the keyword to %s.", actor.Username, keyword))
	}

	if c.Priority != nil {
		if issue.ReporterID != actor.AccountID {
			return nil, NewDomainError(ErrorCodeIssueEditForbidden, ErrForbidden)
		}

		issue.Priority = *c.Priority
		comments = append(comments, fmt.Sprintf("%s changed the priority to %s.", actor.Username, *c.Priority))
	}

	if c.DueDate != nil {
		if issue.ReporterID != actor.AccountID {
			return nil, NewDomainError(ErrorCodeIssueEditForbidden, ErrForbidden)
		}

		issue.DueDate = *c.DueDate
		comments = append(comments, fmt.Sprintf("%s changed the due date to %s.", actor.Username, c.DueDate.Format("2006-01-02")))
	}

	return comments, nil
}

func isAccount(id *int64, accountID int64) bool {
	return id != nil && *id == accountID
}
