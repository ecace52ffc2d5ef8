// Package service contains the business logic.
//
// It sits between the handler and repository layers: handlers pass in
// validated records and services persist them or serve the reference
// lists.
package service

import (
	"github.com/deppfellow/hms-backend/internal/repository"
	"github.com/deppfellow/hms-backend/internal/server"
)

type Services struct {
	Reference  *ReferenceService
	Submission *SubmissionService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Reference:  NewReferenceService(),
		Submission: NewSubmissionService(s, repos.Store),
	}
}
