/**
 * @description
 * LaboratoryStore manages laboratories and their membership lists. Every
 * laboratory has exactly one admin, fixed at creation; only the admin may
 * edit the laboratory or change its members. Membership mutations are
 * idempotent and persist the whole record before touching the cache.
 */
package client

import (
	"context"
	"time"

	"github.com/labstock/labstock-backend/internal/domain"
)

type laboratoryAPI interface {
	List(ctx context.Context) ([]domain.Laboratory, error)
	Create(ctx context.Context, lab domain.Laboratory) (domain.Laboratory, error)
	Update(ctx context.Context, id string, lab domain.Laboratory) (domain.Laboratory, error)
	Delete(ctx context.Context, id string) error
}

type labResponsibleAPI interface {
	List(ctx context.Context) ([]domain.LabResponsible, error)
	Create(ctx context.Context, r domain.LabResponsible) (domain.LabResponsible, error)
	Update(ctx context.Context, id string, r domain.LabResponsible) (domain.LabResponsible, error)
	Delete(ctx context.Context, id string) error
}

// LaboratoryStore caches laboratories and lab responsibles and enforces the
// admin gate on mutations.
type LaboratoryStore struct {
	api          laboratoryAPI
	responsibles labResponsibleAPI
	identity     Identity

	labs     []domain.Laboratory
	respList []domain.LabResponsible
	errs     []error
	loaded   bool
}

// NewLaboratoryStore creates a LaboratoryStore. identity supplies the acting
// user for the admin checks.
func NewLaboratoryStore(api laboratoryAPI, responsibles labResponsibleAPI, identity Identity) *LaboratoryStore {
	return &LaboratoryStore{api: api, responsibles: responsibles, identity: identity}
}

// Fetch loads all laboratories. A failed fetch still marks the store loaded.
func (s *LaboratoryStore) Fetch(ctx context.Context) error {
	labs, err := s.api.List(ctx)
	if err != nil {
		s.errs = append(s.errs, err)
		s.loaded = true
		return err
	}
	for i := range labs {
		if labs[i].MemberUserIDs == nil {
			labs[i].MemberUserIDs = []string{}
		}
	}
	s.labs = labs
	s.loaded = true
	return nil
}

// FetchLabResponsibles loads the lab responsibles collection.
func (s *LaboratoryStore) FetchLabResponsibles(ctx context.Context) error {
	list, err := s.responsibles.List(ctx)
	if err != nil {
		s.errs = append(s.errs, err)
		return err
	}
	s.respList = list
	return nil
}

// Laboratories returns a copy of the cached laboratories.
func (s *LaboratoryStore) Laboratories() []domain.Laboratory {
	out := make([]domain.Laboratory, len(s.labs))
	copy(out, s.labs)
	return out
}

// UserLaboratories returns the laboratories the user administers or belongs to.
func (s *LaboratoryStore) UserLaboratories(userID string) []domain.Laboratory {
	var out []domain.Laboratory
	for _, lab := range s.labs {
		if lab.AdminUserID == userID || lab.HasMember(userID) {
			out = append(out, lab)
		}
	}
	return out
}

// GetLaboratoryByID returns the cached laboratory with the given id.
func (s *LaboratoryStore) GetLaboratoryByID(id string) (domain.Laboratory, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Laboratory{}, false
	}
	return s.labs[idx], true
}

// IsAdmin reports whether userID administers the laboratory.
func (s *LaboratoryStore) IsAdmin(laboratoryID, userID string) bool {
	lab, ok := s.GetLaboratoryByID(laboratoryID)
	return ok && lab.AdminUserID == userID
}

// IsMember reports whether userID is in the laboratory's membership list.
func (s *LaboratoryStore) IsMember(laboratoryID, userID string) bool {
	lab, ok := s.GetLaboratoryByID(laboratoryID)
	return ok && lab.HasMember(userID)
}

// HasAccess reports whether userID may see the laboratory, as admin or member.
func (s *LaboratoryStore) HasAccess(laboratoryID, userID string) bool {
	lab, ok := s.GetLaboratoryByID(laboratoryID)
	return ok && (lab.AdminUserID == userID || lab.HasMember(userID))
}

// AddLaboratory creates a laboratory with the signed-in user as its admin.
// When a lab responsible is attached, their distinct account is seeded into
// the membership list so they can see the laboratory immediately.
func (s *LaboratoryStore) AddLaboratory(ctx context.Context, lab domain.Laboratory) (*domain.Laboratory, error) {
	user := s.currentUser()
	if user == nil {
		return nil, ErrNotSignedIn
	}
	lab.AdminUserID = user.ID
	if lab.MemberUserIDs == nil {
		lab.MemberUserIDs = []string{}
	}
	if lab.LabResponsibleID != "" && lab.LabResponsibleID != user.ID && !lab.HasMember(lab.LabResponsibleID) {
		lab.MemberUserIDs = append(lab.MemberUserIDs, lab.LabResponsibleID)
	}
	if lab.RegistrationDate.IsZero() {
		lab.RegistrationDate = time.Now().UTC()
	}

	created, err := s.api.Create(ctx, lab)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	if created.MemberUserIDs == nil {
		created.MemberUserIDs = []string{}
	}
	s.labs = append(s.labs, created)
	return &created, nil
}

// UpdateLaboratory persists field edits. Only the admin may edit, and the
// admin itself cannot be reassigned.
func (s *LaboratoryStore) UpdateLaboratory(ctx context.Context, lab domain.Laboratory) (*domain.Laboratory, error) {
	idx := s.indexOf(lab.ID)
	if idx < 0 {
		return nil, ErrLaboratoryNotFound
	}
	current := s.labs[idx]
	if !s.actingAsAdmin(current) {
		return nil, ErrUnauthorized
	}
	lab.AdminUserID = current.AdminUserID
	if lab.MemberUserIDs == nil {
		lab.MemberUserIDs = current.MemberUserIDs
	}

	updated, err := s.api.Update(ctx, lab.ID, lab)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	s.labs[idx] = updated
	return &updated, nil
}

// DeleteLaboratory removes a laboratory. Only the admin may delete.
func (s *LaboratoryStore) DeleteLaboratory(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrLaboratoryNotFound
	}
	if !s.actingAsAdmin(s.labs[idx]) {
		return ErrUnauthorized
	}
	if err := s.api.Delete(ctx, id); err != nil {
		s.errs = append(s.errs, err)
		return err
	}
	s.labs = append(s.labs[:idx], s.labs[idx+1:]...)
	return nil
}

// AddMember adds userID to the laboratory's membership list. Adding an
// existing member is a no-op without a write.
func (s *LaboratoryStore) AddMember(ctx context.Context, laboratoryID, userID string) (*domain.Laboratory, error) {
	idx := s.indexOf(laboratoryID)
	if idx < 0 {
		return nil, ErrLaboratoryNotFound
	}
	lab := s.labs[idx]
	if !s.actingAsAdmin(lab) {
		return nil, ErrUnauthorized
	}
	if lab.HasMember(userID) || lab.AdminUserID == userID {
		return &lab, nil
	}

	next := lab
	next.MemberUserIDs = append(append([]string{}, lab.MemberUserIDs...), userID)

	updated, err := s.api.Update(ctx, laboratoryID, next)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	s.labs[idx] = updated
	return &updated, nil
}

// RemoveMember removes userID from the membership list. Removing a user who
// is not a member is a no-op without a write.
func (s *LaboratoryStore) RemoveMember(ctx context.Context, laboratoryID, userID string) (*domain.Laboratory, error) {
	idx := s.indexOf(laboratoryID)
	if idx < 0 {
		return nil, ErrLaboratoryNotFound
	}
	lab := s.labs[idx]
	if !s.actingAsAdmin(lab) {
		return nil, ErrUnauthorized
	}
	if !lab.HasMember(userID) {
		return &lab, nil
	}

	next := lab
	next.MemberUserIDs = make([]string, 0, len(lab.MemberUserIDs)-1)
	for _, id := range lab.MemberUserIDs {
		if id != userID {
			next.MemberUserIDs = append(next.MemberUserIDs, id)
		}
	}

	updated, err := s.api.Update(ctx, laboratoryID, next)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	s.labs[idx] = updated
	return &updated, nil
}

// LabResponsibles returns the cached lab responsibles.
func (s *LaboratoryStore) LabResponsibles() []domain.LabResponsible {
	out := make([]domain.LabResponsible, len(s.respList))
	copy(out, s.respList)
	return out
}

// GetLabResponsibleByID returns the cached lab responsible with the given id.
func (s *LaboratoryStore) GetLabResponsibleByID(id string) (domain.LabResponsible, bool) {
	for _, r := range s.respList {
		if r.ID == id {
			return r, true
		}
	}
	return domain.LabResponsible{}, false
}

// AddLabResponsible creates a lab responsible record.
func (s *LaboratoryStore) AddLabResponsible(ctx context.Context, r domain.LabResponsible) (*domain.LabResponsible, error) {
	created, err := s.responsibles.Create(ctx, r)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	s.respList = append(s.respList, created)
	return &created, nil
}

// UpdateLabResponsible persists edits to a lab responsible record.
func (s *LaboratoryStore) UpdateLabResponsible(ctx context.Context, r domain.LabResponsible) (*domain.LabResponsible, error) {
	updated, err := s.responsibles.Update(ctx, r.ID, r)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	for i := range s.respList {
		if s.respList[i].ID == updated.ID {
			s.respList[i] = updated
			return &updated, nil
		}
	}
	s.respList = append(s.respList, updated)
	return &updated, nil
}

// DeleteLabResponsible removes a lab responsible record.
func (s *LaboratoryStore) DeleteLabResponsible(ctx context.Context, id string) error {
	if err := s.responsibles.Delete(ctx, id); err != nil {
		s.errs = append(s.errs, err)
		return err
	}
	for i := range s.respList {
		if s.respList[i].ID == id {
			s.respList = append(s.respList[:i], s.respList[i+1:]...)
			break
		}
	}
	return nil
}

// Loaded reports whether a laboratories fetch has completed.
func (s *LaboratoryStore) Loaded() bool { return s.loaded }

// Errors returns the accumulated fetch/persist errors.
func (s *LaboratoryStore) Errors() []error { return s.errs }

func (s *LaboratoryStore) indexOf(id string) int {
	for i, lab := range s.labs {
		if lab.ID == id {
			return i
		}
	}
	return -1
}

func (s *LaboratoryStore) currentUser() *domain.User {
	if s.identity == nil {
		return nil
	}
	return s.identity.CurrentUser()
}

func (s *LaboratoryStore) actingAsAdmin(lab domain.Laboratory) bool {
	user := s.currentUser()
	return user != nil && lab.AdminUserID == user.ID
}
