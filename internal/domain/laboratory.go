package domain

import "time"

// Laboratory is a workspace owned by exactly one admin user. Membership and
// laboratory field mutations are gated on the acting user being the admin.
type Laboratory struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Address          string    `json:"address,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Capacity         int       `json:"capacity,omitempty"`
	RegistrationDate time.Time `json:"registrationDate,omitempty"`
	LabResponsibleID string    `json:"labResponsibleId,omitempty"`
	AdminUserID      string    `json:"adminUserId"`
	MemberUserIDs    []string  `json:"memberUserIds"`
}

// HasMember reports whether userID is in the membership list. The admin is
// not part of the list by convention.
func (l Laboratory) HasMember(userID string) bool {
	for _, id := range l.MemberUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LabResponsible is the person accountable for a laboratory's operation.
type LabResponsible struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Certification string `json:"certification,omitempty"`
}
