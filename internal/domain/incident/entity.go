package incident

import (
	"strings"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
)

type Status string

const (
	StatusPending  Status = "Pendiente"
	StatusApproved Status = "Aprobada"
	StatusRejected Status = "Rechazada"
	StatusResolved Status = "Resuelta"
)

// ParseStatus matches Spanish or English labels case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pendiente", "pending":
		return StatusPending, true
	case "aprobada", "approved":
		return StatusApproved, true
	case "rechazada", "rejected":
		return StatusRejected, true
	case "resuelta", "resolved":
		return StatusResolved, true
	}
	return "", false
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusResolved
}

type Type string

const (
	TypeIncident      Type = "Incidencia"
	TypeVacation      Type = "Vacaciones"
	TypePersonalLeave Type = "AsuntosPropios"
	TypeMedicalLeave  Type = "BajaMedica"
)

// NormalizeType maps known labels (any case, English aliases) to their canonical
// form and keeps any other label as free text.
func NormalizeType(s string) Type {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return TypeIncident
	}
	key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(trimmed))
	switch key {
	case "incidencia", "incident":
		return TypeIncident
	case "vacaciones", "vacation":
		return TypeVacation
	case "asuntospropios", "personalleave":
		return TypePersonalLeave
	case "bajamedica", "bajamédica", "medicalleave":
		return TypeMedicalLeave
	}
	return Type(trimmed)
}

// Request is an incident report or leave request (incidencia).
type Request struct {
	ID            int64
	UserID        int64
	CreatedAt     time.Time
	Type          Type
	Description   string
	Status        Status
	AdminResponse *string
	RespondedAt   *time.Time
	StartDate     *time.Time
	EndDate       *time.Time
	DocumentPath  *string
	UpdatedAt     time.Time

	// Join
	User *user.Summary
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

func (r *Request) HasDocument() bool {
	return r.DocumentPath != nil && *r.DocumentPath != ""
}
