package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/incident"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const incidentColumns = `i.id, i.user_id, i.created_at, i.type, i.description, i.status,
	i.admin_response, i.responded_at, i.start_date, i.end_date, i.document_path, i.updated_at`

type incidentRepositoryImpl struct {
	db *database.DB
}

func NewIncidentRepository(db *database.DB) incident.IncidentRepository {
	return &incidentRepositoryImpl{db: db}
}

func scanIncident(row pgx.Row, withUser bool) (incident.Request, error) {
	var req incident.Request
	var typ, status string
	var firstName, lastName, email *string

	dest := []interface{}{
		&req.ID,
		&req.UserID,
		&req.CreatedAt,
		&typ,
		&req.Description,
		&status,
		&req.AdminResponse,
		&req.RespondedAt,
		&req.StartDate,
		&req.EndDate,
		&req.DocumentPath,
		&req.UpdatedAt,
	}
	if withUser {
		dest = append(dest, &firstName, &lastName, &email)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return incident.Request{}, incident.ErrRequestNotFound
		}
		return incident.Request{}, err
	}

	req.Type = incident.Type(typ)
	req.Status = incident.Status(status)
	if withUser && email != nil {
		req.User = &user.Summary{ID: req.UserID, FirstName: deref(firstName), LastName: deref(lastName), Email: *email}
	}
	return req, nil
}

// Create implements incident.IncidentRepository.
func (r *incidentRepositoryImpl) Create(ctx context.Context, req incident.Request) (incident.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO incidencias AS i (user_id, created_at, type, description, status, start_date, end_date, updated_at)
		VALUES ($1, NOW(), $2, $3, $4, $5, $6, NOW())
		RETURNING ` + incidentColumns

	created, err := scanIncident(q.QueryRow(ctx, query,
		req.UserID,
		string(req.Type),
		req.Description,
		string(req.Status),
		req.StartDate,
		req.EndDate,
	), false)
	if err != nil {
		return incident.Request{}, fmt.Errorf("failed to create incident request: %w", err)
	}
	return created, nil
}

// GetByID implements incident.IncidentRepository.
func (r *incidentRepositoryImpl) GetByID(ctx context.Context, id int64) (incident.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + incidentColumns + `, u.first_name, u.last_name, u.email
		FROM incidencias i
		LEFT JOIN users u ON u.id = i.user_id
		WHERE i.id = $1`
	if inTransaction(ctx) {
		query += " FOR UPDATE OF i"
	}
	return scanIncident(q.QueryRow(ctx, query, id), true)
}

// Update implements incident.IncidentRepository. The stored document path is left untouched.
func (r *incidentRepositoryImpl) Update(ctx context.Context, req incident.Request) (incident.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE incidencias AS i
		SET type = $1, description = $2, status = $3, admin_response = $4,
			responded_at = $5, start_date = $6, end_date = $7, updated_at = NOW()
		WHERE i.id = $8
		RETURNING ` + incidentColumns

	updated, err := scanIncident(q.QueryRow(ctx, query,
		string(req.Type),
		req.Description,
		string(req.Status),
		req.AdminResponse,
		req.RespondedAt,
		req.StartDate,
		req.EndDate,
		req.ID,
	), false)
	if err != nil {
		if errors.Is(err, incident.ErrRequestNotFound) {
			return incident.Request{}, err
		}
		return incident.Request{}, fmt.Errorf("failed to update incident request: %w", err)
	}
	updated.User = req.User
	return updated, nil
}

// UpdateDocument implements incident.IncidentRepository.
func (r *incidentRepositoryImpl) UpdateDocument(ctx context.Context, id int64, path string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE incidencias SET document_path = $1, updated_at = NOW() WHERE id = $2`, path, id)
	if err != nil {
		return fmt.Errorf("failed to store document path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return incident.ErrRequestNotFound
	}
	return nil
}

// Delete implements incident.IncidentRepository.
func (r *incidentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM incidencias WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return incident.ErrRequestNotFound
	}
	return nil
}

// List implements incident.IncidentRepository.
func (r *incidentRepositoryImpl) List(ctx context.Context, filter incident.Filter) ([]incident.Request, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("i.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("LOWER(i.type) = LOWER($%d)", argIdx))
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("i.created_at >= $%d", argIdx))
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("i.created_at < $%d", argIdx))
		args = append(args, filter.DateTo.Add(24*time.Hour))
		argIdx++
	}

	query := `
		SELECT ` + incidentColumns + `, u.first_name, u.last_name, u.email
		FROM incidencias i
		LEFT JOIN users u ON u.id = i.user_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY i.created_at DESC, i.id DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incident requests: %w", err)
	}
	defer rows.Close()

	requests := make([]incident.Request, 0)
	for rows.Next() {
		req, err := scanIncident(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
