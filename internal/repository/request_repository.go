package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibrasoft/command-centre/internal/domain"
)

const requestColumns = `channel_id, requester_id, requester_department_id, assigned_to_id,
               additional_assignee_id, main_message_id, title, description, request_type,
               status, posting_date, room, signup_url, created_at, updated_at`

// RequestRepository encapsulates marketing request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.Request) error
	Update(ctx context.Context, request *domain.Request) error
	Delete(ctx context.Context, channelID int64) error
	GetByChannelID(ctx context.Context, channelID int64) (*domain.Request, error)
	ListAll(ctx context.Context) ([]domain.Request, error)
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.Request, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]domain.Request, error)
	ListByAssignedTo(ctx context.Context, assignedToID int64) ([]domain.Request, error)
	CountByDepartment(ctx context.Context) ([]domain.DepartmentCount, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

func (r *requestRepository) Create(ctx context.Context, request *domain.Request) error {
	const query = `
        INSERT INTO requests (channel_id, requester_id, requester_department_id, assigned_to_id,
            additional_assignee_id, main_message_id, title, description, request_type,
            status, posting_date, room, signup_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		request.ChannelID,
		request.RequesterID,
		request.RequesterDepartmentID,
		request.AssignedToID,
		request.AdditionalAssigneeID,
		request.MainMessageID,
		request.Title,
		request.Description,
		request.RequestType,
		request.Status,
		request.PostingDate,
		request.Room,
		request.SignupURL,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
}

func (r *requestRepository) Update(ctx context.Context, request *domain.Request) error {
	const query = `
        UPDATE requests SET requester_id=$1, requester_department_id=$2, assigned_to_id=$3,
            additional_assignee_id=$4, main_message_id=$5, title=$6, description=$7,
            request_type=$8, status=$9, posting_date=$10, room=$11, signup_url=$12,
            updated_at=NOW()
        WHERE channel_id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		request.RequesterID,
		request.RequesterDepartmentID,
		request.AssignedToID,
		request.AdditionalAssigneeID,
		request.MainMessageID,
		request.Title,
		request.Description,
		request.RequestType,
		request.Status,
		request.PostingDate,
		request.Room,
		request.SignupURL,
		request.ChannelID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, channelID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM requests WHERE channel_id=$1`, channelID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) GetByChannelID(ctx context.Context, channelID int64) (*domain.Request, error) {
	const query = `SELECT ` + requestColumns + ` FROM requests WHERE channel_id=$1`
	var request domain.Request
	if err := r.pool.QueryRow(ctx, query, channelID).Scan(
		&request.ChannelID,
		&request.RequesterID,
		&request.RequesterDepartmentID,
		&request.AssignedToID,
		&request.AdditionalAssigneeID,
		&request.MainMessageID,
		&request.Title,
		&request.Description,
		&request.RequestType,
		&request.Status,
		&request.PostingDate,
		&request.Room,
		&request.SignupURL,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) ListAll(ctx context.Context) ([]domain.Request, error) {
	const query = `SELECT ` + requestColumns + ` FROM requests
             ORDER BY posting_date ASC NULLS LAST`
	return r.list(ctx, query)
}

func (r *requestRepository) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.Request, error) {
	const query = `SELECT ` + requestColumns + ` FROM requests WHERE status=$1
             ORDER BY posting_date ASC NULLS LAST`
	return r.list(ctx, query, status)
}

func (r *requestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.Request, error) {
	const query = `SELECT ` + requestColumns + ` FROM requests WHERE requester_id=$1
             ORDER BY posting_date ASC NULLS LAST`
	return r.list(ctx, query, requesterID)
}

func (r *requestRepository) ListByAssignedTo(ctx context.Context, assignedToID int64) ([]domain.Request, error) {
	const query = `SELECT ` + requestColumns + ` FROM requests WHERE assigned_to_id=$1
             ORDER BY posting_date ASC NULLS LAST`
	return r.list(ctx, query, assignedToID)
}

func (r *requestRepository) CountByDepartment(ctx context.Context) ([]domain.DepartmentCount, error) {
	const query = `
        SELECT requester_department_id, COUNT(*) FROM requests
        GROUP BY requester_department_id
        ORDER BY COUNT(*) DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DepartmentCount
	for rows.Next() {
		var count domain.DepartmentCount
		if err := rows.Scan(&count.DepartmentID, &count.Count); err != nil {
			return nil, err
		}
		result = append(result, count)
	}
	return result, rows.Err()
}

func (r *requestRepository) list(ctx context.Context, query string, args ...any) ([]domain.Request, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func scanRequests(rows pgx.Rows) ([]domain.Request, error) {
	var result []domain.Request
	for rows.Next() {
		var request domain.Request
		if err := rows.Scan(
			&request.ChannelID,
			&request.RequesterID,
			&request.RequesterDepartmentID,
			&request.AssignedToID,
			&request.AdditionalAssigneeID,
			&request.MainMessageID,
			&request.Title,
			&request.Description,
			&request.RequestType,
			&request.Status,
			&request.PostingDate,
			&request.Room,
			&request.SignupURL,
			&request.CreatedAt,
			&request.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}
