package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veriflow-mrv/veriflow-backend/internal/projects/domain"
)

// Repo persists projects in Postgres and implements the service's Store
// interface, including the owner resolution join.
type Repo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const projectCols = `id::text, title, coalesce(description,''), owner_id::text, coalesce(location,''),
area_hectares, coalesce(project_type,''), start_date, end_date, status, metadata,
coalesce(images,'{}'), coalesce(documents,'{}'), created_at, updated_at`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.OwnerID, &p.Location,
		&p.AreaHectares, &p.ProjectType, &p.StartDate, &p.EndDate, &p.Status,
		&p.Metadata, &p.Images, &p.Documents, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Insert persists a new project and fills in the generated id, default
// status and timestamps.
func (r *Repo) Insert(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	const q = `
insert into projects (id, title, description, owner_id, location, area_hectares,
  project_type, start_date, end_date, metadata)
values ($1::uuid, $2, nullif($3,''), $4::uuid, nullif($5,''), $6, nullif($7,''), $8, $9, $10)
returning ` + projectCols + `;
`
	got, err := scanProject(r.db.QueryRow(ctx, q, p.ID, p.Title, p.Description, p.OwnerID,
		p.Location, p.AreaHectares, p.ProjectType, p.StartDate, p.EndDate, p.Metadata))
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// Find returns projects matching the filter, newest first. An owner
// filter that cannot be a valid id matches nothing rather than erroring.
func (r *Repo) Find(ctx context.Context, f domain.Filter) ([]domain.Project, error) {
	if f.Owner != "" {
		if _, err := uuid.Parse(f.Owner); err != nil {
			return []domain.Project{}, nil
		}
	}

	q := `select ` + projectCols + ` from projects`
	var (
		where []string
		args  []interface{}
	)
	if f.Owner != "" {
		args = append(args, f.Owner)
		where = append(where, fmt.Sprintf("owner_id = $%d::uuid", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(where) > 0 {
		q += " where " + strings.Join(where, " and ")
	}
	q += " order by created_at desc;"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	const q = `select ` + projectCols + ` from projects where id = $1::uuid;`
	return scanProject(r.db.QueryRow(ctx, q, id))
}

// patchColumn maps a whitelisted patch key to its column and the cast its
// wire value needs. The service has already filtered the patch; anything
// unmapped here is dropped as well.
type patchColumn struct {
	key  string
	col  string
	cast string
}

var patchColumns = []patchColumn{
	{"title", "title", ""},
	{"description", "description", ""},
	{"location", "location", ""},
	{"areaHectares", "area_hectares", "::double precision"},
	{"projectType", "project_type", ""},
	{"startDate", "start_date", "::timestamptz"},
	{"endDate", "end_date", "::timestamptz"},
	{"status", "status", ""},
	{"metadata", "metadata", "::jsonb"},
	{"images", "images", ""},
	{"documents", "documents", ""},
}

// ApplyPatch updates exactly the columns present in the patch. Null
// values overwrite with NULL; absent keys leave columns untouched.
func (r *Repo) ApplyPatch(ctx context.Context, id string, patch map[string]interface{}) (*domain.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	sets := make([]string, 0, len(patch)+1)
	args := []interface{}{id}
	for _, pc := range patchColumns {
		value, ok := patch[pc.key]
		if !ok {
			continue
		}
		normalized, err := normalizeValue(pc.key, value)
		if err != nil {
			return nil, err
		}
		args = append(args, normalized)
		sets = append(sets, fmt.Sprintf("%s = $%d%s", pc.col, len(args), pc.cast))
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")

	q := fmt.Sprintf("update projects set %s where id = $1::uuid returning %s;",
		strings.Join(sets, ", "), projectCols)
	return scanProject(r.db.QueryRow(ctx, q, args...))
}

// normalizeValue converts decoded JSON values into shapes pgx can encode
// for the target column.
func normalizeValue(key string, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	switch key {
	case "metadata":
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
		return string(data), nil
	case "images", "documents":
		return toStringSlice(value)
	}
	return value, nil
}

func toStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("attachment list must contain strings")
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("attachment list must be an array")
}

// Delete permanently removes a project.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	ct, err := r.db.Exec(ctx, `delete from projects where id = $1::uuid;`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ResolveOwner expands an owner reference into its display projection. A
// dangling reference yields a profile carrying only the id, matching the
// permissive join the listing endpoints expect.
func (r *Repo) ResolveOwner(ctx context.Context, ownerID string) (*domain.OwnerProfile, error) {
	profile := &domain.OwnerProfile{ID: ownerID}
	if _, err := uuid.Parse(ownerID); err != nil {
		return profile, nil
	}

	const q = `select name, email, role from users where id = $1::uuid;`
	err := r.db.QueryRow(ctx, q, ownerID).Scan(&profile.Name, &profile.Email, &profile.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return profile, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}
