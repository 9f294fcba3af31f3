// Package tenancy is the tenant boundary. Every read and write of a
// tenant-owned row goes through a Scope built from the caller's identity.
//
// A row outside the caller's scope is reported as not found, never as
// forbidden, so callers cannot probe for the existence of other tenants' data.
package tenancy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymcore/internal/apperr"
	"gymcore/internal/auth"

	"github.com/jmoiron/sqlx"
)

type Scope struct {
	All      bool
	TenantID int
}

func ScopeOf(id auth.Identity) Scope {
	if id.IsSuperAdmin() {
		return Scope{All: true}
	}
	return Scope{TenantID: id.TenantID}
}

// System is the unrestricted scope used by background jobs.
func System() Scope {
	return Scope{All: true}
}

// Clause returns the predicate restricting column to the scope, appending its
// bind argument to args. Placeholders are numbered after the existing args.
func (s Scope) Clause(column string, args []interface{}) (string, []interface{}) {
	if s.All {
		return "TRUE", args
	}
	args = append(args, s.TenantID)
	return fmt.Sprintf("%s = $%d", column, len(args)), args
}

func (s Scope) Allows(tenantID int) bool {
	return s.All || s.TenantID == tenantID
}

// Check returns a not-found error for entity when tenantID is outside the scope.
func (s Scope) Check(tenantID int, entity string) error {
	if !s.Allows(tenantID) {
		return apperr.NotFound(entity)
	}
	return nil
}

// Resolve picks the tenant a new row lands in. A super admin has to name
// one; everyone else is pinned to their own tenant.
func (s Scope) Resolve(requested *int) (int, error) {
	if s.All {
		if requested == nil || *requested <= 0 {
			return 0, apperr.Validation("tenant_id is required")
		}
		return *requested, nil
	}
	if requested != nil && *requested != s.TenantID {
		return 0, apperr.NotFound("tenant")
	}
	return s.TenantID, nil
}

// OwnerOf loads the tenant_id of row id in table and checks it against the
// scope. entity names the row in the not-found message.
func (s Scope) OwnerOf(ctx context.Context, q sqlx.QueryerContext, table string, id int, entity string) (int, error) {
	var tenantID int
	query := fmt.Sprintf("SELECT tenant_id FROM %s WHERE id = $1", table)
	if err := sqlx.GetContext(ctx, q, &tenantID, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound(entity)
		}
		return 0, apperr.FromStorage(err, "failed to load "+entity)
	}
	if err := s.Check(tenantID, entity); err != nil {
		return 0, err
	}
	return tenantID, nil
}
