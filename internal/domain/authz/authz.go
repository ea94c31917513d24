// Package authz concentra la tabla de permisos (rol, acción) y la única
// función de autorización que usan el router y los casos de uso.
package authz

import (
	"fmt"
	"strings"

	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// Permission acción sobre un recurso con formato "recurso:acción".
type Permission string

const wildcard = "*"

// Permisos del sistema.
const (
	All Permission = "*:*"

	RequestRead    Permission = "material_request:read"
	RequestCreate  Permission = "material_request:create"
	RequestSubmit  Permission = "material_request:submit"
	RequestApprove Permission = "material_request:approve"
	RequestDecline Permission = "material_request:decline"
	RequestOrder   Permission = "material_request:order"
	RequestDeliver Permission = "material_request:deliver"
	RequestVerify  Permission = "material_request:verify"
	RequestReview  Permission = "material_request:review"
	RequestExport  Permission = "material_request:export"

	InventoryRead   Permission = "inventory:read"
	InventoryAdjust Permission = "inventory:adjust"

	MaterialRead    Permission = "material:read"
	MaterialCreate  Permission = "material:create"
	MaterialUpdate  Permission = "material:update"
	MaterialApprove Permission = "material:approve"
	MaterialDelete  Permission = "material:delete"

	CatalogRead   Permission = "catalog:read"
	CatalogManage Permission = "catalog:manage"

	ProjectRead   Permission = "project:read"
	ProjectManage Permission = "project:manage"

	MilestoneManage Permission = "milestone:manage"
	TaskManage      Permission = "task:manage"

	AssetRead   Permission = "asset:read"
	AssetManage Permission = "asset:manage"

	UserRead   Permission = "user:read"
	UserManage Permission = "user:manage"

	LogRead Permission = "log:read"
)

// Parse separa el permiso en recurso y acción.
func (p Permission) Parse() (resource, action string) {
	parts := strings.SplitN(string(p), ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

// Matches indica si p concede requested. Soporta "*:*" y "recurso:*".
func (p Permission) Matches(requested Permission) bool {
	if p == All || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res != "" && res == reqRes && act == wildcard
}

// lectura común a todo el personal autenticado
var readOnly = []Permission{
	RequestRead, InventoryRead, MaterialRead, CatalogRead,
	ProjectRead, AssetRead, LogRead,
}

// table permisos concedidos por rol.
var table = map[string][]Permission{
	entity.RoleAdmin: {All},
	entity.RoleEngineer: append([]Permission{
		RequestCreate, RequestSubmit, RequestApprove, RequestDecline, RequestOrder,
		RequestReview, RequestExport, MaterialCreate, MaterialUpdate,
		MilestoneManage, TaskManage, UserRead,
	}, readOnly...),
	entity.RoleProjectManager: append([]Permission{
		RequestCreate, RequestSubmit, RequestApprove, RequestDecline, RequestOrder,
		RequestReview, RequestExport, MaterialCreate, MaterialUpdate,
		MilestoneManage, TaskManage, UserRead,
	}, readOnly...),
	entity.RoleForeman: append([]Permission{
		RequestCreate, RequestSubmit, RequestDeliver, RequestVerify,
		MaterialCreate, TaskManage,
	}, readOnly...),
	entity.RoleStaff: append([]Permission{
		RequestCreate, RequestSubmit, MaterialCreate,
	}, readOnly...),
}

// Can indica si role tiene el permiso p.
func Can(role string, p Permission) bool {
	for _, granted := range table[role] {
		if granted.Matches(p) {
			return true
		}
	}
	return false
}

// Authorize devuelve domain.ErrForbidden (envuelto) si role no tiene el permiso p.
func Authorize(role string, p Permission) error {
	if Can(role, p) {
		return nil
	}
	return fmt.Errorf("%w: el rol %q no puede %s", domain.ErrForbidden, role, p)
}

// Actor identidad de quien ejecuta una operación, tomada de la sesión.
type Actor struct {
	UserID   string
	Role     string
	Projects []string
}

// IsAdmin indica si el actor es administrador.
func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }

// Can atajo de authz.Can para el rol del actor.
func (a Actor) Can(p Permission) bool { return Can(a.Role, p) }

// Authorize atajo de authz.Authorize para el rol del actor.
func (a Actor) Authorize(p Permission) error { return Authorize(a.Role, p) }

// CanAccessProject indica si el actor puede ver u operar sobre projectID.
// Los administradores ven todos los proyectos.
func (a Actor) CanAccessProject(projectID string) bool {
	if a.IsAdmin() {
		return true
	}
	for _, p := range a.Projects {
		if p == projectID {
			return true
		}
	}
	return false
}

// VisibleProjects devuelve nil si el actor ve todos los proyectos, o su lista asignada.
func (a Actor) VisibleProjects() []string {
	if a.IsAdmin() {
		return nil
	}
	if a.Projects == nil {
		return []string{}
	}
	return a.Projects
}
