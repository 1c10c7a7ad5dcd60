package srv

import (
	"net/http"

	"github.com/mikespook/gorbac/v2"

	"github.com/repo3d/repo3d/pkg/errors"
	"github.com/repo3d/repo3d/pkg/i18n"
	"github.com/repo3d/repo3d/pkg/types"
)

const (
	// role IDs
	RoleAdmin        = "role-admin"
	RoleCollaborator = "role-collaborator"
	RoleCommenter    = "role-commenter"
	RoleViewer       = "role-viewer"

	// permission IDs
	PermissionAdmin   = "admin"
	PermissionUpload  = "upload"
	PermissionComment = "comment"
	PermissionView    = "view"
)

// modelRoles maps the stored model permission roles onto rbac role IDs.
var modelRoles = map[string]string{
	types.ModelRoleAdmin:        RoleAdmin,
	types.ModelRoleCollaborator: RoleCollaborator,
	types.ModelRoleCommenter:    RoleCommenter,
	types.ModelRoleViewer:       RoleViewer,
}

func SetupRBACSrv() *RBACSrv {
	rbac := gorbac.New()

	pAdmin := gorbac.NewStdPermission(PermissionAdmin)
	pUpload := gorbac.NewStdPermission(PermissionUpload)
	pComment := gorbac.NewStdPermission(PermissionComment)
	pView := gorbac.NewStdPermission(PermissionView)

	roleAdmin := gorbac.NewStdRole(RoleAdmin)
	roleAdmin.Assign(pAdmin)

	roleCollaborator := gorbac.NewStdRole(RoleCollaborator)
	roleCollaborator.Assign(pUpload)

	roleCommenter := gorbac.NewStdRole(RoleCommenter)
	roleCommenter.Assign(pComment)

	roleViewer := gorbac.NewStdRole(RoleViewer)
	roleViewer.Assign(pView)

	rbac.Add(roleAdmin)
	rbac.Add(roleCollaborator)
	rbac.Add(roleCommenter)
	rbac.Add(roleViewer)

	// admin ⊃ collaborator ⊃ commenter ⊃ viewer
	rbac.SetParent(RoleCommenter, RoleViewer)
	rbac.SetParent(RoleCollaborator, RoleCommenter)
	rbac.SetParent(RoleAdmin, RoleCollaborator)

	return &RBACSrv{
		rbac: rbac,
	}
}

type RBACSrv struct {
	rbac *gorbac.RBAC
}

// CheckPermission reports whether the given rbac role carries a permission,
// directly or through inheritance.
func (a *RBACSrv) CheckPermission(roleID, permissionID string) bool {
	return a.rbac.IsGranted(roleID, gorbac.NewStdPermission(permissionID), nil)
}

// CheckModelRole is CheckPermission keyed by the stored model role name.
func (a *RBACSrv) CheckModelRole(role, permissionID string) bool {
	roleID, ok := modelRoles[role]
	if !ok {
		return false
	}
	return a.CheckPermission(roleID, permissionID)
}

type RoleUser interface {
	GetRole() string
	GetUser() string
}

// Check verifies the user's model role carries the permission, falling back
// to resource ownership for users without a matching role.
func (a *RBACSrv) Check(user RoleUser, resourceOwner string, permissionID string) *errors.CustomizedError {
	if a.CheckModelRole(user.GetRole(), permissionID) {
		return nil
	}
	if user.GetUser() != resourceOwner {
		return errors.New("RBACSrv.Check", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}
	return nil
}
