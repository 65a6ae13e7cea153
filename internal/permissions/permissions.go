package permissions

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// Roles recognized by the admin surface.
const (
	// RoleSuperAdmin bypasses the permission matrix entirely.
	RoleSuperAdmin = "superAdmin"
	// RoleAdmin is checked against the matrix per module and action.
	RoleAdmin = "admin"
	// RoleMember is checked against the matrix per module and action.
	RoleMember = "member"
)

// Actions a capability can grant within a module.
const (
	ActionCreator = "creator"
	ActionViewer  = "viewer"
	ActionEditor  = "editor"
	ActionRemover = "remover"
)

// Modules covered by the permission matrix.
const (
	ModuleNews         = "news"
	ModuleEvents       = "events"
	ModuleVideos       = "videos"
	ModuleLeaders      = "leaders"
	ModuleDonations    = "donations"
	ModuleQueries      = "queries"
	ModuleJoinRequests = "joinRequests"
	ModuleUsers        = "users"
)

// Modules returns every module name in a stable order.
func Modules() []string {
	return []string{
		ModuleNews,
		ModuleEvents,
		ModuleVideos,
		ModuleLeaders,
		ModuleDonations,
		ModuleQueries,
		ModuleJoinRequests,
		ModuleUsers,
	}
}

// Actions returns every action name in a stable order.
func Actions() []string {
	return []string{ActionCreator, ActionViewer, ActionEditor, ActionRemover}
}

// ValidRole reports whether role is one of the recognized roles.
func ValidRole(role string) bool {
	return role == RoleSuperAdmin || role == RoleAdmin || role == RoleMember
}

// Capabilities holds the four per-module booleans.
type Capabilities struct {
	Creator bool `json:"creator"`
	Viewer  bool `json:"viewer"`
	Editor  bool `json:"editor"`
	Remover bool `json:"remover"`
}

// has reports whether the named action is granted.
func (c Capabilities) has(action string) bool {
	switch action {
	case ActionCreator:
		return c.Creator
	case ActionViewer:
		return c.Viewer
	case ActionEditor:
		return c.Editor
	case ActionRemover:
		return c.Remover
	default:
		return false
	}
}

// Matrix maps module names to their granted capabilities. Modules
// absent from the matrix grant nothing.
type Matrix map[string]Capabilities

// ParseMatrix decodes a stored permission matrix. Malformed or empty
// input yields an empty matrix, which denies everything.
func ParseMatrix(raw datatypes.JSON) Matrix {
	if len(raw) == 0 {
		return Matrix{}
	}
	var m Matrix
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return Matrix{}
	}
	return m
}

// MarshalMatrix encodes a matrix for storage.
func MarshalMatrix(m Matrix) (datatypes.JSON, error) {
	if m == nil {
		m = Matrix{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// ValidateMatrix rejects matrices that name unknown modules.
func ValidateMatrix(m Matrix) error {
	known := make(map[string]struct{}, len(Modules()))
	for _, module := range Modules() {
		known[module] = struct{}{}
	}
	for module := range m {
		if _, ok := known[module]; !ok {
			return fmt.Errorf("permissions: unknown module %q", module)
		}
	}
	return nil
}

// Allowed decides whether a principal with the given role and matrix
// may perform action on module. SuperAdmin is allowed unconditionally;
// admin and member principals need the matching matrix entry.
func Allowed(role string, m Matrix, module, action string) bool {
	if role == RoleSuperAdmin {
		return true
	}
	if role != RoleAdmin && role != RoleMember {
		return false
	}
	if module == "" || action == "" {
		return false
	}
	caps, ok := m[module]
	if !ok {
		return false
	}
	return caps.has(action)
}
