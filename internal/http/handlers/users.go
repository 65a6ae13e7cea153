package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/orgdesk/orgdesk/internal/apierr"
	"github.com/orgdesk/orgdesk/internal/listing"
	"github.com/orgdesk/orgdesk/internal/models"
	"github.com/orgdesk/orgdesk/internal/permissions"
	"github.com/orgdesk/orgdesk/internal/security"
)

// UserHandler manages staff account endpoints. The whole surface is
// gated to admin roles by the router; superAdmin-only checks happen here.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// userView is the wire shape for a user row. Password hashes never
// leave the process.
type userView struct {
	ID          uint64             `json:"id"`
	Name        string             `json:"name"`
	Username    string             `json:"username"`
	Phone       string             `json:"phone"`
	Role        string             `json:"role"`
	Permissions permissions.Matrix `json:"permissions"`
	IsActive    bool               `json:"isActive"`
	IsVerified  bool               `json:"isVerified"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func viewOfUser(u models.User) userView {
	return userView{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Phone:       u.Phone,
		Role:        u.Role,
		Permissions: permissions.ParseMatrix(u.Permissions),
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func viewsOfUsers(rows []models.User) []userView {
	views := make([]userView, 0, len(rows))
	for _, row := range rows {
		views = append(views, viewOfUser(row))
	}
	return views
}

var userListSpec = listing.Spec{
	SearchColumns: []string{"name", "username", "phone"},
	SortColumns: map[string]string{
		"createdAt": "created_at",
		"name":      "name",
		"username":  "username",
	},
	DefaultSort: "created_at DESC",
}

// userListQuery defines filters for the account list view.
type userListQuery struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=10"`
	Search   string `form:"search"`
	Role     string `form:"role"`
	IsActive string `form:"isActive"`
	Sort     string `form:"sort"`
	Order    string `form:"order"`
}

// List returns staff accounts with paging, search and filters.
func (h *UserHandler) List(c *gin.Context) {
	var q userListQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid query parameters"))
		return
	}
	filters := map[string]any{"role": q.Role}
	if active, ok := parseBoolFilter(q.IsActive); ok {
		filters["is_active"] = active
	}
	res, errRun := listing.Run[models.User](c.Request.Context(), h.db, userListSpec, listing.Params{
		Page:    q.Page,
		Limit:   q.Limit,
		Search:  q.Search,
		Filters: filters,
		Sort:    q.Sort,
		Desc:    sortDesc(q.Order),
	})
	if errRun != nil {
		respondError(c, errRun)
		return
	}
	respondPage(c, listing.Result[userView]{
		Items:      viewsOfUsers(res.Items),
		TotalItems: res.TotalItems,
		TotalPages: res.TotalPages,
		Page:       res.Page,
	})
}

// Get returns a single account.
func (h *UserHandler) Get(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var row models.User
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "user not found"))
		return
	}
	respondData(c, http.StatusOK, "OK", viewOfUser(row))
}

// createUserRequest defines the request body for account creation.
type createUserRequest struct {
	Name        string             `json:"name"`
	Username    string             `json:"username"`
	Phone       string             `json:"phone"`
	Password    string             `json:"password"`
	Role        string             `json:"role"`
	Permissions permissions.Matrix `json:"permissions"`
}

// Create registers a new staff account. Only superAdmin may mint
// another superAdmin.
func (h *UserHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var body createUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}
	name := strings.TrimSpace(body.Name)
	username := strings.TrimSpace(body.Username)
	phone := strings.TrimSpace(body.Phone)
	if name == "" || username == "" || phone == "" || body.Password == "" {
		respondError(c, apierr.InvalidArgument("name, username, phone and password are required"))
		return
	}
	role := strings.TrimSpace(body.Role)
	if role == "" {
		role = permissions.RoleMember
	}
	if !permissions.ValidRole(role) {
		respondError(c, apierr.InvalidArgument("unknown role"))
		return
	}
	if role == permissions.RoleSuperAdmin && principal.Role != permissions.RoleSuperAdmin {
		respondError(c, apierr.Forbidden("only superAdmin may create superAdmin accounts"))
		return
	}
	if errMatrix := permissions.ValidateMatrix(body.Permissions); errMatrix != nil {
		respondError(c, apierr.InvalidArgument(errMatrix.Error()))
		return
	}
	matrix, errMarshal := permissions.MarshalMatrix(body.Permissions)
	if errMarshal != nil {
		respondError(c, apierr.Internal(errMarshal))
		return
	}
	hash, errHash := security.HashPassword(body.Password)
	if errHash != nil {
		respondError(c, apierr.Internal(errHash))
		return
	}

	row := models.User{
		Name:        name,
		Username:    username,
		Phone:       phone,
		Password:    hash,
		Role:        role,
		Permissions: matrix,
		IsActive:    true,
		IsVerified:  true,
		CreatedBy:   principal.ID,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		respondError(c, translateStoreError(errCreate, "a user with this username or phone already exists", "user not found"))
		return
	}
	respondData(c, http.StatusCreated, "user created", viewOfUser(row))
}

// updateUserRequest defines the request body for partial updates.
// Role and permissions have dedicated endpoints and are not accepted
// here.
type updateUserRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	IsActive   *bool   `json:"isActive"`
	IsVerified *bool   `json:"isVerified"`
}

// Update applies a partial update to an account.
func (h *UserHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var body updateUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}

	updates := map[string]any{
		"updated_at": time.Now().UTC(),
		"updated_by": principal.ID,
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			respondError(c, apierr.InvalidArgument("name cannot be empty"))
			return
		}
		updates["name"] = name
	}
	if body.Phone != nil {
		phone := strings.TrimSpace(*body.Phone)
		if phone == "" {
			respondError(c, apierr.InvalidArgument("phone cannot be empty"))
			return
		}
		updates["phone"] = phone
	}
	if body.IsActive != nil {
		updates["is_active"] = *body.IsActive
	}
	if body.IsVerified != nil {
		updates["is_verified"] = *body.IsVerified
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		respondError(c, translateStoreError(res.Error, "a user with this phone already exists", "user not found"))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("user not found"))
		return
	}

	var row models.User
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "user not found"))
		return
	}
	respondData(c, http.StatusOK, "user updated", viewOfUser(row))
}

// changePasswordRequest defines the password-change body. The old
// password is required when a user changes their own password;
// superAdmin may reset anyone without it.
type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword rotates an account password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var body changePasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}
	if len(body.NewPassword) < 8 {
		respondError(c, apierr.InvalidArgument("new password must be at least 8 characters"))
		return
	}

	var row models.User
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "user not found"))
		return
	}

	if principal.Role != permissions.RoleSuperAdmin {
		if principal.ID != row.ID {
			respondError(c, apierr.Forbidden("cannot change another user's password"))
			return
		}
		if !security.CheckPassword(row.Password, body.OldPassword) {
			respondError(c, apierr.Unauthorized("old password does not match"))
			return
		}
	}

	hash, errHash := security.HashPassword(body.NewPassword)
	if errHash != nil {
		respondError(c, apierr.Internal(errHash))
		return
	}
	res := h.db.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password":   hash,
			"updated_at": time.Now().UTC(),
			"updated_by": principal.ID,
		})
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	respondData(c, http.StatusOK, "password updated", nil)
}

// updatePermissionsRequest defines the body for role and matrix
// assignment.
type updatePermissionsRequest struct {
	Role        *string            `json:"role"`
	Permissions permissions.Matrix `json:"permissions"`
}

// UpdatePermissions assigns a role and permission matrix. Restricted
// to superAdmin.
func (h *UserHandler) UpdatePermissions(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	if principal.Role != permissions.RoleSuperAdmin {
		respondError(c, apierr.Forbidden("only superAdmin may change permissions"))
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var body updatePermissionsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}
	if errMatrix := permissions.ValidateMatrix(body.Permissions); errMatrix != nil {
		respondError(c, apierr.InvalidArgument(errMatrix.Error()))
		return
	}
	matrix, errMarshal := permissions.MarshalMatrix(body.Permissions)
	if errMarshal != nil {
		respondError(c, apierr.Internal(errMarshal))
		return
	}

	updates := map[string]any{
		"permissions": matrix,
		"updated_at":  time.Now().UTC(),
		"updated_by":  principal.ID,
	}
	if body.Role != nil {
		role := strings.TrimSpace(*body.Role)
		if !permissions.ValidRole(role) {
			respondError(c, apierr.InvalidArgument("unknown role"))
			return
		}
		updates["role"] = role
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("user not found"))
		return
	}
	respondData(c, http.StatusOK, "permissions updated", nil)
}

// Delete soft-deactivates an account. Accounts are never hard-deleted
// so audit trails keep a valid author reference.
func (h *UserHandler) Delete(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	if id == principal.ID {
		respondError(c, apierr.InvalidArgument("cannot deactivate your own account"))
		return
	}
	res := h.db.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
			"updated_by": principal.ID,
		})
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("user not found"))
		return
	}
	respondData(c, http.StatusOK, "user deactivated", nil)
}
