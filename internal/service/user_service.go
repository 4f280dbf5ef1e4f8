package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"telecom-inventory/internal/audit"
	"telecom-inventory/internal/model"
	"telecom-inventory/internal/repository"
	"telecom-inventory/pkg/pagination"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// EmployeeRole is assigned to every self-registered account
const EmployeeRole = "employee"

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	specialRegex  = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// --- DTOs ---

type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Email           string `json:"email" binding:"required"`
	AllowlistID     string `json:"allowlist_id" binding:"required"`
}

type CreateUserRequest struct {
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Email    string   `json:"email" binding:"required"`
	Roles    []string `json:"roles"`
	IsAdmin  bool     `json:"is_admin"`
}

type UpdateUserRequest struct {
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
	Enabled        *bool  `json:"enabled"`
	IsAdmin        *bool  `json:"is_admin"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the profile projection returned by every user endpoint;
// the password hash never leaves the service layer.
type UserResponse struct {
	ID             uint     `json:"id"`
	UserID         uint     `json:"user_id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	ProfilePicture string   `json:"profile_picture"`
	IsAdmin        bool     `json:"is_admin"`
	IsSupplier     bool     `json:"is_supplier"`
	Enabled        bool     `json:"enabled"`
	Roles          []string `json:"roles"`
	Permissions    []string `json:"permissions,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// --- Interface ---

type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	CreateUser(ctx context.Context, actor audit.Actor, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	GetUser(ctx context.Context, id uint) (*UserResponse, error)
	GetUserByUserID(ctx context.Context, userID uint) (*UserResponse, error)
	ListUsers(ctx context.Context, params pagination.Params) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actor audit.Actor, id uint, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor audit.Actor, id uint) error
	EnsureAdminUser(ctx context.Context, username, email, password string) error
}

type userService struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	tx        repository.TransactionManager
	sink      audit.Sink
	allowlist *Allowlist
	jwtSecret string
}

func NewUserService(users repository.UserRepository, roles repository.RoleRepository, tx repository.TransactionManager, sink audit.Sink, allowlist *Allowlist, jwtSecret string) UserService {
	return &userService{users: users, roles: roles, tx: tx, sink: sink, allowlist: allowlist, jwtSecret: jwtSecret}
}

// --- Validation helpers ---

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 32 {
		return errors.New("username must be between 3 and 32 characters")
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("username may only contain letters, digits, underscores and hyphens")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return errors.New("password must contain an uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain a lowercase letter")
	}
	if !hasDigit {
		return errors.New("password must contain a digit")
	}
	if !specialRegex.MatchString(password) {
		return errors.New("password must contain a special character")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailRegex.MatchString(strings.ToLower(email)) {
		return errors.New("invalid email format")
	}
	return nil
}

// --- Implementation ---

// Register creates a self-service account. Validation runs in a fixed
// order (username, password, confirmation, email) so the first violation
// reported is deterministic. The id/email pair must appear in the
// allowlist.
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if err := validateUsername(req.Username); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("username already taken")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, errors.New("passwords do not match")
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if _, err := s.users.GetInfoByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already registered")
	}
	if !s.allowlist.Contains(req.AllowlistID, req.Email) {
		return nil, errors.New("invalid ID or email")
	}

	info, err := s.createAccount(ctx, req.Username, req.Password, req.Email, []string{EmployeeRole}, false)
	if err != nil {
		return nil, err
	}

	s.sink.Created(ctx, audit.Actor{}, info)
	return s.GetUser(ctx, info.ID)
}

// CreateUser is the admin path: same validation as Register minus the
// allowlist and confirmation checks, with a caller-chosen role set.
func (s *userService) CreateUser(ctx context.Context, actor audit.Actor, req CreateUserRequest) (*UserResponse, error) {
	if err := validateUsername(req.Username); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("username already taken")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if _, err := s.users.GetInfoByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already registered")
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{EmployeeRole}
	}
	info, err := s.createAccount(ctx, req.Username, req.Password, req.Email, roles, req.IsAdmin)
	if err != nil {
		return nil, err
	}

	s.sink.Created(ctx, actor, info)
	return s.GetUser(ctx, info.ID)
}

// createAccount builds the User and UserInfo rows plus the initial role
// assignments in one transaction.
func (s *userService) createAccount(ctx context.Context, username, password, email string, roleNames []string, isAdmin bool) (*model.UserInfo, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	var info *model.UserInfo
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		user := &model.User{Username: username, PasswordHash: string(hashed), Enabled: true}
		if err := s.users.CreateUser(txCtx, user); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		info = &model.UserInfo{UserID: user.ID, Email: email, IsAdmin: isAdmin}
		if err := s.users.CreateUserInfo(txCtx, info); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		roles, err := s.roles.FindActiveRolesByNames(txCtx, roleNames)
		if err != nil {
			return fmt.Errorf("failed to fetch roles: %w", err)
		}
		if missing := missingNames(roleNames, roleNameList(roles)); len(missing) > 0 {
			return fmt.Errorf("roles not found: %s", strings.Join(missing, ", "))
		}
		return s.roles.ReplaceUserRoles(txCtx, info.ID, roleIDList(roles))
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}
	if !user.Enabled {
		return nil, errors.New("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid username or password")
	}

	info, err := s.users.GetInfoByUserID(ctx, user.ID)
	if err != nil {
		return nil, errors.New("profile not found")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", user.ID),
		"username": user.Username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	s.sink.Action(ctx, audit.Actor{UserID: &user.ID, Username: user.Username},
		model.OpLogin, "login", "user", fmt.Sprintf("%d", user.ID), nil, true, "")

	return &TokenResponse{Token: tokenString, User: *toUserResponse(info, true)}, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*UserResponse, error) {
	info, err := s.users.GetInfoByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return toUserResponse(info, true), nil
}

func (s *userService) GetUserByUserID(ctx context.Context, userID uint) (*UserResponse, error) {
	info, err := s.users.GetInfoByUserID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return toUserResponse(info, true), nil
}

func (s *userService) ListUsers(ctx context.Context, params pagination.Params) ([]UserResponse, int64, error) {
	infos, total, err := s.users.ListInfos(ctx, params.Offset, params.Limit, params.OrderClause(), params.Search)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]UserResponse, 0, len(infos))
	for i := range infos {
		responses = append(responses, *toUserResponse(&infos[i], false))
	}
	return responses, total, nil
}

// UpdateUser edits the profile row under a row lock so concurrent edits
// serialize instead of clobbering each other.
func (s *userService) UpdateUser(ctx context.Context, actor audit.Actor, id uint, req UpdateUserRequest) (*UserResponse, error) {
	if req.Email != "" {
		if err := validateEmail(req.Email); err != nil {
			return nil, err
		}
	}

	var before, after model.UserInfo
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		info, err := s.users.GetInfoByIDForUpdate(txCtx, id)
		if err != nil {
			return errors.New("user not found")
		}
		before = *info

		if req.Email != "" && req.Email != info.Email {
			if existing, err := s.users.GetInfoByEmail(txCtx, req.Email); err == nil && existing.ID != info.ID {
				return errors.New("email already registered")
			}
			info.Email = req.Email
		}
		if req.ProfilePicture != "" {
			info.ProfilePicture = req.ProfilePicture
		}
		if req.IsAdmin != nil {
			info.IsAdmin = *req.IsAdmin
		}
		if err := s.users.UpdateUserInfo(txCtx, info); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		after = *info

		if req.Enabled != nil {
			user, err := s.users.GetUserByID(txCtx, info.UserID)
			if err != nil {
				return errors.New("account not found")
			}
			user.Enabled = *req.Enabled
			if err := s.users.UpdateUser(txCtx, user); err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Updated(ctx, actor, &before, &after)
	return s.GetUser(ctx, id)
}

func (s *userService) DeleteUser(ctx context.Context, actor audit.Actor, id uint) error {
	info, err := s.users.GetInfoByID(ctx, id)
	if err != nil {
		return errors.New("user not found")
	}
	if actor.UserID != nil && info.UserID == *actor.UserID {
		return errors.New("cannot delete your own account")
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.users.DeleteUser(txCtx, info)
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.sink.Deleted(ctx, actor, info)
	return nil
}

// EnsureAdminUser creates the initial administrator account if no account
// with that username exists yet. Called once at startup after seeding.
func (s *userService) EnsureAdminUser(ctx context.Context, username, email, password string) error {
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil
	}
	_, err := s.CreateUser(ctx, audit.SystemActor, CreateUserRequest{
		Username: username,
		Password: password,
		Email:    email,
		Roles:    []string{"admin"},
		IsAdmin:  true,
	})
	return err
}

func toUserResponse(info *model.UserInfo, withPermissions bool) *UserResponse {
	resp := &UserResponse{
		ID:             info.ID,
		UserID:         info.UserID,
		Username:       info.User.Username,
		Email:          info.Email,
		ProfilePicture: info.ProfilePicture,
		IsAdmin:        info.IsAdmin,
		IsSupplier:     info.IsSupplier,
		Enabled:        info.User.Enabled,
		Roles:          info.RoleNames(),
		CreatedAt:      info.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if withPermissions {
		resp.Permissions = info.PermissionNames()
	}
	return resp
}
