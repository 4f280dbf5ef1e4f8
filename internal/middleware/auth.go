package middleware

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"telecom-inventory/internal/audit"
	"telecom-inventory/internal/model"
	"telecom-inventory/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// SetTokenCookie sets the access_token as an HttpOnly cookie
func SetTokenCookie(c *gin.Context, accessToken string) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", accessToken, 3600*24, "/", "", secure, true)
}

// ClearTokenCookie removes the access_token cookie
func ClearTokenCookie(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
}

// CurrentActor builds the audit actor from the authenticated request
// context. Unauthenticated requests resolve to the system actor.
func CurrentActor(c *gin.Context) audit.Actor {
	id, okID := c.Get("userID")
	name, okName := c.Get("username")
	if !okID || !okName {
		return audit.SystemActor
	}
	userID, ok := id.(uint)
	if !ok {
		return audit.SystemActor
	}
	username, _ := name.(string)
	return audit.Actor{UserID: &userID, Username: username}
}

type permCacheEntry struct {
	names     []string
	expiresAt time.Time
}

// PermissionChecker validates JWTs and enforces per-permission access.
// Permissions are resolved per user through their active roles and cached
// with a TTL, so a role edit takes effect within cacheTTL at the latest
// (or immediately after InvalidateUser).
type PermissionChecker struct {
	db       *gorm.DB
	secret   []byte
	cacheTTL time.Duration
	cache    sync.Map // userID (uint) -> permCacheEntry
}

func NewPermissionChecker(db *gorm.DB, secret []byte, cacheTTL time.Duration) *PermissionChecker {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &PermissionChecker{db: db, secret: secret, cacheTTL: cacheTTL}
}

// extractToken tries the cookie first, then the Authorization header
func extractToken(c *gin.Context) (string, string) {
	tokenString, cookieErr := c.Cookie("access_token")
	if cookieErr == nil && tokenString != "" {
		return tokenString, ""
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "Authorization is missing"
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Invalid authorization format. Expected 'Bearer <token>'"
	}
	return parts[1], ""
}

func (p *PermissionChecker) authenticate(c *gin.Context) (uint, bool) {
	tokenString, errMsg := extractToken(c)
	if errMsg != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, errMsg))
		return 0, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
		return 0, false
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token subject"))
		return 0, false
	}
	username, _ := claims["username"].(string)

	c.Set("userID", uint(userID))
	c.Set("username", username)
	return uint(userID), true
}

// RequireAuth validates the JWT without any permission check
func (p *PermissionChecker) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := p.authenticate(c); !ok {
			return
		}
		c.Next()
	}
}

// RequirePermission validates the JWT and checks that the user holds every
// named permission through an active role
func (p *PermissionChecker) RequirePermission(requiredPerms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := p.authenticate(c)
		if !ok {
			return
		}

		userPerms, err := p.permissionsForUser(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to verify permissions"))
			return
		}

		permSet := make(map[string]bool, len(userPerms))
		for _, name := range userPerms {
			permSet[name] = true
		}
		for _, required := range requiredPerms {
			if !permSet[required] {
				c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: missing permission '"+required+"'"))
				return
			}
		}

		c.Next()
	}
}

// permissionsForUser returns cached or freshly resolved permission names
// for the account id
func (p *PermissionChecker) permissionsForUser(ctx context.Context, userID uint) ([]string, error) {
	if entry, ok := p.cache.Load(userID); ok {
		cached := entry.(permCacheEntry)
		if time.Now().Before(cached.expiresAt) {
			return cached.names, nil
		}
	}

	var names []string
	err := p.db.WithContext(ctx).Model(&model.Permission{}).
		Distinct("permissions.name").
		Joins("INNER JOIN role_permissions rp ON rp.permission_id = permissions.id").
		Joins("INNER JOIN roles r ON r.id = rp.role_id AND r.is_active = ?", true).
		Joins("INNER JOIN user_roles ur ON ur.role_id = r.id").
		Joins("INNER JOIN user_infos ui ON ui.id = ur.user_info_id").
		Where("ui.user_id = ?", userID).
		Pluck("permissions.name", &names).Error
	if err != nil {
		return nil, err
	}

	p.cache.Store(userID, permCacheEntry{
		names:     names,
		expiresAt: time.Now().Add(p.cacheTTL),
	})
	return names, nil
}

// InvalidateUser drops the cached permissions for one account
func (p *PermissionChecker) InvalidateUser(userID uint) {
	p.cache.Delete(userID)
}

// InvalidateAll drops every cached entry, e.g. after a role edit that may
// affect many users
func (p *PermissionChecker) InvalidateAll() {
	p.cache.Range(func(key, _ interface{}) bool {
		p.cache.Delete(key)
		return true
	})
}

// StartSweeper evicts expired entries periodically so idle accounts do not
// pin memory. Returns a stop func.
func (p *PermissionChecker) StartSweeper(interval time.Duration) func() {
	if interval <= 0 {
		interval = time.Minute
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				now := time.Now()
				p.cache.Range(func(key, value interface{}) bool {
					if entry, ok := value.(permCacheEntry); ok && now.After(entry.expiresAt) {
						p.cache.Delete(key)
					}
					return true
				})
			}
		}
	}()
	return func() { close(done) }
}
