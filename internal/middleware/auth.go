package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hirehub-dev/hirehub/internal/auth"
	"github.com/hirehub-dev/hirehub/internal/store"
	"github.com/hirehub-dev/hirehub/internal/types"
	"github.com/patrickmn/go-cache"
)

// Token lookups hit on every authenticated request, so resolved identities
// are cached briefly. Users are never updated or deleted here, which makes
// the cached view safe to serve.
var userCache = cache.New(5*time.Minute, 10*time.Minute)

func AuthMiddleware(st store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		tokenString := parts[1]

		token, err := auth.VerifyJWT(tokenString)

		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token claims"})
			return
		}

		userID := uint(userIDFloat)

		view, err := lookupUser(st, userID)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, view)
		ctx.Next()
	}
}

// RequireRole is the single authorization predicate for role-gated
// operations. It must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		user, ok := value.(types.UserView)

		if !ok || user.Role != role {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		ctx.Next()
	}
}

// FlushUserCache drops every cached identity. Needed when the backing
// store is swapped out, as the tests do.
func FlushUserCache() {
	userCache.Flush()
}

func lookupUser(st store.Store, userID uint) (types.UserView, error) {
	key := fmt.Sprintf("user:%d", userID)

	if cached, found := userCache.Get(key); found {
		return cached.(types.UserView), nil
	}

	user, err := st.FindUser(store.UserFilter{ID: &userID})
	if err != nil {
		return types.UserView{}, err
	}

	view := types.UserView{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}
	userCache.Set(key, view, cache.DefaultExpiration)

	return view, nil
}
