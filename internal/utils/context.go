package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/hirehub-dev/hirehub/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (types.UserView, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return types.UserView{}, fmt.Errorf("User not authenticated")
	}

	view, ok := user.(types.UserView)

	if !ok {
		return types.UserView{}, fmt.Errorf("Invalid user type in context")
	}

	return view, nil
}
