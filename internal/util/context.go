package util

import (
	"github.com/gin-gonic/gin"

	"github.com/urbannest/urbannest/dao/model"
)

const (
	UserIDKey   = "x-user-id"
	UserNameKey = "x-user-name"
	EmailKey    = "x-user-email"
	RoleKey     = "x-user-role"
)

func SetJWTContext(c *gin.Context, msg JWTMessage) {
	c.Set(UserIDKey, msg.UserID)
	c.Set(UserNameKey, msg.Name)
	c.Set(EmailKey, msg.Email)
	c.Set(RoleKey, msg.Role)
}

func GetToken(ctx *gin.Context) JWTMessage {
	var msg JWTMessage
	msg.UserID = ctx.GetUint(UserIDKey)
	msg.Name = ctx.GetString(UserNameKey)
	msg.Email = ctx.GetString(EmailKey)

	role, _ := ctx.Get(RoleKey)
	msg.Role, _ = role.(model.Role)
	return msg
}
