package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/urbannest/urbannest/pkg/mailer"
	"github.com/urbannest/urbannest/pkg/objectstore"
	"github.com/urbannest/urbannest/pkg/projectctl"
	"github.com/urbannest/urbannest/pkg/sms"
)

type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	RegisterProtected(group *gin.RouterGroup)
	RegisterAdmin(group *gin.RouterGroup)
}

// RegisterConfig carries the shared clients handed to every manager at
// registration time.
type RegisterConfig struct {
	DB         *gorm.DB
	Store      *objectstore.Client
	Mailer     mailer.Interface
	SMS        sms.Interface
	ProjectCtl *projectctl.Controller
}

type ManagerRegisterFunc func(conf *RegisterConfig) Manager

// Registers is appended to by each manager's init; route assembly walks it.
var Registers []ManagerRegisterFunc
