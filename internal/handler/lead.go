package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/urbannest/urbannest/dao/model"
	"github.com/urbannest/urbannest/internal/middleware"
	"github.com/urbannest/urbannest/internal/payload"
	"github.com/urbannest/urbannest/internal/resputil"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewLeadMgr)
}

type LeadMgr struct {
	name string
	db   *gorm.DB
}

func NewLeadMgr(conf *RegisterConfig) Manager {
	return &LeadMgr{
		name: "lead",
		db:   conf.DB,
	}
}

func (mgr *LeadMgr) GetName() string { return mgr.name }

func (mgr *LeadMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *LeadMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("leads", middleware.AuthBuilder(), mgr.List)
}

func (mgr *LeadMgr) RegisterAdmin(_ *gin.RouterGroup) {}

// List godoc
// @Summary List sales leads
// @Description Return leads recorded at customer signup, newest first, paginated
// @Tags Lead
// @Produce json
// @Security Bearer
// @Param page_index query int true "Page index, starting at 1"
// @Param page_size query int true "Page size"
// @Success 200 {object} resputil.Response[payload.ListResp[model.Lead]] "One page of leads"
// @Failure 400 {object} resputil.Response[any] "Request parameter error"
// @Failure 500 {object} resputil.Response[any] "other errors"
// @Router /v1/leads [get]
func (mgr *LeadMgr) List(c *gin.Context) {
	var q payload.ListReqQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	var count int64
	if err := mgr.db.WithContext(c).Model(&model.Lead{}).Count(&count).Error; err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	var rows []model.Lead
	err := mgr.db.WithContext(c).
		Order("created_at DESC").
		Offset((*q.PageIndex - 1) * *q.PageSize).
		Limit(*q.PageSize).
		Find(&rows).Error
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	resputil.Success(c, payload.ListResp[model.Lead]{Rows: rows, Count: count})
}
