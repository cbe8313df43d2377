package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/urbannest/urbannest/internal/middleware"
	"github.com/urbannest/urbannest/internal/resputil"
	"github.com/urbannest/urbannest/internal/util"
	"github.com/urbannest/urbannest/pkg/logutils"
	"github.com/urbannest/urbannest/pkg/projectctl"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewProjectMgr)
}

type ProjectMgr struct {
	name string
	ctl  *projectctl.Controller
}

func NewProjectMgr(conf *RegisterConfig) Manager {
	return &ProjectMgr{
		name: "project",
		ctl:  conf.ProjectCtl,
	}
}

func (mgr *ProjectMgr) GetName() string { return mgr.name }

func (mgr *ProjectMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ProjectMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("projects", mgr.List)
	g.GET("projects/:id", mgr.Get)

	builder := middleware.AuthBuilder()
	g.POST("projects", builder, mgr.Create)
	g.PUT("projects/:id", builder, mgr.Update)
	g.PUT("projects/:id/phases", builder, mgr.SavePhases)
}

func (mgr *ProjectMgr) RegisterAdmin(_ *gin.RouterGroup) {}

// projectID parses the :id path parameter.
func projectID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		resputil.BadRequestError(c, "invalid project id")
		return 0, false
	}
	return uint(id), true
}

// respondLifecycleError maps controller errors onto the response envelope.
func respondLifecycleError(c *gin.Context, err error) {
	var vErr *projectctl.ValidationError
	switch {
	case errors.As(err, &vErr):
		resputil.HTTPError(c, http.StatusBadRequest, vErr.Error(), resputil.ValidationFailed)
	case errors.Is(err, projectctl.ErrNotFound):
		resputil.HTTPError(c, http.StatusNotFound, "Project not found", resputil.NotFound)
	case errors.Is(err, projectctl.ErrForbidden):
		resputil.HTTPError(c, http.StatusForbidden, "Not the project owner", resputil.UserNotAllowed)
	default:
		logutils.Log.Error("project lifecycle: ", err)
		resputil.Error(c, err.Error(), resputil.NotSpecified)
	}
}

// List godoc
// @Summary List the caller's projects
// @Description Return the caller's projects, newest first
// @Tags Project
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[any] "Projects"
// @Failure 500 {object} resputil.Response[any] "other errors"
// @Router /v1/projects [get]
func (mgr *ProjectMgr) List(c *gin.Context) {
	token := util.GetToken(c)
	projects, err := mgr.ctl.ListProjects(c, token.UserID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	resputil.Success(c, projects)
}

type CreateProjectResp struct {
	ID uint `json:"id"`
}

// Create godoc
// @Summary Create a project
// @Description Validate the input, then insert the project, its floors and all seven phase checklists in one transaction
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body projectctl.ProjectInput true "Project"
// @Success 200 {object} resputil.Response[CreateProjectResp] "ID of the new project"
// @Failure 400 {object} resputil.Response[any] "Validation failure, nothing written"
// @Failure 500 {object} resputil.Response[any] "other errors"
// @Router /v1/projects [post]
func (mgr *ProjectMgr) Create(c *gin.Context) {
	var input projectctl.ProjectInput
	if err := c.ShouldBind(&input); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	token := util.GetToken(c)
	id, err := mgr.ctl.CreateProject(c, token.UserID, &input)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	resputil.Success(c, CreateProjectResp{ID: id})
}

// Get godoc
// @Summary Load a project
// @Description Return the project with floors, reconciled phase checklists, per-phase percentages and total cost
// @Tags Project
// @Produce json
// @Security Bearer
// @Param id path int true "Project ID"
// @Success 200 {object} resputil.Response[projectctl.ProjectView] "Reconciled project view"
// @Failure 403 {object} resputil.Response[any] "Owned by another user"
// @Failure 404 {object} resputil.Response[any] "No such project"
// @Router /v1/projects/{id} [get]
func (mgr *ProjectMgr) Get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	token := util.GetToken(c)
	view, err := mgr.ctl.LoadProject(c, token.UserID, id)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	resputil.Success(c, view)
}

// Update godoc
// @Summary Update a project
// @Description Rewrite project scalars and replace floors and phases in one transaction
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Project ID"
// @Param data body projectctl.ProjectInput true "Project"
// @Success 200 {object} resputil.Response[any] "Updated"
// @Failure 400 {object} resputil.Response[any] "Validation failure, nothing written"
// @Failure 403 {object} resputil.Response[any] "Owned by another user"
// @Failure 404 {object} resputil.Response[any] "No such project"
// @Router /v1/projects/{id} [put]
func (mgr *ProjectMgr) Update(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var input projectctl.ProjectInput
	if err := c.ShouldBind(&input); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	token := util.GetToken(c)
	if err := mgr.ctl.UpdateProject(c, token.UserID, id, &input); err != nil {
		respondLifecycleError(c, err)
		return
	}
	resputil.Success(c, "updated")
}

type SavePhasesReq struct {
	Phases []projectctl.PhaseInput `json:"phases" binding:"required"`
}

// SavePhases godoc
// @Summary Save phase checklists
// @Description Replace the project's phase checklists, leaving scalars and floors untouched
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Project ID"
// @Param data body SavePhasesReq true "Phases"
// @Success 200 {object} resputil.Response[any] "Saved"
// @Failure 400 {object} resputil.Response[any] "Validation failure, nothing written"
// @Failure 403 {object} resputil.Response[any] "Owned by another user"
// @Failure 404 {object} resputil.Response[any] "No such project"
// @Router /v1/projects/{id}/phases [put]
func (mgr *ProjectMgr) SavePhases(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req SavePhasesReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	token := util.GetToken(c)
	if err := mgr.ctl.SaveProjectPhases(c, token.UserID, id, req.Phases); err != nil {
		respondLifecycleError(c, err)
		return
	}
	resputil.Success(c, "saved")
}
