package handler

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/urbannest/urbannest/internal/middleware"
	"github.com/urbannest/urbannest/internal/resputil"
	"github.com/urbannest/urbannest/internal/util"
	"github.com/urbannest/urbannest/pkg/logutils"
	"github.com/urbannest/urbannest/pkg/objectstore"
	"github.com/urbannest/urbannest/pkg/projectctl"
	"github.com/urbannest/urbannest/pkg/taxonomy"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAttachmentMgr)
}

type AttachmentMgr struct {
	name  string
	ctl   *projectctl.Controller
	store *objectstore.Client
}

func NewAttachmentMgr(conf *RegisterConfig) Manager {
	return &AttachmentMgr{
		name:  "attachment",
		ctl:   conf.ProjectCtl,
		store: conf.Store,
	}
}

func (mgr *AttachmentMgr) GetName() string { return mgr.name }

func (mgr *AttachmentMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *AttachmentMgr) RegisterProtected(g *gin.RouterGroup) {
	builder := middleware.AuthBuilder()
	g.POST("projects/:id/phases/:phase/items/attachment", builder, mgr.Upload)
	g.DELETE("projects/:id/phases/:phase/items/attachment", builder, mgr.Delete)
}

func (mgr *AttachmentMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type UploadAttachmentResp struct {
	URL string `json:"url"`
}

// Upload godoc
// @Summary Attach a PDF to a checklist item
// @Description Store a PDF (max 10 MiB) and persist its public URL on the named item; a previously attached object is removed
// @Tags Attachment
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path int true "Project ID"
// @Param phase path string true "Phase key"
// @Param item formData string true "Item name"
// @Param file formData file true "PDF file"
// @Success 200 {object} resputil.Response[UploadAttachmentResp] "Public URL of the stored file"
// @Failure 400 {object} resputil.Response[any] "Not a PDF, too large, or unknown item"
// @Failure 403 {object} resputil.Response[any] "Owned by another user"
// @Failure 404 {object} resputil.Response[any] "No such project"
// @Router /v1/projects/{id}/phases/{phase}/items/attachment [post]
func (mgr *AttachmentMgr) Upload(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	phase := taxonomy.PhaseKey(c.Param("phase"))
	itemName := c.PostForm("item")
	if itemName == "" {
		resputil.BadRequestError(c, "item is required")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	// Both checks run before the store is contacted.
	if file.Size > objectstore.MaxAttachmentSize {
		resputil.BadRequestError(c, "attachment exceeds 10 MiB")
		return
	}
	if file.Header.Get("Content-Type") != objectstore.AttachmentContentType {
		resputil.BadRequestError(c, "only PDF attachments are accepted")
		return
	}

	src, err := file.Open()
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	path := uploadPath(id, phase)
	url, err := mgr.store.Upload(c, path, data, objectstore.AttachmentContentType)
	if err != nil {
		logutils.Log.Error("attachment upload: ", err)
		resputil.Error(c, "Could not store the attachment", resputil.StorageFailed)
		return
	}

	previous, err := mgr.ctl.SetItemAttachment(c, util.GetToken(c).UserID, id, phase, itemName, &url)
	if err != nil {
		// The item update failed after the object was stored; drop the
		// object again so it cannot leak.
		if rmErr := mgr.store.Remove(c, []string{path}); rmErr != nil {
			logutils.Log.Error("rollback attachment object: ", rmErr)
		}
		respondLifecycleError(c, err)
		return
	}
	mgr.removeByURL(c, previous)

	resputil.Success(c, UploadAttachmentResp{URL: url})
}

// Delete godoc
// @Summary Remove an item's attachment
// @Description Clear the attachment URL of the named item and delete the backing object
// @Tags Attachment
// @Produce json
// @Security Bearer
// @Param id path int true "Project ID"
// @Param phase path string true "Phase key"
// @Param item query string true "Item name"
// @Success 200 {object} resputil.Response[any] "Removed"
// @Failure 403 {object} resputil.Response[any] "Owned by another user"
// @Failure 404 {object} resputil.Response[any] "No such project"
// @Router /v1/projects/{id}/phases/{phase}/items/attachment [delete]
func (mgr *AttachmentMgr) Delete(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	phase := taxonomy.PhaseKey(c.Param("phase"))
	itemName := c.Query("item")
	if itemName == "" {
		resputil.BadRequestError(c, "item is required")
		return
	}

	previous, err := mgr.ctl.SetItemAttachment(c, util.GetToken(c).UserID, id, phase, itemName, nil)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	mgr.removeByURL(c, previous)

	resputil.Success(c, "removed")
}

// removeByURL best-effort deletes the object behind an attachment URL. A
// failure is logged and left for the periodic sweep.
func (mgr *AttachmentMgr) removeByURL(c *gin.Context, url *string) {
	if url == nil || *url == "" {
		return
	}
	path, ok := mgr.store.PathFromURL(*url)
	if !ok {
		return
	}
	if err := mgr.store.Remove(c, []string{path}); err != nil {
		logutils.Log.Error("remove replaced attachment: ", err)
	}
}

// uploadPath builds a unique object key under the owning project so the
// sweep can list per project.
func uploadPath(projectID uint, phase taxonomy.PhaseKey) string {
	return fmt.Sprintf("projects/%d/%s/%s.pdf", projectID, phase, uuid.New())
}
