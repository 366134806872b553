package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/database/settings"
	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/services"
)

type settingRequest struct {
	Value *string `json:"value" binding:"required"`
}

type SettingsController struct {
	svc *services.Services
}

func NewSettingsController(svc *services.Services) *SettingsController {
	return &SettingsController{svc: svc}
}

func (sc *SettingsController) repo() *settings.Repository {
	return sc.svc.Repos.Settings
}

// GET /api/settings/:key
func (sc *SettingsController) Get(c *gin.Context) {
	setting, err := sc.repo().GetSetting(c.Param("key"))
	if err != nil {
		respondLookupError(c, err, "setting")
		return
	}
	c.JSON(http.StatusOK, setting)
}

// Put stores a value. The elder id is generated once and cannot be written.
// PUT /api/settings/:key
func (sc *SettingsController) Put(c *gin.Context) {
	key := c.Param("key")
	if key == entities.SettingKeyElderID {
		respondBadRequest(c, key+" is read-only")
		return
	}
	var req settingRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := sc.repo().SetSetting(key, *req.Value); err != nil {
		respondInternalError(c, err, "set setting")
		return
	}
	sc.svc.Audit.LogSettings("setting_updated", "Updated "+key)
	c.JSON(http.StatusOK, entities.Setting{Key: key, Value: *req.Value})
}

// DELETE /api/settings/:key
func (sc *SettingsController) Delete(c *gin.Context) {
	key := c.Param("key")
	if key == entities.SettingKeyElderID {
		respondBadRequest(c, key+" is read-only")
		return
	}
	if err := sc.repo().DeleteSetting(key); err != nil {
		respondInternalError(c, err, "delete setting")
		return
	}
	sc.svc.Audit.LogSettings("setting_deleted", "Deleted "+key)
	respondSuccess(c, "setting deleted")
}
