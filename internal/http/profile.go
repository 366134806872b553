package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/database/profile"
	"github.com/mrlokans/eldercare/internal/entities"
)

type ProfileController struct {
	repo *profile.Repository
}

func NewProfileController(repo *profile.Repository) *ProfileController {
	return &ProfileController{repo: repo}
}

// Get returns the medical profile, or an empty one when none was saved.
// GET /api/profile
func (pc *ProfileController) Get(c *gin.Context) {
	p, err := pc.repo.GetProfile()
	if err != nil {
		respondInternalError(c, err, "get profile")
		return
	}
	if p == nil {
		p = &entities.MedicalProfile{ID: entities.ProfileID}
	}
	c.JSON(http.StatusOK, p)
}

// Save replaces the medical profile.
// PUT /api/profile
func (pc *ProfileController) Save(c *gin.Context) {
	var p entities.MedicalProfile
	if !bindJSON(c, &p) {
		return
	}
	if err := pc.repo.SaveProfile(&p); err != nil {
		respondInternalError(c, err, "save profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/watch/profile
func (pc *ProfileController) Watch(c *gin.Context) {
	streamResults(c, "profile", pc.repo.WatchProfile(c.Request.Context()))
}
