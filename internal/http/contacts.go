package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/database/contacts"
	"github.com/mrlokans/eldercare/internal/entities"
)

type ContactsController struct {
	repo *contacts.Repository
}

func NewContactsController(repo *contacts.Repository) *ContactsController {
	return &ContactsController{repo: repo}
}

func validateContact(name, phone string) string {
	if strings.TrimSpace(name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(phone) == "" {
		return "phone_number is required"
	}
	return ""
}

// List returns emergency contacts in display order.
// GET /api/contacts
func (cc *ContactsController) List(c *gin.Context) {
	all, err := cc.repo.GetAllContacts()
	if err != nil {
		respondInternalError(c, err, "list contacts")
		return
	}
	c.JSON(http.StatusOK, all)
}

// Primary returns the primary contact, 404 when none is set.
// GET /api/contacts/primary
func (cc *ContactsController) Primary(c *gin.Context) {
	contact, err := cc.repo.GetPrimaryContact()
	if err != nil {
		respondInternalError(c, err, "get primary contact")
		return
	}
	if contact == nil {
		respondNotFound(c, "primary contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// GET /api/contacts/:id
func (cc *ContactsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contact, err := cc.repo.GetContactByID(id)
	if err != nil {
		respondLookupError(c, err, "contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// Create adds an emergency contact. A contact created as primary takes the
// flag from every other contact.
// POST /api/contacts
func (cc *ContactsController) Create(c *gin.Context) {
	var contact entities.EmergencyContact
	if !bindJSON(c, &contact) {
		return
	}
	if msg := validateContact(contact.Name, contact.PhoneNumber); msg != "" {
		respondBadRequest(c, msg)
		return
	}
	contact.ID = 0
	primary := contact.IsPrimary
	contact.IsPrimary = false

	id, err := cc.repo.Insert(&contact)
	if err != nil {
		respondInternalError(c, err, "create contact")
		return
	}
	if primary {
		if err := cc.repo.SetPrimaryContact(id); err != nil {
			respondInternalError(c, err, "set primary contact")
			return
		}
		contact.IsPrimary = true
	}
	respondCreated(c, contact)
}

// Update merges the request body into the stored contact. The primary flag
// is changed only through SetPrimary.
// PUT /api/contacts/:id
func (cc *ContactsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contact, err := cc.repo.GetContactByID(id)
	if err != nil {
		respondLookupError(c, err, "contact")
		return
	}
	primary := contact.IsPrimary
	if !bindJSON(c, contact) {
		return
	}
	contact.ID = id
	contact.IsPrimary = primary
	if msg := validateContact(contact.Name, contact.PhoneNumber); msg != "" {
		respondBadRequest(c, msg)
		return
	}
	if err := cc.repo.Update(contact); err != nil {
		respondInternalError(c, err, "update contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// DELETE /api/contacts/:id
func (cc *ContactsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := cc.repo.DeleteByID(id); err != nil {
		respondInternalError(c, err, "delete contact")
		return
	}
	respondSuccess(c, "contact deleted")
}

// SetPrimary makes the contact the only primary one.
// POST /api/contacts/:id/primary
func (cc *ContactsController) SetPrimary(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := cc.repo.GetContactByID(id); err != nil {
		respondLookupError(c, err, "contact")
		return
	}
	if err := cc.repo.SetPrimaryContact(id); err != nil {
		respondInternalError(c, err, "set primary contact")
		return
	}
	respondSuccess(c, "primary contact updated")
}

// ClearPrimary leaves every contact non-primary.
// DELETE /api/contacts/primary
func (cc *ContactsController) ClearPrimary(c *gin.Context) {
	if err := cc.repo.ClearAllPrimary(); err != nil {
		respondInternalError(c, err, "clear primary contact")
		return
	}
	respondSuccess(c, "primary contact cleared")
}

// GET /api/watch/contacts
func (cc *ContactsController) Watch(c *gin.Context) {
	streamResults(c, "contacts", cc.repo.WatchAllContacts(c.Request.Context()))
}

// --- Speed dial ---

// GET /api/speed-dial
func (cc *ContactsController) ListSpeedDial(c *gin.Context) {
	all, err := cc.repo.GetAllSpeedDialContacts()
	if err != nil {
		respondInternalError(c, err, "list speed dial")
		return
	}
	c.JSON(http.StatusOK, all)
}

// PutSpeedDial stores the contact in the slot, replacing the previous one.
// PUT /api/speed-dial/:position
func (cc *ContactsController) PutSpeedDial(c *gin.Context) {
	position, ok := parsePosition(c)
	if !ok {
		return
	}
	var contact entities.SpeedDialContact
	if !bindJSON(c, &contact) {
		return
	}
	if msg := validateContact(contact.Name, contact.PhoneNumber); msg != "" {
		respondBadRequest(c, msg)
		return
	}

	existing, err := cc.repo.GetContactAtPosition(position)
	if err != nil {
		respondInternalError(c, err, "get speed dial slot")
		return
	}
	contact.ID = 0
	if existing != nil {
		contact.ID = existing.ID
	}
	contact.Position = position
	if _, err := cc.repo.InsertSpeedDial(&contact); err != nil {
		respondInternalError(c, err, "store speed dial contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// DELETE /api/speed-dial/:position
func (cc *ContactsController) DeleteSpeedDial(c *gin.Context) {
	position, ok := parsePosition(c)
	if !ok {
		return
	}
	if err := cc.repo.DeleteAtPosition(position); err != nil {
		respondInternalError(c, err, "delete speed dial contact")
		return
	}
	respondSuccess(c, "speed dial slot cleared")
}

// GET /api/watch/speed-dial
func (cc *ContactsController) WatchSpeedDial(c *gin.Context) {
	streamResults(c, "speed_dial", cc.repo.WatchAllSpeedDialContacts(c.Request.Context()))
}

func parsePosition(c *gin.Context) (int, bool) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil {
		respondBadRequest(c, "invalid position")
		return 0, false
	}
	if err := contacts.ValidatePosition(position); err != nil {
		respondBadRequest(c, err.Error())
		return 0, false
	}
	return position, true
}
