package guardian

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/eldercare/internal/entities"
)

// commandError is a failure reported back to the guardian verbatim.
type commandError string

func (e commandError) Error() string { return string(e) }

func failed(what string, err error) error {
	return commandError(fmt.Sprintf("Failed to %s: %v", what, err))
}

type commandResult struct {
	message  string
	data     map[string]string
	entityID *int64
}

// runCommand executes a state-changing command, audits it and converts the
// outcome into COMMAND_SUCCESS or COMMAND_ERROR.
func (d *Dispatcher) runCommand(msg Message, entityType string, fn func(Message) (commandResult, error)) (Message, error) {
	res, err := fn(msg)

	description := res.message
	if err != nil {
		description = err.Error()
	}
	if d.audit != nil {
		d.audit.LogGuardianCommand(msg.From, msg.Type, description, entityType, res.entityID, err)
	}

	if err != nil {
		log.Printf("Guardian: %s from %s failed: %v", msg.Type, msg.From, err)
		return d.reply(msg, TypeCommandError, CommandErrorPayload{Error: err.Error()})
	}
	return d.reply(msg, TypeCommandSuccess, CommandSuccessPayload{Message: res.message, Data: res.data})
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return id, err == nil
}

func (d *Dispatcher) addMedication(msg Message) (commandResult, error) {
	var payload AddMedicationPayload
	if err := msg.Decode(&payload); err != nil {
		return commandResult{}, failed("add medication", err)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return commandResult{}, commandError("Medication name cannot be empty")
	}
	if len(payload.Schedules) == 0 {
		return commandResult{}, commandError("At least one schedule is required")
	}

	med := entities.NewMedication(strings.TrimSpace(payload.Name), strings.TrimSpace(payload.Dosage), entities.FrequencyDaily)
	med.Notes = strings.TrimSpace(payload.Instructions)
	schedules := schedulesFromPayload(payload.Schedules)

	id, err := d.repos.Medications.AddMedicationWithSchedules(&med, schedules)
	if err != nil {
		return commandResult{}, failed("add medication", err)
	}

	d.notifyMedication("added", med, schedules)
	return commandResult{
		message:  "Medication added successfully",
		data:     map[string]string{"medicationId": strconv.FormatInt(id, 10)},
		entityID: &id,
	}, nil
}

func (d *Dispatcher) updateMedication(msg Message) (commandResult, error) {
	var payload UpdateMedicationPayload
	if err := msg.Decode(&payload); err != nil {
		return commandResult{}, failed("update medication", err)
	}
	id, ok := parseID(payload.MedicationID)
	if !ok {
		return commandResult{}, commandError("Invalid medication ID")
	}

	med, err := d.repos.Medications.GetMedicationByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return commandResult{entityID: &id}, commandError("Medication not found")
	}
	if err != nil {
		return commandResult{entityID: &id}, failed("update medication", err)
	}

	if payload.Name != nil {
		med.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Dosage != nil {
		med.Dosage = strings.TrimSpace(*payload.Dosage)
	}
	if payload.Instructions != nil {
		med.Notes = strings.TrimSpace(*payload.Instructions)
	}
	med.UpdatedAt = d.now()
	var schedules *[]entities.MedicationSchedule
	if payload.Schedules != nil {
		replaced := schedulesFromPayload(*payload.Schedules)
		schedules = &replaced
	}
	if err := d.repos.Medications.UpdateMedicationWithSchedules(med, schedules); err != nil {
		return commandResult{entityID: &id}, failed("update medication", err)
	}

	updatedSchedules, err := d.repos.Medications.GetSchedulesForMedication(id)
	if err != nil {
		log.Printf("Guardian: failed to load schedules of medication %d: %v", id, err)
	}
	d.notifyMedication("updated", *med, updatedSchedules)

	return commandResult{message: "Medication updated successfully", entityID: &id}, nil
}

func (d *Dispatcher) deleteMedication(msg Message) (commandResult, error) {
	var payload DeleteMedicationPayload
	if err := msg.Decode(&payload); err != nil {
		return commandResult{}, failed("delete medication", err)
	}
	id, ok := parseID(payload.MedicationID)
	if !ok {
		return commandResult{}, commandError("Invalid medication ID")
	}

	// Deleting an unknown id succeeds; guardians are only told about real rows.
	med, err := d.repos.Medications.GetMedicationByID(id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return commandResult{entityID: &id}, failed("delete medication", err)
	}
	if err := d.repos.Medications.DeleteByID(id); err != nil {
		return commandResult{entityID: &id}, failed("delete medication", err)
	}
	if med != nil {
		d.notifyMedication("deleted", *med, nil)
	}

	return commandResult{message: "Medication deleted successfully", entityID: &id}, nil
}

func (d *Dispatcher) sendReminder(msg Message) (commandResult, error) {
	var payload SendReminderPayload
	if err := msg.Decode(&payload); err != nil {
		return commandResult{}, failed("send reminder", err)
	}
	if strings.TrimSpace(payload.Title) == "" || strings.TrimSpace(payload.Message) == "" {
		return commandResult{}, commandError("Title and message cannot be empty")
	}

	title := strings.TrimSpace(payload.Title)
	switch payload.Priority {
	case "urgent", "high":
		title = "[" + strings.ToUpper(payload.Priority) + "] " + title
	}
	note := entities.Note{Title: title, Content: strings.TrimSpace(payload.Message)}
	id, err := d.repos.Notes.Insert(&note)
	if err != nil {
		return commandResult{}, failed("send reminder", err)
	}

	return commandResult{
		message:  "Reminder sent successfully",
		data:     map[string]string{"noteId": strconv.FormatInt(id, 10)},
		entityID: &id,
	}, nil
}

func (d *Dispatcher) sendMessage(msg Message) (commandResult, error) {
	var payload SendMessagePayload
	if err := msg.Decode(&payload); err != nil {
		return commandResult{}, failed("send message", err)
	}
	if strings.TrimSpace(payload.Message) == "" {
		return commandResult{}, commandError("Message cannot be empty")
	}

	note := entities.Note{
		Title:   "Message from " + strings.TrimSpace(payload.GuardianName),
		Content: strings.TrimSpace(payload.Message),
	}
	id, err := d.repos.Notes.Insert(&note)
	if err != nil {
		return commandResult{}, failed("send message", err)
	}

	return commandResult{
		message:  "Message sent successfully",
		data:     map[string]string{"noteId": strconv.FormatInt(id, 10)},
		entityID: &id,
	}, nil
}

func (d *Dispatcher) updateEmergencyContact(msg Message) (commandResult, error) {
	var payload UpdateEmergencyContactPayload
	if err := msg.Decode(&payload); err != nil {
		return commandResult{}, failed("update emergency contact", err)
	}
	name := strings.TrimSpace(payload.Name)
	phone := strings.TrimSpace(payload.PhoneNumber)
	relationship := strings.TrimSpace(payload.Relationship)
	if name == "" {
		return commandResult{}, commandError("Contact name cannot be empty")
	}
	if phone == "" {
		return commandResult{}, commandError("Phone number cannot be empty")
	}

	if payload.ContactID == nil || strings.TrimSpace(*payload.ContactID) == "" {
		contact := entities.EmergencyContact{Name: name, PhoneNumber: phone, Relationship: relationship}
		id, err := d.repos.Contacts.Insert(&contact)
		if err != nil {
			return commandResult{}, failed("update emergency contact", err)
		}
		return commandResult{
			message:  "Emergency contact added successfully",
			data:     map[string]string{"contactId": strconv.FormatInt(id, 10)},
			entityID: &id,
		}, nil
	}

	id, ok := parseID(*payload.ContactID)
	if !ok {
		return commandResult{}, commandError("Invalid contact ID")
	}
	existing, err := d.repos.Contacts.GetContactByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return commandResult{entityID: &id}, commandError("Contact not found")
	}
	if err != nil {
		return commandResult{entityID: &id}, failed("update emergency contact", err)
	}

	existing.Name = name
	existing.PhoneNumber = phone
	existing.Relationship = relationship
	if err := d.repos.Contacts.Update(existing); err != nil {
		return commandResult{entityID: &id}, failed("update emergency contact", err)
	}

	return commandResult{
		message:  "Emergency contact updated successfully",
		data:     map[string]string{"contactId": strconv.FormatInt(id, 10)},
		entityID: &id,
	}, nil
}

func (d *Dispatcher) deleteEmergencyContact(msg Message) (commandResult, error) {
	var payload DeleteEmergencyContactPayload
	if err := msg.Decode(&payload); err != nil {
		return commandResult{}, failed("delete emergency contact", err)
	}
	id, ok := parseID(payload.ContactID)
	if !ok {
		return commandResult{}, commandError("Invalid contact ID")
	}

	contact, err := d.repos.Contacts.GetContactByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return commandResult{entityID: &id}, commandError("Contact not found")
	}
	if err != nil {
		return commandResult{entityID: &id}, failed("delete emergency contact", err)
	}
	if err := d.repos.Contacts.Delete(contact); err != nil {
		return commandResult{entityID: &id}, failed("delete emergency contact", err)
	}

	return commandResult{message: "Emergency contact deleted successfully", entityID: &id}, nil
}

// notifyMedication tells every paired guardian about a medication change.
func (d *Dispatcher) notifyMedication(action string, med entities.Medication, schedules []entities.MedicationSchedule) {
	elderID, err := d.identity.ElderID()
	if err != nil {
		log.Printf("Guardian: cannot announce medication %d: %v", med.ID, err)
		return
	}
	ids, err := d.guardianIDs()
	if err != nil {
		log.Printf("Guardian: cannot list guardians: %v", err)
		return
	}

	payload := MedicationUpdatedPayload{
		ElderID:    elderID,
		Action:     action,
		Medication: newMedicationInfo(med),
		Schedules:  newScheduleInfos(schedules),
	}
	if err := d.hub.Broadcast(elderID, TypeMedicationUpdated, payload, ids); err != nil {
		log.Printf("Guardian: failed to announce medication %d: %v", med.ID, err)
	}
}
