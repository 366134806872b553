// Package guardian implements the message protocol spoken with paired
// guardians: queries about the elder's state, pairing events and remote
// commands that edit medications, contacts and notes.
package guardian

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/eldercare/internal/audit"
	"github.com/mrlokans/eldercare/internal/database/alerts"
	"github.com/mrlokans/eldercare/internal/database/checkins"
	"github.com/mrlokans/eldercare/internal/database/contacts"
	"github.com/mrlokans/eldercare/internal/database/guardians"
	"github.com/mrlokans/eldercare/internal/database/medications"
	"github.com/mrlokans/eldercare/internal/database/notes"
	"github.com/mrlokans/eldercare/internal/database/settings"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrInvalidPayload     = errors.New("invalid payload")
)

const (
	recentStateAlerts   = 5
	medicationLogDays   = 7
	unknownBatteryLevel = -1
)

// Repositories are the stores the dispatcher reads and writes.
type Repositories struct {
	Alerts      *alerts.Repository
	CheckIns    *checkins.Repository
	Contacts    *contacts.Repository
	Guardians   *guardians.Repository
	Medications *medications.Repository
	Notes       *notes.Repository
	Settings    *settings.Repository
}

// Dispatcher answers guardian messages.
type Dispatcher struct {
	repos    Repositories
	audit    *audit.Service
	identity *Identity
	hub      *Hub
	loc      *time.Location
	now      func() time.Time
}

type Option func(*Dispatcher)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithLocation sets the zone that calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(d *Dispatcher) { d.loc = loc }
}

func NewDispatcher(repos Repositories, auditService *audit.Service, identity *Identity, hub *Hub, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		repos:    repos,
		audit:    auditService,
		identity: identity,
		hub:      hub,
		loc:      time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle routes msg to its handler and returns the reply addressed to the
// sender. Unknown types and malformed pairing payloads get an ERROR reply
// together with ErrUnknownMessageType or ErrInvalidPayload. Any other error
// means the reply could not be built.
func (d *Dispatcher) Handle(msg Message) (Message, error) {
	switch msg.Type {
	case TypeGetState:
		return d.handleGetState(msg)
	case TypeGetMedications:
		return d.handleGetMedications(msg)
	case TypeGetAlertHistory:
		return d.handleGetAlertHistory(msg)
	case TypeGetHealthHistory:
		return d.handleGetHealthHistory(msg)
	case TypeGuardianPaired:
		return d.handleGuardianPaired(msg)
	case TypeGuardianUnpaired:
		return d.handleGuardianUnpaired(msg)
	case TypeAddMedication:
		return d.runCommand(msg, "medication", d.addMedication)
	case TypeUpdateMedication:
		return d.runCommand(msg, "medication", d.updateMedication)
	case TypeDeleteMedication:
		return d.runCommand(msg, "medication", d.deleteMedication)
	case TypeSendReminder:
		return d.runCommand(msg, "note", d.sendReminder)
	case TypeSendMessage:
		return d.runCommand(msg, "note", d.sendMessage)
	case TypeUpdateEmergencyContact:
		return d.runCommand(msg, "emergency_contact", d.updateEmergencyContact)
	case TypeDeleteEmergencyContact:
		return d.runCommand(msg, "emergency_contact", d.deleteEmergencyContact)
	}

	log.Printf("Guardian: unknown message type %q from %s", msg.Type, msg.From)
	reply, err := d.errorReply(msg, CodeUnknownType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	if err != nil {
		return Message{}, err
	}
	return reply, fmt.Errorf("%w: %s", ErrUnknownMessageType, msg.Type)
}

func (d *Dispatcher) reply(to Message, msgType string, payload any) (Message, error) {
	elderID, err := d.identity.ElderID()
	if err != nil {
		return Message{}, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s payload: %w", msgType, err)
	}
	return Message{
		Type:      msgType,
		From:      elderID,
		To:        to.From,
		RequestID: to.RequestID,
		Payload:   raw,
		Timestamp: Timestamp(d.now()),
	}, nil
}

func (d *Dispatcher) errorReply(to Message, code, message string) (Message, error) {
	return d.reply(to, TypeError, ErrorPayload{Code: code, Message: message})
}

func (d *Dispatcher) invalidPayload(msg Message, reason string) (Message, error) {
	reply, err := d.errorReply(msg, CodeInvalidPayload, reason)
	if err != nil {
		return Message{}, err
	}
	return reply, fmt.Errorf("%w: %s: %s", ErrInvalidPayload, msg.Type, reason)
}

// guardianIDs lists every paired guardian.
func (d *Dispatcher) guardianIDs() ([]string, error) {
	paired, err := d.repos.Guardians.GetAllGuardians()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(paired))
	for _, g := range paired {
		ids = append(ids, g.GuardianID)
	}
	return ids, nil
}
