package guardian

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/eldercare/internal/entities"
)

func (d *Dispatcher) handleGuardianPaired(msg Message) (Message, error) {
	var payload GuardianPairedPayload
	if err := msg.Decode(&payload); err != nil {
		return d.invalidPayload(msg, err.Error())
	}
	guardianID := strings.TrimSpace(payload.GuardianID)
	if guardianID == "" {
		return d.invalidPayload(msg, "guardianId is required")
	}

	guardian := entities.PairedGuardian{
		GuardianID:   guardianID,
		GuardianName: strings.TrimSpace(payload.GuardianName),
		PairedAt:     d.now(),
	}
	if err := d.repos.Guardians.Insert(&guardian); err != nil {
		return Message{}, fmt.Errorf("failed to pair guardian %s: %w", guardianID, err)
	}
	if d.audit != nil {
		d.audit.LogPairing(guardian.GuardianID, guardian.GuardianName, true)
	}

	return d.reply(msg, TypeCommandSuccess, CommandSuccessPayload{
		Message: "Guardian paired successfully",
		Data:    map[string]string{"guardianId": guardianID},
	})
}

func (d *Dispatcher) handleGuardianUnpaired(msg Message) (Message, error) {
	var payload GuardianUnpairedPayload
	if err := msg.Decode(&payload); err != nil {
		return d.invalidPayload(msg, err.Error())
	}
	guardianID := strings.TrimSpace(payload.GuardianID)
	if guardianID == "" {
		return d.invalidPayload(msg, "guardianId is required")
	}

	name := ""
	existing, err := d.repos.Guardians.GetGuardianByID(guardianID)
	switch {
	case err == nil:
		name = existing.GuardianName
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return Message{}, fmt.Errorf("failed to look up guardian %s: %w", guardianID, err)
	}

	if err := d.repos.Guardians.DeleteByID(guardianID); err != nil {
		return Message{}, fmt.Errorf("failed to unpair guardian %s: %w", guardianID, err)
	}
	if d.audit != nil {
		d.audit.LogPairing(guardianID, name, false)
	}

	return d.reply(msg, TypeCommandSuccess, CommandSuccessPayload{Message: "Guardian unpaired successfully"})
}
