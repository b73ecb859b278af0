package booking

import (
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Actor é quem executa a operação (vem do token).
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsCustomer() bool {
	return a.Role == models.RoleCustomer
}

func (a Actor) IsStaff() bool {
	return models.IsStaffRole(a.Role)
}

// CanView: cliente só enxerga os próprios agendamentos.
func (a Actor) CanView(b *models.Booking) bool {
	if a.IsStaff() {
		return true
	}
	return a.IsCustomer() && b.CustomerID == a.ID
}

// AuthorizeTransition não substitui a máquina de estados, só restringe
// quem pode pedir cada mudança.
func (a Actor) AuthorizeTransition(b *models.Booking, to Status) error {
	if a.IsStaff() {
		return nil
	}
	if !a.CanView(b) {
		return httperr.NewNotFound("booking_not_found", "booking not found")
	}
	if to != StatusCancelled {
		return httperr.NewForbidden("forbidden_transition", "customers can only cancel their bookings")
	}
	return nil
}

func (a Actor) AuthorizeEdit(b *models.Booking) error {
	if a.IsStaff() || a.CanView(b) {
		return nil
	}
	return httperr.NewNotFound("booking_not_found", "booking not found")
}
