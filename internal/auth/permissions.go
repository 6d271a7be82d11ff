package auth

import "github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"

// Permission names one guarded capability. Handlers declare the permission
// they need; a PermissionTable maps roles to permission sets.
type Permission string

const (
	PermReservationsRead  Permission = "reservations.read"
	PermReservationsWrite Permission = "reservations.write"
	PermRoomsRead         Permission = "rooms.read"
	PermRoomsWrite        Permission = "rooms.write"
	PermRoomsStatus       Permission = "rooms.status"
	PermRoomsCleaned      Permission = "rooms.cleaned"
	PermPeriodsRead       Permission = "periods.read"
	PermPeriodsWrite      Permission = "periods.write"
	PermGuestsRead        Permission = "guests.read"
	PermGuestsWrite       Permission = "guests.write"
	PermStaffManage       Permission = "staff.manage"
	PermProductsRead      Permission = "products.read"
	PermProductsWrite     Permission = "products.write"
	PermOrdersRead        Permission = "orders.read"
	PermOrdersWrite       Permission = "orders.write"
	PermDashboardRead     Permission = "dashboard.read"
	PermUploadsWrite      Permission = "uploads.write"
)

// PermissionTable maps roles to the permissions they carry. It is built at
// startup and passed to the middleware, so a deployment can swap role
// definitions without touching handlers.
type PermissionTable struct {
	roles map[domain.StaffRole]map[Permission]bool
}

// DefaultPermissions returns the standard role table: admins manage staff,
// managers run inventory and pricing, reception runs the desk, housekeeping
// sees rooms and flips them to clean.
func DefaultPermissions() PermissionTable {
	reception := []Permission{
		PermReservationsRead, PermReservationsWrite,
		PermRoomsRead, PermRoomsStatus, PermRoomsCleaned,
		PermPeriodsRead,
		PermGuestsRead, PermGuestsWrite,
		PermProductsRead,
		PermOrdersRead, PermOrdersWrite,
		PermDashboardRead,
	}
	manager := append([]Permission{
		PermRoomsWrite,
		PermPeriodsWrite,
		PermProductsWrite,
		PermUploadsWrite,
	}, reception...)

	return PermissionTable{roles: map[domain.StaffRole]map[Permission]bool{
		domain.RoleAdmin:     permSet(append([]Permission{PermStaffManage}, manager...)),
		domain.RoleManager:   permSet(manager),
		domain.RoleReception: permSet(reception),
		domain.RoleHousekeeping: permSet([]Permission{
			PermRoomsRead, PermRoomsCleaned, PermDashboardRead,
		}),
	}}
}

func permSet(perms []Permission) map[Permission]bool {
	set := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	return set
}

// Allowed reports whether a role carries a permission. Unknown roles carry
// nothing.
func (t PermissionTable) Allowed(role domain.StaffRole, perm Permission) bool {
	return t.roles[role][perm]
}
