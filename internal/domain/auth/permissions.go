package auth

import "context"

const (
	RoleHR     = "HR"
	RoleViewer = "Viewer"
)

const (
	PermEmployeesRead   = "employees.read"
	PermEmployeesWrite  = "employees.write"
	PermEmployeesImport = "employees.import"
	PermEmployeesExport = "employees.export"
	PermAuditRead       = "audit.read"
	PermReportsRead     = "reports.read"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermEmployeesImport,
	PermEmployeesExport,
	PermAuditRead,
	PermReportsRead,
}

var RolePermissions = map[string][]string{
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermEmployeesImport,
		PermEmployeesExport,
		PermAuditRead,
		PermReportsRead,
	},
	RoleViewer: {
		PermEmployeesRead,
		PermEmployeesExport,
	},
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}
