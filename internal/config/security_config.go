// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic        SecurityLevel = iota // No authentication
	SecurityAuthenticated                      // Any signed-in back-office user
	SecurityValidator                          // ADMIN or CEE
	SecurityAdmin                              // ADMIN only
	SecurityCron                               // Cron bearer secret
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityAuthenticated:
		return "authenticated"
	case SecurityValidator:
		return "validator"
	case SecurityAdmin:
		return "admin"
	case SecurityCron:
		return "cron"
	}
	return "unknown"
}

// EndpointSecurityConfig maps route names to their required security level.
// Keys are HTTP route names or full gRPC method names.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"health": SecurityPublic,
	"login":  SecurityPublic,

	// gRPC health checks
	"/grpc.health.v1.Health/Check": SecurityPublic,
	"/grpc.health.v1.Health/Watch": SecurityPublic,
	"/grpc.health.v1.Health/List":  SecurityPublic,

	// gRPC reservations
	"/backoffice.v1.Reservations/CheckConflict": SecurityValidator,

	"me": SecurityAuthenticated,

	// Commissions
	"commissions.list":   SecurityAdmin,
	"commissions.select": SecurityAdmin,
	"commissions.get":    SecurityAdmin,
	"commissions.create": SecurityAdmin,
	"commissions.update": SecurityAdmin,
	"commissions.delete": SecurityAdmin,

	// Locations
	"locations.list":   SecurityAdmin,
	"locations.select": SecurityValidator,
	"locations.get":    SecurityAdmin,
	"locations.create": SecurityAdmin,
	"locations.update": SecurityAdmin,
	"locations.delete": SecurityAdmin,

	// Users
	"users.list":       SecurityAdmin,
	"users.get":        SecurityAdmin,
	"users.create":     SecurityAdmin,
	"users.update":     SecurityAdmin,
	"users.commission": SecurityAdmin,
	"users.delete":     SecurityAdmin,

	// Reservations
	"reservations.list":      SecurityValidator,
	"reservations.recent":    SecurityValidator,
	"reservations.conflicts": SecurityValidator,
	"reservations.get":       SecurityValidator,
	"reservations.create":    SecurityValidator,
	"reservations.accept":    SecurityValidator,
	"reservations.reject":    SecurityValidator,
	"reservations.delete":    SecurityAdmin,

	// Dashboards and reports
	"dashboard.admin":    SecurityAdmin,
	"dashboard.cee":      SecurityValidator,
	"dashboard.series":   SecurityValidator,
	"reports.monthly":    SecurityAdmin,
	"reports.commission": SecurityValidator,

	"cron.monthly_report": SecurityCron,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest user-facing security for unknown routes
	return SecurityAdmin
}
