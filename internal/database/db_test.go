package database

import "testing"

// Registration looks up the customer role by name and the admin route group
// gates on access level 50; the seed data must satisfy both.
func TestDefaultRolesCoverRegistrationAndAdminAccess(t *testing.T) {
	byName := make(map[string]int32)
	for _, role := range defaultRoles {
		if _, dup := byName[role.RoleName]; dup {
			t.Fatalf("role %q seeded twice", role.RoleName)
		}
		byName[role.RoleName] = role.AccessLevel
	}

	customerLevel, ok := byName["customer"]
	if !ok {
		t.Fatalf("customer role missing from seed data")
	}
	adminLevel, ok := byName["admin"]
	if !ok {
		t.Fatalf("admin role missing from seed data")
	}
	if adminLevel < 50 {
		t.Errorf("admin access level = %d, want >= 50", adminLevel)
	}
	if customerLevel >= adminLevel {
		t.Errorf("customer access level %d must stay below admin %d", customerLevel, adminLevel)
	}
}
