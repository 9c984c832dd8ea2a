// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

/*
TestPrincipal_Predicates checks the derived role flags over every
combination of role and legacy flags.
*/
func TestPrincipal_Predicates(t *testing.T) {
	tests := []struct {
		name        string
		principal   *sec.Principal
		isAdmin     bool
		isModerator bool
	}{
		{"nil", nil, false, false},
		{"user", &sec.Principal{Role: sec.RoleUser}, false, false},
		{"moderator", &sec.Principal{Role: sec.RoleModerator}, false, true},
		{"admin", &sec.Principal{Role: sec.RoleAdmin}, true, false},
		{"staff_user", &sec.Principal{Role: sec.RoleUser, IsStaff: true}, false, true},
		{"superuser_user", &sec.Principal{Role: sec.RoleUser, IsSuperuser: true}, true, false},
		{"superuser_staff", &sec.Principal{Role: sec.RoleUser, IsStaff: true, IsSuperuser: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isAdmin, tt.principal.IsAdmin())
			assert.Equal(t, tt.isModerator, tt.principal.IsModerator())
		})
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleUser.Valid())
	assert.True(t, sec.RoleModerator.Valid())
	assert.True(t, sec.RoleAdmin.Valid())
	assert.False(t, sec.Role("owner").Valid())
	assert.False(t, sec.Role("").Valid())
}
