package model

import "testing"

// TestParseUserRole は権限区分の解析を検証する。
func TestParseUserRole(t *testing.T) {
	tests := []struct {
		input   string
		want    UserRole
		wantErr bool
	}{
		{input: "USER", want: UserRoleUser},
		{input: "ADMIN", want: UserRoleAdmin},
		{input: "user", wantErr: true},
		{input: "SUPERUSER", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUserRole(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseUserRole(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseUserRole(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseUserRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
