package security

import (
	"testing"
	"time"
)

// TestOutboundGuard_ValidateURL はアウトバウンドURLの静的検証を検証する。
func TestOutboundGuard_ValidateURL(t *testing.T) {
	guard := NewOutboundGuard()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "public https", url: "https://f-api.github.io/f-api/weather.json", wantErr: false},
		{name: "public http", url: "http://example.com/data", wantErr: false},
		{name: "public IP", url: "https://93.184.216.34/", wantErr: false},
		{name: "empty", url: "", wantErr: true},
		{name: "file scheme", url: "file:///etc/passwd", wantErr: true},
		{name: "gopher scheme", url: "gopher://example.com/", wantErr: true},
		{name: "no host", url: "https://", wantErr: true},
		{name: "localhost", url: "http://localhost:8080/", wantErr: true},
		{name: "loopback IP", url: "http://127.0.0.1/", wantErr: true},
		{name: "private 10.x", url: "http://10.0.0.5/", wantErr: true},
		{name: "private 172.16.x", url: "http://172.16.1.1/", wantErr: true},
		{name: "private 192.168.x", url: "http://192.168.1.1/admin", wantErr: true},
		{name: "cloud metadata IP", url: "http://169.254.169.254/latest/meta-data/", wantErr: true},
		{name: "ipv6 loopback", url: "http://[::1]/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr = %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

// TestOutboundGuard_NewSafeClient はSSRF防止クライアントの生成を検証する。
func TestOutboundGuard_NewSafeClient(t *testing.T) {
	guard := NewOutboundGuard()

	client := guard.NewSafeClient(5 * time.Second)
	if client == nil {
		t.Fatal("NewSafeClient returned nil")
	}
	if client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.Timeout)
	}
}
