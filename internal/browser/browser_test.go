package browser

import (
	"slices"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/article", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"https://", true},
		{"", true},
	}

	for _, tt := range tests {
		err := Validate(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestOpenRejectsBeforeLaunch(t *testing.T) {
	if err := Open("javascript:alert(1)"); err == nil {
		t.Error("expected error")
	}
}

func TestCommand(t *testing.T) {
	const u = "https://example.com"
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"darwin", "open", []string{u}},
		{"linux", "xdg-open", []string{u}},
		{"freebsd", "xdg-open", []string{u}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", u}},
	}
	for _, tt := range tests {
		name, args := command(tt.goos, u)
		if name != tt.wantName || !slices.Equal(args, tt.wantArgs) {
			t.Errorf("command(%q) = %s %v, want %s %v", tt.goos, name, args, tt.wantName, tt.wantArgs)
		}
	}
}
