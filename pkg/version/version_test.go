package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "pgedge-tourcast ") {
		t.Errorf("Info should start with the binary name, got '%s'", info)
	}
	if !strings.Contains(info, Version) {
		t.Errorf("Info should contain version %s, got '%s'", Version, info)
	}
}

func TestShort(t *testing.T) {
	if Short() != Version {
		t.Errorf("Expected Short() to return %s, got %s", Version, Short())
	}
}

func TestUserAgent(t *testing.T) {
	if UserAgent() != "pgedge-tourcast/"+Version {
		t.Errorf("Unexpected user agent %s", UserAgent())
	}
}
