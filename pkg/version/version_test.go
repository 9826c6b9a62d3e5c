package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })

	Version, Commit = "v9.9.9", "0123456789abcdef"
	if got := String(); got != "sv v9.9.9 (0123456)" {
		t.Errorf("String() = %q", got)
	}

	Commit = "abc"
	if got := String(); got != "sv v9.9.9 (abc)" {
		t.Errorf("String() = %q", got)
	}
}

func TestStringDefault(t *testing.T) {
	if !strings.HasPrefix(String(), "sv "+Version) {
		t.Errorf("String() = %q should start with the version", String())
	}
}
