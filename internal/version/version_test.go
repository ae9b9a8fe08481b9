package version

import "testing"

func TestDefaults(t *testing.T) {
	for name, v := range map[string]string{"Version": Version, "BuildTime": BuildTime, "GitCommit": GitCommit} {
		if v == "" {
			t.Errorf("%s should be initialized", name)
		}
	}
}

func TestString(t *testing.T) {
	oldVersion, oldCommit, oldTime := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldTime })

	Version, GitCommit, BuildTime = "v1.2.0", "abc1234", "2024-05-01T10:00:00Z"
	want := "documentarian v1.2.0 (commit abc1234, built 2024-05-01T10:00:00Z)"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
