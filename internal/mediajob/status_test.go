package mediajob

import "testing"

func TestCanonicalStatus(t *testing.T) {
	cases := []struct {
		vendor string
		want   string
	}{
		{"SUCCEEDED", "completed"},
		{"done", "completed"},
		{"FINISHED", "completed"},
		{"complete", "completed"},
		{"cancelled", "failed"},
		{"canceled", "failed"},
		{"ERROR", "failed"},
		{"failure", "failed"},
		{"queued", "processing"},
		{"running", "processing"},
		{"in_progress", "processing"},
		{" Pending ", "processing"},
		{"warming_up_gpus", "warming_up_gpus"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CanonicalStatus(tc.vendor); got != tc.want {
			t.Fatalf("CanonicalStatus(%q) = %q, want %q", tc.vendor, got, tc.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	for _, s := range []string{"processing", "completed", "failed"} {
		if !Canonical(s) {
			t.Fatalf("Canonical(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"SUCCEEDED", "warming_up_gpus", ""} {
		if Canonical(s) {
			t.Fatalf("Canonical(%q) = true, want false", s)
		}
	}
}
