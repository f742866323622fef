package valueobject

import "testing"

func TestStatusForErrorCount(t *testing.T) {
	tests := []struct {
		count int
		want  StatusLevel
	}{
		{count: 0, want: StatusGreen},
		{count: 3, want: StatusGreen},
		{count: 4, want: StatusYellow},
		{count: 10, want: StatusYellow},
		{count: 11, want: StatusRed},
		{count: 500, want: StatusRed},
	}

	for _, tt := range tests {
		if got := StatusForErrorCount(tt.count); got != tt.want {
			t.Fatalf("StatusForErrorCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestStatusLevelValidate(t *testing.T) {
	for _, s := range []StatusLevel{StatusGreen, StatusYellow, StatusRed} {
		if err := s.Validate(); err != nil {
			t.Fatalf("status %q failed validation: %v", s, err)
		}
	}
	if err := StatusLevel("orange").Validate(); err == nil {
		t.Fatal("expected validation error for unknown status")
	}
}
