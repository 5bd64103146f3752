package models

import "testing"

func TestNotFoundErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  NotFoundError
		want string
	}{
		{
			name: "numeric id",
			err:  NotFoundError{Resource: "order", ID: 42},
			want: "order 42 not found",
		},
		{
			name: "string key",
			err:  NotFoundError{Resource: "user", Key: "chef"},
			want: `user "chef" not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
