package service

import "testing"

func TestStorePasswordRule(t *testing.T) {
	t.Parallel()

	v := newValidator()
	tests := []struct {
		value  string
		wantOK bool
	}{
		{value: "secret12", wantOK: true},
		{value: "a1", wantOK: true},
		{value: "secretonly", wantOK: false},
		{value: "12345678", wantOK: false},
		{value: "Secret12", wantOK: false},
		{value: "secret 12", wantOK: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			if err := v.Var(tt.value, "storepass"); (err == nil) != tt.wantOK {
				t.Errorf("storepass(%q) error = %v, want ok %v", tt.value, err, tt.wantOK)
			}
		})
	}
}
