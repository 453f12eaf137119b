package install

import "testing"

func TestCheckVersion(t *testing.T) {
	cases := []struct {
		version, min string
		wantErr      bool
	}{
		{"1.54", "1.54", false},
		{"1.60", "1.54", false},
		{"1.50", "1.54", true},
		{"1.54", "", false},
		{"", "1.54", true},
		{"garbage", "1.54", true},
	}
	for _, c := range cases {
		err := CheckVersion(c.version, c.min)
		if (err != nil) != c.wantErr {
			t.Errorf("CheckVersion(%q, %q) = %v, wantErr=%v", c.version, c.min, err, c.wantErr)
		}
	}
}
