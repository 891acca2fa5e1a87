package lang

import "testing"

func TestRangeDetector(t *testing.T) {
	var d RangeDetector
	cases := []struct {
		text string
		want string
	}{
		{"hello, my skin is dry", English},
		{"", English},
		{"שלום", Hebrew},
		{"ok אבל העור שלי יבש", Hebrew},
		{"prix, café, naïve", English},
	}
	for _, tc := range cases {
		if got := d.Detect(tc.text); got != tc.want {
			t.Fatalf("Detect(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
