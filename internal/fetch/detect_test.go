package fetch

import "testing"

func TestBlockDetector(t *testing.T) {
	t.Parallel()

	d := NewBlockDetector(nil, nil)

	tests := []struct {
		name    string
		body    string
		blocked bool
	}{
		{
			name:    "challenge phrase in body",
			body:    "<html><body>Our systems have detected unusual traffic from your network.</body></html>",
			blocked: true,
		},
		{
			name:    "recaptcha element",
			body:    "<html><body><div class=\"g-recaptcha\" data-sitekey=\"x\"></div></body></html>",
			blocked: true,
		},
		{
			name:    "challenge title",
			body:    "<html><head><title>Access Denied</title></head><body>-</body></html>",
			blocked: true,
		},
		{
			name:    "ordinary result page",
			body:    "<html><body><table id=\"results\"><tr><td>US11234567</td></tr></table></body></html>",
			blocked: false,
		},
		{
			name:    "json payload ignored",
			body:    `{"results":{"cluster":[]},"note":"access denied happens in prose too"}`,
			blocked: false,
		},
		{
			name:    "xml payload ignored",
			body:    `<?xml version="1.0"?><status>captcha mentioned in content</status>`,
			blocked: false,
		},
		{
			name:    "empty body",
			body:    "",
			blocked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := d.Blocked([]byte(tt.body))
			if got != tt.blocked {
				t.Fatalf("Blocked() = %v (%s), want %v", got, reason, tt.blocked)
			}
		})
	}
}
