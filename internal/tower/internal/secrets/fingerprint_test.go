package secrets

import (
	"strings"
	"testing"

	"github.com/onsi/gomega"

	"github.com/hirewire/control-tower/pkg/errors"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		wantCode errors.ServiceErrorCode
	}{
		{
			name:     "empty secret is rejected",
			secret:   "",
			wantCode: errors.ErrorInvalidSecret,
		},
		{
			name:     "oversized secret is rejected",
			secret:   strings.Repeat("x", MaxSecretLength+1),
			wantCode: errors.ErrorInvalidSecret,
		},
		{
			name:   "secret at the maximum length is accepted",
			secret: strings.Repeat("x", MaxSecretLength),
		},
		{
			name:   "typical api key is accepted",
			secret: "sk-live-4242424242424242",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			fingerprint, err := Fingerprint(tt.secret)
			if tt.wantCode != 0 {
				g.Expect(err).ToNot(gomega.BeNil())
				g.Expect(err.Code).To(gomega.Equal(tt.wantCode))
				g.Expect(fingerprint).To(gomega.BeEmpty())
				return
			}
			g.Expect(err).To(gomega.BeNil())
			g.Expect(fingerprint).To(gomega.HavePrefix("sha256:"))
			// one-way: the raw material must not survive into the fingerprint
			g.Expect(fingerprint).ToNot(gomega.ContainSubstring(tt.secret))
		})
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	g := gomega.NewWithT(t)

	first, err := Fingerprint("sk-live-4242424242424242")
	g.Expect(err).To(gomega.BeNil())
	second, err := Fingerprint("sk-live-4242424242424242")
	g.Expect(err).To(gomega.BeNil())
	g.Expect(second).To(gomega.Equal(first))

	other, err := Fingerprint("sk-live-0000000000000000")
	g.Expect(err).To(gomega.BeNil())
	g.Expect(other).ToNot(gomega.Equal(first))
}

func TestDisplayPrefix(t *testing.T) {
	g := gomega.NewWithT(t)

	fingerprint, err := Fingerprint("sk-live-4242424242424242")
	g.Expect(err).To(gomega.BeNil())

	prefix := DisplayPrefix(fingerprint)
	g.Expect(prefix).To(gomega.HaveLen(8))
	g.Expect(prefix).ToNot(gomega.ContainSubstring("sha256:"))
	g.Expect(fingerprint).To(gomega.ContainSubstring(prefix))

	// short values pass through untouched
	g.Expect(DisplayPrefix("abc")).To(gomega.Equal("abc"))
}
