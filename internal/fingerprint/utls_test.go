package fingerprint

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTransport_GoProfileIsPlainTransport(t *testing.T) {
	rt, err := Transport(ProfileGo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr, ok := rt.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", rt)
	}
	if tr.DialTLSContext != nil {
		t.Error("go profile must not install a custom TLS dialer")
	}
}

func TestTransport_BrowserProfilesInstallDialer(t *testing.T) {
	for _, p := range []Profile{ProfileChrome, ProfileFirefox, ProfileSafari} {
		rt, err := Transport(p)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", p, err)
		}
		tr, ok := rt.(*http.Transport)
		if !ok {
			t.Fatalf("%s: expected *http.Transport, got %T", p, rt)
		}
		if tr.DialTLSContext == nil {
			t.Errorf("%s: expected a custom TLS dialer", p)
		}
	}
}

func TestTransport_DefaultsToChrome(t *testing.T) {
	rt, err := Transport("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rt.(*http.Transport).DialTLSContext == nil {
		t.Error("empty profile should default to a fingerprinted transport")
	}
}

func TestTransport_UnknownProfile(t *testing.T) {
	if _, err := Transport("netscape"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestTransport_PlainHTTPUnaffected(t *testing.T) {
	// The custom dialer only applies to TLS; plain HTTP must still work.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rt, err := Transport(ProfileChrome)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client := &http.Client{Transport: rt}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
