package linkedin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"announcer/internal/config"
	"announcer/internal/platform"
	"announcer/pkg/logx"
)

func TestMissingSecretsSkipsWithoutNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	a := New(config.LinkedInConfig{OrgID: "123"}, time.Second, logx.Nop()) // token missing
	a.apiURL = srv.URL

	res := a.Send(context.Background(), "hello")
	if res.OK || res.Reason != platform.ReasonMissingSecrets {
		t.Fatalf("unexpected result: %+v", res)
	}
	if called {
		t.Fatalf("unconfigured adapter must not dial")
	}
}

func TestSendSuccessPayloadShape(t *testing.T) {
	var got map[string]any
	var auth, restli string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		restli = r.Header.Get("X-Restli-Protocol-Version")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	a := New(config.LinkedInConfig{AccessToken: "tok", OrgID: "987"}, time.Second, logx.Nop())
	a.apiURL = srv.URL

	res := a.Send(context.Background(), "announcement text")
	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
	if auth != "Bearer tok" {
		t.Fatalf("authorization = %q", auth)
	}
	if restli != "2.0.0" {
		t.Fatalf("restli version = %q", restli)
	}
	if got["author"] != "urn:li:organization:987" {
		t.Fatalf("author = %v", got["author"])
	}
	if got["lifecycleState"] != "PUBLISHED" {
		t.Fatalf("lifecycleState = %v", got["lifecycleState"])
	}
	sc, _ := got["specificContent"].(map[string]any)
	share, _ := sc["com.linkedin.ugc.ShareContent"].(map[string]any)
	commentary, _ := share["shareCommentary"].(map[string]any)
	if commentary["text"] != "announcement text" {
		t.Fatalf("commentary = %v", commentary)
	}
}

func TestSendTransportErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"duplicate"}`))
	}))
	defer srv.Close()

	a := New(config.LinkedInConfig{AccessToken: "tok", OrgID: "987"}, time.Second, logx.Nop())
	a.apiURL = srv.URL

	res := a.Send(context.Background(), "hello")
	if res.OK || res.Reason != platform.ReasonTransport {
		t.Fatalf("unexpected result: %+v", res)
	}
}
