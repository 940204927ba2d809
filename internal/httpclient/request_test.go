package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type payload struct {
	Name string `json:"name"`
}

func TestGetDecodesResultAndSendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("category"); got != "Home & Kitchen" {
			t.Errorf("category query = %q, want escaped round trip", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"ok"}`)
	}))
	defer server.Close()

	client, err := NewInstrumentedClient(
		WithProviderName("test"),
		WithBaseURL(server.URL+"/"),
		WithBearerToken("secret"),
		WithRequestTimeout(time.Second),
	)
	if err != nil {
		t.Fatalf("NewInstrumentedClient: %v", err)
	}

	var out payload
	resp, err := client.NewRequest().
		SetQueryParam("category", "Home & Kitchen").
		SetResult(&out).
		Get(context.Background(), "/products")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.IsError() || out.Name != "ok" {
		t.Errorf("resp.IsError=%v out=%+v", resp.IsError(), out)
	}
}

func TestPostEncodesJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	}))
	defer server.Close()

	client, err := NewInstrumentedClient(WithBaseURL(server.URL))
	if err != nil {
		t.Fatal(err)
	}

	var out payload
	if _, err := client.NewRequest().SetBody(payload{Name: "echo"}).SetResult(&out).Post(context.Background(), "search"); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if out.Name != "echo" {
		t.Errorf("out = %+v", out)
	}
}

func TestResponseErrorHandler(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	errDenied := errors.New("denied")
	client, err := NewInstrumentedClient(WithBaseURL(server.URL))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := client.NewRequestWithOptions(
		WithLabels(NewLabel("endpoint", "products")),
		WithResponseErrorHandler(func(status int, _ []byte) error {
			if status == http.StatusUnauthorized {
				return errDenied
			}
			return nil
		}),
	).Get(context.Background(), "/products")

	if !errors.Is(err, errDenied) {
		t.Fatalf("err = %v, want errDenied", err)
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("response should be returned alongside handler error")
	}
}

func TestDecodeFailureIsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	client, err := NewInstrumentedClient(WithBaseURL(server.URL))
	if err != nil {
		t.Fatal(err)
	}

	var out payload
	_, err = client.NewRequest().SetResult(&out).Get(context.Background(), "/")
	if !errors.Is(err, ErrDecodeResult) {
		t.Errorf("err = %v, want ErrDecodeResult", err)
	}
}
