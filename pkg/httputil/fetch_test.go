package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	got, err := FetchBytes(context.Background(), srv.Client(), srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "image-bytes" {
		t.Errorf("body = %q", got)
	}
}

func TestFetchBytesRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	got, err := FetchBytes(context.Background(), srv.Client(), srv.URL, 10*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "ok" {
		t.Errorf("body = %q", got)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestFetchBytesClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := FetchBytes(context.Background(), srv.Client(), srv.URL, time.Second); err == nil {
		t.Fatal("want error for 404")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1 (4xx must not retry)", n)
	}
}

func TestFetchBytesTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := FetchBytes(context.Background(), srv.Client(), srv.URL, 50*time.Millisecond)
	if err == nil {
		t.Fatal("want timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("fetch took %v, deadline not enforced", elapsed)
	}
}
