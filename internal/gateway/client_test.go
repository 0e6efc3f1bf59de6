package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"railcross/internal/logger"
)

// staticTokens is a TokenSource with a fixed token.
type staticTokens struct {
	token string
}

func (s *staticTokens) Token() (string, bool) {
	return s.token, s.token != ""
}

func newAPIServer(t *testing.T, register func(r *gin.Engine)) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	return NewClient(baseURL, 5*time.Second, &staticTokens{token: token}, logger.Nop())
}

func TestClient_SendsRawTokenAndRequestID(t *testing.T) {
	t.Parallel()

	var gotAuth, gotReqID atomic.Value
	srv := newAPIServer(t, func(r *gin.Engine) {
		r.GET("/get_sensor_data", func(c *gin.Context) {
			gotAuth.Store(c.GetHeader("Authorization"))
			gotReqID.Store(c.GetHeader("X-Request-ID"))
			c.JSON(http.StatusOK, gin.H{})
		})
	})

	client := newTestClient(t, srv.URL, "tok-123")
	if err := client.do(context.Background(), http.MethodGet, "/get_sensor_data", nil, nil, true); err != nil {
		t.Fatalf("do: %v", err)
	}

	if gotAuth.Load() != "tok-123" {
		t.Errorf("Authorization: want raw token, got %q", gotAuth.Load())
	}
	if id, _ := gotReqID.Load().(string); id == "" {
		t.Errorf("X-Request-ID missing")
	}
}

func TestClient_UnauthorizedFiresGlobalHook(t *testing.T) {
	t.Parallel()

	srv := newAPIServer(t, func(r *gin.Engine) {
		r.GET("/history", func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
		})
	})

	client := newTestClient(t, srv.URL, "stale")
	var hookCalls atomic.Int64
	client.OnUnauthorized(func() { hookCalls.Add(1) })

	err := client.do(context.Background(), http.MethodGet, "/history", nil, nil, true)

	f, ok := AsFailure(err)
	if !ok || f.Category != CategoryUnauthorized {
		t.Fatalf("want unauthorized failure, got %v", err)
	}
	if f.Message != "Token expired" {
		t.Errorf("remote message: got %q", f.Message)
	}
	if hookCalls.Load() != 1 {
		t.Errorf("hook calls: want 1, got %d", hookCalls.Load())
	}
}

func TestClient_CredentialDenialDoesNotEscalate(t *testing.T) {
	t.Parallel()

	srv := newAPIServer(t, func(r *gin.Engine) {
		r.POST("/login", func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong password"})
		})
	})

	client := newTestClient(t, srv.URL, "")
	var hookCalls atomic.Int64
	client.OnUnauthorized(func() { hookCalls.Add(1) })

	err := client.do(context.Background(), http.MethodPost, "/login", gin.H{}, nil, false)
	f, ok := AsFailure(err)
	if !ok || f.Category != CategoryRejected {
		t.Fatalf("a 401 on an unauthed call is a plain rejection, got %v", err)
	}
	if f.Message != "Wrong password" {
		t.Errorf("remote message: got %q", f.Message)
	}
	if hookCalls.Load() != 0 {
		t.Errorf("hook must not run for unauthed calls, ran %d times", hookCalls.Load())
	}
}

func TestClient_RejectionCarriesRemoteMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		body   gin.H
		status int
		want   string
	}{
		{"message field", gin.H{"message": "User already exists"}, http.StatusBadRequest, "User already exists"},
		{"legacy error field", gin.H{"error": "Wrong password"}, http.StatusNotFound, "Wrong password"},
		{"empty body", gin.H{}, http.StatusInternalServerError, ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := newAPIServer(t, func(r *gin.Engine) {
				r.POST("/signup", func(c *gin.Context) {
					c.JSON(tc.status, tc.body)
				})
			})
			client := newTestClient(t, srv.URL, "")

			err := client.do(context.Background(), http.MethodPost, "/signup", gin.H{}, nil, false)
			f, ok := AsFailure(err)
			if !ok || f.Category != CategoryRejected {
				t.Fatalf("want rejection, got %v", err)
			}
			if f.Status != tc.status {
				t.Errorf("status: want %d, got %d", tc.status, f.Status)
			}
			if f.Message != tc.want {
				t.Errorf("message: want %q, got %q", tc.want, f.Message)
			}
		})
	}
}

func TestClient_UnreachableIsNotADenial(t *testing.T) {
	t.Parallel()

	srv := newAPIServer(t, func(r *gin.Engine) {})
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url, "tok")
	var hookCalls atomic.Int64
	client.OnUnauthorized(func() { hookCalls.Add(1) })

	err := client.do(context.Background(), http.MethodGet, "/get_sensor_data", nil, nil, true)
	f, ok := AsFailure(err)
	if !ok || f.Category != CategoryUnreachable {
		t.Fatalf("want unreachable failure, got %v", err)
	}
	if hookCalls.Load() != 0 {
		t.Errorf("unreachable must not escalate, hook ran %d times", hookCalls.Load())
	}
}

func TestClient_AuthedCallWithoutTokenFailsLocally(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := newAPIServer(t, func(r *gin.Engine) {
		r.GET("/history", func(c *gin.Context) {
			hits.Add(1)
			c.JSON(http.StatusOK, gin.H{})
		})
	})

	client := newTestClient(t, srv.URL, "")
	err := client.do(context.Background(), http.MethodGet, "/history", nil, nil, true)

	f, ok := AsFailure(err)
	if !ok || f.Category != CategoryUnauthorized {
		t.Fatalf("want unauthorized failure, got %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("no request may leave the client without a token, got %d", hits.Load())
	}
}
