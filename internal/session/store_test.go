package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"railcross"
)

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestStore_SetGetClear(t *testing.T) {
	t.Parallel()

	st := NewStore()

	if _, ok := st.Get(); ok {
		t.Fatalf("fresh store must be empty")
	}
	if st.IsAuthenticated() {
		t.Fatalf("fresh store must not be authenticated")
	}

	sess := railcross.Session{
		Token:   mintToken(t, time.Now().Add(time.Hour)),
		Name:    "Asha Verma",
		Email:   "asha@example.com",
		Role:    railcross.RoleOfficer,
		BadgeID: "RLY-4821",
	}
	st.Set(sess)

	got, ok := st.Get()
	if !ok {
		t.Fatalf("expected session after Set")
	}
	// All profile fields land together with the token.
	if got.Name != sess.Name || got.Email != sess.Email || got.Role != sess.Role || got.BadgeID != sess.BadgeID {
		t.Errorf("profile fields: got %+v", got)
	}
	if !st.IsAuthenticated() {
		t.Errorf("expected authenticated after Set")
	}
	if tok, ok := st.Token(); !ok || tok != sess.Token {
		t.Errorf("Token: got %q ok=%v", tok, ok)
	}

	st.Clear()
	if _, ok := st.Get(); ok {
		t.Errorf("expected empty store after Clear")
	}
	if st.IsAuthenticated() {
		t.Errorf("expected unauthenticated after Clear")
	}
	if _, ok := st.Token(); ok {
		t.Errorf("expected no token after Clear")
	}

	// Clear is idempotent.
	st.Clear()
}

func TestStore_IsAuthenticated(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		sess railcross.Session
		set  bool
		want bool
	}{
		{
			name: "no session at all",
			set:  false,
			want: false,
		},
		{
			name: "session without token",
			sess: railcross.Session{Name: "ghost"},
			set:  true,
			want: false,
		},
		{
			name: "opaque token without readable expiry",
			sess: railcross.Session{Token: "not-a-jwt"},
			set:  true,
			want: true,
		},
		{
			name: "token expiring in the future",
			sess: railcross.Session{Token: "t", ExpiresAt: now.Add(time.Hour)},
			set:  true,
			want: true,
		},
		{
			name: "expired token counts as logged out",
			sess: railcross.Session{Token: "t", ExpiresAt: now.Add(-time.Minute)},
			set:  true,
			want: false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			st := NewStore()
			st.now = func() time.Time { return now }
			if tc.set {
				st.Set(tc.sess)
			}
			if got := st.IsAuthenticated(); got != tc.want {
				t.Errorf("IsAuthenticated: want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestStore_ExpiryFromTokenClaim(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	st := NewStore()
	st.Set(railcross.Session{Token: mintToken(t, exp)})

	got, ok := st.Get()
	if !ok {
		t.Fatalf("expected session")
	}
	if !got.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt: want %v, got %v", exp, got.ExpiresAt)
	}
	if !st.IsAuthenticated() {
		t.Errorf("token with future exp must authenticate")
	}
}

func TestStore_ExpiredJWTIsNotAuthenticated(t *testing.T) {
	t.Parallel()

	st := NewStore()
	st.Set(railcross.Session{Token: mintToken(t, time.Now().Add(-time.Hour))})

	if st.IsAuthenticated() {
		t.Errorf("expired jwt must not authenticate")
	}
}
